package api

import (
	"net/http"

	"github.com/AlexZinkM/globepay/internal/handler"
	"github.com/AlexZinkM/globepay/internal/model"

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Health reports what GET /healthz shows.
type Health interface {
	Network() string
	Connected() bool
}

type Observer interface {
	ObserveRateLimited()
	Handler() http.Handler
}

type Options struct {
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	TrustProxy     bool // take the client address from X-Forwarded-For / X-Real-IP
}

// NewServeMux registers every handler plus the operational endpoints.
func NewServeMux(routes []handler.Handler, health Health, obs Observer, log *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	if obs != nil {
		mux.Handle("GET /metrics", obs.Handler())
	} else {
		mux.Handle("GET /metrics", promhttp.Handler())
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, log, http.StatusOK, model.HealthResponse{
			Status:    "ok",
			Network:   health.Network(),
			Connected: health.Connected(),
		})
	})

	for _, route := range routes {
		route.ServeHttp(mux)
	}
	return mux
}

// SetupRouter wraps the mux with recovery, rate limiting and CORS.
func SetupRouter(mux *http.ServeMux, opts Options, obs Observer, log *zap.Logger) http.Handler {
	limiter := NewIPLimiter(opts.RateLimitRPS, opts.RateLimitBurst)

	var h http.Handler = mux
	h = rateLimit(h, limiter, obs, log)
	if opts.TrustProxy {
		h = handlers.ProxyHeaders(h)
	}
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{log: log.Named("http")}),
		handlers.PrintRecoveryStack(false),
	)(h)

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	h = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(h)
	return h
}

func rateLimit(next http.Handler, limiter *IPLimiter, obs Observer, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(clientIP(r)) {
			if obs != nil {
				obs.ObserveRateLimited()
			}
			writeJSON(w, log, http.StatusTooManyRequests, model.ErrorResponse{Error: "too many requests", Code: "RATE_LIMITED"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type recoveryLogger struct {
	log *zap.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error("panic recovered", zap.Any("panic", v))
}

package handler

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/AlexZinkM/globepay/internal/config"
	"github.com/AlexZinkM/globepay/internal/model"

	"go.uber.org/zap"
)

// PrimaryNetwork is the SDK client that owns the active cluster.
type PrimaryNetwork interface {
	Network() string
	Reconfigure(network string, ep config.Endpoints) error
}

type FallbackNetwork interface {
	Reconfigure(ep config.Endpoints)
}

type NetworkListener interface {
	OnNetworkChange(ctx context.Context)
}

type NetworkObserver interface {
	ObserveNetworkSwitch()
}

type noopNetworkObserver struct{}

func (noopNetworkObserver) ObserveNetworkSwitch() {}

type NetworkHandler struct {
	handler
	cfg      *config.Config
	primary  PrimaryNetwork
	fallback FallbackNetwork
	wallet   NetworkListener
	obs      NetworkObserver

	mu sync.Mutex
}

func NewNetworkHandler(cfg *config.Config, primary PrimaryNetwork, fallback FallbackNetwork, wallet NetworkListener, obs NetworkObserver, log *zap.Logger) *NetworkHandler {
	if obs == nil {
		obs = noopNetworkObserver{}
	}
	return &NetworkHandler{
		handler:  handler{log: log.Named("http.network")},
		cfg:      cfg,
		primary:  primary,
		fallback: fallback,
		wallet:   wallet,
		obs:      obs,
	}
}

func (h *NetworkHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("GET /network", h.Get)
	mux.HandleFunc("PUT /network", h.Switch)
}

func (h *NetworkHandler) describe(network string) (model.NetworkResponse, error) {
	ep, err := h.cfg.Cluster(network)
	if err != nil {
		return model.NetworkResponse{}, err
	}
	return model.NetworkResponse{
		Network:     network,
		RPCURL:      ep.RPCURL,
		FallbackURL: ep.FallbackURL,
		USDCMint:    ep.USDCMint,
	}, nil
}

// Get handles GET /network
// @Summary      Active network
// @Description  Returns the cluster the ledger clients are connected to
// @Tags         network
// @Produce      json
// @Success      200  {object}  model.NetworkResponse
// @Router       /network [get]
func (h *NetworkHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.describe(h.primary.Network())
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, resp)
}

// Switch handles PUT /network
// @Summary      Switch network
// @Description  Points both ledger clients at another cluster and refreshes the wallet balance
// @Tags         network
// @Accept       json
// @Produce      json
// @Param        request  body      model.NetworkRequest  true  "Target network"
// @Success      200      {object}  model.NetworkResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /network [put]
func (h *NetworkHandler) Switch(w http.ResponseWriter, r *http.Request) {
	req, err := bind[model.NetworkRequest](r)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.mu.Lock()
	resp, err := h.switchTo(r.Context(), req.Network)
	h.mu.Unlock()
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, resp)
}

func (h *NetworkHandler) switchTo(ctx context.Context, network string) (model.NetworkResponse, error) {
	resp, err := h.describe(network)
	if err != nil {
		return model.NetworkResponse{}, err
	}
	previous := h.primary.Network()
	if previous == network {
		return resp, nil
	}

	ep := config.Endpoints{RPCURL: resp.RPCURL, FallbackURL: resp.FallbackURL, USDCMint: resp.USDCMint}
	if err := h.primary.Reconfigure(network, ep); err != nil {
		return model.NetworkResponse{}, fmt.Errorf("failed to switch network: %w", err)
	}
	h.fallback.Reconfigure(ep)
	h.obs.ObserveNetworkSwitch()
	h.log.Info("network switched", zap.String("from", previous), zap.String("to", network))

	h.wallet.OnNetworkChange(ctx)
	return resp, nil
}

// Package handler exposes the wallet, transfer, swap and payroll services over HTTP.
package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Handler registers its routes on a mux.
type Handler interface {
	ServeHttp(*http.ServeMux)
}

type handler struct {
	log *zap.Logger
}

func (h handler) JSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Warn("failed to write response", zap.Error(err))
	}
}

package handler

import (
	"context"
	"net/http"

	"github.com/AlexZinkM/globepay/internal/model"

	"go.uber.org/zap"
)

type SwapService interface {
	Rates() model.RatesResponse
	Quote(from, to, amount string) (model.Quote, error)
	Execute(ctx context.Context, req model.SwapRequest) (model.SwapRecord, error)
}

type SwapRecords interface {
	ListSwaps(ctx context.Context, limit, offset int) ([]model.SwapRecord, error)
}

type SwapHandler struct {
	handler
	swaps   SwapService
	records SwapRecords
}

func NewSwapHandler(swaps SwapService, records SwapRecords, log *zap.Logger) *SwapHandler {
	return &SwapHandler{
		handler: handler{log: log.Named("http.swap")},
		swaps:   swaps,
		records: records,
	}
}

func (h *SwapHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("GET /swap/rates", h.Rates)
	mux.HandleFunc("GET /swap/quote", h.Quote)
	mux.HandleFunc("POST /swaps", h.Swap)
	mux.HandleFunc("GET /swaps", h.ListSwaps)
}

// Rates handles GET /swap/rates
// @Summary      Exchange rates
// @Description  Supported currencies and the listed pairs. Unlisted pairs trade at 1.
// @Tags         swap
// @Produce      json
// @Success      200  {object}  model.RatesResponse
// @Router       /swap/rates [get]
func (h *SwapHandler) Rates(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, h.swaps.Rates())
}

// Quote handles GET /swap/quote
// @Summary      Quote a swap
// @Description  Prices an amount at the current rate with price impact and estimated fee
// @Tags         swap
// @Produce      json
// @Param        from    query     string  true  "Source currency"
// @Param        to      query     string  true  "Target currency"
// @Param        amount  query     string  true  "Source amount"
// @Success      200     {object}  model.Quote
// @Failure      400     {object}  model.ErrorResponse
// @Router       /swap/quote [get]
func (h *SwapHandler) Quote(w http.ResponseWriter, r *http.Request) {
	req, err := bind[model.QuoteRequest](r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	quote, err := h.swaps.Quote(req.From, req.To, req.Amount)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, quote)
}

// Swap handles POST /swaps
// @Summary      Execute a swap
// @Description  Records a swap at the current rate. Depending on the configured mode nothing moves on chain, or the source amount is sent back to the wallet itself.
// @Tags         swap
// @Accept       json
// @Produce      json
// @Param        request  body      model.SwapRequest  true  "Swap"
// @Success      201      {object}  model.SwapRecord
// @Failure      400      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /swaps [post]
func (h *SwapHandler) Swap(w http.ResponseWriter, r *http.Request) {
	req, err := bind[model.SwapRequest](r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	rec, err := h.swaps.Execute(r.Context(), *req)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusCreated, rec)
}

// ListSwaps handles GET /swaps
// @Summary      Swap history
// @Tags         swap
// @Produce      json
// @Param        limit   query     int  false  "Page size"  default(50)
// @Param        offset  query     int  false  "Offset"     default(0)
// @Success      200     {array}   model.SwapRecord
// @Router       /swaps [get]
func (h *SwapHandler) ListSwaps(w http.ResponseWriter, r *http.Request) {
	req, err := bind[model.ListRequest](r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	recs, err := h.records.ListSwaps(r.Context(), req.Limit, req.Offset)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, recs)
}

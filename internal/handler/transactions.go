package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/AlexZinkM/globepay/internal/common"
	"github.com/AlexZinkM/globepay/internal/model"
	"github.com/AlexZinkM/globepay/internal/transfer"

	"go.uber.org/zap"
)

type HistoryService interface {
	List(ctx context.Context, req *model.HistoryRequest) (*model.HistoryResponse, error)
	Get(ctx context.Context, hash string) (*model.TransactionDetail, error)
}

type TransferService interface {
	Send(ctx context.Context, req transfer.Request) (model.TransactionRecord, error)
}

type TransferRecords interface {
	ListTransfers(ctx context.Context, limit, offset int) ([]model.TransactionRecord, error)
}

type TransactionHandler struct {
	handler
	history   HistoryService
	transfers TransferService
	records   TransferRecords
}

func NewTransactionHandler(history HistoryService, transfers TransferService, records TransferRecords, log *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		handler:   handler{log: log.Named("http.transactions")},
		history:   history,
		transfers: transfers,
		records:   records,
	}
}

func (h *TransactionHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("GET /transactions", h.TransactionHistory)
	mux.HandleFunc("GET /transactions/{hash}", h.Transaction)
	mux.HandleFunc("POST /transfers", h.Transfer)
	mux.HandleFunc("GET /transfers", h.ListTransfers)
}

// TransactionHistory handles GET /transactions
// @Summary      Get wallet transactions
// @Description  Gets list of wallet transactions with filtering capability (USDC and SOL)
// @Tags         transactions
// @Produce      json
// @Param        type       query     string   false  "Transaction type: DEBIT or CREDIT"
// @Param        txId       query     string   false  "Transaction ID"
// @Param        from       query     string   false  "Start date (YYYY-MM-DD)"
// @Param        to         query     string   false  "End date (YYYY-MM-DD)"
// @Param        minAmount  query     string   false  "Minimum amount"
// @Param        maxAmount  query     string   false  "Maximum amount"
// @Param        currency   query     string   false  "Filter by currency: USDC or SOL"
// @Param        limit      query     int      false  "Signatures to scan"  default(100)
// @Success      200  {object}  model.HistoryResponse
// @Failure      400  {object}  model.ErrorResponse
// @Router       /transactions [get]
func (h *TransactionHandler) TransactionHistory(w http.ResponseWriter, r *http.Request) {
	req := model.HistoryRequest{Limit: 100}
	q := r.URL.Query()

	// Parse date parameters (YYYY-MM-DD)
	const dateLayout = "2006-01-02"
	if fromStr := q.Get("from"); fromStr != "" {
		t, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			h.Error(w, r, &BindError{Message: "invalid from date: use YYYY-MM-DD (e.g. 2006-01-02)", Err: err})
			return
		}
		req.From = &t
	}
	if toStr := q.Get("to"); toStr != "" {
		t, err := time.Parse(dateLayout, toStr)
		if err != nil {
			h.Error(w, r, &BindError{Message: "invalid to date: use YYYY-MM-DD (e.g. 2006-01-02)", Err: err})
			return
		}
		// End of day so filter is inclusive
		t = t.Add(24*time.Hour - time.Nanosecond)
		req.To = &t
	}

	if typeStr := q.Get("type"); typeStr != "" {
		txType := model.TransactionType(typeStr)
		req.Type = &txType
	}
	if txID := q.Get("txId"); txID != "" {
		req.TxID = &txID
	}
	if minAmount := q.Get("minAmount"); minAmount != "" {
		req.MinAmount = &minAmount
	}
	if maxAmount := q.Get("maxAmount"); maxAmount != "" {
		req.MaxAmount = &maxAmount
	}
	if currency := q.Get("currency"); currency != "" {
		req.Currency = &currency
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			h.Error(w, r, &BindError{Message: "limit must be a number", Err: err})
			return
		}
		req.Limit = n
	}

	if err := req.Validate(); err != nil {
		h.Error(w, r, &BindError{Message: err.Error(), Err: err})
		return
	}
	if err := validate.Struct(&req); err != nil {
		h.Error(w, r, bindError(err))
		return
	}

	resp, err := h.history.List(r.Context(), &req)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, resp)
}

// Transaction handles GET /transactions/{hash}
// @Summary      Get transaction
// @Description  One transaction with the movements that concern the connected wallet
// @Tags         transactions
// @Produce      json
// @Param        hash  path      string  true  "Transaction signature"
// @Success      200   {object}  model.TransactionDetail
// @Failure      404   {object}  model.ErrorResponse
// @Router       /transactions/{hash} [get]
func (h *TransactionHandler) Transaction(w http.ResponseWriter, r *http.Request) {
	detail, err := h.history.Get(r.Context(), r.PathValue("hash"))
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, detail)
}

// Transfer handles POST /transfers
// @Summary      Send SOL or USDC
// @Description  Sends a transfer from the connected wallet. With wait (default) the response comes after the ledger confirms it.
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        request  body      model.TransferRequest  true  "Payment data"
// @Success      200      {object}  model.TransactionRecord
// @Failure      400      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Failure      429      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /transfers [post]
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	req, err := bind[model.TransferRequest](r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	asset, err := common.LookupAsset(req.Asset)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	wait := true
	if req.Wait != nil {
		wait = *req.Wait
	}

	rec, err := h.transfers.Send(r.Context(), transfer.Request{
		Recipient: req.Recipient,
		Amount:    req.Amount,
		Asset:     asset,
		Wait:      wait,
	})
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, rec)
}

// ListTransfers handles GET /transfers
// @Summary      Submitted transfers
// @Description  Transfers sent by this service, newest first
// @Tags         transfers
// @Produce      json
// @Param        limit   query     int  false  "Page size"  default(50)
// @Param        offset  query     int  false  "Offset"     default(0)
// @Success      200     {array}   model.TransactionRecord
// @Router       /transfers [get]
func (h *TransactionHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	req, err := bind[model.ListRequest](r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	recs, err := h.records.ListTransfers(r.Context(), req.Limit, req.Offset)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, recs)
}

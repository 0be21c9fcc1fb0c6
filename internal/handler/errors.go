package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/AlexZinkM/globepay/internal/client"
	"github.com/AlexZinkM/globepay/internal/common"
	"github.com/AlexZinkM/globepay/internal/crypto"
	"github.com/AlexZinkM/globepay/internal/ledger"
	"github.com/AlexZinkM/globepay/internal/model"
	"github.com/AlexZinkM/globepay/internal/payroll"
	"github.com/AlexZinkM/globepay/internal/store"
	"github.com/AlexZinkM/globepay/internal/swap"
	"github.com/AlexZinkM/globepay/internal/transfer"
	"github.com/AlexZinkM/globepay/internal/wallet"

	"go.uber.org/zap"
)

const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeUnprocessable       = "UNPROCESSABLE"
	CodeCooldown            = "COOLDOWN"
	CodeLedger              = "LEDGER_ERROR"
	CodeTimeout             = "TIMEOUT"
	CodeInternal            = "INTERNAL_ERROR"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Order matters: the first matching sentinel wins.
var errorMappings = []errorMapping{
	{common.ErrInvalidAmount, http.StatusBadRequest, CodeValidation},
	{common.ErrUnsupportedAsset, http.StatusBadRequest, CodeValidation},
	{swap.ErrUnsupportedCurrency, http.StatusBadRequest, CodeValidation},
	{crypto.ErrInvalidMnemonic, http.StatusBadRequest, CodeValidation},
	{ledger.ErrInvalidAddress, http.StatusBadRequest, CodeValidation},

	{store.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{crypto.ErrNoWallet, http.StatusNotFound, CodeNotFound},
	{ledger.ErrResourceNotFound, http.StatusNotFound, CodeNotFound},

	{wallet.ErrNotConnected, http.StatusConflict, CodeConflict},
	{crypto.ErrWalletExists, http.StatusConflict, CodeConflict},
	{crypto.ErrInvalidPassword, http.StatusConflict, CodeConflict},
	{crypto.ErrKeyMismatch, http.StatusConflict, CodeConflict},
	{client.ErrAirdropUnavailable, http.StatusConflict, CodeConflict},

	{transfer.ErrInsufficientBalance, http.StatusUnprocessableEntity, CodeInsufficientBalance},
	{payroll.ErrNoActiveEmployees, http.StatusUnprocessableEntity, CodeUnprocessable},

	{transfer.ErrCooldown, http.StatusTooManyRequests, CodeCooldown},

	{ledger.ErrUnavailable, http.StatusBadGateway, CodeLedger},
	{ledger.ErrSubmission, http.StatusBadGateway, CodeLedger},

	{context.DeadlineExceeded, http.StatusGatewayTimeout, CodeTimeout},
}

// StatusFor maps a service error onto an HTTP status and error code.
func StatusFor(err error) (int, string) {
	var be *BindError
	if errors.As(err, &be) {
		return http.StatusBadRequest, CodeValidation
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, CodeInternal
}

func (h handler) Error(w http.ResponseWriter, r *http.Request, err error) {
	status, code := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		h.log.Debug("request rejected", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
	}
	h.JSON(w, status, model.ErrorResponse{Error: err.Error(), Code: code})
}

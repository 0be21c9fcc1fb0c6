package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/AlexZinkM/globepay/internal/client"
	"github.com/AlexZinkM/globepay/internal/common"
	"github.com/AlexZinkM/globepay/internal/ledger"
	"github.com/AlexZinkM/globepay/internal/model"

	"go.uber.org/zap"
)

type WalletService interface {
	Connect(ctx context.Context) (model.ConnectResponse, error)
	CreateNew(ctx context.Context) (model.ConnectResponse, error)
	Import(ctx context.Context, mnemonic string) (model.ConnectResponse, error)
	Disconnect()
	Forget() error
	Refresh(ctx context.Context) (model.WalletState, error)
	State() model.WalletState
	Address() (string, error)
	QR() ([]byte, error)
}

type BalanceService interface {
	Balance(ctx context.Context, owner string, asset common.Asset) (ledger.Reading, error)
	CrossCheck(ctx context.Context, owner string, asset common.Asset) ledger.Comparison
}

type PriceSource interface {
	Price(ctx context.Context, coinID, fiat string) (float64, error)
}

type AccountChain interface {
	AccountStatus(ctx context.Context, owner string) (model.AccountStatus, error)
	RequestAirdrop(ctx context.Context, owner string, lamports uint64) (string, error)
}

type WalletHandler struct {
	handler
	wallet   WalletService
	balances BalanceService
	prices   PriceSource
	chain    AccountChain
	fiat     string
}

func NewWalletHandler(wallet WalletService, balances BalanceService, prices PriceSource, chain AccountChain, fiat string, log *zap.Logger) *WalletHandler {
	return &WalletHandler{
		handler:  handler{log: log.Named("http.wallet")},
		wallet:   wallet,
		balances: balances,
		prices:   prices,
		chain:    chain,
		fiat:     strings.ToLower(fiat),
	}
}

func (h *WalletHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("GET /wallet", h.GetState)
	mux.HandleFunc("DELETE /wallet", h.Forget)
	mux.HandleFunc("POST /wallet/connect", h.Connect)
	mux.HandleFunc("POST /wallet/new", h.CreateNew)
	mux.HandleFunc("POST /wallet/import", h.Import)
	mux.HandleFunc("POST /wallet/disconnect", h.Disconnect)
	mux.HandleFunc("POST /wallet/refresh", h.Refresh)
	mux.HandleFunc("GET /wallet/balance", h.GetBalance)
	mux.HandleFunc("GET /wallet/balance/crosscheck", h.CrossCheck)
	mux.HandleFunc("GET /wallet/status", h.Status)
	mux.HandleFunc("GET /wallet/qr", h.QR)
	mux.HandleFunc("POST /wallet/airdrop", h.Airdrop)
}

// GetState handles GET /wallet
// @Summary      Wallet state
// @Description  Returns the connection state and the last reconciled balance
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletState
// @Router       /wallet [get]
func (h *WalletHandler) GetState(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, h.wallet.State())
}

// Connect handles POST /wallet/connect
// @Summary      Connect wallet
// @Description  Restores the stored wallet, or creates one when none exists, and refreshes its balance
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.ConnectResponse
// @Failure      500  {object}  model.ErrorResponse
// @Router       /wallet/connect [post]
func (h *WalletHandler) Connect(w http.ResponseWriter, r *http.Request) {
	resp, err := h.wallet.Connect(r.Context())
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, resp)
}

// CreateNew handles POST /wallet/new
// @Summary      Create new wallet
// @Description  Replaces the stored wallet with a new one. The mnemonic is returned only in this response.
// @Tags         wallet
// @Produce      json
// @Success      201  {object}  model.ConnectResponse
// @Router       /wallet/new [post]
func (h *WalletHandler) CreateNew(w http.ResponseWriter, r *http.Request) {
	resp, err := h.wallet.CreateNew(r.Context())
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusCreated, resp)
}

// Import handles POST /wallet/import
// @Summary      Import wallet
// @Description  Replaces the stored wallet with one restored from a BIP-39 mnemonic
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.ImportRequest  true  "Mnemonic"
// @Success      200      {object}  model.ConnectResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /wallet/import [post]
func (h *WalletHandler) Import(w http.ResponseWriter, r *http.Request) {
	req, err := bind[model.ImportRequest](r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	resp, err := h.wallet.Import(r.Context(), req.Mnemonic)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, resp)
}

// Disconnect handles POST /wallet/disconnect
// @Summary      Disconnect wallet
// @Description  Clears the in-memory wallet state. The keystore file is kept.
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletState
// @Router       /wallet/disconnect [post]
func (h *WalletHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	h.wallet.Disconnect()
	h.JSON(w, http.StatusOK, h.wallet.State())
}

// Forget handles DELETE /wallet
// @Summary      Forget wallet
// @Description  Disconnects and removes the keystore file
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletState
// @Router       /wallet [delete]
func (h *WalletHandler) Forget(w http.ResponseWriter, r *http.Request) {
	if err := h.wallet.Forget(); err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, h.wallet.State())
}

// Refresh handles POST /wallet/refresh
// @Summary      Refresh balance
// @Description  Reconciles the wallet balance against the ledger now
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletState
// @Failure      409  {object}  model.ErrorResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /wallet/refresh [post]
func (h *WalletHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	state, err := h.wallet.Refresh(r.Context())
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, state)
}

// GetBalance handles GET /wallet/balance
// @Summary      Get wallet balance
// @Description  Reads the balance of one asset from the ledger, with its fiat value when a price is available
// @Tags         wallet
// @Produce      json
// @Param        asset  query     string  false  "SOL or USDC"  default(SOL)
// @Success      200    {object}  model.BalanceResponse
// @Failure      409    {object}  model.ErrorResponse
// @Failure      502    {object}  model.ErrorResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	req, err := bind[model.BalanceRequest](r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	asset, err := common.LookupAsset(req.Asset)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	address, err := h.wallet.Address()
	if err != nil {
		h.Error(w, r, err)
		return
	}

	reading, err := h.balances.Balance(r.Context(), address, asset)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	resp := model.BalanceResponse{
		Address:    address,
		Asset:      asset.Symbol,
		Balance:    asset.Format(reading.Units),
		Found:      reading.Found,
		Source:     string(reading.Source),
		ObservedAt: reading.ObservedAt,
	}
	h.addFiat(r.Context(), &resp, asset, reading.Units)
	h.JSON(w, http.StatusOK, resp)
}

// addFiat values the balance in the configured fiat currency. A missing price
// leaves the fiat fields empty.
func (h *WalletHandler) addFiat(ctx context.Context, resp *model.BalanceResponse, asset common.Asset, units uint64) {
	if h.prices == nil || h.fiat == "" {
		return
	}
	coinID, ok := client.CoinGeckoIDs[asset.Symbol]
	if !ok {
		return
	}
	price, err := h.prices.Price(ctx, coinID, h.fiat)
	if err != nil {
		h.log.Warn("fiat price unavailable", zap.String("asset", asset.Symbol), zap.Error(err))
		return
	}
	resp.Fiat = strings.ToUpper(h.fiat)
	resp.FiatRate = strconv.FormatFloat(price, 'f', -1, 64)
	resp.FiatValue = strconv.FormatFloat(common.UnitsToFloat(units, asset.Decimals)*price, 'f', 2, 64)
}

// CrossCheck handles GET /wallet/balance/crosscheck
// @Summary      Compare balance sources
// @Description  Reads the balance from the SDK client and the fallback endpoint side by side
// @Tags         wallet
// @Produce      json
// @Param        asset  query     string  false  "SOL or USDC"  default(SOL)
// @Success      200    {object}  model.CrossCheckResponse
// @Router       /wallet/balance/crosscheck [get]
func (h *WalletHandler) CrossCheck(w http.ResponseWriter, r *http.Request) {
	req, err := bind[model.BalanceRequest](r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	asset, err := common.LookupAsset(req.Asset)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	address, err := h.wallet.Address()
	if err != nil {
		h.Error(w, r, err)
		return
	}

	cmp := h.balances.CrossCheck(r.Context(), address, asset)
	side := func(res ledger.SourceResult) model.SourceBalance {
		sb := model.SourceBalance{Balance: asset.Format(res.Units), Found: res.Found}
		if res.Err != nil {
			sb.Error = res.Err.Error()
		}
		return sb
	}
	h.JSON(w, http.StatusOK, model.CrossCheckResponse{
		Address:  address,
		Asset:    asset.Symbol,
		Primary:  side(cmp.Primary),
		Fallback: side(cmp.Fallback),
		Agree:    cmp.Agree(),
	})
}

// Status handles GET /wallet/status
// @Summary      Account status
// @Description  Reports whether the account exists on chain and whether it has any transactions
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.AccountStatus
// @Router       /wallet/status [get]
func (h *WalletHandler) Status(w http.ResponseWriter, r *http.Request) {
	address, err := h.wallet.Address()
	if err != nil {
		h.Error(w, r, err)
		return
	}
	status, err := h.chain.AccountStatus(r.Context(), address)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, status)
}

// QR handles GET /wallet/qr
// @Summary      Address QR code
// @Description  PNG QR code of the connected address
// @Tags         wallet
// @Produce      png
// @Success      200
// @Router       /wallet/qr [get]
func (h *WalletHandler) QR(w http.ResponseWriter, r *http.Request) {
	png, err := h.wallet.QR()
	if err != nil {
		h.Error(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.log.Warn("failed to write QR code", zap.Error(err))
	}
}

// Airdrop handles POST /wallet/airdrop
// @Summary      Request airdrop
// @Description  Funds the wallet from the cluster faucet (devnet and testnet only)
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.AirdropRequest  false  "Amount in SOL"
// @Success      200      {object}  model.AirdropResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /wallet/airdrop [post]
func (h *WalletHandler) Airdrop(w http.ResponseWriter, r *http.Request) {
	req, err := bind[model.AirdropRequest](r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	lamports, err := common.ParsePositiveAmount(req.Amount, common.SOLDecimals)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	address, err := h.wallet.Address()
	if err != nil {
		h.Error(w, r, err)
		return
	}

	sig, err := h.chain.RequestAirdrop(r.Context(), address, lamports)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.log.Info("airdrop requested", zap.String("address", address), zap.String("signature", sig))
	h.JSON(w, http.StatusOK, model.AirdropResponse{Signature: sig, Amount: common.LamportsToSOL(lamports)})
}

package client

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/AlexZinkM/globepay/internal/common"
	"github.com/AlexZinkM/globepay/internal/config"
	"github.com/AlexZinkM/globepay/internal/ledger"
	"github.com/AlexZinkM/globepay/internal/model"

	"github.com/cenkalti/backoff/v4"
	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// ErrAirdropUnavailable is returned when the current network has no faucet.
var ErrAirdropUnavailable = errors.New("airdrop is not available on this network")

// SolanaClient is a client for working with Solana RPC.
// It is safe for concurrent use; Reconfigure swaps the endpoint for every caller at once.
type SolanaClient struct {
	mu       sync.RWMutex
	network  string
	rpc      *rpc.Client
	usdcMint solana.PublicKey
	hasMint  bool

	pollInterval time.Duration
	log          *zap.Logger
}

// NewSolanaClient creates a client bound to one cluster.
func NewSolanaClient(network string, ep config.Endpoints, log *zap.Logger) (*SolanaClient, error) {
	c := &SolanaClient{
		pollInterval: time.Second,
		log:          log.Named("solana"),
	}
	if err := c.Reconfigure(network, ep); err != nil {
		return nil, err
	}
	return c, nil
}

// Reconfigure points the client at another cluster.
func (c *SolanaClient) Reconfigure(network string, ep config.Endpoints) error {
	var mint solana.PublicKey
	hasMint := ep.USDCMint != ""
	if hasMint {
		var err error
		mint, err = solana.PublicKeyFromBase58(ep.USDCMint)
		if err != nil {
			return fmt.Errorf("invalid USDC mint address: %w", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.network = network
	c.rpc = rpc.New(ep.RPCURL)
	c.usdcMint = mint
	c.hasMint = hasMint
	c.log.Info("solana client configured", zap.String("network", network), zap.String("rpc", ep.RPCURL))
	return nil
}

// Network returns the cluster the client currently talks to.
func (c *SolanaClient) Network() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.network
}

type clusterView struct {
	network  string
	rpc      *rpc.Client
	usdcMint solana.PublicKey
	hasMint  bool
}

// view returns a consistent snapshot so one operation never mixes two clusters.
func (c *SolanaClient) view() clusterView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clusterView{network: c.network, rpc: c.rpc, usdcMint: c.usdcMint, hasMint: c.hasMint}
}

func (v clusterView) mint(asset common.Asset) (solana.PublicKey, error) {
	if !v.hasMint {
		return solana.PublicKey{}, fmt.Errorf("%s has no mint on %s: %w", asset.Symbol, v.network, ledger.ErrResourceNotFound)
	}
	return v.usdcMint, nil
}

func parseAddress(address string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(strings.TrimSpace(address))
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %q: %v", ledger.ErrInvalidAddress, address, err)
	}
	return pk, nil
}

// Balance returns the balance of owner in base units.
// A missing account or token account yields ledger.ErrResourceNotFound.
func (c *SolanaClient) Balance(ctx context.Context, owner string, asset common.Asset) (uint64, error) {
	ownerPubkey, err := parseAddress(owner)
	if err != nil {
		return 0, err
	}
	v := c.view()

	if asset.Native {
		balance, err := v.rpc.GetBalance(ctx, ownerPubkey, rpc.CommitmentConfirmed)
		if err != nil {
			return 0, fmt.Errorf("failed to get SOL balance: %w", err)
		}
		// accounts with zero lamports do not exist on chain
		if balance.Value == 0 {
			return 0, ledger.ErrResourceNotFound
		}
		return balance.Value, nil
	}

	mint, err := v.mint(asset)
	if err != nil {
		return 0, err
	}
	ataAddress, _, err := solana.FindAssociatedTokenAddress(ownerPubkey, mint)
	if err != nil {
		return 0, fmt.Errorf("failed to find associated token account address: %w", err)
	}

	balance, err := v.rpc.GetTokenAccountBalance(ctx, ataAddress, rpc.CommitmentConfirmed)
	if err != nil {
		if isNotFoundError(err) {
			return 0, ledger.ErrResourceNotFound
		}
		return 0, fmt.Errorf("failed to get token account balance: %w", err)
	}
	if balance.Value == nil {
		return 0, nil
	}

	amount, err := strconv.ParseUint(balance.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s balance amount: %w", asset.Symbol, err)
	}
	return amount, nil
}

// Transfer builds, signs and submits a transfer of units of asset from the key's account to `to`.
// For SPL assets the recipient token account is created in the same transaction when missing.
func (c *SolanaClient) Transfer(ctx context.Context, key solana.PrivateKey, to string, asset common.Asset, units uint64) (string, error) {
	toPubkey, err := parseAddress(to)
	if err != nil {
		return "", err
	}
	if len(key) != 64 {
		return "", fmt.Errorf("%w: invalid private key length: expected 64 bytes", ledger.ErrSubmission)
	}
	payer := key.PublicKey()
	v := c.view()

	var instructions []solana.Instruction
	if asset.Native {
		instructions = append(instructions, system.NewTransferInstruction(units, payer, toPubkey).Build())
	} else {
		ixs, err := c.tokenTransferInstructions(ctx, v, payer, toPubkey, asset, units)
		if err != nil {
			return "", err
		}
		instructions = ixs
	}

	recent, err := v.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("%w: failed to get recent blockhash: %v", ledger.ErrSubmission, err)
	}

	tx, err := solana.NewTransaction(instructions, recent.Value.Blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create transaction: %v", ledger.ErrSubmission, err)
	}

	_, err = tx.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
		if payer.Equals(pk) {
			return &key
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to sign transaction: %v", ledger.ErrSubmission, err)
	}

	sig, err := v.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to send transaction: %v", ledger.ErrSubmission, err)
	}

	c.log.Info("transaction submitted",
		zap.String("signature", sig.String()),
		zap.String("asset", asset.Symbol),
		zap.String("to", toPubkey.String()))
	return sig.String(), nil
}

func (c *SolanaClient) tokenTransferInstructions(ctx context.Context, v clusterView, payer, toPubkey solana.PublicKey, asset common.Asset, units uint64) ([]solana.Instruction, error) {
	mint, err := v.mint(asset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrSubmission, err)
	}

	sourceTokenAccount, _, err := solana.FindAssociatedTokenAddress(payer, mint)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find source token account address: %v", ledger.ErrSubmission, err)
	}
	if _, err := v.rpc.GetAccountInfo(ctx, sourceTokenAccount); err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s token account not found for %s", ledger.ErrSubmission, asset.Symbol, payer)
		}
		return nil, fmt.Errorf("%w: failed to check source token account: %v", ledger.ErrSubmission, err)
	}

	destTokenAccount, _, err := solana.FindAssociatedTokenAddress(toPubkey, mint)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find destination token account: %v", ledger.ErrSubmission, err)
	}

	var instructions []solana.Instruction
	destInfo, err := v.rpc.GetAccountInfo(ctx, destTokenAccount)
	if err != nil && !isNotFoundError(err) {
		return nil, fmt.Errorf("%w: failed to get destination account info: %v", ledger.ErrSubmission, err)
	}
	if err != nil || destInfo == nil || destInfo.Value == nil {
		instructions = append(instructions, associatedtokenaccount.NewCreateInstruction(payer, toPubkey, mint).Build())
	}

	instructions = append(instructions, token.NewTransferCheckedInstruction(
		units,
		uint8(asset.Decimals),
		sourceTokenAccount,
		mint,
		destTokenAccount,
		payer,
		[]solana.PublicKey{},
	).Build())
	return instructions, nil
}

// AwaitFinality polls the signature status until it is confirmed or finalized.
// A transaction that landed with an error is reported as a submission failure.
func (c *SolanaClient) AwaitFinality(ctx context.Context, signature string) error {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return fmt.Errorf("%w: invalid signature: %v", ledger.ErrSubmission, err)
	}
	v := c.view()

	op := func() error {
		out, err := v.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			return err
		}
		if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
			return errors.New("signature not yet visible")
		}
		status := out.Value[0]
		if status.Err != nil {
			return backoff.Permanent(fmt.Errorf("%w: transaction failed on chain: %v", ledger.ErrSubmission, status.Err))
		}
		switch status.ConfirmationStatus {
		case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
			return nil
		}
		return errors.New("signature not yet confirmed")
	}

	err = backoff.Retry(op, backoff.WithContext(backoff.NewConstantBackOff(c.pollInterval), ctx))
	if err != nil {
		if errors.Is(err, ledger.ErrSubmission) {
			return err
		}
		return fmt.Errorf("%w: awaiting %s: %v", ledger.ErrSubmission, signature, err)
	}
	return nil
}

// RequestAirdrop asks the cluster faucet for lamports. Mainnet has no faucet.
func (c *SolanaClient) RequestAirdrop(ctx context.Context, owner string, lamports uint64) (string, error) {
	ownerPubkey, err := parseAddress(owner)
	if err != nil {
		return "", err
	}
	v := c.view()
	if v.network == config.NetworkMainnet {
		return "", ErrAirdropUnavailable
	}
	sig, err := v.rpc.RequestAirdrop(ctx, ownerPubkey, lamports, rpc.CommitmentConfirmed)
	if err != nil {
		return "", fmt.Errorf("failed to request airdrop: %w", err)
	}
	return sig.String(), nil
}

// AccountStatus reports whether the account exists and whether it has any history.
func (c *SolanaClient) AccountStatus(ctx context.Context, owner string) (model.AccountStatus, error) {
	ownerPubkey, err := parseAddress(owner)
	if err != nil {
		return model.AccountStatus{}, err
	}
	v := c.view()
	status := model.AccountStatus{Address: ownerPubkey.String(), Network: v.network, Balance: "0"}

	info, err := v.rpc.GetAccountInfo(ctx, ownerPubkey)
	switch {
	case err == nil && info != nil && info.Value != nil:
		status.Exists = true
		status.Lamports = info.Value.Lamports
		status.Balance = common.LamportsToSOL(info.Value.Lamports)
		status.Executable = info.Value.Executable
	case err != nil && !isNotFoundError(err):
		return model.AccountStatus{}, fmt.Errorf("failed to get account info: %w", err)
	}

	limit := 20
	sigs, err := v.rpc.GetSignaturesForAddressWithOpts(ctx, ownerPubkey, &rpc.GetSignaturesForAddressOpts{Limit: &limit})
	if err != nil {
		return model.AccountStatus{}, fmt.Errorf("failed to get signatures: %w", err)
	}
	status.TransactionCount = len(sigs)
	status.HasTransactions = len(sigs) > 0
	if len(sigs) > 0 {
		status.LastTransactionID = sigs[0].Signature.String()
	}
	return status, nil
}

// AccountTransactions returns SOL and USDC movements of owner, newest first.
func (c *SolanaClient) AccountTransactions(ctx context.Context, owner string, limit int) ([]model.Transaction, error) {
	ownerPubkey, err := parseAddress(owner)
	if err != nil {
		return nil, err
	}
	v := c.view()

	addresses := []solana.PublicKey{ownerPubkey}
	if v.hasMint {
		ataAddress, _, err := solana.FindAssociatedTokenAddress(ownerPubkey, v.usdcMint)
		if err != nil {
			return nil, fmt.Errorf("failed to find associated token account address: %w", err)
		}
		addresses = append(addresses, ataAddress)
	}

	// signatures of the owner and of its token account overlap
	signatureSet := make(map[solana.Signature]struct{})
	for _, addr := range addresses {
		sigs, err := v.rpc.GetSignaturesForAddressWithOpts(ctx, addr, &rpc.GetSignaturesForAddressOpts{Limit: &limit})
		if err != nil {
			if isNotFoundError(err) {
				continue
			}
			return nil, fmt.Errorf("failed to get signatures: %w", err)
		}
		for _, sig := range sigs {
			signatureSet[sig.Signature] = struct{}{}
		}
	}

	transactions := make([]model.Transaction, 0, len(signatureSet))
	for sig := range signatureSet {
		tx, err := c.fetchTransaction(ctx, v, sig)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, parseTransaction(tx, sig, ownerPubkey, v)...)
	}

	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Timestamp.After(transactions[j].Timestamp)
	})
	return transactions, nil
}

// TransactionByHash returns one transaction with the movements that concern owner.
func (c *SolanaClient) TransactionByHash(ctx context.Context, hash, owner string) (*model.TransactionDetail, error) {
	sig, err := solana.SignatureFromBase58(strings.TrimSpace(hash))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid transaction hash: %v", ledger.ErrInvalidAddress, err)
	}
	ownerPubkey, err := parseAddress(owner)
	if err != nil {
		return nil, err
	}
	v := c.view()

	tx, err := c.fetchTransaction(ctx, v, sig)
	if err != nil {
		return nil, err
	}

	detail := &model.TransactionDetail{
		TxID:      sig.String(),
		Slot:      tx.Slot,
		Status:    txStatus(tx),
		FeeSOL:    "0",
		Timestamp: txTime(tx),
		Movements: parseTransaction(tx, sig, ownerPubkey, v),
	}
	if tx.Meta != nil {
		detail.FeeSOL = common.LamportsToSOL(tx.Meta.Fee)
	}
	return detail, nil
}

func (c *SolanaClient) fetchTransaction(ctx context.Context, v clusterView, sig solana.Signature) (*rpc.GetTransactionResult, error) {
	// maxVersion is hardcoded - new version support requires a library update anyway
	maxVersion := uint64(0)
	tx, err := v.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("transaction %s: %w", sig, ledger.ErrResourceNotFound)
		}
		return nil, fmt.Errorf("failed to get transaction %s: %w", sig, err)
	}
	return tx, nil
}

func txStatus(tx *rpc.GetTransactionResult) string {
	if tx.Meta != nil && tx.Meta.Err != nil {
		return "failed"
	}
	return "success"
}

func txTime(tx *rpc.GetTransactionResult) time.Time {
	if tx.BlockTime != nil {
		return time.Unix(int64(*tx.BlockTime), 0).UTC()
	}
	return time.Time{}
}

// parseTransaction extracts USDC or SOL movements of owner.
// If a USDC movement exists, any SOL change is the fee. Otherwise the SOL change is a transfer.
func parseTransaction(tx *rpc.GetTransactionResult, signature solana.Signature, owner solana.PublicKey, v clusterView) []model.Transaction {
	if tx == nil || tx.Meta == nil {
		return nil
	}
	ownerStr := owner.String()
	timestamp := txTime(tx)
	status := txStatus(tx)

	decodedTx, err := tx.Transaction.GetTransaction()
	if err != nil || decodedTx == nil {
		return nil
	}
	accountKeys := decodedTx.Message.AccountKeys

	ownerIndex := -1
	var ownerSOLDelta int64
	for i, key := range accountKeys {
		if d, ok := lamportDelta(tx.Meta, i); ok && key.Equals(owner) {
			ownerIndex = i
			ownerSOLDelta = d
			break
		}
	}

	if v.hasMint {
		usdcDeltas := make(map[string]int64)
		for _, pre := range tx.Meta.PreTokenBalances {
			if pre.Mint.Equals(v.usdcMint) && pre.Owner != nil && pre.UiTokenAmount != nil {
				amt, _ := strconv.ParseUint(pre.UiTokenAmount.Amount, 10, 64)
				usdcDeltas[pre.Owner.String()] -= int64(amt)
			}
		}
		for _, post := range tx.Meta.PostTokenBalances {
			if post.Mint.Equals(v.usdcMint) && post.Owner != nil && post.UiTokenAmount != nil {
				amt, _ := strconv.ParseUint(post.UiTokenAmount.Amount, 10, 64)
				usdcDeltas[post.Owner.String()] += int64(amt)
			}
		}

		if delta := usdcDeltas[ownerStr]; delta != 0 {
			row := model.Transaction{
				TxID:        signature.String(),
				Currency:    common.AssetUSDC.Symbol,
				FeeSOL:      "0",
				Timestamp:   timestamp,
				BlockNumber: int64(tx.Slot),
				Status:      status,
			}
			if delta > 0 {
				row.Type = model.TransactionTypeDebit
				row.Amount = common.MicroToUSDC(uint64(delta))
				row.To = ownerStr
				row.From = counterparty(usdcDeltas, ownerStr, -1)
			} else {
				row.Type = model.TransactionTypeCredit
				row.Amount = common.MicroToUSDC(uint64(-delta))
				row.From = ownerStr
				row.To = counterparty(usdcDeltas, ownerStr, 1)
				if ownerSOLDelta < 0 {
					row.FeeSOL = common.LamportsToSOL(uint64(-ownerSOLDelta))
				}
			}
			return []model.Transaction{row}
		}
	}

	if ownerIndex < 0 || ownerSOLDelta == 0 {
		return nil
	}

	// fee payer is index 0
	isFeePayer := ownerIndex == 0
	actualSOLDelta := ownerSOLDelta
	if isFeePayer {
		actualSOLDelta += int64(tx.Meta.Fee)
	}
	if actualSOLDelta == 0 {
		return nil
	}

	row := model.Transaction{
		TxID:        signature.String(),
		Currency:    common.AssetSOL.Symbol,
		FeeSOL:      "0",
		Timestamp:   timestamp,
		BlockNumber: int64(tx.Slot),
		Status:      status,
	}
	if actualSOLDelta > 0 {
		row.Type = model.TransactionTypeDebit
		row.Amount = common.LamportsToSOL(uint64(actualSOLDelta))
		row.To = ownerStr
		for i, key := range accountKeys {
			if d, ok := lamportDelta(tx.Meta, i); ok && d < 0 && !key.Equals(owner) {
				row.From = key.String()
				break
			}
		}
	} else {
		row.Type = model.TransactionTypeCredit
		row.Amount = common.LamportsToSOL(uint64(-actualSOLDelta))
		row.From = ownerStr
		for i, key := range accountKeys {
			if d, ok := lamportDelta(tx.Meta, i); ok && d > 0 && !key.Equals(owner) {
				row.To = key.String()
				break
			}
		}
		if isFeePayer {
			row.FeeSOL = common.LamportsToSOL(tx.Meta.Fee)
		}
	}
	return []model.Transaction{row}
}

// lamportDelta is the SOL change of account i; ok is false when the node
// returned fewer balances than account keys.
func lamportDelta(meta *rpc.TransactionMeta, i int) (int64, bool) {
	if i >= len(meta.PreBalances) || i >= len(meta.PostBalances) {
		return 0, false
	}
	return int64(meta.PostBalances[i]) - int64(meta.PreBalances[i]), true
}

// counterparty returns the first owner other than self whose delta has the given sign.
func counterparty(deltas map[string]int64, self string, sign int64) string {
	keys := make([]string, 0, len(deltas))
	for k := range deltas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k != self && deltas[k]*sign > 0 {
			return k
		}
	}
	return ""
}

// isNotFoundError checks if error indicates that an account doesn't exist
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, rpc.ErrNotFound) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "could not find account") ||
		strings.Contains(errStr, "not found")
}

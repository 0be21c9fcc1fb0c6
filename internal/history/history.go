package history

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/globepay/internal/common"
	"github.com/AlexZinkM/globepay/internal/model"
)

// Source reads parsed transactions from the chain.
type Source interface {
	AccountTransactions(ctx context.Context, owner string, limit int) ([]model.Transaction, error)
	TransactionByHash(ctx context.Context, hash, owner string) (*model.TransactionDetail, error)
}

// Wallet yields the connected address.
type Wallet interface {
	Address() (string, error)
}

// Service lists on-chain history of the connected wallet.
type Service struct {
	src    Source
	wallet Wallet
}

func NewService(src Source, wallet Wallet) *Service {
	return &Service{src: src, wallet: wallet}
}

// List gets wallet transactions with filtering.
// USDC totals are computed over the filtered rows: DEBIT is income, CREDIT is spending.
func (s *Service) List(ctx context.Context, req *model.HistoryRequest) (*model.HistoryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	address, err := s.wallet.Address()
	if err != nil {
		return nil, err
	}

	txs, err := s.src.AccountTransactions(ctx, address, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	var income, spent uint64
	result := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		ok, err := req.Match(tx)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		result = append(result, tx)

		if tx.Currency != common.AssetUSDC.Symbol {
			continue
		}
		micro, err := common.USDCToMicro(tx.Amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount of %s: %w", tx.TxID, err)
		}
		switch tx.Type {
		case model.TransactionTypeDebit:
			income += micro
		case model.TransactionTypeCredit:
			spent += micro
		}
	}

	return &model.HistoryResponse{
		Address:         address,
		TotalIncomeUSDC: common.MicroToUSDC(income),
		TotalSpentUSDC:  common.MicroToUSDC(spent),
		Transactions:    result,
	}, nil
}

// Get returns one transaction as seen from the connected wallet.
func (s *Service) Get(ctx context.Context, hash string) (*model.TransactionDetail, error) {
	address, err := s.wallet.Address()
	if err != nil {
		return nil, err
	}
	return s.src.TransactionByHash(ctx, hash, address)
}

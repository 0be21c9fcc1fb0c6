package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlexZinkM/globepay/internal/common"
	"github.com/AlexZinkM/globepay/internal/ledger"
	"github.com/AlexZinkM/globepay/internal/model"
	"github.com/AlexZinkM/globepay/internal/store"
	"github.com/AlexZinkM/globepay/internal/transfer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakePayer struct {
	batches [][]transfer.Payment
	failTo  map[string]error
}

func (p *fakePayer) SendBatch(ctx context.Context, payments []transfer.Payment) []transfer.Result {
	p.batches = append(p.batches, payments)
	out := make([]transfer.Result, 0, len(payments))
	for i, pay := range payments {
		rec := model.TransactionRecord{ID: pay.Recipient, Hash: "sig-" + string(rune('a'+i)), Amount: pay.Amount, Asset: pay.Asset.Symbol}
		if err := p.failTo[pay.Recipient]; err != nil {
			out = append(out, transfer.Result{Record: model.TransactionRecord{}, Err: err})
			continue
		}
		out = append(out, transfer.Result{Record: rec})
	}
	return out
}

type lineCounter map[string]int

func (c lineCounter) ObservePayrollLine(status string) { c[status]++ }

func newService(t *testing.T) (*Service, *fakePayer, *store.Memory, lineCounter) {
	t.Helper()
	records := store.NewMemory()
	payer := &fakePayer{failTo: map[string]error{}}
	obs := lineCounter{}
	s := NewService(records, payer, obs, zaptest.NewLogger(t))
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s, payer, records, obs
}

func addEmployee(t *testing.T, s *Service, name, wallet, salary, currency string) model.Employee {
	t.Helper()
	e, err := s.AddEmployee(context.Background(), model.EmployeeRequest{
		Name: name, Email: name + "@example.com", Wallet: wallet, Salary: salary, Currency: currency,
	})
	require.NoError(t, err)
	return e
}

func TestCompanyKeepsID(t *testing.T) {
	s, _, _, _ := newService(t)
	ctx := context.Background()

	_, err := s.Company(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)

	first, err := s.SaveCompany(ctx, model.Company{Name: "Acme", Currency: "usdc"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "USDC", first.Currency)

	second, err := s.SaveCompany(ctx, model.Company{Name: "Acme Ltd", Currency: "SOL"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := s.Company(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", got.Name)
}

func TestEmployeeLifecycle(t *testing.T) {
	s, _, _, _ := newService(t)
	ctx := context.Background()

	e := addEmployee(t, s, "ana", "wallet-a", "2500.5", "usdc")
	assert.Equal(t, "2500.500000", e.Salary)
	assert.Equal(t, "USDC", e.Currency)
	assert.Equal(t, model.EmployeeActive, e.Status)

	toggled, err := s.ToggleEmployee(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EmployeeInactive, toggled.Status)

	updated, err := s.UpdateEmployee(ctx, e.ID, model.EmployeeRequest{Name: "Ana", Email: "ana@example.com", Wallet: "wallet-b", Salary: "3", Currency: "SOL"})
	require.NoError(t, err)
	assert.Equal(t, "3.000000000", updated.Salary)
	assert.Equal(t, model.EmployeeInactive, updated.Status)

	require.NoError(t, s.DeleteEmployee(ctx, e.ID))
	_, err = s.ToggleEmployee(ctx, e.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAddEmployeeRejectsBadSalary(t *testing.T) {
	s, _, _, _ := newService(t)
	_, err := s.AddEmployee(context.Background(), model.EmployeeRequest{Name: "x", Wallet: "w", Salary: "0", Currency: "USDC"})
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	_, err = s.AddEmployee(context.Background(), model.EmployeeRequest{Name: "x", Wallet: "w", Salary: "10", Currency: "EUR"})
	assert.Error(t, err)
}

func TestSummaryCountsActiveEmployeesOnly(t *testing.T) {
	s, _, _, _ := newService(t)
	ctx := context.Background()

	addEmployee(t, s, "a", "wa", "1000", "USDC")
	addEmployee(t, s, "b", "wb", "500.25", "USDC")
	off := addEmployee(t, s, "c", "wc", "9999", "USDC")
	addEmployee(t, s, "d", "wd", "2", "SOL")
	_, err := s.ToggleEmployee(ctx, off.ID)
	require.NoError(t, err)

	sum, err := s.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Employees)
	assert.Equal(t, 3, sum.ActiveEmployees)
	assert.Equal(t, "1500.250000", sum.MonthlyTotal["USDC"])
	assert.Equal(t, "1.500250", sum.EstimatedFee["USDC"])
	assert.Equal(t, "2.000000000", sum.MonthlyTotal["SOL"])
	assert.Equal(t, "0.002000000", sum.EstimatedFee["SOL"])
}

func TestRunPaysActiveEmployees(t *testing.T) {
	s, payer, records, obs := newService(t)
	ctx := context.Background()

	addEmployee(t, s, "a", "wa", "10", "USDC")
	off := addEmployee(t, s, "b", "wb", "20", "USDC")
	addEmployee(t, s, "c", "wc", "1", "SOL")
	_, err := s.ToggleEmployee(ctx, off.ID)
	require.NoError(t, err)

	run, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.RunCompleted, run.Status)
	require.Len(t, payer.batches, 1)
	require.Len(t, payer.batches[0], 2)
	assert.Equal(t, "wa", payer.batches[0][0].Recipient)
	assert.Equal(t, common.AssetUSDC, payer.batches[0][0].Asset)
	assert.Equal(t, common.AssetSOL, payer.batches[0][1].Asset)
	assert.Equal(t, 2, obs["success"])
	assert.True(t, run.FinishedAt.After(run.StartedAt))

	runs, err := records.ListPayrollRuns(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

func TestRunContinuesPastFailures(t *testing.T) {
	s, payer, _, obs := newService(t)
	addEmployee(t, s, "a", "wa", "10", "USDC")
	addEmployee(t, s, "b", "bad", "10", "USDC")
	addEmployee(t, s, "c", "wc", "10", "USDC")
	payer.failTo["bad"] = ledger.ErrInvalidAddress

	run, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.RunPartial, run.Status)
	require.Len(t, run.Lines, 3)
	assert.Equal(t, model.StatusFailed, run.Lines[1].Status)
	assert.Contains(t, run.Lines[1].Error, "invalid address")
	assert.Equal(t, model.StatusSuccess, run.Lines[2].Status)
	assert.Equal(t, 1, obs["failed"])
}

func TestRunAllFailed(t *testing.T) {
	s, payer, _, _ := newService(t)
	addEmployee(t, s, "a", "wa", "10", "USDC")
	payer.failTo["wa"] = errors.New("boom")

	run, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.RunFailed, run.Status)
}

func TestRunWithoutActiveEmployees(t *testing.T) {
	s, payer, _, _ := newService(t)
	_, err := s.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveEmployees)
	assert.Empty(t, payer.batches)
}

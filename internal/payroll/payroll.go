// Package payroll keeps a company profile and its employees and pays every
// active employee from the connected wallet in one sequential batch.
package payroll

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AlexZinkM/globepay/internal/common"
	"github.com/AlexZinkM/globepay/internal/model"
	"github.com/AlexZinkM/globepay/internal/transfer"

	"github.com/google/uuid"
	"github.com/lucsky/cuid"
	"go.uber.org/zap"
)

var ErrNoActiveEmployees = errors.New("no active employees to pay")

// Store is the part of the record store payroll needs.
type Store interface {
	SaveCompany(ctx context.Context, c model.Company) error
	GetCompany(ctx context.Context) (model.Company, error)

	SaveEmployee(ctx context.Context, e model.Employee) error
	GetEmployee(ctx context.Context, id string) (model.Employee, error)
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error

	SavePayrollRun(ctx context.Context, run model.PayrollRun) error
	ListPayrollRuns(ctx context.Context, limit, offset int) ([]model.PayrollRun, error)
}

type Payer interface {
	SendBatch(ctx context.Context, payments []transfer.Payment) []transfer.Result
}

type Observer interface {
	ObservePayrollLine(status string)
}

type noopObserver struct{}

func (noopObserver) ObservePayrollLine(string) {}

type Service struct {
	store Store
	payer Payer
	obs   Observer
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store Store, payer Payer, obs Observer, log *zap.Logger) *Service {
	if obs == nil {
		obs = noopObserver{}
	}
	return &Service{store: store, payer: payer, obs: obs, log: log.Named("payroll"), now: time.Now}
}

func (s *Service) Company(ctx context.Context) (model.Company, error) {
	return s.store.GetCompany(ctx)
}

// SaveCompany replaces the company profile, keeping its id.
func (s *Service) SaveCompany(ctx context.Context, c model.Company) (model.Company, error) {
	if existing, err := s.store.GetCompany(ctx); err == nil {
		c.ID = existing.ID
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Currency = strings.ToUpper(c.Currency)
	c.UpdatedAt = s.now().UTC()
	if err := s.store.SaveCompany(ctx, c); err != nil {
		return model.Company{}, fmt.Errorf("failed to save company: %w", err)
	}
	return c, nil
}

func (s *Service) Employees(ctx context.Context) ([]model.Employee, error) {
	return s.store.ListEmployees(ctx)
}

// salary validates an amount in the employee's currency and returns it normalized.
func salary(amount, currency string) (string, common.Asset, error) {
	asset, err := common.LookupAsset(currency)
	if err != nil {
		return "", common.Asset{}, err
	}
	units, err := common.ParsePositiveAmount(amount, asset.Decimals)
	if err != nil {
		return "", common.Asset{}, err
	}
	return asset.Format(units), asset, nil
}

func (s *Service) AddEmployee(ctx context.Context, req model.EmployeeRequest) (model.Employee, error) {
	amount, asset, err := salary(req.Salary, req.Currency)
	if err != nil {
		return model.Employee{}, err
	}
	e := model.Employee{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Wallet:    strings.TrimSpace(req.Wallet),
		Position:  strings.TrimSpace(req.Position),
		Salary:    amount,
		Currency:  asset.Symbol,
		Status:    model.EmployeeActive,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.SaveEmployee(ctx, e); err != nil {
		return model.Employee{}, fmt.Errorf("failed to save employee: %w", err)
	}
	s.log.Info("employee added", zap.String("id", e.ID), zap.String("name", e.Name))
	return e, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, id string, req model.EmployeeRequest) (model.Employee, error) {
	e, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return model.Employee{}, err
	}
	amount, asset, err := salary(req.Salary, req.Currency)
	if err != nil {
		return model.Employee{}, err
	}
	e.Name = strings.TrimSpace(req.Name)
	e.Email = strings.TrimSpace(req.Email)
	e.Wallet = strings.TrimSpace(req.Wallet)
	e.Position = strings.TrimSpace(req.Position)
	e.Salary = amount
	e.Currency = asset.Symbol
	if err := s.store.SaveEmployee(ctx, e); err != nil {
		return model.Employee{}, fmt.Errorf("failed to save employee: %w", err)
	}
	return e, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	return s.store.DeleteEmployee(ctx, id)
}

// ToggleEmployee flips an employee between active and inactive.
func (s *Service) ToggleEmployee(ctx context.Context, id string) (model.Employee, error) {
	e, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return model.Employee{}, err
	}
	if e.Status == model.EmployeeActive {
		e.Status = model.EmployeeInactive
	} else {
		e.Status = model.EmployeeActive
	}
	if err := s.store.SaveEmployee(ctx, e); err != nil {
		return model.Employee{}, fmt.Errorf("failed to save employee: %w", err)
	}
	return e, nil
}

// Summary totals the monthly salaries of active employees per currency.
func (s *Service) Summary(ctx context.Context) (model.PayrollSummary, error) {
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return model.PayrollSummary{}, err
	}

	totals := map[string]uint64{}
	sum := model.PayrollSummary{
		Employees:    len(employees),
		MonthlyTotal: map[string]string{},
		EstimatedFee: map[string]string{},
	}
	for _, e := range employees {
		if e.Status != model.EmployeeActive {
			continue
		}
		sum.ActiveEmployees++
		asset, err := common.LookupAsset(e.Currency)
		if err != nil {
			s.log.Warn("employee with unsupported currency skipped", zap.String("id", e.ID), zap.Error(err))
			continue
		}
		units, err := asset.Parse(e.Salary)
		if err != nil {
			s.log.Warn("employee with invalid salary skipped", zap.String("id", e.ID), zap.Error(err))
			continue
		}
		totals[asset.Symbol] += units
	}
	for symbol, units := range totals {
		asset, _ := common.LookupAsset(symbol)
		sum.MonthlyTotal[symbol] = asset.Format(units)
		sum.EstimatedFee[symbol] = asset.Format(units / 1000)
	}
	return sum, nil
}

// Run pays every active employee once. Each payment waits for finality and a
// failed payment does not stop the run.
func (s *Service) Run(ctx context.Context) (model.PayrollRun, error) {
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return model.PayrollRun{}, err
	}

	run := model.PayrollRun{ID: cuid.New(), StartedAt: s.now().UTC()}
	var payments []transfer.Payment
	for _, e := range employees {
		if e.Status != model.EmployeeActive {
			continue
		}
		asset, err := common.LookupAsset(e.Currency)
		if err != nil {
			asset = common.AssetUSDC
		}
		run.Lines = append(run.Lines, model.PayrollLine{
			EmployeeID: e.ID,
			Name:       e.Name,
			Wallet:     e.Wallet,
			Amount:     e.Salary,
			Currency:   asset.Symbol,
			Status:     model.StatusPending,
		})
		payments = append(payments, transfer.Payment{Recipient: e.Wallet, Amount: e.Salary, Asset: asset})
	}
	if len(payments) == 0 {
		return model.PayrollRun{}, ErrNoActiveEmployees
	}

	s.log.Info("payroll run started", zap.String("run", run.ID), zap.Int("payments", len(payments)))
	results := s.payer.SendBatch(ctx, payments)

	paid := 0
	for i := range run.Lines {
		line := &run.Lines[i]
		if i >= len(results) {
			line.Status = model.StatusFailed
			line.Error = "not attempted"
			continue
		}
		r := results[i]
		line.Hash = r.Record.Hash
		if r.Err != nil {
			line.Status = model.StatusFailed
			line.Error = r.Err.Error()
		} else {
			line.Status = model.StatusSuccess
			paid++
		}
		s.obs.ObservePayrollLine(string(line.Status))
	}

	switch paid {
	case len(run.Lines):
		run.Status = model.RunCompleted
	case 0:
		run.Status = model.RunFailed
	default:
		run.Status = model.RunPartial
	}
	run.FinishedAt = s.now().UTC()

	s.log.Info("payroll run finished", zap.String("run", run.ID), zap.String("status", string(run.Status)),
		zap.Int("paid", paid), zap.Int("payments", len(run.Lines)))
	if err := s.store.SavePayrollRun(ctx, run); err != nil {
		s.log.Error("failed to save payroll run", zap.String("run", run.ID), zap.Error(err))
	}
	return run, nil
}

func (s *Service) Runs(ctx context.Context, limit, offset int) ([]model.PayrollRun, error) {
	return s.store.ListPayrollRuns(ctx, limit, offset)
}

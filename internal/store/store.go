// Package store keeps the application's own records: submitted transfers,
// swaps, the payroll company, employees and payroll runs.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/AlexZinkM/globepay/internal/model"
)

var ErrNotFound = errors.New("record not found")

// Store is implemented by Memory and MySQL.
type Store interface {
	SaveTransfer(ctx context.Context, rec model.TransactionRecord) error
	ListTransfers(ctx context.Context, limit, offset int) ([]model.TransactionRecord, error)

	SaveSwap(ctx context.Context, rec model.SwapRecord) error
	ListSwaps(ctx context.Context, limit, offset int) ([]model.SwapRecord, error)

	SaveCompany(ctx context.Context, c model.Company) error
	GetCompany(ctx context.Context) (model.Company, error)

	SaveEmployee(ctx context.Context, e model.Employee) error
	GetEmployee(ctx context.Context, id string) (model.Employee, error)
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error

	SavePayrollRun(ctx context.Context, run model.PayrollRun) error
	ListPayrollRuns(ctx context.Context, limit, offset int) ([]model.PayrollRun, error)
}

// Memory is the default Store; records live for the lifetime of the process.
type Memory struct {
	mu        sync.RWMutex
	transfers []model.TransactionRecord
	swaps     []model.SwapRecord
	company   *model.Company
	employees map[string]model.Employee
	runs      []model.PayrollRun
}

func NewMemory() *Memory {
	return &Memory{employees: map[string]model.Employee{}}
}

// page returns the newest-first window of items stored oldest-first.
func page[T any](items []T, limit, offset int) []T {
	n := len(items)
	if offset >= n {
		return []T{}
	}
	end := n - offset
	start := 0
	if limit > 0 && end-limit > 0 {
		start = end - limit
	}
	out := make([]T, 0, end-start)
	for i := end - 1; i >= start; i-- {
		out = append(out, items[i])
	}
	return out
}

func (m *Memory) SaveTransfer(ctx context.Context, rec model.TransactionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers = append(m.transfers, rec)
	return nil
}

func (m *Memory) ListTransfers(ctx context.Context, limit, offset int) ([]model.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return page(m.transfers, limit, offset), nil
}

func (m *Memory) SaveSwap(ctx context.Context, rec model.SwapRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swaps = append(m.swaps, rec)
	return nil
}

func (m *Memory) ListSwaps(ctx context.Context, limit, offset int) ([]model.SwapRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return page(m.swaps, limit, offset), nil
}

func (m *Memory) SaveCompany(ctx context.Context, c model.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.company = &c
	return nil
}

func (m *Memory) GetCompany(ctx context.Context) (model.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.company == nil {
		return model.Company{}, ErrNotFound
	}
	return *m.company, nil
}

func (m *Memory) SaveEmployee(ctx context.Context, e model.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
	return nil
}

func (m *Memory) GetEmployee(ctx context.Context, id string) (model.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return model.Employee{}, ErrNotFound
	}
	return e, nil
}

// ListEmployees returns employees in creation order.
func (m *Memory) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) DeleteEmployee(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[id]; !ok {
		return ErrNotFound
	}
	delete(m.employees, id)
	return nil
}

func (m *Memory) SavePayrollRun(ctx context.Context, run model.PayrollRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *Memory) ListPayrollRuns(ctx context.Context, limit, offset int) ([]model.PayrollRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return page(m.runs, limit, offset), nil
}

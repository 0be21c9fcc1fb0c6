package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AlexZinkM/globepay/internal/model"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// schema is applied by Migrate; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS transfers (
		id VARCHAR(36) PRIMARY KEY,
		hash VARCHAR(128) NOT NULL,
		status VARCHAR(16) NOT NULL,
		amount VARCHAR(40) NOT NULL,
		asset VARCHAR(16) NOT NULL,
		sender VARCHAR(64) NOT NULL,
		recipient VARCHAR(64) NOT NULL,
		confirmed BOOLEAN NOT NULL,
		error TEXT NOT NULL,
		created_at DATETIME(6) NOT NULL,
		INDEX idx_transfers_created (created_at)
	)`,
	`CREATE TABLE IF NOT EXISTS swaps (
		id VARCHAR(36) PRIMARY KEY,
		hash VARCHAR(128) NOT NULL,
		status VARCHAR(16) NOT NULL,
		mode VARCHAR(16) NOT NULL,
		from_currency VARCHAR(8) NOT NULL,
		to_currency VARCHAR(8) NOT NULL,
		from_amount VARCHAR(40) NOT NULL,
		to_amount VARCHAR(40) NOT NULL,
		rate DOUBLE NOT NULL,
		sender VARCHAR(64) NOT NULL,
		error TEXT NOT NULL,
		created_at DATETIME(6) NOT NULL,
		INDEX idx_swaps_created (created_at)
	)`,
	`CREATE TABLE IF NOT EXISTS companies (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		industry VARCHAR(128) NOT NULL,
		country VARCHAR(128) NOT NULL,
		wallet VARCHAR(64) NOT NULL,
		currency VARCHAR(8) NOT NULL,
		payroll_frequency VARCHAR(16) NOT NULL,
		timezone VARCHAR(64) NOT NULL,
		updated_at DATETIME(6) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		wallet VARCHAR(64) NOT NULL,
		position VARCHAR(128) NOT NULL,
		salary VARCHAR(40) NOT NULL,
		currency VARCHAR(8) NOT NULL,
		status VARCHAR(16) NOT NULL,
		created_at DATETIME(6) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payroll_runs (
		id VARCHAR(32) PRIMARY KEY,
		status VARCHAR(16) NOT NULL,
		payment_lines JSON NOT NULL,
		started_at DATETIME(6) NOT NULL,
		finished_at DATETIME(6) NOT NULL,
		INDEX idx_payroll_runs_started (started_at)
	)`,
}

// MySQL is a Store backed by a MySQL database.
type MySQL struct {
	db  *sql.DB
	log *zap.Logger
}

// OpenMySQL connects with a go-sql-driver DSN; parseTime is forced on.
func OpenMySQL(ctx context.Context, dsn string, log *zap.Logger) (*MySQL, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_DSN: %w", err)
	}
	cfg.ParseTime = true

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return NewMySQL(db, log), nil
}

// NewMySQL wraps an open handle.
func NewMySQL(db *sql.DB, log *zap.Logger) *MySQL {
	return &MySQL{db: db, log: log.Named("store")}
}

// Migrate creates missing tables.
func (s *MySQL) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	s.log.Info("database schema ready")
	return nil
}

func (s *MySQL) Close() error {
	return s.db.Close()
}

func (s *MySQL) SaveTransfer(ctx context.Context, rec model.TransactionRecord) error {
	_, err := sq.
		Insert("transfers").
		Columns("id", "hash", "status", "amount", "asset", "sender", "recipient", "confirmed", "error", "created_at").
		Values(rec.ID, rec.Hash, string(rec.Status), rec.Amount, rec.Asset, rec.Sender, rec.Recipient, rec.Confirmed, rec.Error, rec.Timestamp).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to save transfer: %w", err)
	}
	return nil
}

func (s *MySQL) ListTransfers(ctx context.Context, limit, offset int) ([]model.TransactionRecord, error) {
	rows, err := sq.
		Select("id", "hash", "status", "amount", "asset", "sender", "recipient", "confirmed", "error", "created_at").
		From("transfers").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	out := []model.TransactionRecord{}
	for rows.Next() {
		var rec model.TransactionRecord
		var status string
		if err := rows.Scan(&rec.ID, &rec.Hash, &status, &rec.Amount, &rec.Asset, &rec.Sender, &rec.Recipient, &rec.Confirmed, &rec.Error, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		rec.Status = model.RecordStatus(status)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *MySQL) SaveSwap(ctx context.Context, rec model.SwapRecord) error {
	_, err := sq.
		Insert("swaps").
		Columns("id", "hash", "status", "mode", "from_currency", "to_currency", "from_amount", "to_amount", "rate", "sender", "error", "created_at").
		Values(rec.ID, rec.Hash, string(rec.Status), rec.Mode, rec.FromCurrency, rec.ToCurrency, rec.FromAmount, rec.ToAmount, rec.Rate, rec.Sender, rec.Error, rec.Timestamp).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to save swap: %w", err)
	}
	return nil
}

func (s *MySQL) ListSwaps(ctx context.Context, limit, offset int) ([]model.SwapRecord, error) {
	rows, err := sq.
		Select("id", "hash", "status", "mode", "from_currency", "to_currency", "from_amount", "to_amount", "rate", "sender", "error", "created_at").
		From("swaps").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list swaps: %w", err)
	}
	defer rows.Close()

	out := []model.SwapRecord{}
	for rows.Next() {
		var rec model.SwapRecord
		var status string
		if err := rows.Scan(&rec.ID, &rec.Hash, &status, &rec.Mode, &rec.FromCurrency, &rec.ToCurrency, &rec.FromAmount, &rec.ToAmount, &rec.Rate, &rec.Sender, &rec.Error, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan swap: %w", err)
		}
		rec.Status = model.RecordStatus(status)
		rec.Amount = rec.FromAmount
		rec.Asset = rec.FromCurrency
		rec.Recipient = rec.Sender
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *MySQL) SaveCompany(ctx context.Context, c model.Company) error {
	_, err := sq.
		Insert("companies").
		Columns("id", "name", "description", "industry", "country", "wallet", "currency", "payroll_frequency", "timezone", "updated_at").
		Values(c.ID, c.Name, c.Description, c.Industry, c.Country, c.Wallet, c.Currency, c.PayrollFrequency, c.Timezone, c.UpdatedAt).
		Suffix("ON DUPLICATE KEY UPDATE name = VALUES(name), description = VALUES(description), industry = VALUES(industry), " +
			"country = VALUES(country), wallet = VALUES(wallet), currency = VALUES(currency), " +
			"payroll_frequency = VALUES(payroll_frequency), timezone = VALUES(timezone), updated_at = VALUES(updated_at)").
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to save company: %w", err)
	}
	return nil
}

func (s *MySQL) GetCompany(ctx context.Context) (model.Company, error) {
	var c model.Company
	err := sq.
		Select("id", "name", "description", "industry", "country", "wallet", "currency", "payroll_frequency", "timezone", "updated_at").
		From("companies").
		OrderBy("updated_at DESC").
		Limit(1).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&c.ID, &c.Name, &c.Description, &c.Industry, &c.Country, &c.Wallet, &c.Currency, &c.PayrollFrequency, &c.Timezone, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Company{}, ErrNotFound
	}
	if err != nil {
		return model.Company{}, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

var employeeColumns = []string{"id", "name", "email", "wallet", "position", "salary", "currency", "status", "created_at"}

func (s *MySQL) SaveEmployee(ctx context.Context, e model.Employee) error {
	_, err := sq.
		Insert("employees").
		Columns(employeeColumns...).
		Values(e.ID, e.Name, e.Email, e.Wallet, e.Position, e.Salary, e.Currency, string(e.Status), e.CreatedAt).
		Suffix("ON DUPLICATE KEY UPDATE name = VALUES(name), email = VALUES(email), wallet = VALUES(wallet), " +
			"position = VALUES(position), salary = VALUES(salary), currency = VALUES(currency), status = VALUES(status)").
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

func scanEmployee(row sq.RowScanner) (model.Employee, error) {
	var e model.Employee
	var status string
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Wallet, &e.Position, &e.Salary, &e.Currency, &status, &e.CreatedAt)
	e.Status = model.EmployeeStatus(status)
	return e, err
}

func (s *MySQL) GetEmployee(ctx context.Context, id string) (model.Employee, error) {
	row := sq.
		Select(employeeColumns...).
		From("employees").
		Where(sq.Eq{"id": id}).
		RunWith(s.db).
		QueryRowContext(ctx)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Employee{}, ErrNotFound
	}
	if err != nil {
		return model.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

func (s *MySQL) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	rows, err := sq.
		Select(employeeColumns...).
		From("employees").
		OrderBy("created_at", "id").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	out := []model.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *MySQL) DeleteEmployee(ctx context.Context, id string) error {
	res, err := sq.
		Delete("employees").
		Where(sq.Eq{"id": id}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQL) SavePayrollRun(ctx context.Context, run model.PayrollRun) error {
	lines, err := json.Marshal(run.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode payroll lines: %w", err)
	}
	_, err = sq.
		Insert("payroll_runs").
		Columns("id", "status", "payment_lines", "started_at", "finished_at").
		Values(run.ID, string(run.Status), lines, run.StartedAt, run.FinishedAt).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to save payroll run: %w", err)
	}
	return nil
}

func (s *MySQL) ListPayrollRuns(ctx context.Context, limit, offset int) ([]model.PayrollRun, error) {
	rows, err := sq.
		Select("id", "status", "payment_lines", "started_at", "finished_at").
		From("payroll_runs").
		OrderBy("started_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	out := []model.PayrollRun{}
	for rows.Next() {
		var run model.PayrollRun
		var status string
		var lines []byte
		if err := rows.Scan(&run.ID, &status, &lines, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		run.Status = model.PayrollRunStatus(status)
		if err := json.Unmarshal(lines, &run.Lines); err != nil {
			return nil, fmt.Errorf("failed to decode payroll lines of %s: %w", run.ID, err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

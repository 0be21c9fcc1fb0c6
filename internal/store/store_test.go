package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/AlexZinkM/globepay/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestMemoryTransfersNewestFirst(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for _, id := range []string{"1", "2", "3", "4"} {
		require.NoError(t, m.SaveTransfer(ctx, model.TransactionRecord{ID: id}))
	}

	got, err := m.ListTransfers(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "4", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	got, err = m.ListTransfers(ctx, 2, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	got, err = m.ListTransfers(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryEmployees(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, m.SaveEmployee(ctx, model.Employee{ID: "b", Name: "Second", CreatedAt: now.Add(time.Second)}))
	require.NoError(t, m.SaveEmployee(ctx, model.Employee{ID: "a", Name: "First", CreatedAt: now}))

	list, err := m.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "First", list[0].Name)

	require.NoError(t, m.DeleteEmployee(ctx, "a"))
	assert.ErrorIs(t, m.DeleteEmployee(ctx, "a"), ErrNotFound)
	_, err = m.GetEmployee(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCompany(t *testing.T) {
	m := NewMemory()
	_, err := m.GetCompany(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.SaveCompany(context.Background(), model.Company{Name: "Acme"}))
	c, err := m.GetCompany(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)
}

func newMock(t *testing.T) (*MySQL, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMySQL(db, zaptest.NewLogger(t)), mock
}

func TestMySQLMigrate(t *testing.T) {
	s, mock := newMock(t)
	for range schema {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLSaveTransfer(t *testing.T) {
	s, mock := newMock(t)
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := model.TransactionRecord{
		ID: "id-1", Hash: "sig", Status: model.StatusSuccess, Amount: "1.5", Asset: "SOL",
		Sender: "from", Recipient: "to", Confirmed: true, Timestamp: ts,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transfers (id,hash,status,amount,asset,sender,recipient,confirmed,error,created_at) VALUES (?,?,?,?,?,?,?,?,?,?)")).
		WithArgs("id-1", "sig", "success", "1.5", "SOL", "from", "to", true, "", ts).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.SaveTransfer(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLListTransfers(t *testing.T) {
	s, mock := newMock(t)
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "hash", "status", "amount", "asset", "sender", "recipient", "confirmed", "error", "created_at"}).
		AddRow("id-2", "sig2", "failed", "2", "USDC", "from", "to", false, "boom", ts).
		AddRow("id-1", "sig1", "success", "1", "SOL", "from", "to", true, "", ts.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("FROM transfers ORDER BY created_at DESC LIMIT 10 OFFSET 5")).WillReturnRows(rows)

	got, err := s.ListTransfers(context.Background(), 10, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.StatusFailed, got[0].Status)
	assert.Equal(t, "boom", got[0].Error)
	assert.True(t, got[1].Confirmed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLGetEmployeeNotFound(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM employees WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(employeeColumns))

	_, err := s.GetEmployee(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLDeleteEmployeeNotFound(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employees WHERE id = ?")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.DeleteEmployee(context.Background(), "missing"), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLSaveEmployeeUpserts(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO employees") + ".*" + regexp.QuoteMeta("ON DUPLICATE KEY UPDATE")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.SaveEmployee(context.Background(), model.Employee{ID: "e1", Status: model.EmployeeActive, CreatedAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLPayrollRunsRoundTripLines(t *testing.T) {
	s, mock := newMock(t)
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "status", "payment_lines", "started_at", "finished_at"}).
		AddRow("run1", "partial", []byte(`[{"employeeId":"e1","status":"success"},{"employeeId":"e2","status":"failed"}]`), ts, ts)
	mock.ExpectQuery(regexp.QuoteMeta("FROM payroll_runs ORDER BY started_at DESC")).WillReturnRows(rows)

	runs, err := s.ListPayrollRuns(context.Background(), 20, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunPartial, runs[0].Status)
	require.Len(t, runs[0].Lines, 2)
	assert.Equal(t, model.StatusFailed, runs[0].Lines[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLGetCompanyEmpty(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("FROM companies").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetCompany(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

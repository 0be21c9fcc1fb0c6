package model

import "time"

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
)

// Company is the payroll owner profile.
type Company struct {
	ID               string    `json:"id"`
	Name             string    `json:"name" validate:"required"`
	Description      string    `json:"description"`
	Industry         string    `json:"industry"`
	Country          string    `json:"country"`
	Wallet           string    `json:"wallet"`
	Currency         string    `json:"currency" default:"USDC" validate:"oneof=SOL USDC"`
	PayrollFrequency string    `json:"payrollFrequency" default:"monthly" validate:"oneof=weekly biweekly monthly"`
	Timezone         string    `json:"timezone" default:"UTC"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Employee is one payee.
type Employee struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Wallet    string         `json:"wallet"`
	Position  string         `json:"position"`
	Salary    string         `json:"salary"`
	Currency  string         `json:"currency"`
	Status    EmployeeStatus `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
}

// EmployeeRequest represents request for POST /payroll/employees and PUT /payroll/employees/{id}
type EmployeeRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Wallet   string `json:"wallet" validate:"required"`
	Position string `json:"position"`
	Salary   string `json:"salary" validate:"required"`
	Currency string `json:"currency" default:"USDC" validate:"oneof=SOL USDC"`
}

// PayrollSummary represents response for GET /payroll/summary
type PayrollSummary struct {
	Employees       int               `json:"employees"`
	ActiveEmployees int               `json:"activeEmployees"`
	MonthlyTotal    map[string]string `json:"monthlyTotal"` // per currency
	EstimatedFee    map[string]string `json:"estimatedFee"`
}

// PayrollLine is the payment of one employee within a run.
type PayrollLine struct {
	EmployeeID string       `json:"employeeId"`
	Name       string       `json:"name"`
	Wallet     string       `json:"wallet"`
	Amount     string       `json:"amount"`
	Currency   string       `json:"currency"`
	Hash       string       `json:"hash,omitempty"`
	Status     RecordStatus `json:"status"`
	Error      string       `json:"error,omitempty"`
}

type PayrollRunStatus string

const (
	RunCompleted PayrollRunStatus = "completed"
	RunPartial   PayrollRunStatus = "partial"
	RunFailed    PayrollRunStatus = "failed"
)

// PayrollRun is one batch payment of all active employees.
type PayrollRun struct {
	ID         string           `json:"id"`
	Status     PayrollRunStatus `json:"status"`
	Lines      []PayrollLine    `json:"lines"`
	StartedAt  time.Time        `json:"startedAt"`
	FinishedAt time.Time        `json:"finishedAt"`
}

package handler

import (
	"context"
	"net/http"

	"github.com/AlexZinkM/globepay/internal/model"

	"go.uber.org/zap"
)

type PayrollService interface {
	Company(ctx context.Context) (model.Company, error)
	SaveCompany(ctx context.Context, c model.Company) (model.Company, error)
	Employees(ctx context.Context) ([]model.Employee, error)
	AddEmployee(ctx context.Context, req model.EmployeeRequest) (model.Employee, error)
	UpdateEmployee(ctx context.Context, id string, req model.EmployeeRequest) (model.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
	ToggleEmployee(ctx context.Context, id string) (model.Employee, error)
	Summary(ctx context.Context) (model.PayrollSummary, error)
	Run(ctx context.Context) (model.PayrollRun, error)
	Runs(ctx context.Context, limit, offset int) ([]model.PayrollRun, error)
}

type PayrollHandler struct {
	handler
	payroll PayrollService
}

func NewPayrollHandler(payroll PayrollService, log *zap.Logger) *PayrollHandler {
	return &PayrollHandler{handler: handler{log: log.Named("http.payroll")}, payroll: payroll}
}

func (h *PayrollHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("GET /payroll/company", h.GetCompany)
	mux.HandleFunc("PUT /payroll/company", h.SaveCompany)
	mux.HandleFunc("GET /payroll/employees", h.ListEmployees)
	mux.HandleFunc("POST /payroll/employees", h.AddEmployee)
	mux.HandleFunc("PUT /payroll/employees/{id}", h.UpdateEmployee)
	mux.HandleFunc("DELETE /payroll/employees/{id}", h.DeleteEmployee)
	mux.HandleFunc("POST /payroll/employees/{id}/toggle", h.ToggleEmployee)
	mux.HandleFunc("GET /payroll/summary", h.Summary)
	mux.HandleFunc("POST /payroll/runs", h.Run)
	mux.HandleFunc("GET /payroll/runs", h.ListRuns)
}

// GetCompany handles GET /payroll/company
// @Summary      Company profile
// @Tags         payroll
// @Produce      json
// @Success      200  {object}  model.Company
// @Failure      404  {object}  model.ErrorResponse
// @Router       /payroll/company [get]
func (h *PayrollHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	c, err := h.payroll.Company(r.Context())
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, c)
}

// SaveCompany handles PUT /payroll/company
// @Summary      Save company profile
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Param        request  body      model.Company  true  "Company"
// @Success      200      {object}  model.Company
// @Failure      400      {object}  model.ErrorResponse
// @Router       /payroll/company [put]
func (h *PayrollHandler) SaveCompany(w http.ResponseWriter, r *http.Request) {
	req, err := bind[model.Company](r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	c, err := h.payroll.SaveCompany(r.Context(), *req)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, c)
}

// ListEmployees handles GET /payroll/employees
// @Summary      Employees
// @Tags         payroll
// @Produce      json
// @Success      200  {array}  model.Employee
// @Router       /payroll/employees [get]
func (h *PayrollHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	list, err := h.payroll.Employees(r.Context())
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, list)
}

// AddEmployee handles POST /payroll/employees
// @Summary      Add employee
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Param        request  body      model.EmployeeRequest  true  "Employee"
// @Success      201      {object}  model.Employee
// @Failure      400      {object}  model.ErrorResponse
// @Router       /payroll/employees [post]
func (h *PayrollHandler) AddEmployee(w http.ResponseWriter, r *http.Request) {
	req, err := bind[model.EmployeeRequest](r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	e, err := h.payroll.AddEmployee(r.Context(), *req)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusCreated, e)
}

// UpdateEmployee handles PUT /payroll/employees/{id}
// @Summary      Update employee
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Employee ID"
// @Param        request  body      model.EmployeeRequest  true  "Employee"
// @Success      200      {object}  model.Employee
// @Failure      404      {object}  model.ErrorResponse
// @Router       /payroll/employees/{id} [put]
func (h *PayrollHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	req, err := bind[model.EmployeeRequest](r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	e, err := h.payroll.UpdateEmployee(r.Context(), r.PathValue("id"), *req)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, e)
}

// DeleteEmployee handles DELETE /payroll/employees/{id}
// @Summary      Remove employee
// @Tags         payroll
// @Param        id  path  string  true  "Employee ID"
// @Success      204
// @Failure      404  {object}  model.ErrorResponse
// @Router       /payroll/employees/{id} [delete]
func (h *PayrollHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.payroll.DeleteEmployee(r.Context(), r.PathValue("id")); err != nil {
		h.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleEmployee handles POST /payroll/employees/{id}/toggle
// @Summary      Toggle employee status
// @Description  Switches an employee between active and inactive
// @Tags         payroll
// @Produce      json
// @Param        id  path      string  true  "Employee ID"
// @Success      200 {object}  model.Employee
// @Failure      404 {object}  model.ErrorResponse
// @Router       /payroll/employees/{id}/toggle [post]
func (h *PayrollHandler) ToggleEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := h.payroll.ToggleEmployee(r.Context(), r.PathValue("id"))
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, e)
}

// Summary handles GET /payroll/summary
// @Summary      Payroll summary
// @Description  Monthly totals of active employees per currency with the estimated fee
// @Tags         payroll
// @Produce      json
// @Success      200  {object}  model.PayrollSummary
// @Router       /payroll/summary [get]
func (h *PayrollHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.payroll.Summary(r.Context())
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, sum)
}

// Run handles POST /payroll/runs
// @Summary      Run payroll
// @Description  Pays every active employee from the connected wallet, one confirmed transfer at a time
// @Tags         payroll
// @Produce      json
// @Success      201  {object}  model.PayrollRun
// @Failure      422  {object}  model.ErrorResponse
// @Router       /payroll/runs [post]
func (h *PayrollHandler) Run(w http.ResponseWriter, r *http.Request) {
	// A client that goes away must not stop the batch halfway.
	run, err := h.payroll.Run(context.WithoutCancel(r.Context()))
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusCreated, run)
}

// ListRuns handles GET /payroll/runs
// @Summary      Payroll runs
// @Tags         payroll
// @Produce      json
// @Param        limit   query     int  false  "Page size"  default(50)
// @Param        offset  query     int  false  "Offset"     default(0)
// @Success      200     {array}   model.PayrollRun
// @Router       /payroll/runs [get]
func (h *PayrollHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	req, err := bind[model.ListRequest](r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	runs, err := h.payroll.Runs(r.Context(), req.Limit, req.Offset)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.JSON(w, http.StatusOK, runs)
}

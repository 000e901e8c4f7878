package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/pagination"
	"pocketbook/internal/services"
)

// LedgerHandler handles incomes, expenses, the ledger summary and exports.
type LedgerHandler struct {
	ledgerService services.LedgerServicer
	exportService services.ExportServicer
	auditService  services.AuditServicer
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService services.LedgerServicer, exportService services.ExportServicer, auditService services.AuditServicer) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, exportService: exportService, auditService: auditService}
}

// CreateEntryRequest is the payload for a new income or expense. Amount is in
// minor units.
type CreateEntryRequest struct {
	Amount      int64   `json:"amount" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"required,max=100"`
	Description string  `json:"description" binding:"max=500"`
	Date        *string `json:"date"`
}

// UpdateEntryRequest holds the fields that may change on an income or expense.
type UpdateEntryRequest struct {
	Amount      *int64  `json:"amount" binding:"omitempty,gt=0"`
	Category    *string `json:"category" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Date        *string `json:"date"`
}

func (r CreateEntryRequest) date() (time.Time, error) {
	t, err := parseOptionalTime(r.Date)
	if err != nil || t == nil {
		return time.Time{}, err
	}
	return *t, nil
}

func (r UpdateEntryRequest) toUpdate() (services.LedgerEntryUpdate, error) {
	date, err := parseOptionalTime(r.Date)
	if err != nil {
		return services.LedgerEntryUpdate{}, err
	}
	return services.LedgerEntryUpdate{
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Date:        date,
	}, nil
}

func parseLedgerFilter(c *gin.Context) (services.LedgerFilter, error) {
	var filter services.LedgerFilter

	from, to, err := parseDateRange(c, "from_date", "to_date")
	if err != nil {
		return filter, err
	}
	filter.FromDate, filter.ToDate = from, to

	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}
	if v := c.Query("min_amount"); v != "" {
		amt, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid min_amount")
		}
		filter.MinAmount = &amt
	}
	if v := c.Query("max_amount"); v != "" {
		amt, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid max_amount")
		}
		filter.MaxAmount = &amt
	}
	return filter, nil
}

// bindCreateEntry reads the caller and a CreateEntryRequest, writing the error
// response itself when either fails.
func bindCreateEntry(c *gin.Context) (string, CreateEntryRequest, time.Time, bool) {
	var req CreateEntryRequest
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return "", req, time.Time{}, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return "", req, time.Time{}, false
	}
	date, err := req.date()
	if err != nil {
		respondWithError(c, err)
		return "", req, time.Time{}, false
	}
	return userID, req, date, true
}

// bindUpdateEntry reads the caller, the path id and an UpdateEntryRequest.
func bindUpdateEntry(c *gin.Context) (string, string, services.LedgerEntryUpdate, bool) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return "", "", services.LedgerEntryUpdate{}, false
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return "", "", services.LedgerEntryUpdate{}, false
	}
	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return "", "", services.LedgerEntryUpdate{}, false
	}
	update, err := req.toUpdate()
	if err != nil {
		respondWithError(c, err)
		return "", "", services.LedgerEntryUpdate{}, false
	}
	return userID, id, update, true
}

// bindList reads the caller, the page and the ledger filter.
func bindList(c *gin.Context) (string, pagination.PageRequest, services.LedgerFilter, bool) {
	var page pagination.PageRequest
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return "", page, services.LedgerFilter{}, false
	}
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return "", page, services.LedgerFilter{}, false
	}
	filter, err := parseLedgerFilter(c)
	if err != nil {
		respondWithError(c, err)
		return "", page, filter, false
	}
	return userID, page, filter, true
}

// CreateIncome records money received
// @Summary     Create an income
// @Description Record money received. Amount is in minor units; date defaults to now.
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateEntryRequest true "Income details"
// @Success     201 {object} models.Income "Income created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes [post]
func (h *LedgerHandler) CreateIncome(c *gin.Context) {
	userID, req, date, ok := bindCreateEntry(c)
	if !ok {
		return
	}

	income, err := h.ledgerService.CreateIncome(userID, req.Amount, req.Category, req.Description, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"income": income})
}

// GetIncomes lists incomes
// @Summary     List incomes
// @Description Get a paginated list of incomes, newest first, with optional filters
// @Tags        incomes
// @Produce     json
// @Security    BearerAuth
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Param       from_date  query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date    query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Param       category   query string false "Category"
// @Param       min_amount query int    false "Minimum amount (minor units)"
// @Param       max_amount query int    false "Maximum amount (minor units)"
// @Success     200 {object} pagination.PageResponse[models.Income] "Paginated incomes"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes [get]
func (h *LedgerHandler) GetIncomes(c *gin.Context) {
	userID, page, filter, ok := bindList(c)
	if !ok {
		return
	}

	result, err := h.ledgerService.GetIncomes(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetIncomeByID returns one income
// @Summary     Get income by ID
// @Tags        incomes
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income ID"
// @Success     200 {object} models.Income "Income"
// @Failure     400 {object} ErrorResponse "Invalid income ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Router      /incomes/{id} [get]
func (h *LedgerHandler) GetIncomeByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	incomeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.ledgerService.GetIncomeByID(userID, incomeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"income": income})
}

// UpdateIncome edits an income
// @Summary     Update income
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Income ID"
// @Param       request body UpdateEntryRequest true "Fields to update"
// @Success     200 {object} models.Income "Updated income"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Router      /incomes/{id} [put]
func (h *LedgerHandler) UpdateIncome(c *gin.Context) {
	userID, incomeID, update, ok := bindUpdateEntry(c)
	if !ok {
		return
	}

	income, err := h.ledgerService.UpdateIncome(userID, incomeID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"income": income})
}

// DeleteIncome deletes an income
// @Summary     Delete income
// @Tags        incomes
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income ID"
// @Success     200 {object} MessageResponse "Income deleted"
// @Failure     400 {object} ErrorResponse "Invalid income ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Router      /incomes/{id} [delete]
func (h *LedgerHandler) DeleteIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	incomeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledgerService.DeleteIncome(userID, incomeID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "income", incomeID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Income deleted successfully"})
}

// CreateExpense records money spent
// @Summary     Create an expense
// @Description Record money spent. Amount is in minor units; date defaults to now.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateEntryRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *LedgerHandler) CreateExpense(c *gin.Context) {
	userID, req, date, ok := bindCreateEntry(c)
	if !ok {
		return
	}

	expense, err := h.ledgerService.CreateExpense(userID, req.Amount, req.Category, req.Description, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses lists expenses
// @Summary     List expenses
// @Description Get a paginated list of expenses, newest first, with optional filters
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Param       from_date  query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date    query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Param       category   query string false "Category"
// @Param       min_amount query int    false "Minimum amount (minor units)"
// @Param       max_amount query int    false "Maximum amount (minor units)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *LedgerHandler) GetExpenses(c *gin.Context) {
	userID, page, filter, ok := bindList(c)
	if !ok {
		return
	}

	result, err := h.ledgerService.GetExpenses(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpenseByID returns one expense
// @Summary     Get expense by ID
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *LedgerHandler) GetExpenseByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.ledgerService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense edits an expense
// @Summary     Update expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Expense ID"
// @Param       request body UpdateEntryRequest true "Fields to update"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [put]
func (h *LedgerHandler) UpdateExpense(c *gin.Context) {
	userID, expenseID, update, ok := bindUpdateEntry(c)
	if !ok {
		return
	}

	expense, err := h.ledgerService.UpdateExpense(userID, expenseID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense deletes an expense
// @Summary     Delete expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *LedgerHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledgerService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Expense deleted successfully"})
}

// GetSummary returns ledger totals
// @Summary     Ledger summary
// @Description Total income, total expenses and balance. Stock consumption is part of total expenses but is not subtracted from the balance.
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       from_date query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} ledger.Summary "Ledger summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ledger/summary [get]
func (h *LedgerHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	from, to, err := parseDateRange(c, "from_date", "to_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.ledgerService.GetSummary(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// ExportRequest holds the export query parameters.
type ExportRequest struct {
	Format string `form:"format" binding:"omitempty,export_format"`
}

var exportContentTypes = map[string]string{
	services.ExportCSV:  "text/csv; charset=utf-8",
	services.ExportXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// Export downloads the ledger
// @Summary     Export ledger
// @Description Download every income and expense, oldest first, as CSV (default) or XLSX
// @Tags        ledger
// @Produce     text/csv
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       format query string false "csv or xlsx"
// @Success     200 {file} file "Ledger export"
// @Failure     400 {object} ErrorResponse "Invalid format"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ledger/export [get]
func (h *LedgerHandler) Export(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Format == "" {
		req.Format = services.ExportCSV
	}

	var buf bytes.Buffer
	if err := h.exportService.Export(userID, req.Format, &buf); err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("ledger-%s.%s", time.Now().Format("20060102"), req.Format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, exportContentTypes[req.Format], buf.Bytes())
}

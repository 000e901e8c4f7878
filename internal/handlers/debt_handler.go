package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/models"
	"pocketbook/internal/pagination"
	"pocketbook/internal/services"
)

// DebtHandler handles debt requests.
type DebtHandler struct {
	debtService  services.DebtServicer
	auditService services.AuditServicer
}

// NewDebtHandler creates a new DebtHandler.
func NewDebtHandler(debtService services.DebtServicer, auditService services.AuditServicer) *DebtHandler {
	return &DebtHandler{debtService: debtService, auditService: auditService}
}

// CreateDebtRequest is the payload for a new debt.
type CreateDebtRequest struct {
	PersonName  string  `json:"person_name" binding:"required,max=200"`
	Direction   string  `json:"direction" binding:"required,debt_direction" enums:"owed_by_me,owed_to_me"`
	Amount      int64   `json:"amount" binding:"required,gt=0"`
	AmountPaid  int64   `json:"amount_paid" binding:"gte=0"`
	Description string  `json:"description" binding:"max=500"`
	DueDate     *string `json:"due_date"`
}

// UpdateDebtRequest holds the fields that may change on a debt. An empty
// due_date string clears the due date.
type UpdateDebtRequest struct {
	PersonName  *string `json:"person_name" binding:"omitempty,min=1,max=200"`
	Amount      *int64  `json:"amount" binding:"omitempty,gt=0"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	DueDate     *string `json:"due_date"`
}

// PayDebtRequest is the payload for a debt payment.
type PayDebtRequest struct {
	Amount int64   `json:"amount" binding:"required,gt=0"`
	Date   *string `json:"date"`
}

// DebtListQuery holds the debt list filters.
type DebtListQuery struct {
	pagination.PageRequest
	Direction string `form:"direction" binding:"omitempty,debt_direction"`
	Status    string `form:"status" binding:"omitempty,debt_status"`
}

// CreateDebt records a debt
// @Summary     Create a debt
// @Description Record money owed by you or to you. Status is derived from amount_paid.
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateDebtRequest true "Debt details"
// @Success     201 {object} models.Debt "Debt created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts [post]
func (h *DebtHandler) CreateDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	dueDate, err := parseOptionalTime(req.DueDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	debt, err := h.debtService.CreateDebt(userID, req.PersonName, models.DebtDirection(req.Direction),
		req.Amount, req.AmountPaid, req.Description, dueDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"debt": debt})
}

// GetDebts lists debts
// @Summary     List debts
// @Description Paginated debts. Pending debts come first, then by due date.
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       direction query string false "Filter by direction" Enums(owed_by_me, owed_to_me)
// @Param       status    query string false "Filter by status" Enums(pending, paid)
// @Success     200 {object} pagination.PageResponse[models.Debt] "Paginated debts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts [get]
func (h *DebtHandler) GetDebts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query DebtListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.DebtFilter
	if query.Direction != "" {
		d := models.DebtDirection(query.Direction)
		filter.Direction = &d
	}
	if query.Status != "" {
		s := models.DebtStatus(query.Status)
		filter.Status = &s
	}

	result, err := h.debtService.GetDebts(userID, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDebtByID returns one debt
// @Summary     Get debt by ID
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Debt ID"
// @Success     200 {object} models.Debt "Debt"
// @Failure     400 {object} ErrorResponse "Invalid debt ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Router      /debts/{id} [get]
func (h *DebtHandler) GetDebtByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	debt, err := h.debtService.GetDebtByID(userID, debtID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"debt": debt})
}

// UpdateDebt edits a debt
// @Summary     Update debt
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Debt ID"
// @Param       request body UpdateDebtRequest true "Fields to update"
// @Success     200 {object} models.Debt "Updated debt"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Router      /debts/{id} [put]
func (h *DebtHandler) UpdateDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.DebtUpdate{
		PersonName:  req.PersonName,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			update.ClearDueDate = true
		} else {
			update.DueDate, err = parseOptionalTime(req.DueDate)
			if err != nil {
				respondWithError(c, err)
				return
			}
		}
	}

	debt, err := h.debtService.UpdateDebt(userID, debtID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"debt": debt})
}

// DeleteDebt deletes a debt
// @Summary     Delete debt
// @Description Delete a debt. Ledger rows written by earlier payments are kept.
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Debt ID"
// @Success     200 {object} MessageResponse "Debt deleted"
// @Failure     400 {object} ErrorResponse "Invalid debt ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Router      /debts/{id} [delete]
func (h *DebtHandler) DeleteDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.debtService.DeleteDebt(userID, debtID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "debt", debtID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Debt deleted successfully"})
}

// PayDebt applies a payment
// @Summary     Pay a debt
// @Description Apply a payment and mirror it in the ledger: an expense for debts you owe, an income for debts owed to you.
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "Debt ID"
// @Param       request body PayDebtRequest true "Payment"
// @Success     200 {object} services.PaymentResult "Debt and ledger row"
// @Failure     400 {object} ErrorResponse "Invalid input, debt already paid or payment too large"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts/{id}/payments [post]
func (h *DebtHandler) PayDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PayDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	date, err := parseOptionalTime(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}
	var when time.Time
	if date != nil {
		when = *date
	}

	result, err := h.debtService.Pay(userID, debtID, req.Amount, when)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditPayDebt, "debt", debtID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "status": result.Debt.Status})

	c.JSON(http.StatusOK, result)
}

// GetSummary totals debts by direction
// @Summary     Debt summary
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} ledger.DebtSummary "Debt totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /debts/summary [get]
func (h *DebtHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.debtService.GetSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

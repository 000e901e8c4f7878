package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/pagination"
	"pocketbook/internal/services"
)

// ProductHandler handles inventory requests.
type ProductHandler struct {
	productService services.ProductServicer
	auditService   services.AuditServicer
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService services.ProductServicer, auditService services.AuditServicer) *ProductHandler {
	return &ProductHandler{productService: productService, auditService: auditService}
}

// CreateProductRequest is the payload for a new product. Quantities may be
// fractional; per-unit amounts are minor units.
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required,max=200"`
	Unit          string          `json:"unit" binding:"max=20"`
	StockQuantity decimal.Decimal `json:"stock_quantity" binding:"gte=0" swaggertype:"string" example:"100.5"`
	CostPerUnit   int64           `json:"cost_per_unit" binding:"gte=0"`
	PricePerUnit  int64           `json:"price_per_unit" binding:"gte=0"`
}

// UpdateProductRequest holds the fields that may change on a product.
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Unit          *string          `json:"unit" binding:"omitempty,max=20"`
	StockQuantity *decimal.Decimal `json:"stock_quantity" binding:"omitempty,gte=0" swaggertype:"string"`
	CostPerUnit   *int64           `json:"cost_per_unit" binding:"omitempty,gte=0"`
	PricePerUnit  *int64           `json:"price_per_unit" binding:"omitempty,gte=0"`
}

// SellRequest is the payload for selling stock. When create_debt is false
// the whole total_earned counts as received.
type SellRequest struct {
	Quantity       decimal.Decimal `json:"quantity" binding:"gt=0" swaggertype:"string" example:"10"`
	TotalEarned    int64           `json:"total_earned" binding:"required,gt=0"`
	AmountReceived int64           `json:"amount_received" binding:"gte=0"`
	CreateDebt     bool            `json:"create_debt"`
	PersonName     string          `json:"person_name" binding:"max=200"`
	DueDate        *string         `json:"due_date"`
	Date           *string         `json:"date"`
}

// ConsumeRequest is the payload for taking stock for personal use.
type ConsumeRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"gt=0" swaggertype:"string" example:"2.5"`
	Date     *string         `json:"date"`
}

// CreateProduct adds a product
// @Summary     Create a product
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateProductRequest true "Product details"
// @Success     201 {object} models.Product "Product created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	product, err := h.productService.CreateProduct(userID, req.Name, req.Unit, req.StockQuantity, req.CostPerUnit, req.PricePerUnit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// GetInventory lists products with their valuation
// @Summary     List inventory
// @Description Every product with the cost, sale value and profit of its stock, plus inventory totals
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.InventoryList "Inventory"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /products [get]
func (h *ProductHandler) GetInventory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	inventory, err := h.productService.GetInventory(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, inventory)
}

// GetProductByID returns one product
// @Summary     Get product by ID
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Product ID"
// @Success     200 {object} services.ProductWithValuation "Product"
// @Failure     400 {object} ErrorResponse "Invalid product ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Router      /products/{id} [get]
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	product, err := h.productService.GetProductByID(userID, productID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// UpdateProduct edits a product
// @Summary     Update product
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Product ID"
// @Param       request body UpdateProductRequest true "Fields to update"
// @Success     200 {object} models.Product "Updated product"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Router      /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	product, err := h.productService.UpdateProduct(userID, productID, services.ProductUpdate{
		Name:          req.Name,
		Unit:          req.Unit,
		StockQuantity: req.StockQuantity,
		CostPerUnit:   req.CostPerUnit,
		PricePerUnit:  req.PricePerUnit,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct deletes a product
// @Summary     Delete product
// @Description Delete a product. Its consumption history is kept.
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Product ID"
// @Success     200 {object} MessageResponse "Product deleted"
// @Failure     400 {object} ErrorResponse "Invalid product ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Router      /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.productService.DeleteProduct(userID, productID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "product", productID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}

// Sell sells stock
// @Summary     Sell stock
// @Description Remove stock and record the income received. With create_debt and a partial payment, a debt owed to you is opened for the full total. Nothing is written when a check fails.
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string      true "Product ID"
// @Param       request body SellRequest true "Sale details"
// @Success     201 {object} services.SellResult "Rows written by the sale"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient stock"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /products/{id}/sell [post]
func (h *ProductHandler) Sell(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dueDate, err := parseOptionalTime(req.DueDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	date, err := parseOptionalTime(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sale := services.SellRequest{
		Quantity:       req.Quantity,
		TotalEarned:    req.TotalEarned,
		AmountReceived: req.AmountReceived,
		CreateDebt:     req.CreateDebt,
		PersonName:     req.PersonName,
		DueDate:        dueDate,
	}
	if date != nil {
		sale.Date = *date
	}

	result, err := h.productService.Sell(userID, productID, sale)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditSell, "product", productID, c.ClientIP(),
		map[string]interface{}{
			"quantity":     req.Quantity.String(),
			"total_earned": req.TotalEarned,
			"create_debt":  req.CreateDebt,
		})

	c.JSON(http.StatusCreated, result)
}

// Consume takes stock for personal use
// @Summary     Consume stock
// @Description Remove stock for personal use and record its cost as a "Stock Consumption" expense, which does not reduce the balance.
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "Product ID"
// @Param       request body ConsumeRequest true "Quantity consumed"
// @Success     201 {object} services.ConsumeResult "Rows written by the consumption"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient stock"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /products/{id}/consume [post]
func (h *ProductHandler) Consume(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ConsumeRequest
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

	result, err := h.productService.Consume(userID, productID, req.Quantity, when)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditConsume, "product", productID, c.ClientIP(),
		map[string]interface{}{"quantity": req.Quantity.String()})

	c.JSON(http.StatusCreated, result)
}

// GetConsumptions lists consumptions
// @Summary     List consumptions
// @Description Paginated consumption history, newest first. Under /products/{id}/consumptions only that product's rows are returned.
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Consumption] "Paginated consumptions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /consumptions [get]
// @Router      /products/{id}/consumptions [get]
func (h *ProductHandler) GetConsumptions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var productID *string
	if c.Param("id") != "" {
		id, err := parsePathID(c, "id")
		if err != nil {
			respondWithError(c, err)
			return
		}
		productID = &id
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.productService.GetConsumptions(userID, productID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/ledger"
	"pocketbook/internal/metrics"
	"pocketbook/internal/models"
	"pocketbook/internal/notifier"
	"pocketbook/internal/pagination"
)

const defaultUnit = "g"

// productService handles inventory and the sell/consume flows.
type productService struct {
	db            *gorm.DB
	notifications NotificationServicer
	currency      string
}

// NewProductService creates a new ProductServicer.
func NewProductService(db *gorm.DB, notifications NotificationServicer, currency string) ProductServicer {
	return &productService{db: db, notifications: notifications, currency: currency}
}

func validateProduct(p *models.Product) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	case p.StockQuantity.IsNegative():
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "stock quantity cannot be negative")
	case p.CostPerUnit < 0:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "cost per unit cannot be negative")
	case p.PricePerUnit < 0:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "price per unit cannot be negative")
	}
	return ledger.CheckQuantity(p.StockQuantity)
}

// CreateProduct adds a product to the inventory.
func (s *productService) CreateProduct(userID, name, unit string, stock decimal.Decimal, costPerUnit, pricePerUnit int64) (*models.Product, error) {
	if strings.TrimSpace(unit) == "" {
		unit = defaultUnit
	}
	product := &models.Product{
		UserID:        userID,
		Name:          strings.TrimSpace(name),
		Unit:          strings.TrimSpace(unit),
		StockQuantity: stock,
		CostPerUnit:   costPerUnit,
		PricePerUnit:  pricePerUnit,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.db.Create(product).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return product, nil
}

// GetInventory returns every product with its valuation and the totals.
func (s *productService) GetInventory(userID string) (*InventoryList, error) {
	var products []models.Product
	if err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&products).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	list := &InventoryList{
		Products: make([]ProductWithValuation, 0, len(products)),
		Totals:   ledger.ValueInventory(products),
	}
	for _, p := range products {
		list.Products = append(list.Products, ProductWithValuation{Product: p, ProductValuation: ledger.ValueProduct(p)})
	}
	return list, nil
}

func findProduct(db *gorm.DB, userID, productID string) (*models.Product, error) {
	var product models.Product
	if err := db.Where("id = ? AND user_id = ?", productID, userID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &product, nil
}

// GetProductByID retrieves a product with its valuation.
func (s *productService) GetProductByID(userID, productID string) (*ProductWithValuation, error) {
	product, err := findProduct(s.db, userID, productID)
	if err != nil {
		return nil, err
	}
	return &ProductWithValuation{Product: *product, ProductValuation: ledger.ValueProduct(*product)}, nil
}

// UpdateProduct applies the non-nil fields of update.
func (s *productService) UpdateProduct(userID, productID string, update ProductUpdate) (*models.Product, error) {
	product, err := findProduct(s.db, userID, productID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		product.Name = strings.TrimSpace(*update.Name)
	}
	if update.Unit != nil && strings.TrimSpace(*update.Unit) != "" {
		product.Unit = strings.TrimSpace(*update.Unit)
	}
	if update.StockQuantity != nil {
		product.StockQuantity = *update.StockQuantity
	}
	if update.CostPerUnit != nil {
		product.CostPerUnit = *update.CostPerUnit
	}
	if update.PricePerUnit != nil {
		product.PricePerUnit = *update.PricePerUnit
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.db.Save(product).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return product, nil
}

// DeleteProduct soft-deletes a product. Its consumptions keep the name.
func (s *productService) DeleteProduct(userID, productID string) error {
	product, err := findProduct(s.db, userID, productID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(product).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// validateQuantity checks a sell or consume quantity before any write.
func validateQuantity(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Quantity must be greater than zero")
	}
	return ledger.CheckQuantity(qty)
}

// removeStock decrements the product's stock inside tx. The conditional
// update keeps stock non-negative even if another writer got there first;
// the result is rounded to storage scale so REAL-backed columns do not drift.
func removeStock(tx *gorm.DB, product *models.Product, qty decimal.Decimal) error {
	remaining, err := ledger.RemoveStock(product.StockQuantity, qty)
	if err != nil {
		return err
	}

	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", product.ID, qty).
		Update("stock_quantity", gorm.Expr("ROUND(stock_quantity - ?, ?)", qty, models.QuantityScale))
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrInsufficientStock
	}

	product.StockQuantity = remaining
	return nil
}

// Sell removes stock and records the sale. The amount received now is
// written as income; with CreateDebt and a shortfall, a debt owed to the
// user is opened for the full total with the received part already paid.
// Nothing is written when any check fails.
func (s *productService) Sell(userID, productID string, req SellRequest) (*SellResult, error) {
	if err := validateQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if req.TotalEarned <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Total earned must be greater than zero")
	}

	received := req.TotalEarned
	personName := strings.TrimSpace(req.PersonName)
	if req.CreateDebt {
		received = req.AmountReceived
		if received < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount received cannot be negative")
		}
		if received > req.TotalEarned {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount received cannot exceed total earned")
		}
		if personName == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Person name is required when creating a debt")
		}
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	result := &SellResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := findProduct(tx, userID, productID)
		if err != nil {
			return err
		}
		if err := removeStock(tx, product, req.Quantity); err != nil {
			return err
		}
		result.Product = product

		if received > 0 {
			unitPrice := ledger.FormatMoney(ledger.UnitPrice(req.TotalEarned, req.Quantity), s.currency)
			desc := fmt.Sprintf("Sold %s of %s at %s/%s",
				ledger.FormatQuantity(req.Quantity, product.Unit), product.Name, unitPrice, product.Unit)
			income, err := createIncome(tx, userID, received, models.CategoryProductSale, desc, date)
			if err != nil {
				return err
			}
			result.Income = income
		}

		if req.CreateDebt && received < req.TotalEarned {
			debt := &models.Debt{
				UserID:      userID,
				PersonName:  personName,
				Direction:   models.DebtOwedToMe,
				Amount:      req.TotalEarned,
				AmountPaid:  received,
				Description: fmt.Sprintf("Sale of %s of %s", ledger.FormatQuantity(req.Quantity, product.Unit), product.Name),
				DueDate:     req.DueDate,
			}
			debt.DeriveStatus()
			if err := tx.Create(debt).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			result.Debt = debt
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	qty, _ := req.Quantity.Float64()
	metrics.StockMoved.WithLabelValues("sell").Add(qty)
	if result.Income != nil {
		metrics.LedgerWrites.WithLabelValues("income", models.CategoryProductSale).Inc()
	}

	msg := fmt.Sprintf("<b>Sale</b>: %s of %s for %s",
		ledger.FormatQuantity(req.Quantity, result.Product.Unit),
		notifier.Escape(result.Product.Name),
		ledger.FormatMoney(req.TotalEarned, s.currency))
	if result.Debt != nil {
		msg += fmt.Sprintf("\n%s owes %s", notifier.Escape(result.Debt.PersonName),
			ledger.FormatMoney(result.Debt.Remaining(), s.currency))
	}
	s.notifications.Notify(msg)

	return result, nil
}

// Consume removes stock for personal use. It writes a consumption and a
// "Stock Consumption" expense for the cost value; the expense is skipped
// when the product has no cost.
func (s *productService) Consume(userID, productID string, quantity decimal.Decimal, date time.Time) (*ConsumeResult, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}

	result := &ConsumeResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := findProduct(tx, userID, productID)
		if err != nil {
			return err
		}
		if err := removeStock(tx, product, quantity); err != nil {
			return err
		}
		result.Product = product

		costValue := ledger.ExtendedValue(quantity, product.CostPerUnit)
		consumption := &models.Consumption{
			UserID:      userID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    quantity,
			CostValue:   costValue,
			Date:        date,
		}
		if err := tx.Create(consumption).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		result.Consumption = consumption

		if costValue > 0 {
			desc := fmt.Sprintf("Consumed %s of %s", ledger.FormatQuantity(quantity, product.Unit), product.Name)
			expense, err := createExpense(tx, userID, costValue, models.CategoryStockConsumption, desc, date)
			if err != nil {
				return err
			}
			result.Expense = expense
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	qty, _ := quantity.Float64()
	metrics.StockMoved.WithLabelValues("consume").Add(qty)
	if result.Expense != nil {
		metrics.LedgerWrites.WithLabelValues("expense", models.CategoryStockConsumption).Inc()
	}
	return result, nil
}

// GetConsumptions lists consumptions, newest first, optionally for one product.
func (s *productService) GetConsumptions(userID string, productID *string, page pagination.PageRequest) (*pagination.PageResponse[models.Consumption], error) {
	page.Defaults()

	base := s.db.Model(&models.Consumption{}).Where("user_id = ?", userID)
	if productID != nil {
		base = base.Where("product_id = ?", *productID)
	}
	base = base.Session(&gorm.Session{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var consumptions []models.Consumption
	if err := base.Scopes(pagination.Paginate(page)).Order("date DESC").Find(&consumptions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(consumptions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

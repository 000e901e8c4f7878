package services

// dashboardService assembles the overview from the other services.
type dashboardService struct {
	ledger   LedgerServicer
	products ProductServicer
	debts    DebtServicer
	work     WorkSessionServicer
	currency string
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(ledger LedgerServicer, products ProductServicer, debts DebtServicer, work WorkSessionServicer, currency string) DashboardServicer {
	return &dashboardService{ledger: ledger, products: products, debts: debts, work: work, currency: currency}
}

// GetStats returns all-time balances, inventory value, debts and work time.
func (s *dashboardService) GetStats(userID string) (*DashboardStats, error) {
	summary, err := s.ledger.GetSummary(userID, nil, nil)
	if err != nil {
		return nil, err
	}
	inventory, err := s.products.GetInventory(userID)
	if err != nil {
		return nil, err
	}
	debts, err := s.debts.GetSummary(userID)
	if err != nil {
		return nil, err
	}
	active, err := s.work.GetActive(userID)
	if err != nil {
		return nil, err
	}
	work, err := s.work.GetSummary(userID)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalIncome:      summary.TotalIncome,
		TotalExpenses:    summary.TotalExpenses,
		Balance:          summary.Balance,
		TotalProducts:    len(inventory.Products),
		TotalStockValue:  inventory.Totals.TotalValue,
		TotalStockCost:   inventory.Totals.TotalCost,
		PotentialProfit:  inventory.Totals.TotalProfit,
		DebtToOthers:     debts.OwedByMe,
		DebtToMe:         debts.OwedToMe,
		PendingDebts:     debts.PendingCount,
		ActiveSession:    active,
		TodayWorkSeconds: work.TodaySeconds,
		Currency:         s.currency,
	}, nil
}

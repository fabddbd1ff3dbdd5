package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nimasrn/ledger-api/internal/model"
)

const (
	dashboardTopLimit    = 5
	dashboardRecentLimit = 5
	dashboardTrendMonths = 6
	trendMonthLayout     = "2006-01"
)

type StatisticsRepository interface {
	TopProducts(ctx context.Context, limit int) ([]model.TopProduct, error)
	TopCustomers(ctx context.Context, limit int) ([]model.TopCustomer, error)
	AmountsSince(ctx context.Context, txnType model.TransactionType, since time.Time) ([]model.DatedAmount, error)
}

type LedgerTotalsReader interface {
	SumByType(ctx context.Context) (model.TypeTotals, error)
	Recent(ctx context.Context, n int) ([]*model.Transaction, error)
}

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type InventoryReader interface {
	Counter
	InventoryValue(ctx context.Context) (decimal.Decimal, error)
}

type StatisticsService struct {
	stats     StatisticsRepository
	txns      LedgerTotalsReader
	customers Counter
	products  InventoryReader
	now       func() time.Time
}

func NewStatisticsService(stats StatisticsRepository, txns LedgerTotalsReader, customers Counter, products InventoryReader) *StatisticsService {
	return &StatisticsService{
		stats:     stats,
		txns:      txns,
		customers: customers,
		products:  products,
		now:       time.Now,
	}
}

// Dashboard recomputes every figure on each call.
func (s *StatisticsService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	sums, err := s.txns.SumByType(ctx)
	if err != nil {
		return nil, err
	}
	customerCount, err := s.customers.Count(ctx)
	if err != nil {
		return nil, err
	}
	productCount, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}
	inventory, err := s.products.InventoryValue(ctx)
	if err != nil {
		return nil, err
	}
	topProducts, err := s.stats.TopProducts(ctx, dashboardTopLimit)
	if err != nil {
		return nil, err
	}
	topCustomers, err := s.stats.TopCustomers(ctx, dashboardTopLimit)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	trend, err := s.monthlyTrend(ctx, now)
	if err != nil {
		return nil, err
	}
	recent, err := s.txns.Recent(ctx, dashboardRecentLimit)
	if err != nil {
		return nil, err
	}

	sales := sums.Get(model.TransactionSell)
	purchases := sums.Get(model.TransactionBuy)
	expenses := sums.Get(model.TransactionExpense)
	receivables := sums.Get(model.TransactionReceivable)

	if topProducts == nil {
		topProducts = []model.TopProduct{}
	}
	if topCustomers == nil {
		topCustomers = []model.TopCustomer{}
	}
	if recent == nil {
		recent = []*model.Transaction{}
	}

	return &model.DashboardStats{
		TotalSales:         sales,
		TotalPurchases:     purchases,
		TotalExpenses:      expenses,
		TotalDue:           sums.DueTotal,
		TotalReceivable:    receivables,
		NetCashFlow:        sales.Sub(purchases).Sub(expenses).Add(receivables),
		CustomerCount:      customerCount,
		ProductCount:       productCount,
		TopSellingProducts: topProducts,
		TopCustomers:       topCustomers,
		MonthlyTrend:       trend,
		InventoryValue:     inventory,
		ProfitMargin:       profitMargin(sales, purchases),
		RecentTransactions: recent,
		GeneratedAt:        now,
	}, nil
}

func profitMargin(sales, purchases decimal.Decimal) decimal.Decimal {
	if !sales.IsPositive() {
		return decimal.Zero
	}
	return sales.Sub(purchases).Div(sales).Mul(decimal.NewFromInt(100)).Round(2)
}

// monthlyTrend buckets sell totals into the current UTC month and the ones
// before it, oldest first. Empty months report zero.
func (s *StatisticsService) monthlyTrend(ctx context.Context, now time.Time) ([]model.MonthlyAmount, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(dashboardTrendMonths - 1), 0)

	rows, err := s.stats.AmountsSince(ctx, model.TransactionSell, start)
	if err != nil {
		return nil, err
	}

	trend := make([]model.MonthlyAmount, dashboardTrendMonths)
	index := make(map[string]int, dashboardTrendMonths)
	for i := range trend {
		key := start.AddDate(0, i, 0).Format(trendMonthLayout)
		trend[i] = model.MonthlyAmount{Month: key, Total: decimal.Zero}
		index[key] = i
	}
	for _, row := range rows {
		if i, ok := index[row.Date.UTC().Format(trendMonthLayout)]; ok {
			trend[i].Total = trend[i].Total.Add(row.Total)
		}
	}
	return trend, nil
}

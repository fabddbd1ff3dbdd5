package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TopProduct struct {
	ProductID     int64           `json:"productId"`
	Name          string          `json:"name"`
	TotalQuantity int64           `json:"totalQuantity"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

type TopCustomer struct {
	CustomerID       int64           `json:"customerId"`
	Name             string          `json:"name"`
	TotalSales       decimal.Decimal `json:"totalSales"`
	TransactionCount int64           `json:"transactionCount"`
}

// DatedAmount is one transaction total at its ledger date.
type DatedAmount struct {
	Date  time.Time
	Total decimal.Decimal
}

type MonthlyAmount struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

type DashboardStats struct {
	TotalSales         decimal.Decimal `json:"totalSales"`
	TotalPurchases     decimal.Decimal `json:"totalPurchases"`
	TotalExpenses      decimal.Decimal `json:"totalExpenses"`
	TotalDue           decimal.Decimal `json:"totalDue"`
	TotalReceivable    decimal.Decimal `json:"totalReceivable"`
	NetCashFlow        decimal.Decimal `json:"netCashFlow"`
	CustomerCount      int64           `json:"customerCount"`
	ProductCount       int64           `json:"productCount"`
	TopSellingProducts []TopProduct    `json:"topSellingProducts"`
	TopCustomers       []TopCustomer   `json:"topCustomers"`
	MonthlyTrend       []MonthlyAmount `json:"monthlyTrend"`
	InventoryValue     decimal.Decimal `json:"inventoryValue"`
	ProfitMargin       decimal.Decimal `json:"profitMargin"`
	RecentTransactions []*Transaction  `json:"recentTransactions"`
	GeneratedAt        time.Time       `json:"generatedAt"`
}

// TypeTotals holds ledger sums grouped by transaction type, plus the sum of
// every due-payment transaction.
type TypeTotals struct {
	ByType   map[TransactionType]decimal.Decimal
	DueTotal decimal.Decimal
}

func (t TypeTotals) Get(tt TransactionType) decimal.Decimal {
	if v, ok := t.ByType[tt]; ok {
		return v
	}
	return decimal.Zero
}

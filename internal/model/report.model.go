package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReportCustomerInfo struct {
	Name    string          `json:"name"`
	Contact string          `json:"contact"`
	Balance decimal.Decimal `json:"balance"`
}

type ReportTotals struct {
	TotalPurchases decimal.Decimal `json:"totalPurchases"`
	TotalSales     decimal.Decimal `json:"totalSales"`
	AmountOwed     decimal.Decimal `json:"amountOwed"`
	AmountDue      decimal.Decimal `json:"amountDue"`
}

type ReportProduct struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type ReportTransaction struct {
	ID          int64           `json:"id"`
	Type        TransactionType `json:"type"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentType PaymentType     `json:"paymentType"`
	Products    []ReportProduct `json:"products"`
	Note        string          `json:"note"`
}

type ReportPagination struct {
	CurrentPage         int   `json:"currentPage"`
	TotalPages          int   `json:"totalPages"`
	TotalTransactions   int64 `json:"totalTransactions"`
	TransactionsPerPage int   `json:"transactionsPerPage"`
}

type ReportTransactions struct {
	Data       []ReportTransaction `json:"data"`
	Pagination ReportPagination    `json:"pagination"`
}

type CustomerReport struct {
	CustomerInfo ReportCustomerInfo `json:"customerInfo"`
	Totals       ReportTotals       `json:"totals"`
	Transactions ReportTransactions `json:"transactions"`
}

const UnknownProductName = "Unknown Product"

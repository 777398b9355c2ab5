package dto

import "github.com/shopspring/decimal"

// BalanceResponse is the derived balance of one customer account.
// A positive balance is owed by the customer; a negative one is credit in their favour.
type BalanceResponse struct {
	CustomerID string          `json:"customerID"`
	Balance    decimal.Decimal `json:"balance"`
}

// TotalReceivableResponse is the sum of all customer balances of the owner.
type TotalReceivableResponse struct {
	TotalReceivable decimal.Decimal `json:"totalReceivable"`
}

// BulkDeleteCustomersRequest lists the customers to remove together.
type BulkDeleteCustomersRequest struct {
	CustomerIDs []string `json:"customerIDs" binding:"required,min=1,dive,required"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// InsufficientStockResponse is returned with 409 when a reservation cannot be satisfied.
type InsufficientStockResponse struct {
	Error       string `json:"error"`
	ProductID   string `json:"productID"`
	ProductName string `json:"productName,omitempty"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

package models

// Account is the accounts row joined with the owning customer's name.
type Account struct {
	AccountID    string `db:"account_id"`
	CustomerID   string `db:"customer_id"`
	OwnerID      string `db:"owner_id"`
	CustomerName string `db:"customer_name"` // From customers.name
	AuditFields
}

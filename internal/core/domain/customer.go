package domain

// Customer is a person buying on credit from a merchant (the owner).
// Customers are created by the registration flow and never mutated by the ledger.
type Customer struct {
	CustomerID string  `json:"customerID"`
	OwnerID    string  `json:"ownerID"` // Principal that owns the customer
	Name       string  `json:"name"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	AuditFields
}

// Account is the credit relationship for one customer. It carries no writable balance;
// the balance is always derived from the account's purchases and payments.
type Account struct {
	AccountID    string `json:"accountID"`
	CustomerID   string `json:"customerID"`
	OwnerID      string `json:"ownerID"`
	CustomerName string `json:"customerName"`
	AuditFields
}

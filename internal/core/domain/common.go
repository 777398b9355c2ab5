package domain

import "time"

// AuditFields holds standard audit information for ledger rows.
// CreatedBy/LastUpdatedBy hold the principal that performed the write.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// NewAuditFields stamps both creation and update fields with the same instant and principal.
func NewAuditFields(at time.Time, by string) AuditFields {
	return AuditFields{
		CreatedAt:     at,
		CreatedBy:     by,
		LastUpdatedAt: at,
		LastUpdatedBy: by,
	}
}

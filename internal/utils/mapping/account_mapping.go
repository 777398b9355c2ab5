package mapping

import (
	"github.com/SscSPs/fiado_backend/internal/core/domain"
	"github.com/SscSPs/fiado_backend/internal/models"
)

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		CustomerID:   m.CustomerID,
		OwnerID:      m.OwnerID,
		CustomerName: m.CustomerName,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainProduct converts a model Product to a domain Product
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:   m.ProductID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		UnitPrice:   m.UnitPrice,
		StockOnHand: m.StockOnHand,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

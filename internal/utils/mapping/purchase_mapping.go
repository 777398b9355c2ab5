package mapping

import (
	"github.com/SscSPs/fiado_backend/internal/core/domain"
	"github.com/SscSPs/fiado_backend/internal/models"
)

// ToModelPurchase converts a domain Purchase to a model Purchase. Items are mapped separately.
func ToModelPurchase(d domain.Purchase) models.Purchase {
	return models.Purchase{
		PurchaseID:   d.PurchaseID,
		AccountID:    d.AccountID,
		Total:        d.Total,
		PurchaseDate: d.PurchaseDate,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPurchase converts a model Purchase and its item rows to a domain Purchase.
func ToDomainPurchase(m models.Purchase, items []models.PurchaseItem) domain.Purchase {
	return domain.Purchase{
		PurchaseID:   m.PurchaseID,
		AccountID:    m.AccountID,
		Total:        m.Total,
		PurchaseDate: m.PurchaseDate,
		Items:        ToDomainPurchaseItemSlice(items),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelPurchaseItem(d domain.PurchaseItem) models.PurchaseItem {
	return models.PurchaseItem{
		PurchaseItemID: d.PurchaseItemID,
		PurchaseID:     d.PurchaseID,
		ProductID:      d.ProductID,
		ProductName:    d.ProductName,
		Quantity:       d.Quantity,
		UnitPrice:      d.UnitPrice,
	}
}

func ToDomainPurchaseItem(m models.PurchaseItem) domain.PurchaseItem {
	return domain.PurchaseItem{
		PurchaseItemID: m.PurchaseItemID,
		PurchaseID:     m.PurchaseID,
		ProductID:      m.ProductID,
		ProductName:    m.ProductName,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
	}
}

// ToDomainPurchaseItemSlice returns nil for an empty input so simple purchases carry no items.
func ToDomainPurchaseItemSlice(ms []models.PurchaseItem) []domain.PurchaseItem {
	if len(ms) == 0 {
		return nil
	}
	ds := make([]domain.PurchaseItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPurchaseItem(m)
	}
	return ds
}

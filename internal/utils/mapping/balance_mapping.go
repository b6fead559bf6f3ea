package mapping

import (
	"github.com/malihub/mali_ledger/internal/core/domain"
	"github.com/malihub/mali_ledger/internal/models"
)

// ToModelBalance converts a domain Balance to a model Balance
func ToModelBalance(d domain.Balance) models.Balance {
	return models.Balance{
		UserID:         d.UserID,
		Available:      d.Available,
		Locked:         d.Locked,
		LifetimeEarned: d.LifetimeEarned,
		LifetimeSpent:  d.LifetimeSpent,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBalance converts a model Balance to a domain Balance
func ToDomainBalance(m models.Balance) domain.Balance {
	return domain.Balance{
		UserID:         m.UserID,
		Available:      m.Available,
		Locked:         m.Locked,
		LifetimeEarned: m.LifetimeEarned,
		LifetimeSpent:  m.LifetimeSpent,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

package services

import (
	"context"

	"github.com/malihub/mali_ledger/internal/core/domain"
)

// ReferenceResolver maps an escrow hold's opaque reference (service,
// session, booking ...) to the payee user ID. Implemented by the
// marketplace side; the ledger only needs the payee identity at release
// time.
type ReferenceResolver interface {
	ResolvePayee(ctx context.Context, refType domain.ReferenceType, refID string) (string, error)
}

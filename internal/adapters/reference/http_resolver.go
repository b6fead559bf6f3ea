package reference

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/malihub/mali_ledger/internal/apperrors"
	"github.com/malihub/mali_ledger/internal/core/domain"
	portssvc "github.com/malihub/mali_ledger/internal/core/ports/services"
)

const resolveTimeout = 5 * time.Second

// HTTPResolver resolves escrow references against the marketplace's internal
// API: GET {base}/internal/references/{type}/{id}/payee.
type HTTPResolver struct {
	baseURL string
	client  *http.Client
}

// NewHTTPResolver creates a new HTTPResolver.
func NewHTTPResolver(baseURL string) *HTTPResolver {
	return &HTTPResolver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: resolveTimeout},
	}
}

// Ensure HTTPResolver implements the portssvc.ReferenceResolver interface
var _ portssvc.ReferenceResolver = (*HTTPResolver)(nil)

type payeeResponse struct {
	PayeeID string `json:"payeeID"`
}

// ResolvePayee looks up the provider behind a reference. A 404 from the
// marketplace means the deliverable (or its provider) no longer exists, so
// the release cannot proceed.
func (r *HTTPResolver) ResolvePayee(ctx context.Context, refType domain.ReferenceType, refID string) (string, error) {
	endpoint := fmt.Sprintf("%s/internal/references/%s/%s/payee",
		r.baseURL, url.PathEscape(string(refType)), url.PathEscape(refID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build payee request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("payee lookup failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return "", fmt.Errorf("%w: %s/%s", apperrors.ErrProviderNotFound, refType, refID)
	default:
		return "", fmt.Errorf("payee lookup returned status %d", resp.StatusCode)
	}

	var body payeeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode payee response: %w", err)
	}
	if body.PayeeID == "" {
		return "", fmt.Errorf("%w: empty payee for %s/%s", apperrors.ErrProviderNotFound, refType, refID)
	}
	return body.PayeeID, nil
}

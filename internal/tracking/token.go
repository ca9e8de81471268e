package tracking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phishaware/backend/internal/repository"
)

// tokenRetries bounds the collision-retry loop. A collision between random
// UUIDs is vanishingly unlikely, but the contract is that a duplicate token
// is never silently accepted.
const tokenRetries = 5

// TokenIssuer generates unique tracking tokens for enrollments
type TokenIssuer struct {
	repo repository.EnrollmentRepository
}

// NewTokenIssuer creates a new token issuer
func NewTokenIssuer(repo repository.EnrollmentRepository) *TokenIssuer {
	return &TokenIssuer{repo: repo}
}

// IssueToken produces a random opaque token, collision-checked against
// stored enrollments. Persisting the token is the caller's responsibility.
func (t *TokenIssuer) IssueToken(ctx context.Context) (string, error) {
	for i := 0; i < tokenRetries; i++ {
		token := uuid.NewString()

		exists, err := t.repo.TokenExists(ctx, token)
		if err != nil {
			return "", fmt.Errorf("failed to check token uniqueness: %w", err)
		}
		if !exists {
			return token, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique tracking token after %d attempts", tokenRetries)
}

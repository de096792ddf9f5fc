package auth

import (
	"context"

	"github.com/viw-carta/backend/internal/models"
	"github.com/viw-carta/backend/pkg/apperr"
	"github.com/viw-carta/backend/pkg/utils"
)

// UserStore is the lookup the verifier needs from persistence.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Verifier checks submitted credentials against stored hashes. It is
// read-only: session bookkeeping belongs to the SessionService.
type Verifier struct {
	users UserStore
}

// NewVerifier creates a credential verifier.
func NewVerifier(users UserStore) *Verifier {
	return &Verifier{users: users}
}

// errInvalidCredentials is shared by every failure path so a caller cannot
// distinguish an unknown email from a wrong password or a deactivated
// account.
func errInvalidCredentials() error {
	return apperr.Unauthorized("invalid email or password")
}

// Verify checks the email/password pair and returns the matching user.
// The plaintext password is never persisted or logged.
func (v *Verifier) Verify(ctx context.Context, email, password string) (*models.User, error) {
	user, err := v.users.GetByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, errInvalidCredentials()
	}
	if !user.Active {
		return nil, errInvalidCredentials()
	}
	if !utils.CheckPassword(password, user.Password) {
		return nil, errInvalidCredentials()
	}
	return user, nil
}

package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/wlw20016/yisu-hotel/internal/domain"
)

// AuthService is the credential collaborator: it registers accounts and
// exchanges username/password for a verified identity. Credentials are
// compared as-is; hardening the credential store is outside this service.
type AuthService struct {
	users domain.UserRepository
}

func NewAuthService(u domain.UserRepository) *AuthService {
	return &AuthService{users: u}
}

// Register creates an account. Role defaults to MERCHANT, matching the
// sign-up form.
func (s *AuthService) Register(ctx context.Context, username, password string, role domain.Role) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, domain.Validationf("username and password are required")
	}
	if role == "" {
		role = domain.RoleMerchant
	}
	if !domain.ValidRole(role) {
		return 0, domain.Validationf("unknown role %q", role)
	}

	id, err := s.users.CreateUser(ctx, domain.User{Username: username, Password: password, Role: role})
	if err != nil {
		return 0, err
	}
	log.Info().Str("username", username).Str("role", string(role)).Msg("user registered")
	return id, nil
}

// Authenticate returns the verified identity for a credential pair. Unknown
// usernames and wrong passwords are indistinguishable.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (domain.Identity, error) {
	u, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Identity{}, domain.ErrAuth
		}
		return domain.Identity{}, err
	}
	if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
		return domain.Identity{}, domain.ErrAuth
	}
	return domain.Identity{UserID: u.ID, Role: u.Role}, nil
}

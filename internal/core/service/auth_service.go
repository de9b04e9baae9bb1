package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
	"github.com/helpdeskhq/helpdesk-api/internal/core/ports"
)

// AuthService implements login, logout, and the self-service profile.
type AuthService struct {
	users     ports.UserRepository
	denylist  ports.TokenDenylist
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(users ports.UserRepository, denylist ports.TokenDenylist, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, denylist: denylist, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Login verifies the credentials and returns a signed bearer token plus the
// authenticated user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout revokes the token id until its natural expiry. Already-expired
// tokens need no denylist entry.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.denylist.Revoke(ctx, tokenID, ttl)
}

// Me returns the principal's own profile.
func (s *AuthService) Me(ctx context.Context, p domain.Principal) (*domain.User, error) {
	return s.users.FindByUUID(ctx, p.ID)
}

// PatchMe updates the principal's own profile. Role changes are rejected
// outright: a principal can never change its own role, admin included.
func (s *AuthService) PatchMe(ctx context.Context, p domain.Principal, input ports.PatchUserInput) error {
	if _, err := s.users.FindByUUID(ctx, p.ID); err != nil {
		return err
	}
	if input.Role != nil {
		return fmt.Errorf("%w: role cannot be changed on your own account", domain.ErrForbidden)
	}

	set := map[string]any{}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Email != nil {
		set["email"] = *input.Email
	}
	if input.Phone != nil {
		set["phone"] = *input.Phone
	}
	if input.Password != nil {
		if input.ConfirmPassword == nil || *input.Password != *input.ConfirmPassword {
			return fmt.Errorf("%w: password and confirm password don't match", domain.ErrValidation)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		set["password_hash"] = string(hash)
	}
	if input.Picture != nil {
		if err := validateAttachment(input.Picture, imageMimeTypes); err != nil {
			return err
		}
		set["profile_picture"] = input.Picture
	}
	if len(set) == 0 {
		return domain.ErrNoChange
	}
	set["updated_at"] = time.Now().UTC()

	if _, err := s.users.Update(ctx, p.ID, set); err != nil {
		return err
	}
	return nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.UUID,
		"role": string(user.Role),
		"jti":  uuid.New().String(),
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
	"github.com/helpdeskhq/helpdesk-api/internal/core/ports"
)

// UserService implements the admin-facing account surface. Role assignment
// follows one rule: only an admin may set a role, and never on their own
// account.
type UserService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// List returns all accounts. Admin only.
func (s *UserService) List(ctx context.Context, p domain.Principal) ([]*domain.User, error) {
	if p.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return s.users.List(ctx, "")
}

// ListByRole returns accounts with the given role. The teknis listing is open
// to managers as well (they pick assignees from it); everything else is admin
// only.
func (s *UserService) ListByRole(ctx context.Context, p domain.Principal, role domain.Role) ([]*domain.User, error) {
	allowed := p.Role == domain.RoleAdmin ||
		(role == domain.RoleTeknis && p.Role == domain.RoleManager)
	if !allowed {
		return nil, domain.ErrForbidden
	}
	return s.users.List(ctx, role)
}

// Get returns a single account. Admin only.
func (s *UserService) Get(ctx context.Context, p domain.Principal, id string) (*domain.User, error) {
	if p.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return s.users.FindByUUID(ctx, id)
}

// Create registers a new account. Admin only.
func (s *UserService) Create(ctx context.Context, p domain.Principal, input ports.CreateUserInput) (*domain.User, error) {
	if p.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	name := strings.TrimSpace(input.Name)
	if len(name) < 3 || len(name) > 100 {
		return nil, fmt.Errorf("%w: name must be 3-100 characters", domain.ErrValidation)
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	role, ok := domain.ParseRole(strings.ToLower(strings.TrimSpace(input.Role)))
	if !ok {
		return nil, fmt.Errorf("%w: invalid role", domain.ErrValidation)
	}
	if input.Password == "" || input.Password != input.ConfirmPassword {
		return nil, fmt.Errorf("%w: password and confirm password don't match", domain.ErrValidation)
	}
	if err := validateAttachment(input.Picture, imageMimeTypes); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		UUID:           uuid.New().String(),
		Name:           name,
		Email:          input.Email,
		PasswordHash:   string(hash),
		Role:           role,
		Phone:          input.Phone,
		ProfilePicture: input.Picture,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", user.UUID).Str("role", string(role)).Msg("user created")
	return user, nil
}

// Patch updates an account. Admins may update anyone; other principals only
// themselves. Role may be changed only by an admin acting on another user.
func (s *UserService) Patch(ctx context.Context, p domain.Principal, id string, input ports.PatchUserInput) error {
	if p.Role != domain.RoleAdmin && p.ID != id {
		return domain.ErrForbidden
	}
	if _, err := s.users.FindByUUID(ctx, id); err != nil {
		return err
	}

	set := map[string]any{}
	if input.Role != nil {
		if p.Role != domain.RoleAdmin || p.ID == id {
			return fmt.Errorf("%w: only an admin can change another user's role", domain.ErrForbidden)
		}
		role, ok := domain.ParseRole(strings.ToLower(strings.TrimSpace(*input.Role)))
		if !ok {
			return fmt.Errorf("%w: invalid role", domain.ErrValidation)
		}
		set["role"] = string(role)
	}
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

	if _, err := s.users.Update(ctx, id, set); err != nil {
		return err
	}
	return nil
}

// Delete removes an account. Admin only.
func (s *UserService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if p.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if _, err := s.users.FindByUUID(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

// Count returns the total number of accounts. Admin only.
func (s *UserService) Count(ctx context.Context, p domain.Principal) (int64, error) {
	if p.Role != domain.RoleAdmin {
		return 0, domain.ErrForbidden
	}
	return s.users.Count(ctx)
}

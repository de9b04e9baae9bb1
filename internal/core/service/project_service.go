package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
	"github.com/helpdeskhq/helpdesk-api/internal/core/policy"
	"github.com/helpdeskhq/helpdesk-api/internal/core/ports"
)

// ProjectService implements product/project CRUD. The pic is re-validated as
// a manager on every assignment, since a user's role can change over the
// project's lifetime.
type ProjectService struct {
	projects ports.ProjectRepository
	users    ports.UserRepository
	logger   zerolog.Logger
}

func NewProjectService(projects ports.ProjectRepository, users ports.UserRepository, logger zerolog.Logger) *ProjectService {
	return &ProjectService{projects: projects, users: users, logger: logger}
}

// List returns projects in the principal's scope: managers their own,
// everyone else all.
func (s *ProjectService) List(ctx context.Context, p domain.Principal) ([]*domain.ProductProject, error) {
	return s.projects.List(ctx, policy.ProjectScope(p))
}

// Get returns a single project; a manager asking for a project they are not
// pic of gets Forbidden.
func (s *ProjectService) Get(ctx context.Context, p domain.Principal, id string) (*domain.ProductProject, error) {
	project, err := s.projects.FindByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadProject(p, project) {
		return nil, domain.ErrForbidden
	}
	return project, nil
}

// Create registers a new product/project.
func (s *ProjectService) Create(ctx context.Context, p domain.Principal, input ports.CreateProjectInput) (*domain.ProductProject, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < 3 || len(name) > 100 {
		return nil, fmt.Errorf("%w: name must be 3-100 characters", domain.ErrValidation)
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	issueType, ok := domain.ParseIssueType(strings.ToLower(input.IssueType))
	if !ok {
		return nil, fmt.Errorf("%w: issue type must be either 'product' or 'project'", domain.ErrValidation)
	}
	if err := s.requireManager(ctx, input.PIC); err != nil {
		return nil, err
	}
	if err := validateAttachment(input.Picture, imageMimeTypes); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project := &domain.ProductProject{
		UUID:           uuid.New().String(),
		Name:           name,
		Description:    input.Description,
		IssueType:      issueType,
		PIC:            input.PIC,
		ProfilePicture: input.Picture,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		s.logger.Error().Err(err).Msg("failed to create product/project")
		return nil, err
	}

	s.logger.Info().Str("project", project.UUID).Str("pic", project.PIC).Msg("product/project created")
	return project, nil
}

// Patch updates a project. Whenever pic changes, the new pic is looked up and
// must currently be a manager.
func (s *ProjectService) Patch(ctx context.Context, p domain.Principal, id string, input ports.PatchProjectInput) error {
	if _, err := s.projects.FindByUUID(ctx, id); err != nil {
		return err
	}

	set := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if len(name) < 3 || len(name) > 100 {
			return fmt.Errorf("%w: name must be 3-100 characters", domain.ErrValidation)
		}
		set["name"] = name
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.IssueType != nil {
		issueType, ok := domain.ParseIssueType(strings.ToLower(*input.IssueType))
		if !ok {
			return fmt.Errorf("%w: issue type must be either 'product' or 'project'", domain.ErrValidation)
		}
		set["issue_type"] = string(issueType)
	}
	if input.PIC != nil {
		if err := s.requireManager(ctx, *input.PIC); err != nil {
			return err
		}
		set["pic"] = *input.PIC
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

	modified, err := s.projects.Update(ctx, id, set)
	if err != nil {
		return err
	}
	if modified == 0 {
		return domain.ErrNoChange
	}
	return nil
}

// Delete removes a project.
func (s *ProjectService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if _, err := s.projects.FindByUUID(ctx, id); err != nil {
		return err
	}
	return s.projects.Delete(ctx, id)
}

// Count returns the number of projects in the principal's scope.
func (s *ProjectService) Count(ctx context.Context, p domain.Principal) (int64, error) {
	return s.projects.Count(ctx, policy.ProjectScope(p))
}

// requireManager fails with a validation error unless the referenced user
// currently has role manager.
func (s *ProjectService) requireManager(ctx context.Context, userID string) error {
	pic, err := s.users.FindByUUID(ctx, userID)
	if err != nil || pic.Role != domain.RoleManager {
		return fmt.Errorf("%w: PIC must be a user with role 'manager'", domain.ErrValidation)
	}
	return nil
}

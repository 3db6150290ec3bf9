package member

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/masthead-press/masthead/pkg/logger"
)

// RoleSource supplies the currently valid roles. System config owns the
// role list; it is an open set of strings, not an enum.
type RoleSource interface {
	ValidRoles(ctx context.Context) ([]string, error)
}

// Service defines member roster operations.
type Service interface {
	Create(ctx context.Context, fullName, email, role string) (*Member, error)
	Get(ctx context.Context, id uuid.UUID) (*Member, error)
	GetByEmail(ctx context.Context, email string) (*Member, error)
	List(ctx context.Context, includeArchived bool) ([]Member, error)
	ChangeRole(ctx context.Context, id uuid.UUID, role string) error
	Archive(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  Repository
	roles RoleSource
	log   *logger.Logger
}

// NewService creates a member Service.
func NewService(repo Repository, roles RoleSource, log *logger.Logger) Service {
	return &service{repo: repo, roles: roles, log: log}
}

func (s *service) Create(ctx context.Context, fullName, email, role string) (*Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.checkRole(ctx, role); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check existing member: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	m := &Member{
		FullName: fullName,
		Email:    email,
		Role:     role,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.log.Info("member created",
		zap.String("member_id", m.ID.String()),
		zap.String("role", role),
	)
	return m, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*Member, error) {
	m, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

func (s *service) List(ctx context.Context, includeArchived bool) ([]Member, error) {
	return s.repo.FindAll(ctx, includeArchived)
}

func (s *service) ChangeRole(ctx context.Context, id uuid.UUID, role string) error {
	if err := s.checkRole(ctx, role); err != nil {
		return err
	}
	ok, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMemberNotFound
	}
	return nil
}

func (s *service) Archive(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Archive(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMemberNotFound
	}
	return nil
}

func (s *service) checkRole(ctx context.Context, role string) error {
	valid, err := s.roles.ValidRoles(ctx)
	if err != nil {
		return fmt.Errorf("load valid roles: %w", err)
	}
	for _, v := range valid {
		if strings.EqualFold(v, role) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidRole, role)
}

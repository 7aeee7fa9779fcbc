package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mverdier/tally/internal/domain"
	"github.com/mverdier/tally/internal/repository"
	"github.com/google/uuid"
)

type userService struct {
	users    repository.UserRepo
	projects repository.ProjectRepo
}

func NewUserService(users repository.UserRepo, projects repository.ProjectRepo) UserService {
	return &userService{users: users, projects: projects}
}

func (s *userService) Create(ctx context.Context, u *domain.User) error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: user name is required", ErrValidation)
	}
	if u.Type == "" {
		u.Type = domain.UserStandard
	}
	if u.Type != domain.UserAdmin && u.Type != domain.UserStandard {
		return fmt.Errorf("%w: unknown user type %q", ErrValidation, u.Type)
	}
	if u.DailyWorkHours < 0 || u.DailyWorkHours > domain.MaxDailyHours {
		return fmt.Errorf("%w: daily work hours must be within [0, %v]", ErrValidation, domain.MaxDailyHours)
	}
	if u.DailyWorkHours == 0 {
		u.DailyWorkHours = domain.DefaultDailyWorkHours
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	return s.users.Create(ctx, u)
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) Update(ctx context.Context, u *domain.User) error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: user name is required", ErrValidation)
	}
	if u.DailyWorkHours <= 0 || u.DailyWorkHours > domain.MaxDailyHours {
		return fmt.Errorf("%w: daily work hours must be within (0, %v]", ErrValidation, domain.MaxDailyHours)
	}
	u.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, u)
}

func (s *userService) ListViewable(ctx context.Context, requestingUserID string) ([]*domain.User, error) {
	requester, err := s.users.GetByID(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	if requester.IsAdmin() {
		return s.users.List(ctx)
	}

	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	managesAny := false
	for _, p := range projects {
		if p.ManagerID == requestingUserID {
			managesAny = true
			break
		}
	}
	if !managesAny {
		return []*domain.User{requester}, nil
	}

	viewable, err := s.users.ListContributors(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	for _, u := range viewable {
		if u.ID == requestingUserID {
			return viewable, nil
		}
	}
	return append(viewable, requester), nil
}

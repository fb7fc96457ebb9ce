package services

import (
	"context"

	"taskboard/backend/internal/models"
)

type UserStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	CreateUser(ctx context.Context, input models.UserInput) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

// UserService exposes account management to administrators only.
type UserService struct {
	store UserStore
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

func (s *UserService) authorize(caller *models.Identity, action Action) error {
	return Decide(caller, ResourceUser, action, 0).Err()
}

func (s *UserService) List(ctx context.Context, caller *models.Identity) ([]models.User, error) {
	if err := s.authorize(caller, ActionList); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, caller *models.Identity, id uint) (*models.User, error) {
	if err := s.authorize(caller, ActionRead); err != nil {
		return nil, err
	}
	return s.store.GetUser(ctx, id)
}

func (s *UserService) Create(ctx context.Context, caller *models.Identity, input models.UserInput) (*models.User, error) {
	if err := s.authorize(caller, ActionCreate); err != nil {
		return nil, err
	}
	return s.store.CreateUser(ctx, input)
}

func (s *UserService) Update(ctx context.Context, caller *models.Identity, id uint, patch models.UserPatch) (*models.User, error) {
	if err := s.authorize(caller, ActionUpdate); err != nil {
		return nil, err
	}
	return s.store.UpdateUser(ctx, id, patch)
}

func (s *UserService) Delete(ctx context.Context, caller *models.Identity, id uint) error {
	if err := s.authorize(caller, ActionDelete); err != nil {
		return err
	}
	return s.store.DeleteUser(ctx, id)
}

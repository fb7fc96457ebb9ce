package services

import (
	"context"

	"taskboard/backend/internal/models"
)

type TaskStore interface {
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.TaskWithOwner, error)
	GetTask(ctx context.Context, id uint) (*models.TaskWithOwner, error)
	OwnerOf(ctx context.Context, id uint) (uint, error)
	CreateTask(ctx context.Context, input models.TaskInput) (*models.TaskWithOwner, error)
	UpdateTask(ctx context.Context, id uint, patch models.TaskPatch, role models.Role) (*models.TaskWithOwner, error)
	DeleteTask(ctx context.Context, id uint) error
}

// TaskService applies the access policy to task operations for an
// explicitly passed caller.
type TaskService struct {
	store TaskStore
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store}
}

// List returns every task (or one owner's) for an ADMIN. A USER always
// gets only their own tasks whatever ownerFilter says.
func (s *TaskService) List(ctx context.Context, caller *models.Identity, ownerFilter *uint) ([]models.TaskWithOwner, error) {
	if caller == nil {
		return nil, Decide(nil, ResourceTask, ActionList, 0).Err()
	}

	filter := models.TaskFilter{OwnerID: ownerFilter}
	if caller.Role != models.RoleAdmin {
		self := caller.UserID
		filter.OwnerID = &self
	}

	var owner uint
	if filter.OwnerID != nil {
		owner = *filter.OwnerID
	}
	if err := Decide(caller, ResourceTask, ActionList, owner).Err(); err != nil {
		return nil, err
	}
	return s.store.ListTasks(ctx, filter)
}

func (s *TaskService) Get(ctx context.Context, caller *models.Identity, id uint) (*models.TaskWithOwner, error) {
	if caller == nil {
		return nil, Decide(nil, ResourceTask, ActionRead, 0).Err()
	}
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Decide(caller, ResourceTask, ActionRead, task.UserID).Err(); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Create(ctx context.Context, caller *models.Identity, input models.TaskInput) (*models.TaskWithOwner, error) {
	if err := Decide(caller, ResourceTask, ActionCreate, input.UserID).Err(); err != nil {
		return nil, err
	}
	return s.store.CreateTask(ctx, input)
}

// Update checks ownership against the stored row, then applies the patch.
// The owner field of the patch is honoured only for callers that may
// reassign tasks.
func (s *TaskService) Update(ctx context.Context, caller *models.Identity, id uint, patch models.TaskPatch) (*models.TaskWithOwner, error) {
	if caller == nil {
		return nil, Decide(nil, ResourceTask, ActionUpdate, 0).Err()
	}
	owner, err := s.store.OwnerOf(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Decide(caller, ResourceTask, ActionUpdate, owner).Err(); err != nil {
		return nil, err
	}
	return s.store.UpdateTask(ctx, id, patch, caller.Role)
}

func (s *TaskService) Delete(ctx context.Context, caller *models.Identity, id uint) error {
	if err := Decide(caller, ResourceTask, ActionDelete, 0).Err(); err != nil {
		return err
	}
	return s.store.DeleteTask(ctx, id)
}

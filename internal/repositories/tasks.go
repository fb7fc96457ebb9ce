package repositories

import (
	"context"
	"strings"
	"time"

	"taskboard/backend/internal/errs"
	"taskboard/backend/internal/models"

	"gorm.io/gorm"
)

const taskWithOwnerColumns = "tasks.*, users.name AS user_name, users.email AS user_email"

type TaskRepository struct {
	db    *gorm.DB
	clock clock
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// WithClock overrides the time source used for created_at and updated_at.
func (r *TaskRepository) WithClock(now func() time.Time) *TaskRepository {
	r.clock = now
	return r
}

func (r *TaskRepository) withOwner(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("tasks").
		Select(taskWithOwnerColumns).
		Joins("LEFT JOIN users ON users.id = tasks.user_id")
}

// ListTasks returns tasks newest first, optionally restricted to one owner.
func (r *TaskRepository) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.TaskWithOwner, error) {
	query := r.withOwner(ctx)
	if filter.OwnerID != nil {
		query = query.Where("tasks.user_id = ?", *filter.OwnerID)
	}

	tasks := make([]models.TaskWithOwner, 0)
	if err := query.Order("tasks.created_at DESC").Order("tasks.id DESC").Scan(&tasks).Error; err != nil {
		return nil, errs.Unexpected(err, "failed to list tasks")
	}
	return tasks, nil
}

func (r *TaskRepository) GetTask(ctx context.Context, id uint) (*models.TaskWithOwner, error) {
	var rows []models.TaskWithOwner
	if err := r.withOwner(ctx).Where("tasks.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, errs.Unexpected(err, "failed to load task")
	}
	if len(rows) == 0 {
		return nil, errs.NotFound("task not found")
	}
	return &rows[0], nil
}

// OwnerOf returns the owner id of a task without loading the join.
func (r *TaskRepository) OwnerOf(ctx context.Context, id uint) (uint, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Select("id", "user_id").Where("id = ?", id).Take(&task).Error
	if err != nil {
		return 0, translate(err, "task not found", "failed to load task")
	}
	return task.UserID, nil
}

func (r *TaskRepository) CreateTask(ctx context.Context, input models.TaskInput) (*models.TaskWithOwner, error) {
	title := strings.TrimSpace(input.Title)
	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if input.UserID == 0 {
		missing = append(missing, "user_id")
	}
	if len(missing) > 0 {
		return nil, errs.Validationf("missing required fields: %s", strings.Join(missing, ", "))
	}

	status := input.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !status.Valid() {
		return nil, errs.Validationf("invalid status %q", status)
	}

	if err := r.ensureUser(ctx, input.UserID); err != nil {
		return nil, err
	}

	description := input.Description
	if description != nil && strings.TrimSpace(*description) == "" {
		description = nil
	}
	deadline := input.Deadline
	if deadline != nil && deadline.IsZero() {
		deadline = nil
	}

	now := r.clock.now()
	task := models.Task{
		Title:       title,
		Description: description,
		Status:      status,
		Deadline:    deadline,
		UserID:      input.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, errs.Unexpected(err, "failed to create task")
	}
	return r.GetTask(ctx, task.ID)
}

// UpdateTask writes only the fields present in the patch, in one statement.
// The owner field is honoured only when role may reassign tasks; otherwise
// it is silently dropped.
func (r *TaskRepository) UpdateTask(ctx context.Context, id uint, patch models.TaskPatch, role models.Role) (*models.TaskWithOwner, error) {
	if _, err := r.OwnerOf(ctx, id); err != nil {
		return nil, err
	}

	var set assignments

	if patch.Title.Set {
		title := strings.TrimSpace(patch.Title.Value)
		if patch.Title.Null || title == "" {
			return nil, errs.Validation("title must not be empty")
		}
		set.set("title", title)
	}

	if patch.Description.Set {
		if patch.Description.Null {
			set.set("description", nil)
		} else {
			set.set("description", patch.Description.Value)
		}
	}

	if patch.Status.Set {
		if patch.Status.Null || !patch.Status.Value.Valid() {
			return nil, errs.Validationf("invalid status %q", patch.Status.Value)
		}
		set.set("status", string(patch.Status.Value))
	}

	if patch.Deadline.Set {
		if patch.Deadline.Null {
			set.set("deadline", nil)
		} else {
			set.set("deadline", patch.Deadline.Value)
		}
	}

	if patch.UserID.Set && role.CanReassign() {
		if patch.UserID.Null || patch.UserID.Value == 0 {
			return nil, errs.Validation("user_id must reference a user")
		}
		if err := r.ensureUser(ctx, patch.UserID.Value); err != nil {
			return nil, err
		}
		set.set("user_id", patch.UserID.Value)
	}

	if set.empty() {
		return nil, errNoFields
	}

	values := set.values()
	values["updated_at"] = r.clock.now()

	result := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return nil, errs.Unexpected(result.Error, "failed to update task")
	}
	if result.RowsAffected == 0 {
		return nil, errs.NotFound("task not found")
	}
	return r.GetTask(ctx, id)
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id uint) error {
	if _, err := r.OwnerOf(ctx, id); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return errs.Unexpected(result.Error, "failed to delete task")
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("task not found")
	}
	return nil
}

func (r *TaskRepository) ensureUser(ctx context.Context, id uint) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return errs.Unexpected(err, "failed to load user")
	}
	if count == 0 {
		return errs.NotFound("user not found")
	}
	return nil
}

package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workplace/internal/model"
	"workplace/internal/pagination"
)

// newestFirst breaks created_at ties by id so page windows never overlap.
const newestFirst = "created_at DESC, id DESC"

type TaskRepository struct {
	db *gorm.DB
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	ListAll(ctx context.Context) ([]model.Task, error)
	ListPaged(ctx context.Context, p pagination.Params, status *model.TaskStatus) ([]model.Task, int64, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByOwner(ctx context.Context) (map[uuid.UUID]int64, error)
	CountOwnedBy(ctx context.Context, userID uuid.UUID) (int64, error)
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database. The owner row is never touched.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

// GetByID retrieves a task and its owner by the task ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).Preload("CreatedBy").First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// ListAll retrieves every task, newest first
func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Order(newestFirst).
		Find(&tasks).Error
	return tasks, err
}

// ListPaged counts the tasks matching the optional status filter and returns
// the requested window of them, newest first.
func (r *TaskRepository) ListPaged(ctx context.Context, p pagination.Params, status *model.TaskStatus) ([]model.Task, int64, error) {
	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&model.Task{})
		if status != nil {
			q = q.Where("status = ?", *status)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []model.Task
	err := filtered().
		Preload("CreatedBy").
		Order(newestFirst).
		Offset(p.Offset()).
		Limit(p.Limit()).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Update writes the mutable fields of a task: title, description and status
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

type ownerCount struct {
	CreatedByUserID uuid.UUID
	TaskCount       int64
}

// CountByOwner returns the number of tasks per owner. Users without tasks are absent.
func (r *TaskRepository) CountByOwner(ctx context.Context) (map[uuid.UUID]int64, error) {
	var rows []ownerCount
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("created_by_user_id, COUNT(*) AS task_count").
		Group("created_by_user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.CreatedByUserID] = row.TaskCount
	}
	return counts, nil
}

func (r *TaskRepository) CountOwnedBy(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("created_by_user_id = ?", userID).
		Count(&count).Error
	return count, err
}

package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/akulasagar/aura-backend/internal/model"
)

// PlanRepository handles CRUD for plans and their embedded tasks.
type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(ctx context.Context, plan *model.Plan) error {
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

func (r *PlanRepository) FindByID(ctx context.Context, id uint) (*model.Plan, error) {
	var plan model.Plan
	if err := r.db.WithContext(ctx).Preload("Tasks").First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListByUserAndDate returns the user's plans whose date falls in [start, end).
func (r *PlanRepository) ListByUserAndDate(ctx context.Context, userID uint, start, end time.Time) ([]model.Plan, error) {
	var plans []model.Plan
	if err := r.db.WithContext(ctx).Preload("Tasks").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date ASC, id ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// ListByDate returns every plan (all users) in [start, end), with owners
// preloaded. Used by the reminder scan.
func (r *PlanRepository) ListByDate(ctx context.Context, start, end time.Time) ([]model.Plan, error) {
	var plans []model.Plan
	if err := r.db.WithContext(ctx).Preload("Tasks").Preload("User").
		Where("date >= ? AND date < ?", start, end).
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// Replace rewrites a plan's title, date and tasks wholesale.
func (r *PlanRepository) Replace(ctx context.Context, plan *model.Plan, tasks []model.Task) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", plan.ID).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Model(plan).Updates(map[string]interface{}{
			"title":      plan.Title,
			"date":       plan.Date,
			"ai_summary": plan.AISummary,
		}).Error; err != nil {
			return err
		}
		for i := range tasks {
			tasks[i].ID = 0
			tasks[i].PlanID = plan.ID
		}
		if len(tasks) > 0 {
			if err := tx.Create(&tasks).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace plan: %w", err)
	}
	plan.Tasks = tasks
	return nil
}

func (r *PlanRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Plan{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// DeleteTask pulls a single task out of its plan.
func (r *PlanRepository) DeleteTask(ctx context.Context, taskID uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Task{}, taskID).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (r *PlanRepository) SaveTask(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

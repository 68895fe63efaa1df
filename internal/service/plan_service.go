package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/akulasagar/aura-backend/internal/model"
	"github.com/akulasagar/aura-backend/internal/repository"
	"github.com/akulasagar/aura-backend/internal/timeutil"
)

const summaryFallback = "Let's make today a great one!"

// TaskInput represents one task as submitted by the client or the
// assistant, before normalization.
type TaskInput struct {
	Description string `json:"description"`
	Time        string `json:"time"`
}

// PlanService wraps plan-related business logic: time normalization,
// conflict detection, the mutation lockout and ownership checks.
type PlanService struct {
	plans *repository.PlanRepository
	ai    Generator
}

func NewPlanService(plans *repository.PlanRepository, ai Generator) *PlanService {
	return &PlanService{plans: plans, ai: ai}
}

// Create stores a new plan for the user. Every candidate time is
// normalized and checked against the day's existing tasks; one
// collision rejects the whole plan.
func (s *PlanService) Create(ctx context.Context, userID uint, title, date string, inputs []TaskInput) (*model.Plan, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: a plan title is required", ErrInvalid)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one task is required", ErrInvalid)
	}

	start, end, err := dayBounds(date)
	if err != nil {
		return nil, err
	}
	tasks := buildTasks(userID, start, inputs)

	existingPlans, err := s.plans.ListByUserAndDate(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if hit := findConflict(occupiedTimes(existingPlans, 0, 0), tasks); hit != nil {
		return nil, &ConflictError{Time: hit.Time, Description: hit.Description}
	}

	summary, err := s.ai.GenerateContent(ctx, summaryPrompt(title))
	if err != nil {
		log.Printf("plan summary generation failed: %v", err)
		summary = summaryFallback
	}

	plan := &model.Plan{
		UserID:    userID,
		Title:     title,
		Date:      start,
		AISummary: summary,
		Tasks:     tasks,
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Update replaces a plan wholesale after the ownership, lockout and
// conflict checks pass.
func (s *PlanService) Update(ctx context.Context, userID, planID uint, title, date string, inputs []TaskInput, now time.Time) (*model.Plan, error) {
	plan, err := s.ownedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	if len(plan.Tasks) > 0 && isLocked(plan.Tasks[0].Time, plan.Date, now) {
		return nil, ErrLocked
	}

	start, end, err := dayBounds(date)
	if err != nil {
		return nil, err
	}
	tasks := buildTasks(userID, start, inputs)

	plansOnDay, err := s.plans.ListByUserAndDate(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if hit := findConflict(occupiedTimes(plansOnDay, plan.ID, 0), tasks); hit != nil {
		return nil, &ConflictError{Time: hit.Time, Description: hit.Description}
	}

	plan.Title = title
	plan.Date = start
	if err := s.plans.Replace(ctx, plan, tasks); err != nil {
		return nil, err
	}
	return plan, nil
}

// Delete removes a whole plan, subject to ownership and lockout.
func (s *PlanService) Delete(ctx context.Context, userID, planID uint, now time.Time) error {
	plan, err := s.ownedPlan(ctx, userID, planID)
	if err != nil {
		return err
	}
	if len(plan.Tasks) > 0 && isLocked(plan.Tasks[0].Time, plan.Date, now) {
		return ErrLocked
	}
	return s.plans.Delete(ctx, plan.ID)
}

// ToggleTask flips a task's completion flag and returns the refreshed plan.
func (s *PlanService) ToggleTask(ctx context.Context, userID, planID, taskID uint) (*model.Plan, error) {
	plan, err := s.ownedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	for i := range plan.Tasks {
		if plan.Tasks[i].ID == taskID {
			plan.Tasks[i].IsCompleted = !plan.Tasks[i].IsCompleted
			if err := s.plans.SaveTask(ctx, &plan.Tasks[i]); err != nil {
				return nil, err
			}
			return plan, nil
		}
	}
	return nil, fmt.Errorf("%w: task", ErrNotFound)
}

// ListByDate returns the user's plans for one day, sorted by each
// plan's earliest task time.
func (s *PlanService) ListByDate(ctx context.Context, userID uint, date string) ([]model.Plan, error) {
	start, end, err := dayBounds(date)
	if err != nil {
		return nil, err
	}
	plans, err := s.plans.ListByUserAndDate(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(plans, func(i, j int) bool {
		mi, oki := earliestTaskMinutes(plans[i])
		mj, okj := earliestTaskMinutes(plans[j])
		switch {
		case oki && okj:
			return mi < mj
		case oki:
			return true
		default:
			return false
		}
	})
	return plans, nil
}

func (s *PlanService) ownedPlan(ctx context.Context, userID, planID uint) (*model.Plan, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: plan", ErrNotFound)
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrNotOwner
	}
	return plan, nil
}

func buildTasks(userID uint, day time.Time, inputs []TaskInput) []model.Task {
	tasks := make([]model.Task, 0, len(inputs))
	for _, in := range inputs {
		tasks = append(tasks, model.Task{
			UserID:      userID,
			Date:        day.Format(dayFormat),
			Description: in.Description,
			Time:        timeutil.NormalizeTime(in.Time),
		})
	}
	return tasks
}

func earliestTaskMinutes(plan model.Plan) (int, bool) {
	best, found := 0, false
	for _, task := range plan.Tasks {
		hours, minutes, ok := timeutil.ParseTime(task.Time)
		if !ok {
			continue
		}
		total := hours*60 + minutes
		if !found || total < best {
			best, found = total, true
		}
	}
	return best, found
}

func summaryPrompt(title string) string {
	return fmt.Sprintf("The title of my daily plan is %q. Based on this, generate a very short, positive, and encouraging one-sentence summary to motivate me for the day.", title)
}

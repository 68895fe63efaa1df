package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/akulasagar/aura-backend/internal/push"
	"github.com/akulasagar/aura-backend/internal/repository"
	"github.com/akulasagar/aura-backend/internal/timeutil"
)

// Reminder look-ahead window: a one-minute band centered five minutes
// before the task starts. With a one-minute tick a task falls inside
// the band on exactly one scan, which is the only duplicate
// suppression there is — no delivery ledger is kept.
const (
	windowStartMinutes = 4.5
	windowEndMinutes   = 5.5
)

// Dispatcher delivers one push notification. *push.Client satisfies
// it; tests record instead of sending.
type Dispatcher interface {
	Send(ctx context.Context, msg push.Message) error
}

// ReminderService scans today's plans once per tick and pushes a
// reminder for every incomplete task about to start.
type ReminderService struct {
	plans      *repository.PlanRepository
	ai         Generator
	dispatcher Dispatcher
}

func NewReminderService(plans *repository.PlanRepository, ai Generator, dispatcher Dispatcher) *ReminderService {
	return &ReminderService{plans: plans, ai: ai, dispatcher: dispatcher}
}

// Scan runs one tick. Failures on a single task are logged and the
// scan moves on; only the initial plan query can fail the tick.
func (s *ReminderService) Scan(ctx context.Context, now time.Time) error {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	plans, err := s.plans.ListByDate(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("load today's plans: %w", err)
	}

	for _, plan := range plans {
		if plan.User == nil || plan.User.PushToken == "" {
			continue
		}

		for _, task := range plan.Tasks {
			if task.IsCompleted {
				continue
			}
			hours, minutes, ok := timeutil.ParseTime(task.Time)
			if !ok {
				continue
			}

			startsAt := time.Date(now.Year(), now.Month(), now.Day(), hours, minutes, 0, 0, now.Location())
			diffMinutes := startsAt.Sub(now).Minutes()
			if diffMinutes < windowStartMinutes || diffMinutes >= windowEndMinutes {
				continue
			}

			body, err := s.ai.GenerateContent(ctx, reminderPrompt(task.Description, task.Time))
			if err != nil {
				log.Printf("reminder: generation for task %d failed: %v", task.ID, err)
				continue
			}

			msg := push.Message{
				To:    plan.User.PushToken,
				Sound: "default",
				Title: fmt.Sprintf("Reminder: %s", task.Description),
				Body:  body,
				Data:  map[string]string{"planId": fmt.Sprint(plan.ID)},
			}
			if err := s.dispatcher.Send(ctx, msg); err != nil {
				log.Printf("reminder: dispatch for task %d failed: %v", task.ID, err)
				continue
			}
			log.Printf("[info] reminder sent for task %d (%s at %s)", task.ID, task.Description, task.Time)
		}
	}

	return nil
}

func reminderPrompt(description, timeStr string) string {
	return fmt.Sprintf("Generate a short, creative, and encouraging push notification message to remind me to do the following task: %q. The task is scheduled for %s. Be friendly and motivational.", description, timeStr)
}

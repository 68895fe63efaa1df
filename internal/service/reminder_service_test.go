package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/akulasagar/aura-backend/internal/model"
)

func seedReminderPlan(t *testing.T, db *gorm.DB, userID uint, day time.Time, tasks ...model.Task) *model.Plan {
	t.Helper()
	for i := range tasks {
		tasks[i].UserID = userID
		tasks[i].Date = day.Format(dayFormat)
	}
	plan := &model.Plan{UserID: userID, Title: "Today", Date: day, Tasks: tasks}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return plan
}

func TestReminderScanDispatchesOncePerTask(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "remind@example.com", "ExponentPushToken[xyz]")
	_, planRepo := newRepos(db)

	base := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.Local)
	day := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.Local)
	// Task starts five minutes after the base tick.
	seedReminderPlan(t, db, user.ID, day, model.Task{Description: "water plants", Time: "09:05"})

	gen := &stubGenerator{reply: "Time to give those plants a drink!"}
	dispatcher := &stubDispatcher{}
	svc := NewReminderService(planRepo, gen, dispatcher)

	// Tick once a minute across the whole band around the start time.
	for offset := -3; offset <= 3; offset++ {
		now := base.Add(time.Duration(offset) * time.Minute)
		if err := svc.Scan(context.Background(), now); err != nil {
			t.Fatalf("Scan at %v: %v", now, err)
		}
	}

	if len(dispatcher.sent) != 1 {
		t.Fatalf("dispatched %d times, want exactly 1", len(dispatcher.sent))
	}
	msg := dispatcher.sent[0]
	if msg.To != "ExponentPushToken[xyz]" {
		t.Errorf("push target = %q", msg.To)
	}
	if msg.Body != "Time to give those plants a drink!" {
		t.Errorf("push body = %q", msg.Body)
	}
	if msg.Data["planId"] == "" {
		t.Error("push data should carry the plan id")
	}
}

func TestReminderScanSkipsUsersWithoutPushToken(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "quiet@example.com", "")
	_, planRepo := newRepos(db)

	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.Local)
	day := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.Local)
	seedReminderPlan(t, db, user.ID, day, model.Task{Description: "water plants", Time: "09:05"})

	dispatcher := &stubDispatcher{}
	svc := NewReminderService(planRepo, &stubGenerator{reply: "go!"}, dispatcher)

	if err := svc.Scan(context.Background(), now); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(dispatcher.sent) != 0 {
		t.Errorf("dispatched %d times for a user with no push token", len(dispatcher.sent))
	}
}

func TestReminderScanSkipsCompletedTasks(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "done@example.com", "ExponentPushToken[xyz]")
	_, planRepo := newRepos(db)

	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.Local)
	day := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.Local)
	seedReminderPlan(t, db, user.ID, day,
		model.Task{Description: "water plants", Time: "09:05", IsCompleted: true})

	dispatcher := &stubDispatcher{}
	svc := NewReminderService(planRepo, &stubGenerator{reply: "go!"}, dispatcher)

	if err := svc.Scan(context.Background(), now); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(dispatcher.sent) != 0 {
		t.Errorf("dispatched %d times for a completed task", len(dispatcher.sent))
	}
}

func TestReminderScanIsolatesPerTaskFailures(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "mixed@example.com", "ExponentPushToken[xyz]")
	_, planRepo := newRepos(db)

	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.Local)
	day := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.Local)
	seedReminderPlan(t, db, user.ID, day,
		model.Task{Description: "unparsable", Time: "whenever"},
		model.Task{Description: "water plants", Time: "09:05"},
	)

	dispatcher := &stubDispatcher{}
	svc := NewReminderService(planRepo, &stubGenerator{reply: "go!"}, dispatcher)

	if err := svc.Scan(context.Background(), now); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(dispatcher.sent) != 1 {
		t.Errorf("dispatched %d times, want 1 (bad task skipped, good one sent)", len(dispatcher.sent))
	}
}

func TestReminderScanGenerationFailureSkipsDispatch(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "genfail@example.com", "ExponentPushToken[xyz]")
	_, planRepo := newRepos(db)

	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.Local)
	day := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.Local)
	seedReminderPlan(t, db, user.ID, day, model.Task{Description: "water plants", Time: "09:05"})

	dispatcher := &stubDispatcher{}
	svc := NewReminderService(planRepo, &stubGenerator{err: errors.New("quota")}, dispatcher)

	if err := svc.Scan(context.Background(), now); err != nil {
		t.Fatalf("Scan should not fail the tick: %v", err)
	}
	if len(dispatcher.sent) != 0 {
		t.Errorf("dispatched %d times despite generation failure", len(dispatcher.sent))
	}
}

package service

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/akulasagar/aura-backend/internal/model"
	"github.com/akulasagar/aura-backend/internal/push"
	"github.com/akulasagar/aura-backend/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Plan{}, &model.Task{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, pushToken string) *model.User {
	t.Helper()
	user := &model.User{Name: "Test User", Email: email, Password: "x", PushToken: pushToken}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// stubGenerator cans the text-generation collaborator.
type stubGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (g *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

// stubDispatcher records push messages instead of sending them.
type stubDispatcher struct {
	sent []push.Message
	err  error
}

func (d *stubDispatcher) Send(_ context.Context, msg push.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, msg)
	return nil
}

func planCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.Plan{}).Count(&n).Error; err != nil {
		t.Fatalf("count plans: %v", err)
	}
	return n
}

func taskCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.Task{}).Count(&n).Error; err != nil {
		t.Fatalf("count tasks: %v", err)
	}
	return n
}

func newRepos(db *gorm.DB) (*repository.UserRepository, *repository.PlanRepository) {
	return repository.NewUserRepository(db), repository.NewPlanRepository(db)
}

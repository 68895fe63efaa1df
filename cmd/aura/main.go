package main

import (
	"context"
	"log"
	"time"

	"github.com/akulasagar/aura-backend/internal/ai"
	"github.com/akulasagar/aura-backend/internal/config"
	"github.com/akulasagar/aura-backend/internal/push"
	"github.com/akulasagar/aura-backend/internal/repository"
	"github.com/akulasagar/aura-backend/internal/server"
	"github.com/akulasagar/aura-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)

	aiClient := ai.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	pushClient := push.NewClient(cfg.ExpoPushURL)

	userSvc := service.NewUserService(userRepo, cfg)
	planSvc := service.NewPlanService(planRepo, aiClient)
	assistantSvc := service.NewAssistantService(planRepo, userRepo, aiClient)
	reminderSvc := service.NewReminderService(planRepo, aiClient, pushClient)

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleInterval(cfg.ReminderInterval, func() {
		tickCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := reminderSvc.Scan(tickCtx, time.Now()); err != nil {
			log.Printf("reminder scan: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule reminders: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()
	log.Println("[info] reminder scanner started")

	srv := server.New(cfg, userSvc, planSvc, assistantSvc)
	log.Printf("[info] listening on %s", cfg.Addr)
	if err := srv.Run(cfg.Addr); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
}

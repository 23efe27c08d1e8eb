package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/prasetyo/school-engine/internal/config"
	"github.com/prasetyo/school-engine/internal/repository"
	"github.com/prasetyo/school-engine/internal/service"
	"github.com/prasetyo/school-engine/pkg/utils"
)

func main() {
	log.Println("Starting school scheduler...")

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	feeRepo := repository.NewFeeRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	userRepo := repository.NewUserRepository(db)
	sequencer := service.NewSequencer(redisClient)

	ledgerService := service.NewLedgerService(feeRepo, studentRepo, userRepo, sequencer)

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds())

	// Schedule tasks
	setupCronJobs(c, cfg, ledgerService)

	// Start the scheduler
	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, ledger *service.LedgerService) {
	// Daily job to flip unpaid fees past their due date to Overdue
	_, err := c.AddFunc(cfg.Scheduler.OverdueCron, func() {
		log.Println("Running daily overdue fee sweep...")
		markOverdueFees(ledger)
	})
	if err != nil {
		log.Printf("Error scheduling overdue fee sweep: %v", err)
	}

	// Weekly job to log fees still carrying a due amount
	_, err = c.AddFunc(cfg.Scheduler.ReminderCron, func() {
		log.Println("Running weekly due fee reminder job...")
		logDueFeeReminders(ledger)
	})
	if err != nil {
		log.Printf("Error scheduling due fee reminder job: %v", err)
	}

	log.Println("Cron jobs scheduled successfully")
}

func markOverdueFees(ledger *service.LedgerService) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	updated, err := ledger.MarkOverdueFees(ctx)
	if err != nil {
		log.Printf("Overdue fee sweep failed: %v", err)
		return
	}

	log.Printf("Overdue fee sweep complete, %d fees marked overdue", updated)
}

func logDueFeeReminders(ledger *service.LedgerService) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fees, err := ledger.ListDueFees(ctx)
	if err != nil {
		log.Printf("Due fee reminder job failed: %v", err)
		return
	}

	for _, fee := range fees {
		note := "due"
		if fee.DueDate != nil && utils.IsDateOverdue(*fee.DueDate) {
			note = "overdue"
		}
		log.Printf("Reminder: fee %s for student %s has %s %s", fee.ID, fee.StudentID, fee.DueAmount.String(), note)
	}
	log.Printf("Due fee reminder job complete, %d fees with outstanding balance", len(fees))
}

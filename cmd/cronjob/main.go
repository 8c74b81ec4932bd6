package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"library-backend/internal/config"
	"library-backend/internal/jobs"
	"library-backend/internal/logger"
	"library-backend/internal/repository/postgres"
	"library-backend/internal/scheduler"
	"library-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'accrue-fines', 'expire-reservations', 'send-overdue-notices', 'all-nightly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Library Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.SendGrid)
	fineSvc := service.NewFineService(
		store.FineRepository,
		store.TransactionRepository,
		store.MemberRepository,
		store.BookRepository,
		emailSvc,
		cfg.Fines,
	)
	circulationSvc := service.NewCirculationService(
		store.BookRepository,
		store.MemberRepository,
		store.TransactionRepository,
		store.ReservationRepository,
		emailSvc,
		fineSvc,
		cfg.Circulation,
	)
	catalogSvc := service.NewCatalogService(store.BookRepository, store.ReservationRepository)
	memberSvc := service.NewMemberService(store.MemberRepository)

	jobServices := &jobs.Services{
		Circulation: circulationSvc,
		Fine:        fineSvc,
		Email:       emailSvc,
		Member:      memberSvc,
		Catalog:     catalogSvc,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob runner...")
	cronScheduler.Stop()
}

// runJobOnce executes a single named job for manual runs
func runJobOnce(jr *jobs.JobRunner, jobName string) {
	switch jobName {
	case "accrue-fines":
		jr.AccrueFines()
	case "expire-reservations":
		jr.ExpireReservations()
	case "send-overdue-notices":
		jr.SendOverdueNotices()
	case "all-nightly":
		jr.RunAllNightlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		log.Fatalf("Unknown job: %s", jobName)
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/prasetyo/school-engine/internal/auth"
	"github.com/prasetyo/school-engine/internal/clients"
	"github.com/prasetyo/school-engine/internal/config"
	"github.com/prasetyo/school-engine/internal/handler"
	"github.com/prasetyo/school-engine/internal/repository"
	"github.com/prasetyo/school-engine/internal/service"
	"github.com/prasetyo/school-engine/pkg/response"
)

func main() {
	// Load .env if present, real environment wins
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize object storage
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := clients.NewObjectStore(ctx, cfg.ObjectStore)
	cancel()
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecretOrDefault(), cfg.Auth.JWTExpiry, cfg.Auth.Issuer)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	classRepo := repository.NewClassRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	examRepo := repository.NewExamRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	fileRepo := repository.NewFileRepository(db)

	sequencer := service.NewSequencer(redisClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokens, cfg.Storage)
	schoolService := service.NewSchoolService(studentRepo, teacherRepo, classRepo, sequencer)
	attendanceService := service.NewAttendanceService(attendanceRepo, classRepo)
	examService := service.NewExamService(examRepo, classRepo)
	ledgerService := service.NewLedgerService(feeRepo, studentRepo, userRepo, sequencer)
	storageService := service.NewStorageService(fileRepo, userRepo, store, cfg.Storage.MaxFileSize)
	dashboardService := service.NewDashboardService(studentRepo, teacherRepo, classRepo, attendanceRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(schoolService)
	teacherHandler := handler.NewTeacherHandler(schoolService)
	classHandler := handler.NewClassHandler(schoolService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService)
	examHandler := handler.NewExamHandler(examService)
	feeHandler := handler.NewFeeHandler(ledgerService)
	fileHandler := handler.NewFileHandler(storageService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	healthHandler := handler.NewHealthHandler(db, redisClient, store)

	// Setup routes
	router := setupRoutes(routeDeps{
		tokens:     tokens,
		auth:       authHandler,
		student:    studentHandler,
		teacher:    teacherHandler,
		class:      classHandler,
		attendance: attendanceHandler,
		exam:       examHandler,
		fee:        feeHandler,
		file:       fileHandler,
		dashboard:  dashboardHandler,
		health:     healthHandler,
	})

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

type routeDeps struct {
	tokens     *auth.TokenManager
	auth       *handler.AuthHandler
	student    *handler.StudentHandler
	teacher    *handler.TeacherHandler
	class      *handler.ClassHandler
	attendance *handler.AttendanceHandler
	exam       *handler.ExamHandler
	fee        *handler.FeeHandler
	file       *handler.FileHandler
	dashboard  *handler.DashboardHandler
	health     *handler.HealthHandler
}

func setupRoutes(deps routeDeps) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.CORSMiddleware)
	router.Use(response.JSONMiddleware)
	router.Use(response.LoggingMiddleware)

	// Health check
	router.HandleFunc("/health", deps.health.Health).Methods("GET")
	router.HandleFunc("/health/ready", deps.health.Ready).Methods("GET")

	// Public auth route
	router.HandleFunc("/api/v1/auth/login", deps.auth.Login).Methods("POST")

	// Authenticated API routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(handler.AuthMiddleware(deps.tokens))

	api.HandleFunc("/auth/me", deps.auth.Me).Methods("GET")

	// Files: any authenticated account, per-owner quota
	api.HandleFunc("/files", deps.file.Upload).Methods("POST")
	api.HandleFunc("/files", deps.file.List).Methods("GET")
	api.HandleFunc("/files/usage", deps.file.Usage).Methods("GET")
	api.HandleFunc("/files/{id}/download", deps.file.Download).Methods("GET")
	api.HandleFunc("/files/{id}", deps.file.Delete).Methods("DELETE")

	// Staff routes: school data management
	staff := api.NewRoute().Subrouter()
	staff.Use(handler.RequireStaff())

	staff.HandleFunc("/students", deps.student.List).Methods("GET")
	staff.HandleFunc("/students/{id}", deps.student.Get).Methods("GET")

	staff.HandleFunc("/teachers", deps.teacher.List).Methods("GET")
	staff.HandleFunc("/teachers/{id}", deps.teacher.Get).Methods("GET")

	staff.HandleFunc("/classes", deps.class.List).Methods("GET")
	staff.HandleFunc("/classes/{id}", deps.class.Get).Methods("GET")

	staff.HandleFunc("/attendance", deps.attendance.Mark).Methods("POST")
	staff.HandleFunc("/attendance/{id}", deps.attendance.Update).Methods("PUT")
	staff.HandleFunc("/attendance/class/{classId}", deps.attendance.ListByClass).Methods("GET")
	staff.HandleFunc("/attendance/class/{classId}/summary", deps.attendance.Summary).Methods("GET")
	staff.HandleFunc("/attendance/student/{studentId}", deps.attendance.StudentHistory).Methods("GET")
	staff.HandleFunc("/attendance/date/{date}", deps.attendance.ListByDate).Methods("GET")

	staff.HandleFunc("/exams", deps.exam.Create).Methods("POST")
	staff.HandleFunc("/exams", deps.exam.List).Methods("GET")
	staff.HandleFunc("/exams/{id}", deps.exam.Get).Methods("GET")
	staff.HandleFunc("/exams/{id}", deps.exam.Update).Methods("PUT")
	staff.HandleFunc("/exams/{id}/results", deps.exam.RecordResults).Methods("POST")

	staff.HandleFunc("/dashboard/stats", deps.dashboard.Stats).Methods("GET")
	staff.HandleFunc("/dashboard/recent-students", deps.dashboard.RecentStudents).Methods("GET")
	staff.HandleFunc("/dashboard/attendance-chart", deps.dashboard.AttendanceChart).Methods("GET")
	staff.HandleFunc("/dashboard/class-distribution", deps.dashboard.ClassDistribution).Methods("GET")

	// Admin routes: account management and destructive operations
	admin := api.NewRoute().Subrouter()
	admin.Use(handler.RequireAdmin())

	admin.HandleFunc("/auth/register", deps.auth.Register).Methods("POST")
	admin.HandleFunc("/admin/users", deps.auth.ListUsers).Methods("GET")
	admin.HandleFunc("/admin/users/{id}/quota", deps.auth.UpdateQuota).Methods("PUT")
	admin.HandleFunc("/admin/storage", deps.file.AdminStats).Methods("GET")
	admin.HandleFunc("/admin/files", deps.file.List).Methods("GET")

	admin.HandleFunc("/students", deps.student.Create).Methods("POST")
	admin.HandleFunc("/students/{id}", deps.student.Update).Methods("PUT")
	admin.HandleFunc("/students/{id}", deps.student.Delete).Methods("DELETE")

	admin.HandleFunc("/teachers", deps.teacher.Create).Methods("POST")
	admin.HandleFunc("/teachers/{id}", deps.teacher.Update).Methods("PUT")
	admin.HandleFunc("/teachers/{id}", deps.teacher.Delete).Methods("DELETE")
	admin.HandleFunc("/teachers/{id}/subjects", deps.teacher.AssignSubjects).Methods("PUT")

	admin.HandleFunc("/classes", deps.class.Create).Methods("POST")
	admin.HandleFunc("/classes/promote", deps.class.Promote).Methods("POST")
	admin.HandleFunc("/classes/{id}", deps.class.Update).Methods("PUT")
	admin.HandleFunc("/classes/{id}", deps.class.Delete).Methods("DELETE")
	admin.HandleFunc("/classes/{id}/students", deps.class.Enroll).Methods("POST")
	admin.HandleFunc("/classes/{id}/students/{studentId}", deps.class.RemoveStudent).Methods("DELETE")

	admin.HandleFunc("/exams/{id}", deps.exam.Delete).Methods("DELETE")

	// Ledger mutations are admin-only; recording a payment mutates the fee.
	admin.HandleFunc("/fees", deps.fee.Create).Methods("POST")
	admin.HandleFunc("/fees/due", deps.fee.ListDue).Methods("GET")
	admin.HandleFunc("/fees/export", deps.fee.Export).Methods("GET")
	admin.HandleFunc("/fees/{id}", deps.fee.Update).Methods("PUT")
	admin.HandleFunc("/fees/{id}", deps.fee.Delete).Methods("DELETE")
	admin.HandleFunc("/fees/{id}/payments", deps.fee.RecordPayment).Methods("POST")

	// Ledger reads are open to any authenticated account. Registered after
	// the admin subrouter so /fees/due and /fees/export match ahead of
	// /fees/{id}.
	api.HandleFunc("/fees", deps.fee.List).Methods("GET")
	api.HandleFunc("/fees/student/{studentId}", deps.fee.ListByStudent).Methods("GET")
	api.HandleFunc("/fees/{id}", deps.fee.Get).Methods("GET")
	api.HandleFunc("/fees/{id}/receipt/{paymentIndex}", deps.fee.Receipt).Methods("GET")

	return router
}

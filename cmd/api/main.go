package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/amparo-center/attendance-service/internal/adapters/directory"
	"github.com/amparo-center/attendance-service/internal/adapters/handler"
	"github.com/amparo-center/attendance-service/internal/adapters/locks"
	"github.com/amparo-center/attendance-service/internal/adapters/middleware"
	"github.com/amparo-center/attendance-service/internal/adapters/repository"
	"github.com/amparo-center/attendance-service/internal/config"
	"github.com/amparo-center/attendance-service/internal/core/domain"
	"github.com/amparo-center/attendance-service/internal/core/services"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	repo := repository.NewSQLRepository(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	log.Println("Authenticated with Redis successfully")

	sealRegistry := locks.NewRedisSealRegistry(redisClient)

	directoryURL := os.Getenv("PATIENT_DIRECTORY_URL")
	if directoryURL == "" {
		directoryURL = "http://patient-service:8080"
	}
	patientDirectory := directory.NewHTTPPatientDirectory(directoryURL)

	callQueue := services.NewCallQueue()

	// A restart must not lose the call order: repopulate today's buckets
	// from the persisted records before taking traffic.
	today := time.Now().Format(domain.DateLayout)
	todayRecords, err := repo.FindByDate(ctx, today)
	if err != nil {
		log.Fatalf("failed to load attendances for %s: %v", today, err)
	}
	callQueue.Rebuild(today, todayRecords)
	log.Printf("Rebuilt call queue for %s from %d records", today, len(todayRecords))

	courseTracker := services.NewCourseTracker(repo, repo)
	lifecycle := services.NewLifecycleService(repo, courseTracker, sealRegistry)
	dayService := services.NewDayService(repo, lifecycle, patientDirectory, sealRegistry)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTPublicKey)

	attendanceHandler := handler.NewAttendanceHandler(lifecycle, callQueue)
	queueHandler := handler.NewQueueHandler(callQueue)
	courseHandler := handler.NewCourseHandler(courseTracker)
	dayHandler := handler.NewDayHandler(dayService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	staff := []string{middleware.RoleAdmin, middleware.RoleReception}
	admin := []string{middleware.RoleAdmin}

	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/health/ready", healthHandler.Ready)
	mux.HandleFunc("/health/live", healthHandler.Live)
	mux.Handle("/metrics", promhttp.Handler())

	// Attendance lifecycle
	mux.Handle("POST /attendances", authMiddleware.RequireRole(staff, attendanceHandler.Schedule))
	mux.Handle("POST /attendances/{id}/check-in", authMiddleware.RequireRole(staff, attendanceHandler.CheckIn))
	mux.Handle("POST /attendances/{id}/transition", authMiddleware.RequireRole(staff, attendanceHandler.Transition))

	// Call queue
	mux.Handle("GET /queue", authMiddleware.RequireRole(staff, queueHandler.Snapshot))
	mux.Handle("POST /queue/reorder", authMiddleware.RequireRole(staff, queueHandler.Reorder))
	mux.Handle("POST /queue/next", authMiddleware.RequireRole(staff, queueHandler.DequeueNext))

	// Treatment courses
	mux.Handle("POST /courses", authMiddleware.RequireRole(staff, courseHandler.Start))
	mux.Handle("GET /courses/progress", authMiddleware.RequireRole(staff, courseHandler.Progress))

	// End of day
	mux.Handle("POST /day/begin", authMiddleware.RequireRole(admin, dayHandler.Begin))
	mux.Handle("POST /day/resolve-completed", authMiddleware.RequireRole(admin, dayHandler.ResolveCompleted))
	mux.Handle("POST /day/resolve-rescheduled", authMiddleware.RequireRole(admin, dayHandler.ResolveRescheduled))
	mux.Handle("POST /day/seal", authMiddleware.RequireRole(admin, dayHandler.Seal))

	corsWrapped := middleware.CORSMiddleware(cfg.AllowedOrigins)(mux)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, corsWrapped); err != nil {
		log.Fatalf("Could not start server: %s\n", err)
	}
}

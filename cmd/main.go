package main

import (
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/planmate/planmate-backend/internal/db"
	"github.com/planmate/planmate-backend/internal/handlers"
	"github.com/planmate/planmate-backend/internal/jobs"
	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/repos"
	"github.com/planmate/planmate-backend/internal/server"
	"github.com/planmate/planmate-backend/internal/services"
	"github.com/planmate/planmate-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	mode := utils.GetEnv("APP_MODE", "dev", nil)
	log, err := logger.New(mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	port := utils.GetEnv("PORT", "8080", log)
	jwtSecret := utils.GetEnv("JWT_SECRET", "", log)
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	accessTTL := time.Duration(utils.GetEnvAsInt("ACCESS_TTL_MINUTES", 15, log)) * time.Minute
	refreshTTL := time.Duration(utils.GetEnvAsInt("REFRESH_TTL_HOURS", 720, log)) * time.Hour
	allowedOrigins := strings.Split(utils.GetEnv("ALLOWED_ORIGINS", "http://localhost:3000", log), ",")
	expirySchedule := utils.GetEnv("INVITATION_EXPIRY_SCHEDULE", "@every 15m", log)

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Failed to initialize postgres", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Failed to migrate postgres tables", "error", err)
	}
	gormDB := postgresService.DB()

	userRepo := repos.NewUserRepo(gormDB, log)
	userTokenRepo := repos.NewUserTokenRepo(gormDB, log)
	templateRepo := repos.NewCampTemplateRepo(gormDB, log)
	blockSetRepo := repos.NewBlockSetRepo(gormDB, log)
	invitationRepo := repos.NewCampInvitationRepo(gormDB, log)
	groupRepo := repos.NewPlanGroupRepo(gormDB, log)
	contentRepo := repos.NewPlanContentRepo(gormDB, log)
	exclusionRepo := repos.NewPlanExclusionRepo(gormDB, log)
	scheduleRepo := repos.NewAcademyScheduleRepo(gormDB, log)
	studentContentRepo := repos.NewStudentContentRepo(gormDB, log)
	studentPlanRepo := repos.NewStudentPlanRepo(gormDB, log)

	notifier, err := services.NewRedisNotifier(log)
	if err != nil {
		log.Warn("Redis notifier unavailable, notifications disabled", "error", err)
		notifier = services.NoopNotifier{}
	}
	defer notifier.Close()

	authService := services.NewAuthService(gormDB, log, userRepo, userTokenRepo, jwtSecret, accessTTL, refreshTTL)
	resolver := services.NewContentResolver(contentRepo, studentContentRepo, log)
	activationPolicy := services.NewActivationPolicy(groupRepo, log)
	generator := services.NewDefaultPlanGenerator(studentPlanRepo, exclusionRepo, log)
	statusService := services.NewPlanGroupStatusService(groupRepo, studentPlanRepo, activationPolicy, generator, log)
	templateService := services.NewCampTemplateService(templateRepo, blockSetRepo, log)
	invitationService := services.NewInvitationService(invitationRepo, log)
	participationService := services.NewParticipationService(
		invitationRepo, templateRepo, blockSetRepo, groupRepo,
		contentRepo, exclusionRepo, scheduleRepo, studentPlanRepo,
		resolver, notifier, log,
	)
	bulkService := services.NewBulkService(
		userRepo, templateRepo, invitationRepo, groupRepo, contentRepo,
		resolver, notifier, log,
	)

	authHandler := handlers.NewAuthHandler(authService, log)
	templateHandler := handlers.NewCampTemplateHandler(templateService, invitationService, bulkService, log)
	invitationHandler := handlers.NewCampInvitationHandler(participationService, invitationService, log)
	planGroupHandler := handlers.NewPlanGroupHandler(statusService, bulkService, groupRepo, log)

	expiryCron, err := jobs.StartInvitationExpiry(invitationService, expirySchedule, log)
	if err != nil {
		log.Fatal("Failed to schedule invitation expiry sweep", "error", err)
	}
	defer expiryCron.Stop()

	router := server.NewRouter(
		server.RouterConfig{Mode: mode, AllowedOrigins: allowedOrigins},
		log, authService,
		authHandler, templateHandler, invitationHandler, planGroupHandler,
	)

	log.Info("Starting server", "port", port, "mode", mode)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}

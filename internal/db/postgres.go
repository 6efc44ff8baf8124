package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/types"
	"github.com/planmate/planmate-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "planmate", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.CampTemplate{},
		&types.CampSlotTemplate{},
		&types.BlockSet{},
		&types.TemplateBlockSet{},
		&types.CampInvitation{},
		&types.PlanGroup{},
		&types.PlanContent{},
		&types.PlanExclusion{},
		&types.AcademySchedule{},
		&types.StudentBook{},
		&types.StudentBookDetail{},
		&types.StudentLecture{},
		&types.StudentLectureDetail{},
		&types.StudentPlan{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		name string
		stmt string
	}{
		{
			name: "fk_user_token_user_id",
			stmt: `ALTER TABLE "user_token" ADD CONSTRAINT "fk_user_token_user_id" FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`,
		},
		{
			name: "fk_plan_content_plan_group_id",
			stmt: `ALTER TABLE "plan_content" ADD CONSTRAINT "fk_plan_content_plan_group_id" FOREIGN KEY ("plan_group_id") REFERENCES "plan_group"("id") ON DELETE CASCADE`,
		},
		{
			name: "fk_plan_exclusion_plan_group_id",
			stmt: `ALTER TABLE "plan_exclusion" ADD CONSTRAINT "fk_plan_exclusion_plan_group_id" FOREIGN KEY ("plan_group_id") REFERENCES "plan_group"("id") ON DELETE CASCADE`,
		},
		{
			name: "fk_student_plan_plan_group_id",
			stmt: `ALTER TABLE "student_plan" ADD CONSTRAINT "fk_student_plan_plan_group_id" FOREIGN KEY ("plan_group_id") REFERENCES "plan_group"("id") ON DELETE CASCADE`,
		},
		{
			name: "fk_camp_invitation_camp_template_id",
			stmt: `ALTER TABLE "camp_invitation" ADD CONSTRAINT "fk_camp_invitation_camp_template_id" FOREIGN KEY ("camp_template_id") REFERENCES "camp_template"("id") ON DELETE CASCADE`,
		},
		{
			name: "fk_camp_slot_template_camp_template_id",
			stmt: `ALTER TABLE "camp_slot_template" ADD CONSTRAINT "fk_camp_slot_template_camp_template_id" FOREIGN KEY ("camp_template_id") REFERENCES "camp_template"("id") ON DELETE CASCADE`,
		},
	}
	for _, c := range constraints {
		var exists bool
		if err := s.db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, c.name).Scan(&exists).Error; err != nil {
			return fmt.Errorf("failed to check constraint %s: %w", c.name, err)
		}
		if exists {
			continue
		}
		if err := s.db.Exec(c.stmt).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

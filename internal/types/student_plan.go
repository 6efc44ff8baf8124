package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	StudentPlanStatusPlanned = "planned"
	StudentPlanStatusDone    = "done"
	StudentPlanStatusSkipped = "skipped"
)

// StudentPlan is one materialized day of study produced from a plan group.
type StudentPlan struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AcademyID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"academy_id"`
	StudentID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"student_id"`
	PlanGroupID uuid.UUID  `gorm:"type:uuid;not null;index" json:"plan_group_id"`
	PlanDate    time.Time  `gorm:"column:plan_date;type:date;not null" json:"plan_date"`
	ContentType *string    `gorm:"column:content_type" json:"content_type,omitempty"`
	ContentID   *uuid.UUID `gorm:"type:uuid" json:"content_id,omitempty"`
	Status      string     `gorm:"column:status;not null;default:planned" json:"status"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (StudentPlan) TableName() string { return "student_plan" }

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PlanGroupStatusDraft    = "draft"
	PlanGroupStatusSaved    = "saved"
	PlanGroupStatusActive   = "active"
	PlanGroupStatusPaused   = "paused"
	PlanGroupStatusArchived = "archived"
)

const (
	PlanTypeNormal = "normal"
	PlanTypeCamp   = "camp"
)

// PlanGroup is the aggregate representing one student's adoption of a
// schedule policy for a date range. Camp-mode groups never own a student
// block set directly; the template's block set id travels inside
// SchedulerOptions under "templateBlockSetId".
//
// The (camp_template_id, student_id) unique index rejects the loser of two
// near-simultaneous accepts for the same invitation; NULL template ids
// (normal groups) stay unconstrained.
type PlanGroup struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AcademyID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"academy_id"`
	StudentID        uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:ux_plan_group_template_student" json:"student_id"`
	PlanType         string          `gorm:"column:plan_type;not null;default:normal" json:"plan_type"`
	CampTemplateID   *uuid.UUID      `gorm:"type:uuid;uniqueIndex:ux_plan_group_template_student" json:"camp_template_id,omitempty"`
	CampInvitationID *uuid.UUID      `gorm:"type:uuid;index" json:"camp_invitation_id,omitempty"`
	Status           string          `gorm:"column:status;not null;default:draft" json:"status"`
	PeriodStart      time.Time       `gorm:"column:period_start;type:date;not null" json:"period_start"`
	PeriodEnd        time.Time       `gorm:"column:period_end;type:date;not null" json:"period_end"`
	BlockSetID       *uuid.UUID      `gorm:"column:block_set_id;type:uuid" json:"block_set_id,omitempty"`
	SchedulerOptions datatypes.JSON  `gorm:"column:scheduler_options;type:jsonb" json:"scheduler_options"`
	CreatedAt        time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
	Exclusions       []PlanExclusion `gorm:"foreignKey:PlanGroupID;references:ID" json:"exclusions,omitempty"`
	Contents         []PlanContent   `gorm:"foreignKey:PlanGroupID;references:ID" json:"contents,omitempty"`
}

func (PlanGroup) TableName() string { return "plan_group" }

// PlanMode derives the activation mode used by the "one active plan per mode"
// invariant.
func (g *PlanGroup) PlanMode() string {
	if g == nil {
		return PlanTypeNormal
	}
	if g.PlanType == PlanTypeCamp || g.CampTemplateID != nil {
		return PlanTypeCamp
	}
	return PlanTypeNormal
}

package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	ExclusionSourceTemplate = "template"
	ExclusionSourceStudent  = "student"
)

// PlanExclusion marks a calendar date as non-study for its group. At most one
// exclusion per date survives the merge; the composite unique index enforces
// the same at write time.
type PlanExclusion struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AcademyID     uuid.UUID `gorm:"type:uuid;not null;index" json:"academy_id"`
	PlanGroupID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_plan_exclusion_group_date" json:"plan_group_id"`
	ExclusionDate time.Time `gorm:"column:exclusion_date;type:date;not null;uniqueIndex:ux_plan_exclusion_group_date" json:"exclusion_date"`
	ExclusionType string    `gorm:"column:exclusion_type;not null" json:"exclusion_type"`
	Reason        *string   `gorm:"column:reason" json:"reason,omitempty"`
	Source        string    `gorm:"column:source;not null;default:student" json:"source"`
	IsLocked      bool      `gorm:"column:is_locked;not null;default:false" json:"is_locked"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PlanExclusion) TableName() string { return "plan_exclusion" }

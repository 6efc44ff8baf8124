package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CampTemplateStatusDraft    = "draft"
	CampTemplateStatusActive   = "active"
	CampTemplateStatusArchived = "archived"
)

// CampTemplate is the institution-authored blueprint a student adopts through
// an invitation. TemplateData holds the partial wizard payload the admin
// authored; BlockSetID is the legacy inline reference kept for templates
// created before the link table existed.
type CampTemplate struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AcademyID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"academy_id"`
	Name          string         `gorm:"column:name;not null" json:"name"`
	ProgramType   string         `gorm:"column:program_type" json:"program_type"`
	Status        string         `gorm:"column:status;not null;default:draft" json:"status"`
	TemplateData  datatypes.JSON `gorm:"column:template_data;type:jsonb" json:"template_data"`
	CampStartDate *time.Time     `gorm:"column:camp_start_date;type:date" json:"camp_start_date,omitempty"`
	CampEndDate   *time.Time     `gorm:"column:camp_end_date;type:date" json:"camp_end_date,omitempty"`
	BlockSetID    *uuid.UUID     `gorm:"column:block_set_id;type:uuid" json:"block_set_id,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CampTemplate) TableName() string { return "camp_template" }

// CampSlotTemplate is a placeholder content slot copied onto plan groups
// generated from the template.
type CampSlotTemplate struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AcademyID      uuid.UUID `gorm:"type:uuid;not null;index" json:"academy_id"`
	CampTemplateID uuid.UUID `gorm:"type:uuid;not null;index" json:"camp_template_id"`
	ContentType    string    `gorm:"column:content_type;not null" json:"content_type"`
	Title          string    `gorm:"column:title;not null" json:"title"`
	Subject        string    `gorm:"column:subject" json:"subject"`
	DisplayOrder   int       `gorm:"column:display_order;not null;default:0" json:"display_order"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (CampSlotTemplate) TableName() string { return "camp_slot_template" }

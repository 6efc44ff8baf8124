package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InvitationStatusPending   = "pending"
	InvitationStatusAccepted  = "accepted"
	InvitationStatusDeclined  = "declined"
	InvitationStatusCancelled = "cancelled"
	InvitationStatusExpired   = "expired"
)

const (
	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

// CampInvitation is one per (template, student); the composite unique index
// is the write-time backstop against concurrent duplicate invites.
type CampInvitation struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AcademyID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"academy_id"`
	CampTemplateID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:ux_camp_invitation_template_student" json:"camp_template_id"`
	CampTemplate       *CampTemplate  `gorm:"constraint:OnDelete:CASCADE;foreignKey:CampTemplateID;references:ID" json:"camp_template,omitempty"`
	StudentID          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:ux_camp_invitation_template_student;index" json:"student_id"`
	Status             string         `gorm:"column:status;not null;default:pending" json:"status"`
	ExpiresAt          *time.Time     `gorm:"column:expires_at" json:"expires_at,omitempty"`
	NotificationStatus string         `gorm:"column:notification_status;not null;default:pending" json:"notification_status"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CampInvitation) TableName() string { return "camp_invitation" }

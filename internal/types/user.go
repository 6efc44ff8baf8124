package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AcademyID uuid.UUID      `gorm:"type:uuid;not null;index" json:"academy_id"`
	Email     string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Password  string         `gorm:"column:password;not null" json:"-"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Role      string         `gorm:"column:role;not null;default:student" json:"role"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

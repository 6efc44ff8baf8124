package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentBook is a book the student actually owns. MasterBookID points at the
// shared catalog row the copy was cloned from, when known.
type StudentBook struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AcademyID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"academy_id"`
	StudentID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"student_id"`
	MasterBookID *uuid.UUID     `gorm:"type:uuid;index" json:"master_book_id,omitempty"`
	Title        string         `gorm:"column:title;not null" json:"title"`
	Subject      string         `gorm:"column:subject" json:"subject"`
	TotalPages   int            `gorm:"column:total_pages;not null;default:0" json:"total_pages"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (StudentBook) TableName() string { return "student_book" }

type StudentBookDetail struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentBookID uuid.UUID `gorm:"type:uuid;not null;index" json:"student_book_id"`
	SeqNo         int       `gorm:"column:seq_no;not null" json:"seq_no"`
	StartPage     int       `gorm:"column:start_page;not null" json:"start_page"`
	EndPage       int       `gorm:"column:end_page;not null" json:"end_page"`
}

func (StudentBookDetail) TableName() string { return "student_book_detail" }

type StudentLecture struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AcademyID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"academy_id"`
	StudentID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"student_id"`
	MasterLectureID *uuid.UUID     `gorm:"type:uuid;index" json:"master_lecture_id,omitempty"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	Subject         string         `gorm:"column:subject" json:"subject"`
	TotalEpisodes   int            `gorm:"column:total_episodes;not null;default:0" json:"total_episodes"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (StudentLecture) TableName() string { return "student_lecture" }

type StudentLectureDetail struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentLectureID uuid.UUID `gorm:"type:uuid;not null;index" json:"student_lecture_id"`
	SeqNo            int       `gorm:"column:seq_no;not null" json:"seq_no"`
	Title            string    `gorm:"column:title" json:"title"`
}

func (StudentLectureDetail) TableName() string { return "student_lecture_detail" }

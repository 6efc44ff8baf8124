package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AcademySchedule is a recurring weekly block owned by the student record and
// shared across plan groups; groups reference, never own, these rows.
type AcademySchedule struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AcademyID   uuid.UUID `gorm:"type:uuid;not null;index" json:"academy_id"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	DayOfWeek   int       `gorm:"column:day_of_week;not null" json:"day_of_week"`
	StartTime   string    `gorm:"column:start_time;type:varchar(5);not null" json:"start_time"`
	EndTime     string    `gorm:"column:end_time;type:varchar(5);not null" json:"end_time"`
	AcademyName *string   `gorm:"column:academy_name" json:"academy_name,omitempty"`
	Subject     *string   `gorm:"column:subject" json:"subject,omitempty"`
	Source      string    `gorm:"column:source;not null;default:student" json:"source"`
	IsLocked    bool      `gorm:"column:is_locked;not null;default:false" json:"is_locked"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (AcademySchedule) TableName() string { return "academy_schedule" }

// TupleKey identifies a schedule for set-membership comparisons during the
// template/student merge and the delta insert.
func (s *AcademySchedule) TupleKey() string {
	name := ""
	if s.AcademyName != nil {
		name = *s.AcademyName
	}
	subject := ""
	if s.Subject != nil {
		subject = *s.Subject
	}
	return ScheduleTupleKey(s.DayOfWeek, s.StartTime, s.EndTime, name, subject)
}

func ScheduleTupleKey(day int, start, end, name, subject string) string {
	return fmt.Sprintf("%d|%s|%s|%s|%s", day, start, end, name, subject)
}

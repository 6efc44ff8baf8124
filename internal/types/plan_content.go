package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	ContentTypeBook    = "book"
	ContentTypeLecture = "lecture"
	ContentTypeCustom  = "custom"
)

const (
	RecommendationSourceAuto     = "auto"
	RecommendationSourceAdmin    = "admin"
	RecommendationSourceTemplate = "template"
)

// PlanContent is one study item attached to a plan group. Student-added rows
// always carry IsAutoRecommended=false and a nil RecommendationSource; the
// two fields are set together by the resolver, never by callers.
type PlanContent struct {
	ID                   uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AcademyID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"academy_id"`
	PlanGroupID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"plan_group_id"`
	ContentType          string     `gorm:"column:content_type;not null" json:"content_type"`
	ContentID            uuid.UUID  `gorm:"type:uuid;not null" json:"content_id"`
	MasterContentID      *uuid.UUID `gorm:"type:uuid;index" json:"master_content_id,omitempty"`
	StartRange           int        `gorm:"column:start_range;not null;default:1" json:"start_range"`
	EndRange             int        `gorm:"column:end_range;not null;default:1" json:"end_range"`
	DisplayOrder         int        `gorm:"column:display_order;not null;default:0" json:"display_order"`
	IsAutoRecommended    bool       `gorm:"column:is_auto_recommended;not null;default:false" json:"is_auto_recommended"`
	RecommendationSource *string    `gorm:"column:recommendation_source" json:"recommendation_source,omitempty"`
	CreatedAt            time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (PlanContent) TableName() string { return "plan_content" }

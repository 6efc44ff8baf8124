package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BlockSet is a named weekly grid of available study time blocks.
type BlockSet struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AcademyID uuid.UUID      `gorm:"type:uuid;not null;index" json:"academy_id"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Blocks    datatypes.JSON `gorm:"column:blocks;type:jsonb" json:"blocks"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (BlockSet) TableName() string { return "block_set" }

// TemplateBlockSet links a camp template to the block set its generated
// groups should schedule against. Preferred over CampTemplate.BlockSetID.
type TemplateBlockSet struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AcademyID      uuid.UUID `gorm:"type:uuid;not null;index" json:"academy_id"`
	CampTemplateID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"camp_template_id"`
	BlockSetID     uuid.UUID `gorm:"type:uuid;not null" json:"block_set_id"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (TemplateBlockSet) TableName() string { return "template_block_set" }

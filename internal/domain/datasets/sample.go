package datasets

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Sample is one structured document owned by a dataset. Rows are append-only.
type Sample struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DatasetID uuid.UUID `gorm:"type:uuid;not null;index" json:"dataset_id"`
	Dataset   *Dataset  `gorm:"constraint:OnDelete:CASCADE;foreignKey:DatasetID;references:ID" json:"-"`

	Content datatypes.JSON `gorm:"column:content;not null" json:"content"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Sample) TableName() string { return "dataset_samples" }

package datasets

import (
	"time"

	"github.com/google/uuid"
)

// Finetune is a shadow row for an externally managed finetune job.
type Finetune struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Finetune) TableName() string { return "finetunes" }

// FinetuneDataset links a finetune to a dataset; the pair is the identity.
type FinetuneDataset struct {
	FinetuneID uuid.UUID `gorm:"type:uuid;primaryKey" json:"finetune_id"`
	Finetune   *Finetune `gorm:"constraint:OnDelete:CASCADE;foreignKey:FinetuneID;references:ID" json:"-"`
	DatasetID  uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"dataset_id"`
	Dataset    *Dataset  `gorm:"constraint:OnDelete:CASCADE;foreignKey:DatasetID;references:ID" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (FinetuneDataset) TableName() string { return "finetune_datasets" }

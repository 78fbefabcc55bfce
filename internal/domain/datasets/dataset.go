package datasets

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Dataset is a named collection of samples. SamplesCount and SizeBytes are
// derived from dataset_samples and only move through relative updates.
type Dataset struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string                      `gorm:"column:name;not null" json:"name"`
	Description *string                     `gorm:"column:description" json:"description"`
	Tags        datatypes.JSONSlice[string] `gorm:"column:tags;not null" json:"tags"`

	SamplesCount int64 `gorm:"column:samples_count;not null;default:0;check:chk_datasets_samples_count,samples_count >= 0" json:"samples_count"`
	SizeBytes    int64 `gorm:"column:size_bytes;not null;default:0;check:chk_datasets_size_bytes,size_bytes >= 0" json:"size_bytes"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Dataset) TableName() string { return "datasets" }

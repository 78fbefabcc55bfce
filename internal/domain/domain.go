package domain

import "github.com/lipish/corexia/internal/domain/datasets"

type Dataset = datasets.Dataset
type Sample = datasets.Sample
type Finetune = datasets.Finetune
type FinetuneDataset = datasets.FinetuneDataset

// Models lists every persisted type in migration order.
func Models() []interface{} {
	return []interface{}{
		&Dataset{},
		&Sample{},
		&Finetune{},
		&FinetuneDataset{},
	}
}

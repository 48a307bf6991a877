package services

import (
	"gorm.io/gorm"

	"notegpt/internal/repositories"
)

// DbServices aggregates the database-backed pieces so main can wire them
// in one place.
type DbServices struct {
	Records       repositories.CompletionRecordRepository
	CompletionLog *CompletionLogService
}

// NewDbServices constructs the container using repositories backed by db.
func NewDbServices(db *gorm.DB) *DbServices {
	records := repositories.NewCompletionRecordRepository(db)

	return &DbServices{
		Records:       records,
		CompletionLog: NewCompletionLogService(records),
	}
}

package questionnaires

import (
	"context"

	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/app/services/core/treestore"
	"questionnaire-builder/internal/app/services/core/validation"
)

// QuestionnaireUsecase is the single writer of one questionnaire being
// edited. Every change goes through it and bumps the version.
type QuestionnaireUsecase interface {
	Snapshot() (*models.TreeState, uint64)
	Dispatch(ctx context.Context, request treestore.Request) (uint64, error)

	CreateItem(ctx context.Context, parentPath []string, itemType models.ItemType) (string, error)
	DuplicateItem(ctx context.Context, linkID string, parentPath []string) (string, error)
	AppendOption(ctx context.Context, linkID, display string) (string, error)
	UseLibraryValueSet(ctx context.Context, linkID, valueSetID string) error
	CreateLibraryValueSet(ctx context.Context, request *CreateLibraryValueSet) (models.ValueSetRef, error)

	Validate(ctx context.Context) []validation.Finding
	Import(ctx context.Context, raw []byte) error
	Export(ctx context.Context) ([]byte, error)
}

// CreateLibraryValueSet describes a predefined value set authored inside the
// questionnaire.
type CreateLibraryValueSet struct {
	Name     string
	Title    string
	System   string
	Concepts []models.Concept
}

package questionnaires

import (
	"context"
	"sync"
	"time"

	"questionnaire-builder/internal/app/config"
	"questionnaire-builder/internal/app/contracts"
	"questionnaire-builder/internal/app/drivers/metrics"
	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/app/services/core/treestore"
	"questionnaire-builder/internal/app/services/core/validation"
	"questionnaire-builder/internal/pkg/constvars"
	"questionnaire-builder/internal/pkg/exceptions"
	"questionnaire-builder/internal/pkg/utils"

	"go.uber.org/zap"
)

type questionnaireUsecase struct {
	mu      sync.Mutex
	state   *models.TreeState
	version uint64

	Engine         *treestore.Engine
	Mapper         contracts.QuestionnaireMapper
	Library        contracts.ValueSetLibrary
	IDGenerator    contracts.IDGenerator
	Metrics        *metrics.SessionMetrics
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
}

// NewQuestionnaireUsecase starts a session on an empty draft questionnaire.
func NewQuestionnaireUsecase(
	engine *treestore.Engine,
	mapper contracts.QuestionnaireMapper,
	library contracts.ValueSetLibrary,
	idGenerator contracts.IDGenerator,
	sessionMetrics *metrics.SessionMetrics,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) QuestionnaireUsecase {
	uc := &questionnaireUsecase{
		state:          models.NewTreeState(),
		Engine:         engine,
		Mapper:         mapper,
		Library:        library,
		IDGenerator:    idGenerator,
		Metrics:        sessionMetrics,
		InternalConfig: internalConfig,
		Log:            logger,
	}
	uc.Metrics.SetState(0, 0)
	return uc
}

func (uc *questionnaireUsecase) Snapshot() (*models.TreeState, uint64) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.state, uc.version
}

func (uc *questionnaireUsecase) Dispatch(ctx context.Context, request treestore.Request) (uint64, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	err := uc.run(ctx, request.Operation(), func() (uint64, error) {
		return uc.apply(request)
	})
	return uc.version, err
}

func (uc *questionnaireUsecase) CreateItem(ctx context.Context, parentPath []string, itemType models.ItemType) (string, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	request := treestore.NewCreateItem(uc.IDGenerator, parentPath, itemType)
	uc.Log.Info("questionnaireUsecase.CreateItem called",
		zap.String(constvars.LoggingLinkIDKey, request.LinkID),
		zap.Strings(constvars.LoggingPathKey, parentPath),
	)

	err := uc.run(ctx, request.Operation(), func() (uint64, error) {
		return uc.apply(request)
	})
	if err != nil {
		return "", err
	}
	return request.LinkID, nil
}

// DuplicateItem copies a subtree next to itself and returns the linkId of the
// copy's root.
func (uc *questionnaireUsecase) DuplicateItem(ctx context.Context, linkID string, parentPath []string) (string, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.Log.Info("questionnaireUsecase.DuplicateItem called",
		zap.String(constvars.LoggingLinkIDKey, linkID),
		zap.Strings(constvars.LoggingPathKey, parentPath),
	)

	var request treestore.DuplicateItem
	err := uc.run(ctx, request.Operation(), func() (uint64, error) {
		var err error
		request, err = treestore.NewDuplicateItem(uc.state, uc.IDGenerator, linkID, parentPath)
		if err != nil {
			return uc.version, err
		}
		request.RemapInternalReferences = uc.InternalConfig.Editor.RemapDuplicateReferences
		return uc.apply(request)
	})
	if err != nil {
		return "", err
	}
	return request.NewLinkIDs[linkID], nil
}

// AppendOption adds an option with a generated code and returns the code.
func (uc *questionnaireUsecase) AppendOption(ctx context.Context, linkID, display string) (string, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var request treestore.AppendOption
	err := uc.run(ctx, request.Operation(), func() (uint64, error) {
		var err error
		request, err = treestore.NewAppendOption(uc.state, uc.IDGenerator, linkID, display)
		if err != nil {
			return uc.version, err
		}
		return uc.apply(request)
	})
	if err != nil {
		return "", err
	}
	return request.Code, nil
}

// UseLibraryValueSet pins a predefined set into the questionnaire, if it is
// not held yet, and points the item at it.
func (uc *questionnaireUsecase) UseLibraryValueSet(ctx context.Context, linkID, valueSetID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.Log.Info("questionnaireUsecase.UseLibraryValueSet called",
		zap.String(constvars.LoggingLinkIDKey, linkID),
		zap.String(constvars.LoggingValueSetKey, valueSetID),
	)

	return uc.run(ctx, constvars.OperationUseLibraryValueSet, func() (uint64, error) {
		vs, ok := uc.Library.Find(valueSetID)
		if !ok {
			return uc.version, exceptions.ErrNotFound("library value set", valueSetID)
		}

		var requests []treestore.Request
		if _, held := uc.state.ValueSet(vs.Ref); !held {
			requests = append(requests, treestore.AddValueSet{ValueSet: *vs})
		}
		requests = append(requests, treestore.UpdateItem{
			LinkID:   linkID,
			Property: models.PropertyAnswerValueSet,
			Value:    vs.Ref,
		})
		return uc.apply(treestore.Batch{Requests: requests})
	})
}

// CreateLibraryValueSet authors a new predefined set inside the
// questionnaire. It is kept even while no item refers to it.
func (uc *questionnaireUsecase) CreateLibraryValueSet(ctx context.Context, request *CreateLibraryValueSet) (models.ValueSetRef, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	ref := models.LibraryRef(constvars.PredefinedValueSetIDPrefix + uc.IDGenerator.NewID())
	uc.Log.Info("questionnaireUsecase.CreateLibraryValueSet called",
		zap.String(constvars.LoggingValueSetKey, ref.ID),
	)

	add := treestore.AddValueSet{ValueSet: models.ValueSet{
		Ref:      ref,
		Version:  constvars.PredefinedValueSetVersion,
		Name:     request.Name,
		Title:    request.Title,
		Status:   constvars.FhirPublicationStatusDraft,
		Includes: []models.ValueSetInclude{{System: request.System, Concepts: request.Concepts}},
	}}
	err := uc.run(ctx, add.Operation(), func() (uint64, error) {
		return uc.apply(add)
	})
	if err != nil {
		return models.ValueSetRef{}, err
	}
	return ref, nil
}

func (uc *questionnaireUsecase) Validate(ctx context.Context) []validation.Finding {
	state, version := uc.Snapshot()

	findings := validation.Validate(state)
	uc.Metrics.SetFindings(len(findings))
	uc.Log.Info("questionnaireUsecase.Validate called",
		zap.Uint64(constvars.LoggingVersionKey, version),
		zap.Int(constvars.LoggingItemsKey, len(state.Items)),
		zap.Int(constvars.LoggingFindingsKey, len(findings)),
	)
	return findings
}

// Import replaces the session state with a decoded document. A document that
// fails to decode leaves the session as it was.
func (uc *questionnaireUsecase) Import(ctx context.Context, raw []byte) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.run(ctx, constvars.OperationImport, func() (uint64, error) {
		doc, err := uc.Mapper.Decode(raw)
		if err != nil {
			return uc.version, err
		}
		state, err := uc.Mapper.ToState(doc)
		if err != nil {
			return uc.version, err
		}
		return uc.commit(state), nil
	})
}

func (uc *questionnaireUsecase) Export(ctx context.Context) ([]byte, error) {
	state, version := uc.Snapshot()

	var raw []byte
	err := uc.run(ctx, constvars.OperationExport, func() (uint64, error) {
		doc, err := uc.Mapper.ToWire(state)
		if err != nil {
			return version, err
		}
		raw, err = uc.Mapper.Encode(doc)
		return version, err
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// run is called with the lock held when fn touches the state.
func (uc *questionnaireUsecase) run(ctx context.Context, operation string, fn func() (uint64, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := utils.LogOperation(uc.Log, operation, fn)
	uc.Metrics.Observe(operation, err == nil, time.Since(start))
	return err
}

func (uc *questionnaireUsecase) apply(request treestore.Request) (uint64, error) {
	next, err := uc.Engine.Apply(uc.state, request)
	if err != nil {
		return uc.version, err
	}
	return uc.commit(next), nil
}

func (uc *questionnaireUsecase) commit(state *models.TreeState) uint64 {
	uc.state = state
	uc.version++
	uc.Metrics.SetState(uc.version, len(state.Items))
	return uc.version
}

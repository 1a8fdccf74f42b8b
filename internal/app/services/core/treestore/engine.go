package treestore

import (
	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/pkg/exceptions"
)

// Engine applies mutation requests to tree states. It holds no state of its
// own and performs no I/O.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Apply returns the state that results from request. On error the input
// state is returned unchanged together with the error.
func (e *Engine) Apply(state *models.TreeState, request Request) (*models.TreeState, error) {
	next, err := e.apply(state, request)
	if err != nil {
		return state, err
	}
	return next, nil
}

func (e *Engine) apply(state *models.TreeState, request Request) (*models.TreeState, error) {
	switch req := request.(type) {
	case CreateItem:
		return createItem(state, req)
	case DeleteItem:
		return deleteItem(state, req)
	case DuplicateItem:
		return duplicateItem(state, req)
	case UpdateItem:
		return updateItem(state, req)
	case MoveItem:
		return moveItem(state, req)
	case AppendOption:
		return appendOption(state, req)
	case UpdateOption:
		return updateOption(state, req)
	case RenameOptionCode:
		return renameOptionCode(state, req)
	case RemoveOption:
		return removeOption(state, req)
	case ReorderOptions:
		return reorderOptions(state, req)
	case AddValueSet:
		return addValueSet(state, req)
	case RemoveValueSet:
		return removeValueSet(state, req)
	case UpdateMetadata:
		return updateMetadata(state, req)
	case Batch:
		return e.batch(state, req)
	default:
		return nil, exceptions.ErrUnknownRequest(request)
	}
}

func (e *Engine) batch(state *models.TreeState, req Batch) (*models.TreeState, error) {
	current := state
	for _, request := range req.Requests {
		next, err := e.apply(current, request)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

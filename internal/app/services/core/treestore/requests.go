package treestore

import (
	"questionnaire-builder/internal/app/contracts"
	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/pkg/constvars"
	"questionnaire-builder/internal/pkg/exceptions"
)

// Request is a mutation the engine knows how to apply. Requests carry every
// identifier they introduce, so applying one twice to the same state gives
// the same result.
type Request interface {
	Operation() string
}

// CreateItem appends a new item as the last child of ParentPath.
type CreateItem struct {
	ParentPath []string
	Type       models.ItemType
	LinkID     string
}

// DeleteItem removes the item and its whole subtree.
type DeleteItem struct {
	LinkID     string
	ParentPath []string
}

// DuplicateItem inserts a deep copy of the subtree right after the original.
// NewLinkIDs maps every linkId of the subtree to the id of its copy.
type DuplicateItem struct {
	LinkID                  string
	ParentPath              []string
	NewLinkIDs              map[string]string
	RemapInternalReferences bool
}

// UpdateItem sets a single property. Value must have the Go type the
// property expects, see the property table in properties.go.
type UpdateItem struct {
	LinkID   string
	Property models.ItemProperty
	Value    any
}

type MoveItem struct {
	LinkID         string
	FromParentPath []string
	ToParentPath   []string
	ToIndex        int
}

// AppendOption adds an inline answer option. An empty System reuses the
// system of the first existing option.
type AppendOption struct {
	LinkID  string
	Code    string
	System  string
	Display string
}

type UpdateOption struct {
	LinkID  string
	Code    string
	Display string
}

type RenameOptionCode struct {
	LinkID  string
	Code    string
	NewCode string
}

type RemoveOption struct {
	LinkID string
	Code   string
}

// ReorderOptions rearranges the options to follow Codes, which must be a
// permutation of the current codes.
type ReorderOptions struct {
	LinkID string
	Codes  []string
}

type AddValueSet struct {
	ValueSet models.ValueSet
}

type RemoveValueSet struct {
	Ref models.ValueSetRef
}

type UpdateMetadata struct {
	Property models.MetadataProperty
	Value    any
}

// Batch applies its requests in order. Either all of them apply or the state
// is left as it was.
type Batch struct {
	Requests []Request
}

func (CreateItem) Operation() string       { return "create_item" }
func (DeleteItem) Operation() string       { return "delete_item" }
func (DuplicateItem) Operation() string    { return "duplicate_item" }
func (UpdateItem) Operation() string       { return "update_item" }
func (MoveItem) Operation() string         { return "move_item" }
func (AppendOption) Operation() string     { return "append_option" }
func (UpdateOption) Operation() string     { return "update_option" }
func (RenameOptionCode) Operation() string { return "rename_option_code" }
func (RemoveOption) Operation() string     { return "remove_option" }
func (ReorderOptions) Operation() string   { return "reorder_options" }
func (AddValueSet) Operation() string      { return "add_value_set" }
func (RemoveValueSet) Operation() string   { return "remove_value_set" }
func (UpdateMetadata) Operation() string   { return "update_metadata" }
func (Batch) Operation() string            { return "batch" }

func NewCreateItem(ids contracts.IDGenerator, parentPath []string, itemType models.ItemType) CreateItem {
	return CreateItem{
		ParentPath: parentPath,
		Type:       itemType,
		LinkID:     ids.NewID(),
	}
}

// NewDuplicateItem draws a fresh linkId for every node of the subtree rooted
// at linkID.
func NewDuplicateItem(state *models.TreeState, ids contracts.IDGenerator, linkID string, parentPath []string) (DuplicateItem, error) {
	siblings, err := childrenAt(state, parentPath)
	if err != nil {
		return DuplicateItem{}, err
	}
	idx := indexOf(siblings, linkID)
	if idx < 0 {
		return DuplicateItem{}, exceptions.ErrNotFound("item", linkID)
	}

	mapping := map[string]string{}
	for _, id := range siblings[idx].SubtreeLinkIDs() {
		mapping[id] = ids.NewID()
	}
	return DuplicateItem{
		LinkID:     linkID,
		ParentPath: parentPath,
		NewLinkIDs: mapping,
	}, nil
}

// NewAppendOption generates the option code and, for the first option of an
// item, the option system.
func NewAppendOption(state *models.TreeState, ids contracts.IDGenerator, linkID, display string) (AppendOption, error) {
	item, ok := state.Item(linkID)
	if !ok {
		return AppendOption{}, exceptions.ErrNotFound("item", linkID)
	}
	choice, ok := item.Choice()
	if !ok {
		return AppendOption{}, exceptions.ErrPropertyNotCarried(linkID, string(models.PropertyAnswerOption), string(item.Type))
	}

	request := AppendOption{
		LinkID:  linkID,
		Code:    ids.NewID(),
		Display: display,
	}
	if len(choice.Options) > 0 {
		request.System = choice.Options[0].System
	} else {
		request.System = ids.NewID() + constvars.AnswerOptionSystemSuffix
	}
	return request, nil
}

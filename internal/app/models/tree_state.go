package models

import (
	"fmt"
	"sort"

	"questionnaire-builder/internal/pkg/constvars"
)

// OrderItem is a node of the Order Tree. It holds only the linkId; the item
// content lives in TreeState.Items.
type OrderItem struct {
	LinkID string
	Items  []OrderItem
}

// RawResource is a compacted JSON resource kept verbatim.
type RawResource []byte

// TreeState is the normalized questionnaire. A state is never modified once
// it has been handed out: mutations build a new state sharing the parts they
// did not touch.
type TreeState struct {
	Items          map[string]*Item
	Order          []OrderItem
	ValueSets      []*ValueSet
	Metadata       Metadata
	OtherContained []RawResource
}

func NewTreeState() *TreeState {
	return &TreeState{
		Items: map[string]*Item{},
		Metadata: Metadata{
			Status: constvars.FhirPublicationStatusDraft,
		},
	}
}

// Copy returns a shallow copy that can be modified field by field.
func (s *TreeState) Copy() *TreeState {
	cloned := *s
	return &cloned
}

func (s *TreeState) Item(linkID string) (*Item, bool) {
	item, ok := s.Items[linkID]
	return item, ok
}

func (s *TreeState) ValueSet(ref ValueSetRef) (*ValueSet, bool) {
	for _, vs := range s.ValueSets {
		if vs.Ref == ref {
			return vs, true
		}
	}
	return nil, false
}

// ValueSetByID finds a locally held set by id regardless of origin. A
// contained set wins over a library set of the same id, as "#id" does in an
// imported document.
func (s *TreeState) ValueSetByID(id string) (*ValueSet, bool) {
	var found *ValueSet
	for _, vs := range s.ValueSets {
		if vs.Ref.ID != id {
			continue
		}
		if vs.Ref.Origin == ValueSetContained {
			return vs, true
		}
		if found == nil {
			found = vs
		}
	}
	return found, found != nil
}

// Walk visits the Order Tree depth first in document order. parentPath is
// reused between calls; copy it to keep it.
func (s *TreeState) Walk(fn func(node OrderItem, parentPath []string)) {
	var walk func(nodes []OrderItem, path []string)
	walk = func(nodes []OrderItem, path []string) {
		for _, node := range nodes {
			fn(node, path)
			walk(node.Items, append(path, node.LinkID))
		}
	}
	walk(s.Order, nil)
}

// Find locates a node and returns the path of its parent.
func (s *TreeState) Find(linkID string) (OrderItem, []string, bool) {
	return FindNode(s.Order, linkID, nil)
}

func FindNode(nodes []OrderItem, linkID string, parentPath []string) (OrderItem, []string, bool) {
	for _, node := range nodes {
		if node.LinkID == linkID {
			return node, append([]string(nil), parentPath...), true
		}
		if found, path, ok := FindNode(node.Items, linkID, append(parentPath, node.LinkID)); ok {
			return found, path, true
		}
	}
	return OrderItem{}, nil, false
}

// LinkIDs lists the linkIds of the Order Tree in document order.
func (s *TreeState) LinkIDs() []string {
	var ids []string
	s.Walk(func(node OrderItem, _ []string) {
		ids = append(ids, node.LinkID)
	})
	return ids
}

// SubtreeLinkIDs lists the node and all its descendants, pre-order.
func (node OrderItem) SubtreeLinkIDs() []string {
	ids := []string{node.LinkID}
	for _, child := range node.Items {
		ids = append(ids, child.SubtreeLinkIDs()...)
	}
	return ids
}

// ValueSetReferences maps each referenced value set to the linkIds referring
// to it, sorted.
func (s *TreeState) ValueSetReferences() map[ValueSetRef][]string {
	refs := map[ValueSetRef][]string{}
	for linkID, item := range s.Items {
		if ref, ok := item.ValueSetRef(); ok {
			refs[ref] = append(refs[ref], linkID)
		}
	}
	for ref := range refs {
		sort.Strings(refs[ref])
	}
	return refs
}

// CheckConsistency verifies that the Order Tree and the Item Store describe
// the same set of linkIds, each exactly once.
func (s *TreeState) CheckConsistency() error {
	seen := map[string]int{}
	s.Walk(func(node OrderItem, _ []string) {
		seen[node.LinkID]++
	})
	for linkID, count := range seen {
		if count > 1 {
			return fmt.Errorf("linkId %s appears %d times in the order tree", linkID, count)
		}
		if _, ok := s.Items[linkID]; !ok {
			return fmt.Errorf("linkId %s has no item", linkID)
		}
	}
	for linkID, item := range s.Items {
		if _, ok := seen[linkID]; !ok {
			return fmt.Errorf("item %s is not in the order tree", linkID)
		}
		if item.LinkID != linkID {
			return fmt.Errorf("item stored under %s carries linkId %s", linkID, item.LinkID)
		}
	}
	return nil
}

package treestore

import (
	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/pkg/exceptions"
)

func createItem(state *models.TreeState, req CreateItem) (*models.TreeState, error) {
	if req.LinkID == "" {
		return nil, exceptions.ErrLinkIDEmpty()
	}
	if _, exists := state.Items[req.LinkID]; exists {
		return nil, exceptions.ErrLinkIDAlreadyUsed(req.LinkID)
	}
	if _, ok := models.ParseItemType(string(req.Type)); !ok {
		return nil, exceptions.ErrPropertyWrongValue(req.LinkID, string(models.PropertyType), "an item type", req.Type)
	}
	if err := checkParent(state, req.ParentPath); err != nil {
		return nil, err
	}

	order, err := replaceChildren(state.Order, req.ParentPath, func(children []models.OrderItem) ([]models.OrderItem, error) {
		return insertAt(children, len(children), models.OrderItem{LinkID: req.LinkID}), nil
	})
	if err != nil {
		return nil, err
	}

	next := state.Copy()
	next.Order = order
	next.Items = cloneItems(state.Items)
	next.Items[req.LinkID] = models.NewItem(req.LinkID, req.Type)
	return next, nil
}

func deleteItem(state *models.TreeState, req DeleteItem) (*models.TreeState, error) {
	var removed models.OrderItem
	order, err := replaceChildren(state.Order, req.ParentPath, func(children []models.OrderItem) ([]models.OrderItem, error) {
		idx := indexOf(children, req.LinkID)
		if idx < 0 {
			return nil, exceptions.ErrNotFound("item", req.LinkID)
		}
		removed = children[idx]
		return removeAt(children, idx), nil
	})
	if err != nil {
		return nil, err
	}

	next := state.Copy()
	next.Order = order
	next.Items = cloneItems(state.Items)
	for _, linkID := range removed.SubtreeLinkIDs() {
		delete(next.Items, linkID)
	}
	next.ValueSets = collectValueSets(state, next)
	return next, nil
}

func duplicateItem(state *models.TreeState, req DuplicateItem) (*models.TreeState, error) {
	siblings, err := childrenAt(state, req.ParentPath)
	if err != nil {
		return nil, err
	}
	idx := indexOf(siblings, req.LinkID)
	if idx < 0 {
		return nil, exceptions.ErrNotFound("item", req.LinkID)
	}
	original := siblings[idx]

	if err := checkDuplicateMapping(state, original, req.NewLinkIDs); err != nil {
		return nil, err
	}

	copied := copySubtree(original, req.NewLinkIDs)
	order, err := replaceChildren(state.Order, req.ParentPath, func(children []models.OrderItem) ([]models.OrderItem, error) {
		return insertAt(children, idx+1, copied), nil
	})
	if err != nil {
		return nil, err
	}

	next := state.Copy()
	next.Order = order
	next.Items = cloneItems(state.Items)
	for _, linkID := range original.SubtreeLinkIDs() {
		item := state.Items[linkID].Clone()
		item.LinkID = req.NewLinkIDs[linkID]
		if req.RemapInternalReferences {
			for i, rule := range item.EnableWhen {
				if mapped, ok := req.NewLinkIDs[rule.Question]; ok {
					item.EnableWhen[i].Question = mapped
				}
			}
		}
		next.Items[item.LinkID] = item
	}
	return next, nil
}

// checkDuplicateMapping requires a distinct, unused target for every node of
// the subtree.
func checkDuplicateMapping(state *models.TreeState, original models.OrderItem, mapping map[string]string) error {
	subtree := original.SubtreeLinkIDs()
	if len(mapping) != len(subtree) {
		return exceptions.ErrDuplicateMapping(original.LinkID)
	}
	targets := map[string]bool{}
	for _, linkID := range subtree {
		target, ok := mapping[linkID]
		if !ok {
			return exceptions.ErrDuplicateMapping(linkID)
		}
		if target == "" {
			return exceptions.ErrLinkIDEmpty()
		}
		if _, exists := state.Items[target]; exists || targets[target] {
			return exceptions.ErrLinkIDAlreadyUsed(target)
		}
		targets[target] = true
	}
	return nil
}

func copySubtree(node models.OrderItem, mapping map[string]string) models.OrderItem {
	copied := models.OrderItem{LinkID: mapping[node.LinkID]}
	for _, child := range node.Items {
		copied.Items = append(copied.Items, copySubtree(child, mapping))
	}
	return copied
}

func moveItem(state *models.TreeState, req MoveItem) (*models.TreeState, error) {
	if containsString(req.ToParentPath, req.LinkID) {
		return nil, exceptions.ErrMoveIntoOwnSubtree(req.LinkID)
	}

	var moved models.OrderItem
	detached, err := replaceChildren(state.Order, req.FromParentPath, func(children []models.OrderItem) ([]models.OrderItem, error) {
		idx := indexOf(children, req.LinkID)
		if idx < 0 {
			return nil, exceptions.ErrNotFound("item", req.LinkID)
		}
		moved = children[idx]
		return removeAt(children, idx), nil
	})
	if err != nil {
		return nil, err
	}

	if err := checkParent(state, req.ToParentPath); err != nil {
		return nil, err
	}
	order, err := replaceChildren(detached, req.ToParentPath, func(children []models.OrderItem) ([]models.OrderItem, error) {
		if req.ToIndex < 0 || req.ToIndex > len(children) {
			return nil, exceptions.ErrIndexOutOfRange(req.LinkID, req.ToIndex, len(children))
		}
		return insertAt(children, req.ToIndex, moved), nil
	})
	if err != nil {
		return nil, err
	}

	next := state.Copy()
	next.Order = order
	return next, nil
}

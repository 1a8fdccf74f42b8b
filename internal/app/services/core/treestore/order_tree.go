package treestore

import (
	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/pkg/exceptions"
)

func indexOf(nodes []models.OrderItem, linkID string) int {
	for i, node := range nodes {
		if node.LinkID == linkID {
			return i
		}
	}
	return -1
}

// childrenAt resolves a parent path from the root. Every step must name an
// existing child of the previous one.
func childrenAt(state *models.TreeState, path []string) ([]models.OrderItem, error) {
	current := state.Order
	for _, linkID := range path {
		idx := indexOf(current, linkID)
		if idx < 0 {
			return nil, exceptions.ErrInvalidParent(path)
		}
		current = current[idx].Items
	}
	return current, nil
}

// replaceChildren rebuilds the spine from the root down to path, handing the
// children found there to fn and splicing its result back in. Nodes off the
// spine are shared with the input.
func replaceChildren(order []models.OrderItem, path []string, fn func([]models.OrderItem) ([]models.OrderItem, error)) ([]models.OrderItem, error) {
	var replace func(nodes []models.OrderItem, depth int) ([]models.OrderItem, error)
	replace = func(nodes []models.OrderItem, depth int) ([]models.OrderItem, error) {
		if depth == len(path) {
			return fn(nodes)
		}
		idx := indexOf(nodes, path[depth])
		if idx < 0 {
			return nil, exceptions.ErrInvalidParent(path)
		}
		children, err := replace(nodes[idx].Items, depth+1)
		if err != nil {
			return nil, err
		}
		next := make([]models.OrderItem, len(nodes))
		copy(next, nodes)
		next[idx] = models.OrderItem{LinkID: nodes[idx].LinkID, Items: children}
		return next, nil
	}
	return replace(order, 0)
}

func insertAt(nodes []models.OrderItem, idx int, node models.OrderItem) []models.OrderItem {
	next := make([]models.OrderItem, 0, len(nodes)+1)
	next = append(next, nodes[:idx]...)
	next = append(next, node)
	next = append(next, nodes[idx:]...)
	return next
}

func removeAt(nodes []models.OrderItem, idx int) []models.OrderItem {
	if len(nodes) == 1 {
		return nil
	}
	next := make([]models.OrderItem, 0, len(nodes)-1)
	next = append(next, nodes[:idx]...)
	next = append(next, nodes[idx+1:]...)
	return next
}

// checkParent makes sure the last element of path may hold children.
func checkParent(state *models.TreeState, path []string) error {
	if len(path) == 0 {
		return nil
	}
	parentID := path[len(path)-1]
	parent, ok := state.Item(parentID)
	if !ok {
		return exceptions.ErrInvalidParent(path)
	}
	if !parent.Type.CanHaveChildren() {
		return exceptions.ErrParentIsDisplay(parentID)
	}
	return nil
}

func cloneItems(items map[string]*models.Item) map[string]*models.Item {
	cloned := make(map[string]*models.Item, len(items))
	for linkID, item := range items {
		cloned[linkID] = item
	}
	return cloned
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

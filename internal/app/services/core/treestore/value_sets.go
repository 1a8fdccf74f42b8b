package treestore

import (
	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/pkg/exceptions"
)

// collectValueSets drops contained sets whose last referring item went away
// between before and after. Library sets and sets that were already
// unreferenced are kept.
func collectValueSets(before, after *models.TreeState) []*models.ValueSet {
	if len(after.ValueSets) == 0 {
		return nil
	}
	refsBefore := before.ValueSetReferences()
	refsAfter := after.ValueSetReferences()

	var kept []*models.ValueSet
	for _, vs := range after.ValueSets {
		switch {
		case vs.Ref.Origin != models.ValueSetContained:
			kept = append(kept, vs)
		case len(refsAfter[vs.Ref]) > 0:
			kept = append(kept, vs)
		case len(refsBefore[vs.Ref]) == 0:
			kept = append(kept, vs)
		}
	}
	return kept
}

func addValueSet(state *models.TreeState, req AddValueSet) (*models.TreeState, error) {
	ref := req.ValueSet.Ref
	if !ref.IsLocal() {
		return nil, exceptions.ErrValueSetNotStorable(ref.ID)
	}
	// The same id may be held once per origin; export renames the library
	// copy when both are present.
	if _, exists := state.ValueSet(ref); exists {
		return nil, exceptions.ErrValueSetIDAlreadyUsed(ref.ID)
	}

	next := state.Copy()
	next.ValueSets = make([]*models.ValueSet, 0, len(state.ValueSets)+1)
	next.ValueSets = append(next.ValueSets, state.ValueSets...)
	next.ValueSets = append(next.ValueSets, req.ValueSet.Clone())
	return next, nil
}

func removeValueSet(state *models.TreeState, req RemoveValueSet) (*models.TreeState, error) {
	idx := -1
	for i, vs := range state.ValueSets {
		if vs.Ref == req.Ref {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, exceptions.ErrNotFound("value set", req.Ref.ID)
	}
	if linkIDs := state.ValueSetReferences()[req.Ref]; len(linkIDs) > 0 {
		return nil, exceptions.ErrValueSetStillReferenced(req.Ref.ID, linkIDs[0])
	}

	next := state.Copy()
	var kept []*models.ValueSet
	for i, vs := range state.ValueSets {
		if i != idx {
			kept = append(kept, vs)
		}
	}
	next.ValueSets = kept
	return next, nil
}

package treestore

import (
	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/pkg/exceptions"
)

// editOptions clones the item, hands its options to fn and stores the result.
// Inline options replace any value set reference.
func editOptions(state *models.TreeState, linkID string, fn func(options []models.AnswerOption) ([]models.AnswerOption, error)) (*models.TreeState, error) {
	current, ok := state.Item(linkID)
	if !ok {
		return nil, exceptions.ErrNotFound("item", linkID)
	}
	if _, ok := current.Choice(); !ok {
		return nil, exceptions.ErrPropertyNotCarried(linkID, string(models.PropertyAnswerOption), string(current.Type))
	}

	item := current.Clone()
	choice, _ := item.Choice()
	options, err := fn(choice.Options)
	if err != nil {
		return nil, err
	}
	if len(options) == 0 {
		options = nil
	} else {
		choice.ValueSet = models.ValueSetRef{}
	}
	choice.Options = options

	next := state.Copy()
	next.Items = cloneItems(state.Items)
	next.Items[linkID] = item
	next.ValueSets = collectValueSets(state, next)
	return next, nil
}

func optionIndex(options []models.AnswerOption, code string) int {
	for i, option := range options {
		if option.Code == code {
			return i
		}
	}
	return -1
}

func appendOption(state *models.TreeState, req AppendOption) (*models.TreeState, error) {
	return editOptions(state, req.LinkID, func(options []models.AnswerOption) ([]models.AnswerOption, error) {
		if req.Code == "" {
			return nil, exceptions.ErrOptionCodeEmpty(req.LinkID)
		}
		if optionIndex(options, req.Code) >= 0 {
			return nil, exceptions.ErrOptionCodeAlreadyUsed(req.LinkID, req.Code)
		}
		system := req.System
		if system == "" && len(options) > 0 {
			system = options[0].System
		}
		return append(options, models.AnswerOption{Code: req.Code, Display: req.Display, System: system}), nil
	})
}

func updateOption(state *models.TreeState, req UpdateOption) (*models.TreeState, error) {
	return editOptions(state, req.LinkID, func(options []models.AnswerOption) ([]models.AnswerOption, error) {
		idx := optionIndex(options, req.Code)
		if idx < 0 {
			return nil, exceptions.ErrNotFound("answer option", req.Code)
		}
		options[idx].Display = req.Display
		return options, nil
	})
}

func renameOptionCode(state *models.TreeState, req RenameOptionCode) (*models.TreeState, error) {
	return editOptions(state, req.LinkID, func(options []models.AnswerOption) ([]models.AnswerOption, error) {
		idx := optionIndex(options, req.Code)
		if idx < 0 {
			return nil, exceptions.ErrNotFound("answer option", req.Code)
		}
		if req.NewCode == "" {
			return nil, exceptions.ErrOptionCodeEmpty(req.LinkID)
		}
		if req.NewCode != req.Code && optionIndex(options, req.NewCode) >= 0 {
			return nil, exceptions.ErrOptionCodeAlreadyUsed(req.LinkID, req.NewCode)
		}
		options[idx].Code = req.NewCode
		return options, nil
	})
}

func removeOption(state *models.TreeState, req RemoveOption) (*models.TreeState, error) {
	return editOptions(state, req.LinkID, func(options []models.AnswerOption) ([]models.AnswerOption, error) {
		idx := optionIndex(options, req.Code)
		if idx < 0 {
			return nil, exceptions.ErrNotFound("answer option", req.Code)
		}
		return append(options[:idx:idx], options[idx+1:]...), nil
	})
}

func reorderOptions(state *models.TreeState, req ReorderOptions) (*models.TreeState, error) {
	return editOptions(state, req.LinkID, func(options []models.AnswerOption) ([]models.AnswerOption, error) {
		if len(req.Codes) != len(options) {
			return nil, exceptions.ErrReorderNotPermutation(req.LinkID)
		}
		reordered := make([]models.AnswerOption, 0, len(options))
		used := map[string]bool{}
		for _, code := range req.Codes {
			idx := optionIndex(options, code)
			if idx < 0 || used[code] {
				return nil, exceptions.ErrReorderNotPermutation(req.LinkID)
			}
			used[code] = true
			reordered = append(reordered, options[idx])
		}
		return reordered, nil
	})
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"questionnaire-builder/internal/app/contracts"
	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/app/services/core/mapper"
	"questionnaire-builder/internal/app/services/core/questionnaires"
	"questionnaire-builder/internal/app/services/core/treestore"
	"questionnaire-builder/internal/pkg/constvars"
	"questionnaire-builder/internal/pkg/exceptions"
	"questionnaire-builder/internal/pkg/fhir_dto"
	"questionnaire-builder/internal/pkg/utils"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Script is a list of edits applied to a questionnaire in order. Complex
// values are written in the wire shape, e.g. an enableWhen rule as
// {question: a, operator: "=", answerBoolean: true}.
type Script struct {
	Steps []Step `yaml:"steps" validate:"required,min=1,dive"`
}

type Step struct {
	Op       string    `yaml:"op" validate:"required,oneof=create delete duplicate move update appendOption updateOption renameOption removeOption reorderOptions useValueSet createValueSet removeValueSet metadata"`
	LinkID   string    `yaml:"linkId"`
	Parent   []string  `yaml:"parent"`
	ToParent []string  `yaml:"toParent"`
	Index    int       `yaml:"index"`
	Type     string    `yaml:"type"`
	Property string    `yaml:"property"`
	Value    yaml.Node `yaml:"value"`
	Code     string    `yaml:"code"`
	Display  string    `yaml:"display"`
	NewCode  string    `yaml:"newCode"`
	Codes    []string  `yaml:"codes"`
	ValueSet string    `yaml:"valueSet"`
	Remap    *bool     `yaml:"remap"`
}

func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(script); err != nil {
		return nil, errors.New(exceptions.FormatFirstValidationError(err))
	}
	return &script, nil
}

// Run stops at the first rejected step. Steps already applied stay applied.
func (s *Script) Run(ctx context.Context, session questionnaires.QuestionnaireUsecase, ids contracts.IDGenerator) error {
	for i, step := range s.Steps {
		if err := step.run(ctx, session, ids); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
	}
	return nil
}

func (s Step) run(ctx context.Context, session questionnaires.QuestionnaireUsecase, ids contracts.IDGenerator) error {
	switch s.Op {
	case "create":
		itemType, ok := models.ParseItemType(s.Type)
		if !ok {
			return fmt.Errorf("unknown item type %q", s.Type)
		}
		if s.LinkID == "" {
			_, err := session.CreateItem(ctx, s.Parent, itemType)
			return err
		}
		return dispatch(ctx, session, treestore.CreateItem{ParentPath: s.Parent, Type: itemType, LinkID: s.LinkID})

	case "delete":
		return dispatch(ctx, session, treestore.DeleteItem{LinkID: s.LinkID, ParentPath: s.Parent})

	case "duplicate":
		if s.Remap == nil {
			_, err := session.DuplicateItem(ctx, s.LinkID, s.Parent)
			return err
		}
		state, _ := session.Snapshot()
		request, err := treestore.NewDuplicateItem(state, ids, s.LinkID, s.Parent)
		if err != nil {
			return err
		}
		request.RemapInternalReferences = *s.Remap
		return dispatch(ctx, session, request)

	case "move":
		return dispatch(ctx, session, treestore.MoveItem{LinkID: s.LinkID, FromParentPath: s.Parent, ToParentPath: s.ToParent, ToIndex: s.Index})

	case "update":
		state, _ := session.Snapshot()
		property := models.ItemProperty(s.Property)
		value, err := itemValue(state, property, &s.Value)
		if err != nil {
			return err
		}
		return dispatch(ctx, session, treestore.UpdateItem{LinkID: s.LinkID, Property: property, Value: value})

	case "appendOption":
		_, err := session.AppendOption(ctx, s.LinkID, s.Display)
		return err

	case "updateOption":
		return dispatch(ctx, session, treestore.UpdateOption{LinkID: s.LinkID, Code: s.Code, Display: s.Display})

	case "renameOption":
		return dispatch(ctx, session, treestore.RenameOptionCode{LinkID: s.LinkID, Code: s.Code, NewCode: s.NewCode})

	case "removeOption":
		return dispatch(ctx, session, treestore.RemoveOption{LinkID: s.LinkID, Code: s.Code})

	case "reorderOptions":
		return dispatch(ctx, session, treestore.ReorderOptions{LinkID: s.LinkID, Codes: s.Codes})

	case "useValueSet":
		return session.UseLibraryValueSet(ctx, s.LinkID, s.ValueSet)

	case "createValueSet":
		var request valueSetRequest
		if err := decodeWire(&s.Value, &request); err != nil {
			return err
		}
		ref, err := session.CreateLibraryValueSet(ctx, request.toCreate())
		if err != nil || s.LinkID == "" {
			return err
		}
		return dispatch(ctx, session, treestore.UpdateItem{LinkID: s.LinkID, Property: models.PropertyAnswerValueSet, Value: ref})

	case "removeValueSet":
		state, _ := session.Snapshot()
		vs, ok := state.ValueSetByID(s.ValueSet)
		if !ok {
			return exceptions.ErrNotFound("value set", s.ValueSet)
		}
		return dispatch(ctx, session, treestore.RemoveValueSet{Ref: vs.Ref})

	case "metadata":
		property := models.MetadataProperty(s.Property)
		value, err := metadataValue(property, &s.Value)
		if err != nil {
			return err
		}
		return dispatch(ctx, session, treestore.UpdateMetadata{Property: property, Value: value})
	}
	return fmt.Errorf("unknown op %q", s.Op)
}

func dispatch(ctx context.Context, session questionnaires.QuestionnaireUsecase, request treestore.Request) error {
	_, err := session.Dispatch(ctx, request)
	return err
}

type valueSetRequest struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	System   string `json:"system"`
	Concepts []struct {
		Code    string `json:"code"`
		Display string `json:"display"`
	} `json:"concepts"`
}

func (r valueSetRequest) toCreate() *questionnaires.CreateLibraryValueSet {
	request := &questionnaires.CreateLibraryValueSet{Name: r.Name, Title: r.Title, System: r.System}
	for _, concept := range r.Concepts {
		request.Concepts = append(request.Concepts, models.Concept{Code: concept.Code, Display: concept.Display})
	}
	return request
}

// decodeWire reads a YAML value into a wire struct by way of JSON, so the
// DTO json tags apply.
func decodeWire(node *yaml.Node, out any) error {
	if node.Kind == 0 {
		return nil
	}
	var generic any
	if err := node.Decode(&generic); err != nil {
		return err
	}
	raw, err := json.Marshal(generic)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// decodeNode leaves out untouched when the step has no value.
func decodeNode(node *yaml.Node, out any) error {
	if node.Kind == 0 {
		return nil
	}
	return node.Decode(out)
}

func itemValue(state *models.TreeState, property models.ItemProperty, node *yaml.Node) (any, error) {
	switch property {
	case models.PropertyText, models.PropertyPrefix, models.PropertyDefinition,
		models.PropertyType, models.PropertyEnableBehavior:
		var s string
		err := decodeNode(node, &s)
		return s, err

	case models.PropertyRequired, models.PropertyRepeats, models.PropertyReadOnly:
		var b bool
		err := decodeNode(node, &b)
		return b, err

	case models.PropertyMaxLength:
		var n int
		err := decodeNode(node, &n)
		return n, err

	case models.PropertyAnswerValueSet:
		var s string
		if err := decodeNode(node, &s); err != nil {
			return nil, err
		}
		return valueSetRef(state, s), nil

	case models.PropertyUnit:
		if node.Kind == 0 || node.Tag == "!!null" {
			return nil, nil
		}
		var coding fhir_dto.Coding
		if err := decodeWire(node, &coding); err != nil {
			return nil, err
		}
		return models.Coding{System: coding.System, Version: coding.Version, Code: coding.Code, Display: coding.Display}, nil

	case models.PropertyAnswerOption:
		var wire []fhir_dto.QuestionnaireItemAnswerOption
		if err := decodeWire(node, &wire); err != nil {
			return nil, err
		}
		options := []models.AnswerOption{}
		for i, option := range wire {
			if option.ValueCoding == nil {
				return nil, fmt.Errorf("answerOption[%d]: only valueCoding is supported", i)
			}
			options = append(options, models.AnswerOption{Code: option.ValueCoding.Code, System: option.ValueCoding.System, Version: option.ValueCoding.Version, Display: option.ValueCoding.Display})
		}
		return options, nil

	case models.PropertyEnableWhen:
		var wire []fhir_dto.QuestionnaireItemEnableWhen
		if err := decodeWire(node, &wire); err != nil {
			return nil, err
		}
		rules := []models.EnableWhen{}
		for i, rule := range wire {
			converted, err := mapper.EnableWhenFromWire(rule)
			if err != nil {
				return nil, fmt.Errorf("enableWhen[%d]: %w", i, err)
			}
			rules = append(rules, converted)
		}
		return rules, nil

	case models.PropertyInitial:
		var wire []fhir_dto.QuestionnaireItemInitial
		if err := decodeWire(node, &wire); err != nil {
			return nil, err
		}
		values := []models.Value{}
		for i, initial := range wire {
			converted, err := mapper.InitialFromWire(initial)
			if err != nil {
				return nil, fmt.Errorf("initial[%d]: %w", i, err)
			}
			values = append(values, converted)
		}
		return values, nil

	case models.PropertyExtension:
		var wire []fhir_dto.Extension
		if err := decodeWire(node, &wire); err != nil {
			return nil, err
		}
		extensions := []models.Extension{}
		for _, ext := range wire {
			extensions = append(extensions, mapper.ExtensionFromWire(ext))
		}
		return extensions, nil
	}
	return nil, fmt.Errorf("unknown item property %q", property)
}

// valueSetRef resolves an answerValueSet string the way an imported document
// would: "#id" points at a held set, anything else is external.
func valueSetRef(state *models.TreeState, s string) models.ValueSetRef {
	if s == "" {
		return models.ValueSetRef{}
	}
	id, local := strings.CutPrefix(s, constvars.FhirContainedReferencePrefix)
	if !local {
		return models.ExternalRef(s)
	}
	if vs, ok := state.ValueSetByID(id); ok {
		return vs.Ref
	}
	return models.ContainedRef(id)
}

func metadataValue(property models.MetadataProperty, node *yaml.Node) (any, error) {
	switch property {
	case models.MetadataSubjectType, models.MetadataProfiles:
		var values []string
		err := decodeNode(node, &values)
		return values, err
	case models.MetadataTags:
		var wire []fhir_dto.Coding
		if err := decodeWire(node, &wire); err != nil {
			return nil, err
		}
		tags := []models.Coding{}
		for _, tag := range wire {
			tags = append(tags, models.Coding{System: tag.System, Version: tag.Version, Code: tag.Code, Display: tag.Display})
		}
		return tags, nil
	}
	var s string
	err := decodeNode(node, &s)
	return s, err
}

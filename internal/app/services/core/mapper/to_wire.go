package mapper

import (
	"fmt"

	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/pkg/constvars"
	"questionnaire-builder/internal/pkg/exceptions"
	"questionnaire-builder/internal/pkg/fhir_dto"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

type encoder struct {
	state     *models.TreeState
	threshold int
	used      map[string]bool
	wireIDs   map[models.ValueSetRef]string
	generated []fhir_dto.ValueSet
}

// ToWire renders the state as a nested Questionnaire. The result only depends
// on the state, so exporting the same state twice yields identical documents.
func (m *Mapper) ToWire(state *models.TreeState) (*fhir_dto.Questionnaire, error) {
	e := &encoder{state: state, threshold: m.threshold, used: map[string]bool{}, wireIDs: map[models.ValueSetRef]string{}}
	if err := e.reserve(); err != nil {
		return nil, err
	}

	doc := metadataToWire(state.Metadata)

	var contained []json.RawMessage
	for _, vs := range state.ValueSets {
		tag := ""
		if vs.Ref.Origin == models.ValueSetLibrary {
			tag = constvars.ValueSetOriginTagLibrary
		}
		wire := valueSetToWire(vs, tag)
		if id := e.wireIDs[vs.Ref]; id != vs.Ref.ID {
			wire.ID = id
			wire.Meta.Tag = append(wire.Meta.Tag, fhir_dto.Coding{System: constvars.ValueSetLibraryIDTagSystem, Code: vs.Ref.ID})
		}
		raw, err := json.Marshal(wire)
		if err != nil {
			return nil, exceptions.ErrEncode(err)
		}
		contained = append(contained, raw)
	}
	for _, resource := range state.OtherContained {
		contained = append(contained, json.RawMessage(resource))
	}

	items, err := e.items(state.Order)
	if err != nil {
		return nil, err
	}
	doc.Item = items

	for _, vs := range e.generated {
		raw, err := json.Marshal(vs)
		if err != nil {
			return nil, exceptions.ErrEncode(err)
		}
		contained = append(contained, raw)
	}
	doc.Contained = contained
	return doc, nil
}

// reserve assigns contained ids to the held sets. Contained sets and other
// resources keep their ids; a library set whose id is taken gets a numeric
// suffix and keeps its library id in a tag.
func (e *encoder) reserve() error {
	claim := func(id string) error {
		if e.used[id] {
			return exceptions.ErrEncodeValueSetCollision(id)
		}
		e.used[id] = true
		return nil
	}

	for _, vs := range e.state.ValueSets {
		if vs.Ref.Origin != models.ValueSetContained {
			continue
		}
		if err := claim(vs.Ref.ID); err != nil {
			return err
		}
		e.wireIDs[vs.Ref] = vs.Ref.ID
	}
	for _, resource := range e.state.OtherContained {
		if id := gjson.GetBytes(resource, "id").String(); id != "" {
			if err := claim(id); err != nil {
				return err
			}
		}
	}
	for _, vs := range e.state.ValueSets {
		if vs.Ref.Origin != models.ValueSetLibrary {
			continue
		}
		if _, held := e.wireIDs[vs.Ref]; held {
			return exceptions.ErrEncodeValueSetCollision(vs.Ref.ID)
		}
		e.wireIDs[vs.Ref] = e.allocate(vs.Ref.ID)
	}
	return nil
}

// reference renders an answerValueSet, following any renamed library set.
func (e *encoder) reference(ref models.ValueSetRef) string {
	if id, ok := e.wireIDs[ref]; ok {
		return constvars.FhirContainedReferencePrefix + id
	}
	return ref.String()
}

func metadataToWire(metadata models.Metadata) *fhir_dto.Questionnaire {
	doc := &fhir_dto.Questionnaire{
		ResourceType: constvars.ResourceQuestionnaire,
		ID:           metadata.ID,
		Language:     metadata.Language,
		Url:          metadata.URL,
		Version:      metadata.Version,
		Name:         metadata.Name,
		Title:        metadata.Title,
		Status:       metadata.Status,
		Date:         metadata.Date,
		Publisher:    metadata.Publisher,
		Description:  metadata.Description,
		Purpose:      metadata.Purpose,
		Copyright:    metadata.Copyright,
	}
	if doc.Status == "" {
		doc.Status = constvars.FhirPublicationStatusDraft
	}
	if len(metadata.SubjectType) > 0 {
		doc.SubjectType = append([]string(nil), metadata.SubjectType...)
	}
	if len(metadata.Profiles) > 0 || len(metadata.Tags) > 0 {
		doc.Meta = &fhir_dto.Meta{}
		if len(metadata.Profiles) > 0 {
			doc.Meta.Profile = append([]string(nil), metadata.Profiles...)
		}
		for _, tag := range metadata.Tags {
			doc.Meta.Tag = append(doc.Meta.Tag, codingToWire(tag))
		}
	}
	return doc
}

func valueSetToWire(vs *models.ValueSet, originTag string) fhir_dto.ValueSet {
	wire := fhir_dto.ValueSet{
		ResourceType: constvars.ResourceValueSet,
		ID:           vs.Ref.ID,
		Url:          vs.URL,
		Version:      vs.Version,
		Name:         vs.Name,
		Title:        vs.Title,
		Status:       vs.Status,
		Date:         vs.Date,
		Publisher:    vs.Publisher,
	}
	if originTag != "" {
		wire.Meta = &fhir_dto.Meta{Tag: []fhir_dto.Coding{{System: constvars.ValueSetOriginTagSystem, Code: originTag}}}
	}
	if len(vs.Includes) == 0 {
		return wire
	}
	wire.Compose = &fhir_dto.ValueSetCompose{}
	for _, include := range vs.Includes {
		converted := fhir_dto.ValueSetComposeInclude{System: include.System}
		for _, concept := range include.Concepts {
			converted.Concept = append(converted.Concept, fhir_dto.ValueSetComposeIncludeConcept{Code: concept.Code, Display: concept.Display})
		}
		wire.Compose.Include = append(wire.Compose.Include, converted)
	}
	return wire
}

func (e *encoder) items(nodes []models.OrderItem) ([]fhir_dto.QuestionnaireItem, error) {
	var items []fhir_dto.QuestionnaireItem
	for _, node := range nodes {
		item, err := e.item(node)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (e *encoder) item(node models.OrderItem) (fhir_dto.QuestionnaireItem, error) {
	item, ok := e.state.Items[node.LinkID]
	if !ok {
		return fhir_dto.QuestionnaireItem{}, exceptions.ErrEncode(fmt.Errorf("order tree node %s has no item", node.LinkID))
	}

	wire := fhir_dto.QuestionnaireItem{
		LinkID:         item.LinkID,
		Definition:     item.Definition,
		Prefix:         item.Prefix,
		Text:           item.Text,
		Type:           string(item.Type),
		EnableBehavior: string(item.EnableBehavior),
		Required:       item.Required,
		Repeats:        item.Repeats,
		ReadOnly:       item.ReadOnly,
	}
	for _, ext := range item.Extensions {
		wire.Extension = append(wire.Extension, extensionToWire(ext))
	}
	for _, rule := range item.EnableWhen {
		converted, err := enableWhenToWire(rule)
		if err != nil {
			return wire, exceptions.ErrEncode(err)
		}
		wire.EnableWhen = append(wire.EnableWhen, converted)
	}
	for _, value := range item.Initials() {
		converted, err := initialToWire(value)
		if err != nil {
			return wire, exceptions.ErrEncode(err)
		}
		wire.Initial = append(wire.Initial, converted)
	}

	switch answer := item.Answer.(type) {
	case *models.TextAnswer:
		if answer.MaxLength > 0 {
			maxLength := answer.MaxLength
			wire.MaxLength = &maxLength
		}
	case *models.QuantityAnswer:
		if answer.Unit != nil {
			unit := codingToWire(*answer.Unit)
			wire.Extension = append(wire.Extension, fhir_dto.Extension{Url: constvars.FhirExtensionQuestionnaireUnit, ValueCoding: &unit})
		}
	case *models.ChoiceAnswer:
		e.choice(item.LinkID, answer, &wire)
	}

	children, err := e.items(node.Items)
	if err != nil {
		return wire, err
	}
	wire.Item = children
	return wire, nil
}

func (e *encoder) choice(linkID string, answer *models.ChoiceAnswer, wire *fhir_dto.QuestionnaireItem) {
	if !answer.ValueSet.IsZero() {
		wire.AnswerValueSet = e.reference(answer.ValueSet)
	}
	if len(answer.Options) == 0 {
		return
	}

	if answer.ValueSet.IsZero() && e.promotes(answer.Options) {
		id := e.allocate(linkID + constvars.ValueSetItemOptionsIDSuffix)
		vs := &models.ValueSet{
			Ref:      models.ContainedRef(id),
			Status:   constvars.FhirPublicationStatusDraft,
			Includes: []models.ValueSetInclude{{System: answer.Options[0].System}},
		}
		for _, option := range answer.Options {
			vs.Includes[0].Concepts = append(vs.Includes[0].Concepts, models.Concept{Code: option.Code, Display: option.Display})
		}
		e.generated = append(e.generated, valueSetToWire(vs, constvars.ValueSetOriginTagItemOptions))
		wire.AnswerValueSet = vs.Ref.String()
		return
	}

	for _, option := range answer.Options {
		coding := codingToWire(option.Coding())
		wire.AnswerOption = append(wire.AnswerOption, fhir_dto.QuestionnaireItemAnswerOption{ValueCoding: &coding})
	}
}

// promotes reports whether an inline option list is long enough, and uniform
// enough, to be exported as a contained ValueSet. Versioned codings stay
// inline since a compose include holds no per-concept version.
func (e *encoder) promotes(options []models.AnswerOption) bool {
	if e.threshold <= 0 || len(options) <= e.threshold {
		return false
	}
	for _, option := range options {
		if option.System != options[0].System || option.Version != "" {
			return false
		}
	}
	return true
}

func (e *encoder) allocate(base string) string {
	id := base
	for n := 2; e.used[id]; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	e.used[id] = true
	return id
}

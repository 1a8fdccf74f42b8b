package mapper

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/pkg/constvars"
	"questionnaire-builder/internal/pkg/exceptions"
	"questionnaire-builder/internal/pkg/fhir_dto"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"golang.org/x/text/language"
)

type decoder struct {
	state *models.TreeState
	// refs resolves a contained id to the reference items should hold.
	refs map[string]models.ValueSetRef
	// generated holds the option lists exported as contained sets, keyed by
	// id; they fold back into inline options.
	generated map[string]*models.ValueSet
}

// ToState builds a tree state from a wire document. Either the whole document
// is accepted or a DecodeError naming the offending node is returned.
func (m *Mapper) ToState(doc *fhir_dto.Questionnaire) (*models.TreeState, error) {
	if doc == nil {
		return nil, exceptions.ErrDecode(errors.New("empty document"), rootPath)
	}
	if err := validate(doc, ""); err != nil {
		return nil, err
	}
	if doc.Language != "" {
		if _, err := language.Parse(doc.Language); err != nil {
			return nil, exceptions.ErrDecode(err, "language")
		}
	}

	d := &decoder{
		state:     models.NewTreeState(),
		refs:      map[string]models.ValueSetRef{},
		generated: map[string]*models.ValueSet{},
	}
	d.state.Metadata = metadataFromWire(doc)

	if err := d.contained(doc.Contained); err != nil {
		return nil, err
	}

	order, err := d.items(doc.Item, "")
	if err != nil {
		return nil, err
	}
	d.state.Order = order
	return d.state, nil
}

func metadataFromWire(doc *fhir_dto.Questionnaire) models.Metadata {
	metadata := models.Metadata{
		ID:          doc.ID,
		URL:         doc.Url,
		Name:        doc.Name,
		Title:       doc.Title,
		Description: doc.Description,
		Publisher:   doc.Publisher,
		Status:      doc.Status,
		Language:    doc.Language,
		Version:     doc.Version,
		Date:        doc.Date,
		Purpose:     doc.Purpose,
		Copyright:   doc.Copyright,
	}
	if len(doc.SubjectType) > 0 {
		metadata.SubjectType = append([]string(nil), doc.SubjectType...)
	}
	if doc.Meta != nil {
		if len(doc.Meta.Profile) > 0 {
			metadata.Profiles = append([]string(nil), doc.Meta.Profile...)
		}
		for _, tag := range doc.Meta.Tag {
			metadata.Tags = append(metadata.Tags, codingFromWire(tag))
		}
	}
	return metadata
}

func (d *decoder) contained(resources []json.RawMessage) error {
	for i, raw := range resources {
		path := indexPath("", "contained", i)
		if !gjson.ValidBytes(raw) {
			return exceptions.ErrDecode(errors.New("malformed resource"), path)
		}

		id := gjson.GetBytes(raw, "id").String()
		if id != "" {
			if _, taken := d.refs[id]; taken {
				return exceptions.ErrDecode(fmt.Errorf("contained id %q used twice", id), joinPath(path, "id"))
			}
			if _, taken := d.generated[id]; taken {
				return exceptions.ErrDecode(fmt.Errorf("contained id %q used twice", id), joinPath(path, "id"))
			}
		}

		if gjson.GetBytes(raw, "resourceType").String() != constvars.ResourceValueSet {
			var compacted bytes.Buffer
			if err := json.Compact(&compacted, raw); err != nil {
				return exceptions.ErrDecode(err, path)
			}
			d.state.OtherContained = append(d.state.OtherContained, models.RawResource(compacted.Bytes()))
			if id != "" {
				// Reserve the id; items cannot point at non-ValueSet resources.
				d.refs[id] = models.ValueSetRef{}
			}
			continue
		}

		var wire fhir_dto.ValueSet
		if err := json.Unmarshal(raw, &wire); err != nil {
			return exceptions.ErrDecode(err, path)
		}
		vs, err := valueSetFromWire(wire, path)
		if err != nil {
			return err
		}

		switch tagCode(wire.Meta, constvars.ValueSetOriginTagSystem) {
		case constvars.ValueSetOriginTagItemOptions:
			d.generated[vs.Ref.ID] = vs
		case constvars.ValueSetOriginTagLibrary:
			libraryID := vs.Ref.ID
			if renamed := tagCode(wire.Meta, constvars.ValueSetLibraryIDTagSystem); renamed != "" {
				libraryID = renamed
			}
			vs.Ref = models.LibraryRef(libraryID)
			if _, held := d.state.ValueSet(vs.Ref); held {
				return exceptions.ErrDecode(fmt.Errorf("library value set %q contained twice", libraryID), joinPath(path, "meta"))
			}
			d.refs[wire.ID] = vs.Ref
			d.state.ValueSets = append(d.state.ValueSets, vs)
		default:
			d.refs[vs.Ref.ID] = vs.Ref
			d.state.ValueSets = append(d.state.ValueSets, vs)
		}
	}
	return nil
}

func tagCode(meta *fhir_dto.Meta, system string) string {
	if meta == nil {
		return ""
	}
	for _, tag := range meta.Tag {
		if tag.System == system {
			return tag.Code
		}
	}
	return ""
}

func valueSetFromWire(wire fhir_dto.ValueSet, path string) (*models.ValueSet, error) {
	if err := validate(wire, path); err != nil {
		return nil, err
	}

	vs := &models.ValueSet{
		Ref:       models.ContainedRef(wire.ID),
		URL:       wire.Url,
		Version:   wire.Version,
		Name:      wire.Name,
		Title:     wire.Title,
		Status:    wire.Status,
		Date:      wire.Date,
		Publisher: wire.Publisher,
	}
	if wire.Compose == nil {
		return vs, nil
	}
	for i, include := range wire.Compose.Include {
		includePath := indexPath(joinPath(path, "compose"), "include", i)
		converted := models.ValueSetInclude{System: include.System}
		for j, concept := range include.Concept {
			if err := validate(concept, indexPath(includePath, "concept", j)); err != nil {
				return nil, err
			}
			converted.Concepts = append(converted.Concepts, models.Concept{Code: concept.Code, Display: concept.Display})
		}
		vs.Includes = append(vs.Includes, converted)
	}
	return vs, nil
}

func (d *decoder) items(items []fhir_dto.QuestionnaireItem, parentPath string) ([]models.OrderItem, error) {
	var order []models.OrderItem
	for i := range items {
		path := indexPath(parentPath, "item", i)
		node, err := d.item(&items[i], path)
		if err != nil {
			return nil, err
		}
		order = append(order, node)
	}
	return order, nil
}

func (d *decoder) item(wire *fhir_dto.QuestionnaireItem, path string) (models.OrderItem, error) {
	if err := validate(wire, path); err != nil {
		return models.OrderItem{}, err
	}
	if _, taken := d.state.Items[wire.LinkID]; taken {
		return models.OrderItem{}, exceptions.ErrDecode(fmt.Errorf("linkId %q used twice", wire.LinkID), joinPath(path, "linkId"))
	}

	itemType, ok := models.ParseItemType(wire.Type)
	if !ok {
		return models.OrderItem{}, exceptions.ErrDecode(fmt.Errorf("unknown type %q", wire.Type), joinPath(path, "type"))
	}
	if !itemType.CanHaveChildren() && len(wire.Item) > 0 {
		return models.OrderItem{}, exceptions.ErrDecode(errors.New("display items cannot have children"), joinPath(path, "item"))
	}

	item := &models.Item{
		LinkID:         wire.LinkID,
		Type:           itemType,
		Text:           wire.Text,
		Prefix:         wire.Prefix,
		Definition:     wire.Definition,
		Required:       wire.Required,
		Repeats:        wire.Repeats,
		ReadOnly:       wire.ReadOnly,
		EnableBehavior: models.EnableBehavior(wire.EnableBehavior),
		Answer:         models.NewAnswer(itemType),
	}

	var unit *models.Coding
	for i, ext := range wire.Extension {
		if err := validate(ext, indexPath(path, "extension", i)); err != nil {
			return models.OrderItem{}, err
		}
		converted := ExtensionFromWire(ext)
		if itemType == models.ItemTypeQuantity && converted.URL == constvars.FhirExtensionQuestionnaireUnit && converted.ValueCoding != nil {
			unit = converted.ValueCoding
			continue
		}
		item.Extensions = append(item.Extensions, converted)
	}

	for i, rule := range wire.EnableWhen {
		rulePath := indexPath(path, "enableWhen", i)
		if err := validate(rule, rulePath); err != nil {
			return models.OrderItem{}, err
		}
		converted, err := EnableWhenFromWire(rule)
		if err != nil {
			return models.OrderItem{}, exceptions.ErrDecode(err, rulePath)
		}
		item.EnableWhen = append(item.EnableWhen, converted)
	}

	if err := d.answer(item, wire, unit, path); err != nil {
		return models.OrderItem{}, err
	}
	d.state.Items[item.LinkID] = item

	children, err := d.items(wire.Item, path)
	if err != nil {
		return models.OrderItem{}, err
	}
	return models.OrderItem{LinkID: item.LinkID, Items: children}, nil
}

func (d *decoder) answer(item *models.Item, wire *fhir_dto.QuestionnaireItem, unit *models.Coding, path string) error {
	if wire.MaxLength != nil && !item.Type.IsTextual() {
		return exceptions.ErrDecode(fmt.Errorf("maxLength is not allowed on %s items", item.Type), joinPath(path, "maxLength"))
	}
	if !item.Type.IsChoice() {
		if len(wire.AnswerOption) > 0 {
			return exceptions.ErrDecode(fmt.Errorf("answerOption is not allowed on %s items", item.Type), joinPath(path, "answerOption"))
		}
		if wire.AnswerValueSet != "" {
			return exceptions.ErrDecode(fmt.Errorf("answerValueSet is not allowed on %s items", item.Type), joinPath(path, "answerValueSet"))
		}
	}

	var initials []models.Value
	for i, initial := range wire.Initial {
		initialPath := indexPath(path, "initial", i)
		value, err := InitialFromWire(initial)
		if err != nil {
			return exceptions.ErrDecode(err, initialPath)
		}
		if !item.Type.AcceptsInitial(value.Kind()) {
			return exceptions.ErrDecode(fmt.Errorf("value%s is not allowed on %s items", value.Kind(), item.Type), initialPath)
		}
		initials = append(initials, value)
	}

	switch answer := item.Answer.(type) {
	case *models.TextAnswer:
		if wire.MaxLength != nil {
			answer.MaxLength = *wire.MaxLength
		}
		answer.Initial = initials
	case *models.QuantityAnswer:
		answer.Unit = unit
		answer.Initial = initials
	case *models.ScalarAnswer:
		answer.Initial = initials
	case *models.ChoiceAnswer:
		answer.Initial = initials
		return d.choice(answer, wire, path)
	}
	return nil
}

func (d *decoder) choice(answer *models.ChoiceAnswer, wire *fhir_dto.QuestionnaireItem, path string) error {
	if len(wire.AnswerOption) > 0 && wire.AnswerValueSet != "" {
		return exceptions.ErrDecode(errors.New("answerOption and answerValueSet are exclusive"), joinPath(path, "answerValueSet"))
	}

	codes := map[string]bool{}
	for i, option := range wire.AnswerOption {
		optionPath := indexPath(path, "answerOption", i)
		if option.ValueCoding == nil {
			return exceptions.ErrDecode(errors.New("only valueCoding options are supported"), optionPath)
		}
		if option.ValueCoding.Code == "" {
			return exceptions.ErrDecode(errors.New("option code is empty"), joinPath(optionPath, "valueCoding.code"))
		}
		if codes[option.ValueCoding.Code] {
			return exceptions.ErrDecode(fmt.Errorf("option code %q used twice", option.ValueCoding.Code), joinPath(optionPath, "valueCoding.code"))
		}
		codes[option.ValueCoding.Code] = true
		answer.Options = append(answer.Options, models.AnswerOption{
			Code:    option.ValueCoding.Code,
			Display: option.ValueCoding.Display,
			System:  option.ValueCoding.System,
			Version: option.ValueCoding.Version,
		})
	}

	if wire.AnswerValueSet == "" {
		return nil
	}
	id, local := strings.CutPrefix(wire.AnswerValueSet, constvars.FhirContainedReferencePrefix)
	if !local {
		answer.ValueSet = models.ExternalRef(wire.AnswerValueSet)
		return nil
	}
	if id == "" {
		return exceptions.ErrDecode(errors.New("empty contained reference"), joinPath(path, "answerValueSet"))
	}
	if vs, ok := d.generated[id]; ok {
		answer.Options = vs.Options()
		return nil
	}
	ref, ok := d.refs[id]
	if !ok {
		// Dangling; the validator reports it.
		answer.ValueSet = models.ContainedRef(id)
		return nil
	}
	if ref.IsZero() {
		return exceptions.ErrDecode(fmt.Errorf("contained resource %q is not a ValueSet", id), joinPath(path, "answerValueSet"))
	}
	answer.ValueSet = ref
	return nil
}

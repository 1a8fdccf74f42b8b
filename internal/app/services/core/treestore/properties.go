package treestore

import (
	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/pkg/constvars"
	"questionnaire-builder/internal/pkg/exceptions"
)

// propertySetter writes value into a cloned item. It only runs for
// properties the item type carries.
type propertySetter func(item *models.Item, value any) error

var propertySetters = map[models.ItemProperty]propertySetter{
	models.PropertyText:           setText,
	models.PropertyPrefix:         setPrefix,
	models.PropertyDefinition:     setDefinition,
	models.PropertyRequired:       setRequired,
	models.PropertyRepeats:        setRepeats,
	models.PropertyReadOnly:       setReadOnly,
	models.PropertyType:           setType,
	models.PropertyEnableWhen:     setEnableWhen,
	models.PropertyEnableBehavior: setEnableBehavior,
	models.PropertyExtension:      setExtensions,
	models.PropertyMaxLength:      setMaxLength,
	models.PropertyAnswerOption:   setAnswerOptions,
	models.PropertyAnswerValueSet: setAnswerValueSet,
	models.PropertyInitial:        setInitial,
	models.PropertyUnit:           setUnit,
}

func updateItem(state *models.TreeState, req UpdateItem) (*models.TreeState, error) {
	current, ok := state.Item(req.LinkID)
	if !ok {
		return nil, exceptions.ErrNotFound("item", req.LinkID)
	}
	setter, ok := propertySetters[req.Property]
	if !ok || !req.Property.AppliesTo(current.Type) {
		return nil, exceptions.ErrPropertyNotCarried(req.LinkID, string(req.Property), string(current.Type))
	}

	item := current.Clone()
	if err := setter(item, req.Value); err != nil {
		return nil, err
	}
	if item.Type == models.ItemTypeDisplay && current.Type != models.ItemTypeDisplay {
		node, _, _ := state.Find(req.LinkID)
		if len(node.Items) > 0 {
			return nil, exceptions.ErrDisplayWithChildren(req.LinkID)
		}
	}

	next := state.Copy()
	next.Items = cloneItems(state.Items)
	next.Items[req.LinkID] = item
	next.ValueSets = collectValueSets(state, next)
	return next, nil
}

func wrongValue(item *models.Item, property models.ItemProperty, expected string, value any) error {
	return exceptions.ErrPropertyWrongValue(item.LinkID, string(property), expected, value)
}

func notCarried(item *models.Item, property models.ItemProperty) error {
	return exceptions.ErrPropertyNotCarried(item.LinkID, string(property), string(item.Type))
}

func setText(item *models.Item, value any) error {
	text, ok := value.(string)
	if !ok {
		return wrongValue(item, models.PropertyText, "string", value)
	}
	item.Text = text
	return nil
}

func setPrefix(item *models.Item, value any) error {
	prefix, ok := value.(string)
	if !ok {
		return wrongValue(item, models.PropertyPrefix, "string", value)
	}
	item.Prefix = prefix
	return nil
}

func setDefinition(item *models.Item, value any) error {
	definition, ok := value.(string)
	if !ok {
		return wrongValue(item, models.PropertyDefinition, "string", value)
	}
	item.Definition = definition
	return nil
}

func setRequired(item *models.Item, value any) error {
	required, ok := value.(bool)
	if !ok {
		return wrongValue(item, models.PropertyRequired, "bool", value)
	}
	item.Required = required
	return nil
}

func setRepeats(item *models.Item, value any) error {
	repeats, ok := value.(bool)
	if !ok {
		return wrongValue(item, models.PropertyRepeats, "bool", value)
	}
	item.Repeats = repeats
	return nil
}

func setReadOnly(item *models.Item, value any) error {
	readOnly, ok := value.(bool)
	if !ok {
		return wrongValue(item, models.PropertyReadOnly, "bool", value)
	}
	item.ReadOnly = readOnly
	return nil
}

// setType reshapes the answer union. Display items drop required and repeats
// since they carry neither. The unit travels between the quantity answer and
// the extension list so the item reads the same way it is exported.
func setType(item *models.Item, value any) error {
	var itemType models.ItemType
	switch v := value.(type) {
	case models.ItemType:
		itemType = v
	case string:
		itemType = models.ItemType(v)
	default:
		return wrongValue(item, models.PropertyType, "models.ItemType", value)
	}
	if _, ok := models.ParseItemType(string(itemType)); !ok {
		return wrongValue(item, models.PropertyType, "a known item type", value)
	}

	var leaving *models.Coding
	if quantity, ok := item.Quantity(); ok && itemType != models.ItemTypeQuantity {
		leaving = quantity.Unit
	}

	item.Answer = models.ReshapeAnswer(item.Answer, itemType)
	item.Type = itemType
	if quantity, ok := item.Quantity(); ok {
		item.Extensions = liftUnit(quantity, item.Extensions)
	} else if leaving != nil {
		unit := *leaving
		item.Extensions = append(item.Extensions, models.Extension{URL: constvars.FhirExtensionQuestionnaireUnit, ValueCoding: &unit})
	}
	if itemType == models.ItemTypeDisplay {
		item.Required = false
		item.Repeats = false
	}
	return nil
}

func setEnableWhen(item *models.Item, value any) error {
	rules, ok := value.([]models.EnableWhen)
	if !ok {
		return wrongValue(item, models.PropertyEnableWhen, "[]models.EnableWhen", value)
	}
	for _, rule := range rules {
		if rule.Question == "" || !rule.Operator.Valid() || rule.Answer == nil || !rule.Answer.Kind().IsEnableWhenAnswer() {
			return wrongValue(item, models.PropertyEnableWhen, "a rule with question, operator and answer", rule)
		}
		if rule.Operator == models.OperatorExists && rule.Answer.Kind() != models.ValueKindBoolean {
			return wrongValue(item, models.PropertyEnableWhen, "a boolean answer for exists", rule.Answer)
		}
	}
	if len(rules) == 0 {
		rules = nil
	}
	item.EnableWhen = append([]models.EnableWhen(nil), rules...)
	return nil
}

func setEnableBehavior(item *models.Item, value any) error {
	var behavior models.EnableBehavior
	switch v := value.(type) {
	case models.EnableBehavior:
		behavior = v
	case string:
		behavior = models.EnableBehavior(v)
	default:
		return wrongValue(item, models.PropertyEnableBehavior, "models.EnableBehavior", value)
	}
	if !behavior.Valid() {
		return wrongValue(item, models.PropertyEnableBehavior, "all or any", value)
	}
	item.EnableBehavior = behavior
	return nil
}

// setExtensions replaces the extension list. On quantity items the unit
// extension is lifted into the unit attribute.
func setExtensions(item *models.Item, value any) error {
	extensions, ok := value.([]models.Extension)
	if !ok {
		return wrongValue(item, models.PropertyExtension, "[]models.Extension", value)
	}

	for _, ext := range extensions {
		if ext.URL == "" {
			return wrongValue(item, models.PropertyExtension, "an extension with url", ext)
		}
	}
	if quantity, ok := item.Quantity(); ok {
		item.Extensions = liftUnit(quantity, extensions)
		return nil
	}
	if len(extensions) == 0 {
		extensions = nil
	}
	item.Extensions = append([]models.Extension(nil), extensions...)
	return nil
}

// liftUnit moves unit extensions into the quantity answer and returns the
// rest. The last unit wins, as on import.
func liftUnit(quantity *models.QuantityAnswer, extensions []models.Extension) []models.Extension {
	var kept []models.Extension
	for _, ext := range extensions {
		if ext.URL == constvars.FhirExtensionQuestionnaireUnit && ext.ValueCoding != nil {
			unit := *ext.ValueCoding
			quantity.Unit = &unit
			continue
		}
		kept = append(kept, ext)
	}
	return kept
}

func setMaxLength(item *models.Item, value any) error {
	maxLength, ok := value.(int)
	if !ok || maxLength < 0 {
		return wrongValue(item, models.PropertyMaxLength, "non-negative int", value)
	}
	text, ok := item.Answer.(*models.TextAnswer)
	if !ok {
		return notCarried(item, models.PropertyMaxLength)
	}
	text.MaxLength = maxLength
	return nil
}

// setAnswerOptions replaces the inline options and drops any value set
// reference; the two are mutually exclusive.
func setAnswerOptions(item *models.Item, value any) error {
	options, ok := value.([]models.AnswerOption)
	if !ok {
		return wrongValue(item, models.PropertyAnswerOption, "[]models.AnswerOption", value)
	}
	seen := map[string]bool{}
	for _, option := range options {
		if option.Code == "" {
			return exceptions.ErrOptionCodeEmpty(item.LinkID)
		}
		if seen[option.Code] {
			return exceptions.ErrOptionCodeAlreadyUsed(item.LinkID, option.Code)
		}
		seen[option.Code] = true
	}

	choice, ok := item.Choice()
	if !ok {
		return notCarried(item, models.PropertyAnswerOption)
	}
	choice.Options = nil
	if len(options) > 0 {
		choice.Options = append([]models.AnswerOption(nil), options...)
		choice.ValueSet = models.ValueSetRef{}
	}
	return nil
}

func setAnswerValueSet(item *models.Item, value any) error {
	ref, ok := value.(models.ValueSetRef)
	if !ok {
		return wrongValue(item, models.PropertyAnswerValueSet, "models.ValueSetRef", value)
	}
	choice, ok := item.Choice()
	if !ok {
		return notCarried(item, models.PropertyAnswerValueSet)
	}
	choice.ValueSet = ref
	if !ref.IsZero() {
		choice.Options = nil
	}
	return nil
}

func setInitial(item *models.Item, value any) error {
	values, ok := value.([]models.Value)
	if !ok {
		return wrongValue(item, models.PropertyInitial, "[]models.Value", value)
	}
	for _, v := range values {
		if v == nil {
			return wrongValue(item, models.PropertyInitial, "non-nil values", value)
		}
		if !item.Type.AcceptsInitial(v.Kind()) {
			return exceptions.ErrInitialKindNotAllowed(item.LinkID, string(v.Kind()), string(item.Type))
		}
	}
	if len(values) == 0 {
		values = nil
	}
	initial := append([]models.Value(nil), values...)

	switch answer := item.Answer.(type) {
	case *models.ScalarAnswer:
		answer.Initial = initial
	case *models.TextAnswer:
		answer.Initial = initial
	case *models.ChoiceAnswer:
		answer.Initial = initial
	case *models.QuantityAnswer:
		answer.Initial = initial
	default:
		return notCarried(item, models.PropertyInitial)
	}
	return nil
}

func setUnit(item *models.Item, value any) error {
	quantity, ok := item.Quantity()
	if !ok {
		return notCarried(item, models.PropertyUnit)
	}
	switch v := value.(type) {
	case nil:
		quantity.Unit = nil
	case *models.Coding:
		if v == nil {
			quantity.Unit = nil
			return nil
		}
		unit := *v
		quantity.Unit = &unit
	case models.Coding:
		unit := v
		quantity.Unit = &unit
	default:
		return wrongValue(item, models.PropertyUnit, "models.Coding", value)
	}
	return nil
}

package models

type ItemProperty string

const (
	PropertyText           ItemProperty = "text"
	PropertyPrefix         ItemProperty = "prefix"
	PropertyDefinition     ItemProperty = "definition"
	PropertyRequired       ItemProperty = "required"
	PropertyRepeats        ItemProperty = "repeats"
	PropertyReadOnly       ItemProperty = "readOnly"
	PropertyType           ItemProperty = "type"
	PropertyEnableWhen     ItemProperty = "enableWhen"
	PropertyEnableBehavior ItemProperty = "enableBehavior"
	PropertyExtension      ItemProperty = "extension"
	PropertyMaxLength      ItemProperty = "maxLength"
	PropertyAnswerOption   ItemProperty = "answerOption"
	PropertyAnswerValueSet ItemProperty = "answerValueSet"
	PropertyInitial        ItemProperty = "initial"
	PropertyUnit           ItemProperty = "unit"
)

var ItemProperties = []ItemProperty{
	PropertyText,
	PropertyPrefix,
	PropertyDefinition,
	PropertyRequired,
	PropertyRepeats,
	PropertyReadOnly,
	PropertyType,
	PropertyEnableWhen,
	PropertyEnableBehavior,
	PropertyExtension,
	PropertyMaxLength,
	PropertyAnswerOption,
	PropertyAnswerValueSet,
	PropertyInitial,
	PropertyUnit,
}

// AppliesTo reports whether items of type t carry the property.
func (p ItemProperty) AppliesTo(t ItemType) bool {
	switch p {
	case PropertyText, PropertyPrefix, PropertyDefinition, PropertyType,
		PropertyEnableWhen, PropertyEnableBehavior, PropertyExtension, PropertyReadOnly:
		return true
	case PropertyRequired, PropertyRepeats:
		return t != ItemTypeDisplay
	case PropertyMaxLength:
		return t.IsTextual()
	case PropertyAnswerOption, PropertyAnswerValueSet:
		return t.IsChoice()
	case PropertyInitial:
		return len(t.InitialKinds()) > 0
	case PropertyUnit:
		return t == ItemTypeQuantity
	default:
		return false
	}
}

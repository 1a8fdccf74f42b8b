package models

type ItemType string

const (
	ItemTypeGroup      ItemType = "group"
	ItemTypeDisplay    ItemType = "display"
	ItemTypeBoolean    ItemType = "boolean"
	ItemTypeDecimal    ItemType = "decimal"
	ItemTypeInteger    ItemType = "integer"
	ItemTypeDate       ItemType = "date"
	ItemTypeDateTime   ItemType = "dateTime"
	ItemTypeTime       ItemType = "time"
	ItemTypeString     ItemType = "string"
	ItemTypeText       ItemType = "text"
	ItemTypeURL        ItemType = "url"
	ItemTypeChoice     ItemType = "choice"
	ItemTypeOpenChoice ItemType = "open-choice"
	ItemTypeAttachment ItemType = "attachment"
	ItemTypeReference  ItemType = "reference"
	ItemTypeQuantity   ItemType = "quantity"
)

var ItemTypes = []ItemType{
	ItemTypeGroup,
	ItemTypeDisplay,
	ItemTypeBoolean,
	ItemTypeDecimal,
	ItemTypeInteger,
	ItemTypeDate,
	ItemTypeDateTime,
	ItemTypeTime,
	ItemTypeString,
	ItemTypeText,
	ItemTypeURL,
	ItemTypeChoice,
	ItemTypeOpenChoice,
	ItemTypeAttachment,
	ItemTypeReference,
	ItemTypeQuantity,
}

func ParseItemType(s string) (ItemType, bool) {
	for _, t := range ItemTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

func (t ItemType) IsChoice() bool {
	return t == ItemTypeChoice || t == ItemTypeOpenChoice
}

func (t ItemType) IsTextual() bool {
	return t == ItemTypeString || t == ItemTypeText || t == ItemTypeURL
}

func (t ItemType) CanHaveChildren() bool {
	return t != ItemTypeDisplay
}

// InitialKinds lists the value kinds an item of this type accepts as initial
// answers.
func (t ItemType) InitialKinds() []ValueKind {
	switch t {
	case ItemTypeBoolean:
		return []ValueKind{ValueKindBoolean}
	case ItemTypeDecimal:
		return []ValueKind{ValueKindDecimal}
	case ItemTypeInteger:
		return []ValueKind{ValueKindInteger}
	case ItemTypeDate:
		return []ValueKind{ValueKindDate}
	case ItemTypeDateTime:
		return []ValueKind{ValueKindDateTime}
	case ItemTypeTime:
		return []ValueKind{ValueKindTime}
	case ItemTypeString, ItemTypeText:
		return []ValueKind{ValueKindString}
	case ItemTypeURL:
		return []ValueKind{ValueKindURI}
	case ItemTypeChoice:
		return []ValueKind{ValueKindCoding}
	case ItemTypeOpenChoice:
		return []ValueKind{ValueKindCoding, ValueKindString}
	case ItemTypeAttachment:
		return []ValueKind{ValueKindAttachment}
	case ItemTypeReference:
		return []ValueKind{ValueKindReference}
	case ItemTypeQuantity:
		return []ValueKind{ValueKindQuantity}
	default:
		return nil
	}
}

func (t ItemType) AcceptsInitial(kind ValueKind) bool {
	for _, k := range t.InitialKinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// AnswerKind is the kind an enableWhen rule targeting an item of this type
// is expected to compare against. Empty when the type takes no answer.
func (t ItemType) AnswerKind() ValueKind {
	switch t {
	case ItemTypeBoolean:
		return ValueKindBoolean
	case ItemTypeDecimal:
		return ValueKindDecimal
	case ItemTypeInteger:
		return ValueKindInteger
	case ItemTypeDate:
		return ValueKindDate
	case ItemTypeDateTime:
		return ValueKindDateTime
	case ItemTypeTime:
		return ValueKindTime
	case ItemTypeString, ItemTypeText, ItemTypeURL:
		return ValueKindString
	case ItemTypeChoice, ItemTypeOpenChoice:
		return ValueKindCoding
	case ItemTypeReference:
		return ValueKindReference
	case ItemTypeQuantity:
		return ValueKindQuantity
	default:
		return ""
	}
}

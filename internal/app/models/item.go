package models

import "questionnaire-builder/internal/pkg/constvars"

type EnableWhenOperator string

const (
	OperatorExists         EnableWhenOperator = "exists"
	OperatorEqual          EnableWhenOperator = "="
	OperatorNotEqual       EnableWhenOperator = "!="
	OperatorGreater        EnableWhenOperator = ">"
	OperatorLess           EnableWhenOperator = "<"
	OperatorGreaterOrEqual EnableWhenOperator = ">="
	OperatorLessOrEqual    EnableWhenOperator = "<="
)

func (o EnableWhenOperator) Valid() bool {
	switch o {
	case OperatorExists, OperatorEqual, OperatorNotEqual, OperatorGreater, OperatorLess, OperatorGreaterOrEqual, OperatorLessOrEqual:
		return true
	}
	return false
}

type EnableBehavior string

const (
	EnableBehaviorUnset EnableBehavior = ""
	EnableBehaviorAll   EnableBehavior = "all"
	EnableBehaviorAny   EnableBehavior = "any"
)

func (b EnableBehavior) Valid() bool {
	return b == EnableBehaviorUnset || b == EnableBehaviorAll || b == EnableBehaviorAny
}

// EnableWhen is a display condition. Answer is never nil; an exists rule
// compares against a BooleanValue.
type EnableWhen struct {
	Question string
	Operator EnableWhenOperator
	Answer   Value
}

// Extension is a url plus a single typed value.
type Extension struct {
	URL                  string
	ValueBoolean         *bool
	ValueString          string
	ValueCode            string
	ValueMarkdown        string
	ValueInteger         *int
	ValueCoding          *Coding
	ValueCodeableConcept *CodeableConcept
	ValueReference       *Reference
}

func (e Extension) clone() Extension {
	cloned := e
	if e.ValueBoolean != nil {
		v := *e.ValueBoolean
		cloned.ValueBoolean = &v
	}
	if e.ValueInteger != nil {
		v := *e.ValueInteger
		cloned.ValueInteger = &v
	}
	if e.ValueCoding != nil {
		v := *e.ValueCoding
		cloned.ValueCoding = &v
	}
	if e.ValueCodeableConcept != nil {
		v := CodeableConcept{Text: e.ValueCodeableConcept.Text}
		if len(e.ValueCodeableConcept.Coding) > 0 {
			v.Coding = append([]Coding(nil), e.ValueCodeableConcept.Coding...)
		}
		cloned.ValueCodeableConcept = &v
	}
	if e.ValueReference != nil {
		v := *e.ValueReference
		cloned.ValueReference = &v
	}
	return cloned
}

type Item struct {
	LinkID         string
	Type           ItemType
	Text           string
	Prefix         string
	Definition     string
	Required       bool
	Repeats        bool
	ReadOnly       bool
	EnableWhen     []EnableWhen
	EnableBehavior EnableBehavior
	Extensions     []Extension
	Answer         Answer
}

func NewItem(linkID string, itemType ItemType) *Item {
	return &Item{
		LinkID: linkID,
		Type:   itemType,
		Answer: NewAnswer(itemType),
	}
}

// Clone returns a deep copy. Items held by a TreeState are never modified in
// place; edits go through a clone.
func (it *Item) Clone() *Item {
	cloned := *it
	// Rule answers are plain values, so copying the slice is enough.
	if len(it.EnableWhen) > 0 {
		cloned.EnableWhen = append([]EnableWhen(nil), it.EnableWhen...)
	}
	if len(it.Extensions) > 0 {
		cloned.Extensions = make([]Extension, len(it.Extensions))
		for i, ext := range it.Extensions {
			cloned.Extensions[i] = ext.clone()
		}
	}
	if it.Answer != nil {
		cloned.Answer = it.Answer.clone()
	}
	return &cloned
}

func (it *Item) Initials() []Value {
	if it.Answer == nil {
		return nil
	}
	return it.Answer.Initials()
}

func (it *Item) Choice() (*ChoiceAnswer, bool) {
	choice, ok := it.Answer.(*ChoiceAnswer)
	return choice, ok
}

func (it *Item) Quantity() (*QuantityAnswer, bool) {
	quantity, ok := it.Answer.(*QuantityAnswer)
	return quantity, ok
}

func (it *Item) Extension(url string) (Extension, bool) {
	for _, ext := range it.Extensions {
		if ext.URL == url {
			return ext, true
		}
	}
	return Extension{}, false
}

func (it *Item) IsHidden() bool {
	ext, ok := it.Extension(constvars.FhirExtensionQuestionnaireHidden)
	return ok && ext.ValueBoolean != nil && *ext.ValueBoolean
}

// ItemControl returns the questionnaire-itemControl code, if any.
func (it *Item) ItemControl() string {
	ext, ok := it.Extension(constvars.FhirExtensionQuestionnaireItemControl)
	if !ok || ext.ValueCodeableConcept == nil {
		return ""
	}
	for _, coding := range ext.ValueCodeableConcept.Coding {
		if coding.System == constvars.FhirItemControlSystem {
			return coding.Code
		}
	}
	return ""
}

// IsRecipientList reports whether a choice item lists its answers as
// references held in extensions instead of options.
func (it *Item) IsRecipientList() bool {
	return it.Type.IsChoice() && it.ItemControl() == constvars.FhirItemControlReceiverComponent
}

// ValueSetRef returns the value set the item draws its answers from.
func (it *Item) ValueSetRef() (ValueSetRef, bool) {
	choice, ok := it.Choice()
	if !ok || choice.ValueSet.IsZero() {
		return ValueSetRef{}, false
	}
	return choice.ValueSet, true
}

package models

// Answer is the set of answer attributes an item carries. The concrete
// variant is fixed by the item type, see NewAnswer.
type Answer interface {
	Initials() []Value
	clone() Answer
}

// NoAnswer is carried by group and display items.
type NoAnswer struct{}

// ScalarAnswer is carried by boolean, decimal, integer, date, dateTime, time,
// attachment and reference items.
type ScalarAnswer struct {
	Initial []Value
}

// TextAnswer is carried by string, text and url items.
type TextAnswer struct {
	MaxLength int
	Initial   []Value
}

// ChoiceAnswer is carried by choice and open-choice items. Options and
// ValueSet are mutually exclusive once edited through the engine.
type ChoiceAnswer struct {
	Options  []AnswerOption
	ValueSet ValueSetRef
	Initial  []Value
}

// QuantityAnswer is carried by quantity items.
type QuantityAnswer struct {
	Unit    *Coding
	Initial []Value
}

type AnswerOption struct {
	Code    string
	Display string
	System  string
	Version string
}

func (o AnswerOption) Coding() Coding {
	return Coding{System: o.System, Version: o.Version, Code: o.Code, Display: o.Display}
}

func (*NoAnswer) Initials() []Value         { return nil }
func (a *ScalarAnswer) Initials() []Value   { return a.Initial }
func (a *TextAnswer) Initials() []Value     { return a.Initial }
func (a *ChoiceAnswer) Initials() []Value   { return a.Initial }
func (a *QuantityAnswer) Initials() []Value { return a.Initial }

func (*NoAnswer) clone() Answer { return &NoAnswer{} }

func (a *ScalarAnswer) clone() Answer {
	return &ScalarAnswer{Initial: cloneValues(a.Initial)}
}

func (a *TextAnswer) clone() Answer {
	return &TextAnswer{MaxLength: a.MaxLength, Initial: cloneValues(a.Initial)}
}

func (a *ChoiceAnswer) clone() Answer {
	var options []AnswerOption
	if len(a.Options) > 0 {
		options = make([]AnswerOption, len(a.Options))
		copy(options, a.Options)
	}
	return &ChoiceAnswer{Options: options, ValueSet: a.ValueSet, Initial: cloneValues(a.Initial)}
}

func (a *QuantityAnswer) clone() Answer {
	cloned := &QuantityAnswer{Initial: cloneValues(a.Initial)}
	if a.Unit != nil {
		unit := *a.Unit
		cloned.Unit = &unit
	}
	return cloned
}

func NewAnswer(t ItemType) Answer {
	switch t {
	case ItemTypeGroup, ItemTypeDisplay:
		return &NoAnswer{}
	case ItemTypeString, ItemTypeText, ItemTypeURL:
		return &TextAnswer{}
	case ItemTypeChoice, ItemTypeOpenChoice:
		return &ChoiceAnswer{}
	case ItemTypeQuantity:
		return &QuantityAnswer{}
	default:
		return &ScalarAnswer{}
	}
}

// ReshapeAnswer converts an answer to the variant of the target type, keeping
// whatever the two variants have in common. Initial values the new type does
// not accept are dropped.
func ReshapeAnswer(answer Answer, to ItemType) Answer {
	next := NewAnswer(to)
	if answer == nil {
		return next
	}

	switch dst := next.(type) {
	case *TextAnswer:
		if src, ok := answer.(*TextAnswer); ok {
			dst.MaxLength = src.MaxLength
		}
		dst.Initial = filterInitials(answer.Initials(), to)
	case *ChoiceAnswer:
		if src, ok := answer.(*ChoiceAnswer); ok {
			reshaped := src.clone().(*ChoiceAnswer)
			dst.Options = reshaped.Options
			dst.ValueSet = reshaped.ValueSet
		}
		dst.Initial = filterInitials(answer.Initials(), to)
	case *QuantityAnswer:
		if src, ok := answer.(*QuantityAnswer); ok {
			dst.Unit = src.clone().(*QuantityAnswer).Unit
		}
		dst.Initial = filterInitials(answer.Initials(), to)
	case *ScalarAnswer:
		dst.Initial = filterInitials(answer.Initials(), to)
	}
	return next
}

func filterInitials(values []Value, to ItemType) []Value {
	var kept []Value
	for _, v := range values {
		if to.AcceptsInitial(v.Kind()) {
			kept = append(kept, v)
		}
	}
	return kept
}

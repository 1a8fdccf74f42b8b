package mapper

import (
	"errors"
	"fmt"

	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/pkg/fhir_dto"
)

var (
	errNoValue        = errors.New("no value set")
	errMultipleValues = errors.New("more than one value set")
)

func codingFromWire(c fhir_dto.Coding) models.Coding {
	return models.Coding{System: c.System, Version: c.Version, Code: c.Code, Display: c.Display}
}

func codingToWire(c models.Coding) fhir_dto.Coding {
	return fhir_dto.Coding{System: c.System, Version: c.Version, Code: c.Code, Display: c.Display}
}

func quantityFromWire(q fhir_dto.Quantity) models.Quantity {
	quantity := models.Quantity{Comparator: q.Comparator, Unit: q.Unit, System: q.System, Code: q.Code}
	if q.Value != nil {
		quantity.Value = *q.Value
	}
	return quantity
}

func quantityToWire(q models.Quantity) *fhir_dto.Quantity {
	value := q.Value
	return &fhir_dto.Quantity{Value: &value, Comparator: q.Comparator, Unit: q.Unit, System: q.System, Code: q.Code}
}

func referenceFromWire(r fhir_dto.Reference) models.Reference {
	return models.Reference{Reference: r.Reference, Type: r.Type, Display: r.Display}
}

func referenceToWire(r models.Reference) *fhir_dto.Reference {
	return &fhir_dto.Reference{Reference: r.Reference, Type: r.Type, Display: r.Display}
}

func attachmentFromWire(a fhir_dto.Attachment) models.Attachment {
	return models.Attachment{ContentType: a.ContentType, Language: a.Language, Data: a.Data, URL: a.Url, Title: a.Title}
}

func attachmentToWire(a models.Attachment) *fhir_dto.Attachment {
	return &fhir_dto.Attachment{ContentType: a.ContentType, Language: a.Language, Data: a.Data, Url: a.URL, Title: a.Title}
}

// pick collects the non-nil candidates of a value[x] choice and insists on
// exactly one.
func pick(candidates ...models.Value) (models.Value, error) {
	var found models.Value
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		if found != nil {
			return nil, errMultipleValues
		}
		found = candidate
	}
	if found == nil {
		return nil, errNoValue
	}
	return found, nil
}

// EnableWhenFromWire converts a wire rule, checking the operator and that
// exactly one answer[x] is present.
func EnableWhenFromWire(rule fhir_dto.QuestionnaireItemEnableWhen) (models.EnableWhen, error) {
	operator := models.EnableWhenOperator(rule.Operator)
	if !operator.Valid() {
		return models.EnableWhen{}, fmt.Errorf("unknown operator %q", rule.Operator)
	}

	var candidates []models.Value
	if rule.AnswerBoolean != nil {
		candidates = append(candidates, models.BooleanValue(*rule.AnswerBoolean))
	}
	if rule.AnswerDecimal != nil {
		candidates = append(candidates, models.DecimalValue(*rule.AnswerDecimal))
	}
	if rule.AnswerInteger != nil {
		candidates = append(candidates, models.IntegerValue(*rule.AnswerInteger))
	}
	if rule.AnswerDate != nil {
		candidates = append(candidates, models.DateValue(*rule.AnswerDate))
	}
	if rule.AnswerDateTime != nil {
		candidates = append(candidates, models.DateTimeValue(*rule.AnswerDateTime))
	}
	if rule.AnswerTime != nil {
		candidates = append(candidates, models.TimeValue(*rule.AnswerTime))
	}
	if rule.AnswerString != nil {
		candidates = append(candidates, models.StringValue(*rule.AnswerString))
	}
	if rule.AnswerCoding != nil {
		candidates = append(candidates, codingFromWire(*rule.AnswerCoding))
	}
	if rule.AnswerQuantity != nil {
		candidates = append(candidates, quantityFromWire(*rule.AnswerQuantity))
	}
	if rule.AnswerReference != nil {
		candidates = append(candidates, referenceFromWire(*rule.AnswerReference))
	}

	answer, err := pick(candidates...)
	if err != nil {
		return models.EnableWhen{}, fmt.Errorf("answer[x]: %w", err)
	}
	if operator == models.OperatorExists && answer.Kind() != models.ValueKindBoolean {
		return models.EnableWhen{}, errors.New("exists needs answerBoolean")
	}
	return models.EnableWhen{Question: rule.Question, Operator: operator, Answer: answer}, nil
}

func enableWhenToWire(rule models.EnableWhen) (fhir_dto.QuestionnaireItemEnableWhen, error) {
	wire := fhir_dto.QuestionnaireItemEnableWhen{Question: rule.Question, Operator: string(rule.Operator)}
	switch answer := rule.Answer.(type) {
	case models.BooleanValue:
		v := bool(answer)
		wire.AnswerBoolean = &v
	case models.DecimalValue:
		v := float64(answer)
		wire.AnswerDecimal = &v
	case models.IntegerValue:
		v := int(answer)
		wire.AnswerInteger = &v
	case models.DateValue:
		v := string(answer)
		wire.AnswerDate = &v
	case models.DateTimeValue:
		v := string(answer)
		wire.AnswerDateTime = &v
	case models.TimeValue:
		v := string(answer)
		wire.AnswerTime = &v
	case models.StringValue:
		v := string(answer)
		wire.AnswerString = &v
	case models.Coding:
		v := codingToWire(answer)
		wire.AnswerCoding = &v
	case models.Quantity:
		wire.AnswerQuantity = quantityToWire(answer)
	case models.Reference:
		wire.AnswerReference = referenceToWire(answer)
	default:
		return wire, fmt.Errorf("enableWhen on %s cannot carry %T", rule.Question, rule.Answer)
	}
	return wire, nil
}

// InitialFromWire converts one initial entry, insisting on exactly one
// value[x].
func InitialFromWire(initial fhir_dto.QuestionnaireItemInitial) (models.Value, error) {
	var candidates []models.Value
	if initial.ValueBoolean != nil {
		candidates = append(candidates, models.BooleanValue(*initial.ValueBoolean))
	}
	if initial.ValueDecimal != nil {
		candidates = append(candidates, models.DecimalValue(*initial.ValueDecimal))
	}
	if initial.ValueInteger != nil {
		candidates = append(candidates, models.IntegerValue(*initial.ValueInteger))
	}
	if initial.ValueDate != nil {
		candidates = append(candidates, models.DateValue(*initial.ValueDate))
	}
	if initial.ValueDateTime != nil {
		candidates = append(candidates, models.DateTimeValue(*initial.ValueDateTime))
	}
	if initial.ValueTime != nil {
		candidates = append(candidates, models.TimeValue(*initial.ValueTime))
	}
	if initial.ValueString != nil {
		candidates = append(candidates, models.StringValue(*initial.ValueString))
	}
	if initial.ValueUri != nil {
		candidates = append(candidates, models.URIValue(*initial.ValueUri))
	}
	if initial.ValueAttachment != nil {
		candidates = append(candidates, attachmentFromWire(*initial.ValueAttachment))
	}
	if initial.ValueCoding != nil {
		candidates = append(candidates, codingFromWire(*initial.ValueCoding))
	}
	if initial.ValueQuantity != nil {
		candidates = append(candidates, quantityFromWire(*initial.ValueQuantity))
	}
	if initial.ValueReference != nil {
		candidates = append(candidates, referenceFromWire(*initial.ValueReference))
	}

	value, err := pick(candidates...)
	if err != nil {
		return nil, fmt.Errorf("value[x]: %w", err)
	}
	return value, nil
}

func initialToWire(value models.Value) (fhir_dto.QuestionnaireItemInitial, error) {
	var wire fhir_dto.QuestionnaireItemInitial
	switch v := value.(type) {
	case models.BooleanValue:
		b := bool(v)
		wire.ValueBoolean = &b
	case models.DecimalValue:
		f := float64(v)
		wire.ValueDecimal = &f
	case models.IntegerValue:
		i := int(v)
		wire.ValueInteger = &i
	case models.DateValue:
		s := string(v)
		wire.ValueDate = &s
	case models.DateTimeValue:
		s := string(v)
		wire.ValueDateTime = &s
	case models.TimeValue:
		s := string(v)
		wire.ValueTime = &s
	case models.StringValue:
		s := string(v)
		wire.ValueString = &s
	case models.URIValue:
		s := string(v)
		wire.ValueUri = &s
	case models.Attachment:
		wire.ValueAttachment = attachmentToWire(v)
	case models.Coding:
		c := codingToWire(v)
		wire.ValueCoding = &c
	case models.Quantity:
		wire.ValueQuantity = quantityToWire(v)
	case models.Reference:
		wire.ValueReference = referenceToWire(v)
	default:
		return wire, fmt.Errorf("unsupported initial value %T", value)
	}
	return wire, nil
}

// ExtensionFromWire converts an extension; the first value[x] present wins.
func ExtensionFromWire(ext fhir_dto.Extension) models.Extension {
	converted := models.Extension{URL: ext.Url}
	if ext.ValueBoolean != nil {
		v := *ext.ValueBoolean
		converted.ValueBoolean = &v
	}
	if ext.ValueString != nil {
		converted.ValueString = *ext.ValueString
	}
	if ext.ValueCode != nil {
		converted.ValueCode = *ext.ValueCode
	}
	if ext.ValueMarkdown != nil {
		converted.ValueMarkdown = *ext.ValueMarkdown
	}
	if ext.ValueInteger != nil {
		v := *ext.ValueInteger
		converted.ValueInteger = &v
	}
	if ext.ValueCoding != nil {
		v := codingFromWire(*ext.ValueCoding)
		converted.ValueCoding = &v
	}
	if ext.ValueCodeableConcept != nil {
		concept := models.CodeableConcept{Text: ext.ValueCodeableConcept.Text}
		for _, coding := range ext.ValueCodeableConcept.Coding {
			concept.Coding = append(concept.Coding, codingFromWire(coding))
		}
		converted.ValueCodeableConcept = &concept
	}
	if ext.ValueReference != nil {
		v := referenceFromWire(*ext.ValueReference)
		converted.ValueReference = &v
	}
	return converted
}

func extensionToWire(ext models.Extension) fhir_dto.Extension {
	wire := fhir_dto.Extension{Url: ext.URL}
	if ext.ValueBoolean != nil {
		v := *ext.ValueBoolean
		wire.ValueBoolean = &v
	}
	if ext.ValueString != "" {
		v := ext.ValueString
		wire.ValueString = &v
	}
	if ext.ValueCode != "" {
		v := ext.ValueCode
		wire.ValueCode = &v
	}
	if ext.ValueMarkdown != "" {
		v := ext.ValueMarkdown
		wire.ValueMarkdown = &v
	}
	if ext.ValueInteger != nil {
		v := *ext.ValueInteger
		wire.ValueInteger = &v
	}
	if ext.ValueCoding != nil {
		v := codingToWire(*ext.ValueCoding)
		wire.ValueCoding = &v
	}
	if ext.ValueCodeableConcept != nil {
		concept := fhir_dto.CodeableConcept{Text: ext.ValueCodeableConcept.Text}
		for _, coding := range ext.ValueCodeableConcept.Coding {
			concept.Coding = append(concept.Coding, codingToWire(coding))
		}
		wire.ValueCodeableConcept = &concept
	}
	if ext.ValueReference != nil {
		wire.ValueReference = referenceToWire(*ext.ValueReference)
	}
	return wire
}

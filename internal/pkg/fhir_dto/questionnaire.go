package fhir_dto

import "github.com/goccy/go-json"

type Questionnaire struct {
	ResourceType string              `json:"resourceType" validate:"required,eq=Questionnaire"`
	ID           string              `json:"id,omitempty"`
	Meta         *Meta               `json:"meta,omitempty"`
	Language     string              `json:"language,omitempty"`
	Contained    []json.RawMessage   `json:"contained,omitempty"`
	Url          string              `json:"url,omitempty"`
	Version      string              `json:"version,omitempty"`
	Name         string              `json:"name,omitempty"`
	Title        string              `json:"title,omitempty"`
	Status       string              `json:"status" validate:"required,oneof=draft active retired unknown"`
	SubjectType  []string            `json:"subjectType,omitempty"`
	Date         string              `json:"date,omitempty"`
	Publisher    string              `json:"publisher,omitempty"`
	Description  string              `json:"description,omitempty"`
	Purpose      string              `json:"purpose,omitempty"`
	Copyright    string              `json:"copyright,omitempty"`
	Item         []QuestionnaireItem `json:"item,omitempty"`
}

type QuestionnaireItem struct {
	LinkID         string                          `json:"linkId" validate:"required"`
	Extension      []Extension                     `json:"extension,omitempty"`
	Definition     string                          `json:"definition,omitempty"`
	Prefix         string                          `json:"prefix,omitempty"`
	Text           string                          `json:"text,omitempty"`
	Type           string                          `json:"type" validate:"required,oneof=group display boolean decimal integer date dateTime time string text url choice open-choice attachment reference quantity"`
	EnableWhen     []QuestionnaireItemEnableWhen   `json:"enableWhen,omitempty"`
	EnableBehavior string                          `json:"enableBehavior,omitempty" validate:"omitempty,oneof=all any"`
	Required       bool                            `json:"required,omitempty"`
	Repeats        bool                            `json:"repeats,omitempty"`
	ReadOnly       bool                            `json:"readOnly,omitempty"`
	MaxLength      *int                            `json:"maxLength,omitempty" validate:"omitempty,gte=0"`
	AnswerValueSet string                          `json:"answerValueSet,omitempty"`
	AnswerOption   []QuestionnaireItemAnswerOption `json:"answerOption,omitempty"`
	Initial        []QuestionnaireItemInitial      `json:"initial,omitempty"`
	Item           []QuestionnaireItem             `json:"item,omitempty"`
}

// QuestionnaireItemEnableWhen holds answer[x]; a well formed rule sets exactly
// one of the Answer fields.
type QuestionnaireItemEnableWhen struct {
	Question        string     `json:"question" validate:"required"`
	Operator        string     `json:"operator" validate:"required"`
	AnswerBoolean   *bool      `json:"answerBoolean,omitempty"`
	AnswerDecimal   *float64   `json:"answerDecimal,omitempty"`
	AnswerInteger   *int       `json:"answerInteger,omitempty"`
	AnswerDate      *string    `json:"answerDate,omitempty"`
	AnswerDateTime  *string    `json:"answerDateTime,omitempty"`
	AnswerTime      *string    `json:"answerTime,omitempty"`
	AnswerString    *string    `json:"answerString,omitempty"`
	AnswerCoding    *Coding    `json:"answerCoding,omitempty"`
	AnswerQuantity  *Quantity  `json:"answerQuantity,omitempty"`
	AnswerReference *Reference `json:"answerReference,omitempty"`
}

type QuestionnaireItemAnswerOption struct {
	ValueInteger    *int       `json:"valueInteger,omitempty"`
	ValueDate       *string    `json:"valueDate,omitempty"`
	ValueTime       *string    `json:"valueTime,omitempty"`
	ValueString     *string    `json:"valueString,omitempty"`
	ValueCoding     *Coding    `json:"valueCoding,omitempty"`
	ValueReference  *Reference `json:"valueReference,omitempty"`
	InitialSelected bool       `json:"initialSelected,omitempty"`
}

type QuestionnaireItemInitial struct {
	ValueBoolean    *bool       `json:"valueBoolean,omitempty"`
	ValueDecimal    *float64    `json:"valueDecimal,omitempty"`
	ValueInteger    *int        `json:"valueInteger,omitempty"`
	ValueDate       *string     `json:"valueDate,omitempty"`
	ValueDateTime   *string     `json:"valueDateTime,omitempty"`
	ValueTime       *string     `json:"valueTime,omitempty"`
	ValueString     *string     `json:"valueString,omitempty"`
	ValueUri        *string     `json:"valueUri,omitempty"`
	ValueAttachment *Attachment `json:"valueAttachment,omitempty"`
	ValueCoding     *Coding     `json:"valueCoding,omitempty"`
	ValueQuantity   *Quantity   `json:"valueQuantity,omitempty"`
	ValueReference  *Reference  `json:"valueReference,omitempty"`
}

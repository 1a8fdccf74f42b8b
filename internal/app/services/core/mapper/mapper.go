package mapper

import (
	"errors"
	"fmt"

	"questionnaire-builder/internal/app/contracts"
	"questionnaire-builder/internal/pkg/constvars"
	"questionnaire-builder/internal/pkg/exceptions"
	"questionnaire-builder/internal/pkg/fhir_dto"
	"questionnaire-builder/internal/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// rootPath names the document itself in decode errors.
const rootPath = "$"

type Options struct {
	// InlineOptionThreshold is the number of inline options above which a
	// single-system option list is exported as a contained ValueSet. Zero
	// or less keeps every list inline.
	InlineOptionThreshold int
}

func DefaultOptions() Options {
	return Options{InlineOptionThreshold: constvars.DefaultInlineOptionThreshold}
}

// Mapper converts between the FHIR Questionnaire wire document and the
// normalized tree state. It holds no state between calls.
type Mapper struct {
	threshold int
}

var _ contracts.QuestionnaireMapper = (*Mapper)(nil)

func NewMapper(opts Options) *Mapper {
	return &Mapper{threshold: opts.InlineOptionThreshold}
}

func (m *Mapper) Decode(raw []byte) (*fhir_dto.Questionnaire, error) {
	var doc fhir_dto.Questionnaire
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, exceptions.ErrDecode(err, rootPath)
	}
	return &doc, nil
}

// Encode renders the document with two space indentation. Field order follows
// the DTO declarations so equal documents encode to identical bytes.
func (m *Mapper) Encode(doc *fhir_dto.Questionnaire) ([]byte, error) {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, exceptions.ErrEncode(err)
	}
	return raw, nil
}

func joinPath(base, field string) string {
	if base == "" || base == rootPath {
		return field
	}
	return base + "." + field
}

func indexPath(base, field string, index int) string {
	return fmt.Sprintf("%s[%d]", joinPath(base, field), index)
}

// validate runs the DTO struct tags and reports the first failing field with
// its path inside the document.
func validate(s any, path string) error {
	err := utils.ValidateStruct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		path = joinPath(path, validationErrors[0].Field())
	}
	if path == "" {
		path = rootPath
	}
	return exceptions.ErrDecode(errors.New(exceptions.FormatFirstValidationError(err)), path)
}

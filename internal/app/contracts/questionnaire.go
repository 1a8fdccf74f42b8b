package contracts

import (
	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/pkg/fhir_dto"
)

// IDGenerator hands out identifiers that are unique for the lifetime of an
// editing session.
type IDGenerator interface {
	NewID() string
}

// ValueSetLibrary is the catalogue of predefined value sets an author can pin
// into a questionnaire.
type ValueSetLibrary interface {
	Find(id string) (*models.ValueSet, bool)
	List() []*models.ValueSet
}

// QuestionnaireMapper converts between the wire document and the tree state.
type QuestionnaireMapper interface {
	ToWire(state *models.TreeState) (*fhir_dto.Questionnaire, error)
	ToState(doc *fhir_dto.Questionnaire) (*models.TreeState, error)
	Decode(raw []byte) (*fhir_dto.Questionnaire, error)
	Encode(doc *fhir_dto.Questionnaire) ([]byte, error)
}

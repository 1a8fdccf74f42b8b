package constvars

const (
	ResourceQuestionnaire = "Questionnaire"
	ResourceValueSet      = "ValueSet"
)

// Contained resources are referenced with a local fragment, e.g. "#gender".
const FhirContainedReferencePrefix = "#"

const (
	FhirExtensionQuestionnaireUnit        = "http://hl7.org/fhir/StructureDefinition/questionnaire-unit"
	FhirExtensionQuestionnaireHidden      = "http://hl7.org/fhir/StructureDefinition/questionnaire-hidden"
	FhirExtensionQuestionnaireItemControl = "http://hl7.org/fhir/StructureDefinition/questionnaire-itemControl"
)

const (
	FhirItemControlSystem            = "http://hl7.org/fhir/questionnaire-item-control"
	FhirItemControlReceiverComponent = "receiver-component"
)

const (
	FhirPublicationStatusDraft   = "draft"
	FhirPublicationStatusActive  = "active"
	FhirPublicationStatusRetired = "retired"
	FhirPublicationStatusUnknown = "unknown"
)

// Provenance tags written on contained value sets so that an export can be
// read back into the same tree state.
const (
	ValueSetOriginTagSystem      = "urn:questionnaire-builder:valueset-origin"
	ValueSetOriginTagLibrary     = "library"
	ValueSetOriginTagItemOptions = "item-options"
	ValueSetLibraryIDTagSystem   = "urn:questionnaire-builder:library-id"
	ValueSetItemOptionsIDSuffix  = "-options"
	AnswerOptionSystemSuffix     = "-system"
	PredefinedValueSetIDPrefix   = "pre-"
	PredefinedValueSetVersion    = "1.0"
	DefaultInlineOptionThreshold = 20
)

package fhir_dto

type ValueSet struct {
	ResourceType string           `json:"resourceType" validate:"required,eq=ValueSet"`
	ID           string           `json:"id" validate:"required"`
	Meta         *Meta            `json:"meta,omitempty"`
	Url          string           `json:"url,omitempty"`
	Version      string           `json:"version,omitempty"`
	Name         string           `json:"name,omitempty"`
	Title        string           `json:"title,omitempty"`
	Status       string           `json:"status,omitempty"`
	Date         string           `json:"date,omitempty"`
	Publisher    string           `json:"publisher,omitempty"`
	Compose      *ValueSetCompose `json:"compose,omitempty"`
}

type ValueSetCompose struct {
	Include []ValueSetComposeInclude `json:"include"`
}

type ValueSetComposeInclude struct {
	System  string                          `json:"system,omitempty"`
	Concept []ValueSetComposeIncludeConcept `json:"concept,omitempty"`
}

type ValueSetComposeIncludeConcept struct {
	Code    string `json:"code" validate:"required"`
	Display string `json:"display,omitempty"`
}

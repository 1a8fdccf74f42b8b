package models

import "questionnaire-builder/internal/pkg/constvars"

type Metadata struct {
	ID          string
	URL         string
	Name        string
	Title       string
	Description string
	Publisher   string
	Status      string
	Language    string
	Version     string
	Date        string
	Purpose     string
	Copyright   string
	SubjectType []string
	Profiles    []string
	Tags        []Coding
}

type MetadataProperty string

const (
	MetadataID          MetadataProperty = "id"
	MetadataURL         MetadataProperty = "url"
	MetadataName        MetadataProperty = "name"
	MetadataTitle       MetadataProperty = "title"
	MetadataDescription MetadataProperty = "description"
	MetadataPublisher   MetadataProperty = "publisher"
	MetadataStatus      MetadataProperty = "status"
	MetadataLanguage    MetadataProperty = "language"
	MetadataVersion     MetadataProperty = "version"
	MetadataDate        MetadataProperty = "date"
	MetadataPurpose     MetadataProperty = "purpose"
	MetadataCopyright   MetadataProperty = "copyright"
	MetadataSubjectType MetadataProperty = "subjectType"
	MetadataProfiles    MetadataProperty = "profile"
	MetadataTags        MetadataProperty = "tag"
)

func ValidPublicationStatus(status string) bool {
	switch status {
	case constvars.FhirPublicationStatusDraft,
		constvars.FhirPublicationStatusActive,
		constvars.FhirPublicationStatusRetired,
		constvars.FhirPublicationStatusUnknown:
		return true
	}
	return false
}

package treestore

import (
	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/pkg/exceptions"

	"golang.org/x/text/language"
)

func updateMetadata(state *models.TreeState, req UpdateMetadata) (*models.TreeState, error) {
	metadata := state.Metadata

	if req.Property == models.MetadataSubjectType || req.Property == models.MetadataProfiles {
		values, ok := req.Value.([]string)
		if !ok {
			return nil, exceptions.ErrPropertyWrongValue("", string(req.Property), "[]string", req.Value)
		}
		if len(values) == 0 {
			values = nil
		}
		values = append([]string(nil), values...)
		if req.Property == models.MetadataSubjectType {
			metadata.SubjectType = values
		} else {
			metadata.Profiles = values
		}
		return withMetadata(state, metadata), nil
	}

	if req.Property == models.MetadataTags {
		tags, ok := req.Value.([]models.Coding)
		if !ok {
			return nil, exceptions.ErrPropertyWrongValue("", string(req.Property), "[]models.Coding", req.Value)
		}
		metadata.Tags = nil
		if len(tags) > 0 {
			metadata.Tags = append([]models.Coding(nil), tags...)
		}
		return withMetadata(state, metadata), nil
	}

	value, ok := req.Value.(string)
	if !ok {
		return nil, exceptions.ErrPropertyWrongValue("", string(req.Property), "string", req.Value)
	}
	switch req.Property {
	case models.MetadataID:
		metadata.ID = value
	case models.MetadataURL:
		metadata.URL = value
	case models.MetadataName:
		metadata.Name = value
	case models.MetadataTitle:
		metadata.Title = value
	case models.MetadataDescription:
		metadata.Description = value
	case models.MetadataPublisher:
		metadata.Publisher = value
	case models.MetadataStatus:
		if !models.ValidPublicationStatus(value) {
			return nil, exceptions.ErrInvalidStatus(value)
		}
		metadata.Status = value
	case models.MetadataLanguage:
		if value != "" {
			if _, err := language.Parse(value); err != nil {
				return nil, exceptions.ErrInvalidLanguageTag(err, value)
			}
		}
		metadata.Language = value
	case models.MetadataVersion:
		metadata.Version = value
	case models.MetadataDate:
		metadata.Date = value
	case models.MetadataPurpose:
		metadata.Purpose = value
	case models.MetadataCopyright:
		metadata.Copyright = value
	default:
		return nil, exceptions.ErrPropertyNotCarried("", string(req.Property), "questionnaire")
	}
	return withMetadata(state, metadata), nil
}

func withMetadata(state *models.TreeState, metadata models.Metadata) *models.TreeState {
	next := state.Copy()
	next.Metadata = metadata
	return next
}

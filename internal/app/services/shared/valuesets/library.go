package valuesets

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"questionnaire-builder/internal/app/contracts"
	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/pkg/exceptions"
	"questionnaire-builder/internal/pkg/utils"

	"gopkg.in/yaml.v3"
)

//go:embed default_library.yaml
var defaultLibrary []byte

type libraryFile struct {
	ValueSets []libraryEntry `yaml:"valueSets" validate:"dive"`
}

type libraryEntry struct {
	ID        string           `yaml:"id" validate:"required"`
	Name      string           `yaml:"name"`
	Title     string           `yaml:"title"`
	Status    string           `yaml:"status" validate:"omitempty,oneof=draft active retired unknown"`
	Publisher string           `yaml:"publisher"`
	Version   string           `yaml:"version"`
	URL       string           `yaml:"url" validate:"omitempty,url"`
	System    string           `yaml:"system"`
	Concepts  []libraryConcept `yaml:"concepts" validate:"required,min=1,dive"`
}

type libraryConcept struct {
	Code    string `yaml:"code" validate:"required"`
	Display string `yaml:"display"`
}

type valueSetLibrary struct {
	sets []*models.ValueSet
	byID map[string]*models.ValueSet
}

// NewValueSetLibrary builds a library from sets already in memory. Every set
// is re-tagged with the library origin.
func NewValueSetLibrary(sets ...*models.ValueSet) (contracts.ValueSetLibrary, error) {
	library := &valueSetLibrary{byID: map[string]*models.ValueSet{}}
	for _, vs := range sets {
		if vs.Ref.ID == "" {
			return nil, errors.New("library value set without id")
		}
		if _, taken := library.byID[vs.Ref.ID]; taken {
			return nil, fmt.Errorf("library value set %s defined twice", vs.Ref.ID)
		}
		cloned := vs.Clone()
		cloned.Ref = models.LibraryRef(vs.Ref.ID)
		library.sets = append(library.sets, cloned)
		library.byID[cloned.Ref.ID] = cloned
	}
	return library, nil
}

func DefaultValueSetLibrary() contracts.ValueSetLibrary {
	library, err := ParseValueSetLibrary(defaultLibrary)
	if err != nil {
		panic(err)
	}
	return library
}

// LoadValueSetLibrary reads a YAML library file. An empty path yields the
// built-in library.
func LoadValueSetLibrary(path string) (contracts.ValueSetLibrary, error) {
	if path == "" {
		return DefaultValueSetLibrary(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, exceptions.ErrLoadValueSetLibrary(err, path)
	}
	library, err := ParseValueSetLibrary(data)
	if err != nil {
		return nil, exceptions.ErrLoadValueSetLibrary(err, path)
	}
	return library, nil
}

func ParseValueSetLibrary(data []byte) (contracts.ValueSetLibrary, error) {
	var file libraryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(file); err != nil {
		return nil, errors.New(exceptions.FormatAllValidationErrors(err))
	}

	sets := make([]*models.ValueSet, 0, len(file.ValueSets))
	for _, entry := range file.ValueSets {
		vs := &models.ValueSet{
			Ref:       models.LibraryRef(entry.ID),
			URL:       entry.URL,
			Version:   entry.Version,
			Name:      entry.Name,
			Title:     entry.Title,
			Status:    entry.Status,
			Publisher: entry.Publisher,
			Includes:  []models.ValueSetInclude{{System: entry.System}},
		}
		for _, concept := range entry.Concepts {
			vs.Includes[0].Concepts = append(vs.Includes[0].Concepts, models.Concept{Code: concept.Code, Display: concept.Display})
		}
		sets = append(sets, vs)
	}
	return NewValueSetLibrary(sets...)
}

// Find returns a copy; library sets are never modified.
func (l *valueSetLibrary) Find(id string) (*models.ValueSet, bool) {
	vs, ok := l.byID[id]
	if !ok {
		return nil, false
	}
	return vs.Clone(), true
}

func (l *valueSetLibrary) List() []*models.ValueSet {
	sets := make([]*models.ValueSet, len(l.sets))
	for i, vs := range l.sets {
		sets[i] = vs.Clone()
	}
	return sets
}

package models

import "questionnaire-builder/internal/pkg/constvars"

type ValueSetOrigin int

const (
	// ValueSetContained sets live in the document and are dropped once no
	// item refers to them.
	ValueSetContained ValueSetOrigin = iota
	// ValueSetLibrary sets were pinned from the predefined library and are
	// kept until removed explicitly.
	ValueSetLibrary
	// ValueSetExternal refers to a canonical URL outside the document.
	ValueSetExternal
)

func (o ValueSetOrigin) String() string {
	switch o {
	case ValueSetContained:
		return "contained"
	case ValueSetLibrary:
		return "library"
	case ValueSetExternal:
		return "external"
	default:
		return "unknown"
	}
}

type ValueSetRef struct {
	Origin ValueSetOrigin
	ID     string
}

func ContainedRef(id string) ValueSetRef {
	return ValueSetRef{Origin: ValueSetContained, ID: id}
}

func LibraryRef(id string) ValueSetRef {
	return ValueSetRef{Origin: ValueSetLibrary, ID: id}
}

func ExternalRef(url string) ValueSetRef {
	return ValueSetRef{Origin: ValueSetExternal, ID: url}
}

func (r ValueSetRef) IsZero() bool {
	return r.ID == ""
}

// IsLocal reports whether the set is expected to be held in the state.
func (r ValueSetRef) IsLocal() bool {
	return !r.IsZero() && r.Origin != ValueSetExternal
}

// String renders the reference the way answerValueSet spells it.
func (r ValueSetRef) String() string {
	if r.IsLocal() {
		return constvars.FhirContainedReferencePrefix + r.ID
	}
	return r.ID
}

type Concept struct {
	Code    string
	Display string
}

type ValueSetInclude struct {
	System   string
	Concepts []Concept
}

type ValueSet struct {
	Ref       ValueSetRef
	URL       string
	Version   string
	Name      string
	Title     string
	Status    string
	Date      string
	Publisher string
	Includes  []ValueSetInclude
}

func (vs *ValueSet) Clone() *ValueSet {
	cloned := *vs
	if len(vs.Includes) > 0 {
		cloned.Includes = make([]ValueSetInclude, len(vs.Includes))
		for i, include := range vs.Includes {
			cloned.Includes[i] = ValueSetInclude{System: include.System}
			if len(include.Concepts) > 0 {
				cloned.Includes[i].Concepts = append([]Concept(nil), include.Concepts...)
			}
		}
	}
	return &cloned
}

// Contains reports whether the code is listed under an include of the given
// system.
func (vs *ValueSet) Contains(system, code string) bool {
	for _, include := range vs.Includes {
		if include.System != system {
			continue
		}
		for _, concept := range include.Concepts {
			if concept.Code == code {
				return true
			}
		}
	}
	return false
}

// Options flattens the set into answer options.
func (vs *ValueSet) Options() []AnswerOption {
	var options []AnswerOption
	for _, include := range vs.Includes {
		for _, concept := range include.Concepts {
			options = append(options, AnswerOption{Code: concept.Code, Display: concept.Display, System: include.System})
		}
	}
	return options
}

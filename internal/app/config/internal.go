package config

type InternalConfig struct {
	App    App
	Editor Editor
}

type App struct {
	Env     string
	Name    string
	Version string
}

// Editor holds the defaults of an editing session.
type Editor struct {
	// InlineOptionThreshold is the option count above which exports move a
	// single-system option list into a contained ValueSet. Zero disables it.
	InlineOptionThreshold int
	// RemapDuplicateReferences makes duplicates point their internal
	// enableWhen rules at the copies instead of the originals.
	RemapDuplicateReferences bool
	// ValueSetLibraryPath is a YAML file of predefined value sets; empty
	// means the built-in library.
	ValueSetLibraryPath string
}

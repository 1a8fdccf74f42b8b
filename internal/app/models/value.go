package models

// ValueKind names a value[x] variant. The names match the FHIR suffixes so
// "answer"+kind and "value"+kind give the wire field names.
type ValueKind string

const (
	ValueKindBoolean    ValueKind = "Boolean"
	ValueKindDecimal    ValueKind = "Decimal"
	ValueKindInteger    ValueKind = "Integer"
	ValueKindDate       ValueKind = "Date"
	ValueKindDateTime   ValueKind = "DateTime"
	ValueKindTime       ValueKind = "Time"
	ValueKindString     ValueKind = "String"
	ValueKindURI        ValueKind = "Uri"
	ValueKindAttachment ValueKind = "Attachment"
	ValueKindCoding     ValueKind = "Coding"
	ValueKindQuantity   ValueKind = "Quantity"
	ValueKindReference  ValueKind = "Reference"
)

// IsEnableWhenAnswer reports whether an enableWhen rule can compare against
// a value of this kind.
func (k ValueKind) IsEnableWhenAnswer() bool {
	switch k {
	case ValueKindURI, ValueKindAttachment:
		return false
	}
	return k != ""
}

// Value is a typed answer or initial value.
type Value interface {
	Kind() ValueKind
}

type (
	BooleanValue  bool
	DecimalValue  float64
	IntegerValue  int
	DateValue     string
	DateTimeValue string
	TimeValue     string
	StringValue   string
	URIValue      string
)

func (BooleanValue) Kind() ValueKind  { return ValueKindBoolean }
func (DecimalValue) Kind() ValueKind  { return ValueKindDecimal }
func (IntegerValue) Kind() ValueKind  { return ValueKindInteger }
func (DateValue) Kind() ValueKind     { return ValueKindDate }
func (DateTimeValue) Kind() ValueKind { return ValueKindDateTime }
func (TimeValue) Kind() ValueKind     { return ValueKindTime }
func (StringValue) Kind() ValueKind   { return ValueKindString }
func (URIValue) Kind() ValueKind      { return ValueKindURI }

type Coding struct {
	System  string
	Version string
	Code    string
	Display string
}

func (Coding) Kind() ValueKind { return ValueKindCoding }

func (c Coding) Matches(system, code string) bool {
	return c.System == system && c.Code == code
}

type Quantity struct {
	Value      float64
	Comparator string
	Unit       string
	System     string
	Code       string
}

func (Quantity) Kind() ValueKind { return ValueKindQuantity }

type Reference struct {
	Reference string
	Type      string
	Display   string
}

func (Reference) Kind() ValueKind { return ValueKindReference }

type Attachment struct {
	ContentType string
	Language    string
	Data        string
	URL         string
	Title       string
}

func (Attachment) Kind() ValueKind { return ValueKindAttachment }

type CodeableConcept struct {
	Coding []Coding
	Text   string
}

func cloneValues(values []Value) []Value {
	if len(values) == 0 {
		return nil
	}
	cloned := make([]Value, len(values))
	copy(cloned, values)
	return cloned
}

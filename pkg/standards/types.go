// Package standards models the Microsoft 365 / Azure configuration standards
// dataset: the record shape, document parsing and validation, the derived
// deprecated/new predicates and the in-memory record store.
package standards

// Impact is the closed set of impact levels a standard can carry.
type Impact string

const (
	HighImpact   Impact = "High Impact"
	MediumImpact Impact = "Medium Impact"
	LowImpact    Impact = "Low Impact"
)

// Impacts lists the levels in display order.
var Impacts = []Impact{HighImpact, MediumImpact, LowImpact}

// Valid reports whether i is one of the known levels.
func (i Impact) Valid() bool {
	switch i {
	case HighImpact, MediumImpact, LowImpact:
		return true
	}
	return false
}

// Standard is a single configuration-guidance record. It is treated as
// immutable once loaded.
type Standard struct {
	Name                 string            `json:"name"`
	Cat                  string            `json:"cat"`
	Tag                  []string          `json:"tag"`
	HelpText             string            `json:"helpText"`
	DocsDescription      string            `json:"docsDescription"`
	ExecutiveText        string            `json:"executiveText"`
	AddedComponent       []AddedComponent  `json:"addedComponent"`
	Label                string            `json:"label"`
	Impact               Impact            `json:"impact"`
	ImpactColour         string            `json:"impactColour,omitempty"`
	AddedDate            string            `json:"addedDate"`
	PowershellEquivalent string            `json:"powershellEquivalent"`
	RecommendedBy        []string          `json:"recommendedBy"`
	DisabledFeatures     *DisabledFeatures `json:"disabledFeatures,omitempty"`
}

// AddedComponent describes one configuration option of a standard. The filter
// engine never looks inside it.
type AddedComponent struct {
	Type         string         `json:"type"`
	Name         string         `json:"name"`
	Label        string         `json:"label"`
	Required     *bool          `json:"required,omitempty"`
	Multiple     *bool          `json:"multiple,omitempty"`
	Creatable    *bool          `json:"creatable,omitempty"`
	API          map[string]any `json:"api,omitempty"`
	Options      []Option       `json:"options,omitempty"`
	Condition    map[string]any `json:"condition,omitempty"`
	Placeholder  string         `json:"placeholder,omitempty"`
	DefaultValue any            `json:"defaultValue,omitempty"`
	Validators   map[string]any `json:"validators,omitempty"`
	Default      any            `json:"default,omitempty"`
	HelperText   string         `json:"helperText,omitempty"`
	HelpText     string         `json:"helpText,omitempty"`
}

type Option struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

type DisabledFeatures struct {
	Report    bool `json:"report"`
	Warn      bool `json:"warn"`
	Remediate bool `json:"remediate"`
}

package feed

// Source kinds accepted by Parse.
const (
	SourceCSV = "csv"
	SourceXML = "xml"
)

// Item is one raw feed entry before mapping: a flat bag of values keyed by
// source field name. Nested elements flatten to dotted paths and repeated
// elements accumulate in document order.
type Item map[string][]string

// First returns the first value recorded under path, or the empty string.
func (it Item) First(path string) string {
	if vs := it[path]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// All returns every value recorded under path.
func (it Item) All(path string) []string {
	return it[path]
}

// FieldRule maps one canonical output field to a source path, with an
// optional fallback path, a named transform, and a default for absent
// values.
type FieldRule struct {
	Path      string `yaml:"path"`
	Fallback  string `yaml:"fallback,omitempty"`
	Transform string `yaml:"transform,omitempty"`
	Default   string `yaml:"default,omitempty"`
}

// OptionsRule pairs two repeated source paths into (option name, option
// value) tuples.
type OptionsRule struct {
	NamePath  string `yaml:"name_path"`
	ValuePath string `yaml:"value_path"`
}

// TagRule contributes one source path to the tag list.
type TagRule struct {
	Path      string `yaml:"path"`
	Transform string `yaml:"transform,omitempty"`
}

// MetafieldRule maps one source path to an auxiliary typed attribute.
type MetafieldRule struct {
	Key       string `yaml:"key"`
	Name      string `yaml:"name,omitempty"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
	Type      string `yaml:"type"`
	Transform string `yaml:"transform,omitempty"`
}

// Mapping is one declarative per-field transform table for a hierarchical
// feed format.
type Mapping struct {
	ItemPath   []string             `yaml:"item_path"`
	Fields     map[string]FieldRule `yaml:"fields"`
	Options    OptionsRule          `yaml:"options,omitempty"`
	Tags       []TagRule            `yaml:"tags,omitempty"`
	Metafields []MetafieldRule      `yaml:"metafields,omitempty"`
}

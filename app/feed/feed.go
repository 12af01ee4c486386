package feed

import (
	"fmt"

	"github.com/feedbridge/catalog-sync/app/catalog"
)

// Parse loads and normalizes a feed into canonical records. CSV layouts are
// recognized from their header row; XML feeds need a mapping table, named
// (built-in) or loaded from a file by the caller.
func Parse(kind, path string, mapping *Mapping) ([]catalog.Record, error) {
	switch kind {
	case SourceCSV:
		return ParseCSV(path)
	case SourceXML:
		if mapping == nil {
			return nil, fmt.Errorf("XML feeds require a mapping table")
		}
		return ParseXML(path, mapping)
	default:
		return nil, fmt.Errorf("unsupported source kind: %s", kind)
	}
}

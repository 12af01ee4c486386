package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/feedbridge/catalog-sync/app/catalog"
)

// ParseXML reads a hierarchical markup feed, extracting items at the
// mapping's item path and converting each through the mapping table. The
// document is streamed token by token, so feed size is not bounded by
// memory.
func ParseXML(path string, mapping *Mapping) ([]catalog.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed: %w", err)
	}
	defer f.Close()

	decoder := xml.NewDecoder(f)

	var records []catalog.Record
	var stack []string

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)

			if pathEquals(stack, mapping.ItemPath) {
				item, err := collectItem(decoder)
				if err != nil {
					return nil, fmt.Errorf("failed to read item: %w", err)
				}
				// collectItem consumed the item's end element.
				stack = stack[:len(stack)-1]

				if rec, ok := mapping.BuildRecord(item); ok {
					records = append(records, rec)
				}
			}

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	return records, nil
}

// collectItem flattens the subtree of the current element into an Item:
// leaf text values keyed by their dotted path relative to the item element,
// repeated elements accumulating in order.
func collectItem(decoder *xml.Decoder) (Item, error) {
	item := make(Item)

	var path []string
	var text strings.Builder

	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			path = append(path, t.Name.Local)
			text.Reset()

		case xml.CharData:
			text.Write(t)

		case xml.EndElement:
			if len(path) == 0 {
				// Closed the item element itself.
				return item, nil
			}

			if value := strings.TrimSpace(text.String()); value != "" {
				key := strings.Join(path, ".")
				item[key] = append(item[key], value)
			}
			path = path[:len(path)-1]
			text.Reset()
		}
	}
}

func pathEquals(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

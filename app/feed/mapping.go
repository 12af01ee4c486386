package feed

import (
	"embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/feedbridge/catalog-sync/app/catalog"
)

//go:embed mappings/*.yaml
var mappingFS embed.FS

// LoadMapping loads one of the built-in mapping tables by name.
func LoadMapping(name string) (*Mapping, error) {
	data, err := mappingFS.ReadFile("mappings/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown mapping %q: %w", name, err)
	}
	return parseMapping(data)
}

// LoadMappingFile loads a mapping table from an external YAML file, for feed
// formats the built-in tables do not cover.
func LoadMappingFile(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}
	return parseMapping(data)
}

func parseMapping(data []byte) (*Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid mapping: %w", err)
	}

	return &m, nil
}

func (m *Mapping) validate() error {
	if len(m.ItemPath) == 0 {
		return fmt.Errorf("item_path is required")
	}
	if _, ok := m.Fields["sku"]; !ok {
		return fmt.Errorf("fields.sku is required")
	}

	for field, rule := range m.Fields {
		if _, err := lookupTransform(rule.Transform); err != nil {
			return fmt.Errorf("field %s: %w", field, err)
		}
	}
	for i, rule := range m.Tags {
		if _, err := lookupTransform(rule.Transform); err != nil {
			return fmt.Errorf("tag %d: %w", i, err)
		}
	}
	for _, rule := range m.Metafields {
		if rule.Key == "" || rule.Path == "" {
			return fmt.Errorf("metafield rules need key and path")
		}
		if _, err := lookupTransform(rule.Transform); err != nil {
			return fmt.Errorf("metafield %s: %w", rule.Key, err)
		}
	}

	return nil
}

// fieldValue resolves one canonical field from the raw item: source path,
// then fallback path, then default, then the named transform.
func (m *Mapping) fieldValue(field string, item Item) string {
	rule, ok := m.Fields[field]
	if !ok {
		return ""
	}

	value := item.First(rule.Path)
	if value == "" && rule.Fallback != "" {
		value = item.First(rule.Fallback)
	}
	if value == "" {
		value = rule.Default
	}

	transform, _ := lookupTransform(rule.Transform)
	return transform(value, item)
}

// BuildRecord maps one raw item to a canonical record. The second return is
// false for items carrying neither SKU nor title, which cannot be
// synchronized and are dropped at parse time.
func (m *Mapping) BuildRecord(item Item) (catalog.Record, bool) {
	rec := catalog.Record{
		SKU:             m.fieldValue("sku", item),
		Title:           m.fieldValue("title", item),
		Status:          normalizeStatus(m.fieldValue("status", item)),
		DescriptionHTML: m.fieldValue("description_html", item),
		Vendor:          m.fieldValue("vendor", item),
		ProductType:     m.fieldValue("product_type", item),
	}

	if rec.SKU == "" && rec.Title == "" {
		return catalog.Record{}, false
	}

	rec.Price = parsePrice(m.fieldValue("price", item))
	if compare := parseOptionalPrice(m.fieldValue("compare_at_price", item)); compare != nil && compare.GreaterThan(rec.Price) {
		rec.CompareAtPrice = compare
	}

	if qty, err := strconv.Atoi(m.fieldValue("inventory", item)); err == nil && qty >= 0 {
		rec.Inventory = qty
	}

	if rule, ok := m.Fields["images"]; ok {
		for _, img := range item.All(rule.Path) {
			if img = strings.TrimSpace(img); img != "" {
				rec.Images = append(rec.Images, img)
			}
		}
	}

	rec.Options = m.buildOptions(item)
	rec.Tags = m.buildTags(item)
	rec.Metafields = m.buildMetafields(item)

	return rec, true
}

// buildOptions zips the repeated name/value paths into ordered options,
// grouping repeated names and deduplicating their values.
func (m *Mapping) buildOptions(item Item) []catalog.Option {
	names := item.All(m.Options.NamePath)
	values := item.All(m.Options.ValuePath)
	if len(names) == 0 || len(names) != len(values) {
		return nil
	}

	var options []catalog.Option
	index := make(map[string]int)

	for i, name := range names {
		name = strings.TrimSpace(name)
		value := strings.TrimSpace(values[i])
		if name == "" || value == "" {
			continue
		}

		pos, ok := index[name]
		if !ok {
			options = append(options, catalog.Option{Name: name})
			pos = len(options) - 1
			index[name] = pos
		}

		exists := false
		for _, v := range options[pos].Values {
			if v == value {
				exists = true
				break
			}
		}
		if !exists {
			options[pos].Values = append(options[pos].Values, value)
		}
	}

	return options
}

func (m *Mapping) buildTags(item Item) []string {
	var tags []string
	for _, rule := range m.Tags {
		transform, _ := lookupTransform(rule.Transform)
		for _, raw := range item.All(rule.Path) {
			if tag := transform(raw, item); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func (m *Mapping) buildMetafields(item Item) []catalog.Metafield {
	var fields []catalog.Metafield
	for _, rule := range m.Metafields {
		transform, _ := lookupTransform(rule.Transform)
		value := transform(item.First(rule.Path), item)
		if value == "" {
			continue
		}
		fields = append(fields, catalog.Metafield{
			Namespace: rule.Namespace,
			Key:       rule.Key,
			Value:     value,
			Type:      rule.Type,
		})
	}
	return fields
}

func normalizeStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case catalog.StatusDraft:
		return catalog.StatusDraft
	case catalog.StatusArchived:
		return catalog.StatusArchived
	default:
		return catalog.StatusActive
	}
}

func parsePrice(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	price, err := decimal.NewFromString(value)
	if err != nil || price.IsNegative() {
		return decimal.Zero
	}
	return price
}

func parseOptionalPrice(value string) *decimal.Decimal {
	if value == "" {
		return nil
	}
	price, err := decimal.NewFromString(value)
	if err != nil || !price.IsPositive() {
		return nil
	}
	return &price
}

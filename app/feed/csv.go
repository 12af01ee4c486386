package feed

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/feedbridge/catalog-sync/app/catalog"
)

// ParseCSV reads a tabular feed. Two column layouts are recognized: the
// generic layout (sku, title, price, ...) and the platform's own export
// layout (Handle, Title, Variant SKU, ...), where additional image rows for
// a product carry only the handle and an image column.
func ParseCSV(path string) ([]catalog.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(stripBOM(f))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	var rows []map[string]string
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		row := make(map[string]string, len(columns))
		for name, i := range columns {
			if i < len(fields) {
				row[name] = strings.TrimSpace(fields[i])
			}
		}
		rows = append(rows, row)
	}

	if _, ok := columns["Handle"]; ok {
		return parseExportLayout(rows), nil
	}
	return parseGenericLayout(rows), nil
}

// stripBOM discards a UTF-8 byte order mark if the file starts with one.
func stripBOM(r io.Reader) io.Reader {
	buf := bufio.NewReader(r)
	if lead, err := buf.Peek(3); err == nil && lead[0] == 0xEF && lead[1] == 0xBB && lead[2] == 0xBF {
		buf.Discard(3)
	}
	return buf
}

func parseGenericLayout(rows []map[string]string) []catalog.Record {
	var records []catalog.Record

	for _, row := range rows {
		sku := first(row, "sku", "Variant SKU")
		title := first(row, "title", "Title")
		if sku == "" && title == "" {
			continue
		}

		rec := catalog.Record{
			SKU:             sku,
			Title:           title,
			Price:           parseCSVPrice(first(row, "price", "Variant Price")),
			Inventory:       parseCSVInt(first(row, "inventory", "Variant Inventory Qty")),
			Status:          normalizeStatus(first(row, "status", "Status")),
			DescriptionHTML: first(row, "description_html", "description", "Body (HTML)"),
			Vendor:          first(row, "vendor", "Vendor"),
			ProductType:     first(row, "product_type", "Type"),
			Images:          splitList(first(row, "images", "Image Src")),
			Options:         parseOptionList(row["options"]),
			Tags:            splitCommaList(first(row, "tags", "Tags")),
		}

		if compare := parseOptionalPrice(strings.ReplaceAll(first(row, "compare_at_price"), ",", ".")); compare != nil && compare.GreaterThan(rec.Price) {
			rec.CompareAtPrice = compare
		}

		records = append(records, rec)
	}

	return records
}

// parseExportLayout folds the platform export's one-row-per-image shape back
// into one record per product, keyed by handle.
func parseExportLayout(rows []map[string]string) []catalog.Record {
	var order []string
	byHandle := make(map[string]*catalog.Record)

	for _, row := range rows {
		handle := row["Handle"]
		if handle == "" {
			continue
		}

		if row["Title"] != "" {
			sku := row["Variant SKU"]
			if sku == "" {
				sku = handle
			}
			rec := &catalog.Record{
				SKU:             sku,
				Title:           row["Title"],
				Price:           parseCSVPrice(row["Variant Price"]),
				Inventory:       parseCSVInt(row["Variant Inventory Qty"]),
				Status:          normalizeStatus(row["Status"]),
				DescriptionHTML: row["Body (HTML)"],
				Vendor:          row["Vendor"],
				ProductType:     row["Type"],
				Tags:            splitCommaList(row["Tags"]),
			}
			byHandle[handle] = rec
			order = append(order, handle)
		}

		if img := row["Image Src"]; img != "" {
			if rec, ok := byHandle[handle]; ok && !contains(rec.Images, img) {
				rec.Images = append(rec.Images, img)
			}
		}
	}

	records := make([]catalog.Record, 0, len(order))
	for _, handle := range order {
		records = append(records, *byHandle[handle])
	}
	return records
}

func first(row map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := row[key]; v != "" {
			return v
		}
	}
	return ""
}

func parseCSVPrice(value string) decimal.Decimal {
	return parsePrice(strings.ReplaceAll(value, ",", "."))
}

func parseCSVInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// splitList splits a pipe-separated cell ("a.jpg|b.jpg") into its parts.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(value, "|") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func splitCommaList(value string) []string {
	if value == "" {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// parseOptionList parses the compact option cell format
// "Size:S,M,L|Color:Red,Blue" into ordered options.
func parseOptionList(value string) []catalog.Option {
	if value == "" {
		return nil
	}

	var options []catalog.Option
	for _, part := range strings.Split(value, "|") {
		name, values, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		opt := catalog.Option{Name: strings.TrimSpace(name)}
		for _, v := range strings.Split(values, ",") {
			if v = strings.TrimSpace(v); v != "" {
				opt.Values = append(opt.Values, v)
			}
		}
		if opt.Name != "" && len(opt.Values) > 0 {
			options = append(options, opt)
		}
	}
	return options
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

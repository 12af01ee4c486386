package feed

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func TestParseCSV_GenericLayout(t *testing.T) {
	path := writeTempFile(t, "feed.csv", `sku,title,price,compare_at_price,inventory,status,description_html,vendor,product_type,images,options,tags
X1,Trekking Bike 28,10.00,12.00,5,active,<p>Solid bike</p>,Acme Cycles,Bikes,a.jpg|b.jpg,"Size:S,M|Color:Red","bike, commuter"
X2,City Bike,899.00,,0,draft,,Acme Cycles,Bikes,,,
`)

	records, err := ParseCSV(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	rec := records[0]
	if rec.SKU != "X1" {
		t.Errorf("Expected SKU X1, got %s", rec.SKU)
	}
	if !rec.Price.Equal(mustDecimal(t, "10.00")) {
		t.Errorf("Expected price 10.00, got %s", rec.Price)
	}
	if rec.CompareAtPrice == nil || !rec.CompareAtPrice.Equal(mustDecimal(t, "12.00")) {
		t.Errorf("Expected compare price 12.00, got %v", rec.CompareAtPrice)
	}
	if rec.Inventory != 5 {
		t.Errorf("Expected inventory 5, got %d", rec.Inventory)
	}
	if len(rec.Images) != 2 || rec.Images[0] != "a.jpg" {
		t.Errorf("Unexpected images: %v", rec.Images)
	}
	if len(rec.Tags) != 2 || rec.Tags[1] != "commuter" {
		t.Errorf("Unexpected tags: %v", rec.Tags)
	}
	if len(rec.Options) != 2 || rec.Options[0].Name != "Size" || len(rec.Options[0].Values) != 2 {
		t.Errorf("Unexpected options: %+v", rec.Options)
	}

	if records[1].Status != "draft" {
		t.Errorf("Expected draft status, got %s", records[1].Status)
	}
	if records[1].CompareAtPrice != nil {
		t.Errorf("Expected no compare price, got %v", records[1].CompareAtPrice)
	}
}

func TestParseCSV_CompareBelowPriceDropped(t *testing.T) {
	path := writeTempFile(t, "feed.csv", `sku,title,price,compare_at_price
X1,Bike,100.00,80.00
`)

	records, err := ParseCSV(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if records[0].CompareAtPrice != nil {
		t.Errorf("Compare price below price must be dropped, got %v", records[0].CompareAtPrice)
	}
}

func TestParseCSV_ExportLayoutFoldsImageRows(t *testing.T) {
	path := writeTempFile(t, "export.csv", `Handle,Title,Variant SKU,Variant Price,Variant Inventory Qty,Status,Body (HTML),Vendor,Type,Image Src,Tags
trekking-bike,Trekking Bike 28,X1,10.00,5,active,<p>Solid bike</p>,Acme Cycles,Bikes,a.jpg,bike
trekking-bike,,,,,,,,,b.jpg,
city-bike,City Bike,,899.00,2,active,,Acme Cycles,Bikes,,
`)

	records, err := ParseCSV(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	if len(records[0].Images) != 2 {
		t.Errorf("Expected image row folded in, got %v", records[0].Images)
	}

	// A product row without a variant SKU falls back to the handle.
	if records[1].SKU != "city-bike" {
		t.Errorf("Expected handle fallback SKU, got %s", records[1].SKU)
	}
}

func TestParseCSV_SkipsRowsWithoutIdentity(t *testing.T) {
	path := writeTempFile(t, "feed.csv", `sku,title,price
X1,Bike,10.00
,,
`)

	records, err := ParseCSV(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected empty row to be dropped, got %d records", len(records))
	}
}

func TestParseCSV_StripsBOM(t *testing.T) {
	path := writeTempFile(t, "feed.csv", "\xEF\xBB\xBFsku,title,price\nX1,Bike,10.00\n")

	records, err := ParseCSV(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].SKU != "X1" {
		t.Fatalf("BOM not stripped, records: %+v", records)
	}
}

func TestParseCSV_DecimalCommaPrice(t *testing.T) {
	path := writeTempFile(t, "feed.csv", "sku,title,price\nX1,Bike,\"12,50\"\n")

	records, err := ParseCSV(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !records[0].Price.Equal(mustDecimal(t, "12.50")) {
		t.Errorf("Expected 12.50, got %s", records[0].Price)
	}
}

package feed

import (
	"testing"
)

const zegFixture = `<?xml version="1.0" encoding="UTF-8"?>
<ZEGSHOP>
  <HAUPTKATEGORIE>
    <KATEGORIE>
      <ARTIKEL>
        <ARTNR>AB123</ARTNR>
        <BEZEICHNUNG>Trekking Bike</BEZEICHNUNG>
        <VK>1299,00</VK>
        <BESTAND>7</BESTAND>
        <MARKE>Pegasus</MARKE>
        <BILDER_URL>
          <BILD_URL>https://cdn.example.com/1.jpg</BILD_URL>
          <BILD_URL>https://cdn.example.com/2.jpg</BILD_URL>
        </BILDER_URL>
        <MERKMAL>
          <MERKMAL>Größe</MERKMAL>
          <AUSPRAEGUNG>S</AUSPRAEGUNG>
        </MERKMAL>
        <MERKMAL>
          <MERKMAL>Größe</MERKMAL>
          <AUSPRAEGUNG>M</AUSPRAEGUNG>
        </MERKMAL>
      </ARTIKEL>
      <ARTIKEL>
        <ARTNR>CD456</ARTNR>
        <BEZEICHNUNG>City Bike</BEZEICHNUNG>
        <VK>899,00</VK>
        <GESPERRT>J</GESPERRT>
      </ARTIKEL>
    </KATEGORIE>
    <KATEGORIE>
      <ARTIKEL>
        <ARTNR>EF789</ARTNR>
        <BEZEICHNUNG>Helmet</BEZEICHNUNG>
        <VK>49,95</VK>
      </ARTIKEL>
    </KATEGORIE>
  </HAUPTKATEGORIE>
</ZEGSHOP>
`

func TestParseXML_WalksCategoryHierarchy(t *testing.T) {
	mapping, err := LoadMapping("zeg")
	if err != nil {
		t.Fatalf("Failed to load mapping: %v", err)
	}

	path := writeTempFile(t, "feed.xml", zegFixture)

	records, err := ParseXML(path, mapping)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records across categories, got %d", len(records))
	}

	first := records[0]
	if first.SKU != "AB123" {
		t.Errorf("Expected AB123, got %s", first.SKU)
	}
	if !first.Price.Equal(mustDecimal(t, "1299.00")) {
		t.Errorf("Expected 1299.00, got %s", first.Price)
	}
	if len(first.Images) != 2 {
		t.Errorf("Expected 2 images from nested elements, got %v", first.Images)
	}
	if len(first.Options) != 1 || len(first.Options[0].Values) != 2 {
		t.Errorf("Expected grouped option values, got %+v", first.Options)
	}

	if records[1].Status != "draft" {
		t.Errorf("Expected blocked article to be draft, got %s", records[1].Status)
	}

	// Feed order is preserved across category boundaries.
	if records[2].SKU != "EF789" {
		t.Errorf("Expected EF789 last, got %s", records[2].SKU)
	}
}

func TestParseXML_RequiresMapping(t *testing.T) {
	path := writeTempFile(t, "feed.xml", zegFixture)

	if _, err := Parse(SourceXML, path, nil); err == nil {
		t.Error("Expected error when parsing XML without a mapping")
	}
}

func TestParse_UnsupportedKind(t *testing.T) {
	if _, err := Parse("json", "feed.json", nil); err == nil {
		t.Error("Expected error for unsupported source kind")
	}
}

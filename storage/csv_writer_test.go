package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"propalyze-cleaner/models"
)

func TestCSVWriterWritesFlatRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "properties.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	id, bhk, price := "P1", 3, 15500000.0
	err = w.Write([]*models.Property{
		{PropertyID: &id, BHK: &bhk, PriceInINR: &price, Photos: []string{"a", "b"}},
		{},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 3 {
		t.Fatalf("rows: got %d, want 3 (header + 2)", len(records))
	}
	col := make(map[string]int)
	for i, h := range records[0] {
		col[h] = i
	}
	row := records[1]
	if row[col["property_id"]] != "P1" {
		t.Errorf("property_id: got %q", row[col["property_id"]])
	}
	if row[col["bhk"]] != "3" {
		t.Errorf("bhk: got %q", row[col["bhk"]])
	}
	if row[col["price_in_inr"]] != "15500000" {
		t.Errorf("price_in_inr: got %q", row[col["price_in_inr"]])
	}
	if row[col["photo_count"]] != "2" {
		t.Errorf("photo_count: got %q", row[col["photo_count"]])
	}
	if records[2][col["property_id"]] != "" {
		t.Errorf("null property_id should be empty, got %q", records[2][col["property_id"]])
	}
}

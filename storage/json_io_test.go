package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"propalyze-cleaner/models"
)

func TestReadDocumentKeepsKeyOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	if err := os.WriteFile(path, []byte(`{"b": 1, "a": 2}`), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	fields := doc.Fields()
	if len(fields) != 2 || fields[0].Key != "b" || fields[1].Key != "a" {
		t.Errorf("unexpected fields: %+v", fields)
	}
}

func TestReadDocumentErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadDocument(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"a":`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadDocument(bad); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestEncodeDocumentIndentsAndKeepsText(t *testing.T) {
	name := "Tower <A> ₹"
	doc := &models.Document{Records: []*models.Property{{Name: &name}}, Single: true}

	body, err := EncodeDocument(doc)
	if err != nil {
		t.Fatalf("EncodeDocument: %v", err)
	}
	out := string(body)
	if !strings.HasPrefix(out, "{\n    \"property_id\": null") {
		t.Errorf("unexpected layout:\n%s", out)
	}
	if !strings.Contains(out, `"name": "Tower <A> ₹"`) {
		t.Errorf("name was escaped:\n%s", out)
	}
}

func TestWriteJSONCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	if err := WriteJSON(path, []byte("[]\n")); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "[]\n" {
		t.Errorf("got %q", got)
	}
}

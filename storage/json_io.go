package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/pretty"

	"propalyze-cleaner/models"
)

var prettyOptions = &pretty.Options{Width: 80, Prefix: "", Indent: "    ", SortKeys: false}

// ReadDocument loads a scraped JSON document, keeping object keys in the
// order they appear in the file.
func ReadDocument(path string) (models.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Null(), fmt.Errorf("json: read %q: %w", path, err)
	}
	doc, err := models.ParseJSON(data)
	if err != nil {
		return models.Null(), fmt.Errorf("json: parse %q: %w", path, err)
	}
	return doc, nil
}

// EncodeDocument renders a cleaned document as indented JSON. Non-ASCII text
// and HTML characters are written as-is.
func EncodeDocument(doc *models.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("json: encode: %w", err)
	}
	return pretty.PrettyOptions(buf.Bytes(), prettyOptions), nil
}

// WriteJSON writes body to path, creating intermediate directories.
func WriteJSON(path string, body []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("json: create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("json: write %q: %w", path, err)
	}
	return nil
}

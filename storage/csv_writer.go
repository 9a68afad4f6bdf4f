package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"propalyze-cleaner/models"
)

var csvHeader = []string{
	"property_id", "name", "bhk", "property_type", "developer", "project",
	"floor_current", "floor_total", "transaction_type", "facing",
	"furnished_status", "ownership_type", "latitude", "longitude",
	"locality", "region", "property_url", "super_built_up_area",
	"total_area_sqft", "carpet_area_sqft", "price_per_sqft", "price_in_inr",
	"property_yield", "lifts", "status", "parking_count", "parking_type",
	"photo_count", "locality_photo_count",
}

// CSVWriter writes the flat scalar columns of cleaned properties to a CSV
// file. Nested fields are reduced to counts. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one row per property. Null fields become empty cells.
func (c *CSVWriter) Write(properties []*models.Property) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range properties {
		if err := c.writer.Write(csvRow(p)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func csvRow(p *models.Property) []string {
	return []string{
		str(p.PropertyID), str(p.Name), integer(p.BHK), str(p.PropertyType),
		str(p.Developer), str(p.Project),
		integer(p.FloorCurrent), integer(p.FloorTotal), str(p.TransactionType), str(p.Facing),
		str(p.FurnishedStatus), str(p.OwnershipType), decimal(p.Latitude), decimal(p.Longitude),
		str(p.Locality), str(p.Region), str(p.PropertyURL), decimal(p.SuperBuiltUpArea),
		decimal(p.TotalAreaSqft), decimal(p.CarpetAreaSqft), decimal(p.PricePerSqft), decimal(p.PriceInINR),
		decimal(p.PropertyYield), integer(p.Lifts), str(p.Status), integer(p.ParkingCount), str(p.ParkingType),
		strconv.Itoa(len(p.Photos)), strconv.Itoa(len(p.LocalityPhotos)),
	}
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func integer(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func decimal(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

package models

import (
	"bytes"
	"encoding/json"
)

// LocalityRating holds the per-neighbourhood scores published with a listing.
// It is always present on a Property, with every field nil when unknown.
type LocalityRating struct {
	Connectivity    *float64 `json:"connectivity"`
	Safety          *float64 `json:"safety"`
	Traffic         *float64 `json:"traffic"`
	Environment     *float64 `json:"environment"`
	Market          *float64 `json:"market"`
	AreaDescription *string  `json:"area_description"`
}

// HistoricalPricePoint is one month of a locality's average price series.
type HistoricalPricePoint struct {
	Month string   `json:"month"`
	Price *float64 `json:"price"`
}

// Property is the cleaned, strictly-typed listing ready for storage.
type Property struct {
	PropertyID      *string  `json:"property_id"`
	Name            *string  `json:"name"`
	BHK             *int     `json:"bhk"`
	PropertyType    *string  `json:"property_type"`
	Developer       *string  `json:"developer"`
	Project         *string  `json:"project"`
	FloorCurrent    *int     `json:"floor_current"`
	FloorTotal      *int     `json:"floor_total"`
	TransactionType *string  `json:"transaction_type"`
	Facing          *string  `json:"facing"`
	FurnishedStatus *string  `json:"furnished_status"`
	OwnershipType   *string  `json:"ownership_type"`
	Description     *string  `json:"description"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	Locality        *string  `json:"locality"`
	Region          *string  `json:"region"`
	PropertyURL     *string  `json:"property_url"`

	SuperBuiltUpArea *float64 `json:"super_built_up_area"`
	TotalAreaSqft    *float64 `json:"total_area_sqft"`
	CarpetAreaSqft   *float64 `json:"carpet_area_sqft"`
	PricePerSqft     *float64 `json:"price_per_sqft"`
	PriceInINR       *float64 `json:"price_in_inr"`
	PropertyYield    *float64 `json:"property_yield"`
	Lifts            *int     `json:"lifts"`

	Status       *string `json:"status"`
	ParkingCount *int    `json:"parking_count"`
	ParkingType  *string `json:"parking_type"`

	Photos                  []string               `json:"photos"`
	LocalityPhotos          []string               `json:"locality_photos"`
	LocalityRatings         LocalityRating         `json:"locality_ratings"`
	HistoricalPriceLocality []HistoricalPricePoint `json:"historical_price_locality"`

	// Raw is the scraped record exactly as it was received.
	Raw Value `json:"raw"`
}

// Document is the cleaned counterpart of an input document: a single
// object in gives a single object out, a list in gives a list out.
type Document struct {
	Records []*Property
	Single  bool
}

// Len returns the number of records in the document.
func (d *Document) Len() int { return len(d.Records) }

// MarshalJSON writes a single object or an array depending on the input
// shape. Text, including HTML characters, is written as-is.
func (d *Document) MarshalJSON() ([]byte, error) {
	var body any = d.Records
	if d.Single && len(d.Records) == 1 {
		body = d.Records[0]
	} else if d.Records == nil {
		body = []*Property{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return nil, err
	}
	// Encoder terminates every value with a newline.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// InsightReport holds the computed analytics over the cleaned dataset.
type InsightReport struct {
	TotalProperties      int
	UnresolvedIdentity   int
	PricedProperties     int
	AveragePrice         float64
	MinPrice             float64
	MaxPrice             float64
	AveragePricePerSqft  float64
	MostExpensive        *Property
	TopYield             []*Property
	PropertiesByLocality map[string]int
}

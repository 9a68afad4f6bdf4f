package services

import (
	"strings"

	"propalyze-cleaner/models"
)

// RawRecord is a scraped record indexed for case-insensitive key lookup.
// Building the index once per record keeps repeated alias lookups cheap.
type RawRecord struct {
	value   models.Value
	byLower map[string]models.Value
}

// NewRawRecord indexes v. Anything other than a map yields an empty record.
func NewRawRecord(v models.Value) RawRecord {
	idx := make(map[string]models.Value, len(v.Fields()))
	if v.IsMap() {
		// Keys differing only in case collapse onto the last one seen.
		for _, f := range v.Fields() {
			idx[strings.ToLower(f.Key)] = f.Value
		}
	}
	return RawRecord{value: v, byLower: idx}
}

// Value returns the record exactly as it was received.
func (r RawRecord) Value() models.Value { return r.value }

// Resolve returns the value of the first candidate key present in the
// record, comparing keys case-insensitively. It returns null when no
// candidate matches.
func (r RawRecord) Resolve(candidates ...string) models.Value {
	for _, c := range candidates {
		if v, ok := r.byLower[strings.ToLower(c)]; ok {
			return v
		}
	}
	return models.Null()
}

// Resolve is a one-shot form of RawRecord.Resolve.
func Resolve(record models.Value, candidates ...string) models.Value {
	return NewRawRecord(record).Resolve(candidates...)
}

// Alias groups, in priority order. Canonical field names come last so a
// cleaned record resolves to itself.
var (
	propertyIDKeys      = []string{"Property ID", "PropertyId", "property_id", "property id", "id"}
	nameKeys            = []string{"Name", "name", "Name "}
	latitudeKeys        = []string{"Latitude", "latitude", "lat"}
	longitudeKeys       = []string{"Longitude", "longitude", "lon"}
	bhkKeys             = []string{"BHK", "bhk", "Rooms", "rooms"}
	propertyTypeKeys    = []string{"type", "property_type", "Property Type", "Type"}
	developerKeys       = []string{"Developer", "developer"}
	projectKeys         = []string{"Project", "project"}
	floorCurrentKeys    = []string{"Floor (current)", "Floor_current", "floor_current"}
	floorTotalKeys      = []string{"Floor (total)", "Floor_total", "floor_total"}
	floorKeys           = []string{"Floor", "Floor Size", "FloorSize"}
	transactionTypeKeys = []string{"Transaction type", "transaction_type", "Transaction Type"}
	facingKeys          = []string{"Facing", "facing"}
	furnishedKeys       = []string{"Furnishing", "Furnished Status", "FurnishedStatus", "Furnished", "furnished_status"}
	ownershipKeys       = []string{"Type of Ownership", "ownership_type", "Type Of Ownership"}
	descriptionKeys     = []string{"Description", "description"}
	localityKeys        = []string{"Locality", "locality", "Locality "}
	regionKeys          = []string{"Region", "region"}
	propertyURLKeys     = []string{"Property URL", "property_url", "Property Url", "PropertyUrl"}
	superBuiltUpKeys    = []string{"Super Built-up Area", "super_built_up_area", "Super Builtup Area", "Super Built-up"}
	totalAreaKeys       = []string{"Total Area (sqft)", "Total Area", "total_area", "Floor Size", "FloorSize", "total_area_sqft"}
	carpetAreaKeys      = []string{"Carpet Area (sqft)", "Carpet Area", "carpet_area", "carpet_area_sqft"}
	pricePerSqftKeys    = []string{"Price Per Sqft", "PricePerSqft", "price_per_sqft"}
	priceKeys           = []string{"Price (INR)", "Price", "price_in_inr", "price"}
	yieldKeys           = []string{"Property Yield (%)", "Property Yield", "property_yield"}
	statusKeys          = []string{"Status", "status"}
	parkingCountKeys    = []string{"parking_count", "Car parking", "Car Parking", "parkingCount"}
	parkingTypeKeys     = []string{"parking_type", "Parking Type"}
	liftsKeys           = []string{"Lifts", "lifts"}
	localityRatingKeys  = []string{"Locality Ratings", "Locality_Ratings", "locality_ratings", "locality ratings"}
	historicalKeys      = []string{"Historical Price (Locality)", "Historical Price", "historical_prices"}
)

// PropertyPhotoKeys and LocalityPhotoKeys are the photo alias groups, in the
// order their lists are concatenated.
var (
	PropertyPhotoKeys = []string{
		"Project Photos", "ProjectPhotos", "project_photos", "project photos",
		"property photos", "property_photos", "Property Photos", "PropertyPhotos",
		"photos",
	}
	LocalityPhotoKeys = []string{"Locality Photos", "LocalityPhotos", "locality_photos", "locality photos"}
)

// textField resolves a free-text field. Falsy scalars ("", 0, false) count
// as missing, other numbers and booleans are kept as their text and
// containers are dropped.
func textField(r RawRecord, candidates ...string) *string {
	return scalarText(r.Resolve(candidates...))
}

func scalarText(v models.Value) *string {
	switch v.Kind() {
	case models.KindString, models.KindNumber, models.KindBool:
		if !v.Truthy() {
			return nil
		}
		s := v.Text()
		return &s
	default:
		return nil
	}
}

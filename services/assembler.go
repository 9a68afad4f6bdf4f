package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"propalyze-cleaner/metrics"
	"propalyze-cleaner/models"
	"propalyze-cleaner/utils"
)

// ErrInputShape is returned when a document is neither an object nor an
// array.
var ErrInputShape = errors.New("input must be a JSON object or an array of objects")

// Assembler turns scraped records into canonical properties.
type Assembler struct {
	logger      *utils.Logger
	concurrency int
	metrics     *metrics.Registry
}

// NewAssembler creates an Assembler that spreads records over concurrency
// workers. reg may be nil.
func NewAssembler(logger *utils.Logger, concurrency int, reg *metrics.Registry) *Assembler {
	return &Assembler{logger: logger, concurrency: concurrency, metrics: reg}
}

// Assemble cleans every record of doc. An object yields a single-record
// document and an array yields a list in the same order; an array whose
// only element is itself an array is unwrapped once first.
func (a *Assembler) Assemble(doc models.Value) (*models.Document, error) {
	start := time.Now()

	var (
		records []models.Value
		single  bool
	)
	switch doc.Kind() {
	case models.KindMap:
		records, single = []models.Value{doc}, true
	case models.KindList:
		records = doc.Items()
		if len(records) == 1 && records[0].IsList() {
			a.logger.Debug("[assembler] Unwrapping double-bracketed input")
			records = records[0].Items()
		}
	default:
		return nil, fmt.Errorf("%w: got %s", ErrInputShape, doc.Kind())
	}

	out := make([]*models.Property, len(records))
	pool := utils.NewWorkerPool(a.concurrency)
	pool.ForEachIndex(len(records), func(i int) {
		out[i] = a.AssembleRecord(records[i])
	})

	unresolved := 0
	for _, p := range out {
		if p.PropertyID == nil {
			unresolved++
		}
	}

	if a.metrics != nil {
		a.metrics.AssembleSec.Observe(time.Since(start).Seconds())
	}
	a.logger.Info("[assembler] Assembled %d records (%d without property_id) in %v",
		len(out), unresolved, time.Since(start).Round(time.Millisecond))

	return &models.Document{Records: out, Single: single}, nil
}

// draft carries the values later derivation steps depend on.
type draft struct {
	record       RawRecord
	property     *models.Property
	sbArea       *float64
	sbPricePerSq *float64
}

var totalAreaChain = []strategy[*draft, float64]{
	{name: "explicit", resolve: func(d *draft) *float64 {
		return ToFloat(d.record.Resolve(totalAreaKeys...))
	}},
	{name: "super_built_up", resolve: func(d *draft) *float64 { return d.sbArea }},
}

var pricePerSqftChain = []strategy[*draft, float64]{
	// An explicit zero is a placeholder, not a price.
	{name: "explicit", resolve: func(d *draft) *float64 {
		pps := ToFloat(d.record.Resolve(pricePerSqftKeys...))
		if pps == nil || *pps == 0 {
			return nil
		}
		return pps
	}},
	{name: "super_built_up", resolve: func(d *draft) *float64 { return d.sbPricePerSq }},
	{name: "price_over_area", resolve: func(d *draft) *float64 {
		price, area := d.property.PriceInINR, d.property.TotalAreaSqft
		if price == nil || area == nil || *area <= 0 {
			return nil
		}
		return finite(*price / *area)
	}},
}

// AssembleRecord cleans a single record. The steps run in a fixed order
// because area and price backfills read values set by earlier steps.
func (a *Assembler) AssembleRecord(raw models.Value) *models.Property {
	r := NewRawRecord(raw)
	p := &models.Property{}

	id, idSource := deriveID(r)
	p.PropertyID = id
	p.Name = textField(r, nameKeys...)
	p.BHK = ExtractBHK(r, p.Name)
	p.PropertyType = textField(r, propertyTypeKeys...)
	p.Developer = textField(r, developerKeys...)
	p.Project = textField(r, projectKeys...)
	p.TransactionType = textField(r, transactionTypeKeys...)
	p.Facing = textField(r, facingKeys...)
	p.OwnershipType = textField(r, ownershipKeys...)
	p.Description = textField(r, descriptionKeys...)
	p.Latitude = ToFloat(r.Resolve(latitudeKeys...))
	p.Longitude = ToFloat(r.Resolve(longitudeKeys...))
	p.Locality = textField(r, localityKeys...)
	p.Region = textField(r, regionKeys...)
	p.PropertyURL = textField(r, propertyURLKeys...)

	p.FloorCurrent, p.FloorTotal = ExtractFloor(r)

	d := &draft{record: r, property: p}
	d.sbArea, d.sbPricePerSq = ExtractSuperBuiltUp(r)
	p.SuperBuiltUpArea = d.sbArea

	var areaSource, ppsSource string
	p.TotalAreaSqft, areaSource = firstResolved(d, totalAreaChain)
	p.CarpetAreaSqft = ToFloat(r.Resolve(carpetAreaKeys...))

	p.PriceInINR = resolvePrice(r.Resolve(priceKeys...))
	p.PricePerSqft, ppsSource = firstResolved(d, pricePerSqftChain)
	p.PropertyYield = ToFloat(r.Resolve(yieldKeys...))
	p.Lifts = toInt(ToFloat(r.Resolve(liftsKeys...)))

	p.ParkingCount, p.ParkingType = ExtractParking(r)

	p.Photos = CollectPhotos(r, PropertyPhotoKeys)
	p.LocalityPhotos = CollectPhotos(r, LocalityPhotoKeys)

	p.LocalityRatings = NormalizeLocalityRating(r.Resolve(localityRatingKeys...))
	p.HistoricalPriceLocality = NormalizeHistoricalPrices(r.Resolve(historicalKeys...))

	p.FurnishedStatus = titleCase(textField(r, furnishedKeys...))
	p.Status = titleCase(textField(r, statusKeys...))

	p.Raw = raw

	a.observe(p, idSource, areaSource, ppsSource)
	return p
}

func (a *Assembler) observe(p *models.Property, idSource, areaSource, ppsSource string) {
	if idSource == "" {
		a.logger.Debug("[assembler] No property_id derivable for %q", deref(p.Name))
	}
	if ppsSource == "price_over_area" {
		a.logger.Debug("[assembler] %s: price_per_sqft derived from price and total area", deref(p.PropertyID))
	}

	if a.metrics == nil {
		return
	}
	a.metrics.Assembled.Inc()
	if idSource == "" {
		a.metrics.IdentityUnresolved.Inc()
	}
	a.metrics.FieldSource.WithLabelValues("property_id", sourceLabel(idSource)).Inc()
	a.metrics.FieldSource.WithLabelValues("total_area_sqft", sourceLabel(areaSource)).Inc()
	a.metrics.FieldSource.WithLabelValues("price_per_sqft", sourceLabel(ppsSource)).Inc()
}

// resolvePrice parses textual prices and coerces anything else directly.
func resolvePrice(v models.Value) *float64 {
	if s, ok := v.Str(); ok {
		return ParsePrice(s)
	}
	return ToFloat(v)
}

// titleCase trims and title-cases s. Already title-cased text is unchanged.
func titleCase(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	t = cases.Title(language.English).String(t)
	return &t
}

func sourceLabel(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

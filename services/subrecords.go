package services

import (
	"propalyze-cleaner/models"
)

// NormalizeLocalityRating converts a raw ratings map. Anything that is not
// a map gives the all-nil rating.
func NormalizeLocalityRating(raw models.Value) models.LocalityRating {
	if !raw.IsMap() {
		return models.LocalityRating{}
	}

	score := func(key string) *float64 {
		v, _ := raw.Get(key)
		return ToFloat(v)
	}

	rating := models.LocalityRating{
		Connectivity: score("connectivity"),
		Safety:       score("safety"),
		Traffic:      score("traffic"),
		Environment:  score("environment"),
		Market:       score("market"),
	}
	for _, key := range []string{"area_description", "area description"} {
		v, _ := raw.Get(key)
		if desc := scalarText(v); desc != nil {
			rating.AreaDescription = desc
			break
		}
	}
	return rating
}

// NormalizeHistoricalPrices turns a month→price map into points in the
// map's own order. Unparseable prices are kept as nil. Anything other than
// a map yields no points.
func NormalizeHistoricalPrices(raw models.Value) []models.HistoricalPricePoint {
	points := make([]models.HistoricalPricePoint, 0, len(raw.Fields()))
	if !raw.IsMap() {
		return points
	}

	// A repeated month keeps its first position and its last price.
	position := make(map[string]int, len(raw.Fields()))
	for _, f := range raw.Fields() {
		price := ToFloat(f.Value)
		if i, dup := position[f.Key]; dup {
			points[i].Price = price
			continue
		}
		position[f.Key] = len(points)
		points = append(points, models.HistoricalPricePoint{Month: f.Key, Price: price})
	}
	return points
}

package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"propalyze-cleaner/models"
	"propalyze-cleaner/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(properties []*models.Property) *models.InsightReport {
	report := &models.InsightReport{
		PropertiesByLocality: make(map[string]int),
	}

	if len(properties) == 0 {
		return report
	}

	report.TotalProperties = len(properties)

	var priced []*models.Property
	var withYield []*models.Property
	var ppsTotal float64
	var ppsCount int

	for _, p := range properties {
		if p.PropertyID == nil {
			report.UnresolvedIdentity++
		}
		if p.PriceInINR != nil && *p.PriceInINR > 0 {
			priced = append(priced, p)
		}
		if p.PropertyYield != nil && *p.PropertyYield > 0 {
			withYield = append(withYield, p)
		}
		if p.PricePerSqft != nil && *p.PricePerSqft > 0 {
			ppsTotal += *p.PricePerSqft
			ppsCount++
		}
		if p.Locality != nil && *p.Locality != "" {
			report.PropertiesByLocality[*p.Locality]++
		}
	}

	// Price stats (only properties with a positive price)
	report.PricedProperties = len(priced)
	if len(priced) > 0 {
		report.MinPrice = *priced[0].PriceInINR
		report.MaxPrice = *priced[0].PriceInINR
		report.MostExpensive = priced[0]
		var total float64
		for _, p := range priced {
			price := *p.PriceInINR
			total += price
			if price < report.MinPrice {
				report.MinPrice = price
			}
			if price > report.MaxPrice {
				report.MaxPrice = price
				report.MostExpensive = p
			}
		}
		report.AveragePrice = round2(total / float64(len(priced)))
		report.MinPrice = round2(report.MinPrice)
		report.MaxPrice = round2(report.MaxPrice)
	}
	if ppsCount > 0 {
		report.AveragePricePerSqft = round2(ppsTotal / float64(ppsCount))
	}

	// Top 5 by yield
	sort.SliceStable(withYield, func(i, j int) bool {
		return *withYield[i].PropertyYield > *withYield[j].PropertyYield
	})
	if len(withYield) > 5 {
		report.TopYield = withYield[:5]
	} else {
		report.TopYield = withYield
	}

	s.logger.Debug("[insights] %d properties, %d priced, %d localities",
		report.TotalProperties, report.PricedProperties, len(report.PropertiesByLocality))
	return report
}

// Print renders the report as a coloured terminal summary.
func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 PROPERTY DATASET INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total properties       : \033[1m%d\033[0m\n", r.TotalProperties)
	fmt.Fprintf(w, "  Without property_id    : \033[1m%d\033[0m\n", r.UnresolvedIdentity)
	fmt.Fprintln(w)

	// Price Stats
	fmt.Fprintf(w, "\033[1;33m  Price Statistics (INR)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.PricedProperties > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m₹%s\033[0m\n", formatINR(r.AveragePrice))
		fmt.Fprintf(w, "  Minimum price : \033[1;32m₹%s\033[0m\n", formatINR(r.MinPrice))
		fmt.Fprintf(w, "  Maximum price : \033[1;32m₹%s\033[0m\n", formatINR(r.MaxPrice))
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	if r.AveragePricePerSqft > 0 {
		fmt.Fprintf(w, "  Avg per sqft  : \033[1;32m₹%.2f\033[0m\n", r.AveragePricePerSqft)
	}
	fmt.Fprintln(w)

	// Most Expensive
	if r.MostExpensive != nil {
		fmt.Fprintf(w, "\033[1;33m  Most Expensive Property\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(derefOr(r.MostExpensive.Name, "(unnamed)"), 50))
		fmt.Fprintf(w, "  Locality : %s\n", derefOr(r.MostExpensive.Locality, "-"))
		fmt.Fprintf(w, "  Price    : \033[1;31m₹%s\033[0m\n", formatINR(*r.MostExpensive.PriceInINR))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Top 5 Properties by Yield\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopYield) == 0 {
		fmt.Fprintf(w, "  No yield data found\n")
	} else {
		for i, p := range r.TopYield {
			name := truncate(derefOr(p.Name, "(unnamed)"), 38)
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%.2f%%\033[0m\n",
				i+1, name, *p.PropertyYield)
		}
	}
	fmt.Fprintln(w)

	// Properties by Locality
	fmt.Fprintf(w, "\033[1;33m  Properties by Locality\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.PropertiesByLocality) == 0 {
		fmt.Fprintf(w, "  No locality data\n")
	} else {
		type locCount struct {
			loc   string
			count int
		}
		var locs []locCount
		for loc, cnt := range r.PropertiesByLocality {
			locs = append(locs, locCount{loc, cnt})
		}
		sort.Slice(locs, func(i, j int) bool {
			if locs[i].count != locs[j].count {
				return locs[i].count > locs[j].count
			}
			return locs[i].loc < locs[j].loc
		})
		for _, lc := range locs {
			bar := strings.Repeat("█", lc.count)
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(lc.loc, 28), bar, lc.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}

// formatINR renders large rupee amounts in lakh/crore units.
func formatINR(v float64) string {
	switch {
	case v >= crore:
		return fmt.Sprintf("%.2f Cr", v/crore)
	case v >= lakh:
		return fmt.Sprintf("%.2f Lakh", v/lakh)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

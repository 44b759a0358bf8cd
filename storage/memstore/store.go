// Package memstore is the driverless store: it loads the pricing and
// centroid CSVs into memory and serves the same read contract as the
// postgres repo. Used for local development (STORE_DRIVER=memory) and as a
// realistic fixture in tests.
package memstore

import (
	"context"
	"io"
	"os"
	"sort"
	"strings"

	"cost-navigator/logic/geo"
	"cost-navigator/logic/ingestion"
	"cost-navigator/types"
)

type row struct {
	providerID       string
	name             string
	city             *string
	state            *string
	zipCode          *string
	lat, lon         *float64
	drgDefinition    string
	coveredCharges   *float64
	totalPayments    *float64
	medicarePayments *float64
	rating           *int
}

// Store holds the corpus in memory. Read-only after construction, so it is
// safe for concurrent requests.
type Store struct {
	rows      []row
	centroids map[string][2]float64
}

// New builds a Store from the pricing and centroid CSV readers.
func New(prices, zips io.Reader) (*Store, error) {
	centroidRows, err := ingestion.ParseZipCSV(zips)
	if err != nil {
		return nil, err
	}
	centroids := make(map[string][2]float64, len(centroidRows))
	for _, c := range centroidRows {
		centroids[c.Zip] = [2]float64{c.Latitude, c.Longitude}
	}

	records, err := ingestion.ParsePriceCSV(prices)
	if err != nil {
		return nil, err
	}

	s := &Store{centroids: centroids}
	for _, rec := range records {
		r := row{
			providerID:       rec.ProviderID,
			name:             rec.Name,
			drgDefinition:    rec.DRGDefinition,
			coveredCharges:   rec.CoveredCharges,
			totalPayments:    rec.TotalPayments,
			medicarePayments: rec.MedicarePayments,
		}
		if rec.City != "" {
			c := rec.City
			r.city = &c
		}
		if rec.State != "" {
			st := rec.State
			r.state = &st
		}
		if rec.ZipCode != "" {
			z := rec.ZipCode
			r.zipCode = &z
			if c, ok := centroids[z]; ok {
				lat, lon := c[0], c[1]
				r.lat, r.lon = &lat, &lon
			}
		}
		rating := ingestion.StableRating(rec.ProviderID)
		r.rating = &rating
		s.rows = append(s.rows, r)
	}
	return s, nil
}

// Open builds a Store from CSV file paths.
func Open(pricesPath, zipsPath string) (*Store, error) {
	pf, err := os.Open(pricesPath)
	if err != nil {
		return nil, err
	}
	defer pf.Close()
	zf, err := os.Open(zipsPath)
	if err != nil {
		return nil, err
	}
	defer zf.Close()
	return New(pf, zf)
}

// SearchProcedures applies the substring text filter and the haversine
// radius cutoff, then sorts per the requested order. Rows without
// coordinates can never satisfy the filter.
func (s *Store) SearchProcedures(_ context.Context, q types.SearchQuery) ([]types.ProviderResult, error) {
	needle := strings.ToLower(q.DRGQuery)

	var out []types.ProviderResult
	for i := range s.rows {
		r := &s.rows[i]
		if needle != "" && !strings.Contains(strings.ToLower(r.drgDefinition), needle) {
			continue
		}
		if r.lat == nil || r.lon == nil {
			continue
		}
		d := geo.DistanceKm(q.Lat, q.Lon, *r.lat, *r.lon)
		if d > float64(q.RadiusKm) {
			continue
		}
		dist := d
		out = append(out, types.ProviderResult{
			ProviderID:              r.providerID,
			Name:                    r.name,
			City:                    r.city,
			State:                   r.state,
			ZipCode:                 r.zipCode,
			MsDrgDefinition:         r.drgDefinition,
			AverageCoveredCharges:   r.coveredCharges,
			AverageTotalPayments:    r.totalPayments,
			AverageMedicarePayments: r.medicarePayments,
			Rating:                  r.rating,
			DistanceKm:              &dist,
		})
	}

	switch q.OrderBy {
	case types.OrderRatingDesc:
		sort.SliceStable(out, func(i, j int) bool {
			ri, rj := out[i].Rating, out[j].Rating
			switch {
			case ri == nil && rj == nil:
				return lessPrice(out[i].AverageCoveredCharges, out[j].AverageCoveredCharges)
			case ri == nil:
				return false
			case rj == nil:
				return true
			case *ri != *rj:
				return *ri > *rj
			default:
				return lessPrice(out[i].AverageCoveredCharges, out[j].AverageCoveredCharges)
			}
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return lessPrice(out[i].AverageCoveredCharges, out[j].AverageCoveredCharges)
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// AverageCoveredCharges aggregates over the same candidate set, skipping
// rows with no price.
func (s *Store) AverageCoveredCharges(ctx context.Context, q types.SearchQuery) (*float64, int64, error) {
	rows, err := s.SearchProcedures(ctx, types.SearchQuery{
		DRGQuery: q.DRGQuery,
		Lat:      q.Lat,
		Lon:      q.Lon,
		RadiusKm: q.RadiusKm,
	})
	if err != nil {
		return nil, 0, err
	}

	sum := 0.0
	var count int64
	for _, r := range rows {
		if r.AverageCoveredCharges == nil {
			continue
		}
		sum += *r.AverageCoveredCharges
		count++
	}
	if count == 0 {
		return nil, 0, nil
	}
	avg := sum / float64(count)
	return &avg, count, nil
}

// Geocode resolves a ZIP against the loaded centroid table.
func (s *Store) Geocode(_ context.Context, zipCode string) (float64, float64, error) {
	c, ok := s.centroids[zipCode]
	if !ok {
		return 0, 0, &types.QueryError{Kind: types.KindInvalidLocation, Input: zipCode}
	}
	return c[0], c[1], nil
}

func lessPrice(a, b *float64) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a < *b
	}
}

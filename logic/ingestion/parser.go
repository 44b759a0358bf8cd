package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// PriceRecord is one cleaned row from the CMS inpatient pricing CSV.
type PriceRecord struct {
	ProviderID       string
	Name             string
	City             string
	State            string
	ZipCode          string
	DRGDefinition    string
	TotalDischarges  *int
	CoveredCharges   *float64
	TotalPayments    *float64
	MedicarePayments *float64
}

// Centroid is a ZIP centroid row from the geocoding CSV.
type Centroid struct {
	Zip       string
	Latitude  float64
	Longitude float64
}

var nonMoneyRe = regexp.MustCompile(`[^0-9.\-]`)

// CleanMoney strips currency formatting and parses the remainder. Empty,
// "nan" and unparseable inputs yield nil, never zero.
func CleanMoney(value string) *float64 {
	s := strings.TrimSpace(value)
	if s == "" || strings.EqualFold(s, "nan") {
		return nil
	}
	s = nonMoneyRe.ReplaceAllString(s, "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// StableRating derives a deterministic pseudo-random rating in [1, 10]
// from the provider id, so repeated loads produce identical ratings.
func StableRating(providerID string) int {
	h := 0
	for _, ch := range providerID {
		h = (h*131 + int(ch)) % 1000003
	}
	return (h % 10) + 1
}

// DRGDefinition assembles the text-matchable procedure definition from the
// CSV's code and description columns.
func DRGDefinition(code, desc string) string {
	def := strings.TrimSpace(code) + " - " + strings.TrimSpace(desc)
	return strings.Trim(def, " -")
}

// ParsePriceCSV reads the CMS pricing CSV (header-indexed, so column order
// does not matter). Rows without a provider id or a DRG definition are
// skipped.
func ParsePriceCSV(r io.Reader) ([]PriceRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := indexColumns(header)

	var records []PriceRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// tolerate bad lines the way the loader always has
			continue
		}

		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		providerID := get("rndrng_prvdr_ccn")
		if providerID == "" {
			continue
		}
		def := DRGDefinition(get("drg_cd"), get("drg_desc"))
		if def == "" {
			continue
		}

		rec := PriceRecord{
			ProviderID:       providerID,
			Name:             get("rndrng_prvdr_org_name"),
			City:             get("rndrng_prvdr_city"),
			State:            get("rndrng_prvdr_state_abrvtn"),
			ZipCode:          get("rndrng_prvdr_zip5"),
			DRGDefinition:    def,
			CoveredCharges:   CleanMoney(get("avg_submtd_cvrd_chrg")),
			TotalPayments:    CleanMoney(get("avg_tot_pymt_amt")),
			MedicarePayments: CleanMoney(get("avg_mdcr_pymt_amt")),
		}
		if d, err := strconv.Atoi(get("tot_dschrgs")); err == nil && d > 0 {
			rec.TotalDischarges = &d
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseZipCSV reads the ZIP centroid CSV. Column names are matched
// loosely (zip/lat/lng or latitude/longitude).
func ParseZipCSV(r io.Reader) ([]Centroid, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read centroid header: %w", err)
	}
	col := indexColumns(header)

	zipIdx, ok := col["zip"]
	if !ok {
		return nil, fmt.Errorf("centroid csv has no zip column")
	}
	latIdx, ok := col["lat"]
	if !ok {
		latIdx, ok = col["latitude"]
	}
	if !ok {
		return nil, fmt.Errorf("centroid csv has no latitude column")
	}
	lonIdx, ok := col["lng"]
	if !ok {
		lonIdx, ok = col["longitude"]
	}
	if !ok {
		return nil, fmt.Errorf("centroid csv has no longitude column")
	}

	var centroids []Centroid
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if zipIdx >= len(row) || latIdx >= len(row) || lonIdx >= len(row) {
			continue
		}
		zip := strings.TrimSpace(row[zipIdx])
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(row[latIdx]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(row[lonIdx]), 64)
		if len(zip) != 5 || latErr != nil || lonErr != nil {
			continue
		}
		centroids = append(centroids, Centroid{Zip: zip, Latitude: lat, Longitude: lon})
	}
	return centroids, nil
}

func indexColumns(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return col
}

package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanMoney(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"$1,234.50", f64(1234.50)},
		{"  20000 ", f64(20000)},
		{"$20,000.00", f64(20000)},
		{"", nil},
		{"nan", nil},
		{"NaN", nil},
		{"n/a", nil},
	}
	for _, tt := range tests {
		got := CleanMoney(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, tt.in)
			continue
		}
		require.NotNil(t, got, tt.in)
		assert.Equal(t, *tt.want, *got, tt.in)
	}
}

func f64(v float64) *float64 { return &v }

func TestStableRating(t *testing.T) {
	r := StableRating("330101")
	assert.GreaterOrEqual(t, r, 1)
	assert.LessOrEqual(t, r, 10)

	// Same id always hashes to the same rating.
	for i := 0; i < 10; i++ {
		assert.Equal(t, r, StableRating("330101"))
	}

	// Different ids spread across the range.
	seen := map[int]bool{}
	for _, id := range []string{"330101", "330102", "330103", "450001", "050112", "100007"} {
		seen[StableRating(id)] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestDRGDefinition(t *testing.T) {
	assert.Equal(t, "470 - MAJOR JOINT REPLACEMENT", DRGDefinition("470", "MAJOR JOINT REPLACEMENT"))
	assert.Equal(t, "470", DRGDefinition(" 470 ", ""))
	assert.Equal(t, "MAJOR JOINT REPLACEMENT", DRGDefinition("", "MAJOR JOINT REPLACEMENT"))
	assert.Empty(t, DRGDefinition("", ""))
}

const priceCSV = `rndrng_prvdr_ccn,rndrng_prvdr_org_name,rndrng_prvdr_city,rndrng_prvdr_state_abrvtn,rndrng_prvdr_zip5,drg_cd,drg_desc,tot_dschrgs,avg_submtd_cvrd_chrg,avg_tot_pymt_amt,avg_mdcr_pymt_amt
330101,GENERAL HOSPITAL,NEW YORK,NY,10001,470,MAJOR JOINT REPLACEMENT,120,"$45,000.00","$12,000.00","$10,500.00"
330102,CITY MEDICAL CENTER,NEW YORK,NY,10002,470,MAJOR JOINT REPLACEMENT,80,nan,"$11,000.00",
,MISSING ID HOSPITAL,NEW YORK,NY,10003,470,MAJOR JOINT REPLACEMENT,10,"$1.00","$1.00","$1.00"
330104,NO DRG HOSPITAL,NEW YORK,NY,10004,,,5,"$1.00","$1.00","$1.00"
`

func TestParsePriceCSV(t *testing.T) {
	records, err := ParsePriceCSV(strings.NewReader(priceCSV))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "330101", first.ProviderID)
	assert.Equal(t, "GENERAL HOSPITAL", first.Name)
	assert.Equal(t, "NY", first.State)
	assert.Equal(t, "10001", first.ZipCode)
	assert.Equal(t, "470 - MAJOR JOINT REPLACEMENT", first.DRGDefinition)
	require.NotNil(t, first.TotalDischarges)
	assert.Equal(t, 120, *first.TotalDischarges)
	require.NotNil(t, first.CoveredCharges)
	assert.Equal(t, 45000.0, *first.CoveredCharges)

	second := records[1]
	assert.Nil(t, second.CoveredCharges)
	assert.Nil(t, second.MedicarePayments)
	require.NotNil(t, second.TotalPayments)
	assert.Equal(t, 11000.0, *second.TotalPayments)
}

func TestParsePriceCSVColumnOrderIndependent(t *testing.T) {
	shuffled := `drg_desc,rndrng_prvdr_ccn,avg_submtd_cvrd_chrg,drg_cd,rndrng_prvdr_org_name
MAJOR JOINT REPLACEMENT,330101,"$45,000.00",470,GENERAL HOSPITAL
`
	records, err := ParsePriceCSV(strings.NewReader(shuffled))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "330101", records[0].ProviderID)
	assert.Equal(t, "470 - MAJOR JOINT REPLACEMENT", records[0].DRGDefinition)
}

func TestParseZipCSV(t *testing.T) {
	zips := `zip,lat,lng
10001,40.7506,-73.9971
94103,37.7726,-122.4099
bad,1.0,2.0
10002,notanumber,-73.99
`
	centroids, err := ParseZipCSV(strings.NewReader(zips))
	require.NoError(t, err)
	require.Len(t, centroids, 2)
	assert.Equal(t, "10001", centroids[0].Zip)
	assert.InDelta(t, 40.7506, centroids[0].Latitude, 1e-9)
	assert.Equal(t, "94103", centroids[1].Zip)
}

func TestParseZipCSVLongColumnNames(t *testing.T) {
	zips := `ZIP,Latitude,Longitude
10001,40.7506,-73.9971
`
	centroids, err := ParseZipCSV(strings.NewReader(zips))
	require.NoError(t, err)
	require.Len(t, centroids, 1)
	assert.InDelta(t, -73.9971, centroids[0].Longitude, 1e-9)
}

func TestParseZipCSVMissingColumns(t *testing.T) {
	_, err := ParseZipCSV(strings.NewReader("zip,elevation\n10001,5\n"))
	assert.Error(t, err)
}

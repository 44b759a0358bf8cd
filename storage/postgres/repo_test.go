package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cost-navigator/types"
)

// Integration tests against a live database. Skipped unless TEST_PG_DSN is
// set, e.g.
//
//	TEST_PG_DSN="host=localhost user=postgres password=postgres dbname=hospital_test port=5432 sslmode=disable" go test ./storage/postgres/
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN not set")
	}
	db, err := InitDB(dsn)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	t.Cleanup(func() {
		db.Exec("TRUNCATE providers, procedures, ratings, zip_centroids RESTART IDENTITY")
	})
	return db
}

func seed(t *testing.T, repo *NavigatorRepo) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, repo.UpsertZipCentroids(ctx, []ZipCentroid{
		{Zip: "10001", Latitude: 40.7506, Longitude: -73.9971},
		{Zip: "10002", Latitude: 40.7157, Longitude: -73.9860},
		{Zip: "94103", Latitude: 37.7726, Longitude: -122.4099},
	}))

	lat1, lon1 := 40.7506, -73.9971
	lat2, lon2 := 40.7157, -73.9860
	lat3, lon3 := 37.7726, -122.4099
	require.NoError(t, repo.UpsertProviders(ctx, []Provider{
		{ProviderID: "330101", Name: "General Hospital", Latitude: &lat1, Longitude: &lon1},
		{ProviderID: "330102", Name: "City Medical Center", Latitude: &lat2, Longitude: &lon2},
		{ProviderID: "050112", Name: "Far Away Hospital", Latitude: &lat3, Longitude: &lon3},
	}))

	p1, p2, p3 := 45000.0, 30000.0, 25000.0
	require.NoError(t, repo.UpsertProcedures(ctx, []Procedure{
		{ProviderID: "330101", MsDrgDefinition: "470 - MAJOR JOINT REPLACEMENT", AverageCoveredCharges: &p1},
		{ProviderID: "330102", MsDrgDefinition: "470 - MAJOR JOINT REPLACEMENT", AverageCoveredCharges: &p2},
		{ProviderID: "050112", MsDrgDefinition: "470 - MAJOR JOINT REPLACEMENT", AverageCoveredCharges: &p3},
		{ProviderID: "330101", MsDrgDefinition: "023 - CRANIOTOMY"},
	}))

	require.NoError(t, repo.UpsertRatings(ctx, []Rating{
		{ProviderID: "330101", Rating: 9},
		{ProviderID: "330102", Rating: 4},
	}))
}

func TestSearchProceduresIntegration(t *testing.T) {
	repo := NewNavigatorRepo(testDB(t))
	seed(t, repo)

	rows, err := repo.SearchProcedures(context.Background(), types.SearchQuery{
		DRGQuery: "470",
		Lat:      40.7506, Lon: -73.9971,
		RadiusKm: 40,
		OrderBy:  types.OrderPriceAsc,
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "330102", rows[0].ProviderID)
	assert.Equal(t, "330101", rows[1].ProviderID)
	require.NotNil(t, rows[0].DistanceKm)
	assert.Less(t, *rows[0].DistanceKm, 40.0)
}

func TestSearchProceduresRatingOrderIntegration(t *testing.T) {
	repo := NewNavigatorRepo(testDB(t))
	seed(t, repo)

	rows, err := repo.SearchProcedures(context.Background(), types.SearchQuery{
		DRGQuery: "470",
		Lat:      40.7506, Lon: -73.9971,
		RadiusKm: 40,
		OrderBy:  types.OrderRatingDesc,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "330101", rows[0].ProviderID)
	require.NotNil(t, rows[0].Rating)
	assert.Equal(t, 9, *rows[0].Rating)
}

func TestAverageCoveredChargesIntegration(t *testing.T) {
	repo := NewNavigatorRepo(testDB(t))
	seed(t, repo)

	avg, count, err := repo.AverageCoveredCharges(context.Background(), types.SearchQuery{
		DRGQuery: "470",
		Lat:      40.7506, Lon: -73.9971,
		RadiusKm: 40,
	})
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.Equal(t, int64(2), count)
	assert.InDelta(t, 37500, *avg, 0.01)

	// The craniotomy row has a NULL charge, so no average and a zero count.
	avg, count, err = repo.AverageCoveredCharges(context.Background(), types.SearchQuery{
		DRGQuery: "craniotomy",
		Lat:      40.7506, Lon: -73.9971,
		RadiusKm: 40,
	})
	require.NoError(t, err)
	assert.Nil(t, avg)
	assert.Zero(t, count)
}

func TestGeocodeIntegration(t *testing.T) {
	repo := NewNavigatorRepo(testDB(t))
	seed(t, repo)

	lat, lon, err := repo.Geocode(context.Background(), "10001")
	require.NoError(t, err)
	assert.InDelta(t, 40.7506, lat, 1e-6)
	assert.InDelta(t, -73.9971, lon, 1e-6)

	_, _, err = repo.Geocode(context.Background(), "99999")
	require.Error(t, err)
	assert.Equal(t, types.KindInvalidLocation, types.KindOf(err))
}

func TestUpsertSemanticsIntegration(t *testing.T) {
	repo := NewNavigatorRepo(testDB(t))
	seed(t, repo)
	ctx := context.Background()

	// Provider re-insert keeps the first row.
	require.NoError(t, repo.UpsertProviders(ctx, []Provider{
		{ProviderID: "330101", Name: "Renamed Hospital"},
	}))
	var p Provider
	require.NoError(t, repo.db.Where("provider_id = ?", "330101").First(&p).Error)
	assert.Equal(t, "General Hospital", p.Name)

	// Rating re-insert overwrites.
	require.NoError(t, repo.UpsertRatings(ctx, []Rating{{ProviderID: "330101", Rating: 2}}))
	var rt Rating
	require.NoError(t, repo.db.Where("provider_id = ?", "330101").First(&rt).Error)
	assert.Equal(t, 2, rt.Rating)

	// Procedure re-insert refreshes the money columns.
	newCharge := 50000.0
	require.NoError(t, repo.UpsertProcedures(ctx, []Procedure{{
		ProviderID:            "330101",
		MsDrgDefinition:       "470 - MAJOR JOINT REPLACEMENT",
		AverageCoveredCharges: &newCharge,
	}}))
	var proc Procedure
	require.NoError(t, repo.db.
		Where("provider_id = ? AND ms_drg_definition = ?", "330101", "470 - MAJOR JOINT REPLACEMENT").
		First(&proc).Error)
	require.NotNil(t, proc.AverageCoveredCharges)
	assert.Equal(t, 50000.0, *proc.AverageCoveredCharges)
}

func TestBackfillCoordinatesIntegration(t *testing.T) {
	repo := NewNavigatorRepo(testDB(t))
	ctx := context.Background()

	require.NoError(t, repo.UpsertZipCentroids(ctx, []ZipCentroid{
		{Zip: "10001", Latitude: 40.7506, Longitude: -73.9971},
	}))
	zip := "10001"
	require.NoError(t, repo.UpsertProviders(ctx, []Provider{
		{ProviderID: "330199", Name: "Late Arrival Hospital", ZipCode: &zip},
	}))

	n, err := repo.BackfillCoordinates(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var p Provider
	require.NoError(t, repo.db.Where("provider_id = ?", "330199").First(&p).Error)
	require.NotNil(t, p.Latitude)
	assert.InDelta(t, 40.7506, *p.Latitude, 1e-6)
}

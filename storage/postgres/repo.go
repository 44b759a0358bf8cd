package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cost-navigator/logic/geo"
	"cost-navigator/types"
)

// NavigatorRepo wraps all reads and writes against the pricing corpus. It
// satisfies both the procedure store and the ZipGeocoder contracts consumed
// by the query service.
type NavigatorRepo struct {
	db *gorm.DB
}

func NewNavigatorRepo(db *gorm.DB) *NavigatorRepo {
	return &NavigatorRepo{db: db}
}

// SearchProcedures runs the filtered/joined search: case-insensitive
// substring match on the DRG definition, radius cutoff from the reference
// point, outer join to ratings. Distance is computed in SQL so rows come
// back with distance_km already populated. Providers without coordinates
// are excluded unconditionally.
func (r *NavigatorRepo) SearchProcedures(ctx context.Context, q types.SearchQuery) ([]types.ProviderResult, error) {
	distExpr, distArgs := geo.HaversineSQL("providers.latitude", "providers.longitude", q.Lat, q.Lon)

	drgLike := "%" + q.DRGQuery + "%"

	sel := "providers.provider_id, providers.name, providers.city, providers.state, providers.zip_code, " +
		"procedures.ms_drg_definition, procedures.average_covered_charges, procedures.average_total_payments, " +
		"procedures.average_medicare_payments, ratings.rating, " + distExpr + " AS distance_km"

	tx := r.db.WithContext(ctx).
		Table("providers").
		Select(sel, distArgs...).
		Joins("JOIN procedures ON procedures.provider_id = providers.provider_id").
		Joins("LEFT JOIN ratings ON ratings.provider_id = providers.provider_id").
		Where("procedures.ms_drg_definition ILIKE ?", drgLike).
		Where("providers.latitude IS NOT NULL AND providers.longitude IS NOT NULL").
		Where(distExpr+" <= ?", append(append([]any{}, distArgs...), q.RadiusKm)...)

	switch q.OrderBy {
	case types.OrderRatingDesc:
		tx = tx.Order("ratings.rating DESC NULLS LAST").
			Order("procedures.average_covered_charges ASC NULLS LAST")
	default:
		tx = tx.Order("procedures.average_covered_charges ASC NULLS LAST")
	}

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []types.ProviderResult
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("procedure search failed: %w", err)
	}
	return rows, nil
}

// AverageCoveredCharges aggregates the mean covered charge over the same
// candidate set. NULL charges are excluded from both the mean and the
// count, never treated as zero.
func (r *NavigatorRepo) AverageCoveredCharges(ctx context.Context, q types.SearchQuery) (*float64, int64, error) {
	distExpr, distArgs := geo.HaversineSQL("providers.latitude", "providers.longitude", q.Lat, q.Lon)

	drgLike := "%" + q.DRGQuery + "%"

	var agg struct {
		AvgCost *float64 `gorm:"column:avg_cost"`
		Cnt     int64    `gorm:"column:cnt"`
	}
	err := r.db.WithContext(ctx).
		Table("providers").
		Select("avg(procedures.average_covered_charges) AS avg_cost, count(procedures.average_covered_charges) AS cnt").
		Joins("JOIN procedures ON procedures.provider_id = providers.provider_id").
		Where("procedures.ms_drg_definition ILIKE ?", drgLike).
		Where("providers.latitude IS NOT NULL AND providers.longitude IS NOT NULL").
		Where(distExpr+" <= ?", append(append([]any{}, distArgs...), q.RadiusKm)...).
		Scan(&agg).Error
	if err != nil {
		return nil, 0, fmt.Errorf("average cost aggregate failed: %w", err)
	}
	return agg.AvgCost, agg.Cnt, nil
}

// Geocode resolves a ZIP against the zip_centroids table.
func (r *NavigatorRepo) Geocode(ctx context.Context, zipCode string) (float64, float64, error) {
	var z ZipCentroid
	err := r.db.WithContext(ctx).Where("zip = ?", zipCode).First(&z).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, 0, &types.QueryError{Kind: types.KindInvalidLocation, Input: zipCode}
	}
	if err != nil {
		return 0, 0, fmt.Errorf("zip lookup failed: %w", err)
	}
	return z.Latitude, z.Longitude, nil
}

// --- ETL writes ---

// UpsertProviders inserts new providers, keeping the first-seen row for an
// already-known provider id.
func (r *NavigatorRepo) UpsertProviders(ctx context.Context, providers []Provider) error {
	if len(providers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_id"}},
		DoNothing: true,
	}).Create(&providers).Error
}

// UpsertRatings writes ratings with latest-write-wins semantics.
func (r *NavigatorRepo) UpsertRatings(ctx context.Context, ratings []Rating) error {
	if len(ratings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating"}),
	}).Create(&ratings).Error
}

// UpsertProcedures refreshes the monetary fields for an existing
// (provider, drg definition) pair.
func (r *NavigatorRepo) UpsertProcedures(ctx context.Context, procedures []Procedure) error {
	if len(procedures) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_id"}, {Name: "ms_drg_definition"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_discharges", "average_covered_charges",
			"average_total_payments", "average_medicare_payments",
		}),
	}).Create(&procedures).Error
}

// UpsertZipCentroids loads the geocoding lookup table.
func (r *NavigatorRepo) UpsertZipCentroids(ctx context.Context, centroids []ZipCentroid) error {
	if len(centroids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "zip"}},
		DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude"}),
	}).Create(&centroids).Error
}

// BackfillCoordinates fills provider coordinates from zip_centroids for
// providers that loaded before their centroid did. Used by the nightly job.
func (r *NavigatorRepo) BackfillCoordinates(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE providers SET latitude = z.latitude, longitude = z.longitude
		 FROM zip_centroids z
		 WHERE providers.latitude IS NULL AND providers.zip_code = z.zip`,
	)
	return result.RowsAffected, result.Error
}

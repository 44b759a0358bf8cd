package service

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"cost-navigator/logic/ingestion"
	"cost-navigator/storage/postgres"
)

const etlBatchSize = 5000

// IngestionService loads the pricing corpus and the geocoding lookup into
// postgres. Safe to re-run: all writes are upserts.
type IngestionService struct {
	repo *postgres.NavigatorRepo
	log  *zap.Logger
}

func NewIngestionService(repo *postgres.NavigatorRepo, log *zap.Logger) *IngestionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &IngestionService{repo: repo, log: log}
}

// LoadZipCentroids loads the ZIP centroid CSV into zip_centroids. Run this
// before LoadPrices so provider coordinates resolve on first load.
func (s *IngestionService) LoadZipCentroids(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open centroid csv: %w", err)
	}
	defer f.Close()

	centroids, err := ingestion.ParseZipCSV(f)
	if err != nil {
		return 0, err
	}

	total := 0
	for start := 0; start < len(centroids); start += etlBatchSize {
		end := min(start+etlBatchSize, len(centroids))
		batch := make([]postgres.ZipCentroid, 0, end-start)
		for _, c := range centroids[start:end] {
			batch = append(batch, postgres.ZipCentroid{Zip: c.Zip, Latitude: c.Latitude, Longitude: c.Longitude})
		}
		if err := s.repo.UpsertZipCentroids(ctx, batch); err != nil {
			return total, fmt.Errorf("upsert centroids: %w", err)
		}
		total += len(batch)
	}
	s.log.Info("zip centroids loaded", zap.Int("rows", total))
	return total, nil
}

// LoadPrices loads the CMS pricing CSV: providers (first row wins),
// synthesized ratings (latest write wins) and per-provider procedure
// prices (refreshed on re-load). Coordinates come from zip_centroids;
// providers whose ZIP is not yet loaded stay uncoordinated until the
// backfill job runs.
func (s *IngestionService) LoadPrices(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open prices csv: %w", err)
	}
	defer f.Close()

	records, err := ingestion.ParsePriceCSV(f)
	if err != nil {
		return 0, err
	}

	providerSeen := make(map[string]bool)
	total := 0
	for start := 0; start < len(records); start += etlBatchSize {
		end := min(start+etlBatchSize, len(records))

		var providers []postgres.Provider
		var ratings []postgres.Rating
		var procedures []postgres.Procedure

		for _, rec := range records[start:end] {
			if !providerSeen[rec.ProviderID] {
				providerSeen[rec.ProviderID] = true
				p := postgres.Provider{
					ProviderID: rec.ProviderID,
					Name:       rec.Name,
				}
				if rec.City != "" {
					p.City = &rec.City
				}
				if rec.State != "" {
					p.State = &rec.State
				}
				if rec.ZipCode != "" {
					p.ZipCode = &rec.ZipCode
					if lat, lon, err := s.repo.Geocode(ctx, rec.ZipCode); err == nil {
						p.Latitude = &lat
						p.Longitude = &lon
					}
				}
				providers = append(providers, p)
				ratings = append(ratings, postgres.Rating{
					ProviderID: rec.ProviderID,
					Rating:     ingestion.StableRating(rec.ProviderID),
				})
			}

			procedures = append(procedures, postgres.Procedure{
				ProviderID:              rec.ProviderID,
				MsDrgDefinition:         rec.DRGDefinition,
				TotalDischarges:         rec.TotalDischarges,
				AverageCoveredCharges:   rec.CoveredCharges,
				AverageTotalPayments:    rec.TotalPayments,
				AverageMedicarePayments: rec.MedicarePayments,
			})
		}

		if err := s.repo.UpsertProviders(ctx, providers); err != nil {
			return total, fmt.Errorf("upsert providers: %w", err)
		}
		if err := s.repo.UpsertRatings(ctx, ratings); err != nil {
			return total, fmt.Errorf("upsert ratings: %w", err)
		}
		if err := s.repo.UpsertProcedures(ctx, procedures); err != nil {
			return total, fmt.Errorf("upsert procedures: %w", err)
		}
		total += end - start
	}

	s.log.Info("prices loaded",
		zap.Int("rows", total),
		zap.Int("providers", len(providerSeen)))
	return total, nil
}

// Command etl loads the ZIP centroid and CMS pricing CSVs into postgres.
// Re-running is safe: everything is an upsert.
package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"cost-navigator/logger"
	"cost-navigator/service"
	"cost-navigator/storage/postgres"
	"cost-navigator/vars"
)

func main() {
	pricesPath := flag.String("prices", vars.PricesCSV, "path to the CMS pricing CSV")
	zipsPath := flag.String("zips", vars.ZipsCSV, "path to the ZIP centroid CSV")
	flag.Parse()

	log := logger.New(vars.LogLevel, vars.LogFormat)
	defer log.Sync()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		vars.PGHOST, vars.PGUSER, vars.PGPWD, vars.PGDB, vars.PGPORT)
	db, err := postgres.InitDB(dsn)
	if err != nil {
		log.Fatal("connect postgres", zap.Error(err))
	}
	if err := postgres.Migrate(db); err != nil {
		log.Fatal("migrate schema", zap.Error(err))
	}

	repo := postgres.NewNavigatorRepo(db)
	ingest := service.NewIngestionService(repo, log)
	ctx := context.Background()

	// centroids first so provider coordinates resolve during the price load
	if _, err := ingest.LoadZipCentroids(ctx, *zipsPath); err != nil {
		log.Fatal("load zip centroids", zap.Error(err))
	}
	if _, err := ingest.LoadPrices(ctx, *pricesPath); err != nil {
		log.Fatal("load prices", zap.Error(err))
	}

	// catch providers whose centroid landed in this run
	if rows, err := repo.BackfillCoordinates(ctx); err != nil {
		log.Warn("coordinate backfill failed", zap.Error(err))
	} else if rows > 0 {
		log.Info("coordinates backfilled", zap.Int64("providers", rows))
	}

	log.Info("ETL complete")
}

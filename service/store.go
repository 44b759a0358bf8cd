package service

import (
	"context"

	"cost-navigator/types"
)

// ProcedureStore is the narrow read contract the query engine requires
// from storage. Rows come back with the distance from the reference point
// already computed; ordering and caps are chosen by the caller per intent.
type ProcedureStore interface {
	SearchProcedures(ctx context.Context, q types.SearchQuery) ([]types.ProviderResult, error)
	AverageCoveredCharges(ctx context.Context, q types.SearchQuery) (avg *float64, count int64, err error)
}

// ParamsExtractor resolves a free-text question into structured params.
type ParamsExtractor interface {
	Extract(ctx context.Context, question string) (types.QueryParams, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"cost-navigator/logic/geo"
	"cost-navigator/logic/nl"
	"cost-navigator/types"
	"cost-navigator/vars"
)

// Fixed user-visible answers.
const (
	ScopeRejectionMsg = "I can only help with hospital pricing and quality information. Please ask about medical procedures, costs, or hospital ratings."
	NoMatchMsg        = "No matching hospitals found within the radius."
	NoAverageMsg      = "No matching hospitals found to compute an average."
	MissingZipMsg     = "Please include a 5-digit ZIP code in your question."
	InvalidZipMsg     = "Invalid or unsupported ZIP code for geocoding."
)

// QueryService owns the question-to-answer pipeline: scope gate, parameter
// extraction, geocoding, and the per-intent ranked search. Stateless
// between requests; every collaborator is injected.
type QueryService struct {
	store     ProcedureStore
	geocoder  geo.ZipGeocoder
	extractor ParamsExtractor
	log       *zap.Logger
}

func NewQueryService(store ProcedureStore, geocoder geo.ZipGeocoder, extractor ParamsExtractor, log *zap.Logger) *QueryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QueryService{
		store:     store,
		geocoder:  geocoder,
		extractor: extractor,
		log:       log,
	}
}

// Ask answers one natural-language question. Out-of-scope questions get
// the fixed rejection answer without any downstream call; a question with
// no resolvable ZIP is rejected before geocoding.
func (s *QueryService) Ask(ctx context.Context, question string) (string, error) {
	q := strings.TrimSpace(question)
	if !nl.InScope(q) {
		return ScopeRejectionMsg, nil
	}

	params, err := s.extractor.Extract(ctx, q)
	if err != nil {
		return "", err
	}
	s.log.Debug("extracted params",
		zap.String("intent", string(params.Intent)),
		zap.String("drg", params.DRGQuery),
		zap.String("zip", params.ZipCode),
		zap.Int("radius_km", params.RadiusKm),
		zap.Int("top_k", params.TopK))

	if params.ZipCode == "" {
		return "", &types.QueryError{Kind: types.KindMissingLocation, Input: q}
	}

	lat, lon, err := s.geocoder.Geocode(ctx, params.ZipCode)
	if err != nil {
		return "", classifyUpstream(err, params.ZipCode)
	}

	radius := params.RadiusKm
	if radius <= 0 {
		radius = vars.DefaultRadiusKm
	}
	topK := params.TopK
	if topK <= 0 {
		topK = vars.DefaultTopK
	}

	base := types.SearchQuery{
		DRGQuery: params.DRGQuery,
		Lat:      lat,
		Lon:      lon,
		RadiusKm: radius,
	}

	switch params.Intent {
	case types.IntentBestRated:
		return s.answerBestRated(ctx, base, topK)
	case types.IntentAverageCost:
		return s.answerAverageCost(ctx, base)
	case types.IntentCheapest, types.IntentCompareCosts:
		return s.answerCheapest(ctx, base, topK)
	default:
		return s.answerCheapest(ctx, base, topK)
	}
}

// answerBestRated ranks by rating (unrated last) then price, collapses to
// one row per provider, and caps at topK.
func (s *QueryService) answerBestRated(ctx context.Context, q types.SearchQuery, topK int) (string, error) {
	q.OrderBy = types.OrderRatingDesc
	q.Limit = vars.BestRatedScan
	rows, err := s.store.SearchProcedures(ctx, q)
	if err != nil {
		return "", classifyUpstream(err, q.DRGQuery)
	}
	if len(rows) == 0 {
		return NoMatchMsg, nil
	}

	seen := make(map[string]bool, topK)
	parts := make([]string, 0, topK)
	for _, r := range rows {
		if seen[r.ProviderID] {
			continue
		}
		seen[r.ProviderID] = true
		rating := "N/A"
		if r.Rating != nil {
			rating = fmt.Sprintf("%d", *r.Rating)
		}
		parts = append(parts, fmt.Sprintf("%s (rating: %s)", r.Name, rating))
		if len(parts) >= topK {
			break
		}
	}
	return strings.Join(parts, "; "), nil
}

func (s *QueryService) answerAverageCost(ctx context.Context, q types.SearchQuery) (string, error) {
	avg, count, err := s.store.AverageCoveredCharges(ctx, q)
	if err != nil {
		return "", classifyUpstream(err, q.DRGQuery)
	}
	if avg == nil {
		return NoAverageMsg, nil
	}
	return fmt.Sprintf("Average covered charges: %s across %d hospitals.", formatUSD(*avg), count), nil
}

func (s *QueryService) answerCheapest(ctx context.Context, q types.SearchQuery, topK int) (string, error) {
	q.OrderBy = types.OrderPriceAsc
	q.Limit = topK
	rows, err := s.store.SearchProcedures(ctx, q)
	if err != nil {
		return "", classifyUpstream(err, q.DRGQuery)
	}
	if len(rows) == 0 {
		return NoMatchMsg, nil
	}
	best := rows[0]
	// NULL prices sort last; a nil charge here means no row had a price.
	if best.AverageCoveredCharges == nil {
		return NoMatchMsg, nil
	}
	return fmt.Sprintf("Based on data, %s at %s average covered charges.", best.Name, formatUSD(*best.AverageCoveredCharges)), nil
}

// ListProviders is the structured listing search: no NL stage, implicit
// cheapest-style ordering, capped at 100 rows. Radius defaults to 40 km and
// is clamped to [1, 500].
func (s *QueryService) ListProviders(ctx context.Context, drg, zipCode string, radiusKm int) ([]types.ProviderResult, error) {
	if radiusKm <= 0 {
		radiusKm = vars.DefaultRadiusKm
	}
	if radiusKm < vars.MinRadiusKm {
		radiusKm = vars.MinRadiusKm
	}
	if radiusKm > vars.MaxRadiusKm {
		radiusKm = vars.MaxRadiusKm
	}

	lat, lon, err := s.geocoder.Geocode(ctx, zipCode)
	if err != nil {
		return nil, classifyUpstream(err, zipCode)
	}

	rows, err := s.store.SearchProcedures(ctx, types.SearchQuery{
		DRGQuery: drg,
		Lat:      lat,
		Lon:      lon,
		RadiusKm: radiusKm,
		OrderBy:  types.OrderPriceAsc,
		Limit:    vars.ListingCap,
	})
	if err != nil {
		return nil, classifyUpstream(err, drg)
	}
	return rows, nil
}

// classifyUpstream keeps typed errors intact and surfaces deadline
// overruns from any collaborator as KindUpstreamTimeout.
func classifyUpstream(err error, input string) error {
	var qe *types.QueryError
	if errors.As(err, &qe) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &types.QueryError{Kind: types.KindUpstreamTimeout, Input: input, Err: err}
	}
	return err
}

// formatUSD renders a dollar amount rounded to whole dollars with comma
// grouping, e.g. 20000 -> "$20,000".
func formatUSD(v float64) string {
	n := int64(math.Round(v))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte(',')
		}
	}
	return sign + "$" + b.String()
}

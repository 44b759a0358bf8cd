package nl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/kaptinlin/jsonrepair"
	"go.uber.org/zap"

	"cost-navigator/types"
	"cost-navigator/vars"
)

var strictZipRe = regexp.MustCompile(`^\d{5}$`)

// Extractor turns a free-text question into QueryParams via one
// structured-extraction call to the chat model. It always resolves to a
// value unless the retry budget is exhausted or the context deadline hits.
type Extractor struct {
	chatModel model.ToolCallingChatModel // nil when no credential is configured
	log       *zap.Logger

	// Retry schedule: MaxAttempts total calls, exponential backoff starting
	// at BaseBackoff and capped at MaxBackoff. Applied uniformly regardless
	// of the failure cause.
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

func NewExtractor(chatModel model.ToolCallingChatModel, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{
		chatModel:   chatModel,
		log:         log,
		MaxAttempts: 3,
		BaseBackoff: time.Second,
		MaxBackoff:  8 * time.Second,
	}
}

// Extract resolves the question into structured params. With no chat model
// configured it delegates to FallbackParse immediately; with one configured
// it retries transient failures and, once the budget is spent, reports
// KindUpstreamExtraction instead of quietly degrading to the fallback.
func (e *Extractor) Extract(ctx context.Context, question string) (types.QueryParams, error) {
	if e.chatModel == nil {
		return FallbackParse(question), nil
	}

	backoff := e.BaseBackoff
	var lastErr error
	for attempt := 0; attempt < e.MaxAttempts; attempt++ {
		if attempt > 0 {
			e.log.Warn("retrying parameter extraction",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return types.QueryParams{}, &types.QueryError{
					Kind: types.KindUpstreamTimeout, Input: question, Err: ctx.Err(),
				}
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > e.MaxBackoff {
				backoff = e.MaxBackoff
			}
		}

		params, err := e.extractOnce(ctx, question)
		if err == nil {
			return params, nil
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return types.QueryParams{}, &types.QueryError{
				Kind: types.KindUpstreamTimeout, Input: question, Err: err,
			}
		}
		lastErr = err
	}

	return types.QueryParams{}, &types.QueryError{
		Kind: types.KindUpstreamExtraction, Input: question, Err: lastErr,
	}
}

// rawParams mirrors the extraction schema with loose typing: every field is
// validated value-by-value, a single malformed field never fails the whole
// response.
type rawParams struct {
	Intent   any `json:"intent"`
	DRGQuery any `json:"drg_query"`
	ZipCode  any `json:"zip_code"`
	RadiusKm any `json:"radius_km"`
	TopK     any `json:"top_k"`
}

func (e *Extractor) extractOnce(ctx context.Context, question string) (types.QueryParams, error) {
	resp, err := e.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(vars.EXTRACT),
		schema.UserMessage("Question: " + question),
	})
	if err != nil {
		return types.QueryParams{}, fmt.Errorf("completion call failed: %w", err)
	}

	raw := strings.TrimSpace(resp.Content)
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return types.QueryParams{}, fmt.Errorf("no JSON object in response: %q", truncate(raw, 120))
	}
	raw = raw[start : end+1]

	if repaired, repairErr := jsonrepair.JSONRepair(raw); repairErr == nil {
		raw = repaired
	}

	var rp rawParams
	if err := json.Unmarshal([]byte(raw), &rp); err != nil {
		return types.QueryParams{}, fmt.Errorf("unmarshal extraction response: %w", err)
	}

	return sanitize(rp), nil
}

// sanitize coerces the loosely-typed response into QueryParams. Intent must
// be a member of the enumeration or falls back to the default; a ZIP that
// is not exactly five digits is discarded, not rejected.
func sanitize(rp rawParams) types.QueryParams {
	params := types.QueryParams{
		Intent:   types.ParseIntent(strings.ToLower(strings.TrimSpace(coerceString(rp.Intent)))),
		DRGQuery: strings.TrimSpace(coerceString(rp.DRGQuery)),
	}

	zip := strings.TrimSpace(coerceString(rp.ZipCode))
	if strictZipRe.MatchString(zip) {
		params.ZipCode = zip
	}

	if radius, ok := coerceInt(rp.RadiusKm); ok && radius > 0 {
		params.RadiusKm = radius
	} else {
		params.RadiusKm = vars.DefaultRadiusKm
	}

	if topK, ok := coerceInt(rp.TopK); ok && topK > 0 {
		params.TopK = topK
	} else {
		params.TopK = vars.DefaultTopK
	}

	return params
}

func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", s)
	}
}

func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

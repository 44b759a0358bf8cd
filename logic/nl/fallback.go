package nl

import (
	"regexp"
	"strconv"
	"strings"

	"cost-navigator/types"
	"cost-navigator/vars"
)

var (
	drgRe   = regexp.MustCompile(`(?i)\bdrg\s*(\d{3})\b`)
	zipRe   = regexp.MustCompile(`\b(\d{5})\b`)
	milesRe = regexp.MustCompile(`(?i)\b(\d{1,3})\s*(mile|miles|mi)\b`)
	kmRe    = regexp.MustCompile(`(?i)\b(\d{1,3})\s*(km|kilometers)\b`)
)

// FallbackParse is the regex-based extraction used when no LLM is
// configured. Total and deterministic: the same question always yields the
// same params, and it never fails.
func FallbackParse(question string) types.QueryParams {
	params := types.QueryParams{TopK: vars.DefaultTopK}

	if m := drgRe.FindStringSubmatch(question); m != nil {
		params.DRGQuery = m[1]
	}
	if m := zipRe.FindStringSubmatch(question); m != nil {
		params.ZipCode = m[1]
	}

	// km phrasing wins over miles when both are present
	if m := milesRe.FindStringSubmatch(question); m != nil {
		miles, _ := strconv.Atoi(m[1])
		params.RadiusKm = miles * 1609 / 1000
	}
	if m := kmRe.FindStringSubmatch(question); m != nil {
		params.RadiusKm, _ = strconv.Atoi(m[1])
	}

	q := strings.ToLower(question)
	switch {
	case containsAny(q, "cheap", "cheapest", "low cost", "lowest"):
		params.Intent = types.IntentCheapest
	case containsAny(q, "best", "top", "highest rating", "rated"):
		params.Intent = types.IntentBestRated
	case strings.Contains(q, "average"):
		params.Intent = types.IntentAverageCost
	default:
		params.Intent = types.IntentCheapest
	}

	return params
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

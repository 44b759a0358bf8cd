package types

// --- Intent ---

// Intent is the classified purpose of a natural-language question. It is a
// closed enumeration; dispatch switches on it exhaustively and anything
// unrecognized is coerced to IntentCheapest at the parsing boundary.
type Intent string

const (
	IntentCheapest     Intent = "cheapest"
	IntentBestRated    Intent = "best_rated"
	IntentAverageCost  Intent = "average_cost"
	IntentCompareCosts Intent = "compare_costs"
)

// ParseIntent maps a raw string onto the enumeration. Unknown values fall
// back to IntentCheapest, matching the extraction contract.
func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentCheapest, IntentBestRated, IntentAverageCost, IntentCompareCosts:
		return Intent(s)
	default:
		return IntentCheapest
	}
}

// --- Structs ---

type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

// QueryParams is the structured query extracted from one question.
// Constructed fresh per request, never persisted.
type QueryParams struct {
	Intent   Intent `json:"intent"`
	DRGQuery string `json:"drg_query,omitempty"`
	ZipCode  string `json:"zip_code,omitempty"`
	RadiusKm int    `json:"radius_km,omitempty"` // 0 means unspecified; caller applies the default
	TopK     int    `json:"top_k"`
}

// SearchOrder selects the row ordering the store applies.
type SearchOrder int

const (
	// OrderPriceAsc orders by covered charges ascending, NULLs last.
	OrderPriceAsc SearchOrder = iota
	// OrderRatingDesc orders by rating descending (unrated last), then
	// covered charges ascending NULLs last.
	OrderRatingDesc
)

// SearchQuery is the read contract handed to the procedure store: text
// filter, reference point, radius and ordering. An empty DRGQuery matches
// every procedure definition.
type SearchQuery struct {
	DRGQuery string
	Lat      float64
	Lon      float64
	RadiusKm int
	OrderBy  SearchOrder
	Limit    int
}

package nl

import "strings"

// scopeKeywords is the fixed domain vocabulary. A question mentioning none
// of these is answered with the canned scope message before any LLM call.
var scopeKeywords = []string{
	"drg",
	"ms-drg",
	"hospital",
	"provider",
	"rating",
	"cost",
	"price",
	"charges",
	"payment",
	"near",
	"zip",
}

// InScope reports whether the question is about hospital pricing/quality.
// Pure and total; no external call.
func InScope(question string) bool {
	q := strings.ToLower(question)
	for _, k := range scopeKeywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

package vars

import (
	"os"

	"github.com/joho/godotenv"
)

// .env is loaded before any of the vars below resolve; missing file is fine.
var _ = godotenv.Load()

// GetEnv returns the environment variable value, or fallback when unset.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

const (
	// Model names
	GPT4OMINI = "gpt-4o-mini"
	QWEN7B    = "qwen2.5:7b"
	QWEN3B    = "qwen2.5:3b"

	// Query defaults
	DefaultRadiusKm = 40
	MinRadiusKm     = 1
	MaxRadiusKm     = 500
	DefaultTopK     = 3
	ListingCap      = 100
	// best_rated scans a wider window before per-provider dedup
	BestRatedScan = 500

	// Store drivers
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Environment configuration (Docker-friendly)
var (
	// HTTP
	ServerAddr = GetEnv("SERVER_ADDR", ":8081")

	// PG
	PGUSER = GetEnv("PGUSER", "postgres")
	PGPWD  = GetEnv("PGPWD", "postgres")
	PGDB   = GetEnv("PGDB", "hospital")
	PGHOST = GetEnv("PGHOST", "localhost")
	PGPORT = GetEnv("PGPORT", "5432")

	// Store driver: postgres (default) or memory (runs from CSVs, no DB)
	StoreDriver = GetEnv("STORE_DRIVER", StorePostgres)

	// LLM extraction backend. With no OPENAI_API_KEY and LLM_PROVIDER unset
	// the service runs on the regex fallback parser only.
	LLMProvider = GetEnv("LLM_PROVIDER", "")
	OpenAIKey   = GetEnv("OPENAI_API_KEY", "")
	OpenAIModel = GetEnv("OPENAI_MODEL", GPT4OMINI)
	OpenAIBase  = GetEnv("OPENAI_BASE_URL", "")
	OllamaPath  = GetEnv("OLLAMA_PATH", "http://localhost:11434")
	OllamaModel = GetEnv("OLLAMA_MODEL", QWEN3B)

	// Data files (ETL and memory store)
	PricesCSV = GetEnv("PRICES_CSV", "data/sample_prices_ny.csv")
	ZipsCSV   = GetEnv("ZIPS_CSV", "data/us_zip_centroids.csv")

	// Logging
	LogLevel  = GetEnv("LOG_LEVEL", "info")
	LogFormat = GetEnv("LOG_FORMAT", "text")
)

// EXTRACT is the system instruction for structured parameter extraction.
const EXTRACT = `You are a data assistant that extracts structured parameters for hospital pricing queries.
Return a strict JSON object with keys:
  intent (one of cheapest, best_rated, average_cost, compare_costs),
  drg_query (string or null),
  zip_code (5-digit string or null),
  radius_km (integer or null),
  top_k (int).
If the query mentions miles, convert to kilometers. If not provided, use radius_km=40.
Output JSON only. No markdown.`

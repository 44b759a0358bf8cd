package main

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cost-navigator/api/handler"
	"cost-navigator/api/router"
	"cost-navigator/job"
	"cost-navigator/logic/chat"
	"cost-navigator/logic/geo"
	"cost-navigator/logic/nl"
	"cost-navigator/logger"
	"cost-navigator/service"
	"cost-navigator/storage/memstore"
	"cost-navigator/storage/postgres"
	"cost-navigator/vars"
)

func main() {
	ctx := context.Background()
	log := logger.New(vars.LogLevel, vars.LogFormat)
	defer log.Sync()

	// 1. Storage: postgres by default, in-memory CSVs for local runs
	var store service.ProcedureStore
	var geocoder geo.ZipGeocoder

	switch vars.StoreDriver {
	case vars.StoreMemory:
		mem, err := memstore.Open(vars.PricesCSV, vars.ZipsCSV)
		if err != nil {
			log.Fatal("load memory store", zap.Error(err))
		}
		store, geocoder = mem, mem
		log.Info("memory store ready",
			zap.String("prices_csv", vars.PricesCSV),
			zap.String("zips_csv", vars.ZipsCSV))
	default:
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
		store, geocoder = repo, repo

		// nightly coordinate backfill
		job.StartCron(repo, log)
		log.Info("postgres store ready", zap.String("host", vars.PGHOST), zap.String("db", vars.PGDB))
	}

	// 2. LLM extraction model; nil means the regex fallback parser runs
	chatModel := buildChatModel(ctx, log)
	extractor := nl.NewExtractor(chatModel, log)

	// 3. Services and handlers
	querySvc := service.NewQueryService(store, geocoder, extractor, log)
	navHandler := handler.NewNavigatorHandler(querySvc, log)

	// 4. Web server
	r := gin.Default()
	router.RegisterRoutes(r, navHandler)

	log.Info("server starting", zap.String("addr", vars.ServerAddr))
	if err := r.Run(vars.ServerAddr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func buildChatModel(ctx context.Context, log *zap.Logger) model.ToolCallingChatModel {
	switch {
	case vars.OpenAIKey != "":
		m, err := chat.CreateOpenAIChatModel(ctx, vars.OpenAIKey, vars.OpenAIBase, vars.OpenAIModel)
		if err != nil {
			log.Fatal("init openai model", zap.Error(err))
		}
		log.Info("extraction model ready", zap.String("provider", "openai"), zap.String("model", vars.OpenAIModel))
		return m
	case vars.LLMProvider == "ollama":
		m, err := chat.CreateOllamaChatModel(ctx, vars.OllamaPath, vars.OllamaModel)
		if err != nil {
			log.Fatal("init ollama model", zap.Error(err))
		}
		log.Info("extraction model ready", zap.String("provider", "ollama"), zap.String("model", vars.OllamaModel))
		return m
	default:
		log.Info("no LLM configured, using fallback parser")
		return nil
	}
}

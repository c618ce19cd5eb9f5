package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Mannyasoh/ai-ecommerce-chatbot/agent/agents/orchestrator"
	catalogx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/catalog"
	llmx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/llm"
	orderx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/order"
	routerx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/router"
	statex "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/state"
	toolx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/tool"
	configx "github.com/Mannyasoh/ai-ecommerce-chatbot/pkg/config"
	_ "github.com/Mannyasoh/ai-ecommerce-chatbot/pkg/logger/autoload"
	openrouterx "github.com/Mannyasoh/ai-ecommerce-chatbot/pkg/openrouter"
	"github.com/Mannyasoh/ai-ecommerce-chatbot/pkg/redisx"
	"github.com/rs/zerolog/log"
)

type AppConfig struct {
	SessionID         string `envconfig:"SESSION_ID" split_words:"true" default:"local-session"`
	UseRedisSessions  bool   `envconfig:"USE_REDIS_SESSIONS" split_words:"true" default:"false"`
	UsePostgresOrders bool   `envconfig:"USE_POSTGRES_ORDERS" split_words:"true" default:"false"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("APP")

	openRouterCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	openRouterClient := openrouterx.MustNewClient(*openRouterCfg)

	llmCfg := configx.MustNew[llmx.Config]("LLM")
	capability, err := llmx.NewOpenAICapability(openRouterClient, *llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize llm capability")
	}

	catalog := catalogx.NewMemory(catalogx.DefaultProducts()...)

	orderStore := buildOrderStore(appCfg.UsePostgresOrders)
	pipeline, err := orderx.NewPipeline(orderStore, orderx.NewSequence())
	if err != nil {
		log.Fatal().Err(err).Msg("initialize order pipeline")
	}

	registry := toolx.NewRegistry().MustRegister(
		toolx.SearchProducts(catalog, catalog),
		toolx.ProductDetails(catalog),
		toolx.ProductsByCategory(catalog, catalog),
		toolx.ProductAvailability(catalog, catalog),
		toolx.CreateOrder(pipeline, catalog, catalog),
		toolx.ValidateOrder(catalog, catalog),
		toolx.OrderStatus(orderStore),
		toolx.CancelOrder(orderStore),
	)

	dispatcher, err := toolx.NewDispatcher(registry)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize tool dispatcher")
	}

	router, err := routerx.New(capability)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize intent router")
	}

	sessionStore := buildSessionStore(appCfg.UseRedisSessions)

	svc, err := orchestrator.New(sessionStore, router, capability, dispatcher, registry)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize orchestrator")
	}

	runChatLoop(svc, appCfg.SessionID)
}

func buildOrderStore(usePostgres bool) orderx.Store {
	if !usePostgres {
		return orderx.NewMemoryStore()
	}

	pgCfg := configx.MustNew[orderx.PostgresConfig]("POSTGRES")
	db, err := orderx.NewDB(*pgCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	store, err := orderx.NewBunStore(db)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize order store")
	}
	return store
}

func buildSessionStore(useRedis bool) statex.Store {
	if !useRedis {
		return statex.NewMemoryStore()
	}

	redisCfg := configx.MustNew[redisx.Config]("REDIS")
	client := redisCfg.MustNew()
	store, err := statex.NewRedisStore(client)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize session store")
	}
	return store
}

func runChatLoop(svc *orchestrator.Orchestrator, sessionID string) {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Type a message (or \"exit\" to quit).")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "exit") {
			return
		}

		result, err := svc.HandleTurn(ctx, sessionID, text)
		if err != nil {
			log.Error().Err(err).Msg("turn failed")
			continue
		}
		fmt.Println(result.Reply)
		if result.Order != nil {
			log.Info().Str("order_id", result.Order.OrderID).Msg("order committed")
		}
	}
}

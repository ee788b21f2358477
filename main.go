package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/dermaluz/concierge/agent/agents/engine"
	llmx "github.com/dermaluz/concierge/agent/llm"
	notifyx "github.com/dermaluz/concierge/agent/notify"
	retrievalx "github.com/dermaluz/concierge/agent/retrieval"
	statex "github.com/dermaluz/concierge/agent/state"
	toolx "github.com/dermaluz/concierge/agent/tool"
	configx "github.com/dermaluz/concierge/pkg/config"
	_ "github.com/dermaluz/concierge/pkg/logger/autoload"
	qstashx "github.com/dermaluz/concierge/pkg/qstash"
)

type AppConfig struct {
	SessionID   string `envconfig:"SESSION_ID" split_words:"true" default:"local-session"`
	CallerPhone string `envconfig:"CALLER_PHONE" split_words:"true" default:"0000000000"`

	// StateBackend selects session persistence: "redis" or "postgres".
	StateBackend string `envconfig:"STATE_BACKEND" split_words:"true" default:"redis"`

	EscalationDestination string `envconfig:"ESCALATION_DESTINATION" split_words:"true" required:"true"`
	EscalationRecipient   string `envconfig:"ESCALATION_RECIPIENT" split_words:"true"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")

	pgCfg := configx.MustNew[statex.PostgresConfig]("POSTGRES")
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(pgCfg.DSN),
		pgdriver.WithTimeout(pgCfg.Timeout),
	))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	store, err := buildStore(ctx, *appCfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize session store")
	}

	storeInfo, err := retrievalx.NewSnippetStore(db, retrievalx.CorpusStoreInfo)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize store info corpus")
	}
	productInfo, err := retrievalx.NewSnippetStore(db, retrievalx.CorpusProductInfo)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize product info corpus")
	}
	if err := storeInfo.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("create snippet table")
	}

	qstashCfg := configx.MustNew[qstashx.Config]("QSTASH")
	notifier, err := notifyx.NewQStashNotifier(qstashx.MustNew(*qstashCfg), appCfg.EscalationDestination)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize escalation notifier")
	}

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	models, err := llmx.BuildModels(ctx, *llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build chat models")
	}

	tools := toolx.NewExecutor(storeInfo, productInfo, notifier, appCfg.EscalationRecipient)

	eng, err := engine.New(store, models.Assistant, models.Quiz, models.Digester, tools)
	if err != nil {
		log.Fatal().Err(err).Msg("build turn engine")
	}

	runREPL(ctx, eng, appCfg.SessionID, appCfg.CallerPhone)
}

func buildStore(ctx context.Context, cfg AppConfig, db *bun.DB) (statex.Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.StateBackend)) {
	case "postgres":
		store, err := statex.NewPostgresStoreWithDB(db)
		if err != nil {
			return nil, err
		}
		if err := store.Init(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		redisCfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")
		return statex.NewUpstashRedisStore(*redisCfg)
	}
}

func runREPL(ctx context.Context, eng *engine.Engine, sessionID, callerPhone string) {
	fmt.Println("Dalia lista. Escribe tu mensaje (Ctrl+D para salir).")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		result, err := eng.ProcessTurn(ctx, sessionID, callerPhone, text)
		if err != nil {
			log.Error().Err(err).Msg("process turn failed")
			continue
		}
		fmt.Printf("[%s] %s\n", result.Format, result.Reply)
	}
}

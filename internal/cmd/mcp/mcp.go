// Package mcp parses MCP command flags and wires the kernel behind the
// stdio server.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/louisbranch/hollowmere/internal/ai/openai"
	"github.com/louisbranch/hollowmere/internal/kernel/executor"
	"github.com/louisbranch/hollowmere/internal/kernel/intent"
	"github.com/louisbranch/hollowmere/internal/kernel/linker"
	"github.com/louisbranch/hollowmere/internal/kernel/ontology"
	"github.com/louisbranch/hollowmere/internal/kernel/rules"
	"github.com/louisbranch/hollowmere/internal/mcp/service"
	"github.com/louisbranch/hollowmere/internal/platform/config"
	"github.com/louisbranch/hollowmere/internal/platform/otel"
	"github.com/louisbranch/hollowmere/internal/storage/sqlite"
)

// Config holds MCP command configuration.
type Config struct {
	OntologyPath string `env:"HOLLOWMERE_ONTOLOGY_PATH"    envDefault:"ontology.json"`
	DBPath       string `env:"HOLLOWMERE_DB_PATH"          envDefault:"hollowmere.db"`
	OpenAIKey    string `env:"HOLLOWMERE_OPENAI_API_KEY"`
	Model        string `env:"HOLLOWMERE_COMPLETION_MODEL" envDefault:"gpt-4o-mini"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.OntologyPath, "ontology", cfg.OntologyPath, "path to the ontology document")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the SQLite database")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "completion model for the intent fallback")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run loads the ontology, opens the store, and serves MCP on stdio until
// the context ends.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "mcp")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	document, err := os.ReadFile(cfg.OntologyPath)
	if err != nil {
		return fmt.Errorf("read ontology document: %w", err)
	}
	registry, patterns, synonyms, err := ontology.Decode(document)
	if err != nil {
		return fmt.Errorf("decode ontology document: %w", err)
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	var completion *openai.Client
	if cfg.OpenAIKey != "" {
		completion = openai.New(openai.Config{APIKey: cfg.OpenAIKey})
	}

	entityLinker := linker.New(synonyms)
	var resolver *intent.Resolver
	if completion != nil {
		resolver = intent.New(registry, patterns, entityLinker, completion, cfg.Model)
	} else {
		resolver = intent.New(registry, patterns, entityLinker, nil, cfg.Model)
	}
	router := rules.New(store, store, store)
	runner := executor.New(registry, store, router)

	server, err := service.New(service.Deps{
		Registry: registry,
		Parser:   resolver,
		Runner:   runner,
		Objects:  store,
		Events:   store,
	})
	if err != nil {
		return fmt.Errorf("build MCP server: %w", err)
	}

	return server.Serve(ctx)
}

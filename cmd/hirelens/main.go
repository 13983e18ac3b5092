package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/hirelens/hirelens/internal/config"
	"github.com/hirelens/hirelens/internal/embed"
	"github.com/hirelens/hirelens/internal/extract"
	"github.com/hirelens/hirelens/internal/ingest"
	"github.com/hirelens/hirelens/internal/llm"
	"github.com/hirelens/hirelens/internal/mcp"
	"github.com/hirelens/hirelens/internal/normalize"
	"github.com/hirelens/hirelens/internal/resolve"
	"github.com/hirelens/hirelens/internal/store"
	"github.com/hirelens/hirelens/internal/vector"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	var err error
	switch os.Args[1] {
	case "extract":
		err = runExtract(os.Args[2:])
	case "ingest":
		err = runIngest(os.Args[2:])
	case "resolve":
		err = runResolve(os.Args[2:])
	case "search":
		err = runSearch(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("hirelens %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExtract(args []string) error {
	var path, llmFlag, configPath string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--llm" && i+1 < len(args):
			llmFlag = args[i+1]
			i++
		case args[i] == "--config" && i+1 < len(args):
			configPath = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-") && args[i] != "-":
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			path = args[i]
		}
	}
	if path == "" {
		return fmt.Errorf("usage: hirelens extract <file|-> [--llm provider/model] [--config path]")
	}

	text, err := readInput(path)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	llmCfg, err := llm.ParseLLMFlag(llmFlag)
	if err != nil {
		return err
	}
	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		return err
	}

	pipeline := extract.NewPipeline(provider, cfg, logger())
	res, err := pipeline.Extract(context.Background(), text)
	if err != nil {
		return err
	}

	out := map[string]any{
		"provider":           res.Provider,
		"used_fallback":      res.UsedFallback,
		"overall_confidence": res.Record.OverallConfidence,
		"fields":             res.Record.Fields,
		"errors":             res.Record.Errors,
		"warnings":           append(res.Warnings, res.Record.Warnings...),
	}
	return printJSON(out)
}

func runIngest(args []string) error {
	var path, llmFlag, dbPath, configPath string
	opts := ingest.Options{}
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--recursive" || args[i] == "-r":
			opts.Recursive = true
		case args[i] == "--dry-run" || args[i] == "-n":
			opts.DryRun = true
		case args[i] == "--llm" && i+1 < len(args):
			llmFlag = args[i+1]
			i++
		case args[i] == "--db" && i+1 < len(args):
			dbPath = args[i+1]
			i++
		case args[i] == "--config" && i+1 < len(args):
			configPath = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			path = args[i]
		}
	}
	if path == "" {
		return fmt.Errorf("usage: hirelens ingest <file|dir> [--recursive] [--dry-run] [--llm provider/model]")
	}

	settings, err := config.ResolveSettings(config.SettingsOpts{
		ConfigPath: configPath, CLILLM: llmFlag, CLIDBPath: dbPath,
	})
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	llmCfg, err := llm.ParseLLMFlag(settings.LLM.Value)
	if err != nil {
		return err
	}
	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		return err
	}

	s, err := store.NewStore(store.Config{DBPath: settings.DBPath.Value})
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	if opts.DryRun {
		fmt.Println("Dry run mode — no changes will be written")
	}
	opts.ProgressFn = func(current, total int, file string) {
		fmt.Printf("  [%d/%d] %s\n", current, total, file)
	}

	pipeline := extract.NewPipeline(provider, cfg, logger())
	engine := ingest.NewEngine(s, pipeline, logger())
	result, err := engine.IngestPath(context.Background(), path, opts)
	if err != nil {
		return err
	}
	fmt.Print(ingest.FormatResult(result))
	return nil
}

func runResolve(args []string) error {
	var reference, dbPath, configPath string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--db" && i+1 < len(args):
			dbPath = args[i+1]
			i++
		case args[i] == "--config" && i+1 < len(args):
			configPath = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			reference = args[i]
		}
	}
	if reference == "" {
		return fmt.Errorf("usage: hirelens resolve <reference> [--db path]")
	}

	settings, err := config.ResolveSettings(config.SettingsOpts{
		ConfigPath: configPath, CLIDBPath: dbPath,
	})
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	s, err := store.NewStore(store.Config{DBPath: settings.DBPath.Value})
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	catalog, err := s.Snapshot(context.Background())
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	norm := normalize.New(cfg.Honorifics, cfg.Abbreviations)
	resolver := resolve.NewResolver(norm, cfg.Thresholds.ActionableScore)
	match, candidates := resolver.Resolve(reference, catalog)

	return printJSON(map[string]any{
		"reference":  reference,
		"resolved":   match != nil,
		"match":      match,
		"candidates": candidates,
	})
}

func runSearch(args []string) error {
	var queryText, dbPath string
	limit := 10
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--db" && i+1 < len(args):
			dbPath = args[i+1]
			i++
		case args[i] == "--limit" && i+1 < len(args):
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				return fmt.Errorf("invalid --limit: %s", args[i+1])
			}
			limit = n
			i++
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			if queryText != "" {
				queryText += " "
			}
			queryText += args[i]
		}
	}
	if queryText == "" {
		return fmt.Errorf("usage: hirelens search <query> [--limit n] [--db path]")
	}

	settings, err := config.ResolveSettings(config.SettingsOpts{CLIDBPath: dbPath})
	if err != nil {
		return err
	}
	s, err := store.NewStore(store.Config{DBPath: settings.DBPath.Value})
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	hits, err := s.SearchText(context.Background(), queryText, limit)
	if err != nil {
		return err
	}

	for _, h := range hits {
		fmt.Printf("%s  %-24s %-32s %s  (%.2f)\n",
			h.Employee.DisplayID(), h.Employee.Name, h.Employee.Position,
			h.Employee.Department, h.Score)
	}
	if len(hits) == 0 {
		fmt.Println("No matches.")
	}
	return nil
}

func runServe(args []string) error {
	var llmFlag, embedFlag, dbPath, indexPath, configPath string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--llm" && i+1 < len(args):
			llmFlag = args[i+1]
			i++
		case args[i] == "--embed" && i+1 < len(args):
			embedFlag = args[i+1]
			i++
		case args[i] == "--db" && i+1 < len(args):
			dbPath = args[i+1]
			i++
		case args[i] == "--index" && i+1 < len(args):
			indexPath = args[i+1]
			i++
		case args[i] == "--config" && i+1 < len(args):
			configPath = args[i+1]
			i++
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	settings, err := config.ResolveSettings(config.SettingsOpts{
		ConfigPath: configPath,
		CLILLM:     llmFlag,
		CLIEmbed:   embedFlag,
		CLIDBPath:  dbPath,
		CLIIndex:   indexPath,
	})
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	s, err := store.NewStore(store.Config{DBPath: settings.DBPath.Value})
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	log := logger()
	serverCfg := mcp.ServerConfig{
		Store:   s,
		Config:  cfg,
		Version: version,
		Logger:  log,
	}

	if settings.LLM.Value != "" {
		llmCfg, err := llm.ParseLLMFlag(settings.LLM.Value)
		if err != nil {
			return err
		}
		serverCfg.Provider, err = llm.NewProvider(llmCfg)
		if err != nil {
			return err
		}
	}

	if settings.Embed.Value != "" {
		embedCfg, err := embed.ParseEmbedFlag(settings.Embed.Value)
		if err != nil {
			return err
		}
		serverCfg.Embedder, err = embed.NewClient(embedCfg)
		if err != nil {
			return err
		}
		idx := vector.New(0)
		indexFile := settings.IndexPath.Value
		if indexFile != "" {
			if loaded, err := vector.Load(indexFile); err == nil {
				idx = loaded
			} else if !errors.Is(err, os.ErrNotExist) {
				log.Warn("vector index unreadable, starting empty", "path", indexFile, "error", err)
			}
		}
		serverCfg.Index = idx
		if indexFile != "" {
			defer func() {
				if err := idx.Save(indexFile); err != nil {
					log.Warn("saving vector index failed", "path", indexFile, "error", err)
				}
			}()
		}
	}

	log.Info("starting MCP server", "version", version,
		"model", settings.LLM.Value, "model_from", settings.LLM.Source,
		"embedder", settings.Embed.Value)
	srv := mcp.NewServer(serverCfg)
	return mcpserver.ServeStdio(srv)
}

func runStats(args []string) error {
	var dbPath string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--db" && i+1 < len(args):
			dbPath = args[i+1]
			i++
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	settings, err := config.ResolveSettings(config.SettingsOpts{CLIDBPath: dbPath})
	if err != nil {
		return err
	}
	s, err := store.NewStore(store.Config{DBPath: settings.DBPath.Value})
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	st, err := s.Stats(context.Background())
	if err != nil {
		return err
	}
	return printJSON(st)
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func logger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("HIRELENS_DEBUG") != "" {
		level = slog.LevelDebug
	}
	// Log to stderr; stdout carries MCP traffic when serving.
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printUsage() {
	fmt.Printf(`hirelens %s — resume intelligence engine

Usage:
  hirelens <command> [arguments]

Commands:
  extract <file|->    Extract and validate structured fields from a resume
  ingest <file|dir>   Batch-ingest resume files into the catalog
  resolve <ref>       Resolve a name, misspelling, or EMP-#### id against the catalog
  search <query>      Full-text search over stored employees
  serve               Run the MCP server over stdio
  stats               Show catalog statistics
  version             Print version

Ingest Flags:
  -r, --recursive     Recursively ingest from directories
  -n, --dry-run       Extract and report without writing

Flags:
  --llm provider/model    Model for extraction (e.g. ollama/llama3.1)
  --embed provider/model  Embedder for semantic search (e.g. ollama/nomic-embed-text)
  --db path               SQLite database path (default %s)
  --index path            Vector index file for semantic search
  --config path           YAML vocabulary/threshold overrides
  -h, --help              Show this help message
  -v, --version           Print version

Settings resolve CLI flag > HIRELENS_* env (HIRELENS_DB, HIRELENS_LLM,
HIRELENS_EMBED, HIRELENS_INDEX) > config file.
`, version, store.DefaultDBPath)
}

// Package main is the groupexport CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/futureppo/groupexport/internal/command"
	"github.com/futureppo/groupexport/internal/config"
	"github.com/futureppo/groupexport/internal/export"
	"github.com/futureppo/groupexport/internal/onebot"
	"github.com/futureppo/groupexport/internal/server"
	"github.com/futureppo/groupexport/internal/watcher"
	"github.com/futureppo/groupexport/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/groupexport/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "serve":
		runServe()
	case "export":
		runExport()
	case "export-all":
		runExportAll()
	case "init":
		runInit()
	case "version", "--version", "-v":
		fmt.Printf("groupexport version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`Usage: groupexport <command> [flags]

Commands:
  serve       Run the event server; chat commands trigger exports
  export      Export one group's member roster to an xlsx file
  export-all  Export every joined group into one multi-sheet xlsx file
  init        Write a starter config file
  version     Print the version

Run "groupexport <command> -h" for command flags.
`)
}

// newClient builds the platform client from config.
func newClient(cfg *config.Config, logger *zap.Logger) *onebot.Client {
	return onebot.NewClient(
		cfg.API.BaseURL,
		cfg.API.AccessToken,
		time.Duration(cfg.API.TimeoutSeconds)*time.Second,
		onebot.WithLogger(logger),
	)
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	client := newClient(cfg, logger)
	handler := command.NewHandler(client, &cfg.Bot, logger)
	srv := server.NewServer(handler, client, &cfg.Server, logger)

	// Hot-reload admins and command keywords on config edits.
	watchOpts := []watcher.Option{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.New(resolvedConfigPath, func() {
		reloaded, err := config.Load(resolvedConfigPath)
		if err != nil {
			logger.Warn("config reload failed", zap.Error(err))
			return
		}
		handler.UpdateBot(&reloaded.Bot)
		logger.Info("config reloaded", zap.Int("admins", len(reloaded.Bot.Admins)))
	}, watchOpts...)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Warn("config watcher failed to start", zap.Error(err))
	}

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	groupArg := fs.String("group", "", "group id to export (digits, required)")
	outPath := fs.String("o", "", "output file path (default: the upload filename in the current directory)")
	_ = fs.Parse(os.Args[2:])

	groupID, err := parseGroupID(*groupArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	client := newClient(cfg, logger)
	members, err := client.GetGroupMemberList(context.Background(), groupID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fetch failed: %v\n", err)
		os.Exit(1)
	}
	sheet := export.BuildSheet(members, nil, logger)
	payload, err := export.BuildSingle(sheet, export.SingleSheetName(*groupArg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Workbook assembly failed: %v\n", err)
		os.Exit(1)
	}

	out := *outPath
	if out == "" {
		out = fmt.Sprintf("群聊%s的%d名成员的数据.xlsx", *groupArg, len(sheet.Rows))
	}
	if err := os.WriteFile(out, payload, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Write failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %d members to %s\n", len(sheet.Rows), out)
}

func runExportAll() {
	fs := flag.NewFlagSet("export-all", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outPath := fs.String("o", "", "output file path (default: the upload filename in the current directory)")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	client := newClient(cfg, logger)
	ctx := context.Background()
	groups, err := client.GetGroupList(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fetch failed: %v\n", err)
		os.Exit(1)
	}
	identities := make([]export.GroupIdentity, len(groups))
	for i, g := range groups {
		identities[i] = export.GroupIdentity{ID: g.GroupID, Name: g.GroupName}
	}
	payload, totalMembers, processed, err := export.BuildMulti(identities,
		func(g export.GroupIdentity) ([]json.RawMessage, error) {
			return client.GetGroupMemberList(ctx, g.ID)
		}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Workbook assembly failed: %v\n", err)
		os.Exit(1)
	}
	if processed == 0 {
		fmt.Fprintln(os.Stderr, "No groups exported")
		os.Exit(1)
	}

	out := *outPath
	if out == "" {
		out = fmt.Sprintf("%d个群的%d名成员的数据.xlsx", processed, totalMembers)
	}
	if err := os.WriteFile(out, payload, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Write failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %d members across %d groups to %s\n", totalMembers, processed, out)
}

func runInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path to create")
	_ = fs.Parse(os.Args[2:])

	if _, err := os.Stat(*configPath); err == nil {
		fmt.Fprintf(os.Stderr, "Config already exists: %s\n", *configPath)
		os.Exit(1)
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	if err := os.MkdirAll(filepath.Dir(*configPath), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create config dir: %v\n", err)
		os.Exit(1)
	}
	if err := config.Save(*configPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote starter config to %s\n", *configPath)
}

// parseGroupID validates and parses an all-digits group id argument.
func parseGroupID(arg string) (int64, error) {
	if arg == "" {
		return 0, fmt.Errorf("missing -group flag")
	}
	for _, r := range arg {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("group id must be digits only: %q", arg)
		}
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("group id out of range: %q", arg)
	}
	return id, nil
}

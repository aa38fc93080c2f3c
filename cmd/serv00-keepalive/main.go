package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"serv00_keepalive/internal/config"
	"serv00_keepalive/internal/logbus"
	"serv00_keepalive/internal/notify"
	"serv00_keepalive/internal/runner"
	"serv00_keepalive/internal/store/sqlite"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "./config.yaml", "path to config.yaml")
	noLog := flag.Bool("no-log", false, "disable log file output")
	verbose := flag.Bool("v", false, "verbose (debug) output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	bus := logbus.New()
	defer bus.Close()

	stopConsole := logbus.AttachConsole(bus, os.Stdout, *verbose)
	defer stopConsole()

	if !*noLog && cfg.Settings.LogFile != "" {
		stopFile, err := logbus.AttachFile(bus, cfg.Settings.LogFile)
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		defer stopFile()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var store *sqlite.Store
	if cfg.Storage.SQLitePath != "" {
		store, err = sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("open sqlite: %v", err)
		}
		defer store.Close()
	}

	var notifiers []notify.Notifier
	if cfg.Notify.Email.Enabled {
		notifiers = append(notifiers, notify.NewEmailNotifier(cfg.Notify.Email, bus))
	}

	r := runner.New(runner.Options{
		Accounts:  cfg.Accounts,
		Settings:  cfg.Settings,
		Bus:       bus,
		Store:     store,
		Notifiers: notifiers,
	})
	summary := r.Run(ctx)

	if summary.HasProblems() {
		return 1
	}
	return 0
}

// Command ledgerctl runs operator tasks against the configured ledger store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/config"
	"github.com/mamadbah2/shopledger/internal/ledger"
	"github.com/mamadbah2/shopledger/internal/repository"
	"github.com/mamadbah2/shopledger/internal/repository/store"
	"github.com/mamadbah2/shopledger/internal/service/inventory"
	"github.com/mamadbah2/shopledger/internal/service/reporting"
	"github.com/mamadbah2/shopledger/pkg/logger"
)

func main() {
	envFile := flag.String("env", "", "path to a .env file (defaults to ./.env when present)")
	verbose := flag.Bool("v", false, "log at debug level")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range commands {
		commander.Register(c, "ledger")
	}

	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	log := logger.Must(logger.NewConsole(level))
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitFailure))
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitFailure))
	}

	os.Exit(int(commander.Execute(ctx, a)))
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	backend, err := repository.OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		return nil, err
	}

	policy := ledger.AllowDuplicates
	if cfg.Inventory.UniqueLabels {
		policy = ledger.UniqueLabels
	}

	repo := store.NewLedger(backend, log.Named("repo.ledger"))
	return &app{
		ledger:    repo,
		inventory: inventory.NewService(repo, policy, log.Named("svc.inventory")),
		reports:   reporting.NewService(repo, nil, cfg.Inventory.LowStockThreshold, loc, log.Named("svc.reporting")),
		out:       os.Stdout,
	}, nil
}

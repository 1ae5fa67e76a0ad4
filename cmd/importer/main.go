// Command importer loads Horganice rent reports and bank statement CSVs
// into the canonical ledgers.
//
// Usage:
//
//	importer bills [path]           import a rent report (newest in REPORT_DIR when omitted)
//	importer bank [path]            import a bank statement (newest in BANK_DIR when omitted)
//	importer watch                  run the cron scheduler for unattended report refreshes
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/mansion-ledger/internal/domain/bank"
	"github.com/FACorreiaa/mansion-ledger/internal/domain/bills"
	"github.com/FACorreiaa/mansion-ledger/internal/source"
	"github.com/FACorreiaa/mansion-ledger/pkg/config"
	"github.com/FACorreiaa/mansion-ledger/pkg/cron"
	"github.com/FACorreiaa/mansion-ledger/pkg/tablestore"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: importer <bills|bank|watch> [path]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	if err := run(cfg, logger, os.Args[1], os.Args[2:]); err != nil {
		logger.Error("importer failed", slog.String("command", os.Args[1]), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, command string, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	switch command {
	case "bills":
		return runBills(ctx, cfg, store, logger, args)
	case "bank":
		return runBank(ctx, cfg, store, logger, args)
	case "watch":
		return runWatch(ctx, cfg, store, logger)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// openStore builds the configured table store. The cleanup func flushes and
// closes whatever backend was opened.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (tablestore.Store, func(), error) {
	switch cfg.Store.Backend {
	case "workbook":
		ws, err := tablestore.OpenWorkbook(cfg.Store.WorkbookPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open workbook store: %w", err)
		}
		logger.Info("using workbook store", slog.String("path", cfg.Store.WorkbookPath))
		return ws, func() {
			if err := ws.Close(); err != nil {
				logger.Warn("failed to close workbook", slog.Any("error", err))
			}
		}, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Store.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		logger.Info("using postgres store", slog.String("host", cfg.Store.Database.Host))
		return tablestore.NewPostgresStore(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func runBills(ctx context.Context, cfg *config.Config, store tablestore.Store, logger *slog.Logger, args []string) error {
	path, err := pickPath(args, cfg.Sources.ReportDir, ".xlsx", ".xls")
	if err != nil {
		return err
	}

	summary, err := bills.NewService(store, cfg, logger).ImportFile(ctx, path)
	if err != nil {
		return err
	}
	fmt.Println(summary)
	return nil
}

func runBank(ctx context.Context, cfg *config.Config, store tablestore.Store, logger *slog.Logger, args []string) error {
	path, err := pickPath(args, cfg.Sources.BankDir, ".csv")
	if err != nil {
		return err
	}

	account, err := promptAccount(cfg.Accounts.Codes)
	if err != nil {
		return err
	}

	summary, err := bank.NewService(store, cfg, logger).ImportFile(ctx, path, account)
	if err != nil {
		return err
	}
	fmt.Println(summary)
	return nil
}

func runWatch(ctx context.Context, cfg *config.Config, store tablestore.Store, logger *slog.Logger) error {
	sched := cron.NewScheduler(
		bills.NewService(store, cfg, logger),
		cfg.Sources.ReportDir,
		cfg.Cron.ReportSpec,
		logger,
	)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	<-sched.Stop().Done()
	return nil
}

// pickPath resolves the source file: an explicit argument wins, otherwise
// the newest matching file in the drop directory.
func pickPath(args []string, dir string, exts ...string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return source.Newest(dir, exts...)
}

// promptAccount asks the operator which receiving account the statement
// belongs to, re-prompting on invalid codes until stdin closes.
func promptAccount(codes []string) (string, error) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("Receiving account %v: ", codes)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("no account code entered")
		}
		code, err := bank.ParseAccountCode(scanner.Text(), codes)
		if err != nil {
			fmt.Println(err)
			continue
		}
		return code, nil
	}
}

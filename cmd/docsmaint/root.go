package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/insurehub/insurehub/backend/go-services/internal/config"
	"github.com/insurehub/insurehub/backend/go-services/internal/database"
	docrepo "github.com/insurehub/insurehub/backend/go-services/internal/documents/repository"
	"github.com/insurehub/insurehub/backend/go-services/internal/storage"
	"github.com/insurehub/insurehub/backend/go-services/pkg/logger"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "docsmaint",
		Short:         "Offline maintenance jobs for stored insurance documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newFixTypesCmd(), newMigrateFoldersCmd())
	return cmd
}

// jobEnv bundles the resources a maintenance job runs against.
type jobEnv struct {
	cfg      *config.Config
	repo     docrepo.Repository
	store    storage.BlobStore
	pool     *pgxpool.Pool
	stopLog  func()
	localDir string
}

// setupJob loads config, opens the database and blob store, and attaches a
// per-run timestamped log file. Caller must invoke close.
func setupJob(ctx context.Context, name string) (*jobEnv, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logPath := fmt.Sprintf("%s_%s.log", name, time.Now().Format("20060102_150405"))
	stopLog, err := logger.AddFileSink(logPath)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger.Infof("logging run to %s", logPath)

	if cfg.Postgres.DSN == "" {
		stopLog()
		return nil, errors.New("POSTGRES_DSN must be set")
	}
	pool, err := database.ConnectPostgres(ctx, cfg.Postgres.DSN)
	if err != nil {
		stopLog()
		return nil, err
	}
	if err := docrepo.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		stopLog()
		return nil, err
	}
	repo := docrepo.NewPostgresRepo(pool)

	store, err := storage.NewMinIOStore(storage.LoadMinIOConfig())
	if err != nil {
		pool.Close()
		stopLog()
		return nil, err
	}

	return &jobEnv{
		cfg:      cfg,
		repo:     repo,
		store:    store,
		pool:     pool,
		stopLog:  stopLog,
		localDir: cfg.Upload.UploadsDir,
	}, nil
}

func (e *jobEnv) close() {
	e.pool.Close()
	e.stopLog()
}

// resolveMode enforces the mutually-exclusive-required --dry-run/--live pair.
func resolveMode(dryRun, live bool) (bool, error) {
	if dryRun == live {
		return false, errors.New("exactly one of --dry-run or --live is required")
	}
	return dryRun, nil
}

// confirmLive is the operator safety gate before any mutation.
func confirmLive(in io.Reader, out io.Writer, action string) error {
	fmt.Fprintf(out, "This will %s. Type 'yes' to continue: ", action)
	line, _ := bufio.NewReader(in).ReadString('\n')
	if strings.TrimSpace(line) != "yes" {
		return errors.New("aborted by operator")
	}
	return nil
}

// userFilter returns the --user-id scope, nil when the flag was not given.
func userFilter(cmd *cobra.Command, userID int64) *int64 {
	if cmd.Flags().Changed("user-id") {
		return &userID
	}
	return nil
}

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/insurehub/insurehub/backend/go-services/internal/documents/maintenance"
)

func newMigrateFoldersCmd() *cobra.Command {
	var (
		dryRun   bool
		live     bool
		userID   int64
		noBackup bool
	)

	cmd := &cobra.Command{
		Use:   "migrate-folders",
		Short: "Move stored files from the legacy flat layout into per-user folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			isDry, err := resolveMode(dryRun, live)
			if err != nil {
				return err
			}
			if noBackup && isDry {
				return errors.New("--no-backup only applies to --live runs")
			}
			ctx := cmd.Context()
			env, err := setupJob(ctx, "migrate_folders")
			if err != nil {
				return err
			}
			defer env.close()

			if !isDry {
				if err := confirmLive(cmd.InOrStdin(), cmd.OutOrStdout(), "move stored files and rewrite document URLs"); err != nil {
					return err
				}
			}

			m := maintenance.NewMigrator(env.repo, env.store, env.localDir, env.cfg.Upload.BaseURL)
			_, err = m.Run(ctx, maintenance.MigrateOptions{
				DryRun:       isDry,
				CreateBackup: !noBackup,
				UserID:       userFilter(cmd, userID),
			})
			return err
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report intended moves without touching files or records")
	cmd.Flags().BoolVar(&live, "live", false, "apply the migration")
	cmd.Flags().Int64Var(&userID, "user-id", 0, "restrict to one user's records")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "skip the backup copy of locally stored files")
	return cmd
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/insurehub/insurehub/backend/go-services/internal/documents/maintenance"
)

func newFixTypesCmd() *cobra.Command {
	var (
		dryRun bool
		live   bool
		userID int64
	)

	cmd := &cobra.Command{
		Use:   "fix-types",
		Short: "Recompute documentType from each record's stored URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			isDry, err := resolveMode(dryRun, live)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			env, err := setupJob(ctx, "fix_types")
			if err != nil {
				return err
			}
			defer env.close()

			if !isDry {
				if err := confirmLive(cmd.InOrStdin(), cmd.OutOrStdout(), "rewrite documentType on mismatched records"); err != nil {
					return err
				}
			}

			_, err = maintenance.BackfillDocumentTypes(ctx, env.repo, maintenance.BackfillOptions{
				DryRun:    isDry,
				UserID:    userFilter(cmd, userID),
				Container: env.store.Bucket(),
			})
			return err
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report intended changes without writing")
	cmd.Flags().BoolVar(&live, "live", false, "apply changes")
	cmd.Flags().Int64Var(&userID, "user-id", 0, "restrict to one user's records")
	return cmd
}

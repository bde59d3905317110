package main

import (
	"github.com/spf13/cobra"

	"github.com/atlas-hq/atlas-admin/pkg/composables"
)

func newRebuildPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild-paths",
		Short: "Recompute materialized paths and levels from the parent edges",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := composables.WithPool(cmd.Context(), a.pool)
			rewritten, err := a.orgSvc.RebuildPaths(ctx)
			if err != nil {
				return err
			}
			a.conf.Logger().WithField("rewritten", rewritten).Info("paths rebuilt")
			return nil
		},
	}
}

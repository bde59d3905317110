package main

import (
	"github.com/spf13/cobra"

	"github.com/atlas-hq/atlas-admin/modules/core/seed"
	"github.com/atlas-hq/atlas-admin/pkg/composables"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Provision the root organization, system roles and admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := composables.WithPool(cmd.Context(), a.pool)
			seeder := seed.New(a.orgRepo, a.orgSvc, a.roleRepo, a.userRepo)
			if err := seeder.Seed(ctx); err != nil {
				return err
			}
			a.conf.Logger().Info("seed completed")
			return nil
		},
	}
}

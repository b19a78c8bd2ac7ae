package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dockhand/dockhand-ui/internal/bootstrap"
	"github.com/dockhand/dockhand-ui/internal/devseed"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withInfra(cmd.Context(), false, func(ctx context.Context, in infra) error {
				a.logger.Info("running database migrations")
				if err := bootstrap.RunMigrations(ctx, in.DB, a.logger); err != nil {
					return fmt.Errorf("run migrations: %w", err)
				}
				a.logger.Info("migrations completed successfully")
				return nil
			})
		},
	}
}

type seedOptions struct {
	allowRemote bool
	userID      string
}

func newSeedCmd(a *app) *cobra.Command {
	var opts seedOptions
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Run migrations and seed development teams, templates and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.guardRemoteHost(opts.allowRemote, "seed development data on the configured database"); err != nil {
				return err
			}
			return a.withInfra(cmd.Context(), false, func(ctx context.Context, in infra) error {
				a.logger.Info("ensuring database migrations are current")
				if err := bootstrap.RunMigrations(ctx, in.DB, a.logger); err != nil {
					return fmt.Errorf("run migrations: %w", err)
				}

				who := devseed.DefaultIdentity()
				if opts.userID != "" {
					who = devseed.Identity{LeaderID: opts.userID, OwnerID: opts.userID}
				}
				a.logger.Info("seeding development data", "user_id", who.LeaderID)
				if err := devseed.Run(ctx, devseed.NewServices(in.DB), who, a.logger); err != nil {
					return fmt.Errorf("seed data: %w", err)
				}
				a.logger.Info("database seeding completed successfully")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&opts.allowRemote, "allow-remote", false, "allow seeding a non-local database host")
	cmd.Flags().StringVar(&opts.userID, "user", "", "user id that leads seeded teams and owns seeded templates")
	return cmd
}

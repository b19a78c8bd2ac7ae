package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dockhand/dockhand-ui/internal/adapters/settingsrefresher"
	"github.com/dockhand/dockhand-ui/internal/data"
	"github.com/dockhand/dockhand-ui/internal/domain/nav"
	"github.com/dockhand/dockhand-ui/internal/service"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and change public settings",
	}
	cmd.AddCommand(newSettingsShowCmd(a), newSettingsGetCmd(a), newSettingsTeamSyncCmd(a))
	return cmd
}

// settingsService wires a settings service against the command's connections.
// With redis available, writes also invalidate the cache shared with servers.
func settingsService(a *app, in infra) (*service.SettingsService, error) {
	opts := service.SettingsServiceOptions{
		Repo:   data.NewSettingsRepo(in.DB),
		Config: in.Config.Settings,
		Logger: a.logger,
	}
	if in.Redis != nil {
		opts.Shared = data.NewRedisCacheRepo(in.Redis, settingsrefresher.SharedCachePrefix())
	}
	return service.NewSettingsService(opts)
}

func newSettingsShowCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the public settings document from postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			if format == outputText {
				format = outputYAML
			}
			return a.withInfra(cmd.Context(), false, func(ctx context.Context, in infra) error {
				doc, err := data.NewSettingsRepo(in.DB).GetPublic(ctx)
				if err != nil {
					return err
				}
				return writeStructured(a.out, format, doc)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(outputYAML), "output format: yaml or json")
	return cmd
}

func newSettingsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "get <selector>",
		Short:   "Evaluate a JMESPath selector against the public settings",
		Example: "  dockhand-admin settings get TeamSync",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withInfra(cmd.Context(), true, func(ctx context.Context, in infra) error {
				svc, err := settingsService(a, in)
				if err != nil {
					return err
				}
				value, _, err := svc.GetPublicSetting(ctx, args[0], service.WithWait())
				if err != nil {
					return err
				}
				return writeStructured(a.out, outputJSON, value)
			})
		},
	}
}

func newSettingsTeamSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "team-sync <on|off>",
		Short: "Enable or disable team sync",
		Long: "Team sync hands user management to the identity provider. While it is on,\n" +
			"team leaders no longer see the Users entry in the administration sidebar.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flag, err := nav.ParseFlag(args[0])
			if err != nil || !flag.Known() {
				return fmt.Errorf("team-sync expects on or off, got %q", args[0])
			}
			return a.withInfra(cmd.Context(), true, func(ctx context.Context, in infra) error {
				svc, err := settingsService(a, in)
				if err != nil {
					return err
				}
				if err := svc.UpdateTeamSync(ctx, flag.Enabled()); err != nil {
					return err
				}
				_, err = fmt.Fprintf(a.out, "team sync %s at %s\n", flag, time.Now().UTC().Format(time.RFC3339))
				return err
			})
		},
	}
}

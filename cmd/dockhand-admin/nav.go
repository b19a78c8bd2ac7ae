package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/domain/nav"
)

type navShowOptions struct {
	admin    bool
	leader   bool
	teamSync string
	edition  string
	business bool
	embedded bool
	route    string
	output   string
}

// navReport is what "nav show" prints.
type navReport struct {
	Signals    nav.Signals    `json:"signals"    yaml:"signals"`
	Visibility nav.Visibility `json:"visibility" yaml:"visibility"`
	HelpURL    string         `json:"help_url"   yaml:"help_url"`
	Nodes      []nav.Node     `json:"nodes"      yaml:"nodes"`
}

func newNavCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Inspect administration sidebar decisions",
	}
	cmd.AddCommand(newNavShowCmd(a))
	return cmd
}

func newNavShowCmd(a *app) *cobra.Command {
	var opts navShowOptions
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the sidebar a user would see for the given signals",
		Example: "  dockhand-admin nav show --leader --team-sync=off\n" +
			"  dockhand-admin nav show --admin --edition BE -o yaml",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(opts.output)
			if err != nil {
				return err
			}
			report, err := buildNavReport(opts, cmd.Flags().Changed("business"))
			if err != nil {
				return err
			}
			if format == outputText {
				return writeNavTree(a.out, report)
			}
			return writeStructured(a.out, format, report)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.admin, "admin", false, "user is an administrator")
	f.BoolVar(&opts.leader, "leader", false, "user leads at least one team")
	f.StringVar(&opts.teamSync, "team-sync", "unknown", "team sync setting: on, off or unknown")
	f.StringVar(&opts.edition, "edition", string(nav.EditionCE), "edition: CE or BE")
	f.BoolVar(&opts.business, "business", false, "force business features on or off (defaults to the edition)")
	f.BoolVar(&opts.embedded, "embedded", false, "process runs inside a desktop host extension")
	f.StringVar(&opts.route, "route", "", "current route name used to mark the active entry")
	f.StringVarP(&opts.output, "output", "o", string(outputText), "output format: text, yaml or json")
	return cmd
}

func buildNavReport(opts navShowOptions, businessSet bool) (navReport, error) {
	teamSync, err := nav.ParseFlag(opts.teamSync)
	if err != nil {
		return navReport{}, fmt.Errorf("--team-sync: %w", err)
	}
	edition := nav.Edition(strings.ToUpper(strings.TrimSpace(opts.edition)))
	if edition != nav.EditionCE && edition != nav.EditionBE {
		return navReport{}, fmt.Errorf("--edition: invalid edition %q (valid options: CE, BE)", opts.edition)
	}

	features := nav.Features{
		BusinessEdition: edition == nav.EditionBE,
		EmbeddedHost:    opts.embedded,
		Edition:         edition,
	}
	if businessSet {
		features.BusinessEdition = opts.business
	}

	user := auth.CurrentUser{ID: "preview", IsAdmin: opts.admin, IsTeamLeader: opts.leader}
	signals := features.Signals(user, teamSync)
	vis := nav.Decide(signals)
	nodes := nav.Resolve(nav.SettingsSidebar(features), vis, nav.ResolveOptions{
		Router:       nav.NewRouter(nav.DefaultRoutes()),
		CurrentRoute: opts.route,
	})

	return navReport{
		Signals:    signals,
		Visibility: vis,
		HelpURL:    features.Edition.HelpURL(),
		Nodes:      nodes,
	}, nil
}

func writeNavTree(w io.Writer, report navReport) error {
	if len(report.Nodes) == 0 {
		_, err := fmt.Fprintln(w, "(no administration entries)")
		return err
	}
	var werr error
	var walk func(nodes []nav.Node, depth int)
	walk = func(nodes []nav.Node, depth int) {
		for _, n := range nodes {
			if werr != nil {
				return
			}
			marker := ""
			if n.Active {
				marker = " *"
			}
			link := n.URL
			if link != "" {
				link = "  " + link
			}
			_, werr = fmt.Fprintf(w, "%s%s%s%s\n", strings.Repeat("  ", depth), n.Label, marker, link)
			walk(n.Children, depth+1)
		}
	}
	walk(report.Nodes, 0)
	return werr
}

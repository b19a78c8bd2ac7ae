package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dockhand/dockhand-ui/internal/data"
	"github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/domain/model"
	"github.com/dockhand/dockhand-ui/internal/domain/nav"
	"github.com/dockhand/dockhand-ui/internal/service"
)

type templatesListOptions struct {
	as        string
	admin     bool
	query     string
	stackType string
	limit     int
	offset    int
	output    string
}

func newTemplatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect custom templates",
	}
	cmd.AddCommand(newTemplatesListCmd(a))
	return cmd
}

func newTemplatesListCmd(a *app) *cobra.Command {
	var opts templatesListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List custom templates with the actions a user would be offered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(opts.output)
			if err != nil {
				return err
			}
			listOpts, err := opts.listOptions()
			if err != nil {
				return err
			}
			user := auth.CurrentUser{ID: opts.as, IsAdmin: opts.admin}

			return a.withInfra(cmd.Context(), false, func(ctx context.Context, in infra) error {
				svc, err := service.NewCustomTemplateService(service.CustomTemplateServiceOptions{
					Repo:   data.NewCustomTemplateRepo(in.DB),
					Routes: nav.NewRouter(nav.DefaultRoutes()),
					Logger: a.logger,
				})
				if err != nil {
					return err
				}
				page, err := svc.List(ctx, user, listOpts)
				if err != nil {
					return err
				}
				if format == outputText {
					return writeTemplateTable(a.out, page)
				}
				return writeStructured(a.out, format, page)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.as, "as", "", "user id the actions are computed for")
	f.BoolVar(&opts.admin, "admin", false, "treat the user as an administrator")
	f.StringVarP(&opts.query, "query", "q", "", "substring match on title")
	f.StringVar(&opts.stackType, "type", "", "stack type: swarm, compose or kubernetes")
	f.IntVar(&opts.limit, "limit", 50, "page size")
	f.IntVar(&opts.offset, "offset", 0, "page offset")
	f.StringVarP(&opts.output, "output", "o", string(outputText), "output format: text, yaml or json")
	return cmd
}

func (o templatesListOptions) listOptions() (service.TemplateListOptions, error) {
	out := service.TemplateListOptions{
		CustomTemplatesListOptions: model.CustomTemplatesListOptions{
			Limit:  o.limit,
			Offset: o.offset,
			Sort:   "title",
			Dir:    "asc",
		},
	}
	if o.query != "" {
		q := o.query
		out.Q = &q
	}
	if o.stackType != "" {
		t, ok := model.ParseStackType(o.stackType)
		if !ok {
			return out, fmt.Errorf("--type: unknown stack type %q", o.stackType)
		}
		out.Type = &t
	}
	return out, nil
}

func writeTemplateTable(w io.Writer, page *service.TemplatePage) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tEDIT\tDELETE"); err != nil {
		return err
	}
	for _, item := range page.Items {
		if _, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			item.ID, item.Title, item.TypeLabel,
			strconv.FormatBool(item.Actions.ShowEdit), strconv.FormatBool(item.Actions.ShowDelete),
		); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(tw, "\n%d of %d templates\n", len(page.Items), page.Total); err != nil {
		return err
	}
	return tw.Flush()
}

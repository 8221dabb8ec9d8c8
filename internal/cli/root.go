package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/locvowork/company_dashboard/internal/bootstrap"
	"github.com/locvowork/company_dashboard/internal/domain"
	"github.com/locvowork/company_dashboard/internal/logger"
	"github.com/locvowork/company_dashboard/internal/render"
	"github.com/locvowork/company_dashboard/internal/service"
)

// Execute runs the root command with signal-aware context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func NewRootCmd() *cobra.Command {
	var opts reportOptions
	root := &cobra.Command{
		Use:           "company_dashboard",
		Short:         "Company BI dashboard over employee, project, transaction, marketing and task datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts)
		},
	}
	opts.bind(root)

	root.AddCommand(newReportCmd(), newServeCmd(), newExportCmd(), newChartsCmd())
	return root
}

type reportOptions struct {
	section string
	indent  bool
}

func (o *reportOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.section, "section", "", "Build a single section (employees, projects, transactions, marketing, tasks)")
	cmd.Flags().BoolVar(&o.indent, "indent", true, "Indent JSON output")
}

func newReportCmd() *cobra.Command {
	var opts reportOptions
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the report and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := bootstrap.NewApp()
			if err := app.Initialize(cmd.Context()); err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
}

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the report as an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				report, err := app.Reports.Build(ctx)
				if err != nil {
					return err
				}
				exporter, err := service.NewWorkbookExporter(report, app.Config.REPORT_LAYOUT_PATH)
				if err != nil {
					return err
				}
				if err := exporter.ExportToExcel(out); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				logger.InfoLog(ctx, "Workbook written to %s", out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "company_dashboard.xlsx", "Output workbook path")
	return cmd
}

func newChartsCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Render every report chart as PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				report, err := app.Reports.Build(ctx)
				if err != nil {
					return err
				}
				paths, err := render.SaveReportCharts(ctx, report, dir)
				if err != nil {
					return err
				}
				for _, p := range paths {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "charts", "Output directory")
	return cmd
}

func runReport(cmd *cobra.Command, opts reportOptions) error {
	return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
		var out interface{}
		var err error
		if opts.section != "" {
			out, err = app.Reports.BuildSection(ctx, domain.SectionKey(opts.section))
		} else {
			out, err = app.Reports.Build(ctx)
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		if opts.indent {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(out)
	})
}

// withApp initializes the application for a one-shot command. Logs go to
// stderr so stdout carries only command output.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *bootstrap.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger.SetOutput(cmd.ErrOrStderr())
	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}

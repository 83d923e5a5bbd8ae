package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/carepoint/hms/internal/config"
	"github.com/carepoint/hms/internal/domain/clinical"
	"github.com/carepoint/hms/internal/platform/export"
	"github.com/carepoint/hms/internal/platform/jobs"
	"github.com/carepoint/hms/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "hms",
		Short:        "Hospital management data service",
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(dashboardCmd())
	root.AddCommand(recordsCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(seedCmd())
	return root
}

// newLogger writes JSON to stdout, or console output in development.
func newLogger(cfg *config.Config) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.IsDev() {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	lvl, err := cfg.Level()
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// loadConfig reads and validates the configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadApp is the shared setup of every subcommand that reads the store.
func loadApp() (*config.Config, *app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := loadStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	a, err := newApp(st, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, a, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Set OVERDUE_SWEEP_SCHEDULE to a cron expression or descriptor such as
@hourly to move unpaid bills past their due date to Overdue while the
server runs. The sweep is off by default, so bills keep the status they
were loaded with.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, a, err := loadApp()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	logger.Info().
		Interface("counts", a.store.Counts()).
		Str("id_strategy", cfg.IDStrategy).
		Bool("strict_references", cfg.StrictReferences).
		Msg("store loaded")

	loc, _ := cfg.Location()
	scheduler := jobs.NewScheduler(loc, logger)
	if err := scheduler.AddOverdueSweep(cfg.OverdueSweepSchedule, a.billing); err != nil {
		return err
	}
	if cfg.OverdueSweepSchedule == "" {
		logger.Info().Msg("overdue sweep disabled")
	}
	scheduler.Start()
	defer scheduler.Stop()

	e := a.router(cfg, logger)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print the front-office summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, a, err := loadApp()
			if err != nil {
				return err
			}
			return printDashboard(cmd.Context(), cmd.OutOrStdout(), a, time.Now())
		},
	}
}

func printDashboard(ctx context.Context, w io.Writer, a *app, now time.Time) error {
	sum, err := a.dashboard.Summary(ctx, now)
	if err != nil {
		return err
	}
	stats, err := a.billing.Stats(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Patients\t%d\n", sum.TotalPatients)
	fmt.Fprintf(tw, "Doctors\t%d\n", sum.TotalDoctors)
	fmt.Fprintf(tw, "Today's appointments\t%d\n", sum.TodayAppointments)
	fmt.Fprintf(tw, "Available rooms\t%d\n", sum.AvailableRooms)
	fmt.Fprintf(tw, "Pending bills\t%d\n", sum.PendingBills)
	fmt.Fprintf(tw, "Revenue\t%.2f\n", stats.Revenue)
	fmt.Fprintf(tw, "Outstanding\t%.2f\n", stats.Outstanding)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(sum.RecentAppointments) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recent appointments")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, d := range sum.RecentAppointments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.DateTime.In(a.scheduling.Location()).Format("2006-01-02 15:04"),
			d.PatientName, d.DoctorName, d.Status)
	}
	return tw.Flush()
}

func recordsCmd() *cobra.Command {
	var term, year string
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Print admitted patients grouped by admission date",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, a, err := loadApp()
			if err != nil {
				return err
			}
			groups, err := a.clinical.Grouped(cmd.Context(), term, year)
			if err != nil {
				return err
			}
			printGroups(cmd.OutOrStdout(), groups)
			return nil
		},
	}
	cmd.Flags().StringVarP(&term, "query", "q", "", "filter by patient name or number")
	cmd.Flags().StringVar(&year, "year", "", "only show this year")
	return cmd
}

func printGroups(w io.Writer, groups []clinical.YearGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "no admitted patients")
		return
	}
	for _, y := range groups {
		fmt.Fprintf(w, "%d (%d patients, %d records)\n", y.Year, y.PatientCount(), y.RecordCount())
		for _, m := range y.Months {
			fmt.Fprintf(w, "  %s\n", m.Name)
			for _, d := range m.Days {
				fmt.Fprintf(w, "    %s\n", d.Day)
				for _, e := range d.Entries {
					fmt.Fprintf(w, "      %s  %s  (%d records)\n",
						e.Patient.PatientNumber, e.Patient.FullName(), len(e.Records))
				}
			}
		}
	}
}

func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write patients, appointments and bills to an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, a, err := loadApp()
			if err != nil {
				return err
			}
			if err := writeWorkbook(out, a.store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "hms-export.xlsx", "output file")
	return cmd
}

func writeWorkbook(path string, st *store.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.Write(f, st.Snapshot()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Print the built-in seed data as JSON, a starting point for SEED_FILE",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(store.DefaultSeed())
		},
	}
}

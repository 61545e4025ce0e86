package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"syscall"
	"time"

	"github.com/jengzang/heatgrid-backend-go/internal/api"
	"github.com/jengzang/heatgrid-backend-go/internal/config"
	"github.com/jengzang/heatgrid-backend-go/internal/database"
	"github.com/jengzang/heatgrid-backend-go/internal/logger"
	"github.com/jengzang/heatgrid-backend-go/internal/repository"
	"github.com/jengzang/heatgrid-backend-go/internal/service"
	"github.com/jengzang/heatgrid-backend-go/internal/stats"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	configFile string
	cfg        *config.Config
	closeLog   func()
)

// Root is the main command.
var Root = &cobra.Command{
	Use:   "heatgrid",
	Short: "Urban heat island grid service.",
	Long: `heatgrid serves monthly surface temperature grids of a city together with
an interactive cooling simulation. Configuration is read from a TOML file
(--config or CONFIG_FILE) and overridden by environment variables.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configFile == "" {
			cfg, err = config.Load()
		} else {
			cfg, err = config.LoadFile(configFile)
		}
		if err != nil {
			return err
		}
		closeLog, err = logger.Init(cfg.LogLevel, cfg.LogFile)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLog != nil {
			closeLog()
		}
	},
	SilenceUsage: true,
}

func init() {
	Root.PersistentFlags().StringVar(&configFile, "config", "", "configuration file location")
	Root.AddCommand(serveCmd, importCmd, summaryCmd)

	periodFlags(summaryCmd.Flags())
	summaryCmd.MarkFlagRequired("year")
}

func periodFlags(fs *pflag.FlagSet) {
	fs.String("year", "", "dataset year")
	fs.String("month", "", "dataset month; defaults to the first available")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var db *sql.DB
		if cfg.DataSource == "sqlite" {
			var err error
			db, err = database.Open(database.Config{Path: cfg.DBPath})
			if err != nil {
				return err
			}
			defer db.Close()
		}

		svc, err := api.BuildServices(ctx, cfg, db)
		if err != nil {
			return err
		}
		router := api.SetupRouter(ctx, cfg, svc)

		srv := &http.Server{
			Addr:              cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		errc := make(chan error, 1)
		go func() {
			logrus.WithFields(logrus.Fields{
				"addr":   cfg.Port,
				"source": cfg.DataSource,
			}).Info("Server starting")
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logrus.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

var dataFileName = regexp.MustCompile(`^data_(\d{1,2})_(\d{4})\.`)

var importCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Import dataset files into the sqlite store.",
	Long: `import reads data_<MM>_<YYYY>.<ext> files and stores their samples in the
database at db_path, replacing any earlier import of the same period.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(database.Config{Path: cfg.DBPath})
		if err != nil {
			return err
		}
		defer db.Close()

		svc := service.NewDatasetService(repository.NewSampleRepository(db), nil, nil, cfg.Grid.Height, cfg.Grid.Width)
		for _, path := range args {
			m := dataFileName.FindStringSubmatch(filepath.Base(path))
			if m == nil {
				return fmt.Errorf("%s: file name must look like data_MM_YYYY.ext", path)
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			res, err := svc.Import(cmd.Context(), m[2], m[1], f)
			f.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			cmd.Printf("%s\t%d samples\tmean %.1f°C\n", res.Period, res.Summary.SampleCount, res.Summary.MeanTemperature)
		}
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the aggregate temperature of a period.",
	RunE: func(cmd *cobra.Command, args []string) error {
		year, _ := cmd.Flags().GetString("year")
		month, _ := cmd.Flags().GetString("month")

		var db *sql.DB
		if cfg.DataSource == "sqlite" {
			var err error
			db, err = database.Open(database.Config{Path: cfg.DBPath})
			if err != nil {
				return err
			}
			defer db.Close()
		}
		svc, err := api.BuildServices(cmd.Context(), cfg, db)
		if err != nil {
			return err
		}

		period, err := svc.Views.Catalog().Resolve(year, month)
		if err != nil {
			return err
		}
		grid, err := svc.Loader.Load(cmd.Context(), period)
		if err != nil {
			return err
		}
		s := stats.Summarize(grid)
		cmd.Printf("%s\tmean %.1f°C\tmin %.1f°C\tmax %.1f°C\t%d cells\n",
			period, s.MeanTemperature, s.MinTemperature, s.MaxTemperature, s.SampleCount)
		return nil
	},
}

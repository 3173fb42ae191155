package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	internalcli "github.com/opencart-qa/storefront-suite/internal/cli"
	"github.com/opencart-qa/storefront-suite/internal/config"
	"github.com/opencart-qa/storefront-suite/internal/handlers"
	"github.com/opencart-qa/storefront-suite/internal/logging"
	"github.com/opencart-qa/storefront-suite/internal/runner"
	"github.com/opencart-qa/storefront-suite/internal/services"
)

var version = "0.1.0"

// setupLogger builds the logger for a command and installs it globally
func setupLogger(c *cli.Context) (*zap.Logger, error) {
	logger, err := logging.New(c.Bool("verbose"))
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// RunCommand returns the run command
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the storefront suite and write the HTML report",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "suite", Usage: "YAML suite file (name, parameters, groups)"},
			&cli.StringFlag{Name: "groups", Usage: "comma separated groups to include, e.g. Sanity,Regression"},
			&cli.StringFlag{Name: "exclude-groups", Usage: "comma separated groups to exclude"},
			&cli.StringFlag{Name: "browser", Usage: "chrome, edge or firefox"},
			&cli.StringFlag{Name: "driver", Usage: "playwright, selenium, chromedp or rod"},
			&cli.StringFlag{Name: "os", Usage: "operating system shown in the report"},
			&cli.BoolFlag{Name: "open-report", Usage: "open the report in the default browser when done"},
			&cli.BoolFlag{Name: "verbose", Usage: "debug logging"},
		},
		Action: func(c *cli.Context) error {
			logger, err := setupLogger(c)
			if err != nil {
				return err
			}
			defer logger.Sync()

			deps, err := internalcli.LoadRunDependencies(os.Getenv, internalcli.RunOptions{
				SuiteFile:     c.String("suite"),
				Groups:        runner.ParseGroups(c.String("groups")),
				ExcludeGroups: runner.ParseGroups(c.String("exclude-groups")),
				Browser:       c.String("browser"),
				Driver:        c.String("driver"),
				OS:            c.String("os"),
				OpenReport:    c.Bool("open-report"),
			})
			if err != nil {
				return err
			}

			history, closeHistory, err := internalcli.ConnectHistory(os.Getenv, logger)
			if err != nil {
				return err
			}
			defer closeHistory()
			if history != nil {
				deps.Listeners = append(deps.Listeners, services.NewHistoryListener(history, logger.Named("history")))
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			_, err = internalcli.RunSuite(ctx, deps, logger)
			if errors.Is(err, internalcli.ErrTestsFailed) {
				return cli.Exit(err.Error(), 1)
			}
			return err
		},
	}
}

// buildServerDependencies creates all dependencies needed for the report server
func buildServerDependencies(history services.HistoryService, logger *zap.Logger) (internalcli.ServerDependencies, error) {
	var deps internalcli.ServerDependencies

	deps.ServerConfig = config.LoadServerConfig(os.Getenv)

	reportConfig, err := config.LoadReportConfig(os.Getenv)
	if err != nil {
		return deps, fmt.Errorf("invalid report configuration: %w", err)
	}
	deps.ReportDir = reportConfig.ReportDir
	deps.ScreenshotDir = reportConfig.ScreenshotDir

	indexHandler, err := handlers.NewIndexHandler("templates/index.html", reportConfig.ReportDir, history, logger.Named("index"))
	if err != nil {
		return deps, fmt.Errorf("failed to create index handler: %w", err)
	}
	deps.IndexHandler = indexHandler

	if history != nil {
		deps.RunsHandler = handlers.NewRunsHandler(history, logger.Named("runs"))
		deps.RunHandler = handlers.NewRunHandler(history, logger.Named("runs"))
	}

	return deps, nil
}

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the HTML reports, screenshots and run history",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "debug logging"},
		},
		Action: func(c *cli.Context) error {
			logger, err := setupLogger(c)
			if err != nil {
				return err
			}
			defer logger.Sync()

			history, closeHistory, err := internalcli.ConnectHistory(os.Getenv, logger)
			if err != nil {
				return err
			}
			defer closeHistory()

			deps, err := buildServerDependencies(history, logger)
			if err != nil {
				return err
			}

			return internalcli.RunServe(deps)
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "storefront-suite",
		Usage:   "OpenCart storefront UI test suite",
		Version: version,
		Commands: []*cli.Command{
			RunCommand(),
			ServeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rgehrsitz/dayplan/internal/calculation"
	"github.com/rgehrsitz/dayplan/internal/config"
	"github.com/rgehrsitz/dayplan/internal/domain"
	"github.com/rgehrsitz/dayplan/internal/output"
	"github.com/rgehrsitz/dayplan/pkg/dateutil"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dayplan %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.Main.Version
	}
	return ""
}

// newLogger builds the zap logger handed to the simulation. Its sugared form
// satisfies calculation.Logger.
func newLogger(debugMode bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debugMode {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

var rootCmd = &cobra.Command{
	Use:   "dayplan",
	Short: "Day-by-day personal financial plan simulator",
	Long: "Simulates assets, recurring transactions, mortgages and income taxes one day at a time " +
		"and reports month-end balances, net worth and yearly tax settlements.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// loadConfiguration reads the positional files or, with --list, the files
// named in a list file, applying any --start/--end overrides.
func loadConfiguration(cmd *cobra.Command, args []string) (*domain.Configuration, error) {
	var opts config.Options
	for _, flag := range []struct {
		name   string
		target **time.Time
	}{{"start", &opts.Start}, {"end", &opts.End}} {
		value, _ := cmd.Flags().GetString(flag.name)
		if value == "" {
			continue
		}
		parsed, err := dateutil.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s date %q: %w", flag.name, value, err)
		}
		*flag.target = &parsed
	}

	parser := config.NewInputParser()
	listFile, _ := cmd.Flags().GetString("list")
	switch {
	case listFile != "" && len(args) > 0:
		return nil, fmt.Errorf("configuration files and --list are mutually exclusive")
	case listFile != "":
		return parser.LoadFromList(listFile, opts)
	case len(args) == 0:
		return nil, fmt.Errorf("at least one configuration file or --list is required")
	default:
		return parser.LoadFromFiles(args, opts)
	}
}

var runCmd = &cobra.Command{
	Use:   "run [config-files...]",
	Short: "Run a simulation and report the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		debugMode, _ := cmd.Flags().GetBool("debug")
		logger, err := newLogger(debugMode)
		if err != nil {
			return err
		}
		defer logger.Sync()

		outputFormat, _ := cmd.Flags().GetString("format")
		formatter := output.GetFormatterByName(outputFormat)
		if formatter == nil {
			return fmt.Errorf("unknown format %q (available: %s)", outputFormat, strings.Join(output.FormatterNames(), ", "))
		}

		cfg, err := loadConfiguration(cmd, args)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		sim := calculation.NewSimulation(cfg)
		sim.SetLogger(logger)
		results, err := sim.Run(ctx)
		if err != nil {
			return err
		}

		save, _ := cmd.Flags().GetBool("save")
		if save {
			filename, err := output.WriteFormatted(formatter, results, extension(formatter.Name()))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
		} else {
			data, err := formatter.Format(results)
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(data)
		}

		if results.Failed() {
			return fmt.Errorf("simulation halted: %w", results.Error)
		}
		return nil
	},
}

func extension(format string) string {
	switch {
	case strings.HasPrefix(format, "csv"):
		return "csv"
	case format == "json", format == "html":
		return format
	default:
		return "txt"
	}
}

var validateCmd = &cobra.Command{
	Use:   "validate [config-files...]",
	Short: "Validate configuration files without running a simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfiguration(cmd, args)
		if err != nil {
			return err
		}
		if err := calculation.NewSimulation(cfg).Setup(); err != nil {
			return fmt.Errorf("simulation setup failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid: %s to %s, %d assets, %d transactions, %d mortgages\n",
			cfg.Start.Format(dateutil.Layout), cfg.End.Format(dateutil.Layout),
			len(cfg.Assets), len(cfg.Transactions), len(cfg.Mortgages))
		return nil
	},
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().String("list", "", "YAML file listing configuration files, relative to the list file")
	cmd.Flags().String("start", "", "Override the start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "Override the end date (YYYY-MM-DD)")
}

func init() {
	addConfigFlags(runCmd)
	runCmd.Flags().StringP("format", "f", "console", "Output format ("+strings.Join(output.FormatterNames(), ", ")+")")
	runCmd.Flags().Bool("save", false, "Write the report to a timestamped file instead of stdout")
	runCmd.Flags().Bool("debug", false, "Log every balance change")

	addConfigFlags(validateCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

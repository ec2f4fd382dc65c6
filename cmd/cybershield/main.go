package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ensigniasec/cybershield/internal/clock"
	"github.com/ensigniasec/cybershield/internal/config"
	"github.com/ensigniasec/cybershield/internal/history"
	"github.com/ensigniasec/cybershield/internal/picker"
	"github.com/ensigniasec/cybershield/internal/scan"
	"github.com/ensigniasec/cybershield/internal/session"
	"github.com/ensigniasec/cybershield/internal/tui"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	configFile   = config.DefaultPath
	logFile      string
	verbose      bool
	plainMode    bool
	noAnimations bool
	jsonOutput   bool
	seed         uint64
	instant      bool
	force        bool

	rootCmd = &cobra.Command{
		Use:   "cybershield",
		Short: "A themed terminal that simulates malware scans for training and demos.",
		Long: `CyberShield is an interactive terminal that plays out a scripted malware scan for any file you drop on it. ` +
			`Verdicts are random and only file names are used: no file content is read, no network is touched. Educational use only.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if err := tui.Run(cmd.Context(), cfg, logFile); err != nil {
				logrus.Fatalf("Terminal failed: %v", err)
			}
		},
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for --json output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "Path to the preferences file")
	rootCmd.PersistentFlags().BoolVar(&plainMode, "plain", false, "Minimal UI without colours or decorations")
	rootCmd.PersistentFlags().BoolVar(&noAnimations, "no-animations", false, "Show messages at once instead of typing them out")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Optional: append logs to this file while the terminal is open")

	scanCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format instead of rich text")
	scanCmd.Flags().Uint64Var(&seed, "seed", 0, "Optional: seed the verdicts for a repeatable run")
	scanCmd.Flags().BoolVar(&instant, "instant", false, "Skip the narrative delays between scan steps")
	historyCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format instead of rich text")
	configInitCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing preferences file")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		logrus.Fatal(err)
	}
}

// loadConfig reads the preferences file and applies the flag overrides.
func loadConfig() *config.Config {
	cfg, err := config.Load(configFile)
	if err != nil {
		logrus.Fatalf("Unable to load config: %v", err)
	}
	if plainMode {
		cfg.PlainMode = true
	}
	if noAnimations {
		cfg.Animations = false
	}
	return cfg
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var scanCmd = &cobra.Command{
	Use:   "scan FILE|DIR...",
	Short: "Run the simulated scan on one or more files without the terminal UI.",
	Long: "Play the scan narrative for each named file and print a report. Directories are walked for regular files. " +
		"Paths that do not exist are still scanned by name, since only names are used.",
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput && !verbose {
			logrus.SetLevel(logrus.WarnLevel)
		}
		cfg := loadConfig()
		ctx := cmd.Context()

		names := collectNames(ctx, args)
		if len(names) == 0 {
			logrus.Warn("No files to scan")
		}

		timing := cfg.Timing()
		if instant {
			timing = scan.Timing{}
		}
		var rnd scan.RandomSource
		switch {
		case cmd.Flags().Changed("seed"):
			rnd = scan.NewSeededRandom(seed)
		case cfg.DemoMode:
			rnd = scan.NewSeededRandom(cfg.DemoSeed)
		}

		out := cmd.OutOrStdout()
		started := time.Now()
		results, err := runScans(ctx, names, session.Options{
			Random:       rnd,
			Timing:       &timing,
			TypeInterval: cfg.TypewriterInterval,
			Notifier:     session.LogNotifier{},
			OnMessage:    messagePrinter(out, jsonOutput),
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logrus.Fatal(err)
		}

		summary := history.Summarize(history.FromResults(results), started, time.Since(started))
		if err := history.PrintSummary(out, summary, jsonOutput); err != nil {
			logrus.Fatal(err)
		}
	},
}

// collectNames turns the arguments into file names. Directories expand to
// their discovered files in path order.
func collectNames(ctx context.Context, args []string) []string {
	var names []string
	for _, arg := range args {
		path, err := picker.ExpandPath(arg)
		if err != nil {
			logrus.Debugf("cannot expand %s: %v", arg, err)
			path = arg
		}
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			names = append(names, filepath.Base(path))
			continue
		}
		entries, err := picker.Discover(ctx, path, picker.Options{})
		if err != nil {
			logrus.Warnf("skipping %s: %v", path, err)
			continue
		}
		for _, e := range entries {
			names = append(names, e.Name)
		}
	}
	return names
}

// runScans plays each scan to its verdict, one after another, on a single
// loop goroutine.
func runScans(ctx context.Context, names []string, opts session.Options) ([]session.Result, error) {
	clk := clock.NewLoopClock()
	defer clk.Close()
	opts.Clock = clk

	sess := session.New(opts)
	defer sess.Close()

	for _, name := range names {
		if err := sess.ScanFile(name); err != nil {
			logrus.Warnf("skipping %q: %v", name, err)
			continue
		}
		if err := clk.Run(ctx, func() bool { return !sess.Scanning() }); err != nil {
			return sess.Results(), err
		}
	}
	return sess.Results(), nil
}

// messagePrinter streams the narrative in text mode. JSON mode stays quiet
// until the final report.
func messagePrinter(w io.Writer, jsonOutput bool) func(session.Message) {
	if jsonOutput {
		return nil
	}
	return func(m session.Message) {
		switch m.Role {
		case session.RoleSystem:
			return
		case session.RoleUser:
			fmt.Fprintf(w, "[%s] cybershield> %s\n", m.Timestamp.Format("15:04:05"), m.Content)
		case session.RoleAssistant:
			fmt.Fprintf(w, "[%s] %s\n", m.Timestamp.Format("15:04:05"), m.Content)
			if m.HasSeverity() && m.SeverityLevel() > 0 {
				fmt.Fprintf(w, "           Severity: %d/%d\n", m.SeverityLevel(), scan.MaxSeverity)
			}
		}
	}
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the demo scan log.",
	Long:  "Print the preset scan log shown on the Scan History page, with threats and quarantine recommendations.",
	Run: func(cmd *cobra.Command, args []string) {
		now := time.Now()
		summary := history.Summarize(history.Mock(now), now, 0)
		if err := history.PrintSummary(cmd.OutOrStdout(), summary, jsonOutput); err != nil {
			logrus.Fatal(err)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the preferences file",
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective preferences",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		data, err := cfg.Marshal()
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", cfg.Path(), data)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default preferences file",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Default().WithPath(configFile)
		if err != nil {
			logrus.Fatal(err)
		}
		if _, err := os.Stat(cfg.Path()); err == nil && !force {
			logrus.Fatalf("Config file %s already exists; use --force to overwrite.", cfg.Path())
		}
		if err := cfg.Save(); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", cfg.Path())
	},
}

func main() {
	Execute()
}

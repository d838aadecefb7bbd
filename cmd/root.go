package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/abhisek/oncomark/internal/classifier"
	"github.com/abhisek/oncomark/internal/config"
	"github.com/abhisek/oncomark/internal/report"
)

var rootCmd = &cobra.Command{
	Use:   "oncomark",
	Short: "Tumor-marker cancer classifier",
	Long: "oncomark scores an HE4 / AFP / CA19-9 panel against per-stage Gaussian models\n" +
		"and a healthy baseline, and ranks the most likely cancer class.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("model", "", "Path to a YAML/JSON model file (overrides ONCOMARK_MODEL env var)")
	rootCmd.PersistentFlags().String("format", "", "Output format: table or json (overrides ONCOMARK_FORMAT env var)")
	rootCmd.PersistentFlags().Int("top", -1, "Ranked classes to show per patient, 0 for all (overrides ONCOMARK_TOP env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides ONCOMARK_LOG_LEVEL env var)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(classesCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(versionCmd)
}

// runtimeEnv bundles what every subcommand needs.
type runtimeEnv struct {
	settings config.Settings
	model    *config.Model
	engine   *classifier.Engine
	log      *slog.Logger
	out      *report.Renderer
}

// resolveSettings layers flags (highest priority) over env vars over defaults.
func resolveSettings(cmd *cobra.Command) (config.Settings, error) {
	s := config.SettingsFromEnv()
	flags := cmd.Flags()

	if p, _ := flags.GetString("model"); p != "" {
		s.ModelPath = p
	}
	if f, _ := flags.GetString("format"); f != "" {
		s.Format = f
	}
	if n, _ := flags.GetInt("top"); n >= 0 {
		s.Top = n
	}
	if l, _ := flags.GetString("log-level"); l != "" {
		s.LogLevel = l
	}
	if flags.Changed("workers") {
		if w, err := flags.GetInt("workers"); err == nil {
			s.Workers = w
		}
	}
	return s, s.Validate()
}

// setup resolves settings, loads the model, and builds the engine.
func setup(cmd *cobra.Command) (*runtimeEnv, error) {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return nil, err
	}

	level, _ := config.ParseLogLevel(settings.LogLevel)
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	model, err := config.LoadModel(settings.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	logger.Debug("model loaded", "source", model.Source, "classes", model.Registry.Len())

	var opts []classifier.Option
	if model.Priors != nil {
		opts = append(opts, classifier.WithPriors(model.Priors))
		logger.Info("using class priors from model", "source", model.Source)
	}
	engine, err := classifier.New(model.Registry, opts...)
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	color := !noColor && os.Getenv("NO_COLOR") == "" && isTerminal(cmd.OutOrStdout())

	return &runtimeEnv{
		settings: settings,
		model:    model,
		engine:   engine,
		log:      logger,
		out:      report.NewRenderer(cmd.OutOrStdout(), color),
	}, nil
}

// emit renders one report in the configured format.
func (e *runtimeEnv) emit(rep report.Report) error {
	if e.settings.Format == config.FormatJSON {
		return e.out.JSON(rep)
	}
	return e.out.Table(rep)
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

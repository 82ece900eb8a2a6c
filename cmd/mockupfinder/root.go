package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mockup-finder/internal/config"
	"mockup-finder/internal/fabric"
	"mockup-finder/internal/infra/logx"
	"mockup-finder/internal/ui"
)

// rootFlags are command line overrides applied on top of the loaded config.
type rootFlags struct {
	configPath  string
	envFile     string
	baseURL     string
	mode        string
	downloadDir string
	debug       bool
	noPreview   bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	cmd := &cobra.Command{
		Use:   "mockupfinder",
		Short: "Look up fabrics by reference and browse their garment mockups",
		Long: `mockupfinder is a terminal client for the fabric mockup service.

Type a fabric reference to list matching fabrics, pick a fabric, a category
(men, women, kids) and a garment to preview its mockup, then download the
image or the tech-pack.

Configuration is read from ~/.mockupfinder.yaml (see "config init"), a .env
file and MOCKUPFINDER_* environment variables, in that order.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			closeLog, err := setupLogging(cfg)
			if err != nil {
				return err
			}
			defer closeLog()
			return runTUI(cfg)
		},
	}
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", config.DefaultPath(), "Config file")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "Dotenv file loaded before env overrides")
	cmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "Fabric service base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&flags.mode, "mode", "", "search or lookup (overrides config)")
	cmd.PersistentFlags().StringVar(&flags.downloadDir, "download-dir", "", "Directory for downloads (overrides config)")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Write debug logs (to debug.log unless log_file is set)")
	cmd.PersistentFlags().BoolVar(&flags.noPreview, "no-preview", false, "Do not draw mockup images in the terminal")

	cmd.AddCommand(newConfigCmd(&flags))
	return cmd
}

// loadConfig resolves .env, file and env settings, then applies flags.
func loadConfig(flags rootFlags) (config.Config, error) {
	if err := config.LoadEnvFile(flags.envFile); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return cfg, err
	}
	if flags.baseURL != "" {
		cfg.BaseURL = flags.baseURL
	}
	if flags.mode != "" {
		cfg.Mode = config.Mode(flags.mode)
	}
	if flags.downloadDir != "" {
		cfg.DownloadDir = flags.downloadDir
	}
	if flags.noPreview {
		cfg.Preview = false
	}
	if flags.debug {
		cfg.LogLevel = "debug"
		if cfg.LogFile == "" {
			cfg.LogFile = "debug.log"
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", cfg.Path, err)
	}
	return cfg, nil
}

// setupLogging routes logx (and the standard logger) to the configured log
// file. Without a log file everything is discarded; the TUI owns the terminal.
func setupLogging(cfg config.Config) (func(), error) {
	lvl, err := logx.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logx.SetMinLevel(lvl)
	logx.SetVerbose(cfg.Verbose)
	logx.RegisterSecret(cfg.APIToken)

	if cfg.LogFile == "" {
		logx.SetOutput(io.Discard)
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	logx.SetOutput(f)
	log.SetOutput(logx.StdlogWriter(logx.LevelInfo, f))
	logx.Info("starting",
		zap.String("base_url", cfg.BaseURL),
		zap.String("mode", string(cfg.Mode)),
		zap.String("config", cfg.Path))
	return func() {
		_ = logx.Sync()
		f.Close()
	}, nil
}

func newClient(cfg config.Config) (*fabric.Client, error) {
	return fabric.New(fabric.Options{
		BaseURL:    cfg.BaseURL,
		SearchPath: cfg.SearchPath,
		LookupPath: cfg.LookupPath,
		Token:      cfg.APIToken,
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.Timeout,
	})
}

func runTUI(cfg config.Config) error {
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(
		ui.New(cfg, client),
		tea.WithAltScreen(),
	).Run(); err != nil {
		return err
	}
	s := client.MetricsSnapshot()
	logx.Info("finished",
		zap.Int64("requests", s.TotalRequests),
		zap.Int64("errors", s.Errors()),
		zap.Int64("bytes", s.BytesRead))
	return nil
}

// Package main provides the entry point for the musicgen CLI application.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/amon-mr-error/MusicGenerator/ui"
	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile        string
	defaultConfigFile string
	apiURL            string
	volume            float64
	timeout           time.Duration
	mouse             bool
	presets           []string

	rootCmd = &cobra.Command{
		Use:   "musicgen [PROMPT]",
		Short: "Generate music from a prompt and play it in your terminal",
		Long: paragraph(
			fmt.Sprintf("\nDescribe a sound, %s.", keyword("hear it played back")),
		),
		Example:          paragraph("musicgen\nmusicgen --api-url http://localhost:5000 \"Dreamy ambient soundscape with soft piano\""),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfigFile(cmd); err != nil {
				return err
			}
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

// loadConfigFile reads the file passed with --config. Without the flag the
// file found (or created) in the default places stays in effect.
func loadConfigFile(cmd *cobra.Command) error {
	if configFile == "" {
		configFile = defaultConfigFile
		return nil
	}

	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		// `musicgen config --config new.yml` creates the file
		if cmd == configCmd && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("could not read config file %s: %w", configFile, err)
	}
	log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
	return nil
}

func validateOptions(_ *cobra.Command) error {
	// grab config values from Viper
	apiURL = viper.GetString("api_url")
	volume = viper.GetFloat64("volume")
	timeout = viper.GetDuration("timeout")
	mouse = viper.GetBool("mouse")
	presets = viper.GetStringSlice("presets")

	if volume < 0 || volume > 1 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %.2f", volume)
	}
	if timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", timeout)
	}

	cleaned := make([]string, 0, len(presets))
	for _, p := range presets {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	presets = cleaned

	return nil
}

func execute(_ *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("musicgen needs an interactive terminal")
	}

	// Read environment for the service URL and debugging switches
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	// flags and config file take precedence over the environment
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if cfg.BaseURL() == "" {
		return errors.New("no generation service configured: set MUSICGEN_API_URL or pass --api-url")
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}

	cfg.Volume = volume
	cfg.Presets = presets
	cfg.EnableMouse = mouse
	cfg.Prompt = strings.Join(args, " ")

	p, err := ui.NewProgram(cfg)
	if err != nil {
		return fmt.Errorf("unable to start: %w", err)
	}

	// Run Bubble Tea program
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVarP(&apiURL, "api-url", "u", "", "base URL of the generation service")
	rootCmd.Flags().Float64VarP(&volume, "volume", "v", ui.DefaultVolume, "initial playback volume (0.0 to 1.0)")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "request timeout (0 waits forever)")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse support")
	_ = rootCmd.Flags().MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("api_url", rootCmd.Flags().Lookup("api-url"))
	_ = viper.BindPFlag("volume", rootCmd.Flags().Lookup("volume"))
	_ = viper.BindPFlag("timeout", rootCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))

	viper.SetDefault("api_url", "")
	viper.SetDefault("volume", ui.DefaultVolume)
	viper.SetDefault("timeout", "0s")
	viper.SetDefault("presets", ui.DefaultPresets)

	rootCmd.AddCommand(configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "musicgen")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "musicgen")}, dirs...)
	}

	if c := os.Getenv("MUSICGEN_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("musicgen")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("musicgen")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		defaultConfigFile = used
		return
	}

	configFile = filepath.Join(dirs[0], "musicgen.yml")
	defaultConfigFile = configFile
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}

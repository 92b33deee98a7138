package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestEnsureConfigFileWritesDefaults(t *testing.T) {
	old := configFile
	t.Cleanup(func() { configFile = old })

	configFile = filepath.Join(t.TempDir(), "nested", "musicgen.yml")
	if err := ensureConfigFile(); err != nil {
		t.Fatalf("ensureConfigFile() error = %v", err)
	}

	b, err := os.ReadFile(configFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != defaultConfig {
		t.Error("config file should contain the default config")
	}

	// An existing file is left alone.
	if err := os.WriteFile(configFile, []byte("volume: 0.5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := ensureConfigFile(); err != nil {
		t.Fatalf("ensureConfigFile() error = %v", err)
	}
	b, _ = os.ReadFile(configFile)
	if string(b) != "volume: 0.5\n" {
		t.Errorf("existing config overwritten: %q", b)
	}
}

func TestEnsureConfigFileRejectsExtension(t *testing.T) {
	old := configFile
	t.Cleanup(func() { configFile = old })

	configFile = filepath.Join(t.TempDir(), "musicgen.json")
	err := ensureConfigFile()
	if err == nil || !strings.Contains(err.Error(), "not a supported configuration type") {
		t.Errorf("ensureConfigFile() error = %v", err)
	}
}

func TestDefaultConfigParses(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(defaultConfig)); err != nil {
		t.Fatalf("default config does not parse: %v", err)
	}
	if v.GetFloat64("volume") != 0.8 {
		t.Errorf("volume = %v, want 0.8", v.GetFloat64("volume"))
	}
	if got := v.GetStringSlice("presets"); len(got) != 5 {
		t.Errorf("presets = %v, want 5 entries", got)
	}
}

func TestValidateOptions(t *testing.T) {
	t.Cleanup(func() {
		viper.Set("volume", nil)
		viper.Set("timeout", nil)
		viper.Set("presets", nil)
	})

	tests := []struct {
		name    string
		volume  float64
		timeout string
		wantErr bool
	}{
		{"defaults", 0.8, "0s", false},
		{"silent", 0, "90s", false},
		{"too loud", 1.5, "0s", true},
		{"negative volume", -0.1, "0s", true},
		{"negative timeout", 0.5, "-1s", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			viper.Set("volume", tc.volume)
			viper.Set("timeout", tc.timeout)
			viper.Set("presets", []string{" jazz ", "", "techno"})

			err := validateOptions(rootCmd)
			if (err != nil) != tc.wantErr {
				t.Fatalf("validateOptions() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if len(presets) != 2 || presets[0] != "jazz" || presets[1] != "techno" {
				t.Errorf("presets = %q", presets)
			}
		})
	}
}

func runRoot(t *testing.T, args ...string) error {
	t.Helper()
	oldFile := configFile
	t.Cleanup(func() {
		configFile = oldFile
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	rootCmd.SetArgs(args)
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	return rootCmd.Execute()
}

func TestRootReadsConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alt.yml")
	body := "api_url: \"http://from-alt-config:9999\"\nvolume: 0.25\ntimeout: \"45s\"\npresets:\n  - \"lofi beats\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := runRoot(t, "--config", path, "man"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if apiURL != "http://from-alt-config:9999" {
		t.Errorf("apiURL = %q, want the value from %s", apiURL, path)
	}
	if volume != 0.25 {
		t.Errorf("volume = %v, want 0.25", volume)
	}
	if timeout != 45*time.Second {
		t.Errorf("timeout = %v, want 45s", timeout)
	}
	if len(presets) != 1 || presets[0] != "lofi beats" {
		t.Errorf("presets = %q, want [lofi beats]", presets)
	}
	if viper.ConfigFileUsed() != path {
		t.Errorf("ConfigFileUsed() = %q, want %q", viper.ConfigFileUsed(), path)
	}
}

func TestRootRejectsMissingConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yml")
	err := runRoot(t, "--config", path, "man")
	if err == nil || !strings.Contains(err.Error(), "missing.yml") {
		t.Errorf("Execute() error = %v, want an error naming %s", err, path)
	}
}

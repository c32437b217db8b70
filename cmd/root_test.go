package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestInitConfigFileNotFound(t *testing.T) {
	origHome := os.Getenv("HOME")
	defer os.Setenv("HOME", origHome)

	tmpDir := t.TempDir()
	os.Setenv("HOME", tmpDir)

	viper.Reset()
	cfgFile = ""

	// Should not error even when no config file exists.
	initConfig()
}

func TestInitConfigWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `engine:
  morsel_limit: 4096
  transfer_cap: 4
defaults:
  format: json
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	viper.Reset()
	cfgFile = configPath
	defer func() { cfgFile = "" }()

	initConfig()

	if viper.GetString("format") != "json" {
		t.Errorf("format = %q, want json", viper.GetString("format"))
	}
	if viper.GetInt("morsel_limit") != 4096 {
		t.Errorf("morsel_limit = %d, want 4096", viper.GetInt("morsel_limit"))
	}
}

func TestEngineConfigFromViper(t *testing.T) {
	viper.Reset()
	viper.Set("morsel_limit", 1024)
	viper.Set("transfer_cap", 3)
	viper.Set("min_accel_bytes", int64(65536))

	cfg := engineConfigFromViper()
	if cfg.MorselLimit != 1024 || cfg.TransferCap != 3 || cfg.MinAccelBytes != 65536 {
		t.Fatalf("engineConfigFromViper() = %+v, unexpected", cfg)
	}
}

func TestRootCommandStructure(t *testing.T) {
	if rootCmd.Use != "trueno" {
		t.Errorf("rootCmd.Use = %q, want trueno", rootCmd.Use)
	}
	for _, name := range []string{"load", "query", "config", "version"} {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected %q subcommand to be registered", name)
		}
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/truenodb/trueno/internal/engine"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "trueno",
	Short: "Embedded columnar OLAP engine over Arrow batches",
	Long: `trueno loads tabular data into an in-memory columnar engine and
answers analytical queries against it: projections, filters, aggregates,
and Top-K, dispatched across scalar, vector, and accelerator backends
depending on operand size.

Load data from an Arrow IPC file or a MySQL query, then run SQL against
it without a server round trip.`,
}

// Execute is called by main.main(). It adds all child commands to the root
// command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.trueno/config.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "Output format: text, plain, json, markdown")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show additional debug info")

	rootCmd.PersistentFlags().Int("morsel-limit", 0, "Morsel byte limit (0 = engine default)")
	rootCmd.PersistentFlags().Int("transfer-cap", 0, "Transfer queue capacity (0 = engine default)")
	rootCmd.PersistentFlags().Int64("min-accel-bytes", 0, "Minimum operand size to consider the accelerator (0 = engine default)")

	// Bind flags to viper
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("morsel_limit", rootCmd.PersistentFlags().Lookup("morsel-limit"))
	viper.BindPFlag("transfer_cap", rootCmd.PersistentFlags().Lookup("transfer-cap"))
	viper.BindPFlag("min_accel_bytes", rootCmd.PersistentFlags().Lookup("min-accel-bytes"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		viper.AddConfigPath(home + "/.trueno")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TRUENO")
	viper.AutomaticEnv()

	// Silently ignore missing config file — it's optional
	if err := viper.ReadInConfig(); err == nil {
		if !rootCmd.PersistentFlags().Changed("format") && viper.IsSet("defaults.format") {
			viper.Set("format", viper.GetString("defaults.format"))
		}
		if !rootCmd.PersistentFlags().Changed("morsel-limit") && viper.IsSet("engine.morsel_limit") {
			viper.Set("morsel_limit", viper.GetInt("engine.morsel_limit"))
		}
		if !rootCmd.PersistentFlags().Changed("transfer-cap") && viper.IsSet("engine.transfer_cap") {
			viper.Set("transfer_cap", viper.GetInt("engine.transfer_cap"))
		}
		if !rootCmd.PersistentFlags().Changed("min-accel-bytes") && viper.IsSet("engine.min_accel_bytes") {
			viper.Set("min_accel_bytes", viper.GetInt64("engine.min_accel_bytes"))
		}
	}
}

// engineConfigFromViper builds an engine.Config from the bound flags/config
// file, the way the teacher builds a mysql.ConnectionConfig from viper in
// cmd/connect.go and cmd/plan.go.
func engineConfigFromViper() engine.Config {
	return engine.Config{
		MorselLimit:   viper.GetInt("morsel_limit"),
		TransferCap:   viper.GetInt("transfer_cap"),
		MinAccelBytes: viper.GetInt64("min_accel_bytes"),
	}
}

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/truenodb/trueno/internal/engine"
	"github.com/truenodb/trueno/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage trueno configuration",
}

var configInitCmd = &cobra.Command{
	Use:          "init",
	Short:        "Create config file interactively",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		configDir := filepath.Join(home, ".trueno")
		configPath := filepath.Join(configDir, "config.yaml")

		if _, err := os.Stat(configPath); err == nil {
			fmt.Printf("Config file already exists at %s\n", configPath)
			fmt.Print("Overwrite? [y/N]: ")
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.TrimSpace(strings.ToLower(answer)) != "y" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := os.MkdirAll(configDir, 0700); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		reader := bufio.NewReader(os.Stdin)

		fmt.Println("trueno configuration setup")
		fmt.Println("─────────────────────────")
		fmt.Println()

		fmt.Printf("Morsel limit in bytes [%d]: ", engine.DefaultMorselLimit)
		morselLimit, _ := reader.ReadString('\n')
		morselLimit = strings.TrimSpace(morselLimit)
		if morselLimit == "" {
			morselLimit = strconv.Itoa(engine.DefaultMorselLimit)
		}

		fmt.Printf("Transfer queue capacity [%d]: ", engine.DefaultTransferCap)
		transferCap, _ := reader.ReadString('\n')
		transferCap = strings.TrimSpace(transferCap)
		if transferCap == "" {
			transferCap = strconv.Itoa(engine.DefaultTransferCap)
		}

		fmt.Print("Default output format [text]: ")
		format, _ := reader.ReadString('\n')
		format = strings.TrimSpace(format)
		if format == "" {
			format = "text"
		}

		var config strings.Builder
		config.WriteString("# trueno configuration\n\n")
		config.WriteString("engine:\n")
		config.WriteString(fmt.Sprintf("  morsel_limit: %s\n", morselLimit))
		config.WriteString(fmt.Sprintf("  transfer_cap: %s\n", transferCap))

		config.WriteString("\ndefaults:\n")
		config.WriteString(fmt.Sprintf("  format: %s\n", format))

		if err := os.WriteFile(configPath, []byte(config.String()), 0600); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("\n✅ Config written to %s\n", configPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the engine configuration that would be used",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := engineConfigFromViper().Resolve()
		renderer := output.NewRenderer(viper.GetString("format"), os.Stdout)
		renderer.RenderConfig(map[string]string{
			"morsel_limit":      strconv.Itoa(cfg.MorselLimit),
			"transfer_cap":      strconv.Itoa(cfg.TransferCap),
			"min_accel_bytes":   strconv.FormatInt(cfg.MinAccelBytes, 10),
			"pcie_bytes_per_ms": strconv.FormatInt(cfg.PCIeBytesPerMs, 10),
			"accel_flops_per_ms": strconv.FormatInt(cfg.AccelFlopsPerMs, 10),
		})

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Printf("\nConfig file: %s\n", configFile)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

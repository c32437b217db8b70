package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/truenodb/trueno/internal/engine"
	"github.com/truenodb/trueno/internal/output"
)

var queryCmd = &cobra.Command{
	Use:          "query [SQL statement]",
	Short:        "Load a data source and run a query against it",
	SilenceUsage: true,
	Long: `Query loads a data source (--arrow-file or --mysql-query) into the
engine and runs a SQL statement against it:

  SELECT proj FROM t [WHERE ...] [ORDER BY col ASC|DESC] [LIMIT k]

The result is rendered in the format selected by --format (text, plain,
json, markdown).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sql := args[0]

		bts, sch, err := loadSource(cmd, nil)
		if err != nil {
			return err
		}

		eng := engine.New(sch, engineConfigFromViper())
		if err := eng.LoadAll(bts); err != nil {
			return fmt.Errorf("loading batches into engine: %w", err)
		}

		start := time.Now()
		result, err := eng.Query(context.Background(), sql)
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
		elapsed := time.Since(start)

		renderer := output.NewRenderer(viper.GetString("format"), os.Stdout)
		renderer.RenderResult(result, elapsed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	addSourceFlags(queryCmd)
}

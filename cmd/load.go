package cmd

import (
	"context"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/truenodb/trueno/internal/batch"
	"github.com/truenodb/trueno/internal/ingest"
	"github.com/truenodb/trueno/internal/schema"
)

var loadCmd = &cobra.Command{
	Use:          "load [arrow-file-path]",
	Short:        "Load a data source and print its resolved schema",
	SilenceUsage: true,
	Long: `Load ingests a table from an Arrow IPC file (positional argument or
--arrow-file) or a MySQL query (--mysql-query, against the connection
flags) and reports the schema and row count it resolved — useful to confirm
a source loads cleanly before scripting "trueno query" against it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bts, sch, err := loadSource(cmd, args)
		if err != nil {
			return err
		}

		rows := 0
		for _, b := range bts {
			rows += b.NumRows()
		}

		fmt.Printf("Loaded %d rows across %d fields:\n", rows, sch.Len())
		for _, f := range sch.Fields {
			fmt.Printf("  %-20s %s\n", f.Name, f.Type)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	addSourceFlags(loadCmd)
}

// addSourceFlags registers the --arrow-file / --mysql-query and MySQL
// connection flags shared by the load and query commands.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("arrow-file", "", "Path to an Arrow IPC file to load")
	cmd.Flags().String("mysql-query", "", "SQL query to run against MySQL and load the result set")
	cmd.Flags().StringP("host", "H", "127.0.0.1", "MySQL host")
	cmd.Flags().IntP("port", "P", 3306, "MySQL port")
	cmd.Flags().StringP("user", "u", "", "MySQL user")
	cmd.Flags().StringP("password", "p", "", "MySQL password")
	cmd.Flags().StringP("database", "d", "", "MySQL database")
	cmd.Flags().StringP("socket", "S", "", "Unix socket path")
	cmd.Flags().String("tls", "", "MySQL TLS mode: disabled, preferred, required, skip-verify, custom")
	cmd.Flags().String("tls-ca", "", "CA file path for --tls custom")
}

// loadSource resolves a command's --arrow-file / --mysql-query flags (or
// the positional argument as an Arrow file path, for convenience) into
// batches and a schema — the single place both "load" and "query" turn CLI
// input into table data, the way the teacher's getSQLInput resolves a
// statement from args or --file in cmd/plan.go.
func loadSource(cmd *cobra.Command, args []string) ([]*batch.Batch, schema.Schema, error) {
	arrowPath, _ := cmd.Flags().GetString("arrow-file")
	if arrowPath == "" && len(args) > 0 {
		arrowPath = args[0]
	}
	mysqlQuery, _ := cmd.Flags().GetString("mysql-query")

	switch {
	case arrowPath != "" && mysqlQuery != "":
		return nil, schema.Schema{}, fmt.Errorf("specify only one of --arrow-file or --mysql-query")
	case arrowPath != "":
		src := ingest.NewArrowFileSource()
		return src.Load(arrowPath)
	case mysqlQuery != "":
		cfg, err := mysqlConnectionConfig(cmd)
		if err != nil {
			return nil, schema.Schema{}, err
		}
		src := ingest.NewMySQLSource(cfg)
		return src.Load(context.Background(), mysqlQuery)
	default:
		return nil, schema.Schema{}, fmt.Errorf("specify a data source: --arrow-file or --mysql-query")
	}
}

func mysqlConnectionConfig(cmd *cobra.Command) (ingest.ConnectionConfig, error) {
	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")
	user, _ := cmd.Flags().GetString("user")
	password, _ := cmd.Flags().GetString("password")
	database, _ := cmd.Flags().GetString("database")
	socket, _ := cmd.Flags().GetString("socket")
	tlsMode, _ := cmd.Flags().GetString("tls")
	tlsCA, _ := cmd.Flags().GetString("tls-ca")

	if password == "" {
		password = viper.GetString("mysql.password")
	}
	if password == "" && term.IsTerminal(syscall.Stdin) {
		password = PromptPassword()
	}
	if user == "" {
		user = "trueno"
	}

	return ingest.ConnectionConfig{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		Database: database,
		Socket:   socket,
		TLSMode:  tlsMode,
		TLSCA:    tlsCA,
	}, nil
}

// PromptPassword reads a password from the terminal without echoing.
func PromptPassword() string {
	fmt.Print("Enter password: ")
	password, err := term.ReadPassword(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(password)
}

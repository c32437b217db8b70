package ingest

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"fmt"
	"os"

	mysqldriver "github.com/go-sql-driver/mysql"

	"github.com/truenodb/trueno/internal/batch"
	"github.com/truenodb/trueno/internal/coltype"
	"github.com/truenodb/trueno/internal/column"
	"github.com/truenodb/trueno/internal/schema"
	"github.com/truenodb/trueno/internal/xerr"
)

// ConnectionConfig holds MySQL connection parameters, directly mirroring
// the teacher's internal/mysql.ConnectionConfig (same DSN-building and TLS
// mode set — "", disabled, preferred, required, skip-verify, custom).
type ConnectionConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Socket   string
	TLSMode  string
	TLSCA    string
}

// MySQLSource loads a table snapshot by running one query and
// materializing every row into batches, grounded on the teacher's
// internal/mysql/connection.go (DSN building, TLS registration,
// conservative pool sizing) and metadata.go (rows.Scan loop shape).
type MySQLSource struct {
	cfg ConnectionConfig
}

// NewMySQLSource returns a source bound to cfg. No connection is opened
// until Load runs.
func NewMySQLSource(cfg ConnectionConfig) *MySQLSource {
	return &MySQLSource{cfg: cfg}
}

// Load runs query and converts the entire result set into batches sharing
// one schema, inferred from the driver's column type metadata. The whole
// result is read into memory — the engine ingests in whole batches, never
// incrementally per spec.md §3.1.
func (s *MySQLSource) Load(ctx context.Context, query string) ([]*batch.Batch, schema.Schema, error) {
	db, err := connect(s.cfg)
	if err != nil {
		return nil, schema.Schema{}, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, schema.Schema{}, xerr.Wrap(xerr.IngestFailed, "running query", err)
	}
	defer rows.Close()

	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, schema.Schema{}, xerr.Wrap(xerr.IngestFailed, "reading column metadata", err)
	}
	sch, err := translateColumnTypes(cols)
	if err != nil {
		return nil, schema.Schema{}, err
	}

	b, err := scanAll(rows, sch)
	if err != nil {
		return nil, schema.Schema{}, err
	}
	return []*batch.Batch{b}, sch, nil
}

func connect(cfg ConnectionConfig) (*sql.DB, error) {
	if cfg.TLSMode == "custom" {
		if cfg.TLSCA == "" {
			return nil, xerr.Wrap(xerr.IngestFailed, "TLSCA is required when TLSMode is custom", nil)
		}
		if err := registerCustomTLS(cfg.TLSCA); err != nil {
			return nil, xerr.Wrap(xerr.IngestFailed, "registering custom TLS config", err)
		}
	}

	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, xerr.Wrap(xerr.IngestFailed, "building DSN", err)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, xerr.Wrap(xerr.IngestFailed, "opening connection", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, xerr.Wrap(xerr.IngestFailed, "pinging server", err)
	}

	// A read-only, single-query ingest never needs more than one
	// connection in flight.
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	return db, nil
}

func registerCustomTLS(caPath string) error {
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return fmt.Errorf("reading CA certificate %q: %w", caPath, err)
	}
	rootCAs := x509.NewCertPool()
	if !rootCAs.AppendCertsFromPEM(pem) {
		return fmt.Errorf("no valid certificates found in %q", caPath)
	}
	return mysqldriver.RegisterTLSConfig("trueno-custom", &tls.Config{RootCAs: rootCAs})
}

func buildDSN(cfg ConnectionConfig) (string, error) {
	switch cfg.TLSMode {
	case "", "disabled", "preferred", "required", "skip-verify", "custom":
	default:
		return "", fmt.Errorf("invalid TLS mode %q", cfg.TLSMode)
	}

	var addr string
	if cfg.Socket != "" {
		addr = fmt.Sprintf("unix(%s)", cfg.Socket)
	} else {
		addr = fmt.Sprintf("tcp(%s:%d)", cfg.Host, cfg.Port)
	}

	db := cfg.Database
	if db == "" {
		db = "information_schema"
	}

	dsn := fmt.Sprintf("%s:%s@%s/%s?parseTime=true&interpolateParams=true", cfg.User, cfg.Password, addr, db)
	switch cfg.TLSMode {
	case "preferred":
		dsn += "&tls=preferred"
	case "required":
		dsn += "&tls=true"
	case "skip-verify":
		dsn += "&tls=skip-verify"
	case "custom":
		dsn += "&tls=trueno-custom"
	}
	return dsn, nil
}

// translateColumnTypes infers the engine's coltype for each result column
// from the driver's reported database type name, falling back to the
// column's scan type when the name isn't one of MySQL's well-known numeric
// types.
func translateColumnTypes(cols []*sql.ColumnType) (schema.Schema, error) {
	fields := make([]schema.Field, len(cols))
	for i, c := range cols {
		t, err := mysqlType(c)
		if err != nil {
			return schema.Schema{}, xerr.Wrap(xerr.IngestFailed, fmt.Sprintf("column %q: %v", c.Name(), err), nil)
		}
		nullable, _ := c.Nullable()
		fields[i] = schema.Field{Name: c.Name(), Type: t, Nullable: nullable}
	}
	return schema.New(fields...), nil
}

func mysqlType(c *sql.ColumnType) (coltype.Type, error) {
	switch c.DatabaseTypeName() {
	case "INT", "MEDIUMINT", "SMALLINT", "TINYINT":
		return coltype.Int32, nil
	case "BIGINT":
		return coltype.Int64, nil
	case "FLOAT":
		return coltype.Float32, nil
	case "DOUBLE", "DECIMAL":
		return coltype.Float64, nil
	case "VARCHAR", "CHAR", "TEXT", "LONGTEXT", "MEDIUMTEXT", "DATETIME", "DATE", "TIMESTAMP":
		return coltype.String, nil
	case "BOOL", "BOOLEAN":
		return coltype.Bool, nil
	default:
		return "", fmt.Errorf("unsupported MySQL column type %q", c.DatabaseTypeName())
	}
}

// scanAll reads every row of rows into column-major builders matching sch,
// the column-store mirror of the teacher's row-major metadata.go scan
// loop.
func scanAll(rows *sql.Rows, sch schema.Schema) (*batch.Batch, error) {
	n := sch.Len()
	dest := make([]any, n)
	raw := make([]sql.NullString, n)
	for i := range dest {
		dest[i] = &raw[i]
	}

	builders := make([]columnBuilder, n)
	for i, f := range sch.Fields {
		builders[i] = newColumnBuilder(f.Type)
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, xerr.Wrap(xerr.IngestFailed, "scanning row", err)
		}
		for i, f := range sch.Fields {
			if err := builders[i].append(raw[i], f.Type); err != nil {
				return nil, xerr.Wrap(xerr.IngestFailed, fmt.Sprintf("column %q", f.Name), err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, xerr.Wrap(xerr.IngestFailed, "iterating rows", err)
	}

	cols := make([]column.Column, n)
	for i, b := range builders {
		cols[i] = b.build()
	}
	return batch.New(sch, cols)
}

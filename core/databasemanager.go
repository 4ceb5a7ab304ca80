package core

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type LogLevel int

const (
	LogLevelSilent LogLevel = iota + 1
	LogLevelError
	LogLevelWarn
	LogLevelInfo
)

// ParseLogLevel maps the service LOG_LEVEL to a gorm level: SQL statements
// are only logged at DEBUG.
func ParseLogLevel(level string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return LogLevelInfo
	case "ERROR":
		return LogLevelError
	case "SILENT":
		return LogLevelSilent
	}
	return LogLevelWarn
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

var schemaPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type DatabaseManager struct {
	SqlDB  *sql.DB
	Driver string
	// DefaultSchema is used for requests served from localhost.
	DefaultSchema string
	LogLevel      LogLevel
}

// New creates the global pool shared by every tenant.
// For mysql the dsn schema only serves as the localhost default.
func New(driver, dsn string, maxConnection int) (*DatabaseManager, error) {
	driverName, err := sqlDriverName(driver)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxConnection)
	sqlDB.SetMaxIdleConns(maxConnection)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping pool: %w", err)
	}

	return &DatabaseManager{
		SqlDB:         sqlDB,
		Driver:        driver,
		DefaultSchema: DefaultSchema(driver, dsn),
	}, nil
}

func sqlDriverName(driver string) (string, error) {
	switch driver {
	case DriverMySQL:
		return "mysql", nil
	case DriverPostgres:
		return "pgx", nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

// DefaultSchema is the database named in a mysql dsn, or "public" for postgres.
func DefaultSchema(driver, dsn string) string {
	if driver == DriverPostgres {
		if u, err := url.Parse(dsn); err == nil {
			if s := u.Query().Get("search_path"); s != "" {
				return s
			}
		}
		return "public"
	}

	// Split on "?" to remove query params, the db name is the last segment
	withoutQuery, _, _ := strings.Cut(dsn, "?")
	segments := strings.Split(withoutQuery, "/")
	return segments[len(segments)-1]
}

// SchemaForHost maps a request host to its tenant schema,
// e.g. "acme.jobtrack.app:443" -> "acme". localhost maps to the default schema.
func (dm *DatabaseManager) SchemaForHost(host string) string {
	host, _, _ = strings.Cut(host, ":")
	if host == "localhost" || host == "127.0.0.1" || host == "" {
		return dm.DefaultSchema
	}
	schema, _, _ := strings.Cut(host, ".")
	return schema
}

// useSchemaStatement switches a dedicated connection to the tenant schema.
func useSchemaStatement(driver, schema string) (string, error) {
	if !schemaPattern.MatchString(schema) {
		return "", fmt.Errorf("invalid schema name %q", schema)
	}
	if driver == DriverPostgres {
		return `SET search_path TO "` + schema + `"`, nil
	}
	return "USE `" + schema + "`", nil
}

func (dm *DatabaseManager) gormLogLevel() logger.LogLevel {
	switch dm.LogLevel {
	case LogLevelError:
		return logger.Error
	case LogLevelWarn:
		return logger.Warn
	case LogLevelInfo:
		return logger.Info
	case LogLevelSilent:
		return logger.Silent
	}
	return logger.Info
}

func (dm *DatabaseManager) dialector(conn *sql.Conn) gorm.Dialector {
	if dm.Driver == DriverPostgres {
		return postgres.New(postgres.Config{Conn: conn})
	}
	return mysql.New(mysql.Config{
		Conn:                      conn, // lock GORM to this connection
		SkipInitializeWithVersion: true,
	})
}

// GetDB gets a *gorm.DB bound to a single connection switched to the schema
// served at host. The caller closes the returned connection.
func (dm *DatabaseManager) GetDB(ctx context.Context, host string) (*gorm.DB, *sql.Conn, error) {
	schema := dm.SchemaForHost(host)
	stmt, err := useSchemaStatement(dm.Driver, schema)
	if err != nil {
		return nil, nil, err
	}

	// Get a dedicated connection from pool
	conn, err := dm.SqlDB.Conn(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get conn: %w", err)
	}

	if _, err := conn.ExecContext(ctx, stmt); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to use schema %s: %w", schema, err)
	}

	db, err := gorm.Open(dm.dialector(conn), &gorm.Config{
		Logger: logger.Default.LogMode(dm.gormLogLevel()),
	})
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return db.WithContext(ctx), conn, nil
}

// Close closes the global pool
func (dm *DatabaseManager) Close() error {
	return dm.SqlDB.Close()
}

func (dm *DatabaseManager) Exec(ctx context.Context, host string, fn func(db *gorm.DB) error) error {
	db, conn, err := dm.GetDB(ctx, host)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(db)
}

package devops

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// DatabasesParameter is the SSM parameter holding the YAML list of database servers.
const DatabasesParameter = "databases"

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type DBEntry struct {
	Name     string `yaml:"name" json:"name"`
	Host     string `yaml:"host" json:"host"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// DSN builds a connection string for driver ("mysql" or "postgres") pointing
// at dbname. A host without a port gets the driver's default port.
func (db DBEntry) DSN(driver, dbname string) string {
	switch driver {
	case DriverPostgres:
		host := db.Host
		if _, _, err := net.SplitHostPort(host); err != nil {
			host = net.JoinHostPort(host, "5432")
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(db.Username, db.Password),
			Host:     host,
			Path:     "/" + dbname,
			RawQuery: "sslmode=require",
		}
		return u.String()
	default:
		// username:password@tcp(host:3306)/name?parseTime=true
		host := db.Host
		if !strings.Contains(host, ":") {
			host = host + ":3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", db.Username, db.Password, host, dbname)
	}
}

// ParseDatabases reads the YAML list stored in the databases parameter,
// keyed by lower-cased entry name.
func ParseDatabases(raw []byte) (map[string]DBEntry, error) {
	var entries []DBEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	result := make(map[string]DBEntry, len(entries))
	for _, entry := range entries {
		result[strings.ToLower(entry.Name)] = entry
	}
	return result, nil
}

var (
	once    sync.Once
	dbList  map[string]DBEntry
	loadErr error
)

// LoadDatabases fetches and parses the databases parameter once per process.
func LoadDatabases(ctx context.Context) (map[string]DBEntry, error) {
	once.Do(func() {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			loadErr = fmt.Errorf("load aws config: %w", err)
			return
		}

		client := ssm.NewFromConfig(cfg)

		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(DatabasesParameter),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			loadErr = fmt.Errorf("get parameter: %w", err)
			return
		}
		if out.Parameter == nil || out.Parameter.Value == nil {
			loadErr = fmt.Errorf("parameter %s is empty", DatabasesParameter)
			return
		}

		dbList, loadErr = ParseDatabases([]byte(*out.Parameter.Value))
	})

	return dbList, loadErr
}

// LookupDatabase returns the entry for env ("prod", "test", ...).
func LookupDatabase(ctx context.Context, env string) (DBEntry, error) {
	entries, err := LoadDatabases(ctx)
	if err != nil {
		return DBEntry{}, err
	}
	entry, ok := entries[strings.ToLower(env)]
	if !ok {
		return DBEntry{}, fmt.Errorf("no database entry named %q", env)
	}
	return entry, nil
}

// Package config loads service settings from the environment, an optional
// .env file and an optional YAML file named by CONFIG_FILE.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Graph struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	Sender       string
}

type Slack struct {
	Token        string
	InfoChannel  string
	ErrorChannel string
}

type Config struct {
	HTTPAddr         string
	DBDriver         string
	DSN              string
	DBEnv            string
	Store            string
	FirestoreProject string
	SigningSecret    string
	MailProvider     string
	MailFrom         string
	Graph            Graph
	ArchiveBucket    string
	Slack            Slack
	ConsoleDSN       string
	LogLevel         string
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"

	StoreSQL       = "sql"
	StoreFirestore = "firestore"

	MailSES   = "ses"
	MailGraph = "graph"
	MailNone  = "none"
)

func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("STORE", StoreSQL)
	v.SetDefault("MAIL_PROVIDER", MailNone)
	v.SetDefault("LOG_LEVEL", "INFO")

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := &Config{
		HTTPAddr:         v.GetString("HTTP_ADDR"),
		DBDriver:         v.GetString("DB_DRIVER"),
		DSN:              v.GetString("DSN"),
		DBEnv:            v.GetString("DB_ENV"),
		Store:            v.GetString("STORE"),
		FirestoreProject: v.GetString("FIRESTORE_PROJECT"),
		SigningSecret:    v.GetString("SIGNING_SECRET"),
		MailProvider:     v.GetString("MAIL_PROVIDER"),
		MailFrom:         v.GetString("MAIL_FROM"),
		Graph: Graph{
			TenantID:     v.GetString("GRAPH_TENANT_ID"),
			ClientID:     v.GetString("GRAPH_CLIENT_ID"),
			ClientSecret: v.GetString("GRAPH_CLIENT_SECRET"),
			Sender:       v.GetString("GRAPH_SENDER"),
		},
		ArchiveBucket: v.GetString("ARCHIVE_BUCKET"),
		Slack: Slack{
			Token:        v.GetString("SLACK_BOT_TOKEN"),
			InfoChannel:  v.GetString("SLACK_INFO_CHANNEL"),
			ErrorChannel: v.GetString("SLACK_ERROR_CHANNEL"),
		},
		ConsoleDSN: v.GetString("CONSOLE_DSN"),
		LogLevel:   v.GetString("LOG_LEVEL"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.Store {
	case StoreSQL:
	case StoreFirestore:
		if c.FirestoreProject == "" {
			return fmt.Errorf("FIRESTORE_PROJECT is required when STORE=firestore")
		}
	default:
		return fmt.Errorf("unsupported STORE %q", c.Store)
	}

	switch c.MailProvider {
	case MailNone, MailSES:
	case MailGraph:
		g := c.Graph
		if g.TenantID == "" || g.ClientID == "" || g.ClientSecret == "" || g.Sender == "" {
			return fmt.Errorf("GRAPH_TENANT_ID, GRAPH_CLIENT_ID, GRAPH_CLIENT_SECRET and GRAPH_SENDER are required when MAIL_PROVIDER=graph")
		}
	default:
		return fmt.Errorf("unsupported MAIL_PROVIDER %q", c.MailProvider)
	}
	return nil
}

// Package bootstrap builds the collaborators shared by the web server, the
// lambda and the CLI from a loaded config.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"jobtrack.com/jobtrack/config"
	"jobtrack.com/jobtrack/console"
	"jobtrack.com/jobtrack/infrastructure/communication"
	"jobtrack.com/jobtrack/infrastructure/devops"
	"jobtrack.com/jobtrack/infrastructure/filesystem"
	"jobtrack.com/jobtrack/infrastructure/graph"
	"jobtrack.com/jobtrack/infrastructure/mail"
	"jobtrack.com/jobtrack/reporting"
)

// DSN returns the configured DSN, or builds one from the DB_ENV entry of the
// SSM databases parameter.
func DSN(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.DBEnv == "" {
		return "", fmt.Errorf("either DSN or DB_ENV is required")
	}
	entry, err := devops.LookupDatabase(ctx, cfg.DBEnv)
	if err != nil {
		return "", err
	}
	return entry.DSN(cfg.DBDriver, entry.Name), nil
}

// Mailer returns nil when MAIL_PROVIDER is none.
func Mailer(ctx context.Context, cfg *config.Config) (reporting.Mailer, error) {
	switch cfg.MailProvider {
	case config.MailSES:
		return mail.NewSESMailer(ctx)
	case config.MailGraph:
		return graph.NewClient(graph.Config{
			TenantID:     cfg.Graph.TenantID,
			ClientID:     cfg.Graph.ClientID,
			ClientSecret: cfg.Graph.ClientSecret,
			Sender:       cfg.Graph.Sender,
		}, &http.Client{Timeout: 30 * time.Second}), nil
	}
	return nil, nil
}

// Options wires everything reporting needs except the store. Optional parts
// that are not configured stay nil. The returned func releases connections.
func Options(ctx context.Context, cfg *config.Config) (reporting.Options, func(), error) {
	opts := reporting.Options{From: cfg.MailFrom}
	cleanup := func() {}

	mailer, err := Mailer(ctx, cfg)
	if err != nil {
		return opts, cleanup, err
	}
	if mailer != nil {
		opts.Mailer = mailer
	}

	if cfg.ArchiveBucket != "" {
		archive, err := filesystem.NewS3Archive(ctx, cfg.ArchiveBucket)
		if err != nil {
			return opts, cleanup, err
		}
		opts.Archiver = archive
	}

	if cfg.Slack.Token != "" {
		opts.Notifier = communication.NewSlack(cfg.Slack.Token, communication.SlackOption{
			InfoChannelID:  cfg.Slack.InfoChannel,
			ErrorChannelID: cfg.Slack.ErrorChannel,
		})
	}

	if cfg.ConsoleDSN != "" || cfg.DBEnv != "" {
		db, err := console.Connect(ctx, cfg.ConsoleDSN)
		if err != nil {
			// recipients then have to be given on each request
			slog.Warn("console directory unavailable", "error", err)
		} else {
			opts.Recipients = console.NewDirectory(db)
			cleanup = func() {
				if sqlDB, err := db.DB(); err == nil {
					sqlDB.Close()
				}
			}
		}
	}
	return opts, cleanup, nil
}

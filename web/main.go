package main

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"jobtrack.com/jobtrack/bootstrap"
	"jobtrack.com/jobtrack/config"
	"jobtrack.com/jobtrack/core"
	"jobtrack.com/jobtrack/docstore"
	"jobtrack.com/jobtrack/logging"
	"jobtrack.com/jobtrack/security"
	"jobtrack.com/jobtrack/web/common"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("load config", "error", err)
	}
	logging.Setup(cfg.LogLevel)
	ctx := context.Background()

	jwtSecret, err := security.DecodeSecret(cfg.SigningSecret)
	if err != nil {
		logging.Fatal("signing secret", "error", err)
	}

	stores, closer, err := openStores(ctx, cfg)
	if err != nil {
		logging.Fatal("open store", "store", cfg.Store, "error", err)
	}
	defer closer.Close()

	opts, cleanup, err := bootstrap.Options(ctx, cfg)
	if err != nil {
		logging.Fatal("reporting setup", "error", err)
	}
	defer cleanup()

	gin.SetMode(gin.ReleaseMode)
	r := newRouter(jwtSecret, common.Handler{Stores: stores, Reporting: opts})

	logging.FromContext(ctx).Info("listening", "addr", cfg.HTTPAddr, "store", cfg.Store, "mail", cfg.MailProvider)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logging.Fatal("http server stopped", "error", err)
	}
}

func openStores(ctx context.Context, cfg *config.Config) (common.StoreProvider, io.Closer, error) {
	if cfg.Store == config.StoreFirestore {
		fs, err := docstore.NewFirestoreStore(ctx, cfg.FirestoreProject)
		if err != nil {
			return nil, nil, err
		}
		return common.SharedStore{Store: fs}, fs, nil
	}

	dsn, err := bootstrap.DSN(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	dm, err := core.New(cfg.DBDriver, dsn, 10)
	if err != nil {
		return nil, nil, err
	}
	dm.LogLevel = core.ParseLogLevel(cfg.LogLevel)
	return common.SQLStores{Dm: dm}, dm, nil
}

package common

import (
	"context"
	"net"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"jobtrack.com/jobtrack/core"
	"jobtrack.com/jobtrack/reporting"
)

// StoreProvider runs fn with the store serving host.
type StoreProvider interface {
	WithStore(ctx context.Context, host string, fn func(reporting.Store) error) error
}

// SQLStores selects the tenant schema from the host on a dedicated connection.
type SQLStores struct {
	Dm *core.DatabaseManager
}

func (p SQLStores) WithStore(ctx context.Context, host string, fn func(reporting.Store) error) error {
	return p.Dm.Exec(ctx, host, func(db *gorm.DB) error {
		return fn(core.NewTimecardStore(db))
	})
}

// SharedStore serves every host from one store.
type SharedStore struct {
	Store reporting.Store
}

func (p SharedStore) WithStore(_ context.Context, _ string, fn func(reporting.Store) error) error {
	return fn(p.Store)
}

type Handler struct {
	Stores StoreProvider
	// Reporting carries the mailer, archive, alerts and directory; Store is
	// filled per request.
	Reporting reporting.Options
}

func GetHostname(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// Tenant is the first label of the request host, e.g. "acme" for acme.jobtrack.app.
func Tenant(c *gin.Context) string {
	tenant, _, _ := strings.Cut(GetHostname(c.Request.Host), ".")
	return tenant
}

// WithService runs fn with a reporting service bound to the request's store.
func (h *Handler) WithService(c *gin.Context, fn func(*reporting.Service) error) error {
	return h.Stores.WithStore(c.Request.Context(), c.Request.Host, func(store reporting.Store) error {
		opts := h.Reporting
		opts.Store = store
		return fn(reporting.New(opts))
	})
}

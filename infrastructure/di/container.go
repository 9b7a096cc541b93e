package di

import (
	"net/http"

	"github.com/gabeliss/tickX/application/services"
	catalogsync "github.com/gabeliss/tickX/application/sync"
	"github.com/gabeliss/tickX/infrastructure/config"
	"github.com/gabeliss/tickX/pkg/errors"
	"github.com/gabeliss/tickX/pkg/observability"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	ErrorHandler   *errors.ErrorHandler
	Metrics        *observability.Metrics
	Tracing        *observability.TracerProvider
	CatalogService *services.CatalogService
	SyncService    *catalogsync.Service
	HTTPHandler    http.Handler
}

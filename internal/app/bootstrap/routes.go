// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	affiliationsfeature "github.com/assetverse/assetverse/internal/app/features/affiliations"
	assetsfeature "github.com/assetverse/assetverse/internal/app/features/assets"
	dashboardfeature "github.com/assetverse/assetverse/internal/app/features/dashboard"
	healthfeature "github.com/assetverse/assetverse/internal/app/features/health"
	packagesfeature "github.com/assetverse/assetverse/internal/app/features/packages"
	paymentsfeature "github.com/assetverse/assetverse/internal/app/features/payments"
	requestsfeature "github.com/assetverse/assetverse/internal/app/features/requests"
	usersfeature "github.com/assetverse/assetverse/internal/app/features/users"
	"github.com/assetverse/assetverse/internal/app/store/audit"
	"github.com/assetverse/assetverse/internal/app/system/auditlog"
	"github.com/assetverse/assetverse/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It creates the token manager and audit
// logger shared by the features, then mounts one subrouter per feature.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tm, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.JWTExpiry)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	auditLog := auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Mode(appCfg.AuditLog))
	db := deps.MongoDatabase

	r := chi.NewRouter()

	usersHandler := usersfeature.NewHandler(db, tm, logger)

	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))
	r.Post("/auth/token", usersHandler.HandleLogin)
	r.Mount("/users", usersfeature.Routes(usersHandler))
	r.Mount("/assets", assetsfeature.Routes(assetsfeature.NewHandler(db, logger), tm))
	r.Mount("/requests", requestsfeature.Routes(requestsfeature.NewHandler(db, auditLog, logger), tm))
	r.Mount("/affiliations", affiliationsfeature.Routes(affiliationsfeature.NewHandler(db, auditLog, logger), tm))
	r.Mount("/packages", packagesfeature.Routes(packagesfeature.NewHandler(db, logger)))
	r.Mount("/payments", paymentsfeature.Routes(paymentsfeature.NewHandler(db, nil, auditLog, logger), tm))
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardfeature.NewHandler(db, logger), tm))

	return r, nil
}

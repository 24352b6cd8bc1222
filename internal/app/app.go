// Package app wires configuration, storage, and both HTTP surfaces into
// a runnable server.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/discobots/discobots-web/internal/config"
	"github.com/discobots/discobots-web/internal/db"
	"github.com/discobots/discobots-web/internal/http/api"
	"github.com/discobots/discobots-web/internal/http/web"
	"github.com/discobots/discobots-web/internal/payment"
	"github.com/discobots/discobots-web/internal/session"
	"github.com/discobots/discobots-web/internal/userstore"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RunServer boots the site server with database-backed components.
func RunServer(ctx context.Context, cfg config.Config, port int) error {
	conn, errOpen := db.Open(cfg.DatabaseDSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: BuildEngine(conn, cfg),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	log.Infof("serving on port %d", port)

	select {
	case <-ctx.Done():
		shutdownErr := server.Shutdown(context.Background())
		<-errCh
		return shutdownErr
	case errServe := <-errCh:
		if errServe == http.ErrServerClosed {
			return nil
		}
		return errServe
	}
}

// BuildEngine constructs the gin engine with both surfaces registered.
// Split out of RunServer so tests can drive it through httptest.
func BuildEngine(conn *gorm.DB, cfg config.Config) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	users := userstore.New(conn)
	sessions := session.NewManager(conn, cfg.Session.Expiry, cfg.Session.RememberExpiry)
	initiator := payment.NewInitiator(
		cfg.Checkout.StripeSecretKey,
		cfg.Checkout.ProductID,
		cfg.Checkout.DiscountVoucher,
	)
	api.RegisterAPIRoutes(engine, conn, users, cfg.JWT, initiator)
	web.RegisterWebRoutes(engine, users, sessions, initiator)

	return engine
}

// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ncibb/credit-ledger/internal/directoryrepo"
	"github.com/ncibb/credit-ledger/internal/directoryservice"
	"github.com/ncibb/credit-ledger/internal/ledgerdelivery"
	"github.com/ncibb/credit-ledger/internal/ledgerrepo"
	"github.com/ncibb/credit-ledger/internal/ledgerservice"
	"github.com/ncibb/credit-ledger/internal/middleware"
	"github.com/ncibb/credit-ledger/internal/packagedelivery"
	"github.com/ncibb/credit-ledger/internal/packagerepo"
	"github.com/ncibb/credit-ledger/internal/packageservice"
	"github.com/ncibb/credit-ledger/internal/statsservice"
	"github.com/ncibb/credit-ledger/pkg/configpkg"
	"github.com/ncibb/credit-ledger/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes. The
// publisher may be nil when event publishing is disabled.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config, publisher ledgerservice.Publisher) (*Server, error) {
	ledgerRepo := ledgerrepo.NewRepoPGS(conn)
	directoryRepo := directoryrepo.NewRepoPGS(conn)
	packageRepo := packagerepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	ledgerService := ledgerservice.New(ledgerRepo, publisher)
	statsService := statsservice.New(ledgerRepo)
	directoryService := directoryservice.New(directoryRepo)
	packageService := packageservice.New(packageRepo)

	ledgerHandler := ledgerdelivery.NewHandler(ledgerService, statsService, directoryService)
	packageHandler := packagedelivery.NewHandler(packageService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.GET("/credits", ledgerHandler.GetBalance)
	authRoutes.GET("/credits/transactions", ledgerHandler.ListTransactions)
	authRoutes.GET("/credits/stats", ledgerHandler.Stats)
	authRoutes.POST("/credits/add", ledgerHandler.Add)
	authRoutes.POST("/credits/spend", ledgerHandler.Spend)

	authRoutes.GET("/credits/packages", packageHandler.List)
	authRoutes.GET("/credits/packages/:id", packageHandler.Get)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("amount", ledgerdelivery.ValidAmount)
		if err != nil {
			return nil, errors.New("cannot register amount validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/cstortz/monorepo-trading-bot/internal/gateway"
)

const serviceName = "market-data"

// Info carries the deployment facts the info endpoint reports.
type Info struct {
	Environment string
	Debug       bool
}

// Server is the HTTP front of the service.
type Server struct {
	svc        *gateway.Service
	info       Info
	logger     *slog.Logger
	router     *mux.Router
	httpServer *http.Server
}

// New creates the server and registers all routes.
func New(svc *gateway.Service, port int, info Info, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		svc:    svc,
		info:   info,
		logger: logger,
		router: mux.NewRouter(),
	}
	s.routes()

	handler := requestID(requestLogging(logger)(cors(s.router)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/info", s.handleInfo).Methods(http.MethodGet)

	s.router.HandleFunc("/kraken/pairs", s.handlePairs).Methods(http.MethodGet)
	s.router.HandleFunc("/kraken/pairs/refresh", s.handleRefreshPairs).Methods(http.MethodPost)
	s.router.HandleFunc("/kraken/add-pair", s.handleAddPair).Methods(http.MethodPost)
	s.router.HandleFunc("/kraken/fetch-ohlc", s.handleFetchOHLC).Methods(http.MethodPost)
	s.router.HandleFunc("/kraken/fetch-ticker", s.handleFetchTicker).Methods(http.MethodPost)
	s.router.HandleFunc("/kraken/sync-symbols", s.handleSyncSymbols).Methods(http.MethodPost)

	s.router.HandleFunc("/symbols", s.handleSymbols).Methods(http.MethodGet)
	s.router.HandleFunc("/symbols/{symbol:.+}", s.handleSymbol).Methods(http.MethodGet)

	s.router.HandleFunc("/real-time-prices", s.handleRealTimePrices).Methods(http.MethodGet)
	s.router.HandleFunc("/real-time-prices", s.handleUpdatePrice).Methods(http.MethodPost)

	s.router.HandleFunc("/market-status", s.handleMarketStatus).Methods(http.MethodGet)

	// symbols contain slashes ("BTC/USD"), so the pattern must span segments;
	// the timeframes route is registered first to win the match
	s.router.HandleFunc("/market-data", s.handleInsertMarketData).Methods(http.MethodPost)
	s.router.HandleFunc("/market-data/{symbol:.+}/timeframes", s.handleTimeframes).Methods(http.MethodGet)
	s.router.HandleFunc("/market-data/{symbol:.+}", s.handleMarketData).Methods(http.MethodGet)
}

// Handler returns the full middleware-wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}

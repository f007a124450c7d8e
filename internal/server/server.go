package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"papertrader/internal/config"
	"papertrader/internal/engine"
	"papertrader/types"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// tickSource exposes the latest price tick. *engine.PriceFeed satisfies it.
type tickSource interface {
	Tick() types.PriceTick
}

// Server presents one session over HTTP and pushes every price tick to
// websocket subscribers.
type Server struct {
	cfg     config.ServerConfig
	session *engine.Session
	feed    tickSource
	hub     *hub
	log     *zap.Logger
	router  *gin.Engine
}

func New(cfg config.ServerConfig, session *engine.Session, feed tickSource, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	s := &Server{
		cfg:     cfg,
		session: session,
		feed:    feed,
		hub:     newHub(log),
		log:     log,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(s.log))

	r.GET("/ping", func(c *gin.Context) {
		ok(c, "pong", nil)
	})

	api := r.Group("/api")
	api.GET("/prices", s.getPrices)
	api.GET("/prices/ws", s.serveStream)
	api.POST("/trade", s.postTrade)
	api.GET("/portfolio", s.getPortfolio)
	api.GET("/history", s.getHistory)
	api.GET("/history.csv", s.getHistoryCSV)
	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// OnTick forwards a price tick to every stream subscriber.
func (s *Server) OnTick(tick types.PriceTick) {
	s.hub.broadcast(tick)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.cfg.Listen))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.hub.close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}

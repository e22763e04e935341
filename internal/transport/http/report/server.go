// Package reporthttp exposes a read-only HTTP API over the pipeline's
// outputs (ledger rows, run history) for the dashboard to consume. It
// adds no decision logic of its own.
package reporthttp

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"coinpilot/internal/ledger"
	"coinpilot/internal/logger"
	"coinpilot/internal/store/runstore"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RunReader is the slice of the run store the API needs.
type RunReader interface {
	ListRuns(ctx context.Context, limit int) ([]runstore.RunRecord, error)
	GetRun(ctx context.Context, id string) (*runstore.RunRecord, []runstore.DecisionRecord, error)
}

// LedgerReader loads persisted ledger rows.
type LedgerReader interface {
	Load() ([]ledger.Entry, error)
}

type ServerConfig struct {
	Addr   string
	Ledger LedgerReader
	Runs   RunReader // optional
}

type Server struct {
	addr   string
	router *gin.Engine
	srv    *http.Server
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Ledger == nil {
		return nil, errors.New("report http server requires a ledger reader")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9981"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.GET("/ledger", func(c *gin.Context) {
		entries, err := cfg.Ledger.Load()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"columns": ledger.Columns, "rows": entries})
	})
	api.GET("/ledger/summary", func(c *gin.Context) {
		entries, err := cfg.Ledger.Load()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"days": ledger.Summarize(entries)})
	})

	if cfg.Runs != nil {
		api.GET("/runs", func(c *gin.Context) {
			limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
			runs, err := cfg.Runs.ListRuns(c.Request.Context(), limit)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"runs": runs})
		})
		api.GET("/runs/:id", func(c *gin.Context) {
			run, decisions, err := cfg.Runs.GetRun(c.Request.Context(), c.Param("id"))
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"run": run, "decisions": decisions})
		})
	}

	return &Server{addr: cfg.Addr, router: router}, nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Infof("report http: listening on %s", s.addr)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Handler exposes the router for httptest.
func (s *Server) Handler() http.Handler { return s.router }

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugf("http %s %s -> %d (%s)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

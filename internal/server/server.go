// Package server exposes formula evaluation, diffing and checkpoints over
// HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tliron/commonlog"

	"github.com/MutexLabs01/double-excel-sub000/internal/config"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/diff"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/formula"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/history"
)

var log = commonlog.GetLogger("gridcore.server")

// Server is the HTTP server.
type Server struct {
	router *gin.Engine
	engine *formula.Engine
	store  *history.Store
	opts   diff.Options
}

// NewServer creates a server with an empty checkpoint store.
func NewServer(cfg *config.Config) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := cfg.DiffOptions()
	s := &Server{
		router: gin.New(),
		engine: cfg.Engine(),
		store:  history.NewStore(opts),
		opts:   opts,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), requestLogger())

	s.router.GET("/healthz", s.Health)

	api := s.router.Group("/api")
	{
		api.POST("/evaluate", s.Evaluate)
		api.POST("/diff/spreadsheets", s.DiffSpreadsheets)
		api.POST("/diff/files", s.DiffFiles)

		api.POST("/checkpoints", s.CreateCheckpoint)
		api.GET("/checkpoints", s.ListCheckpoints)
		api.GET("/checkpoints/:id", s.GetCheckpoint)
		api.GET("/checkpoints/:id/diff/:to", s.DiffCheckpoints)
	}
}

// requestLogger logs one line per request at info level.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infof("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the server.
func (s *Server) Run(addr string) error {
	log.Noticef("listening on %s", addr)
	return s.router.Run(addr)
}

// Store returns the checkpoint store.
func (s *Server) Store() *history.Store {
	return s.store
}

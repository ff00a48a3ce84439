// Package server exposes the search and synchronization layers over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shelterhq/refuge/config"
	"github.com/shelterhq/refuge/indexer"
	"github.com/shelterhq/refuge/query"
	"github.com/shelterhq/refuge/search"
)

// Server is the HTTP server wiring handlers to the query executor and the
// per-entity synchronizers.
type Server struct {
	cfg      *config.Server
	log      *logrus.Logger
	executor *query.Executor
	syncs    map[string]*indexer.Synchronizer
	backend  search.Backend
	router   *gin.Engine
	http     *http.Server
}

// New creates the server. Synchronizers are keyed by their entity table name;
// every entity served over HTTP must have one.
func New(cfg *config.Server, log *logrus.Logger, backend search.Backend, syncs []*indexer.Synchronizer) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	byTable := make(map[string]*indexer.Synchronizer, len(syncs))
	for _, s := range syncs {
		byTable[s.Descriptor().Table] = s
	}

	s := &Server{
		cfg:      cfg,
		log:      log,
		executor: query.NewExecutor(backend),
		syncs:    byTable,
		backend:  backend,
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler { return s.router }

// ConfigureIndices pushes the declarative settings of every served index.
// Run once at startup, before traffic.
func (s *Server) ConfigureIndices(ctx context.Context) error {
	for _, syn := range s.syncs {
		if err := syn.Configure(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.loggerMiddleware())

	router.GET("/healthz", s.health)

	v1 := router.Group("/v1")
	{
		animals := v1.Group("/animals")
		animals.GET("/search", s.searchAnimals)
		animals.GET("/pick-up-locations", s.animalPickUpLocations)
		animals.GET("/:id", s.getAnimal)
		animals.POST("", s.createAnimal)
		animals.PATCH("/:id", s.updateAnimal)
		animals.DELETE("/:id", s.deleteAnimal)

		v1.GET("/breeds/search", s.searchBreeds)
		v1.GET("/colors/search", s.searchColors)

		fosterFamilies := v1.Group("/foster-families")
		fosterFamilies.GET("/search", s.searchFosterFamilies)
		fosterFamilies.GET("/cities", s.fosterFamilyCities)

		v1.GET("/users/search", s.searchUsers)
		v1.GET("/events/search", s.searchEvents)

		v1.POST("/admin/reindex/:table", s.reindex)
	}
	return router
}

func (s *Server) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("http request")
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.http.Addr).Info("server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func internalError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

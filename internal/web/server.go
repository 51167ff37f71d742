// Package web serves the portfolio over HTTP: the rendered page, a JSON view
// of the content document, the contact endpoint and websocket-hosted console
// sessions.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"portfolio-terminal/internal/console"
	"portfolio-terminal/internal/contact"
	"portfolio-terminal/internal/tui"
)

//go:embed templates/*.html
var templateFS embed.FS

const shutdownTimeout = 10 * time.Second

// Submitter accepts contact form submissions.
type Submitter interface {
	Submit(ctx context.Context, fields contact.Fields, origin string) (contact.Receipt, error)
}

// Server holds the gin engine and the shared per-process console setup.
type Server struct {
	setup    *tui.Setup
	player   *console.Player
	contact  Submitter
	engine   *gin.Engine
	upgrader websocket.Upgrader
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// New builds the HTTP surface. A nil submitter disables contact delivery
// but still validates submissions.
func New(setup *tui.Setup, submitter Submitter) (*Server, error) {
	if setup == nil {
		return nil, errors.New("web: nil setup")
	}
	if submitter == nil {
		submitter = contact.NewService(nil)
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"plain": setup.Document().Plain,
		"join":  strings.Join,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		setup:   setup,
		player:  console.NewPlayer(setup.Cadence()),
		contact: submitter,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}

	engine := gin.New()
	engine.Use(requestLogger(), gin.Recovery())
	engine.SetHTMLTemplate(tmpl)

	engine.GET("/", s.page)
	engine.GET("/healthz", s.healthz)
	api := engine.Group("/api")
	api.GET("/portfolio", s.portfolio)
	api.GET("/commands", s.commands)
	api.POST("/contact", s.submitContact)
	engine.GET("/ws/console", s.consoleSocket)
	engine.NoRoute(func(c *gin.Context) {
		writeErr(c, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	})

	s.engine = engine
	return s, nil
}

// Handler exposes the engine for http.Server and httptest.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown incomplete", "event", "shutdown", "err", err)
		}
	}()

	log.Info("http server starting", "event", "startup", "addr", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) page(c *gin.Context) {
	doc := s.setup.Document()
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Doc":    doc,
		"Prompt": doc.Prompt(),
		"Boot":   doc.BootMessages(false),
	})
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) portfolio(c *gin.Context) {
	c.JSON(http.StatusOK, s.setup.Document())
}

func (s *Server) commands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"prompt":   s.setup.Document().Prompt(),
		"commands": s.setup.Commands().Names(),
	})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		log.Info("http request",
			"event", "http_request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(started).Milliseconds(),
			"remote", c.ClientIP(),
		)
	}
}

func logRejection(c *gin.Context, operation, reason, details string) {
	log.Warn("request rejected",
		"event", "http_request_rejected",
		"operation", operation,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"reason", reason,
		"details", details,
		"remote", c.ClientIP(),
	)
}

func writeErr(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"code": code, "message": message, "status": strconv.Itoa(status)})
}

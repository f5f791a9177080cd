package apihttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"hhnorm/internal/logger"

	"github.com/gin-gonic/gin"
)

// Server 提供 /api HTTP 服务（规范化、回放、渲染、识图与教练）。
type Server struct {
	addr   string
	router *gin.Engine
}

// ServerConfig 描述 HTTP 服务依赖。
type ServerConfig struct {
	Addr string
	Deps Deps
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Deps.Normalizer == nil {
		return nil, errors.New("http server requires a normalizer")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9990"
	}
	return &Server{addr: cfg.Addr, router: NewEngine(cfg.Deps)}, nil
}

// NewEngine builds the gin engine with every route registered.
func NewEngine(deps Deps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	NewRouter(deps).Register(router.Group("/api"))
	return router
}

// requestLogger 记录每个请求的方法、路径、状态码与耗时。
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path += "?" + q
		}
		c.Next()
		logger.Component("http").Debug("request", "method", c.Request.Method, "path", path, "status", c.Writer.Status(),
			"ip", c.ClientIP(), "dur", time.Since(start))
	}
}

func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Handler exposes the engine for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start 启动 HTTP 服务，直到 ctx 取消或出现错误。
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

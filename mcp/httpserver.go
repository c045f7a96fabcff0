package mcp

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const (
	EndpointMCP     = "/mcp"
	EndpointSSE     = "/sse"
	EndpointMessage = "/message"
)

// httpRequestKey is a custom context key for storing the original HTTP request
type httpRequestKey struct{}

// withHTTPRequest adds the original HTTP request to the context
func withHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, req)
}

// httpRequestFromContext extracts the original HTTP request from the context
func httpRequestFromContext(ctx context.Context) (*http.Request, bool) {
	req, ok := ctx.Value(httpRequestKey{}).(*http.Request)
	return req, ok
}

// httpContextFunc extracts the original HTTP request and adds it to the context
func httpContextFunc(ctx context.Context, r *http.Request) context.Context {
	return withHTTPRequest(ctx, r)
}

type HTTPConfig struct {
	AccessKey        string
	RateLimitPerHour int
}

// HTTPServer serves the MCP server over streamable HTTP and SSE next to a
// plain JSON tool API and the publish event stream.
type HTTPServer struct {
	logger     *zap.Logger
	engine     *gin.Engine
	streamable *server.StreamableHTTPServer
	sse        *server.SSEServer
	events     *EventHub
	limiter    *RateLimiter
	server     *http.Server
}

func NewHTTPServer(logger *zap.Logger, s *server.MCPServer, dispatcher *Dispatcher, events *EventHub, config HTTPConfig) *HTTPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &HTTPServer{
		logger: logger,
		streamable: server.NewStreamableHTTPServer(
			s,
			server.WithEndpointPath(EndpointMCP),
			server.WithHTTPContextFunc(httpContextFunc),
		),
		sse: server.NewSSEServer(
			s,
			server.WithSSEEndpoint(EndpointSSE),
			server.WithMessageEndpoint(EndpointMessage),
			server.WithAppendQueryToMessageEndpoint(),
			server.WithSSEContextFunc(httpContextFunc),
		),
		events:  events,
		limiter: NewRateLimiter(config.RateLimitPerHour, time.Hour),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), h.accessLog())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "name": Name, "version": Version})
	})

	protected := engine.Group("/")
	protected.Use(AuthRequired(config.AccessKey), h.limiter.Middleware())
	{
		protected.Any(EndpointMCP, gin.WrapH(h.streamable))
		protected.GET(EndpointSSE, gin.WrapH(h.sse.SSEHandler()))
		protected.POST(EndpointMessage, gin.WrapH(h.sse.MessageHandler()))

		if events != nil {
			protected.GET("/events", events.HandleEvents)
			protected.GET("/events/stats", events.HandleStats)
		}

		protected.GET("/tools", listTools)
		protected.POST("/tools/:name", callTool(dispatcher))
	}

	h.engine = engine
	h.server = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return h
}

// ServeHTTP implements http.Handler
func (h *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.engine.ServeHTTP(w, r)
}

// Start listens on addr until Shutdown is called.
func (h *HTTPServer) Start(addr string) error {
	h.server.Addr = addr
	h.logger.Info("starting HTTP server", zap.String("addr", addr))
	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *HTTPServer) Shutdown(ctx context.Context) error {
	if h.events != nil {
		h.events.Close()
	}
	if err := h.sse.Shutdown(ctx); err != nil {
		h.logger.Warn("failed to shut down SSE transport", zap.Error(err))
	}
	return h.server.Shutdown(ctx)
}

func (h *HTTPServer) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.String("clientIP", c.ClientIP()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func listTools(c *gin.Context) {
	tools := Tools()
	list := make([]gin.H, 0, len(tools))
	for _, tool := range tools {
		list = append(list, gin.H{
			"name":        tool.Name,
			"description": tool.Description,
			"inputSchema": tool.InputSchema,
		})
	}
	c.JSON(http.StatusOK, gin.H{"tools": list})
}

// callTool dispatches the JSON body as tool arguments.
func callTool(dispatcher *Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}

		ctx := withHTTPRequest(c.Request.Context(), c.Request)
		result, err := dispatcher.Dispatch(ctx, name, body)
		switch {
		case errors.Is(err, ErrInvalidArguments):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case err != nil:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		case !dispatcher.Has(name):
			c.JSON(http.StatusNotFound, result)
		default:
			c.JSON(http.StatusOK, result)
		}
	}
}

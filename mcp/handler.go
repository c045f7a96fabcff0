package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/foomo/publisher-mcp/service/vo"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const (
	Name    = "Content Publisher MCP"
	Version = "0.1.0"
)

// NewServer creates a new MCP server exposing every dispatcher tool
func NewServer(dispatcher *Dispatcher, logger *zap.Logger) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(loggingMiddleware(logger)),
	)
	for _, tool := range Tools() {
		s.AddTool(tool, mcp.NewTypedToolHandler(toolHandler(dispatcher, tool.Name)))
	}
	return s
}

// Tools declares the input schema of every tool
func Tools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(ToolListSites,
			mcp.WithDescription("List all sites with their categories"),
		),
		mcp.NewTool(ToolSourceImages,
			mcp.WithDescription("Search Pexels for stock images matching a query"),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Search phrase, e.g. 'mountain lake at dawn'"),
			),
			mcp.WithNumber("count",
				mcp.Description("Number of images to return"),
				mcp.DefaultNumber(defaultImageCount),
			),
		),
		mcp.NewTool(ToolEnrichLinks,
			mcp.WithDescription("Add the affiliate tag to Amazon product links in content"),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("Article content in markdown or HTML"),
			),
			mcp.WithString("tag",
				mcp.Description("Affiliate tag, defaults to the configured tag"),
			),
		),
		mcp.NewTool(ToolSEOMetadata,
			mcp.WithDescription("Generate slug, meta description, schema.org markup and internal link suggestions"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Article title")),
			mcp.WithString("content", mcp.Required(), mcp.Description("Article content")),
			mcp.WithString("site", mcp.Description("Site slug used for internal link suggestions")),
			mcp.WithString("author", mcp.Description("Author name")),
			mcp.WithString("featured_image", mcp.Description("Featured image URL")),
		),
		mcp.NewTool(ToolPublishArticle, append([]mcp.ToolOption{
			mcp.WithDescription("Publish an article to a site, creating its category when missing"),
			mcp.WithString("site", mcp.Required(), mcp.Description("Site slug")),
			mcp.WithString("title", mcp.Required(), mcp.Description("Article title")),
			mcp.WithString("content", mcp.Required(), mcp.Description("Article content in markdown")),
		}, articleOptions()...)...),
		mcp.NewTool(ToolContentBrief,
			mcp.WithDescription("Summarise category coverage and existing titles of a site to plan new articles"),
			mcp.WithString("site", mcp.Required(), mcp.Description("Site slug")),
			mcp.WithNumber("count",
				mcp.Description("Number of new articles to plan"),
				mcp.DefaultNumber(defaultBriefCount),
			),
		),
		mcp.NewTool(ToolPortfolioStats,
			mcp.WithDescription("Published and draft article counts across all sites"),
		),
		mcp.NewTool(ToolBatchPublish,
			mcp.WithDescription("Publish several articles to one site, each independently"),
			mcp.WithString("site", mcp.Required(), mcp.Description("Site slug")),
			mcp.WithArray("articles",
				mcp.Required(),
				mcp.Description("Articles to publish"),
				mcp.Items(map[string]any{
					"type":     "object",
					"required": []string{"title", "content"},
					"properties": map[string]any{
						"title":            map[string]any{"type": "string"},
						"content":          map[string]any{"type": "string"},
						"category":         map[string]any{"type": "string"},
						"tags":             map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"meta_description": map[string]any{"type": "string"},
						"featured_image":   map[string]any{"type": "string"},
						"author":           map[string]any{"type": "string"},
						"status":           map[string]any{"type": "string", "enum": []string{string(vo.StatusDraft), string(vo.StatusPublished)}},
						"affiliate_tag":    map[string]any{"type": "string"},
					},
				}),
			),
		),
		mcp.NewTool(ToolGetExistingArticles,
			mcp.WithDescription("List existing articles of a site"),
			mcp.WithString("site", mcp.Required(), mcp.Description("Site slug")),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of articles"),
				mcp.DefaultNumber(defaultArticleLimit),
			),
		),
		mcp.NewTool(ToolPreviewArticle,
			mcp.WithDescription("Render an article as it would be published, without publishing it"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Article title")),
			mcp.WithString("content", mcp.Required(), mcp.Description("Article content in markdown")),
			mcp.WithString("tag", mcp.Description("Affiliate tag, defaults to the configured tag")),
		),
	}
}

func articleOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("category", mcp.Description("Category name, created when missing")),
		mcp.WithArray("tags", mcp.Description("Tags"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("meta_description", mcp.Description("Meta description, generated when empty")),
		mcp.WithString("featured_image", mcp.Description("Featured image URL")),
		mcp.WithString("author", mcp.Description("Author name")),
		mcp.WithString("status",
			mcp.Description("Publication status"),
			mcp.Enum(string(vo.StatusDraft), string(vo.StatusPublished)),
		),
		mcp.WithString("affiliate_tag", mcp.Description("Affiliate tag, defaults to the configured tag")),
	}
}

func toolHandler(dispatcher *Dispatcher, name string) mcp.TypedToolHandlerFunc[json.RawMessage] {
	return func(ctx context.Context, request mcp.CallToolRequest, args json.RawMessage) (*mcp.CallToolResult, error) {
		return CallResult(dispatcher.Dispatch(ctx, name, args)), nil
	}
}

// CallResult converts a dispatch outcome into a tool result. Errors become
// error-flagged results carrying {"error": message}.
func CallResult(result any, err error) *mcp.CallToolResult {
	if err != nil {
		return errorResult(err.Error())
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to marshal response: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

func errorResult(message string) *mcp.CallToolResult {
	data, _ := json.Marshal(vo.ErrorResult{Error: message})
	return mcp.NewToolResultError(string(data))
}

func loggingMiddleware(logger *zap.Logger) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			fields := []zap.Field{
				zap.String("callID", uuid.NewString()),
				zap.String("tool", request.Params.Name),
			}
			if req, ok := httpRequestFromContext(ctx); ok {
				fields = append(fields, zap.String("remoteAddr", req.RemoteAddr))
			}
			start := time.Now()
			result, err := next(ctx, request)
			fields = append(fields, zap.Duration("duration", time.Since(start)))
			if err != nil {
				logger.Error("tool call failed", append(fields, zap.Error(err))...)
			} else if result != nil && result.IsError {
				logger.Info("tool call returned error", fields...)
			} else {
				logger.Info("tool call", fields...)
			}
			return result, err
		}
	}
}

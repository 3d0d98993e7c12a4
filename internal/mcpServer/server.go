// Package mcpServer exposes the query pipeline as MCP tools so assistants can search
// the ingested documents. It is served over stdio by rqctl and over streamable HTTP at /mcp.
package mcpServer

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/rag"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var ErrMissingRagService = errors.New("mcp: rag service is required")

type Server struct {
	rag    rag.Service
	server *mcp.Server
}

func NewServer(ragService rag.Service) (*Server, error) {
	if ragService == nil {
		return nil, ErrMissingRagService
	}
	s := &Server{
		rag: ragService,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "intelliquery",
			Version: config.ServiceVersion,
		}, nil),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler is the streamable HTTP endpoint mounted on the API router.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

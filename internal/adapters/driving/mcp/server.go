package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/threadlight/internal/logger"
)

// Version is the MCP server version.
const Version = "0.2.0"

const shutdownTimeout = 5 * time.Second

// Server exposes message enrichment and attachment metadata to MCP
// clients. Which tools are offered depends on the ports it was built with.
type Server struct {
	ports  *Ports
	server *mcp.Server

	// tools and resources hold the names registered, in order.
	tools     []string
	resources []string
}

// NewServer creates an MCP server. Message tools and resources are always
// registered; attachment tools only when ports.Attachments is set.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "threadlight",
		Version: Version,
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{
			Instructions: instructions(ports),
		}),
	}

	s.registerMessageTools()
	if ports.Attachments != nil {
		s.registerAttachmentTools()
	} else {
		logger.Debug("mcp: no attachment service, attachment tools disabled")
	}
	s.registerResources()

	logger.Debug("mcp: tools %s", strings.Join(s.tools, ", "))
	logger.Debug("mcp: resources %s", strings.Join(s.resources, ", "))
	return s, nil
}

// Tools returns the names of the registered tools.
func (s *Server) Tools() []string {
	return append([]string(nil), s.tools...)
}

// Resources returns the URI templates of the registered resources.
func (s *Server) Resources() []string {
	return append([]string(nil), s.resources...)
}

// addTool registers a typed tool handler and records its name.
func addTool[In, Out any](s *Server, t *mcp.Tool, h mcp.ToolHandlerFor[In, Out]) {
	mcp.AddTool(s.server, t, h)
	s.tools = append(s.tools, t.Name)
}

// addResourceTemplate registers a resource template and records its URI.
func (s *Server) addResourceTemplate(t *mcp.ResourceTemplate, h mcp.ResourceHandler) {
	s.server.AddResourceTemplate(t, h)
	s.resources = append(s.resources, t.URITemplate)
}

// instructions tells the client what this server can do with the ports
// it was given.
func instructions(ports *Ports) string {
	var b strings.Builder
	b.WriteString("threadlight enriches chat messages. Use enrich_text for ad-hoc text, ")
	b.WriteString("get_message and list_conversation for stored messages. Highlight ")
	b.WriteString("offsets count grapheme clusters, not bytes.")
	if ports.Attachments != nil {
		b.WriteString(" attachment_metadata reports image and video dimensions and durations.")
	}
	return b.String()
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("mcp: shutdown: %v", err)
		}
	}()

	logger.Info("MCP server listening on %s (%d tools)", addr, len(s.tools))
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/threadlight/internal/core/domain"
)

const (
	uriScheme = "threadlight://"

	conversationResourceLimit = 200
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.addResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "messages/{messageId}",
		Name:        "message",
		Description: "A stored message with its enrichment",
		MIMEType:    "application/json",
	}, s.handleMessageResource)

	s.addResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "conversations/{conversationId}",
		Name:        "conversation",
		Description: "The enriched messages of a conversation, oldest first",
		MIMEType:    "application/json",
	}, s.handleConversationResource)
}

func (s *Server) handleMessageResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	id, ok := resourceID(uri, "messages/")
	if !ok {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	msg, err := s.ports.Messages.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && msg == nil) {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if err != nil {
		return nil, err
	}
	return jsonResource(uri, toMessageOutput(*msg))
}

func (s *Server) handleConversationResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	id, ok := resourceID(uri, "conversations/")
	if !ok {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	msgs, err := s.ports.Messages.ListConversation(ctx, id, conversationResourceLimit)
	if err != nil {
		return nil, err
	}
	out := make([]MessageOutput, len(msgs))
	for i := range msgs {
		out[i] = toMessageOutput(msgs[i])
	}
	return jsonResource(uri, out)
}

// resourceID extracts the single path segment following prefix.
func resourceID(uri, prefix string) (string, bool) {
	id := strings.TrimPrefix(uri, uriScheme+prefix)
	if id == uri || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

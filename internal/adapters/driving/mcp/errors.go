// Package mcp provides an MCP (Model Context Protocol) server adapter for threadlight.
// It lets AI assistants enrich message text and inspect stored messages and
// attachments.
package mcp

import "errors"

// ErrMissingMessageService is returned when the message service is not provided.
var ErrMissingMessageService = errors.New("mcp: message service is required")

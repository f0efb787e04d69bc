package mcp

import (
	"github.com/custodia-labs/threadlight/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Messages enriches ad-hoc text and stored messages.
	Messages driving.MessageService

	// Attachments extracts attachment metadata. Optional; the
	// attachment_metadata tool is only registered when set.
	Attachments driving.AttachmentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Messages == nil {
		return ErrMissingMessageService
	}
	return nil
}

package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil message service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingMessageService)
	})

	t.Run("messages only creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Messages: &mockMessageService{}})
		require.NoError(t, err)
		require.NotNil(t, server)
		assert.Equal(t, []string{"enrich_text", "get_message", "list_conversation"}, server.Tools())
	})

	t.Run("all ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Messages:    &mockMessageService{},
			Attachments: &mockAttachmentService{},
		})
		require.NoError(t, err)
		require.NotNil(t, server)
		assert.Equal(t, []string{"enrich_text", "get_message", "list_conversation", "attachment_metadata"}, server.Tools())
	})

	t.Run("resources registered", func(t *testing.T) {
		server, err := NewServer(&Ports{Messages: &mockMessageService{}})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"threadlight://messages/{messageId}",
			"threadlight://conversations/{conversationId}",
		}, server.Resources())
	})
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingMessageService)
	assert.ErrorIs(t, (&Ports{Attachments: &mockAttachmentService{}}).Validate(), ErrMissingMessageService)
	assert.NoError(t, (&Ports{Messages: &mockMessageService{}}).Validate())
}

func TestServer_ToolsIsCopy(t *testing.T) {
	server, err := NewServer(&Ports{Messages: &mockMessageService{}})
	require.NoError(t, err)

	tools := server.Tools()
	tools[0] = "changed"
	assert.Equal(t, "enrich_text", server.Tools()[0])
}

func TestInstructions(t *testing.T) {
	base := instructions(&Ports{Messages: &mockMessageService{}})
	assert.Contains(t, base, "enrich_text")
	assert.NotContains(t, base, "attachment_metadata")

	full := instructions(&Ports{Messages: &mockMessageService{}, Attachments: &mockAttachmentService{}})
	assert.Contains(t, full, "attachment_metadata")
}

func TestServer_RunHTTPStopsOnCancel(t *testing.T) {
	server, err := NewServer(&Ports{Messages: &mockMessageService{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, server.RunHTTP(ctx, "127.0.0.1:0"))
}

// Package handlers provides the attachment handler registry and its
// built-in handlers. Each handler knows how to thumbnail and describe one
// family of MIME types.
//
// Handlers are registered with the Registry at startup, usually through
// RegisterDefaults. Dispatch is first match in registration order.
package handlers

// Package domain defines the core business entities for threadlight.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Message: A stored chat message
//   - EnrichedMessage: A message plus detected codes, highlights and mentions
//   - Attachment: A file attached to a message
//   - AttachmentMetadata: Media properties extracted by a handler
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

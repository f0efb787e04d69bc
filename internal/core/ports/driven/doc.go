// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - Enricher: Annotates message text (codes, phone numbers, mentions, emoji)
//   - EnrichmentChain: Runs enrichers in priority order
//   - AttachmentHandler: Thumbnails and metadata for a MIME family
//   - HandlerRegistry: First-match dispatch of MIME types to handlers
//   - MessageStore: Message persistence
//   - AttachmentStore: Attachment record persistence
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, enricher, or handler package
package driven

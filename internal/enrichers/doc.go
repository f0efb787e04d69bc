// Package enrichers provides the message enrichment chain and its built-in
// enrichers. Each enricher detects one kind of structure in message text
// (verification codes, phone numbers, mentions, emoji-only bodies) and
// appends it to an EnrichedMessage.
//
// A Registry builds enrichers by name from settings (see RegisterDefaults)
// and a Chain runs them in priority order.
package enrichers

package enrichers

import (
	"github.com/custodia-labs/threadlight/internal/core/ports/driven"
	"github.com/custodia-labs/threadlight/internal/enrichers/codes"
	"github.com/custodia-labs/threadlight/internal/enrichers/emoji"
	"github.com/custodia-labs/threadlight/internal/enrichers/mentions"
	"github.com/custodia-labs/threadlight/internal/enrichers/phone"
)

// DefaultNames lists the built-in enrichers in registration order.
var DefaultNames = []string{codes.Name, phone.Name, mentions.Name, emoji.Name}

// RegisterDefaults registers all built-in enricher builders with the registry.
// Call this during application initialisation to enable standard enrichers.
func RegisterDefaults(r *Registry) {
	r.Register(codes.Name, buildCodes)
	r.Register(phone.Name, buildPhone)
	r.Register(mentions.Name, buildMentions)
	r.Register(emoji.Name, buildEmoji)
}

// NewDefaultChain builds a chain with every built-in enricher using its
// default settings.
func NewDefaultChain() *Chain {
	return NewChain(
		codes.New(),
		phone.New(phone.DefaultRegion),
		mentions.New(),
		emoji.New(emoji.DefaultMaxCount),
	)
}

// buildCodes creates a code enricher from generic config.
// Supported config keys:
//   - min_digits (int): Shortest code accepted (default: 4)
//   - max_digits (int): Longest code accepted (default: 8)
func buildCodes(cfg map[string]any) (driven.Enricher, error) {
	lo, hi := codes.DefaultMinDigits, codes.DefaultMaxDigits
	if v := getIntFromConfig(cfg, "min_digits"); v > 0 {
		lo = v
	}
	if v := getIntFromConfig(cfg, "max_digits"); v > 0 {
		hi = v
	}
	return codes.New(codes.WithDigitRange(lo, hi)), nil
}

// buildPhone creates a phone enricher from generic config.
// Supported config keys:
//   - region (string): ISO 3166 region for national numbers (default: US)
func buildPhone(cfg map[string]any) (driven.Enricher, error) {
	region, _ := cfg["region"].(string)
	return phone.New(region), nil
}

func buildMentions(_ map[string]any) (driven.Enricher, error) {
	return mentions.New(), nil
}

// buildEmoji creates an emoji-only classifier from generic config.
// Supported config keys:
//   - max_count (int): Most emoji still classified as emoji-only (default: 5)
func buildEmoji(cfg map[string]any) (driven.Enricher, error) {
	return emoji.New(getIntFromConfig(cfg, "max_count")), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

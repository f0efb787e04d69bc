package driving

import "github.com/custodia-labs/threadlight/internal/core/domain"

// SettingsService resolves application settings from configuration.
type SettingsService interface {
	// Get resolves every setting, falling back to defaults for keys that
	// are unset or invalid.
	Get() domain.Settings
	// Value returns the raw configured value for key and whether it is set.
	Value(key string) (any, bool)
	// Set stores a single key. Values for known keys are validated and
	// converted to their typed form before being persisted.
	Set(key, value string) error
	// Keys returns every known settings key in sorted order.
	Keys() []string
	// Path returns where settings are persisted.
	Path() string
}

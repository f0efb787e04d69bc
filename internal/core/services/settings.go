package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/ports/driven"
	"github.com/custodia-labs/threadlight/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyPhoneRegion        = "phone.region"
	keyThumbMaxWidth      = "thumbnail.max_width"
	keyThumbMaxHeight     = "thumbnail.max_height"
	keyThumbQuality       = "thumbnail.quality"
	keyThumbAllowUpscale  = "thumbnail.allow_upscale"
	keyThumbTimeout       = "thumbnail.timeout_seconds"
	keyWorkersMax         = "workers.max"
	keyVideoFFmpeg        = "video.ffmpeg_path"
	keyVideoFFprobe       = "video.ffprobe_path"
	keyServerAddr         = "server.addr"
	keyServerCacheMaxAge  = "server.cache_max_age_seconds"
	keyStorageDataDir     = "storage.data_dir"
	keyCodesMinDigits     = "codes.min_digits"
	keyCodesMaxDigits     = "codes.max_digits"
	keyEmojiMaxCount      = "emoji.max_count"
	enricherEnabledPrefix = "enrichers."
	enricherEnabledSuffix = ".enabled"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindBool
)

// knownKeys maps every settings key to the type it is stored as.
var knownKeys = map[string]valueKind{
	keyPhoneRegion:       kindString,
	keyThumbMaxWidth:     kindInt,
	keyThumbMaxHeight:    kindInt,
	keyThumbQuality:      kindInt,
	keyThumbAllowUpscale: kindBool,
	keyThumbTimeout:      kindInt,
	keyWorkersMax:        kindInt,
	keyVideoFFmpeg:       kindString,
	keyVideoFFprobe:      kindString,
	keyServerAddr:        kindString,
	keyServerCacheMaxAge: kindInt,
	keyStorageDataDir:    kindString,
	keyCodesMinDigits:    kindInt,
	keyCodesMaxDigits:    kindInt,
	keyEmojiMaxCount:     kindInt,
}

func init() {
	for _, name := range domain.DefaultSettings().Enrichers.Names {
		knownKeys[enabledKey(name)] = kindBool
	}
}

func enabledKey(enricher string) string {
	return enricherEnabledPrefix + enricher + enricherEnabledSuffix
}

// SettingsService resolves typed settings from a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get resolves every setting, using defaults for unset or invalid keys.
func (s *SettingsService) Get() domain.Settings {
	defaults := domain.DefaultSettings()

	settings := domain.Settings{
		Phone: domain.PhoneSettings{
			Region: strings.ToUpper(s.getString(keyPhoneRegion, defaults.Phone.Region)),
		},
		Thumbnail: domain.ThumbnailSettings{
			MaxWidth:       s.getPositiveInt(keyThumbMaxWidth, defaults.Thumbnail.MaxWidth),
			MaxHeight:      s.getPositiveInt(keyThumbMaxHeight, defaults.Thumbnail.MaxHeight),
			Quality:        s.getQuality(defaults.Thumbnail.Quality),
			AllowUpscale:   s.getBool(keyThumbAllowUpscale, defaults.Thumbnail.AllowUpscale),
			TimeoutSeconds: s.getPositiveInt(keyThumbTimeout, defaults.Thumbnail.TimeoutSeconds),
		},
		Workers: domain.WorkerSettings{
			Max: s.getPositiveInt(keyWorkersMax, defaults.Workers.Max),
		},
		Video: domain.VideoSettings{
			FFmpegPath:  s.getString(keyVideoFFmpeg, defaults.Video.FFmpegPath),
			FFprobePath: s.getString(keyVideoFFprobe, defaults.Video.FFprobePath),
		},
		Server: domain.ServerSettings{
			Addr:               s.getString(keyServerAddr, defaults.Server.Addr),
			CacheMaxAgeSeconds: s.getPositiveInt(keyServerCacheMaxAge, defaults.Server.CacheMaxAgeSeconds),
		},
		Storage: domain.StorageSettings{
			DataDir: s.configStore.GetString(keyStorageDataDir),
		},
		Enrichers: s.getEnrichment(defaults.Enrichers),
	}

	return settings
}

// Value returns the raw configured value for key.
func (s *SettingsService) Value(key string) (any, bool) {
	return s.configStore.Get(key)
}

// Set validates value against the key's type and persists it.
// Unknown keys are rejected with domain.ErrInvalidInput.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := knownKeys[key]
	if !ok {
		return fmt.Errorf("unknown settings key %q: %w", key, domain.ErrInvalidInput)
	}

	var typed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s expects an integer: %w", key, domain.ErrInvalidInput)
		}
		typed = n
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s expects true or false: %w", key, domain.ErrInvalidInput)
		}
		typed = b
	default:
		typed = value
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every known settings key in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Path returns the config file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := strings.TrimSpace(s.configStore.GetString(key))
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getQuality(defaultVal int) int {
	val := s.configStore.GetInt(keyThumbQuality)
	if val < 1 || val > 100 {
		return defaultVal
	}
	return val
}

// getEnrichment resolves which enrichers are enabled and their options.
func (s *SettingsService) getEnrichment(defaults domain.EnrichmentSettings) domain.EnrichmentSettings {
	out := domain.EnrichmentSettings{Configs: make(map[string]map[string]any)}
	for _, name := range defaults.Names {
		if s.getBool(enabledKey(name), true) {
			out.Names = append(out.Names, name)
		}
	}

	out.Configs["phone"] = map[string]any{"region": strings.ToUpper(s.getString(keyPhoneRegion, domain.DefaultSettings().Phone.Region))}
	if cfg := s.loadEnricherConfig(map[string]string{
		"min_digits": keyCodesMinDigits,
		"max_digits": keyCodesMaxDigits,
	}); len(cfg) > 0 {
		out.Configs["codes"] = cfg
	}
	if cfg := s.loadEnricherConfig(map[string]string{"max_count": keyEmojiMaxCount}); len(cfg) > 0 {
		out.Configs["emoji"] = cfg
	}
	return out
}

// loadEnricherConfig collects the set keys in fields into an option map.
func (s *SettingsService) loadEnricherConfig(fields map[string]string) map[string]any {
	cfg := make(map[string]any)
	for option, key := range fields {
		if val, exists := s.configStore.Get(key); exists {
			cfg[option] = val
		}
	}
	return cfg
}

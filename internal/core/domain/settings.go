package domain

import "time"

// Settings is the resolved application configuration.
type Settings struct {
	Phone     PhoneSettings
	Thumbnail ThumbnailSettings
	Workers   WorkerSettings
	Video     VideoSettings
	Server    ServerSettings
	Storage   StorageSettings
	Enrichers EnrichmentSettings
}

// PhoneSettings configures the phone-number enricher.
type PhoneSettings struct {
	// Region is the ISO 3166 region used to parse national numbers.
	Region string
}

// ThumbnailSettings configures thumbnail rendering.
type ThumbnailSettings struct {
	MaxWidth       int
	MaxHeight      int
	Quality        int
	AllowUpscale   bool
	TimeoutSeconds int
}

// Bound returns the default thumbnail bounding box.
func (t ThumbnailSettings) Bound() Size {
	return Size{Width: t.MaxWidth, Height: t.MaxHeight}
}

// Timeout returns the per-call handler timeout. Zero disables it.
func (t ThumbnailSettings) Timeout() time.Duration {
	if t.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// WorkerSettings bounds concurrent handler work.
type WorkerSettings struct {
	Max int
}

// VideoSettings locates the ffmpeg tools.
type VideoSettings struct {
	FFmpegPath  string
	FFprobePath string
}

// ServerSettings configures the HTTP server.
type ServerSettings struct {
	Addr               string
	CacheMaxAgeSeconds int
}

// StorageSettings configures local persistence.
type StorageSettings struct {
	// DataDir holds the message database. Empty means the default
	// location under the user's home directory.
	DataDir string
}

// EnrichmentSettings selects and configures enrichers.
type EnrichmentSettings struct {
	// Names lists enabled enrichers in registration order.
	Names []string

	// Configs holds per-enricher options keyed by enricher name.
	Configs map[string]map[string]any
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Phone: PhoneSettings{Region: "US"},
		Thumbnail: ThumbnailSettings{
			MaxWidth:       320,
			MaxHeight:      320,
			Quality:        70,
			TimeoutSeconds: 20,
		},
		Workers: WorkerSettings{Max: 4},
		Video: VideoSettings{
			FFmpegPath:  "ffmpeg",
			FFprobePath: "ffprobe",
		},
		Server: ServerSettings{
			Addr:               "127.0.0.1:8420",
			CacheMaxAgeSeconds: 86400,
		},
		Enrichers: EnrichmentSettings{
			Names: []string{"codes", "phone", "mentions", "emoji"},
		},
	}
}

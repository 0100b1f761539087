package feed

import "time"

// Config holds configuration for the inventory feed and the sync runs built on it.
type Config struct {
	// URL is the location of the feed document.
	URL string `mapstructure:"url" default:""`
	// Format is the declared feed format (csv, xml, json).
	Format string `mapstructure:"format" default:"csv"`
	// DownloadImages toggles the image import step.
	DownloadImages bool `mapstructure:"download_images" default:"true"`
	// FetchTimeout bounds the whole feed download.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" default:"5m"`
	// ImageTimeout bounds every single image download.
	ImageTimeout time.Duration `mapstructure:"image_timeout" default:"15s"`
	// ImageRate is the maximum number of image downloads per second.
	ImageRate float64 `mapstructure:"image_rate" default:"4"`
	// MaxBytes caps the feed body size. Zero disables the cap.
	MaxBytes int64 `mapstructure:"max_bytes" default:"0"`
	// CheckpointEvery is the number of created+updated records between store checkpoints.
	CheckpointEvery int `mapstructure:"checkpoint_every" default:"50"`
	// HistoryLimit is the number of sync log entries kept.
	HistoryLimit int `mapstructure:"history_limit" default:"50"`
	// AutoSync enables the interval scheduler.
	AutoSync bool `mapstructure:"auto_sync" default:"false"`
	// SyncInterval is hourly, twicedaily, daily or a Go duration.
	SyncInterval string `mapstructure:"sync_interval" default:"hourly"`
	// FieldMapFile optionally points at a YAML file with extra field aliases.
	FieldMapFile string `mapstructure:"field_map_file" default:""`
	// PruneBatchSize is the page size used when scanning active inventory.
	PruneBatchSize int `mapstructure:"prune_batch_size" default:"200"`
}

// Interval resolves SyncInterval into a duration.
func (c Config) Interval() (time.Duration, error) {
	switch c.SyncInterval {
	case "", "hourly":
		return time.Hour, nil
	case "twicedaily":
		return 12 * time.Hour, nil
	case "daily":
		return 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(c.SyncInterval)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errNonPositiveInterval
	}
	return d, nil
}

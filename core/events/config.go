package events

// Config holds configuration for publishing sync run events.
type Config struct {
	// Brokers is a comma separated list of Kafka bootstrap host:port pairs.
	// Publishing is disabled when empty.
	Brokers string `mapstructure:"brokers" default:""`
	// Topic receives one message per finished sync run.
	Topic string `mapstructure:"topic" default:"inventory-sync-runs"`
}

// Enabled reports whether a broker list is configured.
func (c Config) Enabled() bool {
	return c.Brokers != "" && c.Topic != ""
}

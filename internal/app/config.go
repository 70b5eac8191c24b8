package app

import "errors"

// Config holds everything an App instance needs to run.
type Config struct {
	// SettingsPath points at the engine settings .hcl file.
	SettingsPath string

	// BridgeURL is the socket.io endpoint of the in-host bridge plugin.
	BridgeURL string

	// BridgeNamespace is the socket.io namespace the bridge serves.
	BridgeNamespace string

	LogFormat string
	LogLevel  string

	// LogDir is where engine log files live.
	LogDir string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SettingsPath == "" {
		return nil, errors.New("SettingsPath is a required configuration field and cannot be empty")
	}
	if cfg.BridgeURL == "" {
		return nil, errors.New("BridgeURL is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}

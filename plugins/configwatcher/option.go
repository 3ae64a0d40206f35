package configwatcher

import "github.com/bft-labs/bbobridge/pkg/bbobridge"

// WithConfigWatcher returns a bbobridge Option that enables control file
// watching. The plugin monitors the control file for changes and applies its
// enable flag and symbol list to the bridge's registers.
//
// Usage:
//
//	b, err := bbobridge.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.Config{
//	        DebounceDelay: 100 * time.Millisecond,
//	    }),
//	)
func WithConfigWatcher(cfg Config) bbobridge.Option {
	plugin := New(cfg)
	return bbobridge.WithPlugin(plugin)
}

// WithDefaultConfigWatcher returns a bbobridge Option that enables control
// file watching with default settings (retry every 5s, debounce 100ms).
//
// Usage:
//
//	b, err := bbobridge.New(cfg, configwatcher.WithDefaultConfigWatcher())
func WithDefaultConfigWatcher() bbobridge.Option {
	return WithConfigWatcher(DefaultConfig())
}

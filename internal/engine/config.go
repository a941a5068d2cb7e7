package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
//
// The convergence knobs (StableSamples, SampleInterval) encode an observed
// heuristic, not a proven bound — keep them tunable.
type Config struct {
	MaxScanPasses  int           // hard ceiling on lazy-load passes per scan
	LoadDelay      time.Duration // wait after a load-more trigger fired
	ScrollDelay    time.Duration // wait after scroll-only passes
	StableSamples  int           // equal re-samples required to declare convergence
	SampleInterval time.Duration // spacing between stability re-samples
	SettleDelay    time.Duration // post-convergence wait for trailing animations
	ScanTimeout    time.Duration // wall-clock bound for one scan session
	FetchTimeout   time.Duration // per-request bound for page/continuation fetches
	RequestsPerSec float64       // continuation request pacing
	HistoryPath    string        // SQLite scan log location ("" = default under $HOME)
	HTTPClient     *http.Client  // nil = sources build their own
}

// DefaultConfig returns the settings used when main does not override them.
func DefaultConfig() Config {
	return Config{
		MaxScanPasses:  100,
		LoadDelay:      1200 * time.Millisecond,
		ScrollDelay:    600 * time.Millisecond,
		StableSamples:  3,
		SampleInterval: time.Second,
		SettleDelay:    500 * time.Millisecond,
		ScanTimeout:    5 * time.Minute,
		FetchTimeout:   10 * time.Second,
		RequestsPerSec: 1.0,
	}
}

var cfg = DefaultConfig()

// Cfg exposes the engine configuration for sub-packages (sources).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
}

// Package loadtest drives a running closet server over HTTP: it seeds a wardrobe,
// scores many selections concurrently, types into search sessions and checks that
// rankings and search ordering hold under load.
package loadtest

import (
	"runtime"
	"time"
)

// Defaults for Config fields left at zero.
const (
	DefaultBaseURL     = "http://localhost:9080"
	DefaultPerCategory = 6
	DefaultSelections  = 2000
	DefaultSessions    = 50
	DefaultTopN        = 50
	DefaultTimeout     = 30 * time.Second
	DefaultSearchWait  = 5 * time.Second
)

// Config holds configuration for a load test run.
type Config struct {
	BaseURL     string        // base URL of the service
	PerCategory int           // garments seeded per category; zero skips seeding
	Selections  int           // random selections scored through POST /score
	Sessions    int           // concurrent search sessions
	TopN        int           // catalogue entries fetched for verification
	Workers     int           // concurrent clients
	Timeout     time.Duration // HTTP request timeout
	SearchWait  time.Duration // ?wait used when reading search results
	Seed        uint64        // random seed; zero uses the clock
	Verbose     bool
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.BaseURL == "" {
		out.BaseURL = DefaultBaseURL
	}
	if out.Selections < 0 {
		out.Selections = 0
	}
	if out.Sessions < 0 {
		out.Sessions = 0
	}
	if out.TopN < 1 {
		out.TopN = DefaultTopN
	}
	if out.Workers < 1 {
		out.Workers = runtime.NumCPU() * 2
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.SearchWait <= 0 {
		out.SearchWait = DefaultSearchWait
	}
	if out.Seed == 0 {
		out.Seed = uint64(time.Now().UnixNano())
	}
	return out
}

// Stats holds run statistics.
type Stats struct {
	GarmentsAdded    int
	GarmentsSkipped  int
	GarmentsFailed   int
	Wardrobe         int
	OutfitsGenerated int
	Scored           int
	ScoredValid      int
	ScoreFailed      int
	SessionsOpened   int
	SearchesOrdered  int
	SearchesFailed   int
	TopEntries       int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}

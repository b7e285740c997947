package trackers

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	ts "github.com/MLH-GHW-Games/HummingbirdMLAgents/timestep"
)

// EpisodeRecord is one row of the per-episode statistics CSV
type EpisodeRecord struct {
	Episode int     `csv:"episode"`
	Length  int     `csv:"length"`
	Return  float64 `csv:"return"`
}

// EpisodeStats tracks per-episode length and return and saves them as
// a CSV file for external analysis
type EpisodeStats struct {
	currentReturn float64
	records       []*EpisodeRecord
	filename      string
}

// NewEpisodeStats returns a new EpisodeStats Tracker which saves at
// the specified filename
func NewEpisodeStats(filename string) Tracker {
	return &EpisodeStats{filename: filename}
}

// Track accumulates the reward of each timestep and emits a record
// whenever an episode completes
func (e *EpisodeStats) Track(t ts.TimeStep) {
	if t.First() {
		e.currentReturn = 0.0
		return
	}
	e.currentReturn += t.Reward

	if t.Last() {
		e.records = append(e.records, &EpisodeRecord{
			Episode: len(e.records),
			Length:  t.Number,
			Return:  e.currentReturn,
		})
		e.currentReturn = 0.0
	}
}

// Save writes the per-episode statistics as CSV
func (e *EpisodeStats) Save() error {
	file, err := os.Create(e.filename)
	if err != nil {
		return fmt.Errorf("save: could not create %v: %w", e.filename, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&e.records, file); err != nil {
		return fmt.Errorf("save: could not write csv: %w", err)
	}
	return nil
}

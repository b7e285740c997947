package trackers

import (
	"encoding/gob"
	"fmt"
	"os"

	ts "github.com/MLH-GHW-Games/HummingbirdMLAgents/timestep"
)

// EpisodeLength tracks and saves the lengths of completed episodes in
// an experiment
type EpisodeLength struct {
	episodeLengths []int
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength Tracker which saves at
// the specified filename
func NewEpisodeLength(filename string) Tracker {
	return &EpisodeLength{filename: filename}
}

// Track caches the episode length whenever the timestep passed to it
// is the last in an episode
func (e *EpisodeLength) Track(t ts.TimeStep) {
	if t.Last() {
		e.episodeLengths = append(e.episodeLengths, t.Number)
	}
}

// Save saves the episode lengths to disk, gob-encoded
func (e *EpisodeLength) Save() error {
	file, err := os.Create(e.filename)
	if err != nil {
		return fmt.Errorf("save: could not create %v: %w", e.filename, err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(e.episodeLengths); err != nil {
		return fmt.Errorf("save: could not encode episode lengths: %w", err)
	}
	return nil
}

package trackers

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"

	ts "github.com/MLH-GHW-Games/HummingbirdMLAgents/timestep"
)

func TestEpisodeLengthTracksCompletedEpisodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lengths.bin")
	tracker := NewEpisodeLength(path)

	tracker.Track(step(ts.First, 0, 0))
	tracker.Track(step(ts.Mid, 0, 1))
	tracker.Track(step(ts.Last, 0, 2))

	tracker.Track(step(ts.First, 0, 0))
	tracker.Track(step(ts.Mid, 0, 1))
	tracker.Track(step(ts.Mid, 0, 2))
	tracker.Track(step(ts.Last, 0, 3))

	// A dangling episode must not be recorded
	tracker.Track(step(ts.First, 0, 0))
	tracker.Track(step(ts.Mid, 0, 1))

	if err := tracker.Save(); err != nil {
		t.Fatalf("could not save: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	var lengths []int
	if err := gob.NewDecoder(file).Decode(&lengths); err != nil {
		t.Fatalf("could not decode lengths: %v", err)
	}

	want := []int{2, 3}
	if len(lengths) != len(want) {
		t.Fatalf("saved %v lengths, want %v", len(lengths), len(want))
	}
	for i := range want {
		if lengths[i] != want[i] {
			t.Errorf("length %v = %v, want %v", i, lengths[i], want[i])
		}
	}
}

package trackers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	ts "github.com/MLH-GHW-Games/HummingbirdMLAgents/timestep"
)

func step(stepType ts.StepType, reward float64, number int) ts.TimeStep {
	return ts.New(stepType, reward, 0.99, nil, number)
}

func TestEpisodeStatsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episodes.csv")
	tracker := NewEpisodeStats(path)

	tracker.Track(step(ts.First, 0, 0))
	tracker.Track(step(ts.Mid, 0.5, 1))
	tracker.Track(step(ts.Last, 0.25, 2))

	tracker.Track(step(ts.First, 0, 0))
	tracker.Track(step(ts.Mid, -0.5, 1))
	tracker.Track(step(ts.Mid, 1, 2))
	tracker.Track(step(ts.Last, 0.5, 3))

	if err := tracker.Save(); err != nil {
		t.Fatalf("could not save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{
		"episode,length,return",
		"0,2,0.75",
		"1,3,1",
	}
	if len(lines) != len(want) {
		t.Fatalf("csv has %v lines, want %v:\n%v", len(lines), len(want),
			string(data))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("csv line %v = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEpisodeStatsSkipsUnfinishedEpisode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episodes.csv")
	tracker := NewEpisodeStats(path)

	tracker.Track(step(ts.First, 0, 0))
	tracker.Track(step(ts.Mid, 1, 1))

	if err := tracker.Save(); err != nil {
		t.Fatalf("could not save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Errorf("unfinished episode produced rows:\n%v", string(data))
	}
}

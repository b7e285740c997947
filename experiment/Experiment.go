// Package experiment implements functionality for running an
// experiment: repeatedly resetting an environment and stepping it with
// a policy's actions while tracking the generated timesteps.
//
// Experiments use Trackers to record data. Every timestep is sent to
// each registered Tracker through its Track() method; after the
// experiment, Save() writes all tracked data to disk.
package experiment

import (
	"github.com/MLH-GHW-Games/HummingbirdMLAgents/experiment/trackers"
	ts "github.com/MLH-GHW-Games/HummingbirdMLAgents/timestep"
)

// Experiment outlines structs that can run experiments
type Experiment interface {
	// Run runs episodes until the experiment's step budget is reached
	Run()

	// RunEpisode runs a single episode, returning whether the step
	// budget has been reached
	RunEpisode() bool

	// Register adds a Tracker to the experiment
	Register(t trackers.Tracker)

	// Save writes all tracked data to disk
	Save() error

	// track sends a timestep to every registered Tracker
	track(ts.TimeStep)
}

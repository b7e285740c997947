package experiment

import (
	"os"

	"github.com/MLH-GHW-Games/HummingbirdMLAgents/agent"
	env "github.com/MLH-GHW-Games/HummingbirdMLAgents/environment"
	"github.com/MLH-GHW-Games/HummingbirdMLAgents/experiment/trackers"
	ts "github.com/MLH-GHW-Games/HummingbirdMLAgents/timestep"
	"github.com/MLH-GHW-Games/HummingbirdMLAgents/utils/progressbar"
)

// Online is an Experiment that runs a policy online in an environment
type Online struct {
	env.Environment
	policy       agent.Policy
	maxSteps     uint
	currentSteps uint
	trackers     []trackers.Tracker
	progress     bool
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given policy. The steps parameter determines how
// many timesteps the experiment runs for in total, across episodes.
func NewOnline(e env.Environment, p agent.Policy, steps uint,
	t ...trackers.Tracker) *Online {
	return &Online{
		Environment: e,
		policy:      p,
		maxSteps:    steps,
		trackers:    t,
	}
}

// ShowProgress makes Run display a progress bar on stdout
func (o *Online) ShowProgress() {
	o.progress = true
}

// Register adds a Tracker to the (possibly already running) experiment
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RunEpisode runs a single episode of the experiment, returning
// whether the total step budget has been reached
func (o *Online) RunEpisode() bool {
	step := o.Environment.Reset()
	o.track(step)

	for !step.Last() && o.currentSteps < o.maxSteps {
		o.currentSteps++

		action := o.policy.SelectAction(step)
		step, _ = o.Environment.Step(action)

		o.track(step)
	}

	return o.currentSteps >= o.maxSteps
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run() {
	var bar *progressbar.ProgressBar
	if o.progress {
		bar = progressbar.New(50, int(o.maxSteps), os.Stdout)
		defer bar.Close()
	}

	ended := false
	for !ended {
		before := o.currentSteps
		ended = o.RunEpisode()
		if bar != nil {
			bar.Increment(int(o.currentSteps - before))
		}
	}
}

// Save writes the data cached by every Tracker to disk, returning the
// first error encountered
func (o *Online) Save() error {
	for _, tracker := range o.trackers {
		if err := tracker.Save(); err != nil {
			return err
		}
	}
	return nil
}

// track caches the current timestep in each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}

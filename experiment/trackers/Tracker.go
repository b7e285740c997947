// Package trackers implements tracking and saving of data generated
// during experiments
package trackers

import (
	ts "github.com/MLH-GHW-Games/HummingbirdMLAgents/timestep"
)

// Tracker caches data from the timesteps of a running experiment and
// later saves it to disk. Track must be called on every timestep the
// experiment generates, in order.
type Tracker interface {
	Track(t ts.TimeStep)
	Save() error
}

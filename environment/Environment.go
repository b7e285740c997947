// Package environment outlines the interfaces needed to implement
// concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/MLH-GHW-Games/HummingbirdMLAgents/spec"
	"github.com/MLH-GHW-Games/HummingbirdMLAgents/timestep"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() mat.Vector
}

// Ender determines when and how episodes end. Implementations inspect
// a timestep and, if the episode should end there, flip the timestep's
// StepType to timestep.Last and record the end type.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some
// environment, together with the conditions under which episodes on
// the task end
type Task interface {
	Ender

	// GetReward returns the reward for taking an action in some state,
	// which leads to some next state
	GetReward(state, action, nextState mat.Vector) float64

	// AtGoal returns whether the argument state is a goal state
	AtGoal(state mat.Matrix) bool

	// Min and Max return the minimum and maximum attainable rewards
	Min() float64
	Max() float64

	// RewardSpec returns the reward specification of the Task
	RewardSpec() spec.Environment
}

// Environment implements a simulated environment, which includes a
// Task to complete
type Environment interface {
	Task

	// Reset resets the environment between episodes, returning the
	// first timestep of the new episode
	Reset() timestep.TimeStep

	// Step takes one environmental step given an action, returning the
	// next timestep and whether it is the last in the episode
	Step(action mat.Vector) (timestep.TimeStep, bool)

	DiscountSpec() spec.Environment
	ObservationSpec() spec.Environment
	ActionSpec() spec.Environment
}

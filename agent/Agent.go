// Package agent defines the policy interface that drives an
// environment. Learning itself happens outside this module: a policy
// here only selects actions from timesteps.
package agent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/MLH-GHW-Games/HummingbirdMLAgents/timestep"
)

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. A policy may behave
// differently in evaluation mode than in training mode, e.g. by
// removing exploration noise.
type Policy interface {
	SelectAction(t timestep.TimeStep) *mat.VecDense
	Eval()        // Set policy to evaluation mode
	Train()       // Set policy to training mode
	IsEval() bool // Indicates if in evaluation mode
}

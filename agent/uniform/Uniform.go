// Package uniform implements a policy that selects actions uniformly
// at random from an action specification's bounds
package uniform

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/MLH-GHW-Games/HummingbirdMLAgents/agent"
	"github.com/MLH-GHW-Games/HummingbirdMLAgents/spec"
	"github.com/MLH-GHW-Games/HummingbirdMLAgents/timestep"
)

// Uniform samples each action dimension independently and uniformly
// from the legal action range. Useful as a baseline and for smoke
// running environments.
type Uniform struct {
	dists []distuv.Uniform
	eval  bool
}

// New returns a new Uniform policy over the bounds of actionSpec
func New(actionSpec spec.Environment, seed uint64) agent.Policy {
	src := rand.NewSource(seed)

	dims := actionSpec.Shape.Len()
	dists := make([]distuv.Uniform, dims)
	for i := 0; i < dims; i++ {
		dists[i] = distuv.Uniform{
			Min: actionSpec.LowerBound.AtVec(i),
			Max: actionSpec.UpperBound.AtVec(i),
			Src: src,
		}
	}

	return &Uniform{dists: dists}
}

// SelectAction samples a random action
func (u *Uniform) SelectAction(_ timestep.TimeStep) *mat.VecDense {
	action := make([]float64, len(u.dists))
	for i := range u.dists {
		action[i] = u.dists[i].Rand()
	}
	return mat.NewVecDense(len(action), action)
}

// Eval sets the policy to evaluation mode
func (u *Uniform) Eval() { u.eval = true }

// Train sets the policy to training mode
func (u *Uniform) Train() { u.eval = false }

// IsEval indicates if the policy is in evaluation mode
func (u *Uniform) IsEval() bool { return u.eval }

package hummingbird

import (
	"gonum.org/v1/gonum/mat"

	"github.com/MLH-GHW-Games/HummingbirdMLAgents/environment"
	"github.com/MLH-GHW-Games/HummingbirdMLAgents/spec"
	"github.com/MLH-GHW-Games/HummingbirdMLAgents/timestep"
)

// forageTask is a task that needs access to the hummingbird
// environment to compute its rewards
type forageTask interface {
	environment.Task
	registerEnv(*Hummingbird)
}

// Forage implements the nectar-foraging task. Rewards are accumulated
// inside the environment as feeding and collision events happen during
// a physics step; this task drains that accumulator once per step.
// Episodes are cut off after maxSteps steps, or never when maxSteps is
// not positive.
type Forage struct {
	stepLimit environment.Ender
	env       *Hummingbird
}

// NewForage returns a new Forage task with the argument step budget
func NewForage(maxSteps int) environment.Task {
	f := &Forage{}
	if maxSteps > 0 {
		f.stepLimit = environment.NewStepLimit(maxSteps)
	}
	return f
}

func (f *Forage) registerEnv(env *Hummingbird) {
	f.env = env
}

// GetReward returns the reward accumulated over the last physics step
func (f *Forage) GetReward(_, _, _ mat.Vector) float64 {
	if f.env == nil {
		panic("getReward: no hummingbird environment registered")
	}
	return f.env.takeStepReward()
}

// AtGoal returns whether all nectar in the area has been obtained
func (f *Forage) AtGoal(_ mat.Matrix) bool {
	if f.env == nil {
		return false
	}
	return f.env.NectarObtained() >= f.env.area.TotalNectar()-1e-9
}

// End ends the episode when the step budget is exhausted
func (f *Forage) End(t *timestep.TimeStep) bool {
	if f.stepLimit == nil {
		return false
	}
	return f.stepLimit.End(t)
}

// Min returns the minimum attainable single-step reward
func (f *Forage) Min() float64 {
	return BoundaryPenalty
}

// Max returns the maximum attainable single-step reward
func (f *Forage) Max() float64 {
	return FeedReward + AlignmentBonus
}

// RewardSpec returns the reward specification of the Task
func (f *Forage) RewardSpec() spec.Environment {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{f.Min()})
	upperBound := mat.NewVecDense(1, []float64{f.Max()})

	return spec.NewEnvironment(shape, spec.Reward, lowerBound, upperBound,
		spec.Continuous)
}

// Package keyboard implements a manual control policy: discrete key
// state is mapped onto the same continuous action vector a learned
// policy would produce, letting a human fly the agent through the
// identical action interface.
package keyboard

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/MLH-GHW-Games/HummingbirdMLAgents/agent"
	"github.com/MLH-GHW-Games/HummingbirdMLAgents/timestep"
)

// KeyState is the pressed-state of the control keys, polled by the
// host input device each step
type KeyState struct {
	Forward   bool
	Backward  bool
	Left      bool
	Right     bool
	Up        bool
	Down      bool
	PitchUp   bool
	PitchDown bool
	YawLeft   bool
	YawRight  bool
}

// Orienter exposes the body axes of the controlled agent. Movement
// keys steer relative to where the agent currently faces.
type Orienter interface {
	Forward() r3.Vec
	Up() r3.Vec
	Right() r3.Vec
}

// Keyboard converts key state into 5-dimensional continuous actions:
// the pressed movement directions are combined and normalized into a
// unit force vector, and the pitch and yaw signals are exactly -1, 0,
// or +1.
type Keyboard struct {
	keys *KeyState
	body Orienter
	eval bool
}

// New returns a new Keyboard policy reading from keys and steering
// relative to body
func New(keys *KeyState, body Orienter) agent.Policy {
	return &Keyboard{keys: keys, body: body}
}

// SelectAction maps the current key state to an action vector
func (k *Keyboard) SelectAction(_ timestep.TimeStep) *mat.VecDense {
	var move r3.Vec
	if k.keys.Forward {
		move = move.Add(k.body.Forward())
	}
	if k.keys.Backward {
		move = move.Sub(k.body.Forward())
	}
	if k.keys.Left {
		move = move.Sub(k.body.Right())
	}
	if k.keys.Right {
		move = move.Add(k.body.Right())
	}
	if k.keys.Up {
		move = move.Add(k.body.Up())
	}
	if k.keys.Down {
		move = move.Sub(k.body.Up())
	}
	if r3.Norm(move) > 0 {
		move = r3.Unit(move)
	}

	var pitch, yaw float64
	if k.keys.PitchUp {
		pitch = -1
	} else if k.keys.PitchDown {
		pitch = 1
	}
	if k.keys.YawLeft {
		yaw = -1
	} else if k.keys.YawRight {
		yaw = 1
	}

	return mat.NewVecDense(5, []float64{move.X, move.Y, move.Z, pitch, yaw})
}

// Eval sets the policy to evaluation mode
func (k *Keyboard) Eval() { k.eval = true }

// Train sets the policy to training mode
func (k *Keyboard) Train() { k.eval = false }

// IsEval indicates if the policy is in evaluation mode
func (k *Keyboard) IsEval() bool { return k.eval }

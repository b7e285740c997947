package uniform

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/MLH-GHW-Games/HummingbirdMLAgents/spec"
	"github.com/MLH-GHW-Games/HummingbirdMLAgents/timestep"
)

func TestSelectActionWithinBounds(t *testing.T) {
	dims := 5
	lower := mat.NewVecDense(dims, []float64{-1, -1, -1, -0.5, 0})
	upper := mat.NewVecDense(dims, []float64{1, 1, 1, 0.5, 2})
	actionSpec := spec.NewEnvironment(mat.NewVecDense(dims, nil), spec.Action,
		lower, upper, spec.Continuous)

	policy := New(actionSpec, 42)

	for i := 0; i < 1000; i++ {
		action := policy.SelectAction(timestep.TimeStep{})
		if action.Len() != dims {
			t.Fatalf("action has %v components, want %v", action.Len(), dims)
		}
		for j := 0; j < dims; j++ {
			value := action.AtVec(j)
			if value < lower.AtVec(j) || value > upper.AtVec(j) {
				t.Fatalf("sample %v: action[%v] = %v outside [%v, %v]",
					i, j, value, lower.AtVec(j), upper.AtVec(j))
			}
		}
	}
}

func TestEvalMode(t *testing.T) {
	actionSpec := spec.NewEnvironment(mat.NewVecDense(1, nil), spec.Action,
		mat.NewVecDense(1, []float64{-1}), mat.NewVecDense(1, []float64{1}),
		spec.Continuous)
	policy := New(actionSpec, 1)

	if policy.IsEval() {
		t.Error("new policy starts in evaluation mode")
	}
	policy.Eval()
	if !policy.IsEval() {
		t.Error("policy not in evaluation mode after Eval")
	}
	policy.Train()
	if policy.IsEval() {
		t.Error("policy still in evaluation mode after Train")
	}
}

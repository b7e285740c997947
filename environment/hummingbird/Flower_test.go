package hummingbird

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/MLH-GHW-Games/HummingbirdMLAgents/utils/vecutils"
)

func testFlower() *Flower {
	group := newPlantGroup("test-plant", r3.Vec{})
	return newFlower(group, &FlowerConfig{
		Offset: [3]float64{0, 1.5, 0},
		Up:     [3]float64{0, 1, 0},
	})
}

func TestFeed(t *testing.T) {
	tests := []struct {
		before, amount float64
		wantTaken      float64
		wantAfter      float64
		wantEmpty      bool
	}{
		{1.0, 0.01, 0.01, 0.99, false},
		{1.0, 0.0, 0.0, 1.0, false},
		{1.0, -0.5, 0.0, 1.0, false}, // negative requests take nothing
		{0.3, 0.5, 0.3, 0.0, true},
		{1.0, 2.0, 1.0, 0.0, true},
		{1.0, 1.0, 1.0, 0.0, true},
	}

	for _, test := range tests {
		flower := testFlower()
		flower.nectarAmount = test.before

		taken := flower.Feed(test.amount)
		if math.Abs(taken-test.wantTaken) > 1e-12 {
			t.Errorf("feed(%v) with %v nectar returned %v, want %v",
				test.amount, test.before, taken, test.wantTaken)
		}
		if math.Abs(flower.NectarAmount()-test.wantAfter) > 1e-12 {
			t.Errorf("feed(%v) with %v nectar left %v, want %v",
				test.amount, test.before, flower.NectarAmount(),
				test.wantAfter)
		}
		if flower.HasNectar() == test.wantEmpty {
			t.Errorf("feed(%v) with %v nectar: hasNectar = %v",
				test.amount, test.before, flower.HasNectar())
		}
		if test.wantEmpty && flower.CollidersEnabled() {
			t.Error("colliders still enabled on empty flower")
		}
		if test.wantEmpty && flower.PetalColor() != EmptyFlowerColor {
			t.Error("empty flower does not show the empty color")
		}
	}
}

func TestFeedHundredTicks(t *testing.T) {
	flower := testFlower()

	total := 0.0
	for i := 0; i < 100; i++ {
		if !flower.HasNectar() {
			t.Fatalf("flower empty after only %v ticks", i)
		}
		total += flower.Feed(0.01)
	}

	if flower.HasNectar() {
		t.Errorf("flower still has %v nectar after 100 ticks",
			flower.NectarAmount())
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("cumulative nectar obtained = %v, want 1.0", total)
	}
}

func TestResetFlower(t *testing.T) {
	flower := testFlower()
	flower.Feed(2.0)

	for i := 0; i < 2; i++ { // idempotent
		flower.ResetFlower()

		if !flower.HasNectar() {
			t.Fatal("reset flower has no nectar")
		}
		if flower.NectarAmount() != MaxNectarAmount {
			t.Errorf("reset flower holds %v nectar, want %v",
				flower.NectarAmount(), MaxNectarAmount)
		}
		if !flower.CollidersEnabled() {
			t.Error("reset flower has disabled colliders")
		}
		if flower.PetalColor() != FullFlowerColor {
			t.Error("reset flower does not show the full color")
		}
	}
}

func TestFlowerPoseFollowsPlant(t *testing.T) {
	group := newPlantGroup("test-plant", r3.Vec{X: 2})
	flower := newFlower(group, &FlowerConfig{
		Offset: [3]float64{0, 1, 0.5},
		Up:     [3]float64{0, 1, 0},
	})

	// Identity rotation: local pose offset from the base
	center := flower.FlowerCenterPosition()
	want := r3.Vec{X: 2, Y: 1, Z: 0.5}
	if r3.Norm(center.Sub(want)) > 1e-12 {
		t.Errorf("flower center = %v, want %v", center, want)
	}

	// A quarter turn about the vertical axis moves the local z offset
	// onto the x axis and leaves the up vector alone
	group.rotation = vecutils.EulerYX(0, 90)

	center = flower.FlowerCenterPosition()
	want = r3.Vec{X: 2.5, Y: 1, Z: 0}
	if r3.Norm(center.Sub(want)) > 1e-9 {
		t.Errorf("rotated flower center = %v, want %v", center, want)
	}

	up := flower.FlowerUpVector()
	if r3.Norm(up.Sub(r3.Vec{Y: 1})) > 1e-9 {
		t.Errorf("rotated flower up = %v, want +y", up)
	}
}

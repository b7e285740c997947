package hummingbird

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/MLH-GHW-Games/HummingbirdMLAgents/timestep"
	"github.com/MLH-GHW-Games/HummingbirdMLAgents/utils/vecutils"
)

func testEnv(t *testing.T, trainingMode bool, seed uint64) *Hummingbird {
	t.Helper()

	task := NewForage(TrainingEpisodeSteps)
	env, firstStep, err := New(DefaultScene(), task, 0.99, trainingMode, seed)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	if !firstStep.First() {
		t.Fatalf("environment did not start with a First timestep: %v",
			firstStep)
	}
	return env
}

func zeroAction() *mat.VecDense {
	return mat.NewVecDense(ActionDims, nil)
}

func TestNewStartsTargeted(t *testing.T) {
	env := testEnv(t, false, 12)

	if env.NearestFlower() == nil {
		t.Fatal("no nearest flower after reset")
	}
	if !env.NearestFlower().HasNectar() {
		t.Error("nearest flower after reset has no nectar")
	}
	if obs := env.LastTimeStep().Observation; obs.Len() != ObservationDims {
		t.Errorf("observation has %v components, want %v", obs.Len(),
			ObservationDims)
	}
	if env.NectarObtained() != 0 {
		t.Errorf("nectar obtained = %v at episode start", env.NectarObtained())
	}
}

func TestObservationWithinSpec(t *testing.T) {
	env := testEnv(t, false, 12)
	observationSpec := env.ObservationSpec()

	action := mat.NewVecDense(ActionDims, []float64{0.4, -0.2, 0.7, 0.3, -0.8})
	for i := 0; i < 100; i++ {
		step, _ := env.Step(action)
		for j := 0; j < step.Observation.Len(); j++ {
			value := step.Observation.AtVec(j)
			lower := observationSpec.LowerBound.AtVec(j)
			upper := observationSpec.UpperBound.AtVec(j)
			if value < lower-1e-9 || value > upper+1e-9 {
				t.Fatalf("step %v: observation[%v] = %v outside [%v, %v]",
					i, j, value, lower, upper)
			}
		}
	}
}

func TestObservationZeroWithoutTarget(t *testing.T) {
	env := testEnv(t, false, 12)

	for _, flower := range env.area.Flowers() {
		flower.Feed(2.0)
	}
	env.nearestFlower = nil
	env.updateNearestFlower()

	if env.nearestFlower != nil {
		t.Fatal("a target was chosen with every flower empty")
	}

	obs := env.observe()
	for i := 0; i < obs.Len(); i++ {
		if obs.AtVec(i) != 0 {
			t.Errorf("observation[%v] = %v, want 0", i, obs.AtVec(i))
		}
	}
}

func TestNearestFlowerPrefersNectar(t *testing.T) {
	env := testEnv(t, false, 12)

	old := env.NearestFlower()
	old.Feed(2.0)
	env.updateNearestFlower()

	nearest := env.NearestFlower()
	if nearest == old {
		t.Fatal("agent still targets an empty flower")
	}
	if !nearest.HasNectar() {
		t.Fatal("agent targets an empty flower")
	}

	// With one flower left, it is chosen no matter the distance
	last := env.area.Flowers()[len(env.area.Flowers())-1]
	for _, flower := range env.area.Flowers() {
		if flower != last {
			flower.Feed(2.0)
		}
	}
	env.nearestFlower = nil
	env.updateNearestFlower()

	if env.NearestFlower() != last {
		t.Error("agent did not target the only flower with nectar")
	}
}

func TestNearestFlowerIsClosest(t *testing.T) {
	env := testEnv(t, false, 3)

	env.nearestFlower = nil
	env.updateNearestFlower()

	beakTip := env.BeakTipPosition()
	nearest := r3.Norm(
		env.NearestFlower().FlowerCenterPosition().Sub(beakTip))
	for i, flower := range env.area.Flowers() {
		distance := r3.Norm(flower.FlowerCenterPosition().Sub(beakTip))
		if distance < nearest-1e-12 {
			t.Errorf("flower %v at distance %v beats the target at %v",
				i, distance, nearest)
		}
	}
}

func TestPitchClamped(t *testing.T) {
	env := testEnv(t, false, 12)

	action := mat.NewVecDense(ActionDims, []float64{0, 0, 0, 1, 0})
	for i := 0; i < 300; i++ {
		env.Step(action)
		if env.Pitch() > MaxPitchAngle || env.Pitch() < -MaxPitchAngle {
			t.Fatalf("step %v: pitch %v outside +/- %v", i, env.Pitch(),
				MaxPitchAngle)
		}
	}

	if env.Pitch() < MaxPitchAngle-1e-9 {
		t.Errorf("sustained pitch input converged to %v, want %v",
			env.Pitch(), MaxPitchAngle)
	}
}

func TestYawUnbounded(t *testing.T) {
	env := testEnv(t, false, 12)

	action := mat.NewVecDense(ActionDims, []float64{0, 0, 0, 0, 1})
	for i := 0; i < 2000; i++ {
		env.Step(action)
	}

	if env.Yaw() <= 180 {
		t.Errorf("yaw = %v after sustained turning, want > 180 (no wrap)",
			env.Yaw())
	}
}

func TestBoundaryPenalty(t *testing.T) {
	env := testEnv(t, true, 12)

	// Fly straight at the +x wall from just inside it
	env.position = r3.Vec{X: 9.8, Y: 4, Z: 0}
	env.velocity = r3.Vec{X: 10}

	step, _ := env.Step(zeroAction())
	if step.Reward != BoundaryPenalty {
		t.Errorf("boundary collision reward = %v, want %v", step.Reward,
			BoundaryPenalty)
	}

	min, max := env.world.Bounds()
	p := env.Position()
	if p.X-BodyRadius < min.X-1e-9 || p.X+BodyRadius > max.X+1e-9 {
		t.Errorf("agent not pushed back inside the area: %v", p)
	}
	if env.Velocity().X > 0 {
		t.Errorf("outward velocity survived the collision: %v", env.Velocity())
	}

	// The penalty applies on contact enter only
	step, _ = env.Step(zeroAction())
	if step.Reward != 0 {
		t.Errorf("reward = %v while resting at the wall, want 0", step.Reward)
	}
}

func TestBoundaryNoPenaltyOutsideTraining(t *testing.T) {
	env := testEnv(t, false, 12)

	env.position = r3.Vec{X: 9.8, Y: 4, Z: 0}
	env.velocity = r3.Vec{X: 10}

	step, _ := env.Step(zeroAction())
	if step.Reward != 0 {
		t.Errorf("boundary collision reward = %v outside training, want 0",
			step.Reward)
	}
	if env.Position().X+BodyRadius > 10+1e-9 {
		t.Errorf("agent not pushed back inside the area: %v", env.Position())
	}
}

// oneFlowerScene is a scene with a single tilted free-standing flower,
// small enough to place the agent on the flower by hand
func oneFlowerScene() *SceneConfig {
	return &SceneConfig{
		Area: AreaConfig{
			Center:   [3]float64{0, 0, 0},
			Diameter: 20,
			Ceiling:  8,
		},
		Flowers: []FlowerConfig{
			{Offset: [3]float64{0, 1.5, 0}, Up: [3]float64{0.6, 0.8, 0}},
		},
	}
}

// hoverAtFlower parks the agent one beak length in front of the flower
// opening, looking straight into it
func hoverAtFlower(env *Hummingbird, flower *Flower) {
	up := flower.FlowerUpVector()
	env.position = flower.FlowerCenterPosition().Add(r3.Scale(BeakLength, up))
	env.velocity = r3.Vec{}
	env.pitch, env.yaw = vecutils.PitchYaw(r3.Scale(-1, up))
	env.smoothPitchChange = 0
	env.smoothYawChange = 0
}

func TestFeeding(t *testing.T) {
	task := NewForage(TrainingEpisodeSteps)
	env, _, err := New(oneFlowerScene(), task, 0.99, true, 12)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}

	flower := env.area.Flowers()[0]
	hoverAtFlower(env, flower)

	step, _ := env.Step(zeroAction())

	// Perfectly aligned feeding earns the full bonus
	want := FeedReward + AlignmentBonus
	if math.Abs(step.Reward-want) > 1e-9 {
		t.Errorf("feeding reward = %v, want %v", step.Reward, want)
	}
	if math.Abs(env.NectarObtained()-FeedAmount) > 1e-12 {
		t.Errorf("nectar obtained = %v, want %v", env.NectarObtained(),
			FeedAmount)
	}
	if math.Abs(flower.NectarAmount()-(MaxNectarAmount-FeedAmount)) > 1e-12 {
		t.Errorf("flower holds %v nectar, want %v", flower.NectarAmount(),
			MaxNectarAmount-FeedAmount)
	}
}

func TestFeedingDrainsFlower(t *testing.T) {
	task := NewForage(TrainingEpisodeSteps)
	env, _, err := New(oneFlowerScene(), task, 0.99, true, 12)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}

	flower := env.area.Flowers()[0]
	hoverAtFlower(env, flower)

	for i := 0; i < 100; i++ {
		env.Step(zeroAction())
	}

	if flower.HasNectar() {
		t.Errorf("flower still holds %v nectar after 100 feeding steps",
			flower.NectarAmount())
	}
	if math.Abs(env.NectarObtained()-MaxNectarAmount) > 1e-9 {
		t.Errorf("nectar obtained = %v, want %v", env.NectarObtained(),
			MaxNectarAmount)
	}
	if !env.AtGoal(nil) {
		t.Error("goal not reached with the only flower drained")
	}

	// Empty flowers stop interacting
	step, _ := env.Step(zeroAction())
	if step.Reward != 0 {
		t.Errorf("reward = %v feeding on an empty flower, want 0", step.Reward)
	}
	if env.NectarObtained() > MaxNectarAmount+1e-9 {
		t.Errorf("nectar obtained %v exceeds the area total",
			env.NectarObtained())
	}
}

func TestSpawnInFrontOfFlower(t *testing.T) {
	env := testEnv(t, false, 5)

	for trial := 0; trial < 5; trial++ {
		env.Reset()

		nearest := math.Inf(1)
		var target *Flower
		for _, flower := range env.area.Flowers() {
			d := r3.Norm(flower.FlowerCenterPosition().Sub(env.Position()))
			if d < nearest {
				nearest, target = d, flower
			}
		}

		if nearest < MinStandoff-1e-9 || nearest > MaxStandoff+1e-9 {
			t.Errorf("trial %v: spawned %v from the closest flower, want "+
				"within [%v, %v]", trial, nearest, MinStandoff, MaxStandoff)
		}
		if env.world.CheckSphere(env.Position(), SpawnCheckRadius) {
			t.Errorf("trial %v: spawn position is not collision free", trial)
		}

		toFlower := r3.Unit(
			target.FlowerCenterPosition().Sub(env.Position()))
		if env.Forward().Dot(toFlower) < 0.98 {
			t.Errorf("trial %v: agent not facing its flower: forward %v, "+
				"to flower %v", trial, env.Forward(), toFlower)
		}
	}
}

func TestSpawnExhaustionPanics(t *testing.T) {
	// The only flower faces out through a wall right next to it, so
	// every in-front spawn lands outside the area
	cfg := &SceneConfig{
		Area: AreaConfig{
			Center:   [3]float64{0, 0, 0},
			Diameter: 2,
			Ceiling:  3,
		},
		Flowers: []FlowerConfig{
			{Offset: [3]float64{0.98, 1, 0}, Up: [3]float64{1, 0, 0}},
		},
	}

	defer func() {
		if recover() == nil {
			t.Error("expected a panic when no safe spawn exists")
		}
	}()
	New(cfg, NewForage(TrainingEpisodeSteps), 0.99, false, 12)
}

func TestFreezePanicsInTraining(t *testing.T) {
	env := testEnv(t, true, 12)

	defer func() {
		if recover() == nil {
			t.Error("expected a panic freezing a training environment")
		}
	}()
	env.Freeze()
}

func TestUnfreezePanicsInTraining(t *testing.T) {
	env := testEnv(t, true, 12)

	defer func() {
		if recover() == nil {
			t.Error("expected a panic unfreezing a training environment")
		}
	}()
	env.Unfreeze()
}

func TestFreezeSuspendsMotion(t *testing.T) {
	env := testEnv(t, false, 12)
	action := mat.NewVecDense(ActionDims, []float64{1, 1, 1, 1, 1})

	env.Freeze()
	if !env.Frozen() {
		t.Fatal("agent not frozen after Freeze")
	}

	before := env.Position()
	pitch, yaw := env.Pitch(), env.Yaw()
	var step timestep.TimeStep
	for i := 0; i < 3; i++ {
		step, _ = env.Step(action)
	}

	if env.Position() != before {
		t.Error("frozen agent moved")
	}
	if env.Pitch() != pitch || env.Yaw() != yaw {
		t.Error("frozen agent rotated")
	}
	if step.Number != 3 {
		t.Errorf("step counter = %v while frozen, want 3", step.Number)
	}

	env.Unfreeze()
	env.Step(action)
	if env.Position() == before {
		t.Error("unfrozen agent did not move")
	}
}

func TestStepLimitEndsEpisode(t *testing.T) {
	maxSteps := 10
	env, _, err := New(DefaultScene(), NewForage(maxSteps), 0.99, true, 12)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}

	var step timestep.TimeStep
	done := false
	for i := 0; i < maxSteps; i++ {
		if done {
			t.Fatalf("episode ended early at step %v", i)
		}
		step, done = env.Step(zeroAction())
	}

	if !done || !step.Last() {
		t.Fatalf("episode not over after %v steps: %v", maxSteps, step)
	}
	if step.EndType != timestep.Timeout {
		t.Errorf("end type = %v, want Timeout", step.EndType)
	}
	if step.TerminalEnd() {
		t.Error("cutoff episode reported a terminal end")
	}
}

func TestResetClearsEpisodeState(t *testing.T) {
	env := testEnv(t, true, 12)

	action := mat.NewVecDense(ActionDims, []float64{1, 0.5, -0.3, 0.2, 0.9})
	for i := 0; i < 25; i++ {
		env.Step(action)
	}
	env.nectarObtained = 0.5

	firstStep := env.Reset()

	if !firstStep.First() || firstStep.Number != 0 {
		t.Errorf("reset produced %v, want a First step numbered 0", firstStep)
	}
	if env.NectarObtained() != 0 {
		t.Errorf("nectar obtained = %v after reset", env.NectarObtained())
	}
	if env.Velocity() != (r3.Vec{}) {
		t.Errorf("velocity = %v after reset", env.Velocity())
	}
	if env.NearestFlower() == nil || !env.NearestFlower().HasNectar() {
		t.Error("no full target flower after reset")
	}
}

func TestStepPanicsOnWrongActionLength(t *testing.T) {
	env := testEnv(t, true, 12)

	defer func() {
		if recover() == nil {
			t.Error("expected a panic for a 3-dimensional action")
		}
	}()
	env.Step(mat.NewVecDense(3, nil))
}

func TestActionSpec(t *testing.T) {
	env := testEnv(t, true, 12)
	actionSpec := env.ActionSpec()

	if actionSpec.Shape.Len() != ActionDims {
		t.Errorf("action shape = %v, want %v", actionSpec.Shape.Len(),
			ActionDims)
	}
	for i := 0; i < ActionDims; i++ {
		if actionSpec.LowerBound.AtVec(i) != -1 ||
			actionSpec.UpperBound.AtVec(i) != 1 {
			t.Errorf("action bound %v = [%v, %v], want [-1, 1]", i,
				actionSpec.LowerBound.AtVec(i), actionSpec.UpperBound.AtVec(i))
		}
	}
}

// Package hummingbird implements a 3D foraging environment. A flying
// agent must locate flowers scattered over a bounded area and drink
// the nectar they hold by reaching its beak tip into the nectar
// opening of each flower.
//
// Actions are continuous and 5-dimensional: three components form a
// world-space force applied to the agent's body each physics step (the
// magnitude matters and is not normalized), and two components are
// pitch and yaw control signals in [-1, 1] that are rate-limited
// before being integrated into the agent's orientation. Roll is always
// zero.
//
// Observations are 10-dimensional: the agent's orientation as a unit
// quaternion (4), the unit vector from the agent's beak tip to the
// nearest flower (3), two alignment dot products against the flower
// opening direction (2), and the beak-to-flower distance normalized by
// the area diameter (1). When no flower is targeted the observation is
// all zeros.
package hummingbird

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/MLH-GHW-Games/HummingbirdMLAgents/environment"
	"github.com/MLH-GHW-Games/HummingbirdMLAgents/spec"
	"github.com/MLH-GHW-Games/HummingbirdMLAgents/timestep"
	"github.com/MLH-GHW-Games/HummingbirdMLAgents/utils/floatutils"
	"github.com/MLH-GHW-Games/HummingbirdMLAgents/utils/vecutils"
)

// default physical constants
const (
	// FixedTimeStep is the physics step duration (50 Hz)
	FixedTimeStep float64 = 0.02

	// MoveForce scales the force action into an acceleration impulse
	MoveForce float64 = 2.0

	// PitchSpeed and YawSpeed are rotation speeds in degrees per
	// second at full control input
	PitchSpeed float64 = 100.0
	YawSpeed   float64 = 100.0

	// SmoothingRate limits how fast the pitch and yaw control signals
	// may change, per second
	SmoothingRate float64 = 2.0

	// MaxPitchAngle is the hard pitch clamp in degrees; yaw is free
	MaxPitchAngle float64 = 80.0

	// BeakLength is the distance from the body center to the beak tip
	BeakLength float64 = 0.15

	// BodyRadius is the agent's collision radius
	BodyRadius float64 = 0.1

	// BeakTipRadius qualifies nectar contacts: a nectar collider feeds
	// the agent only when its closest point lies within this distance
	// of the beak tip
	BeakTipRadius float64 = 0.008

	// FeedAmount is the nectar requested per feeding tick
	FeedAmount float64 = 0.01

	// FeedReward and AlignmentBonus shape the feeding reward in
	// training mode
	FeedReward     float64 = 0.01
	AlignmentBonus float64 = 0.02

	// BoundaryPenalty is the reward for colliding with the area
	// boundary in training mode
	BoundaryPenalty float64 = -0.5

	// Safe spawn search
	SpawnAttempts    int     = 100
	SpawnCheckRadius float64 = 0.05
	MinStandoff      float64 = 0.10
	MaxStandoff      float64 = 0.20
	MinSpawnHeight   float64 = 1.2
	MaxSpawnHeight   float64 = 2.5
	MinSpawnRadius   float64 = 2.0
	MaxSpawnRadius   float64 = 7.0
	MinSpawnPitch    float64 = -6.0
	MaxSpawnPitch    float64 = 60.0

	// TrainingEpisodeSteps is the step budget per training episode
	TrainingEpisodeSteps int = 5000

	ObservationDims int = 10
	ActionDims      int = 5
)

// Hummingbird implements the environment.Environment interface for the
// foraging scene. The zero value is not usable; construct with New.
type Hummingbird struct {
	environment.Task

	world *World
	area  *FlowerArea

	position r3.Vec
	velocity r3.Vec
	pitch    float64 // degrees, clamped to +/- MaxPitchAngle
	yaw      float64 // degrees, unbounded

	smoothPitchChange float64
	smoothYawChange   float64

	nearestFlower   *Flower
	nectarObtained  float64
	stepReward      float64
	boundaryContact bool

	frozen       bool
	trainingMode bool

	rng         *rand.Rand
	standoff    distuv.Uniform
	freeStarter environment.UniformStarter

	discount float64
	lastStep timestep.TimeStep
}

// New creates a hummingbird environment from a scene description. In
// training mode episodes reset the flower area and run under the
// task's step budget; outside training mode the agent always spawns in
// front of a flower and may additionally be frozen and unfrozen.
func New(cfg *SceneConfig, t environment.Task, discount float64,
	trainingMode bool, seed uint64) (*Hummingbird, timestep.TimeStep, error) {
	if err := cfg.Validate(); err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: invalid scene: %w",
			err)
	}

	src := rand.NewSource(seed)
	world := NewWorld(cfg.Area)
	area := NewFlowerArea(BuildScene(cfg), cfg.Area, world, rand.New(src))

	h := &Hummingbird{
		Task:         t,
		world:        world,
		area:         area,
		trainingMode: trainingMode,
		rng:          rand.New(src),
		standoff:     distuv.Uniform{Min: MinStandoff, Max: MaxStandoff, Src: src},
		freeStarter: environment.NewUniformStarter([]r1.Interval{
			{Min: MinSpawnHeight, Max: MaxSpawnHeight},
			{Min: MinSpawnRadius, Max: MaxSpawnRadius},
			{Min: -180.0, Max: 180.0},
			{Min: MinSpawnPitch, Max: MaxSpawnPitch},
			{Min: -180.0, Max: 180.0},
		}, seed+1),
		discount: discount,
	}

	if forage, ok := t.(forageTask); ok {
		forage.registerEnv(h)
	}

	firstStep := h.Reset()
	return h, firstStep, nil
}

// Reset begins a new episode: in training mode all flowers are reset,
// then the agent is placed at a safe random position and its target
// flower recomputed
func (h *Hummingbird) Reset() timestep.TimeStep {
	if h.trainingMode {
		h.area.ResetFlowers()
	}

	h.nectarObtained = 0
	h.stepReward = 0
	h.velocity = r3.Vec{}
	h.smoothPitchChange = 0
	h.smoothYawChange = 0
	h.boundaryContact = false
	h.nearestFlower = nil

	// Outside training the agent always starts in front of a flower
	inFrontOfFlower := true
	if h.trainingMode {
		inFrontOfFlower = h.rng.Float64() > 0.5
	}
	h.moveToSafeRandomPosition(inFrontOfFlower)
	h.updateNearestFlower()

	startStep := timestep.New(timestep.First, 0, h.discount, h.observe(), 0)
	h.lastStep = startStep
	return startStep
}

// Step advances the environment by one physics step given a
// 5-dimensional action. While frozen, actions and motion are
// suspended but the step counter still advances.
func (h *Hummingbird) Step(action mat.Vector) (timestep.TimeStep, bool) {
	if action.Len() != ActionDims {
		panic(fmt.Sprintf("step: expected %v action dimensions, got %v",
			ActionDims, action.Len()))
	}

	if !h.frozen {
		h.applyAction(action)
		h.stepKinematics()
		h.handleFeeding()
	}

	// Self-heal the target if it was emptied externally
	if h.nearestFlower != nil && !h.nearestFlower.HasNectar() {
		h.updateNearestFlower()
	}

	obs := h.observe()
	reward := h.GetReward(h.lastStep.Observation, action, obs)
	nextStep := timestep.New(timestep.Mid, reward, h.discount, obs,
		h.lastStep.Number+1)
	h.End(&nextStep)

	h.lastStep = nextStep
	return nextStep, nextStep.Last()
}

// applyAction integrates the action into the agent's velocity and
// orientation. The force components are applied as-is; the pitch and
// yaw signals are rate-limited before integration.
func (h *Hummingbird) applyAction(action mat.Vector) {
	force := r3.Vec{
		X: action.AtVec(0),
		Y: action.AtVec(1),
		Z: action.AtVec(2),
	}
	h.velocity = h.velocity.Add(r3.Scale(MoveForce*FixedTimeStep, force))

	pitchChange := floatutils.Clip(action.AtVec(3), -1, 1)
	yawChange := floatutils.Clip(action.AtVec(4), -1, 1)

	h.smoothPitchChange = floatutils.MoveTowards(h.smoothPitchChange,
		pitchChange, SmoothingRate*FixedTimeStep)
	h.smoothYawChange = floatutils.MoveTowards(h.smoothYawChange,
		yawChange, SmoothingRate*FixedTimeStep)

	pitch := h.pitch + h.smoothPitchChange*FixedTimeStep*PitchSpeed
	h.pitch = floatutils.Clip(vecutils.WrapAngle(pitch), -MaxPitchAngle,
		MaxPitchAngle)
	h.yaw += h.smoothYawChange * FixedTimeStep * YawSpeed
}

// stepKinematics integrates the agent's position and resolves solid
// collisions. Hitting the boundary is penalized once per contact in
// training mode.
func (h *Hummingbird) stepKinematics() {
	h.position = h.position.Add(r3.Scale(FixedTimeStep, h.velocity))

	inContact := false
	for _, contact := range h.world.SolidContacts(h.position, BodyRadius) {
		switch h.world.Tag(contact.Handle) {
		case TagBoundary:
			inContact = true
			if !h.boundaryContact && h.trainingMode {
				h.addReward(BoundaryPenalty)
			}
			h.resolveBoundary()

		default:
			h.resolveSphere(contact)
		}
	}
	h.boundaryContact = inContact
}

// resolveBoundary pushes the agent back inside the area bounds,
// zeroing the velocity components that point out of it
func (h *Hummingbird) resolveBoundary() {
	min, max := h.world.Bounds()

	if h.position.X-BodyRadius < min.X {
		h.position.X = min.X + BodyRadius
		h.velocity.X = floatutils.Max(h.velocity.X, 0)
	} else if h.position.X+BodyRadius > max.X {
		h.position.X = max.X - BodyRadius
		h.velocity.X = floatutils.Min(h.velocity.X, 0)
	}
	if h.position.Y-BodyRadius < min.Y {
		h.position.Y = min.Y + BodyRadius
		h.velocity.Y = floatutils.Max(h.velocity.Y, 0)
	} else if h.position.Y+BodyRadius > max.Y {
		h.position.Y = max.Y - BodyRadius
		h.velocity.Y = floatutils.Min(h.velocity.Y, 0)
	}
	if h.position.Z-BodyRadius < min.Z {
		h.position.Z = min.Z + BodyRadius
		h.velocity.Z = floatutils.Max(h.velocity.Z, 0)
	} else if h.position.Z+BodyRadius > max.Z {
		h.position.Z = max.Z - BodyRadius
		h.velocity.Z = floatutils.Min(h.velocity.Z, 0)
	}
}

// resolveSphere pushes the agent out of a solid sphere collider along
// the contact normal, removing the inward velocity component
func (h *Hummingbird) resolveSphere(contact Contact) {
	normal := h.position.Sub(contact.Point)
	if r3.Norm(normal) == 0 {
		return
	}
	normal = r3.Unit(normal)

	h.position = contact.Point.Add(r3.Scale(BodyRadius, normal))
	if into := h.velocity.Dot(normal); into < 0 {
		h.velocity = h.velocity.Sub(r3.Scale(into, normal))
	}
}

// handleFeeding checks the beak tip against nectar triggers and feeds
// from any flower whose nectar opening the beak tip has reached.
// Feeding is rewarded in training mode, with a bonus for approaching
// the opening head on.
func (h *Hummingbird) handleFeeding() {
	beakTip := h.BeakTipPosition()

	for _, contact := range h.world.OverlapSphere(beakTip, BeakTipRadius) {
		if h.world.Tag(contact.Handle) != TagNectar {
			continue
		}

		flower := h.area.GetFlowerFromNectar(contact.Handle)
		received := flower.Feed(FeedAmount)
		h.nectarObtained += received

		if h.trainingMode {
			alignment := h.Forward().Dot(r3.Scale(-1, flower.FlowerUpVector()))
			h.addReward(FeedReward + AlignmentBonus*floatutils.Clip01(alignment))
		}

		if !flower.HasNectar() {
			h.updateNearestFlower()
		}
	}
}

// updateNearestFlower retargets the agent to the closest flower that
// still has nectar. A flower with nectar always beats an empty one,
// regardless of distance.
func (h *Hummingbird) updateNearestFlower() {
	beakTip := h.BeakTipPosition()

	for _, flower := range h.area.Flowers() {
		if h.nearestFlower == nil && flower.HasNectar() {
			h.nearestFlower = flower
		} else if flower.HasNectar() {
			distance := r3.Norm(flower.FlowerCenterPosition().Sub(beakTip))
			nearestDistance := r3.Norm(
				h.nearestFlower.FlowerCenterPosition().Sub(beakTip))

			if !h.nearestFlower.HasNectar() || distance < nearestDistance {
				h.nearestFlower = flower
			}
		}
	}
}

// moveToSafeRandomPosition places the agent at a collision-free
// position, either hovering in front of a random flower or at a free
// random spot in the area. The environment is only defined for scenes
// where such a position exists, so exhausting the attempt budget is
// fatal.
func (h *Hummingbird) moveToSafeRandomPosition(inFrontOfFlower bool) {
	for attempt := 0; attempt < SpawnAttempts; attempt++ {
		var position r3.Vec
		var pitch, yaw float64

		if inFrontOfFlower {
			flowers := h.area.Flowers()
			flower := flowers[h.rng.Intn(len(flowers))]

			distance := h.standoff.Rand()
			position = flower.FlowerCenterPosition().Add(
				r3.Scale(distance, flower.FlowerUpVector()))

			toFlower := flower.FlowerCenterPosition().Sub(position)
			pitch, yaw = vecutils.PitchYaw(toFlower)
		} else {
			sample := h.freeStarter.Start()
			height := sample.AtVec(0)
			radius := sample.AtVec(1)
			azimuth := sample.AtVec(2)
			pitch, yaw = sample.AtVec(3), sample.AtVec(4)

			direction := vecutils.Forward(vecutils.EulerYX(0, azimuth))
			position = h.area.Center().
				Add(r3.Vec{Y: height}).
				Add(r3.Scale(radius, direction))
		}

		if !h.world.CheckSphere(position, SpawnCheckRadius) {
			h.position = position
			h.pitch = floatutils.Clip(pitch, -MaxPitchAngle, MaxPitchAngle)
			h.yaw = yaw
			return
		}
	}

	panic(fmt.Sprintf("moveToSafeRandomPosition: no safe position found "+
		"after %v attempts", SpawnAttempts))
}

// observe builds the 10-dimensional observation vector. With no
// nearest flower set the observation is all zeros.
func (h *Hummingbird) observe() *mat.VecDense {
	if h.nearestFlower == nil {
		return mat.NewVecDense(ObservationDims, nil)
	}

	obs := make([]float64, 0, ObservationDims)

	x, y, z, w := vecutils.Components(h.orientation())
	obs = append(obs, x, y, z, w)

	beakTip := h.BeakTipPosition()
	toFlower := h.nearestFlower.FlowerCenterPosition().Sub(beakTip)
	distance := r3.Norm(toFlower)

	var direction r3.Vec
	if distance > 0 {
		direction = r3.Unit(toFlower)
	}
	obs = append(obs, direction.X, direction.Y, direction.Z)

	flowerDown := r3.Scale(-1, h.nearestFlower.FlowerUpVector())
	obs = append(obs, direction.Dot(flowerDown))
	obs = append(obs, h.Forward().Dot(flowerDown))

	obs = append(obs, distance/h.area.Diameter())

	return mat.NewVecDense(ObservationDims, obs)
}

// Freeze halts action processing and stops the agent's motion. Only
// valid outside training mode.
func (h *Hummingbird) Freeze() {
	if h.trainingMode {
		panic("freeze: freeze/unfreeze not supported in training")
	}
	h.frozen = true
	h.velocity = r3.Vec{}
	h.smoothPitchChange = 0
	h.smoothYawChange = 0
}

// Unfreeze resumes action processing. Only valid outside training
// mode.
func (h *Hummingbird) Unfreeze() {
	if h.trainingMode {
		panic("unfreeze: freeze/unfreeze not supported in training")
	}
	h.frozen = false
}

// Frozen returns whether the agent is currently frozen
func (h *Hummingbird) Frozen() bool {
	return h.frozen
}

// TrainingMode returns whether the environment was built for training
func (h *Hummingbird) TrainingMode() bool {
	return h.trainingMode
}

// NectarObtained returns the nectar obtained so far this episode
func (h *Hummingbird) NectarObtained() float64 {
	return h.nectarObtained
}

// NearestFlower returns the agent's current target flower, or nil
func (h *Hummingbird) NearestFlower() *Flower {
	return h.nearestFlower
}

// Position returns the agent's body center
func (h *Hummingbird) Position() r3.Vec {
	return h.position
}

// Velocity returns the agent's linear velocity
func (h *Hummingbird) Velocity() r3.Vec {
	return h.velocity
}

// Pitch returns the agent's pitch in degrees
func (h *Hummingbird) Pitch() float64 {
	return h.pitch
}

// Yaw returns the agent's yaw in degrees
func (h *Hummingbird) Yaw() float64 {
	return h.yaw
}

// BeakTipPosition returns the world position of the beak tip
func (h *Hummingbird) BeakTipPosition() r3.Vec {
	return h.position.Add(r3.Scale(BeakLength, h.Forward()))
}

// Forward returns the agent's unit forward vector
func (h *Hummingbird) Forward() r3.Vec {
	return vecutils.Forward(h.orientation())
}

// Up returns the agent's unit up vector
func (h *Hummingbird) Up() r3.Vec {
	return vecutils.Up(h.orientation())
}

// Right returns the agent's unit right vector
func (h *Hummingbird) Right() r3.Vec {
	return vecutils.Right(h.orientation())
}

// LastTimeStep returns the last TimeStep that occurred in the
// environment
func (h *Hummingbird) LastTimeStep() timestep.TimeStep {
	return h.lastStep
}

// DiscountSpec returns the discount specification of the environment
func (h *Hummingbird) DiscountSpec() spec.Environment {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{h.discount})
	upperBound := mat.NewVecDense(1, []float64{h.discount})

	return spec.NewEnvironment(shape, spec.Discount, lowerBound, upperBound,
		spec.Continuous)
}

// ObservationSpec returns the observation specification of the
// environment
func (h *Hummingbird) ObservationSpec() spec.Environment {
	shape := mat.NewVecDense(ObservationDims, nil)

	min, max := h.world.Bounds()
	maxDistance := r3.Norm(max.Sub(min)) / h.area.Diameter()

	lower := make([]float64, ObservationDims)
	upper := make([]float64, ObservationDims)
	for i := 0; i < ObservationDims-1; i++ {
		lower[i], upper[i] = -1.0, 1.0
	}
	lower[ObservationDims-1] = 0.0
	upper[ObservationDims-1] = maxDistance

	return spec.NewEnvironment(shape, spec.Observation,
		mat.NewVecDense(ObservationDims, lower),
		mat.NewVecDense(ObservationDims, upper), spec.Continuous)
}

// ActionSpec returns the action specification of the environment
func (h *Hummingbird) ActionSpec() spec.Environment {
	shape := mat.NewVecDense(ActionDims, nil)

	lower := make([]float64, ActionDims)
	upper := make([]float64, ActionDims)
	for i := range lower {
		lower[i], upper[i] = -1.0, 1.0
	}

	return spec.NewEnvironment(shape, spec.Action,
		mat.NewVecDense(ActionDims, lower),
		mat.NewVecDense(ActionDims, upper), spec.Continuous)
}

// String converts the environment to a string representation
func (h *Hummingbird) String() string {
	str := "Hummingbird  |  position: %.2v  |  pitch: %.1f  |  yaw: %.1f" +
		"  |  nectar: %.2f"
	return fmt.Sprintf(str, h.position, h.pitch, h.yaw, h.nectarObtained)
}

func (h *Hummingbird) orientation() r3.Rotation {
	return vecutils.EulerYX(h.pitch, h.yaw)
}

func (h *Hummingbird) takeStepReward() float64 {
	reward := h.stepReward
	h.stepReward = 0
	return reward
}

func (h *Hummingbird) addReward(reward float64) {
	h.stepReward += reward
}

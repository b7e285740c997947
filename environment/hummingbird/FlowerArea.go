package hummingbird

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/MLH-GHW-Games/HummingbirdMLAgents/utils/vecutils"
)

// Plant rotation jitter applied on every reset: a free spin about the
// vertical axis and a small tilt
const (
	MinPlantTilt float64 = -5.0
	MaxPlantTilt float64 = 5.0
	MinPlantYaw  float64 = -180.0
	MaxPlantYaw  float64 = 180.0
)

// plantGroup is the transform a set of flowers hangs off of. Resetting
// the area assigns each group a fresh rotation.
type plantGroup struct {
	name     string
	base     r3.Vec
	rotation r3.Rotation
}

func newPlantGroup(name string, base r3.Vec) *plantGroup {
	return &plantGroup{name: name, base: base, rotation: vecutils.EulerYX(0, 0)}
}

func (p *plantGroup) transformPoint(local r3.Vec) r3.Vec {
	return p.base.Add(p.rotation.Rotate(local))
}

func (p *plantGroup) transformDir(local r3.Vec) r3.Vec {
	return p.rotation.Rotate(local)
}

// FlowerArea manages a collection of flower plants and flowers, and
// the lookup from nectar collider handle to owning flower
type FlowerArea struct {
	flowers     []*Flower
	nectarIndex map[Handle]*Flower
	plants      []*plantGroup
	static      *plantGroup // identity group for free-standing flowers

	center   r3.Vec
	diameter float64

	world *World
	rng   *rand.Rand
}

// NewFlowerArea discovers all flower plants and flowers below root and
// registers their colliders with the world. Discovery must run after
// the scene tree is fully built.
func NewFlowerArea(root *Node, area AreaConfig, world *World,
	rng *rand.Rand) *FlowerArea {
	f := &FlowerArea{
		nectarIndex: make(map[Handle]*Flower),
		static:      newPlantGroup("static", r3.Vec{}),
		center:      vec(area.Center),
		diameter:    area.Diameter,
		world:       world,
		rng:         rng,
	}
	f.discover(root, f.static)

	if len(f.flowers) == 0 {
		panic("newFlowerArea: no flowers discovered in scene")
	}
	return f
}

// discover recursively walks the scene tree. Plant-tagged nodes open a
// new group for their subtree; flower-capable nodes register with the
// enclosing group; everything else is searched further.
func (f *FlowerArea) discover(node *Node, group *plantGroup) {
	for _, child := range node.Children {
		switch {
		case child.Tag == TagFlowerPlant:
			plant := newPlantGroup(child.Name, child.Position)
			f.plants = append(f.plants, plant)
			f.discover(child, plant)

		case child.Flower != nil:
			f.register(child.Flower, group)

		default:
			f.discover(child, group)
		}
	}
}

func (f *FlowerArea) register(cfg *FlowerConfig, group *plantGroup) {
	flower := newFlower(group, cfg)

	flower.nectarHandle = f.world.AddSphere(TagNectar, NectarColliderRadius,
		flower.FlowerCenterPosition, flower.CollidersEnabled, true)
	flower.petalHandle = f.world.AddSphere(TagFlower, PetalColliderRadius,
		flower.petalCenterPosition, flower.CollidersEnabled, false)

	if _, ok := f.nectarIndex[flower.nectarHandle]; ok {
		panic(fmt.Sprintf("register: duplicate nectar handle %v",
			flower.nectarHandle))
	}
	f.nectarIndex[flower.nectarHandle] = flower
	f.flowers = append(f.flowers, flower)
}

// ResetFlowers re-orients every flower plant with a random spin and a
// small tilt, then refills every flower
func (f *FlowerArea) ResetFlowers() {
	for _, plant := range f.plants {
		pitch := f.uniform(MinPlantTilt, MaxPlantTilt)
		yaw := f.uniform(MinPlantYaw, MaxPlantYaw)
		roll := f.uniform(MinPlantTilt, MaxPlantTilt)
		plant.rotation = vecutils.EulerYXZ(pitch, yaw, roll)
	}

	for _, flower := range f.flowers {
		flower.ResetFlower()
	}
}

// GetFlowerFromNectar returns the flower owning a nectar collider
// handle. Callers must only query handles tagged TagNectar; unknown
// handles are a contract violation.
func (f *FlowerArea) GetFlowerFromNectar(h Handle) *Flower {
	flower, ok := f.nectarIndex[h]
	if !ok {
		panic(fmt.Sprintf("getFlowerFromNectar: no flower registered for "+
			"handle %v", h))
	}
	return flower
}

// Flowers returns all flowers in the area, in discovery order
func (f *FlowerArea) Flowers() []*Flower {
	return f.flowers
}

// NumPlants returns the number of flower plant groups in the area
func (f *FlowerArea) NumPlants() int {
	return len(f.plants)
}

// Center returns the center of the area
func (f *FlowerArea) Center() r3.Vec {
	return f.center
}

// Diameter returns the diameter used to normalize distances in
// observations
func (f *FlowerArea) Diameter() float64 {
	return f.diameter
}

// TotalNectar returns the amount of nectar the area holds when all
// flowers are full
func (f *FlowerArea) TotalNectar() float64 {
	return float64(len(f.flowers)) * MaxNectarAmount
}

func (f *FlowerArea) uniform(min, max float64) float64 {
	return min + f.rng.Float64()*(max-min)
}

package hummingbird

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/MLH-GHW-Games/HummingbirdMLAgents/utils/floatutils"
)

// Flower geometry and nectar constants
const (
	// MaxNectarAmount is the nectar a full flower holds
	MaxNectarAmount float64 = 1.0

	// NectarColliderRadius is the radius of the trigger sphere at the
	// nectar opening
	NectarColliderRadius float64 = 0.07

	// PetalColliderRadius and PetalColliderOffset place the solid
	// collider for the flower body below the nectar opening, so the
	// approach from the front stays clear
	PetalColliderRadius float64 = 0.1
	PetalColliderOffset float64 = 0.15
)

// Petal colors for the full and empty states
var (
	FullFlowerColor  = color.RGBA{R: 255, G: 0, B: 76, A: 255}
	EmptyFlowerColor = color.RGBA{R: 127, G: 0, B: 255, A: 255}
)

// Flower manages a single flower's nectar. A flower belongs to a plant
// group; its world pose is derived from the group's current
// orientation on every access, so re-orienting the plant moves the
// flower with it.
type Flower struct {
	group       *plantGroup
	localCenter r3.Vec // nectar opening, relative to the group base
	localUp     r3.Vec // unit direction the opening faces, local

	nectarAmount     float64
	collidersEnabled bool
	petalColor       color.RGBA

	nectarHandle Handle
	petalHandle  Handle
}

func newFlower(group *plantGroup, cfg *FlowerConfig) *Flower {
	f := &Flower{
		group:       group,
		localCenter: vec(cfg.Offset),
		localUp:     r3.Unit(vec(cfg.Up)),
	}
	f.ResetFlower()
	return f
}

// Feed attempts to remove amount of nectar from the flower, returning
// the amount actually obtained. A negative request takes nothing. The
// requested amount is always subtracted, saturating at zero;
// downstream reward accounting relies on this rather than a symmetric
// clamp.
func (f *Flower) Feed(amount float64) float64 {
	amount = floatutils.Max(amount, 0)
	taken := floatutils.Clip(amount, 0, f.nectarAmount)

	f.nectarAmount -= amount
	if f.nectarAmount <= 0 {
		f.nectarAmount = 0
		f.collidersEnabled = false
		f.petalColor = EmptyFlowerColor
	}

	return taken
}

// ResetFlower restores the flower to full and re-enables both
// colliders. Safe to call in any state.
func (f *Flower) ResetFlower() {
	f.nectarAmount = MaxNectarAmount
	f.collidersEnabled = true
	f.petalColor = FullFlowerColor
}

// NectarAmount returns the remaining nectar, in [0, MaxNectarAmount]
func (f *Flower) NectarAmount() float64 {
	return f.nectarAmount
}

// HasNectar returns whether any nectar remains
func (f *Flower) HasNectar() bool {
	return f.nectarAmount > 0
}

// FlowerUpVector returns the current world direction the nectar
// opening faces. Not cached: it follows the plant's orientation.
func (f *Flower) FlowerUpVector() r3.Vec {
	return f.group.transformDir(f.localUp)
}

// FlowerCenterPosition returns the current world position of the
// nectar opening. Not cached: it follows the plant's orientation.
func (f *Flower) FlowerCenterPosition() r3.Vec {
	return f.group.transformPoint(f.localCenter)
}

// CollidersEnabled reports whether the flower's colliders currently
// accept interactions. Both colliders are disabled while the flower is
// empty.
func (f *Flower) CollidersEnabled() bool {
	return f.collidersEnabled
}

// PetalColor returns the current cosmetic petal color
func (f *Flower) PetalColor() color.RGBA {
	return f.petalColor
}

// NectarHandle returns the physics handle of the nectar trigger
func (f *Flower) NectarHandle() Handle {
	return f.nectarHandle
}

// PetalHandle returns the physics handle of the solid petal collider
func (f *Flower) PetalHandle() Handle {
	return f.petalHandle
}

// petalCenterPosition is the world position of the solid petal
// collider, placed behind the nectar opening
func (f *Flower) petalCenterPosition() r3.Vec {
	up := f.FlowerUpVector()
	return f.FlowerCenterPosition().Sub(r3.Scale(PetalColliderOffset, up))
}

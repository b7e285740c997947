package hummingbird

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/MLH-GHW-Games/HummingbirdMLAgents/utils/floatutils"
)

// Handle identifies a collider registered with a physics World
type Handle int

// Contact reports one overlapping collider along with the closest
// point on that collider to the query center
type Contact struct {
	Handle Handle
	Point  r3.Vec
}

// Physics is the overlap-query surface the environment needs from its
// physics collaborator. OverlapSphere reports trigger colliders only;
// CheckSphere and SolidContacts consider solid colliders, including
// the area boundary.
type Physics interface {
	CheckSphere(center r3.Vec, radius float64) bool
	OverlapSphere(center r3.Vec, radius float64) []Contact
	SolidContacts(center r3.Vec, radius float64) []Contact
	ClosestPoint(h Handle, p r3.Vec) r3.Vec
	Tag(h Handle) string
}

type colliderKind int

const (
	sphereCollider colliderKind = iota

	// boundsCollider is inside-out: it contains the world and
	// overlaps query spheres that poke outside of it
	boundsCollider
)

type collider struct {
	kind    colliderKind
	tag     string
	trigger bool

	// sphere colliders; position is a provider so collider poses
	// follow their flower plant's current orientation
	radius   float64
	position func() r3.Vec
	enabled  func() bool

	// bounds collider
	min, max r3.Vec
}

// World is a minimal overlap-query implementation of Physics over
// sphere colliders and a single bounding box. It performs no dynamics;
// the environment owns all motion.
type World struct {
	colliders []collider
}

// NewWorld returns a World bounded by the argument area's box. The
// boundary registers as a solid collider tagged TagBoundary.
func NewWorld(area AreaConfig) *World {
	center := vec(area.Center)
	half := area.Diameter / 2

	w := &World{}
	w.colliders = append(w.colliders, collider{
		kind: boundsCollider,
		tag:  TagBoundary,
		min:  r3.Vec{X: center.X - half, Y: center.Y, Z: center.Z - half},
		max: r3.Vec{X: center.X + half, Y: center.Y + area.Ceiling,
			Z: center.Z + half},
	})
	return w
}

// Bounds returns the world's bounding box
func (w *World) Bounds() (min, max r3.Vec) {
	return w.colliders[0].min, w.colliders[0].max
}

// AddSphere registers a sphere collider and returns its handle. The
// position and enabled providers are consulted on every query.
func (w *World) AddSphere(tag string, radius float64, position func() r3.Vec,
	enabled func() bool, trigger bool) Handle {
	w.colliders = append(w.colliders, collider{
		kind:     sphereCollider,
		tag:      tag,
		trigger:  trigger,
		radius:   radius,
		position: position,
		enabled:  enabled,
	})
	return Handle(len(w.colliders) - 1)
}

// CheckSphere reports whether a sphere at center overlaps any enabled
// solid collider or extends beyond the world bounds. Trigger colliders
// never block.
func (w *World) CheckSphere(center r3.Vec, radius float64) bool {
	for i := range w.colliders {
		c := &w.colliders[i]
		if c.trigger || !w.active(c) {
			continue
		}
		if c.overlaps(center, radius) {
			return true
		}
	}
	return false
}

// OverlapSphere returns contacts for every enabled trigger collider
// overlapping a sphere at center
func (w *World) OverlapSphere(center r3.Vec, radius float64) []Contact {
	var contacts []Contact
	for i := range w.colliders {
		c := &w.colliders[i]
		if !c.trigger || !w.active(c) {
			continue
		}
		if c.overlaps(center, radius) {
			contacts = append(contacts, Contact{Handle(i), c.closest(center)})
		}
	}
	return contacts
}

// SolidContacts returns contacts for every enabled solid collider
// overlapping a sphere at center
func (w *World) SolidContacts(center r3.Vec, radius float64) []Contact {
	var contacts []Contact
	for i := range w.colliders {
		c := &w.colliders[i]
		if c.trigger || !w.active(c) {
			continue
		}
		if c.overlaps(center, radius) {
			contacts = append(contacts, Contact{Handle(i), c.closest(center)})
		}
	}
	return contacts
}

// ClosestPoint returns the closest point on a collider to p. If p is
// inside the collider, p itself is returned.
func (w *World) ClosestPoint(h Handle, p r3.Vec) r3.Vec {
	return w.lookup(h).closest(p)
}

// Tag returns the tag of a registered collider
func (w *World) Tag(h Handle) string {
	return w.lookup(h).tag
}

func (w *World) lookup(h Handle) *collider {
	if h < 0 || int(h) >= len(w.colliders) {
		panic(fmt.Sprintf("lookup: no collider with handle %v", h))
	}
	return &w.colliders[int(h)]
}

func (w *World) active(c *collider) bool {
	return c.enabled == nil || c.enabled()
}

func (c *collider) overlaps(center r3.Vec, radius float64) bool {
	switch c.kind {
	case sphereCollider:
		gap := c.radius + radius
		return r3.Norm2(center.Sub(c.position())) <= gap*gap

	case boundsCollider:
		return center.X-radius < c.min.X || center.X+radius > c.max.X ||
			center.Y-radius < c.min.Y || center.Y+radius > c.max.Y ||
			center.Z-radius < c.min.Z || center.Z+radius > c.max.Z

	default:
		panic(fmt.Sprintf("overlaps: unknown collider kind %v", c.kind))
	}
}

func (c *collider) closest(p r3.Vec) r3.Vec {
	switch c.kind {
	case sphereCollider:
		center := c.position()
		offset := p.Sub(center)
		if r3.Norm(offset) <= c.radius {
			return p
		}
		return center.Add(r3.Scale(c.radius, r3.Unit(offset)))

	case boundsCollider:
		return clampVec(p, c.min, c.max)

	default:
		panic(fmt.Sprintf("closest: unknown collider kind %v", c.kind))
	}
}

func clampVec(p, min, max r3.Vec) r3.Vec {
	return r3.Vec{
		X: floatutils.Clip(p.X, min.X, max.X),
		Y: floatutils.Clip(p.Y, min.Y, max.Y),
		Z: floatutils.Clip(p.Z, min.Z, max.Z),
	}
}

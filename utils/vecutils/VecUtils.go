// Package vecutils provides utilities for working with 3D vectors and
// orientations
package vecutils

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/MLH-GHW-Games/HummingbirdMLAgents/utils/floatutils"
)

// DegToRad converts an angle in degrees to radians
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RadToDeg converts an angle in radians to degrees
func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// WrapAngle wraps an angle in degrees into [-180, 180)
func WrapAngle(deg float64) float64 {
	wrapped := math.Mod(deg+180.0, 360.0)
	if wrapped < 0 {
		wrapped += 360.0
	}
	return wrapped - 180.0
}

// EulerYX returns the orientation reached by first pitching about the
// x-axis and then yawing about the world y-axis. Roll is always zero.
// A positive pitch tilts the forward vector downwards.
func EulerYX(pitchDeg, yawDeg float64) r3.Rotation {
	yaw := quat.Number(r3.NewRotation(DegToRad(yawDeg), r3.Vec{Y: 1}))
	pitch := quat.Number(r3.NewRotation(DegToRad(pitchDeg), r3.Vec{X: 1}))
	return r3.Rotation(quat.Mul(yaw, pitch))
}

// EulerYXZ returns the orientation reached by rolling about the
// z-axis, then pitching about the x-axis, then yawing about the world
// y-axis
func EulerYXZ(pitchDeg, yawDeg, rollDeg float64) r3.Rotation {
	roll := r3.NewRotation(DegToRad(rollDeg), r3.Vec{Z: 1})
	return Compose(EulerYX(pitchDeg, yawDeg), roll)
}

// Compose returns the orientation equivalent to rotating by second,
// then by first
func Compose(first, second r3.Rotation) r3.Rotation {
	return r3.Rotation(quat.Mul(quat.Number(first), quat.Number(second)))
}

// Forward returns the unit forward (+z) vector of an orientation
func Forward(q r3.Rotation) r3.Vec {
	return q.Rotate(r3.Vec{Z: 1})
}

// Up returns the unit up (+y) vector of an orientation
func Up(q r3.Rotation) r3.Vec {
	return q.Rotate(r3.Vec{Y: 1})
}

// Right returns the unit right (+x) vector of an orientation
func Right(q r3.Rotation) r3.Vec {
	return q.Rotate(r3.Vec{X: 1})
}

// PitchYaw returns the roll-free pitch and yaw, in degrees, that point
// the forward vector along dir with world up as the secondary axis.
// The zero vector yields a zero pitch and yaw.
func PitchYaw(dir r3.Vec) (pitchDeg, yawDeg float64) {
	if r3.Norm(dir) == 0 {
		return 0, 0
	}
	f := r3.Unit(dir)
	pitchDeg = RadToDeg(-math.Asin(floatutils.Clip(f.Y, -1.0, 1.0)))
	yawDeg = RadToDeg(math.Atan2(f.X, f.Z))
	return pitchDeg, yawDeg
}

// Components returns the normalized (x, y, z, w) components of an
// orientation quaternion
func Components(q r3.Rotation) (x, y, z, w float64) {
	n := quat.Abs(quat.Number(q))
	if n == 0 {
		return 0, 0, 0, 1
	}
	num := quat.Number(q)
	return num.Imag / n, num.Jmag / n, num.Kmag / n, num.Real / n
}

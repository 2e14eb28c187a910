package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-implicit-raytracer/pkg/core"
)

// Camera is a pinhole camera placed in scene coordinates
type Camera struct {
	Position core.Vec3
	LookAt   core.Vec3
	Up       core.Vec3
	VFov     float64 // vertical field of view in degrees
}

// DefaultCamera looks at the bounds center from the front (-Z side)
func DefaultCamera(b Bounds) Camera {
	center := b.Center()
	return Camera{
		Position: center.Add(core.NewVec3(0, 0, -2*b.SizeMax())),
		LookAt:   center,
		Up:       core.NewVec3(0, 1, 0),
		VFov:     30,
	}
}

// InvViewMatrix is the camera-to-scene transform
func (c Camera) InvViewMatrix() core.Mat4 {
	return core.LookAt(c.Position, c.LookAt, c.Up)
}

// BoxMatrix is the camera-to-box transform for the given bounds
func (c Camera) BoxMatrix(b Bounds) core.Mat4 {
	return core.LookAt(b.SceneToBox(c.Position), b.SceneToBox(c.LookAt), c.Up)
}

// CameraDepth is the image plane distance for a [-1,1] vertical extent
func (c Camera) CameraDepth() float64 {
	return 1 / math.Tan(c.VFov*math.Pi/360)
}

// Validate checks the camera is usable
func (c Camera) Validate() error {
	if c.VFov <= 0 || c.VFov >= 180 {
		return fmt.Errorf("camera field of view %g outside (0,180)", c.VFov)
	}
	if c.Position.Subtract(c.LookAt).LengthSquared() == 0 {
		return fmt.Errorf("camera position equals look-at point %v", c.Position)
	}
	return nil
}

package lights

import (
	"fmt"
	"strings"

	"github.com/df07/go-implicit-raytracer/pkg/core"
)

// Rig names a predefined lighting setup
type Rig string

const (
	RigThreePoint        Rig = "three-point"
	RigThreePointColored Rig = "three-point-colored"
	RigTwoPoint          Rig = "two-point"
)

// NewRig returns the lights of a named rig
func NewRig(r Rig) ([]Light, error) {
	switch Rig(strings.ToLower(string(r))) {
	case RigThreePoint, "":
		return ThreePoint(), nil
	case RigThreePointColored:
		return ThreePointColored(), nil
	case RigTwoPoint:
		return TwoPoint(), nil
	default:
		return nil, fmt.Errorf("unknown lighting rig %q", r)
	}
}

// ThreePoint is a key/fill/rim setup of gray lights
func ThreePoint() []Light {
	key, fill, rim := 0.8, 0.4, 0.25
	list := []Light{
		NewLight(core.NewVec3(10, -10, 100), core.Splat(key), 0, 1),
		NewLight(core.NewVec3(1000, 100, 100), core.Splat(fill), 0, 1),
		NewLight(core.NewVec3(-1000, 900, -200), core.Splat(rim), 0, 1),
	}
	for i := range list {
		list[i].Samples = 4
	}
	return list
}

// ThreePointColored uses red, green and blue lights from similar directions
func ThreePointColored() []Light {
	const intensity = 0.9
	return []Light{
		NewLight(core.NewVec3(10, 0, 20), core.NewVec3(1, 0, 0), 0.1, intensity),
		NewLight(core.NewVec3(10, 10, 20), core.NewVec3(0, 1, 0), 0, intensity),
		NewLight(core.NewVec3(0, 10, 20), core.NewVec3(0, 0, 1), 0, intensity),
	}
}

// TwoPoint is a dim key light with a brighter fill
func TwoPoint() []Light {
	a0, a1 := 0.4, 0.8
	return []Light{
		NewLight(core.NewVec3(20, 0, 20), core.Splat(a0), 0.1, 1),
		NewLight(core.NewVec3(-10, 0, 20), core.Splat(a1), 0, 1),
	}
}

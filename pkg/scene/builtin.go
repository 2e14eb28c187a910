package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-implicit-raytracer/pkg/core"
	"github.com/df07/go-implicit-raytracer/pkg/field"
	"github.com/df07/go-implicit-raytracer/pkg/lights"
	"github.com/df07/go-implicit-raytracer/pkg/material"
)

// ErrUnknownScene is returned for scene ids that are neither built in nor files
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Type        string `json:"type"`               // "builtin" or "file"
	FilePath    string `json:"filePath,omitempty"` // scene file (file type only)
}

type builtin struct {
	info SceneInfo
	make func() *Scene
}

var builtins = []builtin{
	{SceneInfo{ID: "sphere", DisplayName: "Sphere", Description: "Unit sphere lit from the camera"}, NewSphereScene},
	{SceneInfo{ID: "gyroid", DisplayName: "Gyroid Ball", Description: "Gyroid lattice clipped to a sphere with soft shadows"}, NewGyroidScene},
	{SceneInfo{ID: "translucent", DisplayName: "Translucent", Description: "Tinted translucent ball around an opaque torus"}, NewTranslucentScene},
	{SceneInfo{ID: "csg", DisplayName: "CSG", Description: "Constructive solids over a mirror base"}, NewCSGScene},
	{SceneInfo{ID: "colored", DisplayName: "Colored", Description: "Color-mapped and blended materials"}, NewColoredScene},
}

// ListScenes returns the built-in scenes followed by scene files found in dir
func ListScenes(dir string) ([]SceneInfo, error) {
	var out []SceneInfo
	for _, b := range builtins {
		info := b.info
		info.Type = "builtin"
		out = append(out, info)
	}
	if dir == "" {
		return out, nil
	}
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var files []SceneInfo
	for _, pattern := range []string{"*.toml", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		for _, m := range matches {
			id := strings.TrimSuffix(filepath.Base(m), filepath.Ext(m))
			files = append(files, SceneInfo{ID: id, DisplayName: id, Type: "file", FilePath: m})
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return append(out, files...), nil
}

// NewBuiltin creates a built-in scene by id
func NewBuiltin(id string) (*Scene, error) {
	for _, b := range builtins {
		if b.info.ID == id {
			return b.make(), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
}

// RenderHints are per-scene tracing suggestions; zero values leave the
// renderer defaults alone
type RenderHints struct {
	ShadowQuality    int
	MaxRayBounces    int
	MaxIntersections int
}

// NewSphereScene is a radius 0.5 sphere in the [-1,1] cube, lit by a single
// white light behind the camera
func NewSphereScene() *Scene {
	s := New("sphere", NewBounds(core.Splat(-1), core.Splat(1)))
	s.Camera = Camera{
		Position: core.NewVec3(0, 0, -2),
		LookAt:   core.Vec3{},
		Up:       core.NewVec3(0, 1, 0),
		VFov:     45,
	}
	mat := material.DefaultShader()
	mat.AmbientIntensity = 0
	s.AddMaterial(mat)
	s.AddShape("ball", field.NewSphere(core.Vec3{}, 0.5), 0)
	s.Lights = []lights.Light{lights.NewLight(core.NewVec3(0, 0, 5), core.Splat(1), 0, 1)}
	s.Lights[0].CastShadows = false
	return s
}

// NewGyroidScene clips a gyroid to a ball
func NewGyroidScene() *Scene {
	s := New("gyroid", DefaultBounds())
	s.AddMaterial(material.Shader{
		Name:             "orange plastic",
		Diffuse:          core.NewVec3(0.9, 0.45, 0.15),
		Specular:         core.Splat(0.6),
		Shininess:        0.3,
		AmbientIntensity: 0.15,
	})
	g := field.NewGyroid(0.025, 0.002)
	s.AddShape("gyroid ball", field.NewIntersection(g, field.NewSphere(core.Vec3{}, 0.045)), 0)
	s.Hints = RenderHints{ShadowQuality: 8}
	return s
}

// NewTranslucentScene puts an opaque torus inside a tinted glassy ball
func NewTranslucentScene() *Scene {
	s := New("translucent", DefaultBounds())
	glass := s.AddMaterial(material.Shader{
		Name:             "tinted glass",
		Diffuse:          core.NewVec3(0.3, 0.5, 0.9),
		Specular:         core.Splat(1),
		Shininess:        0.8,
		AmbientIntensity: 0.2,
		SurfaceAlpha:     0.1,
		Transmittance:    core.NewVec3(0.05, 0.08, 0.2),
	})
	gold := s.AddMaterial(material.Shader{
		Name:             "gold",
		Diffuse:          core.NewVec3(0.85, 0.65, 0.2),
		Specular:         core.NewVec3(1, 0.9, 0.6),
		Shininess:        0.5,
		AmbientIntensity: 0.1,
	})
	s.AddShape("shell", field.NewDifference(
		field.NewSphere(core.Vec3{}, 0.04),
		field.NewTorus(core.Vec3{}, 0.02, 0.008)), glass)
	s.AddShape("core", field.NewTorus(core.Vec3{}, 0.02, 0.006), gold)
	s.Background = SolidBackground(core.NewVec3(0.1, 0.1, 0.12))
	s.Hints = RenderHints{MaxIntersections: 3, ShadowQuality: 3}
	return s
}

// NewCSGScene carves a rounded box and stands it on a mirror slab
func NewCSGScene() *Scene {
	s := New("csg", DefaultBounds())
	clay := s.AddMaterial(material.Shader{
		Name:             "clay",
		Diffuse:          core.NewVec3(0.75, 0.35, 0.3),
		Specular:         core.Splat(0.3),
		Shininess:        0.1,
		AmbientIntensity: 0.15,
	})
	mirror := s.AddMaterial(material.Shader{
		Name:             "mirror",
		Diffuse:          core.Splat(0.2),
		Specular:         core.Splat(1),
		Albedo:           core.Splat(0.9),
		Shininess:        1,
		AmbientIntensity: 0.05,
	})
	body := field.NewDifference(
		field.NewBox(core.NewVec3(0, 0.005, 0), core.Splat(0.05), 0.004),
		field.NewSphere(core.NewVec3(0, 0.005, -0.02), 0.028))
	s.AddShape("body", field.NewUnion(body, field.NewTorus(core.NewVec3(0, 0.005, 0.0), 0.03, 0.004)), clay)
	s.AddShape("base", field.NewBox(core.NewVec3(0, -0.04, 0), core.NewVec3(0.09, 0.01, 0.09), 0.002), mirror)
	s.Camera.Position = core.NewVec3(0.12, 0.1, -0.16)
	s.Hints = RenderHints{MaxRayBounces: 2, ShadowQuality: 4}
	return s
}

// NewColoredScene shows per-point colors and blending between materials
func NewColoredScene() *Scene {
	s := New("colored", DefaultBounds())
	left := s.AddMaterial(material.Shader{
		Name: "red", Kind: material.Mixed,
		Diffuse: core.NewVec3(0.9, 0.2, 0.2), Specular: core.Splat(0.5), Shininess: 0.3, AmbientIntensity: 0.1,
	})
	right := s.AddMaterial(material.Shader{
		Name: "blue", Kind: material.Mixed,
		Diffuse: core.NewVec3(0.2, 0.3, 0.9), Specular: core.Splat(0.5), Shininess: 0.3, AmbientIntensity: 0.1,
	})
	painted := s.AddMaterial(material.Shader{
		Name: "painted", Kind: material.Color,
		Diffuse: core.Splat(0.8), Specular: core.Splat(0.2), Shininess: 0.1, AmbientIntensity: 0.1,
	})
	s.AddShape("left", field.NewSphere(core.NewVec3(-0.015, 0.015, 0), 0.02), left)
	s.AddShape("right", field.NewSphere(core.NewVec3(0.015, 0.015, 0), 0.02), right)
	pillar := s.AddShape("pillar", field.NewCylinder(core.NewVec3(0, -0.025, 0), 0.03, 0.02), painted)
	pillar.Color = field.AxisGradient{
		Axis: 0, Start: -0.03, End: 0.03,
		From: core.NewVec3(1, 0.8, 0.1), To: core.NewVec3(0.1, 0.8, 0.4),
	}
	s.BlendWidth = 0.006
	s.Lights = lights.ThreePointColored()
	return s
}

package loaders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-implicit-raytracer/pkg/core"
	"github.com/df07/go-implicit-raytracer/pkg/field"
	"github.com/df07/go-implicit-raytracer/pkg/lights"
	"github.com/df07/go-implicit-raytracer/pkg/material"
	"github.com/df07/go-implicit-raytracer/pkg/renderer"
	"github.com/df07/go-implicit-raytracer/pkg/scene"
)

// ErrUnsupportedFormat is returned for file extensions no loader or encoder handles
var ErrUnsupportedFormat = errors.New("unsupported format")

// SceneFile is a scene together with the render settings stored next to it
type SceneFile struct {
	Scene       *scene.Scene
	Config      renderer.Config
	Progressive renderer.ProgressiveConfig
	Width       int
	Height      int
}

type sceneDoc struct {
	Name       string         `toml:"name" yaml:"name"`
	Bounds     boundsDoc      `toml:"bounds" yaml:"bounds"`
	Camera     *cameraDoc     `toml:"camera" yaml:"camera"`
	Background *backgroundDoc `toml:"background" yaml:"background"`
	LightRig   string         `toml:"light_rig" yaml:"light_rig"`
	Lights     []lightDoc     `toml:"lights" yaml:"lights"`
	Materials  []materialDoc  `toml:"materials" yaml:"materials"`
	Shapes     []shapeDoc     `toml:"shapes" yaml:"shapes"`
	BlendWidth float64        `toml:"blend_width" yaml:"blend_width"`
	Render     renderSettings `toml:"render" yaml:"render"`
}

type boundsDoc struct {
	Min       *[3]float64 `toml:"min" yaml:"min"`
	Max       *[3]float64 `toml:"max" yaml:"max"`
	VoxelSize float64     `toml:"voxel_size" yaml:"voxel_size"`
}

type cameraDoc struct {
	Position [3]float64  `toml:"position" yaml:"position"`
	LookAt   [3]float64  `toml:"look_at" yaml:"look_at"`
	Up       *[3]float64 `toml:"up" yaml:"up"`
	FOV      float64     `toml:"fov" yaml:"fov"`
}

type backgroundDoc struct {
	Mode        string  `toml:"mode" yaml:"mode"`
	Color       string  `toml:"color" yaml:"color"`
	Ground      string  `toml:"ground" yaml:"ground"`
	Sky         string  `toml:"sky" yaml:"sky"`
	SmoothStart float64 `toml:"smooth_start" yaml:"smooth_start"`
	SmoothEnd   float64 `toml:"smooth_end" yaml:"smooth_end"`
	Image       string  `toml:"image" yaml:"image"`
	Transparent bool    `toml:"transparent" yaml:"transparent"`
}

type lightDoc struct {
	Position    [3]float64 `toml:"position" yaml:"position"`
	Color       string     `toml:"color" yaml:"color"`
	Intensity   *float64   `toml:"intensity" yaml:"intensity"`
	Ambient     float64    `toml:"ambient" yaml:"ambient"`
	NoShadows   bool       `toml:"no_shadows" yaml:"no_shadows"`
	Samples     int        `toml:"samples" yaml:"samples"`
	Radius      float64    `toml:"radius" yaml:"radius"`
	Fixed       bool       `toml:"fixed" yaml:"fixed"`
	AngularSize float64    `toml:"angular_size" yaml:"angular_size"`
}

type materialDoc struct {
	Name          string      `toml:"name" yaml:"name"`
	Kind          string      `toml:"kind" yaml:"kind"`
	Diffuse       string      `toml:"diffuse" yaml:"diffuse"`
	Emissive      string      `toml:"emissive" yaml:"emissive"`
	Specular      string      `toml:"specular" yaml:"specular"`
	Albedo        string      `toml:"albedo" yaml:"albedo"`
	Shininess     *float64    `toml:"shininess" yaml:"shininess"`
	Ambient       *float64    `toml:"ambient" yaml:"ambient"`
	Roughness     float64     `toml:"roughness" yaml:"roughness"`
	SurfaceAlpha  float64     `toml:"surface_alpha" yaml:"surface_alpha"`
	Transmittance *[3]float64 `toml:"transmittance" yaml:"transmittance"`
}

type shapeDoc struct {
	Name     string    `toml:"name" yaml:"name"`
	Material int       `toml:"material" yaml:"material"`
	Field    nodeDoc   `toml:"field" yaml:"field"`
	Color    *colorDoc `toml:"color" yaml:"color"`
}

type colorDoc struct {
	Solid string  `toml:"solid" yaml:"solid"`
	Axis  string  `toml:"axis" yaml:"axis"`
	Start float64 `toml:"start" yaml:"start"`
	End   float64 `toml:"end" yaml:"end"`
	From  string  `toml:"from" yaml:"from"`
	To    string  `toml:"to" yaml:"to"`
}

// nodeDoc is one node of a field tree. Only the parameters of Type are read.
type nodeDoc struct {
	Type      string     `toml:"type" yaml:"type"`
	Center    [3]float64 `toml:"center" yaml:"center"`
	Radius    float64    `toml:"radius" yaml:"radius"`
	Size      [3]float64 `toml:"size" yaml:"size"`
	Rounding  float64    `toml:"rounding" yaml:"rounding"`
	Major     float64    `toml:"major" yaml:"major"`
	Minor     float64    `toml:"minor" yaml:"minor"`
	Height    float64    `toml:"height" yaml:"height"`
	Normal    [3]float64 `toml:"normal" yaml:"normal"`
	Offset    [3]float64 `toml:"offset" yaml:"offset"`
	Distance  float64    `toml:"distance" yaml:"distance"`
	Period    float64    `toml:"period" yaml:"period"`
	Thickness float64    `toml:"thickness" yaml:"thickness"`
	Level     float64    `toml:"level" yaml:"level"`
	K         float64    `toml:"k" yaml:"k"`
	Factor    float64    `toml:"factor" yaml:"factor"`
	Children  []nodeDoc  `toml:"children" yaml:"children"`
}

type renderSettings struct {
	Width            int     `toml:"width" yaml:"width"`
	Height           int     `toml:"height" yaml:"height"`
	Quality          string  `toml:"quality" yaml:"quality"`
	Draft            bool    `toml:"draft" yaml:"draft"`
	ShadowQuality    *int    `toml:"shadow_quality" yaml:"shadow_quality"`
	MaxRayBounces    *int    `toml:"max_ray_bounces" yaml:"max_ray_bounces"`
	MaxIntersections int     `toml:"max_intersections" yaml:"max_intersections"`
	LayerThickness   float64 `toml:"layer_thickness" yaml:"layer_thickness"`
	BlendReflections bool    `toml:"blend_reflections" yaml:"blend_reflections"`
	Supersample      int     `toml:"supersample" yaml:"supersample"`
	TileSize         int     `toml:"tile_size" yaml:"tile_size"`
}

// LoadSceneFile reads a TOML or YAML scene file
func LoadSceneFile(path string) (*SceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	sf, err := ParseScene(data, filepath.Ext(path), filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sf.Scene.Name == "" {
		sf.Scene.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sf, nil
}

// ParseScene decodes scene text. format is a file extension (".toml",
// ".yaml" or ".yml"); baseDir resolves relative image paths.
func ParseScene(data []byte, format, baseDir string) (*SceneFile, error) {
	var doc sceneDoc
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: scene format %q", ErrUnsupportedFormat, format)
	}
	return doc.build(baseDir)
}

// Open resolves a scene reference: a path to a scene file, or the id of a
// built-in scene
func Open(ref string) (*SceneFile, error) {
	if ext := strings.ToLower(filepath.Ext(ref)); ext == ".toml" || ext == ".yaml" || ext == ".yml" {
		return LoadSceneFile(ref)
	}
	s, err := scene.NewBuiltin(ref)
	if err != nil {
		return nil, err
	}
	cfg := renderer.DefaultConfig()
	cfg.ApplyHints(s.Hints)
	return &SceneFile{
		Scene:       s,
		Config:      cfg,
		Progressive: renderer.DefaultProgressiveConfig(),
		Width:       s.Width,
		Height:      s.Height,
	}, nil
}

func (d *sceneDoc) build(baseDir string) (*SceneFile, error) {
	bounds := scene.DefaultBounds()
	if d.Bounds.Min != nil && d.Bounds.Max != nil {
		bounds = scene.NewBounds(vec(*d.Bounds.Min), vec(*d.Bounds.Max))
	}
	if d.Bounds.VoxelSize > 0 {
		bounds.VoxelSize = d.Bounds.VoxelSize
	}
	s := scene.New(d.Name, bounds)
	s.BlendWidth = d.BlendWidth

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	if d.Camera != nil {
		s.Camera.Position = vec(d.Camera.Position)
		s.Camera.LookAt = vec(d.Camera.LookAt)
		if d.Camera.Up != nil {
			s.Camera.Up = vec(*d.Camera.Up)
		}
		if d.Camera.FOV > 0 {
			s.Camera.VFov = d.Camera.FOV
		}
	}

	if d.Background != nil {
		bg, err := d.Background.build(baseDir)
		collect(err)
		s.Background = bg
	}

	// explicit lights are added on top of the rig, or replace the default rig
	if d.LightRig != "" {
		rig, err := lights.NewRig(lights.Rig(d.LightRig))
		collect(err)
		s.Lights = rig
	} else if len(d.Lights) > 0 {
		s.Lights = nil
	}
	if len(d.Lights) > 0 {
		for i, ld := range d.Lights {
			l, err := ld.build()
			if err != nil {
				collect(fmt.Errorf("light %d: %w", i, err))
				continue
			}
			s.Lights = append(s.Lights, l)
		}
	}

	for i, md := range d.Materials {
		m, err := md.build()
		if err != nil {
			collect(fmt.Errorf("material %d: %w", i, err))
			continue
		}
		s.AddMaterial(m)
	}

	for i, sd := range d.Shapes {
		f, err := sd.Field.build()
		if err != nil {
			collect(fmt.Errorf("shape %d (%s): %w", i, sd.Name, err))
			continue
		}
		shape := s.AddShape(sd.Name, f, sd.Material)
		if sd.Color != nil {
			src, err := sd.Color.build()
			collect(err)
			shape.Color = src
		}
	}

	cfg, err := d.Render.config()
	collect(err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	sf := &SceneFile{
		Scene:       s,
		Config:      cfg,
		Progressive: renderer.DefaultProgressiveConfig(),
		Width:       s.Width,
		Height:      s.Height,
	}
	if d.Render.Width > 0 {
		sf.Width = d.Render.Width
	}
	if d.Render.Height > 0 {
		sf.Height = d.Render.Height
	}
	if d.Render.Supersample > 0 {
		sf.Progressive.Supersample = d.Render.Supersample
	}
	if d.Render.TileSize > 0 {
		sf.Progressive.TileSize = d.Render.TileSize
	}
	return sf, nil
}

func (r renderSettings) config() (renderer.Config, error) {
	q, err := renderer.ParseQuality(r.Quality)
	if err != nil {
		return renderer.Config{}, err
	}
	cfg := renderer.DefaultConfig()
	if r.Quality != "" {
		cfg.ApplyQuality(q)
	}
	if r.Draft {
		cfg.DraftMode = true
	}
	if r.ShadowQuality != nil {
		cfg.ShadowQuality = *r.ShadowQuality
	}
	if r.MaxRayBounces != nil {
		cfg.MaxRayBounces = *r.MaxRayBounces
	}
	if r.MaxIntersections > 0 {
		cfg.MaxIntersections = r.MaxIntersections
	}
	cfg.LayerThickness = r.LayerThickness
	cfg.BlendReflections = r.BlendReflections
	return cfg, nil
}

func (b *backgroundDoc) build(baseDir string) (scene.Background, error) {
	bg := scene.DefaultBackground()
	mode, err := scene.ParseBackgroundMode(b.Mode)
	if err != nil {
		return bg, err
	}
	bg.Mode = mode
	bg.Transparent = b.Transparent

	var errs []error
	setColor := func(dst *core.Vec3, s string) {
		if s == "" {
			return
		}
		c, err := ParseColor(s)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*dst = c
	}
	setColor(&bg.Color, b.Color)
	setColor(&bg.GroundColor, b.Ground)
	setColor(&bg.SkyColor, b.Sky)
	if b.SmoothStart != 0 || b.SmoothEnd != 0 {
		bg.SmoothStart, bg.SmoothEnd = b.SmoothStart, b.SmoothEnd
	}

	if b.Image != "" {
		path := b.Image
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		img, err := LoadImage(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("background image: %w", err))
		} else {
			bg.Image = img
		}
	}
	return bg, errors.Join(errs...)
}

func (l *lightDoc) build() (lights.Light, error) {
	c := core.Splat(1)
	if l.Color != "" {
		var err error
		if c, err = ParseColor(l.Color); err != nil {
			return lights.Light{}, err
		}
	}
	intensity := 1.0
	if l.Intensity != nil {
		intensity = *l.Intensity
	}
	light := lights.NewLight(vec(l.Position), c, l.Ambient, intensity)
	light.CastShadows = !l.NoShadows
	light.Samples = max(1, l.Samples)
	light.Radius = l.Radius
	light.FixedPosition = l.Fixed
	if l.AngularSize > 0 {
		light.AngularSize = l.AngularSize
	}
	return light, light.Validate()
}

func (m *materialDoc) build() (material.Shader, error) {
	s := material.DefaultShader()
	if m.Name != "" {
		s.Name = m.Name
	}

	var errs []error
	kind, err := material.ParseKind(m.Kind)
	if err != nil {
		errs = append(errs, err)
	}
	s.Kind = kind

	for _, c := range []struct {
		dst *core.Vec3
		src string
	}{
		{&s.Diffuse, m.Diffuse},
		{&s.Emissive, m.Emissive},
		{&s.Specular, m.Specular},
		{&s.Albedo, m.Albedo},
	} {
		if c.src == "" {
			continue
		}
		v, err := ParseColor(c.src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		*c.dst = v
	}

	if m.Shininess != nil {
		s.Shininess = *m.Shininess
	}
	if m.Ambient != nil {
		s.AmbientIntensity = *m.Ambient
	}
	s.Roughness = m.Roughness
	s.SurfaceAlpha = m.SurfaceAlpha
	if m.Transmittance != nil {
		s.Transmittance = vec(*m.Transmittance)
	}
	if len(errs) == 0 {
		errs = append(errs, s.Validate())
	}
	return s, errors.Join(errs...)
}

func (c *colorDoc) build() (field.ColorSource, error) {
	if c.Solid != "" {
		v, err := ParseColor(c.Solid)
		return field.SolidColor{Color: v}, err
	}

	axis := strings.Index("xyz", strings.ToLower(c.Axis))
	if axis < 0 || len(c.Axis) != 1 {
		return nil, fmt.Errorf("color gradient axis %q must be x, y or z", c.Axis)
	}
	from, err := ParseColor(c.From)
	if err != nil {
		return nil, err
	}
	to, err := ParseColor(c.To)
	if err != nil {
		return nil, err
	}
	return field.AxisGradient{Axis: axis, Start: c.Start, End: c.End, From: from, To: to}, nil
}

// build turns a field tree node into a field
func (n *nodeDoc) build() (field.Field, error) {
	children := func(min int) ([]field.Field, error) {
		if len(n.Children) < min {
			return nil, fmt.Errorf("%s needs at least %d children, got %d", n.Type, min, len(n.Children))
		}
		out := make([]field.Field, 0, len(n.Children))
		for i := range n.Children {
			f, err := n.Children[i].build()
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
		return out, nil
	}

	switch strings.ToLower(n.Type) {
	case "sphere":
		return field.NewSphere(vec(n.Center), n.Radius), nil
	case "box":
		return field.NewBox(vec(n.Center), vec(n.Size), n.Rounding), nil
	case "torus":
		return field.NewTorus(vec(n.Center), n.Major, n.Minor), nil
	case "cylinder":
		return field.NewCylinder(vec(n.Center), n.Radius, n.Height), nil
	case "plane":
		return field.NewPlane(vec(n.Normal), n.Distance), nil
	case "gyroid":
		g := field.NewGyroid(n.Period, n.Thickness)
		g.Level = n.Level
		return g, nil
	case "union":
		c, err := children(1)
		if err != nil {
			return nil, err
		}
		return field.NewUnion(c...), nil
	case "intersection":
		c, err := children(1)
		if err != nil {
			return nil, err
		}
		return field.NewIntersection(c...), nil
	case "difference":
		c, err := children(2)
		if err != nil {
			return nil, err
		}
		return field.NewDifference(c[0], field.NewUnion(c[1:]...)), nil
	case "smooth_union":
		c, err := children(2)
		if err != nil {
			return nil, err
		}
		f := c[0]
		for _, next := range c[1:] {
			f = field.NewSmoothUnion(f, next, n.K)
		}
		return f, nil
	case "translate":
		c, err := children(1)
		if err != nil {
			return nil, err
		}
		return field.NewTranslate(field.NewUnion(c...), vec(n.Offset)), nil
	case "scale":
		c, err := children(1)
		if err != nil {
			return nil, err
		}
		if n.Factor <= 0 {
			return nil, fmt.Errorf("scale factor %g must be positive", n.Factor)
		}
		return field.NewScale(field.NewUnion(c...), n.Factor), nil
	case "shell":
		c, err := children(1)
		if err != nil {
			return nil, err
		}
		return field.NewShell(field.NewUnion(c...), n.Thickness), nil
	case "":
		return nil, errors.New("field node without type")
	default:
		return nil, fmt.Errorf("unknown field type %q", n.Type)
	}
}

// ParseColor parses a hex color such as "#ff8800" or "#f80"
func ParseColor(s string) (core.Vec3, error) {
	c, err := colorful.Hex(normalizeHex(s))
	if err != nil {
		return core.Vec3{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return core.NewVec3(c.R, c.G, c.B), nil
}

func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	return strings.ToLower(s)
}

func vec(a [3]float64) core.Vec3 {
	return core.NewVec3(a[0], a[1], a[2])
}

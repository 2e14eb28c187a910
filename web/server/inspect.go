package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-implicit-raytracer/pkg/core"
	"github.com/df07/go-implicit-raytracer/pkg/material"
	"github.com/df07/go-implicit-raytracer/pkg/renderer"
)

// PickResponse represents the JSON response for a surface pick
type PickResponse struct {
	Hit          bool           `json:"hit"`
	Position     [3]float64     `json:"position,omitempty"`
	Normal       [3]float64     `json:"normal,omitempty"`
	Distance     float64        `json:"distance,omitempty"`
	Shape        string         `json:"shape,omitempty"`
	MaterialType string         `json:"materialType,omitempty"`
	Material     map[string]any `json:"material,omitempty"`
}

// materialInfo describes a shader for the inspector panel
func materialInfo(m material.Shader) (string, map[string]any) {
	props := map[string]any{
		"name":      m.Name,
		"diffuse":   hexColor(m.Diffuse),
		"specular":  hexColor(m.Specular),
		"shininess": m.Shininess,
		"ambient":   m.AmbientIntensity,
	}
	if m.Emissive != (core.Vec3{}) {
		props["emissive"] = hexColor(m.Emissive)
	}
	if m.Albedo != (core.Vec3{}) {
		props["albedo"] = vec(m.Albedo)
	}
	if m.Transmittance != (core.Vec3{}) {
		props["transmittance"] = vec(m.Transmittance)
		props["surfaceAlpha"] = m.SurfaceAlpha
		return m.Kind.String() + "/translucent", props
	}
	return m.Kind.String(), props
}

func hexColor(c core.Vec3) string {
	return fmt.Sprintf("#%02x%02x%02x",
		int(core.Clamp01(c.X)*255), int(core.Clamp01(c.Y)*255), int(core.Clamp01(c.Z)*255))
}

func vec(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// handlePick casts a primary ray through a pixel, or through image
// coordinates u and v, and reports the first surface
func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	_, sf, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	q := r.URL.Query()
	var u, v float64
	if q.Has("x") || q.Has("y") {
		x, errX := strconv.Atoi(q.Get("x"))
		y, errY := strconv.Atoi(q.Get("y"))
		if errX != nil || errY != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid pixel coordinates"})
			return
		}
		if x < 0 || x >= sf.Width || y < 0 || y >= sf.Height {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
			return
		}
		u, v = renderer.PixelCenter(x, y, sf.Width, sf.Height)
	} else {
		if u, err = parseFloatParam(q, "u", 0, -10, 10); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if v, err = parseFloatParam(q, "v", 0, -1, 1); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	tracer, err := renderer.NewTracer(sf.Scene, sf.Config)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	res, ok := tracer.Pick(u, v)
	if !ok {
		writeJSON(w, http.StatusOK, PickResponse{Hit: false})
		return
	}

	resp := PickResponse{
		Hit:      true,
		Position: vec(res.Position),
		Normal:   vec(res.Normal),
		Distance: res.Distance,
	}
	if res.Shape >= 0 && res.Shape < len(sf.Scene.Shapes) {
		resp.Shape = sf.Scene.Shapes[res.Shape].Name
	}
	if res.Material < len(sf.Scene.Materials) {
		resp.MaterialType, resp.Material = materialInfo(sf.Scene.Materials[res.Material])
	}
	writeJSON(w, http.StatusOK, resp)
}

// Package model loads skinned SMD models, drives their animation timeline
// and feeds skinned geometry to a renderer.
package model

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-smd/pkg/formats"
)

// Vertex is one emitted vertex with position, normal and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// SurfaceGroup is the vertex range drawn with one material.
type SurfaceGroup struct {
	Material formats.MaterialID
	Name     string
	Start    int32
	Count    int32
}

// Mesh is the skinned geometry of one pose, three vertices per triangle.
type Mesh struct {
	Vertices []Vertex
	Groups   []SurfaceGroup
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of the model.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Radius returns half the length of the box diagonal.
func (b Bounds) Radius() float32 {
	dx := b.Max[0] - b.Min[0]
	dy := b.Max[1] - b.Min[1]
	dz := b.Max[2] - b.Min[2]
	return sqrtf(dx*dx+dy*dy+dz*dz) / 2
}

// NodeDebugInfo describes one bone of the current pose.
type NodeDebugInfo struct {
	Name     string
	Parent   string
	Depth    int
	LocalPos [3]float32
	LocalRot [4]float32 // x, y, z, w
	WorldPos [3]float32
	WorldRot [4]float32
}

// Options contains options for loading a model.
type Options struct {
	// Parse is passed to the model and animation parsers.
	Parse formats.SMDOptions
	// SwapYZ emits (x, z, y): source data is Z-up, the renderer is Y-up.
	SwapYZ bool
	// Logger receives load warnings. Defaults to the "model" logger.
	Logger *zap.Logger
}

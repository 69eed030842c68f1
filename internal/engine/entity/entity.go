// Package entity pairs a shared mesh and material with an owned transform.
package entity

import (
	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/material"
	"github.com/Faultbox/pbrview/internal/engine/transform"
)

// Entity is one drawable object.
type Entity struct {
	name      string
	mesh      gpu.Mesh
	material  *material.Material
	transform *transform.Transform
}

// New creates an entity with an identity transform.
func New(name string, mesh gpu.Mesh, mat *material.Material) *Entity {
	return &Entity{
		name:      name,
		mesh:      mesh,
		material:  mat,
		transform: transform.New(),
	}
}

func (e *Entity) Name() string                    { return e.name }
func (e *Entity) Mesh() gpu.Mesh                  { return e.mesh }
func (e *Entity) Material() *material.Material    { return e.material }
func (e *Entity) Transform() *transform.Transform { return e.transform }

// Distinct returns the materials used by entities in first-use order.
func Distinct(entities []*Entity) []*material.Material {
	seen := make(map[*material.Material]struct{}, len(entities))
	var out []*material.Material
	for _, e := range entities {
		m := e.material
		if m == nil {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

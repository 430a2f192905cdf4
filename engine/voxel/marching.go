package voxel

import "github.com/go-gl/mathgl/mgl32"

// CubeConfiguration has bit i set when corner i is below Threshold.
type CubeConfiguration uint8

// IsHomogeneous reports whether the cell lies entirely on one side of the
// surface.
func (c CubeConfiguration) IsHomogeneous() bool {
	return c == 0 || c == 255
}

// Classify samples the eight corners of the cell at pos.
func Classify(src DensitySource, pos Int3) (CubeConfiguration, [8]float32) {
	var (
		config    CubeConfiguration
		densities [8]float32
	)
	for i, o := range CornerOffsets {
		d := src.DensityAt(pos.X+o.X, pos.Y+o.Y, pos.Z+o.Z)
		densities[i] = d
		if d < Threshold {
			config |= 1 << i
		}
	}
	return config, densities
}

// PolygoniseCell runs a smooth cell through classification and
// triangulation and returns the number of triangles written.
func PolygoniseCell(src DensitySource, pos Int3, alloc Allocator) int {
	config, densities := Classify(src, pos)
	if config.IsHomogeneous() {
		return 0
	}
	return Triangulate(config, pos, &densities, alloc)
}

// Triangulate emits the triangles of a non-homogeneous configuration.
// Every triangle gets three fresh vertices with a flat normal.
func Triangulate(config CubeConfiguration, pos Int3, densities *[8]float32, alloc Allocator) int {
	if config.IsHomogeneous() {
		return 0
	}
	var (
		crossings [12]mgl32.Vec3
		origin    = pos.ToVec3()
		edges     = EdgeTable[config]
	)
	for e := 0; e < 12; e++ {
		if edges&(1<<e) == 0 {
			continue
		}
		a, b := EdgeCorners[e][0], EdgeCorners[e][1]
		crossings[e] = interpolate(
			origin.Add(CornerOffsets[a].ToVec3()),
			origin.Add(CornerOffsets[b].ToVec3()),
			densities[a], densities[b],
		)
	}

	out := alloc.Target()
	row := &TriTable[config]
	emitted := 0
	for t := 0; t < 15 && row[t] != -1; t += 3 {
		res, ok := alloc.Reserve(Smooth, 3, 3)
		if !ok {
			continue
		}
		corners := [3]mgl32.Vec3{crossings[row[t]], crossings[row[t+1]], crossings[row[t+2]]}
		normal := faceNormal(corners[0], corners[1], corners[2])
		for k := uint32(0); k < 3; k++ {
			v := res.VertexBase + k
			out.Positions[v] = corners[k]
			out.Normals[v] = normal
			out.UVs[v] = triangleUVs[k]
			out.Indices[res.IndexBase+k] = v
		}
		emitted++
	}
	return emitted
}

// interpolate finds the iso crossing on the edge p1-p2.
func interpolate(p1, p2 mgl32.Vec3, d1, d2 float32) mgl32.Vec3 {
	if d2 == d1 {
		return p1.Add(p2).Mul(0.5)
	}
	mu := (Threshold - d1) / (d2 - d1)
	return p1.Add(p2.Sub(p1).Mul(mu))
}

func faceNormal(v0, v1, v2 mgl32.Vec3) mgl32.Vec3 {
	n := v1.Sub(v0).Cross(v2.Sub(v0))
	if n.Len() == 0 {
		return mgl32.Vec3{}
	}
	return n.Normalize()
}

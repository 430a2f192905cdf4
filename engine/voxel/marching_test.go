package voxel

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestHomogeneousCellsEmitNothing(t *testing.T) {
	tests := []struct {
		name    string
		density float32
		config  CubeConfiguration
	}{
		{"solid", 1, 0},
		{"empty", 0, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d [8]float32
			for i := range d {
				d[i] = tt.density
			}
			config, _ := Classify(cornerSource(d), Int3{})
			if config != tt.config {
				t.Fatalf("config = %d, want %d", config, tt.config)
			}
			alloc := newRecordingAllocator(1)
			if n := PolygoniseCell(cornerSource(d), Int3{}, alloc); n != 0 {
				t.Errorf("emitted %d triangles", n)
			}
			if len(alloc.reservations) != 0 {
				t.Errorf("made %d reservations", len(alloc.reservations))
			}
		})
	}
}

func TestEveryConfigurationStaysInsideItsReservations(t *testing.T) {
	for config := 1; config < 255; config++ {
		cfg := CubeConfiguration(config)
		src := cornerSource(densitiesForConfig(cfg))
		if got, _ := Classify(src, Int3{}); got != cfg {
			t.Fatalf("classified %d as %d", config, got)
		}
		alloc := newRecordingAllocator(1)
		n := PolygoniseCell(src, Int3{}, alloc)
		if n != TriangleCount(cfg) {
			t.Errorf("config %d: %d triangles, want %d", config, n, TriangleCount(cfg))
		}
		if len(alloc.reservations) != n {
			t.Errorf("config %d: %d reservations for %d triangles", config, len(alloc.reservations), n)
		}
		out := alloc.out
		for _, r := range alloc.reservations {
			if r.kind != Smooth || r.vertices != 3 || r.indices != 3 {
				t.Fatalf("config %d: unexpected reservation %+v", config, r)
			}
			for k := uint32(0); k < r.indices; k++ {
				index := out.Indices[r.res.IndexBase+k]
				if index < r.res.VertexBase || index >= r.res.VertexBase+r.vertices {
					t.Errorf("config %d: index %d outside [%d,%d)", config, index, r.res.VertexBase, r.res.VertexBase+r.vertices)
				}
			}
			for k := uint32(0); k < r.vertices; k++ {
				v := r.res.VertexBase + k
				for axis := 0; axis < 3; axis++ {
					if p := out.Positions[v][axis]; p < 0 || p > 1 {
						t.Errorf("config %d: vertex %v outside the cell", config, out.Positions[v])
					}
				}
				if l := out.Normals[v].Len(); l < 0.999 || l > 1.001 {
					t.Errorf("config %d: normal %v is not unit length", config, out.Normals[v])
				}
				if out.UVs[v] != triangleUVs[k] {
					t.Errorf("config %d: uv %v, want %v", config, out.UVs[v], triangleUVs[k])
				}
			}
		}
		vertices, indices := alloc.counts()
		if vertices%3 != 0 || indices%3 != 0 {
			t.Errorf("config %d: counts %d/%d not multiples of 3", config, vertices, indices)
		}
	}
}

func TestHorizontalSplit(t *testing.T) {
	densities := [8]float32{0, 0, 0, 0, 1, 1, 1, 1}
	src := cornerSource(densities)
	config, sampled := Classify(src, Int3{})
	if config != 15 {
		t.Fatalf("config = %d, want 15", config)
	}
	if sampled != densities {
		t.Fatalf("sampled %v, want %v", sampled, densities)
	}
	alloc := newRecordingAllocator(1)
	if n := Triangulate(config, Int3{}, &sampled, alloc); n != 2 {
		t.Fatalf("got %d triangles, want 2", n)
	}
	vertices, indices := alloc.counts()
	if vertices != 6 || indices != 6 {
		t.Fatalf("counts %d/%d, want 6/6", vertices, indices)
	}
	down := mgl32.Vec3{0, 0, -1}
	for i := uint32(0); i < vertices; i++ {
		if z := alloc.out.Positions[i].Z(); z != 0.5 {
			t.Errorf("vertex %v not at mu = 0.5", alloc.out.Positions[i])
		}
		if !vecNear(alloc.out.Normals[i], down) {
			t.Errorf("normal %v, want %v", alloc.out.Normals[i], down)
		}
	}
}

func TestInterpolate(t *testing.T) {
	p1, p2 := mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}
	tests := []struct {
		d1, d2 float32
		want   float32
	}{
		{0, 1, 0.5},
		{1, 0, 0.5},
		{0.2, 0.8, 0.5},
		{0.25, 1, 1.0 / 3},
		{0, 0.5, 1},
	}
	for _, tt := range tests {
		got := interpolate(p1, p2, tt.d1, tt.d2)
		if !vecNear(got, mgl32.Vec3{tt.want, 0, 0}) {
			t.Errorf("interpolate(%v, %v) = %v, want x = %v", tt.d1, tt.d2, got, tt.want)
		}
	}
}

func TestCellPositionOffsetsVertices(t *testing.T) {
	c := NewChunk(4, 0, 0, 0)
	for x := int32(0); x < 4; x++ {
		for y := int32(0); y < 4; y++ {
			c.Set(x, y, 0, NewSmooth(1))
		}
	}
	alloc := newRecordingAllocator(1)
	if n := PolygoniseCell(c, Int3{2, 1, 0}, alloc); n != 2 {
		t.Fatalf("got %d triangles, want 2", n)
	}
	for i := uint32(0); i < 6; i++ {
		p := alloc.out.Positions[i]
		if p.X() < 2 || p.X() > 3 || p.Y() < 1 || p.Y() > 2 || p.Z() != 0.5 {
			t.Errorf("vertex %v outside cell (2,1,0)", p)
		}
		if !vecNear(alloc.out.Normals[i], mgl32.Vec3{0, 0, 1}) {
			t.Errorf("normal %v should face +z", alloc.out.Normals[i])
		}
	}
}

func TestClassifyTreatsOutsideAsEmpty(t *testing.T) {
	c := NewChunk(1, 0, 0, 0)
	c.Set(0, 0, 0, NewSmooth(1))
	config, densities := Classify(c, Int3{})
	if config != 0xfe {
		t.Errorf("config = %#x, want 0xfe", config)
	}
	for i, d := range densities[1:] {
		if d != 0 {
			t.Errorf("corner %d density %v, want 0", i+1, d)
		}
	}
}

func TestFaceNormalDegenerate(t *testing.T) {
	v := mgl32.Vec3{1, 1, 1}
	if n := faceNormal(v, v, v); n != (mgl32.Vec3{}) {
		t.Errorf("degenerate normal = %v", n)
	}
}

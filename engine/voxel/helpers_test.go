package voxel

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// recordingAllocator hands out slots sequentially and remembers every claim.
type recordingAllocator struct {
	out          *MeshBuffer
	cursor       Cursor
	reservations []recordedReservation
}

type recordedReservation struct {
	kind     Kind
	res      Reservation
	vertices uint32
	indices  uint32
}

func newRecordingAllocator(cells int) *recordingAllocator {
	return &recordingAllocator{out: NewMeshBufferForCells(cells)}
}

func (r *recordingAllocator) Reserve(kind Kind, vertices, indices uint32) (Reservation, bool) {
	vertexBase, indexBase := r.cursor.Reserve(vertices, indices)
	res := Reservation{VertexBase: vertexBase, IndexBase: indexBase}
	r.reservations = append(r.reservations, recordedReservation{kind: kind, res: res, vertices: vertices, indices: indices})
	return res, true
}

func (r *recordingAllocator) Target() *MeshBuffer {
	return r.out
}

func (r *recordingAllocator) counts() (uint32, uint32) {
	return r.cursor.Counts()
}

// cornerSource serves a single cell at the origin with the given corner
// densities. Everything else reads as empty.
func cornerSource(densities [8]float32) DensitySource {
	return DensityFunc(func(x, y, z int32) float32 {
		for i, o := range CornerOffsets {
			if o.X == x && o.Y == y && o.Z == z {
				return densities[i]
			}
		}
		return 0
	})
}

func densitiesForConfig(config CubeConfiguration) [8]float32 {
	var d [8]float32
	for i := range d {
		if config&(1<<i) == 0 {
			d[i] = 1
		}
	}
	return d
}

// sphereChunk is a smooth ball with a block floor, exercising both paths.
func sphereChunk(size int32) *Chunk {
	c := NewChunk(size, 0, 0, 0)
	center := float64(size) / 2
	radius := float64(size) / 3
	for z := int32(0); z < size; z++ {
		for y := int32(0); y < size; y++ {
			for x := int32(0); x < size; x++ {
				dx, dy, dz := float64(x)-center, float64(y)-center, float64(z)-center
				d := radius - math.Sqrt(dx*dx+dy*dy+dz*dz)
				density := float32(math.Max(0, math.Min(1, d/2+0.5)))
				v := NewSmooth(density)
				if y < 2 && (x+z)%3 != 0 {
					v = NewBlock(1)
				}
				c.Set(x, y, z, v)
			}
		}
	}
	return c
}

func sortedTriangleKeys(m *MeshBuffer) []string {
	triangles := m.Triangles()
	keys := make([]string, len(triangles))
	for i, t := range triangles {
		keys[i] = fmt.Sprintf("%v", t)
	}
	sort.Strings(keys)
	return keys
}

func vecNear(a, b mgl32.Vec3) bool {
	return a.ApproxEqualThreshold(b, 1e-5)
}

package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/densitymesh/engine/util"
	"github.com/pkg/errors"
)

// MeshBuffer holds four parallel arrays and the number of slots in use.
// Buffers filled by a pass are pre-allocated to capacity; anything past
// VertexCount / IndexCount is garbage.
type MeshBuffer struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32

	vertexCount uint32
	indexCount  uint32
}

func NewMeshBuffer(vertexCapacity, indexCapacity int) *MeshBuffer {
	return &MeshBuffer{
		Positions: make([]mgl32.Vec3, vertexCapacity),
		Normals:   make([]mgl32.Vec3, vertexCapacity),
		UVs:       make([]mgl32.Vec2, vertexCapacity),
		Indices:   make([]uint32, indexCapacity),
	}
}

// NewMeshBufferFrom wraps fully used slices, e.g. geometry read back from
// the GPU. All vertex slices must have the same length.
func NewMeshBufferFrom(positions, normals []mgl32.Vec3, uvs []mgl32.Vec2, indices []uint32) (*MeshBuffer, error) {
	if len(normals) != len(positions) || len(uvs) != len(positions) {
		return nil, errors.Errorf("vertex arrays differ in length: %d positions, %d normals, %d uvs", len(positions), len(normals), len(uvs))
	}
	m := &MeshBuffer{
		Positions:   positions,
		Normals:     normals,
		UVs:         uvs,
		Indices:     indices,
		vertexCount: uint32(len(positions)),
		indexCount:  uint32(len(indices)),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewMeshBufferForCells sizes a buffer for the worst case of the given
// number of cells.
func NewMeshBufferForCells(cells int) *MeshBuffer {
	return NewMeshBuffer(cells*MaxVerticesPerCell, cells*MaxIndicesPerCell)
}

func NewMeshBufferForChunk(size int32) *MeshBuffer {
	return NewMeshBufferForCells(int(size) * int(size) * int(size))
}

func (m *MeshBuffer) VertexCapacity() int {
	return len(m.Positions)
}

func (m *MeshBuffer) IndexCapacity() int {
	return len(m.Indices)
}

func (m *MeshBuffer) VertexCount() uint32 {
	return m.vertexCount
}

func (m *MeshBuffer) IndexCount() uint32 {
	return m.indexCount
}

func (m *MeshBuffer) TriangleCount() int {
	return int(m.indexCount / 3)
}

func (m *MeshBuffer) IsEmpty() bool {
	return m.indexCount == 0
}

func (m *MeshBuffer) setCounts(vertices, indices uint32) {
	m.vertexCount = vertices
	m.indexCount = indices
}

// Reset drops the counts. Capacity and stale contents are kept.
func (m *MeshBuffer) Reset() {
	m.vertexCount = 0
	m.indexCount = 0
}

// Trimmed returns a view limited to the used slots.
func (m *MeshBuffer) Trimmed() *MeshBuffer {
	return &MeshBuffer{
		Positions:   m.Positions[:m.vertexCount:m.vertexCount],
		Normals:     m.Normals[:m.vertexCount:m.vertexCount],
		UVs:         m.UVs[:m.vertexCount:m.vertexCount],
		Indices:     m.Indices[:m.indexCount:m.indexCount],
		vertexCount: m.vertexCount,
		indexCount:  m.indexCount,
	}
}

// MergeBuffer appends other, moved by offset, growing m as needed.
func (m *MeshBuffer) MergeBuffer(other *MeshBuffer, offset mgl32.Vec3) {
	if other == nil || other.IsEmpty() {
		return
	}
	base := m.vertexCount
	m.Positions = m.Positions[:m.vertexCount]
	m.Normals = m.Normals[:m.vertexCount]
	m.UVs = m.UVs[:m.vertexCount]
	m.Indices = m.Indices[:m.indexCount]
	for i := uint32(0); i < other.vertexCount; i++ {
		m.Positions = append(m.Positions, other.Positions[i].Add(offset))
	}
	m.Normals = append(m.Normals, other.Normals[:other.vertexCount]...)
	m.UVs = append(m.UVs, other.UVs[:other.vertexCount]...)
	for _, index := range other.Indices[:other.indexCount] {
		m.Indices = append(m.Indices, index+base)
	}
	m.vertexCount += other.vertexCount
	m.indexCount += other.indexCount
}

type Triangle [3]mgl32.Vec3

// Triangles resolves the index list into positions.
func (m *MeshBuffer) Triangles() []Triangle {
	triangles := make([]Triangle, 0, m.TriangleCount())
	for i := uint32(0); i+2 < m.indexCount; i += 3 {
		triangles = append(triangles, Triangle{
			m.Positions[m.Indices[i]],
			m.Positions[m.Indices[i+1]],
			m.Positions[m.Indices[i+2]],
		})
	}
	return triangles
}

// Validate checks that every index references a written vertex.
func (m *MeshBuffer) Validate() error {
	if m.indexCount%3 != 0 {
		return errors.Errorf("index count %d is not a multiple of 3", m.indexCount)
	}
	if int(m.vertexCount) > len(m.Positions) || int(m.indexCount) > len(m.Indices) {
		return errors.Errorf("counts %d/%d exceed capacity %d/%d", m.vertexCount, m.indexCount, len(m.Positions), len(m.Indices))
	}
	for i, index := range m.Indices[:m.indexCount] {
		if index >= m.vertexCount {
			return errors.Errorf("index %d at slot %d out of range [0,%d)", index, i, m.vertexCount)
		}
	}
	return nil
}

// ToMeshData exposes the used slots for export.
func (m *MeshBuffer) ToMeshData(name string) util.MeshData {
	t := m.Trimmed()
	return util.MeshData{
		Name:      name,
		Positions: t.Positions,
		Normals:   t.Normals,
		UVs:       t.UVs,
		Indices:   t.Indices,
	}
}

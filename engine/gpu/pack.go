package gpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/densitymesh/engine/voxel"
	"github.com/pkg/errors"
)

// Upload layouts are little endian, tightly packed 32 bit words.

func PackEdgeTable() []byte {
	buf := make([]byte, 0, len(voxel.EdgeTable)*4)
	for _, mask := range voxel.EdgeTable {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(mask))
	}
	return buf
}

func PackTriTable() []byte {
	buf := make([]byte, 0, len(voxel.TriTable)*16*4)
	for _, row := range voxel.TriTable {
		for _, edge := range row {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(edge)))
		}
	}
	return buf
}

// PackVoxels writes each cell as {kind u32, density f32}.
func PackVoxels(c *voxel.Chunk) []byte {
	cells := c.Voxels()
	buf := make([]byte, 0, len(cells)*8)
	for _, v := range cells {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(v.Kind))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.Density))
	}
	return buf
}

// OutputSizes are the byte sizes of the kernel's output buffers for the
// worst case of a chunk.
type OutputSizes struct {
	Positions int
	Normals   int
	Indices   int
	UVs       int
	Counters  int
}

func OutputSizesFor(chunkSize int32) OutputSizes {
	cells := int(chunkSize * chunkSize * chunkSize)
	vertices := cells * voxel.MaxVerticesPerCell
	return OutputSizes{
		Positions: vertices * 16,
		Normals:   vertices * 16,
		Indices:   cells * voxel.MaxIndicesPerCell * 4,
		UVs:       vertices * 8,
		Counters:  8,
	}
}

// UnpackCounters reads back the two counters written by the kernel.
func UnpackCounters(buf []byte) (vertices, indices uint32) {
	return binary.LittleEndian.Uint32(buf[0:]), binary.LittleEndian.Uint32(buf[4:])
}

// UnpackMesh turns the mapped output buffers of one dispatch into a mesh.
func UnpackMesh(counters, positions, normals, uvs, indices []byte) (*voxel.MeshBuffer, error) {
	vertexCount, indexCount := UnpackCounters(counters)
	if int(vertexCount)*16 > len(positions) || int(vertexCount)*16 > len(normals) || int(vertexCount)*8 > len(uvs) || int(indexCount)*4 > len(indices) {
		return nil, errors.Wrapf(voxel.ErrCapacityExceeded, "kernel wrote %d vertices and %d indices", vertexCount, indexCount)
	}
	pos := make([]mgl32.Vec3, vertexCount)
	nrm := make([]mgl32.Vec3, vertexCount)
	uv := make([]mgl32.Vec2, vertexCount)
	for i := range pos {
		pos[i] = readVec3(positions[i*16:])
		nrm[i] = readVec3(normals[i*16:])
		uv[i] = mgl32.Vec2{readFloat(uvs[i*8:]), readFloat(uvs[i*8+4:])}
	}
	idx := make([]uint32, indexCount)
	for i := range idx {
		idx[i] = binary.LittleEndian.Uint32(indices[i*4:])
	}
	return voxel.NewMeshBufferFrom(pos, nrm, uv, idx)
}

func readFloat(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// readVec3 reads the xyz of a vec4.
func readVec3(b []byte) mgl32.Vec3 {
	return mgl32.Vec3{readFloat(b), readFloat(b[4:]), readFloat(b[8:])}
}

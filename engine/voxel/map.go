package voxel

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/densitymesh/engine/util"
	"github.com/pkg/errors"
)

var mapMagic = [4]byte{'D', 'M', 'A', 'P'}

const mapVersion uint8 = 1

// Map is a box of width x height x depth chunks, indexed x + y*w + z*w*h.
type Map struct {
	chunks    []*Chunk
	width     int32
	height    int32
	depth     int32
	chunkSize int32
}

func NewMap(width, height, depth, chunkSize int32) *Map {
	m := &Map{
		chunks:    make([]*Chunk, width*height*depth),
		width:     width,
		height:    height,
		depth:     depth,
		chunkSize: chunkSize,
	}
	for z := int32(0); z < depth; z++ {
		for y := int32(0); y < height; y++ {
			for x := int32(0); x < width; x++ {
				m.SetChunk(x, y, z, NewChunk(chunkSize, x, y, z))
			}
		}
	}
	return m
}

// NewMapFromChunk puts a copy of c at the map origin. c is not modified.
func NewMapFromChunk(c *Chunk) *Map {
	origin := NewChunk(c.size, 0, 0, 0)
	copy(origin.data, c.data)
	return &Map{
		chunks:    []*Chunk{origin},
		width:     1,
		height:    1,
		depth:     1,
		chunkSize: c.size,
	}
}

func NewMapFromFile(filename string) (*Map, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open map")
	}
	defer file.Close()
	m, err := ReadMap(file)
	if err != nil {
		return nil, errors.Wrapf(err, "load map %s", filename)
	}
	return m, nil
}

func (m *Map) Dimensions() Int3 {
	return Int3{m.width, m.height, m.depth}
}

func (m *Map) ChunkSize() int32 {
	return m.chunkSize
}

func (m *Map) Chunks() []*Chunk {
	return m.chunks
}

func (m *Map) SetChunk(x, y, z int32, c *Chunk) {
	m.chunks[x+y*m.width+z*m.width*m.height] = c
}

func (m *Map) GetChunk(x, y, z int32) *Chunk {
	if x < 0 || y < 0 || z < 0 || x >= m.width || y >= m.height || z >= m.depth {
		return nil
	}
	return m.chunks[x+y*m.width+z*m.width*m.height]
}

func (m *Map) Contains(x, y, z int32) bool {
	return x >= 0 && x < m.width*m.chunkSize && y >= 0 && y < m.height*m.chunkSize && z >= 0 && z < m.depth*m.chunkSize
}

func (m *Map) GetChunkFromBlock(x, y, z int32) *Chunk {
	return m.GetChunk(x/m.chunkSize, y/m.chunkSize, z/m.chunkSize)
}

func (m *Map) GetGlobal(x, y, z int32) Voxel {
	if !m.Contains(x, y, z) {
		return NewAir()
	}
	chunk := m.GetChunkFromBlock(x, y, z)
	if chunk == nil {
		return NewAir()
	}
	return chunk.GetLocal(x%m.chunkSize, y%m.chunkSize, z%m.chunkSize)
}

func (m *Map) SetGlobal(x, y, z int32, v Voxel) {
	if !m.Contains(x, y, z) {
		return
	}
	chunk := m.GetChunkFromBlock(x, y, z)
	if chunk != nil {
		chunk.Set(x%m.chunkSize, y%m.chunkSize, z%m.chunkSize, v)
	}
}

// DensityAt reads across chunk borders, 0 outside the map.
func (m *Map) DensityAt(x, y, z int32) float32 {
	return m.GetGlobal(x, y, z).Density
}

// DensitySliceZ returns the densities of the world plane at z, row major
// in x, together with the plane's width and height.
func (m *Map) DensitySliceZ(z int32) ([]float32, int, int) {
	width, height := m.width*m.chunkSize, m.height*m.chunkSize
	slice := make([]float32, 0, width*height)
	for y := int32(0); y < height; y++ {
		for x := int32(0); x < width; x++ {
			slice = append(slice, m.DensityAt(x, y, z))
		}
	}
	return slice, int(width), int(height)
}

type ChunkMesh struct {
	Position Int3
	Origin   mgl32.Vec3
	Mesh     *MeshBuffer
	Stats    Stats
}

// MeshAll meshes every non-empty chunk on its own. Chunk borders are not
// stitched.
func (m *Map) MeshAll(mesher *Mesher) ([]ChunkMesh, Stats, error) {
	var (
		meshes []ChunkMesh
		total  Stats
	)
	for _, chunk := range m.chunks {
		if chunk == nil || chunk.IsEmpty() {
			continue
		}
		buffer, stats, err := mesher.Mesh(chunk)
		if err != nil {
			return nil, total, errors.Wrapf(err, "mesh chunk %v", chunk.Position())
		}
		total.add(stats)
		if buffer.IsEmpty() {
			continue
		}
		meshes = append(meshes, ChunkMesh{
			Position: chunk.Position(),
			Origin:   chunk.Origin(),
			Mesh:     buffer.Trimmed(),
			Stats:    stats,
		})
	}
	util.LogVoxelInfo(fmt.Sprintf("[Map] Meshed %d chunks, %d triangles", len(meshes), total.TriangleCount()))
	return meshes, total, nil
}

// ToMeshData moves the chunk mesh into world space for export.
func (cm ChunkMesh) ToMeshData() util.MeshData {
	merged := &MeshBuffer{}
	merged.MergeBuffer(cm.Mesh, cm.Origin)
	return merged.ToMeshData(fmt.Sprintf("chunk_%d_%d_%d", cm.Position.X, cm.Position.Y, cm.Position.Z))
}

// MergeMeshes flattens chunk meshes into one buffer in world space.
func MergeMeshes(meshes []ChunkMesh) *MeshBuffer {
	merged := &MeshBuffer{}
	for _, cm := range meshes {
		merged.MergeBuffer(cm.Mesh, cm.Origin)
	}
	return merged
}

func (m *Map) SaveToFile(filename string) error {
	outfile, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create map file")
	}
	if err := m.Write(outfile); err != nil {
		outfile.Close()
		return errors.Wrapf(err, "save map %s", filename)
	}
	return outfile.Close()
}

// Write stores the map gzip compressed: header, dimensions, then per chunk
// its position followed by kind and density of every voxel.
func (m *Map) Write(w io.Writer) error {
	gzipWriter := gzip.NewWriter(w)
	header := []any{mapMagic, mapVersion, m.width, m.height, m.depth, m.chunkSize, int32(len(m.chunks))}
	for _, field := range header {
		if err := binary.Write(gzipWriter, binary.LittleEndian, field); err != nil {
			return errors.Wrap(err, "write header")
		}
	}
	util.LogIODebug(fmt.Sprintf("[Map] Saving %d chunks of size %d (%d x %d x %d)", len(m.chunks), m.chunkSize, m.width, m.height, m.depth))
	for _, chunk := range m.chunks {
		if err := binary.Write(gzipWriter, binary.LittleEndian, chunk.Position()); err != nil {
			return errors.Wrap(err, "write chunk position")
		}
		if err := binary.Write(gzipWriter, binary.LittleEndian, chunk.data); err != nil {
			return errors.Wrapf(err, "write chunk %v", chunk.Position())
		}
	}
	return gzipWriter.Close()
}

func ReadMap(r io.Reader) (*Map, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open gzip stream")
	}
	defer gzipReader.Close()

	var (
		magic      [4]byte
		version    uint8
		m          = &Map{}
		chunkCount int32
	)
	for _, field := range []any{&magic, &version, &m.width, &m.height, &m.depth, &m.chunkSize, &chunkCount} {
		if err := binary.Read(gzipReader, binary.LittleEndian, field); err != nil {
			return nil, errors.Wrap(err, "read header")
		}
	}
	if magic != mapMagic {
		return nil, errors.Errorf("not a map file (magic %q)", magic[:])
	}
	if version != mapVersion {
		return nil, errors.Errorf("unsupported map version %d", version)
	}
	if m.width <= 0 || m.height <= 0 || m.depth <= 0 || int64(chunkCount) != int64(m.width)*int64(m.height)*int64(m.depth) {
		return nil, errors.Errorf("corrupt map header: %d x %d x %d chunks, count %d", m.width, m.height, m.depth, chunkCount)
	}
	if err := CheckChunkSize(m.chunkSize); err != nil {
		return nil, errors.Wrap(err, "corrupt map header")
	}
	util.LogIODebug(fmt.Sprintf("[Map] Loading %d chunks of size %d", chunkCount, m.chunkSize))

	m.chunks = make([]*Chunk, chunkCount)
	for i := int32(0); i < chunkCount; i++ {
		var pos Int3
		if err := binary.Read(gzipReader, binary.LittleEndian, &pos); err != nil {
			return nil, errors.Wrap(err, "read chunk position")
		}
		if m.GetChunk(pos.X, pos.Y, pos.Z) != nil || pos.X < 0 || pos.Y < 0 || pos.Z < 0 || pos.X >= m.width || pos.Y >= m.height || pos.Z >= m.depth {
			return nil, errors.Errorf("bad chunk position %v", pos)
		}
		chunk := NewChunk(m.chunkSize, pos.X, pos.Y, pos.Z)
		if err := binary.Read(gzipReader, binary.LittleEndian, chunk.data); err != nil {
			return nil, errors.Wrapf(err, "read chunk %v", pos)
		}
		m.SetChunk(pos.X, pos.Y, pos.Z, chunk)
	}
	return m, nil
}

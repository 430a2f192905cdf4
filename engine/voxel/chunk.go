package voxel

import "github.com/go-gl/mathgl/mgl32"

// DensitySource answers density queries for integer cell coordinates.
// Coordinates outside the source must yield 0.
type DensitySource interface {
	DensityAt(x, y, z int32) float32
}

// DensityFunc adapts a plain function to DensitySource.
type DensityFunc func(x, y, z int32) float32

func (f DensityFunc) DensityAt(x, y, z int32) float32 {
	return f(x, y, z)
}

// Chunk is a dense cube of voxels, flattened as x + y*size + z*size².
// It is read-only while a mesh pass runs over it.
type Chunk struct {
	data      []Voxel
	size      int32
	chunkPosX int32
	chunkPosY int32
	chunkPosZ int32
}

func NewChunk(size, x, y, z int32) *Chunk {
	if err := CheckChunkSize(size); err != nil {
		panic(err.Error())
	}
	return &Chunk{
		data:      make([]Voxel, int(size)*int(size)*int(size)),
		size:      size,
		chunkPosX: x,
		chunkPosY: y,
		chunkPosZ: z,
	}
}

func (c *Chunk) Size() int32 {
	return c.size
}

func (c *Chunk) CellCount() int {
	return len(c.data)
}

func (c *Chunk) Voxels() []Voxel {
	return c.data
}

func (c *Chunk) Index(x, y, z int32) int32 {
	return x + y*c.size + z*c.size*c.size
}

// Coordinates is the inverse of Index.
func (c *Chunk) Coordinates(index int32) Int3 {
	return Int3{
		X: index % c.size,
		Y: (index / c.size) % c.size,
		Z: index / (c.size * c.size),
	}
}

func (c *Chunk) Contains(x, y, z int32) bool {
	return x >= 0 && x < c.size && y >= 0 && y < c.size && z >= 0 && z < c.size
}

func (c *Chunk) DensityAt(x, y, z int32) float32 {
	if !c.Contains(x, y, z) {
		return 0
	}
	return c.data[c.Index(x, y, z)].Density
}

func (c *Chunk) GetLocal(x, y, z int32) Voxel {
	if !c.Contains(x, y, z) {
		return NewAir()
	}
	return c.data[c.Index(x, y, z)]
}

func (c *Chunk) Set(x, y, z int32, v Voxel) {
	c.data[c.Index(x, y, z)] = v
}

func (c *Chunk) Fill(v Voxel) {
	for i := range c.data {
		c.data[i] = v
	}
}

// IsEmpty reports whether no voxel is solid. Such a chunk meshes to nothing.
func (c *Chunk) IsEmpty() bool {
	for _, v := range c.data {
		if v.IsSolid() {
			return false
		}
	}
	return true
}

func (c *Chunk) Position() Int3 {
	return Int3{c.chunkPosX, c.chunkPosY, c.chunkPosZ}
}

// Origin is the world position of the chunk's first cell.
func (c *Chunk) Origin() mgl32.Vec3 {
	return c.Position().Mul(c.size).ToVec3()
}

func (c *Chunk) GetMatrix() mgl32.Mat4 {
	o := c.Origin()
	return mgl32.Translate3D(o.X(), o.Y(), o.Z())
}

type Int3 struct {
	X, Y, Z int32
}

func (i Int3) Add(other Int3) Int3 {
	return Int3{i.X + other.X, i.Y + other.Y, i.Z + other.Z}
}

func (i Int3) Sub(other Int3) Int3 {
	return Int3{i.X - other.X, i.Y - other.Y, i.Z - other.Z}
}

func (i Int3) Mul(factor int32) Int3 {
	i.X *= factor
	i.Y *= factor
	i.Z *= factor
	return i
}

func (i Int3) ToVec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(i.X), float32(i.Y), float32(i.Z)}
}

func (i Int3) ToBlockCenterVec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(i.X) + 0.5, float32(i.Y) + 0.5, float32(i.Z) + 0.5}
}

package voxel

import (
	"fmt"
	"sync/atomic"
)

// Cursor hands out disjoint vertex and index ranges. Both counters live in
// one word (vertices in the high half, indices in the low half) so a single
// fetch-and-add claims the pair. Each counter must stay below 2^32.
type Cursor struct {
	packed atomic.Uint64
}

func pack(vertices, indices uint32) uint64 {
	return uint64(vertices)<<32 | uint64(indices)
}

func unpack(v uint64) (vertices, indices uint32) {
	return uint32(v >> 32), uint32(v)
}

// Reserve advances both counters and returns their previous values.
func (c *Cursor) Reserve(vertices, indices uint32) (vertexBase, indexBase uint32) {
	delta := pack(vertices, indices)
	after := c.packed.Add(delta)
	return unpack(after - delta)
}

func (c *Cursor) Counts() (vertices, indices uint32) {
	return unpack(c.packed.Load())
}

func (c *Cursor) Reset() {
	c.packed.Store(0)
}

type Reservation struct {
	VertexBase uint32
	IndexBase  uint32
}

// Allocator is the only point where concurrent emitters meet.
// Reserve returns ok=false when the claim does not fit the target buffer;
// the caller must then skip its writes.
type Allocator interface {
	Reserve(kind Kind, vertices, indices uint32) (Reservation, bool)
	Target() *MeshBuffer
}

// globalAllocator reserves straight from the pass cursor.
type globalAllocator struct {
	cursor       *Cursor
	out          *MeshBuffer
	overflow     *atomic.Bool
	reservations *atomic.Int64
}

func (g *globalAllocator) Reserve(kind Kind, vertices, indices uint32) (Reservation, bool) {
	return g.claim(vertices, indices)
}

func (g *globalAllocator) claim(vertices, indices uint32) (Reservation, bool) {
	vertexBase, indexBase := g.cursor.Reserve(vertices, indices)
	g.reservations.Add(1)
	if int(vertexBase)+int(vertices) > len(g.out.Positions) || int(indexBase)+int(indices) > len(g.out.Indices) {
		g.overflow.Store(true)
		return Reservation{}, false
	}
	return Reservation{VertexBase: vertexBase, IndexBase: indexBase}, true
}

func (g *globalAllocator) Target() *MeshBuffer {
	return g.out
}

// stagingAllocator reserves from a group-private buffer sized for the
// worst case of the group, so it can never run out.
type stagingAllocator struct {
	local   Cursor
	staging *MeshBuffer
}

func newStagingAllocator(cells int) *stagingAllocator {
	return &stagingAllocator{staging: NewMeshBufferForCells(cells)}
}

func (s *stagingAllocator) Reserve(kind Kind, vertices, indices uint32) (Reservation, bool) {
	vertexBase, indexBase := s.local.Reserve(vertices, indices)
	if int(vertexBase)+int(vertices) > len(s.staging.Positions) || int(indexBase)+int(indices) > len(s.staging.Indices) {
		panic(fmt.Sprintf("staging buffer overflow: %d+%d vertices, %d+%d indices, capacity %d/%d",
			vertexBase, vertices, indexBase, indices, len(s.staging.Positions), len(s.staging.Indices)))
	}
	return Reservation{VertexBase: vertexBase, IndexBase: indexBase}, true
}

func (s *stagingAllocator) Target() *MeshBuffer {
	return s.staging
}

// flush moves the staged geometry into out with one global reservation and
// rebases the staged indices onto the claimed vertex range.
func (s *stagingAllocator) flush(global *globalAllocator) {
	vertices, indices := s.local.Counts()
	s.local.Reset()
	if vertices == 0 && indices == 0 {
		return
	}
	res, ok := global.claim(vertices, indices)
	if !ok {
		return
	}
	out := global.out
	copy(out.Positions[res.VertexBase:], s.staging.Positions[:vertices])
	copy(out.Normals[res.VertexBase:], s.staging.Normals[:vertices])
	copy(out.UVs[res.VertexBase:], s.staging.UVs[:vertices])
	dst := out.Indices[res.IndexBase : res.IndexBase+indices]
	for i, index := range s.staging.Indices[:indices] {
		dst[i] = index + res.VertexBase
	}
}

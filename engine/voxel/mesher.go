package voxel

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/memmaker/densitymesh/engine/util"
	"github.com/pkg/errors"
)

var ErrCapacityExceeded = errors.New("mesh buffer capacity exceeded")

type Strategy int

const (
	// StrategyGrouped stages each group locally and publishes it with a
	// single global reservation.
	StrategyGrouped Strategy = iota
	// StrategyDirect reserves every triangle and quad from the global cursor.
	StrategyDirect
)

func (s Strategy) String() string {
	switch s {
	case StrategyGrouped:
		return "grouped"
	case StrategyDirect:
		return "direct"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "", "grouped":
		return StrategyGrouped, nil
	case "direct":
		return StrategyDirect, nil
	}
	return 0, errors.Errorf("unknown strategy %q", name)
}

type Options struct {
	// Workers pulling groups. Zero means GOMAXPROCS.
	Workers int
	// GroupSize is the edge length of a cubic cell group. Zero means 4.
	GroupSize int32
	// Lanes is the number of goroutines sharing one group. Zero means 1.
	Lanes    int
	Strategy Strategy
}

func DefaultOptions() Options {
	return Options{
		Workers:   runtime.GOMAXPROCS(0),
		GroupSize: 4,
		Lanes:     1,
		Strategy:  StrategyGrouped,
	}
}

type Mesher struct {
	opts Options
}

func NewMesher(opts Options) *Mesher {
	defaults := DefaultOptions()
	if opts.Workers <= 0 {
		opts.Workers = defaults.Workers
	}
	if opts.GroupSize <= 0 {
		opts.GroupSize = defaults.GroupSize
	}
	if opts.Lanes <= 0 {
		opts.Lanes = defaults.Lanes
	}
	return &Mesher{opts: opts}
}

func (m *Mesher) Options() Options {
	return m.opts
}

// MeshChunk meshes c with the default options.
func MeshChunk(c *Chunk) (*MeshBuffer, Stats, error) {
	return NewMesher(DefaultOptions()).Mesh(c)
}

// Mesh runs one pass over c into a buffer sized for the worst case.
func (m *Mesher) Mesh(c *Chunk) (*MeshBuffer, Stats, error) {
	out := NewMeshBufferForChunk(c.Size())
	stats, err := m.MeshInto(c, out)
	if err != nil {
		return nil, stats, err
	}
	return out, stats, nil
}

// MeshInto runs one pass over c, writing into out from slot zero.
// If out is too small the pass still completes, out is reset and an error
// wrapping ErrCapacityExceeded is returned.
func (m *Mesher) MeshInto(c *Chunk, out *MeshBuffer) (Stats, error) {
	start := time.Now()
	groups := partition(c.Size(), m.opts.GroupSize)
	workers := m.opts.Workers
	if workers > len(groups) {
		workers = len(groups)
	}

	var (
		cursor       Cursor
		overflow     atomic.Bool
		reservations atomic.Int64
		next         atomic.Int64
		wg           sync.WaitGroup
		workerStats  = make([][]Stats, workers)
	)
	maxCells := int(m.opts.GroupSize * m.opts.GroupSize * m.opts.GroupSize)

	for w := 0; w < workers; w++ {
		workerStats[w] = make([]Stats, m.opts.Lanes)
		wg.Add(1)
		go func(laneStats []Stats) {
			defer wg.Done()
			global := &globalAllocator{cursor: &cursor, out: out, overflow: &overflow, reservations: &reservations}
			var staging *stagingAllocator
			if m.opts.Strategy == StrategyGrouped {
				staging = newStagingAllocator(maxCells)
			}
			for {
				id := int(next.Add(1) - 1)
				if id >= len(groups) {
					return
				}
				laneStats[0].Groups++
				if staging == nil {
					m.runGroup(c, groups[id], global, laneStats)
					continue
				}
				m.runGroup(c, groups[id], staging, laneStats)
				staging.flush(global)
			}
		}(workerStats[w])
	}
	wg.Wait()

	var stats Stats
	for _, lanes := range workerStats {
		for _, s := range lanes {
			stats.add(s)
		}
	}
	stats.GlobalReservations = reservations.Load()
	stats.Duration = time.Since(start)

	vertices, indices := cursor.Counts()
	if overflow.Load() {
		out.Reset()
		util.LogVoxelError(fmt.Sprintf("[Mesher] Overflow: needed %d vertices and %d indices, capacity %d / %d", vertices, indices, out.VertexCapacity(), out.IndexCapacity()))
		return stats, errors.Wrapf(ErrCapacityExceeded, "needed %d vertices and %d indices, capacity %d / %d",
			vertices, indices, out.VertexCapacity(), out.IndexCapacity())
	}
	out.setCounts(vertices, indices)
	util.LogVoxelDebug(fmt.Sprintf("[Mesher] %s pass over %d³ cells: %s", m.opts.Strategy, c.Size(), stats))
	return stats, nil
}

// runGroup meshes every cell of g. With more than one lane the group is
// split across goroutines and runGroup returns once all of them are done.
func (m *Mesher) runGroup(c *Chunk, g cellGroup, alloc Allocator, laneStats []Stats) {
	lanes := len(laneStats)
	if lanes == 1 {
		meshLane(c, g, 0, 1, alloc, &laneStats[0])
		return
	}
	var barrier sync.WaitGroup
	for lane := 0; lane < lanes; lane++ {
		barrier.Add(1)
		go func(lane int) {
			defer barrier.Done()
			meshLane(c, g, lane, lanes, alloc, &laneStats[lane])
		}(lane)
	}
	barrier.Wait()
}

func meshLane(c *Chunk, g cellGroup, lane, lanes int, alloc Allocator, stats *Stats) {
	ext := g.max.Sub(g.min)
	count := int(ext.X * ext.Y * ext.Z)
	for i := lane; i < count; i += lanes {
		local := int32(i)
		pos := Int3{
			X: g.min.X + local%ext.X,
			Y: g.min.Y + (local/ext.X)%ext.Y,
			Z: g.min.Z + local/(ext.X*ext.Y),
		}
		meshCell(c, pos, alloc, stats)
	}
}

// meshCell sends a cell down exactly one path. Kinds other than Block are
// meshed as smooth cells.
func meshCell(c *Chunk, pos Int3, alloc Allocator, stats *Stats) {
	if c.data[c.Index(pos.X, pos.Y, pos.Z)].Kind == Block {
		stats.BlockCells++
		stats.Quads += EmitBlockFaces(c, pos, alloc)
		return
	}
	stats.SmoothCells++
	config, densities := Classify(c, pos)
	if config.IsHomogeneous() {
		stats.HomogeneousCells++
		return
	}
	stats.Triangles += Triangulate(config, pos, &densities, alloc)
}

// cellGroup is the half-open box [min, max).
type cellGroup struct {
	min, max Int3
}

func (g cellGroup) cellCount() int {
	ext := g.max.Sub(g.min)
	return int(ext.X * ext.Y * ext.Z)
}

// partition tiles a size³ chunk into groups of at most groupSize³ cells.
func partition(size, groupSize int32) []cellGroup {
	var groups []cellGroup
	for z := int32(0); z < size; z += groupSize {
		for y := int32(0); y < size; y += groupSize {
			for x := int32(0); x < size; x += groupSize {
				groups = append(groups, cellGroup{
					min: Int3{x, y, z},
					max: Int3{min(x+groupSize, size), min(y+groupSize, size), min(z+groupSize, size)},
				})
			}
		}
	}
	return groups
}

package voxel

import (
	"fmt"
	"time"
)

type Stats struct {
	SmoothCells        int
	BlockCells         int
	HomogeneousCells   int
	Triangles          int
	Quads              int
	Groups             int
	GlobalReservations int64
	Duration           time.Duration
}

func (s *Stats) add(o Stats) {
	s.SmoothCells += o.SmoothCells
	s.BlockCells += o.BlockCells
	s.HomogeneousCells += o.HomogeneousCells
	s.Triangles += o.Triangles
	s.Quads += o.Quads
	s.Groups += o.Groups
	s.GlobalReservations += o.GlobalReservations
	s.Duration += o.Duration
}

func (s Stats) Cells() int {
	return s.SmoothCells + s.BlockCells
}

// TriangleCount counts smooth triangles and both halves of every quad.
func (s Stats) TriangleCount() int {
	return s.Triangles + 2*s.Quads
}

func (s Stats) String() string {
	return fmt.Sprintf("cells: %d (smooth %d, homogeneous %d, block %d), triangles: %d, quads: %d, groups: %d, global reservations: %d, took %s",
		s.Cells(), s.SmoothCells, s.HomogeneousCells, s.BlockCells, s.Triangles, s.Quads, s.Groups, s.GlobalReservations, s.Duration)
}

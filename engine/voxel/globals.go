package voxel

import (
	"math"

	"github.com/pkg/errors"
)

const (
	CHUNK_SIZE int32 = 32

	// Threshold is the iso level. Densities at or above it are solid.
	Threshold float32 = 0.5

	// Worst case emission of a single cell. A block cell can show all six
	// faces (24 vertices, 36 indices), a smooth cell at most five triangles.
	MaxVerticesPerCell = 24
	MaxIndicesPerCell  = 36
)

// CheckChunkSize rejects sizes whose worst case index count would not fit
// a cursor counter.
func CheckChunkSize(size int32) error {
	if size <= 0 {
		return errors.Errorf("chunk size must be positive, got %d", size)
	}
	cells := int64(size) * int64(size) * int64(size)
	if cells*MaxIndicesPerCell > math.MaxUint32 {
		return errors.Errorf("chunk size %d needs %d indices in the worst case, limit is %d", size, cells*MaxIndicesPerCell, uint32(math.MaxUint32))
	}
	return nil
}

func IsSolid(density float32) bool {
	return density >= Threshold
}

func Clamp01(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

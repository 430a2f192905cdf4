// Package terrain fills voxel chunks from a 2D simplex heightfield.
package terrain

import (
	"fmt"

	"github.com/memmaker/densitymesh/engine/util"
	"github.com/memmaker/densitymesh/engine/voxel"
	"github.com/ojrac/opensimplex-go"
)

type Settings struct {
	Seed int64
	// Frequency scales world coordinates before sampling noise.
	Frequency float64
	// BaseHeight and Amplitude map noise in [0,1] to a surface height.
	BaseHeight float64
	Amplitude  float64
	// Cells with a world y below BlockLevel become block cells.
	BlockLevel int32
}

func DefaultSettings() Settings {
	return Settings{
		Seed:       0,
		Frequency:  0.05,
		BaseHeight: 8,
		Amplitude:  4,
		BlockLevel: 0,
	}
}

type Generator struct {
	settings Settings
	noise    opensimplex.Noise
}

func NewGenerator(settings Settings) *Generator {
	return &Generator{
		settings: settings,
		noise:    opensimplex.NewNormalized(settings.Seed),
	}
}

// HeightAt is the surface height over world column (x, z).
func (g *Generator) HeightAt(x, z int32) float64 {
	n := g.noise.Eval2(float64(x)*g.settings.Frequency, float64(z)*g.settings.Frequency)
	return n*g.settings.Amplitude + g.settings.BaseHeight
}

// DensityAt is 1 well below the surface, 0 above it and ramps linearly over
// the cell containing it.
func (g *Generator) DensityAt(x, y, z int32) float32 {
	return voxel.Clamp01(float32(g.HeightAt(x, z) - float64(y)))
}

func (g *Generator) KindAt(y int32) voxel.Kind {
	if y < g.settings.BlockLevel {
		return voxel.Block
	}
	return voxel.Smooth
}

// FillChunk samples every cell of c in world coordinates, so neighboring
// chunks of a map agree on shared borders.
func (g *Generator) FillChunk(c *voxel.Chunk) {
	size := c.Size()
	origin := c.Position().Mul(size)
	for z := int32(0); z < size; z++ {
		for x := int32(0); x < size; x++ {
			height := g.HeightAt(origin.X+x, origin.Z+z)
			for y := int32(0); y < size; y++ {
				wy := origin.Y + y
				density := voxel.Clamp01(float32(height - float64(wy)))
				c.Set(x, y, z, voxel.Voxel{Kind: g.KindAt(wy), Density: density})
			}
		}
	}
}

func (g *Generator) FillMap(m *voxel.Map) {
	for _, chunk := range m.Chunks() {
		g.FillChunk(chunk)
	}
	d := m.Dimensions()
	util.LogVoxelInfo(fmt.Sprintf("[Terrain] Filled %d x %d x %d chunks (seed %d)", d.X, d.Y, d.Z, g.settings.Seed))
}

// GenerateMap builds and fills a map of width x height x depth chunks.
func GenerateMap(settings Settings, width, height, depth, chunkSize int32) *voxel.Map {
	m := voxel.NewMap(width, height, depth, chunkSize)
	NewGenerator(settings).FillMap(m)
	return m
}

package main

import (
	"math"

	"github.com/memmaker/densitymesh/engine/terrain"
	"github.com/memmaker/densitymesh/engine/util"
	"github.com/memmaker/densitymesh/engine/voxel"
	"github.com/pkg/errors"
)

type Config struct {
	ChunkSize int32 `json:"chunk_size"`
	ChunksX   int32 `json:"chunks_x"`
	ChunksY   int32 `json:"chunks_y"`
	ChunksZ   int32 `json:"chunks_z"`

	Seed       int64   `json:"seed"`
	Frequency  float64 `json:"frequency"`
	BaseHeight float64 `json:"base_height"`
	Amplitude  float64 `json:"amplitude"`
	BlockLevel int32   `json:"block_level"`

	Workers   int    `json:"workers"`
	GroupSize int32  `json:"group_size"`
	Lanes     int    `json:"lanes"`
	Strategy  string `json:"strategy"`

	// Output is the .glb written after meshing. Empty skips export.
	Output string `json:"output"`
	// Merge writes a single world space mesh instead of one per chunk.
	Merge   bool   `json:"merge"`
	Preview string `json:"preview"`
	Save    string `json:"save"`
	Load    string `json:"load"`
	// ChunkNBT loads a single chunk stored as NBT instead of generating.
	ChunkNBT string `json:"chunk_nbt"`

	// SPIRV writes the compiled mesh kernel and its lookup tables.
	SPIRV string `json:"spirv"`

	LogLevel string `json:"log_level"`
	LogJSON  bool   `json:"log_json"`
}

func DefaultConfig() Config {
	t := terrain.DefaultSettings()
	m := voxel.DefaultOptions()
	return Config{
		ChunkSize:  voxel.CHUNK_SIZE,
		ChunksX:    2,
		ChunksY:    1,
		ChunksZ:    2,
		Seed:       t.Seed,
		Frequency:  t.Frequency,
		BaseHeight: t.BaseHeight,
		Amplitude:  t.Amplitude,
		BlockLevel: t.BlockLevel,
		Workers:    m.Workers,
		GroupSize:  m.GroupSize,
		Lanes:      m.Lanes,
		Strategy:   m.Strategy.String(),
		Output:     "mesh.glb",
		LogLevel:   "info",
	}
}

// LoadConfig overlays the JSON file onto the defaults.
func LoadConfig(filename string) (Config, error) {
	cfg := DefaultConfig()
	if filename == "" {
		return cfg, nil
	}
	if err := util.FromJsonFile(filename, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := voxel.CheckChunkSize(c.ChunkSize); err != nil {
		return errors.Wrap(err, "chunk_size")
	}
	if c.ChunksX <= 0 || c.ChunksY <= 0 || c.ChunksZ <= 0 {
		return errors.Errorf("chunk counts must be positive, got %d x %d x %d", c.ChunksX, c.ChunksY, c.ChunksZ)
	}
	if int64(c.ChunksX)*int64(c.ChunksY)*int64(c.ChunksZ) > math.MaxInt32 {
		return errors.Errorf("too many chunks: %d x %d x %d", c.ChunksX, c.ChunksY, c.ChunksZ)
	}
	if c.GroupSize < 0 || c.Workers < 0 || c.Lanes < 0 {
		return errors.New("workers, group_size and lanes must not be negative")
	}
	if _, err := voxel.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if c.Load != "" && c.ChunkNBT != "" {
		return errors.New("load and chunk_nbt are mutually exclusive")
	}
	return nil
}

func (c Config) TerrainSettings() terrain.Settings {
	return terrain.Settings{
		Seed:       c.Seed,
		Frequency:  c.Frequency,
		BaseHeight: c.BaseHeight,
		Amplitude:  c.Amplitude,
		BlockLevel: c.BlockLevel,
	}
}

func (c Config) MesherOptions() voxel.Options {
	strategy, _ := voxel.ParseStrategy(c.Strategy)
	return voxel.Options{
		Workers:   c.Workers,
		GroupSize: c.GroupSize,
		Lanes:     c.Lanes,
		Strategy:  strategy,
	}
}

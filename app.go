package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/densitymesh/engine/gpu"
	"github.com/memmaker/densitymesh/engine/terrain"
	"github.com/memmaker/densitymesh/engine/util"
	"github.com/memmaker/densitymesh/engine/voxel"
	"github.com/pkg/errors"
)

type Report struct {
	Chunks    int
	Meshes    int
	Stats     voxel.Stats
	Vertices  int
	Indices   int
	BoundsMin mgl32.Vec3
	BoundsMax mgl32.Vec3
	Timings   string
	// KernelWords is the SPIR-V length of an exported kernel.
	KernelWords int
}

func (r Report) String() string {
	return fmt.Sprintf("%d chunks -> %d meshes, %d vertices, %d indices, bounds %v..%v\n%s\n%s",
		r.Chunks, r.Meshes, r.Vertices, r.Indices, r.BoundsMin, r.BoundsMax, r.Stats, r.Timings)
}

func loadMap(cfg Config) (*voxel.Map, error) {
	switch {
	case cfg.Load != "":
		return voxel.NewMapFromFile(cfg.Load)
	case cfg.ChunkNBT != "":
		chunk, err := voxel.LoadChunkNBT(cfg.ChunkNBT)
		if err != nil {
			return nil, err
		}
		return voxel.NewMapFromChunk(chunk), nil
	}
	return terrain.GenerateMap(cfg.TerrainSettings(), cfg.ChunksX, cfg.ChunksY, cfg.ChunksZ, cfg.ChunkSize), nil
}

func runApp(cfg Config) (Report, error) {
	var report Report
	if err := cfg.Validate(); err != nil {
		return report, errors.Wrap(err, "invalid config")
	}
	timer := util.NewTimer()

	var m *voxel.Map
	err := timer.Measure("density", func() error {
		var err error
		m, err = loadMap(cfg)
		return err
	})
	if err != nil {
		return report, err
	}
	report.Chunks = len(m.Chunks())

	if cfg.Save != "" {
		if err := m.SaveToFile(cfg.Save); err != nil {
			return report, err
		}
	}
	if cfg.Preview != "" {
		depth := m.Dimensions().Z * m.ChunkSize()
		slice, w, h := m.DensitySliceZ(depth / 2)
		if err := util.SaveDensityPreview(cfg.Preview, slice, w, h, 4); err != nil {
			return report, err
		}
	}

	mesher := voxel.NewMesher(cfg.MesherOptions())
	var meshes []voxel.ChunkMesh
	err = timer.Measure("mesh", func() error {
		var err error
		meshes, report.Stats, err = m.MeshAll(mesher)
		return err
	})
	if err != nil {
		return report, err
	}
	report.Meshes = len(meshes)

	merged := voxel.MergeMeshes(meshes)
	report.Vertices = int(merged.VertexCount())
	report.Indices = int(merged.IndexCount())
	report.BoundsMin, report.BoundsMax = util.Bounds(merged.Positions)

	if cfg.Merge && cfg.Output == "" {
		util.LogSystemWarning("[App] merge has no effect without an output file")
	}
	if cfg.Output != "" {
		var data []util.MeshData
		if cfg.Merge {
			data = append(data, merged.ToMeshData("world"))
		} else {
			for _, cm := range meshes {
				data = append(data, cm.ToMeshData())
			}
		}
		err = timer.Measure("export", func() error {
			return util.SaveGLB(cfg.Output, data)
		})
		if err != nil {
			return report, err
		}
	}
	if cfg.SPIRV != "" {
		if _, err := gpu.DispatchSize(m.ChunkSize()); err != nil {
			util.LogSystemWarning("[App] " + err.Error())
		}
		err = timer.Measure("kernel", func() error {
			var err error
			if report.KernelWords, err = gpu.SaveKernel(cfg.SPIRV); err != nil {
				return err
			}
			return gpu.SaveTables(cfg.SPIRV + ".tables")
		})
		if err != nil {
			return report, err
		}
	}
	report.Timings = timer.String()
	return report, nil
}

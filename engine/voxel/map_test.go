package voxel

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/memmaker/densitymesh/engine/util"
)

func testMap() *Map {
	m := NewMap(2, 1, 2, 4)
	for z := int32(0); z < 8; z++ {
		for x := int32(0); x < 8; x++ {
			for y := int32(0); y < 2; y++ {
				m.SetGlobal(x, y, z, NewSmooth(1))
			}
		}
	}
	m.SetGlobal(5, 2, 5, NewBlock(1))
	return m
}

func TestMapGlobalAccess(t *testing.T) {
	m := testMap()
	if v := m.GetGlobal(5, 2, 5); v.Kind != Block || v.Density != 1 {
		t.Errorf("GetGlobal = %+v", v)
	}
	if c := m.GetChunkFromBlock(5, 2, 5); c.Position() != (Int3{1, 0, 1}) {
		t.Errorf("block in chunk %v", c.Position())
	}
	if d := m.DensityAt(-1, 0, 0); d != 0 {
		t.Errorf("density outside = %v", d)
	}
	if d := m.DensityAt(100, 0, 0); d != 0 {
		t.Errorf("density outside = %v", d)
	}
	m.SetGlobal(100, 0, 0, NewBlock(1))
	if m.GetChunk(2, 0, 0) != nil || m.GetChunk(-1, 0, 0) != nil {
		t.Error("chunk lookup outside the map should be nil")
	}
}

func TestMapRoundTrip(t *testing.T) {
	m := testMap()
	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		t.Fatal(err)
	}
	loaded, err := ReadMap(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Dimensions() != m.Dimensions() || loaded.ChunkSize() != m.ChunkSize() {
		t.Fatalf("dimensions %v/%d, want %v/%d", loaded.Dimensions(), loaded.ChunkSize(), m.Dimensions(), m.ChunkSize())
	}
	for i, chunk := range m.Chunks() {
		other := loaded.Chunks()[i]
		if other.Position() != chunk.Position() {
			t.Fatalf("chunk %d at %v, want %v", i, other.Position(), chunk.Position())
		}
		for j, v := range chunk.Voxels() {
			if other.Voxels()[j] != v {
				t.Fatalf("chunk %v voxel %d = %+v, want %+v", chunk.Position(), j, other.Voxels()[j], v)
			}
		}
	}
}

func TestMapFileRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "map.bin")
	if err := testMap().SaveToFile(filename); err != nil {
		t.Fatal(err)
	}
	loaded, err := NewMapFromFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if v := loaded.GetGlobal(5, 2, 5); v.Kind != Block {
		t.Errorf("loaded voxel %+v", v)
	}
	if _, err := NewMapFromFile(filepath.Join(t.TempDir(), "missing.bin")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestReadMapRejectsGarbage(t *testing.T) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	w.Write([]byte("NOPE and then some more bytes to read"))
	w.Close()
	if _, err := ReadMap(&buf); err == nil {
		t.Error("expected an error for a bad magic")
	}
	if _, err := ReadMap(bytes.NewReader([]byte("plain"))); err == nil {
		t.Error("expected an error for a non gzip stream")
	}
}

func mapHeader(t *testing.T, w, h, d, chunkSize, count int32) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	for _, field := range []any{mapMagic, mapVersion, w, h, d, chunkSize, count} {
		if err := binary.Write(gzipWriter, binary.LittleEndian, field); err != nil {
			t.Fatal(err)
		}
	}
	gzipWriter.Close()
	return &buf
}

func TestReadMapRejectsBadHeaders(t *testing.T) {
	tests := []struct {
		name                      string
		w, h, d, chunkSize, count int32
	}{
		{"chunk size overflows", 1, 1, 1, 1625, 1},
		{"chunk size too large", 1, 1, 1, 493, 1},
		{"zero chunk size", 1, 1, 1, 0, 1},
		{"count overflows", 65536, 65536, 1, 4, 0},
		{"count mismatch", 2, 1, 1, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadMap(mapHeader(t, tt.w, tt.h, tt.d, tt.chunkSize, tt.count)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestNewMapFromChunkKeepsCaller(t *testing.T) {
	c := NewChunk(2, 3, 1, 2)
	c.Set(1, 1, 1, NewBlock(1))
	m := NewMapFromChunk(c)
	if c.Position() != (Int3{3, 1, 2}) {
		t.Errorf("caller chunk moved to %v", c.Position())
	}
	if got := m.GetChunk(0, 0, 0); got == nil || got.Position() != (Int3{}) {
		t.Fatalf("map chunk %v", got)
	}
	if v := m.GetGlobal(1, 1, 1); v != NewBlock(1) {
		t.Errorf("voxel %+v", v)
	}
	m.SetGlobal(0, 0, 0, NewBlock(1))
	if c.GetLocal(0, 0, 0).IsSolid() {
		t.Error("map shares voxel storage with the caller chunk")
	}
}

func TestMeshAllSkipsEmptyChunks(t *testing.T) {
	m := NewMap(2, 2, 1, 4)
	m.SetGlobal(1, 1, 1, NewBlock(1))
	m.SetGlobal(6, 1, 1, NewBlock(1))
	meshes, stats, err := m.MeshAll(NewMesher(Options{Workers: 2}))
	if err != nil {
		t.Fatal(err)
	}
	if len(meshes) != 2 {
		t.Fatalf("%d chunk meshes, want 2", len(meshes))
	}
	// The smooth air cells around each block use its density as one of
	// their corners, so every block also gets 7 single-corner triangles.
	if stats.Quads != 12 || stats.Triangles != 14 {
		t.Errorf("%d quads and %d triangles, want 12 and 14", stats.Quads, stats.Triangles)
	}
	if meshes[1].Origin.X() != 4 {
		t.Errorf("second chunk origin %v", meshes[1].Origin)
	}
	merged := MergeMeshes(meshes)
	if merged.VertexCount() != 2*(24+21) || merged.IndexCount() != 2*(36+21) {
		t.Errorf("merged counts %d/%d", merged.VertexCount(), merged.IndexCount())
	}
	var maxX float32
	for _, p := range merged.Positions {
		maxX = max(maxX, p.X())
	}
	if maxX != 7 {
		t.Errorf("world space max x = %v, want 7", maxX)
	}
	data := meshes[1].ToMeshData()
	lo, hi := util.Bounds(data.Positions)
	if data.Name != "chunk_1_0_0" || lo.X() < 5.5 || hi.X() > 7 {
		t.Errorf("chunk mesh data %s spans %v..%v", data.Name, lo, hi)
	}
}

func TestDensitySliceZ(t *testing.T) {
	m := testMap()
	slice, w, h := m.DensitySliceZ(3)
	if w != 8 || h != 4 || len(slice) != 32 {
		t.Fatalf("slice %d x %d (%d values)", w, h, len(slice))
	}
	if slice[0] != 1 || slice[2*8] != 0 {
		t.Errorf("unexpected slice values %v", slice)
	}
}

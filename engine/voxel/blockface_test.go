package voxel

import "testing"

func isolatedBlock(center Int3, density float32) DensitySource {
	return DensityFunc(func(x, y, z int32) float32 {
		if x == center.X && y == center.Y && z == center.Z {
			return density
		}
		return 0
	})
}

func TestIsolatedSolidBlockEmitsSixFaces(t *testing.T) {
	pos := Int3{5, 5, 5}
	alloc := newRecordingAllocator(1)
	if n := EmitBlockFaces(isolatedBlock(pos, 1), pos, alloc); n != 6 {
		t.Fatalf("got %d quads, want 6", n)
	}
	vertices, indices := alloc.counts()
	if vertices != 24 || indices != 36 {
		t.Fatalf("counts %d/%d, want 24/36", vertices, indices)
	}
	out := alloc.out
	center := pos.ToBlockCenterVec3()
	for i, r := range alloc.reservations {
		face := AllFaces[i]
		if r.kind != Block || r.vertices != 4 || r.indices != 6 {
			t.Fatalf("unexpected reservation %+v", r)
		}
		for k := uint32(0); k < 4; k++ {
			v := r.res.VertexBase + k
			if !vecNear(out.Normals[v], face.Offset().ToVec3()) {
				t.Errorf("face %s normal %v", face, out.Normals[v])
			}
			if out.Positions[v].Sub(center) != BlockFaceTable[face][k] {
				t.Errorf("face %s corner %d at %v", face, k, out.Positions[v])
			}
			if out.UVs[v] != blockFaceUVs[k] {
				t.Errorf("face %s uv %v", face, out.UVs[v])
			}
		}
		for k, want := range blockFaceIndices {
			if got := out.Indices[r.res.IndexBase+uint32(k)]; got != r.res.VertexBase+want {
				t.Errorf("face %s index %d = %d, want %d", face, k, got, r.res.VertexBase+want)
			}
		}
	}
}

func TestEnclosedBlockEmitsNothing(t *testing.T) {
	solid := DensityFunc(func(x, y, z int32) float32 { return 1 })
	alloc := newRecordingAllocator(1)
	if n := EmitBlockFaces(solid, Int3{1, 1, 1}, alloc); n != 0 {
		t.Errorf("got %d quads", n)
	}
	if v, i := alloc.counts(); v != 0 || i != 0 {
		t.Errorf("counts %d/%d, want 0/0", v, i)
	}
}

func TestNonSolidBlockEmitsNothing(t *testing.T) {
	pos := Int3{0, 0, 0}
	alloc := newRecordingAllocator(1)
	if n := EmitBlockFaces(isolatedBlock(pos, 0.49), pos, alloc); n != 0 {
		t.Errorf("got %d quads", n)
	}
}

func TestBlockFacesAgainstPartialNeighbors(t *testing.T) {
	c := NewChunk(3, 0, 0, 0)
	c.Set(1, 1, 1, NewBlock(1))
	c.Set(2, 1, 1, NewSmooth(0.5))
	c.Set(1, 2, 1, NewBlock(0.7))
	c.Set(1, 1, 0, NewSmooth(0.2))

	faces := VisibleFaces(c, Int3{1, 1, 1})
	want := []FaceType{XN, YN, ZP, ZN}
	if len(faces) != len(want) {
		t.Fatalf("faces %v, want %v", faces, want)
	}
	for i := range want {
		if faces[i] != want[i] {
			t.Errorf("faces %v, want %v", faces, want)
		}
	}
	alloc := newRecordingAllocator(1)
	if n := EmitBlockFaces(c, Int3{1, 1, 1}, alloc); n != len(want) {
		t.Errorf("emitted %d quads, want %d", n, len(want))
	}
}

func TestBlockAtChunkEdgeShowsOutwardFace(t *testing.T) {
	c := NewChunk(2, 0, 0, 0)
	c.Fill(NewBlock(1))
	faces := VisibleFaces(c, Int3{0, 0, 0})
	want := []FaceType{XN, YN, ZN}
	if len(faces) != 3 || faces[0] != want[0] || faces[1] != want[1] || faces[2] != want[2] {
		t.Errorf("faces %v, want %v", faces, want)
	}
}

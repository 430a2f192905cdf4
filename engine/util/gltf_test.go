package util

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func quad(name string, offset mgl32.Vec3) MeshData {
	return MeshData{
		Name: name,
		Positions: []mgl32.Vec3{
			offset, offset.Add(mgl32.Vec3{1, 0, 0}), offset.Add(mgl32.Vec3{1, 1, 0}), offset.Add(mgl32.Vec3{0, 1, 0}),
		},
		Normals: []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:     []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

func TestNewGLTFDocumentSkipsEmptyMeshes(t *testing.T) {
	doc := NewGLTFDocument([]MeshData{quad("a", mgl32.Vec3{}), {Name: "empty"}, quad("b", mgl32.Vec3{2, 0, 0})})
	if len(doc.Meshes) != 2 || len(doc.Nodes) != 2 {
		t.Fatalf("%d meshes and %d nodes, want 2 each", len(doc.Meshes), len(doc.Nodes))
	}
	if len(doc.Scenes[0].Nodes) != 2 {
		t.Errorf("scene has %d nodes", len(doc.Scenes[0].Nodes))
	}
	attributes := doc.Meshes[0].Primitives[0].Attributes
	for _, name := range []string{"POSITION", "NORMAL", "TEXCOORD_0"} {
		if _, ok := attributes[name]; !ok {
			t.Errorf("attribute %s missing", name)
		}
	}
}

func TestSaveAndLoadGLB(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "quads.glb")
	meshes := []MeshData{quad("a", mgl32.Vec3{}), quad("b", mgl32.Vec3{0, 0, 5})}
	if err := SaveGLB(filename, meshes); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadGLTFMeshes(filename)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d meshes", len(loaded))
	}
	for i, mesh := range loaded {
		if mesh.Name != meshes[i].Name || mesh.TriangleCount() != 2 {
			t.Errorf("mesh %d: %s with %d triangles", i, mesh.Name, mesh.TriangleCount())
		}
		for j, p := range mesh.Positions {
			if p != meshes[i].Positions[j] {
				t.Errorf("mesh %d position %d = %v, want %v", i, j, p, meshes[i].Positions[j])
			}
		}
		if len(mesh.Normals) != 4 || mesh.Normals[0] != (mgl32.Vec3{0, 0, 1}) {
			t.Errorf("mesh %d normals %v", i, mesh.Normals)
		}
	}
}

func TestLoadGLTFMissingFile(t *testing.T) {
	if _, err := LoadGLTFMeshes(filepath.Join(t.TempDir(), "missing.glb")); err == nil {
		t.Error("expected an error")
	}
}

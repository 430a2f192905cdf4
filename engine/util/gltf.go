package util

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// MeshData is one indexed triangle mesh in world space.
type MeshData struct {
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
}

func (m MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// NewGLTFDocument puts every mesh into its own node of the default scene.
// Empty meshes are skipped.
func NewGLTFDocument(meshes []MeshData) *gltf.Document {
	doc := gltf.NewDocument()
	for _, mesh := range meshes {
		if len(mesh.Indices) == 0 {
			continue
		}
		attributes := map[string]uint32{
			"POSITION": modeler.WritePosition(doc, toArray3(mesh.Positions)),
		}
		if len(mesh.Normals) == len(mesh.Positions) {
			attributes["NORMAL"] = modeler.WriteNormal(doc, toArray3(mesh.Normals))
		}
		if len(mesh.UVs) == len(mesh.Positions) {
			attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, toArray2(mesh.UVs))
		}
		indices := modeler.WriteIndices(doc, mesh.Indices)
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: mesh.Name,
			Primitives: []*gltf.Primitive{{
				Indices:    gltf.Index(indices),
				Attributes: attributes,
				Mode:       gltf.PrimitiveTriangles,
			}},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: mesh.Name,
			Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	}
	return doc
}

func SaveGLB(filename string, meshes []MeshData) error {
	doc := NewGLTFDocument(meshes)
	if err := gltf.SaveBinary(doc, filename); err != nil {
		return errors.Wrapf(err, "save glb %s", filename)
	}
	LogIOInfo(fmt.Sprintf("[glTF] Wrote %d meshes to %s", len(doc.Meshes), filename))
	return nil
}

// LoadGLTFMeshes reads back positions and indices of every triangle
// primitive in the file.
func LoadGLTFMeshes(filename string) ([]MeshData, error) {
	doc, err := gltf.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open gltf %s", filename)
	}
	var result []MeshData
	for _, mesh := range doc.Meshes {
		for _, primitive := range mesh.Primitives {
			if primitive.Mode != gltf.PrimitiveTriangles {
				LogIOError(fmt.Sprintf("[glTF] Skipping non triangle primitive in %s", mesh.Name))
				continue
			}
			positionIndex, ok := primitive.Attributes["POSITION"]
			if !ok || primitive.Indices == nil {
				continue
			}
			var positions [][3]float32
			positions, err = modeler.ReadPosition(doc, doc.Accessors[positionIndex], positions)
			if err != nil {
				return nil, errors.Wrapf(err, "read positions of %s", mesh.Name)
			}
			var indices []uint32
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], indices)
			if err != nil {
				return nil, errors.Wrapf(err, "read indices of %s", mesh.Name)
			}
			data := MeshData{Name: mesh.Name, Indices: indices, Positions: make([]mgl32.Vec3, len(positions))}
			for i, p := range positions {
				data.Positions[i] = mgl32.Vec3(p)
			}
			if normalIndex, ok := primitive.Attributes["NORMAL"]; ok {
				var normals [][3]float32
				normals, err = modeler.ReadNormal(doc, doc.Accessors[normalIndex], normals)
				if err != nil {
					return nil, errors.Wrapf(err, "read normals of %s", mesh.Name)
				}
				data.Normals = make([]mgl32.Vec3, len(normals))
				for i, n := range normals {
					data.Normals[i] = mgl32.Vec3(n)
				}
			}
			result = append(result, data)
		}
	}
	return result, nil
}

func toArray3(vectors []mgl32.Vec3) [][3]float32 {
	result := make([][3]float32, len(vectors))
	for i, v := range vectors {
		result[i] = v
	}
	return result
}

func toArray2(vectors []mgl32.Vec2) [][2]float32 {
	result := make([][2]float32, len(vectors))
	for i, v := range vectors {
		result[i] = v
	}
	return result
}

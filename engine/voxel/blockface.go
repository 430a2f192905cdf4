package voxel

// EmitBlockFaces writes one quad for every face of a solid block cell that
// borders a non-solid neighbor. Returns the number of quads written.
func EmitBlockFaces(src DensitySource, pos Int3, alloc Allocator) int {
	if !IsSolid(src.DensityAt(pos.X, pos.Y, pos.Z)) {
		return 0
	}
	var (
		out     = alloc.Target()
		center  = pos.ToBlockCenterVec3()
		emitted = 0
	)
	for _, face := range AllFaces {
		n := pos.Add(face.Offset())
		if IsSolid(src.DensityAt(n.X, n.Y, n.Z)) {
			continue
		}
		res, ok := alloc.Reserve(Block, 4, 6)
		if !ok {
			continue
		}
		corners := &BlockFaceTable[face]
		normal := faceNormal(corners[0], corners[1], corners[2])
		for k := uint32(0); k < 4; k++ {
			v := res.VertexBase + k
			out.Positions[v] = center.Add(corners[k])
			out.Normals[v] = normal
			out.UVs[v] = blockFaceUVs[k]
		}
		for k, index := range blockFaceIndices {
			out.Indices[res.IndexBase+uint32(k)] = res.VertexBase + index
		}
		emitted++
	}
	return emitted
}

// VisibleFaces returns the faces EmitBlockFaces would write for pos.
func VisibleFaces(src DensitySource, pos Int3) []FaceType {
	if !IsSolid(src.DensityAt(pos.X, pos.Y, pos.Z)) {
		return nil
	}
	var faces []FaceType
	for _, face := range AllFaces {
		n := pos.Add(face.Offset())
		if !IsSolid(src.DensityAt(n.X, n.Y, n.Z)) {
			faces = append(faces, face)
		}
	}
	return faces
}

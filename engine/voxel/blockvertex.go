package voxel

type FaceType int32

const (
	XP FaceType = iota
	XN
	YP
	YN
	ZP
	ZN
)

var AllFaces = [6]FaceType{XP, XN, YP, YN, ZP, ZN}

func (f FaceType) String() string {
	switch f {
	case XP:
		return "+x"
	case XN:
		return "-x"
	case YP:
		return "+y"
	case YN:
		return "-y"
	case ZP:
		return "+z"
	case ZN:
		return "-z"
	}
	return "?"
}

func (f FaceType) Offset() Int3 {
	return BlockAdjacencyOffsets[f]
}

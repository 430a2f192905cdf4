package voxel

import "fmt"

// Kind selects the meshing path of a cell.
type Kind uint8

const (
	Smooth Kind = iota
	Block
)

func (k Kind) String() string {
	switch k {
	case Smooth:
		return "smooth"
	case Block:
		return "block"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

type Voxel struct {
	Kind    Kind
	Density float32
}

func (v Voxel) IsSolid() bool {
	return IsSolid(v.Density)
}

func (v Voxel) IsBlock() bool {
	return v.Kind == Block
}

func NewSmooth(density float32) Voxel {
	return Voxel{Kind: Smooth, Density: density}
}

func NewBlock(density float32) Voxel {
	return Voxel{Kind: Block, Density: density}
}

func NewAir() Voxel {
	return Voxel{}
}

// Package gpu carries the compute shader version of the mesher and packs
// its inputs into upload buffers.
package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/gogpu/naga"
	"github.com/memmaker/densitymesh/engine/util"
	"github.com/memmaker/densitymesh/engine/voxel"
	"github.com/pkg/errors"
)

//go:embed shaders/mesh.wgsl
var meshShaderWGSL string

const (
	// WorkgroupSize is the edge length of the 4x4x4 workgroup.
	WorkgroupSize = 4
	// KernelChunkSize is the chunk size baked into the kernel.
	KernelChunkSize = voxel.CHUNK_SIZE

	SPIRVMagic uint32 = 0x07230203
)

// Binding slots of the kernel, all in group 0.
const (
	BindingEdgeTable = iota
	BindingTriTable
	BindingVoxels
	BindingCounters
	BindingPositions
	BindingNormals
	BindingIndices
	BindingUVs
)

func KernelSource() string {
	return meshShaderWGSL
}

// CompileKernel translates the WGSL kernel to SPIR-V words.
func CompileKernel() ([]uint32, error) {
	spirvBytes, err := naga.Compile(meshShaderWGSL)
	if err != nil {
		util.LogShaderError(err.Error())
		return nil, errors.Wrap(err, "compile mesh kernel")
	}
	if len(spirvBytes)%4 != 0 {
		return nil, errors.Errorf("SPIR-V length %d is not word aligned", len(spirvBytes))
	}
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	if len(spirvCode) == 0 || spirvCode[0] != SPIRVMagic {
		return nil, errors.New("compiler output is not SPIR-V")
	}
	util.LogShaderDebug(fmt.Sprintf("[Kernel] Compiled mesh kernel to %d words", len(spirvCode)))
	return spirvCode, nil
}

// SaveKernel compiles the kernel and writes the SPIR-V module to filename.
// It returns the module length in words.
func SaveKernel(filename string) (int, error) {
	words, err := CompileKernel()
	if err != nil {
		return 0, err
	}
	buf := make([]byte, 0, len(words)*4)
	for _, word := range words {
		buf = binary.LittleEndian.AppendUint32(buf, word)
	}
	if err := os.WriteFile(filename, buf, 0o644); err != nil {
		return 0, errors.Wrap(err, "write SPIR-V")
	}
	util.LogIOInfo(fmt.Sprintf("[Kernel] Wrote %d words to %s", len(words), filename))
	return len(words), nil
}

// SaveTables writes the edge table followed by the tri table, in the layout
// bound at BindingEdgeTable and BindingTriTable.
func SaveTables(filename string) error {
	buf := append(PackEdgeTable(), PackTriTable()...)
	if err := os.WriteFile(filename, buf, 0o644); err != nil {
		return errors.Wrap(err, "write kernel tables")
	}
	return nil
}

// DispatchSize is the workgroup count per axis for a chunk of the given size.
func DispatchSize(chunkSize int32) (uint32, error) {
	if chunkSize != KernelChunkSize {
		return 0, errors.Errorf("kernel is built for chunks of %d, got %d", KernelChunkSize, chunkSize)
	}
	return uint32(chunkSize / WorkgroupSize), nil
}

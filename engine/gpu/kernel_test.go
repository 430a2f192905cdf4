package gpu

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/memmaker/densitymesh/engine/voxel"
)

func TestKernelSourceBindings(t *testing.T) {
	src := KernelSource()
	if src == "" {
		t.Fatal("kernel source is empty")
	}
	if !strings.Contains(src, "@workgroup_size(4, 4, 4)") && !strings.Contains(src, "@workgroup_size(4,4,4)") {
		t.Error("kernel does not declare a 4x4x4 workgroup")
	}
	for binding := BindingEdgeTable; binding <= BindingUVs; binding++ {
		decl := "@binding(" + string(rune('0'+binding)) + ")"
		if !strings.Contains(src, decl) {
			t.Errorf("kernel is missing %s", decl)
		}
	}
}

func TestCompileKernel(t *testing.T) {
	words, err := CompileKernel()
	if err != nil {
		// the WGSL front end does not cover every construct yet
		t.Skipf("Skipping: naga could not compile the kernel: %v", err)
	}
	if words[0] != SPIRVMagic {
		t.Errorf("invalid SPIR-V magic: 0x%08X", words[0])
	}
	t.Logf("Mesh kernel compiled to %d words of SPIR-V", len(words))
}

func TestDispatchSize(t *testing.T) {
	groups, err := DispatchSize(voxel.CHUNK_SIZE)
	if err != nil {
		t.Fatal(err)
	}
	if groups != uint32(voxel.CHUNK_SIZE/WorkgroupSize) {
		t.Errorf("DispatchSize = %d", groups)
	}
	if _, err := DispatchSize(16); err == nil {
		t.Error("expected an error for a chunk size the kernel was not built for")
	}
}

func TestSaveKernelAndTables(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "mesh.spv")
	words, err := SaveKernel(filename)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != words*4 || binary.LittleEndian.Uint32(data) != SPIRVMagic {
		t.Errorf("%d bytes for %d words", len(data), words)
	}

	tables := filepath.Join(dir, "mesh.tables")
	if err := SaveTables(tables); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(tables)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != (256+256*16)*4 {
		t.Errorf("tables are %d bytes", len(data))
	}
}

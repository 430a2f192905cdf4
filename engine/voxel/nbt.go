package voxel

import (
	"compress/gzip"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/Tnze/go-mc/nbt"
	"github.com/memmaker/densitymesh/engine/util"
	"github.com/pkg/errors"
)

/*
	TAG_Compound({
	    "version": TAG_Byte(),
	    "size": TAG_Int(),
	    "x": TAG_Int(),
	    "y": TAG_Int(),
	    "z": TAG_Int(),
	    "kinds": TAG_Byte_Array(size³),
	    "densities": TAG_Int_Array(size³)   // IEEE 754 bits
	})
*/
type chunkTag struct {
	Version   byte    `nbt:"version"`
	Size      int32   `nbt:"size"`
	X         int32   `nbt:"x"`
	Y         int32   `nbt:"y"`
	Z         int32   `nbt:"z"`
	Kinds     []byte  `nbt:"kinds"`
	Densities []int32 `nbt:"densities"`
}

const chunkTagVersion byte = 1

func SaveChunkNBT(filename string, c *Chunk) error {
	outfile, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create nbt file")
	}
	if err := WriteChunkNBT(outfile, c); err != nil {
		outfile.Close()
		return errors.Wrapf(err, "save chunk %s", filename)
	}
	return outfile.Close()
}

// WriteChunkNBT writes c as a gzip compressed NBT compound.
func WriteChunkNBT(w io.Writer, c *Chunk) error {
	tag := chunkTag{
		Version:   chunkTagVersion,
		Size:      c.size,
		X:         c.chunkPosX,
		Y:         c.chunkPosY,
		Z:         c.chunkPosZ,
		Kinds:     make([]byte, len(c.data)),
		Densities: make([]int32, len(c.data)),
	}
	for i, v := range c.data {
		tag.Kinds[i] = byte(v.Kind)
		tag.Densities[i] = int32(math.Float32bits(v.Density))
	}
	data, err := nbt.Marshal(tag)
	if err != nil {
		return errors.Wrap(err, "encode nbt")
	}
	gzipWriter := gzip.NewWriter(w)
	if _, err := gzipWriter.Write(data); err != nil {
		return errors.Wrap(err, "write nbt")
	}
	return gzipWriter.Close()
}

func LoadChunkNBT(filename string) (*Chunk, error) {
	fileReader, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open nbt file")
	}
	defer fileReader.Close()
	c, err := ReadChunkNBT(fileReader)
	if err != nil {
		return nil, errors.Wrapf(err, "load chunk %s", filename)
	}
	return c, nil
}

func ReadChunkNBT(r io.Reader) (*Chunk, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open gzip stream")
	}
	defer gzipReader.Close()

	var tag chunkTag
	if _, err := nbt.NewDecoder(gzipReader).Decode(&tag); err != nil {
		return nil, errors.Wrap(err, "decode nbt")
	}
	if tag.Version != chunkTagVersion {
		return nil, errors.Errorf("unsupported chunk version %d", tag.Version)
	}
	if err := CheckChunkSize(tag.Size); err != nil {
		return nil, err
	}
	cells := int(tag.Size) * int(tag.Size) * int(tag.Size)
	if len(tag.Kinds) != cells || len(tag.Densities) != cells {
		return nil, errors.Errorf("chunk of size %d needs %d cells, got %d kinds and %d densities",
			tag.Size, cells, len(tag.Kinds), len(tag.Densities))
	}

	c := NewChunk(tag.Size, tag.X, tag.Y, tag.Z)
	for i := range c.data {
		kind := Kind(tag.Kinds[i])
		if kind != Smooth && kind != Block {
			return nil, errors.Errorf("unknown voxel kind %d at cell %v", kind, c.Coordinates(int32(i)))
		}
		c.data[i] = Voxel{Kind: kind, Density: math.Float32frombits(uint32(tag.Densities[i]))}
	}
	util.LogIODebug(fmt.Sprintf("[NBT] Loaded chunk %v of size %d", c.Position(), c.size))
	return c, nil
}

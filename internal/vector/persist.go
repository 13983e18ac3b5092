package vector

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// File format: hirelens-vector v1
// Header: magic(8) + version(4) + dims(4) + count(4)
// Per entry: id(8) + vector(dims*4), little endian throughout.

const magic = "HLVECT01"

// Save persists the index to a binary file. The index can be loaded
// back with Load().
func (idx *Index) Save(path string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating index file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write([]byte(magic)); err != nil {
		return err
	}
	if err := writeInt32(f, 1); err != nil { // version
		return err
	}
	if err := writeInt32(f, int32(idx.dims)); err != nil {
		return err
	}
	if err := writeInt32(f, int32(len(idx.ids))); err != nil {
		return err
	}

	for i, id := range idx.ids {
		if err := writeInt64(f, id); err != nil {
			return err
		}
		for _, v := range idx.vectors[i] {
			if err := writeFloat32(f, v); err != nil {
				return err
			}
		}
	}
	return f.Sync()
}

// Load restores an index from a binary file created by Save().
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index file: %w", err)
	}
	defer f.Close()

	magicBuf := make([]byte, 8)
	if _, err := io.ReadFull(f, magicBuf); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if string(magicBuf) != magic {
		return nil, fmt.Errorf("invalid magic: %q (expected %q)", string(magicBuf), magic)
	}

	version, err := readInt32(f)
	if err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}
	if version != 1 {
		return nil, fmt.Errorf("unsupported version: %d", version)
	}
	dims, err := readInt32(f)
	if err != nil {
		return nil, err
	}
	count, err := readInt32(f)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		dims:    int(dims),
		ids:     make([]int64, 0, count),
		vectors: make([][]float32, 0, count),
		idToIdx: make(map[int64]int, count),
	}
	for i := int32(0); i < count; i++ {
		id, err := readInt64(f)
		if err != nil {
			return nil, fmt.Errorf("reading entry %d id: %w", i, err)
		}
		vec := make([]float32, dims)
		for d := int32(0); d < dims; d++ {
			v, err := readFloat32(f)
			if err != nil {
				return nil, fmt.Errorf("reading entry %d vector[%d]: %w", i, d, err)
			}
			vec[d] = v
		}
		idx.idToIdx[id] = len(idx.ids)
		idx.ids = append(idx.ids, id)
		idx.vectors = append(idx.vectors, vec)
	}
	return idx, nil
}

func writeInt32(w io.Writer, v int32) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func writeInt64(w io.Writer, v int64) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func writeFloat32(w io.Writer, v float32) error {
	return binary.Write(w, binary.LittleEndian, v)
}

func readInt32(r io.Reader) (int32, error) {
	var v int32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readInt64(r io.Reader) (int64, error) {
	var v int64
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readFloat32(r io.Reader) (float32, error) {
	var v float32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

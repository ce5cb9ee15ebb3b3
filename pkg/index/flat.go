package index

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/papercomputeco/policyqa/pkg/corpus"
)

const (
	flatMagic   = "PQFI"
	flatVersion = uint32(1)
	headerSize  = 4 + 4 + 8 + 8
)

// Flat is an exhaustive in-memory index. It is immutable after Build and safe
// for concurrent searches.
type Flat struct {
	dims int
	data []float32
}

// Build copies vectors into a Flat index. Every vector must have the same,
// non-zero length.
func Build(vectors [][]float32) (*Flat, error) {
	if len(vectors) == 0 {
		return nil, corpus.ErrEmptyCorpus
	}

	dims := len(vectors[0])
	if dims == 0 {
		return nil, fmt.Errorf("%w: zero-length vectors", ErrDimensionMismatch)
	}

	data := make([]float32, 0, len(vectors)*dims)
	for i, v := range vectors {
		if len(v) != dims {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, want %d", ErrDimensionMismatch, i, len(v), dims)
		}
		data = append(data, v...)
	}

	return &Flat{dims: dims, data: data}, nil
}

// Size is the number of indexed vectors.
func (f *Flat) Size() int {
	if f.dims == 0 {
		return 0
	}
	return len(f.data) / f.dims
}

// Dimension is the length of every indexed vector.
func (f *Flat) Dimension() int {
	return f.dims
}

// Vector returns a copy of the vector at position i.
func (f *Flat) Vector(i int) []float32 {
	return append([]float32(nil), f.data[i*f.dims:(i+1)*f.dims]...)
}

// Search scans every vector. Ties in distance keep the lower position first.
// A k larger than the index returns every vector.
func (f *Flat) Search(ctx context.Context, query []float32, k int) ([]Neighbor, error) {
	if len(query) != f.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", ErrDimensionMismatch, len(query), f.dims)
	}
	if k <= 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := f.Size()
	all := make([]Neighbor, n)
	for i := range n {
		row := f.data[i*f.dims : (i+1)*f.dims]
		var d float32
		for j, x := range row {
			diff := x - query[j]
			d += diff * diff
		}
		all[i] = Neighbor{Position: i, Distance: d}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Distance < all[j].Distance
	})

	return all[:min(k, n)], nil
}

// Close is a no-op.
func (f *Flat) Close() error {
	return nil
}

// MarshalBinary encodes the index as a fixed header followed by little-endian
// float32 rows.
func (f *Flat) MarshalBinary() ([]byte, error) {
	buf := make([]byte, headerSize+len(f.data)*4)
	copy(buf[0:4], flatMagic)
	binary.LittleEndian.PutUint32(buf[4:8], flatVersion)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(f.Size()))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(f.dims))

	for i, x := range f.data {
		binary.LittleEndian.PutUint32(buf[headerSize+i*4:], math.Float32bits(x))
	}
	return buf, nil
}

// UnmarshalBinary decodes data written by MarshalBinary.
func (f *Flat) UnmarshalBinary(b []byte) error {
	if len(b) < headerSize || string(b[0:4]) != flatMagic {
		return fmt.Errorf("%w: missing header", ErrCorrupt)
	}
	if v := binary.LittleEndian.Uint32(b[4:8]); v != flatVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}

	rows := binary.LittleEndian.Uint64(b[8:16])
	dims := binary.LittleEndian.Uint64(b[16:24])
	if dims == 0 || rows == 0 {
		return fmt.Errorf("%w: empty index", ErrCorrupt)
	}
	if dims > math.MaxInt/4 || rows > math.MaxInt/4/dims {
		return fmt.Errorf("%w: header declares %dx%d, too large", ErrCorrupt, rows, dims)
	}
	payload := b[headerSize:]
	if uint64(len(payload)) != rows*dims*4 {
		return fmt.Errorf("%w: payload is %d bytes, header declares %dx%d", ErrCorrupt, len(payload), rows, dims)
	}

	data := make([]float32, rows*dims)
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[i*4:]))
	}

	f.dims = int(dims)
	f.data = data
	return nil
}

var _ Searcher = (*Flat)(nil)

// Package weights reads and writes dense float32 weight matrices in a small
// binary format: magic "EMB1", uint32 rows, uint32 cols, then rows*cols
// float32 values, little-endian, row-major.
package weights

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
)

// ErrBadFormat indicates a structurally corrupt weight file.
var ErrBadFormat = errors.New("weights: bad file format")

var magic = [4]byte{'E', 'M', 'B', '1'}

// maxDim bounds a single matrix dimension so a corrupt header cannot
// trigger a huge allocation.
const maxDim = 1 << 24

// Read decodes a weight matrix, widening the stored float32 values to
// float64 for gonum.
func Read(r io.Reader) (*mat.Dense, error) {
	var hdr struct {
		Magic [4]byte
		Rows  uint32
		Cols  uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrBadFormat, err)
	}
	if hdr.Magic != magic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadFormat, hdr.Magic[:])
	}
	rows, cols := int(hdr.Rows), int(hdr.Cols)
	if rows == 0 || cols == 0 || rows > maxDim || cols > maxDim {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrBadFormat, rows, cols)
	}

	raw := make([]byte, 4*cols)
	data := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrBadFormat, i, err)
		}
		for j := 0; j < cols; j++ {
			bits := binary.LittleEndian.Uint32(raw[4*j:])
			data[i*cols+j] = float64(math.Float32frombits(bits))
		}
	}
	return mat.NewDense(rows, cols, data), nil
}

// ReadFile decodes a weight matrix from a file.
func ReadFile(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("weights: open %s: %w", path, err)
	}
	defer f.Close()
	m, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("weights: %s: %w", path, err)
	}
	return m, nil
}

// Write encodes a matrix in the format Read understands. Values are
// narrowed to float32, matching how the matrices were trained and stored.
func Write(w io.Writer, m *mat.Dense) error {
	rows, cols := m.Dims()
	hdr := struct {
		Magic [4]byte
		Rows  uint32
		Cols  uint32
	}{magic, uint32(rows), uint32(cols)}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	raw := make([]byte, 4*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			bits := math.Float32bits(float32(m.At(i, j)))
			binary.LittleEndian.PutUint32(raw[4*j:], bits)
		}
		if _, err := w.Write(raw); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile encodes a matrix to a file.
func WriteFile(path string, m *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("weights: create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := Write(bw, m); err != nil {
		f.Close()
		return fmt.Errorf("weights: %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("weights: %s: %w", path, err)
	}
	return f.Close()
}

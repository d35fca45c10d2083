// Package recording persists rendered frames as a compact binary stream so
// they can be replayed later against any surface.
//
// Layout: [Magic:4][Version:1][Width:8][Height:8] followed by frames of
// [Seq:8][Phase:8][DataLen:4][Data:N][Checksum:4], where Data is the
// snappy-compressed JSON command list and Checksum is CRC32 over Data.
package recording

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-riskgraph/pkg/draw"
	"github.com/dd0wney/cluso-riskgraph/pkg/layout"
)

// NewWriter writes the stream header for canvas and returns a Writer.
func NewWriter(w io.Writer, canvas layout.Canvas) (*Writer, error) {
	rw := &Writer{
		writer: bufio.NewWriter(w),
		canvas: canvas,
	}
	if err := rw.writeHeader(); err != nil {
		return nil, fmt.Errorf("failed to write recording header: %w", err)
	}
	return rw, nil
}

// Create creates (or truncates) a recording file. Close closes the file.
func Create(path string, canvas layout.Canvas) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording file: %w", err)
	}
	w, err := NewWriter(file, canvas)
	if err != nil {
		file.Close()
		return nil, err
	}
	w.closer = file
	return w, nil
}

func (w *Writer) writeHeader() error {
	if _, err := w.writer.Write(magic[:]); err != nil {
		return err
	}
	if err := w.writer.WriteByte(version); err != nil {
		return err
	}
	if err := binary.Write(w.writer, binary.BigEndian, math.Float64bits(w.canvas.Width)); err != nil {
		return err
	}
	return binary.Write(w.writer, binary.BigEndian, math.Float64bits(w.canvas.Height))
}

// WriteFrame appends one frame and returns its sequence number.
func (w *Writer) WriteFrame(phase float64, cmds []draw.Command) (uint64, error) {
	data, err := json.Marshal(cmds)
	if err != nil {
		return 0, fmt.Errorf("failed to encode frame: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	seq := w.seq + 1
	compressed := snappy.Encode(nil, data)

	if err := w.writeFrame(seq, phase, compressed); err != nil {
		return 0, fmt.Errorf("failed to write frame: %w", err)
	}

	w.seq = seq
	w.frames++
	w.bytesUncompressed += uint64(len(data))
	w.bytesCompressed += uint64(len(compressed))
	return seq, nil
}

func (w *Writer) writeFrame(seq uint64, phase float64, data []byte) error {
	if err := binary.Write(w.writer, binary.BigEndian, seq); err != nil {
		return err
	}
	if err := binary.Write(w.writer, binary.BigEndian, math.Float64bits(phase)); err != nil {
		return err
	}
	if err := binary.Write(w.writer, binary.BigEndian, uint32(len(data))); err != nil {
		return err
	}
	if _, err := w.writer.Write(data); err != nil {
		return err
	}
	return binary.Write(w.writer, binary.BigEndian, crc32.ChecksumIEEE(data))
}

// Flush writes buffered frames to the underlying stream.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writer.Flush()
}

// Close flushes and, for writers from Create, closes the file.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// Stats returns compression statistics
func (w *Writer) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()

	ratio := 0.0
	if w.bytesUncompressed > 0 {
		ratio = 1.0 - float64(w.bytesCompressed)/float64(w.bytesUncompressed)
	}
	return Stats{
		Frames:            w.frames,
		BytesUncompressed: w.bytesUncompressed,
		BytesCompressed:   w.bytesCompressed,
		CompressionRatio:  ratio,
	}
}

package recording

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-riskgraph/pkg/draw"
	"github.com/dd0wney/cluso-riskgraph/pkg/layout"
)

// maxFrameSize bounds a single compressed payload.
const maxFrameSize = 64 << 20

// NewReader validates the stream header.
func NewReader(r io.Reader) (*Reader, error) {
	reader := bufio.NewReader(r)

	var head [5]byte
	if _, err := io.ReadFull(reader, head[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadHeader, err)
	}
	if [4]byte(head[:4]) != magic || head[4] != version {
		return nil, ErrBadHeader
	}

	var w, h uint64
	if err := binary.Read(reader, binary.BigEndian, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadHeader, err)
	}
	if err := binary.Read(reader, binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadHeader, err)
	}

	return &Reader{
		reader: reader,
		canvas: layout.Canvas{Width: math.Float64frombits(w), Height: math.Float64frombits(h)},
	}, nil
}

// Canvas returns the canvas the frames were drawn for.
func (r *Reader) Canvas() layout.Canvas { return r.canvas }

// Next reads the next frame. It returns io.EOF after the last frame and
// io.ErrUnexpectedEOF for a truncated one.
func (r *Reader) Next() (Frame, error) {
	var f Frame

	if err := binary.Read(r.reader, binary.BigEndian, &f.Seq); err != nil {
		return Frame{}, err
	}

	var phaseBits uint64
	if err := binary.Read(r.reader, binary.BigEndian, &phaseBits); err != nil {
		return Frame{}, unexpected(err)
	}
	f.Phase = math.Float64frombits(phaseBits)

	var dataLen uint32
	if err := binary.Read(r.reader, binary.BigEndian, &dataLen); err != nil {
		return Frame{}, unexpected(err)
	}
	if dataLen > maxFrameSize {
		return Frame{}, fmt.Errorf("frame %d: payload of %d bytes exceeds limit", f.Seq, dataLen)
	}

	compressed := make([]byte, dataLen)
	if _, err := io.ReadFull(r.reader, compressed); err != nil {
		return Frame{}, unexpected(err)
	}

	var checksum uint32
	if err := binary.Read(r.reader, binary.BigEndian, &checksum); err != nil {
		return Frame{}, unexpected(err)
	}
	if crc32.ChecksumIEEE(compressed) != checksum {
		return Frame{}, fmt.Errorf("%w for frame %d", ErrChecksumMismatch, f.Seq)
	}

	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to decompress frame %d: %w", f.Seq, err)
	}
	if err := json.Unmarshal(data, &f.Commands); err != nil {
		return Frame{}, fmt.Errorf("failed to decode frame %d: %w", f.Seq, err)
	}
	return f, nil
}

// ReadAll reads every remaining frame.
func (r *Reader) ReadAll() ([]Frame, error) {
	frames := make([]Frame, 0)
	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
	}
}

// ReplayAll replays every frame in stream onto s and returns how many were
// drawn.
func ReplayAll(stream io.Reader, s draw.Surface) (int, error) {
	r, err := NewReader(stream)
	if err != nil {
		return 0, err
	}
	n := 0
	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if err := draw.Replay(s, r.canvas, f.Commands); err != nil {
			return n, fmt.Errorf("replay frame %d: %w", f.Seq, err)
		}
		n++
	}
}

// ReplayFile is ReplayAll over a file.
func ReplayFile(path string, s draw.Surface) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	return ReplayAll(file, s)
}

func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

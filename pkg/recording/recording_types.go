package recording

import (
	"bufio"
	"errors"
	"io"
	"sync"

	"github.com/dd0wney/cluso-riskgraph/pkg/draw"
	"github.com/dd0wney/cluso-riskgraph/pkg/layout"
)

var (
	// ErrChecksumMismatch is returned when a frame's payload fails its CRC.
	ErrChecksumMismatch = errors.New("recording: checksum mismatch")
	// ErrBadHeader is returned for streams that are not recordings.
	ErrBadHeader = errors.New("recording: bad header")
)

// magic opens every recording, followed by a version byte.
var magic = [4]byte{'R', 'G', 'R', 'C'}

const version = 1

// Writer appends snappy-compressed frames to a stream.
type Writer struct {
	writer *bufio.Writer
	closer io.Closer
	canvas layout.Canvas
	seq    uint64
	mu     sync.Mutex

	// Statistics
	frames            uint64
	bytesUncompressed uint64
	bytesCompressed   uint64
}

// Stats holds compression statistics
type Stats struct {
	Frames            uint64
	BytesUncompressed uint64
	BytesCompressed   uint64
	CompressionRatio  float64 // e.g., 0.75 = 75% smaller
}

// Frame is one recorded draw pass.
type Frame struct {
	Seq      uint64
	Phase    float64
	Commands []draw.Command
}

// Reader reads frames written by Writer.
type Reader struct {
	reader *bufio.Reader
	canvas layout.Canvas
}

package recording

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-riskgraph/pkg/draw"
	"github.com/dd0wney/cluso-riskgraph/pkg/layout"
	"github.com/dd0wney/cluso-riskgraph/pkg/model"
	"github.com/dd0wney/cluso-riskgraph/pkg/riskcolor"
)

func flowGraph(t *testing.T) layout.PositionedGraph {
	t.Helper()
	m, err := model.NewFlowModel([]model.Step{
		{ID: "a", Label: "Wallet", Category: model.StepUser},
		{ID: "b", Label: "DEX", Category: model.StepDEX},
		{ID: "c", Label: "Pool", Category: model.StepContract},
	}, []model.Transfer{
		{ID: "t1", From: "a", To: "b", Amount: 1, Category: model.TransferSend},
		{ID: "t2", From: "b", To: "c", Amount: 2, Category: model.TransferStake},
	})
	require.NoError(t, err)
	return layout.ComputeFlowLayout(m, layout.DefaultFlowCanvas)
}

func record(t *testing.T, phases ...float64) (*bytes.Buffer, [][]draw.Command) {
	t.Helper()
	pg := flowGraph(t)
	palette := riskcolor.DefaultPalette()

	var buf bytes.Buffer
	w, err := NewWriter(&buf, pg.Canvas)
	require.NoError(t, err)

	var frames [][]draw.Command
	for i, p := range phases {
		cmds := draw.BuildDrawCommands(pg, p, palette)
		seq, err := w.WriteFrame(p, cmds)
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), seq)
		frames = append(frames, cmds)
	}
	require.NoError(t, w.Close())
	return &buf, frames
}

func TestWriteRead(t *testing.T) {
	buf, want := record(t, 0, 0.25, 0.5)

	r, err := NewReader(buf)
	require.NoError(t, err)
	assert.Equal(t, layout.DefaultFlowCanvas, r.Canvas())

	frames, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, frames, 3)
	for i, f := range frames {
		assert.Equal(t, uint64(i+1), f.Seq)
		assert.Equal(t, want[i], f.Commands)
	}
	assert.Equal(t, 0.25, frames[1].Phase)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestStats(t *testing.T) {
	pg := flowGraph(t)
	w, err := NewWriter(io.Discard, pg.Canvas)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := w.WriteFrame(0, draw.BuildDrawCommands(pg, 0, riskcolor.DefaultPalette()))
		require.NoError(t, err)
	}
	stats := w.Stats()
	assert.Equal(t, uint64(5), stats.Frames)
	assert.Less(t, stats.BytesCompressed, stats.BytesUncompressed)
	assert.Greater(t, stats.CompressionRatio, 0.0)
}

func TestChecksumMismatch(t *testing.T) {
	buf, _ := record(t, 0.1)
	data := buf.Bytes()
	data[len(data)-6] ^= 0xff // inside the payload

	r, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	_, err = r.Next()
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestTruncatedFrame(t *testing.T) {
	buf, _ := record(t, 0.1)
	data := buf.Bytes()

	r, err := NewReader(bytes.NewReader(data[:len(data)-2]))
	require.NoError(t, err)
	_, err = r.Next()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestBadHeader(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("NOPE!")))
	assert.ErrorIs(t, err, ErrBadHeader)

	_, err = NewReader(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrBadHeader)
}

func TestReplayAll(t *testing.T) {
	buf, want := record(t, 0, 0.5)

	rec := draw.NewRecorder()
	n, err := ReplayAll(bytes.NewReader(buf.Bytes()), rec)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, layout.DefaultFlowCanvas, rec.Canvas())

	// A recording replayed twice draws identical frames.
	again := draw.NewRecorder()
	_, err = ReplayAll(bytes.NewReader(buf.Bytes()), again)
	require.NoError(t, err)
	assert.Equal(t, rec.Frames(), again.Frames())
	assert.Len(t, rec.Frames()[1], len(want[1]))
}

func TestCreateAndReplayFile(t *testing.T) {
	pg := flowGraph(t)
	path := filepath.Join(t.TempDir(), "flow.rgrc")

	w, err := Create(path, pg.Canvas)
	require.NoError(t, err)
	_, err = w.WriteFrame(0.3, draw.BuildDrawCommands(pg, 0.3, riskcolor.DefaultPalette()))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	n, err := ReplayFile(path, draw.NewRecorder())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = ReplayFile(filepath.Join(t.TempDir(), "missing"), draw.NewRecorder())
	assert.Error(t, err)
}

type brokenSurface struct{ *draw.Recorder }

func (brokenSurface) Flush() error { return errors.New("disk full") }

func TestReplayAllSurfaceError(t *testing.T) {
	buf, _ := record(t, 0)
	n, err := ReplayAll(buf, brokenSurface{draw.NewRecorder()})
	assert.Zero(t, n)
	assert.ErrorContains(t, err, "disk full")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestFailedFrameLeavesStatsUntouched(t *testing.T) {
	pg := flowGraph(t)
	w := &Writer{writer: bufio.NewWriterSize(failingWriter{}, 16), canvas: pg.Canvas}

	_, err := w.WriteFrame(0.1, draw.BuildDrawCommands(pg, 0.1, riskcolor.DefaultPalette()))
	require.Error(t, err)

	st := w.Stats()
	assert.Zero(t, st.Frames)
	assert.Zero(t, st.BytesUncompressed)
	assert.Zero(t, st.BytesCompressed)
}

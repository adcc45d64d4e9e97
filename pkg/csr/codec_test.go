package csr

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleGraph is the 3-node graph 0->1, 1->0, 1->2, 2->0.
func sampleGraph() *Graph {
	return &Graph{
		NodeCount: 3,
		EdgeCount: 4,
		Offsets:   []int64{0, 1, 3, 4},
		Adjacency: []int64{1, 0, 2, 0},
	}
}

func words(vals ...int64) []byte {
	buf := make([]byte, len(vals)*WordSize)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[i*WordSize:], uint64(v))
	}
	return buf
}

func TestEncodeLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleGraph()))

	want := words(3, 4, 0, 1, 3, 4, 1, 0, 2, 0)
	assert.Equal(t, want, buf.Bytes())
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		graph *Graph
	}{
		{"unweighted", sampleGraph()},
		{"weighted", func() *Graph {
			g := sampleGraph()
			g.Weights = []int64{7, -2, 0, 9}
			return g
		}()},
		{"single isolated node", &Graph{NodeCount: 1, EdgeCount: 0, Offsets: []int64{0, 0}, Adjacency: []int64{}}},
		{"isolated tail", &Graph{
			NodeCount: 5,
			EdgeCount: 2,
			Offsets:   []int64{0, 1, 2, 2, 2, 2},
			Adjacency: []int64{1, 0},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, tt.graph))

			got, err := Decode(&buf)
			require.NoError(t, err)
			assert.True(t, tt.graph.Equal(got), "decoded graph differs: %+v", got)
			assert.Equal(t, tt.graph.HasWeights(), got.HasWeights())
			assert.NoError(t, got.Validate())
		})
	}
}

func TestDecodeLargeArraysAcrossChunks(t *testing.T) {
	n := int64(3*chunkWords + 17)
	g := &Graph{NodeCount: n, EdgeCount: n - 1, Offsets: make([]int64, n+1), Adjacency: make([]int64, n-1)}
	// path graph 0->1->2->...
	for u := int64(0); u < n; u++ {
		g.Offsets[u+1] = min(u+1, n-1)
	}
	for u := int64(0); u < n-1; u++ {
		g.Adjacency[u] = u + 1
	}
	require.NoError(t, g.Validate())

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, g))
	assert.Equal(t, int((2+n+1+n-1)*WordSize), buf.Len())

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.True(t, g.Equal(got))
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantErr error
	}{
		{"empty input", nil, ErrTruncatedInput},
		{"half a header", words(3)[:5], ErrTruncatedInput},
		{"zero nodes", words(0, 0, 0), ErrInvalidCounts},
		{"negative nodes", words(-4, 0), ErrInvalidCounts},
		{"negative edges", words(3, -1), ErrInvalidCounts},
		{"max nodes", words(1<<63-1, 0), ErrInvalidCounts},
		{"short offsets", words(3, 4, 0, 1, 3), ErrTruncatedInput},
		{"short adjacency", words(3, 4, 0, 1, 3, 4, 1, 0), ErrTruncatedInput},
		{"partial weights", words(3, 4, 0, 1, 3, 4, 1, 0, 2, 0, 5, 5), ErrTruncatedInput},
		{"partial weight word", append(words(3, 4, 0, 1, 3, 4, 1, 0, 2, 0), 1, 2, 3), ErrTruncatedInput},
		{"huge declared edge count", words(2, 1<<40, 0, 0, 0), ErrTruncatedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeWeightsAbsentVersusPresent(t *testing.T) {
	base := words(3, 4, 0, 1, 3, 4, 1, 0, 2, 0)

	g, err := Decode(bytes.NewReader(base))
	require.NoError(t, err)
	assert.False(t, g.HasWeights())
	assert.Nil(t, g.EdgeWeights(1))

	withWeights := append(append([]byte{}, base...), words(1, 2, 3, 4)...)
	g, err = Decode(bytes.NewReader(withWeights))
	require.NoError(t, err)
	require.True(t, g.HasWeights())
	assert.Equal(t, []int64{2, 3}, g.EdgeWeights(1))

	// trailing bytes after a full weight array are not read
	trailing := append(append([]byte{}, withWeights...), 0xff, 0xff)
	g, err = Decode(bytes.NewReader(trailing))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, g.Weights)
}

func TestEncodeRejectsBadGraphs(t *testing.T) {
	tests := []struct {
		name  string
		graph *Graph
	}{
		{"nil", nil},
		{"zero nodes", &Graph{NodeCount: 0, Offsets: []int64{0}}},
		{"negative edges", &Graph{NodeCount: 1, EdgeCount: -1, Offsets: []int64{0, 0}}},
		{"offset length", &Graph{NodeCount: 2, EdgeCount: 0, Offsets: []int64{0, 0}}},
		{"adjacency length", &Graph{NodeCount: 1, EdgeCount: 1, Offsets: []int64{0, 1}}},
		{"weight length", &Graph{NodeCount: 2, EdgeCount: 1, Offsets: []int64{0, 1, 1}, Adjacency: []int64{1}, Weights: []int64{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Encode(&buf, tt.graph)
			assert.ErrorIs(t, err, ErrInvalidCounts)
			assert.Zero(t, buf.Len())
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

type failingReader struct{ data []byte }

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, errors.New("device gone")
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestIOFailures(t *testing.T) {
	err := Encode(failingWriter{}, sampleGraph())
	assert.ErrorIs(t, err, ErrIOFailure)

	_, err = Decode(&failingReader{data: words(3, 4, 0, 1)})
	assert.ErrorIs(t, err, ErrIOFailure)
	assert.NotErrorIs(t, err, ErrTruncatedInput)
}

func TestReadHeader(t *testing.T) {
	h, err := ReadHeader(bytes.NewReader(words(6, 2, 0)))
	require.NoError(t, err)
	assert.Equal(t, Header{NodeCount: 6, EdgeCount: 2}, h)

	_, err = ReadHeader(bytes.NewReader(words(0, 2)))
	assert.ErrorIs(t, err, ErrInvalidCounts)
}

func TestWriteFileReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "graph.egr")

	g := sampleGraph()
	g.Weights = []int64{1, 1, 1, 1}
	require.NoError(t, WriteFile(path, g))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.True(t, g.Equal(got))

	h, err := ReadFileHeader(path)
	require.NoError(t, err)
	assert.Equal(t, Header{NodeCount: 3, EdgeCount: 4}, h)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestWriteFileFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.egr")

	err := WriteFile(path, &Graph{NodeCount: 0})
	require.ErrorIs(t, err, ErrInvalidCounts)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.egr"))
	assert.ErrorIs(t, err, ErrIOFailure)
}

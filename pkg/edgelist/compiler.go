package edgelist

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gilchrisn/edgelist-csr/pkg/csr"
	"github.com/rs/zerolog"
)

const (
	// MaxNodeID is the largest node id accepted in an edge list.
	MaxNodeID = math.MaxInt32

	// MaxEdges is the largest edge count, after deduplication, this compiler builds.
	MaxEdges = math.MaxInt32

	maxLineBytes     = 1 << 20
	cancelCheckEvery = 1 << 16
)

// Result represents the compiler output
type Result struct {
	Graph      *csr.Graph `json:"graph"`
	Statistics Statistics `json:"statistics"`
}

// Statistics describes what the compiler read and dropped
type Statistics struct {
	LinesRead      int64 `json:"lines_read"`
	BlankOrComment int64 `json:"blank_or_comment"`
	Unparsable     int64 `json:"unparsable"`
	SelfLoops      int64 `json:"self_loops"`
	Records        int64 `json:"records"` // includes mirrored records when symmetrizing
	Duplicates     int64 `json:"duplicates"`
	Symmetrized    bool  `json:"symmetrized"`
	Rebased        bool  `json:"rebased"`
	MinID          int64 `json:"min_id"` // after rebasing
	MaxID          int64 `json:"max_id"` // after rebasing
	RuntimeMS      int64 `json:"runtime_ms"`
}

// edge is a directed (src, dst) pair.
type edge struct {
	src, dst int64
}

func compareEdges(a, b edge) int {
	if c := cmp.Compare(a.src, b.src); c != 0 {
		return c
	}
	return cmp.Compare(a.dst, b.dst)
}

type lineKind int

const (
	lineEdge lineKind = iota
	lineBlank
	lineUnparsable
)

// CompileFile compiles the edge list stored at path.
func CompileFile(ctx context.Context, path string, config *Config) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", csr.ErrIOFailure, path, err)
	}
	defer f.Close()

	return Compile(ctx, f, config)
}

// Compile reads a text edge list from r and builds its canonical CSR graph:
// self-loops dropped, optionally symmetrized, 1-based ids rebased to 0,
// duplicate edges removed and each node's neighbors in ascending order.
func Compile(ctx context.Context, r io.Reader, config *Config) (*Result, error) {
	startTime := time.Now()
	logger := config.CreateLogger()

	result := &Result{}
	stats := &result.Statistics
	stats.Symmetrized = config.Symmetrize()

	logger.Info().
		Bool("symmetrize", stats.Symmetrized).
		Msg("Starting edge list compilation")

	edges, minID, maxID, err := scan(ctx, r, config, stats, logger)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, ErrEmptyGraph
	}

	// Heuristic: a minimum id of 1 is taken to mean a 1-based file. A 0-based
	// file that happens not to use node 0 is shifted as well.
	if minID == 1 {
		for i := range edges {
			edges[i].src--
			edges[i].dst--
		}
		minID, maxID = 0, maxID-1
		stats.Rebased = true
		logger.Debug().Msg("Minimum id is 1, rebased ids to 0")
	}
	if minID < 0 {
		return nil, fmt.Errorf("%w: minimum id %d after rebasing", ErrInvalidNodeRange, minID)
	}
	stats.MinID, stats.MaxID = minID, maxID

	slices.SortFunc(edges, compareEdges)
	unique := slices.Compact(edges)
	stats.Duplicates = int64(len(edges) - len(unique))
	logger.Debug().
		Int("records", len(edges)).
		Int64("duplicates", stats.Duplicates).
		Msg("Sorted and deduplicated edges")

	g, err := buildCSR(unique, maxID+1, MaxEdges)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	stats.RuntimeMS = time.Since(startTime).Milliseconds()

	logger.Info().
		Int64("nodes", g.NodeCount).
		Int64("edges", g.EdgeCount).
		Int64("self_loops", stats.SelfLoops).
		Int64("duplicates", stats.Duplicates).
		Bool("rebased", stats.Rebased).
		Int64("runtime_ms", stats.RuntimeMS).
		Msg("Edge list compilation completed")

	return result, nil
}

// scan reads every line of r and returns the accepted edge records along with
// the smallest and largest id seen on them.
func scan(ctx context.Context, r io.Reader, config *Config, stats *Statistics, logger zerolog.Logger) (edges []edge, minID, maxID int64, err error) {
	symmetrize := config.Symmetrize()
	prefix := config.CommentPrefix()
	progressEvery := int64(config.ProgressIntervalLines())

	minID, maxID = math.MaxInt64, -1

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lineNo int64
	for sc.Scan() {
		lineNo++
		stats.LinesRead++

		if lineNo%cancelCheckEvery == 0 {
			select {
			case <-ctx.Done():
				return nil, 0, 0, ctx.Err()
			default:
			}
		}
		if progressEvery > 0 && lineNo%progressEvery == 0 {
			logger.Info().
				Int64("lines", lineNo).
				Int("records", len(edges)).
				Msg("Reading edge list")
		}

		text := sc.Text()
		u, v, kind, err := parseLine(text, prefix)
		if err != nil {
			logger.Warn().Int64("line", lineNo).Err(err).Msg("Aborting on malformed edge")
			return nil, 0, 0, &LineError{Line: int(lineNo), Text: text, Wrapped: err}
		}
		switch kind {
		case lineBlank:
			stats.BlankOrComment++
			continue
		case lineUnparsable:
			stats.Unparsable++
			continue
		}

		if u == v {
			stats.SelfLoops++
			continue
		}

		minID = min(minID, u, v)
		maxID = max(maxID, u, v)

		edges = append(edges, edge{u, v})
		if symmetrize {
			edges = append(edges, edge{v, u})
		}
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, 0, 0, &LineError{
				Line:    int(lineNo + 1),
				Text:    "",
				Wrapped: fmt.Errorf("%w: line longer than %d bytes", ErrMalformedInput, maxLineBytes),
			}
		}
		return nil, 0, 0, fmt.Errorf("%w: read edge list: %w", csr.ErrIOFailure, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, 0, 0, err
	}

	stats.Records = int64(len(edges))
	return edges, minID, maxID, nil
}

// parseLine extracts the two node ids of an edge line. Lines whose first two
// fields are not integers are reported as unparsable; ids that are integers
// but negative or too large are an error.
func parseLine(line, commentPrefix string) (u, v int64, kind lineKind, err error) {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	if trimmed == "" || (commentPrefix != "" && strings.HasPrefix(trimmed, commentPrefix)) {
		return 0, 0, lineBlank, nil
	}

	fields := strings.Fields(trimmed)
	if len(fields) < 2 {
		return 0, 0, lineUnparsable, nil
	}

	var ids [2]int64
	for i := range ids {
		id, err := strconv.ParseInt(fields[i], 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return 0, 0, lineEdge, fmt.Errorf("%w: node id %s out of range", ErrMalformedInput, fields[i])
			}
			return 0, 0, lineUnparsable, nil
		}
		ids[i] = id
	}

	for _, id := range ids {
		if id < 0 {
			return 0, 0, lineEdge, fmt.Errorf("%w: negative node id %d", ErrMalformedInput, id)
		}
		if id > MaxNodeID {
			return 0, 0, lineEdge, fmt.Errorf("%w: node id %d exceeds %d", ErrMalformedInput, id, MaxNodeID)
		}
	}
	return ids[0], ids[1], lineEdge, nil
}

// buildCSR lays out sorted, deduplicated edges as a CSR graph with nodeCount nodes.
func buildCSR(edges []edge, nodeCount int64, maxEdges int64) (*csr.Graph, error) {
	edgeCount := int64(len(edges))
	if edgeCount > maxEdges {
		return nil, fmt.Errorf("%w: %d edges exceed the limit of %d; a streaming converter is needed for larger graphs",
			ErrTooManyEdges, edgeCount, maxEdges)
	}

	// Degree count
	offsets := make([]int64, nodeCount+1)
	for _, e := range edges {
		if e.src < 0 || e.src >= nodeCount {
			return nil, fmt.Errorf("%w: source %d outside [0, %d)", ErrInternalInvariant, e.src, nodeCount)
		}
		offsets[e.src+1]++
	}

	// Prefix sum
	for i := int64(1); i <= nodeCount; i++ {
		offsets[i] += offsets[i-1]
	}

	// Fill adjacency, one write cursor per node
	adjacency := make([]int64, edgeCount)
	cursor := slices.Clone(offsets[:nodeCount])
	for _, e := range edges {
		pos := cursor[e.src]
		if pos >= offsets[e.src+1] {
			return nil, fmt.Errorf("%w: node %d overflows its adjacency range", ErrInternalInvariant, e.src)
		}
		adjacency[pos] = e.dst
		cursor[e.src]++
	}

	for k, dst := range adjacency {
		if dst < 0 || dst >= nodeCount {
			return nil, fmt.Errorf("%w: adjacency[%d] = %d outside [0, %d)", ErrInternalInvariant, k, dst, nodeCount)
		}
	}

	g := &csr.Graph{
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
		Offsets:   offsets,
		Adjacency: adjacency,
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternalInvariant, err)
	}
	return g, nil
}

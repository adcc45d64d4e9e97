package csr

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

/*
Binary layout, every field a little-endian int64:

	node_count
	edge_count
	offsets[node_count+1]
	adjacency[edge_count]
	edge_weight[edge_count]   present iff bytes remain after adjacency
*/

// WordSize is the width in bytes of every integer in the format.
const WordSize = 8

// chunkWords bounds how many words are buffered or preallocated at once, so a
// forged count in a short file cannot trigger a huge allocation.
const chunkWords = 1 << 13

var byteOrder = binary.LittleEndian

// Header holds the two leading counts of a graph file.
type Header struct {
	NodeCount int64 `json:"node_count"`
	EdgeCount int64 `json:"edge_count"`
}

// Encode writes g to w. Weights are written only when g.HasWeights().
func Encode(w io.Writer, g *Graph) error {
	if g == nil {
		return fmt.Errorf("%w: graph cannot be nil", ErrInvalidCounts)
	}
	if err := g.checkLengths(); err != nil {
		return err
	}

	bw := bufio.NewWriterSize(w, chunkWords*WordSize)
	if err := writeWords(bw, []int64{g.NodeCount, g.EdgeCount}); err != nil {
		return fmt.Errorf("write counts: %w", err)
	}
	if err := writeWords(bw, g.Offsets); err != nil {
		return fmt.Errorf("write offsets: %w", err)
	}
	if err := writeWords(bw, g.Adjacency); err != nil {
		return fmt.Errorf("write adjacency: %w", err)
	}
	if g.HasWeights() {
		if err := writeWords(bw, g.Weights); err != nil {
			return fmt.Errorf("write edge weights: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: flush: %w", ErrIOFailure, err)
	}
	return nil
}

// ReadHeader reads only the two counts and validates them.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [2 * WordSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, fmt.Errorf("read counts: %w", readErr(err))
	}
	h := Header{
		NodeCount: int64(byteOrder.Uint64(buf[:WordSize])),
		EdgeCount: int64(byteOrder.Uint64(buf[WordSize:])),
	}
	if err := checkCounts(h.NodeCount, h.EdgeCount); err != nil {
		return Header{}, err
	}
	return h, nil
}

// Decode reads a graph from r. A missing weight array yields a graph without
// weights; a partial one is ErrTruncatedInput. Bytes after a complete weight
// array are not read.
func Decode(r io.Reader) (*Graph, error) {
	br := bufio.NewReaderSize(r, chunkWords*WordSize)

	h, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}

	g := &Graph{NodeCount: h.NodeCount, EdgeCount: h.EdgeCount}

	if g.Offsets, err = readWords(br, h.NodeCount+1); err != nil {
		return nil, fmt.Errorf("read offsets: %w", err)
	}
	if g.Adjacency, err = readWords(br, h.EdgeCount); err != nil {
		return nil, fmt.Errorf("read adjacency: %w", err)
	}

	if _, err := br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return g, nil
		}
		return nil, fmt.Errorf("read edge weights: %w", readErr(err))
	}
	if g.Weights, err = readWords(br, h.EdgeCount); err != nil {
		return nil, fmt.Errorf("read edge weights: %w", err)
	}
	return g, nil
}

func writeWords(w io.Writer, vals []int64) error {
	buf := make([]byte, min(len(vals), chunkWords)*WordSize)
	for len(vals) > 0 {
		n := min(len(vals), chunkWords)
		for i, v := range vals[:n] {
			byteOrder.PutUint64(buf[i*WordSize:], uint64(v))
		}
		if _, err := w.Write(buf[:n*WordSize]); err != nil {
			return fmt.Errorf("%w: %w", ErrIOFailure, err)
		}
		vals = vals[n:]
	}
	return nil
}

// readWords reads exactly count words, growing the result chunk by chunk.
func readWords(r io.Reader, count int64) ([]int64, error) {
	vals := make([]int64, 0, min(count, chunkWords))
	buf := make([]byte, min(count, chunkWords)*WordSize)
	for remaining := count; remaining > 0; {
		n := min(remaining, chunkWords)
		if _, err := io.ReadFull(r, buf[:n*WordSize]); err != nil {
			return nil, fmt.Errorf("%d of %d words: %w", count-remaining, count, readErr(err))
		}
		for i := int64(0); i < n; i++ {
			vals = append(vals, int64(byteOrder.Uint64(buf[i*WordSize:])))
		}
		remaining -= n
	}
	return vals, nil
}

// readErr classifies a read error as truncation or an underlying I/O failure.
func readErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrTruncatedInput, err)
	}
	return fmt.Errorf("%w: %w", ErrIOFailure, err)
}

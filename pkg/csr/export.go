package csr

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// SaveEdgeList writes g as text to outputPath.
// Format is determined by file extension: .csv, anything else is an edge list
func SaveEdgeList(g *Graph, outputPath string) error {
	if g == nil {
		return fmt.Errorf("%w: graph cannot be nil", ErrInvalidCounts)
	}
	if err := g.checkLengths(); err != nil {
		return err
	}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create directory: %w", ErrIOFailure, err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("%w: create file: %w", ErrIOFailure, err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".csv":
		err = WriteCSV(file, g)
	default:
		err = WriteEdgeList(file, g)
	}
	if err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIOFailure, outputPath, err)
	}
	return nil
}

// WriteEdgeList writes a "# nodes edges" comment line, then one
// "source destination [weight]" line per edge, grouped by source.
func WriteEdgeList(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "# %d %d\n", g.NodeCount, g.EdgeCount); err != nil {
		return fmt.Errorf("%w: write header: %w", ErrIOFailure, err)
	}

	var line []byte
	for u := int64(0); u < g.NodeCount; u++ {
		start, end := g.EdgeRange(u)
		for k := start; k < end; k++ {
			line = strconv.AppendInt(line[:0], u, 10)
			line = append(line, ' ')
			line = strconv.AppendInt(line, g.Adjacency[k], 10)
			if g.HasWeights() {
				line = append(line, ' ')
				line = strconv.AppendInt(line, g.Weights[k], 10)
			}
			line = append(line, '\n')
			if _, err := bw.Write(line); err != nil {
				return fmt.Errorf("%w: write edge: %w", ErrIOFailure, err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: flush: %w", ErrIOFailure, err)
	}
	return nil
}

// WriteCSV writes CSV with header: source,target[,weight]
func WriteCSV(w io.Writer, g *Graph) error {
	writer := csv.NewWriter(w)

	header := []string{"source", "target"}
	if g.HasWeights() {
		header = append(header, "weight")
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("%w: write CSV header: %w", ErrIOFailure, err)
	}

	record := make([]string, len(header))
	for u := int64(0); u < g.NodeCount; u++ {
		start, end := g.EdgeRange(u)
		for k := start; k < end; k++ {
			record[0] = strconv.FormatInt(u, 10)
			record[1] = strconv.FormatInt(g.Adjacency[k], 10)
			if g.HasWeights() {
				record[2] = strconv.FormatInt(g.Weights[k], 10)
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("%w: write CSV record: %w", ErrIOFailure, err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: flush CSV: %w", ErrIOFailure, err)
	}
	return nil
}

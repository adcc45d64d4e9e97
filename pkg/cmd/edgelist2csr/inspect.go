package main

import (
	"fmt"

	"github.com/gilchrisn/edgelist-csr/pkg/csr"
	"github.com/spf13/cobra"
)

func (a *app) inspectCmd() *cobra.Command {
	var (
		headerOnly bool
		limit      int64
	)

	cmd := &cobra.Command{
		Use:   "inspect <graph.egr>",
		Short: "Decode and validate a CSR graph file and print its first vertices",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			config, err := a.loadConfig()
			if err != nil {
				return err
			}
			logger := config.CreateLogger()

			if headerOnly {
				h, err := csr.ReadFileHeader(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Nodes:   %d\n", h.NodeCount)
				fmt.Fprintf(a.stdout, "Edges:   %d\n", h.EdgeCount)
				return nil
			}

			g, err := csr.ReadFile(path)
			if err != nil {
				return err
			}
			if err := g.Validate(); err != nil {
				return fmt.Errorf("validate %s: %w", path, err)
			}
			logger.Debug().Str("path", path).Msg("Graph is valid")

			weights := "absent"
			if g.HasWeights() {
				weights = "present"
			}
			fmt.Fprintf(a.stdout, "Nodes:   %d\n", g.NodeCount)
			fmt.Fprintf(a.stdout, "Edges:   %d\n", g.EdgeCount)
			fmt.Fprintf(a.stdout, "Weights: %s\n", weights)

			for u := int64(0); u < min(limit, g.NodeCount); u++ {
				fmt.Fprintf(a.stdout, "Vertex %3d has %2d neighbors: %v\n", u, g.Degree(u), g.Neighbors(u))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&headerOnly, "header", false, "read only the node and edge counts")
	cmd.Flags().Int64Var(&limit, "limit", 5, "number of vertices to print")
	return cmd
}

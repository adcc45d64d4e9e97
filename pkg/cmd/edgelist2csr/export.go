package main

import (
	"fmt"

	"github.com/gilchrisn/edgelist-csr/pkg/csr"
	"github.com/spf13/cobra"
)

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <graph.egr> <output.{txt,edgelist,csv}>",
		Short: "Write a CSR graph file back out as a text edge list or CSV",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inPath, outPath := args[0], args[1]

			config, err := a.loadConfig()
			if err != nil {
				return err
			}
			logger := config.CreateLogger()

			g, err := csr.ReadFile(inPath)
			if err != nil {
				return err
			}
			if err := g.Validate(); err != nil {
				return fmt.Errorf("validate %s: %w", inPath, err)
			}
			if err := csr.SaveEdgeList(g, outPath); err != nil {
				return fmt.Errorf("export %s: %w", outPath, err)
			}

			logger.Info().
				Int64("nodes", g.NodeCount).
				Int64("edges", g.EdgeCount).
				Str("output", outPath).
				Msg("Graph exported")
			return nil
		},
	}
}

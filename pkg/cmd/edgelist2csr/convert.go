package main

import (
	"encoding/json"
	"fmt"

	"github.com/gilchrisn/edgelist-csr/pkg/csr"
	"github.com/gilchrisn/edgelist-csr/pkg/edgelist"
	"github.com/spf13/cobra"
)

func (a *app) convertCmd() *cobra.Command {
	var (
		undirected bool
		printStats bool
	)

	cmd := &cobra.Command{
		Use:   "convert <input.edgelist> <output.egr>",
		Short: "Compile an edge list into a CSR graph file",
		Long: `Reads one "source destination" pair per line, drops self-loops and
duplicates, shifts 1-based ids to 0-based and writes the CSR graph.
Lines starting with # are comments; other lines that are not two
integers are skipped. Negative or too large ids abort the conversion.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inPath, outPath := args[0], args[1]

			config, err := a.loadConfig()
			if err != nil {
				return err
			}
			if err := config.Viper().BindPFlag("input.symmetrize", cmd.Flags().Lookup("undirected")); err != nil {
				return err
			}
			logger := config.CreateLogger()

			result, err := edgelist.CompileFile(cmd.Context(), inPath, config)
			if err != nil {
				return fmt.Errorf("compile %s: %w", inPath, err)
			}
			g := result.Graph

			mode := "as-is"
			if result.Statistics.Symmetrized {
				mode = "undirected (symmetrized)"
			}
			fmt.Fprintf(a.stdout, "Input:  %s\n", inPath)
			fmt.Fprintf(a.stdout, "Output: %s\n", outPath)
			fmt.Fprintf(a.stdout, "Nodes:  %d\n", g.NodeCount)
			fmt.Fprintf(a.stdout, "Edges:  %d\n", g.EdgeCount)
			fmt.Fprintf(a.stdout, "Mode:   %s\n", mode)

			if err := csr.WriteFile(outPath, g); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			logger.Debug().Str("output", outPath).Msg("Graph written")

			if printStats {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result.Statistics); err != nil {
					return fmt.Errorf("encode statistics: %w", err)
				}
			}
			fmt.Fprintln(a.stdout, "Done.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&undirected, "undirected", false, "add the reverse of every edge")
	cmd.Flags().BoolVar(&printStats, "stats", false, "print compilation statistics as JSON")
	return cmd
}

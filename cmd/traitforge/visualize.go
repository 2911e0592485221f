package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/traitforge/pkg/request"
	"github.com/dshills/traitforge/pkg/visualize"
)

func visualizeCmd() *cobra.Command {
	var (
		configPath string
		svgPath    string
	)

	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Render a request's compiled constraint graph to SVG for debugging",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := request.LoadRequest(configPath)
			if err != nil {
				return fmt.Errorf("loading request: %w", err)
			}
			compiled, err := request.Compile(req)
			if err != nil {
				return fmt.Errorf("compiling request: %w", err)
			}
			opts := visualize.DefaultOptions()
			opts.Title = fmt.Sprintf("%s (target=%d, feasible<=%d)", compiled.Name, compiled.TargetCount, compiled.FeasibilityEstimate)
			if err := visualize.SaveSVGToFile(compiled, svgPath, opts); err != nil {
				return fmt.Errorf("rendering svg: %w", err)
			}
			fmt.Printf("wrote %s\n", svgPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the YAML generation request (required)")
	cmd.Flags().StringVar(&svgPath, "out", "constraint-graph.svg", "output SVG path")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

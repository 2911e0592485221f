package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dshills/traitforge/pkg/compositor"
	"github.com/dshills/traitforge/pkg/ledger"
	"github.com/dshills/traitforge/pkg/logging"
	"github.com/dshills/traitforge/pkg/model"
	"github.com/dshills/traitforge/pkg/rarity"
	"github.com/dshills/traitforge/pkg/request"
	"github.com/dshills/traitforge/pkg/scheduler"
	"github.com/dshills/traitforge/pkg/telemetry"
)

var (
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func generateCmd() *cobra.Command {
	var (
		configPath string
		outputDir  string
		seedFlag   uint64
		workerCap  uint32
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a collection from a YAML request",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(configPath, outputDir, seedFlag, workerCap)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the YAML generation request (required)")
	cmd.Flags().StringVar(&outputDir, "output", ".", "output directory for images/ and metadata/")
	cmd.Flags().Uint64Var(&seedFlag, "seed", 0, "override the request's seed (0 = use request seed)")
	cmd.Flags().Uint32Var(&workerCap, "worker-cap", 0, "override the request's worker_cap (0 = use request value)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runGenerate(configPath, outputDir string, seedFlag uint64, workerCap uint32) error {
	log := consoleLogger()

	req, err := request.LoadRequest(configPath)
	if err != nil {
		return fmt.Errorf("loading request: %w", err)
	}
	if seedFlag != 0 {
		req.Seed = &seedFlag
	}
	if workerCap != 0 {
		req.WorkerCap = &workerCap
	}

	var compiled *request.CompiledRequest
	err = spinner.New().Title("compiling request").Action(func() {
		compiled, err = request.Compile(req)
	}).Run()
	if err != nil {
		return fmt.Errorf("compiling request: %w", err)
	}
	log.Info("request compiled", "name", compiled.Name, "target_count", compiled.TargetCount, "feasibility_estimate", compiled.FeasibilityEstimate)

	imagesDir := filepath.Join(outputDir, "images")
	metadataDir := filepath.Join(outputDir, "metadata")
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return fmt.Errorf("creating images dir: %w", err)
	}
	if err := os.MkdirAll(metadataDir, 0755); err != nil {
		return fmt.Errorf("creating metadata dir: %w", err)
	}

	engineLogger, err := logging.New()
	if v.GetBool("verbose") {
		engineLogger, err = logging.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("building engine logger: %w", err)
	}
	defer engineLogger.Sync() //nolint:errcheck

	led := ledger.New(compiled.ActiveLayerCombinations())
	metrics := telemetry.New()
	comp := compositor.New(int(compiled.OutputWidth), int(compiled.OutputHeight), metrics)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(compiled, led, comp, metrics, engineLogger)

	var items []*model.GeneratedItem
	var runErr *model.EngineError
	var cancelled *scheduler.Cancelled

	for ev := range sched.Run(ctx) {
		switch ev.Kind {
		case scheduler.EventProgress:
			fmt.Fprintf(os.Stderr, "\r%s", statusStyle.Render(fmt.Sprintf(
				"%d/%d complete (%d MiB in flight)",
				ev.Progress.Completed, ev.Progress.Total, ev.Progress.MemoryUsedBytes/(1024*1024))))
		case scheduler.EventItemReady:
			items = append(items, ev.Item)
		case scheduler.EventWarning:
			fmt.Fprintln(os.Stderr)
			log.Warn(warningStyle.Render(ev.Warning))
		case scheduler.EventError:
			runErr = ev.Err
		case scheduler.EventCancelled:
			cancelled = ev.Cancelled
		case scheduler.EventComplete:
			// handled after the loop drains
		}
	}
	fmt.Fprintln(os.Stderr)

	if runErr != nil {
		log.Error(errorStyle.Render(runErr.Error()))
		return runErr
	}
	if cancelled != nil {
		log.Warn("run cancelled", "completed", cancelled.Completed, "reason", cancelled.Reason)
	}

	rarity.Score(items)
	for _, item := range items {
		imgPath := filepath.Join(imagesDir, fmt.Sprintf("%d.png", item.Index))
		if err := os.WriteFile(imgPath, item.CompositeBytes, 0644); err != nil {
			return fmt.Errorf("writing image %d: %w", item.Index, err)
		}
		rec := rarity.BuildMetadata(compiled.Name, compiled.Description, compiled.MetadataStandard, item)
		metaPath := filepath.Join(metadataDir, fmt.Sprintf("%d.json", item.Index))
		if err := rarity.SaveJSONToFile(rec, metaPath); err != nil {
			return fmt.Errorf("writing metadata %d: %w", item.Index, err)
		}
	}

	log.Info("generation complete", "items", len(items), "output", outputDir)
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/pixelcanvas/internal/codec"
	"github.com/MeKo-Tech/pixelcanvas/internal/worker"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Apply a filter to every image in a directory",
	Long: `Apply the filter selected with --filter to each image in --in-dir in parallel
and write the results to --out-dir. Every image is edited independently.

Example:
  pixelcanvas batch --in-dir photos --out-dir out --filter median -w 4`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("in-dir", "", "Directory with input images")
	batchCmd.Flags().String("out-dir", "./out", "Directory for the filtered images")
	batchCmd.Flags().String("format", "", "Output format (png, jpeg, gif, bmp, tiff; default: same as input)")
	batchCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	batchCmd.Flags().Bool("progress", true, "Show progress bar")
	batchCmd.Flags().Bool("allow-failures", false, "Exit successfully even if some images fail")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"batch.in_dir", "in-dir"},
		{"batch.out_dir", "out-dir"},
		{"batch.format", "format"},
		{"batch.workers", "workers"},
		{"batch.progress", "progress"},
		{"batch.allow_failures", "allow-failures"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, batchCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	inDir := viper.GetString("batch.in_dir")
	outDir := viper.GetString("batch.out_dir")
	format := viper.GetString("batch.format")
	workers := viper.GetInt("batch.workers")
	showProgress := viper.GetBool("batch.progress")
	allowFailures := viper.GetBool("batch.allow_failures")

	if logger == nil {
		initLogging()
	}

	if inDir == "" {
		return fmt.Errorf("--in-dir is required")
	}
	if format != "" && (format == "webp" || codec.FormatFromPath("x."+format) == "") {
		return fmt.Errorf("invalid format %q: must be png, jpeg, gif, bmp or tiff", format)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	tool, err := loadTool()
	if err != nil {
		return err
	}

	tasks, err := worker.PlanTasks(inDir, outDir, format)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		logger.Warn("No images found", "dir", inDir)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	progress := worker.NewProgress(len(tasks), showProgress)
	progress.SetOutput(cmd.ErrOrStderr())

	pool := worker.New(worker.Config{
		Workers:    workers,
		Processor:  worker.FilterProcessor{Tool: tool, Logger: logger},
		OnProgress: progress.Callback(),
	})

	logger.Info("Starting batch",
		"filter", tool.Filter.Type.String(),
		"images", len(tasks),
		"workers", workers,
		"out_dir", outDir)

	results := pool.Run(ctx, tasks)
	progress.Done()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Error("Image failed", "input", r.Task.In, "error", r.Err)
		}
	}
	logger.Info(progress.Summary())

	if failed > 0 {
		if allowFailures {
			logger.Warn("Some images failed, but continuing due to --allow-failures flag", "failed_count", failed)
			return nil
		}
		return fmt.Errorf("%d of %d images failed", failed, len(tasks))
	}
	return nil
}

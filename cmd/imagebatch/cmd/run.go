package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/imagebatch/internal/batcher"
	"github.com/MeKo-Tech/imagebatch/internal/config"
	"github.com/MeKo-Tech/imagebatch/internal/onnx"
	"github.com/MeKo-Tech/imagebatch/internal/preprocess"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runCmd streams batches from the input path. Without --model it is a
// preprocessing dry run reporting batch statistics; with --model each
// batch is fed through an ONNX session.
var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Preprocess images into batch tensors, optionally running inference",
	Long: `Resolve images under the given path, preprocess them in parallel into
fixed-shape batch tensors, and either report throughput (dry run) or feed
each batch through an ONNX model.

Examples:
  imagebatch run images/ --shape 8x3x640x640
  imagebatch run images/ --shape 8x3x640x640 --exact-batches --shuffle
  imagebatch run images/ --shape 8x3x640x640 --model yolo.onnx --threads 4`,
	Args: cobra.ExactArgs(1),
	RunE: runBatches,
}

func init() {
	runCmd.Flags().String("shape", "1x3x640x640", "batch tensor shape (NxCxHxW or NxHxWxC)")
	runCmd.Flags().String("dtype", "float32", "tensor element type (float32, float64)")
	runCmd.Flags().Bool("exact-batches", false, "discard trailing images so every batch is full")
	runCmd.Flags().Bool("shuffle", false, "shuffle the resolved image order")
	runCmd.Flags().Int("workers", 0, "max parallel preprocessing workers per batch (0 = NumCPU)")
	runCmd.Flags().String("model", "", "ONNX model to feed batches into (empty = dry run)")
	runCmd.Flags().Int("threads", 0, "intra-op thread count for the ONNX session")

	_ = viper.BindPFlag("shape", runCmd.Flags().Lookup("shape"))
	_ = viper.BindPFlag("dtype", runCmd.Flags().Lookup("dtype"))
	_ = viper.BindPFlag("exact_batches", runCmd.Flags().Lookup("exact-batches"))
	_ = viper.BindPFlag("shuffle", runCmd.Flags().Lookup("shuffle"))
	_ = viper.BindPFlag("workers", runCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("model.path", runCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("model.threads", runCmd.Flags().Lookup("threads"))

	rootCmd.AddCommand(runCmd)
}

func runBatches(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	shape, err := cfg.ParsedShape()
	if err != nil {
		return err
	}

	opts := batcherOptions(cfg)
	input := args[0]

	if cfg.Model.Path != "" {
		if cfg.DType != "float32" {
			return errors.New("inference requires dtype float32")
		}
		return runInference(cmd, cfg, input, shape, opts)
	}

	switch cfg.DType {
	case "float64":
		return runDry[float64](cmd, input, shape, opts)
	default:
		return runDry[float32](cmd, input, shape, opts)
	}
}

func batcherOptions(cfg *config.Config) []batcher.Option {
	var opts []batcher.Option
	if cfg.Shuffle {
		opts = append(opts, batcher.WithShuffle())
	}
	if cfg.ExactBatches {
		opts = append(opts, batcher.WithExactBatches())
	}
	if cfg.Workers > 0 {
		opts = append(opts, batcher.WithMaxWorkers(cfg.Workers))
	}
	return opts
}

// runDry preprocesses every batch and reports per-batch sizes and
// overall throughput without running inference.
func runDry[T preprocess.Float](cmd *cobra.Command, input string, shape batcher.Shape, opts []batcher.Option) error {
	b, err := batcher.New[T](input, shape, opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	produced := 0
	for batch, err := range b.Batches() {
		if err != nil {
			return err
		}
		slog.Info("batch ready", "index", produced, "images", batch.Len(), "elements", len(batch.Data))
		produced++
		batch.Release()
	}

	elapsed := time.Since(start)
	fmt.Fprintf(cmd.OutOrStdout(), "%d batch(es), %d image(s) in %s (%.1f images/s)\n",
		produced, b.NumImages(), elapsed.Round(time.Millisecond),
		float64(b.NumImages())/elapsed.Seconds())
	return nil
}

// runInference feeds every batch tensor through an ONNX session.
func runInference(cmd *cobra.Command, cfg *config.Config, input string, shape batcher.Shape, opts []batcher.Option) error {
	if err := onnx.EnsureInitialized(); err != nil {
		return err
	}
	defer onnx.Shutdown()

	session, err := onnx.NewSession(cfg.Model.Path, cfg.Model.Threads)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			slog.Warn("failed to close session", "error", err)
		}
	}()

	b, err := batcher.New[float32](input, shape, opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	produced := 0
	for batch, err := range b.Batches() {
		if err != nil {
			return err
		}
		out, err := session.Run(onnx.FromBatch(batch))
		if err != nil {
			return fmt.Errorf("batch %d: %w", produced, err)
		}
		slog.Info("inference done", "index", produced, "images", batch.Len(), "output_shape", out.Shape)
		produced++
		batch.Release()
	}

	elapsed := time.Since(start)
	fmt.Fprintf(cmd.OutOrStdout(), "%d batch(es), %d image(s) in %s (%.1f images/s)\n",
		produced, b.NumImages(), elapsed.Round(time.Millisecond),
		float64(b.NumImages())/elapsed.Seconds())
	return nil
}

// Command ggmlquant quantizes and dequantizes raw float32 tensor dumps and
// reports quantized-matmul throughput, for exercising the quant package
// outside of a model-loading pipeline.
package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ollama/ggmlquant/quant"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("ggmlquant failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "ggmlquant",
		Short:         "Block-quantization codec for GGML-compatible tensor formats",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newQuantizeCmd())
	root.AddCommand(newDequantizeCmd())
	root.AddCommand(newBenchCmd())
	return root
}

func newQuantizeCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "quantize <in.f32> <out.bin>",
		Short: "Quantize a flat little-endian float32 file into a packed format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := quant.ParseFormat(format)
			if err != nil {
				return err
			}
			x, err := readF32File(args[0])
			if err != nil {
				return err
			}
			start := time.Now()
			packed, err := quant.Quantize(x, f)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[1], packed, 0o644); err != nil {
				return err
			}
			slog.Info("quantized", "format", f, "elements", len(x), "bytes", len(packed), "elapsed", time.Since(start))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "Q4_0", "target format (Q4_0, Q4_1, Q5_0, Q5_1, Q8_0, Q2K, Q3K, Q4K, Q5K, Q6K, Q8K)")
	return cmd
}

func newDequantizeCmd() *cobra.Command {
	var format string
	var n int
	cmd := &cobra.Command{
		Use:   "dequantize <in.bin> <out.f32>",
		Short: "Dequantize a packed format file back into flat float32",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := quant.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			x, err := quant.Dequantize(data, f, n)
			if err != nil {
				return err
			}
			if err := writeF32File(args[1], x); err != nil {
				return err
			}
			slog.Info("dequantized", "format", f, "elements", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "Q4_0", "source format")
	cmd.Flags().IntVar(&n, "n", 0, "number of float32 elements to decode")
	cmd.MarkFlagRequired("n")
	return cmd
}

func newBenchCmd() *cobra.Command {
	var format string
	var m, k, n int
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark quantized matmul throughput for the given m,k,n dimensions",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := quant.ParseFormat(format)
			if err != nil {
				return err
			}
			// Index-derived fixture, not a PRNG: every run with the same
			// dimensions produces byte-identical input without seeding state.
			a := make([]float32, m*k)
			for i := range a {
				a[i] = float32(i%7) - 3
			}
			bDense := make([]float32, n*k)
			for i := range bDense {
				bDense[i] = float32(i%5) - 2
			}
			bTensor, err := quant.NewQTensor(bDense, n, k, f)
			if err != nil {
				return err
			}

			start := time.Now()
			out, err := bTensor.Forward(context.Background(), a)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)
			slog.Info("bench", "format", f, "m", m, "k", k, "n", n, "elapsed", elapsed, "results", len(out))
			fmt.Printf("%s: m=%d k=%d n=%d elapsed=%s\n", f, m, k, n, elapsed)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "Q4_0", "weight format")
	cmd.Flags().IntVar(&m, "m", 64, "rows of the dense left operand")
	cmd.Flags().IntVar(&k, "k", 4096, "shared reduction dimension")
	cmd.Flags().IntVar(&n, "n", 4096, "rows of the quantized right operand")
	return cmd
}

func readF32File(path string) ([]float32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("ggmlquant: %s: length %d is not a multiple of 4", path, len(raw))
	}
	out := make([]float32, len(raw)/4)
	for i := range out {
		bits := binary.LittleEndian.Uint32(raw[4*i:])
		out[i] = math.Float32frombits(bits)
	}
	return out, nil
}

func writeF32File(path string, x []float32) error {
	raw := make([]byte, 4*len(x))
	for i, v := range x {
		binary.LittleEndian.PutUint32(raw[4*i:], math.Float32bits(v))
	}
	return os.WriteFile(path, raw, 0o644)
}

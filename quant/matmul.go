package quant

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// QMatMulForward computes C = A · Bᵀ (C5), where A is a dense row-major
// [m, k] float32 matrix and B is a [n, k] matrix already packed in a
// quantized format. Each row of A is quantized into B's companion format
// and dot-producted against every row of B. Per §5, output rows are the
// only axis this package parallelizes across; accumulation within a row
// (block order, then element order inside a block) stays strictly
// sequential and ascending so results are reproducible regardless of how
// many goroutines ran.
func QMatMulForward(ctx context.Context, a []float32, m, k int, b []byte, bFmt Format, n int) ([]float32, error) {
	if len(a) != m*k {
		return nil, &ShapeMismatchError{Op: "QMatMulForward", Expected: []int{m * k}, Got: []int{len(a)}}
	}
	if !bFmt.valid() {
		return nil, &UnsupportedFormatError{Tag: uint8(bFmt)}
	}
	if k%bFmt.BlockLen() != 0 {
		return nil, &BlockLenMismatchError{Op: "QMatMulForward", ExpectedMultipleOf: bFmt.BlockLen(), Got: k}
	}
	blocksPerRow := k / bFmt.BlockLen()
	wantB := n * blocksPerRow * bFmt.BlockBytes()
	if len(b) < wantB {
		return nil, &ShapeMismatchError{Op: "QMatMulForward", Expected: []int{wantB}, Got: []int{len(b)}}
	}

	companion, err := bFmt.Companion()
	if err != nil {
		return nil, err
	}

	out := make([]float32, m*n)
	rowBBytes := blocksPerRow * bFmt.BlockBytes()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < m; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			aRow := a[i*k : (i+1)*k]
			aQuant := make([]byte, blocksPerRow*companion.BlockBytes())
			if err := quantizeRow(aRow, companion, aQuant); err != nil {
				return err
			}
			for j := 0; j < n; j++ {
				bRow := b[j*rowBBytes : (j+1)*rowBBytes]
				dot, err := QDot(bRow, bFmt, aQuant, companion, k)
				if err != nil {
					return err
				}
				out[i*n+j] = dot
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

package swizzle

import (
	"bytes"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/wayhost"
)

// verifyWidths covers lane remainders: below one pixel block, exactly one
// block, one short of two blocks, and a wide row.
var verifyWidths = []int{1, 3, 4, 15, 16, 1024}

// VerifyAll runs the full supported-format-pair matrix through both
// execution paths and reports the first byte mismatch per pair. The test
// suite calls it, and embedders can run it as a startup self-check on
// unusual hosts.
//
// Pairs are verified concurrently; the plans involved are immutable so
// no synchronization beyond the errgroup is needed.
func VerifyAll() error {
	var g errgroup.Group
	for _, src := range wayhost.Formats() {
		for _, dst := range wayhost.Formats() {
			src, dst := src, dst
			g.Go(func() error {
				return verifyPair(src, dst)
			})
		}
	}
	return g.Wait()
}

// verifyPair compares wide and scalar output for one pair across all
// verification widths.
func verifyPair(src, dst wayhost.Format) error {
	plan, err := BuildPlan(src, dst)
	if err != nil {
		return err
	}
	for _, width := range verifyWidths {
		if err := verifyOne(plan, width, 3); err != nil {
			return err
		}
	}
	return nil
}

func verifyOne(plan *Plan, width, height int) error {
	srcBuf, err := wayhost.NewPixelBuffer(width, height, plan.Source())
	if err != nil {
		return err
	}
	fillPattern(srcBuf.Data())

	wide, err := wayhost.NewPixelBuffer(width, height, plan.Destination())
	if err != nil {
		return err
	}
	scalar, err := wayhost.NewPixelBuffer(width, height, plan.Destination())
	if err != nil {
		return err
	}

	if err := Convert(wide, srcBuf, plan); err != nil {
		return err
	}
	if err := ConvertScalar(scalar, srcBuf, plan); err != nil {
		return err
	}

	if !bytes.Equal(wide.Data(), scalar.Data()) {
		i := firstDiff(wide.Data(), scalar.Data())
		return fmt.Errorf("swizzle: %s -> %s width %d: paths diverge at byte %d (wide %#02x, scalar %#02x)",
			plan.Source(), plan.Destination(), width, i, wide.Data()[i], scalar.Data()[i])
	}
	return nil
}

// fillPattern writes a deterministic non-repeating byte pattern so every
// channel position carries a distinct value.
func fillPattern(data []byte) {
	for i := range data {
		data[i] = byte(i*31 + 7)
	}
}

func firstDiff(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			return i
		}
	}
	return -1
}

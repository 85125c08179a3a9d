package swizzle

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/gogpu/wayhost"
)

// TestWideMatchesScalar checks the correctness contract directly: for
// every supported pair, both execution paths produce identical bytes at
// widths covering lane remainders.
func TestWideMatchesScalar(t *testing.T) {
	for _, src := range wayhost.Formats() {
		for _, dst := range wayhost.Formats() {
			t.Run(src.String()+"_to_"+dst.String(), func(t *testing.T) {
				if err := verifyPair(src, dst); err != nil {
					t.Error(err)
				}
			})
		}
	}
}

func TestConvertSizeMismatch(t *testing.T) {
	p, err := BuildPlan(wayhost.FormatBGRA8888, wayhost.FormatRGBA8888)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	src := pixelBuffer(t, 4, 4, wayhost.FormatBGRA8888, nil)
	dst := pixelBuffer(t, 4, 5, wayhost.FormatRGBA8888, nil)
	if err := Convert(dst, src, p); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Convert() error = %v, want ErrSizeMismatch", err)
	}
}

func TestConvertPlanMismatch(t *testing.T) {
	p, err := BuildPlan(wayhost.FormatBGRA8888, wayhost.FormatRGBA8888)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	src := pixelBuffer(t, 2, 2, wayhost.FormatARGB8888, nil)
	dst := pixelBuffer(t, 2, 2, wayhost.FormatRGBA8888, nil)
	if err := Convert(dst, src, p); !errors.Is(err, ErrPlanMismatch) {
		t.Errorf("Convert() error = %v, want ErrPlanMismatch", err)
	}
}

// TestConvertPreservesStridePadding converts into a borrowed buffer whose
// stride exceeds the row size and checks the padding bytes survive.
func TestConvertPreservesStridePadding(t *testing.T) {
	const w, h, stride = 3, 2, 16 // 12 pixel bytes + 4 padding per row

	p, err := BuildPlan(wayhost.FormatBGRA8888, wayhost.FormatRGBA8888)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}

	src := pixelBuffer(t, w, h, wayhost.FormatBGRA8888, nil)
	fillPattern(src.Data())

	raw := make([]byte, h*stride)
	for i := range raw {
		raw[i] = 0xAB
	}
	dst, err := wayhost.BorrowPixelBuffer(raw, w, h, stride, wayhost.FormatRGBA8888)
	if err != nil {
		t.Fatalf("BorrowPixelBuffer() error = %v", err)
	}

	if err := Convert(dst, src, p); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	for y := 0; y < h; y++ {
		pad := raw[y*stride+w*4 : (y+1)*stride]
		for i, b := range pad {
			if b != 0xAB {
				t.Fatalf("row %d padding byte %d = %#02x, want 0xAB untouched", y, i, b)
			}
		}
	}
}

func TestConvertInPlace(t *testing.T) {
	p, err := BuildPlan(wayhost.FormatBGRA8888, wayhost.FormatRGBA8888)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	buf := pixelBuffer(t, 2, 1, wayhost.FormatBGRA8888, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	out, err := ConvertInPlace(buf, p)
	if err != nil {
		t.Fatalf("ConvertInPlace() error = %v", err)
	}
	if out.Format() != wayhost.FormatRGBA8888 {
		t.Errorf("Format() = %s, want RGBA8888", out.Format())
	}
	assertBytes(t, out.Data(), []byte{3, 2, 1, 4, 7, 6, 5, 8})
	// Same backing memory, not a copy.
	if &out.Data()[0] != &buf.Data()[0] {
		t.Error("ConvertInPlace copied instead of rewrapping")
	}
}

func TestConvertInPlaceWrongFormat(t *testing.T) {
	p, err := BuildPlan(wayhost.FormatBGRA8888, wayhost.FormatRGBA8888)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	buf := pixelBuffer(t, 2, 1, wayhost.FormatARGB8888, nil)
	if _, err := ConvertInPlace(buf, p); !errors.Is(err, ErrPlanMismatch) {
		t.Errorf("ConvertInPlace() error = %v, want ErrPlanMismatch", err)
	}
}

// TestConcurrentConvertDisjoint runs conversions into disjoint
// destinations in parallel and checks each result independently.
func TestConcurrentConvertDisjoint(t *testing.T) {
	const workers = 8

	p, err := BuildPlan(wayhost.FormatBGRA8888, wayhost.FormatRGBA8888)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	src := pixelBuffer(t, 64, 64, wayhost.FormatBGRA8888, nil)
	fillPattern(src.Data())

	want := pixelBuffer(t, 64, 64, wayhost.FormatRGBA8888, nil)
	if err := ConvertScalar(want, src, p); err != nil {
		t.Fatalf("ConvertScalar() error = %v", err)
	}

	var wg sync.WaitGroup
	results := make([]*wayhost.PixelBuffer, workers)
	for i := range results {
		results[i] = pixelBuffer(t, 64, 64, wayhost.FormatRGBA8888, nil)
		wg.Add(1)
		go func(dst *wayhost.PixelBuffer) {
			defer wg.Done()
			if err := Convert(dst, src, p); err != nil {
				t.Errorf("Convert() error = %v", err)
			}
		}(results[i])
	}
	wg.Wait()

	for i, dst := range results {
		if !bytes.Equal(dst.Data(), want.Data()) {
			t.Errorf("worker %d produced corrupted output", i)
		}
	}
}

// TestConcurrentConvertSameDestination requires the second writer to be
// rejected, never interleaved.
func TestConcurrentConvertSameDestination(t *testing.T) {
	p, err := BuildPlan(wayhost.FormatBGRA8888, wayhost.FormatRGBA8888)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	src := pixelBuffer(t, 512, 512, wayhost.FormatBGRA8888, nil)
	fillPattern(src.Data())
	dst := pixelBuffer(t, 512, 512, wayhost.FormatRGBA8888, nil)

	// Hold the writer guard as a stand-in for an in-flight conversion.
	if err := dst.AcquireWrite(); err != nil {
		t.Fatalf("AcquireWrite() error = %v", err)
	}
	if err := Convert(dst, src, p); !errors.Is(err, wayhost.ErrBufferBusy) {
		t.Errorf("Convert() into busy buffer error = %v, want ErrBufferBusy", err)
	}
	dst.ReleaseWrite()

	if err := Convert(dst, src, p); err != nil {
		t.Errorf("Convert() after release error = %v", err)
	}
}

package wayhost

import (
	"errors"
	"fmt"
	"image"
	"sync/atomic"
)

// Ownership describes who owns a buffer's backing memory.
type Ownership uint8

const (
	// OwnershipScratch marks memory allocated by wayhost, reusable freely.
	OwnershipScratch Ownership = iota
	// OwnershipBorrowed marks memory owned by the caller (e.g. a mapped
	// client buffer). wayhost never resizes or frees borrowed memory.
	OwnershipBorrowed
)

// String returns the ownership name.
func (o Ownership) String() string {
	switch o {
	case OwnershipScratch:
		return "scratch"
	case OwnershipBorrowed:
		return "borrowed"
	default:
		return fmt.Sprintf("Ownership(%d)", uint8(o))
	}
}

// Buffer errors.
var (
	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("wayhost: invalid buffer dimensions")

	// ErrInvalidStride is returned when stride < width * bytes-per-pixel.
	ErrInvalidStride = errors.New("wayhost: stride smaller than row size")

	// ErrShortData is returned when the provided data cannot hold
	// height rows at the given stride.
	ErrShortData = errors.New("wayhost: data shorter than height * stride")

	// ErrBufferBusy is returned when a writer is already active on the
	// destination buffer. See PixelBuffer.AcquireWrite.
	ErrBufferBusy = errors.New("wayhost: destination buffer already in use")
)

// PixelBuffer is a rectangular pixel buffer with an explicit format,
// stride and ownership. It is created per rendered frame and released
// after presentation.
//
// Stride padding bytes (stride beyond width*4) are never interpreted as
// pixel data and are preserved untouched by all wayhost operations.
type PixelBuffer struct {
	width     int
	height    int
	stride    int
	format    Format
	ownership Ownership
	data      []byte

	// writer guards against two concurrent conversions targeting the
	// same destination. It is a detection mechanism, not a lock: the
	// second writer fails with ErrBufferBusy instead of blocking.
	writer atomic.Bool
}

// NewPixelBuffer allocates a scratch buffer with a tight stride.
func NewPixelBuffer(width, height int, format Format) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("wayhost: %s is not a supported format", format)
	}
	stride := width * format.BytesPerPixel()
	return &PixelBuffer{
		width:     width,
		height:    height,
		stride:    stride,
		format:    format,
		ownership: OwnershipScratch,
		data:      make([]byte, height*stride),
	}, nil
}

// BorrowPixelBuffer wraps caller-owned memory without copying.
// The data must stay valid for the lifetime of the buffer.
func BorrowPixelBuffer(data []byte, width, height, stride int, format Format) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("wayhost: %s is not a supported format", format)
	}
	if stride < width*format.BytesPerPixel() {
		return nil, fmt.Errorf("%w: stride %d, row size %d",
			ErrInvalidStride, stride, width*format.BytesPerPixel())
	}
	if len(data) < height*stride {
		return nil, fmt.Errorf("%w: have %d, need %d",
			ErrShortData, len(data), height*stride)
	}
	return &PixelBuffer{
		width:     width,
		height:    height,
		stride:    stride,
		format:    format,
		ownership: OwnershipBorrowed,
		data:      data,
	}, nil
}

// Width returns the buffer width in pixels.
func (b *PixelBuffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *PixelBuffer) Height() int { return b.height }

// Stride returns the number of bytes per row, including padding.
func (b *PixelBuffer) Stride() int { return b.stride }

// Format returns the pixel format of the buffer contents.
func (b *PixelBuffer) Format() Format { return b.format }

// Ownership returns who owns the backing memory.
func (b *PixelBuffer) Ownership() Ownership { return b.ownership }

// Data returns the raw backing bytes, height*stride long.
func (b *PixelBuffer) Data() []byte { return b.data }

// Row returns the pixel bytes of row y, excluding stride padding.
func (b *PixelBuffer) Row(y int) []byte {
	off := y * b.stride
	return b.data[off : off+b.width*b.format.BytesPerPixel()]
}

// AcquireWrite marks the buffer as having an active writer. It returns
// ErrBufferBusy if another writer already holds it. Converters call this
// before touching destination memory so that two concurrent conversions
// can never interleave writes into the same buffer.
func (b *PixelBuffer) AcquireWrite() error {
	if !b.writer.CompareAndSwap(false, true) {
		return ErrBufferBusy
	}
	return nil
}

// ReleaseWrite clears the active-writer mark set by AcquireWrite.
func (b *PixelBuffer) ReleaseWrite() {
	b.writer.Store(false)
}

// ToImage copies the buffer into an *image.RGBA. The buffer must be in
// FormatRGBA8888; other layouts need a swizzle pass first.
func (b *PixelBuffer) ToImage() (*image.RGBA, error) {
	if b.format != FormatRGBA8888 {
		return nil, fmt.Errorf("wayhost: ToImage requires RGBA8888, have %s", b.format)
	}
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+b.width*4], b.Row(y))
	}
	return img, nil
}

// FromImage copies an image into a new scratch RGBA8888 buffer.
func FromImage(img *image.RGBA) (*PixelBuffer, error) {
	bounds := img.Bounds()
	buf, err := NewPixelBuffer(bounds.Dx(), bounds.Dy(), FormatRGBA8888)
	if err != nil {
		return nil, err
	}
	for y := 0; y < buf.height; y++ {
		src := img.Pix[y*img.Stride:]
		copy(buf.Row(y), src[:buf.width*4])
	}
	return buf, nil
}

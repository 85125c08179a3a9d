package swizzle

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/wayhost"
)

// Conversion errors.
var (
	// ErrSizeMismatch is returned when source and destination buffers
	// have different pixel dimensions.
	ErrSizeMismatch = errors.New("swizzle: buffer size mismatch")

	// ErrPlanMismatch is returned when a buffer's format does not match
	// the plan it is used with.
	ErrPlanMismatch = errors.New("swizzle: buffer format does not match plan")
)

// Convert applies the plan's channel permutation, converting src into dst.
// The buffers must have identical pixel dimensions; strides may differ.
// Stride padding in dst is left untouched.
//
// Convert acquires dst's writer guard for its duration: a second
// conversion targeting the same destination fails with
// wayhost.ErrBufferBusy instead of interleaving writes. src is only read
// and may be shared.
func Convert(dst, src *wayhost.PixelBuffer, p *Plan) error {
	if err := checkPair(dst, src, p); err != nil {
		return err
	}
	if err := dst.AcquireWrite(); err != nil {
		return err
	}
	defer dst.ReleaseWrite()

	for y := 0; y < src.Height(); y++ {
		p.convertRow(dst.Row(y), src.Row(y))
	}
	return nil
}

// ConvertScalar is the scalar reference execution: same plan, same
// output, no wide blocks. It exists so tests and VerifyAll can compare
// the wide path against it; production callers use Convert.
func ConvertScalar(dst, src *wayhost.PixelBuffer, p *Plan) error {
	if err := checkPair(dst, src, p); err != nil {
		return err
	}
	if err := dst.AcquireWrite(); err != nil {
		return err
	}
	defer dst.ReleaseWrite()

	for y := 0; y < src.Height(); y++ {
		p.convertRowScalar(dst.Row(y), src.Row(y))
	}
	return nil
}

// ConvertInPlace rewrites buf's pixels through the plan and returns a
// buffer view of the same memory tagged with the destination format.
// The source buffer must be in the plan's source format.
//
// This is the fast path for presenting a client buffer whose layout only
// differs by channel order: no second allocation, one pass over memory.
func ConvertInPlace(buf *wayhost.PixelBuffer, p *Plan) (*wayhost.PixelBuffer, error) {
	if buf.Format() != p.src {
		return nil, fmt.Errorf("%w: buffer %s, plan source %s",
			ErrPlanMismatch, buf.Format(), p.src)
	}
	if err := buf.AcquireWrite(); err != nil {
		return nil, err
	}
	defer buf.ReleaseWrite()

	for y := 0; y < buf.Height(); y++ {
		row := buf.Row(y)
		p.convertRow(row, row)
	}
	return wayhost.BorrowPixelBuffer(buf.Data(), buf.Width(), buf.Height(), buf.Stride(), p.dst)
}

func checkPair(dst, src *wayhost.PixelBuffer, p *Plan) error {
	if src.Width() != dst.Width() || src.Height() != dst.Height() {
		return fmt.Errorf("%w: src %dx%d, dst %dx%d", ErrSizeMismatch,
			src.Width(), src.Height(), dst.Width(), dst.Height())
	}
	if src.Format() != p.src {
		return fmt.Errorf("%w: src %s, plan source %s", ErrPlanMismatch, src.Format(), p.src)
	}
	if dst.Format() != p.dst {
		return fmt.Errorf("%w: dst %s, plan destination %s", ErrPlanMismatch, dst.Format(), p.dst)
	}
	return nil
}

// convertRow is the wide execution path: full LaneWidth blocks first,
// remainder pixels through the scalar path. dst and src may alias.
func (p *Plan) convertRow(dst, src []byte) {
	n := len(src) / 4
	full := n - n%blockPixels

	s0, s1, s2, s3 := p.shift[0], p.shift[1], p.shift[2], p.shift[3]
	or := p.orMask
	keep := ^or

	for px := 0; px < full; px += blockPixels {
		base := px * 4
		for i := 0; i < blockPixels; i++ {
			off := base + i*4
			w := binary.LittleEndian.Uint32(src[off : off+4])
			out := (w >> s0 & 0xFF) |
				(w >> s1 & 0xFF << 8) |
				(w >> s2 & 0xFF << 16) |
				(w >> s3 & 0xFF << 24)
			binary.LittleEndian.PutUint32(dst[off:off+4], out&keep|or)
		}
	}

	p.convertRowScalar(dst[full*4:], src[full*4:])
}

// convertRowScalar applies the permutation one pixel at a time, straight
// from the table. dst and src may alias.
func (p *Plan) convertRowScalar(dst, src []byte) {
	for off := 0; off+4 <= len(src); off += 4 {
		var px [4]byte
		copy(px[:], src[off:off+4])
		for i := 0; i < 4; i++ {
			if p.forced[i] {
				dst[off+i] = 0xFF
			} else {
				dst[off+i] = px[p.perm[i]]
			}
		}
	}
}

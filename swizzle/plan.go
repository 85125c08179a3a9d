package swizzle

import (
	"errors"
	"fmt"

	"github.com/gogpu/wayhost"
	"github.com/gogpu/wayhost/cache"
)

// LaneWidth is the block size in bytes of the wide execution path,
// matching the widest vector lane commonly available (AVX2, 256 bits).
// One block holds eight 32-bit pixels.
const LaneWidth = 32

// blockPixels is the number of pixels per wide block.
const blockPixels = LaneWidth / 4

// ErrUnsupportedFormatPair is returned by BuildPlan when no permutation
// table exists for a format pair. Callers must fall back to a generic
// conversion or reject the buffer; the codec never retries.
var ErrUnsupportedFormatPair = errors.New("swizzle: unsupported format pair")

// Plan is a cached, immutable channel-permutation plan for one
// (source, destination) format pair. Plans are never mutated after
// construction and may be shared freely across goroutines; replacing a
// plan means building a whole new one.
type Plan struct {
	src wayhost.Format
	dst wayhost.Format

	// perm[i] is the source byte offset copied into destination byte i.
	// It is the single table both execution paths derive from.
	perm [4]uint8

	// forced[i] marks destination bytes with no source channel: alpha
	// synthesized from an X source, or an X destination byte. Forced
	// bytes are written as 0xFF per the destination format contract.
	forced [4]bool

	// Derived constants for the wide path, computed from perm/forced
	// at build time.
	shift  [4]uint8 // 8 * perm[i]
	orMask uint32   // forced bytes, pre-shifted
}

// BuildPlan constructs the conversion plan for a format pair.
// It fails with ErrUnsupportedFormatPair if either format has no channel
// layout. Identical source and destination formats yield a copy plan.
func BuildPlan(src, dst wayhost.Format) (*Plan, error) {
	if !src.Valid() || !dst.Valid() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrUnsupportedFormatPair, src, dst)
	}

	srcLayout := src.Layout()
	dstLayout := dst.Layout()

	// Source byte offset of each color channel.
	var srcOffset [4]int8
	for i := range srcOffset {
		srcOffset[i] = -1
	}
	for off, c := range srcLayout {
		if c != wayhost.ChannelX {
			srcOffset[c] = int8(off)
		}
	}

	p := &Plan{src: src, dst: dst}
	for i, c := range dstLayout {
		switch {
		case c == wayhost.ChannelX:
			// Destination padding byte: forced opaque so consumers that
			// misread X as alpha still see an opaque image.
			p.forced[i] = true
		case c == wayhost.ChannelA && srcOffset[wayhost.ChannelA] < 0:
			// Alpha synthesized from an X source.
			p.forced[i] = true
		default:
			p.perm[i] = uint8(srcOffset[c])
		}
	}

	for i := 0; i < 4; i++ {
		p.shift[i] = 8 * p.perm[i]
		if p.forced[i] {
			p.orMask |= 0xFF << (8 * i)
		}
	}
	return p, nil
}

// Source returns the plan's source format.
func (p *Plan) Source() wayhost.Format { return p.src }

// Destination returns the plan's destination format.
func (p *Plan) Destination() wayhost.Format { return p.dst }

// String describes the plan.
func (p *Plan) String() string {
	return fmt.Sprintf("swizzle %s -> %s perm=%v", p.src, p.dst, p.perm)
}

// planKey packs a format pair into a cache key.
func planKey(src, dst wayhost.Format) uint64 {
	return uint64(src)<<32 | uint64(dst)
}

// Codec is the conversion front door: BuildPlan with a sharded plan
// cache in front. The zero value is not usable; call NewCodec.
//
// Codec is safe for concurrent use.
type Codec struct {
	plans *cache.Sharded[uint64, *Plan]
}

// NewCodec creates a codec with an empty plan cache.
func NewCodec() *Codec {
	return &Codec{
		plans: cache.NewSharded[uint64, *Plan](0, cache.Uint64Hasher),
	}
}

// Plan returns the cached plan for a format pair, building it on first use.
func (c *Codec) Plan(src, dst wayhost.Format) (*Plan, error) {
	if !src.Valid() || !dst.Valid() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrUnsupportedFormatPair, src, dst)
	}
	p := c.plans.GetOrCreate(planKey(src, dst), func() *Plan {
		p, err := BuildPlan(src, dst)
		if err != nil {
			// Validity was checked above; BuildPlan cannot fail here.
			panic(err)
		}
		wayhost.Logger().Debug("swizzle: plan built", "src", src.String(), "dst", dst.String())
		return p
	})
	return p, nil
}

// Convert converts src into dst using the cached plan for their formats.
func (c *Codec) Convert(dst, src *wayhost.PixelBuffer) error {
	p, err := c.Plan(src.Format(), dst.Format())
	if err != nil {
		return err
	}
	return Convert(dst, src, p)
}

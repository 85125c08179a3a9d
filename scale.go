package wayhost

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// ScaleQuality selects the resampling kernel used by Rescale.
type ScaleQuality uint8

const (
	// ScaleFast uses nearest-neighbor sampling.
	ScaleFast ScaleQuality = iota
	// ScaleBalanced uses approximate bilinear sampling.
	ScaleBalanced
	// ScaleBest uses Catmull-Rom sampling.
	ScaleBest
)

func (q ScaleQuality) scaler() draw.Scaler {
	switch q {
	case ScaleFast:
		return draw.NearestNeighbor
	case ScaleBest:
		return draw.CatmullRom
	default:
		return draw.ApproxBiLinear
	}
}

// Rescale resamples src into a new scratch buffer with the given pixel
// dimensions. It is used to recompute a window's backing store after a
// scale-factor change (HiDPI toggle): the backend reports the new pixel
// size via a ResizeEvent and the compositor rescales its last frame while
// a fresh one is rendered.
//
// src must be in FormatRGBA8888.
func Rescale(src *PixelBuffer, width, height int, quality ScaleQuality) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	srcImg, err := src.ToImage()
	if err != nil {
		return nil, err
	}
	dstImg := image.NewRGBA(image.Rect(0, 0, width, height))
	quality.scaler().Scale(dstImg, dstImg.Bounds(), srcImg, srcImg.Bounds(), draw.Src, nil)
	return FromImage(dstImg)
}

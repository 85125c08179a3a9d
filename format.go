package wayhost

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Format identifies the memory layout of a 32-bit pixel.
//
// Names list channels in memory byte order, matching the WebGPU convention
// used by gputypes: FormatRGBA8888 stores bytes R, G, B, A at offsets
// 0, 1, 2, 3. X denotes a padding byte whose content is undefined on input
// and forced opaque (0xFF) on output.
type Format uint32

// Supported pixel formats.
const (
	// FormatInvalid is the zero value; no operation accepts it.
	FormatInvalid Format = iota

	// FormatRGBA8888 stores bytes R, G, B, A.
	FormatRGBA8888
	// FormatRGBX8888 stores bytes R, G, B, X.
	FormatRGBX8888
	// FormatBGRA8888 stores bytes B, G, R, A.
	FormatBGRA8888
	// FormatBGRX8888 stores bytes B, G, R, X.
	FormatBGRX8888
	// FormatARGB8888 stores bytes A, R, G, B.
	FormatARGB8888
	// FormatXRGB8888 stores bytes X, R, G, B.
	FormatXRGB8888
	// FormatABGR8888 stores bytes A, B, G, R.
	FormatABGR8888
	// FormatXBGR8888 stores bytes X, B, G, R.
	FormatXBGR8888
)

// Channel identifies the meaning of one byte within a pixel.
type Channel uint8

// Pixel channels. ChannelX marks a padding byte with no color meaning.
const (
	ChannelR Channel = iota
	ChannelG
	ChannelB
	ChannelA
	ChannelX
)

// layouts maps each format to the channel stored at each memory offset.
// This table is the single source of truth for channel order; the swizzle
// package derives its permutation plans from it.
var layouts = [...][4]Channel{
	FormatRGBA8888: {ChannelR, ChannelG, ChannelB, ChannelA},
	FormatRGBX8888: {ChannelR, ChannelG, ChannelB, ChannelX},
	FormatBGRA8888: {ChannelB, ChannelG, ChannelR, ChannelA},
	FormatBGRX8888: {ChannelB, ChannelG, ChannelR, ChannelX},
	FormatARGB8888: {ChannelA, ChannelR, ChannelG, ChannelB},
	FormatXRGB8888: {ChannelX, ChannelR, ChannelG, ChannelB},
	FormatABGR8888: {ChannelA, ChannelB, ChannelG, ChannelR},
	FormatXBGR8888: {ChannelX, ChannelB, ChannelG, ChannelR},
}

var formatNames = [...]string{
	FormatInvalid:  "invalid",
	FormatRGBA8888: "RGBA8888",
	FormatRGBX8888: "RGBX8888",
	FormatBGRA8888: "BGRA8888",
	FormatBGRX8888: "BGRX8888",
	FormatARGB8888: "ARGB8888",
	FormatXRGB8888: "XRGB8888",
	FormatABGR8888: "ABGR8888",
	FormatXBGR8888: "XBGR8888",
}

// Formats returns all supported formats in a stable order.
func Formats() []Format {
	return []Format{
		FormatRGBA8888, FormatRGBX8888,
		FormatBGRA8888, FormatBGRX8888,
		FormatARGB8888, FormatXRGB8888,
		FormatABGR8888, FormatXBGR8888,
	}
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	return f > FormatInvalid && int(f) < len(layouts)
}

// String returns the format name.
func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", uint32(f))
}

// BytesPerPixel returns the size of one pixel in bytes.
// All supported formats are 32-bit.
func (f Format) BytesPerPixel() int {
	return 4
}

// HasAlpha reports whether the format carries an alpha channel
// (as opposed to an X padding byte).
func (f Format) HasAlpha() bool {
	if !f.Valid() {
		return false
	}
	for _, c := range layouts[f] {
		if c == ChannelA {
			return true
		}
	}
	return false
}

// Layout returns the channel stored at each memory offset.
// The zero pixel byte is Layout()[0], and so on.
func (f Format) Layout() [4]Channel {
	if !f.Valid() {
		return [4]Channel{}
	}
	return layouts[f]
}

// TextureFormat returns the gputypes equivalent of f, if one exists.
// Only the WebGPU-native byte orders have a direct GPU texture format;
// the rest must be converted (see the swizzle package) before upload.
func (f Format) TextureFormat() (gputypes.TextureFormat, bool) {
	switch f {
	case FormatRGBA8888:
		return gputypes.TextureFormatRGBA8Unorm, true
	case FormatBGRA8888:
		return gputypes.TextureFormatBGRA8Unorm, true
	default:
		return gputypes.TextureFormatUndefined, false
	}
}

// FormatFromTexture returns the wayhost format for a gputypes texture format.
func FormatFromTexture(tf gputypes.TextureFormat) (Format, bool) {
	switch tf {
	case gputypes.TextureFormatRGBA8Unorm:
		return FormatRGBA8888, true
	case gputypes.TextureFormatBGRA8Unorm:
		return FormatBGRA8888, true
	default:
		return FormatInvalid, false
	}
}

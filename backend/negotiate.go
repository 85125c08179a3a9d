package backend

import (
	"fmt"

	"github.com/gogpu/wayhost"
)

// Negotiate walks the hinted formats in order (Preferred first, then
// Alternatives) and returns a descriptor for the first one the backend
// supports. The descriptor records a downgrade whenever the result is
// not the preferred format, so callers never get a silent mismatch.
//
// A format with no WebGPU texture equivalent still negotiates for CPU
// backends; the descriptor's Texture field is then
// gputypes.TextureFormatUndefined.
func Negotiate(hints FormatHints, supported []wayhost.Format) (FormatDescriptor, error) {
	if hints.Preferred == wayhost.FormatInvalid && len(hints.Alternatives) == 0 {
		hints = DefaultFormatHints()
	}

	candidates := make([]wayhost.Format, 0, 1+len(hints.Alternatives))
	if hints.Preferred != wayhost.FormatInvalid {
		candidates = append(candidates, hints.Preferred)
	}
	candidates = append(candidates, hints.Alternatives...)

	for _, f := range candidates {
		if !f.Valid() || !contains(supported, f) {
			continue
		}
		tex, _ := f.TextureFormat()
		return FormatDescriptor{
			Format:     f,
			Texture:    tex,
			Downgraded: f != hints.Preferred,
		}, nil
	}

	return FormatDescriptor{}, &ContextCreationError{
		Reason: fmt.Sprintf("no compatible format among %d candidates", len(candidates)),
	}
}

func contains(formats []wayhost.Format, f wayhost.Format) bool {
	for _, s := range formats {
		if s == f {
			return true
		}
	}
	return false
}

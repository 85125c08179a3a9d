package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
)

// TextureSink receives presented frames as GPU textures. The window
// glue supplies one (usually a CreatorSink over the host's gpucontext
// renderer); the backend creates a texture on the first present and
// updates it in place afterwards.
type TextureSink interface {
	// CreateTexture uploads RGBA pixels into a new texture.
	CreateTexture(width, height int, data []byte) (any, error)
	// UpdateTexture replaces the pixels of an existing texture.
	UpdateTexture(tex any, data []byte) error
	// DestroyTexture releases a texture. Must tolerate nil.
	DestroyTexture(tex any)
}

// ErrNoUpdater is returned when a texture cannot be updated in place
// and must be recreated.
var ErrNoUpdater = errors.New("wgpu: texture does not support in-place update")

// textureDestroyer is implemented by textures with explicit cleanup.
type textureDestroyer interface {
	Destroy()
}

// TextureCreator matches renderers that can mint textures from RGBA
// pixels, the contract gpucontext renderers expose.
type TextureCreator interface {
	NewTextureFromRGBA(width, height int, data []byte) (any, error)
}

// CreatorSink adapts a texture-creating renderer into a TextureSink.
// Updates go through gpucontext.TextureUpdater when the texture
// supports it.
type CreatorSink struct {
	Creator TextureCreator
}

// CreateTexture uploads pixels through the creator. NewTextureFromRGBA
// waits for the GPU internally, so the caller's buffer is free to
// reuse when this returns.
func (s *CreatorSink) CreateTexture(width, height int, data []byte) (any, error) {
	if s.Creator == nil {
		return nil, errors.New("wgpu: nil texture creator")
	}
	tex, err := s.Creator.NewTextureFromRGBA(width, height, data)
	if err != nil {
		return nil, fmt.Errorf("wgpu: texture upload: %w", err)
	}
	return tex, nil
}

// UpdateTexture rewrites the texture's pixels in place.
func (s *CreatorSink) UpdateTexture(tex any, data []byte) error {
	updater, ok := tex.(gpucontext.TextureUpdater)
	if !ok {
		return ErrNoUpdater
	}
	if err := updater.UpdateData(data); err != nil {
		return fmt.Errorf("wgpu: texture update: %w", err)
	}
	return nil
}

// DestroyTexture releases the texture if it supports destruction.
func (s *CreatorSink) DestroyTexture(tex any) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}

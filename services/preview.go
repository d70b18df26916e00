package services

import (
	"bytes"
	"fmt"
	"sync"

	"variant-editor-service/models"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	previewMaxSize = 300
	previewQuality = 60
	previewScheme  = "local-preview:"
)

// PreviewArena owns the in-memory previews of staged images. Every handle it hands out
// stays live until Release is called for it; Release is idempotent per handle.
type PreviewArena struct {
	mu   sync.Mutex
	live map[string]*models.LocalPreview
}

func NewPreviewArena() *PreviewArena {
	return &PreviewArena{live: make(map[string]*models.LocalPreview)}
}

// Acquire decodes the binary, renders a JPEG thumbnail and registers a live handle.
func (a *PreviewArena) Acquire(bin models.StagedBinary) (*models.LocalPreview, error) {
	img, err := imaging.Decode(bytes.NewReader(bin.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	thumb := imaging.Fit(img, previewMaxSize, previewMaxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(previewQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	id := uuid.New().String()
	p := &models.LocalPreview{
		ID:        id,
		URL:       previewScheme + id,
		Binary:    bin,
		Thumbnail: buf.Bytes(),
	}

	a.mu.Lock()
	a.live[id] = p
	a.mu.Unlock()
	return p, nil
}

// Release drops the handle and its buffers. It returns false when the handle was not live.
func (a *PreviewArena) Release(p *models.LocalPreview) bool {
	if p == nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.live[p.ID]; !ok {
		return false
	}
	delete(a.live, p.ID)
	p.Thumbnail = nil
	p.Binary.Data = nil
	return true
}

// Thumbnail returns the preview bytes of a live handle.
func (a *PreviewArena) Thumbnail(p *models.LocalPreview) ([]byte, bool) {
	if p == nil {
		return nil, false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.live[p.ID]; !ok {
		return nil, false
	}
	return p.Thumbnail, true
}

// Live returns the number of handles not yet released.
func (a *PreviewArena) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

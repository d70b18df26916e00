package services

import (
	"context"
	"strings"
	"time"

	"variant-editor-service/models"

	"go.uber.org/zap"
)

// ImageStagingList manages the ordered image list of a working variant. New images are
// staged in memory and only uploaded by ResolvePending.
type ImageStagingList struct {
	images  *[]models.Image
	store   ImageStore
	arena   *PreviewArena
	policy  ImagePolicy
	metrics MetricsRecorder
	logger  *zap.Logger
}

// ImagePolicy limits what can be staged.
type ImagePolicy struct {
	MaxBytes     int64
	ContentTypes []string
}

// DefaultImagePolicy accepts the formats the preview renderer can decode, up to 10 MiB.
func DefaultImagePolicy() ImagePolicy {
	return ImagePolicy{
		MaxBytes:     10 << 20,
		ContentTypes: []string{"image/jpeg", "image/png", "image/gif"},
	}
}

func (p ImagePolicy) check(bin models.StagedBinary) error {
	if len(bin.Data) == 0 {
		return validationError("image is empty")
	}
	if p.MaxBytes > 0 && int64(len(bin.Data)) > p.MaxBytes {
		return validationError("image exceeds %d bytes", p.MaxBytes)
	}
	if len(p.ContentTypes) == 0 {
		return nil
	}
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(bin.ContentType, ";", 2)[0]))
	for _, allowed := range p.ContentTypes {
		if ct == allowed {
			return nil
		}
	}
	return validationError("unsupported image type %q", bin.ContentType)
}

func NewImageStagingList(images *[]models.Image, store ImageStore, arena *PreviewArena, policy ImagePolicy, metrics MetricsRecorder, logger *zap.Logger) *ImageStagingList {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageStagingList{
		images:  images,
		store:   store,
		arena:   arena,
		policy:  policy,
		metrics: metrics,
		logger:  logger,
	}
}

// Images returns the current list.
func (l *ImageStagingList) Images() []models.Image {
	return *l.images
}

// Append stages bin at the end of the list. No network call is made.
func (l *ImageStagingList) Append(bin models.StagedBinary) (models.Image, error) {
	if err := l.policy.check(bin); err != nil {
		return models.Image{}, err
	}
	preview, err := l.arena.Acquire(bin)
	if err != nil {
		return models.Image{}, &EditorError{Kind: KindValidation, Message: "unsupported image", Err: err}
	}
	img := models.Image{Preview: preview}
	*l.images = append(*l.images, img)
	return img, nil
}

// RemoveAt removes the image at index. A persisted image is deleted from storage on a
// best-effort basis; a staged image has its preview released.
func (l *ImageStagingList) RemoveAt(ctx context.Context, index int) error {
	images := *l.images
	if index < 0 || index >= len(images) {
		return ErrImageIndex
	}
	img := images[index]

	if img.IsStaged() {
		l.arena.Release(img.Preview)
	} else if img.PermanentID != "" {
		if err := l.store.Delete(ctx, img.PermanentID); err != nil {
			cleanupErr := &EditorError{Kind: KindCleanup, Message: "failed to delete image", Err: err}
			l.logger.Warn("Image deletion failed, continuing with removal",
				zap.String("permanent_id", img.PermanentID),
				zap.Error(cleanupErr),
			)
		} else {
			_ = l.metrics.RecordCount(ctx, MetricImagesDeleted, nil)
		}
	}

	*l.images = append(images[:index:index], images[index+1:]...)
	return nil
}

// HasPending reports whether any image is still staged.
func (l *ImageStagingList) HasPending() bool {
	for _, img := range *l.images {
		if img.IsStaged() {
			return true
		}
	}
	return false
}

// ResolvePending uploads staged images one at a time in list order, replacing each in place
// with its persisted form. The first failure aborts; images uploaded before it stay persisted
// and are not rolled back.
func (l *ImageStagingList) ResolvePending(ctx context.Context) error {
	var uploaded []string
	images := *l.images
	for i := range images {
		if !images[i].IsStaged() {
			continue
		}
		preview := images[i].Preview

		start := time.Now()
		url, permanentID, err := l.store.Upload(ctx, preview.Binary)
		_ = l.metrics.RecordLatency(ctx, MetricImageUploadTime, time.Since(start), nil)
		if err != nil {
			_ = l.metrics.RecordCount(ctx, MetricImageUploadFailed, nil)
			if len(uploaded) > 0 {
				// Already uploaded objects are kept for the retry; they become orphans if the
				// session is abandoned.
				l.logger.Warn("Image upload aborted after partial success",
					zap.Strings("uploaded_ids", uploaded),
					zap.Int("failed_index", i),
				)
			}
			return &EditorError{Kind: KindUpload, Message: "failed to upload image " + preview.Binary.Filename, Err: err}
		}

		images[i] = models.Image{URL: url, PermanentID: permanentID}
		l.arena.Release(preview)
		uploaded = append(uploaded, permanentID)
		_ = l.metrics.RecordCount(ctx, MetricImagesUploaded, nil)
	}
	return nil
}

// Release frees the previews of every staged image; used when a session is discarded.
func (l *ImageStagingList) Release() int {
	released := 0
	for _, img := range *l.images {
		if img.IsStaged() && l.arena.Release(img.Preview) {
			released++
		}
	}
	return released
}

package services

import (
	"context"
	"sync"
	"time"

	"variant-editor-service/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SessionState is the submission state of an editor session.
type SessionState string

const (
	StateIdle       SessionState = "idle"
	StateUploading  SessionState = "uploading"
	StateSubmitting SessionState = "submitting"
	StateSuccess    SessionState = "success"
	StateFailed     SessionState = "failed"
)

// Busy reports whether a save is in flight.
func (s SessionState) Busy() bool {
	return s == StateUploading || s == StateSubmitting
}

var draftValidator = validator.New()

// Session is one open editor: a mutable working copy, the frozen snapshot it is compared
// against, and the image staging list bound to the working variant.
//
// mu guards the drafts and is held for the whole of a save. stateMu guards the status fields
// and the published copy of the working draft, so both can be read while a save is running.
// Lock order is mu then stateMu.
type Session struct {
	ID string

	mu         sync.Mutex
	snapshot   models.Draft
	working    models.Draft
	sizeSystem *models.SizeSystem
	images     *ImageStagingList
	arena      *PreviewArena

	stateMu       sync.Mutex
	state         SessionState
	dirty         bool
	lastErr       error
	closed        bool
	openedAt      time.Time
	touchedAt     time.Time
	published     models.Draft
	publishedSys  *models.SizeSystem
}

// SessionStatus is a point-in-time view of the session's submission state.
type SessionStatus struct {
	State     SessionState
	Dirty     bool
	LastError error
	Closed    bool
	TouchedAt time.Time
}

// SessionView is a copy of the working draft plus its status.
type SessionView struct {
	ID         string
	Draft      models.Draft
	SizeSystem *models.SizeSystem
	Status     SessionStatus
}

func newSession(working models.Draft, sys *models.SizeSystem, deps imageDeps) *Session {
	now := time.Now()
	s := &Session{
		ID:         uuid.New().String(),
		working:    working,
		snapshot:   working.Clone(),
		sizeSystem: sys,
		arena:      deps.arena,
		state:      StateIdle,
		openedAt:   now,
		touchedAt:  now,
	}
	s.published = working.Clone()
	s.publishedSys = sys
	v := working.VariantRef()
	s.images = NewImageStagingList(&v.Images, deps.store, deps.arena, deps.policy, deps.metrics, deps.logger)
	return s
}

type imageDeps struct {
	store   ImageStore
	arena   *PreviewArena
	policy  ImagePolicy
	metrics MetricsRecorder
	logger  *zap.Logger
}

// Status returns the submission state without waiting for an in-flight save.
func (s *Session) Status() SessionStatus {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.statusLocked()
}

func (s *Session) statusLocked() SessionStatus {
	return SessionStatus{
		State:     s.state,
		Dirty:     s.dirty,
		LastError: s.lastErr,
		Closed:    s.closed,
		TouchedAt: s.touchedAt,
	}
}

// Dirty reports whether the working copy differs from the snapshot.
func (s *Session) Dirty() bool {
	return s.Status().Dirty
}

// View copies the draft as of the last completed mutation. It does not wait for an
// in-flight save, which reports the draft as it was when the save started.
func (s *Session) View() SessionView {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return SessionView{
		ID:         s.ID,
		Draft:      s.published.Clone(),
		SizeSystem: s.publishedSys,
		Status:     s.statusLocked(),
	}
}

// mutate applies fn to the working copy and recomputes the dirty flag.
func (s *Session) mutate(fn func() error) error {
	if st := s.Status(); st.Closed {
		return ErrSessionClosed
	} else if st.State.Busy() {
		return ErrSessionBusy
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.Status(); st.Closed {
		return ErrSessionClosed
	}

	err := fn()
	s.recompute()
	return err
}

// recompute refreshes the dirty flag and publishes the working copy. Callers must hold mu.
func (s *Session) recompute() {
	dirty := HasChanges(s.snapshot, s.working)
	published := s.working.Clone()
	s.stateMu.Lock()
	s.dirty = dirty
	s.touchedAt = time.Now()
	s.published = published
	s.publishedSys = s.sizeSystem
	s.stateMu.Unlock()
}

func (s *Session) setState(state SessionState, err error) {
	s.stateMu.Lock()
	s.state = state
	s.lastErr = err
	s.stateMu.Unlock()
}

// SetVariantName renames the working variant.
func (s *Session) SetVariantName(name string) error {
	return s.mutate(func() error {
		s.working.VariantRef().Name = name
		return nil
	})
}

// SetProductFields updates product attributes of a new-product draft. The size system is
// changed through SelectSizeSystem only.
func (s *Session) SetProductFields(fields models.ProductFields) error {
	return s.mutate(func() error {
		d, ok := s.working.(*models.ProductDraft)
		if !ok {
			return ErrNotProductDraft
		}
		fields.SizeSystemID = d.Product.SizeSystemID
		d.Product = fields
		return nil
	})
}

// SelectSizeSystem replaces the size system of a new-product draft. All stock rows are
// discarded and rebuilt from scratch.
func (s *Session) SelectSizeSystem(sys *models.SizeSystem) error {
	return s.mutate(func() error {
		d, ok := s.working.(*models.ProductDraft)
		if !ok {
			return ErrSizeSystemFixed
		}
		d.Product.SizeSystemID = sys.ID
		s.sizeSystem = sys
		v := &d.Variant
		v.Stock = InitStockRows(sys, v.PricingMode, v.ReferencePrice)
		if v.PricingMode == models.PricingModeUnique {
			broadcastReference(v)
		}
		return nil
	})
}

func (s *Session) SetPricingMode(mode models.PricingMode) error {
	return s.mutate(func() error { return SetPricingMode(s.working.VariantRef(), mode) })
}

func (s *Session) SetReferencePrice(price decimal.Decimal) error {
	return s.mutate(func() error { return SetReferencePrice(s.working.VariantRef(), price) })
}

func (s *Session) SetReferenceOriginalPrice(price *decimal.Decimal) error {
	return s.mutate(func() error { return SetReferenceOriginalPrice(s.working.VariantRef(), price) })
}

func (s *Session) SetRowQuantity(sizeID string, quantity int) error {
	return s.mutate(func() error { return SetRowQuantity(s.working.VariantRef(), sizeID, quantity) })
}

func (s *Session) SetRowPrice(sizeID string, price decimal.Decimal) error {
	return s.mutate(func() error { return SetRowPrice(s.working.VariantRef(), sizeID, price) })
}

func (s *Session) SetRowOriginalPrice(sizeID string, price *decimal.Decimal) error {
	return s.mutate(func() error { return SetRowOriginalPrice(s.working.VariantRef(), sizeID, price) })
}

// UpdatePricing applies several pricing changes as one mutation.
func (s *Session) UpdatePricing(u PricingUpdate) error {
	return s.mutate(func() error { return ApplyPricingUpdate(s.working.VariantRef(), u) })
}

// UpdateStockRow applies several changes to one row as one mutation.
func (s *Session) UpdateStockRow(sizeID string, u RowUpdate) error {
	return s.mutate(func() error { return ApplyRowUpdate(s.working.VariantRef(), sizeID, u) })
}

// AppendImage stages a new image at the end of the list.
func (s *Session) AppendImage(bin models.StagedBinary) (models.Image, error) {
	var img models.Image
	err := s.mutate(func() error {
		var err error
		img, err = s.images.Append(bin)
		return err
	})
	return img, err
}

// RemoveImage removes the image at index.
func (s *Session) RemoveImage(ctx context.Context, index int) error {
	return s.mutate(func() error { return s.images.RemoveAt(ctx, index) })
}

// ImagePreview returns the thumbnail of a staged image from the published copy. It does not
// wait for an in-flight save; an image uploaded in the meantime is no longer staged.
func (s *Session) ImagePreview(index int) ([]byte, error) {
	s.stateMu.Lock()
	images := s.published.VariantRef().Images
	s.stateMu.Unlock()

	if index < 0 || index >= len(images) {
		return nil, ErrImageIndex
	}
	if !images[index].IsStaged() {
		return nil, ErrNotStaged
	}
	thumb, ok := s.arena.Thumbnail(images[index].Preview)
	if !ok {
		return nil, ErrNotStaged
	}
	return thumb, nil
}

// Validate runs the required-field and pricing checks on the working copy.
func (s *Session) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return validateDraft(s.working)
}

// close marks the session closed and frees every outstanding preview.
// Callers must hold mu.
func (s *Session) close() {
	s.images.Release()
	s.stateMu.Lock()
	s.closed = true
	s.stateMu.Unlock()
}

// Discard closes the session without saving. It fails while a save is in flight.
func (s *Session) Discard() error {
	if s.Status().State.Busy() {
		return ErrSessionBusy
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status().Closed {
		return nil
	}
	s.close()
	return nil
}

func validateDraft(d models.Draft) error {
	v := d.VariantRef()
	if err := draftValidator.Struct(v); err != nil {
		return &EditorError{Kind: KindValidation, Message: "variant name is required", Err: err}
	}
	switch d := d.(type) {
	case *models.ProductDraft:
		if err := draftValidator.Struct(d.Product); err != nil {
			return &EditorError{Kind: KindValidation, Message: "missing required product fields", Err: err}
		}
	case *models.VariantDraft:
		if d.ProductID == "" {
			return validationError("product is required")
		}
	}
	return ValidatePricing(v)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"variant-editor-service/models"

	"go.uber.org/zap"
)

// SavedHook runs after a successful save, e.g. to refresh the caller's variant list.
type SavedHook func(ctx context.Context, sessionID string, result *models.SaveResult)

// Orchestrator saves a session: upload staged images, assemble the payload, then issue a
// single create or update call. Uploads always finish before the call is made.
type Orchestrator struct {
	api      CatalogAPI
	events   EventPublisher
	topicArn string
	metrics  MetricsRecorder
	logger   *zap.Logger
	onSaved  []SavedHook
}

func NewOrchestrator(api CatalogAPI, events EventPublisher, topicArn string, metrics MetricsRecorder, logger *zap.Logger) *Orchestrator {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		api:      api,
		events:   events,
		topicArn: topicArn,
		metrics:  metrics,
		logger:   logger,
	}
}

// OnSaved registers a hook fired after every successful save.
func (o *Orchestrator) OnSaved(hook SavedHook) {
	o.onSaved = append(o.onSaved, hook)
}

// Submit runs the save state machine for s. Validation failures and no-op edits return
// before any network call. Upload and submission failures leave the working copy intact
// so the operator can retry.
func (o *Orchestrator) Submit(ctx context.Context, s *Session) (*models.SaveResult, error) {
	if st := s.Status(); st.Closed {
		return nil, ErrSessionClosed
	} else if st.State.Busy() {
		return nil, ErrSessionBusy
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.Status()
	if st.Closed {
		return nil, ErrSessionClosed
	}
	if !st.Dirty {
		return nil, ErrNothingToSave
	}
	if err := validateDraft(s.working); err != nil {
		s.setState(StateIdle, err)
		return nil, err
	}

	start := time.Now()
	dims := map[string]string{"Flow": FlowName(s.working)}

	s.setState(StateUploading, nil)
	if err := s.images.ResolvePending(ctx); err != nil {
		s.recompute()
		s.setState(StateFailed, err)
		_ = o.metrics.RecordCount(ctx, MetricVariantSaveFailed, dims)
		o.logger.Warn("Variant save aborted during image upload", zap.String("session_id", s.ID), zap.Error(err))
		return nil, err
	}
	s.recompute()

	s.setState(StateSubmitting, nil)
	result, err := o.dispatch(ctx, s.working)
	if err != nil {
		subErr := submissionError(err)
		s.setState(StateFailed, subErr)
		_ = o.metrics.RecordCount(ctx, MetricVariantSaveFailed, dims)
		o.logger.Error("Variant save failed", zap.String("session_id", s.ID), zap.Error(err))
		return nil, subErr
	}

	s.setState(StateSuccess, nil)
	s.close()
	_ = o.metrics.RecordCount(ctx, MetricVariantsSaved, dims)
	_ = o.metrics.RecordLatency(ctx, MetricVariantSaveTime, time.Since(start), dims)
	o.logger.Info("Variant saved",
		zap.String("session_id", s.ID),
		zap.String("product_id", result.ProductID),
		zap.String("variant_id", result.VariantID),
	)

	o.publishVariantSaved(ctx, s.working, result)
	for _, hook := range o.onSaved {
		hook(ctx, s.ID, result)
	}
	return result, nil
}

// dispatch picks the API call from the draft type.
func (o *Orchestrator) dispatch(ctx context.Context, draft models.Draft) (*models.SaveResult, error) {
	switch d := draft.(type) {
	case *models.ProductDraft:
		payload, err := BuildProductPayload(d)
		if err != nil {
			return nil, err
		}
		return o.api.CreateProduct(ctx, payload)
	case *models.VariantDraft:
		payload, err := BuildVariantPayload(&d.Variant)
		if err != nil {
			return nil, err
		}
		if d.IsUpdate() {
			return o.api.UpdateVariant(ctx, d.Variant.ID, payload)
		}
		return o.api.CreateVariant(ctx, d.ProductID, payload)
	default:
		return nil, fmt.Errorf("unsupported draft type %T", draft)
	}
}

// BuildVariantPayload assembles the outbound variant. Every image must be persisted.
func BuildVariantPayload(v *models.Variant) (models.VariantPayload, error) {
	payload := models.VariantPayload{
		Name:        v.Name,
		PricingMode: v.PricingMode,
		Images:      make([]models.ImageRef, 0, len(v.Images)),
		Stock:       make([]models.StockRowPayload, 0, len(v.Stock)),
	}
	if v.PricingMode == models.PricingModeUnique {
		if v.ReferencePrice.Valid {
			p := v.ReferencePrice.Decimal
			payload.ReferencePrice = &p
		}
		if v.ReferenceOriginalPrice.Valid {
			p := v.ReferenceOriginalPrice.Decimal
			payload.ReferenceOriginalPrice = &p
		}
	}
	for i, img := range v.Images {
		if img.IsStaged() {
			return models.VariantPayload{}, fmt.Errorf("image %d has not been uploaded", i)
		}
		payload.Images = append(payload.Images, models.ImageRef{URL: img.URL, PermanentID: img.PermanentID})
	}
	for _, row := range v.Stock {
		out := models.StockRowPayload{
			SizeID:   row.SizeID,
			Quantity: row.Quantity,
			Price:    row.Price,
		}
		if row.OriginalPrice != nil {
			p := *row.OriginalPrice
			out.OriginalPrice = &p
		}
		payload.Stock = append(payload.Stock, out)
	}
	return payload, nil
}

// BuildProductPayload assembles the new-product call with its first variant.
func BuildProductPayload(d *models.ProductDraft) (models.ProductPayload, error) {
	variant, err := BuildVariantPayload(&d.Variant)
	if err != nil {
		return models.ProductPayload{}, err
	}
	return models.ProductPayload{
		Name:         d.Product.Name,
		Description:  d.Product.Description,
		CategoryID:   d.Product.CategoryID,
		Brand:        d.Product.Brand,
		SizeSystemID: d.Product.SizeSystemID,
		Variant:      variant,
	}, nil
}

func submissionError(err error) *EditorError {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return &EditorError{Kind: KindSubmission, Message: apiErr.Message, Err: err}
	}
	return &EditorError{Kind: KindSubmission, Message: "failed to save variant", Err: err}
}

// FlowName names the editor flow of d: new_product, new_variant or edit_variant.
func FlowName(d models.Draft) string {
	switch d := d.(type) {
	case *models.ProductDraft:
		return "new_product"
	case *models.VariantDraft:
		if d.IsUpdate() {
			return "edit_variant"
		}
		return "new_variant"
	}
	return "unknown"
}

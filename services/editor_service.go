package services

import (
	"context"
	"errors"

	"variant-editor-service/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EditorService opens, saves and discards variant editor sessions.
type EditorService interface {
	OpenProductSession(ctx context.Context, fields models.ProductFields) (*Session, error)
	OpenVariantSession(ctx context.Context, productID string) (*Session, error)
	OpenEditSession(ctx context.Context, variantID string) (*Session, error)
	Session(id string) (*Session, error)
	SelectSizeSystem(ctx context.Context, sessionID, sizeSystemID string) error
	Submit(ctx context.Context, sessionID string) (*models.SaveResult, error)
	Discard(sessionID string) error
}

// EditorDeps groups the collaborators of the editor service.
type EditorDeps struct {
	API         CatalogAPI
	SizeSystems SizeSystemSource
	Images      ImageStore
	Arena       *PreviewArena
	Policy      ImagePolicy
	Store       *SessionStore
	Submitter   *Orchestrator
	Metrics     MetricsRecorder
	Logger      *zap.Logger
}

type editorServiceImpl struct {
	api         CatalogAPI
	sizeSystems SizeSystemSource
	store       *SessionStore
	submitter   *Orchestrator
	imageDeps   imageDeps
	logger      *zap.Logger
}

// NewEditorService wires an EditorService. SizeSystems defaults to the API, Arena and Store
// to fresh instances.
func NewEditorService(deps EditorDeps) EditorService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}
	if deps.SizeSystems == nil {
		deps.SizeSystems = deps.API
	}
	if deps.Policy.MaxBytes == 0 && len(deps.Policy.ContentTypes) == 0 {
		deps.Policy = DefaultImagePolicy()
	}
	if deps.Arena == nil {
		deps.Arena = NewPreviewArena()
	}
	if deps.Store == nil {
		deps.Store = NewSessionStore(deps.Logger)
	}
	if deps.Submitter == nil {
		deps.Submitter = NewOrchestrator(deps.API, nil, "", deps.Metrics, deps.Logger)
	}
	images := imageDeps{
		store:   deps.Images,
		arena:   deps.Arena,
		policy:  deps.Policy,
		metrics: deps.Metrics,
		logger:  deps.Logger,
	}
	svc := &editorServiceImpl{
		api:         deps.API,
		sizeSystems: deps.SizeSystems,
		store:       deps.Store,
		submitter:   deps.Submitter,
		imageDeps:   images,
		logger:      deps.Logger,
	}
	deps.Submitter.OnSaved(func(_ context.Context, sessionID string, _ *models.SaveResult) {
		svc.store.Remove(sessionID)
	})
	return svc
}

// OpenProductSession starts the new-product flow with an empty first variant in unique mode.
func (s *editorServiceImpl) OpenProductSession(ctx context.Context, fields models.ProductFields) (*Session, error) {
	sys, err := s.fetchSizeSystem(ctx, fields.SizeSystemID)
	if err != nil {
		return nil, err
	}
	draft := &models.ProductDraft{
		Product: fields,
		Variant: newVariant(sys),
	}
	return s.open(draft, sys), nil
}

// OpenVariantSession starts a new variant for an existing product.
func (s *editorServiceImpl) OpenVariantSession(ctx context.Context, productID string) (*Session, error) {
	product, err := s.api.FetchProduct(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "product not found")
	}
	sys, err := s.fetchSizeSystem(ctx, product.SizeSystemID)
	if err != nil {
		return nil, err
	}
	v := newVariant(sys)
	v.ProductID = product.ID
	draft := &models.VariantDraft{
		ProductID:    product.ID,
		SizeSystemID: sys.ID,
		Variant:      v,
	}
	return s.open(draft, sys), nil
}

// OpenEditSession hydrates an existing variant. Stock rows are realigned with the product's
// current size system; the snapshot is taken after hydration.
func (s *editorServiceImpl) OpenEditSession(ctx context.Context, variantID string) (*Session, error) {
	variant, err := s.api.FetchVariant(ctx, variantID)
	if err != nil {
		return nil, notFoundOr(err, "variant not found")
	}
	product, err := s.api.FetchProduct(ctx, variant.ProductID)
	if err != nil {
		return nil, notFoundOr(err, "product not found")
	}
	sys, err := s.fetchSizeSystem(ctx, product.SizeSystemID)
	if err != nil {
		return nil, err
	}

	v := variant.Clone()
	if !v.PricingMode.Valid() {
		v.PricingMode = models.PricingModeUnique
	}
	v.Stock = HydrateStockRows(sys, variant.Stock)
	if v.PricingMode == models.PricingModeUnique {
		collapseToReference(&v)
	}
	for i := range v.Images {
		v.Images[i].Preview = nil
	}

	draft := &models.VariantDraft{
		ProductID:    product.ID,
		SizeSystemID: sys.ID,
		Variant:      v,
	}
	return s.open(draft, sys), nil
}

func (s *editorServiceImpl) Session(id string) (*Session, error) {
	return s.store.Get(id)
}

func (s *editorServiceImpl) SelectSizeSystem(ctx context.Context, sessionID, sizeSystemID string) error {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return err
	}
	sys, err := s.fetchSizeSystem(ctx, sizeSystemID)
	if err != nil {
		return err
	}
	return sess.SelectSizeSystem(sys)
}

func (s *editorServiceImpl) Submit(ctx context.Context, sessionID string) (*models.SaveResult, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.submitter.Submit(ctx, sess)
}

func (s *editorServiceImpl) Discard(sessionID string) error {
	return s.store.Discard(sessionID)
}

func (s *editorServiceImpl) open(draft models.Draft, sys *models.SizeSystem) *Session {
	sess := newSession(draft, sys, s.imageDeps)
	s.store.Put(sess)
	s.logger.Info("Editor session opened",
		zap.String("session_id", sess.ID),
		zap.String("flow", FlowName(draft)),
		zap.String("size_system_id", sys.ID),
	)
	return sess
}

func (s *editorServiceImpl) fetchSizeSystem(ctx context.Context, id string) (*models.SizeSystem, error) {
	if id == "" {
		return nil, validationError("size system is required")
	}
	sys, err := s.sizeSystems.FetchSizeSystem(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "size system not found")
	}
	return sys, nil
}

func newVariant(sys *models.SizeSystem) models.Variant {
	return models.Variant{
		PricingMode: models.PricingModeUnique,
		Images:      []models.Image{},
		Stock:       InitStockRows(sys, models.PricingModeUnique, decimal.NullDecimal{}),
	}
}

// notFoundOr maps a 404 from the catalog API to KindNotFound; other failures pass through.
func notFoundOr(err error, msg string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
		return &EditorError{Kind: KindNotFound, Message: msg, Err: err}
	}
	return err
}

package services_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"sync"
	"time"

	"variant-editor-service/models"
	"variant-editor-service/services"

	"github.com/shopspring/decimal"
)

// --- Mock ImageStore ---

type mockImageStore struct {
	mu        sync.Mutex
	uploads   []string
	deletes   []string
	failAt    int // 1-based upload call that fails; 0 never fails
	deleteErr error
}

func (m *mockImageStore) Upload(_ context.Context, bin models.StagedBinary) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := len(m.uploads) + 1
	if m.failAt == call {
		m.failAt = 0
		return "", "", fmt.Errorf("storage unavailable")
	}
	id := fmt.Sprintf("img-%d", call)
	m.uploads = append(m.uploads, bin.Filename)
	return "https://cdn.test/" + id, id, nil
}

func (m *mockImageStore) Delete(_ context.Context, permanentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, permanentID)
	return m.deleteErr
}

func (m *mockImageStore) uploadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.uploads)
}

// --- Mock CatalogAPI ---

type mockCatalogAPI struct {
	mu          sync.Mutex
	sizeSystems map[string]*models.SizeSystem
	products    map[string]*models.Product
	variants    map[string]*models.Variant

	createdProducts []models.ProductPayload
	createdVariants []models.VariantPayload
	updatedVariants []models.VariantPayload
	sizeSystemCalls int

	saveErr error
	block   chan struct{}
}

func newMockCatalogAPI() *mockCatalogAPI {
	return &mockCatalogAPI{
		sizeSystems: map[string]*models.SizeSystem{"apparel": apparelSizes()},
		products:    make(map[string]*models.Product),
		variants:    make(map[string]*models.Variant),
	}
}

func (m *mockCatalogAPI) FetchSizeSystem(_ context.Context, id string) (*models.SizeSystem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sizeSystemCalls++
	sys, ok := m.sizeSystems[id]
	if !ok {
		return nil, notFound()
	}
	return sys, nil
}

func (m *mockCatalogAPI) FetchProduct(_ context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, notFound()
	}
	return p, nil
}

func (m *mockCatalogAPI) FetchVariant(_ context.Context, id string) (*models.Variant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.variants[id]
	if !ok {
		return nil, notFound()
	}
	out := v.Clone()
	return &out, nil
}

func (m *mockCatalogAPI) CreateProduct(_ context.Context, payload models.ProductPayload) (*models.SaveResult, error) {
	m.wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	m.createdProducts = append(m.createdProducts, payload)
	return &models.SaveResult{ProductID: "prod-new", VariantID: "var-new"}, nil
}

func (m *mockCatalogAPI) CreateVariant(_ context.Context, productID string, payload models.VariantPayload) (*models.SaveResult, error) {
	m.wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	m.createdVariants = append(m.createdVariants, payload)
	return &models.SaveResult{ProductID: productID, VariantID: "var-new"}, nil
}

func (m *mockCatalogAPI) UpdateVariant(_ context.Context, variantID string, payload models.VariantPayload) (*models.SaveResult, error) {
	m.wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	m.updatedVariants = append(m.updatedVariants, payload)
	return &models.SaveResult{ProductID: "prod-1", VariantID: variantID}, nil
}

func (m *mockCatalogAPI) wait() {
	if m.block != nil {
		<-m.block
	}
}

func (m *mockCatalogAPI) saveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.createdProducts) + len(m.createdVariants) + len(m.updatedVariants)
}

// --- Mock metrics and events ---

type mockMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{counts: make(map[string]int)}
}

func (m *mockMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	m.mu.Lock()
	m.counts[name]++
	m.mu.Unlock()
	return nil
}

func (m *mockMetrics) RecordLatency(context.Context, string, time.Duration, map[string]string) error {
	return nil
}

func (m *mockMetrics) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[name]
}

type mockSNSPublisher struct {
	published [][]byte
	topics    []string
}

func (m *mockSNSPublisher) Publish(_ context.Context, topicArn string, msg []byte) error {
	m.topics = append(m.topics, topicArn)
	m.published = append(m.published, msg)
	return nil
}

// --- Helpers ---

const testTopicArn = "arn:aws:sns:us-east-1:000000000000:variant-editor-events"

func notFound() error {
	return &services.APIError{StatusCode: http.StatusNotFound, Message: "not found"}
}

// apparelSizes is deliberately listed out of ordinal order.
func apparelSizes() *models.SizeSystem {
	return &models.SizeSystem{
		ID:   "apparel",
		Name: "Apparel",
		Sizes: []models.Size{
			{ID: "m", Label: "M", Ordinal: 3},
			{ID: "xs", Label: "XS", Ordinal: 1},
			{ID: "s", Label: "S", Ordinal: 2},
		},
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func pngBytes(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func pngBinary(name string) models.StagedBinary {
	return models.StagedBinary{Filename: name, ContentType: "image/png", Data: pngBytes(64, 32)}
}

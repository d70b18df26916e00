package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"variant-editor-service/models"

	"go.uber.org/zap"
)

// TokenSource supplies the bearer token for catalog API calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// APIError is a non-success response from the catalog API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("catalog api returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("catalog api returned status %d", e.StatusCode)
}

// CatalogClient calls the backend catalog HTTP API.
type CatalogClient struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
	logger  *zap.Logger
}

// NewCatalogClient creates a CatalogClient. tokens may be nil for unauthenticated backends.
func NewCatalogClient(baseURL string, timeout time.Duration, tokens TokenSource, logger *zap.Logger) *CatalogClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger,
	}
}

func (c *CatalogClient) FetchSizeSystem(ctx context.Context, id string) (*models.SizeSystem, error) {
	var out models.SizeSystem
	if err := c.do(ctx, http.MethodGet, "/size-systems/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CatalogClient) FetchProduct(ctx context.Context, id string) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CatalogClient) FetchVariant(ctx context.Context, id string) (*models.Variant, error) {
	var out models.Variant
	if err := c.do(ctx, http.MethodGet, "/variants/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CatalogClient) CreateProduct(ctx context.Context, payload models.ProductPayload) (*models.SaveResult, error) {
	var out models.SaveResult
	if err := c.do(ctx, http.MethodPost, "/products", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CatalogClient) CreateVariant(ctx context.Context, productID string, payload models.VariantPayload) (*models.SaveResult, error) {
	var out models.SaveResult
	if err := c.do(ctx, http.MethodPost, "/products/"+url.PathEscape(productID)+"/variants", payload, &out); err != nil {
		return nil, err
	}
	if out.ProductID == "" {
		out.ProductID = productID
	}
	return &out, nil
}

func (c *CatalogClient) UpdateVariant(ctx context.Context, variantID string, payload models.VariantPayload) (*models.SaveResult, error) {
	var out models.SaveResult
	if err := c.do(ctx, http.MethodPut, "/variants/"+url.PathEscape(variantID), payload, &out); err != nil {
		return nil, err
	}
	if out.VariantID == "" {
		out.VariantID = variantID
	}
	return &out, nil
}

func (c *CatalogClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("catalog api token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("Catalog API call failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls a human readable message out of an error body.
func errorMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

package controllers

import (
	"fmt"

	"variant-editor-service/models"
	"variant-editor-service/services"

	"github.com/shopspring/decimal"
)

type productFieldsRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	CategoryID   string `json:"category_id" binding:"required"`
	Brand        string `json:"brand" binding:"required"`
	SizeSystemID string `json:"size_system_id" binding:"required"`
}

func (r productFieldsRequest) fields() models.ProductFields {
	return models.ProductFields{
		Name:         r.Name,
		Description:  r.Description,
		CategoryID:   r.CategoryID,
		Brand:        r.Brand,
		SizeSystemID: r.SizeSystemID,
	}
}

type updateDraftRequest struct {
	Name    *string               `json:"name"`
	Product *models.ProductFields `json:"product"`
}

type sizeSystemRequest struct {
	SizeSystemID string `json:"size_system_id" binding:"required"`
}

type pricingRequest struct {
	Mode                        *models.PricingMode `json:"mode"`
	ReferencePrice              *decimal.Decimal    `json:"reference_price"`
	ReferenceOriginalPrice      *decimal.Decimal    `json:"reference_original_price"`
	ClearReferenceOriginalPrice bool                `json:"clear_reference_original_price"`
}

func (r pricingRequest) update() services.PricingUpdate {
	return services.PricingUpdate{
		Mode:                        r.Mode,
		ReferencePrice:              r.ReferencePrice,
		ReferenceOriginalPrice:      r.ReferenceOriginalPrice,
		ClearReferenceOriginalPrice: r.ClearReferenceOriginalPrice,
	}
}

type stockRowRequest struct {
	Quantity           *int             `json:"quantity" binding:"omitempty,min=0"`
	Price              *decimal.Decimal `json:"price"`
	OriginalPrice      *decimal.Decimal `json:"original_price"`
	ClearOriginalPrice bool             `json:"clear_original_price"`
}

func (r stockRowRequest) update() services.RowUpdate {
	return services.RowUpdate{
		Quantity:           r.Quantity,
		Price:              r.Price,
		OriginalPrice:      r.OriginalPrice,
		ClearOriginalPrice: r.ClearOriginalPrice,
	}
}

type imageView struct {
	Index       int    `json:"index"`
	Status      string `json:"status"`
	URL         string `json:"url,omitempty"`
	PermanentID string `json:"permanent_id,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
}

type variantView struct {
	ID                     string              `json:"id,omitempty"`
	Name                   string              `json:"name"`
	PricingMode            models.PricingMode  `json:"pricing_mode"`
	ReferencePrice         decimal.NullDecimal `json:"reference_price"`
	ReferenceOriginalPrice decimal.NullDecimal `json:"reference_original_price"`
	Images                 []imageView         `json:"images"`
	Stock                  []models.StockRow   `json:"stock"`
}

type sessionResponse struct {
	ID         string                `json:"id"`
	Flow       string                `json:"flow"`
	State      services.SessionState `json:"state"`
	Dirty      bool                  `json:"dirty"`
	Error      string                `json:"error,omitempty"`
	ErrorKind  services.ErrorKind    `json:"error_kind,omitempty"`
	ProductID  string                `json:"product_id,omitempty"`
	Product    *models.ProductFields `json:"product,omitempty"`
	SizeSystem *models.SizeSystem    `json:"size_system"`
	Variant    variantView           `json:"variant"`
}

func newSessionResponse(view services.SessionView) sessionResponse {
	resp := sessionResponse{
		ID:         view.ID,
		State:      view.Status.State,
		Dirty:      view.Status.Dirty,
		SizeSystem: view.SizeSystem,
	}
	if err := view.Status.LastError; err != nil {
		resp.Error = errorMessage(err)
		resp.ErrorKind = services.KindOf(err)
	}

	resp.Flow = services.FlowName(view.Draft)
	switch d := view.Draft.(type) {
	case *models.ProductDraft:
		product := d.Product
		resp.Product = &product
	case *models.VariantDraft:
		resp.ProductID = d.ProductID
	}

	v := view.Draft.VariantRef()
	resp.Variant = variantView{
		ID:                     v.ID,
		Name:                   v.Name,
		PricingMode:            v.PricingMode,
		ReferencePrice:         v.ReferencePrice,
		ReferenceOriginalPrice: v.ReferenceOriginalPrice,
		Images:                 make([]imageView, 0, len(v.Images)),
		Stock:                  v.Stock,
	}
	for i, img := range v.Images {
		iv := imageView{Index: i, Status: "persisted", URL: img.URL, PermanentID: img.PermanentID}
		if img.IsStaged() {
			iv.Status = "staged"
			iv.PreviewURL = fmt.Sprintf("/editor/sessions/%s/images/%d/preview", view.ID, i)
		}
		resp.Variant.Images = append(resp.Variant.Images, iv)
	}
	return resp
}

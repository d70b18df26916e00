package controllers

import (
	"io"
	"net/http"
	"strconv"

	apperrors "variant-editor-service/common/errors"
	"variant-editor-service/common/logger"
	"variant-editor-service/models"
	"variant-editor-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EditorController exposes variant editor sessions over HTTP.
type EditorController struct {
	svc           services.EditorService
	logger        *zap.Logger
	maxImageBytes int64
}

func NewEditorController(svc services.EditorService, maxImageBytes int64, log *zap.Logger) *EditorController {
	if log == nil {
		log = zap.NewNop()
	}
	if maxImageBytes <= 0 {
		maxImageBytes = services.DefaultImagePolicy().MaxBytes
	}
	return &EditorController{svc: svc, logger: log, maxImageBytes: maxImageBytes}
}

// OpenProductSession handles POST /editor/sessions/products
func (ec *EditorController) OpenProductSession(c *gin.Context) {
	var req productFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid request body", err))
		return
	}
	sess, err := ec.svc.OpenProductSession(c.Request.Context(), req.fields())
	if err != nil {
		ec.fail(c, "Failed to open product session", err)
		return
	}
	c.JSON(http.StatusCreated, newSessionResponse(sess.View()))
}

// OpenVariantSession handles POST /editor/sessions/products/:productId/variants
func (ec *EditorController) OpenVariantSession(c *gin.Context) {
	sess, err := ec.svc.OpenVariantSession(c.Request.Context(), c.Param("productId"))
	if err != nil {
		ec.fail(c, "Failed to open variant session", err)
		return
	}
	c.JSON(http.StatusCreated, newSessionResponse(sess.View()))
}

// OpenEditSession handles POST /editor/sessions/variants/:variantId
func (ec *EditorController) OpenEditSession(c *gin.Context) {
	sess, err := ec.svc.OpenEditSession(c.Request.Context(), c.Param("variantId"))
	if err != nil {
		ec.fail(c, "Failed to open edit session", err)
		return
	}
	c.JSON(http.StatusCreated, newSessionResponse(sess.View()))
}

// GetSession handles GET /editor/sessions/:id
func (ec *EditorController) GetSession(c *gin.Context) {
	sess, ok := ec.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(sess.View()))
}

// DiscardSession handles DELETE /editor/sessions/:id
func (ec *EditorController) DiscardSession(c *gin.Context) {
	if err := ec.svc.Discard(c.Param("id")); err != nil {
		ec.fail(c, "Failed to discard session", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateDraft handles PATCH /editor/sessions/:id
func (ec *EditorController) UpdateDraft(c *gin.Context) {
	sess, ok := ec.session(c)
	if !ok {
		return
	}
	var req updateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid request body", err))
		return
	}
	if req.Name != nil {
		if err := sess.SetVariantName(*req.Name); err != nil {
			ec.fail(c, "Failed to rename variant", err)
			return
		}
	}
	if req.Product != nil {
		if err := sess.SetProductFields(*req.Product); err != nil {
			ec.fail(c, "Failed to update product fields", err)
			return
		}
	}
	c.JSON(http.StatusOK, newSessionResponse(sess.View()))
}

// SelectSizeSystem handles PUT /editor/sessions/:id/size-system
func (ec *EditorController) SelectSizeSystem(c *gin.Context) {
	var req sizeSystemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid request body", err))
		return
	}
	id := c.Param("id")
	if err := ec.svc.SelectSizeSystem(c.Request.Context(), id, req.SizeSystemID); err != nil {
		ec.fail(c, "Failed to select size system", err)
		return
	}
	ec.respondSession(c, id)
}

// UpdatePricing handles PUT /editor/sessions/:id/pricing
func (ec *EditorController) UpdatePricing(c *gin.Context) {
	sess, ok := ec.session(c)
	if !ok {
		return
	}
	var req pricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid request body", err))
		return
	}

	if err := sess.UpdatePricing(req.update()); err != nil {
		ec.fail(c, "Failed to update pricing", err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(sess.View()))
}

// UpdateStockRow handles PUT /editor/sessions/:id/rows/:sizeId
func (ec *EditorController) UpdateStockRow(c *gin.Context) {
	sess, ok := ec.session(c)
	if !ok {
		return
	}
	var req stockRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid request body", err))
		return
	}

	if err := sess.UpdateStockRow(c.Param("sizeId"), req.update()); err != nil {
		ec.fail(c, "Failed to update stock row", err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(sess.View()))
}

// AppendImage handles POST /editor/sessions/:id/images (multipart field "image")
func (ec *EditorController) AppendImage(c *gin.Context) {
	sess, ok := ec.session(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Image file is required", err))
		return
	}
	if fileHeader.Size > ec.maxImageBytes {
		apperrors.Respond(c, apperrors.New(http.StatusRequestEntityTooLarge, "Image is too large", nil))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Failed to read image", err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, ec.maxImageBytes+1))
	if err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Failed to read image", err))
		return
	}

	bin := models.StagedBinary{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}
	if _, err := sess.AppendImage(bin); err != nil {
		ec.fail(c, "Failed to stage image", err)
		return
	}
	c.JSON(http.StatusCreated, newSessionResponse(sess.View()))
}

// RemoveImage handles DELETE /editor/sessions/:id/images/:index
func (ec *EditorController) RemoveImage(c *gin.Context) {
	sess, ok := ec.session(c)
	if !ok {
		return
	}
	index, ok := imageIndex(c)
	if !ok {
		return
	}
	if err := sess.RemoveImage(c.Request.Context(), index); err != nil {
		ec.fail(c, "Failed to remove image", err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(sess.View()))
}

// ImagePreview handles GET /editor/sessions/:id/images/:index/preview
func (ec *EditorController) ImagePreview(c *gin.Context) {
	sess, ok := ec.session(c)
	if !ok {
		return
	}
	index, ok := imageIndex(c)
	if !ok {
		return
	}
	thumb, err := sess.ImagePreview(index)
	if err != nil {
		ec.fail(c, "Failed to load preview", err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/jpeg", thumb)
}

// Submit handles POST /editor/sessions/:id/submit
func (ec *EditorController) Submit(c *gin.Context) {
	result, err := ec.svc.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		ec.fail(c, "Failed to save variant", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Variant saved",
		"product_id": result.ProductID,
		"variant_id": result.VariantID,
	})
}

func (ec *EditorController) session(c *gin.Context) (*services.Session, bool) {
	sess, err := ec.svc.Session(c.Param("id"))
	if err != nil {
		ec.fail(c, "Session lookup failed", err)
		return nil, false
	}
	return sess, true
}

func (ec *EditorController) respondSession(c *gin.Context, id string) {
	sess, err := ec.svc.Session(id)
	if err != nil {
		ec.fail(c, "Session lookup failed", err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(sess.View()))
}

func (ec *EditorController) fail(c *gin.Context, msg string, err error) {
	appErr := toAppError(err)
	log := logger.For(c, ec.logger)
	if appErr.Code >= http.StatusInternalServerError {
		log.Error(msg, zap.String("session_id", c.Param("id")), zap.Error(err))
	} else {
		log.Debug(msg, zap.String("session_id", c.Param("id")), zap.Error(err))
	}
	apperrors.Respond(c, appErr)
}

func imageIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "Invalid image index", err))
		return 0, false
	}
	return index, true
}

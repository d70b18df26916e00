package routes

import (
	"variant-editor-service/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the editor API under /editor behind the given auth middleware.
// uploadLimit, when set, runs before image staging.
func RegisterRoutes(r *gin.Engine, editor *controllers.EditorController, uploadLimit gin.HandlerFunc, guards ...gin.HandlerFunc) {
	appendImage := []gin.HandlerFunc{editor.AppendImage}
	if uploadLimit != nil {
		appendImage = append([]gin.HandlerFunc{uploadLimit}, appendImage...)
	}

	sessions := r.Group("/editor/sessions", guards...)
	{
		sessions.POST("/products", editor.OpenProductSession)
		sessions.POST("/products/:productId/variants", editor.OpenVariantSession)
		sessions.POST("/variants/:variantId", editor.OpenEditSession)

		sessions.GET("/:id", editor.GetSession)
		sessions.PATCH("/:id", editor.UpdateDraft)
		sessions.DELETE("/:id", editor.DiscardSession)
		sessions.PUT("/:id/size-system", editor.SelectSizeSystem)
		sessions.PUT("/:id/pricing", editor.UpdatePricing)
		sessions.PUT("/:id/rows/:sizeId", editor.UpdateStockRow)
		sessions.POST("/:id/images", appendImage...)
		sessions.DELETE("/:id/images/:index", editor.RemoveImage)
		sessions.GET("/:id/images/:index/preview", editor.ImagePreview)
		sessions.POST("/:id/submit", editor.Submit)
	}
}

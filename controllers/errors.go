package controllers

import (
	"errors"
	"net/http"

	apperrors "variant-editor-service/common/errors"
	"variant-editor-service/services"
)

// toAppError maps editor errors onto HTTP errors.
func toAppError(err error) *apperrors.Error {
	var apiErr *services.APIError
	switch services.KindOf(err) {
	case services.KindValidation:
		return apperrors.New(http.StatusUnprocessableEntity, errorMessage(err), err).WithKind(string(services.KindValidation))
	case services.KindNotFound:
		return apperrors.New(http.StatusNotFound, errorMessage(err), err).WithKind(string(services.KindNotFound))
	case services.KindConflict:
		return apperrors.New(http.StatusConflict, errorMessage(err), err).WithKind(string(services.KindConflict))
	case services.KindUpload, services.KindSubmission:
		return apperrors.New(http.StatusBadGateway, errorMessage(err), err).WithKind(string(services.KindOf(err)))
	}
	if errors.As(err, &apiErr) {
		return apperrors.New(http.StatusBadGateway, "Catalog service error", err)
	}
	return apperrors.New(http.StatusInternalServerError, "Internal server error", err)
}

func errorMessage(err error) string {
	var ee *services.EditorError
	if errors.As(err, &ee) {
		return ee.Message
	}
	return err.Error()
}

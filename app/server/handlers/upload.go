package handlers

import (
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"io"
	"net/http"
	"personal-site-api/app/server/constants"
	"personal-site-api/app/server/images"
	"personal-site-api/app/server/types"
)

func (a *App) UploadImage(c echo.Context) error {
	file, err := c.FormFile(constants.UploadFormField)
	if err != nil {
		return a.er(c, http.StatusBadRequest, "No image file provided")
	}
	if file.Size > constants.UploadMaxSize {
		return a.er(c, http.StatusBadRequest, "File too large (max 10MB)")
	}

	// 先看声明的类型，非图片不读取内容
	contentType := file.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		return a.er(c, http.StatusBadRequest, "File is not an image")
	}

	src, err := file.Open()
	if err != nil {
		a.l.Error("failed to open uploaded file", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, constants.UploadMaxSize+1))
	if err != nil {
		a.l.Error("failed to read uploaded file", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	if len(data) > constants.UploadMaxSize {
		return a.er(c, http.StatusBadRequest, "File too large (max 10MB)")
	}

	ref, err := a.images.Normalize(data, contentType)
	if err != nil {
		if errors.Is(err, images.ErrNotImage) {
			return a.er(c, http.StatusBadRequest, "File is not an image")
		}
		a.l.Warn("failed to process image", zap.String("filename", file.Filename), zap.Error(err))
		return a.er(c, http.StatusUnprocessableEntity, "Failed to process image")
	}

	return c.JSON(http.StatusOK, &types.UploadResponse{
		ImageURL: ref,
	})
}

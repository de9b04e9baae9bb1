package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
)

// maxUploadSize mirrors the core's attachment cap so oversized uploads are
// rejected before buffering the whole file.
const maxUploadSize = 2 << 20

// formAttachment reads an optional multipart file field into an inline
// attachment. Returns nil when the field is absent or the request is not
// multipart.
func formAttachment(c echo.Context, field string) (*domain.Attachment, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// Absent file or non-multipart request.
		return nil, nil
	}
	if fh.Size > maxUploadSize {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "file size exceeds 2MB limit")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	if len(data) > maxUploadSize {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "file size exceeds 2MB limit")
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	return &domain.Attachment{
		Data:     data,
		Filename: fh.Filename,
		MimeType: mimeType,
	}, nil
}

// serveAttachment writes an inline attachment back to the client with its
// original filename and MIME type.
func serveAttachment(c echo.Context, a *domain.Attachment) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+a.Filename+`"`)
	return c.Blob(http.StatusOK, a.MimeType, a.Data)
}

// parseDate parses a date-only value (2006-01-02) into a UTC timestamp.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

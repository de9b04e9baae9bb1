package service

import (
	"fmt"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
)

// maxAttachmentSize caps inline blobs at 2 MiB, matching the upload limit of
// the admin frontend.
const maxAttachmentSize = 2 << 20

var (
	// imageMimeTypes is the allowed set for profile pictures.
	imageMimeTypes = map[string]struct{}{
		"image/jpeg": {},
		"image/jpg":  {},
		"image/png":  {},
	}

	// documentMimeTypes is the allowed set for ticket and response
	// attachments: images plus PDFs.
	documentMimeTypes = map[string]struct{}{
		"image/jpeg":      {},
		"image/jpg":       {},
		"image/png":       {},
		"application/pdf": {},
	}
)

// validateAttachment checks size and MIME type. A nil attachment is valid.
func validateAttachment(a *domain.Attachment, allowed map[string]struct{}) error {
	if a == nil {
		return nil
	}
	if len(a.Data) == 0 {
		return fmt.Errorf("%w: attachment is empty", domain.ErrValidation)
	}
	if len(a.Data) > maxAttachmentSize {
		return fmt.Errorf("%w: file size exceeds 2MB limit", domain.ErrValidation)
	}
	if _, ok := allowed[a.MimeType]; !ok {
		return fmt.Errorf("%w: file type %s is not allowed", domain.ErrValidation, a.MimeType)
	}
	return nil
}

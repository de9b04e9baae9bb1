package service

import (
	"bytes"
	"errors"
	"testing"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
)

func TestValidateAttachment(t *testing.T) {
	cases := []struct {
		name    string
		att     *domain.Attachment
		allowed map[string]struct{}
		wantErr bool
	}{
		{"nil is valid", nil, imageMimeTypes, false},
		{"png profile picture", &domain.Attachment{Data: []byte{1}, MimeType: "image/png"}, imageMimeTypes, false},
		{"pdf document", &domain.Attachment{Data: []byte{1}, MimeType: "application/pdf"}, documentMimeTypes, false},
		{"pdf as profile picture", &domain.Attachment{Data: []byte{1}, MimeType: "application/pdf"}, imageMimeTypes, true},
		{"gif rejected", &domain.Attachment{Data: []byte{1}, MimeType: "image/gif"}, documentMimeTypes, true},
		{"empty blob", &domain.Attachment{MimeType: "image/png"}, imageMimeTypes, true},
		{"over size limit", &domain.Attachment{Data: bytes.Repeat([]byte{1}, maxAttachmentSize+1), MimeType: "image/png"}, imageMimeTypes, true},
	}
	for _, tc := range cases {
		err := validateAttachment(tc.att, tc.allowed)
		if tc.wantErr && !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: err = %v, want ErrValidation", tc.name, err)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected err %v", tc.name, err)
		}
	}
}

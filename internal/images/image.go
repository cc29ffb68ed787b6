package images

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// UploadedImage is one user-supplied image. Identity is its position in
// the session's ordered image list; slide placeholders reference images
// by 1-based position, so order is significant.
type UploadedImage struct {
	Name        string
	MIMEType    string
	Data        []byte
	Description string
}

// ParseDataURI decodes a base64 payload into raw bytes and a MIME type.
// Accepts both a bare base64 string (with mimeType supplied separately)
// and a full data URI, whose prefix is stripped before decoding.
func ParseDataURI(payload, mimeType string) ([]byte, string, error) {
	if strings.HasPrefix(payload, "data:") {
		rest := strings.TrimPrefix(payload, "data:")
		semi := strings.Index(rest, ";base64,")
		if semi < 0 {
			return nil, "", fmt.Errorf("malformed data URI")
		}
		if m := rest[:semi]; m != "" {
			mimeType = m
		}
		payload = rest[semi+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64 payload: %w", err)
	}

	return data, mimeType, nil
}

package gmail

import (
	"encoding/base64"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"
)

const (
	mimeTextPlain = "text/plain"
	mimeTextHTML  = "text/html"
)

// extractBody pulls the message body out of a full-format payload.
//
// The first text/plain part wins. When no plain part exists the last
// text/html part is used, and a message without parts falls back to the
// top-level payload body. Returns an error only when nothing decodable
// is found.
func extractBody(payload *gmail.MessagePart) (string, error) {
	if payload == nil {
		return "", fmt.Errorf("message has no payload")
	}

	var plain, html string
	walkParts(payload, func(part *gmail.MessagePart) {
		if part.Body == nil || part.Body.Data == "" {
			return
		}
		switch part.MimeType {
		case mimeTextPlain:
			if plain == "" {
				plain = part.Body.Data
			}
		case mimeTextHTML:
			html = part.Body.Data
		}
	})

	data := plain
	if data == "" {
		data = html
	}
	if data == "" && payload.Body != nil {
		data = payload.Body.Data
	}
	if data == "" {
		return "", fmt.Errorf("no text body found in message")
	}

	return decodeBody(data)
}

// decodeBody decodes base64url body data. Gmail uses RFC 4648 base64url,
// but some payloads arrive standard-encoded, so fall back before failing.
func decodeBody(data string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode message body: %w", err)
		}
	}
	return string(decoded), nil
}

// walkParts recursively walks through message parts.
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}

	fn(part)

	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}

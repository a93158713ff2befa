package gmail

import (
	"encoding/base64"
	"testing"

	gmail "google.golang.org/api/gmail/v1"
)

func b64url(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestExtractBody(t *testing.T) {
	tests := []struct {
		name    string
		payload *gmail.MessagePart
		want    string
		wantErr bool
	}{
		{
			name:    "nil payload",
			payload: nil,
			wantErr: true,
		},
		{
			name: "body in top-level payload",
			payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: b64url("hello world")},
			},
			want: "hello world",
		},
		{
			name: "plain part preferred over html",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{
						MimeType: "text/html",
						Body:     &gmail.MessagePartBody{Data: b64url("<p>html</p>")},
					},
					{
						MimeType: "text/plain",
						Body:     &gmail.MessagePartBody{Data: b64url("plain")},
					},
				},
			},
			want: "plain",
		},
		{
			name: "html fallback when no plain part",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{
						MimeType: "text/html",
						Body:     &gmail.MessagePartBody{Data: b64url("<p>only html</p>")},
					},
				},
			},
			want: "<p>only html</p>",
		},
		{
			name: "first plain part wins",
			payload: &gmail.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{
						MimeType: "text/plain",
						Body:     &gmail.MessagePartBody{Data: b64url("first")},
					},
					{
						MimeType: "text/plain",
						Body:     &gmail.MessagePartBody{Data: b64url("second")},
					},
				},
			},
			want: "first",
		},
		{
			name: "plain part nested in multipart/alternative",
			payload: &gmail.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{
						MimeType: "multipart/alternative",
						Parts: []*gmail.MessagePart{
							{
								MimeType: "text/plain",
								Body:     &gmail.MessagePartBody{Data: b64url("nested plain")},
							},
						},
					},
					{
						MimeType: "application/pdf",
						Body:     &gmail.MessagePartBody{AttachmentId: "att1"},
					},
				},
			},
			want: "nested plain",
		},
		{
			name: "no decodable body",
			payload: &gmail.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{
						MimeType: "application/pdf",
						Body:     &gmail.MessagePartBody{AttachmentId: "att1"},
					},
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractBody(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("extractBody() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("extractBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeBody_StandardEncodingFallback(t *testing.T) {
	// "fn5+" is standard base64 for "~~~" and is invalid base64url.
	got, err := decodeBody("fn5+")
	if err != nil {
		t.Fatalf("decodeBody() error = %v", err)
	}
	if got != "~~~" {
		t.Errorf("decodeBody() = %q, want %q", got, "~~~")
	}
}

func TestDecodeBody_Invalid(t *testing.T) {
	if _, err := decodeBody("not base64!!"); err == nil {
		t.Error("decodeBody() expected error for invalid data")
	}
}

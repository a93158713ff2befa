package gmail

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestNewClient_RequiresUser(t *testing.T) {
	_, err := NewClient(context.Background(), &http.Client{}, "", Options{})
	if err == nil {
		t.Fatal("NewClient() expected error for empty user")
	}
	if !strings.Contains(err.Error(), "user email is required") {
		t.Errorf("NewClient() error = %v, should mention missing user", err)
	}
}

func TestNewClient_NormalizesOptions(t *testing.T) {
	tests := []struct {
		name         string
		opts         Options
		wantPageSize int64
		wantAttempts uint
	}{
		{
			name:         "zero values get defaults",
			opts:         Options{},
			wantPageSize: 500,
			wantAttempts: 1,
		},
		{
			name:         "oversized page clamped",
			opts:         Options{PageSize: 1000, RetryAttempts: 3},
			wantPageSize: 500,
			wantAttempts: 3,
		},
		{
			name:         "valid values kept",
			opts:         Options{PageSize: 100, RetryAttempts: 5},
			wantPageSize: 100,
			wantAttempts: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(context.Background(), &http.Client{}, "user@example.com", tt.opts)
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}
			if c.opts.PageSize != tt.wantPageSize {
				t.Errorf("PageSize = %d, want %d", c.opts.PageSize, tt.wantPageSize)
			}
			if c.opts.RetryAttempts != tt.wantAttempts {
				t.Errorf("RetryAttempts = %d, want %d", c.opts.RetryAttempts, tt.wantAttempts)
			}
			if c.User() != "user@example.com" {
				t.Errorf("User() = %q", c.User())
			}
		})
	}
}

func TestFetchBody_RequiresMessageID(t *testing.T) {
	c := &Client{}
	_, err := c.FetchBody(context.Background(), "")
	if err == nil {
		t.Fatal("FetchBody() expected error for empty messageID")
	}
	if !strings.Contains(err.Error(), "messageID is required") {
		t.Errorf("FetchBody() error = %v, should mention missing messageID", err)
	}
}

func TestSleepContext(t *testing.T) {
	t.Run("zero delay returns immediately", func(t *testing.T) {
		if err := sleepContext(context.Background(), 0); err != nil {
			t.Errorf("sleepContext() error = %v", err)
		}
	})

	t.Run("canceled context aborts the sleep", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := sleepContext(ctx, time.Minute); err == nil {
			t.Error("sleepContext() expected error for canceled context")
		}
	})
}

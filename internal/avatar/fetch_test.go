package avatar

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchImageRemoteURL(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(payload)
	}))
	defer ts.Close()

	data, mime, err := FetchImage(context.Background(), ts.Client(), ts.URL+"/out.png")
	if err != nil {
		t.Fatalf("FetchImage error: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("unexpected payload: %v", data)
	}
	if mime != "image/png" {
		t.Fatalf("unexpected mime: %s", mime)
	}
}

func TestFetchImageDataURI(t *testing.T) {
	payload := []byte("fake-image-bytes")
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	data, mime, err := FetchImage(context.Background(), nil, uri)
	if err != nil {
		t.Fatalf("FetchImage error: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("unexpected payload: %s", data)
	}
	if mime != "image/png" {
		t.Fatalf("unexpected mime: %s", mime)
	}
}

func TestFetchImageBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	if _, _, err := FetchImage(context.Background(), ts.Client(), ts.URL); err == nil {
		t.Fatalf("expected error on non-200 response")
	}
}

func TestFetchImageMalformedDataURI(t *testing.T) {
	cases := []string{
		"data:image/png;base64",
		"data:image/png,plain-not-base64",
		"data:image/png;base64,@@@",
	}
	for _, uri := range cases {
		if _, _, err := FetchImage(context.Background(), nil, uri); err == nil {
			t.Fatalf("expected error for %q", uri)
		}
	}
}

func TestFetchImageEmptyURL(t *testing.T) {
	if _, _, err := FetchImage(context.Background(), nil, "  "); err == nil || !strings.Contains(err.Error(), "url required") {
		t.Fatalf("expected url required error, got: %v", err)
	}
}

package avatar

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxGeneratedImageBytes caps how much of a provider response is read back.
const maxGeneratedImageBytes = 32 << 20

// FetchImage resolves the image reference returned by the provider into raw
// bytes plus a MIME type. Image models frequently answer with a base64 data
// URI instead of a remote URL; those are decoded locally without a network
// round trip.
func FetchImage(ctx context.Context, client *http.Client, url string) ([]byte, string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, "", errors.New("fetch image: url required")
	}
	if strings.HasPrefix(url, "data:") {
		return decodeDataURI(url)
	}

	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch image: http %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxGeneratedImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("fetch image: read body: %w", err)
	}
	if len(data) == 0 {
		return nil, "", errors.New("fetch image: empty body")
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "image/png"
	}
	return data, mime, nil
}

func decodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", errors.New("fetch image: not a data uri")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", errors.New("fetch image: malformed data uri")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", errors.New("fetch image: unsupported data uri encoding")
	}
	mime := strings.TrimSuffix(meta, ";base64")
	if mime == "" {
		mime = "image/png"
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("fetch image: decode data uri: %w", err)
	}
	if len(data) == 0 {
		return nil, "", errors.New("fetch image: empty data uri payload")
	}
	return data, mime, nil
}

package lmf

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// maxDownloadSize bounds the decompressed size of a fetched database.
const maxDownloadSize = 2 << 30

// IsRemote reports whether src names an http(s) resource.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Fetch downloads the LMF database at url into a new file under dir and
// returns its path. Gzip-compressed responses are decompressed on the fly.
// The caller removes the file when done.
func Fetch(ctx context.Context, client *http.Client, url, dir string) (string, error) {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Minute}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "wnris-cli")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: %s", url, resp.Status)
	}

	body := bufio.NewReader(resp.Body)
	var r io.Reader = body
	if magic, err := body.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(body)
		if err != nil {
			return "", fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	out, err := os.CreateTemp(dir, "wnris-lmf-*.db")
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	n, err := io.Copy(out, io.LimitReader(r, maxDownloadSize+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > maxDownloadSize {
		err = fmt.Errorf("exceeds %d bytes", int64(maxDownloadSize))
	}
	if err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to write %s: %w", out.Name(), err)
	}
	return out.Name(), nil
}

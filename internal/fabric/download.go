package fabric

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// maxFetchBytes bounds in-memory fetches (image previews).
const maxFetchBytes = 32 << 20

// FilenameFromURL returns the percent-decoded last path segment of raw,
// ignoring query and fragment. It falls back to "download".
func FilenameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.EscapedPath()
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	name := path.Base(strings.TrimRight(p, "/"))
	if dec, err := url.PathUnescape(name); err == nil {
		name = dec
	}
	// never let a decoded segment escape the download dir
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	if name == "" || name == "." || name == ".." {
		return "download"
	}
	return name
}

// Fetch downloads rawURL into memory.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	res, err := c.get(ctx, "files.fetch", c.ResolveURL(rawURL), "")
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	data, err := io.ReadAll(io.LimitReader(res.Body, maxFetchBytes+1))
	if err != nil {
		return nil, fmt.Errorf("files.fetch: reading body: %w", err)
	}
	c.metrics.AddBytes(int64(len(data)))
	if len(data) > maxFetchBytes {
		return nil, fmt.Errorf("files.fetch: %s exceeds %d bytes", rawURL, maxFetchBytes)
	}
	return data, nil
}

// Download streams rawURL into dir under FilenameFromURL(rawURL) and returns
// the written path. A partial file is removed on failure.
func (c *Client) Download(ctx context.Context, rawURL, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("files.download: creating %s: %w", dir, err)
	}
	res, err := c.get(ctx, "files.download", c.ResolveURL(rawURL), "")
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	dst := filepath.Join(dir, FilenameFromURL(rawURL))
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("files.download: %w", err)
	}
	n, err := io.Copy(tmp, res.Body)
	c.metrics.AddBytes(n)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("files.download: writing %s: %w", dst, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("files.download: %w", err)
	}
	return dst, nil
}

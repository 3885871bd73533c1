package syncer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/protek/protek/pkg/standards"
	"github.com/protek/protek/pkg/whttp"
)

// Refresh downloads the dataset at url and rewrites path with the document
// as fetched, indented the way the bundled file is kept. The file is only
// replaced when the download is a valid standards document.
func Refresh(ctx context.Context, client *retryablehttp.Client, url, path string) (int, error) {
	res, err := whttp.Get(ctx, client, url)
	if err != nil {
		return 0, fmt.Errorf("fetching standards: %w", err)
	}
	records, err := standards.Parse(res.Body)
	if err != nil {
		return 0, err
	}
	out := standards.Format(res.Body)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(dir, ".standards-*.json")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return len(records), nil
}

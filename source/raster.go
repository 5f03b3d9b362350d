package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// DefaultDPI is the resolution pages are rasterized at for OCR.
const DefaultDPI = 300

// ErrRasterizerUnavailable is returned when the rasterizer binary is not
// installed.
var ErrRasterizerUnavailable = errors.New("rasterizer not available")

// Rasterizer renders the pages of a PDF to images, one encoded image per
// page in page order.
type Rasterizer interface {
	Rasterize(ctx context.Context, path string, dpi int) ([][]byte, error)
}

// Pdftoppm rasterizes with poppler's pdftoppm.
type Pdftoppm struct {
	// Binary is the executable name or path. Default: "pdftoppm"
	Binary string
}

// Rasterize renders every page of the PDF at dpi to PNG.
func (p Pdftoppm) Rasterize(ctx context.Context, path string, dpi int) ([][]byte, error) {
	bin := p.Binary
	if bin == "" {
		bin = "pdftoppm"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRasterizerUnavailable, bin, err)
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	dir, err := os.MkdirTemp("", "ledgerscan-raster-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-r", strconv.Itoa(dpi), "-png", path, filepath.Join(dir, "page"))
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("pdftoppm failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return readPages(dir)
}

// readPages reads page-N.png files in page order. pdftoppm zero-pads N to
// the width of the page count, so names are sorted by their number.
func readPages(dir string) ([][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read raster dir: %w", err)
	}

	type numbered struct {
		n    int
		name string
	}
	var files []numbered
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".png") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "page-"), ".png"))
		if err != nil {
			continue
		}
		files = append(files, numbered{n, name})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].n < files[j].n })

	out := make([][]byte, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.name, err)
		}
		out = append(out, data)
	}
	return out, nil
}

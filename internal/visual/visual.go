// Package visual compares screenshots against stored baseline images.
package visual

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// DefaultThreshold is the per-channel tolerance used when Options.Threshold
// is zero.
const DefaultThreshold = 0.2

var (
	// ErrBaselineCreated is returned in strict mode when no baseline existed
	// and the actual image was stored as the new one.
	ErrBaselineCreated = errors.New("visual: baseline created")
	// ErrMismatch means too many pixels differ from the baseline.
	ErrMismatch = errors.New("visual: screenshot differs from baseline")
	// ErrSizeMismatch means the screenshot and baseline differ in size.
	ErrSizeMismatch = errors.New("visual: screenshot size differs from baseline")
)

// Options tune a comparison.
type Options struct {
	// Threshold is the per-channel difference, in [0,1], above which a pixel
	// counts as changed.
	Threshold float64
	// MaxDiffPixelRatio is the share of changed pixels still accepted.
	MaxDiffPixelRatio float64
	// UpdateBaseline overwrites the baseline with the actual image.
	UpdateBaseline bool
	// Strict turns a freshly created baseline into an error.
	Strict bool
	// OutputDir receives <name>-actual.png and <name>-diff.png on failure.
	// Defaults to the baseline's directory.
	OutputDir string
}

// Result describes a comparison.
type Result struct {
	BaselinePath    string
	ActualPath      string
	DiffPath        string
	DiffPixels      int
	TotalPixels     int
	BaselineCreated bool
	BaselineUpdated bool
}

// Ratio is the share of pixels that differ.
func (r Result) Ratio() float64 {
	if r.TotalPixels == 0 {
		return 0
	}
	return float64(r.DiffPixels) / float64(r.TotalPixels)
}

// Compare checks the PNG-encoded actual image against the baseline at
// baselinePath. A missing baseline is created from actual.
func Compare(actual []byte, baselinePath string, opts Options) (Result, error) {
	res := Result{BaselinePath: baselinePath}

	got, err := png.Decode(bytes.NewReader(actual))
	if err != nil {
		return res, fmt.Errorf("decode screenshot: %w", err)
	}

	raw, err := os.ReadFile(baselinePath)
	switch {
	case opts.UpdateBaseline:
		if err := writeFile(baselinePath, actual); err != nil {
			return res, err
		}
		res.BaselineUpdated = true
		return res, nil
	case errors.Is(err, os.ErrNotExist):
		if err := writeFile(baselinePath, actual); err != nil {
			return res, err
		}
		res.BaselineCreated = true
		if opts.Strict {
			return res, fmt.Errorf("%w: %s", ErrBaselineCreated, baselinePath)
		}
		return res, nil
	case err != nil:
		return res, fmt.Errorf("read baseline: %w", err)
	}

	want, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return res, fmt.Errorf("decode baseline %s: %w", baselinePath, err)
	}

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(baselinePath)
	}
	stem := strings.TrimSuffix(filepath.Base(baselinePath), filepath.Ext(baselinePath))
	actualPath := filepath.Join(outDir, stem+"-actual.png")

	if got.Bounds().Size() != want.Bounds().Size() {
		if err := writeFile(actualPath, actual); err != nil {
			return res, err
		}
		res.ActualPath = actualPath
		return res, fmt.Errorf("%w: got %v, baseline %v", ErrSizeMismatch, got.Bounds().Size(), want.Bounds().Size())
	}

	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	diff, changed := diffImages(want, got, threshold)
	res.DiffPixels = changed
	res.TotalPixels = want.Bounds().Dx() * want.Bounds().Dy()

	if res.Ratio() <= opts.MaxDiffPixelRatio {
		return res, nil
	}

	diffPath := filepath.Join(outDir, stem+"-diff.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, diff); err != nil {
		return res, fmt.Errorf("encode diff: %w", err)
	}
	if err := writeFile(actualPath, actual); err != nil {
		return res, err
	}
	if err := writeFile(diffPath, buf.Bytes()); err != nil {
		return res, err
	}
	res.ActualPath = actualPath
	res.DiffPath = diffPath
	return res, fmt.Errorf("%w: %d of %d pixels (%.4f > %.4f)",
		ErrMismatch, res.DiffPixels, res.TotalPixels, res.Ratio(), opts.MaxDiffPixelRatio)
}

var diffMarker = color.RGBA{R: 255, A: 255}

// diffImages returns an image with changed pixels in red over a faded copy
// of the baseline, and the number of changed pixels.
func diffImages(want, got image.Image, threshold float64) (*image.RGBA, int) {
	wb, gb := want.Bounds(), got.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, wb.Dx(), wb.Dy()))
	limit := uint32(threshold * 0xffff)
	changed := 0

	for y := 0; y < wb.Dy(); y++ {
		for x := 0; x < wb.Dx(); x++ {
			wr, wg, wbl, wa := want.At(wb.Min.X+x, wb.Min.Y+y).RGBA()
			gr, gg, gbl, ga := got.At(gb.Min.X+x, gb.Min.Y+y).RGBA()
			if exceeds(wr, gr, limit) || exceeds(wg, gg, limit) || exceeds(wbl, gbl, limit) || exceeds(wa, ga, limit) {
				out.SetRGBA(x, y, diffMarker)
				changed++
				continue
			}
			gray := uint8((wr + wg + wbl) / 3 >> 8)
			faded := 255 - (255-gray)/4
			out.SetRGBA(x, y, color.RGBA{R: faded, G: faded, B: faded, A: 255})
		}
	}
	return out, changed
}

func exceeds(a, b, limit uint32) bool {
	if a > b {
		return a-b > limit
	}
	return b-a > limit
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

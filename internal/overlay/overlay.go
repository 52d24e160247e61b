// Package overlay renders filtered correspondences for visual inspection:
// the two images side by side with a line per kept match.
package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/gridmatch/internal/match"
	"github.com/MeKo-Tech/gridmatch/internal/utils"
)

// Options control the rendering style.
type Options struct {
	LineColor   color.Color
	MarkerColor color.Color
	LineWidth   int
	MarkerSize  int

	// MaxWidth downscales the composed canvas when it is wider; 0 keeps
	// the original resolution.
	MaxWidth int
}

// DefaultOptions returns the style used by the CLI.
func DefaultOptions() Options {
	return Options{
		LineColor:   color.RGBA{G: 200, A: 255},
		MarkerColor: color.RGBA{R: 230, G: 120, A: 255},
		LineWidth:   1,
		MarkerSize:  2,
	}
}

// Render composes the query image (left) and train image (right) and draws
// the kept matches between them.
func Render(queryImg, trainImg image.Image, set *match.MatchSet, kept []match.Match, opts Options) (image.Image, error) {
	if queryImg == nil || trainImg == nil {
		return nil, errors.New("both images are required")
	}
	if set == nil {
		return nil, errors.New("nil match set")
	}

	qb := queryImg.Bounds()
	tb := trainImg.Bounds()
	width := qb.Dx() + tb.Dx()
	height := qb.Dy()
	if tb.Dy() > height {
		height = tb.Dy()
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, image.Rect(0, 0, qb.Dx(), qb.Dy()), queryImg, qb.Min, draw.Src)
	draw.Draw(canvas, image.Rect(qb.Dx(), 0, width, tb.Dy()), trainImg, tb.Min, draw.Src)

	offsetX := qb.Dx()
	for i, m := range kept {
		if m.QueryIdx < 0 || m.QueryIdx >= len(set.QueryKeyPoints) ||
			m.TrainIdx < 0 || m.TrainIdx >= len(set.TrainKeyPoints) {
			return nil, fmt.Errorf("kept match %d references out-of-range keypoints", i)
		}
		q := set.QueryKeyPoints[m.QueryIdx]
		t := set.TrainKeyPoints[m.TrainIdx]

		a := image.Pt(int(q.X+0.5), int(q.Y+0.5))
		b := image.Pt(offsetX+int(t.X+0.5), int(t.Y+0.5))
		utils.DrawLine(canvas, a, b, opts.LineColor, opts.LineWidth)
		utils.DrawMarker(canvas, a, opts.MarkerColor, opts.MarkerSize)
		utils.DrawMarker(canvas, b, opts.MarkerColor, opts.MarkerSize)
	}

	if opts.MaxWidth > 0 && width > opts.MaxWidth {
		return imaging.Resize(canvas, opts.MaxWidth, 0, imaging.Lanczos), nil
	}
	return canvas, nil
}

// Save writes the rendered overlay; the format follows the file extension.
func Save(path string, img image.Image) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("saving overlay: %w", err)
	}
	return nil
}

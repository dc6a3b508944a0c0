// Package imaging renders NFD images by stacking the chosen fragment layers
// (body, then mouth, then eyes) onto a fixed-size canvas.
package imaging

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
)

// CanvasSize is the square pixel size every fragment is drawn onto.
const CanvasSize = 112

// Renderer composes fragment PNGs from a directory. It satisfies the
// services.ImageComposer interface.
type Renderer struct {
	fragmentDir string
}

// NewRenderer creates a Renderer reading fragments from fragmentDir.
func NewRenderer(fragmentDir string) *Renderer {
	return &Renderer{fragmentDir: fragmentDir}
}

// Compose layers the three fragments in draw order onto a fresh canvas.
func (r *Renderer) Compose(body, mouth, eyes string) (image.Image, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, CanvasSize, CanvasSize))

	for _, name := range []string{body, mouth, eyes} {
		layer, err := r.load(name)
		if err != nil {
			return nil, err
		}
		draw.Draw(canvas, canvas.Bounds(), layer, image.Point{}, draw.Over)
	}

	return canvas, nil
}

// Save writes the composed image as a PNG, creating the destination
// directory if needed.
func (r *Renderer) Save(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir for %s: %w", path, err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}

func (r *Renderer) load(name string) (image.Image, error) {
	f, err := os.Open(filepath.Join(r.fragmentDir, name))
	if err != nil {
		return nil, fmt.Errorf("opening fragment %s: %w", name, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding fragment %s: %w", name, err)
	}
	return img, nil
}

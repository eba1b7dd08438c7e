package darkroom

import (
	"fmt"
	"image"
	"io"
	"os"

	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	xdraw "golang.org/x/image/draw"
)

// DecodeImage decodes an encoded PNG or JPEG stream into an Image.
// Callers that manage their own read buffers (the scheduler's workers
// recycle theirs) decode through this instead of LoadImageFile.
func DecodeImage(r io.Reader) (*Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return FromImage(img), nil
}

// LoadImageFile decodes a PNG or JPEG file into an Image.
// RAW container decoding is a collaborator's job; only already-decodable
// bitmap formats are handled here.
func LoadImageFile(path string) (*Image, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("darkroom: open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	img, err := DecodeImage(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// LoadThumbnailFile decodes a file and downscales it so that its longest
// side is at most maxSize pixels. Images already within bounds are
// returned at full size.
func LoadThumbnailFile(path string, maxSize int) (*Image, error) {
	img, err := LoadImageFile(path)
	if err != nil {
		return nil, err
	}
	return img.Thumbnail(maxSize), nil
}

// Thumbnail returns a downscaled copy whose longest side is at most
// maxSize pixels, preserving aspect ratio. If the image already fits,
// a plain copy is returned.
func (m *Image) Thumbnail(maxSize int) *Image {
	if maxSize <= 0 || (m.width <= maxSize && m.height <= maxSize) {
		return m.Clone()
	}

	w, h := m.width, m.height
	if w >= h {
		h = h * maxSize / w
		w = maxSize
	} else {
		w = w * maxSize / h
		h = maxSize
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	src := m.ToImage()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return FromImage(dst)
}

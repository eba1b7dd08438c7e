package darkroom

import (
	"fmt"
	"image"
	"image/color"
)

// Image represents a rectangular RGBA8 pixel buffer.
// This is the boundary type between decoding, processing, caching and
// display: 4 bytes per pixel, row-major, no padding between rows.
type Image struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewImage creates a zeroed image with the given dimensions.
func NewImage(width, height int) *Image {
	return &Image{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// NewImageFromData wraps an existing RGBA pixel buffer without copying.
// The buffer length must be exactly width*height*4.
func NewImageFromData(width, height int, data []uint8) (*Image, error) {
	if len(data) != width*height*4 {
		return nil, fmt.Errorf("%w: got %d bytes for %dx%d", ErrInvalidDimensions, len(data), width, height)
	}
	return &Image{width: width, height: height, data: data}, nil
}

// Width returns the width of the image in pixels.
func (m *Image) Width() int {
	return m.width
}

// Height returns the height of the image in pixels.
func (m *Image) Height() int {
	return m.height
}

// Data returns the raw pixel data (RGBA format).
func (m *Image) Data() []uint8 {
	return m.data
}

// SizeBytes returns the resident size of the pixel buffer.
func (m *Image) SizeBytes() int {
	return len(m.data)
}

// Clone returns a deep copy of the image.
func (m *Image) Clone() *Image {
	out := &Image{
		width:  m.width,
		height: m.height,
		data:   make([]uint8, len(m.data)),
	}
	copy(out.data, m.data)
	return out
}

// PixelRGBA returns the four channel bytes of a single pixel.
// Out-of-bounds coordinates return zeros.
func (m *Image) PixelRGBA(x, y int) (r, g, b, a uint8) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0, 0, 0, 0
	}
	i := (y*m.width + x) * 4
	return m.data[i], m.data[i+1], m.data[i+2], m.data[i+3]
}

// SetPixelRGBA sets the four channel bytes of a single pixel.
// Out-of-bounds coordinates are ignored.
func (m *Image) SetPixelRGBA(x, y int, r, g, b, a uint8) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	i := (y*m.width + x) * 4
	m.data[i] = r
	m.data[i+1] = g
	m.data[i+2] = b
	m.data[i+3] = a
}

// Fill sets every pixel to the given color.
func (m *Image) Fill(r, g, b, a uint8) {
	for i := 0; i < len(m.data); i += 4 {
		m.data[i] = r
		m.data[i+1] = g
		m.data[i+2] = b
		m.data[i+3] = a
	}
}

// ToImage converts the image to a standard library image.RGBA.
func (m *Image) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, m.width, m.height))
	copy(img.Pix, m.data)
	return img
}

// At implements the image.Image interface.
func (m *Image) At(x, y int) color.Color {
	r, g, b, a := m.PixelRGBA(x, y)
	return color.RGBA{R: r, G: g, B: b, A: a}
}

// Bounds implements the image.Image interface.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// ColorModel implements the image.Image interface.
func (m *Image) ColorModel() color.Model {
	return color.RGBAModel
}

// FromImage creates an Image from any image.Image.
// The fast path copies *image.RGBA buffers directly.
func FromImage(img image.Image) *Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == width*4 && bounds.Min == (image.Point{}) {
		out := NewImage(width, height)
		copy(out.data, rgba.Pix)
		return out
	}

	out := NewImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*width + x) * 4
			out.data[i] = uint8(r >> 8)
			out.data[i+1] = uint8(g >> 8)
			out.data[i+2] = uint8(b >> 8)
			out.data[i+3] = uint8(a >> 8)
		}
	}
	return out
}

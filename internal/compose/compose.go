package compose

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Export canvas geometry. Panel size falls out of the constants: two equal
// columns of (1600 - 2*48 - 24)/2 = 740, each 800 - 2*48 - 40 = 664 tall, with
// a 40-unit footer band under them for the caption.
const (
	ExportWidth  = 1600
	ExportHeight = 800
	ExportMargin = 48
	ExportGap    = 24
	ExportFooter = 40
)

// Placeholder labels for the two slots.
const (
	LabelInspo = "Inspo"
	LabelMe    = "My photo"
)

var (
	colorBackground = color.NRGBA{R: 0xf6, G: 0xf2, B: 0xeb, A: 0xff}
	colorSurface    = color.NRGBA{R: 0xfc, G: 0xf9, B: 0xf4, A: 0xff}
	// Ink #342d28 at 18% for strokes and 55% for text, blended over the
	// canvas on draw.
	colorLine = color.NRGBA{R: 0x34, G: 0x2d, B: 0x28, A: 0x2e}
	colorText = color.NRGBA{R: 0x34, G: 0x2d, B: 0x28, A: 0x8c}
)

// PanelRects returns the left and right panel rectangles of the export canvas.
func PanelRects() (left, right image.Rectangle) {
	contentWidth := ExportWidth - ExportMargin*2 - ExportGap
	itemWidth := contentWidth / 2
	itemHeight := ExportHeight - ExportMargin*2 - ExportFooter

	left = image.Rect(ExportMargin, ExportMargin, ExportMargin+itemWidth, ExportMargin+itemHeight)
	right = left.Add(image.Pt(itemWidth+ExportGap, 0))
	return left, right
}

// CoverDraw scales src to fill rect completely, cropping overflow and
// preserving aspect ratio. A zero-sized source is a no-op; the drawing never
// spills outside rect.
func CoverDraw(dst *image.RGBA, src image.Image, rect image.Rectangle) {
	srcBounds := src.Bounds()
	srcW, srcH := srcBounds.Dx(), srcBounds.Dy()
	if srcW == 0 || srcH == 0 {
		return
	}

	w, h := rect.Dx(), rect.Dy()
	scale := math.Max(float64(w)/float64(srcW), float64(h)/float64(srcH))

	// The portion of the source that maps onto rect at this scale, centered
	// so the overflow is cropped evenly off both ends.
	cropW := int(math.Round(float64(w) / scale))
	cropH := int(math.Round(float64(h) / scale))
	if cropW > srcW {
		cropW = srcW
	}
	if cropH > srcH {
		cropH = srcH
	}
	cropX := srcBounds.Min.X + (srcW-cropW)/2
	cropY := srcBounds.Min.Y + (srcH-cropH)/2
	srcRect := image.Rect(cropX, cropY, cropX+cropW, cropY+cropH)

	xdraw.CatmullRom.Scale(dst, rect, src, srcRect, xdraw.Src, nil)
}

// DrawPlaceholder fills rect with the surface color, strokes a one-unit inset
// border, and centers a label. Keeps the composed output visually complete
// when a slot has no photo.
func DrawPlaceholder(dst *image.RGBA, rect image.Rectangle, label string) {
	draw.Draw(dst, rect, image.NewUniform(colorSurface), image.Point{}, draw.Src)
	strokeRect(dst, rect, colorLine)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(colorText),
		Face: face,
	}
	labelWidth := drawer.MeasureString(label).Ceil()
	x := rect.Min.X + (rect.Dx()-labelWidth)/2
	y := rect.Min.Y + rect.Dy()/2 + face.Ascent/2
	drawer.Dot = fixed.P(x, y)
	drawer.DrawString(label)
}

// strokeRect draws a one-unit border just inside rect.
func strokeRect(dst *image.RGBA, rect image.Rectangle, c color.Color) {
	edges := []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+1),
		image.Rect(rect.Min.X, rect.Max.Y-1, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+1, rect.Max.Y),
		image.Rect(rect.Max.X-1, rect.Min.Y, rect.Max.X, rect.Max.Y),
	}
	for _, edge := range edges {
		draw.Draw(dst, edge, image.NewUniform(c), image.Point{}, draw.Over)
	}
}

// Render composes the side-by-side export canvas: inspiration photo on the
// left, personal photo on the right, placeholders for whichever is missing,
// borders over the cropped image edges, and a right-aligned caption in the
// footer band. Either image may be nil; callers decide whether an all-empty
// export is worth rendering.
func Render(inspo, me image.Image, caption string) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, ExportWidth, ExportHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)

	left, right := PanelRects()
	draw.Draw(canvas, left, image.NewUniform(colorSurface), image.Point{}, draw.Src)
	draw.Draw(canvas, right, image.NewUniform(colorSurface), image.Point{}, draw.Src)

	if inspo != nil {
		CoverDraw(canvas, inspo, left)
	} else {
		DrawPlaceholder(canvas, left, LabelInspo)
	}

	if me != nil {
		CoverDraw(canvas, me, right)
	} else {
		DrawPlaceholder(canvas, right, LabelMe)
	}

	// Borders go on after the images so cropped edges stay framed.
	strokeRect(canvas, left, colorLine)
	strokeRect(canvas, right, colorLine)

	if caption != "" {
		drawer := &font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(colorText),
			Face: basicfont.Face7x13,
		}
		captionWidth := drawer.MeasureString(caption).Ceil()
		drawer.Dot = fixed.P(ExportWidth-ExportMargin-captionWidth, ExportHeight-ExportMargin/2)
		drawer.DrawString(caption)
	}

	return canvas
}

// EncodePNG serializes a rendered canvas to PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

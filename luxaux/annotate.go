package luxaux

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var captionFont = sync.OnceValues(func() (*truetype.Font, error) {
	return freetype.ParseFont(goregular.TTF)
})

// Annotate draws lines of white text over a translucent dark band in the top left
// corner of img. The font size follows the image height.
func Annotate(img draw.Image, lines ...string) error {
	if len(lines) == 0 {
		return nil
	}
	f, err := captionFont()
	if err != nil {
		return err
	}
	bb := img.Bounds()
	if bb.Empty() {
		return errors.New("empty image")
	}
	size := max(8, float64(bb.Dy())/40)
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(size)
	ctx.SetHinting(font.HintingFull)
	ctx.SetClip(bb)
	ctx.SetDst(img)
	ctx.SetSrc(image.White)

	lineHeight := ctx.PointToFixed(size * 1.25).Ceil()
	margin := lineHeight / 3
	face := truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72})
	defer face.Close()
	width := 0
	for _, line := range lines {
		width = max(width, font.MeasureString(face, line).Ceil())
	}
	band := image.Rect(0, 0, width+2*margin, len(lines)*lineHeight+2*margin).Add(bb.Min).Intersect(bb)
	draw.Draw(img, band, image.NewUniform(color.RGBA{A: 160}), image.Point{}, draw.Over)

	for i, line := range lines {
		pt := freetype.Pt(bb.Min.X+margin, bb.Min.Y+margin+(i+1)*lineHeight-lineHeight/4)
		_, err = ctx.DrawString(line, pt)
		if err != nil {
			return err
		}
	}
	return nil
}

package util

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// DensityImage renders a width x height slice of densities (row major,
// values in [0,1]) as grayscale, nearest neighbor scaled by scale.
func DensityImage(densities []float32, width, height, scale int) (*image.Gray, error) {
	if width <= 0 || height <= 0 || len(densities) != width*height {
		return nil, errors.Errorf("slice of %d values does not fit %d x %d", len(densities), width, height)
	}
	if scale < 1 {
		scale = 1
	}
	src := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := Clamp32(densities[x+y*width], 0, 1)
			// flip so +y is up
			src.SetGray(x, height-1-y, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	if scale == 1 {
		return src, nil
	}
	dst := image.NewGray(image.Rect(0, 0, width*scale, height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

func SaveDensityPreview(filename string, densities []float32, width, height, scale int) error {
	img, err := DensityImage(densities, width, height, scale)
	if err != nil {
		return err
	}
	outfile, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create preview")
	}
	if err := png.Encode(outfile, img); err != nil {
		outfile.Close()
		return errors.Wrapf(err, "encode preview %s", filename)
	}
	LogIODebug("[Preview] Wrote " + filename)
	return outfile.Close()
}

package convert

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

// A Scaler resamples an image to exactly cols x rows pixels.
type Scaler interface {
	Scale(img image.Image, cols, rows int) image.Image
}

// ScalerFunc adapts a function to the Scaler interface.
type ScalerFunc func(img image.Image, cols, rows int) image.Image

func (f ScalerFunc) Scale(img image.Image, cols, rows int) image.Image {
	return f(img, cols, rows)
}

func nfntScaler(interp resize.InterpolationFunction) Scaler {
	return ScalerFunc(func(img image.Image, cols, rows int) image.Image {
		return resize.Resize(uint(cols), uint(rows), img, interp)
	})
}

func xdrawScaler(interp xdraw.Interpolator) Scaler {
	return ScalerFunc(func(img image.Image, cols, rows int) image.Image {
		dst := image.NewNRGBA(image.Rect(0, 0, cols, rows))
		interp.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		return dst
	})
}

var (
	// Bilinear is the closest match to a smoothed canvas draw and is the default.
	Bilinear        = nfntScaler(resize.Bilinear)
	NearestNeighbor = nfntScaler(resize.NearestNeighbor)
	ApproxBiLinear  = xdrawScaler(xdraw.ApproxBiLinear)
	CatmullRom      = xdrawScaler(xdraw.CatmullRom)
)

// DefaultScaler is the name of the scaler used when none is given.
const DefaultScaler = "bilinear"

var scalers = []struct {
	name   string
	scaler Scaler
}{
	{"bilinear", Bilinear},
	{"nearest", NearestNeighbor},
	{"approx-bilinear", ApproxBiLinear},
	{"catmull-rom", CatmullRom},
}

// ScalerNames lists the names accepted by LookupScaler.
func ScalerNames() []string {
	names := make([]string, len(scalers))
	for i, s := range scalers {
		names[i] = s.name
	}
	return names
}

// LookupScaler returns the scaler registered under name.
func LookupScaler(name string) (Scaler, error) {
	for _, s := range scalers {
		if s.name == name {
			return s.scaler, nil
		}
	}
	return nil, fmt.Errorf("unknown scaler %q", name)
}

// NextScaler returns the name following name, wrapping around.
func NextScaler(name string) string {
	for i, s := range scalers {
		if s.name == name {
			return scalers[(i+1)%len(scalers)].name
		}
	}
	return scalers[0].name
}

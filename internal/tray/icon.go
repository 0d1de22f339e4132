package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
)

const iconSize = 32

var (
	iconOnce  sync.Once
	iconBytes map[Icon][]byte
)

// IconPNG returns the PNG-encoded tray image for icon.
func IconPNG(icon Icon) []byte {
	iconOnce.Do(func() {
		iconBytes = map[Icon][]byte{
			IconActive: renderKeyboard(color.NRGBA{R: 0x50, G: 0xfa, B: 0x7b, A: 0xff}),
			IconIdle:   renderKeyboard(color.NRGBA{R: 0x9a, G: 0x9a, B: 0x9a, A: 0xff}),
		}
	})
	return iconBytes[icon]
}

// renderKeyboard draws a keyboard outline with three rows of keys.
func renderKeyboard(fg color.NRGBA) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))

	const top, bottom, left, right = 8, 24, 2, 29
	for x := left; x <= right; x++ {
		img.SetNRGBA(x, top, fg)
		img.SetNRGBA(x, bottom, fg)
	}
	for y := top; y <= bottom; y++ {
		img.SetNRGBA(left, y, fg)
		img.SetNRGBA(right, y, fg)
	}

	// Keys are 2x2 blocks on a 4px grid; the bottom row is a space bar.
	for _, row := range []int{11, 15} {
		for x := left + 3; x+1 < right-1; x += 4 {
			fill(img, x, row, 2, 2, fg)
		}
	}
	fill(img, left+7, 19, right-left-13, 2, fg)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

func fill(img *image.NRGBA, x, y, w, h int, c color.NRGBA) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			img.SetNRGBA(x+dx, y+dy, c)
		}
	}
}

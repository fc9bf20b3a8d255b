package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// Register the decoders for the raster formats previews support.
	_ "image/gif"
	_ "image/png"
)

// rasterMIMETypes lists the attachment types with cheap rasterization.
// Everything else — PDFs included, since rendering a PDF page would need a
// full renderer — has no thumbnail and callers fall back to a generic icon.
var rasterMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// renderPreview decodes an image attachment and re-encodes it as a JPEG no
// larger than maxEdge pixels on its longest side. Images already within
// bounds are still re-encoded so every stored thumbnail has a uniform
// format.
func renderPreview(data []byte, mimeType string, maxEdge, quality int) ([]byte, error) {
	if !rasterMIMETypes[mimeType] {
		return nil, fmt.Errorf("%q: %w", mimeType, ErrThumbnailUnsupported)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode attachment image: %w", err)
	}

	preview := downscale(src, maxEdge)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, preview, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// downscale box-averages src so its longest edge is at most maxEdge. The
// averaging kernel is the whole source region mapped onto each destination
// pixel, which is adequate preview quality for strong downscaling.
func downscale(src image.Image, maxEdge int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxEdge && h <= maxEdge {
		return src
	}

	dw, dh := w, h
	if w >= h {
		dw = maxEdge
		dh = h * maxEdge / w
	} else {
		dh = maxEdge
		dw = w * maxEdge / h
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for dy := 0; dy < dh; dy++ {
		sy0 := bounds.Min.Y + dy*h/dh
		sy1 := bounds.Min.Y + (dy+1)*h/dh
		if sy1 <= sy0 {
			sy1 = sy0 + 1
		}
		for dx := 0; dx < dw; dx++ {
			sx0 := bounds.Min.X + dx*w/dw
			sx1 := bounds.Min.X + (dx+1)*w/dw
			if sx1 <= sx0 {
				sx1 = sx0 + 1
			}

			var r, g, b, a, n uint64
			for sy := sy0; sy < sy1; sy++ {
				for sx := sx0; sx < sx1; sx++ {
					pr, pg, pb, pa := src.At(sx, sy).RGBA()
					r += uint64(pr)
					g += uint64(pg)
					b += uint64(pb)
					a += uint64(pa)
					n++
				}
			}

			i := dst.PixOffset(dx, dy)
			dst.Pix[i+0] = uint8(r / n >> 8)
			dst.Pix[i+1] = uint8(g / n >> 8)
			dst.Pix[i+2] = uint8(b / n >> 8)
			dst.Pix[i+3] = uint8(a / n >> 8)
		}
	}
	return dst
}

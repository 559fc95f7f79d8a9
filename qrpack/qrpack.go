// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package qrpack

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// QRSize is the side of the QR square in pixels, quiet zone included
	QRSize      = 256
	labelHeight = 28
)

// VoteURL appends the household code to base as the "vote" query parameter
func VoteURL(base, code string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid vote base url %q: %w", base, err)
	}
	q := u.Query()
	q.Set("vote", code)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// RenderLabelled encodes link as a QR code with label printed in a white
// band underneath, and returns the PNG bytes.
func RenderLabelled(link, label string) ([]byte, error) {
	code, err := qrcode.New(link, qrcode.Highest)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	qr := code.Image(QRSize)
	bounds := qr.Bounds()

	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()+labelHeight))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, bounds, qr, bounds.Min, draw.Src)

	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, label).Round()
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P((bounds.Dx()-textWidth)/2, bounds.Dy()+(labelHeight+face.Ascent)/2),
	}
	d.DrawString(label)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteZip writes <code>.png and <code>.txt for every household code.
// Blank codes are skipped. Codes that map to the same file name get a
// numeric suffix, so "3/12F" and "3_12F" land in 3_12F.* and 3_12F-2.*.
func WriteZip(w io.Writer, base string, codes []string) (int, error) {
	zw := zip.NewWriter(w)

	used := make(map[string]bool, len(codes))
	written := 0
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}

		link, err := VoteURL(base, code)
		if err != nil {
			return written, err
		}
		img, err := RenderLabelled(link, code)
		if err != nil {
			return written, fmt.Errorf("household %q: %w", code, err)
		}

		name := uniqueName(fileName(code), used)
		if err := writeEntry(zw, name+".png", img); err != nil {
			return written, err
		}
		if err := writeEntry(zw, name+".txt", []byte(link)); err != nil {
			return written, err
		}
		written++
	}

	if err := zw.Close(); err != nil {
		return written, fmt.Errorf("failed to finish zip: %w", err)
	}
	return written, nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// fileName keeps codes like "3/12F" from turning into directories
var pathChars = strings.NewReplacer("/", "_", "\\", "_", "..", "_")

func fileName(code string) string {
	return pathChars.Replace(code)
}

// uniqueName returns name, or name-2, name-3 and so on, whichever is free
// in used, and marks it taken.
func uniqueName(name string, used map[string]bool) string {
	candidate := name
	for i := 2; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s-%d", name, i)
	}
	used[candidate] = true
	return candidate
}

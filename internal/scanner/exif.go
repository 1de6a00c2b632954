package scanner

import (
	"bytes"

	"github.com/rwcarlsen/goexif/exif"

	"curator/pkg/types"
)

// applyExif fills img's metadata fields from the EXIF block in raw, when one
// is present and parseable. Cameras emit wildly inconsistent EXIF; every tag
// is optional and a broken one never fails the scan.
func applyExif(img *types.Image, raw []byte) {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return
	}
	img.Author = tagString(x, exif.Artist)
	img.Camera = tagString(x, exif.Model)
	if v, ok := tagInt(x, exif.Orientation); ok {
		img.Orientation = v
	}
	if v, ok := tagFloat(x, exif.XResolution); ok {
		img.XResolution = v
	}
	if v, ok := tagFloat(x, exif.YResolution); ok {
		img.YResolution = v
	}
	img.DateTaken = tagString(x, exif.DateTimeOriginal)
	if v, ok := tagFloat(x, exif.ExposureTime); ok {
		img.ExposureTime = v
	}
	if v, ok := tagFloat(x, exif.FNumber); ok {
		img.FNumber = v
	}
	if v, ok := tagInt(x, exif.ISOSpeedRatings); ok {
		img.ISO = v
	}
	if v, ok := tagFloat(x, exif.FocalLength); ok {
		img.FocalLength = v
	}
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return s
}

func tagInt(x *exif.Exif, name exif.FieldName) (int, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, false
	}
	n, err := tag.Int(0)
	if err != nil {
		return 0, false
	}
	return n, true
}

// tagFloat reads rational or integer tags as float64.
func tagFloat(x *exif.Exif, name exif.FieldName) (float64, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, false
	}
	if num, den, err := tag.Rat2(0); err == nil && den != 0 {
		return float64(num) / float64(den), true
	}
	if n, err := tag.Int(0); err == nil {
		return float64(n), true
	}
	return 0, false
}

package output

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/weaming/rawdev-go/develop"
)

// LoadRaw 读取原始采样：
//   - .tif / .tiff：单通道 8/16-bit 灰度 TIFF，尺寸取自文件
//   - 其他：小端 uint16 转储，尺寸取自 params
func LoadRaw(path string, params *develop.Params) (*develop.RawImage, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		return loadTIFFSamples(path)
	default:
		return loadDump(path, params)
	}
}

func loadDump(path string, params *develop.Params) (*develop.RawImage, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &develop.IOError{Path: path, Err: err}
	}

	want := params.Dim().Pixels() * 2
	if len(content) != want {
		return nil, &develop.ConfigurationError{
			Field:  "dimensions",
			Reason: fmt.Sprintf("%s has %d bytes, %s uint16 samples need %d", filepath.Base(path), len(content), params.Dim(), want),
		}
	}

	raw := &develop.RawImage{
		Width:  params.Width,
		Height: params.Height,
		CPP:    1,
		Format: develop.SampleUint16,
		Data:   make([]uint16, params.Dim().Pixels()),
	}
	for i := range raw.Data {
		raw.Data[i] = binary.LittleEndian.Uint16(content[i*2:])
	}
	return raw, nil
}

func loadTIFFSamples(path string) (*develop.RawImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &develop.IOError{Path: path, Err: err}
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		var fmtErr tiff.FormatError
		var unsupported tiff.UnsupportedError
		if errors.As(err, &fmtErr) || errors.As(err, &unsupported) {
			return nil, &develop.UnsupportedFormatError{Reason: fmt.Sprintf("%s: %v", filepath.Base(path), err)}
		}
		return nil, &develop.IOError{Path: path, Err: err}
	}

	b := img.Bounds()
	raw := &develop.RawImage{
		Width:  b.Dx(),
		Height: b.Dy(),
		CPP:    1,
		Format: develop.SampleUint16,
		Data:   make([]uint16, b.Dx()*b.Dy()),
	}

	switch src := img.(type) {
	case *image.Gray16:
		for y := 0; y < raw.Height; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < raw.Width; x++ {
				raw.Data[y*raw.Width+x] = binary.BigEndian.Uint16(row[x*2:])
			}
		}
	case *image.Gray:
		for y := 0; y < raw.Height; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < raw.Width; x++ {
				raw.Data[y*raw.Width+x] = uint16(row[x])
			}
		}
	default:
		return nil, &develop.UnsupportedFormatError{
			Reason: fmt.Sprintf("%s: %T is not a single-channel mosaic", filepath.Base(path), img),
		}
	}
	return raw, nil
}

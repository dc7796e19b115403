package output

import (
	"encoding/binary"
	"fmt"
	"image"
	"os"

	"golang.org/x/image/tiff"

	"github.com/weaming/rawdev-go/develop"
)

// WriteTIFF 写入 16-bit TIFF（Deflate 压缩）。
// channels = 3 时写 RGB（附不透明 alpha），channels = 1 时写灰度。
func WriteTIFF(filename string, data []uint16, dim develop.Dim2, channels int) error {
	img, err := toImage(data, dim, channels)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	err = tiff.Encode(file, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write tiff %s: %w", filename, err)
	}
	return nil
}

// toImage 交错的 uint16 样本 → image.RGBA64 / image.Gray16
func toImage(data []uint16, dim develop.Dim2, channels int) (image.Image, error) {
	if len(data) != dim.Pixels()*channels {
		return nil, fmt.Errorf("image data has %d samples, want %s x %d", len(data), dim, channels)
	}
	rect := image.Rect(0, 0, dim.W, dim.H)

	switch channels {
	case 1:
		img := image.NewGray16(rect)
		for y := 0; y < dim.H; y++ {
			row := img.Pix[y*img.Stride:]
			for x := 0; x < dim.W; x++ {
				binary.BigEndian.PutUint16(row[x*2:], data[y*dim.W+x])
			}
		}
		return img, nil
	case 3:
		img := image.NewRGBA64(rect)
		for y := 0; y < dim.H; y++ {
			row := img.Pix[y*img.Stride:]
			src := data[y*dim.W*3:]
			for x := 0; x < dim.W; x++ {
				px := row[x*8:]
				binary.BigEndian.PutUint16(px[0:], src[x*3])
				binary.BigEndian.PutUint16(px[2:], src[x*3+1])
				binary.BigEndian.PutUint16(px[4:], src[x*3+2])
				binary.BigEndian.PutUint16(px[6:], 0xffff)
			}
		}
		return img, nil
	default:
		return nil, fmt.Errorf("cannot write %d channels", channels)
	}
}

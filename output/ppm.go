package output

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/weaming/rawdev-go/develop"
)

// WritePPM 导出为二进制 16-bit PPM（P6，RGB）或 PGM（P5，单通道），用于调试
func WritePPM(outputPath string, data []uint16, dim develop.Dim2, channels int) error {
	var magic string
	switch channels {
	case 1:
		magic = "P5"
	case 3:
		magic = "P6"
	default:
		return fmt.Errorf("cannot write %d channels as PPM", channels)
	}
	if len(data) != dim.Pixels()*channels {
		return fmt.Errorf("image data has %d samples, want %s x %d", len(data), dim, channels)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	// 写入 PPM 头部
	fmt.Fprintf(w, "%s\n%d %d\n65535\n", magic, dim.W, dim.H)

	// 样本为大端
	var buf [2]byte
	for _, v := range data {
		binary.BigEndian.PutUint16(buf[:], v)
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

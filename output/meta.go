package output

import (
	"fmt"
	"io"

	"github.com/weaming/rawdev-go/develop"
)

// DumpMetadata 以文本形式输出显影参数和推导出的相机 → 工作空间矩阵
func DumpMetadata(w io.Writer, params *develop.Params, transform *develop.WorkingTransform) {
	fmt.Fprintf(w, "BEGIN: params meta data\n\n")
	dumpParams(w, params)
	fmt.Fprintf(w, "END: params meta data\n\n")

	if transform == nil {
		fmt.Fprintf(w, "INFO: No working transform\n\n")
		return
	}

	fmt.Fprintf(w, "BEGIN: color meta data (%s)\n\n", transform.Space)
	dumpMatrix(w, "xyz_to_cam", transform.XYZToCam[:], 3)
	dumpMatrix(w, "rgb_to_cam", transform.RGBToCam[:], 3)
	dumpMatrix(w, "cam_to_rgb", transform.CamToRGB[:], 4)
	fmt.Fprintf(w, "END: color meta data\n\n")
}

func dumpParams(w io.Writer, p *develop.Params) {
	fmt.Fprintf(w, "params.\n")
	fmt.Fprintf(w, "  sensor            = %s\n", p.Dim())
	fmt.Fprintf(w, "  black_level       = %v\n", p.BlackLevel.Levels)
	fmt.Fprintf(w, "  white_level       = %v\n", p.WhiteLevel.Levels)
	fmt.Fprintf(w, "  active_area       = %s\n", p.ActiveArea)
	fmt.Fprintf(w, "  crop_area         = %s\n", p.CropArea)
	fmt.Fprintf(w, "  cfa               = %s\n", p.CFA)
	fmt.Fprintf(w, "  wb_coeff          = %v\n", p.WBCoeff)

	fmt.Fprintf(w, "  color_matrices\n")
	for i, m := range p.ColorMatrices {
		fmt.Fprintf(w, "    %2d: %-8s = %v\n", i, m.Illuminant, m.Matrix)
	}
	fmt.Fprintln(w)
}

// dumpMatrix 按行输出行优先矩阵，全零行省略
func dumpMatrix(w io.Writer, name string, m []float64, cols int) {
	fmt.Fprintf(w, "%s [%d][%d]\n", name, len(m)/cols, cols)
	for row := 0; row*cols < len(m); row++ {
		values := m[row*cols : (row+1)*cols]
		if isZero(values) {
			continue
		}
		fmt.Fprintf(w, "  [")
		for i, v := range values {
			if i > 0 {
				fmt.Fprintf(w, ", ")
			}
			fmt.Fprintf(w, "%12.6f", v)
		}
		fmt.Fprintf(w, "]\n")
	}
	fmt.Fprintln(w)
}

func isZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}

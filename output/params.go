package output

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/weaming/rawdev-go/colorspace"
	"github.com/weaming/rawdev-go/develop"
)

// paramsFile 参数旁注文件的结构（TOML / YAML 共用）
//
//	width = 6080
//	height = 4044
//	black_level = [512]
//	white_level = [16383]
//	active_area = [0, 0, 6080, 4044]   # x, y, w, h（传感器坐标）
//	crop_area = [12, 8, 6048, 4024]
//	cfa = "RGGB"
//	wb_coeff = [2.1, 1.0, 1.6]
//
//	[[color_matrix]]
//	illuminant = "D65"
//	matrix = [0.6844, -0.0996, -0.0856, -0.3876, 1.1761, 0.2396, -0.0593, 0.1772, 0.6198]
type paramsFile struct {
	Width       int           `toml:"width" yaml:"width"`
	Height      int           `toml:"height" yaml:"height"`
	BlackLevel  []float32     `toml:"black_level" yaml:"black_level"`
	WhiteLevel  []uint32      `toml:"white_level" yaml:"white_level"`
	ActiveArea  []int         `toml:"active_area" yaml:"active_area"`
	CropArea    []int         `toml:"crop_area" yaml:"crop_area"`
	CFA         string        `toml:"cfa" yaml:"cfa"`
	WBCoeff     []float32     `toml:"wb_coeff" yaml:"wb_coeff"`
	ColorMatrix []matrixEntry `toml:"color_matrix" yaml:"color_matrix"`
}

type matrixEntry struct {
	Illuminant string    `toml:"illuminant" yaml:"illuminant"`
	Matrix     []float64 `toml:"matrix" yaml:"matrix"`
}

// LoadParams 读取 .toml / .yaml / .yml 参数文件
func LoadParams(path string) (*develop.Params, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &develop.IOError{Path: path, Err: err}
	}

	var file paramsFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(content), &file)
		if err != nil {
			return nil, &develop.ConfigurationError{Field: "params", Reason: path, Err: err}
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, &develop.ConfigurationError{Field: "params", Reason: fmt.Sprintf("%s: unknown keys %v", path, undecoded)}
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			return nil, &develop.ConfigurationError{Field: "params", Reason: path, Err: err}
		}
	default:
		return nil, &develop.ConfigurationError{Field: "params", Reason: fmt.Sprintf("%s: expected .toml, .yaml or .yml", path)}
	}

	return file.toParams()
}

// toParams 转换为 develop.Params。缺省的 active/crop 区域取整个传感器，
// 缺省的白平衡为单位增益，3 个增益时第二个绿色槽位复用 G。
func (f *paramsFile) toParams() (*develop.Params, error) {
	p := &develop.Params{
		Width:      f.Width,
		Height:     f.Height,
		BlackLevel: develop.BlackLevel{Levels: f.BlackLevel},
		WhiteLevel: develop.WhiteLevel{Levels: f.WhiteLevel},
	}

	var err error
	sensor := develop.FullRect(p.Dim())
	if p.ActiveArea, err = parseRect("active_area", f.ActiveArea, sensor); err != nil {
		return nil, err
	}
	if p.CropArea, err = parseRect("crop_area", f.CropArea, p.ActiveArea); err != nil {
		return nil, err
	}

	if f.CFA != "" {
		if p.CFA, err = develop.ParseCFA(f.CFA); err != nil {
			return nil, err
		}
	}

	switch len(f.WBCoeff) {
	case 0:
		p.WBCoeff = develop.Channel4{1, 1, 1, 1}
	case 3:
		p.WBCoeff = develop.Channel4{f.WBCoeff[0], f.WBCoeff[1], f.WBCoeff[2], f.WBCoeff[1]}
	case 4:
		copy(p.WBCoeff[:], f.WBCoeff)
		if p.WBCoeff[3] == 0 {
			p.WBCoeff[3] = p.WBCoeff[1]
		}
	default:
		return nil, &develop.ConfigurationError{Field: "wb_coeff", Reason: fmt.Sprintf("expected 3 or 4 gains, got %d", len(f.WBCoeff))}
	}

	for i, entry := range f.ColorMatrix {
		il, err := colorspace.ParseIlluminant(entry.Illuminant)
		if err != nil {
			return nil, &develop.ConfigurationError{Field: fmt.Sprintf("color_matrix[%d]", i), Err: err}
		}
		p.ColorMatrices = append(p.ColorMatrices, develop.ColorMatrix{Illuminant: il, Matrix: entry.Matrix})
	}
	return p, nil
}

var errRectLen = errors.New("expected [x, y, w, h]")

func parseRect(field string, v []int, fallback develop.Rect) (develop.Rect, error) {
	switch len(v) {
	case 0:
		return fallback, nil
	case 4:
		return develop.NewRect(v[0], v[1], v[2], v[3]), nil
	default:
		return develop.Rect{}, &develop.ConfigurationError{Field: field, Reason: fmt.Sprintf("%v", v), Err: errRectLen}
	}
}

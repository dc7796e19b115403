package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/weaming/rawdev-go/develop"
)

// Config 命令行配置
type Config struct {
	Inputs     []string
	OutDir     string
	ParamsPath string
	// Format 输出格式：tiff 或 ppm
	Format  string
	Range   string
	Space   string
	Plane   bool
	Workers int
	Jobs    int
	Verbose bool
	// DumpMeta 只输出参数和矩阵到 <输入>.meta
	DumpMeta bool
}

// CommonData 一次显影的结果
type CommonData struct {
	Params   *develop.Params
	Data     []uint16
	Dim      develop.Dim2
	Channels int
}

// ParamsPathFor 未指定 -params 时，使用与输入同名的 .toml / .yaml 旁注文件
func ParamsPathFor(input string, config Config) string {
	if config.ParamsPath != "" {
		return config.ParamsPath
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	for _, ext := range []string{".toml", ".yaml", ".yml"} {
		if fileExists(base + ext) {
			return base + ext
		}
	}
	return base + ".toml"
}

// OutputPath 输出文件路径：<outdir>/<输入文件名>.<格式>
func OutputPath(input string, config Config) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if config.Plane {
		name += ".plane"
	}
	dir := config.OutDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name+"."+formatExt(config.Format))
}

// ProcessAll 读取参数与原始采样并执行显影
func ProcessAll(input string, config Config, pipeline *develop.Pipeline, logger *develop.Logger) (*CommonData, error) {
	paramsPath := ParamsPathFor(input, config)
	logger.Step("load params", filepath.Base(paramsPath))
	params, err := LoadParams(paramsPath)
	if err != nil {
		return nil, err
	}
	logger.Done(fmt.Sprintf("%s cfa=%s", params.Dim(), params.CFA))

	logger.Step("load raw", filepath.Base(input))
	raw, err := LoadRaw(input, params)
	if err != nil {
		return nil, err
	}
	logger.Done(raw.Dim().String())

	data := &CommonData{Params: params}
	if config.Plane {
		data.Data, data.Dim, err = pipeline.DevelopToIntegerPlane(raw, params)
		data.Channels = 1
	} else {
		data.Data, data.Dim, err = pipeline.DevelopToWorkingRGB(raw, params)
		data.Channels = 3
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(input), err)
	}
	return data, nil
}

// Export 按 config.Format 写出结果
func Export(data *CommonData, outputPath string, config Config) error {
	switch formatExt(config.Format) {
	case "ppm":
		return WritePPM(outputPath, data.Data, data.Dim, data.Channels)
	case "tiff":
		return WriteTIFF(outputPath, data.Data, data.Dim, data.Channels)
	default:
		return fmt.Errorf("unsupported output format %q", config.Format)
	}
}

func formatExt(format string) string {
	switch strings.ToLower(format) {
	case "", "tif", "tiff":
		return "tiff"
	case "ppm", "pgm", "pnm":
		return "ppm"
	default:
		return strings.ToLower(format)
	}
}

// ValidateFormat 检查输出格式是否受支持
func ValidateFormat(format string) error {
	switch formatExt(format) {
	case "tiff", "ppm":
		return nil
	default:
		return &develop.ConfigurationError{Field: "format", Reason: fmt.Sprintf("unsupported output format %q", format)}
	}
}

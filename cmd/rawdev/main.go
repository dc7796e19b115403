package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/weaming/rawdev-go/colorspace"
	"github.com/weaming/rawdev-go/develop"
	"github.com/weaming/rawdev-go/output"
)

// 退出码
const (
	exitOK          = 0
	exitFailure     = 1
	exitConfig      = 2
	exitUnsupported = 3
	exitIO          = 4
)

func main() {
	config := parseFlags()

	if len(config.Inputs) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input files")
		flag.Usage()
		os.Exit(exitConfig)
	}

	logger := initLogger(config.Verbose)
	if err := run(config, logger); err != nil {
		logger.Error(err)
		os.Exit(exitCode(err))
	}
}

func parseFlags() *output.Config {
	config := &output.Config{}

	flag.StringVar(&config.OutDir, "o", "", "输出目录（默认与输入文件同目录）")
	flag.StringVar(&config.ParamsPath, "params", "", "参数文件 .toml/.yaml（默认 <输入>.toml 或 <输入>.yaml）")
	flag.StringVar(&config.Format, "f", "tiff", "输出格式: tiff, ppm")
	flag.StringVar(&config.Range, "range", "fixed", "量化范围: fixed, observed")
	flag.StringVar(&config.Space, "cs", "ProPhotoRGB", "工作色彩空间: ProPhotoRGB, sRGB, AdobeRGB")
	flag.BoolVar(&config.Plane, "plane", false, "只做电平归一化，输出单通道平面")
	flag.IntVar(&config.Workers, "workers", 0, "每张图像的并行线程数（0 = GOMAXPROCS）")
	flag.IntVar(&config.Jobs, "j", 2, "同时处理的文件数")
	flag.BoolVar(&config.Verbose, "v", false, "详细输出")
	flag.BoolVar(&config.DumpMeta, "meta", false, "输出参数与色彩矩阵到 <输入文件>.meta，不显影")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "rawdev: develop Bayer sensor dumps into linear 16-bit images\n\n")
		fmt.Fprintf(os.Stderr, "用法: rawdev [选项] <输入.raw|输入.tiff>...\n\n")
		fmt.Fprintf(os.Stderr, "选项:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n输入:\n")
		fmt.Fprintf(os.Stderr, "  .raw   - 小端 uint16 采样，尺寸取自参数文件\n")
		fmt.Fprintf(os.Stderr, "  .tiff  - 16-bit 灰度 TIFF\n")
		fmt.Fprintf(os.Stderr, "\n示例:\n")
		fmt.Fprintf(os.Stderr, "  rawdev -o out IMG_0001.raw IMG_0002.raw\n")
		fmt.Fprintf(os.Stderr, "  rawdev -params cam.toml -range observed -f ppm IMG_0001.raw\n")
		fmt.Fprintf(os.Stderr, "\n退出码: 2 参数错误, 3 不支持的格式, 4 读写错误\n")
	}

	flag.Parse()
	config.Inputs = flag.Args()
	return config
}

// initLogger -v 时使用带颜色的文本格式和 debug 级别，否则输出 JSON
func initLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if verbose {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debugf("simd target: %s", hwy.CurrentName())
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return logger
}

func run(config *output.Config, log *logrus.Logger) error {
	quantRange, err := develop.ParseQuantizeRange(config.Range)
	if err != nil {
		return &develop.ConfigurationError{Field: "range", Err: err}
	}
	space, err := colorspace.ParseColorSpace(config.Space)
	if err != nil {
		return &develop.ConfigurationError{Field: "cs", Err: err}
	}
	if err := output.ValidateFormat(config.Format); err != nil {
		return err
	}
	if config.OutDir != "" {
		if err := os.MkdirAll(config.OutDir, 0o755); err != nil {
			return &develop.IOError{Path: config.OutDir, Err: err}
		}
	}

	// 所有文件共享同一个线程池
	pool := workerpool.New(config.Workers)
	defer pool.Close()

	pipeline := develop.New(develop.Options{
		Range:        quantRange,
		WorkingSpace: space,
		Pool:         pool,
		Log:          log,
	})

	var g errgroup.Group
	g.SetLimit(max(1, config.Jobs))
	for _, input := range config.Inputs {
		g.Go(func() error {
			return convert(input, *config, pipeline, log)
		})
	}
	return g.Wait()
}

func convert(input string, config output.Config, pipeline *develop.Pipeline, log *logrus.Logger) error {
	logger := develop.NewLogger(log)

	if config.DumpMeta {
		return dumpMetadata(input, config, pipeline, logger)
	}

	data, err := output.ProcessAll(input, config, pipeline, logger)
	if err != nil {
		return err
	}

	outputPath := output.OutputPath(input, config)
	logger.Step("write", filepath.Base(outputPath))
	if err := output.Export(data, outputPath, config); err != nil {
		return &develop.IOError{Path: outputPath, Err: err}
	}
	logger.Done(fmt.Sprintf("%s x %d", data.Dim, data.Channels))

	logger.Total()
	return nil
}

func exitCode(err error) int {
	var cfgErr *develop.ConfigurationError
	var unsupported *develop.UnsupportedFormatError
	var ioErr *develop.IOError
	switch {
	case errors.As(err, &cfgErr):
		return exitConfig
	case errors.As(err, &unsupported):
		return exitUnsupported
	case errors.As(err, &ioErr):
		return exitIO
	case err == nil:
		return exitOK
	default:
		return exitFailure
	}
}

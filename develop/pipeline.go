// Package develop 将 Bayer 原始采样显影为线性工作空间（默认 ProPhoto RGB）的 16-bit 图像。
//
// 流程：黑白电平归一化 → 去马赛克 → 裁剪 → 白平衡与色彩矩阵（含色域裁剪）→ 量化。
package develop

import (
	"fmt"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
	"github.com/sirupsen/logrus"

	"github.com/weaming/rawdev-go/colorspace"
)

// Options 显影选项
type Options struct {
	// Demosaicer 为 nil 时使用 Bilinear
	Demosaicer   Demosaicer
	Range        QuantizeRange
	WorkingSpace colorspace.ColorSpace
	// Workers <= 0 时使用 GOMAXPROCS
	Workers int
	// Pool 非 nil 时复用调用方的线程池，Workers 被忽略
	Pool *workerpool.Pool
	// Log 为 nil 时不输出日志
	Log *logrus.Logger
}

// Pipeline 显影流水线。本身无状态，可被多个 goroutine 同时使用。
type Pipeline struct {
	opts Options
}

// New 创建流水线
func New(opts Options) *Pipeline {
	return &Pipeline{opts: opts}
}

// DevelopToIntegerPlane 仅做电平归一化并量化单通道平面（用于预览 / 查询尺寸）
func DevelopToIntegerPlane(raw *RawImage, params *Params) ([]uint16, Dim2, error) {
	return New(Options{}).DevelopToIntegerPlane(raw, params)
}

// DevelopToWorkingRGB 完整显影到 ProPhoto RGB
func DevelopToWorkingRGB(raw *RawImage, params *Params) ([]uint16, Dim2, error) {
	return New(Options{}).DevelopToWorkingRGB(raw, params)
}

// DevelopToIntegerPlane 电平归一化 + 量化，输出尺寸为整个传感器
func (p *Pipeline) DevelopToIntegerPlane(raw *RawImage, params *Params) ([]uint16, Dim2, error) {
	logger := NewLogger(p.opts.Log)
	pool, release := p.pool()
	defer release()

	if err := validateInput(raw, params); err != nil {
		return nil, Dim2{}, err
	}
	dim := params.Dim()

	plane, err := p.correctedPlane(logger, raw, params, pool)
	if err != nil {
		return nil, Dim2{}, err
	}

	logger.Step("quantize", p.opts.Range)
	out := Quantize(plane, p.opts.Range, pool)
	logger.Done(fmt.Sprintf("%s plane", dim))

	logger.Total()
	return out, dim, nil
}

// DevelopToWorkingRGB 执行全部五个阶段，输出 crop 区域的交错 RGB
func (p *Pipeline) DevelopToWorkingRGB(raw *RawImage, params *Params) ([]uint16, Dim2, error) {
	logger := NewLogger(p.opts.Log)
	pool, release := p.pool()
	defer release()

	if err := validateInput(raw, params); err != nil {
		return nil, Dim2{}, err
	}
	if !params.CFA.IsValid() {
		return nil, Dim2{}, unsupportedf("params carry no 2x2 CFA pattern")
	}
	crop, err := AdaptCrop(params.Dim(), params.ActiveArea, params.CropArea)
	if err != nil {
		return nil, Dim2{}, err
	}

	// 矩阵只依赖标定参数，先算出来，避免在大缓冲区处理之后才失败
	logger.Step("color matrix", ReferenceIlluminant)
	transform, err := p.WorkingTransform(params)
	if err != nil {
		return nil, Dim2{}, err
	}
	if err := params.validateWhiteBalance(transform.FourColor()); err != nil {
		return nil, Dim2{}, err
	}
	logger.Debug("camera → %s with wb=%v: %v", transform.Space, params.WBCoeff, transform.CameraMatrix(params.WBCoeff))
	logger.Done(fmt.Sprintf("camera → %s, %d camera channels", transform.Space, transform.RGBToCam.Rows()))

	plane, err := p.correctedPlane(logger, raw, params, pool)
	if err != nil {
		return nil, Dim2{}, err
	}

	logger.Step("demosaic", params.CFA)
	demosaicer := p.opts.Demosaicer
	if demosaicer == nil {
		demosaicer = Bilinear{Pool: pool}
	}
	active := params.ActiveArea
	rgb, err := demosaicer.Demosaic(plane, params.Dim(), params.CFA, active)
	if err != nil {
		return nil, Dim2{}, fmt.Errorf("demosaic: %w", err)
	}
	if len(rgb) != active.D.Pixels()*3 {
		return nil, Dim2{}, configErrorf("demosaic", "%T returned %d values, want %s x 3", demosaicer, len(rgb), active.D)
	}
	logger.Done(active.D.String())

	logger.Step("crop", crop)
	rgb, dim, err := Crop(rgb, active.D, 3, crop)
	if err != nil {
		return nil, Dim2{}, err
	}
	logger.Done(dim.String())

	logger.Step("color", p.opts.WorkingSpace)
	rgb, err = ApplyColor(rgb, dim, params.WBCoeff, transform, pool)
	if err != nil {
		return nil, Dim2{}, err
	}
	logger.Done(fmt.Sprintf("wb=%v", params.WBCoeff))

	logger.Step("quantize", p.opts.Range)
	out := Quantize(rgb, p.opts.Range, pool)
	logger.Done(fmt.Sprintf("%s x 3", dim))

	logger.Total()
	return out, dim, nil
}

// WorkingTransform 计算（不应用）该图像的 相机 → 工作空间 变换
func (p *Pipeline) WorkingTransform(params *Params) (WorkingTransform, error) {
	return NewWorkingTransform(params.ColorMatrices, p.opts.WorkingSpace)
}

func (p *Pipeline) correctedPlane(logger *Logger, raw *RawImage, params *Params, pool *workerpool.Pool) ([]float32, error) {
	logger.Step("levels", fmt.Sprintf("black=%v white=%v simd=%s", params.BlackLevel.Levels, params.WhiteLevel.Levels, hwy.CurrentName()))
	plane := FloatPlane(raw, pool)
	if err := CorrectLevels(plane, params.Dim(), params.BlackLevel, params.WhiteLevel, pool); err != nil {
		return nil, err
	}
	logger.Done(fmt.Sprintf("%d samples", len(plane)))
	return plane, nil
}

func (p *Pipeline) pool() (*workerpool.Pool, func()) {
	if p.opts.Pool != nil {
		return p.opts.Pool, func() {}
	}
	pool := workerpool.New(p.opts.Workers)
	return pool, pool.Close
}

func validateInput(raw *RawImage, params *Params) error {
	if raw == nil || params == nil {
		return configErrorf("input", "raw image and params are required")
	}
	if raw.Format != SampleUint16 {
		return unsupportedf("%s samples, want integer samples", raw.Format)
	}
	if raw.CPP != 0 && raw.CPP != 1 {
		return unsupportedf("%d components per pixel, want a single-channel mosaic", raw.CPP)
	}
	if params.Width <= 0 || params.Height <= 0 {
		return configErrorf("dimensions", "%s is empty", params.Dim())
	}
	if raw.Width != params.Width || raw.Height != params.Height {
		return configErrorf("dimensions", "raw image is %s, params say %s", raw.Dim(), params.Dim())
	}
	if len(raw.Data) != params.Dim().Pixels() {
		return configErrorf("dimensions", "raw image has %d samples, want %d", len(raw.Data), params.Dim().Pixels())
	}
	return nil
}

package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/weaming/rawdev-go/colorspace"
	"github.com/weaming/rawdev-go/develop"
	"github.com/weaming/rawdev-go/matrix"
	"github.com/weaming/rawdev-go/output"
)

func printMatrix(name string, m matrix.Matrix3x3) {
	fmt.Printf("%s:\n", name)
	fmt.Printf("  [%.6f, %.6f, %.6f]\n", m[0], m[1], m[2])
	fmt.Printf("  [%.6f, %.6f, %.6f]\n", m[3], m[4], m[5])
	fmt.Printf("  [%.6f, %.6f, %.6f]\n", m[6], m[7], m[8])
	fmt.Println()
}

func main() {
	space := flag.String("cs", "ProPhotoRGB", "工作色彩空间: ProPhotoRGB, sRGB, AdobeRGB")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "用法: dump-matrix [-cs 空间] <参数.toml|参数.yaml>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *space); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(path, spaceName string) error {
	space, err := colorspace.ParseColorSpace(spaceName)
	if err != nil {
		return err
	}
	params, err := output.LoadParams(path)
	if err != nil {
		return err
	}

	fmt.Println("=== 工作空间 ===")
	fmt.Println()
	toXYZ := colorspace.RGBToXYZD65(space)
	printMatrix(space.String()+" → XYZ (D65)", toXYZ)
	fromXYZ, err := matrix.Inverse3x3(toXYZ)
	if err != nil {
		return err
	}
	printMatrix("XYZ (D65) → "+space.String(), fromXYZ)

	transform, err := develop.New(develop.Options{WorkingSpace: space}).WorkingTransform(params)
	if err != nil {
		return err
	}

	fmt.Println("=== 相机矩阵 ===")
	fmt.Println()
	output.DumpMetadata(os.Stdout, params, &transform)

	// 验证：cam_to_rgb × rgb_to_cam 应为单位矩阵
	fmt.Println("=== 验证 ===")
	fmt.Println()
	var check matrix.Matrix3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += transform.CamToRGB[i*4+k] * transform.RGBToCam[k*3+j]
			}
			check[i*3+j] = sum
		}
	}
	printMatrix("cam_to_rgb × rgb_to_cam", check)

	id := matrix.Identity3x3()
	var deviation float64
	for i := range check {
		deviation = max(deviation, math.Abs(check[i]-id[i]))
	}
	fmt.Printf("单位矩阵最大偏差: %.3g\n", deviation)

	roundTrip := toXYZ.Multiply(fromXYZ)
	deviation = 0
	for i := range roundTrip {
		deviation = max(deviation, math.Abs(roundTrip[i]-id[i]))
	}
	fmt.Printf("RGB → XYZ → RGB 最大偏差: %.3g\n", deviation)

	white := transform.CameraMatrix(develop.Channel4{1, 1, 1, 1}).Apply(matrix.Vector3{1, 1, 1})
	fmt.Printf("cam (1,1,1) → %s (%.6f, %.6f, %.6f), %d camera channels\n",
		space, white[0], white[1], white[2], transform.RGBToCam.Rows())
	return nil
}

package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaming/rawdev-go/develop"
	"github.com/weaming/rawdev-go/output"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitConfig, exitCode(fmt.Errorf("a: %w", &develop.ConfigurationError{Field: "x"})))
	assert.Equal(t, exitUnsupported, exitCode(&develop.UnsupportedFormatError{Reason: "float"}))
	assert.Equal(t, exitIO, exitCode(&develop.IOError{Path: "p", Err: os.ErrNotExist}))
	assert.Equal(t, exitFailure, exitCode(errors.New("boom")))
}

const params = `
width = 4
height = 4
black_level = [0]
white_level = [4095]
cfa = "RGGB"

[[color_matrix]]
illuminant = "D65"
matrix = [1, 0, 0, 0, 1, 0, 0, 0, 1]
`

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	var inputs []string
	for _, name := range []string{"a", "b", "c"} {
		content := make([]byte, 32)
		for i := 0; i < 16; i++ {
			binary.LittleEndian.PutUint16(content[i*2:], 2048)
		}
		input := filepath.Join(dir, name+".raw")
		require.NoError(t, os.WriteFile(input, content, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".toml"), []byte(params), 0o644))
		inputs = append(inputs, input)
	}

	outDir := filepath.Join(dir, "out")
	config := &output.Config{Inputs: inputs, OutDir: outDir, Format: "tiff", Range: "fixed", Space: "ProPhotoRGB", Jobs: 2}
	require.NoError(t, run(config, quietLogger()))
	for _, name := range []string{"a", "b", "c"} {
		assert.FileExists(t, filepath.Join(outDir, name+".tiff"))
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a.raw")
	require.NoError(t, os.WriteFile(input, make([]byte, 32), 0o644))

	// 参数文件不存在
	err := run(&output.Config{Inputs: []string{input}, Jobs: 1}, quietLogger())
	assert.Equal(t, exitIO, exitCode(err))

	err = run(&output.Config{Inputs: []string{input}, Range: "auto"}, quietLogger())
	assert.Equal(t, exitConfig, exitCode(err))

	err = run(&output.Config{Inputs: []string{input}, Format: "jpg"}, quietLogger())
	assert.Equal(t, exitConfig, exitCode(err))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.toml"), []byte(params+"cfa = \"CYGM\"\n"), 0o644))
	err = run(&output.Config{Inputs: []string{input}}, quietLogger())
	assert.Equal(t, exitConfig, exitCode(err), "unknown key inside color_matrix")
}

func TestRunDumpMeta(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a.raw")
	require.NoError(t, os.WriteFile(input, make([]byte, 32), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.toml"), []byte(params), 0o644))

	require.NoError(t, run(&output.Config{Inputs: []string{input}, DumpMeta: true}, quietLogger()))

	content, err := os.ReadFile(input + ".meta")
	require.NoError(t, err)
	assert.Contains(t, string(content), "cam_to_rgb")
	assert.NoFileExists(t, filepath.Join(dir, "a.tiff"))
}

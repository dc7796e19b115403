package develop

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger 简洁的进度日志系统，输出到 logrus
type Logger struct {
	log        *logrus.Logger
	step       string
	stepStart  time.Time
	totalStart time.Time
}

// NewLogger 创建日志记录器，l 为 nil 时丢弃所有输出
func NewLogger(l *logrus.Logger) *Logger {
	if l == nil {
		l = logrus.New()
		l.SetOutput(io.Discard)
	}
	return &Logger{
		log:        l,
		totalStart: time.Now(),
	}
}

// Step 开始一个处理步骤
func (l *Logger) Step(name string, params ...interface{}) {
	l.step = name
	l.stepStart = time.Now()
	entry := l.log.WithField("step", name)
	if len(params) > 0 {
		entry = entry.WithField("params", fmt.Sprint(params[0]))
	}
	entry.Debug("start")
}

// Done 完成当前步骤
func (l *Logger) Done(result string) {
	elapsed := time.Since(l.stepStart)
	fields := logrus.Fields{"step": l.step}
	if elapsed > 100*time.Millisecond {
		fields["elapsed"] = elapsed.Round(time.Millisecond).String()
	}
	l.log.WithFields(fields).Info(result)
}

// Total 输出总耗时
func (l *Logger) Total() {
	l.log.WithField("elapsed", time.Since(l.totalStart).Round(time.Millisecond).String()).Info("done")
}

// Info 输出信息（不计时）
func (l *Logger) Info(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

// Warn 输出警告
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

// Debug 调试输出
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

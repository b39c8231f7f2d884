// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"gopkg.in/natefinch/lumberjack.v2"
)

// globals 将 Logger、SugaredLogger 与其属性作为一个整体替换，保证三者始终一致。
type globals struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
	props  *ZapProperties
}

var _globals atomic.Pointer[globals]

func init() {
	lg, props, err := InitLogger(&Config{Level: "info", Stdout: true}, zap.OnFatal(zapcore.WriteThenPanic))
	if err != nil {
		lg, props = zap.NewNop(), &ZapProperties{Core: zapcore.NewNopCore(), Level: zap.NewAtomicLevel()}
	}
	ReplaceGlobals(lg, props)
}

// Init 按 cfg 初始化日志并替换全局 Logger。
func Init(cfg *Config, opts ...zap.Option) error {
	lg, props, err := InitLogger(cfg, opts...)
	if err != nil {
		return err
	}
	ReplaceGlobals(lg, props)
	return nil
}

// InitLogger 按 cfg 创建 Logger，同时输出到标准输出与滚动文件（两者均可关闭）。
// 不会替换全局 Logger。
func InitLogger(cfg *Config, opts ...zap.Option) (*zap.Logger, *ZapProperties, error) {
	var outputs []zapcore.WriteSyncer
	if cfg.File.Filename != "" {
		file, err := newFileWriter(&cfg.File)
		if err != nil {
			return nil, nil, err
		}
		outputs = append(outputs, zapcore.AddSync(file))
	}
	if cfg.Stdout {
		outputs = append(outputs, zapcore.Lock(os.Stdout))
	}
	return InitLoggerWithWriteSyncer(cfg, zap.CombineWriteSyncers(outputs...), opts...)
}

// InitTestLogger 创建输出到 t.Log 的 Logger，zap 内部错误会使测试失败。
func InitTestLogger(t zaptest.TestingT, cfg *Config, opts ...zap.Option) (*zap.Logger, *ZapProperties, error) {
	writer := zaptest.NewTestingWriter(t)
	opts = append([]zap.Option{zap.ErrorOutput(writer.WithMarkFailed(true))}, opts...)
	return InitLoggerWithWriteSyncer(cfg, writer, opts...)
}

// InitLoggerWithWriteSyncer 使用指定的 WriteSyncer 创建 Logger。
func InitLoggerWithWriteSyncer(cfg *Config, output zapcore.WriteSyncer, opts ...zap.Option) (*zap.Logger, *ZapProperties, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	core := zapcore.NewCore(newZapEncoder(cfg), output, level)
	props := &ZapProperties{
		Core:   core,
		Syncer: output,
		Level:  level,
	}
	return zap.New(core, append(cfg.buildOptions(output), opts...)...), props, nil
}

// parseLevel 解析日志级别；空值为 info，trace 视为 debug。
func parseLevel(text string) (zap.AtomicLevel, error) {
	level := zap.NewAtomicLevel()
	switch {
	case text == "":
		return level, nil
	case strings.EqualFold(text, "trace"):
		text = "debug"
	}
	if err := level.UnmarshalText([]byte(text)); err != nil {
		return level, errors.Wrapf(err, "log: invalid level %q", text)
	}
	return level, nil
}

func newFileWriter(cfg *FileLogConfig) (*lumberjack.Logger, error) {
	path := filepath.Join(cfg.RootPath, cfg.Filename)
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		return nil, errors.Newf("log: %s is a directory", path)
	}
	maxSize := cfg.MaxSize
	if maxSize == 0 {
		maxSize = defaultLogMaxSize
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxDays,
		LocalTime:  true,
	}, nil
}

// L 返回全局 Logger，可以通过 ReplaceGlobals 替换，并发安全。
func L() *zap.Logger {
	return _globals.Load().logger
}

// S 返回全局 SugaredLogger。
func S() *zap.SugaredLogger {
	return _globals.Load().sugar
}

// Properties 返回全局 Logger 的属性。
func Properties() *ZapProperties {
	return _globals.Load().props
}

// ReplaceGlobals 替换全局 Logger。props 为 nil 时沿用当前的属性。
func ReplaceGlobals(logger *zap.Logger, props *ZapProperties) {
	if props == nil {
		if old := _globals.Load(); old != nil {
			props = old.props
		}
	}
	_globals.Store(&globals{
		logger: logger,
		sugar:  logger.Sugar(),
		props:  props,
	})
}

// Sync 刷新缓冲中的日志。
func Sync() error {
	return L().Sync()
}

// Level 返回全局日志级别，可在运行时调整。
func Level() zap.AtomicLevel {
	return Properties().Level
}

package log

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitLoggerWithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{
		Level:  "debug",
		Format: "json",
		File: FileLogConfig{
			RootPath: dir,
			Filename: "coders.log",
		},
	}
	lg, props, err := InitLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, props)
	assert.Zero(t, cfg.File.MaxSize)
	assert.Equal(t, zapcore.DebugLevel, props.Level.Level())

	lg.Info("hello", zap.String("k", "v"))
	require.NoError(t, lg.Sync())

	data, err := os.ReadFile(filepath.Join(dir, "coders.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestInitLoggerRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	_, _, err := InitLogger(&Config{File: FileLogConfig{RootPath: dir, Filename: "sub"}})
	assert.Error(t, err)
}

func TestInitLoggerBadLevel(t *testing.T) {
	_, _, err := InitLogger(&Config{Level: "loud", Stdout: true})
	assert.Error(t, err)
}

func TestTraceLevelIsDebug(t *testing.T) {
	_, props, err := InitTestLogger(t, &Config{Level: "trace"})
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, props.Level.Level())
}

func TestReplaceGlobalsAndCtx(t *testing.T) {
	oldL, oldP := L(), Properties()
	defer ReplaceGlobals(oldL, oldP)

	lg, props, err := InitTestLogger(t, &Config{Level: "warn"})
	require.NoError(t, err)
	ReplaceGlobals(lg, props)
	assert.Equal(t, zapcore.WarnLevel, GetLevel())
	SetLevel(zapcore.ErrorLevel)
	assert.Equal(t, zapcore.ErrorLevel, GetLevel())

	ctx := WithModule(context.Background(), "coder")
	assert.NotSame(t, Ctx(context.Background()), Ctx(ctx))
	assert.Same(t, Ctx(ctx), Ctx(ctx))
	assert.NotNil(t, Ctx(nil)) //nolint:staticcheck
}

func TestBinder(t *testing.T) {
	var b Binder
	assert.NotNil(t, b.Logger())

	ml := With(FieldComponent("test"))
	b.SetLogger(ml)
	assert.Same(t, ml, b.Logger())
	assert.NotNil(t, ml.Named("child").With(zap.Int("n", 1)))

	b.SetLogger(nil)
	assert.NotSame(t, ml, b.Logger())
}

func TestInit(t *testing.T) {
	oldL, oldP := L(), Properties()
	defer ReplaceGlobals(oldL, oldP)

	require.NoError(t, Init(&Config{Level: "error", Format: "console"}))
	assert.Equal(t, zapcore.ErrorLevel, GetLevel())
	assert.NotNil(t, S())

	// props 为 nil 时保留当前属性。
	ReplaceGlobals(zap.NewNop(), nil)
	assert.Equal(t, zapcore.ErrorLevel, GetLevel())
	assert.Error(t, Init(&Config{Level: "loud"}))
}

func TestFileWriterDefaults(t *testing.T) {
	cfg := FileLogConfig{RootPath: t.TempDir(), Filename: "coders.log", MaxBackups: 2}
	w, err := newFileWriter(&cfg)
	require.NoError(t, err)
	assert.Equal(t, defaultLogMaxSize, w.MaxSize)
	assert.Equal(t, 2, w.MaxBackups)
	assert.Zero(t, cfg.MaxSize)

	cfg.MaxSize = 5
	w, err = newFileWriter(&cfg)
	require.NoError(t, err)
	assert.Equal(t, 5, w.MaxSize)
}

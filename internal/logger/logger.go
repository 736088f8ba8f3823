package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultDir        = "logs"
	defaultFilename   = "app.log"
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 7
	defaultMaxAgeDays = 30
)

// Options 日志输出配置；Level 为空时 debug 模式取 debug，其余取 info
type Options struct {
	Dir        string
	Filename   string
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	// Stdout release 模式下同时输出 JSON 到标准输出，便于容器采集
	Stdout bool
}

func init() {
	// Init 之前（测试、seed 工具）也有可用的控制台日志
	zap.ReplaceGlobals(New("debug", Options{Level: "info"}))
}

// Init 按运行模式初始化全局日志
func Init(mode string, options Options) *zap.Logger {
	l := New(mode, options)
	zap.ReplaceGlobals(l)
	return l
}

// New debug 模式输出彩色控制台；其余模式写 JSON 到滚动文件
func New(mode string, options Options) *zap.Logger {
	debug := strings.EqualFold(strings.TrimSpace(mode), "debug")
	level := zap.NewAtomicLevelAt(resolveLevel(debug, options.Level))
	encCfg := encoderConfig()

	if debug {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return build(zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), level))
	}

	encoder := zapcore.NewJSONEncoder(encCfg)
	file, err := rollingFile(options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file unavailable, using stdout: %v\n", err)
		return build(zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level))
	}
	core := zapcore.NewCore(encoder, file, level)
	if options.Stdout {
		core = zapcore.NewTee(core, zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level))
	}
	return build(core)
}

func build(core zapcore.Core) *zap.Logger {
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return cfg
}

func resolveLevel(debug bool, raw string) zapcore.Level {
	if raw = strings.TrimSpace(raw); raw != "" {
		if level, err := zapcore.ParseLevel(raw); err == nil {
			return level
		}
	}
	if debug {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// rollingFile 创建日志目录并返回 lumberjack 滚动写入器
func rollingFile(options Options) (zapcore.WriteSyncer, error) {
	path, err := logFilePath(options)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    positiveOr(options.MaxSizeMB, defaultMaxSizeMB),
		MaxBackups: positiveOr(options.MaxBackups, defaultMaxBackups),
		MaxAge:     positiveOr(options.MaxAgeDays, defaultMaxAgeDays),
		Compress:   options.Compress,
		LocalTime:  true,
	}), nil
}

func logFilePath(options Options) (string, error) {
	dir := strings.TrimSpace(options.Dir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve workdir: %w", err)
		}
		dir = filepath.Join(wd, defaultDir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	name := strings.TrimSpace(options.Filename)
	if name == "" {
		name = defaultFilename
	}
	return filepath.Join(dir, name), nil
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

// Z 全局结构化日志
func Z() *zap.Logger { return zap.L() }

// S 全局 SugaredLogger
func S() *zap.SugaredLogger { return zap.S() }

// SW 附带固定字段的 SugaredLogger
func SW(kv ...interface{}) *zap.SugaredLogger { return zap.S().With(kv...) }

// StdLogger 供 gorm 等只接受标准库 log 的组件使用
func StdLogger() *log.Logger { return zap.NewStdLog(zap.L()) }

func Debugw(msg string, kv ...interface{}) { zap.S().Debugw(msg, kv...) }

func Infow(msg string, kv ...interface{}) { zap.S().Infow(msg, kv...) }

func Warnw(msg string, kv ...interface{}) { zap.S().Warnw(msg, kv...) }

func Errorw(msg string, kv ...interface{}) { zap.S().Errorw(msg, kv...) }

package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger = zap.NewNop()

// Init 初始化全局日志（只写 stderr，stdout 留给 MCP 协议帧）
func Init() {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	Logger = build(config)
}

// build 构建失败时退回到直接写 stderr 的 console logger
func build(config zap.Config) *zap.Logger {
	logger, err := config.Build()
	if err == nil {
		return logger
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(config.EncoderConfig),
		zapcore.Lock(os.Stderr),
		zapcore.DebugLevel,
	)
	logger = zap.New(core)
	logger.Warn("build logger failed, falling back to stderr", zap.Error(err))
	return logger
}

func GetLogger() *zap.Logger {
	return Logger
}

// Sync 刷新缓冲（进程退出前调用）
func Sync() {
	_ = Logger.Sync()
}

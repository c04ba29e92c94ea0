package log

import (
	"fmt"
	"os"
	"time"

	"github.com/assimon/ethpay/config"
	"github.com/natefinch/lumberjack"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sugar 未初始化时退化为空日志器，便于单元测试直接使用
var Sugar = zap.NewNop().Sugar()

func Init() {
	level := zapcore.InfoLevel
	if config.AppDebug {
		level = zapcore.DebugLevel
	}

	fileCore := zapcore.NewCore(fileEncoder(), fileWriter(), level)

	var core zapcore.Core
	if config.LogDebug {
		// Debug 模式：同时输出到文件和控制台
		consoleCore := zapcore.NewCore(consoleEncoder(), zapcore.AddSync(os.Stdout), level)
		core = zapcore.NewTee(fileCore, consoleCore)
	} else {
		core = fileCore
	}

	Sugar = zap.New(core, zap.AddCaller()).Sugar()
}

func fileEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

// consoleEncoder 控制台友好编码器，带彩色级别
func consoleEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func fileWriter() zapcore.WriteSyncer {
	file := fmt.Sprintf("%s/%s_%s.log",
		config.LogSavePath,
		config.GetAppName(),
		time.Now().Format("20060102"))
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   file,
		MaxSize:    viper.GetInt("log_max_size"),
		MaxBackups: viper.GetInt("max_backups"),
		MaxAge:     viper.GetInt("log_max_age"),
		Compress:   false,
	})
}

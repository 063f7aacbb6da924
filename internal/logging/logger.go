package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger writes JSON logs to a rotated file under logDir. With verbose
// set, a console core teeing to stderr is added so interactive runs show
// the probe attempts as they happen.
func NewLogger(logDir string, verbose bool) (*zap.Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, "tracegate.log"),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	})
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, zap.InfoLevel)

	if !verbose {
		return zap.New(fileCore), nil
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleCfg),
		zapcore.AddSync(os.Stderr),
		zap.DebugLevel,
	)
	return zap.New(zapcore.NewTee(fileCore, consoleCore)), nil
}

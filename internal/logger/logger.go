// internal/logger/logger.go
//
// Structured logger (Zap, optional Lumberjack file sink).
//
// Context
// -------
// The endpoint logs JSON to stdout so the platform log collector can pick
// it up.  Operators running the binary by hand set `human_logs` to switch
// to the console encoder instead.  When a log directory is supplied, the
// same events are also written to a daily-named rotating JSON file;
// rotation, compression, and retention are handled by Lumberjack, so no
// external log-rotate job is required.
//
// Usage
// -----
//
//	log, err := logger.New(settings, "")       // stdout only
//	log, err := logger.New(settings, "/var/log/autoendpoint")
//
// Notes
// -----
// • `debug` in the settings lowers the level floor to DEBUG.
// • The logger is installed as the process-wide default via
//   zap.ReplaceGlobals so zap.S() works everywhere after startup.
package logger

import (
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mozilla-services/autoendpoint/internal/settings"
)

// New returns a *zap.SugaredLogger configured from the resolved settings.
// logDir may be empty; when set, a rotating JSON file sink is attached
// under it.
func New(s *settings.Settings, logDir string) (*zap.SugaredLogger, error) {
	level := zap.InfoLevel
	if s.Debug {
		level = zap.DebugLevel
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	var stdout zapcore.Encoder
	if s.HumanLogs {
		stdout = zapcore.NewConsoleEncoder(encCfg)
	} else {
		stdout = zapcore.NewJSONEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(stdout, zapcore.AddSync(os.Stdout), level),
	}

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, err
		}
		fileSink := &lumberjack.Logger{
			Filename:   filepath.Join(logDir, time.Now().Format("2006-01-02")+".log"),
			MaxSize:    50, // MB
			MaxBackups: 7,  // keep last seven files
			MaxAge:     14, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.AddSync(fileSink),
			level,
		))
	}

	z := zap.New(zapcore.NewTee(cores...)).Sugar()

	// Make this the global logger so zap.S() works everywhere after startup.
	zap.ReplaceGlobals(z.Desugar())

	return z, nil
}

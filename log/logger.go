// Package log wraps logrus with key/value style context arguments.
package log

import (
	"io"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02T15:04:05.000"

var (
	// JSONFormat whether log in json format
	JSONFormat bool

	logger = logrus.New()
)

func init() {
	logger.SetOutput(os.Stdout)
	setFormatter(false, true)
}

// SetLogger set log level and format
func SetLogger(logLevel uint32, jsonFormat, colorFormat bool) {
	JSONFormat = jsonFormat
	logger.SetLevel(logrus.Level(logLevel))
	setFormatter(jsonFormat, colorFormat)
}

func setFormatter(jsonFormat, colorFormat bool) {
	if jsonFormat {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
		})
		return
	}
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:     colorFormat,
		DisableColors:   !colorFormat,
		ForceQuote:      true,
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
		DisableSorting:  true,
	})
}

// SetLogFile also writes logs to a rotated file.
// rotation is in hours, maxAge is in days, zero uses the defaults (24h, 7d).
func SetLogFile(logFile string, rotation, maxAge uint64) error {
	if logFile == "" {
		return nil
	}
	if rotation == 0 {
		rotation = 24
	}
	if maxAge == 0 {
		maxAge = 7
	}
	absPath, err := filepath.Abs(logFile)
	if err != nil {
		return err
	}
	writer, err := rotatelogs.New(
		absPath+".%Y%m%d%H%M",
		rotatelogs.WithLinkName(absPath),
		rotatelogs.WithRotationTime(time.Duration(rotation)*time.Hour),
		rotatelogs.WithMaxAge(time.Duration(maxAge)*24*time.Hour),
	)
	if err != nil {
		return err
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, writer))
	return nil
}

// SetOutput redirect log output
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// WithFields build log entry from key/value pairs
func WithFields(ctx ...interface{}) *logrus.Entry {
	length := len(ctx)
	if length%2 != 0 {
		logger.Debugf("log fields number %v is not even", length)
	}
	fields := make(logrus.Fields, length/2)
	for k := 0; k+2 <= length; k += 2 {
		key, ok := ctx[k].(string)
		if !ok {
			logger.Debugf("log field key '%v' is not string", ctx[k])
			continue
		}
		fields[key] = ctx[k+1]
	}
	return logger.WithFields(fields)
}

func Trace(msg string, ctx ...interface{}) {
	WithFields(ctx...).Trace(msg)
}

func Debug(msg string, ctx ...interface{}) {
	WithFields(ctx...).Debug(msg)
}

func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

func Info(msg string, ctx ...interface{}) {
	WithFields(ctx...).Info(msg)
}

func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

func Println(msg ...interface{}) {
	logger.Println(msg...)
}

func Printf(format string, args ...interface{}) {
	logger.Printf(format, args...)
}

func Warn(msg string, ctx ...interface{}) {
	WithFields(ctx...).Warn(msg)
}

func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

func Error(msg string, ctx ...interface{}) {
	WithFields(ctx...).Error(msg)
}

func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

func Fatal(msg string, ctx ...interface{}) {
	WithFields(ctx...).Fatal(msg)
}

func Fatalf(format string, args ...interface{}) {
	logger.Fatalf(format, args...)
}

func Panic(msg string, ctx ...interface{}) {
	WithFields(ctx...).Panic(msg)
}

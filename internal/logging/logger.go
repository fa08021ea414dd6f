package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel определяет уровни логирования
type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

// String возвращает строковое представление уровня логирования
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel разбирает уровень из конфигурации; неизвестное значение — INFO
func ParseLevel(s string) LogLevel {
	for l := TRACE; l <= ERROR; l++ {
		if l.String() == s {
			return l
		}
	}
	return INFO
}

// zapLevel отображает уровень на zap. TRACE пишется как Debug с префиксом.
func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case TRACE, DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// Logger — логгер компонента: консоль (INFO и выше) и файл (все уровни)
type Logger struct {
	component       string
	zl              *zap.Logger
	sugar           *zap.SugaredLogger
	file            *os.File
	minConsoleLevel zap.AtomicLevel
	minFileLevel    zap.AtomicLevel
}

// LogDir — каталог файлов логов
var LogDir = "logs"

// NewLogger создает логгер компонента с файлом logs/<component>_<timestamp>.log
func NewLogger(component string) (*Logger, error) {
	if err := os.MkdirAll(LogDir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", LogDir, err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join(LogDir, fmt.Sprintf("%s_%s.log", component, timestamp))

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания файла логов: %w", err)
	}

	consoleLevel := zap.NewAtomicLevelAt(INFO.zapLevel())
	fileLevel := zap.NewAtomicLevelAt(TRACE.zapLevel())

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(os.Stdout), consoleLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(file), fileLevel),
	)

	l := newFromCore(component, core)
	l.file = file
	l.minConsoleLevel = consoleLevel
	l.minFileLevel = fileLevel
	return l, nil
}

// NewConsoleLogger создает логгер только для stdout (fallback без файла)
func NewConsoleLogger(component string) *Logger {
	level := zap.NewAtomicLevelAt(INFO.zapLevel())
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(os.Stdout), level)

	l := newFromCore(component, core)
	l.minConsoleLevel = level
	l.minFileLevel = level
	return l
}

// NewWithCore создает логгер поверх произвольного zap-ядра (используется в тестах)
func NewWithCore(component string, core zapcore.Core) *Logger {
	l := newFromCore(component, core)
	l.minConsoleLevel = zap.NewAtomicLevelAt(TRACE.zapLevel())
	l.minFileLevel = l.minConsoleLevel
	return l
}

func newFromCore(component string, core zapcore.Core) *Logger {
	zl := zap.New(core).Named(component)
	return &Logger{
		component: component,
		zl:        zl,
		sugar:     zl.Sugar(),
	}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// Component возвращает имя компонента логгера
func (l *Logger) Component() string {
	return l.component
}

// SetLevels устанавливает минимальные уровни для консоли и файла
func (l *Logger) SetLevels(console, file LogLevel) {
	l.minConsoleLevel.SetLevel(console.zapLevel())
	l.minFileLevel.SetLevel(file.zapLevel())
}

// Close сбрасывает буферы и закрывает файл логов
func (l *Logger) Close() error {
	_ = l.zl.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) Trace(format string, args ...interface{}) {
	l.sugar.Debugf("[TRACE] "+format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Глобальный логгер процесса; до InitDefaultLogger все вызовы — no-op
var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// InitDefaultLogger инициализирует глобальный логгер для компонента
func InitDefaultLogger(component string) error {
	l, err := NewLogger(component)
	if err != nil {
		return err
	}
	SetDefaultLogger(l)
	return nil
}

// SetDefaultLogger заменяет глобальный логгер (nil отключает логирование)
func SetDefaultLogger(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// CloseDefaultLogger закрывает глобальный логгер
func CloseDefaultLogger() {
	defaultMu.Lock()
	l := defaultLogger
	defaultLogger = nil
	defaultMu.Unlock()

	if l != nil {
		_ = l.Close()
	}
}

// DefaultLogger возвращает глобальный логгер или nil
func DefaultLogger() *Logger {
	return current()
}

func current() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// Trace логирует сообщение уровня TRACE
func Trace(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Trace(format, args...)
	}
}

// Debug логирует сообщение уровня DEBUG
func Debug(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Debug(format, args...)
	}
}

// Info логирует сообщение уровня INFO
func Info(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Info(format, args...)
	}
}

// Warn логирует сообщение уровня WARN
func Warn(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Warn(format, args...)
	}
}

// Error логирует сообщение уровня ERROR
func Error(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Error(format, args...)
	}
}

/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package logger provides leveled logging for the renderer, the pipeline
// and the command line tool. Rendering itself never logs.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level defines log levels
type Level int32

const (
	// DEBUG shows rendered documents and stage contexts
	DEBUG Level = iota
	// INFO general information
	INFO
	// WARN warnings only
	WARN
	// ERROR errors only
	ERROR
	// OFF disables logging
	OFF
)

var levelNames = [...]string{DEBUG: "DEBUG", INFO: "INFO", WARN: "WARN", ERROR: "ERROR", OFF: "OFF"}

// String returns string representation of log level
func (l Level) String() string {
	if l < DEBUG || l > OFF {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel maps a case-insensitive level name to a Level. "warning" is
// accepted for WARN and "none" for OFF.
func ParseLevel(name string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO", "":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	case "OFF", "NONE":
		return OFF, nil
	}
	return INFO, fmt.Errorf("logger: unknown level %q", name)
}

// Logger interface defines basic methods for logging
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	// SetLevel sets the log level
	SetLevel(level Level)
}

// NamedLogger is a Logger that can derive component loggers
type NamedLogger interface {
	Logger
	// Named returns a logger sharing output and level that prefixes
	// messages with the component name
	Named(component string) Logger
}

// defaultLogger writes "[time] [LEVEL] [component] message" lines
type defaultLogger struct {
	level     *atomic.Int32
	logger    *log.Logger
	component string
}

// NewLogger creates a new logger
//
// Example:
//
//	l := NewLogger(INFO, os.Stdout)
//	l.Info("renderer started")
func NewLogger(level Level, output io.Writer) Logger {
	if output == nil {
		output = io.Discard
	}
	l := &defaultLogger{
		level:  new(atomic.Int32),
		logger: log.New(output, "", 0), // 使用自定义格式
	}
	l.level.Store(int32(level))
	return l
}

func (l *defaultLogger) enabled(level Level) bool {
	current := Level(l.level.Load())
	return current != OFF && current <= level
}

// Debug 记录调试级别的日志
func (l *defaultLogger) Debug(format string, args ...interface{}) {
	if l.enabled(DEBUG) {
		l.log(DEBUG, format, args...)
	}
}

// Info 记录信息级别的日志
func (l *defaultLogger) Info(format string, args ...interface{}) {
	if l.enabled(INFO) {
		l.log(INFO, format, args...)
	}
}

func (l *defaultLogger) Warn(format string, args ...interface{}) {
	if l.enabled(WARN) {
		l.log(WARN, format, args...)
	}
}

func (l *defaultLogger) Error(format string, args ...interface{}) {
	if l.enabled(ERROR) {
		l.log(ERROR, format, args...)
	}
}

// SetLevel 设置日志级别，对派生的组件日志器同样生效
func (l *defaultLogger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

func (l *defaultLogger) Named(component string) Logger {
	name := component
	if l.component != "" {
		name = l.component + "." + component
	}
	return &defaultLogger{level: l.level, logger: l.logger, component: name}
}

func (l *defaultLogger) log(level Level, format string, args ...interface{}) {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	message := fmt.Sprintf(format, args...)
	if l.component != "" {
		l.logger.Printf("[%s] [%s] [%s] %s", timestamp, level, l.component, message)
		return
	}
	l.logger.Printf("[%s] [%s] %s", timestamp, level, message)
}

// discardLogger is a logger that discards all log output
type discardLogger struct{}

// NewDiscardLogger creates a logger that discards all logs
func NewDiscardLogger() Logger {
	return discardLogger{}
}

func (discardLogger) Debug(format string, args ...interface{}) {}
func (discardLogger) Info(format string, args ...interface{})  {}
func (discardLogger) Warn(format string, args ...interface{})  {}
func (discardLogger) Error(format string, args ...interface{}) {}
func (discardLogger) SetLevel(level Level)                     {}
func (d discardLogger) Named(string) Logger                    { return d }

// Named derives a component logger from l when it supports it, otherwise
// returns l unchanged.
func Named(l Logger, component string) Logger {
	if n, ok := l.(NamedLogger); ok {
		return n.Named(component)
	}
	return l
}

var (
	mu              sync.RWMutex
	defaultInstance = NewLogger(INFO, os.Stdout)
)

// SetDefault sets the global default logger, nil restores a discard logger
func SetDefault(logger Logger) {
	if logger == nil {
		logger = NewDiscardLogger()
	}
	mu.Lock()
	defaultInstance = logger
	mu.Unlock()
}

// GetDefault gets the global default logger
func GetDefault() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultInstance
}

// 便捷的全局日志方法

func Debug(format string, args ...interface{}) { GetDefault().Debug(format, args...) }
func Info(format string, args ...interface{})  { GetDefault().Info(format, args...) }
func Warn(format string, args ...interface{})  { GetDefault().Warn(format, args...) }
func Error(format string, args ...interface{}) { GetDefault().Error(format, args...) }

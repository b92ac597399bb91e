// Package diag implements the diagnostic sink shared by the serial session and
// its callers. Every message goes to the console; while a session log file is
// open it is also appended there.
package diag

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrEmptyMessage is printed to the error output when a caller passes an
// empty message. It is never returned.
var ErrEmptyMessage = errors.New("message is empty")

// ConfirmFunc blocks until the operator acknowledges a prompt.
type ConfirmFunc func() error

// Sink writes diagnostics to the console and, between Init and Deinit, to a
// timestamped log file.
type Sink struct {
	mu      sync.Mutex
	out     zapcore.WriteSyncer
	errOut  io.Writer
	dir     string
	now     func() time.Time
	confirm ConfirmFunc
	doubled bool

	file       *os.File
	path       string
	logger     *zap.Logger // console + file
	consoleLog *zap.Logger
}

// Option configures a Sink
type Option func(*Sink)

// WithConsole sets the console destination (default os.Stdout)
func WithConsole(w io.Writer) Option {
	return func(s *Sink) {
		s.out = zapcore.Lock(zapcore.AddSync(w))
	}
}

// WithErrorOutput sets where misuse of the sink itself is reported (default os.Stderr)
func WithErrorOutput(w io.Writer) Option {
	return func(s *Sink) {
		s.errOut = w
	}
}

// WithDir sets the directory the log file is created in (default ".")
func WithDir(dir string) Option {
	return func(s *Sink) {
		s.dir = dir
	}
}

// WithClock overrides the clock used to name the log file
func WithClock(now func() time.Time) Option {
	return func(s *Sink) {
		s.now = now
	}
}

// WithConfirm replaces the ENTER-on-stdin acknowledgement used by Prompt
func WithConfirm(fn ConfirmFunc) Option {
	return func(s *Sink) {
		s.confirm = fn
	}
}

// WithDoubledPrompt makes Prompt print its console copy twice, for operator
// scripts that rely on the old doubled output.
func WithDoubledPrompt(doubled bool) Option {
	return func(s *Sink) {
		s.doubled = doubled
	}
}

// New creates a sink with no log file open.
func New(opts ...Option) *Sink {
	s := &Sink{
		out:    zapcore.Lock(os.Stdout),
		errOut: os.Stderr,
		dir:    ".",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.confirm == nil {
		s.confirm = StdinConfirm(os.Stdin)
	}
	s.rebuild()
	return s
}

// StdinConfirm returns a ConfirmFunc that reads r until a newline.
func StdinConfirm(r io.Reader) ConfirmFunc {
	br := bufio.NewReader(r)
	return func() error {
		_, err := br.ReadString('\n')
		return err
	}
}

// FileName returns the log file name for a session started at t.
func FileName(t time.Time) string {
	return "pmap_" + t.Format("2006-01-02_15-04-05") + ".log"
}

// Init creates the session log file, truncating any file with the same name.
// A file left open by a previous Init is closed first.
func (s *Sink) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		s.closeFile()
	}

	path := filepath.Join(s.dir, FileName(s.now()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	s.file = f
	s.path = path
	s.rebuild()
	return nil
}

// Deinit closes the log file if one is open. Later messages only reach the console.
func (s *Sink) Deinit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	return s.closeFile()
}

// Path returns the open log file path, or "" when none is open.
func (s *Sink) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Info reports a status message to the console and the log file.
func (s *Sink) Info(msg string, fields ...zap.Field) {
	if !s.valid(msg) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Info(msg, fields...)
}

// Error reports a failure to the console and the log file.
func (s *Sink) Error(msg string, fields ...zap.Field) {
	if !s.valid(msg) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Error(msg, fields...)
}

// Debug writes to the log file only. Without an open file it does nothing.
func (s *Sink) Debug(msg string, fields ...zap.Field) {
	if !s.valid(msg) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Debug(msg, fields...)
}

// Prompt reports msg like Info and then waits for the operator to acknowledge it.
func (s *Sink) Prompt(msg string, fields ...zap.Field) error {
	if !s.valid(msg) {
		return nil
	}

	s.mu.Lock()
	if s.doubled {
		s.consoleLog.Info(msg, fields...)
	}
	s.logger.Info(msg, fields...)
	confirm := s.confirm
	s.mu.Unlock()

	return confirm()
}

func (s *Sink) valid(msg string) bool {
	if msg != "" {
		return true
	}
	fmt.Fprintf(s.errOut, "Error: %v\n", ErrEmptyMessage)
	return false
}

// closeFile must be called with mu held.
func (s *Sink) closeFile() error {
	_ = s.file.Sync()
	err := s.file.Close()
	s.file = nil
	s.path = ""
	s.rebuild()
	return err
}

// rebuild recreates the loggers after the file destination changes.
func (s *Sink) rebuild() {
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig()),
		s.out,
		zapcore.InfoLevel,
	)
	s.consoleLog = zap.New(consoleCore)

	if s.file == nil {
		s.logger = s.consoleLog
		return
	}

	fileCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(fileEncoderConfig()),
		zapcore.AddSync(s.file),
		zapcore.DebugLevel,
	)
	s.logger = zap.New(zapcore.NewTee(consoleCore, fileCore))
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:       "message",
		LevelKey:         "level",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: " ",
	}
}

func fileEncoderConfig() zapcore.EncoderConfig {
	config := zap.NewProductionEncoderConfig()
	config.TimeKey = "timestamp"
	config.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	config.MessageKey = "message"
	config.EncodeLevel = zapcore.CapitalLevelEncoder
	config.CallerKey = ""
	config.StacktraceKey = ""
	return config
}

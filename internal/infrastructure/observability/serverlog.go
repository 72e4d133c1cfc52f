package observability

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServerLog is the shared operational log sink. The absence scheduler and
// the security-sensitive handlers record their events here in addition to
// the process logger, so a single file holds the cross-cutting audit trail.
type ServerLog struct {
	logger      *Logger
	file        *os.File
	mu          sync.Mutex
	isDedicated bool
}

type Event struct {
	Component  string
	Action     string
	Message    string
	EmployeeID string
	UserID     uint64
	Resource   string
	Success    bool
	IPAddress  string
}

// NewServerLog fans events into an existing process logger.
func NewServerLog(logger *Logger) *ServerLog {
	return &ServerLog{
		logger: logger,
	}
}

// NewDedicatedServerLog writes events to a separate file in append mode.
func NewDedicatedServerLog(filePath, format string) (*ServerLog, error) {
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	if format == "console" {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		// SIEM-friendly JSON format
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
		encoderConfig.LevelKey = "level"
		encoderConfig.NameKey = "logger"
		encoderConfig.CallerKey = "caller"
		encoderConfig.MessageKey = "message"
		encoderConfig.StacktraceKey = "stack"
		encoderConfig.LineEnding = zapcore.DefaultLineEnding
		encoderConfig.EncodeDuration = zapcore.SecondsDurationEncoder
		encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(
		encoder,
		zapcore.AddSync(file),
		zapcore.InfoLevel,
	)

	zapLogger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	dedicatedLogger := &Logger{zap: zapLogger}

	return &ServerLog{
		logger:      dedicatedLogger,
		file:        file,
		isDedicated: true,
	}, nil
}

// Close releases the underlying file, if any.
func (s *ServerLog) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		return err
	}
	return nil
}

// Record writes a structured event. Failures to write are swallowed so a
// full disk or closed sink never interrupts a scheduler cycle.
func (s *ServerLog) Record(ctx context.Context, event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields := []zap.Field{
		zap.String("component", event.Component),
		zap.String("action", event.Action),
		zap.Bool("success", event.Success),
		zap.Time("event_time", time.Now().UTC()),
	}
	if event.EmployeeID != "" {
		fields = append(fields, zap.String("employee_id", event.EmployeeID))
	}
	if event.UserID != 0 {
		fields = append(fields, zap.Uint64("user_id", event.UserID))
	}
	if event.Resource != "" {
		fields = append(fields, zap.String("resource", event.Resource))
	}
	if event.IPAddress != "" {
		fields = append(fields, zap.String("ip_address", event.IPAddress))
	}

	msg := event.Message
	if msg == "" {
		msg = event.Action
	}

	if event.Success {
		s.logger.Info(ctx, msg, fields...)
	} else {
		s.logger.Warn(ctx, msg, fields...)
	}
}

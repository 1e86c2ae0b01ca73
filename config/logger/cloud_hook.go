package logger

import (
	"context"
	"fmt"

	"cloud.google.com/go/compute/metadata"
	"cloud.google.com/go/logging"
	"github.com/sirupsen/logrus"
)

var severities = map[logrus.Level]logging.Severity{
	logrus.TraceLevel: logging.Debug,
	logrus.DebugLevel: logging.Debug,
	logrus.InfoLevel:  logging.Info,
	logrus.WarnLevel:  logging.Warning,
	logrus.ErrorLevel: logging.Error,
	logrus.FatalLevel: logging.Critical,
	logrus.PanicLevel: logging.Alert,
}

// CloudHook forwards logrus entries to Cloud Logging.
type CloudHook struct {
	client *logging.Client
	logger *logging.Logger
}

// NewCloudHook opens a logging client for projectID. An empty projectID is
// looked up on the metadata server.
func NewCloudHook(ctx context.Context, projectID, logID string) (*CloudHook, error) {
	if projectID == "" {
		id, err := metadata.ProjectIDWithContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve project id: %w", err)
		}
		projectID = id
	}
	client, err := logging.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create logging client: %w", err)
	}
	return &CloudHook{client: client, logger: client.Logger(logID)}, nil
}

func (h *CloudHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *CloudHook) Fire(entry *logrus.Entry) error {
	payload := make(map[string]any, len(entry.Data)+1)
	for k, v := range entry.Data {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		payload[k] = v
	}
	payload["message"] = entry.Message

	h.logger.Log(logging.Entry{
		Timestamp: entry.Time,
		Severity:  Severity(entry.Level),
		Payload:   payload,
	})
	return nil
}

// Close flushes buffered entries.
func (h *CloudHook) Close() error {
	return h.client.Close()
}

func Severity(level logrus.Level) logging.Severity {
	if s, ok := severities[level]; ok {
		return s
	}
	return logging.Default
}

package obs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// Time logs the duration of the named operation when the returned func
// runs, typically via defer. Pass a pointer to the surrounding named
// error so failures are recorded too.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		fields := logrus.Fields{
			"op":     name,
			"dur_ms": time.Since(start).Milliseconds(),
		}
		if reqID != "" {
			fields["req_id"] = reqID
		}

		if errp != nil && *errp != nil {
			logrus.WithFields(fields).WithError(*errp).Warn("operation failed")
			return
		}
		logrus.WithFields(fields).Debug("operation completed")
	}
}

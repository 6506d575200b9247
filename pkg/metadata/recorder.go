package metadata

import (
	"time"

	"github.com/sirupsen/logrus"
)

/*
Metadata Collected
- Ready-state transitions
- Routing decisions
- Raised errors

Metadata is write-only.
No component may read metadata to decide how a request proceeds.
*/

/*
Recorder writes structured entries through a logrus logger.
It must not:
- affect control flow
- retain entries beyond what the logger does
Ordering guarantees:
- Entries are written synchronously in the order they are received.
*/
type Recorder struct {
	logger    logrus.FieldLogger
	sessionId string
}

func NewRecorder(logger logrus.FieldLogger, sessionId string) *Recorder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Recorder{
		logger:    logger,
		sessionId: sessionId,
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	record := ErrorRecord{
		packageName: packageName,
		action:      action,
		cause:       cause,
		errorString: errorString,
		observedAt:  observedAt,
		attrs:       attrs,
	}
	fields := r.fields()
	fields["package"] = record.packageName
	fields["action"] = record.action
	fields["cause"] = record.cause.String()
	fields["observed_at"] = record.observedAt.Format(time.RFC3339Nano)
	for _, attr := range record.attrs {
		fields[string(attr.Key)] = attr.Value
	}
	r.logger.WithFields(fields).Error(record.errorString)
}

func (r *Recorder) RecordTransition(url string, from int, to int, async bool) {
	record := TransitionRecord{url: url, from: from, to: to, async: async}
	fields := r.fields()
	fields[string(AttrURL)] = record.url
	fields["from"] = record.from
	fields["to"] = record.to
	fields["async"] = record.async
	r.logger.WithFields(fields).Debug("ready state changed")
}

func (r *Recorder) RecordDispatch(host string, pathname string, method string, matched bool) {
	record := DispatchRecord{host: host, pathname: pathname, method: method, matched: matched}
	fields := r.fields()
	fields[string(AttrHost)] = record.host
	fields[string(AttrPath)] = record.pathname
	fields[string(AttrMethod)] = record.method
	fields["matched"] = record.matched
	entry := r.logger.WithFields(fields)
	if record.matched {
		entry.Info("request dispatched")
		return
	}
	entry.Warn("request not routed")
}

func (r *Recorder) fields() logrus.Fields {
	fields := logrus.Fields{}
	if r.sessionId != "" {
		fields["session"] = r.sessionId
	}
	return fields
}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)
	RecordTransition(url string, from int, to int, async bool)
	RecordDispatch(host string, pathname string, method string, matched bool)
}

// NoopSink, struct that implements metadata.MetadataSink but does nothing
// Callers (or tests) decide whether to inject a Recorder or NoopSink

type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordTransition(url string, from int, to int, async bool) {}

func (n *NoopSink) RecordDispatch(host string, pathname string, method string, matched bool) {}

package auditlog

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Logger writes admin actions as structured log lines tagged audit=true.
// It complements the broker events: every attempt is logged, including the
// ones rejected before an event is emitted.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// Record logs one action. Failed attempts are logged at warn.
func (l *Logger) Record(action string, fields map[string]string) {
	ev := l.log.Info()
	if fields["result"] != "success" {
		ev = l.log.Warn()
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ev = ev.Str("action", action)
	for _, k := range keys {
		v := fields[k]
		if k == "email" {
			v = MaskEmail(v)
		}
		ev = ev.Str(k, v)
	}
	ev.Msg("admin_action")
}

// MaskEmail partially masks an email for logs. Values without a local part
// and domain are masked entirely.
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if len(email) < 5 || at <= 0 {
		return "***"
	}
	if at < 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}

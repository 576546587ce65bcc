package audit

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/serialcheck/serialcheck-server/internal/util"
)

type EventType string

const (
	EventLoginSuccess     EventType = "login_success"
	EventLoginFailure     EventType = "login_failure"
	EventAuthFailure      EventType = "auth_failure"
	EventSerialUpsert     EventType = "serial_upsert"
	EventSerialDelete     EventType = "serial_delete"
	EventSerialsClear     EventType = "serials_clear"
	EventSerialsReformat  EventType = "serials_reformat"
	EventRateLimitReset   EventType = "rate_limit_reset"
	EventRateLimitExceed  EventType = "rate_limit_exceeded"
	EventLoginRateLimited EventType = "login_rate_limited"
)

type Event struct {
	Type      EventType
	Admin     string
	IP        string
	UserAgent string
	Details   map[string]interface{}
}

func Log(ctx context.Context, event Event) {
	logger := log.With().
		Str("audit", "security").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now()).
		Logger()

	if event.Admin != "" {
		logger = logger.With().Str("admin", event.Admin).Logger()
	}
	if event.IP != "" {
		logger = logger.With().Str("ip", event.IP).Logger()
	}
	if event.UserAgent != "" {
		logger = logger.With().Str("user_agent", event.UserAgent).Logger()
	}

	logEvent := logger.Info()
	for k, v := range event.Details {
		logEvent = addField(logEvent, k, v)
	}
	logEvent.Msg("security audit event")
}

func addField(e *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case bool:
		return e.Bool(key, v)
	default:
		return e.Interface(key, v)
	}
}

// LogFromRequest fills in the client address and user agent from r.
func LogFromRequest(r *http.Request, event Event) {
	event.IP = util.ClientIP(r)
	event.UserAgent = r.UserAgent()
	Log(r.Context(), event)
}

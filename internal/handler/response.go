package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/serialcheck/serialcheck-server/internal/httputil"
	"github.com/serialcheck/serialcheck-server/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// serialParam returns the decoded {sn} path segment. chi routes on RawPath
// when it is set, so only then is the segment still escaped.
func serialParam(r *http.Request) string {
	raw := chi.URLParam(r, "sn")
	if r.URL.RawPath == "" {
		return raw
	}
	sn, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return sn
}

func formatSerial(record model.SerialRecord) map[string]any {
	out := map[string]any{
		"sn":         record.SerialNumber,
		"status":     record.Status,
		"updated_at": record.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if record.Note != nil {
		out["note"] = *record.Note
	}
	return out
}

func formatSerials(records []model.SerialRecord) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, record := range records {
		out = append(out, formatSerial(record))
	}
	return out
}

package logger

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"time"
)

const bodyLogLimit = 1000

// ESTransport 记录 Elasticsearch 请求与响应
type ESTransport struct {
	Transport     http.RoundTripper
	SlowThreshold time.Duration
}

func NewESTransport() *ESTransport {
	return &ESTransport{Transport: http.DefaultTransport, SlowThreshold: 500 * time.Millisecond}
}

func (t *ESTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	reqBody := drainBody(&req.Body)
	resp, err := t.Transport.RoundTrip(req)
	elapsed := time.Since(start)

	fields := []any{
		log.String("method", req.Method),
		log.String("path", req.URL.Path),
		log.Duration("latency", elapsed),
		log.String("req_body", truncate(reqBody)),
	}

	if err != nil {
		log.ErrorContext(req.Context(), "ES Error", append(fields, log.Any("err", err))...)
		return nil, err
	}

	resBody := drainBody(&resp.Body)
	fields = append(fields, log.Int("status", resp.StatusCode), log.String("res_body", truncate(resBody)))

	switch {
	case resp.StatusCode >= 500:
		log.ErrorContext(req.Context(), "ES Failed", fields...)
	case elapsed > t.SlowThreshold:
		log.WarnContext(req.Context(), "ES Slow", fields...)
	default:
		log.DebugContext(req.Context(), "ES Query", fields...)
	}

	return resp, nil
}

func drainBody(body *io.ReadCloser) []byte {
	if body == nil || *body == nil {
		return nil
	}
	b, _ := io.ReadAll(*body)
	_ = (*body).Close()
	*body = io.NopCloser(bytes.NewReader(b))
	return b
}

func truncate(b []byte) string {
	if len(b) > bodyLogLimit {
		return string(b[:bodyLogLimit]) + "...[truncated]"
	}
	return string(b)
}

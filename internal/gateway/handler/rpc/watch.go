package rpc

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"cinemetrics/internal/dashboard"
	"cinemetrics/internal/report"
	"cinemetrics/internal/suggest"
)

const (
	watchWSWriteWait = 10 * time.Second
	watchWSPongWait  = 60 * time.Second
	watchWSPingEvery = (watchWSPongWait * 9) / 10
)

var watchWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type watchWSInbound struct {
	Type  string `json:"type"`
	Query string `json:"query,omitempty"`
}

type watchWSOutbound struct {
	Type        string               `json:"type"`
	Seq         uint64               `json:"seq,omitempty"`
	FetchID     string               `json:"fetchId,omitempty"`
	Focus       string               `json:"focus,omitempty"`
	Loading     bool                 `json:"loading,omitempty"`
	Report      *report.Report       `json:"report,omitempty"`
	Error       *ErrorStatus         `json:"error,omitempty"`
	Suggestions []suggest.Suggestion `json:"suggestions,omitempty"`
	Code        string               `json:"code,omitempty"`
	Message     string               `json:"message,omitempty"`
}

// HandleWatchWS streams dashboard state over a websocket. Clients may also
// send {"type":"search","query":...}, {"type":"retry"}, {"type":"suggest"}
// and {"type":"ping"}; fetch outcomes arrive as state events.
func (h *DashboardHandler) HandleWatchWS(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	conn, err := watchWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(watchWSPongWait)); err != nil {
		logger.Warn().Err(err).Msg("watch ws set read deadline failed")
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchWSPongWait))
	})

	writeCh := make(chan watchWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(watchWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	events := h.svc.Subscribe(ctx)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				pushWatchWS(writeCh, outboundFromEvent(ev))
			}
		}
	}()

	for {
		var in watchWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		switch msgType := strings.ToLower(strings.TrimSpace(in.Type)); msgType {
		case "":
			pushWatchWS(writeCh, watchWSOutbound{
				Type:    "request_error",
				Code:    "invalid_argument",
				Message: "type is required",
			})
		case "ping":
			pushWatchWS(writeCh, watchWSOutbound{Type: "pong"})
		case "search":
			query := in.Query
			if strings.TrimSpace(query) == "" {
				pushWatchWS(writeCh, requestError(dashboard.ErrEmptyQuery))
				continue
			}
			go logFetch(logger, "search", func() error {
				_, err := h.svc.Search(ctx, query)
				return err
			})
		case "retry":
			go logFetch(logger, "retry", func() error {
				_, err := h.svc.Retry(ctx)
				return err
			})
		case "suggest":
			pushWatchWS(writeCh, watchWSOutbound{
				Type:        "suggestions",
				Suggestions: h.svc.Suggest(in.Query),
			})
		default:
			pushWatchWS(writeCh, watchWSOutbound{
				Type:    "request_error",
				Code:    "invalid_argument",
				Message: "unsupported type: " + msgType,
			})
		}
	}
}

// logFetch runs a fetch requested over the socket. Its outcome reaches the
// client as a state event, so the error is only logged.
func logFetch(logger *zerolog.Logger, op string, fetch func() error) {
	err := fetch()
	if err == nil || errors.Is(err, dashboard.ErrStale) || errors.Is(err, context.Canceled) {
		return
	}
	logger.Debug().Err(err).Str("op", op).Msg("watch fetch failed")
}

func requestError(err error) watchWSOutbound {
	return watchWSOutbound{
		Type:    "request_error",
		Code:    errorCode(err).String(),
		Message: err.Error(),
	}
}

func outboundFromEvent(ev dashboard.Event) watchWSOutbound {
	return watchWSOutbound{
		Type:    string(ev.Kind),
		Seq:     ev.Seq,
		FetchID: ev.FetchID,
		Focus:   ev.Focus,
		Loading: ev.Loading,
		Report:  ev.Report,
		Error:   errorStatus(ev.Err),
	}
}

func pushWatchWS(writeCh chan watchWSOutbound, out watchWSOutbound) {
	if writeCh == nil {
		return
	}
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}

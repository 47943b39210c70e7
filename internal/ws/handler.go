package ws

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/wayfare/wayfare/internal/agent"
	"github.com/wayfare/wayfare/internal/protocol"
)

// Handler accepts chat WebSocket connections and drives each session's
// lifecycle: CONNECTING while the welcome goes out, ACTIVE for the read
// loop, CLOSING during teardown, CLOSED afterwards.
type Handler struct {
	svc           *agent.Service
	sm            *SessionManager
	allowedOrigin string
	isDev         bool
}

// NewHandler creates a new chat WebSocket handler.
func NewHandler(svc *agent.Service, sm *SessionManager, allowedOrigin string, isDev bool) *Handler {
	return &Handler{
		svc:           svc,
		sm:            sm,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "ip", r.RemoteAddr)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr)
		}
	}()

	sess := newSession(uuid.NewString(), ws)
	h.sm.Register(sess)
	defer h.sm.Unregister(sess.ID, sess)
	defer h.teardown(sess)

	slog.Info("Chat connection opened", "session_id", sess.ID, "ip", r.RemoteAddr)

	// The welcome goes out before the read loop starts, so the client never
	// sees a response ahead of it.
	welcome := protocol.NewResponse(h.svc.Welcome(), h.svc.SessionInfo(sess.ID))
	if err := sess.Send(welcome); err != nil {
		slog.Warn("Failed to send welcome", "session_id", sess.ID, "error", err)
		return
	}
	sess.activate()

	ctx := r.Context()
	for sess.State() == StateActive {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "session_id", sess.ID)
			} else {
				slog.Warn("WebSocket read error", "session_id", sess.ID, "error", err)
			}
			return
		}
		if !h.dispatch(ctx, sess, data) {
			return
		}
	}
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" || origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

// dispatch handles one inbound frame. Protocol errors are reported to the
// client without touching the session state; only a failed send returns
// false, which ends the connection.
func (h *Handler) dispatch(ctx context.Context, sess *Session, data []byte) bool {
	in, err := protocol.DecodeInbound(data)
	if err != nil {
		return sess.Send(protocol.NewError(protocol.ErrInvalidJSON)) == nil
	}

	switch in.Type {
	case protocol.KindMessage:
		text := strings.TrimSpace(in.Content)
		if text == "" {
			return sess.Send(protocol.NewError(protocol.ErrEmptyMessage)) == nil
		}
		return h.chatTurn(ctx, sess, text)

	case protocol.KindClearSession:
		h.svc.ClearSession(sess.ID)
		return sess.Send(protocol.NewSessionCleared()) == nil

	case protocol.KindGetSessionInfo:
		return sess.Send(protocol.NewSessionInfo(h.svc.SessionInfo(sess.ID))) == nil

	default:
		return sess.Send(protocol.NewError(protocol.ErrUnknownType)) == nil
	}
}

// chatTurn runs the orchestrator for one chat message, converting a panic
// anywhere in the turn into an error reply so the session survives.
func (h *Handler) chatTurn(ctx context.Context, sess *Session, text string) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Panic handling chat turn", "session_id", sess.ID, "panic", rec)
			ok = sess.Send(protocol.NewError(protocol.ErrProcessing)) == nil
		}
	}()

	if err := h.svc.HandleChatTurn(ctx, sess.ID, text, sess.Send); err != nil {
		slog.Warn("Chat turn send failed", "session_id", sess.ID, "error", err)
		return false
	}
	return true
}

// teardown runs session cleanup exactly once: CLOSING, conversation state
// cleared, then CLOSED. No sends are attempted afterwards.
func (h *Handler) teardown(sess *Session) {
	if !sess.beginClose() {
		return
	}
	h.svc.ClearSession(sess.ID)
	sess.finishClose()
	slog.Info("Chat connection closed", "session_id", sess.ID)
}

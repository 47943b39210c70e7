package ws

import (
	"strconv"
	"testing"
	"time"
)

func TestSessionManagerRegister(t *testing.T) {
	sm := NewSessionManager()
	sess := newSession("s1", nil)

	sm.Register(sess)

	if got := sm.Get("s1"); got != sess {
		t.Errorf("Get = %v, want %v", got, sess)
	}
	if got := sm.Count(); got != 1 {
		t.Errorf("Count = %d, want 1", got)
	}
}

func TestSessionManagerUnregister(t *testing.T) {
	sm := NewSessionManager()
	sess := newSession("s1", nil)

	sm.Register(sess)
	sm.Unregister("s1", sess)

	if got := sm.Get("s1"); got != nil {
		t.Errorf("Get after unregister = %v, want nil", got)
	}
}

func TestSessionManagerUnregisterStale(t *testing.T) {
	sm := NewSessionManager()
	old := newSession("s1", nil)
	replacement := newSession("s1", nil)

	sm.Register(old)
	sm.Register(replacement)

	// The old connection's deferred unregister must not evict the newer one.
	sm.Unregister("s1", old)

	if got := sm.Get("s1"); got != replacement {
		t.Errorf("Get = %v, want replacement session", got)
	}
}

func TestSessionManagerConcurrentAccess(t *testing.T) {
	sm := NewSessionManager()

	go func() {
		for i := 0; i < 1000; i++ {
			sm.Register(newSession("s-"+strconv.Itoa(i), nil))
		}
	}()

	go func() {
		for i := 0; i < 1000; i++ {
			sm.Get("s-" + strconv.Itoa(i))
			sm.Count()
		}
	}()

	time.Sleep(100 * time.Millisecond)
}

func TestSessionStateTransitions(t *testing.T) {
	sess := newSession("s1", nil)

	if got := sess.State(); got != StateConnecting {
		t.Fatalf("initial state = %v, want connecting", got)
	}

	sess.activate()
	if got := sess.State(); got != StateActive {
		t.Fatalf("state after activate = %v, want active", got)
	}

	if !sess.beginClose() {
		t.Fatal("beginClose returned false on active session")
	}
	if got := sess.State(); got != StateClosing {
		t.Fatalf("state after beginClose = %v, want closing", got)
	}

	if sess.beginClose() {
		t.Error("beginClose must run teardown only once")
	}

	sess.finishClose()
	if got := sess.State(); got != StateClosed {
		t.Fatalf("state after finishClose = %v, want closed", got)
	}

	// activate must not resurrect a closed session.
	sess.activate()
	if got := sess.State(); got != StateClosed {
		t.Errorf("closed state not terminal: %v", got)
	}
}

func TestSessionSendRefusedAfterClose(t *testing.T) {
	sess := newSession("s1", nil)
	sess.activate()
	sess.beginClose()

	if err := sess.Send(newTestMessage()); err == nil {
		t.Error("expected send to be refused while closing")
	}

	sess.finishClose()
	if err := sess.Send(newTestMessage()); err == nil {
		t.Error("expected send to be refused after close")
	}
}

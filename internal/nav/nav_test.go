package nav

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yndnr/dms-portal/internal/core/domain"
	"github.com/yndnr/dms-portal/internal/session"
)

var trainSettings = NewRoute[domain.TrainSettingsState]("/trainSettings")

func newTestNavigator() (*Navigator, *httptest.ResponseRecorder, *session.Session) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/home", nil)
	sess := session.New("tab-test", nil)
	return New(rec, req, sess), rec, sess
}

func TestNavigator_Go(t *testing.T) {
	n, rec, _ := newTestNavigator()

	if n.Navigated() {
		t.Fatal("fresh navigator should not have navigated")
	}
	n.Go("/")

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
	if n.Destination() != "/" {
		t.Errorf("Destination() = %q, want /", n.Destination())
	}
}

func TestNavigator_GoOnlyOnce(t *testing.T) {
	n, rec, _ := newTestNavigator()

	n.Go("/home")
	n.Go("/profile")

	if n.Destination() != "/home" {
		t.Errorf("Destination() = %q, want /home", n.Destination())
	}
	if loc := rec.Header().Get("Location"); loc != "/home" {
		t.Errorf("Location = %q, want /home", loc)
	}
}

func TestGoWith_PayloadEncoding(t *testing.T) {
	n, rec, sess := newTestNavigator()

	if err := GoWith(n, trainSettings, domain.TrainSettingsState{DatasetID: "abc123"}); err != nil {
		t.Fatalf("GoWith() error = %v", err)
	}

	if loc := rec.Header().Get("Location"); loc != "/trainSettings" {
		t.Errorf("Location = %q, want /trainSettings", loc)
	}
	raw, ok := sess.Get("nav:/trainSettings")
	if !ok {
		t.Fatal("payload not stashed in session")
	}
	if raw != `{"datasetId":"abc123"}` {
		t.Errorf("payload = %s, want {\"datasetId\":\"abc123\"}", raw)
	}
}

func TestTake_ConsumedOnce(t *testing.T) {
	n, _, sess := newTestNavigator()
	_ = GoWith(n, trainSettings, domain.TrainSettingsState{DatasetID: "abc123"})

	state, ok := Take(sess, trainSettings)
	if !ok {
		t.Fatal("Take() found no payload")
	}
	if state.DatasetID != "abc123" {
		t.Errorf("DatasetID = %q, want abc123", state.DatasetID)
	}

	// A reload finds nothing.
	if _, ok := Take(sess, trainSettings); ok {
		t.Error("second Take() should find nothing")
	}
}

func TestTake_Missing(t *testing.T) {
	sess := session.New("tab-test", nil)
	state, ok := Take(sess, trainSettings)
	if ok {
		t.Error("Take() on empty session should report false")
	}
	if state.DatasetID != "" {
		t.Errorf("zero state expected, got %+v", state)
	}
}

func TestTake_Corrupt(t *testing.T) {
	sess := session.New("tab-test", map[string]string{"nav:/trainSettings": "{not json"})
	if _, ok := Take(sess, trainSettings); ok {
		t.Error("Take() with corrupt payload should report false")
	}
	if _, ok := sess.Get("nav:/trainSettings"); ok {
		t.Error("corrupt payload should still be consumed")
	}
}

func TestPayloadsClearedWithSession(t *testing.T) {
	n, _, sess := newTestNavigator()
	_ = GoWith(n, trainSettings, domain.TrainSettingsState{DatasetID: "1"})

	sess.Clear()

	if _, ok := Take(sess, trainSettings); ok {
		t.Error("payload should not survive session Clear")
	}
}

func TestRoutesAreKeyedByPath(t *testing.T) {
	other := NewRoute[domain.AnalogyTestFormState]("/analogyTestForm")
	n, _, sess := newTestNavigator()
	_ = GoWith(n, trainSettings, domain.TrainSettingsState{DatasetID: "1"})

	if _, ok := Take(sess, other); ok {
		t.Error("payload for one route must not be visible to another")
	}
	if other.Path() != "/analogyTestForm" {
		t.Errorf("Path() = %q", other.Path())
	}
}

package portal

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/yndnr/dms-portal/internal/gateway"
)

func TestLogin_SetsToken(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != gateway.PathLogin {
			t.Errorf("path = %q", r.URL.Path)
			return
		}
		var creds gateway.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"token":"abc123"}`))
	}))

	rec := env.post("/", url.Values{"username": {"alice"}, "password": {"pw"}}, nil)
	assertRedirect(t, rec, PathHome)

	cookie := cookieFrom(rec)
	if cookie == nil {
		t.Fatal("login should set the tab cookie")
	}
	if tok, ok := env.session(cookie).Token(); !ok || tok != "abc123" {
		t.Errorf("Token() = %q, %v, want abc123", tok, ok)
	}
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	tests := []struct {
		name string
		form url.Values
		want int
		text string
	}{
		{"blank", url.Values{"username": {""}, "password": {""}}, http.StatusBadRequest, "Enter your username"},
		{"wrong password", url.Values{"username": {"alice"}, "password": {"bad"}}, http.StatusUnauthorized, "Invalid username or password."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.post("/", tt.form, nil)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if !strings.Contains(rec.Body.String(), tt.text) {
				t.Errorf("body does not contain %q", tt.text)
			}
			if cookieFrom(rec) != nil {
				t.Error("failed login must not store a session")
			}
		})
	}
}

func TestLogin_PageIsPublic(t *testing.T) {
	env := newTestEnv(t, unusedBackend(t))
	rec := env.get("/", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="password"`) {
		t.Error("login form not rendered")
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	var calls atomic.Int32
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == gateway.PathLogout {
			calls.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	cookie := env.login("abc123")

	rec := env.post(PathProfile, nil, cookie)
	assertRedirect(t, rec, "/")
	if calls.Load() != 1 {
		t.Errorf("logout calls = %d, want 1", calls.Load())
	}
	if _, ok := env.session(cookie).Token(); ok {
		t.Error("token should be gone after logout")
	}
}

func TestLogout_FailureKeepsSession(t *testing.T) {
	var calls atomic.Int32
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	cookie := env.login("abc123")

	rec := env.post(PathProfile, nil, cookie)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Logout failed. Please try again.") {
		t.Error("failure notice not rendered")
	}
	if calls.Load() != 1 {
		t.Errorf("logout calls = %d, want exactly 1", calls.Load())
	}
	if tok, ok := env.session(cookie).Token(); !ok || tok != "abc123" {
		t.Errorf("Token() = %q, %v, want abc123 kept", tok, ok)
	}
}

func TestLogout_ExpiredTokenReturnsToLogin(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	cookie := env.login("abc123")

	assertRedirect(t, env.post(PathProfile, nil, cookie), "/")
	if _, ok := env.session(cookie).Token(); ok {
		t.Error("token should be cleared after a 401 logout")
	}
}

func TestTrainSettings_PayloadConsumedOnce(t *testing.T) {
	env := newTestEnv(t, unusedBackend(t))
	cookie := env.login("abc123")

	rec := env.post(PathHome, url.Values{"action": {"train"}, "dataset_id": {"abc123"}}, cookie)
	assertRedirect(t, rec, PathTrainSettings)

	rec = env.get(PathTrainSettings, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="dataset_id" value="abc123"`) {
		t.Error("settings form should carry the dataset id")
	}

	// The payload is gone; a reload without an id returns home.
	assertRedirect(t, env.get(PathTrainSettings, cookie), PathHome)
}

func TestTrainSettings_PathID(t *testing.T) {
	env := newTestEnv(t, unusedBackend(t))
	cookie := env.login("abc123")

	rec := env.get(PathTrainSettings+"/42", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `value="42"`) {
		t.Error("settings form should carry the id from the path")
	}
}

func TestTrainSettings_Submit(t *testing.T) {
	var got map[string]any
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != gateway.PathTrainTask {
			t.Errorf("path = %q", r.URL.Path)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"id":7,"dataset_id":42}`))
	}))
	cookie := env.login("abc123")

	rec := env.post(PathTrainSettings, url.Values{"dataset_id": {"42"}, "epochs_to_train": {"3"}}, cookie)
	assertRedirect(t, rec, PathVisualize)
	if got == nil {
		t.Fatal("backend was not called")
	}

	rec = env.post(PathTrainSettings, url.Values{"dataset_id": {"42"}, "batch_size": {"lots"}}, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid form status = %d, want 400", rec.Code)
	}
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["old_password"] != "old" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	cookie := env.login("abc123")

	rec := env.post(PathChangePassword, url.Values{"old_password": {"old"}, "new_password": {"n1"}, "confirm_password": {"n2"}}, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("mismatch status = %d, want 400", rec.Code)
	}

	rec = env.post(PathChangePassword, url.Values{"old_password": {"bad"}, "new_password": {"n1"}, "confirm_password": {"n1"}}, cookie)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", rec.Code)
	}
	if _, ok := env.session(cookie).Token(); !ok {
		t.Error("a wrong old password must not log the tab out")
	}

	rec = env.post(PathChangePassword, url.Values{"old_password": {"old"}, "new_password": {"n1"}, "confirm_password": {"n1"}}, cookie)
	assertRedirect(t, rec, PathProfile)
}

func TestRequestAccount(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] == "taken" {
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name     string
		email    string
		username string
		want     int
	}{
		{"bad email", "not-an-email", "bob", http.StatusBadRequest},
		{"taken", "bob@example.com", "taken", http.StatusConflict},
		{"ok", "bob@example.com", "bob", http.StatusSeeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.post(PathRequestAccount, url.Values{"email": {tt.email}, "username": {tt.username}}, nil)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHome_ListsDatasets(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "abc123" {
			t.Errorf("Authorization = %q, want abc123", got)
		}
		w.Write([]byte(`[
			{"id":1,"dataset_id":5,"keywords":"graph mining","created":"2024-03-01T10:00:00","is_complete":true,"num_papers":12},
			{"id":2,"keywords":"protein folding","created":"2024-03-02T10:00:00","is_complete":false}
		]`))
	}))
	cookie := env.login("abc123")

	rec := env.get(PathHome, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"(12 Papers)", "Fetching Dataset...", "disabled"} {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
}

func TestFlash_ShownOnce(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"id":9,"keywords":"graph"}`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	cookie := env.login("abc123")

	assertRedirect(t, env.post(PathHome, url.Values{"action": {"create"}, "keywords": {"graph"}}, cookie), PathHome)

	first := env.get(PathHome, cookie).Body.String()
	if !strings.Contains(first, "is being collected") {
		t.Error("flash notice not shown after redirect")
	}
	second := env.get(PathHome, cookie).Body.String()
	if strings.Contains(second, "is being collected") {
		t.Error("flash notice shown twice")
	}
}

// dmsBackend answers the training and analogy endpoints used by the
// visualize and analogy pages.
func dmsBackend(t *testing.T, analogyBody *map[string]any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == gateway.PathTrainTask && r.Method == http.MethodGet:
			w.Write([]byte(`[{"id":3,"created":"2024-03-01","is_complete":true},{"id":4,"is_complete":true,"is_error":true}]`))
		case r.URL.Path == gateway.PathVisualize:
			id := r.URL.Query().Get("train_task_id")
			w.Write([]byte(`{"train_task_id":` + id + `,"points":[[0.1,0.2]]}`))
		case r.URL.Path == gateway.PathAnalogyTest && r.Method == http.MethodGet:
			w.Write([]byte(`[{"id":1,"trained_model_id":7,"domain1_name":"royalty","domain2_name":"gender","domain3_name":"age","is_complete":true},
				{"id":2,"trained_model_id":7,"domain1_name":"x","domain2_name":"y","domain3_name":"z"}]`))
		case r.URL.Path == gateway.PathAnalogyTest && r.Method == http.MethodPost:
			if analogyBody != nil {
				_ = json.NewDecoder(r.Body).Decode(analogyBody)
			}
			w.Write([]byte(`{"id":12,"trained_model_id":7}`))
		case r.URL.Path == gateway.PathAnalogyTest+"/1/result":
			w.Write([]byte(`{"id":1,"rows":[{"id":1,"word1":"king","word2":"man","word3":"queen","word4":"woman","score":0.5,"is_found":true}]}`))
		case r.URL.Path == gateway.PathAnalogyTest+"/2/result":
			w.WriteHeader(http.StatusNotFound)
		default:
			t.Errorf("unexpected backend call %s %s", r.Method, r.URL.String())
			w.WriteHeader(http.StatusTeapot)
		}
	})
}

func TestVisualize_Pages(t *testing.T) {
	env := newTestEnv(t, dmsBackend(t, nil))
	cookie := env.login("abc123")

	tests := []struct {
		name string
		path string
		want int
		text []string
	}{
		{"list", PathVisualize, http.StatusOK, []string{"Trained models", `href="/visualize/3"`, "Failed"}},
		{"path id", PathVisualize + "/3", http.StatusOK, []string{"Visualization of training task 3", "points"}},
		{"query id", PathVisualize + "?train_task_id=5", http.StatusOK, []string{"Visualization of training task 5"}},
		{"bad id", PathVisualize + "/abc", http.StatusBadRequest, []string{"The request was not valid."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.get(tt.path, cookie)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d; body = %s", rec.Code, tt.want, rec.Body.String())
			}
			for _, text := range tt.text {
				if !strings.Contains(rec.Body.String(), text) {
					t.Errorf("body does not contain %q", text)
				}
			}
		})
	}
}

func TestVisualize_RequiresLogin(t *testing.T) {
	env := newTestEnv(t, unusedBackend(t))
	assertRedirect(t, env.get(PathVisualize+"/3", nil), "/")
}

func TestAnalogyTest_Pages(t *testing.T) {
	env := newTestEnv(t, dmsBackend(t, nil))
	cookie := env.login("abc123")

	tests := []struct {
		name string
		path string
		want int
		text []string
	}{
		{"list", PathAnalogyTest, http.StatusOK, []string{"royalty / gender / age", `href="/analogyTest/1"`, "Running"}},
		{"result", PathAnalogyTest + "/1", http.StatusOK, []string{"Analogy test 1", "king : man :: queen : woman", "0.500"}},
		{"not ready", PathAnalogyTest + "/2", http.StatusOK, []string{"Analogy test 2", "The result of this test is not ready yet."}},
		{"bad id", PathAnalogyTest + "/x", http.StatusBadRequest, []string{"The request was not valid."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.get(tt.path, cookie)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d; body = %s", rec.Code, tt.want, rec.Body.String())
			}
			for _, text := range tt.text {
				if !strings.Contains(rec.Body.String(), text) {
					t.Errorf("body does not contain %q", text)
				}
			}
		})
	}
}

func TestAnalogyTestForm_PayloadConsumedOnce(t *testing.T) {
	env := newTestEnv(t, unusedBackend(t))
	cookie := env.login("abc123")

	rec := env.post(PathAnalogyTest, url.Values{"trained_model_id": {"7"}}, cookie)
	assertRedirect(t, rec, PathAnalogyTestForm)

	rec = env.get(PathAnalogyTestForm, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="trained_model_id" value="7"`) {
		t.Error("form should be preset to the chosen model")
	}
	for _, field := range []string{`name="domain1_name"`, `name="domain3_words"`} {
		if !strings.Contains(rec.Body.String(), field) {
			t.Errorf("form does not contain %s", field)
		}
	}

	rec = env.get(PathAnalogyTestForm, cookie)
	if strings.Contains(rec.Body.String(), `value="7"`) {
		t.Error("payload should be consumed by the first render")
	}

	rec = env.get(PathAnalogyTestForm+"/9", cookie)
	if !strings.Contains(rec.Body.String(), `name="trained_model_id" value="9"`) {
		t.Error("form should take the model id from the path")
	}
}

func TestAnalogyTestForm_Submit(t *testing.T) {
	var got map[string]any
	env := newTestEnv(t, dmsBackend(t, &got))
	cookie := env.login("abc123")

	valid := url.Values{
		"trained_model_id": {"7"},
		"domain1_name":     {"royalty"},
		"domain1_words":    {"king, queen"},
		"domain2_name":     {"gender"},
		"domain2_words":    {"man\nwoman"},
		"domain3_name":     {"age"},
		"domain3_words":    {"old;young"},
	}
	assertRedirect(t, env.post(PathAnalogyTestForm, valid, cookie), PathAnalogyTest)
	if got == nil {
		t.Fatal("backend was not called")
	}
	if got["trained_model_id"] != float64(7) || got["domain1_name"] != "royalty" {
		t.Errorf("request body = %v", got)
	}
	if words, _ := got["domain2_words"].([]any); len(words) != 2 {
		t.Errorf("domain2_words = %v, want 2 words", got["domain2_words"])
	}

	tests := []struct {
		name   string
		change func(url.Values)
		text   string
	}{
		{"no model", func(v url.Values) { v.Set("trained_model_id", "") }, "Enter the ID of a trained model."},
		{"no name", func(v url.Values) { v.Set("domain2_name", " ") }, "Every domain needs a name."},
		{"no words", func(v url.Values) { v.Set("domain3_words", " , ") }, "Every domain needs at least one word."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			for k, v := range valid {
				form[k] = append([]string(nil), v...)
			}
			tt.change(form)
			rec := env.post(PathAnalogyTestForm, form, cookie)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.text) {
				t.Errorf("body does not contain %q", tt.text)
			}
		})
	}
}

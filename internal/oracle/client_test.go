package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestHTTPClientClassify_Success(t *testing.T) {
	var gotQuestion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/predict" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotQuestion = body["question"]
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":"  You should see Cardiology for chest pain.  "}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", time.Second, nil)
	res := c.Classify(context.Background(), "I have chest pain and breathlessness")

	if res.Failed || res.Err != nil {
		t.Fatalf("expected success, got %+v", res)
	}
	if gotQuestion != "I have chest pain and breathlessness" {
		t.Fatalf("expected question forwarded, got %q", gotQuestion)
	}
	if res.Text != "  You should see Cardiology for chest pain.  " {
		t.Fatalf("expected answer unmodified, got %q", res.Text)
	}
}

func TestHTTPClientClassify_EmptyInputSkipsNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second, nil)
	for _, in := range []string{"", "   ", "\n\t"} {
		res := c.Classify(context.Background(), in)
		if !res.Failed || !errors.Is(res.Err, ErrEmptySymptoms) {
			t.Fatalf("expected ErrEmptySymptoms for %q, got %+v", in, res)
		}
		if res.Text != FallbackMessage {
			t.Fatalf("expected fallback text, got %q", res.Text)
		}
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatalf("expected no network calls, got %d", hits)
	}
}

func TestHTTPClientClassify_Failures(t *testing.T) {
	cases := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantDetail string
	}{
		{name: "detail from body", status: http.StatusBadRequest, body: `{"detail":"Question cannot be empty"}`, wantStatus: 400, wantDetail: "Question cannot be empty"},
		{name: "status text fallback", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantStatus: 502, wantDetail: "Bad Gateway"},
		{name: "malformed body", status: http.StatusOK, body: `not json`, wantStatus: 200},
		{name: "missing answer", status: http.StatusOK, body: `{"result":"x"}`, wantStatus: 200, wantDetail: "response has no answer"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			res := NewHTTPClient(srv.URL, time.Second, nil).Classify(context.Background(), "headache")
			if !res.Failed {
				t.Fatalf("expected failure, got %+v", res)
			}
			if res.Text != FallbackMessage {
				t.Fatalf("expected fallback text, got %q", res.Text)
			}
			var oe *Error
			if !errors.As(res.Err, &oe) {
				t.Fatalf("expected *Error, got %T", res.Err)
			}
			if oe.StatusCode != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, oe.StatusCode)
			}
			if oe.Detail != tc.wantDetail {
				t.Fatalf("expected detail %q, got %q", tc.wantDetail, oe.Detail)
			}
		})
	}
}

func TestHTTPClientClassify_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := NewHTTPClient(url, time.Second, nil).Classify(context.Background(), "rash on arm")
	if !res.Failed || res.Text != FallbackMessage {
		t.Fatalf("expected fallback failure, got %+v", res)
	}
	var oe *Error
	if !errors.As(res.Err, &oe) || oe.Cause == nil {
		t.Fatalf("expected transport cause, got %v", res.Err)
	}
}

func TestHTTPClientClassify_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	res := NewHTTPClient(srv.URL, 50*time.Millisecond, nil).Classify(context.Background(), "blurry vision")
	if !res.Failed || res.Text != FallbackMessage {
		t.Fatalf("expected timeout to resolve to fallback, got %+v", res)
	}
}

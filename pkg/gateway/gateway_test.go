package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pulsegram/pulse/internal/errors"
	"github.com/pulsegram/pulse/pkg/gateway"
)

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Error(message string) {
	n.messages = append(n.messages, message)
}

func TestPostFormSendsCSRFAndFormEncoding(t *testing.T) {
	var gotHeader, gotCookie, gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-CSRFToken")
		if c, err := r.Cookie("csrftoken"); err == nil {
			gotCookie = c.Value
		}
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err == nil {
			gotBody = r.PostForm.Encode()
		}
		w.Write([]byte(`{"success": true, "likes_count": 5}`))
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "tok123")
	body, err := c.PostForm(context.Background(), "/ajax/like-post/", url.Values{"post_id": {"42"}})
	if err != nil {
		t.Fatalf("PostForm: %v", err)
	}
	if gotHeader != "tok123" || gotCookie != "tok123" {
		t.Errorf("csrf header=%q cookie=%q", gotHeader, gotCookie)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("content type = %q", gotContentType)
	}
	if gotBody != "post_id=42" {
		t.Errorf("form body = %q", gotBody)
	}
	if string(body) != `{"success": true, "likes_count": 5}` {
		t.Errorf("body = %s", body)
	}
}

func TestSearchRequestIsFormPostWithCSRF(t *testing.T) {
	var (
		gotMethod string
		gotHeader string
		gotQuery  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Get("X-CSRFToken")
		r.ParseForm()
		gotQuery = r.FormValue("query")
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "tok123")
	if _, err := c.PostForm(context.Background(), "/ajax/search-posts/", url.Values{"query": {"go"}}); err != nil {
		t.Fatalf("PostForm: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotHeader != "tok123" {
		t.Errorf("X-CSRFToken = %q, want tok123", gotHeader)
	}
	if gotQuery != "go" {
		t.Errorf("query = %q, want go", gotQuery)
	}
}

func TestNon2xxReturnsTransportErrorAndNotifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := &recordingNotifier{}
	c := gateway.New(srv.URL, "tok", gateway.WithNotifier(n))
	_, err := c.PostForm(context.Background(), "/ajax/follow-user/", url.Values{"user_id": {"7"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsTransport(err) {
		t.Fatalf("err = %T %v, want TransportError", err, err)
	}
	if len(n.messages) != 1 || n.messages[0] != gateway.FailureMessage {
		t.Errorf("notifications = %v", n.messages)
	}
}

func TestNonJSONBodyReturnsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>login page</html>"))
	}))
	defer srv.Close()

	n := &recordingNotifier{}
	c := gateway.New(srv.URL, "tok", gateway.WithNotifier(n))
	_, err := c.PostForm(context.Background(), "/ajax/save-post/", url.Values{"post_id": {"1"}})
	if !errors.IsTransport(err) {
		t.Fatalf("err = %v, want transport error", err)
	}
	if len(n.messages) != 1 {
		t.Errorf("notifications = %v", n.messages)
	}
}

func TestNetworkFailureReturnsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	n := &recordingNotifier{}
	c := gateway.New(srv.URL, "tok", gateway.WithNotifier(n))
	_, err := c.PostForm(context.Background(), "/ajax/like-post/", url.Values{"post_id": {"1"}})
	if !errors.IsTransport(err) {
		t.Fatalf("err = %v, want transport error", err)
	}
	if len(n.messages) != 1 {
		t.Errorf("notifications = %v", n.messages)
	}
}

func TestPostMultipartCarriesFieldsAndFile(t *testing.T) {
	var gotCaption, gotFilename string
	var gotSize int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		gotCaption = r.FormValue("caption")
		if f, fh, err := r.FormFile("media"); err == nil {
			gotFilename = fh.Filename
			buf := make([]byte, 16)
			n, _ := f.Read(buf)
			gotSize = n
			f.Close()
		}
		w.Write([]byte(`{"success": true, "redirect_url": "/"}`))
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "tok")
	_, err := c.PostMultipart(context.Background(), "/ajax/create-post/",
		map[string]string{"caption": "sunset"},
		&gateway.Upload{Field: "media", Filename: "sunset.jpg", Content: []byte("jpegdata")})
	if err != nil {
		t.Fatalf("PostMultipart: %v", err)
	}
	if gotCaption != "sunset" || gotFilename != "sunset.jpg" || gotSize != len("jpegdata") {
		t.Errorf("caption=%q filename=%q size=%d", gotCaption, gotFilename, gotSize)
	}
}

func TestMetricsCountOutcomes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	c := gateway.New(srv.URL, "tok", gateway.WithMetrics(reg))
	if _, err := c.PostForm(context.Background(), "/ajax/like-post/", nil); err != nil {
		t.Fatalf("PostForm: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "pulse_gateway_requests_total" {
			found = true
		}
	}
	if !found {
		t.Error("pulse_gateway_requests_total not registered")
	}
}

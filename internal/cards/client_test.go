package cards

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientEndpoint(t *testing.T) {
	c := NewClient()

	tests := []struct {
		m    Marker
		want string
	}{
		{Marker{Platform: GitHub, Kind: KindRepository, Owner: "yuin", Repo: "goldmark"}, "https://api.github.com/repos/yuin/goldmark"},
		{Marker{Platform: GitHub, Kind: KindUser, Owner: "yuin"}, "https://api.github.com/users/yuin"},
		{Marker{Platform: Gitee, Kind: KindRepository, Owner: "o", Repo: "r"}, "https://gitee.com/api/v5/repos/o/r"},
		{Marker{Platform: Gitee, Kind: KindUser, Owner: "u"}, "https://gitee.com/api/v5/users/u"},
		{Marker{Platform: GitHub, Kind: KindRepository, Owner: "o", Repo: "r?per_page=1"}, "https://api.github.com/repos/o/r%3Fper_page=1"},
		{Marker{Platform: GitHub, Kind: KindRepository, Owner: "o", Repo: "r#frag"}, "https://api.github.com/repos/o/r%23frag"},
		{Marker{Platform: GitHub, Kind: KindUser, Owner: "..%2fadmin"}, "https://api.github.com/users/..%252fadmin"},
	}
	for _, tt := range tests {
		if got := c.Endpoint(tt.m); got != tt.want {
			t.Errorf("Endpoint(%+v) = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestClientFetch(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"login":"yuin"}`))
	}))
	defer srv.Close()

	c := NewClient(WithHTTPClient(srv.Client()), WithAPIBases(srv.URL+"/", ""), WithGitHubToken("tok"))
	body, err := c.Fetch(context.Background(), Marker{Platform: GitHub, Kind: KindUser, Owner: "yuin"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(body) != `{"login":"yuin"}` {
		t.Errorf("body = %q", body)
	}
	if gotPath != "/users/yuin" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestClientFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("gitee request carried a GitHub token")
		}
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"rate limited"}`))
	}))
	defer srv.Close()

	c := NewClient(WithHTTPClient(srv.Client()), WithAPIBases("", srv.URL), WithGitHubToken("tok"))
	_, err := c.Fetch(context.Background(), Marker{Platform: Gitee, Kind: KindRepository, Owner: "o", Repo: "r"})
	if err == nil {
		t.Fatal("expected error for 403")
	}
	if !strings.Contains(err.Error(), "status 403") {
		t.Errorf("error = %v", err)
	}
}

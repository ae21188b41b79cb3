package rstream

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/jamesprial/go-reddit-stream/pkg/errors"
	"github.com/jamesprial/go-reddit-stream/pkg/types"
)

const tokenResponse = `{"access_token":"test-token","token_type":"bearer","expires_in":3600}`

// newTestServer serves the OAuth token endpoint plus the given listing
// handlers, keyed by path.
func newTestServer(t *testing.T, listings map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("token request method = %s, want POST", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, tokenResponse)
	})
	for path, handler := range listings {
		mux.HandleFunc(path, handler)
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testConfig(server *httptest.Server) *Config {
	return &Config{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		UserAgent:    "go-reddit-stream-test/0.1",
		BaseURL:      server.URL + "/",
		AuthURL:      server.URL + "/",
		HTTPClient:   server.Client(),
		// Keep the client-side throttle out of the test's way.
		RequestsPerMinute: 60000,
		RateLimitBurst:    1000,
	}
}

func postChild(name, title string) string {
	return fmt.Sprintf(`{"kind":"t3","data":{"id":%q,"name":%q,"title":%q,"subreddit":"golang"}}`,
		strings.TrimPrefix(name, "t3_"), name, title)
}

func commentChild(name, body string) string {
	return fmt.Sprintf(`{"kind":"t1","data":{"id":%q,"name":%q,"body":%q,"subreddit":"golang"}}`,
		strings.TrimPrefix(name, "t1_"), name, body)
}

func listingBody(after string, children ...string) string {
	return fmt.Sprintf(`{"kind":"Listing","data":{"before":null,"after":%q,"children":[%s]}}`,
		after, strings.Join(children, ","))
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{name: "nil config", config: nil},
		{name: "missing client id", config: &Config{ClientSecret: "s"}},
		{name: "missing client secret", config: &Config{ClientID: "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.config)
			var configErr *pkgerrors.ConfigError
			if !stderrors.As(err, &configErr) {
				t.Errorf("NewClient() error = %v, want *ConfigError", err)
			}
		})
	}
}

func TestNewClient_AppliesDefaults(t *testing.T) {
	config := &Config{ClientID: "c", ClientSecret: "s"}
	client, err := NewClient(config)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if config.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q, want %q", config.UserAgent, DefaultUserAgent)
	}
	if config.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", config.BaseURL, DefaultBaseURL)
	}
	if config.HTTPClient == nil {
		t.Error("HTTPClient not defaulted")
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true before Connect")
	}
}

func TestClient_Connect_BadCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(testConfig(server))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	err = client.Connect(context.Background())
	var authErr *pkgerrors.AuthError
	if !stderrors.As(err, &authErr) {
		t.Fatalf("Connect() error = %v, want *AuthError", err)
	}
	if authErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", authErr.StatusCode)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after failed Connect")
	}
}

func TestClient_GetNew(t *testing.T) {
	var gotQuery map[string]string
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/r/golang/new": func(w http.ResponseWriter, r *http.Request) {
			gotQuery = map[string]string{
				"limit":  r.URL.Query().Get("limit"),
				"before": r.URL.Query().Get("before"),
			}
			fmt.Fprint(w, listingBody("t3_older",
				postChild("t3_new2", "Second"),
				postChild("t3_new1", "First"),
			))
		},
	})

	client, err := NewClient(testConfig(server))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := client.GetNew(context.Background(), &types.PostsRequest{
		Subreddit:  "golang",
		Pagination: types.Pagination{Limit: 25, Before: "t3_anchor"},
	})
	if err != nil {
		t.Fatalf("GetNew: %v", err)
	}

	if len(resp.Posts) != 2 {
		t.Fatalf("len(Posts) = %d, want 2", len(resp.Posts))
	}
	if resp.Posts[0].Name != "t3_new2" || resp.Posts[1].Name != "t3_new1" {
		t.Errorf("post order = [%s %s], want [t3_new2 t3_new1]",
			resp.Posts[0].Name, resp.Posts[1].Name)
	}
	if resp.Posts[0].Title != "Second" {
		t.Errorf("Title = %q, want %q", resp.Posts[0].Title, "Second")
	}
	if resp.AfterFullname != "t3_older" {
		t.Errorf("AfterFullname = %q, want %q", resp.AfterFullname, "t3_older")
	}
	if gotQuery["limit"] != "25" || gotQuery["before"] != "t3_anchor" {
		t.Errorf("query = %v, want limit=25 before=t3_anchor", gotQuery)
	}
}

func TestClient_GetNew_RejectsMalformedSubreddit(t *testing.T) {
	server := newTestServer(t, nil)
	client, err := NewClient(testConfig(server))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.GetNew(context.Background(), &types.PostsRequest{Subreddit: "no spaces!"})
	var configErr *pkgerrors.ConfigError
	if !stderrors.As(err, &configErr) {
		t.Errorf("GetNew() error = %v, want *ConfigError", err)
	}
}

func TestClient_GetComments(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/r/golang/comments": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, listingBody("",
				commentChild("t1_c2", "second comment"),
				commentChild("t1_c1", "first comment"),
			))
		},
	})

	client, err := NewClient(testConfig(server))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := client.GetComments(context.Background(), &types.CommentsRequest{Subreddit: "golang"})
	if err != nil {
		t.Fatalf("GetComments: %v", err)
	}

	if len(resp.Comments) != 2 {
		t.Fatalf("len(Comments) = %d, want 2", len(resp.Comments))
	}
	if resp.Comments[0].Name != "t1_c2" || resp.Comments[0].Body != "second comment" {
		t.Errorf("Comments[0] = %s %q, want t1_c2 %q",
			resp.Comments[0].Name, resp.Comments[0].Body, "second comment")
	}
}

func TestClient_GetComments_RequiresSubreddit(t *testing.T) {
	server := newTestServer(t, nil)
	client, err := NewClient(testConfig(server))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	for _, request := range []*types.CommentsRequest{nil, {}} {
		_, err := client.GetComments(context.Background(), request)
		var configErr *pkgerrors.ConfigError
		if !stderrors.As(err, &configErr) {
			t.Errorf("GetComments(%v) error = %v, want *ConfigError", request, err)
		}
	}
}

func TestClient_StreamPosts(t *testing.T) {
	// Two pages keyed by the stream's cursor: the cold-start fetch returns
	// three posts, the anchored follow-up returns two newer ones plus an
	// overlap that must be suppressed.
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/r/golang/new": func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("before") {
			case "":
				fmt.Fprint(w, listingBody("",
					postChild("t3_3", "third"),
					postChild("t3_2", "second"),
					postChild("t3_1", "first"),
				))
			case "t3_3":
				fmt.Fprint(w, listingBody("",
					postChild("t3_5", "fifth"),
					postChild("t3_4", "fourth"),
					postChild("t3_3", "third"),
				))
			default:
				t.Errorf("unexpected before cursor %q", r.URL.Query().Get("before"))
				fmt.Fprint(w, listingBody(""))
			}
		},
	})

	client, err := NewClient(testConfig(server))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	stream, err := client.StreamPosts("golang")
	if err != nil {
		t.Fatalf("StreamPosts: %v", err)
	}

	posts, err := stream.Collect(context.Background(), 5)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	want := []string{"t3_1", "t3_2", "t3_3", "t3_4", "t3_5"}
	if len(posts) != len(want) {
		t.Fatalf("collected %d posts, want %d", len(posts), len(want))
	}
	for i, post := range posts {
		if post.Name != want[i] {
			t.Errorf("posts[%d] = %s, want %s", i, post.Name, want[i])
		}
	}

	stats := stream.Stats()
	if stats.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1 (overlap post t3_3)", stats.Duplicates)
	}
}

func TestClient_StreamComments(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/r/golang/comments": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, listingBody("",
				commentChild("t1_b", "newer"),
				commentChild("t1_a", "older"),
			))
		},
	})

	client, err := NewClient(testConfig(server))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	stream, err := client.StreamComments("golang")
	if err != nil {
		t.Fatalf("StreamComments: %v", err)
	}

	comments, err := stream.Collect(context.Background(), 2)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if comments[0].Name != "t1_a" || comments[1].Name != "t1_b" {
		t.Errorf("order = [%s %s], want [t1_a t1_b]", comments[0].Name, comments[1].Name)
	}
}

func TestClient_StreamComments_RejectsMalformedSubreddit(t *testing.T) {
	server := newTestServer(t, nil)
	client, err := NewClient(testConfig(server))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.StreamComments("a b")
	var configErr *pkgerrors.ConfigError
	if !stderrors.As(err, &configErr) {
		t.Errorf("StreamComments() error = %v, want *ConfigError", err)
	}
}

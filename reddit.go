package rstream

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jamesprial/go-reddit-stream/internal"
	pkgerrors "github.com/jamesprial/go-reddit-stream/pkg/errors"
	"github.com/jamesprial/go-reddit-stream/pkg/types"
	"github.com/jamesprial/go-reddit-stream/pkg/validation"
)

const (
	// DefaultBaseURL is the default Reddit API base URL.
	DefaultBaseURL = "https://oauth.reddit.com/"
	// DefaultAuthURL is the default Reddit OAuth base URL.
	DefaultAuthURL = "https://www.reddit.com/"
	// DefaultUserAgent is the default user agent string.
	DefaultUserAgent = "go-reddit-stream/0.1"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
)

// Config holds the configuration for the streaming client.
//
// For application-only authentication provide ClientID and ClientSecret.
// For user authentication additionally provide Username and Password.
type Config struct {
	// Username and Password for the password grant flow. Leave empty for
	// app-only authentication.
	Username string
	Password string

	// ClientID and ClientSecret for OAuth2. Required for all
	// authentication types.
	ClientID     string
	ClientSecret string

	// UserAgent identifies the application to Reddit. Should follow
	// "platform:app-name:version by /u/username".
	UserAgent string

	// BaseURL for the Reddit API. Defaults to DefaultBaseURL.
	BaseURL string

	// AuthURL for OAuth token requests. Defaults to DefaultAuthURL.
	AuthURL string

	// HTTPClient to use for requests. Defaults to a client with
	// DefaultTimeout.
	HTTPClient *http.Client

	// RequestsPerMinute and RateLimitBurst tune the client-side throttle.
	// Zero values use the package defaults.
	RequestsPerMinute float64
	RateLimitBurst    int

	// Logger for structured diagnostics. Optional.
	Logger *slog.Logger
}

// Client is the Reddit listing client. It exposes the listing endpoints the
// streams are built on plus constructors for post and comment streams.
type Client struct {
	client *internal.Client
	auth   *internal.Authenticator
	config *Config
	parser *internal.Parser

	connectOnce sync.Once
	connectErr  error
}

// NewClient validates the configuration, fills in defaults, and returns a
// client ready to be connected. No network traffic happens here; the first
// request (or an explicit Connect) triggers authentication.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, &pkgerrors.ConfigError{Message: "config cannot be nil"}
	}
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, &pkgerrors.ConfigError{Field: "ClientID/ClientSecret", Message: "required for all authentication types"}
	}

	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.AuthURL == "" {
		config.AuthURL = DefaultAuthURL
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}

	auth, err := internal.NewAuthenticator(
		config.HTTPClient,
		config.Username,
		config.Password,
		config.ClientID,
		config.ClientSecret,
		config.UserAgent,
		config.AuthURL,
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		auth:   auth,
		config: config,
		parser: internal.NewParser(),
	}, nil
}

// Connect authenticates and initializes the internal HTTP client. It is
// safe to call multiple times; initialization happens once.
func (c *Client) Connect(ctx context.Context) error {
	c.connectOnce.Do(func() {
		c.connectErr = c.initialize(ctx)
	})
	return c.connectErr
}

func (c *Client) initialize(ctx context.Context) error {
	// Fail fast on bad credentials before wiring the client.
	if _, err := c.auth.GetToken(ctx); err != nil {
		return err
	}

	client, err := internal.NewClient(
		c.config.HTTPClient,
		c.auth,
		c.config.BaseURL,
		c.config.UserAgent,
		&internal.RateLimitConfig{
			RequestsPerMinute: c.config.RequestsPerMinute,
			Burst:             c.config.RateLimitBurst,
		},
		c.config.Logger,
	)
	if err != nil {
		return err
	}

	c.client = client
	return nil
}

func (c *Client) ensureConnected(ctx context.Context) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	if c.client == nil {
		return &pkgerrors.StateError{Message: "client not connected"}
	}
	return nil
}

// IsConnected reports whether the client is authenticated and ready.
func (c *Client) IsConnected() bool {
	return c.client != nil
}

// GetNew retrieves the newest posts of a subreddit (or the front page when
// the request's Subreddit is empty), newest first.
func (c *Client) GetNew(ctx context.Context, request *types.PostsRequest) (*types.PostsResponse, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	subreddit := ""
	pagination := types.Pagination{}
	if request != nil {
		subreddit = request.Subreddit
		pagination = request.Pagination
	}
	if subreddit != "" && !validation.IsValidSubreddit(subreddit) {
		return nil, &pkgerrors.ConfigError{Field: "Subreddit", Message: "malformed subreddit name: " + subreddit}
	}

	path := "new"
	if subreddit != "" {
		path = "r/" + subreddit + "/new"
	}

	var result types.Thing
	if err := c.client.Get(ctx, path, pagination.Values(), &result); err != nil {
		return nil, err
	}

	posts, listing, err := c.parser.ExtractPosts(&result)
	if err != nil {
		return nil, &pkgerrors.ParseError{Operation: "GetNew", Err: err}
	}

	return &types.PostsResponse{
		Posts:          posts,
		AfterFullname:  listing.AfterFullname,
		BeforeFullname: listing.BeforeFullname,
	}, nil
}

// GetComments retrieves a subreddit's flat comment listing, newest first.
// This is the firehose of all comments in the subreddit, not the tree of a
// single post.
func (c *Client) GetComments(ctx context.Context, request *types.CommentsRequest) (*types.CommentsResponse, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	if request == nil || request.Subreddit == "" {
		return nil, &pkgerrors.ConfigError{Field: "Subreddit", Message: "subreddit is required"}
	}
	if !validation.IsValidSubreddit(request.Subreddit) {
		return nil, &pkgerrors.ConfigError{Field: "Subreddit", Message: "malformed subreddit name: " + request.Subreddit}
	}

	path := "r/" + request.Subreddit + "/comments"
	var result types.Thing
	if err := c.client.Get(ctx, path, request.Values(), &result); err != nil {
		return nil, err
	}

	comments, listing, err := c.parser.ExtractComments(&result)
	if err != nil {
		return nil, &pkgerrors.ParseError{Operation: "GetComments", Err: err}
	}

	return &types.CommentsResponse{
		Comments:       comments,
		AfterFullname:  listing.AfterFullname,
		BeforeFullname: listing.BeforeFullname,
	}, nil
}

// StreamPosts returns an unbounded stream of new posts in a subreddit
// (or the front page when subreddit is empty).
func (c *Client) StreamPosts(subreddit string, opts ...StreamOption) (*Stream[*types.Post], error) {
	if subreddit != "" && !validation.IsValidSubreddit(subreddit) {
		return nil, &pkgerrors.ConfigError{Field: "subreddit", Message: "malformed subreddit name: " + subreddit}
	}

	fetch := func(ctx context.Context, limit int, before string) ([]*types.Post, error) {
		resp, err := c.GetNew(ctx, &types.PostsRequest{
			Subreddit:  subreddit,
			Pagination: types.Pagination{Limit: validation.ClampLimit(limit), Before: before},
		})
		if err != nil {
			return nil, err
		}
		return resp.Posts, nil
	}

	name := "posts"
	if subreddit != "" {
		name = "posts/" + subreddit
	}
	opts = append([]StreamOption{WithName(name), WithLogger(c.config.Logger)}, opts...)
	return NewStream(fetch, opts...), nil
}

// StreamComments returns an unbounded stream of new comments in a
// subreddit.
func (c *Client) StreamComments(subreddit string, opts ...StreamOption) (*Stream[*types.Comment], error) {
	if !validation.IsValidSubreddit(subreddit) {
		return nil, &pkgerrors.ConfigError{Field: "subreddit", Message: "malformed subreddit name: " + subreddit}
	}

	fetch := func(ctx context.Context, limit int, before string) ([]*types.Comment, error) {
		resp, err := c.GetComments(ctx, &types.CommentsRequest{
			Subreddit:  subreddit,
			Pagination: types.Pagination{Limit: validation.ClampLimit(limit), Before: before},
		})
		if err != nil {
			return nil, err
		}
		return resp.Comments, nil
	}

	opts = append([]StreamOption{WithName("comments/" + subreddit), WithLogger(c.config.Logger)}, opts...)
	return NewStream(fetch, opts...), nil
}

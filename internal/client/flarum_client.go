// internal/client/flarum_client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"zenith-forums/internal/config"
	"zenith-forums/internal/jsonapi"
	"zenith-forums/pkg/utils"
)

const maxBodyBytes = 8 << 20

// RequestOptions carries the optional parts of a request.
type RequestOptions struct {
	Method  string
	Body    interface{}
	Headers map[string]string
}

type FlarumClient struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	authScheme string
	apiUserID  string
	logger     *zap.Logger
}

func NewFlarumClient(cfg config.FlarumConfig, logger *zap.Logger) (*FlarumClient, error) {
	transport, err := utils.NewTransport(utils.TransportOptions{
		ProxyURL:   cfg.ProxyURL,
		TLSProfile: cfg.TLSProfile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP transport: %w", err)
	}

	if cfg.ProxyURL != "" {
		logger.Info("Routing forum API traffic through proxy", zap.String("proxy", utils.MaskProxyURL(cfg.ProxyURL)))
	}

	return newFlarumClient(cfg, &http.Client{Transport: transport, Timeout: cfg.RequestTimeout}, logger), nil
}

func newFlarumClient(cfg config.FlarumConfig, httpClient *http.Client, logger *zap.Logger) *FlarumClient {
	scheme := cfg.AuthScheme
	if scheme == "" {
		scheme = config.DefaultAuthScheme
	}

	return &FlarumClient{
		client:     httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		authScheme: scheme,
		apiUserID:  cfg.APIUserID,
		logger:     logger,
	}
}

// Configured reports whether both the API URL and credential are set.
func (f *FlarumClient) Configured() bool {
	return f.baseURL != "" && f.apiKey != ""
}

// Request performs a single attempt against the forum API. It returns
// (nil, nil) for 204 and empty bodies, *StatusError for non-2xx statuses and
// ErrNotConfigured when no base URL is set. Every failure is logged here.
func (f *FlarumClient) Request(ctx context.Context, endpoint string, opts *RequestOptions) (json.RawMessage, error) {
	if f.baseURL == "" {
		f.logger.Error("Forum API URL is not configured", zap.String("endpoint", endpoint))
		return nil, ErrNotConfigured
	}

	if opts == nil {
		opts = &RequestOptions{}
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	fullURL := f.baseURL + "/" + strings.TrimLeft(endpoint, "/")

	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		f.logger.Error("Failed to build forum API request", zap.String("url", fullURL), zap.Error(err))
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", jsonapi.MediaType)
	req.Header.Set("Accept", jsonapi.MediaType)
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	if f.apiKey != "" {
		auth := f.authScheme + " " + f.apiKey
		if f.apiUserID != "" {
			auth += "; userId=" + f.apiUserID
		}
		req.Header.Set("Authorization", auth)
	} else {
		f.logger.Warn("Forum API key is not set, request may fail if authentication is required",
			zap.String("url", fullURL))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error("Error fetching from forum API", zap.String("url", fullURL), zap.Error(err))
		return nil, fmt.Errorf("forum API request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		f.logger.Error("Error reading forum API response", zap.String("url", fullURL), zap.Error(err))
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Error("Forum API returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.String("reason", http.StatusText(resp.StatusCode)),
			zap.String("url", fullURL),
			zap.String("body", string(bodyBytes)))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        fullURL,
			Body:       string(bodyBytes),
		}
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(bodyBytes)) == 0 {
		return nil, nil
	}

	if !json.Valid(bodyBytes) {
		f.logger.Error("Forum API returned malformed JSON", zap.String("url", fullURL))
		return nil, fmt.Errorf("malformed response from %s", fullURL)
	}

	return bodyBytes, nil
}

func (f *FlarumClient) GetCategoriesEndpoint() string {
	params := url.Values{}
	params.Set("include", "lastPostedDiscussion")
	params.Set("sort", "position")
	return "/tags?" + params.Encode()
}

func (f *FlarumClient) GetCategoryBySlugEndpoint(slug string) string {
	params := url.Values{}
	params.Set("filter[slug]", slug)
	return "/tags?" + params.Encode()
}

func (f *FlarumClient) GetDiscussionsByTagEndpoint(tagSlug string) string {
	params := url.Values{}
	params.Set("filter[tag]", tagSlug)
	params.Set("include", "user,firstPost,tags,lastPostedUser")
	params.Set("sort", "-lastPostedAt")
	return "/discussions?" + params.Encode()
}

func (f *FlarumClient) GetDiscussionEndpoint(identifier string) string {
	params := url.Values{}
	params.Set("include", "posts,posts.user,user,tags,firstPost,lastPostedUser")
	return fmt.Sprintf("/discussions/%s?%s", url.PathEscape(identifier), params.Encode())
}

func (f *FlarumClient) GetSearchEndpoint(query string) string {
	params := url.Values{}
	params.Set("filter[q]", query)
	params.Set("include", "user,firstPost,tags,lastPostedUser")
	return "/discussions?" + params.Encode()
}

func (f *FlarumClient) GetUserEndpoint(userID string) string {
	return "/users/" + url.PathEscape(userID)
}

func (f *FlarumClient) GetUserDiscussionsEndpoint(username string) string {
	params := url.Values{}
	params.Set("filter[author]", username)
	params.Set("include", "user,firstPost,tags,lastPostedUser")
	params.Set("sort", "-createdAt")
	return "/discussions?" + params.Encode()
}

func (f *FlarumClient) GetPostsEndpoint() string {
	return "/posts"
}

func (f *FlarumClient) GetDiscussionsEndpoint() string {
	return "/discussions"
}

// Package backendsvc talks to the LMS REST backend the questions are stored in.
package backendsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/masomo-authoring/core"
	"github.com/trezcool/masomo-authoring/core/question"
)

// Error is a non-2xx response of the backend.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *rest.Client
}

var _ question.Backend = (*Client)(nil)

func NewClient(conf *core.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.Backend.BaseURL, "/"),
		apiKey:  conf.Backend.APIKey,
		timeout: conf.Backend.Timeout,
		http:    &rest.Client{HTTPClient: &http.Client{}},
	}
}

// WithAPIKey returns a copy of c authenticating with key.
func (c *Client) WithAPIKey(key string) *Client {
	cc := *c
	cc.apiKey = key
	return &cc
}

func (c *Client) FetchCourses(ctx context.Context, ownerID string) ([]question.Option, error) {
	var query map[string]string
	if ownerID != "" {
		query = map[string]string{"teacher": ownerID}
	}
	var courses []question.Option
	err := c.send(ctx, rest.Get, "/courses", query, nil, &courses)
	return courses, err
}

func (c *Client) FetchLessons(ctx context.Context, courseID string) ([]question.Option, error) {
	var lessons []question.Option
	err := c.send(ctx, rest.Get, "/courses/"+url.PathEscape(courseID)+"/lessons", nil, nil, &lessons)
	return lessons, err
}

func (c *Client) GetQuestion(ctx context.Context, id string) (question.Question, error) {
	var q question.Question
	err := c.send(ctx, rest.Get, "/questions/"+url.PathEscape(id), nil, nil, &q)
	return q, err
}

func (c *Client) CreateQuestion(ctx context.Context, p question.Payload) (question.Question, error) {
	var q question.Question
	err := c.send(ctx, rest.Post, "/questions", nil, p, &q)
	return q, err
}

func (c *Client) UpdateQuestion(ctx context.Context, id string, p question.Payload) (question.Question, error) {
	var q question.Question
	err := c.send(ctx, rest.Put, "/questions/"+url.PathEscape(id), nil, p, &q)
	return q, err
}

// send performs the request and decodes the JSON response into out.
// A 404 is reported as question.ErrNotFound and any other non-2xx status as an *Error.
func (c *Client) send(ctx context.Context, method rest.Method, path string, query map[string]string, body, out interface{}) error {
	req := rest.Request{
		Method:      method,
		BaseURL:     c.baseURL + path,
		Headers:     map[string]string{"Accept": "application/json"},
		QueryParams: query,
	}
	if c.apiKey != "" {
		req.Headers["Authorization"] = "Bearer " + c.apiKey
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		req.Body = data
		req.Headers["Content-Type"] = "application/json"
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp, err := c.http.SendWithContext(ctx, req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return question.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &Error{StatusCode: resp.StatusCode, Body: resp.Body}
	}
	if out == nil || resp.Body == "" {
		return nil
	}
	return errors.Wrap(json.Unmarshal([]byte(resp.Body), out), "decoding response body")
}

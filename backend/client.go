// Package backend wraps all outbound HTTP communication with the remote
// content API. It attaches the session bearer token, speaks JSON and
// multipart bodies, and normalizes failures into APIError values.
// It never makes navigation decisions; those belong to the callers.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

type (
	// FormField is one text field of a multipart submission. Order matters:
	// the backend reports validation messages in submission order.
	FormField struct {
		Name  string
		Value string
	}

	// Upload is a locally-selected file going out with a multipart submission.
	Upload struct {
		Field    string
		Filename string
		Content  io.Reader
	}

	Client struct {
		baseURL    string
		storageURL string
		http       *http.Client
		token      string
	}
)

func NewClient(conf *core.Config) *Client {
	return &Client{
		baseURL:    conf.Backend.BaseURL,
		storageURL: conf.Backend.StorageBaseURL,
		// no retries anywhere; a hung request is bounded by this timeout
		http: &http.Client{Timeout: conf.Backend.Timeout},
	}
}

// WithToken returns a shallow copy of the client that authenticates
// every request with the given bearer token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// StorageURL resolves a backend-relative file path to a display URL.
func (c *Client) StorageURL(rel string) string {
	if rel == "" {
		return ""
	}
	if strings.HasPrefix(rel, "http://") || strings.HasPrefix(rel, "https://") {
		return rel
	}
	return c.storageURL + "/" + strings.TrimLeft(rel, "/")
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "backend.do")
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newNetworkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp.StatusCode, data)
	}
	return data, nil
}

// Get issues a GET and returns the raw response body.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, "", nil)
}

// GetJSON issues a GET and decodes the JSON response into `into`.
func (c *Client) GetJSON(ctx context.Context, path string, into interface{}) error {
	data, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	return decodeInto(data, into)
}

// PostJSON issues a POST with a JSON body; `into` may be nil.
func (c *Client) PostJSON(ctx context.Context, path string, body, into interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return errors.Wrap(err, "backend.PostJSON")
		}
	}
	data, err := c.do(ctx, http.MethodPost, path, "application/json", &buf)
	if err != nil {
		return err
	}
	return decodeInto(data, into)
}

// PostMultipart issues a POST with a multipart body. Nil files are simply
// omitted; the backend keeps any previously stored file in that case.
// Updates use the Laravel method-override convention: callers append
// `?_method=PUT` to the path since multipart PUT support is unreliable.
func (c *Client) PostMultipart(ctx context.Context, path string, fields []FormField, into interface{}, files ...*Upload) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, fld := range fields {
		if err := mw.WriteField(fld.Name, fld.Value); err != nil {
			return errors.Wrap(err, "backend.PostMultipart")
		}
	}
	for _, file := range files {
		if file == nil || file.Content == nil {
			continue
		}
		fw, err := mw.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return errors.Wrap(err, "backend.PostMultipart")
		}
		if _, err := io.Copy(fw, file.Content); err != nil {
			return errors.Wrap(err, "backend.PostMultipart")
		}
	}
	if err := mw.Close(); err != nil {
		return errors.Wrap(err, "backend.PostMultipart")
	}

	data, err := c.do(ctx, http.MethodPost, path, mw.FormDataContentType(), &buf)
	if err != nil {
		return err
	}
	return decodeInto(data, into)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, "", nil)
	return err
}

func decodeInto(data []byte, into interface{}) error {
	if into == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, into); err != nil {
		return errors.Wrap(err, "backend: decoding response")
	}
	return nil
}

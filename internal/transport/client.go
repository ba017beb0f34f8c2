package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
)

const RequestIDHeader = "X-Request-ID"

type Options struct {
	BaseURL string
	// Token is a fixed bearer token. Tokens, when set, takes precedence and
	// is consulted on every call so a session can change under the client.
	Token     string
	Tokens    oauth2.TokenSource
	Timeout   time.Duration
	Transport http.RoundTripper
}

// Client talks to the platform REST API. It is safe for concurrent use.
type Client struct {
	baseURL string
	plain   *http.Client
	authed  *http.Client
	tokens  oauth2.TokenSource
}

func NewClient(opts Options) *Client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	plain := &http.Client{
		Transport: otelhttp.NewTransport(base),
		Timeout:   opts.Timeout,
	}

	tokens := opts.Tokens
	if tokens == nil && opts.Token != "" {
		tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"})
	}

	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		plain:   plain,
		tokens:  tokens,
	}
	if tokens != nil {
		c.authed = &http.Client{
			Transport: &oauth2.Transport{Source: tokens, Base: plain.Transport},
			Timeout:   opts.Timeout,
		}
	}
	return c
}

// httpClient attaches the bearer only while a valid token is available;
// public endpoints keep working when signed out.
func (c *Client) httpClient() *http.Client {
	if c.tokens == nil {
		return c.plain
	}
	tok, err := c.tokens.Token()
	if err != nil || !tok.Valid() {
		return c.plain
	}
	return c.authed
}

// File is one part of a multipart upload.
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

type Form struct {
	Fields map[string]string
	Files  []File
}

func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, in, out)
}

func (c *Client) PutJSON(ctx context.Context, path string, in, out any) error {
	return c.sendJSON(ctx, http.MethodPut, path, in, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", out)
}

func (c *Client) PostMultipart(ctx context.Context, path string, form Form, out any) error {
	return c.sendMultipart(ctx, http.MethodPost, path, form, out)
}

func (c *Client) PutMultipart(ctx context.Context, path string, form Form, out any) error {
	return c.sendMultipart(ctx, http.MethodPut, path, form, out)
}

// FetchBlob downloads raw bytes. ref may be absolute or relative to the API.
func (c *Client) FetchBlob(ctx context.Context, ref string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(ref), nil)
	if err != nil {
		return nil, "", errors.Wrap(err, "building blob request")
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, "", errors.Wrap(err, "fetching blob")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.Wrap(err, "reading blob")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", newAPIError(resp.StatusCode, body)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(b)
	}
	return c.do(ctx, method, path, body, "application/json", out)
}

func (c *Client) sendMultipart(ctx context.Context, method, path string, form Form, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range form.Fields {
		if err := mw.WriteField(k, v); err != nil {
			return errors.Wrapf(err, "writing field %s", k)
		}
	}
	for _, f := range form.Files {
		part, err := createPart(mw, f)
		if err != nil {
			return errors.Wrapf(err, "creating part %s", f.Field)
		}
		if _, err := part.Write(f.Data); err != nil {
			return errors.Wrapf(err, "writing part %s", f.Field)
		}
	}
	if err := mw.Close(); err != nil {
		return errors.Wrap(err, "closing multipart body")
	}

	return c.do(ctx, method, path, &buf, mw.FormDataContentType(), out)
}

func createPart(mw *multipart.Writer, f File) (io.Writer, error) {
	if f.ContentType == "" {
		return mw.CreateFormFile(f.Field, f.Name)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.Field, f.Name))
	h.Set("Content-Type", f.ContentType)
	return mw.CreatePart(h)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	log := config.WithContext(ctx)

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("API request failed")
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}

	log.WithFields(logrus.Fields{
		"method":         method,
		"path":           path,
		"status":         resp.StatusCode,
		"api_request_id": reqID,
		"elapsed":        time.Since(start).String(),
	}).Debug("API request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "decoding %s %s", method, path)
	}
	return nil
}

func (c *Client) resolve(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return c.baseURL + ref
}

// FileFromRequest lifts an uploaded multipart file from an incoming request
// so it can be forwarded. A missing field yields nil, nil.
func FileFromRequest(r *http.Request, field string) (*File, error) {
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading upload %s", field)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading upload %s", field)
	}
	return &File{
		Field:       field,
		Name:        hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

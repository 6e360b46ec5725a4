// Package client talks to the remote collection service over its REST
// surface and translates between the local and wire record shapes.
//
// The client performs no retries: every failure is surfaced to the caller
// as one of the model error kinds (collaborator unavailable, validation
// rejected, not found, unsupported media type).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/erazemk/ornate/internal/model"
)

// maxErrorBody bounds how much of an error response is kept as detail.
const maxErrorBody = 4 << 10

// Client is a REST client for the collection service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client rooted at baseURL, which may include a path prefix.
// A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}, nil
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, "", nil)
}

// ListAll fetches the entire collection.
func (c *Client) ListAll(ctx context.Context) ([]model.JewelryItem, error) {
	return c.list(ctx, nil)
}

// Search asks the collaborator for the items matching f. The result is
// returned as-is; no local filtering is applied.
func (c *Client) Search(ctx context.Context, f model.SearchFilters) ([]model.JewelryItem, error) {
	q := url.Values{}
	if f.Category != 0 {
		q.Set("category", f.Category.String())
	}
	if f.OutfitType != 0 {
		q.Set("outfit_type", f.OutfitType.String())
	}
	if f.SearchQuery != "" {
		q.Set("search", f.SearchQuery)
	}
	return c.list(ctx, q)
}

func (c *Client) list(ctx context.Context, q url.Values) ([]model.JewelryItem, error) {
	path := "/collection/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var records []WireRecord
	if err := c.do(ctx, http.MethodGet, path, nil, "", &records); err != nil {
		return nil, err
	}

	items := make([]model.JewelryItem, 0, len(records))
	for _, w := range records {
		it, err := FromWire(w)
		if err != nil {
			slog.Warn("dropping collection record", "id", w.ID, "error", err)
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// Create submits a new item and returns the collaborator's canonical record.
func (c *Client) Create(ctx context.Context, it model.JewelryItem) (model.JewelryItem, error) {
	w := ToWire(it)
	w.ID = ""
	w.CreatedAt = WireTime{}
	return c.send(ctx, http.MethodPost, "/collection/", w)
}

// Update replaces the record keyed by id and returns the updated record.
func (c *Client) Update(ctx context.Context, id string, it model.JewelryItem) (model.JewelryItem, error) {
	if id == "" {
		return model.JewelryItem{}, fmt.Errorf("updating item: %w", model.ErrNotFound)
	}
	w := ToWire(it)
	w.ID = ""
	w.CreatedAt = WireTime{}
	return c.send(ctx, http.MethodPut, "/collection/"+url.PathEscape(id), w)
}

func (c *Client) send(ctx context.Context, method, path string, w WireRecord) (model.JewelryItem, error) {
	body, err := json.Marshal(w)
	if err != nil {
		return model.JewelryItem{}, fmt.Errorf("encoding record: %w", err)
	}

	var out WireRecord
	if err := c.do(ctx, method, path, bytes.NewReader(body), "application/json", &out); err != nil {
		return model.JewelryItem{}, err
	}

	it, err := FromWire(out)
	if err != nil {
		return model.JewelryItem{}, fmt.Errorf("%w: malformed response: %v", model.ErrCollaboratorUnavailable, err)
	}
	return it, nil
}

type uploadResponse struct {
	ImageURL string `json:"image_url"`
}

// UploadImage stores an image out-of-band and returns its URL. Payloads that
// do not sniff as an image are rejected without contacting the collaborator.
func (c *Client) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: %s", model.ErrUnsupportedMediaType, mt.String())
	}
	if filename == "" {
		filename = "upload" + mt.Extension()
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", mt.String())
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("creating multipart part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("writing multipart part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart writer: %w", err)
	}

	var resp uploadResponse
	if err := c.do(ctx, http.MethodPost, "/upload-image", &buf, mw.FormDataContentType(), &resp); err != nil {
		return "", err
	}
	if resp.ImageURL == "" {
		return "", fmt.Errorf("%w: upload response missing image_url", model.ErrCollaboratorUnavailable)
	}
	return resp.ImageURL, nil
}

// do performs a request and decodes a successful JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", model.ErrCollaboratorUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(method, path, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s %s response: %v", model.ErrCollaboratorUnavailable, method, path, err)
	}
	return nil
}

// statusError maps a non-success response onto the error taxonomy.
func statusError(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := errorDetail(raw)

	switch {
	case method == http.MethodGet:
		return fmt.Errorf("%w: %s %s: status %d: %s", model.ErrCollaboratorUnavailable, method, path, resp.StatusCode, detail)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, model.ErrNotFound)
	case resp.StatusCode == http.StatusUnsupportedMediaType:
		return fmt.Errorf("%s %s: %w: %s", method, path, model.ErrUnsupportedMediaType, detail)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		if path == "/upload-image" && resp.StatusCode == http.StatusBadRequest {
			return fmt.Errorf("%s %s: %w: %s", method, path, model.ErrUnsupportedMediaType, detail)
		}
		return fmt.Errorf("%s %s: %w", method, path, &model.RejectedError{Status: resp.StatusCode, Detail: detail})
	default:
		return fmt.Errorf("%w: %s %s: status %d", model.ErrCollaboratorUnavailable, method, path, resp.StatusCode)
	}
}

// errorDetail extracts a human-readable message from an error body. It
// understands {"error": "..."} and {"detail": ...} and falls back to the
// raw text.
func errorDetail(raw []byte) string {
	var body struct {
		Error  string          `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if len(body.Detail) > 0 {
			var s string
			if json.Unmarshal(body.Detail, &s) == nil {
				return s
			}
			return string(body.Detail)
		}
	}
	return strings.TrimSpace(string(raw))
}

package formsprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/masthead-press/masthead/internal/domain/forms"
)

// HTTPProvider talks to a hosted form service over its REST surface.
// Endpoint shapes:
//
//	POST   {base}/v1/forms                      {"title": ...}
//	GET    {base}/v1/forms/{id}
//	POST   {base}/v1/forms/{id}/fields          {"kind","title","choices"}
//	GET    {base}/v1/forms/{id}/fields
//	DELETE {base}/v1/forms/{id}/fields/{fid}
type HTTPProvider struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPProvider creates a provider against the given base URL.
func NewHTTPProvider(baseURL, token string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

type formPayload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type fieldPayload struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind,omitempty"`
	Title   string   `json:"title"`
	Choices []string `json:"choices,omitempty"`
}

func (p *HTTPProvider) Create(ctx context.Context, name string) (forms.Artifact, error) {
	var created formPayload
	err := p.do(ctx, http.MethodPost, "/v1/forms", formPayload{Title: name}, &created)
	if err != nil {
		return nil, err
	}
	return &httpArtifact{provider: p, id: created.ID}, nil
}

func (p *HTTPProvider) Open(ctx context.Context, artifactID string) (forms.Artifact, error) {
	var got formPayload
	err := p.do(ctx, http.MethodGet, "/v1/forms/"+url.PathEscape(artifactID), nil, &got)
	if err != nil {
		return nil, err
	}
	return &httpArtifact{provider: p, id: got.ID}, nil
}

func (p *HTTPProvider) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("forms provider: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s %s", ErrArtifactNotFound, method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("forms provider: %s %s: status %d: %s", method, path, resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("forms provider: decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

type httpArtifact struct {
	provider *HTTPProvider
	id       string
}

func (a *httpArtifact) ID() string {
	return a.id
}

func (a *httpArtifact) Title(ctx context.Context) (string, error) {
	var got formPayload
	err := a.provider.do(ctx, http.MethodGet, "/v1/forms/"+url.PathEscape(a.id), nil, &got)
	if err != nil {
		return "", err
	}
	return got.Title, nil
}

func (a *httpArtifact) AddField(ctx context.Context, kind forms.ItemKind, title string, choices []string) error {
	payload := fieldPayload{Kind: string(kind), Title: title, Choices: choices}
	return a.provider.do(ctx, http.MethodPost, "/v1/forms/"+url.PathEscape(a.id)+"/fields", payload, nil)
}

func (a *httpArtifact) ListFields(ctx context.Context) ([]forms.Field, error) {
	var got []fieldPayload
	err := a.provider.do(ctx, http.MethodGet, "/v1/forms/"+url.PathEscape(a.id)+"/fields", nil, &got)
	if err != nil {
		return nil, err
	}
	fields := make([]forms.Field, 0, len(got))
	for _, f := range got {
		fields = append(fields, forms.Field{ID: f.ID, Title: f.Title})
	}
	return fields, nil
}

func (a *httpArtifact) DeleteField(ctx context.Context, fieldID string) error {
	path := "/v1/forms/" + url.PathEscape(a.id) + "/fields/" + url.PathEscape(fieldID)
	return a.provider.do(ctx, http.MethodDelete, path, nil, nil)
}

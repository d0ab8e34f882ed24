package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mergington/activities-api/internal/dto"
	"github.com/mergington/activities-api/internal/service"
)

// AnnouncementStore reads and mutates announcements over HTTP. The
// server-side active_only filtering is a convenience; callers still derive
// display status locally since "active" can change between fetch and
// render.
type AnnouncementStore struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAnnouncementStore creates a client for the directory at baseURL.
func NewAnnouncementStore(baseURL, token string, httpClient *http.Client) *AnnouncementStore {
	if httpClient == nil {
		httpClient = DefaultHTTPClient()
	}
	return &AnnouncementStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// Fetch returns announcements, optionally narrowed server-side to the
// currently active window.
func (c *AnnouncementStore) Fetch(ctx context.Context, activeOnly bool) ([]dto.AnnouncementView, error) {
	endpoint := c.baseURL + "/announcements?active_only=" + strconv.FormatBool(activeOnly)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var views []dto.AnnouncementView
	if err := c.do(req, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// Upsert creates or updates an announcement depending solely on whether
// the request carries a non-empty EditID.
func (c *AnnouncementStore) Upsert(ctx context.Context, req service.UpsertAnnouncementRequest) (*dto.AnnouncementView, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	method := http.MethodPost
	endpoint := c.baseURL + "/announcements"
	if req.EditID != "" {
		method = http.MethodPut
		endpoint += "/" + url.PathEscape(req.EditID)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var view dto.AnnouncementView
	if err := c.do(httpReq, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Delete removes the announcement with the given id.
func (c *AnnouncementStore) Delete(ctx context.Context, id string) error {
	endpoint := c.baseURL + "/announcements/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *AnnouncementStore) do(req *http.Request, dest interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var body envelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if body.Error != nil {
			return body.Error
		}
		return &httpStatusError{status: resp.StatusCode}
	}
	if dest == nil || len(body.Data) == 0 {
		return nil
	}
	return json.Unmarshal(body.Data, dest)
}

type httpStatusError struct {
	status int
}

func (e *httpStatusError) Error() string {
	return "directory unexpected status: " + strconv.Itoa(e.status)
}

// Package remote contains HTTP client implementations of the store
// contracts the filter engine and announcement views depend on. They speak
// the directory API's envelope format, so an engine instance can run
// against any deployed directory.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mergington/activities-api/internal/dto"
	"github.com/mergington/activities-api/internal/models"
	appErrors "github.com/mergington/activities-api/pkg/errors"
)

// ActivityStore fetches activities and performs roster mutations over HTTP.
type ActivityStore struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewActivityStore creates a client for the directory at baseURL. The
// token, when set, is sent as a bearer credential on mutations.
func NewActivityStore(baseURL, token string, httpClient *http.Client) *ActivityStore {
	if httpClient == nil {
		httpClient = DefaultHTTPClient()
	}
	return &ActivityStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// DefaultHTTPClient returns the client used when none is supplied.
func DefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

type envelope struct {
	Data  json.RawMessage  `json:"data"`
	Error *appErrors.Error `json:"error"`
}

// Fetch returns the activity collection narrowed by the optional day and
// time-of-day bounds.
func (c *ActivityStore) Fetch(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error) {
	query := url.Values{}
	if filter.Day != "" {
		query.Set("day", filter.Day)
	}
	if filter.StartTime != "" {
		query.Set("start_time", filter.StartTime)
	}
	if filter.EndTime != "" {
		query.Set("end_time", filter.EndTime)
	}
	endpoint := c.baseURL + "/activities"
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var views []dto.ActivityView
	if err := c.do(req, &views); err != nil {
		return nil, err
	}
	activities := make([]models.Activity, 0, len(views))
	for _, view := range views {
		activities = append(activities, view.Activity)
	}
	return activities, nil
}

// Register signs the email up for the named activity.
func (c *ActivityStore) Register(ctx context.Context, activityName, email string) (string, error) {
	return c.mutateRoster(ctx, activityName, "signup", email)
}

// Unregister removes the email from the named activity.
func (c *ActivityStore) Unregister(ctx context.Context, activityName, email string) (string, error) {
	return c.mutateRoster(ctx, activityName, "unregister", email)
}

func (c *ActivityStore) mutateRoster(ctx context.Context, activityName, action, email string) (string, error) {
	payload, err := json.Marshal(dto.RegistrationRequest{Email: email})
	if err != nil {
		return "", err
	}
	endpoint := fmt.Sprintf("%s/activities/%s/%s", c.baseURL, url.PathEscape(activityName), action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var result dto.RegistrationResult
	if err := c.do(req, &result); err != nil {
		return "", err
	}
	return result.Message, nil
}

func (c *ActivityStore) do(req *http.Request, dest interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var body envelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode directory response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if body.Error != nil {
			return body.Error
		}
		return fmt.Errorf("directory unexpected status: %d", resp.StatusCode)
	}
	if dest == nil || len(body.Data) == 0 {
		return nil
	}
	return json.Unmarshal(body.Data, dest)
}

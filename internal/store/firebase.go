package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"gamewatch/pkg/models"
)

// Firebase talks to a Firebase Realtime Database over its REST interface.
// Records live under /juegos/<slug>.json; GET/PUT/PATCH map directly onto
// Get/Set/Update. It shares the process-wide retrying client.
type Firebase struct {
	Client  *http.Client
	BaseURL string
	Auth    string // optional database secret / ID token
}

func NewFirebase(client *http.Client, baseURL, auth string) *Firebase {
	return &Firebase{
		Client:  client,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Auth:    auth,
	}
}

func (f *Firebase) recordURL(key string) string {
	u := f.BaseURL + "/juegos/" + key + ".json"
	if f.Auth != "" {
		u += "?auth=" + f.Auth
	}
	return u
}

func (f *Firebase) Get(ctx context.Context, key string) (*models.GameRecord, error) {
	body, err := f.do(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, err
	}
	// RTDB answers the literal null for an absent key
	if strings.TrimSpace(string(body)) == "null" {
		return nil, nil
	}

	var rec models.GameRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", key, err)
	}
	return &rec, nil
}

func (f *Firebase) Set(ctx context.Context, key string, rec models.GameRecord) error {
	_, err := f.write(ctx, http.MethodPut, key, rec)
	return err
}

func (f *Firebase) Update(ctx context.Context, key string, rec models.GameRecord) error {
	_, err := f.write(ctx, http.MethodPatch, key, rec)
	return err
}

func (f *Firebase) write(ctx context.Context, method, key string, rec models.GameRecord) ([]byte, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record %s: %w", key, err)
	}
	return f.do(ctx, method, key, payload)
}

func (f *Firebase) do(ctx context.Context, method, key string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, f.recordURL(key), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, key, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s %s: status %d", method, key, resp.StatusCode)
	}
	return b, nil
}

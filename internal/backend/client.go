/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cardboard/internal/layout"
)

// Client talks to the publish server. Every call is context-aware and a
// failed call leaves local editor state untouched; callers decide whether
// to retry or keep working offline.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a backend client. baseURL may carry a trailing slash.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Page is the server's listing projection.
type Page struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LayoutEnvelope wraps a published snapshot with its server version.
type LayoutEnvelope struct {
	PageID    string          `json:"page_id"`
	Version   int64           `json:"version"`
	UpdatedAt string          `json:"updated_at"`
	Snapshot  json.RawMessage `json:"snapshot"`
}

// WallpaperRecord is the page background record held by the server.
type WallpaperRecord struct {
	PageID    string `json:"page_id"`
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	Blur      int    `json:"blur"`
	Universal bool   `json:"universal"`
}

// HostedImage is the server's answer to an image upload.
type HostedImage struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (c *Client) do(ctx context.Context, method, p, contentType string, body []byte, dest any) error {
	u, err := url.Parse(c.BaseURL + p)
	if err != nil {
		return err
	}
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// RequestToken obtains a bearer token and stores it on the client.
func (c *Client) RequestToken(ctx context.Context, subject string, ttl time.Duration) (string, error) {
	body, err := json.Marshal(map[string]any{
		"subject":     subject,
		"ttl_seconds": int64(ttl / time.Second),
	})
	if err != nil {
		return "", err
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/token", "application/json", body, &resp); err != nil {
		return "", err
	}
	c.Token = resp.Token
	return resp.Token, nil
}

// ListPages returns the pages known to the server.
func (c *Client) ListPages(ctx context.Context) ([]Page, error) {
	var list []Page
	if err := c.do(ctx, http.MethodGet, "/api/pages", "", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// PublishLayout uploads a snapshot as the page's published layout and
// returns the new server version.
func (c *Client) PublishLayout(ctx context.Context, pageID string, snap layout.Snapshot) (int64, error) {
	body, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("marshal snapshot: %w", err)
	}
	var resp struct {
		Version json.Number `json:"version"`
	}
	p := "/api/pages/" + url.PathEscape(pageID) + "/layout"
	if err := c.do(ctx, http.MethodPut, p, "application/json", body, &resp); err != nil {
		return 0, err
	}
	ver, _ := resp.Version.Int64()
	return ver, nil
}

// PublishedLayout fetches the page's published snapshot.
func (c *Client) PublishedLayout(ctx context.Context, pageID string) (*LayoutEnvelope, error) {
	var env LayoutEnvelope
	p := "/api/pages/" + url.PathEscape(pageID) + "/layout"
	if err := c.do(ctx, http.MethodGet, p, "", nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// PutWallpaper stores the page's wallpaper record on the server.
func (c *Client) PutWallpaper(ctx context.Context, rec WallpaperRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	p := "/api/pages/" + url.PathEscape(rec.PageID) + "/wallpaper"
	return c.do(ctx, http.MethodPut, p, "application/json", body, nil)
}

// GetWallpaper fetches the page's wallpaper record.
func (c *Client) GetWallpaper(ctx context.Context, pageID string) (*WallpaperRecord, error) {
	var rec WallpaperRecord
	p := "/api/pages/" + url.PathEscape(pageID) + "/wallpaper"
	if err := c.do(ctx, http.MethodGet, p, "", nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UploadImage sends raw image bytes and returns the hosted record. The
// returned URL is what gets assigned to image slots and wallpapers.
func (c *Client) UploadImage(ctx context.Context, data []byte) (*HostedImage, error) {
	var img HostedImage
	if err := c.do(ctx, http.MethodPost, "/api/images", "application/octet-stream", data, &img); err != nil {
		return nil, err
	}
	return &img, nil
}

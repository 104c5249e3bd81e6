// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package api is the client for the script conversion service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	codeconverrors "github.com/tombee/codeconv/pkg/errors"
	"github.com/tombee/codeconv/pkg/httpclient"
)

// Endpoint paths relative to the base URL.
const (
	ConvertPath  = "api/ScriptConvertGemini"
	UserInfoPath = "api/UserInfo"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// ConvertRequest is the body of a conversion call.
type ConvertRequest struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	Content string `json:"content"`
}

type convertResponse struct {
	Response string `json:"response"`
}

type userInfoRequest struct {
	Token string `json:"Token"`
}

// UserInfo is the identity the service reports for a token.
type UserInfo struct {
	UserName string `json:"nickname"`
	Email    string `json:"email"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client talks to the conversion service. It is safe for concurrent use.
type Client struct {
	http   *http.Client
	base   *url.URL
	logger *slog.Logger
}

// New returns a client for the service at baseURL.
func New(httpClient *http.Client, baseURL string, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, &codeconverrors.ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("%q is not an absolute URL", baseURL),
		}
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{http: httpClient, base: base, logger: logger}, nil
}

// ConvertScript asks the service to translate req.Content from req.Source
// to req.Target and returns the converted text as sent by the service.
func (c *Client) ConvertScript(ctx context.Context, token string, req ConvertRequest) (string, error) {
	var out convertResponse
	if err := c.post(ctx, ConvertPath, token, req, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

// UserInfo resolves the profile behind token.
func (c *Client) UserInfo(ctx context.Context, token string) (*UserInfo, error) {
	var out UserInfo
	if err := c.post(ctx, UserInfoPath, token, userInfoRequest{Token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path, token string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return codeconverrors.Wrapf(err, "encode %s request", path)
	}

	endpoint := c.base.ResolveReference(&url.URL{Path: path}).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return codeconverrors.Wrapf(err, "build %s request", path)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if codeconverrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &codeconverrors.TimeoutError{Operation: "api " + path, Cause: ctx.Err()}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &codeconverrors.APIError{Endpoint: path, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &codeconverrors.APIError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Message:    "reading response failed",
			RequestID:  httpclient.RequestID(resp.Request),
			Cause:      err,
		}
	}

	c.logger.Debug("api response", "endpoint", path, "status", resp.StatusCode, "bytes", len(data))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(path, resp, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &codeconverrors.APIError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Message:    "malformed response body",
			RequestID:  httpclient.RequestID(resp.Request),
			Cause:      err,
		}
	}
	return nil
}

func (c *Client) statusError(path string, resp *http.Response, data []byte) error {
	msg := http.StatusText(resp.StatusCode)
	var er errorResponse
	if json.Unmarshal(data, &er) == nil && er.Error != "" {
		msg = er.Error
	}

	apiErr := &codeconverrors.APIError{
		Endpoint:   path,
		StatusCode: resp.StatusCode,
		Message:    msg,
		RequestID:  httpclient.RequestID(resp.Request),
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &codeconverrors.AuthError{Reason: "session expired or not authorized", Cause: apiErr}
	}
	return apiErr
}

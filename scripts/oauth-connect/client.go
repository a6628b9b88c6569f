package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"

	"unified-calendar/internal/model"
)

type connectPayload struct {
	UserID       string    `json:"user_id"`
	Provider     string    `json:"provider"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry"`
	Scopes       []string  `json:"scopes,omitempty"`
}

func newConnectPayload(userID string, p model.Provider, tok *oauth2.Token) connectPayload {
	payload := connectPayload{
		UserID:       userID,
		Provider:     string(p),
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		payload.Scopes = strings.Fields(scope)
	}
	return payload
}

type account struct {
	Provider     string `json:"provider"`
	Connected    bool   `json:"connected"`
	Status       string `json:"status"`
	AccountEmail string `json:"account_email"`
}

type envelope struct {
	ErrorCode int             `json:"error_code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
}

// apiClient calls the account routes of a running API.
type apiClient struct {
	http        *http.Client
	baseURL     string
	internalKey string
}

func newAPIClient(baseURL, internalKey string) *apiClient {
	return &apiClient{
		http:        &http.Client{Timeout: 30 * time.Second},
		baseURL:     strings.TrimRight(baseURL, "/"),
		internalKey: internalKey,
	}
}

func (a *apiClient) connect(ctx context.Context, payload connectPayload) error {
	return a.do(ctx, http.MethodPost, "/api/v1/internal/accounts", "", payload, nil)
}

func (a *apiClient) list(ctx context.Context, userID string) ([]account, error) {
	var out struct {
		Accounts []account `json:"accounts"`
	}
	if err := a.do(ctx, http.MethodGet, "/api/v1/accounts", userID, nil, &out); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

func (a *apiClient) disconnect(ctx context.Context, userID string, p model.Provider) error {
	return a.do(ctx, http.MethodDelete, "/api/v1/accounts/"+string(p), userID, nil, nil)
}

func (a *apiClient) do(ctx context.Context, method, path, userID string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if a.internalKey != "" {
		req.Header.Set("X-Internal-Key", a.internalKey)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

package http

import (
	"time"

	"unified-calendar/internal/credential"
	"unified-calendar/internal/model"
	pkgErrors "unified-calendar/pkg/errors"
)

// --- Request DTOs ---

type connectReq struct {
	UserID       string    `json:"user_id"       binding:"required"`
	Provider     string    `json:"provider"      binding:"required"`
	AccountEmail string    `json:"account_email"`
	AccessToken  string    `json:"access_token"  binding:"required"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry"`
	Scopes       []string  `json:"scopes"`
}

func (r connectReq) validate() error {
	v := pkgErrors.NewValidationError()
	if _, err := model.ParseProvider(r.Provider); err != nil {
		v.Add("provider", "must be google or microsoft")
	}
	if r.RefreshToken == "" {
		v.Add("refresh_token", "is required; request offline access")
	}
	return v.Err()
}

func (r connectReq) toInput() credential.ConnectInput {
	return credential.ConnectInput{
		UserID:       r.UserID,
		Provider:     model.Provider(r.Provider),
		AccountEmail: r.AccountEmail,
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		Expiry:       r.Expiry,
		Scopes:       r.Scopes,
	}
}

// --- Response DTOs ---

type accountResp struct {
	ID           string     `json:"id,omitempty"`
	Provider     string     `json:"provider"`
	Connected    bool       `json:"connected"`
	Status       string     `json:"status,omitempty"`
	AccountEmail string     `json:"account_email,omitempty"`
	Scopes       []string   `json:"scopes,omitempty"`
	TokenExpiry  *time.Time `json:"token_expiry,omitempty"`
	ConnectedAt  *time.Time `json:"connected_at,omitempty"`
}

func newAccountResp(acc model.ConnectedAccount) accountResp {
	expiry, created := acc.TokenExpiry, acc.CreatedAt
	return accountResp{
		ID:           acc.ID,
		Provider:     string(acc.Provider),
		Connected:    true,
		Status:       string(acc.Status),
		AccountEmail: acc.AccountEmail,
		Scopes:       acc.Scopes,
		TokenExpiry:  &expiry,
		ConnectedAt:  &created,
	}
}

type listResp struct {
	Accounts []accountResp `json:"accounts"`
}

// newListResp reports every supported provider, connected or not.
func (h *handler) newListResp(accounts []model.ConnectedAccount) listResp {
	byProvider := make(map[model.Provider]model.ConnectedAccount, len(accounts))
	for _, acc := range accounts {
		byProvider[acc.Provider] = acc
	}

	out := listResp{Accounts: make([]accountResp, 0, len(model.Providers))}
	for _, p := range model.Providers {
		acc, ok := byProvider[p]
		if !ok {
			out.Accounts = append(out.Accounts, accountResp{Provider: string(p)})
			continue
		}
		out.Accounts = append(out.Accounts, newAccountResp(acc))
	}
	return out
}

type connectResp struct {
	Account accountResp `json:"account"`
}

func (h *handler) newConnectResp(acc model.ConnectedAccount) connectResp {
	return connectResp{Account: newAccountResp(acc)}
}

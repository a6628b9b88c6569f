package provider

import (
	"context"

	"unified-calendar/internal/model"
)

// Adapter translates between one provider's API and canonical events.
// Adapters are stateless per call and never store tokens.
type Adapter interface {
	Provider() model.Provider
	FetchEvents(ctx context.Context, account model.ConnectedAccount, token model.AccessToken, window model.Window) ([]model.CanonicalEvent, error)
	GetEvent(ctx context.Context, account model.ConnectedAccount, token model.AccessToken, eventID string) (model.CanonicalEvent, error)
	UpdateResponse(ctx context.Context, account model.ConnectedAccount, token model.AccessToken, eventID string, response model.ResponseStatus, expectedVersion string) (model.CanonicalEvent, error)
	CreateEvent(ctx context.Context, account model.ConnectedAccount, token model.AccessToken, input CreateEventInput) (model.CanonicalEvent, error)
	DeleteEvent(ctx context.Context, account model.ConnectedAccount, token model.AccessToken, eventID string, expectedVersion string) error
	AccountEmail(ctx context.Context, token model.AccessToken) (string, error)
}

// Registry resolves the adapter of a provider.
type Registry map[model.Provider]Adapter

// NewRegistry indexes adapters by their provider.
func NewRegistry(adapters ...Adapter) Registry {
	r := make(Registry, len(adapters))
	for _, a := range adapters {
		r[a.Provider()] = a
	}
	return r
}

// Get returns the adapter for p.
func (r Registry) Get(p model.Provider) (Adapter, error) {
	a, ok := r[p]
	if !ok {
		return nil, &Error{Provider: p, Kind: KindUnknown, Message: "no adapter registered"}
	}
	return a, nil
}

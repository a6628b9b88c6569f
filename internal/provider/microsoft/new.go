package microsoft

import (
	"time"

	"unified-calendar/internal/model"
	"unified-calendar/internal/provider"
	"unified-calendar/pkg/log"
	"unified-calendar/pkg/msgraph"
)

type adapter struct {
	l          log.Logger
	client     *msgraph.Client
	defaultLoc *time.Location
}

// New creates the Microsoft 365 adapter over Graph.
func New(l log.Logger, client *msgraph.Client, loc *time.Location) provider.Adapter {
	if loc == nil {
		loc = time.UTC
	}
	return &adapter{l: l, client: client, defaultLoc: loc}
}

func (a *adapter) Provider() model.Provider {
	return model.ProviderMicrosoft
}

package marketplace

import (
	"fmt"

	"github.com/bookpress/backend/internal/domain/integration"
)

// Registry holds the registered marketplace connectors
type Registry struct {
	clients map[integration.Marketplace]integration.MarketplaceClient
	order   []integration.MarketplaceClient
}

// NewRegistry creates a registry over the given connectors.
// Registration order is preserved for iteration.
func NewRegistry(clients ...integration.MarketplaceClient) *Registry {
	registry := &Registry{
		clients: make(map[integration.Marketplace]integration.MarketplaceClient, len(clients)),
	}
	for _, client := range clients {
		if _, exists := registry.clients[client.Marketplace()]; exists {
			continue
		}
		registry.clients[client.Marketplace()] = client
		registry.order = append(registry.order, client)
	}
	return registry
}

// Client returns the connector for the given marketplace
func (r *Registry) Client(marketplace integration.Marketplace) (integration.MarketplaceClient, error) {
	client, ok := r.clients[marketplace]
	if !ok {
		return nil, fmt.Errorf("%w: %s", integration.ErrMarketplaceUnknown, marketplace)
	}
	return client, nil
}

// Clients returns all registered connectors in registration order
func (r *Registry) Clients() []integration.MarketplaceClient {
	return r.order
}

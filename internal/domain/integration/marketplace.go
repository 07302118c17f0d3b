// Package integration defines the ports and value objects for pulling
// catalog and order data out of external marketplaces and reconciling
// it into the platform's canonical models.
package integration

import (
	"context"
	"errors"
	"io"
)

// Marketplace identifies an external sales channel
type Marketplace string

const (
	// MarketplaceWooCommerce is a self-hosted WooCommerce store
	MarketplaceWooCommerce Marketplace = "woocommerce"
	// MarketplaceAmazon is the Amazon seller channel
	MarketplaceAmazon Marketplace = "amazon"
	// MarketplaceFlipkart is the Flipkart seller channel (CSV exports)
	MarketplaceFlipkart Marketplace = "flipkart"
)

// AllMarketplaces returns every supported marketplace
func AllMarketplaces() []Marketplace {
	return []Marketplace{MarketplaceWooCommerce, MarketplaceAmazon, MarketplaceFlipkart}
}

// IsValid checks if the marketplace is supported
func (m Marketplace) IsValid() bool {
	switch m {
	case MarketplaceWooCommerce, MarketplaceAmazon, MarketplaceFlipkart:
		return true
	}
	return false
}

// String returns the string representation
func (m Marketplace) String() string {
	return string(m)
}

// Errors for marketplace operations
var (
	ErrMarketplaceUnknown       = errors.New("integration: unknown marketplace")
	ErrMarketplaceNotConfigured = errors.New("integration: marketplace is not configured")
	ErrMarketplaceAuthFailed    = errors.New("integration: marketplace authentication failed")
	ErrMarketplaceUnavailable   = errors.New("integration: marketplace is unreachable")
)

// RawProduct is an unnormalized product payload as a marketplace delivered it.
// Fields carries the decoded document keyed by the source's own field names.
type RawProduct struct {
	Source Marketplace
	Fields map[string]any
}

// RawOrder is an unnormalized order payload as a marketplace delivered it
type RawOrder struct {
	Source Marketplace
	Fields map[string]any
}

// Pagination is a page request against a marketplace listing endpoint
type Pagination struct {
	Page    int
	PerPage int
}

// MarketplaceClient is the port every marketplace connector implements.
// Fetch methods return raw payloads; normalization happens downstream so
// connectors stay transport-only.
type MarketplaceClient interface {
	// Marketplace returns the channel this client talks to
	Marketplace() Marketplace

	// Configured reports whether the operator supplied credentials for
	// this channel. Unconfigured clients are skipped, never called.
	Configured() bool

	// FetchProducts returns one page of product payloads
	FetchProducts(ctx context.Context, page Pagination) ([]RawProduct, error)

	// FetchOrders returns one page of order payloads restricted to the
	// given statuses. An empty status list means no restriction.
	FetchOrders(ctx context.Context, page Pagination, statuses []string) ([]RawOrder, error)
}

// MarketplaceRegistry resolves marketplace clients by channel code
type MarketplaceRegistry interface {
	// Client returns the client for the given marketplace,
	// ErrMarketplaceUnknown when none is registered
	Client(marketplace Marketplace) (MarketplaceClient, error)

	// Clients returns all registered clients in registration order
	Clients() []MarketplaceClient
}

// CSVDecoder turns a marketplace CSV export into raw payloads that feed
// the same normalization pipeline as the REST connectors
type CSVDecoder interface {
	DecodeProducts(r io.Reader) ([]RawProduct, error)
	DecodeOrders(r io.Reader) ([]RawOrder, error)
}

package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rgoodman/kalshi-scan/internal/model"
)

// Page sizes for the two listing endpoints.
const (
	EventsPageLimit  = 200
	MarketsPageLimit = 1000
)

// GetExchangeStatus fetches the venue's trading state.
func (c *Client) GetExchangeStatus(ctx context.Context) (*ExchangeStatusResponse, error) {
	var resp ExchangeStatusResponse
	if err := c.get(ctx, "/exchange/status", nil, &resp); err != nil {
		return nil, fmt.Errorf("get exchange status: %w", err)
	}
	return &resp, nil
}

// GetEventsPage fetches one page of open events with nested markets.
func (c *Client) GetEventsPage(ctx context.Context, cursor string) (*EventsResponse, error) {
	query := url.Values{}
	query.Set("status", "open")
	query.Set("with_nested_markets", "true")
	query.Set("limit", strconv.Itoa(EventsPageLimit))
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	var resp EventsResponse
	if err := c.get(ctx, "/events", query, &resp); err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	return &resp, nil
}

// GetAllOpenEvents paginates the full open-event listing. truncated reports
// whether a page failure cut the walk short.
func (c *Client) GetAllOpenEvents(ctx context.Context) (events []APIEvent, truncated bool) {
	return collectPages(ctx, c.logger, "/events", func(ctx context.Context, cursor string) ([]APIEvent, string, error) {
		resp, err := c.GetEventsPage(ctx, cursor)
		if err != nil {
			return nil, "", err
		}
		return resp.Events, resp.Cursor, nil
	})
}

// GetMarketsPage fetches one page of the flat open-market listing.
func (c *Client) GetMarketsPage(ctx context.Context, cursor string) (*MarketsResponse, error) {
	query := url.Values{}
	query.Set("status", "open")
	query.Set("limit", strconv.Itoa(MarketsPageLimit))
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	var resp MarketsResponse
	if err := c.get(ctx, "/markets", query, &resp); err != nil {
		return nil, fmt.Errorf("get markets: %w", err)
	}
	return &resp, nil
}

// GetAllOpenMarkets paginates the full open-market listing.
func (c *Client) GetAllOpenMarkets(ctx context.Context) (markets []APIMarket, truncated bool) {
	return collectPages(ctx, c.logger, "/markets", func(ctx context.Context, cursor string) ([]APIMarket, string, error) {
		resp, err := c.GetMarketsPage(ctx, cursor)
		if err != nil {
			return nil, "", err
		}
		return resp.Markets, resp.Cursor, nil
	})
}

// GetOrderbook fetches the full-depth book for a market.
func (c *Client) GetOrderbook(ctx context.Context, ticker string) (*model.Orderbook, error) {
	query := url.Values{}
	query.Set("depth", "0") // 0 = full book

	var resp OrderbookResponse
	if err := c.get(ctx, "/markets/"+url.PathEscape(ticker)+"/orderbook", query, &resp); err != nil {
		return nil, fmt.Errorf("get orderbook %s: %w", ticker, err)
	}

	return resp.Orderbook.ToModel(), nil
}

// ToModel converts raw [price, qty] pairs into orderbook levels, dropping
// malformed entries.
func (o *APIOrderbook) ToModel() *model.Orderbook {
	book := &model.Orderbook{
		Yes: make([]model.PriceLevel, 0, len(o.Yes)),
		No:  make([]model.PriceLevel, 0, len(o.No)),
	}
	for _, level := range o.Yes {
		if len(level) >= 2 {
			book.Yes = append(book.Yes, model.PriceLevel{Price: level[0], Quantity: level[1]})
		}
	}
	for _, level := range o.No {
		if len(level) >= 2 {
			book.No = append(book.No, model.PriceLevel{Price: level[0], Quantity: level[1]})
		}
	}
	return book
}

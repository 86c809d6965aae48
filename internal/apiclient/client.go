// Package apiclient talks to the auction HTTP API. A Client satisfies the
// backend interfaces of the live auction view, the membership picker and the
// cart checkout, so those run unchanged against a remote server.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gem-auction/internal/auctionerrors"
	"gem-auction/internal/models"
	"gem-auction/services/auction/helpers"
	"gem-auction/utils"

	"github.com/shopspring/decimal"
)

// TokenSource returns a bearer token for userID. *auth.Tokens satisfies it.
type TokenSource interface {
	Issue(userID string) (string, error)
}

// StaticToken sends the same token for every user
type StaticToken string

func (s StaticToken) Issue(string) (string, error) { return string(s), nil }

type Client struct {
	baseURL string
	http    *http.Client
	stream  *http.Client
	tokens  TokenSource
}

type Option func(*Client)

// WithHTTPClient replaces the client used for plain requests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithStreamClient replaces the client used for event streams. It must not set a Timeout.
func WithStreamClient(hc *http.Client) Option {
	return func(c *Client) { c.stream = hc }
}

// WithTokens sets how write requests are authenticated
func WithTokens(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		stream:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// sentinels recovers the domain error behind each mapped message
var sentinels = map[string]error{
	helpers.MsgAuctionNotFound:    auctionerrors.ErrAuctionNotFound,
	helpers.MsgPlanNotFound:       auctionerrors.ErrPlanNotFound,
	helpers.MsgMembershipNotFound: auctionerrors.ErrMembershipNotFound,
	helpers.MsgNoBids:             auctionerrors.ErrNoBids,
	helpers.MsgUserNoBids:         auctionerrors.ErrUserNoBids,
	helpers.MsgUnauthenticated:    auctionerrors.ErrUnauthenticated,
	helpers.MsgInvalidBid:         auctionerrors.ErrInvalidBid,
	helpers.MsgBidTooLow:          auctionerrors.ErrBidTooLow,
	helpers.MsgAuctionClosed:      auctionerrors.ErrAuctionClosed,
	helpers.MsgNotForSale:         auctionerrors.ErrNotForSale,
	helpers.MsgEmptyMessage:       auctionerrors.ErrEmptyMessage,
}

// statusError turns a non-2xx envelope into an error matching the server's sentinel
func statusError(op string, status int, env utils.Envelope) error {
	if sentinel, ok := sentinels[env.Message]; ok {
		return fmt.Errorf("apiclient: %s: %w", op, sentinel)
	}
	detail := env.Message
	if detail == "" {
		detail = http.StatusText(status)
	}
	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("apiclient: %s: %s: %w", op, detail, auctionerrors.ErrNotFound)
	case status >= 400 && status < 500:
		return fmt.Errorf("apiclient: %s: %s: %w", op, detail, auctionerrors.ErrValidation)
	}
	return auctionerrors.Transport("apiclient: "+op, fmt.Errorf("status %d: %s", status, detail))
}

func (c *Client) authorize(req *http.Request, userID string) error {
	if userID == "" {
		return auctionerrors.ErrUnauthenticated
	}
	if c.tokens == nil {
		return fmt.Errorf("%w: no token source configured", auctionerrors.ErrUnauthenticated)
	}
	token, err := c.tokens.Issue(userID)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("apiclient: encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, fmt.Errorf("apiclient: build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends a request as userID ("" for anonymous) and decodes the envelope's data into out
func (c *Client) do(ctx context.Context, method, path string, query url.Values, userID string, body, out any) error {
	op := method + " " + path
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if userID != "" || method != http.MethodGet {
		if err := c.authorize(req, userID); err != nil {
			return fmt.Errorf("apiclient: %s: %w", op, err)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return auctionerrors.Transport("apiclient: "+op, err)
	}
	defer resp.Body.Close()

	var env utils.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		return auctionerrors.Transport("apiclient: "+op, fmt.Errorf("decode response: %w", err))
	}
	utils.Debug("apiclient: request done", map[string]any{
		"op":      op,
		"status":  resp.StatusCode,
		"latency": time.Since(start).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp.StatusCode, env)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return auctionerrors.Transport("apiclient: "+op, fmt.Errorf("decode data: %w", err))
	}
	return nil
}

func auctionPath(auctionID string, rest ...string) string {
	p := "/auctions/" + url.PathEscape(auctionID)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": []string{strconv.Itoa(limit)}}
}

// ListAuctions returns the catalog page for filter
func (c *Client) ListAuctions(ctx context.Context, filter models.AuctionFilter) ([]models.AuctionSnapshot, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("q", filter.Search)
	}
	for _, cat := range filter.Categories {
		q.Add("category", cat)
	}
	if filter.MinPrice.Valid {
		q.Set("min_price", filter.MinPrice.Decimal.String())
	}
	if filter.MaxPrice.Valid {
		q.Set("max_price", filter.MaxPrice.Decimal.String())
	}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	if filter.Sort != "" {
		q.Set("sort", filter.Sort)
	}

	var resp helpers.CatalogResponse
	if err := c.do(ctx, http.MethodGet, "/auctions", q, "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Auctions, nil
}

func (c *Client) FetchAuctionSnapshot(ctx context.Context, auctionID string) (models.AuctionSnapshot, error) {
	var a models.AuctionSnapshot
	err := c.do(ctx, http.MethodGet, auctionPath(auctionID), nil, "", nil, &a)
	return a, err
}

// FetchBidHistory returns up to limit bids, newest first
func (c *Client) FetchBidHistory(ctx context.Context, auctionID string, limit int) ([]models.Bid, error) {
	var bids []models.Bid
	err := c.do(ctx, http.MethodGet, auctionPath(auctionID, "bids"), limitQuery(limit), "", nil, &bids)
	return bids, err
}

// FetchChatHistory returns up to limit messages, oldest first
func (c *Client) FetchChatHistory(ctx context.Context, auctionID string, limit int) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := c.do(ctx, http.MethodGet, auctionPath(auctionID, "messages"), limitQuery(limit), "", nil, &msgs)
	return msgs, err
}

func (c *Client) FetchWinningBid(ctx context.Context, auctionID string) (models.Bid, error) {
	var bid models.Bid
	err := c.do(ctx, http.MethodGet, auctionPath(auctionID, "winning"), nil, "", nil, &bid)
	return bid, err
}

func (c *Client) SubmitBid(ctx context.Context, auctionID, bidderID string, amount decimal.Decimal) error {
	return c.do(ctx, http.MethodPost, auctionPath(auctionID, "bids"), nil, bidderID, helpers.PlaceBidRequest{Amount: amount}, nil)
}

func (c *Client) SubmitChatMessage(ctx context.Context, auctionID, authorID, body string) error {
	return c.do(ctx, http.MethodPost, auctionPath(auctionID, "messages"), nil, authorID, helpers.PostMessageRequest{Body: body}, nil)
}

// BuyNow purchases an auction at its buy-now price as buyerID
func (c *Client) BuyNow(ctx context.Context, auctionID, buyerID string) (models.Sale, error) {
	var sale models.Sale
	err := c.do(ctx, http.MethodPost, auctionPath(auctionID, "buy-now"), nil, buyerID, nil, &sale)
	return sale, err
}

// FetchMyAuctions lists the auctions userID has bid on
func (c *Client) FetchMyAuctions(ctx context.Context, userID string) ([]models.AuctionSnapshot, error) {
	var list []models.AuctionSnapshot
	err := c.do(ctx, http.MethodGet, "/users/me/auctions", nil, userID, nil, &list)
	return list, err
}

func (c *Client) FetchMembershipPlans(ctx context.Context) ([]models.MembershipPlan, error) {
	var plans []models.MembershipPlan
	err := c.do(ctx, http.MethodGet, "/membership/plans", nil, "", nil, &plans)
	return plans, err
}

func (c *Client) FetchUserMembership(ctx context.Context, userID string) (models.UserMembership, error) {
	var m models.UserMembership
	err := c.do(ctx, http.MethodGet, "/users/me/membership", nil, userID, nil, &m)
	return m, err
}

func (c *Client) UpsertUserMembership(ctx context.Context, userID, planID string) (models.UserMembership, error) {
	var m models.UserMembership
	err := c.do(ctx, http.MethodPut, "/users/me/membership", nil, userID, helpers.UpsertMembershipRequest{PlanID: planID}, &m)
	return m, err
}

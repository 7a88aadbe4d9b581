package ecommerce

import (
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

	"github.com/stockroom/backend/internal/domain/integration"
	"github.com/stockroom/backend/internal/domain/shared"
)

// maxFeedResponseSize is the maximum allowed response size from the
// shop API (10MB)
const maxFeedResponseSize = 10 * 1024 * 1024

// feedTimeFormat is the timestamp layout the shop API uses
const feedTimeFormat = time.RFC3339

// ShopFeedAdapter implements the OrderFeed port against the remote
// shop's REST API. Tokens are cached through FeedTokenRepository and
// refreshed ahead of expiry.
type ShopFeedAdapter struct {
	config     *ShopFeedConfig
	httpClient *http.Client
	tokens     integration.FeedTokenRepository
}

// NewShopFeedAdapter creates a new shop feed adapter
func NewShopFeedAdapter(config *ShopFeedConfig, tokens integration.FeedTokenRepository) (*ShopFeedAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &ShopFeedAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.RequestTimeout,
		},
		tokens: tokens,
	}, nil
}

// ---------------------------------------------------------------------------
// OrderFeed implementation
// ---------------------------------------------------------------------------

// FetchOrders pulls orders from the shop API within the requested window
func (a *ShopFeedAdapter) FetchOrders(ctx context.Context, req integration.OrderPullRequest) ([]integration.RemoteOrder, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.AccountID != a.config.AccountID {
		return nil, integration.ErrFeedNotConfigured
	}

	values := url.Values{}
	if !req.Since.IsZero() {
		values.Set("start_date", req.Since.UTC().Format(feedTimeFormat))
	}
	if !req.Until.IsZero() {
		values.Set("end_date", req.Until.UTC().Format(feedTimeFormat))
	}
	if codes := mapToShopStatusCodes(req.Statuses); codes != "" {
		values.Set("order_status", codes)
	}
	if req.Limit > 0 {
		values.Set("limit", strconv.Itoa(req.Limit))
	}

	endpoint := a.config.BaseURL + "/api/v2/orders?" + values.Encode()

	respBody, err := a.doAuthorized(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var resp shopOrderListResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse order list: %v", integration.ErrFeedInvalidResponse, err)
	}

	orders := make([]integration.RemoteOrder, 0, len(resp.Orders))
	for i := range resp.Orders {
		orders = append(orders, convertShopOrder(&resp.Orders[i]))
	}
	return orders, nil
}

// FetchOrderDetail pulls a single order by its remote ID
func (a *ShopFeedAdapter) FetchOrderDetail(ctx context.Context, accountID, orderID string) (*integration.RemoteOrder, error) {
	if accountID != a.config.AccountID {
		return nil, integration.ErrFeedNotConfigured
	}
	if orderID == "" {
		return nil, integration.ErrFeedOrderNotFound
	}

	endpoint := a.config.BaseURL + "/api/v2/orders/" + url.PathEscape(orderID)

	respBody, err := a.doAuthorized(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var resp shopOrderDetailResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse order detail: %v", integration.ErrFeedInvalidResponse, err)
	}
	if resp.Order == nil {
		return nil, integration.ErrFeedOrderNotFound
	}

	order := convertShopOrder(resp.Order)
	return &order, nil
}

// ---------------------------------------------------------------------------
// Token handling
// ---------------------------------------------------------------------------

// ensureToken returns a token valid past the refresh margin, exchanging
// or refreshing through the shop's OAuth endpoint as needed
func (a *ShopFeedAdapter) ensureToken(ctx context.Context) (string, error) {
	token, err := a.tokens.FindByAccount(ctx, a.config.AccountID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return "", err
	}

	if token != nil && !token.IsExpiringWithin(a.config.TokenRefreshMargin) {
		return token.AccessToken, nil
	}

	// Prefer the refresh grant when we hold a refresh token
	if token != nil && token.RefreshToken != "" {
		resp, refreshErr := a.requestToken(ctx, url.Values{
			"grant_type":    {"refresh_token"},
			"refresh_token": {token.RefreshToken},
		})
		if refreshErr == nil {
			token.Rotate(resp.AccessToken, resp.RefreshToken, expiryFrom(resp))
			if err := a.tokens.Save(ctx, token); err != nil {
				return "", err
			}
			return token.AccessToken, nil
		}
		if !errors.Is(refreshErr, integration.ErrFeedAuthFailed) {
			return "", refreshErr
		}
		// Refresh token rejected, fall through to a fresh exchange
	}

	resp, err := a.requestToken(ctx, url.Values{
		"grant_type": {"client_credentials"},
	})
	if err != nil {
		return "", err
	}

	if token == nil {
		token = integration.NewFeedToken(a.config.AccountID, resp.AccessToken, resp.RefreshToken, expiryFrom(resp))
	} else {
		token.Rotate(resp.AccessToken, resp.RefreshToken, expiryFrom(resp))
	}
	if err := a.tokens.Save(ctx, token); err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// requestToken calls the shop's OAuth token endpoint
func (a *ShopFeedAdapter) requestToken(ctx context.Context, form url.Values) (*shopTokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.config.BaseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("shopfeed: failed to create token request: %w", err)
	}
	req.SetBasicAuth(a.config.ClientID, a.config.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedResponseSize))
	if err != nil {
		return nil, fmt.Errorf("shopfeed: failed to read token response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: %s", integration.ErrFeedAuthFailed, feedErrorMessage(body))
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrFeedRequestFailed, resp.StatusCode)
	}

	var tokenResp shopTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse token response: %v", integration.ErrFeedInvalidResponse, err)
	}
	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response has no access token", integration.ErrFeedInvalidResponse)
	}
	return &tokenResp, nil
}

// expiryFrom converts expires_in seconds to an absolute expiry
func expiryFrom(resp *shopTokenResponse) time.Time {
	expiresIn := resp.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}

// ---------------------------------------------------------------------------
// HTTP plumbing
// ---------------------------------------------------------------------------

// doAuthorized performs an authenticated GET. A 401 on a cached token
// triggers one forced re-exchange before giving up.
func (a *ShopFeedAdapter) doAuthorized(ctx context.Context, endpoint string) ([]byte, error) {
	accessToken, err := a.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	body, err := a.doRequest(ctx, endpoint, accessToken)
	if err == nil || !errors.Is(err, integration.ErrFeedTokenExpired) {
		return body, err
	}

	// Cached token was revoked server-side; force a fresh exchange
	accessToken, tokenErr := a.reauthenticate(ctx)
	if tokenErr != nil {
		return nil, tokenErr
	}
	return a.doRequest(ctx, endpoint, accessToken)
}

// reauthenticate discards the cached token and exchanges a new one
func (a *ShopFeedAdapter) reauthenticate(ctx context.Context) (string, error) {
	resp, err := a.requestToken(ctx, url.Values{
		"grant_type": {"client_credentials"},
	})
	if err != nil {
		return "", err
	}

	token, findErr := a.tokens.FindByAccount(ctx, a.config.AccountID)
	if findErr != nil && !errors.Is(findErr, shared.ErrNotFound) {
		return "", findErr
	}
	if token == nil {
		token = integration.NewFeedToken(a.config.AccountID, resp.AccessToken, resp.RefreshToken, expiryFrom(resp))
	} else {
		token.Rotate(resp.AccessToken, resp.RefreshToken, expiryFrom(resp))
	}
	if err := a.tokens.Save(ctx, token); err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// doRequest performs one GET against the shop API and maps HTTP-level
// failures to feed errors
func (a *ShopFeedAdapter) doRequest(ctx context.Context, endpoint, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("shopfeed: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedResponseSize))
	if err != nil {
		return nil, fmt.Errorf("shopfeed: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: %s", integration.ErrFeedTokenExpired, feedErrorMessage(body))
	case resp.StatusCode == http.StatusNotFound:
		return nil, integration.ErrFeedOrderNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, integration.ErrFeedRateLimited
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrFeedUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: HTTP %d %s", integration.ErrFeedRequestFailed, resp.StatusCode, feedErrorMessage(body))
	}

	return body, nil
}

// feedErrorMessage extracts the error message from the shop's error
// envelope, falling back to empty
func feedErrorMessage(body []byte) string {
	var errResp shopErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}
	if errResp.Error.Code == "" {
		return errResp.Error.Message
	}
	return errResp.Error.Code + " " + errResp.Error.Message
}

// ---------------------------------------------------------------------------
// Conversion
// ---------------------------------------------------------------------------

// convertShopOrder converts a wire order to the domain snapshot
func convertShopOrder(o *shopOrder) integration.RemoteOrder {
	order := integration.RemoteOrder{
		OrderID: o.OrderID,
		Status:  mapShopOrderStatus(o.StatusCode),
		Buyer:   o.BuyerName,
		Items:   make([]integration.RemoteOrderItem, 0, len(o.Items)),
	}

	if o.OrderedAt != "" {
		if t, err := time.Parse(feedTimeFormat, o.OrderedAt); err == nil {
			order.OrderedAt = t
		}
	}
	if o.PaidAt != "" {
		if t, err := time.Parse(feedTimeFormat, o.PaidAt); err == nil {
			order.PaidAt = &t
		}
	}

	for _, item := range o.Items {
		order.Items = append(order.Items, integration.RemoteOrderItem{
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			Quantity:    ParseFeedDecimal(item.Quantity),
			UnitPrice:   item.UnitPrice,
		})
	}
	return order
}

// mapShopOrderStatus maps the shop's status codes to feed statuses.
// Unknown codes pass through so validation can name them.
func mapShopOrderStatus(code string) integration.RemoteOrderStatus {
	switch code {
	case "N00", "awaiting_payment":
		return integration.RemoteOrderStatusUnpaid
	case "N10", "N20", "N30", "paid", "preparing", "shipped":
		return integration.RemoteOrderStatusPaid
	case "C40", "canceled", "refunded":
		return integration.RemoteOrderStatusCanceled
	default:
		return integration.RemoteOrderStatus(code)
	}
}

// mapToShopStatusCodes builds the order_status query parameter
func mapToShopStatusCodes(statuses []integration.RemoteOrderStatus) string {
	codes := make([]string, 0, len(statuses))
	for _, s := range statuses {
		switch s {
		case integration.RemoteOrderStatusUnpaid:
			codes = append(codes, "N00")
		case integration.RemoteOrderStatusPaid:
			codes = append(codes, "N10")
		case integration.RemoteOrderStatusCanceled:
			codes = append(codes, "C40")
		}
	}
	return strings.Join(codes, ",")
}

// Ensure ShopFeedAdapter implements the OrderFeed port
var _ integration.OrderFeed = (*ShopFeedAdapter)(nil)

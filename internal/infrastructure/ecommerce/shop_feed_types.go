package ecommerce

import (
	"github.com/shopspring/decimal"
)

// shopTokenResponse is the token endpoint response
type shopTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// shopErrorResponse is the error envelope the shop API returns on 4xx
type shopErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// shopOrderListResponse is the order list endpoint response
type shopOrderListResponse struct {
	Orders []shopOrder `json:"orders"`
	Total  int         `json:"total"`
}

// shopOrderDetailResponse is the single order endpoint response
type shopOrderDetailResponse struct {
	Order *shopOrder `json:"order"`
}

// shopOrder is an order as the shop API serializes it
type shopOrder struct {
	OrderID    string          `json:"order_id"`
	StatusCode string          `json:"order_status"`
	BuyerName  string          `json:"buyer_name"`
	OrderedAt  string          `json:"ordered_at"`
	PaidAt     string          `json:"paid_at"`
	Items      []shopOrderItem `json:"items"`
}

// shopOrderItem is one line of a shop order. Quantity comes over the
// wire as a string to avoid float rounding.
type shopOrderItem struct {
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
	Quantity    string `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

// ParseFeedDecimal parses a decimal string from the shop API, returning
// zero on malformed input
func ParseFeedDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

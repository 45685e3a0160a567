package gateways

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/giovaniif/order-inventory/infra/requestid"
	"github.com/giovaniif/order-inventory/infra/tracing"
	infra "github.com/giovaniif/order-inventory/order/infra"
	protocols "github.com/giovaniif/order-inventory/order/protocols"
)

const maxStockResponseBytes = 1 << 20

type InventoryGatewayHttp struct {
	baseURL    string
	httpClient *http.Client
}

func NewInventoryGatewayHttp(baseURL string, httpClient *http.Client) *InventoryGatewayHttp {
	return &InventoryGatewayHttp{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// GetStock makes exactly one request to the inventory service.
func (g *InventoryGatewayHttp) GetStock(ctx context.Context, productId string) (*protocols.Stock, error) {
	if err := ctx.Err(); err != nil {
		return nil, classifyTransportError(err)
	}

	target := g.baseURL + "/api/inventory/" + url.PathEscape(productId)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, infra.NewNetworkError(fmt.Sprintf("building request: %v", err))
	}
	req.Header.Set("Accept", "application/json")
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}
	tracing.Inject(ctx, req.Header)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGatewayTimeout {
		return nil, infra.NewTimeoutError("inventory timed out looking up " + productId)
	}
	if resp.StatusCode >= 500 && resp.StatusCode <= 599 {
		return nil, infra.NewNetworkError(fmt.Sprintf("inventory returned %d for %s", resp.StatusCode, productId))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, infra.NewUnexpectedStatusError(resp.StatusCode, "looking up "+productId)
	}

	var stock *protocols.Stock
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxStockResponseBytes)).Decode(&stock); err != nil {
		return nil, infra.NewMalformedResponseError(err.Error())
	}
	if stock == nil {
		return nil, infra.NewMalformedResponseError("empty stock record")
	}
	return stock, nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return infra.NewTimeoutError(err.Error())
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return infra.NewTimeoutError(err.Error())
	}
	return infra.NewNetworkError(err.Error())
}

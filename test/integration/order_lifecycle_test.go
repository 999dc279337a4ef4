package integration_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/windikite/MP5-E-CommerceAPI/internal/httpapi"
	"github.com/windikite/MP5-E-CommerceAPI/internal/metrics"
	"github.com/windikite/MP5-E-CommerceAPI/internal/service/orders"
	"github.com/windikite/MP5-E-CommerceAPI/internal/storage/memory"
)

// Полный жизненный цикл заказа через HTTP API на in-memory хранилище:
// покупатель и товар создаются, заказ оформляется, доставка отмечается,
// удаление покупателя сносит заказ каскадом.
func TestOrderLifecycle(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	store := memory.NewStore()
	registry := prometheus.NewRegistry()
	service := orders.NewService(
		store.Customers, store.Products, store.Orders, store.Timeline,
		logger, metrics.NewOrderMetrics(registry),
	)
	ts := httptest.NewServer(httpapi.NewServer(httpapi.ServerConfig{
		Customers:   store.Customers,
		Products:    store.Products,
		Accounts:    store.Accounts,
		Orders:      service,
		Idempotency: memory.NewIdempotencyRepository(),
		Logger:      logger,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
	}))
	defer ts.Close()

	post := func(path string, payload any) map[string]any {
		t.Helper()
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var decoded map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
		return decoded
	}

	customer := post("/customers", map[string]any{
		"name": "Иван Петров", "email": "ivan@example.com", "phone": "+79991234567",
	})
	product := post("/products", map[string]any{
		"name": "Ноутбук", "price": 999.9, "stock": 2,
	})

	order := post("/orders", map[string]any{
		"customer_id": customer["id"],
		"product_ids": []any{product["id"]},
	})
	require.Equal(t, "not shipped", order["shipping_status"])

	// Отмечаем доставку.
	update, err := json.Marshal(map[string]any{
		"order_date":        order["order_date"],
		"expected_delivery": order["expected_delivery"],
		"shipping_status":   "delivered",
	})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/orders/"+order["id"].(string), bytes.NewReader(update))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Каскадное удаление покупателя.
	req, err = http.NewRequest(http.MethodDelete, ts.URL+"/customers/"+customer["id"].(string), nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/orders/" + order["id"].(string))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

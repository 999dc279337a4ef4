package httpapi

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
	"github.com/windikite/MP5-E-CommerceAPI/internal/metrics"
	"github.com/windikite/MP5-E-CommerceAPI/internal/service/orders"
)

// Server — HTTP-интерфейс сервиса: CRUD по покупателям, товарам и учётным
// записям работает напрямую с репозиториями, заказы идут через Service.
type Server struct {
	customers   domain.CustomerRepository
	products    domain.ProductRepository
	accounts    domain.AccountRepository
	orders      *orders.Service
	idempotency domain.IdempotencyRepository
	logger      *log.Entry
	httpMetrics *metrics.HTTPMetrics
	mux         *http.ServeMux
}

type ServerConfig struct {
	Customers   domain.CustomerRepository
	Products    domain.ProductRepository
	Accounts    domain.AccountRepository
	Orders      *orders.Service
	Idempotency domain.IdempotencyRepository
	Logger      *log.Logger
	HTTPMetrics *metrics.HTTPMetrics
}

func NewServer(cfg ServerConfig) *Server {
	s := &Server{
		customers:   cfg.Customers,
		products:    cfg.Products,
		accounts:    cfg.Accounts,
		orders:      cfg.Orders,
		idempotency: cfg.Idempotency,
		logger:      cfg.Logger.WithField("component", "http_server"),
		httpMetrics: cfg.HTTPMetrics,
		mux:         http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.handle("POST /customers", s.createCustomer)
	s.handle("GET /customers", s.listCustomers)
	s.handle("GET /customers/{id}", s.getCustomer)
	s.handle("PUT /customers/{id}", s.updateCustomer)
	s.handle("DELETE /customers/{id}", s.deleteCustomer)
	s.handle("GET /customers/{id}/orders", s.listCustomerOrders)

	s.handle("POST /products", s.createProduct)
	s.handle("GET /products", s.listProducts)
	s.handle("GET /products/{id}", s.getProduct)
	s.handle("PUT /products/{id}", s.updateProduct)
	s.handle("DELETE /products/{id}", s.deleteProduct)

	s.handle("POST /accounts", s.createAccount)
	s.handle("GET /accounts", s.listAccounts)
	s.handle("GET /accounts/{id}", s.getAccount)
	s.handle("PUT /accounts/{id}", s.updateAccount)
	s.handle("DELETE /accounts/{id}", s.deleteAccount)

	s.handle("POST /orders", s.placeOrder)
	s.handle("GET /orders", s.listOrders)
	s.handle("GET /orders/{id}", s.getOrder)
	s.handle("PUT /orders/{id}", s.updateOrder)
	s.handle("DELETE /orders/{id}", s.deleteOrder)
}

func (s *Server) handle(route string, handler http.HandlerFunc) {
	s.mux.HandleFunc(route, withObservability(route, s.logger, s.httpMetrics, handler))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

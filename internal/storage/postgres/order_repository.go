package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
// Заказ и его позиции пишутся в одной транзакции: либо сохраняется всё,
// либо ничего.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(order domain.Order) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, order_date, expected_delivery, shipping_status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		order.ID, order.CustomerID, order.OrderDate, order.ExpectedDelivery,
		order.ShippingStatus, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrCustomerNotFound
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, line := range order.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_lines (order_id, product_id, quantity, price, created_at)
			VALUES ($1,$2,$3,$4,$5)
		`,
			order.ID, line.ProductID, line.Quantity, line.Price, line.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order line (product %s): %w", line.ProductID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit order tx: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var order domain.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, order_date, expected_delivery, shipping_status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.CustomerID, &order.OrderDate, &order.ExpectedDelivery,
		&order.ShippingStatus, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	lines, err := r.loadLines(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Lines = lines

	return order, nil
}

func (r *orderRepository) List() ([]domain.Order, error) {
	return r.listWhere(``)
}

func (r *orderRepository) ListByCustomer(customerID string) ([]domain.Order, error) {
	return r.listWhere(customerID)
}

// listWhere загружает заказы (все или по клиенту) вместе с позициями.
// Позиции дотягиваются одним запросом и раскладываются по заказам в памяти.
func (r *orderRepository) listWhere(customerID string) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := `
		SELECT id, customer_id, order_date, expected_delivery, shipping_status, created_at, updated_at
		FROM orders
	`
	args := []any{}
	if customerID != "" {
		query += ` WHERE customer_id = $1`
		args = append(args, customerID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	index := make(map[string]int)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID, &order.CustomerID, &order.OrderDate, &order.ExpectedDelivery,
			&order.ShippingStatus, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		order.Lines = make([]domain.OrderLine, 0)
		index[order.ID] = len(orders)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	lineQuery := `
		SELECT order_id, product_id, quantity, price, created_at
		FROM order_lines
	`
	lineArgs := []any{}
	if customerID != "" {
		lineQuery += ` WHERE order_id IN (SELECT id FROM orders WHERE customer_id = $1)`
		lineArgs = append(lineArgs, customerID)
	}
	lineQuery += ` ORDER BY created_at ASC, product_id ASC`

	lineRows, err := r.db.QueryContext(ctx, lineQuery, lineArgs...)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var (
			orderID string
			line    domain.OrderLine
		)
		if err := lineRows.Scan(&orderID, &line.ProductID, &line.Quantity, &line.Price, &line.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order line row: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Lines = append(orders[i].Lines, line)
		}
	}
	if err := lineRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order line rows: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) loadLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, quantity, price, created_at
		FROM order_lines
		WHERE order_id = $1
		ORDER BY created_at ASC, product_id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select order lines: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.OrderLine, 0)
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.Price, &line.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}

	return lines, nil
}

// Update меняет только изменяемые поля заказа. Позиции неизменяемы после
// оформления и здесь не трогаются.
func (r *orderRepository) Update(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET order_date = $1,
		    expected_delivery = $2,
		    shipping_status = $3,
		    updated_at = $4
		WHERE id = $5
	`,
		order.OrderDate, order.ExpectedDelivery, order.ShippingStatus, order.UpdatedAt, order.ID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

// Delete удаляет заказ; позиции и таймлайн уходят каскадом по внешним ключам.
func (r *orderRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)

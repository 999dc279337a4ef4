package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository создаёт PostgreSQL-реализацию CustomerRepository.
// Каскадные удаления (заказы, позиции, таймлайн, учётная запись) выполняет
// база через внешние ключи с ON DELETE CASCADE.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepository{db: store.DB()}
}

func (r *customerRepository) Create(customer domain.Customer) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		customer.ID, customer.Name, customer.Email, customer.Phone,
		customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert customer: %w", err)
	}

	return nil
}

func (r *customerRepository) Get(id string) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var customer domain.Customer
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, created_at, updated_at
		FROM customers
		WHERE id = $1
	`, id).Scan(
		&customer.ID, &customer.Name, &customer.Email, &customer.Phone,
		&customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}

	return customer, nil
}

func (r *customerRepository) List() ([]domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, phone, created_at, updated_at
		FROM customers
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		var customer domain.Customer
		if err := rows.Scan(
			&customer.ID, &customer.Name, &customer.Email, &customer.Phone,
			&customer.CreatedAt, &customer.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}

	return customers, nil
}

func (r *customerRepository) Update(customer domain.Customer) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE customers
		SET name = $1,
		    email = $2,
		    phone = $3,
		    updated_at = $4
		WHERE id = $5
	`,
		customer.Name, customer.Email, customer.Phone, customer.UpdatedAt, customer.ID,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

func (r *customerRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

var _ domain.CustomerRepository = (*customerRepository)(nil)

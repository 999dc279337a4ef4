package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
// Reserve реализован условным UPDATE (stock >= qty) с проверкой числа
// затронутых строк: база сериализует конкурентные списания по строке товара.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Create(product domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, price, stock, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		product.ID, product.Name, product.Price, product.Stock,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		if pgErrorCode(err) == pgCheckViolation {
			return domain.FieldError{Field: "stock", Message: "price and stock must be non-negative"}
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r *productRepository) Get(id string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var product domain.Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, price, stock, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(
		&product.ID, &product.Name, &product.Price, &product.Stock,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}

	return product, nil
}

func (r *productRepository) List() ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price, stock, created_at, updated_at
		FROM products
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Price, &product.Stock,
			&product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

func (r *productRepository) Update(product domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1,
		    price = $2,
		    stock = $3,
		    updated_at = $4
		WHERE id = $5
	`,
		product.Name, product.Price, product.Stock, product.UpdatedAt, product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// Delete удаляет товар. Внешнего ключа из order_lines на products нет,
// поэтому исторические позиции заказов остаются нетронутыми.
func (r *productRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// Reserve атомарно списывает qty единиц: проверка остатка и декремент —
// один условный UPDATE, конкурентные вызовы не могут оба пройти на
// последней единице.
func (r *productRepository) Reserve(productID string, qty int) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - $2,
		    updated_at = NOW()
		WHERE id = $1
		  AND stock >= $2
	`, productID, qty)
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Ни одной строки: либо товара нет, либо остатка не хватило.
	var available int
	err = r.db.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("check product stock: %w", err)
	}

	return &domain.InsufficientStockError{
		ProductID: productID,
		Requested: qty,
		Available: available,
	}
}

// Release — компенсирующее начисление остатка.
func (r *productRepository) Release(productID string, qty int) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock = stock + $2,
		    updated_at = NOW()
		WHERE id = $1
	`, productID, qty)
	if err != nil {
		return fmt.Errorf("release stock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

var _ domain.ProductRepository = (*productRepository)(nil)

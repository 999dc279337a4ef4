package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

type accountRepository struct {
	db *sql.DB
}

// NewAccountRepository создаёт PostgreSQL-реализацию AccountRepository.
// Уникальность логина обеспечивает constraint customer_accounts_username_key,
// принадлежность клиенту — внешний ключ на customers.
func NewAccountRepository(store *Store) domain.AccountRepository {
	return &accountRepository{db: store.DB()}
}

func (r *accountRepository) Create(account domain.CustomerAccount) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customer_accounts (id, username, password, customer_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		account.ID, account.Username, account.Password, account.CustomerID,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return mapAccountWriteError(err, "insert account")
	}

	return nil
}

func (r *accountRepository) Get(id string) (domain.CustomerAccount, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var account domain.CustomerAccount
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password, customer_id, created_at, updated_at
		FROM customer_accounts
		WHERE id = $1
	`, id).Scan(
		&account.ID, &account.Username, &account.Password, &account.CustomerID,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CustomerAccount{}, domain.ErrAccountNotFound
		}
		return domain.CustomerAccount{}, fmt.Errorf("select account: %w", err)
	}

	return account, nil
}

func (r *accountRepository) List() ([]domain.CustomerAccount, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, password, customer_id, created_at, updated_at
		FROM customer_accounts
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.CustomerAccount, 0)
	for rows.Next() {
		var account domain.CustomerAccount
		if err := rows.Scan(
			&account.ID, &account.Username, &account.Password, &account.CustomerID,
			&account.CreatedAt, &account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}

	return accounts, nil
}

func (r *accountRepository) Update(account domain.CustomerAccount) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE customer_accounts
		SET username = $1,
		    password = $2,
		    customer_id = $3,
		    updated_at = $4
		WHERE id = $5
	`,
		account.Username, account.Password, account.CustomerID, account.UpdatedAt, account.ID,
	)
	if err != nil {
		return mapAccountWriteError(err, "update account")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func (r *accountRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM customer_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// mapAccountWriteError переводит коды PostgreSQL в доменные ошибки:
// 23505 по логину — занятое имя, 23503 — несуществующий клиент.
func mapAccountWriteError(err error, op string) error {
	if isUniqueViolation(err) {
		if strings.Contains(pgConstraintName(err), "username") {
			return domain.ErrUsernameTaken
		}
		return domain.ErrAlreadyExists
	}
	if isForeignKeyViolation(err) {
		return domain.ErrCustomerNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ domain.AccountRepository = (*accountRepository)(nil)

package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Gen1023/financial-products/internal/domain"
)

const productColumns = `id, name, description, logo, date_release, date_revision`

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// List returns every product, oldest first.
func (r *ProductRepo) List() ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `SELECT `+productColumns+` FROM products ORDER BY created_at, rowid`)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, err
}

func (r *ProductRepo) Exists(id string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ProductRepo) Create(p domain.Product) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.Get(&n, `SELECT COUNT(*) FROM products WHERE id = ?`, p.ID); err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicate, p.ID)
	}
	if _, err := tx.NamedExec(`
		INSERT INTO products(`+productColumns+`)
		VALUES(:id, :name, :description, :logo, :date_release, :date_revision)
	`, p); err != nil {
		return err
	}
	return tx.Commit()
}

// Update replaces every field of the product stored under p.ID.
func (r *ProductRepo) Update(p domain.Product) error {
	res, err := r.db.NamedExec(`
		UPDATE products SET
		  name = :name, description = :description, logo = :logo,
		  date_release = :date_release, date_revision = :date_revision,
		  updated_at = CURRENT_TIMESTAMP
		WHERE id = :id
	`, p)
	if err != nil {
		return err
	}
	return expectOne(res, p.ID)
}

func (r *ProductRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOne(res, id)
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

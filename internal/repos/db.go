package repos

import (
	"errors"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Gen1023/financial-products/internal/log"
)

var (
	ErrNotFound  = errors.New("product not found")
	ErrDuplicate = errors.New("product id already exists")
)

// OpenDB opens the stand-in backend store and creates the schema. With seed
// set, a few demo products are inserted when missing.
func OpenDB(dsn string, seed bool) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one connection: SQLite has a single writer and :memory: is per connection
	db.SetMaxOpenConns(1)
	if err := prepare(db, seed); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func prepare(db *sqlx.DB, seed bool) error {
	if err := db.Ping(); err != nil {
		return err
	}
	if err := ensureSchema(db); err != nil {
		return err
	}
	if seed {
		return seedDefaultData(db)
	}
	return nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  logo TEXT NOT NULL,
  date_release TEXT NOT NULL,
  date_revision TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_name ON products(LOWER(name));
`
	_, err := db.Exec(schema)
	return err
}

// seedDefaultData inserts the demo products that are not present yet.
// Safe to run on every startup.
func seedDefaultData(db *sqlx.DB) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		INSERT INTO products(id, name, description, logo, date_release, date_revision)
		VALUES
		  ('trj-crd', 'Tarjeta de Crédito', 'Tarjeta de consumo bajo la modalidad de crédito', 'https://www.visa.com.ec/dam/VCOM/regional/lac/SPA/Default/Pay%20With%20Visa/Tarjetas/visa-signature-400x225.jpg', '2024-01-01', '2025-01-01'),
		  ('cta-aho', 'Cuenta de Ahorros', 'Cuenta de ahorros con tasa preferencial y sin costo de mantenimiento', 'https://placehold.co/300x150?text=Ahorros', '2024-02-15', '2025-02-15'),
		  ('cdt-90d', 'Depósito a Plazo 90', 'Inversión a plazo fijo de noventa días con interés al vencimiento', 'https://placehold.co/300x150?text=CDT', '2024-03-01', '2025-03-01'),
		  ('fnd-inv', 'Fondo de Inversión', 'Fondo de inversión diversificado de renta fija y variable', 'https://placehold.co/300x150?text=Fondo', '2024-04-10', '2025-04-10'),
		  ('seg-vid', 'Seguro de Vida', 'Seguro de vida con cobertura por fallecimiento e invalidez', 'https://placehold.co/300x150?text=Seguro', '2024-05-20', '2025-05-20'),
		  ('cre-hip', 'Crédito Hipotecario', 'Financiamiento para vivienda con plazo de hasta veinte años', 'https://placehold.co/300x150?text=Hipoteca', '2024-06-01', '2025-06-01')
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Logger().Info().Int64("rows", n).Str("action", "seed").Msg("inserted demo products")
	}
	return tx.Commit()
}

package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/marcboeker/go-duckdb"

	"github.com/MakeNewCode/project-maps-webapp/internal/models"
)

// DuckStore keeps orders in an in-memory DuckDB database. Nothing is written
// to disk; the collection is lost when the store is closed.
type DuckStore struct {
	db  *sql.DB
	mu  sync.Mutex // serialises id allocation
	now func() time.Time
}

// NewDuckStore opens an in-memory database and loads records into it.
func NewDuckStore(ctx context.Context, records []models.Cargo) (*DuckStore, error) {
	connector, err := duckdb.NewConnector("", func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)
	// Every connection to "" is a separate database.
	db.SetMaxOpenConns(1)

	_, err = db.ExecContext(ctx, `
		CREATE TABLE orders (
			seq               INTEGER NOT NULL,
			id                INTEGER PRIMARY KEY,
			origen            VARCHAR NOT NULL,
			destino           VARCHAR NOT NULL,
			km                VARCHAR,
			comision          VARCHAR,
			precio            VARCHAR NOT NULL,
			forma_pago        VARCHAR,
			descripcion_carga VARCHAR,
			fecha_creacion    TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	s := &DuckStore{db: db, now: time.Now}
	for i, c := range records {
		if err := s.insert(ctx, i+1, c); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed order %d: %w", c.ID, err)
		}
	}
	return s, nil
}

func (s *DuckStore) insert(ctx context.Context, seq int, c models.Cargo) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO orders VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seq, c.ID, c.Origin, c.Destination, c.Km, c.Commission, c.Price,
		string(c.PaymentMethod), c.Description, c.CreatedAt.UTC(),
	)
	return err
}

const selectColumns = `id, origen, destino, km, comision, precio, forma_pago, descripcion_carga, fecha_creacion`

type scanner interface {
	Scan(dest ...any) error
}

func scanCargo(row scanner) (models.Cargo, error) {
	var (
		c       models.Cargo
		km      sql.NullString
		comm    sql.NullString
		payment sql.NullString
		desc    sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Origin, &c.Destination, &km, &comm, &c.Price, &payment, &desc, &c.CreatedAt); err != nil {
		return models.Cargo{}, err
	}
	c.Km = km.String
	c.Commission = comm.String
	c.PaymentMethod = models.PaymentMethod(payment.String)
	c.Description = desc.String
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

// List returns every order in insertion order.
func (s *DuckStore) List(ctx context.Context) ([]models.Cargo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM orders ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	out := make([]models.Cargo, 0)
	for rows.Next() {
		c, err := scanCargo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get retrieves an order by id.
func (s *DuckStore) Get(ctx context.Context, id int) (models.Cargo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM orders WHERE id = ?`, id)
	c, err := scanCargo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Cargo{}, notFound(id)
	}
	if err != nil {
		return models.Cargo{}, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	return c, nil
}

// Create appends c with id max(id)+1.
func (s *DuckStore) Create(ctx context.Context, c models.Cargo) (models.Cargo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var nextID, nextSeq int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(id), 0) + 1, COALESCE(MAX(seq), 0) + 1 FROM orders`,
	).Scan(&nextID, &nextSeq)
	if err != nil {
		return models.Cargo{}, fmt.Errorf("failed to allocate id: %w", err)
	}

	c.ID = nextID
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC().Truncate(time.Second)
	}
	if err := s.insert(ctx, nextSeq, c); err != nil {
		return models.Cargo{}, fmt.Errorf("failed to create order: %w", err)
	}
	return c, nil
}

// Update replaces the editable fields of the order with c.ID.
func (s *DuckStore) Update(ctx context.Context, c models.Cargo) (models.Cargo, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders SET origen = ?, destino = ?, km = ?, comision = ?, precio = ?,
			forma_pago = ?, descripcion_carga = ?
		WHERE id = ?`,
		c.Origin, c.Destination, c.Km, c.Commission, c.Price,
		string(c.PaymentMethod), c.Description, c.ID,
	)
	if err != nil {
		return models.Cargo{}, fmt.Errorf("failed to update order %d: %w", c.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Cargo{}, notFound(c.ID)
	}
	return s.Get(ctx, c.ID)
}

// Delete removes an order.
func (s *DuckStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(id)
	}
	return nil
}

// Close closes the database.
func (s *DuckStore) Close() error {
	return s.db.Close()
}

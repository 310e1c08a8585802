package density

import (
	"context"
	"database/sql"
	_ "embed"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

var pragmas = []string{
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=MEMORY",
	"PRAGMA foreign_keys=ON",
}

// ErrGridNotFound is returned by LoadSQLite when the file holds no grid with the requested name
var ErrGridNotFound = errors.New("grid not found")

func openStore(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open grid store %s", path)
	}
	// pragmas are per connection
	db.SetMaxOpenConns(1)

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return nil, multierr.Append(errors.Wrap(err, pragma), db.Close())
		}
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return nil, multierr.Append(errors.Wrap(err, "cannot initialize grid store schema"), db.Close())
	}

	return db, nil
}

// SaveSQLite writes grids to the sqlite file at path, creating it when needed. A grid already
// stored under the same name is replaced.
func SaveSQLite(ctx context.Context, path string, grids ...*Grid) (err error) {
	db, err := openStore(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, db.Close())
	}()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin grid store tx")
	}
	defer tx.Rollback()

	for _, grid := range grids {
		if err := saveGrid(ctx, tx, grid); err != nil {
			return errors.WithMessagef(err, "grid %s", grid.Name())
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit grid store tx")
	}
	return nil
}

func saveGrid(ctx context.Context, tx *sql.Tx, grid *Grid) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM voxels WHERE grid = ?`, grid.Name()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM grids WHERE name = ?`, grid.Name()); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO grids (name, voxels_per_unit, voxel_size, grid_class) VALUES (?, ?, ?, ?)`,
		grid.Name(), float64(grid.VoxelsPerUnit()), grid.VoxelSize(), GridClassStaggered,
	)
	if err != nil {
		return err
	}

	insert, err := tx.PrepareContext(ctx, `INSERT INTO voxels (grid, x, y, z, value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insert.Close()

	err = grid.ForEach(func(c Coord, value float32) error {
		_, err := insert.ExecContext(ctx, grid.Name(), c.X, c.Y, c.Z, float64(value))
		return err
	})
	if err != nil {
		return err
	}

	glog.V(1).Infof("> stored grid %s with %d active voxels", grid.Name(), grid.Len())
	return nil
}

// LoadSQLite reads back the grid stored under name in the sqlite file at path
func LoadSQLite(ctx context.Context, path, name string) (grid *Grid, err error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "cannot open grid store %s", path)
	}

	db, err := openStore(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, db.Close())
	}()

	var voxelsPerUnit float64
	row := db.QueryRowContext(ctx, `SELECT voxels_per_unit FROM grids WHERE name = ?`, name)
	if err := row.Scan(&voxelsPerUnit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrGridNotFound, "%s in %s", name, path)
		}
		return nil, errors.Wrap(err, "cannot read grid header")
	}

	grid = NewGrid(name, float32(voxelsPerUnit))

	rows, err := db.QueryContext(ctx, `SELECT x, y, z, value FROM voxels WHERE grid = ?`, name)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read voxels")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c     Coord
			value float64
		)
		if err := rows.Scan(&c.X, &c.Y, &c.Z, &value); err != nil {
			return nil, errors.Wrap(err, "cannot read voxel")
		}
		grid.Add(c, float32(value))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot read voxels")
	}

	return grid, nil
}

package regionstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"houseregions.ai/internal/housing/geometry"
)

// SQLite persists regions in a single-connection sqlite database.
type SQLite struct {
	db      *sql.DB
	worldID string
}

var _ Store = (*SQLite)(nil)

func OpenSQLite(path, worldID string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db, worldID: worldID}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS regions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			world_id TEXT NOT NULL,
			owner TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			priority INTEGER NOT NULL,
			UNIQUE (world_id, name)
		);`,
		`CREATE TABLE IF NOT EXISTS region_users (
			region_id INTEGER NOT NULL REFERENCES regions(id) ON DELETE CASCADE,
			user_name TEXT NOT NULL,
			PRIMARY KEY (region_id, user_name)
		);`,
		`CREATE TABLE IF NOT EXISTS region_groups (
			region_id INTEGER NOT NULL REFERENCES regions(id) ON DELETE CASCADE,
			group_name TEXT NOT NULL,
			PRIMARY KEY (region_id, group_name)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_regions_owner ON regions(world_id, owner);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) regionID(ctx context.Context, q querier, name string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM regions WHERE world_id=? AND name=?`, s.worldID, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return id, err
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLite) AddRegion(ctx context.Context, r Region) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := s.regionID(ctx, tx, r.Name); err == nil {
		return ErrExists
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO regions(name,world_id,owner,x,y,width,height,priority) VALUES(?,?,?,?,?,?,?,?)`,
		r.Name, s.worldID, r.Owner, r.Area.X, r.Area.Y, r.Area.Width, r.Area.Height, r.Priority,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for _, u := range r.AllowedUsers {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO region_users(region_id,user_name) VALUES(?,?)`, id, u); err != nil {
			return err
		}
	}
	for _, g := range r.AllowedGroups {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO region_groups(region_id,group_name) VALUES(?,?)`, id, g); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLite) DeleteRegion(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM regions WHERE world_id=? AND name=?`, s.worldID, name)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (s *SQLite) ResizeRegion(ctx context.Context, name string, amount int, dir geometry.Direction) error {
	var stmt string
	switch dir {
	case geometry.Up:
		stmt = `UPDATE regions SET y=y-?1, height=height+?1 WHERE world_id=?2 AND name=?3`
	case geometry.Down:
		stmt = `UPDATE regions SET height=height+?1 WHERE world_id=?2 AND name=?3`
	case geometry.Left:
		stmt = `UPDATE regions SET x=x-?1, width=width+?1 WHERE world_id=?2 AND name=?3`
	case geometry.Right:
		stmt = `UPDATE regions SET width=width+?1 WHERE world_id=?2 AND name=?3`
	default:
		return fmt.Errorf("resize %s: invalid direction %d", name, int(dir))
	}
	res, err := s.db.ExecContext(ctx, stmt, amount, s.worldID, name)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (s *SQLite) RenameAndReown(ctx context.Context, name, newName, newOwner string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if newName != name {
		if _, err := s.regionID(ctx, tx, newName); err == nil {
			return ErrExists
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `UPDATE regions SET name=?, owner=? WHERE world_id=? AND name=?`, newName, newOwner, s.worldID, name)
	if err != nil {
		return err
	}
	if err := expectRow(res); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLite) GetByName(ctx context.Context, name string) (Region, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,name,world_id,owner,x,y,width,height,priority FROM regions WHERE world_id=? AND name=?`, s.worldID, name)
	id, r, err := scanRegion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Region{}, false, nil
	}
	if err != nil {
		return Region{}, false, err
	}
	if err := s.loadAccess(ctx, map[int64]*Region{id: &r}); err != nil {
		return Region{}, false, err
	}
	return r, true, nil
}

func (s *SQLite) ListAll(ctx context.Context) ([]Region, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,name,world_id,owner,x,y,width,height,priority FROM regions WHERE world_id=? ORDER BY id`, s.worldID)
	if err != nil {
		return nil, err
	}
	var (
		ids []int64
		out []Region
	)
	for rows.Next() {
		id, r, err := scanRegion(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	byID := make(map[int64]*Region, len(out))
	for i := range out {
		byID[ids[i]] = &out[i]
	}
	if err := s.loadAccess(ctx, byID); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLite) loadAccess(ctx context.Context, byID map[int64]*Region) error {
	if len(byID) == 0 {
		return nil
	}
	load := func(query string, apply func(r *Region, v string)) error {
		rows, err := s.db.QueryContext(ctx, query, s.worldID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				id int64
				v  string
			)
			if err := rows.Scan(&id, &v); err != nil {
				return err
			}
			if r := byID[id]; r != nil {
				apply(r, v)
			}
		}
		return rows.Err()
	}
	if err := load(`SELECT u.region_id,u.user_name FROM region_users u JOIN regions r ON r.id=u.region_id WHERE r.world_id=? ORDER BY u.rowid`,
		func(r *Region, v string) { r.AllowedUsers = append(r.AllowedUsers, v) }); err != nil {
		return err
	}
	return load(`SELECT g.region_id,g.group_name FROM region_groups g JOIN regions r ON r.id=g.region_id WHERE r.world_id=? ORDER BY g.rowid`,
		func(r *Region, v string) { r.AllowedGroups = append(r.AllowedGroups, v) })
}

func (s *SQLite) AddUser(ctx context.Context, regionName, user string) error {
	return s.execAccess(ctx, `INSERT OR IGNORE INTO region_users(region_id,user_name) VALUES(?,?)`, regionName, user)
}

func (s *SQLite) RemoveUser(ctx context.Context, regionName, user string) error {
	return s.execAccess(ctx, `DELETE FROM region_users WHERE region_id=? AND user_name=?`, regionName, user)
}

func (s *SQLite) AllowGroup(ctx context.Context, regionName, group string) error {
	return s.execAccess(ctx, `INSERT OR IGNORE INTO region_groups(region_id,group_name) VALUES(?,?)`, regionName, group)
}

func (s *SQLite) RemoveGroup(ctx context.Context, regionName, group string) error {
	return s.execAccess(ctx, `DELETE FROM region_groups WHERE region_id=? AND group_name=?`, regionName, group)
}

func (s *SQLite) execAccess(ctx context.Context, stmt, regionName, v string) error {
	id, err := s.regionID(ctx, s.db, regionName)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, stmt, id, v)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegion(sc rowScanner) (int64, Region, error) {
	var (
		id int64
		r  Region
	)
	err := sc.Scan(&id, &r.Name, &r.WorldID, &r.Owner, &r.Area.X, &r.Area.Y, &r.Area.Width, &r.Area.Height, &r.Priority)
	return id, r, err
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

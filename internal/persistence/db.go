// Package persistence provides SQLite-based storage for map snapshots and
// the committed chunk meshes built from them.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexmesh/internal/hex"
	"github.com/talgya/hexmesh/internal/mesh"
	"github.com/talgya/hexmesh/internal/world"
)

// ErrNotFound is returned when a build or chunk is not stored.
var ErrNotFound = errors.New("not found")

// DB wraps a SQLite connection for build storage.
type DB struct {
	conn *sqlx.DB
}

// Build describes one stored map and its triangulation.
type Build struct {
	ID         string `db:"id"`
	CreatedAt  string `db:"created_at"`
	Seed       int64  `db:"seed"`
	Width      int    `db:"width"`
	Height     int    `db:"height"`
	ChunkSizeX int    `db:"chunk_size_x"`
	ChunkSizeZ int    `db:"chunk_size_z"`
	Rivers     int    `db:"rivers"`
	Triangles  int    `db:"triangles"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		chunk_size_x INTEGER NOT NULL,
		chunk_size_z INTEGER NOT NULL,
		rivers INTEGER NOT NULL,
		triangles INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS cells (
		build_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		x INTEGER NOT NULL,
		z INTEGER NOT NULL,
		terrain INTEGER NOT NULL,
		shape INTEGER NOT NULL,
		vegetation INTEGER NOT NULL,
		feature INTEGER NOT NULL,
		elevation INTEGER NOT NULL,
		owner INTEGER NOT NULL,
		roads INTEGER NOT NULL,
		PRIMARY KEY (build_id, idx)
	);

	CREATE TABLE IF NOT EXISTS rivers (
		build_id TEXT NOT NULL,
		x INTEGER NOT NULL,
		z INTEGER NOT NULL,
		direction INTEGER NOT NULL,
		flow INTEGER NOT NULL,
		PRIMARY KEY (build_id, x, z, direction)
	);

	CREATE TABLE IF NOT EXISTS chunk_layers (
		build_id TEXT NOT NULL,
		chunk INTEGER NOT NULL,
		layer INTEGER NOT NULL,
		triangles INTEGER NOT NULL,
		data BLOB NOT NULL,
		PRIMARY KEY (build_id, chunk, layer)
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_builds_created ON builds(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type cellRow struct {
	Index      int `db:"idx"`
	X          int `db:"x"`
	Z          int `db:"z"`
	Terrain    int `db:"terrain"`
	Shape      int `db:"shape"`
	Vegetation int `db:"vegetation"`
	Feature    int `db:"feature"`
	Elevation  int `db:"elevation"`
	Owner      int `db:"owner"`
	Roads      int `db:"roads"`
}

type riverRow struct {
	X         int `db:"x"`
	Z         int `db:"z"`
	Direction int `db:"direction"`
	Flow      int `db:"flow"`
}

// roadMask packs the road flags of a cell, bit d for direction d.
func roadMask(c *world.Cell) int {
	m := 0
	for _, d := range hex.Directions {
		if c.Roads[d] {
			m |= 1 << d
		}
	}
	return m
}

// SaveGrid stores a map snapshot under a new build id and returns it.
func (db *DB) SaveGrid(g *world.Grid, rivers *world.RiverStore, seed int64) (string, error) {
	id := uuid.NewString()
	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	segments := rivers.Segments()
	_, err = tx.Exec(`INSERT INTO builds
		(id, created_at, seed, width, height, chunk_size_x, chunk_size_z, rivers)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339Nano), seed,
		g.Width, g.Height, g.ChunkSizeX, g.ChunkSizeZ, len(segments),
	)
	if err != nil {
		return "", fmt.Errorf("insert build: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO cells
		(build_id, idx, x, z, terrain, shape, vegetation, feature, elevation, owner, roads)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, c := range g.Cells() {
		_, err := stmt.Exec(
			id, c.Index, c.Coord.X, c.Coord.Z,
			c.Terrain, c.Shape, c.Vegetation, c.Feature,
			c.Elevation, c.Owner, roadMask(c),
		)
		if err != nil {
			return "", fmt.Errorf("insert cell %d: %w", c.Index, err)
		}
	}

	for _, s := range segments {
		_, err := tx.Exec(
			"INSERT INTO rivers (build_id, x, z, direction, flow) VALUES (?, ?, ?, ?, ?)",
			id, s.Cell.X, s.Cell.Z, s.Direction, s.Flow,
		)
		if err != nil {
			return "", fmt.Errorf("insert river %s %s: %w", s.Cell, s.Direction, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	slog.Info("grid saved", "build", id, "cells", g.CellCount(), "rivers", len(segments))
	return id, nil
}

// GetBuild returns the metadata of one build.
func (db *DB) GetBuild(id string) (Build, error) {
	var b Build
	err := db.conn.Get(&b, "SELECT * FROM builds WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return b, fmt.Errorf("build %s: %w", id, ErrNotFound)
	}
	return b, err
}

// ListBuilds returns the most recent builds, newest first.
func (db *DB) ListBuilds(limit int) ([]Build, error) {
	var builds []Build
	err := db.conn.Select(&builds,
		"SELECT * FROM builds ORDER BY created_at DESC, id LIMIT ?",
		limit,
	)
	return builds, err
}

// LoadGrid restores the map snapshot of a build. Rivers are revalidated on
// load, so a corrupted snapshot is refused rather than triangulated.
func (db *DB) LoadGrid(id string) (*world.Grid, *world.RiverStore, error) {
	b, err := db.GetBuild(id)
	if err != nil {
		return nil, nil, err
	}
	g := world.NewGrid(b.Width, b.Height, b.ChunkSizeX, b.ChunkSizeZ)

	var cells []cellRow
	if err := db.conn.Select(&cells,
		"SELECT idx, x, z, terrain, shape, vegetation, feature, elevation, owner, roads FROM cells WHERE build_id = ? ORDER BY idx",
		id,
	); err != nil {
		return nil, nil, fmt.Errorf("load cells: %w", err)
	}
	for _, r := range cells {
		c := g.Cell(r.Index)
		if c == nil || c.Coord != (hex.Coord{X: r.X, Z: r.Z}) {
			return nil, nil, fmt.Errorf("load cell %d: %w", r.Index, world.ErrOutOfBounds)
		}
		c.Terrain = world.Terrain(r.Terrain)
		c.Shape = world.Shape(r.Shape)
		c.Vegetation = world.Vegetation(r.Vegetation)
		c.Feature = world.Feature(r.Feature)
		c.Elevation = r.Elevation
		c.Owner = r.Owner
		for _, d := range hex.Directions {
			c.Roads[d] = r.Roads&(1<<d) != 0
		}
	}

	var rows []riverRow
	if err := db.conn.Select(&rows,
		"SELECT x, z, direction, flow FROM rivers WHERE build_id = ? ORDER BY z, x, direction",
		id,
	); err != nil {
		return nil, nil, fmt.Errorf("load rivers: %w", err)
	}
	segments := make([]world.Segment, 0, len(rows))
	for _, r := range rows {
		segments = append(segments, world.Segment{
			Cell:      hex.Coord{X: r.X, Z: r.Z},
			Direction: hex.Direction(r.Direction),
			Flow:      world.Flow(r.Flow),
		})
	}
	rivers := world.NewRiverStore(g)
	if err := rivers.Load(segments); err != nil {
		return nil, nil, err
	}
	return g, rivers, nil
}

// SaveChunkMesh stores the committed layers of a chunk for a build,
// replacing any earlier version.
func (db *DB) SaveChunkMesh(id string, ch *mesh.Chunk) error {
	layers, err := ch.Encode()
	if err != nil {
		return err
	}
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM chunk_layers WHERE build_id = ? AND chunk = ?", id, ch.ID); err != nil {
		return err
	}
	for _, l := range ch.Layers() {
		_, err := tx.Exec(
			"INSERT INTO chunk_layers (build_id, chunk, layer, triangles, data) VALUES (?, ?, ?, ?, ?)",
			id, ch.ID, l.ID, l.TriangleCount(), layers[l.ID],
		)
		if err != nil {
			return fmt.Errorf("insert chunk %d layer %s: %w", ch.ID, l.ID, err)
		}
	}
	return tx.Commit()
}

// LoadChunkMesh restores a committed chunk of a build.
func (db *DB) LoadChunkMesh(id string, chunk int) (*mesh.Chunk, error) {
	var rows []struct {
		Layer int    `db:"layer"`
		Data  []byte `db:"data"`
	}
	if err := db.conn.Select(&rows,
		"SELECT layer, data FROM chunk_layers WHERE build_id = ? AND chunk = ? ORDER BY layer",
		id, chunk,
	); err != nil {
		return nil, fmt.Errorf("load chunk %d: %w", chunk, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("chunk %d of build %s: %w", chunk, id, ErrNotFound)
	}

	ch := mesh.NewChunk(chunk)
	for _, r := range rows {
		if r.Layer < 0 || r.Layer >= int(mesh.LayerCount) {
			return nil, fmt.Errorf("load chunk %d: unknown layer %d", chunk, r.Layer)
		}
		if err := ch.Layer(mesh.LayerID(r.Layer)).UnmarshalBinary(r.Data); err != nil {
			return nil, fmt.Errorf("load chunk %d: %w", chunk, err)
		}
	}
	if err := ch.Commit(); err != nil {
		return nil, err
	}
	return ch, nil
}

// SetTriangles records the total triangle count of a finished build.
func (db *DB) SetTriangles(id string, n int) error {
	_, err := db.conn.Exec("UPDATE builds SET triangles = ? WHERE id = ?", n, id)
	return err
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	_ "github.com/mattn/go-sqlite3"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/sim"
)

const schema = `
CREATE TABLE bodies (
	frame 	INTEGER,
	step 	INTEGER,
	time 	REAL,
	id 		INTEGER, -- body id
	x 		REAL,
	y 		REAL,
	z 		REAL,
	vx 		REAL,
	vy 		REAL,
	vz 		REAL,
	mass 	REAL,
	radius 	REAL,
	color 	TEXT);
CREATE INDEX idx_frame ON bodies (frame, id);
CREATE INDEX idx_id ON bodies (id);
`

const (
	insertBody  = `INSERT INTO bodies VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	queryFrames = `SELECT frame, step, time, id, x, y, z, vx, vy, vz, mass, radius, color FROM bodies ORDER BY frame ASC, id ASC;`
	queryTrack  = `SELECT time, x, y, z FROM bodies WHERE id = ? ORDER BY frame ASC;`
)

var ErrExists = errors.New("storage: frames database already exists")

func opendb(filename string) (*sql.DB, error) {
	return sql.Open("sqlite3", "file:"+filename+"?_journal_mode=OFF&_synchronous=OFF")
}

func writeFrames(filename string, frames []sim.Frame) (err error) {
	if _, statErr := os.Stat(filename); statErr == nil {
		return fmt.Errorf("%w: %s", ErrExists, filename)
	}

	db, err := opendb(filename)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(insertBody)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, f := range frames {
		for _, b := range f.Bodies {
			_, err = stmt.Exec(
				i, f.Step, f.Time, b.ID,
				b.Position[0], b.Position[1], b.Position[2],
				b.Velocity[0], b.Velocity[1], b.Velocity[2],
				b.Mass, b.Radius, b.Color.Hex())
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func readFrames(filename string) ([]sim.Frame, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, err
	}

	db, err := opendb(filename)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(queryFrames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	frames := make([]sim.Frame, 0)
	current := -1
	for rows.Next() {
		var (
			index int
			f     sim.Frame
			b     body.Body
			hex   string
		)
		err := rows.Scan(&index, &f.Step, &f.Time, &b.ID,
			&b.Position[0], &b.Position[1], &b.Position[2],
			&b.Velocity[0], &b.Velocity[1], &b.Velocity[2],
			&b.Mass, &b.Radius, &hex)
		if err != nil {
			return nil, err
		}
		if b.Color, err = colorful.Hex(hex); err != nil {
			return nil, fmt.Errorf("body %d: %w", b.ID, err)
		}

		if index != current {
			frames = append(frames, f)
			current = index
		}
		last := &frames[len(frames)-1]
		last.Bodies = append(last.Bodies, b)
	}

	return frames, rows.Err()
}

func readTrack(filename string, id uint64) ([]float64, []mgl64.Vec3, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, nil, err
	}

	db, err := opendb(filename)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	rows, err := db.Query(queryTrack, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	times := make([]float64, 0)
	points := make([]mgl64.Vec3, 0)
	for rows.Next() {
		var t float64
		var p mgl64.Vec3
		if err := rows.Scan(&t, &p[0], &p[1], &p[2]); err != nil {
			return nil, nil, err
		}
		times = append(times, t)
		points = append(points, p)
	}

	return times, points, rows.Err()
}

package citypandemic

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	// sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteLogger is a DataLogger that writes run data to a SQLite
// database, one table per record kind per realization. Adapted from the
// teacher's SQLiteLogger (sqlite_logger.go): WAL mode, one table per
// instance suffixed %03d, and a prepared-statement transaction per
// Write* call.
type SQLiteLogger struct {
	path       string
	instanceID int
}

// NewSQLiteLogger creates a new logger that writes to a SQLite database.
func NewSQLiteLogger(basepath string, i int) *SQLiteLogger {
	l := new(SQLiteLogger)
	l.SetBasePath(basepath, i)
	return l
}

// SetBasePath sets the base path of the logger.
func (l *SQLiteLogger) SetBasePath(basepath string, i int) {
	if info, err := os.Stat(basepath); err == nil && info.IsDir() {
		basepath += fmt.Sprintf("log.%03d", i)
	}
	l.path = strings.TrimSuffix(basepath, ".") + ".db"
	l.instanceID = i
}

// Init creates the run's tables in the database.
func (l *SQLiteLogger) Init() error {
	db, err := OpenSQLiteDBOptimized(l.path)
	if err != nil {
		return err
	}
	defer db.Close()

	newTable := func(tableName, cols string) error {
		fullTableName := fmt.Sprintf("%s%03d", tableName, l.instanceID)
		sqlStmt := fmt.Sprintf("create table %s %s;", fullTableName, cols)
		_, err := db.Exec(sqlStmt)
		if err != nil {
			return fmt.Errorf("%q: %s", err, sqlStmt)
		}
		return nil
	}

	if err := newTable("Transition", "(id integer not null primary key, person text, from_state text, to_state text, at real)"); err != nil {
		return err
	}
	if err := newTable("Transmission", "(id integer not null primary key, source text, target text, overlap real, at real)"); err != nil {
		return err
	}
	if err := newTable("Poll", "(id integer not null primary key, at real, infectious int, susceptible int, newly_exposed int, mean_concentration real)"); err != nil {
		return err
	}
	return nil
}

func (l *SQLiteLogger) open() (*sql.DB, error) {
	return OpenSQLiteDBOptimized(l.path)
}

// WriteTransitions records every disease state transition.
func (l *SQLiteLogger) WriteTransitions(c <-chan TransitionRecord) {
	tableName := fmt.Sprintf("Transition%03d", l.instanceID)
	db, err := l.open()
	if err != nil {
		log.Fatal(err)
		return
	}
	defer db.Close()
	tx, err := db.Begin()
	if err != nil {
		log.Fatal(err)
		return
	}
	stmt, err := tx.Prepare("insert into " + tableName + "(person, from_state, to_state, at) values(?, ?, ?, ?)")
	if err != nil {
		log.Fatal(err)
		return
	}
	defer stmt.Close()
	for r := range c {
		if _, err := stmt.Exec(r.Person.String(), r.From.String(), r.To.String(), float64(r.At)); err != nil {
			log.Fatal(err)
			return
		}
	}
	tx.Commit()
}

// WriteTransmissions records every successful exposure trial.
func (l *SQLiteLogger) WriteTransmissions(c <-chan TransmissionRecord) {
	tableName := fmt.Sprintf("Transmission%03d", l.instanceID)
	db, err := l.open()
	if err != nil {
		log.Fatal(err)
		return
	}
	defer db.Close()
	tx, err := db.Begin()
	if err != nil {
		log.Fatal(err)
		return
	}
	stmt, err := tx.Prepare("insert into " + tableName + "(source, target, overlap, at) values(?, ?, ?, ?)")
	if err != nil {
		log.Fatal(err)
		return
	}
	defer stmt.Close()
	for r := range c {
		if _, err := stmt.Exec(r.Source.String(), r.Target.String(), float64(r.Overlap), float64(r.At)); err != nil {
			log.Fatal(err)
			return
		}
	}
	tx.Commit()
}

// WritePollSamples records one summary row per Poll tick.
func (l *SQLiteLogger) WritePollSamples(c <-chan PollRecord) {
	tableName := fmt.Sprintf("Poll%03d", l.instanceID)
	db, err := l.open()
	if err != nil {
		log.Fatal(err)
		return
	}
	defer db.Close()
	tx, err := db.Begin()
	if err != nil {
		log.Fatal(err)
		return
	}
	stmt, err := tx.Prepare("insert into " + tableName + "(at, infectious, susceptible, newly_exposed, mean_concentration) values(?, ?, ?, ?, ?)")
	if err != nil {
		log.Fatal(err)
		return
	}
	defer stmt.Close()
	for r := range c {
		if _, err := stmt.Exec(float64(r.At), r.InfectiousCount, r.SusceptibleCount, r.NewlyExposedCount, r.MeanConcentration); err != nil {
			log.Fatal(err)
			return
		}
	}
	tx.Commit()
}

// OpenSQLiteDBOptimized establishes a database connection using WAL and
// exclusive locking.
func OpenSQLiteDBOptimized(path string) (*sql.DB, error) {
	return sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal=WAL&_locking=EXCLUSIVE&_sync=NORMAL", path))
}

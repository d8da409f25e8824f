// Package tracing records executed jobs.
package tracing

import (
	"database/sql"
	"fmt"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/sarchlab/snapsim/api"
)

// JobRecord is one row of the job table.
type JobRecord struct {
	ID        string
	Action    string
	Retc      uint32
	InAddr    uint64
	InSize    uint32
	OutAddr   uint64
	OutSize   uint32
	Error     string
	StartTime float64
	EndTime   float64
}

// MakeJobRecord converts a completed job.
func MakeJobRecord(job *api.Job) JobRecord {
	rec := JobRecord{
		ID:        job.ID,
		Action:    job.ActionName,
		Retc:      uint32(job.Retc),
		StartTime: float64(job.StartTime),
		EndTime:   float64(job.EndTime),
	}

	if job.Descriptor != nil {
		rec.InAddr = job.Descriptor.Job.In.Addr
		rec.InSize = job.Descriptor.Job.In.Size
		rec.OutAddr = job.Descriptor.Job.Out.Addr
		rec.OutSize = job.Descriptor.Job.Out.Size
	}

	if job.Err != nil {
		rec.Error = job.Err.Error()
	}

	return rec
}

// SQLiteJobRecorder writes job records to a SQLite database.
type SQLiteJobRecorder struct {
	*sql.DB
	statement *sql.Stmt

	dbName    string
	pending   []JobRecord
	batchSize int
}

// NewSQLiteJobRecorder creates a recorder. The database file is
// path + ".sqlite3". An empty path picks a unique name.
func NewSQLiteJobRecorder(path string) *SQLiteJobRecorder {
	return &SQLiteJobRecorder{
		dbName:    path,
		batchSize: 1000,
	}
}

// FileName returns the name of the database file.
func (r *SQLiteJobRecorder) FileName() string {
	return r.dbName + ".sqlite3"
}

// Init creates the database and the job table.
func (r *SQLiteJobRecorder) Init() error {
	if r.dbName == "" {
		r.dbName = "snapsim_jobs_" + xid.New().String()
	}

	filename := r.FileName()
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return err
	}
	r.DB = db

	_, err = r.Exec(`
		create table job
		(
			job_id     varchar(200) not null,
			action     varchar(100),
			retc       integer      not null,
			in_addr    integer,
			in_size    integer,
			out_addr   integer,
			out_size   integer,
			error      text,
			start_time float        not null,
			end_time   float        default 0
		);
	`)
	if err != nil {
		return err
	}

	_, err = r.Exec(`create index job_id_index on job (job_id);`)
	if err != nil {
		return err
	}

	r.statement, err = r.Prepare(
		`INSERT INTO job VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	return err
}

// JobCompleted buffers the record of a completed job.
func (r *SQLiteJobRecorder) JobCompleted(job *api.Job) {
	r.Record(MakeJobRecord(job))
}

// Record buffers a record and flushes when the batch is full.
func (r *SQLiteJobRecorder) Record(rec JobRecord) {
	r.pending = append(r.pending, rec)
	if len(r.pending) >= r.batchSize {
		if err := r.Flush(); err != nil {
			panic(err)
		}
	}
}

// Flush writes all the buffered records to the database. Records stay
// buffered when the transaction fails, so a later Flush retries them.
func (r *SQLiteJobRecorder) Flush() error {
	if len(r.pending) == 0 {
		return nil
	}

	tx, err := r.Begin()
	if err != nil {
		return err
	}

	stmt := tx.Stmt(r.statement)
	for _, rec := range r.pending {
		_, err = stmt.Exec(
			rec.ID,
			rec.Action,
			rec.Retc,
			int64(rec.InAddr),
			rec.InSize,
			int64(rec.OutAddr),
			rec.OutSize,
			rec.Error,
			rec.StartTime,
			rec.EndTime,
		)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	err = tx.Commit()
	if err != nil {
		return err
	}

	r.pending = nil

	return nil
}

// Pending returns the number of records not written yet.
func (r *SQLiteJobRecorder) Pending() int {
	return len(r.pending)
}

// Records reads back every stored record in insertion order.
func (r *SQLiteJobRecorder) Records() ([]JobRecord, error) {
	rows, err := r.Query(`SELECT * FROM job ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []JobRecord
	for rows.Next() {
		var (
			rec             JobRecord
			inAddr, outAddr int64
		)

		err = rows.Scan(
			&rec.ID,
			&rec.Action,
			&rec.Retc,
			&inAddr,
			&rec.InSize,
			&outAddr,
			&rec.OutSize,
			&rec.Error,
			&rec.StartTime,
			&rec.EndTime,
		)
		if err != nil {
			return nil, err
		}

		rec.InAddr = uint64(inAddr)
		rec.OutAddr = uint64(outAddr)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Close flushes and closes the database.
func (r *SQLiteJobRecorder) Close() error {
	if r.DB == nil {
		return nil
	}

	if err := r.Flush(); err != nil {
		return err
	}

	return r.DB.Close()
}

package score

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type DefaultScorer struct {
	db *sql.DB
}

func (s *DefaultScorer) Init(path string) error {
	db, err := sql.Open("sqlite3", path)
	if nil != err {
		return err
	}

	initStatement := `
	create table if not exists results
	  (
		  id text not null primary key,
		  sum text not null,
		  score integer not null,
		  max_combo integer not null,
		  accuracy real not null,
		  perfects integer not null,
		  goods integer not null,
		  missed integer not null,
		  difficulty real not null,
		  lanes integer not null,
		  played_at integer not null
	  );
	create index if not exists results_sum on results(sum);
	`
	if _, err := db.Exec(initStatement); nil != err {
		db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *DefaultScorer) Deinit() {
	if nil != s.db {
		s.db.Close()
	}
}

func (s *DefaultScorer) Save(r *Result) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.PlayedAt.IsZero() {
		r.PlayedAt = time.Now()
	}
	_, err := s.db.Exec(
		`insert into results
		   (id, sum, score, max_combo, accuracy, perfects, goods, missed, difficulty, lanes, played_at)
		 values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Sum, r.Score, r.MaxCombo, r.Accuracy,
		r.Perfects, r.Goods, r.Missed, r.Difficulty, r.Lanes,
		r.PlayedAt.UnixNano(),
	)
	return err
}

func (s *DefaultScorer) Best(sum string) (*Result, error) {
	row := s.db.QueryRow(
		selectColumns+` where sum = ? order by score desc, played_at asc limit 1`, sum)
	r, err := scanResult(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if nil != err {
		return nil, err
	}
	return &r, nil
}

func (s *DefaultScorer) History(sum string, limit int) ([]Result, error) {
	rows, err := s.db.Query(
		selectColumns+` where sum = ? order by played_at desc limit ?`, sum, limit)
	if nil != err {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if nil != err {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

const selectColumns = `select id, sum, score, max_combo, accuracy,
	perfects, goods, missed, difficulty, lanes, played_at from results`

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanResult(row scannable) (Result, error) {
	var r Result
	var playedAt int64
	err := row.Scan(&r.ID, &r.Sum, &r.Score, &r.MaxCombo, &r.Accuracy,
		&r.Perfects, &r.Goods, &r.Missed, &r.Difficulty, &r.Lanes, &playedAt)
	if nil != err {
		return r, err
	}
	r.PlayedAt = time.Unix(0, playedAt)
	return r, nil
}

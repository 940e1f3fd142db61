package daily

import (
	"context"
	"database/sql"
)

// Result is one owner's finished daily game.
type Result struct {
	OwnerID    string `json:"ownerId"`
	Date       string `json:"date"`
	PokemonNum int    `json:"pokemonNum"`
	Questions  int    `json:"questions"`
}

// Store persists daily results in SQLite.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether owner finished a daily game on date.
func (s *Store) AlreadyPlayed(ctx context.Context, ownerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE owner_id=? AND date=?",
		ownerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records a daily result; a second result for the same
// owner and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(owner_id, date, pokemon_num, questions)
         VALUES(?,?,?,?)`, r.OwnerID, r.Date, r.PokemonNum, r.Questions,
	)
	return err
}

// LBRow is one leaderboard entry.
type LBRow struct {
	OwnerID   string `json:"ownerId"`
	Questions int    `json:"questions"`
}

// Leaderboard ranks the day's players by how long they stumped the guesser:
// most questions first, earliest finisher breaking ties.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT owner_id, questions
         FROM daily_results
         WHERE date=?
         ORDER BY questions DESC, created_at ASC
         LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.OwnerID, &r.Questions); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

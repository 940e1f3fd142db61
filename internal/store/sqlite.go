// internal/store/sqlite.go
//
// SQLite-backed Store. Expects the `results` table from assets/sql.

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// timeLayout sorts lexically in chronological order (fixed width, UTC).
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore returns a Store persisting to db.
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (s *sqliteStore) Save(ctx context.Context, r Result) (bool, error) {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO results
            (game_id, user_id, anonymous_id, outcome, pokemon_num, pokemon_name,
             questions, number_questions, daily_date, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, nullable(r.Owner.UserID), nullable(r.Owner.AnonymousID), string(r.Outcome),
		r.PokemonNum, r.PokemonName, r.Questions, r.NumberQuestions,
		nullable(r.DailyDate), r.FinishedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

const resultColumns = `game_id, COALESCE(user_id,''), COALESCE(anonymous_id,''), outcome,
    COALESCE(pokemon_num,0), COALESCE(pokemon_name,''), questions, number_questions,
    COALESCE(daily_date,''), finished_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (Result, error) {
	var r Result
	var outcome, finished string
	if err := row.Scan(&r.GameID, &r.Owner.UserID, &r.Owner.AnonymousID, &outcome,
		&r.PokemonNum, &r.PokemonName, &r.Questions, &r.NumberQuestions,
		&r.DailyDate, &finished); err != nil {
		return Result{}, err
	}
	r.Outcome = Outcome(outcome)
	r.FinishedAt, _ = time.Parse(timeLayout, finished)
	return r, nil
}

func (s *sqliteStore) Get(ctx context.Context, gameID string) (Result, error) {
	r, err := scanResult(s.db.QueryRowContext(ctx,
		`SELECT `+resultColumns+` FROM results WHERE game_id=?`, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, ErrNotFound
	}
	return r, err
}

// ownerClause mirrors memory.owned: users match on user_id, guests on an
// unclaimed anonymous_id.
func ownerClause(o Owner) (string, any) {
	if o.UserID != "" {
		return `user_id=?`, o.UserID
	}
	return `user_id IS NULL AND anonymous_id=?`, o.AnonymousID
}

func (s *sqliteStore) Recent(ctx context.Context, owner Owner, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}
	clause, arg := ownerClause(owner)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+resultColumns+` FROM results WHERE `+clause+` ORDER BY finished_at DESC LIMIT ?`,
		arg, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Stats(ctx context.Context, owner Owner) (Stats, error) {
	clause, arg := ownerClause(owner)
	var st Stats
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
        SELECT COUNT(1),
               COALESCE(SUM(CASE WHEN outcome=? THEN 1 ELSE 0 END), 0),
               AVG(questions)
        FROM results WHERE `+clause, string(OutcomeGuessed), arg,
	).Scan(&st.GamesPlayed, &st.Guessed, &avg)
	if err != nil {
		return Stats{}, err
	}
	st.AverageQuestions = avg.Float64
	return st, nil
}

func (s *sqliteStore) Claim(ctx context.Context, anonymousID, userID string) error {
	if anonymousID == "" || userID == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE results SET user_id=?, anonymous_id=NULL WHERE user_id IS NULL AND anonymous_id=?`,
		userID, anonymousID)
	return err
}

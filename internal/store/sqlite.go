package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements DB on a local SQLite file.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (creating if needed) the database at path.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL keeps readers out of the writer's way.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the underlying connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate creates the schema if it does not exist yet.
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			region TEXT NOT NULL,
			game_type TEXT NOT NULL,
			decks INTEGER NOT NULL,
			server_seed TEXT NOT NULL,
			client_seed TEXT NOT NULL,
			base_bet TEXT NOT NULL,
			buy_in TEXT NOT NULL,
			final_stack TEXT NOT NULL DEFAULT '',
			rounds INTEGER NOT NULL DEFAULT 0,
			hands INTEGER NOT NULL DEFAULT 0,
			profit TEXT NOT NULL DEFAULT '',
			correct_rate REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS rounds (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			bet TEXT NOT NULL,
			profit TEXT NOT NULL,
			stack_after TEXT NOT NULL,
			dealer_sum INTEGER NOT NULL,
			dealer_blackjack INTEGER NOT NULL DEFAULT 0,
			dealer_cards TEXT NOT NULL,
			hands TEXT NOT NULL,
			running_count INTEGER NOT NULL,
			true_count REAL NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_session_id ON rounds(session_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// SaveSession inserts a new session row.
func (s *SQLiteDB) SaveSession(session *Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	query := `INSERT INTO sessions (
		id, region, game_type, decks, server_seed, client_seed,
		base_bet, buy_in, final_stack, rounds, hands, profit, correct_rate
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query,
		session.ID, session.Region, session.GameType, session.Decks,
		session.ServerSeed, session.ClientSeed, session.BaseBet, session.BuyIn,
		session.FinalStack, session.Rounds, session.Hands, session.Profit,
		session.CorrectRate,
	)
	return err
}

// FinishSession writes the aggregate results back onto the session row.
func (s *SQLiteDB) FinishSession(session *Session) error {
	query := `UPDATE sessions SET
		final_stack = ?, rounds = ?, hands = ?, profit = ?, correct_rate = ?
		WHERE id = ?`
	_, err := s.db.Exec(query,
		session.FinalStack, session.Rounds, session.Hands,
		session.Profit, session.CorrectRate, session.ID,
	)
	return err
}

// SaveRounds inserts round rows in one transaction.
func (s *SQLiteDB) SaveRounds(sessionID string, rounds []Round) error {
	if len(rounds) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO rounds (
		id, session_id, bet, profit, stack_after, dealer_sum,
		dealer_blackjack, dealer_cards, hands, running_count, true_count
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, round := range rounds {
		if round.ID == "" {
			round.ID = uuid.New().String()
		}
		_, err := stmt.Exec(
			round.ID, sessionID, round.Bet, round.Profit, round.StackAfter,
			round.DealerSum, round.DealerBlackjack, round.DealerCards,
			round.Hands, round.RunningCount, round.TrueCount,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetSession retrieves one session by id.
func (s *SQLiteDB) GetSession(id string) (*Session, error) {
	query := `SELECT id, region, game_type, decks, server_seed, client_seed,
		base_bet, buy_in, final_stack, rounds, hands, profit, correct_rate, created_at
		FROM sessions WHERE id = ?`

	var session Session
	err := s.db.QueryRow(query, id).Scan(
		&session.ID, &session.Region, &session.GameType, &session.Decks,
		&session.ServerSeed, &session.ClientSeed, &session.BaseBet,
		&session.BuyIn, &session.FinalStack, &session.Rounds, &session.Hands,
		&session.Profit, &session.CorrectRate, &session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetRounds pages through a session's rounds in insertion order.
func (s *SQLiteDB) GetRounds(sessionID string, limit, offset int) ([]Round, error) {
	query := `SELECT id, session_id, bet, profit, stack_after, dealer_sum,
		dealer_blackjack, dealer_cards, hands, running_count, true_count
		FROM rounds WHERE session_id = ?
		ORDER BY rowid LIMIT ? OFFSET ?`

	rows, err := s.db.Query(query, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Round
	for rows.Next() {
		var round Round
		err := rows.Scan(
			&round.ID, &round.SessionID, &round.Bet, &round.Profit,
			&round.StackAfter, &round.DealerSum, &round.DealerBlackjack,
			&round.DealerCards, &round.Hands, &round.RunningCount,
			&round.TrueCount,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, round)
	}

	return out, rows.Err()
}

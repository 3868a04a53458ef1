package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pixil98/go-nations/internal/game"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Store is the SQLite backed game.Store.
type Store struct {
	db *sql.DB
}

var _ game.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer at a time; SQLite would serialize us anyway and this keeps
	// BEGIN from racing into SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const gameColumns = `chat_id, creator_id, war_active, war_participants, war_start_time, last_war_end_time, war_id`

const playerColumns = `user_id, chat_id, username, country_id, money, army_level, city_level, last_income, wins, losses`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) GetGame(ctx context.Context, chatId int64) (*game.Game, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE chat_id = ?`, chatId)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get game %d: %w", chatId, err)
	}
	return g, nil
}

func (s *Store) CreateGame(ctx context.Context, g *game.Game) error {
	participants, err := encodeParticipants(g.WarParticipants)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO games (`+gameColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ChatId, g.CreatorId, g.WarActive, participants,
		formatNullTime(g.WarStartTime), formatNullTime(g.LastWarEndTime), g.WarId,
	)
	if isConstraintError(err) {
		return game.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create game %d: %w", g.ChatId, err)
	}
	return nil
}

func (s *Store) ListGames(ctx context.Context) ([]*game.Game, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+gameColumns+` FROM games ORDER BY chat_id`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var games []*game.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

func (s *Store) DeleteGame(ctx context.Context, chatId int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM players WHERE chat_id = ?`, chatId); err != nil {
			return fmt.Errorf("delete players of %d: %w", chatId, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM games WHERE chat_id = ?`, chatId); err != nil {
			return fmt.Errorf("delete game %d: %w", chatId, err)
		}
		return nil
	})
}

func (s *Store) BeginWar(ctx context.Context, chatId, attacker, defender int64, warId string, at time.Time) error {
	participants, err := encodeParticipants([]int64{attacker, defender})
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
UPDATE games
   SET war_active = 1, war_participants = ?, war_start_time = ?, war_id = ?
 WHERE chat_id = ? AND war_active = 0`,
		participants, formatTime(at), warId, chatId,
	)
	if err != nil {
		return fmt.Errorf("begin war in %d: %w", chatId, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("begin war in %d: %w", chatId, err)
	}
	if n == 1 {
		return nil
	}

	// Nothing changed: either there is no game or it is already at war.
	if _, err := s.GetGame(ctx, chatId); err != nil {
		return err
	}
	return game.ErrWarInProgress
}

func (s *Store) EndWar(ctx context.Context, chatId int64, endedAt *time.Time, players ...*game.Player) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, p := range players {
			if err := upsertPlayer(ctx, tx, p); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, `
UPDATE games
   SET war_active = 0, war_participants = '[]', war_start_time = NULL, war_id = '',
       last_war_end_time = COALESCE(?, last_war_end_time)
 WHERE chat_id = ?`,
			formatNullTime(endedAt), chatId,
		)
		if err != nil {
			return fmt.Errorf("end war in %d: %w", chatId, err)
		}
		return nil
	})
}

func (s *Store) GetPlayer(ctx context.Context, userId, chatId int64) (*game.Player, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE user_id = ? AND chat_id = ?`, userId, chatId)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player %d in %d: %w", userId, chatId, err)
	}
	return p, nil
}

func (s *Store) ListPlayers(ctx context.Context, chatId int64) ([]*game.Player, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+playerColumns+` FROM players WHERE chat_id = ? ORDER BY id`, chatId)
	if err != nil {
		return nil, fmt.Errorf("list players of %d: %w", chatId, err)
	}
	defer func() { _ = rows.Close() }()

	var players []*game.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list players of %d: %w", chatId, err)
	}
	return players, nil
}

func (s *Store) FindPlayerChat(ctx context.Context, userId int64) (int64, error) {
	var chatId int64
	err := s.db.QueryRowContext(ctx, `SELECT chat_id FROM players WHERE user_id = ? ORDER BY id LIMIT 1`, userId).Scan(&chatId)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, game.ErrPlayerNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("find chat of %d: %w", userId, err)
	}
	return chatId, nil
}

func (s *Store) SavePlayers(ctx context.Context, players ...*game.Player) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, p := range players {
			if err := upsertPlayer(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) ApplyIncome(ctx context.Context, p *game.Player, prev time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE players SET money = ?, last_income = ?
 WHERE user_id = ? AND chat_id = ? AND last_income = ?`,
		p.Money, formatTime(p.LastIncome), p.UserId, p.ChatId, formatTime(prev),
	)
	if err != nil {
		return false, fmt.Errorf("apply income to %d in %d: %w", p.UserId, p.ChatId, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("apply income to %d in %d: %w", p.UserId, p.ChatId, err)
	}
	return n == 1, nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func upsertPlayer(ctx context.Context, tx *sql.Tx, p *game.Player) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO players (`+playerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, chat_id) DO UPDATE SET
    username = excluded.username,
    country_id = excluded.country_id,
    money = excluded.money,
    army_level = excluded.army_level,
    city_level = excluded.city_level,
    last_income = excluded.last_income,
    wins = excluded.wins,
    losses = excluded.losses`,
		p.UserId, p.ChatId, p.Username, p.CountryId, p.Money,
		p.ArmyLevel, p.CityLevel, formatTime(p.LastIncome), p.Wins, p.Losses,
	)
	if isConstraintError(err) {
		return game.ErrCountryTaken
	}
	if err != nil {
		return fmt.Errorf("save player %d in %d: %w", p.UserId, p.ChatId, err)
	}
	return nil
}

func scanGame(row rowScanner) (*game.Game, error) {
	var (
		g            game.Game
		participants string
		start, end   sql.NullString
	)
	err := row.Scan(&g.ChatId, &g.CreatorId, &g.WarActive, &participants, &start, &end, &g.WarId)
	if err != nil {
		return nil, err
	}

	if participants != "" {
		if err := json.Unmarshal([]byte(participants), &g.WarParticipants); err != nil {
			return nil, fmt.Errorf("decoding war participants: %w", err)
		}
	}
	if g.WarStartTime, err = parseNullTime(start); err != nil {
		return nil, err
	}
	if g.LastWarEndTime, err = parseNullTime(end); err != nil {
		return nil, err
	}
	return &g, nil
}

func scanPlayer(row rowScanner) (*game.Player, error) {
	var (
		p          game.Player
		lastIncome string
	)
	err := row.Scan(&p.UserId, &p.ChatId, &p.Username, &p.CountryId, &p.Money,
		&p.ArmyLevel, &p.CityLevel, &lastIncome, &p.Wins, &p.Losses)
	if err != nil {
		return nil, err
	}
	p.LastIncome, err = time.Parse(time.RFC3339Nano, lastIncome)
	if err != nil {
		return nil, fmt.Errorf("parsing last income: %w", err)
	}
	return &p, nil
}

func encodeParticipants(ids []int64) (string, error) {
	if len(ids) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encoding war participants: %w", err)
	}
	return string(b), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, fmt.Errorf("parsing time %q: %w", s.String, err)
	}
	return &t, nil
}

func isConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

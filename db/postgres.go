package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/itbasis/go-clock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mi1knc0okies/CFB-Ready-Bot/model"
)

var (
	ErrUserNotFound      error = errors.New("user not found")
	ErrLeagueNotFound    error = errors.New("league not found")
	ErrServerNotFound    error = errors.New("server not found")
	ErrNotAMember        error = errors.New("user is not a member of the league")
	ErrLeagueExists      error = errors.New("league already exists")
	ErrLeagueAssigned    error = errors.New("league already assigned to the server")
	ErrLeagueNotAssigned error = errors.New("league not assigned to the server")
	ErrDiscordIDInUse    error = errors.New("discord account already linked to another user")
)

func New(ctx context.Context, connString string, clock clock.Clock) (DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &postgresDB{pool: pool, clock: clock}, nil
}

type postgresDB struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

func (db *postgresDB) AddLeague(ctx context.Context, name, displayName string) (*model.League, error) {
	const query = `INSERT INTO leagues (name, display_name, created_at)
					VALUES (@name, @displayName, @created)
					RETURNING league_id, created_at`

	args := pgx.NamedArgs{
		"name":        name,
		"displayName": displayName,
		"created":     db.clock.Now().UTC(),
	}

	l := &model.League{Name: name, DisplayName: displayName}
	var created pgtype.Timestamptz
	err := db.pool.QueryRow(ctx, query, args).Scan(&l.ID, &created)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrLeagueExists
		}
		return nil, fmt.Errorf("error inserting league: %w", err)
	}
	l.Created = created.Time

	return l, nil
}

func (db *postgresDB) GetLeague(ctx context.Context, name string) (*model.League, error) {
	const query = `SELECT league_id, name, display_name, created_at FROM leagues WHERE name=@name`

	row := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"name": name})
	l, err := scanLeague(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("error scanning league %s: %w", name, err)
	}
	return l, nil
}

func (db *postgresDB) ListLeagues(ctx context.Context) ([]model.League, error) {
	const query = `SELECT league_id, name, display_name, created_at FROM leagues ORDER BY display_name`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing leagues: %w", err)
	}
	defer rows.Close()

	results := make([]model.League, 0, 8)
	for rows.Next() {
		l, err := scanLeague(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *l)
	}

	return results, rows.Err()
}

func (db *postgresDB) UpsertServer(ctx context.Context, s *model.Server) error {
	const query = `INSERT INTO servers (server_id, name, main_channel_id, is_main_server, created_at)
					VALUES (@id, @name, @channelID, @isMain, @created)
					ON CONFLICT (server_id) DO UPDATE SET
						name = EXCLUDED.name,
						main_channel_id = EXCLUDED.main_channel_id,
						is_main_server = EXCLUDED.is_main_server`

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Only one server may be the main server at a time.
	if s.IsMain {
		const demote = `UPDATE servers SET is_main_server = FALSE WHERE server_id <> @id`
		if _, err := tx.Exec(ctx, demote, pgx.NamedArgs{"id": s.ID}); err != nil {
			return fmt.Errorf("error demoting previous main server: %w", err)
		}
	}

	args := pgx.NamedArgs{
		"id":        s.ID,
		"name":      s.Name,
		"channelID": s.ChannelID,
		"isMain":    s.IsMain,
		"created":   db.clock.Now().UTC(),
	}
	if _, err := tx.Exec(ctx, query, args); err != nil {
		return fmt.Errorf("error upserting server %d: %w", s.ID, err)
	}

	return tx.Commit(ctx)
}

func (db *postgresDB) GetServer(ctx context.Context, id int64) (*model.Server, error) {
	const query = `SELECT server_id, name, main_channel_id, table_message_id,
						latest_status_message_id, is_main_server, created_at
					FROM servers WHERE server_id=@id`

	row := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"id": id})
	s, err := scanServer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServerNotFound
		}
		return nil, fmt.Errorf("error scanning server %d: %w", id, err)
	}
	return s, nil
}

func (db *postgresDB) AssignLeague(ctx context.Context, serverID int64, leagueName string) (*model.League, error) {
	l, err := db.GetLeague(ctx, leagueName)
	if err != nil {
		return nil, err
	}

	const query = `INSERT INTO server_leagues (server_id, league_id, current_week) VALUES (@serverID, @leagueID, 1)`

	args := pgx.NamedArgs{
		"serverID": serverID,
		"leagueID": l.ID,
	}
	if _, err := db.pool.Exec(ctx, query, args); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrLeagueAssigned
		}
		if isForeignKeyViolation(err) {
			return nil, ErrServerNotFound
		}
		return nil, fmt.Errorf("error assigning league %s to server %d: %w", leagueName, serverID, err)
	}

	return l, nil
}

func (db *postgresDB) SetTableMessageID(ctx context.Context, serverID, messageID int64) error {
	const query = `UPDATE servers SET table_message_id=@messageID WHERE server_id=@serverID`
	return db.updateServerMessageID(ctx, query, serverID, messageID)
}

func (db *postgresDB) SetStatusMessageID(ctx context.Context, serverID, messageID int64) error {
	const query = `UPDATE servers SET latest_status_message_id=@messageID WHERE server_id=@serverID`
	return db.updateServerMessageID(ctx, query, serverID, messageID)
}

func (db *postgresDB) updateServerMessageID(ctx context.Context, query string, serverID, messageID int64) error {
	args := pgx.NamedArgs{
		"serverID":  serverID,
		"messageID": messageID,
	}
	tag, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("error saving message id for server %d: %w", serverID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrServerNotFound
	}
	return nil
}

func (db *postgresDB) ListServersForLeagues(ctx context.Context, leagueNames []string) ([]model.Server, error) {
	const query = `SELECT DISTINCT s.server_id, s.name, s.main_channel_id, s.table_message_id,
						s.latest_status_message_id, s.is_main_server, s.created_at
					FROM servers s
					LEFT JOIN server_leagues sl ON s.server_id = sl.server_id
					LEFT JOIN leagues l ON sl.league_id = l.league_id
					WHERE s.main_channel_id IS NOT NULL
						AND (s.is_main_server OR l.name = ANY(@names))
					ORDER BY s.server_id`

	rows, err := db.pool.Query(ctx, query, pgx.NamedArgs{"names": leagueNames})
	if err != nil {
		return nil, fmt.Errorf("error listing servers for leagues: %w", err)
	}
	defer rows.Close()

	results := make([]model.Server, 0, 4)
	for rows.Next() {
		s, err := scanServer(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *s)
	}

	return results, rows.Err()
}

func (db *postgresDB) GetServerLeagues(ctx context.Context, serverID int64, aggregate bool) ([]model.ServerLeague, error) {
	// The main server shows every league that is assigned anywhere, always at
	// week 1 since it has no week counters of its own.
	const aggregateQuery = `SELECT DISTINCT l.league_id, l.name, l.display_name, l.created_at, 1 AS current_week
							FROM leagues l
							WHERE l.league_id IN (SELECT DISTINCT league_id FROM server_leagues)
							ORDER BY l.display_name`

	const serverQuery = `SELECT l.league_id, l.name, l.display_name, l.created_at, sl.current_week
						FROM leagues l
						JOIN server_leagues sl ON l.league_id = sl.league_id
						WHERE sl.server_id = @serverID
						ORDER BY l.display_name`

	var rows pgx.Rows
	var err error
	if aggregate {
		rows, err = db.pool.Query(ctx, aggregateQuery)
	} else {
		rows, err = db.pool.Query(ctx, serverQuery, pgx.NamedArgs{"serverID": serverID})
	}
	if err != nil {
		return nil, fmt.Errorf("error querying leagues for server %d: %w", serverID, err)
	}
	defer rows.Close()

	results := make([]model.ServerLeague, 0, 8)
	for rows.Next() {
		var sl model.ServerLeague
		var created pgtype.Timestamptz
		if err := rows.Scan(&sl.ID, &sl.Name, &sl.DisplayName, &created, &sl.CurrentWeek); err != nil {
			return nil, fmt.Errorf("error scanning server league: %w", err)
		}
		sl.Created = created.Time
		results = append(results, sl)
	}

	return results, rows.Err()
}

func (db *postgresDB) GetServerUsers(ctx context.Context, serverID int64, aggregate bool) ([]string, error) {
	const aggregateQuery = `SELECT DISTINCT u.username
							FROM users u
							WHERE u.user_id IN (SELECT DISTINCT user_id FROM user_leagues)
							ORDER BY u.username`

	const serverQuery = `SELECT DISTINCT u.username
						FROM users u
						JOIN user_leagues ul ON u.user_id = ul.user_id
						JOIN server_leagues sl ON ul.league_id = sl.league_id
						WHERE sl.server_id = @serverID
						ORDER BY u.username`

	var rows pgx.Rows
	var err error
	if aggregate {
		rows, err = db.pool.Query(ctx, aggregateQuery)
	} else {
		rows, err = db.pool.Query(ctx, serverQuery, pgx.NamedArgs{"serverID": serverID})
	}
	if err != nil {
		return nil, fmt.Errorf("error querying users for server %d: %w", serverID, err)
	}
	defer rows.Close()

	results := make([]string, 0, 16)
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("error scanning username: %w", err)
		}
		results = append(results, username)
	}

	return results, rows.Err()
}

func (db *postgresDB) GetLeagueStatuses(ctx context.Context, leagueID int32) (map[string]model.ReadyStatus, error) {
	const query = `SELECT u.username, ul.ready_status
					FROM users u
					JOIN user_leagues ul ON u.user_id = ul.user_id
					WHERE ul.league_id = @leagueID`

	rows, err := db.pool.Query(ctx, query, pgx.NamedArgs{"leagueID": leagueID})
	if err != nil {
		return nil, fmt.Errorf("error querying statuses for league %d: %w", leagueID, err)
	}
	defer rows.Close()

	statuses := make(map[string]model.ReadyStatus)
	for rows.Next() {
		var username, status string
		if err := rows.Scan(&username, &status); err != nil {
			return nil, fmt.Errorf("error scanning league status: %w", err)
		}
		statuses[username] = model.ReadyStatus(status)
	}

	return statuses, rows.Err()
}

func scanLeague(row pgx.Row) (*model.League, error) {
	var l model.League
	var created pgtype.Timestamptz
	if err := row.Scan(&l.ID, &l.Name, &l.DisplayName, &created); err != nil {
		return nil, err
	}
	l.Created = created.Time
	return &l, nil
}

func scanServer(row pgx.Row) (*model.Server, error) {
	var s model.Server
	var name sql.NullString
	var channelID, tableMsgID, statusMsgID sql.NullInt64
	var created pgtype.Timestamptz
	err := row.Scan(
		&s.ID,
		&name,
		&channelID,
		&tableMsgID,
		&statusMsgID,
		&s.IsMain,
		&created)
	if err != nil {
		return nil, err
	}

	s.Name = name.String
	s.ChannelID = channelID.Int64
	s.TableMessageID = tableMsgID.Int64
	s.StatusMessageID = statusMsgID.Int64
	s.Created = created.Time

	return &s, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

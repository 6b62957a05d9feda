package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mi1knc0okies/CFB-Ready-Bot/model"
)

func (db *postgresDB) UpsertUser(ctx context.Context, username string) (*model.User, error) {
	// The no-op DO UPDATE makes the insert return the existing row instead of
	// failing, so adding a user is idempotent.
	const query = `INSERT INTO users (username, created_at)
					VALUES (@username, @created)
					ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
					RETURNING user_id, username, discord_id, is_admin, created_at`

	args := pgx.NamedArgs{
		"username": username,
		"created":  db.clock.Now().UTC(),
	}
	row := db.pool.QueryRow(ctx, query, args)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("error upserting user %s: %w", username, err)
	}
	return u, nil
}

func (db *postgresDB) GetUser(ctx context.Context, username string) (*model.User, error) {
	const query = `SELECT user_id, username, discord_id, is_admin, created_at FROM users WHERE username=@username`

	row := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"username": username})
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user %s: %w", username, err)
	}
	return u, nil
}

func (db *postgresDB) GetUserByDiscordID(ctx context.Context, discordID int64) (*model.User, error) {
	const query = `SELECT user_id, username, discord_id, is_admin, created_at FROM users WHERE discord_id=@discordID`

	row := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"discordID": discordID})
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user for discord id %d: %w", discordID, err)
	}
	return u, nil
}

func (db *postgresDB) LinkDiscordUser(ctx context.Context, username string, discordID int64) error {
	const query = `UPDATE users SET discord_id=@discordID WHERE username=@username`

	args := pgx.NamedArgs{
		"username":  username,
		"discordID": discordID,
	}
	tag, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDiscordIDInUse
		}
		return fmt.Errorf("error linking discord user to %s: %w", username, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (db *postgresDB) SetUserAdmin(ctx context.Context, username string, admin bool) error {
	const query = `UPDATE users SET is_admin=@admin WHERE username=@username`

	args := pgx.NamedArgs{
		"username": username,
		"admin":    admin,
	}
	tag, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("error setting admin flag for %s: %w", username, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (db *postgresDB) DeleteUser(ctx context.Context, username string) error {
	// Memberships are removed by the ON DELETE CASCADE on user_leagues.
	const query = `DELETE FROM users WHERE username=@username`

	tag, err := db.pool.Exec(ctx, query, pgx.NamedArgs{"username": username})
	if err != nil {
		return fmt.Errorf("error deleting user %s: %w", username, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (db *postgresDB) GetUserLeagues(ctx context.Context, username string) ([]model.UserLeague, error) {
	if _, err := db.GetUser(ctx, username); err != nil {
		return nil, err
	}

	const query = `SELECT l.name, l.display_name, ul.ready_status
					FROM users u
					JOIN user_leagues ul ON u.user_id = ul.user_id
					JOIN leagues l ON ul.league_id = l.league_id
					WHERE u.username = @username
					ORDER BY l.display_name`

	rows, err := db.pool.Query(ctx, query, pgx.NamedArgs{"username": username})
	if err != nil {
		return nil, fmt.Errorf("error querying leagues for user %s: %w", username, err)
	}
	defer rows.Close()

	results := make([]model.UserLeague, 0, 8)
	for rows.Next() {
		var ul model.UserLeague
		var status string
		if err := rows.Scan(&ul.LeagueName, &ul.DisplayName, &status); err != nil {
			return nil, fmt.Errorf("error scanning user league: %w", err)
		}
		ul.Status = model.ReadyStatus(status)
		results = append(results, ul)
	}

	return results, rows.Err()
}

func (db *postgresDB) AddMemberships(ctx context.Context, username string, leagueNames []string) ([]string, []string, error) {
	const userQuery = `SELECT user_id FROM users WHERE username=@username`
	const leagueQuery = `SELECT league_id FROM leagues WHERE name=@name`
	// Re-adding an existing membership deliberately resets the status.
	const insertQuery = `INSERT INTO user_leagues (user_id, league_id, ready_status)
						VALUES (@userID, @leagueID, '')
						ON CONFLICT (user_id, league_id) DO UPDATE SET ready_status = ''`

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID int32
	err = tx.QueryRow(ctx, userQuery, pgx.NamedArgs{"username": username}).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("error looking up user %s: %w", username, err)
	}

	added := make([]string, 0, len(leagueNames))
	unknown := make([]string, 0)
	for _, name := range leagueNames {
		var leagueID int32
		err := tx.QueryRow(ctx, leagueQuery, pgx.NamedArgs{"name": name}).Scan(&leagueID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				unknown = append(unknown, name)
				continue
			}
			return nil, nil, fmt.Errorf("error looking up league %s: %w", name, err)
		}

		args := pgx.NamedArgs{
			"userID":   userID,
			"leagueID": leagueID,
		}
		if _, err := tx.Exec(ctx, insertQuery, args); err != nil {
			return nil, nil, fmt.Errorf("error adding %s to league %s: %w", username, name, err)
		}
		added = append(added, name)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("error committing memberships for %s: %w", username, err)
	}
	return added, unknown, nil
}

func (db *postgresDB) RemoveMemberships(ctx context.Context, username string, leagueNames []string) ([]string, error) {
	const userQuery = `SELECT user_id FROM users WHERE username=@username`
	const deleteQuery = `DELETE FROM user_leagues
						WHERE user_id = @userID
							AND league_id = (SELECT league_id FROM leagues WHERE name = @name)`

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID int32
	err = tx.QueryRow(ctx, userQuery, pgx.NamedArgs{"username": username}).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error looking up user %s: %w", username, err)
	}

	removed := make([]string, 0, len(leagueNames))
	for _, name := range leagueNames {
		args := pgx.NamedArgs{
			"userID": userID,
			"name":   name,
		}
		tag, err := tx.Exec(ctx, deleteQuery, args)
		if err != nil {
			return nil, fmt.Errorf("error removing %s from league %s: %w", username, name, err)
		}
		if tag.RowsAffected() > 0 {
			removed = append(removed, name)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("error committing membership removal for %s: %w", username, err)
	}
	return removed, nil
}

func (db *postgresDB) SetReadyStatus(ctx context.Context, username, leagueName string, status model.ReadyStatus) error {
	const query = `UPDATE user_leagues
					SET ready_status = @status
					WHERE user_id = (SELECT user_id FROM users WHERE username = @username)
						AND league_id = (SELECT league_id FROM leagues WHERE name = @name)`

	args := pgx.NamedArgs{
		"username": username,
		"name":     leagueName,
		"status":   string(status),
	}
	tag, err := db.pool.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("error setting status for %s in %s: %w", username, leagueName, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotAMember
	}
	return nil
}

func (db *postgresDB) GetReadyStatus(ctx context.Context, username string, leagueID int32) (model.ReadyStatus, error) {
	const query = `SELECT ul.ready_status
					FROM users u
					JOIN user_leagues ul ON u.user_id = ul.user_id
					WHERE u.username = @username AND ul.league_id = @leagueID`

	args := pgx.NamedArgs{
		"username": username,
		"leagueID": leagueID,
	}
	var status string
	err := db.pool.QueryRow(ctx, query, args).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.StatusNotReady, ErrNotAMember
		}
		return model.StatusNotReady, fmt.Errorf("error reading status for %s in league %d: %w", username, leagueID, err)
	}
	return model.ReadyStatus(status), nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var discordID sql.NullInt64
	var created pgtype.Timestamptz
	err := row.Scan(
		&u.ID,
		&u.Username,
		&discordID,
		&u.IsAdmin,
		&created)
	if err != nil {
		return nil, err
	}

	u.DiscordID = discordID.Int64
	u.Created = created.Time

	return &u, nil
}

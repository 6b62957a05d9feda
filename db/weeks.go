package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// advanceLock serializes week transitions for one (server, league) pair by
// locking the server_leagues row. Two racing "last member ready" calls both
// reach AutoAdvance, but the second one blocks here and then sees the cleared
// statuses, so the week only ever increments once.
const advanceLockQuery = `SELECT current_week FROM server_leagues
							WHERE server_id = @serverID AND league_id = @leagueID
							FOR UPDATE`

const readinessQuery = `SELECT COUNT(*), COUNT(*) FILTER (WHERE ready_status = 'X')
						FROM user_leagues WHERE league_id = @leagueID`

// Clearing is global: every server sharing the league sees the reset.
const clearStatusesQuery = `UPDATE user_leagues SET ready_status = '' WHERE league_id = @leagueID`

const incrementWeekQuery = `UPDATE server_leagues
							SET current_week = current_week + 1
							WHERE server_id = @serverID AND league_id = @leagueID
							RETURNING current_week`

func (db *postgresDB) AutoAdvance(ctx context.Context, serverID int64) ([]string, error) {
	const leaguesQuery = `SELECT l.league_id, l.display_name
						FROM leagues l
						JOIN server_leagues sl ON l.league_id = sl.league_id
						WHERE sl.server_id = @serverID
						ORDER BY l.display_name`

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, leaguesQuery, pgx.NamedArgs{"serverID": serverID})
	if err != nil {
		return nil, fmt.Errorf("error querying leagues for server %d: %w", serverID, err)
	}

	type leagueInfo struct {
		id      int32
		display string
	}
	leagues := make([]leagueInfo, 0, 8)
	for rows.Next() {
		var l leagueInfo
		if err := rows.Scan(&l.id, &l.display); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning league: %w", err)
		}
		leagues = append(leagues, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Each league is checked and advanced independently so one league at 100%
	// never blocks another.
	advanced := make([]string, 0, len(leagues))
	for _, l := range leagues {
		args := pgx.NamedArgs{
			"serverID": serverID,
			"leagueID": l.id,
		}

		var week int
		if err := tx.QueryRow(ctx, advanceLockQuery, args).Scan(&week); err != nil {
			return nil, fmt.Errorf("error locking week for league %s: %w", l.display, err)
		}

		var total, ready int
		err := tx.QueryRow(ctx, readinessQuery, pgx.NamedArgs{"leagueID": l.id}).Scan(&total, &ready)
		if err != nil {
			return nil, fmt.Errorf("error counting readiness for league %s: %w", l.display, err)
		}
		if total == 0 || ready != total {
			continue
		}

		if _, err := tx.Exec(ctx, clearStatusesQuery, pgx.NamedArgs{"leagueID": l.id}); err != nil {
			return nil, fmt.Errorf("error clearing statuses for league %s: %w", l.display, err)
		}
		if err := tx.QueryRow(ctx, incrementWeekQuery, args).Scan(&week); err != nil {
			return nil, fmt.Errorf("error incrementing week for league %s: %w", l.display, err)
		}
		advanced = append(advanced, l.display)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("error committing auto-advance for server %d: %w", serverID, err)
	}
	return advanced, nil
}

func (db *postgresDB) AdvanceWeek(ctx context.Context, serverID int64, leagueName string) (string, int, error) {
	l, err := db.GetLeague(ctx, leagueName)
	if err != nil {
		return "", 0, err
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	args := pgx.NamedArgs{
		"serverID": serverID,
		"leagueID": l.ID,
	}

	var week int
	if err := tx.QueryRow(ctx, advanceLockQuery, args).Scan(&week); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", 0, ErrLeagueNotAssigned
		}
		return "", 0, fmt.Errorf("error locking week for league %s: %w", leagueName, err)
	}

	if _, err := tx.Exec(ctx, clearStatusesQuery, pgx.NamedArgs{"leagueID": l.ID}); err != nil {
		return "", 0, fmt.Errorf("error clearing statuses for league %s: %w", leagueName, err)
	}
	if err := tx.QueryRow(ctx, incrementWeekQuery, args).Scan(&week); err != nil {
		return "", 0, fmt.Errorf("error incrementing week for league %s: %w", leagueName, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", 0, fmt.Errorf("error committing advance for league %s: %w", leagueName, err)
	}
	return l.DisplayName, week, nil
}

func (db *postgresDB) SetWeek(ctx context.Context, serverID int64, leagueName string, week int) (string, int, error) {
	l, err := db.GetLeague(ctx, leagueName)
	if err != nil {
		return "", 0, err
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	args := pgx.NamedArgs{
		"serverID": serverID,
		"leagueID": l.ID,
	}

	var oldWeek int
	if err := tx.QueryRow(ctx, advanceLockQuery, args).Scan(&oldWeek); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", 0, ErrLeagueNotAssigned
		}
		return "", 0, fmt.Errorf("error locking week for league %s: %w", leagueName, err)
	}

	// Overriding the counter leaves every status untouched.
	const query = `UPDATE server_leagues SET current_week = @week
					WHERE server_id = @serverID AND league_id = @leagueID`
	args["week"] = week
	if _, err := tx.Exec(ctx, query, args); err != nil {
		return "", 0, fmt.Errorf("error setting week for league %s: %w", leagueName, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", 0, fmt.Errorf("error committing set week for league %s: %w", leagueName, err)
	}
	return l.DisplayName, oldWeek, nil
}

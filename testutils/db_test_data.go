package testutils

import (
	"context"
	"log"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mi1knc0okies/CFB-Ready-Bot/containers"
	"github.com/mi1knc0okies/CFB-Ready-Bot/db"
)

// The fixture leagues every TestDB starts with.
var (
	LeagueREL = testLeague{Name: "rel", DisplayName: "REL"}
	LeagueD2  = testLeague{Name: "d2", DisplayName: "D2"}
	LeagueD3  = testLeague{Name: "d3", DisplayName: "D3"}
)

type testLeague struct {
	Name        string
	DisplayName string
}

type TestDB struct {
	container *containers.DBContainer
	DB        db.DB
	Clock     *clock.Mock
}

func NewTestDB() *TestDB {
	container := containers.NewDBContainer()

	clock := clock.NewMock()
	clock.Set(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC))

	db, err := db.New(context.Background(), container.ConnectionString(), clock)
	if err != nil {
		log.Fatalf("error connecting to db in test container: %v", err)
	}

	if err := InsertTestLeagues(db); err != nil {
		log.Fatalf("error populating db in test container: %v", err)
	}

	return &TestDB{
		container: container,
		DB:        db,
		Clock:     clock,
	}
}

func (db *TestDB) Shutdown() {
	db.container.Shutdown()
}

func InsertTestLeagues(db db.DB) error {
	leagues := []testLeague{
		LeagueREL,
		LeagueD2,
		LeagueD3,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, l := range leagues {
		if _, err := db.AddLeague(ctx, l.Name, l.DisplayName); err != nil {
			return err
		}
	}

	return nil
}

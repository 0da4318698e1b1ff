package journal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// every connection to :memory: gets its own database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	up, err := Migrations.ReadFile(MigrationsDir + "/000001_flow_results.up.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(up))
	require.NoError(t, err)
	return db
}

type row struct {
	ID      string `db:"id"`
	UserID  int64  `db:"user_id"`
	ChatID  int64  `db:"chat_id"`
	Flow    string `db:"flow"`
	Outcome string `db:"outcome"`
	Detail  string `db:"detail"`
}

func TestStoreRecordFillsIDAndTime(t *testing.T) {
	db := openTestDB(t)
	store := NewStore(db)
	store.now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }

	err := store.Record(context.Background(), Entry{
		UserID:  7,
		ChatID:  7,
		Flow:    "weather",
		Outcome: "ok",
		Detail:  "Kyiv",
	})
	require.NoError(t, err)

	var rows []row
	require.NoError(t, db.Select(&rows, `SELECT id, user_id, chat_id, flow, outcome, detail FROM flow_results`))
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].UserID)
	assert.Equal(t, "weather", rows[0].Flow)
	assert.Equal(t, "ok", rows[0].Outcome)
	assert.Equal(t, "Kyiv", rows[0].Detail)
	_, err = uuid.Parse(rows[0].ID)
	assert.NoError(t, err)
}

func TestStoreRecordKeepsExplicitID(t *testing.T) {
	db := openTestDB(t)
	store := NewStore(db)
	id := uuid.New().String()

	require.NoError(t, store.Record(context.Background(), Entry{ID: id, UserID: 1, ChatID: -100, Flow: "poll", Outcome: "rejected"}))
	err := store.Record(context.Background(), Entry{ID: id, UserID: 1, ChatID: -100, Flow: "poll", Outcome: "ok"})
	assert.Error(t, err, "duplicate primary key")

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM flow_results WHERE id = ?`, id))
	assert.Equal(t, 1, count)
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := Migrations.ReadDir(MigrationsDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"000001_flow_results.down.sql", "000001_flow_results.up.sql"}, names)
}

func TestNoopRecorder(t *testing.T) {
	assert.NoError(t, Noop{}.Record(context.Background(), Entry{Flow: "cute"}))
}

package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pmhscreen/internal/model"
	"pmhscreen/internal/platform/logger"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newRecord(owner string, at time.Time, values map[string]string) *model.StoredScreening {
	rule := model.RulePositivePHQ2
	return &model.StoredScreening{
		OwnerID:   owner,
		Responses: model.NewResponseSet(values),
		RiskResult: model.RiskResult{
			Classification: model.HighRisk,
			Reason:         "test",
			RuleTriggered:  &rule,
			PHQ2Total:      4,
		},
		Routing:   model.RoutingResult{SettingName: "Pharmacy", ReferralText: "ask"},
		CreatedAt: at,
	}
}

func TestOpenSQLite_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "screening.db")
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	// schema creation is idempotent
	db2, err := OpenSQLite(path)
	require.NoError(t, err)
	db2.Close()
}

func TestSQLiteScreeningRepo_SaveAndQuery(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteScreeningRepo(openTestDB(t), logger.Nop())

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	first := newRecord("u1", base, map[string]string{"PHQ2_Q1": "2", "PHQ2_Q2": "2"})
	second := newRecord("u1", base.Add(time.Hour), map[string]string{"FLU_SRC": "5"})
	other := newRecord("u2", base.Add(30*time.Minute), nil)

	for _, rec := range []*model.StoredScreening{first, second, other} {
		id, err := repo.Save(ctx, rec)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, rec.ID)
	}

	history, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
	assert.Equal(t, model.ResponseSet{"PHQ2_Q1": "2", "PHQ2_Q2": "2"}, history[1].Responses)
	assert.Equal(t, "POSITIVE_PHQ2", history[1].RiskResult.RuleName())
	assert.Equal(t, "Pharmacy", history[1].Routing.SettingName)
	assert.True(t, base.Equal(history[1].CreatedAt))

	latest, err := repo.Latest(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)

	none, err := repo.Latest(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, none)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{first.ID, other.ID, second.ID}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestSQLiteScreeningRepo_RejectsMissingOwner(t *testing.T) {
	repo := NewSQLiteScreeningRepo(openTestDB(t), logger.Nop())

	_, err := repo.Save(context.Background(), newRecord("", time.Now(), nil))
	assert.ErrorIs(t, err, ErrMissingOwner)
}

func TestSQLiteScreeningRepo_SetsCreatedAt(t *testing.T) {
	repo := NewSQLiteScreeningRepo(openTestDB(t), logger.Nop())

	rec := newRecord("u1", time.Time{}, nil)
	_, err := repo.Save(context.Background(), rec)
	require.NoError(t, err)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestSQLiteScreeningRepo_ListAllSkipsCorruptRows(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewSQLiteScreeningRepo(db, logger.Nop())

	_, err := repo.Save(ctx, newRecord("u1", time.Now(), map[string]string{"BPG_MH": "2"}))
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO screening_responses (id, owner_id, responses, risk_result, routing, created_at)
		VALUES ('bad', 'u1', '{not json', '{}', '{}', ?)`, formatTime(time.Now()))
	require.NoError(t, err)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.NotEqual(t, "bad", all[0].ID)
}

func TestSQLiteScreeningRepo_OwnerStats(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteScreeningRepo(openTestDB(t), logger.Nop())

	empty, err := repo.OwnerStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalScreenings)
	assert.Nil(t, empty.FirstScreening)
	assert.Nil(t, empty.LastScreening)

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := repo.Save(ctx, newRecord("u1", base.Add(time.Duration(i)*24*time.Hour), nil))
		require.NoError(t, err)
	}

	stats, err := repo.OwnerStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalScreenings)
	require.NotNil(t, stats.FirstScreening)
	require.NotNil(t, stats.LastScreening)
	assert.True(t, base.Equal(*stats.FirstScreening))
	assert.True(t, base.Add(48*time.Hour).Equal(*stats.LastScreening))
}

func TestSQLiteUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteUserRepo(openTestDB(t))

	user := &model.User{Email: " Ada@Example.com ", PasswordHash: "hash", FirstName: "Ada"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)

	err := repo.Create(ctx, &model.User{Email: "ADA@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	err = repo.Create(ctx, &model.User{Email: "  ", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrMissingEmail)

	byEmail, err := repo.GetByEmail(ctx, "ada@EXAMPLE.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)
	assert.Nil(t, byEmail.LastLogin)

	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.TouchLastLogin(ctx, user.ID, at))

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID.LastLogin)
	assert.True(t, at.Equal(*byID.LastLogin))

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

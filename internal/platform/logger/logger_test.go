package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed(opts ...Option) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewWithCore(core, opts...), logs
}

func TestRedactsSensitiveKeys(t *testing.T) {
	log, logs := observed()

	log.Info("login", "email", "a@b.example", "password", "pw", "Authorization", "Bearer x", "status", 200)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["email"])
	assert.Equal(t, "[REDACTED]", fields["password"])
	assert.Equal(t, "[REDACTED]", fields["Authorization"])
	assert.EqualValues(t, 200, fields["status"])
}

func TestHashesIdentifiers(t *testing.T) {
	log, logs := observed(WithHashSalt("pepper"))

	log.With("owner_id", "u-1").Warn("store failed", "user_id", "u-1")

	fields := logs.All()[0].ContextMap()
	owner, ok := fields["owner_id"].(string)
	require.True(t, ok)
	assert.Regexp(t, `^hash:[0-9a-f]{12}$`, owner)
	assert.Equal(t, owner, fields["user_id"])
	assert.NotContains(t, owner, "u-1")
}

func TestRedactsJWTLikeValues(t *testing.T) {
	log, logs := observed()

	log.Debug("header", "value", "eyJhbGciOiJIUzI1NiJ9.eyJ1c2VySWQiOiJ1MSJ9.sig")

	assert.Equal(t, "[REDACTED]", logs.All()[0].ContextMap()["value"])
}

func TestWithoutRedaction(t *testing.T) {
	log, logs := observed(WithoutRedaction())

	log.Error("boom", "email", "a@b.example")

	assert.Equal(t, "a@b.example", logs.All()[0].ContextMap()["email"])
}

func TestOddKeyValues(t *testing.T) {
	log, logs := observed()

	log.Info("odd", "k", "v", "dangling")

	entries := logs.FilterMessage("odd").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "v", entries[0].ContextMap()["k"])
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Info("ignored", "k", "v")
	log.Sync()
}

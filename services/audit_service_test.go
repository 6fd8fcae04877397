package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRecord(t *testing.T) {
	repo := &stubActionLogRepo{}
	svc := NewAuditService(repo)

	actor := 7
	entity := 42
	svc.Record(context.Background(), &actor, "Atualização de cliente", "client", &entity, "nome alterado", "10.0.0.1")

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, 7, *entry.UserID)
	assert.Equal(t, "Atualização de cliente", entry.Action)
	assert.Equal(t, "client", entry.EntityType)
	assert.Equal(t, 42, *entry.EntityID)
	assert.Equal(t, "10.0.0.1", entry.IPAddress)
}

func TestAuditRecordSkipsAnonymous(t *testing.T) {
	repo := &stubActionLogRepo{}
	svc := NewAuditService(repo)

	svc.Record(context.Background(), nil, "Login", "user", nil, "", "10.0.0.1")

	assert.Empty(t, repo.entries)
}

func TestAuditRecordSwallowsStorageError(t *testing.T) {
	repo := &stubActionLogRepo{createErr: errors.New("database is locked")}
	svc := NewAuditService(repo)

	actor := 7
	// Must not panic or propagate: the audited operation already happened
	svc.Record(context.Background(), &actor, "Login", "user", &actor, "", "10.0.0.1")

	assert.Empty(t, repo.entries)
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/graphvinci/graphvinci/internal/domain"
	"github.com/graphvinci/graphvinci/internal/repository"
	"github.com/graphvinci/graphvinci/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistoryService(t *testing.T) HistoryService {
	t.Helper()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteHistoryRepo(database)
	return NewHistoryService(repo, testutil.NewTestUoW(database), "http://localhost:4000/graphql", nil)
}

func TestHistoryService_SaveAndGet(t *testing.T) {
	svc := newTestHistoryService(t)
	ctx := context.Background()

	e, saved, err := svc.Save(ctx, domain.Operation{Query: "{ users { id } }"})
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, int64(1315579548), e.HashCode)

	got, err := svc.Get(ctx, e.HashCode)
	require.NoError(t, err)
	assert.Equal(t, "users", got.Op)
	assert.Equal(t, "http://localhost:4000/graphql", got.Endpoint)
}

func TestHistoryService_SaveDuplicateIsNoop(t *testing.T) {
	svc := newTestHistoryService(t)
	ctx := context.Background()
	op := domain.Operation{Query: "{ users { id } }", Variables: json.RawMessage(`{"a":1}`)}

	first, saved, err := svc.Save(ctx, op)
	require.NoError(t, err)
	require.True(t, saved)

	again, saved, err := svc.Save(ctx, domain.Operation{Query: op.Query, Variables: json.RawMessage(`{ "a": 1 }`)})
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Equal(t, first.HashCode, again.HashCode)

	list, err := svc.GetHistory(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestHistoryService_DifferentVariablesAreDistinct(t *testing.T) {
	svc := newTestHistoryService(t)
	ctx := context.Background()
	q := "query U($id: ID!) { user(id: $id) { name } }"

	_, _, err := svc.Save(ctx, domain.Operation{Query: q, Variables: json.RawMessage(`{"id":"1"}`)})
	require.NoError(t, err)
	_, saved, err := svc.Save(ctx, domain.Operation{Query: q, Variables: json.RawMessage(`{"id":"2"}`)})
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestHistoryService_GetHistoryFilter(t *testing.T) {
	svc := newTestHistoryService(t)
	ctx := context.Background()
	for _, q := range []string{"{ users { id } }", "{ orders { id } }", "mutation { addUser { id } }"} {
		_, _, err := svc.Save(ctx, domain.Operation{Query: q})
		require.NoError(t, err)
	}

	got, err := svc.GetHistory(ctx, "ser")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.OperationQuery, got[0].Type)
	assert.Equal(t, domain.OperationMutation, got[1].Type)
}

func TestHistoryService_Delete(t *testing.T) {
	svc := newTestHistoryService(t)
	ctx := context.Background()

	e, _, err := svc.Save(ctx, domain.Operation{Query: "{ a }"})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, e.HashCode)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(ctx, e.HashCode)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = svc.Get(ctx, e.HashCode)
	assert.True(t, IsNotFound(err))
}

const legacyHistory = `{
  "1315579548": {"operation": "{ users { id } }", "hash_code": 1315579548, "type": "query", "op": "users", "preview": "{ users { id } }"},
  "221217611": {"operation": "query Q($id: ID!) { user(id: $id) { name } }", "variables": {"id": "42"}, "hash_code": 221217611}
}`

func TestHistoryService_ImportExportRoundTrip(t *testing.T) {
	svc := newTestHistoryService(t)
	ctx := context.Background()

	res, err := svc.Import(ctx, strings.NewReader(legacyHistory))
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Imported: 2}, res)

	got, err := svc.Get(ctx, 221217611)
	require.NoError(t, err)
	assert.Equal(t, "user", got.Op)

	res, err = svc.Import(ctx, strings.NewReader(legacyHistory))
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Skipped: 2}, res)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf))

	other := newTestHistoryService(t)
	res, err = other.Import(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
}

func TestHistoryService_ImportRejectsMalformed(t *testing.T) {
	svc := newTestHistoryService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, strings.NewReader(`{"1": {"operation": "{ a }"`))
	assert.Error(t, err)

	_, err = svc.Import(ctx, strings.NewReader(`{"1": {"operation": ""}}`))
	assert.Error(t, err)
}

func TestHistoryService_ImportRollsBackOnFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteHistoryRepo(database)
	boom := errors.New("disk full")
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: boom}
	svc := NewHistoryService(repo, uow, "", nil)
	ctx := context.Background()

	_, err := svc.Import(ctx, strings.NewReader(legacyHistory))
	require.ErrorIs(t, err, boom)

	list, err := svc.GetHistory(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list, "first insert must roll back")
}

func TestHistoryService_EndpointsAreIsolated(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteHistoryRepo(database)
	uow := testutil.NewTestUoW(database)
	a := NewHistoryService(repo, uow, "http://a/graphql", nil)
	b := NewHistoryService(repo, uow, "http://b/graphql", nil)
	ctx := context.Background()
	op := domain.Operation{Query: "{ users { id } }"}

	ea, saved, err := a.Save(ctx, op)
	require.NoError(t, err)
	require.True(t, saved)

	eb, saved, err := b.Save(ctx, op)
	require.NoError(t, err)
	assert.True(t, saved, "the other endpoint has not saved it yet")
	assert.Equal(t, ea.HashCode, eb.HashCode)
	assert.Equal(t, "http://b/graphql", eb.Endpoint)

	listB, err := b.GetHistory(ctx, "")
	require.NoError(t, err)
	require.Len(t, listB, 1)
	assert.Equal(t, "http://b/graphql", listB[0].Endpoint)

	deleted, err := b.Delete(ctx, eb.HashCode)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = b.Get(ctx, eb.HashCode)
	assert.True(t, IsNotFound(err))
	got, err := a.Get(ctx, ea.HashCode)
	require.NoError(t, err, "deleting on b leaves a's entry")
	assert.Equal(t, "http://a/graphql", got.Endpoint)

	var buf bytes.Buffer
	require.NoError(t, b.Export(ctx, &buf))
	assert.JSONEq(t, `{}`, buf.String(), "export only covers the service's endpoint")
}

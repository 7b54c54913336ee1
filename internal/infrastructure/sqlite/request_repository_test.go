package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/controle-estoque/internal/domain/entity"
	"github.com/jhoicas/controle-estoque/internal/infrastructure/sqlite"
)

func payloadFor(kind entity.Kind) entity.Payload {
	switch kind {
	case entity.KindPasswordReset:
		return entity.PasswordResetPayload{UserName: "ana", Email: "ana@x.com", NewPasswordHash: "h"}
	case entity.KindRegistration:
		return entity.RegistrationPayload{Name: "ana", Email: "ana@x.com", PasswordHash: "h"}
	case entity.KindOrderBatch:
		return entity.OrderBatchPayload{Origin: entity.Flow171, Description: "lote", TotalRowCount: 3}
	default:
		return entity.FilePayload{Category: kind, Title: "POP", Description: "descripción larga", FileName: "a.pdf", FilePath: "/tmp/a.pdf"}
	}
}

func TestRequestRepo_RoundTripPorTipo(t *testing.T) {
	ctx := context.Background()
	stores := openStores(t)

	for _, kind := range entity.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			db, err := stores.ForKind(kind)
			require.NoError(t, err)
			repo, err := sqlite.NewRequestRepository(db, kind)
			require.NoError(t, err)

			req := &entity.Request{Payload: payloadFor(kind)}
			require.NoError(t, repo.Create(ctx, req))
			assert.NotZero(t, req.ID)
			assert.Equal(t, entity.StatusPending, req.Status)

			got, err := repo.GetByID(ctx, req.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, kind, got.Kind)
			assert.Equal(t, entity.StatusPending, got.Status)
			assert.Equal(t, payloadFor(kind), got.Payload)
			assert.Nil(t, got.ResolvedAt)
		})
	}
}

func TestRequestRepo_PayloadDeOtroTipo(t *testing.T) {
	repo, err := sqlite.NewRequestRepository(openStores(t).Auth, entity.KindRegistration)
	require.NoError(t, err)

	err = repo.Create(context.Background(), &entity.Request{Payload: payloadFor(entity.KindPasswordReset)})
	assert.Error(t, err)

	_, err = sqlite.NewRequestRepository(openStores(t).Auth, entity.Kind("x"))
	assert.Error(t, err)
}

func TestRequestRepo_TransitionEsCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	repo, err := sqlite.NewRequestRepository(openStores(t).Reports, entity.KindReport)
	require.NoError(t, err)

	req := &entity.Request{Payload: payloadFor(entity.KindReport)}
	require.NoError(t, repo.Create(ctx, req))

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	ok, err := repo.Transition(ctx, req.ID, entity.StatusApproved, at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Transition(ctx, req.ID, entity.StatusRejected, at)
	require.NoError(t, err)
	assert.False(t, ok, "una solicitud resuelta no vuelve a cambiar")

	got, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, got.Status)
	require.NotNil(t, got.ResolvedAt)
	assert.True(t, at.Equal(*got.ResolvedAt))

	_, err = repo.Transition(ctx, req.ID, entity.StatusPending, at)
	assert.Error(t, err, "pending no es un destino válido")

	ok, err = repo.Transition(ctx, 999, entity.StatusApproved, at)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRequestRepo_ListByStatusMasRecientePrimero(t *testing.T) {
	ctx := context.Background()
	repo, err := sqlite.NewRequestRepository(openStores(t).Auth, entity.KindDocument)
	require.NoError(t, err)

	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	var ids []int64
	for i := 0; i < 3; i++ {
		req := &entity.Request{Payload: payloadFor(entity.KindDocument), CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.Create(ctx, req))
		ids = append(ids, req.ID)
	}
	_, err = repo.Transition(ctx, ids[1], entity.StatusRejected, base)
	require.NoError(t, err)

	pending, err := repo.ListByStatus(ctx, entity.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, ids[2], pending[0].ID)
	assert.Equal(t, ids[0], pending[1].ID)

	rejected, err := repo.ListByStatus(ctx, entity.StatusRejected)
	require.NoError(t, err)
	require.Len(t, rejected, 1)

	deleted, err := repo.Delete(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, ids[0])
	require.NoError(t, err)
	assert.False(t, deleted)
}

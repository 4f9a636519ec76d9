package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapserve/snapserve/internal/domain"
	"github.com/snapserve/snapserve/internal/storage"
)

func TestTableByQRResolvesSeededTable(t *testing.T) {
	env := newTestEnv(t)

	seeded, err := env.store.GetTable(context.Background(), 1)
	require.NoError(t, err)

	var table domain.Table
	rec := do(t, env.handlers.HandleTableByQR, http.MethodGet, "/api/tables/qr/"+seeded.QRCode, nil, &table)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, seeded.ID, table.ID)

	rec = do(t, env.handlers.HandleTableByQR, http.MethodGet, "/api/tables/qr/no-such-code", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTableByQRHidesInactiveTables(t *testing.T) {
	env := newTestEnv(t)

	seeded, err := env.store.GetTable(context.Background(), 2)
	require.NoError(t, err)

	inactive := false
	_, err = env.store.UpdateTable(context.Background(), seeded.ID, storage.TableUpdate{IsActive: &inactive})
	require.NoError(t, err)

	rec := do(t, env.handlers.HandleTableByQR, http.MethodGet, "/api/tables/qr/"+seeded.QRCode, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTableGeneratesQRCode(t *testing.T) {
	env := newTestEnv(t)

	var table domain.Table
	rec := do(t, env.handlers.HandleCreateTable, http.MethodPost, "/api/tables", domain.Table{Number: "5"}, &table)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.NotEmpty(t, table.QRCode)
	assert.Equal(t, 4, table.Capacity)
	assert.True(t, table.IsActive)

	rec = do(t, env.handlers.HandleCreateTable, http.MethodPost, "/api/tables", domain.Table{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAndUpdateTables(t *testing.T) {
	env := newTestEnv(t)

	var tables []domain.Table
	rec := do(t, env.handlers.HandleListTables, http.MethodGet, "/api/tables", nil, &tables)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, tables, 4)

	capacity := 8
	var updated domain.Table
	rec = do(t, env.handlers.HandleUpdateTable, http.MethodPut, "/api/tables/1", updateTableRequest{Capacity: &capacity}, &updated)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 8, updated.Capacity)
	assert.Equal(t, "1", updated.Number)
}

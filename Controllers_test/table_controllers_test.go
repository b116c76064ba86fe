package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/ticketing"
)

func TestGetAllTables(t *testing.T) {
	env := setupEnv(t)

	code, resp := env.do(t, http.MethodGet, "/api/tables", waiterToken(t), nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "List of tables", resp.Message)

	var tables []models.Table
	decode(t, resp.Data, &tables)
	require.Len(t, tables, 3)
	assert.Equal(t, models.TableEmpty, tables[0].Status)
}

func TestOpenTable(t *testing.T) {
	env := setupEnv(t)

	code, resp := env.do(t, http.MethodPost, "/api/tables/table-2/open", waiterToken(t), gin.H{"guest_count": 4})
	require.Equal(t, http.StatusOK, code, resp.Message)
	var table models.Table
	decode(t, resp.Data, &table)
	assert.Equal(t, models.TableOccupied, table.Status)
	assert.Equal(t, 4, table.GuestCount)
	assert.Equal(t, "Ayse", table.Waiter)

	code, _ = env.do(t, http.MethodPost, "/api/tables/table-2/open", waiterToken(t), gin.H{"guest_count": 2})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = env.do(t, http.MethodPost, "/api/tables/table-9/open", waiterToken(t), gin.H{"guest_count": 2})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = env.do(t, http.MethodPost, "/api/tables/table-3/open", waiterToken(t), gin.H{"guest_count": -1})
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = env.do(t, http.MethodGet, "/api/tables/mine", waiterToken(t), nil)
	require.Equal(t, http.StatusOK, code)
	var mine []models.Table
	decode(t, resp.Data, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "table-2", mine[0].ID)
}

func TestCloseTableWaitsForActiveOrders(t *testing.T) {
	env := setupEnv(t)
	env.openTable(t, "table-1", 2)
	order := env.submit(t, "table-1", gin.H{"menu_item_id": "cola", "quantity": 1})

	code, resp := env.do(t, http.MethodPost, "/api/tables/table-1/close", waiterToken(t), nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, resp.Message, ticketing.ErrTableHasActiveOrders.Error())

	code, _ = env.do(t, http.MethodPost, "/api/orders/"+order.ID+"/complete", waiterToken(t), nil)
	require.Equal(t, http.StatusOK, code)

	code, resp = env.do(t, http.MethodPost, "/api/tables/table-1/close", waiterToken(t), nil)
	require.Equal(t, http.StatusOK, code, resp.Message)
	var table models.Table
	decode(t, resp.Data, &table)
	assert.Equal(t, models.TableEmpty, table.Status)
	assert.Zero(t, table.GuestCount)
}

func TestGetPriorities(t *testing.T) {
	env := setupEnv(t)
	env.openTable(t, "table-1", 2)
	env.openTable(t, "table-2", 2)
	first := env.submit(t, "table-1", gin.H{"menu_item_id": "cola", "quantity": 1})
	env.submit(t, "table-2", gin.H{"menu_item_id": "cola", "quantity": 1})

	code, _ := env.do(t, http.MethodPost, "/api/orders/"+first.ID+"/stations/bar/ready", barToken(t), nil)
	require.Equal(t, http.StatusOK, code)

	code, resp := env.do(t, http.MethodGet, "/api/tables/priorities", waiterToken(t), nil)
	require.Equal(t, http.StatusOK, code)
	var ranked []ticketing.TablePriority
	decode(t, resp.Data, &ranked)
	require.Len(t, ranked, 1)
	assert.Equal(t, "table-1", ranked[0].TableID)
}

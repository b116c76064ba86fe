package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/database"
	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/router"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/store/gormstore"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	utils.InitLogger("", "")
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("integration-secret")
	os.Exit(m.Run())
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t        *testing.T
	r        *gin.Engine
	token    string
	business string
}

func (c client) call(method, path string, body interface{}) (int, envelope) {
	c.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(c.t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.business != "" {
		req.Header.Set("X-Business-ID", c.business)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)

	var resp envelope
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func (c client) must(code int, method, path string, body interface{}, out interface{}) {
	c.t.Helper()
	got, resp := c.call(method, path, body)
	require.Equal(c.t, code, got, "%s %s: %s", method, path, resp.Message)
	if out != nil {
		require.NoError(c.t, json.Unmarshal(resp.Data, out))
	}
}

func login(t *testing.T, r *gin.Engine, email, password string) client {
	t.Helper()
	anon := client{t: t, r: r}
	var out struct {
		Token string `json:"token"`
	}
	anon.must(http.StatusOK, http.MethodPost, "/login", gin.H{"email": email, "password": password}, &out)
	return client{t: t, r: r, token: out.Token}
}

// TestEndToEndIntegration drives one evening service:
// superadmin creates a business, staff log in, a waiter seats two tables,
// the bar clears a merged line, and a table can only close once its
// orders are done.
func TestEndToEndIntegration(t *testing.T) {
	ctx := context.Background()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	st := gormstore.New(db)
	tables := services.NewTableService(st, st, st)
	users := services.NewUserService(st)
	hub := kds.NewHub()
	monitor := services.NewChangeMonitor(st, hub)
	r := router.SetupRouter(router.Dependencies{
		Catalog:     st,
		Orders:      services.NewOrderService(st, st, st, nil),
		Tables:      tables,
		Businesses:  services.NewBusinessService(st, st, tables, database.SeedMenu),
		Users:       users,
		Hub:         hub,
		CORSOrigins: "*",
	})
	require.NoError(t, users.EnsureSuperAdmin(ctx, "root@example.com", "rootpass"))

	// 1. superadmin opens a business with the sample menu
	root := login(t, r, "root@example.com", "rootpass")
	var business models.Business
	root.must(http.StatusCreated, http.MethodPost, "/api/superadmin/businesses",
		gin.H{"name": "Meyhane Kadikoy", "table_count": 4, "seed_menu": true}, &business)
	cola := business.ID + ":soft-1"
	soup := business.ID + ":starter-1"

	// 2. staff accounts, created inside the new business
	root.business = business.ID
	for _, u := range []gin.H{
		{"name": "Ayse", "email": "ayse@example.com", "password": "secret1", "roles": []string{"waiter"}},
		{"name": "Mert", "email": "mert@example.com", "password": "secret1", "roles": []string{"bar"}},
		{"name": "Elif", "email": "elif@example.com", "password": "secret1", "roles": []string{"kitchen"}},
	} {
		root.must(http.StatusCreated, http.MethodPost, "/api/admin/users", u, nil)
	}
	waiter := login(t, r, "ayse@example.com", "secret1")
	bar := login(t, r, "mert@example.com", "secret1")
	kitchen := login(t, r, "elif@example.com", "secret1")

	var mu sync.Mutex
	var snapshot []models.Order
	cancel, err := monitor.SubscribeActiveOrders(ctx, business.ID, func(orders []models.Order) {
		mu.Lock()
		defer mu.Unlock()
		snapshot = orders
	})
	require.NoError(t, err)
	defer cancel()
	activeSeen := func() int {
		require.NoError(t, monitor.CheckChanges(ctx))
		mu.Lock()
		defer mu.Unlock()
		return len(snapshot)
	}

	// 3. two tables order a cola each, table 1 adds a soup
	waiter.must(http.StatusOK, http.MethodPost, "/api/tables/table-1/open", gin.H{"guest_count": 2}, nil)
	waiter.must(http.StatusOK, http.MethodPost, "/api/tables/table-2/open", gin.H{"guest_count": 1}, nil)

	var first, second models.Order
	waiter.must(http.StatusCreated, http.MethodPost, "/api/orders", gin.H{
		"table_id": "table-1",
		"items":    []gin.H{{"menu_item_id": cola, "quantity": 1}, {"menu_item_id": soup, "quantity": 1}},
	}, &first)
	waiter.must(http.StatusCreated, http.MethodPost, "/api/orders", gin.H{
		"table_id": "table-2",
		"items":    []gin.H{{"menu_item_id": cola, "quantity": 1}},
	}, &second)
	assert.Equal(t, 105.0, first.Total)
	assert.Equal(t, 2, activeSeen())

	// 4. the bar sees one merged cola line and clears it
	var board services.Board
	bar.must(http.StatusOK, http.MethodGet, "/api/stations/bar/board", nil, &board)
	require.Len(t, board.Pending, 1)
	assert.Equal(t, "menu:"+cola, board.Pending[0].Key)
	assert.Equal(t, 2, board.Pending[0].TotalQuantity)

	bar.must(http.StatusOK, http.MethodPost, "/api/stations/bar/groups/ready", gin.H{"key": board.Pending[0].Key}, nil)
	bar.must(http.StatusOK, http.MethodGet, "/api/stations/bar/board", nil, &board)
	assert.Empty(t, board.Pending)
	require.Len(t, board.Ready, 1)

	// 5. table 1 still has an open order
	code, resp := waiter.call(http.MethodPost, "/api/tables/table-1/close", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, resp.Message, "active orders remain")

	// 6. the kitchen finishes the soup; both tables wait on ready items,
	// table 1 ordered first
	kitchen.must(http.StatusOK, http.MethodPost, "/api/orders/"+first.ID+"/stations/kitchen/ready", nil, nil)
	var ranked []struct {
		TableID string `json:"table_id"`
		Rank    int    `json:"rank"`
	}
	waiter.must(http.StatusOK, http.MethodGet, "/api/tables/priorities", nil, &ranked)
	require.Len(t, ranked, 2)
	assert.Equal(t, "table-1", ranked[0].TableID)

	// 7. serve, complete and close
	waiter.must(http.StatusOK, http.MethodPost, "/api/orders/"+first.ID+"/complete", nil, nil)
	var closed models.Table
	waiter.must(http.StatusOK, http.MethodPost, "/api/tables/table-1/close", nil, &closed)
	assert.Equal(t, models.TableEmpty, closed.Status)
	assert.Equal(t, 1, activeSeen())

	var stats services.DashboardStats
	root.must(http.StatusOK, http.MethodGet, "/api/admin/dashboard", nil, &stats)
	assert.Equal(t, 1, stats.OccupiedTables)
	assert.Equal(t, 1, stats.ActiveOrders)
}

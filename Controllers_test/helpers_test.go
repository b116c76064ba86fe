package Controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
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

const biz = "biz-1"

type testEnv struct {
	router *gin.Engine
	store  *gormstore.Store
	users  *services.UserService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("controllers-test-secret")

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	st := gormstore.New(db)
	tables := services.NewTableService(st, st, st)
	users := services.NewUserService(st)
	r := router.SetupRouter(router.Dependencies{
		Catalog:     st,
		Orders:      services.NewOrderService(st, st, st, nil),
		Tables:      tables,
		Businesses:  services.NewBusinessService(st, st, tables, database.SeedMenu),
		Users:       users,
		Hub:         kds.NewHub(),
		CORSOrigins: "*",
	})

	ctx := context.Background()
	require.NoError(t, st.CreateBusiness(ctx, &models.Business{ID: biz, Name: "Meyhane", Slug: "meyhane", IsActive: true}))
	_, err = tables.SetTableCount(ctx, biz, 3)
	require.NoError(t, err)

	price := func(v float64) *float64 { return &v }
	for _, item := range []models.MenuItem{
		{ID: "soup", Name: "Lentil Soup", Price: price(65), Category: "food", Destination: models.DestinationKitchen},
		{ID: "cola", Name: "Cola", Price: price(40), Category: "drinks", Destination: models.DestinationBar},
	} {
		item.BusinessID = biz
		item.IsActive = true
		require.NoError(t, st.CreateMenuItem(ctx, &item))
	}
	return &testEnv{router: r, store: st, users: users}
}

func token(t *testing.T, userID uint, name, businessID string, roles ...string) string {
	t.Helper()
	tok, err := utils.GenerateToken(userID, name, businessID, roles)
	require.NoError(t, err)
	return tok
}

func waiterToken(t *testing.T) string  { return token(t, 7, "Ayse", biz, models.RoleWaiter) }
func barToken(t *testing.T) string     { return token(t, 8, "Mert", biz, models.RoleBar) }
func kitchenToken(t *testing.T) string { return token(t, 9, "Elif", biz, models.RoleKitchen) }
func adminToken(t *testing.T) string   { return token(t, 1, "Boss", biz, models.RoleAdmin) }

type response struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *testEnv) do(t *testing.T, method, path, tok string, body interface{}, headers ...string) (int, response) {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req, err := http.NewRequest(method, path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp response
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "text/plain; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w.Code, resp
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

func (e *testEnv) openTable(t *testing.T, tableID string, guests int) {
	t.Helper()
	code, resp := e.do(t, http.MethodPost, "/api/tables/"+tableID+"/open", waiterToken(t), gin.H{"guest_count": guests})
	require.Equal(t, http.StatusOK, code, resp.Message)
}

func (e *testEnv) submit(t *testing.T, tableID string, items ...gin.H) models.Order {
	t.Helper()
	code, resp := e.do(t, http.MethodPost, "/api/orders", waiterToken(t), gin.H{"table_id": tableID, "items": items})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	var order models.Order
	decode(t, resp.Data, &order)
	return order
}

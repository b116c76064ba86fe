package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/controllers"
	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/middlewares"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/store"
)

// Dependencies is everything the HTTP layer talks to.
type Dependencies struct {
	Catalog    store.Catalog
	Orders     *services.OrderService
	Tables     *services.TableService
	Businesses *services.BusinessService
	Users      *services.UserService
	Hub        *kds.Hub

	SeedMenu    bool
	CORSOrigins string
	RateLimit   float64
	RateBurst   int
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(deps.CORSOrigins))
	r.Use(middlewares.LoggerMiddleware())
	if deps.RateLimit > 0 {
		r.Use(middlewares.NewRateLimiter(deps.RateLimit, deps.RateBurst).RateLimit())
	}

	userCtrl := controllers.NewUserController(deps.Users)
	tableCtrl := controllers.NewTableController(deps.Tables)
	orderCtrl := controllers.NewOrderController(deps.Orders)
	menuCtrl := controllers.NewMenuController(deps.Catalog)
	kdsCtrl := controllers.NewKDSController(deps.Orders, deps.Hub)
	adminCtrl := controllers.NewAdminController(deps.Tables, deps.Businesses, deps.SeedMenu)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", userCtrl.Login)
	}

	// Displays authenticate with ?token= since browsers cannot set headers
	// on a websocket upgrade.
	r.GET("/ws", middlewares.WebSocketAuthMiddleware(), middlewares.RequireBusiness(), kdsCtrl.Handler)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())

	api.POST("/logout", userCtrl.Logout)

	superadmin := api.Group("/superadmin")
	superadmin.Use(middlewares.RequireRoles(models.RoleSuperAdmin))
	{
		superadmin.POST("/businesses", adminCtrl.CreateBusiness)
	}

	scoped := api.Group("")
	scoped.Use(middlewares.RequireBusiness())

	// MENU (any staff)
	scoped.GET("/menu", menuCtrl.GetMenu)
	scoped.GET("/menu/categories", menuCtrl.GetCategories)

	// FLOOR (waiters)
	floor := scoped.Group("")
	floor.Use(middlewares.RequireRoles(models.RoleWaiter, models.RoleAdmin))
	{
		floor.GET("/tables", tableCtrl.GetAllTables)
		floor.GET("/tables/mine", tableCtrl.GetMyTables)
		floor.GET("/tables/priorities", tableCtrl.GetPriorities)
		floor.POST("/tables/:table_id/open", tableCtrl.OpenTable)
		floor.POST("/tables/:table_id/close", tableCtrl.CloseTable)

		floor.POST("/orders", orderCtrl.CreateOrder)
		floor.GET("/orders", orderCtrl.GetActiveOrders)
		floor.GET("/orders/mine", orderCtrl.GetMyOrders)
		floor.POST("/orders/:order_id/complete", orderCtrl.CompleteOrder)
		floor.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)
	}

	// STATIONS (bar and kitchen)
	stations := scoped.Group("")
	stations.Use(middlewares.RequireRoles(models.RoleBar, models.RoleKitchen, models.RoleAdmin))
	{
		stations.GET("/stations/:destination/board", kdsCtrl.GetBoard)
		stations.POST("/stations/:destination/groups/ready", kdsCtrl.MarkGroupReady)
		stations.POST("/orders/:order_id/items/:item_id/ready", orderCtrl.MarkItemReady)
		stations.POST("/orders/:order_id/stations/:destination/ready", orderCtrl.MarkStationReady)
	}

	// shared by the floor and the stations
	staff := scoped.Group("")
	staff.Use(middlewares.RequireRoles(models.RoleWaiter, models.RoleBar, models.RoleKitchen, models.RoleAdmin))
	{
		staff.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		staff.GET("/orders/:order_id/tickets/:destination", orderCtrl.GetTicket)
	}

	// ADMIN
	admin := scoped.Group("/admin")
	admin.Use(middlewares.RequireRoles(models.RoleAdmin))
	{
		admin.POST("/users", userCtrl.CreateUser)
		admin.PUT("/tables/count", adminCtrl.SetTableCount)
		admin.POST("/menu", menuCtrl.CreateMenuItem)
		admin.PATCH("/menu/:item_id", menuCtrl.UpdateMenuItem)
		admin.GET("/dashboard", adminCtrl.GetDashboardStats)
	}

	return r
}

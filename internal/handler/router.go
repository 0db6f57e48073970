package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockflow/internal/domain/user"
	"stockflow/internal/handler/api"
	"stockflow/internal/handler/middleware"
	"stockflow/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	productHandler *api.ProductHandler,
	labelHandler *api.LabelHandler,
	loanHandler *api.LoanHandler,
	stockHandler *api.StockHandler,
	setupHandler *api.SetupHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, productHandler, labelHandler, loanHandler, stockHandler, setupHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	productHandler *api.ProductHandler,
	labelHandler *api.LabelHandler,
	loanHandler *api.LoanHandler,
	stockHandler *api.StockHandler,
	setupHandler *api.SetupHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: authHandler.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: authHandler.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		setup := apiGroup.Group("/setup")
		{
			addRoutes(setup, []route{
				{Method: http.MethodGet, Path: "/company", Handler: setupHandler.CompanyStatus},
				{Method: http.MethodPost, Path: "/company", Handler: setupHandler.SetupCompany},
			})
		}

		company := apiGroup.Group("/company")
		company.Use(authMiddleware.RequireAuth())
		{
			addRoutes(company, []route{
				{Method: http.MethodGet, Path: "", Handler: setupHandler.CompanyInfo},
			})
		}

		operator := authMiddleware.RequireRoleAtLeast(user.RoleOperator)

		products := apiGroup.Group("/products")
		products.Use(authMiddleware.RequireAuth())
		{
			addRoutes(products, []route{
				{Method: http.MethodGet, Path: "", Handler: productHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: productHandler.Get},
				{Method: http.MethodPost, Path: "", Handler: productHandler.Create, Mw: []gin.HandlerFunc{operator}},
				{Method: http.MethodPut, Path: "/:id", Handler: productHandler.Update, Mw: []gin.HandlerFunc{operator}},
				{Method: http.MethodDelete, Path: "/:id", Handler: productHandler.Delete, Mw: []gin.HandlerFunc{operator}},
				{Method: http.MethodPost, Path: "/:id/sold", Handler: productHandler.MarkSold, Mw: []gin.HandlerFunc{operator}},
			})
		}

		labels := apiGroup.Group("/labels")
		labels.Use(authMiddleware.RequireAuth())
		{
			addRoutes(labels, []route{
				{Method: http.MethodGet, Path: "/:sku/qr.png", Handler: labelHandler.QRCode},
				{Method: http.MethodPost, Path: "/printed", Handler: labelHandler.MarkPrinted, Mw: []gin.HandlerFunc{operator}},
			})
		}

		loans := apiGroup.Group("/loans")
		loans.Use(authMiddleware.RequireAuth())
		{
			addRoutes(loans, []route{
				{Method: http.MethodGet, Path: "", Handler: loanHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: loanHandler.Get},
				{Method: http.MethodPost, Path: "", Handler: loanHandler.Create, Mw: []gin.HandlerFunc{operator}},
				{Method: http.MethodPost, Path: "/:id/returns", Handler: loanHandler.ReturnItems, Mw: []gin.HandlerFunc{operator}},
			})
		}

		warehouses := apiGroup.Group("/warehouses")
		warehouses.Use(authMiddleware.RequireAuth())
		{
			addRoutes(warehouses, []route{
				{Method: http.MethodGet, Path: "", Handler: stockHandler.ListWarehouses},
				{Method: http.MethodPost, Path: "", Handler: stockHandler.CreateWarehouse, Mw: []gin.HandlerFunc{operator}},
			})
		}

		stock := apiGroup.Group("/stock")
		stock.Use(authMiddleware.RequireAuth())
		{
			addRoutes(stock, []route{
				{Method: http.MethodGet, Path: "", Handler: stockHandler.List},
				{Method: http.MethodPost, Path: "/inbound", Handler: stockHandler.Inbound, Mw: []gin.HandlerFunc{operator}},
				{Method: http.MethodPost, Path: "/outbound", Handler: stockHandler.Outbound, Mw: []gin.HandlerFunc{operator}},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"lineboost_console/internal/controller"
	"lineboost_console/internal/middleware"
)

// Controllers 路由需要的全部控制器
type Controllers struct {
	Page       *controller.PageController
	Session    *controller.SessionController
	Store      *controller.StoreController
	Line       *controller.LineController
	Inbox      *controller.InboxController
	Broadcast  *controller.BroadcastController
	Order      *controller.OrderController
	Site       *controller.SiteController
	Analytics  *controller.AnalyticsController
	Knowledge  *controller.KnowledgeController
	Admin      *controller.AdminController
	Storefront *controller.StorefrontController
}

// Guards 鉴权与防重复提交
type Guards struct {
	Sessions    middleware.SessionLoader
	InFlight    middleware.InFlightGuard
	CORSOrigins []string
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctl Controllers, g Guards) {
	once := func(action string) gin.HandlerFunc {
		return middleware.InFlight(g.InFlight, action)
	}

	// 1. 基础路由
	r.GET("/healthz", ctl.Page.Health)
	r.GET("/login", ctl.Page.Login)

	// 2. 控制台页面 (未登录跳转登录页)
	app := r.Group("/app", middleware.PageAuth(g.Sessions))
	{
		app.GET("/*page", ctl.Page.Console)
	}
	// LINE 授权回跳也是页面
	r.GET("/line/callback", middleware.PageAuth(g.Sessions), ctl.Line.Callback)

	// 3. 控制台 API
	r.POST("/api/console/session/login", once("login"), ctl.Session.Login)

	api := r.Group("/api/console", middleware.SessionAuth(g.Sessions))
	{
		session := api.Group("/session")
		{
			session.GET("", ctl.Session.Current)
			session.POST("/refresh", ctl.Session.RefreshToken)
			session.POST("/logout", ctl.Session.Logout)
			session.POST("/store", ctl.Session.SelectStore)
			session.PATCH("/line-oa", ctl.Session.UpdateLineOA)
			session.GET("/plans", ctl.Session.Plans)
		}

		api.GET("/dashboard", ctl.Analytics.GetDashboard)

		stores := api.Group("/stores")
		{
			stores.GET("", ctl.Store.GetStoreList)
			stores.POST("", once("store.create"), ctl.Store.CreateStore)
			stores.POST("/reset", once("store.reset"), ctl.Store.ResetStore)
			stores.GET("/stats", ctl.Store.GetStats)
			stores.GET("/line-credentials", ctl.Store.GetLineCredentials)
			stores.POST("/line-credentials", once("store.line"), ctl.Store.SaveLineCredentials)
			stores.GET("/line-oa-link", ctl.Store.GetOALink)
			stores.GET("/ai-settings", ctl.Store.GetAISettings)
			stores.POST("/ai-settings", once("store.ai"), ctl.Store.UpdateAISettings)
		}

		line := api.Group("/line")
		{
			line.GET("/status", ctl.Line.GetStatus)
			line.POST("/connect", once("line.connect"), ctl.Line.Connect)
		}

		inbox := api.Group("/inbox")
		{
			inbox.GET("/customers", ctl.Inbox.GetCustomers)
			inbox.GET("/customers/:id/history", ctl.Inbox.GetHistory)
			inbox.GET("/customers/:id/stream", ctl.Inbox.Stream)
			inbox.POST("/customers/:id/messages", once("inbox.send"), ctl.Inbox.SendMessage)
			inbox.POST("/customers/:id/suggest", once("inbox.suggest"), ctl.Inbox.Suggest)
			inbox.POST("/customers/:id/admin", once("inbox.admin"), ctl.Inbox.SetAdmin)
		}

		broadcast := api.Group("/broadcast")
		{
			broadcast.POST("", once("broadcast"), ctl.Broadcast.Send)
			broadcast.POST("/ai", once("broadcast.ai"), ctl.Broadcast.GenerateAI)
			broadcast.POST("/send", once("broadcast"), ctl.Broadcast.SendVariant)
			broadcast.POST("/image", once("broadcast.image"), ctl.Broadcast.UploadImage)
		}

		orders := api.Group("/orders")
		{
			orders.GET("", ctl.Order.GetOrderList)
			orders.GET("/statuses", ctl.Order.GetStatuses)
			orders.GET("/export", ctl.Order.Export)
			orders.PATCH("/:id", once("order.status"), ctl.Order.UpdateStatus)
		}

		site := api.Group("/site")
		{
			site.GET("", ctl.Site.GetSite)
			site.GET("/builder", ctl.Site.GetBuilder)
			site.GET("/templates/:template", ctl.Site.ApplyTemplate)
			site.POST("/preview", ctl.Site.Preview)
			site.POST("/draft", once("site.save"), ctl.Site.SaveDraft)
			site.PUT("", once("site.save"), ctl.Site.Replace)
			site.POST("/publish", once("site.publish"), ctl.Site.Publish)
			site.GET("/analytics", ctl.Analytics.GetSiteAnalytics)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("", ctl.Analytics.GetOverview)
			analytics.GET("/messages", ctl.Analytics.GetMessages)
		}

		knowledge := api.Group("/knowledge")
		{
			knowledge.GET("", ctl.Knowledge.GetDocs)
			knowledge.GET("/trainer", ctl.Knowledge.GetTrainer)
			knowledge.POST("/qa", once("knowledge.qa"), ctl.Knowledge.SaveQA)
			knowledge.POST("/about", once("knowledge.about"), ctl.Knowledge.SaveAbout)
			knowledge.DELETE("/:docId", once("knowledge.delete"), ctl.Knowledge.DeleteDoc)
		}

		admin := api.Group("/admin", middleware.RequireAdmin())
		{
			admin.GET("/shops", ctl.Admin.GetShopList)
			admin.POST("/shops", once("admin.shop.create"), ctl.Admin.CreateShop)
			admin.GET("/shops/:id", ctl.Admin.GetShopDetail)
			admin.PATCH("/shops/:id/integration", once("admin.shop.integration"), ctl.Admin.UpdateIntegration)
			admin.PATCH("/shops/:id/tier", once("admin.shop.tier"), ctl.Admin.UpdateTier)
		}
	}

	// 4. 公开店铺
	public := r.Group("", corsFor(g.CORSOrigins), middleware.Visitor())
	{
		public.GET("/liff-bridge", ctl.Storefront.LiffBridge)
		public.GET("/pdpa/:storeId", ctl.Storefront.PDPAPage)
		public.POST("/pdpa/:storeId", once("pdpa"), ctl.Storefront.SubmitPDPA)

		shop := public.Group("/public/:slug")
		{
			shop.GET("", ctl.Storefront.ShowSite)
			shop.GET("/go/cta", ctl.Storefront.CtaClick)
			shop.GET("/go/product/:productId", ctl.Storefront.ProductClick)

			shop.GET("/cart", ctl.Storefront.GetCart)
			shop.POST("/cart/items", ctl.Storefront.AddItem)
			shop.PATCH("/cart/items/:productId", ctl.Storefront.UpdateItem)
			shop.DELETE("/cart/items/:productId", ctl.Storefront.RemoveItem)

			shop.POST("/checkout/open", ctl.Storefront.OpenCheckout)
			shop.POST("/checkout/close", ctl.Storefront.CloseCheckout)
			shop.POST("/checkout", once("checkout"), ctl.Storefront.Submit)
			shop.POST("/checkout/slip", once("checkout.slip"), ctl.Storefront.UploadSlip)
			shop.POST("/checkout/reset", ctl.Storefront.NewOrder)
			shop.POST("/pdpa", once("pdpa"), ctl.Storefront.Consent)
		}
	}
}

// corsFor 公开店铺可被嵌入其它域名
func corsFor(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	cfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	return cors.New(cfg)
}

package routes

import (
	"net/http"

	"github.com/vivek-vk7/AgroSustain/admin"
	"github.com/vivek-vk7/AgroSustain/auth"
	"github.com/vivek-vk7/AgroSustain/education"
	"github.com/vivek-vk7/AgroSustain/middleware"
	"github.com/vivek-vk7/AgroSustain/models"
	"github.com/vivek-vk7/AgroSustain/orders"
	"github.com/vivek-vk7/AgroSustain/products"
	"github.com/vivek-vk7/AgroSustain/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir("static/productpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.GET("/api/auth/profile", middleware.Authenticate(auth.GetProfile))
	router.PUT("/api/auth/profile", middleware.Authenticate(auth.UpdateProfile))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
}

func AddProductRoutes(router *httprouter.Router) {
	router.GET("/api/products", products.GetProducts)
	// Detail is public for approved products; owners and admins may
	// also see their unapproved ones when a token is sent.
	router.GET("/api/products/product/:id", middleware.OptionalAuth(products.GetProduct))
	router.GET("/api/products/myproducts", middleware.Authenticate(
		middleware.RequireRoles(products.GetMyProducts, models.RoleFarmer, models.RoleExpert)))

	router.POST("/api/products", middleware.Authenticate(
		middleware.RequireApprovedProposer(products.CreateProduct)))
	router.PUT("/api/products/product/:id", middleware.Authenticate(
		middleware.RequireRoles(products.EditProduct, models.RoleFarmer, models.RoleExpert)))
	router.DELETE("/api/products/product/:id", middleware.Authenticate(
		middleware.RequireRoles(products.DeleteProduct, models.RoleFarmer, models.RoleExpert)))
	router.POST("/api/products/product/:id/image", middleware.Authenticate(
		middleware.RequireRoles(products.UploadProductImage, models.RoleFarmer, models.RoleExpert)))
}

func AddEducationRoutes(router *httprouter.Router) {
	router.GET("/api/education", education.GetContentList)
	router.GET("/api/education/content/:id", middleware.OptionalAuth(education.GetContent))
	router.GET("/api/education/mycontent", middleware.Authenticate(
		middleware.RequireRoles(education.GetMyContent, models.RoleFarmer, models.RoleExpert)))

	router.POST("/api/education", middleware.Authenticate(
		middleware.RequireApprovedProposer(education.CreateContent)))
	router.DELETE("/api/education/content/:id", middleware.Authenticate(
		middleware.RequireRoles(education.DeleteContent, models.RoleFarmer, models.RoleExpert)))
}

func AddAdminRoutes(router *httprouter.Router) {
	router.GET("/api/admin/users", middleware.Authenticate(middleware.RequireRoles(admin.GetUsers)))
	router.PUT("/api/admin/users/:id/status", middleware.Authenticate(middleware.RequireRoles(admin.UpdateProposerStatus)))

	router.GET("/api/admin/products", middleware.Authenticate(middleware.RequireRoles(admin.GetPendingProducts)))
	router.PUT("/api/admin/products/:id/approve", middleware.Authenticate(middleware.RequireRoles(admin.ApproveProduct)))

	router.GET("/api/admin/education", middleware.Authenticate(middleware.RequireRoles(admin.GetPendingEducation)))
	router.PUT("/api/admin/education/:id/approve", middleware.Authenticate(middleware.RequireRoles(admin.ApproveEducation)))

	router.GET("/api/admin/stats", middleware.Authenticate(middleware.RequireRoles(admin.GetPlatformStats)))

	router.GET("/api/admin/categories", middleware.Authenticate(middleware.RequireRoles(admin.GetCategories)))
	router.POST("/api/admin/categories", middleware.Authenticate(middleware.RequireRoles(admin.AddCategory)))
	router.DELETE("/api/admin/categories/:id", middleware.Authenticate(middleware.RequireRoles(admin.DeleteCategory)))
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/orders", rl.Limit(middleware.Authenticate(orders.CreateOrder)))
	router.GET("/api/orders/myorders", middleware.Authenticate(orders.GetMyOrders))
	router.GET("/api/orders/proposer", middleware.Authenticate(
		middleware.RequireRoles(orders.GetProposerOrders, models.RoleFarmer, models.RoleExpert)))

	router.GET("/api/orders/order/:id", middleware.Authenticate(orders.GetOrder))
	router.PUT("/api/orders/order/:id/pay", middleware.Authenticate(orders.MarkPaid))
	router.PUT("/api/orders/order/:id/deliver", middleware.Authenticate(
		middleware.RequireRoles(orders.MarkDelivered, models.RoleFarmer, models.RoleExpert)))
	router.GET("/api/orders/order/:id/receipt", middleware.Authenticate(orders.DownloadReceipt))
}

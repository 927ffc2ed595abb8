package main

import (
	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/kasir-pos/internal/auth"
	"github.com/MikeMC777/kasir-pos/internal/user"
)

// routes mounts the REST surface. loginGuard runs in front of POST /login.
func (a *app) routes(r gin.IRouter, loginGuard gin.HandlerFunc) {
	requireAuth := auth.RequireAuth(a.gate)
	admin := auth.RequireAbility(user.RoleAdmin)

	r.POST("/login", loginGuard, loginHandler(a.gate))
	r.GET("/storage/*path", serveAssetHandler(a.assets))

	// catalog reads are public
	r.GET("/categories", listCategoriesHandler(a.categories))
	r.GET("/categories/:id", getCategoryHandler(a.categories))
	r.GET("/products", listProductsHandler(a.products))
	r.GET("/products/:id", getProductHandler(a.products))

	session := r.Group("/", requireAuth)
	session.POST("/logout", logoutHandler(a.gate))
	session.GET("/user", currentUserHandler())

	adm := r.Group("/", requireAuth, admin)

	adm.GET("/users", listUsersHandler(a.users, a.orders))
	adm.POST("/users", createUserHandler(a.users))
	adm.GET("/users/:id", getUserHandler(a.users))
	adm.PUT("/users/:id", updateUserHandler(a.users))
	adm.DELETE("/users/:id", deleteUserHandler(a.users))

	adm.POST("/categories", createCategoryHandler(a.categories))
	adm.PUT("/categories/:id", updateCategoryHandler(a.categories))
	adm.DELETE("/categories/:id", deleteCategoryHandler(a.categories))

	adm.POST("/products", createProductHandler(a.products))
	adm.PUT("/products/:id", updateProductHandler(a.products))
	adm.DELETE("/products/:id", deleteProductHandler(a.products))

	adm.GET("/payments", listPaymentsHandler(a.payments))
	adm.POST("/payments", createPaymentHandler(a.payments))
	adm.GET("/payments/:id", getPaymentHandler(a.payments))
	adm.PUT("/payments/:id", updatePaymentHandler(a.payments))
	adm.DELETE("/payments/:id", deletePaymentHandler(a.payments))

	adm.GET("/orders", listOrdersHandler(a.orders))
	adm.POST("/orders", createOrderHandler(a.orders))
	adm.GET("/orders/:id", getOrderHandler(a.orders))
}

// Package server exposes the storefront services over HTTP.
package server

import (
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/princesssaffron/Z-PrincessSaffron-sub000/config"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/metrics"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/service"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/store"
)

// Server wires the services into a Gin engine.
type Server struct {
	cfg      config.Config
	engine   *gin.Engine
	carts    *service.CartService
	orders   *service.OrderService
	reviews  *service.ReviewService
	catalog  *service.CatalogService
	accounts *service.AccountService
	metrics  *metrics.ServerMetrics
}

// New builds the router: public auth and catalog endpoints, an
// authenticated /api group, and an admin-gated /api/admin group.
func New(cfg config.Config, stores store.Stores, m *metrics.ServerMetrics) *Server {
	s := &Server{
		cfg:      cfg,
		carts:    service.NewCartService(stores),
		orders:   service.NewOrderService(stores),
		reviews:  service.NewReviewService(stores),
		catalog:  service.NewCatalogService(stores),
		accounts: service.NewAccountService(stores),
		metrics:  m,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	if m != nil {
		r.Use(s.instrument())
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.POST("/api/register", s.register)
	r.POST("/api/login", s.login)

	r.GET("/api/products", s.listProducts)
	r.GET("/api/products/:productId", s.getProduct)
	r.GET("/api/reviews", s.listReviews)

	auth := r.Group("/api", s.authMiddleware)
	{
		auth.GET("/user/profile", s.getProfile)
		auth.PUT("/user/profile", s.updateProfile)

		auth.GET("/cart", s.getCart)
		auth.POST("/cart", s.addToCart)
		auth.PUT("/cart/:productId", s.updateCartItem)
		auth.DELETE("/cart/:productId", s.removeCartItem)
		auth.POST("/cart/clear", s.clearCart)

		auth.GET("/wishlist", s.getWishlist)
		auth.POST("/wishlist", s.addToWishlist)
		auth.DELETE("/wishlist/:productId", s.removeFromWishlist)

		auth.GET("/orders", s.listOrders)
		auth.POST("/orders", s.placeOrder)
		auth.GET("/orders/:code", s.getOrder)
		auth.POST("/orders/:code/cancel", s.cancelOrder)

		auth.POST("/reviews", s.createReview)
	}

	admin := r.Group("/api/admin", s.authMiddleware, s.adminMiddleware(stores.Users))
	{
		admin.POST("/products", s.createProduct)
		admin.PUT("/products/:productId", s.updateProduct)
		admin.DELETE("/products/:productId", s.deleteProduct)
		admin.PUT("/orders/:code/status", s.updateOrderStatus)
	}

	s.engine = r
	return s
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Run serves until the listener fails.
func (s *Server) Run() error {
	log.Info().Str("addr", s.cfg.ListenAddr).Msg("listening")
	return s.engine.Run(s.cfg.ListenAddr)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		s.metrics.Requests.WithLabelValues(handler, strconv.Itoa(c.Writer.Status())).Inc()
		s.metrics.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
	}
}

func productIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(400, gin.H{"error": "invalid product id"})
		return 0, false
	}
	return id, true
}

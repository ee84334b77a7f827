package server

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/models"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/service"
)

// ----- auth -----

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	user, err := s.accounts.Register(c.Request.Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	user, err := s.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	token, err := s.issueToken(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"user": user, "token": token})
}

// ----- profile -----

func (s *Server) getProfile(c *gin.Context) {
	user, err := s.accounts.Profile(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, user)
}

func (s *Server) updateProfile(c *gin.Context) {
	var patch service.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	user, err := s.accounts.UpdateProfile(c.Request.Context(), currentUser(c), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, user)
}

// ----- catalog -----

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, products)
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	product, err := s.catalog.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, product)
}

func (s *Server) createProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	created, err := s.catalog.Create(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, created)
}

func (s *Server) updateProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	var patch service.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	updated, err := s.catalog.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, updated)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	if err := s.catalog.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"status": "deleted"})
}

// ----- cart -----

func (s *Server) getCart(c *gin.Context) {
	items, err := s.carts.Get(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"items": items})
}

type addToCartRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

func (s *Server) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	items, err := s.carts.Add(c.Request.Context(), currentUser(c), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, gin.H{"items": items})
}

func (s *Server) updateCartItem(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	items, err := s.carts.UpdateQuantity(c.Request.Context(), currentUser(c), id, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"items": items})
}

func (s *Server) removeCartItem(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	items, err := s.carts.Remove(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"items": items})
}

func (s *Server) clearCart(c *gin.Context) {
	if err := s.carts.Clear(c.Request.Context(), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"status": "cleared"})
}

// ----- wishlist -----

func (s *Server) getWishlist(c *gin.Context) {
	w, err := s.accounts.Wishlist(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, w)
}

func (s *Server) addToWishlist(c *gin.Context) {
	var req struct {
		ProductID int64 `json:"productId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	w, err := s.accounts.AddToWishlist(c.Request.Context(), currentUser(c), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, w)
}

func (s *Server) removeFromWishlist(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	w, err := s.accounts.RemoveFromWishlist(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, w)
}

// ----- orders -----

func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.orders.ListByUser(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, orders)
}

func (s *Server) getOrder(c *gin.Context) {
	order, err := s.orders.GetByCode(c.Request.Context(), currentUser(c), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, order)
}

func (s *Server) placeOrder(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	order, err := s.orders.Checkout(c.Request.Context(), currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, order)
}

func (s *Server) cancelOrder(c *gin.Context) {
	order, err := s.orders.Cancel(c.Request.Context(), currentUser(c), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, order)
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	order, err := s.orders.AdvanceStatus(c.Request.Context(), c.Param("code"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, order)
}

// ----- reviews -----

func (s *Server) createReview(c *gin.Context) {
	var req service.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	review, err := s.reviews.Create(c.Request.Context(), currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, review)
}

func (s *Server) listReviews(c *gin.Context) {
	var productID int64
	if raw := c.Query("productId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(400, gin.H{"error": "invalid product id"})
			return
		}
		productID = id
	}
	reviews, err := s.reviews.List(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, reviews)
}

package server

import (
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/models"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/store"
)

type jwtClaims struct {
	UserID string `json:"userId"`
	jwt.StandardClaims
}

// authMiddleware resolves the Bearer token to a user id and stores it on
// the context. Token issuance mechanics beyond signing and expiry are out
// of scope; the middleware only establishes a stable identity.
func (s *Server) authMiddleware(c *gin.Context) {
	tokenStr := c.GetHeader("Authorization")
	if !strings.HasPrefix(tokenStr, "Bearer ") {
		c.AbortWithStatusJSON(401, gin.H{"error": "missing token"})
		return
	}
	tokenStr = strings.TrimPrefix(tokenStr, "Bearer ")
	token, err := jwt.ParseWithClaims(tokenStr, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		c.AbortWithStatusJSON(401, gin.H{"error": "invalid token"})
		return
	}
	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		c.AbortWithStatusJSON(401, gin.H{"error": "invalid token"})
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		c.AbortWithStatusJSON(401, gin.H{"error": "invalid token"})
		return
	}
	c.Set("userId", userID)
	c.Next()
}

// adminMiddleware allows only accounts flagged as admins past.
func (s *Server) adminMiddleware(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.GetByID(c.Request.Context(), currentUser(c))
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		if !user.IsAdmin {
			c.AbortWithStatusJSON(403, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) primitive.ObjectID {
	id, _ := c.Get("userId")
	userID, _ := id.(primitive.ObjectID)
	return userID
}

func (s *Server) issueToken(user models.User) (string, error) {
	claims := jwtClaims{
		UserID: user.ID.Hex(),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

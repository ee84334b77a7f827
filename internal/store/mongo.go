package store

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/models"
)

// Mongo-backed implementations, one collection per entity.

// NewMongo wires the store bundle onto a connected database.
func NewMongo(db *mongo.Database) Stores {
	return Stores{
		Products:  &MongoProducts{col: db.Collection("products")},
		Carts:     &MongoCarts{col: db.Collection("carts")},
		Wishlists: &MongoWishlists{col: db.Collection("wishlists")},
		Users:     &MongoUsers{col: db.Collection("users")},
		Orders:    &MongoOrders{col: db.Collection("orders")},
		Reviews:   &MongoReviews{col: db.Collection("reviews")},
	}
}

// EnsureIndexes creates the indexes the stores rely on: unique user emails,
// unique (user, product) review pairs, order code lookups. Call once at
// boot.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	indexes := []struct {
		col   string
		model mongo.IndexModel
	}{
		{"users", mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		{"carts", mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}, Options: unique}},
		{"wishlists", mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}, Options: unique}},
		{"reviews", mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}}, Options: unique}},
		{"orders", mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "code", Value: 1}}}},
	}
	for _, idx := range indexes {
		if _, err := db.Collection(idx.col).Indexes().CreateOne(ctx, idx.model); err != nil {
			return err
		}
		log.Debug().Str("collection", idx.col).Msg("index ensured")
	}
	return nil
}

// ----- products -----

type MongoProducts struct {
	col *mongo.Collection
}

var _ ProductStore = (*MongoProducts)(nil)

func (s *MongoProducts) Get(ctx context.Context, id int64) (models.Product, error) {
	var p models.Product
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, &models.NotFoundError{Entity: "product", Ref: itoa(id)}
	}
	if err != nil {
		return models.Product{}, models.NewStoreFailureError("product get", err)
	}
	return p, nil
}

func (s *MongoProducts) List(ctx context.Context) ([]models.Product, error) {
	cur, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, models.NewStoreFailureError("product list", err)
	}
	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, models.NewStoreFailureError("product list", err)
	}
	return products, nil
}

func (s *MongoProducts) Create(ctx context.Context, p models.Product) error {
	_, err := s.col.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return models.NewConflictError("product", itoa(p.ID))
	}
	if err != nil {
		return models.NewStoreFailureError("product create", err)
	}
	return nil
}

func (s *MongoProducts) Update(ctx context.Context, p models.Product) error {
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return models.NewStoreFailureError("product update", err)
	}
	if res.MatchedCount == 0 {
		return &models.NotFoundError{Entity: "product", Ref: itoa(p.ID)}
	}
	return nil
}

func (s *MongoProducts) Delete(ctx context.Context, id int64) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.NewStoreFailureError("product delete", err)
	}
	if res.DeletedCount == 0 {
		return &models.NotFoundError{Entity: "product", Ref: itoa(id)}
	}
	return nil
}

// DecrementStock applies the decrement only when enough stock remains, in a
// single conditional update, so two concurrent checkouts cannot both take
// the last units. A non-matching filter is disambiguated into NotFound vs
// InsufficientStock with a follow-up read.
func (s *MongoProducts) DecrementStock(ctx context.Context, id int64, qty int) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}},
	)
	if err != nil {
		return models.NewStoreFailureError("stock decrement", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return &models.InsufficientStockError{
		ProductID: id,
		Name:      p.Name,
		Available: p.Stock,
		Requested: qty,
	}
}

func (s *MongoProducts) IncrementStock(ctx context.Context, id int64, qty int) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"stock": qty}})
	if err != nil {
		return models.NewStoreFailureError("stock increment", err)
	}
	if res.MatchedCount == 0 {
		return &models.NotFoundError{Entity: "product", Ref: itoa(id)}
	}
	return nil
}

func (s *MongoProducts) SetRating(ctx context.Context, id int64, rating float64, reviewCount int) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"rating": rating, "reviewCount": reviewCount}})
	if err != nil {
		return models.NewStoreFailureError("rating update", err)
	}
	if res.MatchedCount == 0 {
		return &models.NotFoundError{Entity: "product", Ref: itoa(id)}
	}
	return nil
}

// ----- carts -----

type MongoCarts struct {
	col *mongo.Collection
}

var _ CartStore = (*MongoCarts)(nil)

func (s *MongoCarts) Get(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	var c models.Cart
	err := s.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Cart{}, &models.NotFoundError{Entity: "cart", Ref: userID.Hex()}
	}
	if err != nil {
		return models.Cart{}, models.NewStoreFailureError("cart get", err)
	}
	return c, nil
}

func (s *MongoCarts) Save(ctx context.Context, cart models.Cart) error {
	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	_, err := s.col.UpdateOne(ctx,
		bson.M{"userId": cart.UserID},
		bson.M{"$set": bson.M{"items": items}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return models.NewStoreFailureError("cart save", err)
	}
	return nil
}

// ----- wishlists -----

type MongoWishlists struct {
	col *mongo.Collection
}

var _ WishlistStore = (*MongoWishlists)(nil)

func (s *MongoWishlists) Get(ctx context.Context, userID primitive.ObjectID) (models.Wishlist, error) {
	var w models.Wishlist
	err := s.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&w)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Wishlist{}, &models.NotFoundError{Entity: "wishlist", Ref: userID.Hex()}
	}
	if err != nil {
		return models.Wishlist{}, models.NewStoreFailureError("wishlist get", err)
	}
	return w, nil
}

func (s *MongoWishlists) Save(ctx context.Context, w models.Wishlist) error {
	ids := w.ProductIDs
	if ids == nil {
		ids = []int64{}
	}
	_, err := s.col.UpdateOne(ctx,
		bson.M{"userId": w.UserID},
		bson.M{"$set": bson.M{"productIds": ids}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return models.NewStoreFailureError("wishlist save", err)
	}
	return nil
}

// ----- users -----

type MongoUsers struct {
	col *mongo.Collection
}

var _ UserStore = (*MongoUsers)(nil)

func (s *MongoUsers) Create(ctx context.Context, u models.User) (models.User, error) {
	res, err := s.col.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return models.User{}, models.NewConflictError("user", u.Email)
	}
	if err != nil {
		return models.User{}, models.NewStoreFailureError("user create", err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

func (s *MongoUsers) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, &models.NotFoundError{Entity: "user", Ref: id.Hex()}
	}
	if err != nil {
		return models.User{}, models.NewStoreFailureError("user get", err)
	}
	return u, nil
}

func (s *MongoUsers) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, &models.NotFoundError{Entity: "user", Ref: email}
	}
	if err != nil {
		return models.User{}, models.NewStoreFailureError("user get", err)
	}
	return u, nil
}

func (s *MongoUsers) Update(ctx context.Context, u models.User) error {
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return models.NewStoreFailureError("user update", err)
	}
	if res.MatchedCount == 0 {
		return &models.NotFoundError{Entity: "user", Ref: u.ID.Hex()}
	}
	return nil
}

// ----- orders -----

type MongoOrders struct {
	col *mongo.Collection
}

var _ OrderStore = (*MongoOrders)(nil)

func (s *MongoOrders) Create(ctx context.Context, o models.Order) (models.Order, error) {
	o.ID = primitive.NewObjectID()
	if _, err := s.col.InsertOne(ctx, o); err != nil {
		return models.Order{}, models.NewStoreFailureError("order create", err)
	}
	return o, nil
}

func (s *MongoOrders) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	cur, err := s.col.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, models.NewStoreFailureError("order list", err)
	}
	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, models.NewStoreFailureError("order list", err)
	}
	return orders, nil
}

func (s *MongoOrders) GetByCode(ctx context.Context, userID primitive.ObjectID, code string) (models.Order, error) {
	var o models.Order
	err := s.col.FindOne(ctx, bson.M{"userId": userID, "code": code}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, &models.NotFoundError{Entity: "order", Ref: code}
	}
	if err != nil {
		return models.Order{}, models.NewStoreFailureError("order get", err)
	}
	return o, nil
}

func (s *MongoOrders) FindByCode(ctx context.Context, code string) (models.Order, error) {
	var o models.Order
	err := s.col.FindOne(ctx, bson.M{"code": code}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, &models.NotFoundError{Entity: "order", Ref: code}
	}
	if err != nil {
		return models.Order{}, models.NewStoreFailureError("order get", err)
	}
	return o, nil
}

func (s *MongoOrders) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return models.NewStoreFailureError("order status update", err)
	}
	if res.MatchedCount == 0 {
		return &models.NotFoundError{Entity: "order", Ref: id.Hex()}
	}
	return nil
}

// ----- reviews -----

type MongoReviews struct {
	col *mongo.Collection
}

var _ ReviewStore = (*MongoReviews)(nil)

func (s *MongoReviews) Create(ctx context.Context, r models.Review) error {
	_, err := s.col.InsertOne(ctx, r)
	if mongo.IsDuplicateKeyError(err) {
		// The unique (userId, productId) index is the final backstop behind
		// the application-level duplicate check.
		return models.NewDuplicateReviewError(r.ProductID)
	}
	if err != nil {
		return models.NewStoreFailureError("review create", err)
	}
	return nil
}

func (s *MongoReviews) Exists(ctx context.Context, userID primitive.ObjectID, productID int64) (bool, error) {
	err := s.col.FindOne(ctx, bson.M{"userId": userID, "productId": productID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, models.NewStoreFailureError("review lookup", err)
	}
	return true, nil
}

func (s *MongoReviews) ListPublished(ctx context.Context, productID int64) ([]models.Review, error) {
	filter := bson.M{"published": true}
	if productID != 0 {
		filter["productId"] = productID
	}
	cur, err := s.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, models.NewStoreFailureError("review list", err)
	}
	var reviews []models.Review
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, models.NewStoreFailureError("review list", err)
	}
	return reviews, nil
}

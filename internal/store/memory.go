package store

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/models"
)

// In-memory implementations of the store interfaces, used by tests and
// local development without a MongoDB instance. Each store is thread-safe
// on its own; like the MongoDB implementation, no atomicity is provided
// across entities.

// NewMemory constructs an empty in-memory store bundle.
func NewMemory() Stores {
	return Stores{
		Products:  NewMemoryProducts(),
		Carts:     NewMemoryCarts(),
		Wishlists: NewMemoryWishlists(),
		Users:     NewMemoryUsers(),
		Orders:    NewMemoryOrders(),
		Reviews:   NewMemoryReviews(),
	}
}

func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

// ----- products -----

// MemoryProducts is a thread-safe in-memory ProductStore.
type MemoryProducts struct {
	mu       sync.RWMutex
	products map[int64]models.Product
}

func NewMemoryProducts() *MemoryProducts {
	return &MemoryProducts{products: make(map[int64]models.Product)}
}

var _ ProductStore = (*MemoryProducts)(nil)

func (s *MemoryProducts) Get(ctx context.Context, id int64) (models.Product, error) {
	if err := ctxErr(ctx); err != nil {
		return models.Product{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return models.Product{}, &models.NotFoundError{Entity: "product", Ref: itoa(id)}
	}
	return p, nil
}

func (s *MemoryProducts) List(ctx context.Context) ([]models.Product, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryProducts) Create(ctx context.Context, p models.Product) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.products[p.ID]; exists {
		return models.NewConflictError("product", itoa(p.ID))
	}
	s.products[p.ID] = p
	return nil
}

func (s *MemoryProducts) Update(ctx context.Context, p models.Product) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return &models.NotFoundError{Entity: "product", Ref: itoa(p.ID)}
	}
	s.products[p.ID] = p
	return nil
}

func (s *MemoryProducts) Delete(ctx context.Context, id int64) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return &models.NotFoundError{Entity: "product", Ref: itoa(id)}
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryProducts) DecrementStock(ctx context.Context, id int64, qty int) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return &models.NotFoundError{Entity: "product", Ref: itoa(id)}
	}
	if p.Stock < qty {
		return &models.InsufficientStockError{
			ProductID: id,
			Name:      p.Name,
			Available: p.Stock,
			Requested: qty,
		}
	}
	p.Stock -= qty
	s.products[id] = p
	return nil
}

func (s *MemoryProducts) IncrementStock(ctx context.Context, id int64, qty int) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return &models.NotFoundError{Entity: "product", Ref: itoa(id)}
	}
	p.Stock += qty
	s.products[id] = p
	return nil
}

func (s *MemoryProducts) SetRating(ctx context.Context, id int64, rating float64, reviewCount int) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return &models.NotFoundError{Entity: "product", Ref: itoa(id)}
	}
	p.Rating = rating
	p.ReviewCount = reviewCount
	s.products[id] = p
	return nil
}

// ----- carts -----

// MemoryCarts is a thread-safe in-memory CartStore.
type MemoryCarts struct {
	mu    sync.RWMutex
	carts map[primitive.ObjectID]models.Cart
}

func NewMemoryCarts() *MemoryCarts {
	return &MemoryCarts{carts: make(map[primitive.ObjectID]models.Cart)}
}

var _ CartStore = (*MemoryCarts)(nil)

func (s *MemoryCarts) Get(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	if err := ctxErr(ctx); err != nil {
		return models.Cart{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carts[userID]
	if !ok {
		return models.Cart{}, &models.NotFoundError{Entity: "cart", Ref: userID.Hex()}
	}
	return cloneCart(c), nil
}

func (s *MemoryCarts) Save(ctx context.Context, cart models.Cart) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	s.carts[cart.UserID] = cloneCart(cart)
	return nil
}

// ----- wishlists -----

// MemoryWishlists is a thread-safe in-memory WishlistStore.
type MemoryWishlists struct {
	mu        sync.RWMutex
	wishlists map[primitive.ObjectID]models.Wishlist
}

func NewMemoryWishlists() *MemoryWishlists {
	return &MemoryWishlists{wishlists: make(map[primitive.ObjectID]models.Wishlist)}
}

var _ WishlistStore = (*MemoryWishlists)(nil)

func (s *MemoryWishlists) Get(ctx context.Context, userID primitive.ObjectID) (models.Wishlist, error) {
	if err := ctxErr(ctx); err != nil {
		return models.Wishlist{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wishlists[userID]
	if !ok {
		return models.Wishlist{}, &models.NotFoundError{Entity: "wishlist", Ref: userID.Hex()}
	}
	return w, nil
}

func (s *MemoryWishlists) Save(ctx context.Context, w models.Wishlist) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID.IsZero() {
		w.ID = primitive.NewObjectID()
	}
	s.wishlists[w.UserID] = w
	return nil
}

// ----- users -----

// MemoryUsers is a thread-safe in-memory UserStore with a unique-email
// constraint matching the MongoDB index.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[primitive.ObjectID]models.User)}
}

var _ UserStore = (*MemoryUsers)(nil)

func (s *MemoryUsers) Create(ctx context.Context, u models.User) (models.User, error) {
	if err := ctxErr(ctx); err != nil {
		return models.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return models.User{}, models.NewConflictError("user", u.Email)
		}
	}
	u.ID = primitive.NewObjectID()
	s.users[u.ID] = u
	return u, nil
}

func (s *MemoryUsers) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	if err := ctxErr(ctx); err != nil {
		return models.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, &models.NotFoundError{Entity: "user", Ref: id.Hex()}
	}
	return u, nil
}

func (s *MemoryUsers) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if err := ctxErr(ctx); err != nil {
		return models.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, &models.NotFoundError{Entity: "user", Ref: email}
}

func (s *MemoryUsers) Update(ctx context.Context, u models.User) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return &models.NotFoundError{Entity: "user", Ref: u.ID.Hex()}
	}
	s.users[u.ID] = u
	return nil
}

// ----- orders -----

// MemoryOrders is a thread-safe in-memory OrderStore.
type MemoryOrders struct {
	mu     sync.RWMutex
	orders []models.Order
}

func NewMemoryOrders() *MemoryOrders {
	return &MemoryOrders{}
}

var _ OrderStore = (*MemoryOrders)(nil)

func (s *MemoryOrders) Create(ctx context.Context, o models.Order) (models.Order, error) {
	if err := ctxErr(ctx); err != nil {
		return models.Order{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = primitive.NewObjectID()
	s.orders = append(s.orders, cloneOrder(o))
	return o, nil
}

func (s *MemoryOrders) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryOrders) GetByCode(ctx context.Context, userID primitive.ObjectID, code string) (models.Order, error) {
	if err := ctxErr(ctx); err != nil {
		return models.Order{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.UserID == userID && o.Code == code {
			return cloneOrder(o), nil
		}
	}
	return models.Order{}, &models.NotFoundError{Entity: "order", Ref: code}
}

func (s *MemoryOrders) FindByCode(ctx context.Context, code string) (models.Order, error) {
	if err := ctxErr(ctx); err != nil {
		return models.Order{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.Code == code {
			return cloneOrder(o), nil
		}
	}
	return models.Order{}, &models.NotFoundError{Entity: "order", Ref: code}
}

func (s *MemoryOrders) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			return nil
		}
	}
	return &models.NotFoundError{Entity: "order", Ref: id.Hex()}
}

// ----- reviews -----

// MemoryReviews is a thread-safe in-memory ReviewStore enforcing the
// one-review-per-(user, product) constraint.
type MemoryReviews struct {
	mu      sync.RWMutex
	reviews []models.Review
}

func NewMemoryReviews() *MemoryReviews {
	return &MemoryReviews{}
}

var _ ReviewStore = (*MemoryReviews)(nil)

func (s *MemoryReviews) Create(ctx context.Context, r models.Review) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reviews {
		if existing.UserID == r.UserID && existing.ProductID == r.ProductID {
			return models.NewDuplicateReviewError(r.ProductID)
		}
	}
	s.reviews = append(s.reviews, r)
	return nil
}

func (s *MemoryReviews) Exists(ctx context.Context, userID primitive.ObjectID, productID int64) (bool, error) {
	if err := ctxErr(ctx); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reviews {
		if r.UserID == userID && r.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryReviews) ListPublished(ctx context.Context, productID int64) ([]models.Review, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Review
	for _, r := range s.reviews {
		if !r.Published {
			continue
		}
		if productID != 0 && r.ProductID != productID {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ----- helpers -----

func cloneCart(c models.Cart) models.Cart {
	items := make([]models.CartItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}

func cloneOrder(o models.Order) models.Order {
	items := make([]models.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

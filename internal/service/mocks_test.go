package service

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/Sebhvarg/tiendasegura/internal/domain"
	"github.com/Sebhvarg/tiendasegura/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mock repositories for testing

type mockUserRepository struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[primitive.ObjectID]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrUserAlreadyExists
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email || u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	if v, ok := fields["name"].(string); ok {
		u.Name = v
	}
	if v, ok := fields["lastName"].(string); ok {
		u.LastName = v
	}
	if v, ok := fields["address"].(string); ok {
		u.Address = v
	}
	if v, ok := fields["phone"].(string); ok {
		u.Phone = v
	}
	u.UpdatedAt = time.Now().UTC()
	return u, nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type mockClientRepository struct {
	mu      sync.Mutex
	clients map[primitive.ObjectID]*domain.Client
}

func newMockClientRepository() *mockClientRepository {
	return &mockClientRepository{clients: make(map[primitive.ObjectID]*domain.Client)}
}

func (m *mockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if client.ID.IsZero() {
		client.ID = primitive.NewObjectID()
	}
	m.clients[client.ID] = client
	return nil
}

func (m *mockClientRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clients[id]; ok {
		return c, nil
	}
	return nil, repository.ErrClientNotFound
}

func (m *mockClientRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clients {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, repository.ErrClientNotFound
}

func (m *mockClientRepository) SetCarts(ctx context.Context, id primitive.ObjectID, cartIDs []primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[id]
	if !ok {
		return repository.ErrClientNotFound
	}
	c.ShoppingCarts = cartIDs
	return nil
}

type mockShopOwnerRepository struct {
	mu     sync.Mutex
	owners map[primitive.ObjectID]*domain.ShopOwner
}

func newMockShopOwnerRepository() *mockShopOwnerRepository {
	return &mockShopOwnerRepository{owners: make(map[primitive.ObjectID]*domain.ShopOwner)}
}

func (m *mockShopOwnerRepository) Create(ctx context.Context, owner *domain.ShopOwner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if owner.ID.IsZero() {
		owner.ID = primitive.NewObjectID()
	}
	m.owners[owner.ID] = owner
	return nil
}

func (m *mockShopOwnerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.ShopOwner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.owners[id]; ok {
		return o, nil
	}
	return nil, repository.ErrShopOwnerNotFound
}

func (m *mockShopOwnerRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.ShopOwner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.owners {
		if o.UserID == userID {
			return o, nil
		}
	}
	return nil, repository.ErrShopOwnerNotFound
}

type mockCartRepository struct {
	mu    sync.Mutex
	carts map[primitive.ObjectID]*domain.ShoppingCart
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{carts: make(map[primitive.ObjectID]*domain.ShoppingCart)}
}

func (m *mockCartRepository) Create(ctx context.Context, cart *domain.ShoppingCart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	cart.IsEmpty = len(cart.Products) == 0
	m.carts[cart.ID] = cart
	return nil
}

func (m *mockCartRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.ShoppingCart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.carts[id]; ok {
		return c, nil
	}
	return nil, repository.ErrCartNotFound
}

func (m *mockCartRepository) List(ctx context.Context) ([]*domain.ShoppingCart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	carts := make([]*domain.ShoppingCart, 0, len(m.carts))
	for _, c := range m.carts {
		carts = append(carts, c)
	}
	return carts, nil
}

type mockListRepository struct {
	mu    sync.Mutex
	lists map[primitive.ObjectID]*domain.List
}

func newMockListRepository() *mockListRepository {
	return &mockListRepository{lists: make(map[primitive.ObjectID]*domain.List)}
}

func (m *mockListRepository) add(list *domain.List) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if list.ID.IsZero() {
		list.ID = primitive.NewObjectID()
	}
	m.lists[list.ID] = list
}

func (m *mockListRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.lists[id]; ok {
		return l, nil
	}
	return nil, repository.ErrListNotFound
}

func (m *mockListRepository) List(ctx context.Context) ([]*domain.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lists := make([]*domain.List, 0, len(m.lists))
	for _, l := range m.lists {
		lists = append(lists, l)
	}
	return lists, nil
}

func (m *mockListRepository) AppendProduct(ctx context.Context, listID, productID primitive.ObjectID) (*domain.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[listID]
	if !ok {
		return nil, repository.ErrListNotFound
	}
	l.Products = append(l.Products, productID)
	return l, nil
}

func (m *mockListRepository) SetPrice(ctx context.Context, id primitive.ObjectID, price float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[id]
	if !ok {
		return repository.ErrListNotFound
	}
	l.Price = price
	return nil
}

type mockCatalogRepository struct {
	mu       sync.Mutex
	catalogs map[primitive.ObjectID]*domain.Catalog
}

func newMockCatalogRepository() *mockCatalogRepository {
	return &mockCatalogRepository{catalogs: make(map[primitive.ObjectID]*domain.Catalog)}
}

func (m *mockCatalogRepository) add(catalog *domain.Catalog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalogs[catalog.ID] = catalog
}

func (m *mockCatalogRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.catalogs[id]; ok {
		return c, nil
	}
	return nil, repository.ErrCatalogNotFound
}

func (m *mockCatalogRepository) FindByShop(ctx context.Context, shopID primitive.ObjectID) (*domain.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.catalogs {
		if c.ShopID == shopID {
			return c, nil
		}
	}
	return nil, repository.ErrCatalogNotFound
}

func (m *mockCatalogRepository) FindContainingProduct(ctx context.Context, productID primitive.ObjectID) (*domain.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.catalogs {
		for _, p := range c.Products {
			if p == productID {
				return c, nil
			}
		}
	}
	return nil, repository.ErrCatalogNotFound
}

func (m *mockCatalogRepository) AppendProduct(ctx context.Context, catalogID, productID primitive.ObjectID) (*domain.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.catalogs[catalogID]
	if !ok {
		return nil, repository.ErrCatalogNotFound
	}
	c.Products = append(c.Products, productID)
	return c, nil
}

func (m *mockCatalogRepository) List(ctx context.Context) ([]*domain.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	catalogs := make([]*domain.Catalog, 0, len(m.catalogs))
	for _, c := range m.catalogs {
		catalogs = append(catalogs, c)
	}
	return catalogs, nil
}

// mockShopRepository emulates the transactional shop+catalog+owner
// write against the sibling mocks.
type mockShopRepository struct {
	mu       sync.Mutex
	shops    map[primitive.ObjectID]*domain.Shop
	catalogs *mockCatalogRepository
	owners   *mockShopOwnerRepository
}

func newMockShopRepository(catalogs *mockCatalogRepository, owners *mockShopOwnerRepository) *mockShopRepository {
	return &mockShopRepository{
		shops:    make(map[primitive.ObjectID]*domain.Shop),
		catalogs: catalogs,
		owners:   owners,
	}
}

func (m *mockShopRepository) CreateWithCatalog(ctx context.Context, shop *domain.Shop, catalog *domain.Catalog) error {
	owner, err := m.owners.FindByID(ctx, shop.OwnerID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.shops[shop.ID] = shop
	m.mu.Unlock()

	m.catalogs.add(catalog)
	owner.Shops = append(owner.Shops, shop.ID)
	return nil
}

func (m *mockShopRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.shops[id]; ok {
		return s, nil
	}
	return nil, repository.ErrShopNotFound
}

func (m *mockShopRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	shops := make([]*domain.Shop, 0, len(ids))
	for _, id := range ids {
		if s, ok := m.shops[id]; ok {
			shops = append(shops, s)
		}
	}
	return shops, nil
}

func (m *mockShopRepository) List(ctx context.Context) ([]*domain.Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	shops := make([]*domain.Shop, 0, len(m.shops))
	for _, s := range m.shops {
		shops = append(shops, s)
	}
	return shops, nil
}

func (m *mockShopRepository) SearchByName(ctx context.Context, query string) ([]*domain.Shop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	re, err := regexp.Compile("(?i)" + query)
	if err != nil {
		return nil, err
	}
	var shops []*domain.Shop
	for _, s := range m.shops {
		if re.MatchString(s.Name) {
			shops = append(shops, s)
		}
	}
	return shops, nil
}

// mockProductRepository emulates the transactional catalog writes
// against the sibling catalog mock.
type mockProductRepository struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*domain.Product
	catalogs *mockCatalogRepository
}

func newMockProductRepository(catalogs *mockCatalogRepository) *mockProductRepository {
	return &mockProductRepository{
		products: make(map[primitive.ObjectID]*domain.Product),
		catalogs: catalogs,
	}
}

func (m *mockProductRepository) CreateInCatalog(ctx context.Context, product *domain.Product, catalogID primitive.ObjectID) error {
	if _, err := m.catalogs.FindByID(ctx, catalogID); err != nil {
		return err
	}

	m.mu.Lock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	m.products[product.ID] = product
	m.mu.Unlock()

	_, err := m.catalogs.AppendProduct(ctx, catalogID, product.ID)
	return err
}

func (m *mockProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	_, ok := m.products[id]
	if !ok {
		m.mu.Unlock()
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	m.mu.Unlock()

	m.catalogs.mu.Lock()
	defer m.catalogs.mu.Unlock()
	for _, c := range m.catalogs.catalogs {
		kept := c.Products[:0]
		for _, p := range c.Products {
			if p != id {
				kept = append(kept, p)
			}
		}
		c.Products = kept
	}
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	if v, ok := fields["name"].(string); ok {
		p.Name = v
	}
	if v, ok := fields["brand"].(string); ok {
		p.Brand = v
	}
	if v, ok := fields["description"].(string); ok {
		p.Description = v
	}
	if v, ok := fields["price"].(float64); ok {
		p.Price = v
	}
	if v, ok := fields["imageUrl"].(string); ok {
		p.ImageURL = v
	}
	if v, ok := fields["isActive"].(bool); ok {
		p.IsActive = v
	}
	p.UpdatedAt = time.Now().UTC()
	return p, nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	products := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (m *mockProductRepository) FindByShop(ctx context.Context, shopID primitive.ObjectID) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var products []*domain.Product
	for _, p := range m.products {
		if p.ShopID == shopID && p.IsActive {
			products = append(products, p)
		}
	}
	return products, nil
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	products := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, p)
	}
	return products, nil
}

func (m *mockProductRepository) SearchText(ctx context.Context, pattern string) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}
	var products []*domain.Product
	for _, p := range m.products {
		if re.MatchString(p.Name) || re.MatchString(p.Brand) || re.MatchString(p.Description) {
			products = append(products, p)
		}
	}
	return products, nil
}

type mockOrderRepository struct {
	mu     sync.Mutex
	orders []*domain.Order
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{}
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	m.orders = append(m.orders, order)
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.OrderStatus) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			o.Status = status
			o.UpdatedAt = time.Now().UTC()
			return o, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

// newestFirst mirrors the createdAt descending sort of the real
// repository; orders are appended in creation order.
func (m *mockOrderRepository) newestFirst(keep func(*domain.Order) bool) []*domain.Order {
	var out []*domain.Order
	for i := len(m.orders) - 1; i >= 0; i-- {
		if keep(m.orders[i]) {
			out = append(out, m.orders[i])
		}
	}
	return out
}

func (m *mockOrderRepository) FindByShop(ctx context.Context, shopID primitive.ObjectID) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newestFirst(func(o *domain.Order) bool { return o.ShopID == shopID }), nil
}

func (m *mockOrderRepository) FindByClient(ctx context.Context, clientID primitive.ObjectID) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newestFirst(func(o *domain.Order) bool { return o.ClientID == clientID }), nil
}

func (m *mockOrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newestFirst(func(*domain.Order) bool { return true }), nil
}

type mockSearchHistoryRepository struct {
	mu      sync.Mutex
	entries []*domain.SearchHistory
	failing bool
}

func newMockSearchHistoryRepository() *mockSearchHistoryRepository {
	return &mockSearchHistoryRepository{}
}

func (m *mockSearchHistoryRepository) Create(ctx context.Context, entry *domain.SearchHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return context.DeadlineExceeded
	}
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockSearchHistoryRepository) FindByClient(ctx context.Context, clientID primitive.ObjectID) ([]*domain.SearchHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.SearchHistory
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].ClientID == clientID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

type mockRefreshTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

// stubImageFinder returns a fixed answer.
type stubImageFinder struct {
	url string
	err error
}

func (s *stubImageFinder) FindProductImage(ctx context.Context, name, brand string) (string, error) {
	return s.url, s.err
}

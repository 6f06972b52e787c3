package service

import (
	"context"
	"testing"

	"github.com/Sebhvarg/tiendasegura/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type cartFixture struct {
	cartRepo    *mockCartRepository
	listRepo    *mockListRepository
	productRepo *mockProductRepository
	service     CartService
}

func newCartFixture() *cartFixture {
	f := &cartFixture{
		cartRepo:    newMockCartRepository(),
		listRepo:    newMockListRepository(),
		productRepo: newMockProductRepository(newMockCatalogRepository()),
	}
	f.service = NewCartService(f.cartRepo, f.listRepo, f.productRepo, zap.NewNop())
	return f
}

func (f *cartFixture) seedProduct(price float64) *domain.Product {
	p := domain.NewProduct("item", "brand", "", price, "", primitive.NewObjectID())
	f.productRepo.products[p.ID] = p
	return p
}

func TestGetLists_RecomputesAndPersistsTotals(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	a := f.seedProduct(1.10)
	b := f.seedProduct(2.25)
	list := &domain.List{
		ID:       primitive.NewObjectID(),
		Name:     "despensa",
		Products: []primitive.ObjectID{a.ID, b.ID},
		Price:    999, // stale total
	}
	f.listRepo.add(list)

	lists, err := f.service.GetLists(ctx)
	if err != nil {
		t.Fatalf("get lists failed: %v", err)
	}
	if len(lists) != 1 {
		t.Fatalf("expected 1 list, got %d", len(lists))
	}
	if lists[0].Price != 3.35 {
		t.Errorf("expected recomputed total 3.35, got %v", lists[0].Price)
	}

	// The recomputed total is written back
	stored, _ := f.listRepo.FindByID(ctx, list.ID)
	if stored.Price != 3.35 {
		t.Errorf("total not persisted, stored %v", stored.Price)
	}
}

func TestGetLists_DanglingReferencesCountNothing(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	a := f.seedProduct(5.00)
	list := &domain.List{
		ID:       primitive.NewObjectID(),
		Name:     "con huecos",
		Products: []primitive.ObjectID{a.ID, primitive.NewObjectID()},
	}
	f.listRepo.add(list)

	lists, err := f.service.GetLists(ctx)
	if err != nil {
		t.Fatalf("get lists failed: %v", err)
	}
	if lists[0].Price != 5.00 {
		t.Errorf("dangling references must contribute nothing, got %v", lists[0].Price)
	}
}

func TestGetLists_RoundsToCents(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	// 0.1 + 0.2 accumulates floating point noise without rounding
	a := f.seedProduct(0.1)
	b := f.seedProduct(0.2)
	list := &domain.List{
		ID:       primitive.NewObjectID(),
		Name:     "redondeo",
		Products: []primitive.ObjectID{a.ID, b.ID},
	}
	f.listRepo.add(list)

	lists, err := f.service.GetLists(ctx)
	if err != nil {
		t.Fatalf("get lists failed: %v", err)
	}
	if lists[0].Price != 0.3 {
		t.Errorf("expected 0.3 after rounding, got %v", lists[0].Price)
	}
}

func TestListCarts(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	cart := &domain.ShoppingCart{ClientID: primitive.NewObjectID()}
	if err := f.cartRepo.Create(ctx, cart); err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}

	carts, err := f.service.ListCarts(ctx)
	if err != nil {
		t.Fatalf("list carts failed: %v", err)
	}
	if len(carts) != 1 || carts[0].ID != cart.ID {
		t.Errorf("expected the seeded cart, got %v", carts)
	}
	if !carts[0].IsEmpty {
		t.Error("cart with no products must be flagged empty")
	}
}

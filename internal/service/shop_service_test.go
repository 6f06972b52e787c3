package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sebhvarg/tiendasegura/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type shopFixture struct {
	ownerRepo   *mockShopOwnerRepository
	catalogRepo *mockCatalogRepository
	shopRepo    *mockShopRepository
	productRepo *mockProductRepository
	service     ShopService
}

func newShopFixture() *shopFixture {
	owners := newMockShopOwnerRepository()
	catalogs := newMockCatalogRepository()
	shops := newMockShopRepository(catalogs, owners)
	products := newMockProductRepository(catalogs)
	return &shopFixture{
		ownerRepo:   owners,
		catalogRepo: catalogs,
		shopRepo:    shops,
		productRepo: products,
		service:     NewShopService(owners, shops, products),
	}
}

func (f *shopFixture) addOwner(userID primitive.ObjectID) *domain.ShopOwner {
	owner := &domain.ShopOwner{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	f.ownerRepo.Create(context.Background(), owner)
	return owner
}

func TestProperty_ShopAndCatalogReferenceEachOther(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a created shop and its catalog always hold each other's id", prop.ForAll(
		func(name string, address string) bool {
			f := newShopFixture()
			ctx := context.Background()
			userID := primitive.NewObjectID()
			f.addOwner(userID)

			shop, catalog, err := f.service.CreateShop(ctx, userID, name, address)
			if err != nil {
				return errors.Is(err, ErrMissingFields) && (name == "" || address == "")
			}

			if shop.CatalogID != catalog.ID || catalog.ShopID != shop.ID {
				return false
			}

			// Both sides are persisted with the references intact
			storedShop, err := f.shopRepo.FindByID(ctx, shop.ID)
			if err != nil || storedShop.CatalogID != catalog.ID {
				return false
			}
			storedCatalog, err := f.catalogRepo.FindByID(ctx, catalog.ID)
			if err != nil || storedCatalog.ShopID != shop.ID {
				return false
			}
			return len(storedCatalog.Products) == 0
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCreateShop_AppendsToOwnerShopSet(t *testing.T) {
	f := newShopFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	owner := f.addOwner(userID)

	shop, _, err := f.service.CreateShop(ctx, userID, "La Esquina", "Calle 10")
	if err != nil {
		t.Fatalf("create shop failed: %v", err)
	}
	if len(owner.Shops) != 1 || owner.Shops[0] != shop.ID {
		t.Errorf("owner shop set must hold exactly the new shop, got %v", owner.Shops)
	}

	second, _, err := f.service.CreateShop(ctx, userID, "Sucursal Norte", "Av. 6")
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	if len(owner.Shops) != 2 || owner.Shops[1] != second.ID {
		t.Errorf("owner shop set must grow per shop, got %v", owner.Shops)
	}
}

func TestCreateShop_NoOwnerProfile(t *testing.T) {
	f := newShopFixture()

	_, _, err := f.service.CreateShop(context.Background(), primitive.NewObjectID(), "Huérfana", "Calle 1")
	if !errors.Is(err, ErrOwnerNotFound) {
		t.Errorf("expected ErrOwnerNotFound, got %v", err)
	}
}

func TestCreateShop_MissingFields(t *testing.T) {
	f := newShopFixture()
	userID := primitive.NewObjectID()
	f.addOwner(userID)

	if _, _, err := f.service.CreateShop(context.Background(), userID, "", "Calle 1"); !errors.Is(err, ErrMissingFields) {
		t.Errorf("expected ErrMissingFields for blank name, got %v", err)
	}
	if _, _, err := f.service.CreateShop(context.Background(), userID, "Tienda", ""); !errors.Is(err, ErrMissingFields) {
		t.Errorf("expected ErrMissingFields for blank address, got %v", err)
	}
}

func TestGetMyShops(t *testing.T) {
	f := newShopFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	f.addOwner(userID)

	shop, _, err := f.service.CreateShop(ctx, userID, "Mía", "Calle 2")
	if err != nil {
		t.Fatalf("create shop failed: %v", err)
	}

	shops, err := f.service.GetMyShops(ctx, userID)
	if err != nil {
		t.Fatalf("get my shops failed: %v", err)
	}
	if len(shops) != 1 || shops[0].ID != shop.ID {
		t.Errorf("expected exactly the owned shop, got %v", shops)
	}

	if _, err := f.service.GetMyShops(ctx, primitive.NewObjectID()); !errors.Is(err, ErrOwnerNotFound) {
		t.Errorf("expected ErrOwnerNotFound for stranger, got %v", err)
	}
}

func TestGetShopProducts(t *testing.T) {
	f := newShopFixture()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	f.addOwner(userID)

	shop, catalog, err := f.service.CreateShop(ctx, userID, "Con productos", "Calle 3")
	if err != nil {
		t.Fatalf("create shop failed: %v", err)
	}

	active := domain.NewProduct("Leche", "Vita", "entera", 1.25, "", shop.ID)
	if err := f.productRepo.CreateInCatalog(ctx, active, catalog.ID); err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	inactive := domain.NewProduct("Retirado", "Vita", "", 2.0, "", shop.ID)
	inactive.IsActive = false
	if err := f.productRepo.CreateInCatalog(ctx, inactive, catalog.ID); err != nil {
		t.Fatalf("seed product failed: %v", err)
	}

	products, err := f.service.GetShopProducts(ctx, shop.ID)
	if err != nil {
		t.Fatalf("get shop products failed: %v", err)
	}
	if len(products) != 1 || products[0].ID != active.ID {
		t.Errorf("only active products must be listed, got %v", products)
	}

	if _, err := f.service.GetShopProducts(ctx, primitive.NewObjectID()); !errors.Is(err, ErrShopNotFound) {
		t.Errorf("expected ErrShopNotFound, got %v", err)
	}
}

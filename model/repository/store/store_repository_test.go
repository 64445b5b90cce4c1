package store

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	entity "imarket.GO/model/entity/store"
)

func testRepo(t *testing.T) *StoreRepository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	repo := NewStoreRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repo
}

func TestProfile_GuestOnFirstTouch(t *testing.T) {
	repo := testRepo(t)

	p, err := repo.GetProfile("sess-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.Name != entity.GuestName {
		t.Errorf("Name = %q, want %q", p.Name, entity.GuestName)
	}
	if p.SpinsLeft != entity.DefaultSpins {
		t.Errorf("SpinsLeft = %d, want %d", p.SpinsLeft, entity.DefaultSpins)
	}

	again, err := repo.GetProfile("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != p.ID {
		t.Error("second GetProfile created a new row")
	}
}

func TestProfile_CorruptCategoriesReset(t *testing.T) {
	repo := testRepo(t)

	p, _ := repo.GetProfile("sess-1")
	p.FavoriteCategories = datatypes.JSON([]byte("{{{not json"))
	if err := repo.SaveProfile(p); err != nil {
		t.Fatal(err)
	}

	p, err := repo.GetProfile("sess-1")
	if err != nil {
		t.Fatalf("GetProfile with corrupt categories: %v", err)
	}
	if cats := repo.FavoriteCategories(p); cats == nil || len(cats) != 0 {
		t.Errorf("FavoriteCategories = %v, want reset to empty list", cats)
	}
}

func TestProfile_SetFavoriteCategories(t *testing.T) {
	repo := testRepo(t)

	p, _ := repo.GetProfile("sess-1")
	if err := repo.SetFavoriteCategories(p, []string{"Shoes", "Bags"}); err != nil {
		t.Fatal(err)
	}

	p, _ = repo.GetProfile("sess-1")
	if !p.HasSetPreferences {
		t.Error("HasSetPreferences not set")
	}
	cats := repo.FavoriteCategories(p)
	if len(cats) != 2 || cats[0] != "Shoes" {
		t.Errorf("FavoriteCategories = %v, want [Shoes Bags]", cats)
	}
}

func TestCart_AddAndMerge(t *testing.T) {
	repo := testRepo(t)

	item := entity.CartItem{ProductID: "p1", ShopID: "alpha", Name: "Desk", Price: 1000, Quantity: 1}
	if err := repo.AddCartItem("sess-1", item); err != nil {
		t.Fatal(err)
	}
	if err := repo.AddCartItem("sess-1", item); err != nil {
		t.Fatal(err)
	}

	items, err := repo.CartItems("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want merged single line", len(items))
	}
	if items[0].Quantity != 2 {
		t.Errorf("Quantity = %d, want 2", items[0].Quantity)
	}

	count, err := repo.CartCount("sess-1")
	if err != nil || count != 2 {
		t.Errorf("CartCount = %d (%v), want 2", count, err)
	}
}

func TestCart_CountByShop(t *testing.T) {
	repo := testRepo(t)

	repo.AddCartItem("sess-1", entity.CartItem{ProductID: "p1", ShopID: "alpha", Quantity: 2})
	repo.AddCartItem("sess-1", entity.CartItem{ProductID: "p2", ShopID: "beta", Quantity: 1})
	repo.AddCartItem("sess-2", entity.CartItem{ProductID: "p3", ShopID: "alpha", Quantity: 5})

	counts, err := repo.CartCountByShop("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if counts["alpha"] != 2 || counts["beta"] != 1 {
		t.Errorf("counts = %v, want alpha=2 beta=1", counts)
	}
}

func TestCart_QuantityZeroRemoves(t *testing.T) {
	repo := testRepo(t)

	repo.AddCartItem("sess-1", entity.CartItem{ProductID: "p1", ShopID: "alpha", Quantity: 3})
	if err := repo.UpdateCartQuantity("sess-1", "p1", 0); err != nil {
		t.Fatal(err)
	}
	items, _ := repo.CartItems("sess-1")
	if len(items) != 0 {
		t.Errorf("len(items) = %d, want 0 after zero-quantity update", len(items))
	}
}

func TestCart_EmptyCount(t *testing.T) {
	repo := testRepo(t)
	count, err := repo.CartCount("nobody")
	if err != nil || count != 0 {
		t.Errorf("CartCount(nobody) = %d (%v), want 0", count, err)
	}
}

func TestWishlist_AddIdempotent(t *testing.T) {
	repo := testRepo(t)

	item := entity.WishlistItem{ProductID: "p1", ShopID: "alpha", Name: "Desk"}
	repo.AddWishlistItem("sess-1", item)
	repo.AddWishlistItem("sess-1", item)

	items, err := repo.WishlistItems("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Errorf("len(items) = %d, want 1", len(items))
	}
}

func TestNotifications_MarkAllRead(t *testing.T) {
	repo := testRepo(t)

	repo.AddNotification("sess-1", "first")
	repo.AddNotification("sess-1", "second")
	if err := repo.MarkAllNotificationsRead("sess-1"); err != nil {
		t.Fatal(err)
	}

	items, _ := repo.Notifications("sess-1")
	for _, n := range items {
		if !n.Read {
			t.Errorf("notification %q still unread", n.Message)
		}
	}
}

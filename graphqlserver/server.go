package graphqlserver

import (
	"context"
	"encoding/json"
	"time"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"imarket.GO/catalog"
	"imarket.GO/graphql"
	gqlmodels "imarket.GO/graphql/models"
	"imarket.GO/graphql/registry"
	"imarket.GO/service/search"
)

// RootResolver is the root for graphql-go. All query fields read from the
// catalog aggregator's current snapshot.
type RootResolver struct {
	Catalog *catalog.Service
}

// Query returns the query resolver.
func (r *RootResolver) Query() *QueryResolver {
	return &QueryResolver{catalog: r.Catalog}
}

// QueryResolver implements Query fields over the aggregated catalog.
type QueryResolver struct {
	catalog *catalog.Service
}

func (r *QueryResolver) snapshot(ctx context.Context) (*catalog.Snapshot, error) {
	return r.catalog.Aggregate(ctx)
}

func (r *QueryResolver) Shops(ctx context.Context) ([]*gqlmodels.Shop, error) {
	snap, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	shops := make([]*gqlmodels.Shop, 0, len(snap.Shops))
	for _, s := range snap.Shops {
		shops = append(shops, mapShop(s))
	}
	return shops, nil
}

// ProductsArgs matches the products query arguments.
type ProductsArgs struct {
	ShopID *string
}

func (r *QueryResolver) Products(ctx context.Context, args ProductsArgs) ([]*gqlmodels.Product, error) {
	snap, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]*gqlmodels.Product, 0, len(snap.Products))
	for _, p := range snap.Products {
		if args.ShopID != nil && *args.ShopID != "" && p.ShopID != *args.ShopID {
			continue
		}
		products = append(products, mapProduct(p))
	}
	return products, nil
}

// DealsArgs matches the deals query arguments.
type DealsArgs struct {
	MinDiscountPercent *float64
}

func (r *QueryResolver) Deals(ctx context.Context, args DealsArgs) ([]*gqlmodels.Deal, error) {
	snap, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	minDiscount := 0.0
	if args.MinDiscountPercent != nil {
		minDiscount = *args.MinDiscountPercent
	}
	items := catalog.Deals(snap.Products, minDiscount)
	deals := make([]*gqlmodels.Deal, 0, len(items))
	for _, d := range items {
		deals = append(deals, &gqlmodels.Deal{
			Product:       mapProduct(d.UnifiedProduct),
			FinalPrice:    d.FinalPrice,
			OriginalPrice: d.OriginalPrice,
		})
	}
	return deals, nil
}

// NewArrivalsArgs matches the newArrivals query arguments.
type NewArrivalsArgs struct {
	WindowDays *int32
}

func (r *QueryResolver) NewArrivals(ctx context.Context, args NewArrivalsArgs) ([]*gqlmodels.Product, error) {
	snap, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	window := catalog.DefaultNewArrivalsWindow
	if args.WindowDays != nil && *args.WindowDays > 0 {
		window = time.Duration(*args.WindowDays) * 24 * time.Hour
	}
	recent := catalog.NewArrivals(snap.Products, time.Now(), window)
	products := make([]*gqlmodels.Product, 0, len(recent))
	for _, p := range recent {
		products = append(products, mapProduct(p))
	}
	return products, nil
}

// SuggestArgs matches the suggest query arguments.
type SuggestArgs struct {
	Query string
}

func (r *QueryResolver) Suggest(ctx context.Context, args SuggestArgs) ([]*gqlmodels.Suggestion, error) {
	snap, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	hits := search.GetSearchService().Suggest(ctx, snap, args.Query)
	out := make([]*gqlmodels.Suggestion, 0, len(hits))
	for _, h := range hits {
		s := &gqlmodels.Suggestion{Kind: string(h.Kind), Value: h.Name}
		if h.ShopID != "" {
			shopID := h.ShopID
			s.ShopID = &shopID
		}
		out = append(out, s)
	}
	return out, nil
}

// ExtensionArgs for extension(name, args).
type ExtensionArgs struct {
	Name string
	Args *string
}

func (r *QueryResolver) Extension(ctx context.Context, args ExtensionArgs) (*string, error) {
	var m map[string]interface{}
	if args.Args != nil && *args.Args != "" {
		_ = json.Unmarshal([]byte(*args.Args), &m)
	}
	if m == nil {
		m = make(map[string]interface{})
	}
	out, err := registry.Resolve(ctx, args.Name, m)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func mapShop(s catalog.ShopDescriptor) *gqlmodels.Shop {
	cats := s.Categories
	if cats == nil {
		cats = []string{}
	}
	return &gqlmodels.Shop{
		ID:          s.ShopID,
		Name:        s.Name,
		Categories:  cats,
		ShopPageURL: s.ShopPageURL,
		LogoURL:     s.LogoURL,
	}
}

func mapProduct(p catalog.UnifiedProduct) *gqlmodels.Product {
	return &gqlmodels.Product{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.PriceAmount,
		DisplayImage:    p.DisplayImage,
		ShopID:          p.ShopID,
		ShopName:        p.ShopName,
		Category:        p.Category,
		SubCategory:     p.SubCategory,
		Rating:          p.Rating,
		DiscountPercent: p.DiscountPercent,
		IsDeal:          p.IsDeal,
		IsFeatured:      p.IsFeatured,
		DateAdded:       p.DateAdded.Format("2006-01-02"),
	}
}

// NewSchema parses the schema and returns a graphql-go Schema.
func NewSchema(svc *catalog.Service) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), &RootResolver{Catalog: svc}, gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"imarket.GO/catalog"
)

var (
	aggregateDataDir string
	aggregateBaseURL string
	aggregateShop    string
	aggregateJSON    bool
)

var aggregateCmd = &cobra.Command{
	Use:   "catalog:aggregate",
	Short: "Load the shop registry, normalize every product file and print a report",
	Run: func(cmd *cobra.Command, args []string) {
		fetcher := catalog.NewFetcher(aggregateDataDir, aggregateBaseURL)
		svc := catalog.NewService(fetcher)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		start := time.Now()

		shops, err := svc.LoadShopRegistry(ctx)
		if err != nil {
			fmt.Printf("Aggregation failed: %v\n", err)
			os.Exit(1)
		}
		if aggregateShop != "" {
			filtered := shops[:0]
			for _, s := range shops {
				if s.ShopID == aggregateShop {
					filtered = append(filtered, s)
				}
			}
			shops = filtered
			if len(shops) == 0 {
				fmt.Printf("Unknown shop: %s\n", aggregateShop)
				os.Exit(1)
			}
		}

		products := svc.LoadAllProducts(ctx, shops)

		if aggregateJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(catalog.Snapshot{Shops: shops, Products: products, LoadedAt: time.Now()})
			return
		}

		perShop := make(map[string]int, len(shops))
		for _, p := range products {
			perShop[p.ShopID]++
		}
		deals := catalog.Deals(products, 0)
		arrivals := catalog.NewArrivals(products, time.Now(), catalog.DefaultNewArrivalsWindow)

		fmt.Printf(`
=== Aggregation Report ===
Shops:        %d
Products:     %d
Deals:        %d
New arrivals: %d
Total time:   %s
`, len(shops), len(products), len(deals), len(arrivals), time.Since(start).Round(time.Millisecond))
		for _, s := range shops {
			fmt.Printf("  %-20s %d products\n", s.ShopID, perShop[s.ShopID])
		}
		fmt.Println("==========================")
	},
}

func init() {
	aggregateCmd.Flags().StringVar(&aggregateDataDir, "data-dir", "data", "Directory holding shops.json and product files")
	aggregateCmd.Flags().StringVar(&aggregateBaseURL, "base-url", "", "Fetch shop files over HTTP from this base URL instead of disk")
	aggregateCmd.Flags().StringVar(&aggregateShop, "shop", "", "Aggregate a single shop by id")
	aggregateCmd.Flags().BoolVar(&aggregateJSON, "json", false, "Print the full snapshot as JSON")
	rootCmd.AddCommand(aggregateCmd)
}

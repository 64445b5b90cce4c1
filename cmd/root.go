package cmd

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "imarket",
	Short: "iMarket CLI - catalog aggregation and maintenance commands",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// ASCII banner on start (random font each run)
		fonts := []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "thick", "doom", "larry3d", "puffy", "rectangles"}
		fig := figure.NewFigure("iMarket ->", fonts[rand.Intn(len(fonts))], true)
		fig.Print()
		fmt.Println()
	},
}

// Execute runs the root command. Custom commands registered via Register are
// attached first.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/protek/protek/pkg/config"
	"github.com/protek/protek/pkg/filter"
	"github.com/protek/protek/pkg/standards"
)

func main() {
	// Usage: go run ./lib-usage-example -impact high -search mfa

	impactFlag := flag.String("impact", "", "Only show this impact (high, medium, low)")
	searchFlag := flag.String("search", "", "Free-text search")
	newFlag := flag.Bool("new", false, "Only standards added in the last 30 days")

	// Parse the command-line flags
	flag.Parse()

	records, err := standards.Bundled()
	if err != nil {
		fmt.Println("Could not load the bundled standards:", err)
		return
	}

	// The engine keeps the filter state; the store can be swapped underneath it
	engine := filter.NewEngine(standards.NewStore(records), config.Default())
	engine.SetSearchQuery(*searchFlag)
	engine.SetShowNewOnly(*newFlag)
	if *impactFlag != "" {
		impact, err := filter.ParseImpact(*impactFlag)
		if err != nil {
			fmt.Println(err)
			return
		}
		engine.ToggleImpact(impact)
	}

	v := engine.View()
	for _, s := range v.Standards {
		fmt.Println(s.Name, s.Impact, standards.FormatDate(s.AddedDate))
	}
	fmt.Printf("Showing %d of %d standards, %d new (%d%%) as of %s\n",
		v.FilteredCount(), v.TotalVisible, v.NewCount, v.PercentNew, time.Now().Format("2006-01-02"))
}

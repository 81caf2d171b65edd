package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/priyankgupta/doi-monitor/internal/cache"
	"github.com/priyankgupta/doi-monitor/internal/domain"
	"github.com/priyankgupta/doi-monitor/internal/service"
)

func newFileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "file",
		Usage:    "Workbook with Sales and Inventory sheets",
		Required: true,
		EnvVars:  []string{"DOI_WORKBOOK"},
	}
}

func newDaysFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:  "days",
		Usage: "Trailing window length in days",
		Value: 7,
	}
}

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "report",
		Usage: "Compute days-of-inventory reports from a sales/inventory workbook",
		Commands: []*cli.Command{
			{
				Name:   "summary",
				Usage:  "Show dataset record counts and the available filter options",
				Flags:  []cli.Flag{newFileFlag(), newDaysFlag()},
				Action: runSummary,
			},
			{
				Name:  "view",
				Usage: "Compute the aggregated view for a filter selection",
				Flags: []cli.Flag{
					newFileFlag(),
					newDaysFlag(),
					&cli.StringFlag{
						Name:  "sku",
						Usage: "SKU description to filter on",
						Value: "None",
					},
					&cli.StringFlag{
						Name:  "city",
						Usage: "City to filter on",
						Value: "None",
					},
					&cli.StringFlag{
						Name:  "pan",
						Usage: "Pan-India mode: None, Product Wise or City Wise",
						Value: "None",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: table or csv",
						Value: "table",
					},
				},
				Action: runView,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func parseDays(c *cli.Context) (int, error) {
	days := c.Int("days")
	if days < 1 {
		return 0, fmt.Errorf("days must be a positive integer, got %d", days)
	}
	return days, nil
}

// ingestFile runs the ingestion pipeline on the workbook named by --file.
func ingestFile(c *cli.Context, svc *service.DOIService) (*domain.DatasetInfo, error) {
	path := c.String("file")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return svc.Ingest(f)
}

func runSummary(c *cli.Context) error {
	days, err := parseDays(c)
	if err != nil {
		return err
	}

	svc := service.NewDOIService(cache.NewMemoStore(), cache.NewNoopResultCache(), days)
	info, err := ingestFile(c, svc)
	if err != nil {
		return err
	}

	options, err := svc.Options(info.ID, days)
	if err != nil {
		return err
	}

	fmt.Printf("Dataset %s\n", info.ID)
	fmt.Printf("Sales records:     %d\n", info.SalesRecords)
	fmt.Printf("Inventory records: %d\n", info.InventoryRecords)

	fmt.Printf("\nSKUs (%d):\n", len(options.SKUs))
	for _, sku := range options.SKUs {
		fmt.Printf("  %s\n", sku)
	}

	fmt.Printf("\nCities (%d):\n", len(options.Cities))
	for _, city := range options.Cities {
		fmt.Printf("  %s\n", city)
	}

	return nil
}

func runView(c *cli.Context) error {
	days, err := parseDays(c)
	if err != nil {
		return err
	}

	pan, ok := domain.ParsePanMode(c.String("pan"))
	if !ok {
		return fmt.Errorf("unknown pan mode %q, expected None, Product Wise or City Wise", c.String("pan"))
	}
	sel := domain.Selection{
		SKU:  c.String("sku"),
		City: c.String("city"),
		Pan:  pan,
	}

	svc := service.NewDOIService(cache.NewMemoStore(), cache.NewNoopResultCache(), days)
	info, err := ingestFile(c, svc)
	if err != nil {
		return err
	}

	result, err := svc.View(c.Context, info.ID, days, sel)
	if err != nil {
		return err
	}

	if result.View == domain.ViewNone {
		fmt.Println("Nothing selected. Pass --sku, --city or --pan to pick a view.")
		return nil
	}

	switch c.String("format") {
	case "csv":
		return writeCSV(os.Stdout, result)
	case "table":
		writeTable(os.Stdout, result)
		return nil
	default:
		return fmt.Errorf("unknown format %q, expected table or csv", c.String("format"))
	}
}

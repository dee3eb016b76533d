package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"brandscrape/db"
	"brandscrape/functions"

	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("===============		starting brand scraper			===============")
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	apiKey := os.Getenv("ZENROWS_API_KEY")
	if apiKey == "" {
		log.Fatal("ZENROWS_API_KEY is not set")
	}

	if err := db.InitSQLite(os.Getenv("BRAND_DB_PATH")); err != nil {
		log.Panic(err)
		return
	}
	defer db.GetSQLiteHandler().GracefulShutdown(time.Second * 5)

	scraper, err := functions.NewScraper(apiKey, os.Getenv("BRAND_OUT_DIR"), os.Getenv("PALETTE_SCRIPT"))
	if err != nil {
		log.Panic(err)
		return
	}

	targets := os.Args[1:]
	if len(targets) == 0 {
		fmt.Println("No target URLs provided. Usage: go run main.go <url1> <url2> ...")
		return
	}

	fmt.Printf("Scraping %d sites...\n", len(targets))
	for _, target := range targets {
		report, err := scraper.ScrapeBrandReport(target)
		if err != nil {
			log.Printf("Scrape failed for %s: %v", target, err)
			continue
		}
		fmt.Printf("Done: %s (logo: %q, images: %d, videos: %d)\n",
			target, report.Assets.LogoURL, len(report.Assets.Images), len(report.Assets.DownloadedVideos))
	}
}

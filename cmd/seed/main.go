// seed inserts a demo deal catalog into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mkalykov/startup-benefits/internal/domain"
	"github.com/mkalykov/startup-benefits/internal/infrastructure/postgres"
)

var expiration = time.Date(time.Now().Year()+1, time.December, 31, 0, 0, 0, 0, time.UTC)

var deals = []domain.Deal{
	{
		Name:             "GitHub Pro - 1 Year Free",
		Slug:             "github-pro-1-year",
		ShortDescription: "Free GitHub Pro for verified startups",
		Description:      "Get GitHub Pro completely free for 1 year with advanced code review and CI/CD features.",
		Category:         domain.CategoryDevTools,
		Value:            12,
		Discount:         100,
		Company:          "GitHub",
		Link:             "https://github.com/startups",
		CouponCode:       "STARTUP2024",
		EligibilityText:  "Available to all verified startups",
		ExpirationDate:   expiration,
		IsFeatured:       true,
	},
	{
		Name:             "AWS Activate - $100k Credits",
		Slug:             "aws-activate-100k",
		ShortDescription: "Up to $100k in AWS credits for startups",
		Description:      "AWS Activate provides up to $100k in AWS credits for startups backed by accelerators/VCs.",
		Category:         domain.CategoryCloud,
		Value:            100000,
		Discount:         100,
		Company:          "Amazon Web Services",
		Link:             "https://aws.amazon.com/activate/",
		CouponCode:       "ACTIVATE2024",
		IsLocked:         true,
		EligibilityText:  "Requires admin verification - accelerator/VC backed startups",
		ExpirationDate:   expiration,
		IsFeatured:       true,
	},
	{
		Name:             "Figma Professional - 1 Year",
		Slug:             "figma-pro-1-year",
		ShortDescription: "Free Figma Professional for verified users",
		Description:      "Figma Professional plan free for one year with unlimited projects and prototyping.",
		Category:         domain.CategoryDesign,
		Value:            12,
		Discount:         100,
		Company:          "Figma",
		Link:             "https://figma.com/startups",
		CouponCode:       "FIGMA-STARTUP",
		EligibilityText:  "Available to all verified users",
		ExpirationDate:   expiration,
	},
	{
		Name:             "Stripe - Waived Processing Fees",
		Slug:             "stripe-waived-fees",
		ShortDescription: "No Stripe fees on first $500k",
		Description:      "Stripe waives processing fees on first $500k in transactions for verified startups.",
		Category:         domain.CategoryCloud,
		Value:            5000,
		Discount:         100,
		Company:          "Stripe",
		Link:             "https://stripe.com/startups",
		CouponCode:       "STRIPE-STARTUP",
		IsLocked:         true,
		EligibilityText:  "Requires admin verification - revenue-generating startups",
		ExpirationDate:   expiration,
	},
	{
		Name:             "Slack Professional - 1 Year",
		Slug:             "slack-pro-1-year",
		ShortDescription: "Free Slack Professional for 1 year",
		Description:      "Slack Professional plan free for one year with unlimited message history and integrations.",
		Category:         domain.CategoryProductivity,
		Value:            80,
		Discount:         100,
		Company:          "Slack",
		Link:             "https://slack.com/startups",
		CouponCode:       "SLACK-STARTUP",
		EligibilityText:  "Available to all verified startups",
		ExpirationDate:   expiration,
	},
	{
		Name:             "Notion Business Plus - 1 Year",
		Slug:             "notion-business-plus-1year",
		ShortDescription: "Free Notion Business Plus for 1 year",
		Description:      "Notion Business Plus plan free for one year with advanced documentation features.",
		Category:         domain.CategoryProductivity,
		Value:            20,
		Discount:         100,
		Company:          "Notion",
		Link:             "https://notion.so/startups",
		CouponCode:       "NOTION-STARTUP",
		EligibilityText:  "Available to all verified users",
		ExpirationDate:   expiration,
	},
	{
		Name:             "Datadog Pro - 6 Months",
		Slug:             "datadog-pro-6-months",
		ShortDescription: "Free Datadog Pro monitoring for 6 months",
		Description:      "Full-stack observability with infrastructure monitoring, APM, and log management.",
		Category:         domain.CategoryDevOps,
		Value:            900,
		Discount:         100,
		Company:          "Datadog",
		Link:             "https://www.datadoghq.com/partner/startup-program/",
		CouponCode:       "DATADOG-STARTUP",
		EligibilityText:  "Available to all verified startups",
		ExpirationDate:   expiration,
	},
	{
		Name:             "MongoDB Atlas - $5k Credits",
		Slug:             "mongodb-atlas-5k",
		ShortDescription: "$5k in MongoDB Atlas credits",
		Description:      "Managed MongoDB clusters with $5k in credits for early-stage startups.",
		Category:         domain.CategoryDatabase,
		Value:            5000,
		Discount:         100,
		Company:          "MongoDB",
		Link:             "https://www.mongodb.com/startups",
		CouponCode:       "ATLAS-STARTUP",
		IsLocked:         true,
		EligibilityText:  "Requires admin verification - pre-seed to series A",
		ExpirationDate:   expiration,
	},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	// Insert deals, skip any that already exist (idempotent re-runs)
	var inserted, skipped int
	var dealIDs []string

	for _, d := range deals {
		var id string
		err := pool.QueryRow(ctx, `
			INSERT INTO deals (
				name, slug, short_description, description, category, value,
				discount, company, logo, link, coupon_code, is_locked,
				eligibility_text, expiration_date, is_featured
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			ON CONFLICT (slug) DO NOTHING
			RETURNING id`,
			d.Name, d.Slug, d.ShortDescription, d.Description, d.Category, d.Value,
			d.Discount, d.Company, d.Logo, d.Link, d.CouponCode, d.IsLocked,
			d.EligibilityText, d.ExpirationDate, d.IsFeatured,
		).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			skipped++
			continue
		}
		if err != nil {
			log.Fatalf("insert deal %s: %v", d.Slug, err)
		}
		dealIDs = append(dealIDs, id)
		inserted++
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Deals created: %d  (skipped %d already existing)\n", inserted, skipped)
	fmt.Println()

	if len(dealIDs) > 0 {
		fmt.Println("  Deal IDs:")
		for _, id := range dealIDs {
			fmt.Printf("    %s\n", id)
		}
		fmt.Println()
	}

	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — register and grab the dev-mode magic link:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/auth/register \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"founder@test.local\",\"name\":\"Test Founder\"}'\n")
	fmt.Println()
	fmt.Println("    # Copy the token from the magic_link field, then:")
	fmt.Println()
	fmt.Println("    curl -s -X POST http://localhost:8080/auth/verify \\")
	fmt.Println("      -H 'Content-Type: application/json' -d '{\"token\":\"TOKEN\"}'")
	fmt.Println("    # → {\"user\":{...},\"access_token\":\"eyJ...\",\"refresh_token\":\"eyJ...\"}")
	fmt.Println()
	fmt.Println("  Step 2 — browse the catalog (no auth needed):")
	fmt.Println()
	fmt.Println("    curl -s http://localhost:8080/deals")
	fmt.Println("    curl -s 'http://localhost:8080/deals?category=cloud'")
	fmt.Println()
	fmt.Println("  Step 3 — claim a deal (use any ID from above):")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s -X POST http://localhost:8080/claims \\")
	fmt.Println("      -H \"Authorization: Bearer $JWT\" \\")
	fmt.Println("      -H 'Content-Type: application/json' -d '{\"deal_id\":\"DEAL_ID\"}'")
	fmt.Println()
	fmt.Println("    curl -s http://localhost:8080/claims/my -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Println("  What to expect:")
	fmt.Println("    open deals    → 201 with a pending claim; a second POST → 409")
	fmt.Println("    locked deals  → 403 until admin_verified is set on the user")
}

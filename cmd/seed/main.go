package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/yorkie01/restaurant-order-system/config"
	"github.com/yorkie01/restaurant-order-system/internal/app/model"
	"github.com/yorkie01/restaurant-order-system/internal/app/repository"
	"github.com/yorkie01/restaurant-order-system/internal/db"
	"github.com/xuri/excelize/v2"
)

// メニュー表 XLSX の取り込みツール
// 列: カテゴリー名 | 品名 | 説明 | 価格 | 犬用(y/n) | 提供可(y/n)
func main() {
	// コマンドライン引数の確認
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	// 設定ロード
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 接続
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(cfg.Restaurant.Tables); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Repository 準備
	menuRepo := repository.NewMenuRepository(db.GetDB())

	categories, err := menuRepo.FindCategories()
	if err != nil {
		log.Fatal("Failed to load categories:", err)
	}
	categoryIDs := make(map[string]uint, len(categories))
	for _, c := range categories {
		categoryIDs[c.Name] = c.ID
	}

	// XLSX ファイル読み込み
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	items, skipped, err := readMenuFromXLSX(filePath, categoryIDs)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total menu items to import: %d (skipped: %d)\n", len(items), skipped)

	// 取り込み確認
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 100
	if err := menuRepo.BulkCreateItems(items, batchSize); err != nil {
		log.Fatal("Failed to bulk create menu items:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total menu items imported: %d\n", len(items))
}

func readMenuFromXLSX(filePath string, categoryIDs map[string]uint) ([]model.MenuItem, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var items []model.MenuItem
	seen := make(map[string]bool) // 品名の重複除去
	skipped := 0

	// 1行目はヘッダー
	for i, row := range rows[1:] {
		rowNum := i + 2

		if len(row) < 4 {
			skipped++
			continue
		}

		categoryName := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		description := ""
		if len(row) > 2 {
			description = strings.TrimSpace(row[2])
		}
		priceStr := strings.TrimSpace(row[3])

		if name == "" || priceStr == "" {
			skipped++
			continue
		}

		if seen[name] {
			fmt.Printf("Row %d: duplicate item %q, skipping\n", rowNum, name)
			skipped++
			continue
		}

		categoryID, ok := categoryIDs[categoryName]
		if !ok {
			fmt.Printf("Row %d: unknown category %q, skipping\n", rowNum, categoryName)
			skipped++
			continue
		}

		price, err := strconv.Atoi(strings.ReplaceAll(priceStr, ",", ""))
		if err != nil || price < 0 {
			fmt.Printf("Row %d: invalid price %q, skipping\n", rowNum, priceStr)
			skipped++
			continue
		}

		item := model.MenuItem{
			Name:        name,
			Description: description,
			Price:       price,
			CategoryID:  categoryID,
			IsAvailable: true,
		}
		if len(row) > 4 {
			item.IsDogItem = parseFlag(row[4])
		}
		if len(row) > 5 {
			item.IsAvailable = parseFlag(row[5])
		}

		seen[name] = true
		items = append(items, item)
	}

	return items, skipped, nil
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1", "○":
		return true
	default:
		return false
	}
}

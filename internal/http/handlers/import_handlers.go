package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/coffee-storefront/internal/models"
)

type csvRow struct {
	Name         string
	Origin       string
	Roast        string
	Intensity    int
	PriceCents   int64
	Processing   string
	Status       string
	InitialStock int
	ReorderLevel int
}

var requiredColumns = []string{"name", "price_cents"}

func parseCSV(file multipart.File) ([]csvRow, error) {
	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		row := csvRow{
			Name:         field(record, "name"),
			Origin:       field(record, "origin"),
			Roast:        field(record, "roast"),
			Intensity:    parseInt(field(record, "intensity")),
			PriceCents:   parseInt64(field(record, "price_cents")),
			Processing:   field(record, "processing"),
			Status:       field(record, "status"),
			InitialStock: parseInt(field(record, "initial_stock")),
			ReorderLevel: parseInt(field(record, "reorder_level")),
		}
		if row.Intensity == 0 {
			row.Intensity = 5
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func parseInt64(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// ImportProductsHandler godoc
// @Summary Bulk import coffees from CSV
// @Description Columns: name, origin, roast, intensity, price_cents, processing, status, initial_stock, reorder_level
// @Tags products
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {string} string "Invalid file"
// @Router /products/import [post]
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := parseCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := ImportProductsResult{Errors: []ProductValidationError{}}
	for i, row := range rows {
		req := ProductRequest{
			Name:         row.Name,
			Origin:       row.Origin,
			Roast:        row.Roast,
			Intensity:    row.Intensity,
			PriceCents:   row.PriceCents,
			Processing:   row.Processing,
			Status:       row.Status,
			InitialStock: row.InitialStock,
			ReorderLevel: row.ReorderLevel,
		}
		if errs := validateProduct(req); len(errs) > 0 {
			for _, e := range errs {
				result.Errors = append(result.Errors, ProductValidationError{
					Field:       fmt.Sprintf("row %d: %s", i+1, e.Field),
					Description: e.Description,
				})
			}
			continue
		}

		created, err := productRepo.Create(models.Product{
			Name:       row.Name,
			Origin:     row.Origin,
			Roast:      models.RoastLevel(row.Roast),
			Intensity:  row.Intensity,
			PriceCents: row.PriceCents,
			Processing: row.Processing,
			Status:     productStatus(row.Status),
			CreatedAt:  time.Now().Format(time.RFC3339),
			UpdatedAt:  time.Now().Format(time.RFC3339),
		})
		if err != nil {
			result.Errors = append(result.Errors, ProductValidationError{
				Field:       fmt.Sprintf("row %d: Name", i+1),
				Description: err.Error(),
			})
			continue
		}

		if err := inventoryRepo.Put(models.InventoryRecord{
			ProductID:    created.ID,
			CurrentStock: row.InitialStock,
			ReorderLevel: row.ReorderLevel,
		}); err != nil {
			log.Printf("import: inventory record for %q: %v", row.Name, err)
		}
		result.ImportedProductsCount++
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

package dataset

import (
	"fmt"
	"math/rand"
	"time"
)

// SampleDataset describes one bundled dataset for the viewer's picker
type SampleDataset struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Size        int      `json:"size"`
	Columns     []string `json:"columns"`
}

// SampleDatasets lists the bundled datasets
func SampleDatasets() []SampleDataset {
	return []SampleDataset{
		{
			Name:        "business_metrics",
			Description: "Comprehensive business performance data with financial, operational, and market metrics",
			Size:        500,
			Columns:     []string{"revenue", "profit", "employees", "customers", "customer_satisfaction", "market_share", "growth_rate"},
		},
		{
			Name:        "sales_data",
			Description: "Sales performance data by region, product, and time period",
			Size:        300,
			Columns:     []string{"sales_amount", "units_sold", "region", "product", "quarter", "year"},
		},
		{
			Name:        "employee_metrics",
			Description: "HR metrics including satisfaction, productivity, and retention data",
			Size:        200,
			Columns:     []string{"employee_id", "department", "satisfaction_score", "productivity_score", "salary", "tenure_years"},
		},
	}
}

// LoadSample replaces the dataset with a named bundled sample
func (s *Store) LoadSample(name string) (int, error) {
	var rows []map[string]any
	switch name {
	case "business_metrics":
		rows = GenerateBusinessMetrics(500)
	case "sales_data":
		rows = GenerateSalesData(300)
	case "employee_metrics":
		rows = GenerateEmployeeData(200)
	default:
		return 0, fmt.Errorf("dataset %q not found", name)
	}
	s.Replace(rows)
	return len(rows), nil
}

func round(v float64, places int) float64 {
	scale := 1.0
	for i := 0; i < places; i++ {
		scale *= 10
	}
	return float64(int64(v*scale+0.5)) / scale
}

// GenerateBusinessMetrics builds the default sample: correlated financial,
// operational and market metrics across a few categorical dimensions.
func GenerateBusinessMetrics(n int) []map[string]any {
	companies := []string{"TechCorp", "DataInc", "CloudSys", "AILabs", "DevOps", "SecureNet", "WebFlow", "AppForge"}
	departments := []string{"Engineering", "Sales", "Marketing", "HR", "Finance", "Operations", "Support", "Research"}
	regions := []string{"North America", "Europe", "Asia Pacific", "Latin America", "Middle East", "Africa"}
	productCategories := []string{"Software", "Hardware", "Services", "Consulting", "Support", "Training"}

	rows := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		revenue := 10000 + rand.Float64()*990000
		profitMargin := 0.05 + rand.Float64()*0.25
		profit := revenue * profitMargin
		employees := 10 + rand.Intn(991)
		productivity := 50 + rand.Float64()*100 + float64(employees)/20
		customers := 100 + rand.Intn(9901)
		quarter := 1 + rand.Intn(4)
		year := 2023 + rand.Intn(3)

		tier := "Low"
		if profitMargin > 0.20 {
			tier = "High"
		} else if profitMargin > 0.10 {
			tier = "Medium"
		}
		companySize := "Small"
		if employees > 500 {
			companySize = "Large"
		} else if employees > 100 {
			companySize = "Medium"
		}

		rows = append(rows, map[string]any{
			"id":               float64(i),
			"company":          companies[rand.Intn(len(companies))],
			"department":       departments[rand.Intn(len(departments))],
			"region":           regions[rand.Intn(len(regions))],
			"product_category": productCategories[rand.Intn(len(productCategories))],

			"revenue":       round(revenue, 2),
			"profit":        round(profit, 2),
			"profit_margin": round(profitMargin*100, 2),

			"employees":             float64(employees),
			"productivity_score":    round(productivity, 1),
			"customers":             float64(customers),
			"customer_satisfaction": round(1+rand.Float64()*9, 1),
			"retention_rate":        round((0.60+rand.Float64()*0.35)*100, 1),

			"market_share": round(rand.Float64()*24+1, 2),
			"growth_rate":  round(rand.Float64()*60-10, 1),

			"year":         float64(year),
			"quarter":      float64(quarter),
			"quarter_year": fmt.Sprintf("Q%d %d", quarter, year),

			"size_metric":          round(revenue/1000, 1),
			"efficiency":           round(profit/float64(employees), 2),
			"revenue_per_customer": round(revenue/float64(customers), 2),

			"performance_tier": tier,
			"company_size":     companySize,

			"marketing_spend":       round(revenue*(0.05+rand.Float64()*0.10), 2),
			"rd_spend":              round(revenue*(0.02+rand.Float64()*0.10), 2),
			"employee_satisfaction": round(6+rand.Float64()*4, 1),
			"innovation_index":      round(1+rand.Float64()*99, 1),

			"last_updated": time.Now().Format(time.RFC3339),
		})
	}
	return rows
}

// GenerateSalesData builds the sales performance sample
func GenerateSalesData(n int) []map[string]any {
	regions := []string{"North", "South", "East", "West", "Central"}
	products := []string{"Product A", "Product B", "Product C", "Product D", "Product E"}

	rows := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		sales := 10000 + rand.Float64()*90000
		units := 100 + rand.Intn(901)

		rows = append(rows, map[string]any{
			"id":             float64(i),
			"sales_amount":   round(sales, 2),
			"units_sold":     float64(units),
			"price_per_unit": round(sales/float64(units), 2),
			"region":         regions[rand.Intn(len(regions))],
			"product":        products[rand.Intn(len(products))],
			"quarter":        float64(1 + rand.Intn(4)),
			"year":           float64(2023 + rand.Intn(3)),
			"salesperson":    fmt.Sprintf("Rep_%d", 1+rand.Intn(50)),
			"commission":     round(sales*(0.05+rand.Float64()*0.10), 2),
			"customer_type":  []string{"Enterprise", "SMB", "Individual"}[rand.Intn(3)],
			"sales_channel":  []string{"Direct", "Partner", "Online"}[rand.Intn(3)],
			"discount_rate":  round(rand.Float64()*0.20, 3),
			"profit_margin":  round(0.10+rand.Float64()*0.30, 3),
		})
	}
	return rows
}

// GenerateEmployeeData builds the HR metrics sample
func GenerateEmployeeData(n int) []map[string]any {
	departments := []string{"Engineering", "Sales", "Marketing", "HR", "Finance", "Operations"}
	positions := []string{"Junior", "Mid-level", "Senior", "Lead", "Manager", "Director"}

	rows := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, map[string]any{
			"employee_id":        fmt.Sprintf("EMP_%04d", i),
			"department":         departments[rand.Intn(len(departments))],
			"position":           positions[rand.Intn(len(positions))],
			"satisfaction_score": round(1+rand.Float64()*9, 1),
			"productivity_score": round(60+rand.Float64()*40, 1),
			"salary":             round(40000+rand.Float64()*160000, 2),
			"tenure_years":       round(0.5+rand.Float64()*14.5, 1),
			"age":                float64(22 + rand.Intn(44)),
			"training_hours":     float64(rand.Intn(101)),
			"performance_rating": round(2.0+rand.Float64()*3.0, 1),
			"bonus_percentage":   round(rand.Float64()*0.25, 3),
			"remote_work_days":   float64(rand.Intn(6)),
			"overtime_hours":     float64(rand.Intn(21)),
			"certifications":     float64(rand.Intn(9)),
		})
	}
	return rows
}

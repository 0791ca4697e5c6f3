package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// Dataset is the top-level JSON structure for a shop-dataset import: the
// full catalog a planning run needs, loaded in one file.
type Dataset struct {
	// BatchTag labels every entity created by this import; generated
	// when empty.
	BatchTag  string            `json:"batch_tag,omitempty"`
	Products  []ProductImport   `json:"products"`
	Equipment []EquipmentImport `json:"equipment,omitempty"`
	Workers   []WorkerImport    `json:"workers"`
	Demand    []DemandImport    `json:"demand,omitempty"`
}

// ProductImport defines a product with its full step graph.
type ProductImport struct {
	Ref   string       `json:"ref"`
	Name  string       `json:"name"`
	Steps []StepImport `json:"steps"`
}

// StepImport defines one operation of a product's recipe. DependsOn lists
// step refs within the same product that must finish first.
type StepImport struct {
	Ref                 string   `json:"ref"`
	Code                string   `json:"code"`
	Name                string   `json:"name,omitempty"`
	Category            string   `json:"category"`
	Sequence            int      `json:"sequence"`
	TimePerPieceSeconds int      `json:"time_per_piece_seconds"`
	EquipmentRef        *string  `json:"equipment_ref,omitempty"`
	WorkCategory        *string  `json:"work_category,omitempty"`
	DependsOn           []string `json:"depends_on,omitempty"`
}

// EquipmentImport defines a machine or station pool.
type EquipmentImport struct {
	Ref          string   `json:"ref"`
	Name         string   `json:"name"`
	Status       string   `json:"status,omitempty"`
	StationCount *int     `json:"station_count,omitempty"`
	HourlyCost   *float64 `json:"hourly_cost,omitempty"`
}

// WorkerImport defines a worker with optional certifications and
// starting proficiency levels.
type WorkerImport struct {
	Ref            string                `json:"ref"`
	Name           string                `json:"name"`
	EmployeeID     *string               `json:"employee_id,omitempty"`
	Status         string                `json:"status,omitempty"`
	WorkCategory   *string               `json:"work_category,omitempty"`
	CostPerHour    *float64              `json:"cost_per_hour,omitempty"`
	Certifications []CertificationImport `json:"certifications,omitempty"`
	Proficiencies  []ProficiencyImport   `json:"proficiencies,omitempty"`
}

// CertificationImport clears the enclosing worker for one equipment ref.
type CertificationImport struct {
	EquipmentRef string  `json:"equipment_ref"`
	CertifiedAt  *string `json:"certified_at,omitempty"`
	ExpiresAt    *string `json:"expires_at,omitempty"`
}

// ProficiencyImport seeds a (worker, step) level.
type ProficiencyImport struct {
	StepRef string `json:"step_ref"`
	Level   int    `json:"level"`
}

// DemandImport defines one demand entry against an imported product.
type DemandImport struct {
	ProductRef   string  `json:"product_ref"`
	Quantity     int     `json:"quantity"`
	DueDate      string  `json:"due_date"`
	Source       string  `json:"source,omitempty"`
	Priority     int     `json:"priority,omitempty"`
	CustomerName *string `json:"customer_name,omitempty"`
	MinBatchSize int     `json:"min_batch_size,omitempty"`
	MaxBatchSize int     `json:"max_batch_size,omitempty"`
}

// LoadDataset reads and parses a shop-dataset JSON file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing dataset file: %w", err)
	}
	return &ds, nil
}

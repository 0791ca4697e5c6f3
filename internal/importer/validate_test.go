package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDataset() *Dataset {
	return &Dataset{
		Equipment: []EquipmentImport{
			{Ref: "press", Name: "Screen Press"},
		},
		Products: []ProductImport{
			{
				Ref:  "tote",
				Name: "Canvas Tote",
				Steps: []StepImport{
					{Ref: "cut", Code: "CUT", Category: "CUTTING", Sequence: 1, TimePerPieceSeconds: 45},
					{Ref: "print", Code: "PRINT", Category: "SILKSCREEN", Sequence: 2, TimePerPieceSeconds: 30,
						EquipmentRef: strPtr("press"), DependsOn: []string{"cut"}},
					{Ref: "sew", Code: "SEW", Category: "SEWING", Sequence: 3, TimePerPieceSeconds: 90,
						DependsOn: []string{"print"}},
				},
			},
		},
		Workers: []WorkerImport{
			{
				Ref: "mira", Name: "Mira",
				Certifications: []CertificationImport{{EquipmentRef: "press"}},
				Proficiencies:  []ProficiencyImport{{StepRef: "sew", Level: 4}},
			},
			{Ref: "jonas", Name: "Jonas"},
		},
		Demand: []DemandImport{
			{ProductRef: "tote", Quantity: 200, DueDate: "2026-10-01"},
		},
	}
}

func strPtr(s string) *string { return &s }

func TestValidateDataset_ValidFilePasses(t *testing.T) {
	errs := ValidateDataset(validDataset())
	assert.Empty(t, errs)
}

// assertOneError requires at least one validation error mentioning substr.
func assertOneError(t *testing.T, ds *Dataset, substr string) {
	t.Helper()
	errs := ValidateDataset(ds)
	require.NotEmpty(t, errs)
	for _, err := range errs {
		if strings.Contains(err.Error(), substr) {
			return
		}
	}
	t.Errorf("expected an error containing %q, got %v", substr, errs)
}

func TestValidateDataset_UnknownEquipmentRef(t *testing.T) {
	ds := validDataset()
	ds.Products[0].Steps[1].EquipmentRef = strPtr("laser")
	assertOneError(t, ds, `unknown equipment "laser"`)
}

func TestValidateDataset_SelfDependency(t *testing.T) {
	ds := validDataset()
	ds.Products[0].Steps[0].DependsOn = []string{"cut"}
	assertOneError(t, ds, `depends on itself`)
}

func TestValidateDataset_CrossProductDependency(t *testing.T) {
	ds := validDataset()
	ds.Products = append(ds.Products, ProductImport{
		Ref: "shirt", Name: "Shirt",
		Steps: []StepImport{
			{Ref: "shirt-sew", Code: "SEW", Category: "SEWING", Sequence: 1,
				TimePerPieceSeconds: 120, DependsOn: []string{"cut"}},
		},
	})
	assertOneError(t, ds, `unknown step "cut"`)
}

func TestValidateDataset_BadCategoryAndTime(t *testing.T) {
	ds := validDataset()
	ds.Products[0].Steps[0].Category = "WELDING"
	ds.Products[0].Steps[0].TimePerPieceSeconds = 0
	assertOneError(t, ds, `invalid value "WELDING"`)
	assertOneError(t, ds, "time_per_piece_seconds must be positive")
}

func TestValidateDataset_DuplicateRefs(t *testing.T) {
	ds := validDataset()
	ds.Workers = append(ds.Workers, WorkerImport{Ref: "mira", Name: "Other Mira"})
	assertOneError(t, ds, `duplicate ref "mira"`)
}

func TestValidateDataset_DemandChecks(t *testing.T) {
	ds := validDataset()
	ds.Demand = []DemandImport{
		{ProductRef: "ghost", Quantity: 0, DueDate: "10/01/2026", Priority: 9},
	}
	assertOneError(t, ds, `unknown product "ghost"`)
	assertOneError(t, ds, "quantity must be positive")
	assertOneError(t, ds, "invalid date format")
	assertOneError(t, ds, "priority must be between 1 and 5")
}

func TestValidateDataset_ProficiencyBounds(t *testing.T) {
	ds := validDataset()
	ds.Workers[0].Proficiencies = []ProficiencyImport{{StepRef: "sew", Level: 6}}
	assertOneError(t, ds, "level must be between 1 and 5")
}

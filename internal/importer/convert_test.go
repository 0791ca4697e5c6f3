package importer

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

func TestConvert_AppliesDefaults(t *testing.T) {
	ds := validDataset()
	converted, err := Convert(ds)
	require.NoError(t, err)

	_, err = uuid.Parse(converted.BatchTag)
	assert.NoError(t, err, "an absent batch tag gets a generated UUID")

	require.Len(t, converted.Equipment, 1)
	assert.Equal(t, domain.EquipmentAvailable, converted.Equipment[0].Equipment.Status)

	require.Len(t, converted.Workers, 2)
	assert.Equal(t, domain.WorkerActive, converted.Workers[0].Worker.Status)

	require.Len(t, converted.Demand, 1)
	d := converted.Demand[0].Demand
	assert.Equal(t, domain.SourceInternal, d.Source)
	assert.Equal(t, 3, d.Priority)
	assert.Equal(t, domain.DemandPending, d.Status)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), d.DueDate)
}

func TestConvert_KeepsExplicitBatchTag(t *testing.T) {
	ds := validDataset()
	ds.BatchTag = "spring-refresh"

	converted, err := Convert(ds)
	require.NoError(t, err)
	assert.Equal(t, "spring-refresh", converted.BatchTag)
}

func TestConvert_StepNameFallsBackToCode(t *testing.T) {
	ds := validDataset()
	ds.Products[0].Steps[0].Name = ""
	ds.Products[0].Steps[1].Name = "Screen print front"

	converted, err := Convert(ds)
	require.NoError(t, err)

	steps := converted.Products[0].Steps
	assert.Equal(t, "CUT", steps[0].Step.Name)
	assert.Equal(t, "Screen print front", steps[1].Step.Name)
	assert.Equal(t, []string{"cut"}, steps[1].DependsOn)
	require.NotNil(t, steps[1].EquipmentRef)
	assert.Equal(t, "press", *steps[1].EquipmentRef)
}

func TestConvert_CertificationDates(t *testing.T) {
	ds := validDataset()
	ds.Workers[0].Certifications = []CertificationImport{{
		EquipmentRef: "press",
		CertifiedAt:  strPtr("2025-06-01"),
		ExpiresAt:    strPtr("2027-06-01"),
	}}

	converted, err := Convert(ds)
	require.NoError(t, err)

	cert := converted.Workers[0].Certifications[0]
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), cert.CertifiedAt)
	require.NotNil(t, cert.ExpiresAt)
	assert.Equal(t, time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC), *cert.ExpiresAt)
}

package domain

import "time"

type Product struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductStep is a single operation of a product's bill of materials.
// Sequence is a total order within the product used only as a tiebreaker;
// actual ordering comes from StepDependency edges.
type ProductStep struct {
	ID                  int64
	ProductID           int64
	Name                string
	StepCode            string
	Category            StepCategory
	TimePerPieceSeconds int
	Sequence            int
	EquipmentID         *int64
	WorkCategory        *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// StepDependency is an ordered edge: StepID waits on DependsOnStepID.
type StepDependency struct {
	ID              int64
	StepID          int64
	DependsOnStepID int64
	Kind            DependencyKind
}

// BuildVersion is a named recipe revision: a selection and ordering of a
// product's steps. At most one version per product is the default.
type BuildVersion struct {
	ID        int64
	ProductID int64
	Name      string
	Status    BuildVersionStatus
	IsDefault bool
	StepIDs   []int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

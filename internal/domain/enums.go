package domain

type StepCategory string

const (
	CategoryCutting    StepCategory = "CUTTING"
	CategorySilkscreen StepCategory = "SILKSCREEN"
	CategoryPrep       StepCategory = "PREP"
	CategorySewing     StepCategory = "SEWING"
	CategoryInspection StepCategory = "INSPECTION"
)

// ValidStepCategories is the canonical set of accepted step category strings.
var ValidStepCategories = map[string]bool{
	"CUTTING": true, "SILKSCREEN": true, "PREP": true,
	"SEWING": true, "INSPECTION": true,
}

type DependencyKind string

const (
	// DependFinish: the predecessor step must be completed for the same
	// batch before the dependent step may start.
	DependFinish DependencyKind = "finish"
	// DependStart: it is sufficient that the predecessor step has begun.
	DependStart DependencyKind = "start"
)

type BuildVersionStatus string

const (
	BuildDraft      BuildVersionStatus = "draft"
	BuildActive     BuildVersionStatus = "active"
	BuildDeprecated BuildVersionStatus = "deprecated"
)

type EquipmentStatus string

const (
	EquipmentAvailable   EquipmentStatus = "available"
	EquipmentInUse       EquipmentStatus = "in_use"
	EquipmentMaintenance EquipmentStatus = "maintenance"
	EquipmentRetired     EquipmentStatus = "retired"
)

type WorkerStatus string

const (
	WorkerActive   WorkerStatus = "active"
	WorkerInactive WorkerStatus = "inactive"
	WorkerOnLeave  WorkerStatus = "on_leave"
)

type DemandSource string

const (
	SourceInternal   DemandSource = "internal"
	SourceExternalSO DemandSource = "external_so"
	SourceExternalWO DemandSource = "external_wo"
)

type DemandStatus string

const (
	DemandPending    DemandStatus = "pending"
	DemandPlanned    DemandStatus = "planned"
	DemandInProgress DemandStatus = "in_progress"
	DemandCompleted  DemandStatus = "completed"
)

type RunStatus string

const (
	RunDraft    RunStatus = "draft"
	RunPending  RunStatus = "pending"
	RunAccepted RunStatus = "accepted"
	RunArchived RunStatus = "archived"
)

type Strategy string

const (
	StrategyMeetDeadlines Strategy = "meet_deadlines"
	StrategyMinimizeCost  Strategy = "minimize_cost"
	StrategyBalanced      Strategy = "balanced"
	// StrategyCustom marks a scenario forked from an operator-edited
	// schedule; the planner never generates it directly.
	StrategyCustom Strategy = "custom"
)

type AdjustmentReason string

const (
	AdjustManual       AdjustmentReason = "manual"
	AdjustAutoIncrease AdjustmentReason = "auto_increase"
	AdjustAutoDecrease AdjustmentReason = "auto_decrease"
)

type RiskLevel string

const (
	RiskOnTrack  RiskLevel = "on_track"
	RiskAtRisk   RiskLevel = "at_risk"
	RiskCritical RiskLevel = "critical"
)

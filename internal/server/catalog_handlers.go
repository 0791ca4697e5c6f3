package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/importer"
	"github.com/zainhoda/sij-manager-sub003/internal/repository"
)

// registerCatalog mounts the master-data CRUD surface under /api/catalog.
func (s *Server) registerCatalog(api *gin.RouterGroup) {
	catalog := api.Group("/catalog")
	{
		catalog.POST("/products", s.createProduct)
		catalog.GET("/products", s.listProducts)
		catalog.GET("/products/:id", s.getProduct)
		catalog.PUT("/products/:id", s.updateProduct)
		catalog.DELETE("/products/:id", s.deleteProduct)

		catalog.POST("/products/:id/steps", s.addStep)
		catalog.GET("/products/:id/steps", s.listSteps)
		catalog.PUT("/steps/:id", s.updateStep)
		catalog.DELETE("/steps/:id", s.deleteStep)

		catalog.POST("/steps/:id/dependencies", s.addDependency)
		catalog.DELETE("/steps/:id/dependencies/:depId", s.removeDependency)
		catalog.GET("/products/:id/dependencies", s.listDependencies)

		catalog.POST("/products/:id/versions", s.createBuildVersion)
		catalog.GET("/products/:id/versions", s.listBuildVersions)
		catalog.POST("/products/:id/versions/:versionId/default", s.setDefaultBuildVersion)

		catalog.POST("/workers", s.createWorker)
		catalog.GET("/workers", s.listWorkers)
		catalog.GET("/workers/:id", s.getWorker)
		catalog.PUT("/workers/:id", s.updateWorker)
		catalog.DELETE("/workers/:id", s.deleteWorker)
		catalog.PUT("/workers/:id/proficiency/:stepId", s.setProficiency)

		catalog.POST("/workers/:id/certifications", s.certifyWorker)
		catalog.DELETE("/workers/:id/certifications/:equipmentId", s.decertifyWorker)
		catalog.GET("/certifications", s.listCertifications)

		catalog.POST("/equipment", s.createEquipment)
		catalog.GET("/equipment", s.listEquipment)
		catalog.GET("/equipment/:id", s.getEquipment)
		catalog.PUT("/equipment/:id", s.updateEquipment)
		catalog.DELETE("/equipment/:id", s.deleteEquipment)

		catalog.POST("/demand", s.createDemand)
		catalog.GET("/demand", s.listDemand)
		catalog.GET("/demand/:id", s.getDemand)
		catalog.PUT("/demand/:id", s.updateDemand)
		catalog.DELETE("/demand/:id", s.deleteDemand)

		catalog.GET("/settings", s.getSettings)
		catalog.PUT("/settings", s.updateSettings)

		catalog.POST("/import", s.importDataset)
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// ---- products ----

type productBody struct {
	Name string `json:"name"`
}

func (s *Server) createProduct(c *gin.Context) {
	var body productBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	p := &domain.Product{Name: body.Name}
	if err := s.products.Create(c.Request.Context(), p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.NewProductView(*p))
}

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.products.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]contract.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, contract.NewProductView(*p))
	}
	c.JSON(http.StatusOK, gin.H{"products": views})
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := s.products.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.NewProductView(*p))
}

func (s *Server) updateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body productBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	p := &domain.Product{ID: id, Name: body.Name}
	if err := s.products.Update(c.Request.Context(), p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.NewProductView(*p))
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.products.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---- steps ----

type stepBody struct {
	Name                string  `json:"name"`
	StepCode            string  `json:"step_code"`
	Category            string  `json:"category"`
	TimePerPieceSeconds int     `json:"time_per_piece_seconds"`
	Sequence            int     `json:"sequence"`
	EquipmentID         *int64  `json:"equipment_id"`
	WorkCategory        *string `json:"work_category"`
}

func (b stepBody) toDomain(productID, stepID int64) *domain.ProductStep {
	return &domain.ProductStep{
		ID:                  stepID,
		ProductID:           productID,
		Name:                b.Name,
		StepCode:            b.StepCode,
		Category:            domain.StepCategory(b.Category),
		TimePerPieceSeconds: b.TimePerPieceSeconds,
		Sequence:            b.Sequence,
		EquipmentID:         b.EquipmentID,
		WorkCategory:        b.WorkCategory,
	}
}

func (s *Server) addStep(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body stepBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	step := body.toDomain(productID, 0)
	if err := s.products.AddStep(c.Request.Context(), step); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.NewStepView(*step))
}

func (s *Server) listSteps(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	steps, err := s.products.ListSteps(c.Request.Context(), productID)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]contract.StepView, 0, len(steps))
	for _, st := range steps {
		views = append(views, contract.NewStepView(st))
	}
	c.JSON(http.StatusOK, gin.H{"steps": views})
}

func (s *Server) updateStep(c *gin.Context) {
	stepID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		stepBody
		ProductID int64 `json:"product_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	step := body.toDomain(body.ProductID, stepID)
	if err := s.products.UpdateStep(c.Request.Context(), step); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.NewStepView(*step))
}

func (s *Server) deleteStep(c *gin.Context) {
	stepID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.products.DeleteStep(c.Request.Context(), stepID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---- dependencies ----

func (s *Server) addDependency(c *gin.Context) {
	stepID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		DependsOnStepID int64  `json:"depends_on_step_id"`
		Kind            string `json:"kind"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	dep := &domain.StepDependency{
		StepID:          stepID,
		DependsOnStepID: body.DependsOnStepID,
		Kind:            domain.DependencyKind(body.Kind),
	}
	if dep.Kind == "" {
		dep.Kind = domain.DependFinish
	}
	if err := s.products.AddDependency(c.Request.Context(), dep); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.NewDependencyView(*dep))
}

func (s *Server) removeDependency(c *gin.Context) {
	stepID, ok := pathID(c, "id")
	if !ok {
		return
	}
	depID, ok := pathID(c, "depId")
	if !ok {
		return
	}
	if err := s.products.RemoveDependency(c.Request.Context(), stepID, depID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) listDependencies(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	deps, err := s.products.ListDependencies(c.Request.Context(), productID)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]contract.DependencyView, 0, len(deps))
	for _, d := range deps {
		views = append(views, contract.NewDependencyView(d))
	}
	c.JSON(http.StatusOK, gin.H{"dependencies": views})
}

// ---- build versions ----

func (s *Server) createBuildVersion(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Name      string  `json:"name"`
		Status    string  `json:"status"`
		IsDefault bool    `json:"is_default"`
		StepIDs   []int64 `json:"step_ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	v := &domain.BuildVersion{
		ProductID: productID,
		Name:      body.Name,
		Status:    domain.BuildVersionStatus(body.Status),
		IsDefault: body.IsDefault,
		StepIDs:   body.StepIDs,
	}
	if v.Status == "" {
		v.Status = domain.BuildDraft
	}
	if err := s.products.CreateBuildVersion(c.Request.Context(), v); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.NewBuildVersionView(*v))
}

func (s *Server) listBuildVersions(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	versions, err := s.products.ListBuildVersions(c.Request.Context(), productID)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]contract.BuildVersionView, 0, len(versions))
	for _, v := range versions {
		views = append(views, contract.NewBuildVersionView(v))
	}
	c.JSON(http.StatusOK, gin.H{"versions": views})
}

func (s *Server) setDefaultBuildVersion(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	versionID, ok := pathID(c, "versionId")
	if !ok {
		return
	}
	if err := s.products.SetDefaultBuildVersion(c.Request.Context(), productID, versionID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---- workers ----

type workerBody struct {
	Name         string   `json:"name"`
	EmployeeID   *string  `json:"employee_id"`
	Status       string   `json:"status"`
	WorkCategory *string  `json:"work_category"`
	CostPerHour  *float64 `json:"cost_per_hour"`
}

func (b workerBody) toDomain(id int64) *domain.Worker {
	w := &domain.Worker{
		ID:           id,
		Name:         b.Name,
		EmployeeID:   b.EmployeeID,
		Status:       domain.WorkerStatus(b.Status),
		WorkCategory: b.WorkCategory,
		CostPerHour:  b.CostPerHour,
	}
	if w.Status == "" {
		w.Status = domain.WorkerActive
	}
	return w
}

func (s *Server) createWorker(c *gin.Context) {
	var body workerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	w := body.toDomain(0)
	if err := s.workers.Create(c.Request.Context(), w); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.NewWorkerView(*w))
}

func (s *Server) listWorkers(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	workers, err := s.workers.List(c.Request.Context(), includeInactive)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]contract.WorkerView, 0, len(workers))
	for _, w := range workers {
		views = append(views, contract.NewWorkerView(*w))
	}
	c.JSON(http.StatusOK, gin.H{"workers": views})
}

func (s *Server) getWorker(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	w, err := s.workers.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.NewWorkerView(*w))
}

func (s *Server) updateWorker(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body workerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	w := body.toDomain(id)
	if err := s.workers.Update(c.Request.Context(), w); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.NewWorkerView(*w))
}

func (s *Server) deleteWorker(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.workers.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) setProficiency(c *gin.Context) {
	workerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	stepID, ok := pathID(c, "stepId")
	if !ok {
		return
	}
	var body struct {
		Level int `json:"level"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := s.profic.SetLevel(c.Request.Context(), workerID, stepID, body.Level); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---- certifications ----

func (s *Server) certifyWorker(c *gin.Context) {
	workerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		EquipmentID int64   `json:"equipment_id"`
		CertifiedAt *string `json:"certified_at"`
		ExpiresAt   *string `json:"expires_at"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cert := &domain.EquipmentCertification{
		WorkerID:    workerID,
		EquipmentID: body.EquipmentID,
	}
	if body.CertifiedAt != nil {
		d, err := calendar.ParseDate(*body.CertifiedAt)
		if err != nil {
			badRequest(c, "invalid certified_at date")
			return
		}
		cert.CertifiedAt = d
	}
	if body.ExpiresAt != nil {
		d, err := calendar.ParseDate(*body.ExpiresAt)
		if err != nil {
			badRequest(c, "invalid expires_at date")
			return
		}
		cert.ExpiresAt = &d
	}
	if err := s.workers.Certify(c.Request.Context(), cert); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.NewCertificationView(*cert))
}

func (s *Server) decertifyWorker(c *gin.Context) {
	workerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	equipmentID, ok := pathID(c, "equipmentId")
	if !ok {
		return
	}
	if err := s.workers.Decertify(c.Request.Context(), workerID, equipmentID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) listCertifications(c *gin.Context) {
	certs, err := s.workers.ListCertifications(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]contract.CertificationView, 0, len(certs))
	for _, cert := range certs {
		views = append(views, contract.NewCertificationView(cert))
	}
	c.JSON(http.StatusOK, gin.H{"certifications": views})
}

// ---- equipment ----

type equipmentBody struct {
	Name         string   `json:"name"`
	Status       string   `json:"status"`
	StationCount *int     `json:"station_count"`
	HourlyCost   *float64 `json:"hourly_cost"`
}

func (b equipmentBody) toDomain(id int64) *domain.Equipment {
	e := &domain.Equipment{
		ID:           id,
		Name:         b.Name,
		Status:       domain.EquipmentStatus(b.Status),
		StationCount: b.StationCount,
		HourlyCost:   b.HourlyCost,
	}
	if e.Status == "" {
		e.Status = domain.EquipmentAvailable
	}
	return e
}

func (s *Server) createEquipment(c *gin.Context) {
	var body equipmentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	e := body.toDomain(0)
	if err := s.equipment.Create(c.Request.Context(), e); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.NewEquipmentView(*e))
}

func (s *Server) listEquipment(c *gin.Context) {
	equipment, err := s.equipment.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]contract.EquipmentView, 0, len(equipment))
	for _, e := range equipment {
		views = append(views, contract.NewEquipmentView(e))
	}
	c.JSON(http.StatusOK, gin.H{"equipment": views})
}

func (s *Server) getEquipment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	e, err := s.equipment.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.NewEquipmentView(*e))
}

func (s *Server) updateEquipment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body equipmentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	e := body.toDomain(id)
	if err := s.equipment.Update(c.Request.Context(), e); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.NewEquipmentView(*e))
}

func (s *Server) deleteEquipment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.equipment.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---- demand ----

type demandBody struct {
	Source         string  `json:"source"`
	ProductID      int64   `json:"product_id"`
	BuildVersionID *int64  `json:"build_version_id"`
	Quantity       int     `json:"quantity"`
	DueDate        string  `json:"due_date"`
	CustomerName   *string `json:"customer_name"`
	Priority       int     `json:"priority"`
	MinBatchSize   int     `json:"min_batch_size"`
	MaxBatchSize   int     `json:"max_batch_size"`
}

func (b demandBody) toDomain(id int64) (*domain.DemandEntry, error) {
	due, err := calendar.ParseDate(b.DueDate)
	if err != nil {
		return nil, err
	}
	d := &domain.DemandEntry{
		ID:             id,
		Source:         domain.DemandSource(b.Source),
		ProductID:      b.ProductID,
		BuildVersionID: b.BuildVersionID,
		Quantity:       b.Quantity,
		DueDate:        due,
		CustomerName:   b.CustomerName,
		Priority:       b.Priority,
		Status:         domain.DemandPending,
		MinBatchSize:   b.MinBatchSize,
		MaxBatchSize:   b.MaxBatchSize,
	}
	if d.Source == "" {
		d.Source = domain.SourceInternal
	}
	if d.Priority == 0 {
		d.Priority = 3
	}
	return d, nil
}

func (s *Server) createDemand(c *gin.Context) {
	var body demandBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	d, err := body.toDomain(0)
	if err != nil {
		badRequest(c, "invalid due_date")
		return
	}
	if err := s.demand.Create(c.Request.Context(), d); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.NewDemandView(*d))
}

func (s *Server) listDemand(c *gin.Context) {
	filter := repository.DemandFilter{
		Status: domain.DemandStatus(c.Query("status")),
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			badRequest(c, "invalid product_id")
			return
		}
		filter.ProductID = id
	}
	demand, err := s.demand.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]contract.DemandView, 0, len(demand))
	for _, d := range demand {
		views = append(views, contract.NewDemandView(d))
	}
	c.JSON(http.StatusOK, gin.H{"demand": views})
}

func (s *Server) getDemand(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := s.demand.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.NewDemandView(*d))
}

func (s *Server) updateDemand(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	current, err := s.demand.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	var body demandBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	d, err := body.toDomain(id)
	if err != nil {
		badRequest(c, "invalid due_date")
		return
	}
	// Lifecycle status is owned by planning, not by catalog edits.
	d.Status = current.Status
	if err := s.demand.Update(c.Request.Context(), d); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.NewDemandView(*d))
}

func (s *Server) deleteDemand(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.demand.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---- settings ----

type settingsBody struct {
	MorningStart   string                `json:"morning_start"`
	LunchStart     string                `json:"lunch_start"`
	LunchEnd       string                `json:"lunch_end"`
	AfternoonEnd   string                `json:"afternoon_end"`
	OvertimeEnd    string                `json:"overtime_end"`
	LevelCutPoints domain.LevelCutPoints `json:"level_cut_points"`
	HolidayDates   []string              `json:"holiday_dates"`
}

func (b settingsBody) toDomain() (*domain.Settings, error) {
	out := domain.Settings{
		LevelCutPoints: b.LevelCutPoints,
		HolidayDates:   b.HolidayDates,
	}
	clocks := []struct {
		raw  string
		dest *int
	}{
		{b.MorningStart, &out.MorningStart},
		{b.LunchStart, &out.LunchStart},
		{b.LunchEnd, &out.LunchEnd},
		{b.AfternoonEnd, &out.AfternoonEnd},
		{b.OvertimeEnd, &out.OvertimeEnd},
	}
	for _, cl := range clocks {
		min, err := calendar.ParseClock(cl.raw)
		if err != nil {
			return nil, err
		}
		*cl.dest = min
	}
	return &out, nil
}

func (s *Server) getSettings(c *gin.Context) {
	settings, err := s.settings.Get(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.NewSettingsView(*settings))
}

func (s *Server) updateSettings(c *gin.Context) {
	var body settingsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	settings, err := body.toDomain()
	if err != nil {
		badRequest(c, "invalid clock value: "+err.Error())
		return
	}
	if err := s.settings.Update(c.Request.Context(), settings); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.NewSettingsView(*settings))
}

// ---- import ----

func (s *Server) importDataset(c *gin.Context) {
	var ds importer.Dataset
	if err := c.ShouldBindJSON(&ds); err != nil {
		badRequest(c, "invalid dataset body")
		return
	}
	result, err := s.importSvc.ImportFromDataset(c.Request.Context(), &ds)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"batch_tag":      result.BatchTag,
		"products":       result.Products,
		"steps":          result.Steps,
		"equipment":      result.Equipment,
		"workers":        result.Workers,
		"certifications": result.Certifications,
		"demand":         result.Demand,
	})
}

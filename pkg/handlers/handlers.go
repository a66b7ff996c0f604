package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jakechorley/staffing-scheduler/internal/config"
	"github.com/jakechorley/staffing-scheduler/pkg/core/allocator"
	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
	"github.com/jakechorley/staffing-scheduler/pkg/core/services"
	"github.com/jakechorley/staffing-scheduler/pkg/db"
)

// Store is everything the HTTP surface reads and writes
type Store interface {
	services.RunStore
	ListContracts(ctx context.Context) ([]model.Contract, error)
	ListShiftRecords(ctx context.Context, contractID string) ([]model.ShiftRecord, error)
}

// Handler contains dependencies for the route handlers
type Handler struct {
	Store  Store
	Config *config.Config
	Logger *zap.Logger

	// runs replace every generated row, so only one may be in flight
	runMu sync.Mutex
}

// Routes registers every endpoint on r
func (h *Handler) Routes(r gin.IRouter) {
	r.GET("/healthz", h.Health)

	v1 := r.Group("/v1")
	v1.GET("/workers", h.ListWorkers)
	v1.GET("/contracts", h.ListContracts)
	v1.GET("/contracts/:id/shifts", h.ListShifts)
	v1.POST("/runs", h.CreateRun)
}

// NewRouter builds a gin engine with recovery and the registered routes
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())
	h.Routes(r)
	return r
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.Logger.Debug("Handled request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type workerResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Skills       []string        `json:"skills"`
	HourlyRate   decimal.Decimal `json:"hourlyRate"`
	Status       string          `json:"status"`
	StatusReason string          `json:"statusReason,omitempty"`
}

// ListWorkers returns workers, optionally filtered by ?status=
func (h *Handler) ListWorkers(c *gin.Context) {
	filter := db.WorkerFilter{Status: model.WorkerStatus(c.Query("status"))}
	if filter.Status != "" && !filter.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown worker status"})
		return
	}

	workers, err := services.ListWorkers(c.Request.Context(), h.Store, filter, h.Logger)
	if err != nil {
		h.internalError(c, err)
		return
	}

	out := make([]workerResponse, 0, len(workers))
	for _, w := range workers {
		out = append(out, workerResponse{
			ID:           w.ID,
			Name:         w.DisplayName(),
			Skills:       w.Skills,
			HourlyRate:   w.HourlyRate,
			Status:       string(w.Status),
			StatusReason: w.StatusReason,
		})
	}
	c.JSON(http.StatusOK, gin.H{"workers": out})
}

type contractResponse struct {
	ID             string          `json:"id"`
	Number         string          `json:"number"`
	WorkerID       string          `json:"workerId"`
	ClientID       string          `json:"clientId"`
	Position       string          `json:"position"`
	Start          string          `json:"start"`
	End            string          `json:"end"`
	Status         string          `json:"status"`
	ShiftType      string          `json:"shiftType"`
	HourlyRate     decimal.Decimal `json:"hourlyRate"`
	MaxWeeklyHours int             `json:"maxWeeklyHours"`
}

func toContractResponses(contracts []model.Contract) []contractResponse {
	out := make([]contractResponse, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, contractResponse{
			ID:             c.ID,
			Number:         c.Number,
			WorkerID:       c.WorkerID,
			ClientID:       c.ClientID,
			Position:       c.Position,
			Start:          model.DateKey(c.Interval.Start),
			End:            model.DateKey(c.Interval.End),
			Status:         string(c.Status),
			ShiftType:      string(c.ShiftType),
			HourlyRate:     c.HourlyRate,
			MaxWeeklyHours: c.MaxWeeklyHours,
		})
	}
	return out
}

func (h *Handler) ListContracts(c *gin.Context) {
	contracts, err := h.Store.ListContracts(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": toContractResponses(contracts)})
}

type shiftResponse struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	Start           string `json:"start,omitempty"`
	End             string `json:"end,omitempty"`
	CrossesMidnight bool   `json:"crossesMidnight"`
	Status          string `json:"status"`
	Note            string `json:"note,omitempty"`
	WeeklyHours     int    `json:"weeklyHours"`
}

// ListShifts returns the shift records of one contract, ordered by date.
// An unknown contract has no records and yields an empty list.
func (h *Handler) ListShifts(c *gin.Context) {
	records, err := h.Store.ListShiftRecords(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.internalError(c, err)
		return
	}

	out := make([]shiftResponse, 0, len(records))
	for _, r := range records {
		resp := shiftResponse{
			ID:              r.ID,
			Date:            model.DateKey(r.Date),
			CrossesMidnight: r.CrossesMidnight,
			Status:          string(r.Status),
			Note:            r.Note,
			WeeklyHours:     r.WeeklyHours,
		}
		if r.Status == model.ShiftWorking {
			resp.Start = r.Start.String()
			resp.End = r.End.String()
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, gin.H{"shifts": out})
}

type runRequest struct {
	Seed             *int64 `json:"seed"`
	RunDate          string `json:"runDate"`
	DryRun           bool   `json:"dryRun"`
	SkipStatusUpdate bool   `json:"skipStatusUpdate"`
}

type validationErrorResponse struct {
	Rule        string `json:"rule"`
	Subject     string `json:"subject"`
	WorkerID    string `json:"workerId"`
	Description string `json:"description"`
}

type runResponse struct {
	Seed             int64                     `json:"seed"`
	RunDate          string                    `json:"runDate"`
	HorizonStart     string                    `json:"horizonStart"`
	HorizonEnd       string                    `json:"horizonEnd"`
	Success          bool                      `json:"success"`
	Saved            bool                      `json:"saved"`
	Contracts        []contractResponse        `json:"contracts"`
	ShiftRecords     int                       `json:"shiftRecords"`
	SkippedClients   []allocator.SkippedClient `json:"skippedClients"`
	ValidationErrors []validationErrorResponse `json:"validationErrors"`
	Summary          services.Summary          `json:"summary"`
}

// CreateRun executes a generation run and returns its outcome
func (h *Handler) CreateRun(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := services.RunOptions{
		Seed:             req.Seed,
		DryRun:           req.DryRun,
		SkipStatusUpdate: req.SkipStatusUpdate,
	}
	if req.RunDate != "" {
		runDate, err := model.ParseDate(req.RunDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		opts.RunDate = runDate
	}

	if !h.runMu.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": "a run is already in progress"})
		return
	}
	defer h.runMu.Unlock()

	result, err := services.GenerateSchedules(c.Request.Context(), h.Store, h.Config, h.Logger, opts)
	if err != nil {
		if errors.Is(err, allocator.ErrMissingActor) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.internalError(c, err)
		return
	}

	resp := runResponse{
		Seed:             result.Seed,
		RunDate:          model.DateKey(result.RunDate),
		HorizonStart:     model.DateKey(result.Horizon.Start),
		HorizonEnd:       model.DateKey(result.Horizon.End),
		Success:          result.Success,
		Saved:            result.Saved,
		Contracts:        toContractResponses(result.Contracts),
		ShiftRecords:     len(result.Shifts),
		SkippedClients:   result.SkippedClients,
		ValidationErrors: []validationErrorResponse{},
		Summary:          result.Summary,
	}
	for _, v := range result.ContractValidationErrs {
		resp.ValidationErrors = append(resp.ValidationErrors, validationErrorResponse{
			Rule: v.Rule, Subject: v.ContractID, WorkerID: v.WorkerID, Description: v.Description,
		})
	}
	for _, v := range result.ShiftValidationErrs {
		resp.ValidationErrors = append(resp.ValidationErrors, validationErrorResponse{
			Rule: v.Rule, Subject: v.RecordID, WorkerID: v.WorkerID, Description: v.Description,
		})
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, resp)
}

func (h *Handler) internalError(c *gin.Context, err error) {
	h.Logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

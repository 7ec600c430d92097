package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zen-systems/skillmaster/pkg/adapter"
	"github.com/zen-systems/skillmaster/pkg/config"
	"github.com/zen-systems/skillmaster/pkg/logger"
	"github.com/zen-systems/skillmaster/pkg/report"
	"github.com/zen-systems/skillmaster/pkg/stages"
	"github.com/zen-systems/skillmaster/pkg/workflow"
)

const (
	ServiceName = "SkillMaster API"
	Version     = "1.0.0"
)

// HealthHandler serves the service banner.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": ServiceName,
		"version": Version,
	})
}

// GatewayFactory returns the gateway for one request. It reports a missing
// credential as a *config.ConfigurationError.
type GatewayFactory func() (adapter.Adapter, error)

// AnalyzeHandler runs the skill analysis pipeline for POST /api/analyze.
type AnalyzeHandler struct {
	newGateway GatewayFactory
	opts       stages.Options
	catalog    *config.Catalog
	log        *logger.Logger
}

func NewAnalyzeHandler(newGateway GatewayFactory, opts stages.Options, catalog *config.Catalog, log *logger.Logger) *AnalyzeHandler {
	if catalog == nil {
		catalog = config.DefaultCatalog()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AnalyzeHandler{newGateway: newGateway, opts: opts, catalog: catalog, log: log}
}

type analyzeRequest struct {
	SkillName        string `json:"skill_name" binding:"required"`
	ProficiencyLevel string `json:"proficiency_level"`
}

func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeInvalidRequest, "invalid request: "+err.Error())
		return
	}
	skill := strings.TrimSpace(req.SkillName)
	if skill == "" {
		RespondError(c, http.StatusBadRequest, CodeInvalidRequest, "skill_name must not be empty")
		return
	}
	level := workflow.ParseLevel(req.ProficiencyLevel)
	log := h.log.With("request_id", RequestIDFrom(c), "skill", skill, "level", string(level))

	gateway, err := h.newGateway()
	if err != nil {
		log.Error("gateway unavailable", "error", err.Error())
		RespondError(c, http.StatusInternalServerError, CodeConfiguration, err.Error())
		return
	}

	meter := adapter.NewMeter(gateway)
	final, err := stages.NewPipeline(meter, h.opts).
		Run(c.Request.Context(), workflow.NewContext(skill, level), LogEvents(log))
	if err != nil {
		log.Error("analysis failed", "error", err.Error())
		RespondError(c, http.StatusInternalServerError, errorCode(err), "Analysis failed: "+err.Error())
		return
	}

	resp, err := report.Assemble(final, h.catalog)
	if err != nil {
		log.Error("assemble response", "error", err.Error())
		RespondError(c, http.StatusInternalServerError, CodeAnalysisFailed, "Analysis failed: "+err.Error())
		return
	}
	log.Info("analysis completed", "total_tokens", meter.Total().TotalTokens)
	RespondOK(c, resp)
}

// LogEvents returns an observer writing pipeline events to log.
func LogEvents(log *logger.Logger) workflow.Observer {
	return func(e workflow.Event) {
		switch e.Status {
		case workflow.StatusRunning:
			log.Debug("stage started", "pipeline", e.Pipeline, "stage", e.Stage, "index", e.Index)
		case workflow.StatusCompleted:
			log.Info("stage completed", "stage", e.Stage, "duration_ms", e.Duration.Milliseconds())
		case workflow.StatusFailed:
			log.Warn("stage failed", "stage", e.Stage, "duration_ms", e.Duration.Milliseconds(), "error", errString(e.Err))
		}
	}
}

func errorCode(err error) string {
	var gatewayErr *workflow.GatewayError
	var malformed *workflow.MalformedResponseError
	switch {
	case errors.As(err, &gatewayErr):
		return CodeGateway
	case errors.As(err, &malformed):
		return CodeMalformedResponse
	default:
		return CodeAnalysisFailed
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

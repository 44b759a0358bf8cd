package handler

import (
	"context"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cost-navigator/api/response"
	"cost-navigator/types"
	"cost-navigator/vars"
)

var zipParamRe = regexp.MustCompile(`^\d{5}$`)

// Navigator is what the handlers need from the query service.
type Navigator interface {
	Ask(ctx context.Context, question string) (string, error)
	ListProviders(ctx context.Context, drg, zipCode string, radiusKm int) ([]types.ProviderResult, error)
}

type NavigatorHandler struct {
	querySvc Navigator
	log      *zap.Logger
}

func NewNavigatorHandler(querySvc Navigator, log *zap.Logger) *NavigatorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &NavigatorHandler{querySvc: querySvc, log: log}
}

// Providers handles GET /providers: structured listing search, price
// ascending, capped at 100 rows.
func (h *NavigatorHandler) Providers(c *gin.Context) {
	drg := c.Query("drg")
	if drg == "" {
		response.Fail(c, http.StatusBadRequest, "drg query parameter is required")
		return
	}
	zipCode := c.Query("zip")
	if !zipParamRe.MatchString(zipCode) {
		response.Fail(c, http.StatusBadRequest, "zip must be a 5-digit ZIP code")
		return
	}

	radiusKm := vars.DefaultRadiusKm
	if raw := c.Query("radius_km"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < vars.MinRadiusKm || parsed > vars.MaxRadiusKm {
			response.Fail(c, http.StatusBadRequest, "radius_km must be an integer between 1 and 500")
			return
		}
		radiusKm = parsed
	}

	rows, err := h.querySvc.ListProviders(c.Request.Context(), drg, zipCode, radiusKm)
	if err != nil {
		h.log.Error("provider listing failed", zap.Error(err), zap.String("zip", zipCode))
		response.FailFromError(c, err, listingErrorMsg(err))
		return
	}
	if rows == nil {
		rows = []types.ProviderResult{}
	}
	response.Success(c, rows)
}

// Ask handles POST /ask: one question in, one answer out. Out-of-scope
// questions get the fixed rejection answer with a 200, matching the
// answer-string contract.
func (h *NavigatorHandler) Ask(c *gin.Context) {
	var req types.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := h.querySvc.Ask(c.Request.Context(), req.Question)
	if err != nil {
		h.log.Error("ask failed", zap.Error(err))
		response.FailFromError(c, err, askErrorMsg(err))
		return
	}
	response.Success(c, types.AskResponse{Answer: answer})
}

// Health handles GET /.
func (h *NavigatorHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func askErrorMsg(err error) string {
	switch types.KindOf(err) {
	case types.KindMissingLocation:
		return "Please include a 5-digit ZIP code in your question."
	case types.KindInvalidLocation:
		return "Invalid or unsupported ZIP code for geocoding"
	case types.KindUpstreamTimeout:
		return "The request timed out talking to an upstream service. Please try again."
	case types.KindUpstreamExtraction:
		return "Could not understand the question right now. Please try again."
	default:
		return "internal error"
	}
}

func listingErrorMsg(err error) string {
	switch types.KindOf(err) {
	case types.KindInvalidLocation:
		return "Invalid or unsupported ZIP code for geocoding"
	case types.KindUpstreamTimeout:
		return "The request timed out talking to an upstream service. Please try again."
	default:
		return "internal error"
	}
}

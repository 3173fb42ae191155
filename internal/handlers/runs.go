package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/opencart-qa/storefront-suite/internal/models"
	"github.com/opencart-qa/storefront-suite/internal/services"
)

// RunResponse is the JSON form of a run
type RunResponse struct {
	ID         string     `json:"id"`
	Suite      string     `json:"suite"`
	Browser    string     `json:"browser"`
	OS         string     `json:"os"`
	Groups     []string   `json:"groups"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Passed     int        `json:"passed"`
	Failed     int        `json:"failed"`
	Skipped    int        `json:"skipped"`
}

// ResultResponse is the JSON form of a result
type ResultResponse struct {
	ID         string   `json:"id"`
	Test       string   `json:"test"`
	Groups     []string `json:"groups"`
	Status     string   `json:"status"`
	Message    string   `json:"message,omitempty"`
	Screenshot string   `json:"screenshot,omitempty"`
	DurationMS int64    `json:"durationMs"`
}

// RunDetailsResponse is a run with its results
type RunDetailsResponse struct {
	RunResponse
	Results []ResultResponse `json:"results"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RunsHandler serves GET /api/runs
type RunsHandler struct {
	history services.HistoryService
	logger  *zap.Logger
}

// NewRunsHandler creates a new runs handler
func NewRunsHandler(history services.HistoryService, logger *zap.Logger) *RunsHandler {
	return &RunsHandler{history: history, logger: logger}
}

// ServeHTTP lists recent runs, limited by the optional limit query parameter
func (h *RunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := recentRunLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			sendErrorResponse(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.history.RecentRuns(limit)
	if err != nil {
		h.logger.Error("Failed to list runs", zap.Error(err))
		sendErrorResponse(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}

	resp := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, toRunResponse(run))
	}
	sendJSON(w, h.logger, resp)
}

// RunHandler serves GET /api/runs/{id}
type RunHandler struct {
	history services.HistoryService
	logger  *zap.Logger
}

// NewRunHandler creates a new run handler
func NewRunHandler(history services.HistoryService, logger *zap.Logger) *RunHandler {
	return &RunHandler{history: history, logger: logger}
}

// ServeHTTP returns one run with its results
func (h *RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		sendErrorResponse(w, "run id is required", http.StatusBadRequest)
		return
	}
	// run ids are uuid columns, anything else cannot exist
	if _, err := uuid.Parse(id); err != nil {
		sendErrorResponse(w, "Run not found", http.StatusNotFound)
		return
	}

	details, err := h.history.RunDetails(id)
	if errors.Is(err, models.ErrRunNotFound) {
		sendErrorResponse(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("Failed to load run", zap.String("run", id), zap.Error(err))
		sendErrorResponse(w, "Failed to load run", http.StatusInternalServerError)
		return
	}

	resp := RunDetailsResponse{
		RunResponse: toRunResponse(details.Run),
		Results:     make([]ResultResponse, 0, len(details.Results)),
	}
	for _, res := range details.Results {
		resp.Results = append(resp.Results, ResultResponse{
			ID:         res.ID,
			Test:       res.FullName(),
			Groups:     res.Groups,
			Status:     string(res.Status),
			Message:    res.Message,
			Screenshot: res.Screenshot,
			DurationMS: res.Duration.Milliseconds(),
		})
	}
	sendJSON(w, h.logger, resp)
}

func toRunResponse(run *models.Run) RunResponse {
	resp := RunResponse{
		ID:        run.ID,
		Suite:     run.Suite,
		Browser:   run.Browser,
		OS:        run.OS,
		Groups:    run.Groups,
		StartedAt: run.StartedAt,
		Passed:    run.Passed,
		Failed:    run.Failed,
		Skipped:   run.Skipped,
	}
	if run.IsFinished() {
		finished := run.FinishedAt
		resp.FinishedAt = &finished
	}
	return resp
}

func sendJSON(w http.ResponseWriter, logger *zap.Logger, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding response", zap.Error(err))
	}
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

package answermanagement

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ai-speaking-eval/backend/internal/coreengine/answerpipeline"
	"ai-speaking-eval/backend/internal/coreengine/rulescorer"
	"ai-speaking-eval/backend/internal/datastore"
)

// Handlers groups the HTTP handlers around a shared Service.
type Handlers struct {
	Service *Service
}

// NewHandlers creates the handler set.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{Service: service}
}

// CreateAnswerRequest is the payload for registering a new answer slot.
type CreateAnswerRequest struct {
	TestSessionID int64 `json:"test_session_id" binding:"required"`
	QuestionID    int64 `json:"question_id" binding:"required"`
}

// CreateAnswerHandler registers a new PENDING answer for a session question.
func (h *Handlers) CreateAnswerHandler(c *gin.Context) {
	var req CreateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	answer := &datastore.TestAnswer{
		TestSessionID:    req.TestSessionID,
		QuestionID:       req.QuestionID,
		ProcessingStatus: datastore.StatusPending,
	}
	if _, err := datastore.CreateTestAnswer(answer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create answer: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, answer)
}

// UploadAudioHandler accepts a multipart audio upload for an answer and
// triggers processing. The "mode" form value selects sync (default) or async
// processing; async returns 202 and the answer is processed on the worker
// pool. A saturated queue yields 503.
func (h *Handlers) UploadAudioHandler(c *gin.Context) {
	answerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer ID format"})
		return
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'audio' file in multipart form"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	var durationSeconds int64
	if v := c.PostForm("duration_seconds"); v != "" {
		durationSeconds, err = strconv.ParseInt(v, 10, 64)
		if err != nil || durationSeconds < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "duration_seconds must be a non-negative integer"})
			return
		}
	}

	contentType := fileHeader.Header.Get("Content-Type")
	answer, err := h.Service.AttachAudio(c.Request.Context(), answerID, fileHeader.Filename, file, fileHeader.Size, contentType, durationSeconds)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach audio: " + err.Error()})
		}
		return
	}

	mode := c.DefaultPostForm("mode", c.DefaultQuery("mode", "sync"))
	switch mode {
	case "async":
		if err := h.Service.ProcessAsync(answerID); err != nil {
			if errors.Is(err, answerpipeline.ErrQueueSaturated) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Processing queue is full, please retry shortly"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue answer for processing: " + err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"message": "Answer queued for processing", "answer": answer})
	case "sync":
		processed, err := h.Service.ProcessSync(c.Request.Context(), answerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Processing failed: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, processed)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be 'sync' or 'async'"})
	}
}

// GetAnswerHandler returns an answer with its current processing state.
func (h *Handlers) GetAnswerHandler(c *gin.Context) {
	answerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer ID format"})
		return
	}

	answer, err := datastore.GetTestAnswer(answerID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve answer: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, answer)
}

// ListAnswerLogsHandler returns the audit log entries recorded while
// processing an answer, oldest first.
func (h *Handlers) ListAnswerLogsHandler(c *gin.Context) {
	answerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer ID format"})
		return
	}

	logs, err := datastore.ListProcessingLogsByAnswer(answerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list processing logs: " + err.Error()})
		return
	}
	if logs == nil {
		logs = []*datastore.AIProcessingLog{}
	}
	c.JSON(http.StatusOK, logs)
}

// ListSessionAnswersHandler returns all answers of a test session.
func (h *Handlers) ListSessionAnswersHandler(c *gin.Context) {
	sessionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID format"})
		return
	}

	answers, err := datastore.ListTestAnswersBySession(sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list session answers: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, answers)
}

// GetSessionStatsHandler returns aggregated scores for a session. The
// terminal_only query flag switches the average to the conservative variant
// that counts failed answers as zero.
func (h *Handlers) GetSessionStatsHandler(c *gin.Context) {
	sessionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID format"})
		return
	}
	terminalOnly, err := strconv.ParseBool(c.DefaultQuery("terminal_only", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "terminal_only must be a boolean"})
		return
	}

	answers, err := datastore.ListTestAnswersBySession(sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list session answers: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, ComputeSessionStats(sessionID, answers, terminalOnly))
}

// ScoreTranscriptRequest is the payload for the stateless scoring endpoint.
type ScoreTranscriptRequest struct {
	Transcript      string `json:"transcript" binding:"required"`
	Question        string `json:"question"`
	SampleAnswer    string `json:"sample_answer"`
	DurationSeconds int    `json:"duration_seconds"`
}

// ScoreTranscriptHandler runs the rule-based scorer on a transcript without
// touching any stored answer. Useful for previews and for regression-checking
// scorer behavior against known transcripts.
func (h *Handlers) ScoreTranscriptHandler(c *gin.Context) {
	var req ScoreTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	bd := rulescorer.Evaluate(req.Transcript, req.Question, req.SampleAnswer, req.DurationSeconds)
	c.JSON(http.StatusOK, bd)
}

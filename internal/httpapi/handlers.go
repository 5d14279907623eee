package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tda234574534243/law-advisor/internal/model"
	"github.com/tda234574534243/law-advisor/internal/vntext"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type searchRequest struct {
	Query string `json:"q"`
	K     int    `json:"k"`
	Mode  string `json:"mode"`
}

type searchResult struct {
	Title   string  `json:"title"`
	Section string  `json:"section"`
	Text    string  `json:"text"`
	Score   float64 `json:"score"`
	URL     string  `json:"url"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	hits := s.searcher.Retrieve(r.Context(), req.Query, req.K, model.RetrievalMode(req.Mode))

	results := make([]searchResult, 0, len(hits))
	for _, h := range hits {
		text := h.Passage.CombinedText()
		if len([]rune(text)) > 800 {
			text = vntext.Truncate(text, 800) + "..."
		}
		results = append(results, searchResult{
			Title:   h.Passage.Title,
			Section: h.Passage.Section,
			Text:    text,
			Score:   h.Score,
			URL:     h.Passage.URL,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": req.Query, "results": results})
}

type chatRequest struct {
	Query     string `json:"q"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	answer := s.bot.AnswerQuestion(r.Context(), req.Query, 0, req.SessionID, req.UserID)
	writeJSON(w, http.StatusOK, answer)
}

type feedbackRequest struct {
	InteractionID string `json:"interaction_id"`
	Rating        int    `json:"rating"`
	Feedback      string `json:"feedback"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.InteractionID == "" {
		writeError(w, http.StatusBadRequest, "interaction_id is required")
		return
	}

	if err := s.learning.SubmitFeedback(r.Context(), req.InteractionID, req.Rating, req.Feedback); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":         "ok",
		"message":        "Cảm ơn bạn vì phản hồi! Tôi sẽ cải thiện.",
		"interaction_id": req.InteractionID,
	})
}

func (s *Server) handleLearningStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.learning.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type createSessionRequest struct {
	UserID      string `json:"user_id"`
	SessionName string `json:"session_name"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserID == "" {
		req.UserID = "anonymous"
	}

	id := s.sessions.CreateSession(req.UserID, req.SessionName)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "session_id": id})
}

func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	stats, ok := s.sessions.ConversationStats(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSessionContext(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	window, ok := s.sessions.GetContextWindow(id, 5)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, window)
}

func (s *Server) handleBuildIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.rebuild(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.searcher.Reload(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "TF-IDF index rebuilt."})
}

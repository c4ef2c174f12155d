package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/pbaille/mindmate/internal/domain"
	"github.com/pbaille/mindmate/internal/journal"
	"go.uber.org/zap"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": ServiceName,
		"status":  "running",
		"version": ServiceVersion,
	})
}

func (s *Server) logMood(w http.ResponseWriter, r *http.Request) {
	var req journal.LogRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.journal.LogMood(req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      statusSuccess,
		"message":     "Mood logged successfully",
		"emotion":     res.Entry.EmotionName,
		"intensity":   res.Entry.Intensity,
		"timestamp":   res.Entry.Timestamp,
		"suggestions": res.Suggestions,
		"total_logs":  res.Total,
	})
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	report, err := s.journal.Analyze()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          statusSuccess,
		"analysis_result": report,
	})
}

// SuggestRequest is the body of POST /walker/SupportiveAdvisor
type SuggestRequest struct {
	EmotionName *string  `json:"emotion_name"`
	Intensity   *float64 `json:"intensity"`
}

func (s *Server) suggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if !s.decode(w, r, &req) {
		return
	}

	res := s.journal.Suggestions(req.EmotionName, req.Intensity)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      statusSuccess,
		"emotion":     res.Emotion,
		"intensity":   res.Intensity,
		"suggestions": res.Suggestions,
	})
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	exp, err := s.journal.Export()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        statusSuccess,
		"data":          exp.Data,
		"total_entries": exp.TotalEntries,
		"export_date":   exp.ExportDate,
	})
}

// ImportRequest is the body of POST /data/import. Data is kept raw so a
// non-array payload can be reported as invalid input
type ImportRequest struct {
	Data    json.RawMessage `json:"data"`
	Replace bool            `json:"replace"`
}

func (s *Server) importData(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !s.decode(w, r, &req) {
		return
	}

	entries, err := journal.DecodeEntries(req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid data format. Expected a list of mood entries.")
		return
	}

	res, err := s.journal.Import(entries, req.Replace)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        statusSuccess,
		"message":       res.Message,
		"total_entries": res.TotalEntries,
	})
}

// Delete actions
const (
	ActionAll    = "all"
	ActionSingle = "single"
	ActionRange  = "range"
)

// DeleteRequest is the body of POST /data/delete. A missing action means
// "all"; an explicit empty or null action is invalid
type DeleteRequest struct {
	Action    string `json:"action" validate:"oneof=all single range"`
	Index     *int   `json:"index" validate:"required_if=Action single"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (d *DeleteRequest) UnmarshalJSON(data []byte) error {
	type plain DeleteRequest
	aux := struct {
		*plain
		Action json.RawMessage `json:"action"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch {
	case aux.Action == nil:
		d.Action = ActionAll
	case string(aux.Action) == "null":
		d.Action = ""
	default:
		if err := json.Unmarshal(aux.Action, &d.Action); err != nil {
			d.Action = string(aux.Action)
		}
	}
	return nil
}

func (s *Server) deleteData(w http.ResponseWriter, r *http.Request) {
	req := DeleteRequest{Action: ActionAll}
	if !s.decode(w, r, &req) {
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		res journal.MutationResult
		err error
	)
	switch req.Action {
	case ActionAll:
		res, err = s.journal.DeleteAll()
	case ActionSingle:
		res, err = s.journal.DeleteAt(*req.Index)
	case ActionRange:
		res, err = s.journal.DeleteRange(req.StartDate, req.EndDate)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        statusSuccess,
		"message":       res.Message,
		"total_entries": res.TotalEntries,
	})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.journal.Stats()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        statusSuccess,
		"total_entries": st.TotalEntries,
		"first_entry":   st.FirstEntry,
		"last_entry":    st.LastEntry,
		"file_exists":   st.FileExists,
		"file_size_kb":  st.FileSizeKB,
		"size_bytes":    st.SizeBytes,
	})
}

// decode reads a JSON body into v. An empty body leaves v untouched.
// It writes a 400 and returns false on malformed JSON
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, "invalid request body")
	return false
}

// fail maps an operation error to a response. Known client errors become
// 400s; everything else is logged and reported as a 500 with its text
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrIndexOutOfRange):
		writeError(w, http.StatusBadRequest, "Invalid index")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"status": statusError, "message": message})
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PAIR-code/lumi/internal/pipeline"
)

// compileRequest is the body for both compile endpoints.
type compileRequest struct {
	FileID string `json:"fileId"`
	Markup string `json:"markup"`
}

func (s *Server) decodeCompileRequest(w http.ResponseWriter, r *http.Request) (compileRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	if req.Markup == "" {
		jsonError(w, "markup is required", http.StatusBadRequest)
		return req, false
	}
	if req.FileID == "" {
		req.FileID = pipeline.ContentHashHex([]byte(req.Markup))[:16]
	}
	return req, true
}

// handleCompile compiles synchronously and returns the document tree.
func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCompileRequest(w, r)
	if !ok {
		return
	}

	result := s.compiler.Compile(req.Markup, req.FileID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"fileId":   req.FileID,
		"title":    result.Title,
		"authors":  result.Authors,
		"document": result.Document,
	})
}

// handleCompileAsync queues a compile job on the worker pool.
func (s *Server) handleCompileAsync(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCompileRequest(w, r)
	if !ok {
		return
	}

	job := pipeline.NewJob(req.FileID, req.Markup)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"file_id":  job.FileID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/compile/%s", job.ID),
	})
}

// handleCompileStatus reports job state, including the document once the
// job completes.
func (s *Server) handleCompileStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	snap := job.Snapshot()
	resp := map[string]any{
		"job_id":  snap.ID,
		"file_id": snap.FileID,
		"status":  snap.Status,
		"errors":  snap.Errors,
	}
	if snap.Result != nil {
		resp["title"] = snap.Result.Title
		resp["authors"] = snap.Result.Authors
		resp["document"] = snap.Result.Document
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

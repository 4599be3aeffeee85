package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/vinagrid/internal/results"
	"github.com/hyperjump/vinagrid/internal/storage"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		s.respondError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil || limit <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	ctx := r.Context()
	runs, err := s.storage.ListRuns(ctx, offset, limit)
	if err != nil {
		s.logger.Error("list runs failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.storage.CountRuns(ctx)
	if err != nil {
		s.logger.Error("count runs failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"runs":   runs,
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := s.storage.GetRun(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.logger.Error("get run failed", zap.String("id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, run)
}

// handleRunTable renders a stored run as the same TSV or CSV table the run command writes.
func (s *Server) handleRunTable(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	format := chi.URLParam(r, "format")
	var contentType string
	switch format {
	case "csv":
		contentType = "text/csv; charset=utf-8"
	case "txt", "tsv":
		contentType = "text/tab-separated-values; charset=utf-8"
	default:
		s.respondError(w, http.StatusBadRequest, "format must be csv, tsv or txt")
		return
	}
	run, err := s.storage.GetRun(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.logger.Error("get run failed", zap.String("id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if format == "csv" {
		err = results.WriteCSV(w, run.Points, run.WithRMSD)
	} else {
		err = results.WriteTSV(w, run.Points, run.WithRMSD)
	}
	if err != nil {
		s.logger.Warn("writing run table failed", zap.String("id", id), zap.Error(err))
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runCount, err := s.storage.CountRuns(ctx)
	if err != nil {
		s.logger.Error("status: count runs failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	pointCount, err := s.storage.CountPoints(ctx)
	if err != nil {
		s.logger.Error("status: count points failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"runs":   runCount,
		"points": pointCount,
	}
	if s.config != nil {
		resp["config"] = map[string]interface{}{
			"receptor":       s.config.Docking.Receptor,
			"box_size":       s.config.Docking.BoxSize,
			"exhaustiveness": s.config.Docking.Exhaustiveness,
			"num_poses":      s.config.Docking.NumPoses,
			"repeats":        s.config.Docking.Repeats,
			"workers":        s.config.Workers,
			"database_path":  s.config.Storage.DatabasePath,
			"pose_dir":       s.config.Output.PoseDir,
		}
		if u, err := storage.DiskUsage(s.config.Output.PoseDir, ".pdbqt"); err == nil {
			resp["pose_files"] = u
		}
		if u, err := storage.DiskUsage(s.config.Storage.DatabasePath); err == nil {
			resp["database"] = u
		}
	}
	if s.watch != nil {
		resp["watch_directories"] = s.watch.Directories()
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

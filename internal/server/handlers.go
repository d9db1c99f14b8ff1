package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	svcerrors "github.com/cvitae/latexsvc/internal/errors"
	"github.com/cvitae/latexsvc/internal/history"
	"github.com/cvitae/latexsvc/internal/latex"
	"github.com/cvitae/latexsvc/internal/logfields"
	"github.com/cvitae/latexsvc/internal/raster"
)

// compileRequest is the JSON body for the compile endpoints.
type compileRequest struct {
	Latex  string `json:"latex"`
	Name   string `json:"name"`
	Format string `json:"format"`
	DPI    int    `json:"dpi"`
}

// validateRequest is the JSON body for /validate.
type validateRequest struct {
	Latex string `json:"latex"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Service: "latexsvc"})
}

// handleCompilePDF compiles LaTeX and returns the PDF as a download. The
// workspace is cleaned up only after the artifact has been streamed; on
// failure it is retained for inspection.
func (s *Server) handleCompilePDF(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Latex == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "LaTeX content is required"})
		return
	}
	name := req.Name
	if name == "" {
		name = s.opts.DefaultName
	}

	job, err := s.compiler.Compile(r.Context(), req.Latex, name)
	s.recordHistory(r, job)
	if err != nil {
		writeError(w, err)
		return
	}
	defer s.cleanup(job)

	w.Header().Set("X-Job-Token", job.Token)
	if job.Pages > 0 {
		w.Header().Set("X-Pdf-Pages", strconv.Itoa(job.Pages))
	}
	s.sendFile(w, job.PDFPath, fmt.Sprintf("%s.pdf", job.Name), "application/pdf")
}

// handleCompileImage compiles LaTeX, then converts the PDF to the requested
// raster format. The format is validated before any external process runs.
func (s *Server) handleCompileImage(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Latex == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "LaTeX content is required"})
		return
	}
	name := req.Name
	if name == "" {
		name = s.opts.DefaultName
	}
	formatStr := req.Format
	if formatStr == "" {
		formatStr = string(raster.FormatPNG)
	}
	format, err := raster.ParseFormat(formatStr)
	if err != nil {
		writeError(w, err)
		return
	}
	dpi := req.DPI
	if dpi <= 0 {
		dpi = s.opts.DefaultDPI
	}

	job, err := s.compiler.Compile(r.Context(), req.Latex, name)
	s.recordHistory(r, job)
	if err != nil {
		writeError(w, err)
		return
	}

	imagePath, err := s.converter.Convert(r.Context(), raster.Request{
		PDFPath: job.PDFPath,
		Name:    job.Name,
		Format:  format,
		DPI:     dpi,
	})
	if err != nil {
		// Conversion failed after a successful compile: keep the workspace
		// so the PDF and any partial output stay inspectable.
		writeError(w, err)
		return
	}
	defer s.cleanup(job)

	w.Header().Set("X-Job-Token", job.Token)
	s.sendFile(w, imagePath, fmt.Sprintf("%s.%s", job.Name, format), format.MIME())
}

// handleValidate runs the non-compiling structure check. It never touches
// the filesystem or spawns processes.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Latex == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "LaTeX content is required"})
		return
	}
	writeJSON(w, http.StatusOK, latex.ValidateStructure(req.Latex))
}

func (s *Server) handleJakesTemplate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, templateResponse{
		Template:    jakesTemplate,
		Name:        "Jake's Resume Template",
		Description: "Clean, ATS-friendly resume template",
	})
}

func (s *Server) handleRecentJobs(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}
	records, err := s.hist.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, svcerrors.Wrap(err, svcerrors.CategoryInternal, svcerrors.CodeInternal, "failed to query job history"))
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, http.StatusOK, recentJobsResponse{Jobs: records})
}

// sendFile streams an artifact as an attachment.
func (s *Server) sendFile(w http.ResponseWriter, path, downloadName, mime string) {
	f, err := os.Open(path)
	if err != nil {
		writeError(w, svcerrors.Wrap(err, svcerrors.CategoryInternal, svcerrors.CodeInternal, "failed to open artifact"))
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	if info, statErr := f.Stat(); statErr == nil {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	}
	if _, err := io.Copy(w, f); err != nil {
		slog.Error("Failed streaming artifact", logfields.Path(path), logfields.Error(err))
	}
}

// recordHistory appends the job's terminal record; best-effort.
func (s *Server) recordHistory(r *http.Request, job *latex.Job) {
	if job == nil {
		return
	}
	rec := history.Record{
		JobID:      job.Token,
		Name:       job.Name,
		Status:     string(job.Status),
		Attempts:   len(job.Attempts),
		Repaired:   job.Repaired,
		DurationMS: job.Duration().Milliseconds(),
		CreatedAt:  job.CreatedAt.UTC(),
	}
	if last := job.LastAttempt(); last != nil {
		rec.Strategy = string(last.Strategy)
		rec.ExitCode = last.ExitCode
	}
	if err := s.hist.Append(r.Context(), rec); err != nil {
		slog.Warn("Failed to record job history", logfields.Job(job.Name), logfields.Error(err))
	}
}

// cleanup removes a succeeded job's workspace after its artifact has been
// streamed. Best-effort: failure is logged, never surfaced.
func (s *Server) cleanup(job *latex.Job) {
	if err := os.RemoveAll(job.Dir); err != nil {
		slog.Warn("Failed to cleanup workspace", logfields.Path(job.Dir), logfields.Error(err))
	}
}

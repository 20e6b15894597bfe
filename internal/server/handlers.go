package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/ingestion"
	"github.com/jonathan/resume-screener/internal/pipeline"
	"github.com/jonathan/resume-screener/internal/types"
)

// Multipart form fields.
const (
	fieldJobText = "jd_text"
	fieldJobFile = "jd_file"
	fieldJobURL  = "jd_url"
	fieldArchive = "zip_file"
	fieldResume  = "file"
)

var validate = validator.New()

// upload is one file part of a multipart form.
type upload struct {
	Name string
	Data []byte
}

// ScreenRequest is a parsed screening form. At least one job description
// source is required; resumes may be empty.
type ScreenRequest struct {
	JobText string  `validate:"required_without_all=JobFile JobURL"`
	JobFile *upload `validate:"-"`
	JobURL  string  `validate:"omitempty,http_url"`
	Archive *upload `validate:"-"`
	Resume  *upload `validate:"-"`
}

// Validate validates the ScreenRequest using the validator.
func (r *ScreenRequest) Validate() error {
	err := validate.Struct(r)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	switch verrs[0].StructField() {
	case "JobText":
		return &ErrValidation{Field: fieldJobText, Message: "a job description is required (jd_text, jd_file or jd_url)"}
	case "JobURL":
		return &ErrValidation{Field: fieldJobURL, Message: "must be an http or https URL"}
	default:
		return &ErrValidation{Field: verrs[0].Field(), Message: verrs[0].Tag()}
	}
}

// screenResponse is a screening result plus how its job text was assembled.
type screenResponse struct {
	*types.ScreeningResult
	Job *ingestion.Job `json:"job"`
}

// handleScreen runs a screening batch and returns the full result.
func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseScreenRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	job, docs, err := s.prepare(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.screener.Screen(r.Context(), job.Text, docs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, screenResponse{ScreeningResult: result, Job: job})
}

// handleScreenStream runs a screening batch and streams progress as SSE
// events, finishing with a result event and a complete event.
func (s *Server) handleScreenStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseScreenRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	job, docs, err := s.prepare(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	screener := s.screener.WithProgress(func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("progress", event); err != nil {
			s.logger.Debug("failed to write progress event", zap.Error(err))
		}
	})
	result, err := screener.Screen(r.Context(), job.Text, docs)
	if err != nil {
		s.logger.Error("streamed screening failed", zap.Error(err))
		status, message := HTTPStatus(err), err.Error()
		if status == http.StatusInternalServerError {
			message = "internal server error"
		}
		sse.WriteError(status, message)
		return
	}
	sse.WriteEvent("result", screenResponse{ScreeningResult: result, Job: job}) //nolint:errcheck
	sse.WriteComplete(result.RunID, "completed")
}

// handleExtract returns the fields of uploaded resumes without scoring.
// A zip upload yields one record per entry.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.writeError(w, err)
		return
	}
	file, err := formFile(r, fieldResume)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if file == nil {
		s.writeError(w, &ErrValidation{Field: fieldResume, Message: "a resume file is required"})
		return
	}

	docs := []types.Document{}
	if ingestion.IsArchive(file.Name) {
		docs, err = s.loader.ExpandArchive(r.Context(), file.Data)
		if err != nil {
			s.writeError(w, &ErrValidation{Field: fieldResume, Message: "not a valid zip archive"})
			return
		}
	} else {
		docs = append(docs, s.loader.Document(file.Name, file.Data))
	}

	records := make([]types.ResumeRecord, len(docs))
	for i, doc := range docs {
		records[i] = s.screener.Extract(doc)
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": records})
}

// handleSkills lists the skill catalog.
func (s *Server) handleSkills(w http.ResponseWriter, _ *http.Request) {
	catalog := s.screener.Catalog()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"skills": catalog.Names(),
		"count":  catalog.Len(),
	})
}

// parseForm bounds the body and parses it as multipart form data.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	err := r.ParseMultipartForm(multipartMemory)
	if err == nil {
		return nil
	}
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) || strings.Contains(err.Error(), "request body too large") {
		return &ErrPayloadTooLarge{Limit: s.maxUpload}
	}
	return &ErrValidation{Field: "body", Message: "expected multipart form data"}
}

func (s *Server) parseScreenRequest(w http.ResponseWriter, r *http.Request) (*ScreenRequest, error) {
	if err := s.parseForm(w, r); err != nil {
		return nil, err
	}

	req := &ScreenRequest{
		JobText: strings.TrimSpace(r.FormValue(fieldJobText)),
		JobURL:  strings.TrimSpace(r.FormValue(fieldJobURL)),
	}
	var err error
	if req.JobFile, err = formFile(r, fieldJobFile); err != nil {
		return nil, err
	}
	if req.Archive, err = formFile(r, fieldArchive); err != nil {
		return nil, err
	}
	if req.Resume, err = formFile(r, fieldResume); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.JobURL != "" && s.fetcher == nil {
		return nil, &ErrValidation{Field: fieldJobURL, Message: "fetching job postings is not enabled"}
	}
	return req, nil
}

// prepare assembles the job text and the resume batch. The single resume
// file is used only when the archive yielded nothing.
func (s *Server) prepare(ctx context.Context, req *ScreenRequest) (*ingestion.Job, []types.Document, error) {
	src := ingestion.JobSource{Text: req.JobText, URL: req.JobURL}
	if req.JobFile != nil {
		src.FileName = req.JobFile.Name
		src.FileData = req.JobFile.Data
	}
	job, err := s.loader.JobDescription(ctx, src, s.fetcher)
	if err != nil {
		return nil, nil, err
	}

	docs := []types.Document{}
	if req.Archive != nil {
		docs, err = s.loader.ExpandArchive(ctx, req.Archive.Data)
		if err != nil {
			return nil, nil, &ErrValidation{Field: fieldArchive, Message: "not a valid zip archive"}
		}
	}
	if len(docs) == 0 && req.Resume != nil {
		docs = append(docs, s.loader.Document(req.Resume.Name, req.Resume.Data))
	}
	return job, docs, nil
}

// formFile reads an optional file field. A missing or empty file is nil.
func formFile(r *http.Request, field string) (*upload, error) {
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, &ErrValidation{Field: field, Message: "unreadable file upload"}
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &ErrValidation{Field: field, Message: "unreadable file upload"}
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &upload{Name: header.Filename, Data: data}, nil
}

package http

import (
	"errors"
	"net/http"

	"github.com/resumeforge/resumeforge/internal/domain"
	"github.com/resumeforge/resumeforge/internal/service"
	"github.com/resumeforge/resumeforge/pkg/httpx"
	"github.com/resumeforge/resumeforge/pkg/slogx"
)

type ResumesHandler struct {
	ResumeService *service.ResumeService
}

type builderDataResponse struct {
	Data domain.ResumeData `json:"data"`
}

// HandleList returns the caller's resumes without their documents.
//
//	@Summary	List resumes
//	@Tags		Resumes
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		domain.ResumeSummary
//	@Failure	401	{object}	httpx.ErrorResponse
//	@Router		/api/resumes [get].
func (h *ResumesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := h.ResumeService.List(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		slogx.FromContext(ctx).Error("resume list failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

// HandleCreate stores a new resume for the caller.
//
//	@Summary	Create a resume
//	@Tags		Resumes
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		resumeRequest	true	"Title and section document"
//	@Success	201		{object}	domain.Resume
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Router		/api/resumes [post].
func (h *ResumesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req resumeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		httpx.WriteValidationError(w, errs)
		return
	}

	resume, err := h.ResumeService.Create(ctx, httpx.UserIDFromContext(ctx), req.Title, req.Data)
	if err != nil {
		slogx.FromContext(ctx).Error("resume create failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, resume)
}

// HandleGet returns one owned resume with its full document.
//
//	@Summary	Get a resume
//	@Tags		Resumes
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Resume id"
//	@Success	200	{object}	domain.Resume
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/api/resumes/{id} [get].
func (h *ResumesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resume, err := h.ResumeService.Get(ctx, r.PathValue("id"), httpx.UserIDFromContext(ctx))
	if err != nil {
		if errors.Is(err, service.ErrResumeNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Resume not found")
			return
		}
		slogx.FromContext(ctx).Error("resume get failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resume)
}

// HandleUpdate replaces an owned resume's title and document.
//
//	@Summary	Update a resume
//	@Tags		Resumes
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Resume id"
//	@Param		request	body		resumeRequest	true	"New title and document"
//	@Success	200		{object}	domain.Resume
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Router		/api/resumes/{id} [put].
func (h *ResumesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req resumeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		httpx.WriteValidationError(w, errs)
		return
	}

	resume, err := h.ResumeService.Update(ctx, r.PathValue("id"), httpx.UserIDFromContext(ctx), req.Title, req.Data)
	if err != nil {
		if errors.Is(err, service.ErrResumeNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Resume not found")
			return
		}
		slogx.FromContext(ctx).Error("resume update failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resume)
}

// HandleDelete removes an owned resume.
//
//	@Summary	Delete a resume
//	@Tags		Resumes
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Resume id"
//	@Success	200	{object}	messageResponse
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/api/resumes/{id} [delete].
func (h *ResumesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.ResumeService.Delete(ctx, r.PathValue("id"), httpx.UserIDFromContext(ctx))
	if err != nil {
		if errors.Is(err, service.ErrResumeNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Resume not found")
			return
		}
		slogx.FromContext(ctx).Error("resume delete failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "Resume deleted successfully"})
}

// HandleBuilderData returns the caller's autosave document.
//
//	@Summary	Get builder autosave data
//	@Tags		Resumes
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	builderDataResponse
//	@Failure	401	{object}	httpx.ErrorResponse
//	@Router		/api/resumes/data [get].
func (h *ResumesHandler) HandleBuilderData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := h.ResumeService.BuilderData(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		slogx.FromContext(ctx).Error("builder data fetch failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, builderDataResponse{Data: data})
}

// HandleSaveBuilderData replaces the caller's autosave document. The save
// cadence is the client's concern; this endpoint just persists what it is
// handed.
//
//	@Summary	Save builder autosave data
//	@Tags		Resumes
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		saveBuilderDataRequest	true	"Section document"
//	@Success	200		{object}	messageResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Router		/api/resumes/save-data [post].
func (h *ResumesHandler) HandleSaveBuilderData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req saveBuilderDataRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.ResumeService.SaveBuilderData(ctx, httpx.UserIDFromContext(ctx), req.Data); err != nil {
		slogx.FromContext(ctx).Error("builder data save failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "Resume data saved"})
}

// HandleStats returns the public aggregate counters.
//
//	@Summary	Public stats
//	@Tags		Resumes
//	@Produce	json
//	@Success	200	{object}	domain.Stats
//	@Router		/api/resumes/stats [get].
func (h *ResumesHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.ResumeService.Stats(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("stats failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}

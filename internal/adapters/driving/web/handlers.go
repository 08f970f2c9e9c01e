package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driving"
	"github.com/custodia-labs/fiches/internal/logger"
)

func (s *Server) routes() {
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /generate", s.handleGenerate)
	s.mux.HandleFunc("GET /download/{name}", s.handleDownload)
	s.mux.HandleFunc("GET /archive", s.handleArchive)
	s.mux.HandleFunc("POST /clear", s.handleClear)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

type profileView struct {
	Name        string
	Description string
	Selected    bool
}

type indexView struct {
	Profiles []profileView
	Result   *domain.BatchResult
	Error    string
	Done     bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := indexView{Done: r.URL.Query().Get("done") == "1"}
	selected := r.URL.Query().Get("profile")
	if id, ok := existingSession(r); ok {
		result, err := s.ports.Results.Get(r.Context(), id)
		switch {
		case err == nil:
			view.Result = result
			if selected == "" {
				selected = result.Profile
			}
		case !errors.Is(err, domain.ErrSessionExpired):
			logger.Warn("loading session result: %v", err)
		}
	}
	s.render(w, http.StatusOK, view, selected)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	name := r.PostFormValue("profile")

	result, err := s.generate(r.Context(), name)
	if err != nil {
		logger.Error("batch %s failed: %v", name, err)
		view := indexView{Error: domain.UserMessage(err)}
		s.render(w, statusFor(err), view, name)
		return
	}
	if err := s.ports.Results.Save(r.Context(), id, result); err != nil {
		s.render(w, http.StatusInternalServerError, indexView{Error: domain.UserMessage(err)}, name)
		return
	}
	http.Redirect(w, r, "/?done=1", http.StatusSeeOther)
}

func (s *Server) generate(ctx context.Context, name string) (*domain.BatchResult, error) {
	profile, err := s.ports.Settings.Profile(name)
	if err != nil {
		return nil, err
	}
	return s.ports.Batch.Run(ctx, driving.BatchRequest{Profile: profile})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id, ok := existingSession(r)
	if !ok {
		http.Error(w, domain.UserMessage(domain.ErrSessionExpired), http.StatusGone)
		return
	}
	doc, err := s.ports.Results.Document(r.Context(), id, r.PathValue("name"))
	if err != nil {
		http.Error(w, domain.UserMessage(err), statusFor(err))
		return
	}
	writeFile(w, doc, "application/pdf")
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	id, ok := existingSession(r)
	if !ok {
		http.Error(w, domain.UserMessage(domain.ErrSessionExpired), http.StatusGone)
		return
	}
	archive, err := s.ports.Results.Archive(r.Context(), id)
	if err != nil {
		http.Error(w, domain.UserMessage(err), statusFor(err))
		return
	}
	writeFile(w, archive, "application/zip")
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if id, ok := existingSession(r); ok {
		if err := s.ports.Results.Clear(r.Context(), id); err != nil {
			logger.Warn("clearing session: %v", err)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, status int, view indexView, selected string) {
	settings, err := s.ports.Settings.Get()
	if err != nil {
		http.Error(w, domain.UserMessage(err), http.StatusInternalServerError)
		return
	}
	for _, name := range settings.ProfileNames() {
		p := settings.Profiles[name]
		view.Profiles = append(view.Profiles, profileView{
			Name:        name,
			Description: p.Description,
			Selected:    name == selected,
		})
	}
	if selected == "" && len(view.Profiles) > 0 {
		view.Profiles[0].Selected = true
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, "index.html", view); err != nil {
		logger.Error("rendering index: %v", err)
	}
}

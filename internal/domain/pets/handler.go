package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pet-adoption-api/internal/domain/media"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRoutes monta el módulo. Las tres operaciones mutantes van
// detrás del guard; las lecturas quedan públicas.
func RegisterRoutes(r chi.Router, svc *Service, requireAuth func(http.Handler) http.Handler, log *zap.Logger) {
	r.Route("/api/pets", func(pr chi.Router) {
		pr.Get("/all", listPetsHandler(svc, log))
		pr.Get("/{petID}", getPetHandler(svc, log))

		pr.With(requireAuth).Post("/add", createPetHandler(svc, log))
		pr.With(requireAuth).Put("/update/{petID}", updatePetHandler(svc, log))
		pr.With(requireAuth).Delete("/delete/{petID}", deletePetHandler(svc, log))
	})
}

type petResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Age              int        `json:"age"`
	Type             string     `json:"type"`
	Breed            string     `json:"breed"`
	AdoptionStatus   string     `json:"adoptionStatus"`
	Tags             []string   `json:"tags"`
	Images           []string   `json:"images"`
	BirthDate        time.Time  `json:"birthDate"`
	AdoptionDatatime *time.Time `json:"adoptionDatatime"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func createPetHandler(svc *Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := readPetForm(r)
		if err != nil {
			writePetError(w, log, err)
			return
		}

		p, err := svc.Create(r.Context(), inputFromForm(form))
		if err != nil {
			writePetError(w, log, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Pet created successfully",
			"pet":     toPetResponse(p),
		})
	}
}

func listPetsHandler(svc *Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			log.Error("list pets failed", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writePetError(w, log, err)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func updatePetHandler(svc *Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := readPetForm(r)
		if err != nil {
			writePetError(w, log, err)
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), inputFromForm(form))
		if err != nil {
			writePetError(w, log, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Pet updated successfully",
			"pet":     toPetResponse(p),
		})
	}
}

func deletePetHandler(svc *Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "petID")); err != nil {
			writePetError(w, log, err)
			return
		}

		writeMessage(w, http.StatusOK, "Pet deleted successfully")
	}
}

// inputFromForm arma el Input del servicio. El campo "images" solo se
// toma de las partes de archivo; un valor de texto con ese nombre se
// descarta (el cliente no elige rutas).
func inputFromForm(f petForm) Input {
	return Input{
		Name:             f.value("name"),
		Age:              f.value("age"),
		Type:             f.value("type"),
		Breed:            f.value("breed"),
		AdoptionStatus:   f.value("adoptionStatus"),
		Tags:             f.values["tags"],
		BirthDate:        f.value("birthDate"),
		AdoptionDatatime: f.value("adoptionDatatime"),
		Files:            f.files,
	}
}

// writePetError mapea errores de dominio a status. Las fallas de
// upload y store salen como 500 genérico; la causa queda en el log.
func writePetError(w http.ResponseWriter, log *zap.Logger, err error) {
	var ve ValidationError
	switch {
	case errors.As(err, &ve):
		writeMessage(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Pet not found")
	case errors.Is(err, media.ErrUpload):
		log.Error("media upload failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	default:
		log.Error("pet operation failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

func toPetResponse(p Pet) petResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}

	return petResponse{
		ID:               p.ID,
		Name:             p.Name,
		Age:              p.Age,
		Type:             p.Type,
		Breed:            p.Breed,
		AdoptionStatus:   string(p.AdoptionStatus),
		Tags:             tags,
		Images:           images,
		BirthDate:        p.BirthDate,
		AdoptionDatatime: p.AdoptionDatatime,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito entre módulos (users/pets);
// todavía no amerita un helper compartido.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

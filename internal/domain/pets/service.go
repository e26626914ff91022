package pets

import (
	"context"
	"strconv"
	"strings"
	"time"

	"pet-adoption-api/internal/domain/media"

	"github.com/google/uuid"
)

// ValidationError lleva el mensaje tal cual se responde al cliente.
type ValidationError struct {
	msg string
}

func (e ValidationError) Error() string { return e.msg }

func invalidInput(msg string) error { return ValidationError{msg: msg} }

type Service struct {
	repo     Repository
	pipeline *media.Pipeline
	now      func() time.Time
}

func NewService(repo Repository, pipeline *media.Pipeline) *Service {
	return &Service{
		repo:     repo,
		pipeline: pipeline,
		now:      time.Now,
	}
}

// Input son los campos crudos del form multipart, sin coercionar.
// Los archivos ya vienen completos en memoria.
type Input struct {
	Name             string
	Age              string
	Type             string
	Breed            string
	AdoptionStatus   string
	Tags             []string
	BirthDate        string
	AdoptionDatatime string

	Files []media.File
}

// Create valida y coerciona el input, corre el pipeline de media y
// recién ahí persiste. Si alguna subida falla, no se escribe nada.
func (s *Service) Create(ctx context.Context, in Input) (Pet, error) {
	fields, err := parseFields(in)
	if err != nil {
		return Pet{}, err
	}

	urls, err := s.pipeline.Ingest(ctx, in.Files)
	if err != nil {
		return Pet{}, err
	}

	now := s.now()
	p := Pet{
		ID:               uuid.NewString(),
		Name:             fields.name,
		Age:              fields.age,
		Type:             fields.typ,
		Breed:            fields.breed,
		AdoptionStatus:   fields.status,
		Tags:             fields.tags,
		Images:           urls,
		BirthDate:        fields.birthDate,
		AdoptionDatatime: fields.adoptionAt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Pet, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	if !validID(id) {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Update re-valida el set completo de campos (birthDate sigue siendo
// obligatorio, igual que en create). Con archivos nuevos, Images se
// reemplaza entero; sin archivos, queda el existente.
func (s *Service) Update(ctx context.Context, id string, in Input) (Pet, error) {
	if !validID(id) {
		return Pet{}, ErrNotFound
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	fields, err := parseFields(in)
	if err != nil {
		return Pet{}, err
	}

	images := current.Images
	if len(in.Files) > 0 {
		images, err = s.pipeline.Ingest(ctx, in.Files)
		if err != nil {
			return Pet{}, err
		}
	}

	p := Pet{
		ID:               current.ID,
		Name:             fields.name,
		Age:              fields.age,
		Type:             fields.typ,
		Breed:            fields.breed,
		AdoptionStatus:   fields.status,
		Tags:             fields.tags,
		Images:           images,
		BirthDate:        fields.birthDate,
		AdoptionDatatime: fields.adoptionAt,
		CreatedAt:        current.CreatedAt,
		UpdatedAt:        s.now(),
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// validID: un id sintácticamente inválido resuelve como not found,
// nunca como error interno.
func validID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}

type petFields struct {
	name       string
	age        int
	typ        string
	breed      string
	status     AdoptionStatus
	tags       []string
	birthDate  time.Time
	adoptionAt *time.Time
}

func parseFields(in Input) (petFields, error) {
	var f petFields

	f.name = strings.TrimSpace(in.Name)
	if f.name == "" {
		return f, invalidInput("Name is required")
	}

	age, err := strconv.Atoi(strings.TrimSpace(in.Age))
	if err != nil || age < 0 {
		return f, invalidInput("Age must be a non-negative number")
	}
	f.age = age

	f.typ = strings.TrimSpace(in.Type)
	if f.typ == "" {
		return f, invalidInput("Type is required")
	}

	f.breed = strings.TrimSpace(in.Breed)

	f.status = StatusAvailable
	if st := strings.TrimSpace(in.AdoptionStatus); st != "" {
		f.status = AdoptionStatus(st)
		if !f.status.Valid() {
			return f, invalidInput("adoptionStatus must be one of available, adopted, pending")
		}
	}

	f.tags = normalizeTags(in.Tags)

	// birthDate inválido se rechaza; nunca se coerciona a "ahora".
	bd := strings.TrimSpace(in.BirthDate)
	if bd == "" {
		return f, invalidInput("birthDate is required")
	}
	t, err := parseDate(bd)
	if err != nil {
		return f, invalidInput("birthDate must be YYYY-MM-DD")
	}
	f.birthDate = t

	if ad := strings.TrimSpace(in.AdoptionDatatime); ad != "" {
		t, err := parseDate(ad)
		if err != nil {
			return f, invalidInput("adoptionDatatime must be YYYY-MM-DD")
		}
		f.adoptionAt = &t
	}

	return f, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// normalizeTags acepta valores repetidos del form y también un único
// valor separado por comas (así los manda el frontend).
func normalizeTags(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		for _, tag := range strings.Split(v, ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				out = append(out, tag)
			}
		}
	}
	return out
}

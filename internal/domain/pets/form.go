package pets

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"pet-adoption-api/internal/domain/media"
)

// Límites del form multipart. Los archivos se retienen completos en
// memoria (nunca tocan disco), así que hay que acotar el request.
const (
	maxFileBytes  = 10 << 20 // por archivo
	maxFiles      = 10
	maxFieldBytes = 64 << 10 // por campo de texto
)

// petForm es el resultado de leer un body multipart: campos de texto
// más los archivos del campo "images", en orden de llegada.
type petForm struct {
	values map[string][]string
	files  []media.File
}

func (f petForm) value(name string) string {
	vs := f.values[name]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// readPetForm consume el body con MultipartReader para que las partes
// de archivo no caigan a archivos temporales (ParseMultipartForm
// escribe a disco pasado su límite de memoria, y acá eso no va).
func readPetForm(r *http.Request) (petForm, error) {
	form := petForm{values: map[string][]string{}}

	mr, err := r.MultipartReader()
	if err != nil {
		return form, invalidInput("Request body must be multipart/form-data")
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return form, invalidInput("Malformed multipart body")
		}

		name := part.FormName()
		if name == "" {
			_ = part.Close()
			continue
		}

		if part.FileName() == "" {
			var buf bytes.Buffer
			if _, err := io.Copy(&buf, io.LimitReader(part, maxFieldBytes+1)); err != nil {
				_ = part.Close()
				return form, invalidInput("Malformed multipart body")
			}
			_ = part.Close()
			if buf.Len() > maxFieldBytes {
				return form, invalidInput("Form field too large")
			}
			form.values[name] = append(form.values[name], buf.String())
			continue
		}

		// Solo el campo "images" lleva archivos; cualquier otro se ignora.
		if name != "images" {
			_, _ = io.Copy(io.Discard, part)
			_ = part.Close()
			continue
		}

		if len(form.files) >= maxFiles {
			_ = part.Close()
			return form, invalidInput("Too many files")
		}

		var buf bytes.Buffer
		if _, err := io.Copy(&buf, io.LimitReader(part, maxFileBytes+1)); err != nil {
			_ = part.Close()
			return form, invalidInput("Malformed multipart body")
		}
		_ = part.Close()
		if buf.Len() > maxFileBytes {
			return form, invalidInput("Image file too large")
		}
		if buf.Len() == 0 {
			// input file vacío en el form; no cuenta como archivo
			continue
		}

		form.files = append(form.files, media.File{
			Name: part.FileName(),
			Data: buf.Bytes(),
		})
	}

	return form, nil
}

package media

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"

	mediaport "pet-adoption-api/internal/ports/media"

	"golang.org/x/sync/errgroup"
)

// ErrUpload marca cualquier falla del object store durante la ingesta.
var ErrUpload = errors.New("upload failed")

// File es un archivo recibido en el request, ya completo en memoria.
// Nunca toca disco antes de subirse.
type File struct {
	Name string
	Data []byte
}

// Pipeline sube los archivos de un request al object store y devuelve
// las URLs durables en el mismo orden de entrada (la primera imagen es
// la principal para el frontend).
type Pipeline struct {
	uploader mediaport.Uploader
	folder   string
}

func NewPipeline(uploader mediaport.Uploader, folder string) *Pipeline {
	return &Pipeline{
		uploader: uploader,
		folder:   strings.Trim(strings.TrimSpace(folder), "/"),
	}
}

// Ingest sube todos los archivos en paralelo. Si una subida falla,
// falla la operación completa; nada se reintenta acá.
func (p *Pipeline) Ingest(ctx context.Context, files []File) ([]string, error) {
	urls := make([]string, len(files))
	if len(files) == 0 {
		return urls, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			url, err := p.uploader.Upload(ctx, p.key(f.Name), contentType(f), f.Data)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrUpload, f.Name, err)
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// key deriva el identificador público: nombre sin extensión,
// saneado y namespaced bajo la carpeta del pipeline.
func (p *Pipeline) key(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	id := strings.TrimSuffix(base, path.Ext(base))
	id = sanitize(id)
	if id == "" {
		id = "file"
	}
	if p.folder == "" {
		return id
	}
	return p.folder + "/" + id
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ', r == '.':
			b.WriteRune('-')
		}
	}
	return b.String()
}

func contentType(f File) string {
	if ct := mime.TypeByExtension(path.Ext(f.Name)); ct != "" {
		return ct
	}
	if len(f.Data) > 0 {
		return http.DetectContentType(f.Data)
	}
	return "application/octet-stream"
}

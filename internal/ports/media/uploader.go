package media

import "context"

// Uploader sube un buffer al object store y devuelve la URL durable.
// key ya viene namespaced (carpeta incluida); contentType puede ir vacío.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

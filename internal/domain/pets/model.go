package pets

import "time"

// AdoptionStatus define los estados de adopción.
// @Enum available, adopted, pending
type AdoptionStatus string

const (
	StatusAvailable AdoptionStatus = "available"
	StatusAdopted   AdoptionStatus = "adopted"
	StatusPending   AdoptionStatus = "pending"
)

// Valid reporta si el valor es uno de los tres estados.
// No hay máquina de transiciones: cualquier estado puede pasar a
// cualquier otro vía update (simplificación conocida del dominio).
func (s AdoptionStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusAdopted, StatusPending:
		return true
	}
	return false
}

// Pet representa un candidato a adopción.
type Pet struct {
	ID string

	Name  string
	Age   int
	Type  string // especie/categoría, texto libre
	Breed string

	AdoptionStatus AdoptionStatus
	Tags           []string

	// Images solo contiene URLs producidas por el pipeline de media;
	// nunca rutas mandadas por el cliente.
	Images []string

	BirthDate        time.Time
	AdoptionDatatime *time.Time // nil mientras no esté adoptado

	CreatedAt time.Time
	UpdatedAt time.Time
}

package listing

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField    = errors.New("listing: unknown filter field")
	ErrInvalidValue    = errors.New("listing: invalid filter value")
	ErrPaginationMode  = errors.New("listing: operation not supported by pagination mode")
	ErrUnknownViewMode = errors.New("listing: view mode not available")
	ErrItemNotFound    = errors.New("listing: item not in current list")
)

// InvalidValue envuelve ErrInvalidValue con el campo y el valor rechazados.
func InvalidValue(field Field, value string) error {
	return fmt.Errorf("%w: %s=%q", ErrInvalidValue, field, value)
}

// FetchError es un fallo al traer una página. Solo se recupera con Refetch.
type FetchError struct {
	Key string // Descriptor serializado
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("listing: fetch %q: %v", e.Key, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationError es un fallo al confirmar un patch. El elemento ya se ha revertido.
type MutationError struct {
	ItemID string
	Err    error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("listing: mutate %s: %v", e.ItemID, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

package widget

import (
	"fmt"

	"clima.app/pkg/errors"
)

const (
	messageAuthenticationFailed = "Error de autenticación. Verifica la configuración."
	messageFetchFailed          = "Error al cargar el clima. Intenta nuevamente."
)

// MessageFor converts a fetch error into the message shown to the user.
func MessageFor(err error) string {
	fetchErr, ok := errors.AsFetchError(err)
	if !ok {
		return messageFetchFailed
	}

	switch fetchErr.Kind {
	case errors.CityNotFound:
		return fmt.Sprintf("No se encontró la ciudad \"%s\". Verifica el nombre.", fetchErr.City)
	case errors.AuthenticationFailed:
		return messageAuthenticationFailed
	default:
		return messageFetchFailed
	}
}

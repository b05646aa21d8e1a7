package errors

import (
	stderrors "errors"
	"fmt"
)

// FetchErrorKind classifies a failed weather fetch by the upstream status code
type FetchErrorKind int

const (
	FetchFailed FetchErrorKind = iota
	CityNotFound
	AuthenticationFailed
)

// String returns the string representation of the fetch error kind
func (k FetchErrorKind) String() string {
	switch k {
	case CityNotFound:
		return "CITY_NOT_FOUND"
	case AuthenticationFailed:
		return "AUTHENTICATION_FAILED"
	default:
		return "FETCH_FAILED"
	}
}

// FetchError is produced at the weather API boundary. City is the queried name,
// StatusCode is zero when no HTTP response was received.
type FetchError struct {
	Kind       FetchErrorKind
	City       string
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s: city %q", e.Kind.String(), e.City)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (caused by: %v)", msg, e.Cause)
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// AppType maps the fetch error onto the application error taxonomy
func (e *FetchError) AppType() ErrorType {
	switch e.Kind {
	case CityNotFound:
		return NotFoundError
	case AuthenticationFailed:
		return AuthenticationError
	default:
		return ExternalAPIError
	}
}

func NewCityNotFoundError(city string) *FetchError {
	return &FetchError{Kind: CityNotFound, City: city, StatusCode: 404}
}

func NewAuthenticationFailedError(city string) *FetchError {
	return &FetchError{Kind: AuthenticationFailed, City: city, StatusCode: 401}
}

func NewFetchFailedError(city string, statusCode int, cause error) *FetchError {
	return &FetchError{Kind: FetchFailed, City: city, StatusCode: statusCode, Cause: cause}
}

// AsFetchError returns the first FetchError in err's chain
func AsFetchError(err error) (*FetchError, bool) {
	var fetchErr *FetchError
	if stderrors.As(err, &fetchErr) {
		return fetchErr, true
	}
	return nil, false
}

func IsCityNotFound(err error) bool {
	fetchErr, ok := AsFetchError(err)
	return ok && fetchErr.Kind == CityNotFound
}

func IsAuthenticationFailed(err error) bool {
	fetchErr, ok := AsFetchError(err)
	return ok && fetchErr.Kind == AuthenticationFailed
}

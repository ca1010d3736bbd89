package httperrors

import (
	"net/http"
)

var (
	ErrBadRequestNonEmptyBody      = NewHTTPError(http.StatusBadRequest, PublicHTTPErrorTypeEmptyBody, "Request body must be empty.")
	ErrInternalServerFundingFailed = NewHTTPError(http.StatusInternalServerError, PublicHTTPErrorTypeFundingFailed, "Internal Server Error")
)

package handler

import "errors"

var (
	errNotAuthorized = errors.New("user is not authorized")
)

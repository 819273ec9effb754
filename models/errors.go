package models

// Error taxonomy shared by services and handlers. Handlers map these to HTTP
// status codes via helper.GetStatusCode.

type ErrorValidation struct {
	Message string
}

func (e ErrorValidation) Error() string {
	return e.Message
}

type ErrorConflict struct {
	Message string
}

func (e ErrorConflict) Error() string {
	return e.Message
}

type ErrorNotFound struct {
	Message string
}

func (e ErrorNotFound) Error() string {
	return e.Message
}

type ErrorUnauthorized struct {
	Message string
}

func (e ErrorUnauthorized) Error() string {
	return e.Message
}

// ErrorStorageCollision means a generated storage key already exists in the
// object store. The whole attach may be retried with a fresh key.
type ErrorStorageCollision struct {
	Key string
}

func (e ErrorStorageCollision) Error() string {
	return "storage key already exists: " + e.Key
}

// ErrorStorageIO means byte persistence failed and the enclosing content
// operation was rolled back.
type ErrorStorageIO struct {
	Message string
}

func (e ErrorStorageIO) Error() string {
	return e.Message
}

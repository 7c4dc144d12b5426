package usecase

import "fmt"

// ErrPersistence indicates an infrastructure/store failure inside a use case.
// Callers should treat it as retryable.
var ErrPersistence = fmt.Errorf("meeting use case persistence error")

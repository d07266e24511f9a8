// Package ragerr provides the structured error taxonomy shared by every
// core component: a code, a category derived from the code, and an
// optional cause for errors.Is/errors.As chaining.
//
// Codes follow ERR_XXX_NAME where the leading digit groups categories:
//   - 1XX: configuration / registry errors
//   - 2XX: storage / backend errors
//   - 3XX: validation errors
//   - 4XX: not-found / lifecycle errors
//   - 5XX: collaborator errors (acquisition, embedding)
package ragerr

// Category classifies a Kind for coarse-grained handling.
type Category string

const (
	CategoryRegistry    Category = "REGISTRY"
	CategoryBackend     Category = "BACKEND"
	CategoryValidation  Category = "VALIDATION"
	CategoryLifecycle   Category = "LIFECYCLE"
	CategoryCollaborator Category = "COLLABORATOR"
)

// Kind is the taxonomy named in the error handling design: a sentinel
// members callers compare against with errors.Is, not an ad hoc string.
type Kind string

const (
	KindNotInitialized      Kind = "ERR_401_NOT_INITIALIZED"
	KindDimensionMismatch   Kind = "ERR_301_DIMENSION_MISMATCH"
	KindNotFound            Kind = "ERR_402_NOT_FOUND"
	KindAlreadyRegistered   Kind = "ERR_101_ALREADY_REGISTERED"
	KindProviderMissing     Kind = "ERR_102_PROVIDER_MISSING"
	KindExtensionUnavailable Kind = "ERR_201_EXTENSION_UNAVAILABLE"
	KindValidationError     Kind = "ERR_302_VALIDATION_ERROR"
	KindAcquisitionError    Kind = "ERR_501_ACQUISITION_ERROR"
	KindEmbeddingError      Kind = "ERR_502_EMBEDDING_ERROR"
	KindBackendError        Kind = "ERR_202_BACKEND_ERROR"
)

func categoryForKind(k Kind) Category {
	switch k {
	case KindAlreadyRegistered, KindProviderMissing:
		return CategoryRegistry
	case KindExtensionUnavailable, KindBackendError:
		return CategoryBackend
	case KindDimensionMismatch, KindValidationError:
		return CategoryValidation
	case KindNotInitialized, KindNotFound:
		return CategoryLifecycle
	case KindAcquisitionError, KindEmbeddingError:
		return CategoryCollaborator
	default:
		return CategoryBackend
	}
}

// retryableKind reports whether the operation that produced this Kind
// may reasonably be retried without caller intervention.
func retryableKind(k Kind) bool {
	switch k {
	case KindAcquisitionError, KindEmbeddingError, KindBackendError:
		return true
	default:
		return false
	}
}

package errors

// Code represents an error code
type Code string

// Error codes, a subset of the gRPC canonical codes that the engine
// actually surfaces.
const (
	CodeOK                 Code = "OK"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeResourceExhausted  Code = "RESOURCE_EXHAUSTED"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
	CodeUnimplemented      Code = "UNIMPLEMENTED"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

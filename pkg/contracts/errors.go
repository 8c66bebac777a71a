package contracts

import "errors"

// Sentinel error kinds. Operations that fail with one of these kinds wrap it
// with fmt.Errorf("%w: ...") so callers can distinguish kinds with errors.Is
// while still getting a descriptive message. Errors from the crypto and
// attestation primitives wrap their underlying cause instead.
var (
	// ErrInvalidAnalysisResponse means the analysis text could not be parsed
	// as JSON even after fence/trailing-comma repair, or the parsed object
	// failed the response schema's structure and type checks (a missing
	// required field or a wrong JSON type anywhere in the response, including
	// inside concerns[] and conscience_context).
	ErrInvalidAnalysisResponse = errors.New("aip: invalid analysis response")

	// ErrInvalidVerdict means the verdict field failed enum validation.
	ErrInvalidVerdict = errors.New("aip: invalid verdict")

	// ErrInvalidConcern means a concerns[] element carries an undeclared
	// category or severity, or a clear verdict carries concerns. Missing
	// fields and wrong types are reported as ErrInvalidAnalysisResponse.
	ErrInvalidConcern = errors.New("aip: invalid concern")

	// ErrInvalidConscienceContext means conscience_context.consultation_depth
	// is not a declared depth. Missing fields and wrong types are reported as
	// ErrInvalidAnalysisResponse.
	ErrInvalidConscienceContext = errors.New("aip: invalid conscience context")

	// ErrConfigInvalid means a supplied configuration value is out of range
	// (e.g. window max_size < MinWindowSize).
	ErrConfigInvalid = errors.New("aip: invalid configuration")

	// ErrAgreementConflict means the agreement validator found one or more
	// blocking card/conscience conflicts. The orchestrator treats this as a
	// fatal initialization error.
	ErrAgreementConflict = errors.New("aip: agreement conflict")

	// ErrClientClosed means an operation was attempted on a destroyed/closed
	// client or monitor instance.
	ErrClientClosed = errors.New("aip: client closed")
)

package diagnostics

// Error codes reported by the checker
const (
	// Syntax errors (P prefix)
	ErrUnexpectedToken       = "P0001"
	ErrUnrecognizedCharacter = "P0002"
	ErrInvalidLiteral        = "P0003"

	// Type checker errors (T prefix)
	ErrUndeclaredName          = "T0001"
	ErrTypeMismatch            = "T0002"
	ErrNotAssignable           = "T0003"
	ErrAmbiguousConversion     = "T0004"
	ErrArityMismatch           = "T0005"
	ErrMissingNamedParameter   = "T0006"
	ErrDuplicateNamedParameter = "T0007"
	ErrUnknownNamedParameter   = "T0008"
	ErrInvalidOperator         = "T0009"
	ErrDivisionByZero          = "T0010"
	ErrConstantOverflow        = "T0011"
	ErrIllegalConstantUse      = "T0012"
	ErrDeclarationCycle        = "T0013"
	ErrNotCallable             = "T0014"
	ErrNotIndexable            = "T0015"
	ErrNotAddressable          = "T0016"
	ErrInvalidExpression       = "T0017"
	ErrFieldNotFound           = "T0018"
	ErrInvalidCast             = "T0019"
	ErrNotExported             = "T0020"
	ErrInvalidType             = "T0021"
	ErrRedeclaredName          = "T0022"

	// Unit loading errors (U prefix)
	ErrInvalidUnit = "U0001"

	// Warnings (W prefix)
	WarnRedundantCast      = "W0001"
	WarnRedundantTransmute = "W0002"
)

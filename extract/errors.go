package extract

import "fmt"

// UnsupportedKindError is returned for declarations that cannot carry a
// mapper: annotation types and interfaces.
type UnsupportedKindError struct {
	Name string
	Kind string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("%s %s annotated with @Mapper is not supported", e.Kind, e.Name)
}

// MalformedASTError reports a syntax node missing a required child.
type MalformedASTError struct {
	Node   string
	Detail string
}

func (e *MalformedASTError) Error() string {
	return fmt.Sprintf("malformed %s: %s", e.Node, e.Detail)
}

// ExtractionError wraps any failure that happened while extracting a
// declaration.
type ExtractionError struct {
	Declaration string
	Err         error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %s: %v", e.Declaration, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

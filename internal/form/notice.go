// internal/form/notice.go
//
// Transient notifications produced by a submit attempt.

package form

// Variant selects the visual treatment of a Notice.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notice is a title plus description shown once after a submit attempt.
type Notice struct {
	Title       string  `yaml:"title"       json:"title"`
	Description string  `yaml:"description" json:"description,omitempty"`
	Variant     Variant `yaml:"variant"     json:"variant,omitempty"`
}

var (
	defaultSuccess = Notice{Title: "Registration Successful!", Description: "We've received your registration."}
	defaultFailure = Notice{Title: "Registration Failed", Description: "Something went wrong. Please try again later.", Variant: VariantDestructive}
	defaultInvalid = Notice{Title: "Validation Error", Description: "Please fix the errors below", Variant: VariantDestructive}
)

// applyDefaults fills blank messages.  Failure and invalid notices are always
// destructive; success is never.
func (m *Messages) applyDefaults() {
	if m.Success.Title == "" {
		m.Success = defaultSuccess
	}
	if m.Failure.Title == "" {
		m.Failure = defaultFailure
	}
	if m.Invalid.Title == "" {
		m.Invalid = defaultInvalid
	}
	m.Success.Variant = VariantDefault
	m.Failure.Variant = VariantDestructive
	m.Invalid.Variant = VariantDestructive
}

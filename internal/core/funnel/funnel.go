package funnel

import (
	"errors"
	"fmt"
)

// Step is the key of one identity-proofing funnel step, as it appears in report columns.
type Step string

const (
	Welcome         Step = "welcome"
	Agreement       Step = "agreement"
	CaptureDocument Step = "capture_document"
	CapDocSubmit    Step = "cap_doc_submit"
	SSN             Step = "ssn"
	VerifyInfo      Step = "verify_info"
	VerifySubmit    Step = "verify_submit"
	Phone           Step = "phone"
	Encrypt         Step = "encrypt"
	PersonalKey     Step = "personal_key"
	Verified        Step = "verified"
)

// Mode selects where in the step sequence a funnel starts.
type Mode string

const (
	// Overall starts the funnel at the welcome screen.
	Overall Mode = "overall"
	// Blanket starts the funnel at document submission.
	Blanket Mode = "blanket"
)

// ErrUnknownMode is returned when a mode string does not name a configured funnel mode.
var ErrUnknownMode = errors.New("unknown funnel mode")

// StepTitle pairs a step key with its display title.
type StepTitle struct {
	Key   Step   `yaml:"key" json:"key"`
	Title string `yaml:"title" json:"title"`
}

// Definition is the ordered step sequence plus the start offset of every mode.
// Modes never reorder steps, they only choose where the slice begins.
type Definition struct {
	Sequence []StepTitle
	Modes    map[Mode]int
}

// DefaultDefinition returns the built-in proofing funnel.
func DefaultDefinition() Definition {
	return Definition{
		Sequence: []StepTitle{
			{Key: Welcome, Title: "Welcome"},
			{Key: Agreement, Title: "Agreement"},
			{Key: CaptureDocument, Title: "Capture Document"},
			{Key: CapDocSubmit, Title: "Submit Document"},
			{Key: SSN, Title: "SSN"},
			{Key: VerifyInfo, Title: "Verify Info"},
			{Key: VerifySubmit, Title: "Verify Submit"},
			{Key: Phone, Title: "Phone"},
			{Key: Encrypt, Title: "Encrypt"},
			{Key: PersonalKey, Title: "Personal Key"},
			{Key: Verified, Title: "Verified"},
		},
		Modes: map[Mode]int{
			Overall: 0,
			Blanket: 3,
		},
	}
}

// ParseMode validates a user-supplied mode against the definition.
func (d Definition) ParseMode(s string) (Mode, error) {
	if s == "" {
		return Overall, nil
	}
	mode := Mode(s)
	if _, ok := d.Modes[mode]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return mode, nil
}

// Steps returns the funnel for mode. An unconfigured mode is a programming error and panics.
func (d Definition) Steps(mode Mode) []StepTitle {
	offset, ok := d.Modes[mode]
	if !ok {
		panic(fmt.Sprintf("funnel: %v %q", ErrUnknownMode, mode))
	}
	if offset < 0 || offset >= len(d.Sequence) {
		panic(fmt.Sprintf("funnel: mode %q offset %d outside %d steps", mode, offset, len(d.Sequence)))
	}
	return d.Sequence[offset:]
}

// Keys returns every step key in sequence order.
func (d Definition) Keys() []Step {
	keys := make([]Step, len(d.Sequence))
	for i, st := range d.Sequence {
		keys[i] = st.Key
	}
	return keys
}

// Title returns the display title of step, or "" when the step is not part of the definition.
func (d Definition) Title(step Step) string {
	for _, st := range d.Sequence {
		if st.Key == step {
			return st.Title
		}
	}
	return ""
}

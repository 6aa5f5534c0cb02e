package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"

	domainerrors "github.com/takuyahirata23/quick-note/internal/errors"
)

// Predicate reports whether a submitted value is acceptable.
type Predicate func(value string) bool

// FieldErrors maps a field name to its failure message. A missing key means
// the field passed.
type FieldErrors map[string]string

// FormErrors is attached to validation errors so the client can redisplay the
// form with the submitted values.
type FormErrors struct {
	FieldErrors FieldErrors       `json:"fieldErrors"`
	Fields      map[string]string `json:"fields"`
}

// Form checks submitted fields against registered predicates.
type Form struct {
	predicates map[string]Predicate
	messages   map[string]string
	redacted   map[string]bool
}

// NewForm builds a form from a predicate per field and a message per field.
func NewForm(predicates map[string]Predicate, messages map[string]string) *Form {
	return &Form{predicates: predicates, messages: messages, redacted: map[string]bool{}}
}

// Redact keeps the named fields out of the values echoed back in FormErrors.
func (f *Form) Redact(names ...string) *Form {
	for _, n := range names {
		f.redacted[n] = true
	}
	return f
}

// Validate runs each submitted field through its predicate. Fields without a
// predicate are ignored. Returns nil when everything passes.
func (f *Form) Validate(fields map[string]string) FieldErrors {
	var errs FieldErrors
	for name, value := range fields {
		check, ok := f.predicates[name]
		if !ok || check == nil || check(value) {
			continue
		}
		if errs == nil {
			errs = FieldErrors{}
		}
		msg, ok := f.messages[name]
		if !ok {
			msg = "is invalid"
		}
		errs[name] = msg
	}
	return errs
}

// Check is Validate lifted into a domain error carrying FormErrors.
// extra entries are merged into the field errors before deciding.
func (f *Form) Check(fields map[string]string, extra FieldErrors) error {
	errs := f.Validate(fields)
	for k, v := range extra {
		if errs == nil {
			errs = FieldErrors{}
		}
		if _, taken := errs[k]; !taken {
			errs[k] = v
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return domainerrors.ValidationWithDetails("Form was not submitted correctly", FormErrors{
		FieldErrors: errs,
		Fields:      f.echo(fields),
	})
}

func (f *Form) echo(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if !f.redacted[k] {
			out[k] = v
		}
	}
	return out
}

// HasRequiredLength returns a predicate accepting values whose trimmed length
// is at least min. Length is counted in UTF-16 code units, so a character
// outside the BMP counts twice.
func HasRequiredLength(min int) Predicate {
	return func(value string) bool {
		n := 0
		for _, r := range Trim(value) {
			n += utf16.RuneLen(r)
		}
		return n >= min
	}
}

// Trim strips leading and trailing whitespace, including U+FEFF and the line
// and paragraph separators, and leaves U+0085 alone.
func Trim(value string) string {
	return strings.TrimFunc(value, isSpace)
}

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\ufeff', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// IsValidEmail reports whether value looks like local@domain.tld with a 2 or
// 3 character final label.
func IsValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

const passwordSpecials = "@$!%*#?&"

var passwordCharset = regexp.MustCompile(`^[A-Za-z0-9@$!%*#?&]{8,}$`)

// IsValidPassword accepts at least 8 characters drawn from letters, digits and
// @$!%*#?&, with at least one of each class.
func IsValidPassword(value string) bool {
	if !passwordCharset.MatchString(value) {
		return false
	}
	var letter, digit, special bool
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			letter = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.IndexByte(passwordSpecials, c) >= 0:
			special = true
		}
	}
	return letter && digit && special
}

// Messages shown to users.
const (
	MsgName        = "Name must have at least 2 characters"
	MsgEmail       = "Email is not valid"
	MsgPassword    = "Password must have at least 1 alphabet, 1 special character, and 1 number. Min length is 8"
	MsgFolderName  = "Folder name must have at least 2 characters"
	MsgTitle       = "Title must have at least 2 characters"
	MsgDescription = "Description must have at least 2 characters"
)

// Assembled forms.
var (
	RegisterForm = NewForm(
		map[string]Predicate{"name": HasRequiredLength(2), "email": IsValidEmail, "password": IsValidPassword},
		map[string]string{"name": MsgName, "email": MsgEmail, "password": MsgPassword},
	).Redact("password", "passwordConfirmation")

	LoginForm = NewForm(
		map[string]Predicate{"email": IsValidEmail, "password": IsValidPassword},
		map[string]string{"email": MsgEmail, "password": MsgPassword},
	).Redact("password")

	FolderForm = NewForm(
		map[string]Predicate{"name": HasRequiredLength(2)},
		map[string]string{"name": MsgFolderName},
	)

	NoteForm = NewForm(
		map[string]Predicate{"title": HasRequiredLength(2), "description": HasRequiredLength(2)},
		map[string]string{"title": MsgTitle, "description": MsgDescription},
	)
)

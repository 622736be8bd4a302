package profile

import (
	"regexp"
	"strings"
)

// Field identifies a profile field in validation results.
type Field string

const (
	FieldFirstName  Field = "first_name"
	FieldLastName   Field = "last_name"
	FieldNationalID Field = "national_id"
	FieldPhone      Field = "phone"
	FieldEmail      Field = "email"
)

// Result reports the outcome of validating a profile. Errors lists every
// offending field in declaration order; validation is not fail-fast.
type Result struct {
	Valid  bool
	Errors []Field
}

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// Validate checks a contact profile against the policy. Pure function: no
// side effects, all failing fields reported.
func Validate(p ContactProfile, policy Policy) Result {
	var errs []Field

	if !nameValid(p.FirstName, policy.MaxNameLen) {
		errs = append(errs, FieldFirstName)
	}
	if !nameValid(p.LastName, policy.MaxNameLen) {
		errs = append(errs, FieldLastName)
	}
	if id := strings.TrimSpace(p.NationalID); id != "" && !nationalIDValid(id, policy.NationalIDLen) {
		errs = append(errs, FieldNationalID)
	}
	if !phoneValid(p.Phone, policy) {
		errs = append(errs, FieldPhone)
	}
	if email := strings.TrimSpace(p.Email); email != "" && !emailPattern.MatchString(email) {
		errs = append(errs, FieldEmail)
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

func nameValid(name string, maxLen int) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed != "" && len([]rune(trimmed)) <= maxLen
}

func nationalIDValid(id string, wantLen int) bool {
	if len(id) != wantLen {
		return false
	}
	return allDigits(id)
}

func phoneValid(phone string, policy Policy) bool {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return false
	}
	if len(normalized) < policy.PhoneMinLen || len(normalized) > policy.PhoneMaxLen {
		return false
	}
	if !policy.PhoneStrict {
		return true
	}
	for _, prefix := range strictPhonePrefixes {
		if strings.HasPrefix(normalized, prefix) {
			return true
		}
	}
	return false
}

// NormalizePhone strips separator characters, rewrites a leading +972/972
// country code to a leading 0 and drops any remaining non-digits.
func NormalizePhone(phone string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '(', ')', '.', '_':
			return -1
		}
		return r
	}, phone)

	if strings.HasPrefix(cleaned, "+972") {
		cleaned = "0" + cleaned[len("+972"):]
	} else if strings.HasPrefix(cleaned, "972") {
		cleaned = "0" + cleaned[len("972"):]
	}

	return strings.Map(func(r rune) rune {
		if r < '0' || r > '9' {
			return -1
		}
		return r
	}, cleaned)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

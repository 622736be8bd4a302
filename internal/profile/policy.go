package profile

// Policy names the configurable validation bounds. ID length and phone
// strictness vary between municipal deployments, so the bounds live here as
// one named configuration instead of scattered literals.
type Policy struct {
	// MaxNameLen bounds first and last name length.
	MaxNameLen int
	// NationalIDLen is the exact digit count an ID must have when present.
	NationalIDLen int
	// PhoneStrict additionally requires a known Israeli prefix after
	// normalization. The loose mode accepts any all-digit number of
	// plausible length.
	PhoneStrict bool
	// PhoneMinLen/PhoneMaxLen bound the normalized digit count.
	PhoneMinLen int
	PhoneMaxLen int
}

// DefaultPolicy is the validation policy the service ships with: 35-char
// names, 9-digit Israeli IDs, loose phone length bounds of 7..15.
func DefaultPolicy() Policy {
	return Policy{
		MaxNameLen:    35,
		NationalIDLen: 9,
		PhoneStrict:   false,
		PhoneMinLen:   7,
		PhoneMaxLen:   15,
	}
}

// strictPhonePrefixes are the Israeli dialing prefixes accepted when
// PhoneStrict is set: mobile 05x, landline area codes and 07x VoIP ranges.
var strictPhonePrefixes = []string{
	"050", "051", "052", "053", "054", "055", "056", "058", "059",
	"02", "03", "04", "08", "09",
	"072", "073", "074", "076", "077", "079",
}

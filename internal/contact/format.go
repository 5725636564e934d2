package contact

import "strings"

// FormatPhoneNumber renders a ten digit number as "(555) 123-4567". Any
// non-digit characters are dropped first; if that does not leave exactly ten
// digits the input is returned untouched.
func FormatPhoneNumber(phone string) string {
	var digits strings.Builder
	for i := 0; i < len(phone); i++ {
		if c := phone[i]; c >= '0' && c <= '9' {
			digits.WriteByte(c)
		}
	}
	d := digits.String()
	if len(d) != 10 {
		return phone
	}
	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}

// ValidateEmail reports whether email is non-blank and has the structural
// shape the contact form accepts.
func ValidateEmail(email string) bool {
	return !isBlank(email) && emailShape.MatchString(email)
}

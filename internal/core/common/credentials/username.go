package credentials

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	MaxUsernameLength   = 50
	DefaultUsername     = "user"
	maxSuffixCollisions = 1000
)

// d-stroke has no canonical decomposition, so it is mapped before diacritics are dropped.
var dStroke = strings.NewReplacer("đ", "d", "Đ", "D")

// vietnameseMarks are the tone and vowel marks of the Vietnamese alphabet after NFD.
var vietnameseMarks = map[rune]bool{
	'\u0300': true, // huyền
	'\u0301': true, // sắc
	'\u0303': true, // ngã
	'\u0309': true, // hỏi
	'\u0323': true, // nặng
	'\u0302': true, // circumflex
	'\u0306': true, // breve
	'\u031B': true, // horn
}

// foldVietnamese reduces Vietnamese vowels to their base letter. Other accented
// letters are recomposed untouched.
func foldVietnamese(s string) string {
	var b strings.Builder
	var base rune
	for _, r := range norm.NFD.String(dStroke.Replace(s)) {
		if unicode.Is(unicode.Mn, r) {
			if vietnameseMarks[r] && strings.ContainsRune("aeiouyAEIOUY", base) {
				continue
			}
		} else {
			base = r
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

// BaseUsername transliterates a display name into its bare login handle.
func BaseUsername(fullName string) string {
	latin := foldVietnamese(fullName)

	var b strings.Builder
	for _, r := range strings.ToLower(latin) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	base := b.String()
	if len(base) > MaxUsernameLength {
		base = base[:MaxUsernameLength]
	}
	if base == "" {
		return DefaultUsername
	}
	return base
}

// GenerateUsername returns the first free handle derived from fullName.
// Matching against existing is exact and case-sensitive.
func GenerateUsername(fullName string, existing []string) string {
	return generateUsername(fullName, existing, time.Now)
}

func generateUsername(fullName string, existing []string, now func() time.Time) string {
	taken := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		taken[name] = struct{}{}
	}

	base := BaseUsername(fullName)
	if _, ok := taken[base]; !ok {
		return base
	}

	for i := 1; i <= maxSuffixCollisions; i++ {
		candidate := base + strconv.Itoa(i)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}

	return base + strconv.FormatInt(now().Unix(), 10)
}

package security

import (
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

// SecurityLayer keeps secrets out of the logs. It is installed as a logrus
// hook and masks every protected value before an entry is written.
type SecurityLayer struct {
	secrets  mapset.Set[string]
	keywords []string
}

// NewSecurityLayer - creates an empty security layer
func NewSecurityLayer() *SecurityLayer {
	return &SecurityLayer{
		secrets: mapset.NewSet[string](),
		keywords: []string{
			"password", "passwd", "пароль",
			"secret", "token", "токен",
			"api key", "apikey", "api_key",
			"pin", "cvv", "cvc", "otp",
		},
	}
}

// Protect - registers a value that must never be rendered
func (s *SecurityLayer) Protect(secret string) {
	if strings.TrimSpace(secret) == "" {
		return
	}
	s.secrets.Add(secret)
}

// IsSensitiveName - checks whether a field name suggests secret input
func (s *SecurityLayer) IsSensitiveName(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range s.keywords {
		if keyword == "pin" || keyword == "otp" {
			// short keywords only match whole words
			for _, word := range strings.FieldsFunc(lower, isSeparator) {
				if word == keyword {
					return true
				}
			}
			continue
		}
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '.' || r == '[' || r == ']'
}

// Redact - replaces every protected value in text with the mask
func (s *SecurityLayer) Redact(text string) string {
	if s.secrets.Cardinality() == 0 || text == "" {
		return text
	}
	secrets := s.secrets.ToSlice()
	// longer secrets first so a secret containing another is masked whole
	sort.Slice(secrets, func(i, j int) bool { return len(secrets[i]) > len(secrets[j]) })
	for _, secret := range secrets {
		text = strings.ReplaceAll(text, secret, entities.MaskedValue)
	}
	return text
}

// Levels - the hook fires on every level
func (s *SecurityLayer) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire - masks secrets in the message and in string or error fields
func (s *SecurityLayer) Fire(entry *logrus.Entry) error {
	entry.Message = s.Redact(entry.Message)
	for key, value := range entry.Data {
		switch v := value.(type) {
		case string:
			entry.Data[key] = s.Redact(v)
		case error:
			entry.Data[key] = s.Redact(v.Error())
		}
	}
	return nil
}

// Ensure SecurityLayer implements Redactor interface and logrus.Hook
var (
	_ interfaces.Redactor = (*SecurityLayer)(nil)
	_ logrus.Hook         = (*SecurityLayer)(nil)
)

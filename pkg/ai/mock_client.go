package ai

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"kisansetu/pkg/i18n"
	"kisansetu/pkg/listing"
)

// topics are checked in order; the first keyword hit picks the answer.
var topics = []struct {
	key   string
	words []string
}{
	{"weather", []string{"weather", "rain", "forecast", "monsoon", "मौसम", "बारिश", "वर्षा"}},
	{"pest", []string{"pest", "insect", "disease", "bollworm", "rust", "कीट", "रोग", "सुंडी"}},
	{"fertilizer", []string{"fertilizer", "fertiliser", "urea", "dap", "npk", "manure", "खाद", "उर्वरक", "यूरिया"}},
	{"irrigation", []string{"irrigation", "irrigate", "water", "drip", "sprinkler", "सिंचाई", "पानी"}},
	{"scheme", []string{"scheme", "yojana", "pm-kisan", "subsidy", "insurance", "loan", "योजना", "सब्सिडी"}},
	{"price", []string{"price", "prices", "mandi", "market", "sell", "भाव", "मंडी", "दाम", "बाजार"}},
}

type mockClient struct{ tr *i18n.Bundle }

// NewMock answers from the scripted topic replies in the i18n tables.
func NewMock(tr *i18n.Bundle) Client { return &mockClient{tr: tr} }

func (m *mockClient) Name() string { return "mock" }

func (m *mockClient) Reply(_ context.Context, r Request) (string, error) {
	return m.tr.T(r.Language, "chat.topic."+Topic(r.Message)), nil
}

// Topic classifies a message into one of the scripted topics, or "default".
// Latin keywords must match whole words; Indic ones match anywhere, since
// vowel signs are not letters to the unicode tables.
func Topic(message string) string {
	msg := listing.Fold(message)
	words := map[string]bool{}
	for _, w := range strings.FieldsFunc(msg, func(r rune) bool {
		return !(r == '-' || r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)))
	}) {
		words[w] = true
	}
	for _, t := range topics {
		for _, w := range t.words {
			if isASCII(w) && words[w] || !isASCII(w) && strings.Contains(msg, w) {
				return t.key
			}
		}
	}
	return "default"
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

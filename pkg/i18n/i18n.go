// Package i18n holds the portal's string tables for the 11 supported
// languages and formats numbers and rupee amounts per locale.
//
// Lookups never fail: a key missing from a language resolves to the English
// text, and a key missing from English resolves to the key itself.
package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/bn"
	"github.com/go-playground/locales/currency"
	"github.com/go-playground/locales/en_IN"
	"github.com/go-playground/locales/gu"
	"github.com/go-playground/locales/hi"
	"github.com/go-playground/locales/kn"
	"github.com/go-playground/locales/ml"
	"github.com/go-playground/locales/mr"
	"github.com/go-playground/locales/or"
	"github.com/go-playground/locales/pa"
	"github.com/go-playground/locales/ta"
	"github.com/go-playground/locales/te"
	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const English = "en"

// CookieName is where the chosen language is persisted.
const CookieName = "kisansetu-language"

type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
}

var Languages = []Language{
	{Code: "en", Name: "English", NativeName: "English"},
	{Code: "hi", Name: "Hindi", NativeName: "हिन्दी"},
	{Code: "bn", Name: "Bengali", NativeName: "বাংলা"},
	{Code: "te", Name: "Telugu", NativeName: "తెలుగు"},
	{Code: "mr", Name: "Marathi", NativeName: "मराठी"},
	{Code: "ta", Name: "Tamil", NativeName: "தமிழ்"},
	{Code: "gu", Name: "Gujarati", NativeName: "ગુજરાતી"},
	{Code: "kn", Name: "Kannada", NativeName: "ಕನ್ನಡ"},
	{Code: "ml", Name: "Malayalam", NativeName: "മലയാളം"},
	{Code: "pa", Name: "Punjabi", NativeName: "ਪੰਜਾਬੀ"},
	{Code: "or", Name: "Odia", NativeName: "ଓଡ଼ିଆ"},
}

var localeFor = map[string]func() locales.Translator{
	"en": en_IN.New,
	"hi": hi.New,
	"bn": bn.New,
	"te": te.New,
	"mr": mr.New,
	"ta": ta.New,
	"gu": gu.New,
	"kn": kn.New,
	"ml": ml.New,
	"pa": pa.New,
	"or": or.New,
}

//go:embed locales/*.yaml
var tables embed.FS

type Bundle struct {
	uni   *ut.UniversalTranslator
	trans map[string]ut.Translator
	keys  []string
	def   string
}

// New loads every embedded table. defaultLang is what Normalize returns for
// unsupported input; it falls back to English when itself unsupported.
func New(defaultLang string) (*Bundle, error) {
	fallback := localeFor[English]()
	supported := make([]locales.Translator, 0, len(localeFor))
	for _, l := range Languages {
		supported = append(supported, localeFor[l.Code]())
	}
	b := &Bundle{
		uni:   ut.New(fallback, supported...),
		trans: map[string]ut.Translator{},
		def:   English,
	}

	for _, l := range Languages {
		tr, found := b.uni.GetTranslator(localeFor[l.Code]().Locale())
		if !found {
			return nil, fmt.Errorf("i18n: no translator for %s", l.Code)
		}
		raw, err := tables.ReadFile("locales/" + l.Code + ".yaml")
		if err != nil {
			return nil, errors.Wrapf(err, "i18n: table %s", l.Code)
		}
		var kv map[string]string
		if err := yaml.Unmarshal(raw, &kv); err != nil {
			return nil, errors.Wrapf(err, "i18n: parse %s", l.Code)
		}
		for k, v := range kv {
			if err := tr.Add(k, v, false); err != nil {
				return nil, errors.Wrapf(err, "i18n: %s %s", l.Code, k)
			}
		}
		if l.Code == English {
			for k := range kv {
				b.keys = append(b.keys, k)
			}
			sort.Strings(b.keys)
		}
		b.trans[l.Code] = tr
	}

	if b.Supported(defaultLang) {
		b.def = Base(defaultLang)
	}
	return b, nil
}

// MustNew is New for wiring code and tests where the embedded tables are
// known good.
func MustNew(defaultLang string) *Bundle {
	b, err := New(defaultLang)
	if err != nil {
		panic(err)
	}
	return b
}

// Base strips region and script: "hi-IN" and "hi_IN" become "hi".
func Base(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}

func (b *Bundle) Supported(lang string) bool {
	_, ok := b.trans[Base(lang)]
	return ok
}

// Normalize maps any input to a supported language code.
func (b *Bundle) Normalize(lang string) string {
	if l := Base(lang); b.Supported(l) {
		return l
	}
	return b.def
}

func (b *Bundle) Default() string { return b.def }

// Keys returns every key in the English table, sorted.
func (b *Bundle) Keys() []string { return append([]string(nil), b.keys...) }

// T translates key; params fill {0}, {1}, ... placeholders.
func (b *Bundle) T(lang, key string, params ...string) string {
	if tr, ok := b.trans[b.Normalize(lang)]; ok {
		if s, err := tr.T(key, params...); err == nil {
			return s
		}
	}
	if s, err := b.trans[English].T(key, params...); err == nil {
		return s
	}
	return key
}

// Has reports whether lang has its own text for key, without fallback.
func (b *Bundle) Has(lang, key string) bool {
	tr, ok := b.trans[Base(lang)]
	if !ok {
		return false
	}
	_, err := tr.T(key)
	return err == nil
}

// Table returns the fully resolved table for lang, fallback applied.
func (b *Bundle) Table(lang string) map[string]string {
	out := make(map[string]string, len(b.keys))
	for _, k := range b.keys {
		out[k] = b.T(lang, k)
	}
	return out
}

func (b *Bundle) locale(lang string) locales.Translator {
	if tr, ok := b.trans[b.Normalize(lang)]; ok {
		return tr
	}
	return b.uni.GetFallback()
}

// FormatNumber formats v with the locale's digit grouping.
func (b *Bundle) FormatNumber(lang string, v float64, decimals uint64) string {
	return b.locale(lang).FmtNumber(v, decimals)
}

// FormatINR formats a rupee amount with two decimals.
func (b *Bundle) FormatINR(lang string, v float64) string {
	return b.locale(lang).FmtCurrency(v, 2, currency.INR)
}

package hoverlate

import "strings"

// LanguageNames maps locale codes to human-readable names for backend
// prompts.
var LanguageNames = map[string]string{
	"en_US": "English (United States)",
	"en_GB": "English (United Kingdom)",
	"de_DE": "German (Germany)",
	"es_ES": "Spanish (Spain)",
	"es_MX": "Spanish (Mexico)",
	"fr_FR": "French (France)",
	"it_IT": "Italian (Italy)",
	"ja_JP": "Japanese (Japan)",
	"ko_KR": "Korean (South Korea)",
	"nl_NL": "Dutch (Netherlands)",
	"pl_PL": "Polish (Poland)",
	"pt_BR": "Portuguese (Brazil)",
	"pt_PT": "Portuguese (Portugal)",
	"ru_RU": "Russian (Russia)",
	"tr_TR": "Turkish (Turkey)",
	"uk_UA": "Ukrainian (Ukraine)",
	"vi_VN": "Vietnamese (Vietnam)",
	"zh_CN": "Chinese (Simplified)",
	"zh_TW": "Chinese (Traditional)",
	"ar_SA": "Arabic (Saudi Arabia)",
	"he_IL": "Hebrew (Israel)",
	"hi_IN": "Hindi (India)",
}

// ShortCodeToLocale maps short language codes to full locale codes.
var ShortCodeToLocale = map[string]string{
	"en": "en_US",
	"de": "de_DE",
	"es": "es_ES",
	"fr": "fr_FR",
	"it": "it_IT",
	"ja": "ja_JP",
	"ko": "ko_KR",
	"nl": "nl_NL",
	"pl": "pl_PL",
	"pt": "pt_BR",
	"ru": "ru_RU",
	"tr": "tr_TR",
	"uk": "uk_UA",
	"vi": "vi_VN",
	"zh": "zh_CN",
	"ar": "ar_SA",
	"he": "he_IL",
	"hi": "hi_IN",
}

// GetLanguageName returns a human-readable name for a language code,
// falling back to the code itself.
func GetLanguageName(langCode string) string {
	if name, ok := LanguageNames[langCode]; ok {
		return name
	}
	if locale, ok := ShortCodeToLocale[langCode]; ok {
		if name, ok := LanguageNames[locale]; ok {
			return name
		}
	}
	return langCode
}

// NormalizeLocale converts a language code to the standard format
// (e.g., "es-ES" -> "es_ES").
func NormalizeLocale(langCode string) string {
	return strings.ReplaceAll(langCode, "-", "_")
}

// BaseLang extracts the lowercase base language code (e.g., "en" from
// "en_US").
func BaseLang(langCode string) string {
	return strings.ToLower(strings.Split(NormalizeLocale(langCode), "_")[0])
}

// SameLanguage reports whether two language codes share a base
// language, in which case translation can be bypassed.
func SameLanguage(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return BaseLang(a) == BaseLang(b)
}

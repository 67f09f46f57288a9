package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "tag" or "value").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
// Templates reference data keys as {key}.
type dictTranslator struct{ lang string }

var dict = map[string]map[string]string{
	"en": {
		"unresolvable_tag":      "cannot resolve tag {tag} for value '{value}'",
		"tag_value_mismatch":    "the value '{value}' could not be parsed as '{tag}'",
		"unsupported_operation": "tag {tag} does not support {op}",
		"invalid_value":         "invalid value '{value}' for {tag}",
		"depth_exceeded":        "nesting deeper than {max}",
		"duplicate_key":         "duplicate key '{value}'",
		"excessive_aliasing":    "document expands too many aliases ({aliased} of {nodes} nodes)",
	},
	"ja": {
		"unresolvable_tag":      "値 '{value}' のタグ {tag} を解決できません",
		"tag_value_mismatch":    "値 '{value}' を '{tag}' として解析できません",
		"unsupported_operation": "タグ {tag} は {op} に対応していません",
		"invalid_value":         "{tag} の値 '{value}' が不正です",
		"depth_exceeded":        "ネストが {max} を超えています",
		"duplicate_key":         "キー '{value}' が重複しています",
		"excessive_aliasing":    "エイリアスの展開が多すぎます ({nodes} ノード中 {aliased})",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dict[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}

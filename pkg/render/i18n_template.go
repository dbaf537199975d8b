package render

import (
	"fmt"
	"reflect"
	"strings"
)

// TemplateI18nConfig configures the template translation helpers.
type TemplateI18nConfig struct {
	// LocaleKey is the map key or struct field holding the locale when a
	// template passes its whole context. Defaults to "locale".
	LocaleKey string
	// FuncName renames the translate helper.
	FuncName string
	OnMissing MissingTranslationHandler
}

// TemplateI18nFuncs returns helpers for vanilla.WithTemplateFuncs:
//
//	{{ translate(locale, "refs.loading", ...) }}
//	{{ current_locale(ctx) }}
//
// The first argument is either a locale string or a value carrying one under
// cfg.LocaleKey.
func TemplateI18nFuncs(t Translator, cfg TemplateI18nConfig) map[string]any {
	key := firstNonBlank(cfg.LocaleKey, "locale")
	name := firstNonBlank(cfg.FuncName, "translate")

	return map[string]any{
		name: func(src any, msg string, params ...any) string {
			return translate(localeOf(src, key), msg, "", t, cfg.OnMissing, params...)
		},
		"current_locale": func(src any) string {
			return localeOf(src, key)
		},
	}
}

func localeOf(src any, key string) string {
	if s, ok := src.(string); ok {
		return s
	}

	v := reflect.ValueOf(src)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	var field reflect.Value
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return ""
		}
		field = v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
	case reflect.Struct:
		field = v.FieldByName(key)
	default:
		return ""
	}
	if !field.IsValid() {
		return ""
	}
	if field.Kind() == reflect.Interface {
		if field.IsNil() {
			return ""
		}
		field = field.Elem()
	}
	if field.Kind() == reflect.String {
		return field.String()
	}
	if !field.CanInterface() {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(field.Interface()))
}

func firstNonBlank(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}

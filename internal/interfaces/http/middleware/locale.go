package middleware

import (
	"fmt"

	"github.com/bizsuite/backend/internal/infrastructure/i18n"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	localeKey     = "locale"
	translatorKey = "translator"
)

// Locale picks the response language from Accept-Language.
func Locale(tr *i18n.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := tr.Match(c.GetHeader(HeaderAcceptLanguage))
		c.Set(localeKey, tag)
		c.Set(translatorKey, tr)
		c.Header("Content-Language", tag.String())
		c.Next()
	}
}

// GetLocale returns the language picked by Locale, English without it.
func GetLocale(c *gin.Context) language.Tag {
	if v, ok := c.Get(localeKey); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return language.English
}

// Translator returns the translator installed by Locale, or nil.
func Translator(c *gin.Context) *i18n.Translator {
	if v, ok := c.Get(translatorKey); ok {
		if tr, ok := v.(*i18n.Translator); ok {
			return tr
		}
	}
	return nil
}

// T renders format in the request language.
func T(c *gin.Context, format string, args ...any) string {
	if tr := Translator(c); tr != nil {
		return tr.Sprintf(GetLocale(c), format, args...)
	}
	return fmt.Sprintf(format, args...)
}

// Tr renders msg in the request language without formatting it.
func Tr(c *gin.Context, msg string) string {
	if tr := Translator(c); tr != nil {
		return tr.Text(GetLocale(c), msg)
	}
	return msg
}

// Abort ends the request with an error envelope whose message is
// translated.
func Abort(c *gin.Context, code, format string, args ...any) {
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code),
		dto.NewErrorResponseWithRequestID(code, T(c, format, args...), GetRequestID(c)))
}

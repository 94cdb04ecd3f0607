// Package speechtext подготавливает текст урока к синтезу речи:
// очищает разметку, эмодзи и маркеры списков, а затем нарезает
// текст на чанки, не превышающие лимит внешнего сервиса.
package speechtext

import (
	"regexp"
	"strings"
)

// Правила применяются по порядку: сначала парная разметка с сохранением
// содержимого, затем маркеры списков, эмодзи и остаточные символы.
var (
	asteriskRe     = regexp.MustCompile(`\*+([^*]+)\*+`)
	underscoreRe   = regexp.MustCompile(`_+([^_]+)_+`)
	backtickRe     = regexp.MustCompile("`+([^`]+)`+")
	doubleQuoteRe  = regexp.MustCompile(`"([^"]*)"`)
	singleQuoteRe  = regexp.MustCompile(`'([^']*)'`)
	numberedListRe = regexp.MustCompile(`(?m)^\d+\.\s*`)
	bulletRe       = regexp.MustCompile(`(?m)^\s*[•·*-]+\s*`)
	keycapRe       = regexp.MustCompile(`[0-9]\x{FE0F}?\x{20E3}`)
	emojiRe        = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}\x{FE0F}\x{200D}]`)
	// Одиночное подчёркивание не удаляется: в идентификаторах вида foo_bar
	// оно несёт смысл, в отличие от непарных маркеров выделения.
	punctuationRe = regexp.MustCompile("[#@\\[\\](){}<>*`~]")
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// Normalize очищает текст от разметки, эмодзи и маркеров списков,
// сохраняя произносимое содержимое. Пробелы схлопываются в один,
// результат обрезается по краям. Пустой результат означает, что
// озвучивать нечего.
func Normalize(text string) string {
	text = asteriskRe.ReplaceAllString(text, "$1")
	text = underscoreRe.ReplaceAllString(text, "$1")
	text = backtickRe.ReplaceAllString(text, "$1")
	text = doubleQuoteRe.ReplaceAllString(text, "$1")
	text = singleQuoteRe.ReplaceAllString(text, "$1")
	text = numberedListRe.ReplaceAllString(text, "")
	text = bulletRe.ReplaceAllString(text, "")
	text = keycapRe.ReplaceAllString(text, "")
	text = emojiRe.ReplaceAllString(text, "")
	text = punctuationRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

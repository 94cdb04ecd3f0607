package speechtext

import "strings"

// DefaultMaxChunkLen лимит длины одного чанка в рунах,
// соответствует ограничению внешнего сервиса синтеза.
const DefaultMaxChunkLen = 200

const terminators = ".!?"

// Chunk нарезает нормализованный текст на чанки длиной не более maxLen рун.
// Предложения не разрываются, пока помещаются в лимит: соседние
// предложения жадно упаковываются в один чанк через пробел.
// Предложение длиннее лимита, завершённое терминатором, остаётся целым
// чанком. Незавершённый остаток длиннее лимита режется по ближайшему
// пробелу во второй половине чанка, а при его отсутствии — жёстко
// по границе лимита.
func Chunk(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultMaxChunkLen
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	var current string
	flush := func() {
		if current != "" {
			chunks = append(chunks, current)
			current = ""
		}
	}

	for _, sentence := range splitSentences(text) {
		sentenceLen := len([]rune(sentence))
		if sentenceLen > maxLen {
			flush()
			if endsWithTerminator(sentence) {
				chunks = append(chunks, sentence)
			} else {
				chunks = append(chunks, hardSplit(sentence, maxLen)...)
			}
			continue
		}
		if current == "" {
			current = sentence
			continue
		}
		if len([]rune(current))+1+sentenceLen <= maxLen {
			current += " " + sentence
		} else {
			flush()
			current = sentence
		}
	}
	flush()
	return chunks
}

// splitSentences делит текст на предложения, оставляя терминаторы
// прикреплёнными. Серия терминаторов ("¡Hola!!") не разрывается.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i := range runes {
		if !isTerminator(runes[i]) {
			continue
		}
		if i+1 < len(runes) && isTerminator(runes[i+1]) {
			continue
		}
		if sentence := strings.TrimSpace(string(runes[start : i+1])); sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}
	if start < len(runes) {
		if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
			sentences = append(sentences, rest)
		}
	}
	return sentences
}

func isTerminator(r rune) bool {
	return strings.ContainsRune(terminators, r)
}

func endsWithTerminator(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 {
		return false
	}
	return isTerminator(runes[len(runes)-1])
}

// hardSplit режет фрагмент без терминаторов по лимиту maxLen.
// Разрез по пробелу допускается только во второй половине чанка,
// чтобы не плодить короткие обрезки.
func hardSplit(sentence string, maxLen int) []string {
	var parts []string
	runes := []rune(sentence)
	for len(runes) > maxLen {
		cut := lastSpaceIndex(runes[:maxLen])
		if cut < maxLen/2 {
			parts = append(parts, string(runes[:maxLen]))
			runes = runes[maxLen:]
		} else {
			parts = append(parts, string(runes[:cut]))
			runes = runes[cut+1:]
		}
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

func lastSpaceIndex(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}

package speechtext

import (
	"reflect"
	"strings"
	"testing"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   []string
	}{
		{
			name:   "Короткий текст в один чанк",
			input:  "Hola mundo.",
			maxLen: 200,
			want:   []string{"Hola mundo."},
		},
		{
			name:   "Предложения упаковываются жадно",
			input:  "Uno. Dos. Tres.",
			maxLen: 9,
			want:   []string{"Uno. Dos.", "Tres."},
		},
		{
			name:   "Предложение не разрывается на границе",
			input:  "Uno dos. Tres cuatro.",
			maxLen: 12,
			want:   []string{"Uno dos.", "Tres cuatro."},
		},
		{
			name:   "Текст без терминаторов режется по пробелам",
			input:  "aaaa bbbb cccc dddd",
			maxLen: 10,
			want:   []string{"aaaa bbbb", "cccc dddd"},
		},
		{
			name:   "Длинное слово режется жёстко",
			input:  "aaaaaaaaaaaaaaa",
			maxLen: 10,
			want:   []string{"aaaaaaaaaa", "aaaaa"},
		},
		{
			name:   "Серия терминаторов не разрывается",
			input:  "¡Hola!! ¿Que tal?",
			maxLen: 200,
			want:   []string{"¡Hola!! ¿Que tal?"},
		},
		{
			name:   "Пустая строка",
			input:  "",
			maxLen: 200,
			want:   nil,
		},
		{
			name:   "Нулевой лимит берёт значение по умолчанию",
			input:  "Hola mundo.",
			maxLen: 0,
			want:   []string{"Hola mundo."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chunk(tt.input, tt.maxLen)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Chunk(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestChunkPreservesText(t *testing.T) {
	input := "La casa es grande. El perro corre rapido. Me gusta la comida española. " +
		"Mañana vamos al mercado. ¿Quieres venir con nosotros? Claro que si."
	chunks := Chunk(input, 50)

	if joined := strings.Join(chunks, " "); joined != input {
		t.Errorf("joined chunks differ from input:\ngot  %q\nwant %q", joined, input)
	}
	for i, chunk := range chunks {
		if n := len([]rune(chunk)); n > 50 {
			t.Errorf("chunk %d has %d runes, limit is 50: %q", i, n, chunk)
		}
	}
}

func TestChunkRuneLimit(t *testing.T) {
	// Многобайтовые руны: лимит считается в рунах, не в байтах.
	input := strings.Repeat("ñ", 15)
	chunks := Chunk(input, 10)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	if n := len([]rune(chunks[0])); n != 10 {
		t.Errorf("first chunk has %d runes, want 10", n)
	}
	if n := len([]rune(chunks[1])); n != 5 {
		t.Errorf("second chunk has %d runes, want 5", n)
	}
}

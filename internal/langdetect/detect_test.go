package langdetect

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"صباح الخير", "ar"},
		{"صباح الخير!!! ...?", "ar"},
		{"Hello مرحبا", "ar"},
		{"Привет, как дела?", "ru"},
		{"你好", "zh"},
		{"こんにちは世界", "ja"},
		{"नमस्ते", "hi"},
		{"안녕하세요", "ko"},
		{"שלום", "he"},
		{"Γειά σου", "el"},
		{"Hallo, wer ist Dennis?", "de"},
		{"Bonjour !", "fr"},
		{"Qui est Dennis Charles ?", "fr"},
		{"¡Hola! ¿Quién es Dennis?", "es"},
		{"Buenos días", "es"},
		{"Ciao", "it"},
		{"Olá, bom dia", "pt"},
		{"hello there", "en"},
		{"Who is Dennis Charles?", "en"},
		{"HI", "en"},
		{"this message has no greeting", Unknown},
		{"", Unknown},
		{"   ", Unknown},
		{"12345", Unknown},
		{"chill vibes", Unknown},
	}
	for _, tt := range tests {
		if got := Detect(tt.text); got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestDetectDeterministic(t *testing.T) {
	inputs := []string{"Hallo", "مرحبا", "mixed Привет 你好", "nothing here"}
	for _, in := range inputs {
		first := Detect(in)
		for i := 0; i < 10; i++ {
			if got := Detect(in); got != first {
				t.Fatalf("Detect(%q) changed from %q to %q", in, first, got)
			}
		}
	}
}

func TestScriptPriority(t *testing.T) {
	// Arabic outranks Cyrillic and Han regardless of position in the text.
	if got := Detect("Привет 你好 مرحبا"); got != "ar" {
		t.Errorf("expected ar, got %q", got)
	}
	// Han alone is Chinese; Han with Kana is Japanese.
	if got := Detect("漢字"); got != "zh" {
		t.Errorf("expected zh, got %q", got)
	}
	if got := Detect("漢字とかな"); got != "ja" {
		t.Errorf("expected ja, got %q", got)
	}
}

func TestKeywordsMatchWholeWords(t *testing.T) {
	// "hi" inside "this" or "ciao" inside "ciaociao" must not match.
	if got := Detect("this"); got != Unknown {
		t.Errorf("Detect(this) = %q", got)
	}
	if got := Detect("ciaociao"); got != Unknown {
		t.Errorf("Detect(ciaociao) = %q", got)
	}
}

func BenchmarkDetectLatin(b *testing.B) {
	text := "Who is Dennis Charles and what kind of job fits him as an AI engineer?"
	for i := 0; i < b.N; i++ {
		Detect(text)
	}
}

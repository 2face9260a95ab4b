package utils

import "testing"

func TestSha512String(t *testing.T) {
	got := Sha512String("")
	want := "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e"
	if got != want {
		t.Errorf("Sha512String(\"\") = %s", got)
	}
	if Sha512String("a") == Sha512String("b") {
		t.Error("different inputs hash alike")
	}
}

func TestRandSalt(t *testing.T) {
	a := RandSalt(60)
	b := RandSalt(60)
	if a == b {
		t.Error("two salts came out identical")
	}
	if len(a) == 0 {
		t.Error("empty salt")
	}
}

func TestRand16BytesToBase62(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token := Rand16BytesToBase62()
		if seen[token] {
			t.Fatalf("token repeated: %s", token)
		}
		seen[token] = true
		for _, r := range token {
			if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
				t.Fatalf("token has non-base62 rune %q", r)
			}
		}
	}
}

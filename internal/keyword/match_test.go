package keyword

import "testing"

func TestMatches(t *testing.T) {
	cases := []struct {
		text     string
		keywords []string
		want     bool
	}{
		{"this is a mask", []string{"mask"}, true},
		{"pengamaskin", []string{"mask"}, false},
		{"bitmask", []string{"mask"}, false},
		{"cyberhoten är verkliga", []string{"cyberhot"}, true},
		{"RANSOMWARE attack", []string{"ransomware"}, true},
		{"This is a normal article", []string{"ransomware", "malware"}, false},
		{"malware spreads", []string{"ransomware", "malware"}, true},
		{"mask", []string{"mask"}, true},
		{"(mask)", []string{"mask"}, true},
		{"Örebro kommun", []string{"örebro"}, true},
		{"Västerås stad", []string{"västerås"}, true},
		{"anything", nil, false},
		{"anything", []string{""}, false},
		{"", []string{"mask"}, false},
	}

	for _, c := range cases {
		if got := Matches(c.text, c.keywords); got != c.want {
			t.Fatalf("Matches(%q, %q) = %v, want %v", c.text, c.keywords, got, c.want)
		}
	}
}

func TestMatchesOrderIndependent(t *testing.T) {
	text := "Lazarus group behind new phishing wave"
	a := []string{"phishing", "lazarus", "apt28"}
	b := []string{"apt28", "lazarus", "phishing"}
	if Matches(text, a) != Matches(text, b) {
		t.Fatalf("keyword order should not change the result")
	}
}

func TestMatchesNonLetterAfterWord(t *testing.T) {
	// 非单词字符开头的关键词（如 .se）要求前面紧跟单词字符
	if !Matches("visit polisen.se today", []string{".se"}) {
		t.Fatalf("expected .se to match a Swedish domain")
	}
	if Matches("a lone .sequence", []string{".se"}) {
		t.Fatalf(".se preceded by a space should not match")
	}
}

func TestIsSwedishReference(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"Ransomware hits Swedish hospital", true},
		{"Attack on Stockholm municipality", true},
		{"Swedbank reports outage", true},
		{"Phishing campaign targets www.skatteverket.se users", true},
		{"Cisco patches router flaw", false},
		// "lund" 必须在词首
		{"Islund is not a city", false},
	}
	for _, c := range cases {
		if got := IsSwedishReference(c.text); got != c.want {
			t.Fatalf("IsSwedishReference(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

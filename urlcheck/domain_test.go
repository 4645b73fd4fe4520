package urlcheck

import "testing"

func TestRegisteredDomain(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"bare domain", "example.com", "example.com"},
		{"subdomain", "www.example.com", "example.com"},
		{"deep subdomain", "a.b.c.example.com", "example.com"},
		{"compound suffix", "example.co.uk", "example.co.uk"},
		{"subdomain under compound suffix", "shop.example.co.uk", "example.co.uk"},
		{"mixed case with trailing dot", "WWW.Example.COM.", "example.com"},
		{"single label", "intranet", "intranet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RegisteredDomain(tt.host); got != tt.want {
				t.Errorf("RegisteredDomain(%q) = %q, want %q", tt.host, got, tt.want)
			}
		})
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"g00gle", "google"},
		{"paypa1", "paypal"},
		{"amaz0n", "amazon"},
		{"m1cr0s0ft", "mlcrosoft"},
		{"g-o-o-g-l-e", "google"},
		{"faceb00k", "facebook"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := normalizeLabel(tt.in); got != tt.want {
			t.Errorf("normalizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"google", "google", 0},
		{"gogle", "google", 1},
		{"googel", "google", 2},
		{"googlle", "google", 1},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestShannonEntropy(t *testing.T) {
	// All-identical characters carry no information.
	if got := shannonEntropy("aaaaaaaaaaaa"); got != 0 {
		t.Errorf("entropy of uniform string = %f, want 0", got)
	}

	// A random-looking label must measure well above a natural word.
	random := shannonEntropy("xk7qz9w2mf4tr8jp")
	natural := shannonEntropy("documentation")
	if random <= natural {
		t.Errorf("expected random label entropy (%f) above natural word (%f)", random, natural)
	}
	if random <= entropyThreshold {
		t.Errorf("random label entropy %f did not clear the cutoff %f", random, entropyThreshold)
	}
	if natural > entropyThreshold {
		t.Errorf("natural word entropy %f cleared the cutoff %f", natural, entropyThreshold)
	}

	if got := shannonEntropy(""); got != 0 {
		t.Errorf("entropy of empty string = %f, want 0", got)
	}
}

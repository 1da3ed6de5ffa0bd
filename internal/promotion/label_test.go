package promotion

import (
	"strconv"
	"strings"
	"testing"
)

func TestNextLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10А", "11А"},
		{"11 Б", "12 Б"},
		{"9Б", "10Б"},
		{"П-41", "П-51"},
		{"ИВТ-32", "ИВТ-42"},
		{"Graduates", "Graduates"},
		{"", ""},
		{"ИВТ32", "ИВТ42"},
		{"A10", "A20"},
		{"5 класс 2", "6 класс 2"},
		{"ИВТ-32-2", "ИВТ-42-2"},
		{"99999999999999999999999А", "99999999999999999999999А"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NextLabel(tt.in); got != tt.want {
				t.Errorf("NextLabel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		in   string
		want Convention
	}{
		{"10А", School},
		{"11 Б", School},
		{"П-41", Institutional},
		{"ИВТ-32", Institutional},
		{"CS-101", Institutional},
		{"Graduates", School},
		{"A10", Institutional},
	}

	for _, tt := range tests {
		if got := Classify(tt.in); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNextLabel_NoDigitsIsIdentity(t *testing.T) {
	for _, label := range []string{"Graduates", "Выпускники", "  ", "А-Б", "abc-def"} {
		if got := NextLabel(label); got != label {
			t.Errorf("NextLabel(%q) = %q, want unchanged", label, got)
		}
	}
}

func TestNextLabel_PreservesSurroundings(t *testing.T) {
	prefixes := []string{"П-", "ИВТ-", "ab", "Z"}
	suffixes := []string{"", "А", " Б", "/2"}

	for _, p := range prefixes {
		for _, s := range suffixes {
			for _, n := range []int{1, 9, 10, 41, 99} {
				label := p + strconv.Itoa(n) + s
				got := NextLabel(label)

				if !strings.HasPrefix(got, p) || !strings.HasSuffix(got, s) {
					t.Fatalf("NextLabel(%q) = %q: surroundings changed", label, got)
				}
				num, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(got, p), s))
				if err != nil {
					t.Fatalf("NextLabel(%q) = %q: %v", label, got, err)
				}
				if num != n+10 {
					t.Errorf("NextLabel(%q) = %q, want number %d", label, got, n+10)
				}
			}
		}
	}
}

func TestNextLabel_SchoolShapeIncrementsByOne(t *testing.T) {
	for n := 1; n <= 11; n++ {
		for _, s := range []string{"А", "Б", " В", " Г"} {
			label := strconv.Itoa(n) + s
			want := strconv.Itoa(n+1) + s
			if got := NextLabel(label); got != want {
				t.Errorf("NextLabel(%q) = %q, want %q", label, got, want)
			}
		}
	}
}

func TestConventionString(t *testing.T) {
	if School.String() != "school" || Institutional.String() != "institutional" {
		t.Errorf("unexpected names: %s, %s", School, Institutional)
	}
	if Increment(School) != 1 || Increment(Institutional) != 10 {
		t.Error("unexpected increments")
	}
}

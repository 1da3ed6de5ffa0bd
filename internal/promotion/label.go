package promotion

import (
	"regexp"
	"strconv"
)

// Convention naming scheme a group label follows, guessed from its shape
type Convention int

const (
	// School "10А", "11 Б": grade number first, one step per year
	School Convention = iota
	// Institutional "П-41", "ИВТ-32": letter prefix, optional hyphen, digits
	Institutional
)

func (c Convention) String() string {
	switch c {
	case Institutional:
		return "institutional"
	default:
		return "school"
	}
}

var (
	digitRun          = regexp.MustCompile(`[0-9]+`)
	institutionalForm = regexp.MustCompile(`\p{L}-?[0-9]`)
)

// Classify reports Institutional when a letter is directly followed by an
// optional hyphen and a digit anywhere in the label, School otherwise.
// "A10" therefore counts as institutional.
func Classify(label string) Convention {
	if institutionalForm.MatchString(label) {
		return Institutional
	}
	return School
}

// Increment yearly step for a convention
func Increment(c Convention) int {
	if c == Institutional {
		return 10
	}
	return 1
}

// NextLabel returns the label the group is expected to carry next year.
// Only the first run of digits changes; labels without digits (or with a run
// too long to fit an int) come back untouched.
func NextLabel(label string) string {
	loc := digitRun.FindStringIndex(label)
	if loc == nil {
		return label
	}

	n, err := strconv.Atoi(label[loc[0]:loc[1]])
	if err != nil {
		return label
	}

	next := n + Increment(Classify(label))
	return label[:loc[0]] + strconv.Itoa(next) + label[loc[1]:]
}

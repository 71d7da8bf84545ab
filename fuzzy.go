package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// smash smashes "funny characters" (anything that's remotely tricky to type into a command line) in a string into '_'
func smash(in string) string {
	out := strings.Builder{}
	for _, c := range in {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			out.WriteRune(c)
		} else {
			out.WriteRune('_')
		}
	}
	return out.String()
}

// string matching functions, in strictly increasing order of desperation
var fuzzy = []func(input string, candidate string) bool{
	func(i string, c string) bool { return i == c },
	func(i string, c string) bool { return strings.EqualFold(i, c) },
	func(i string, c string) bool { return smash(strings.ToUpper(i)) == smash(strings.ToUpper(c)) },
	func(i string, c string) bool {
		return strings.HasPrefix(smash(strings.ToUpper(c)), smash(strings.ToUpper(i)))
	},
	func(i string, c string) bool {
		return strings.Contains(smash(strings.ToUpper(c)), smash(strings.ToUpper(i)))
	},
}

var ErrNoMatch = errors.New("no match")

// fuzzy_reverse_lookup looks up "backwards" in a translation map
//
// trans: map to be looked up in
// to: map value, as typed by the user
// what: type of thing to be looked up, for error messages
//
// Returns the key and the value actually matched (not necessarily equal to "to").
func fuzzy_reverse_lookup[K comparable](trans map[K]string, to string, what string) (K, string, error) {
	var K0 K

	if strings.TrimSpace(to) == "" {
		return K0, "", fmt.Errorf("%w: empty %v", ErrNoMatch, what)
	}

	for _, match := range fuzzy {
		matches := []K{}
		names := []string{}
		for k, v := range trans {
			if match(to, v) {
				matches = append(matches, k)
				names = append(names, v)
			}
		}
		if len(matches) == 0 {
			continue
		}
		if len(matches) > 1 {
			slices.Sort(names)
			return K0, "", fmt.Errorf("ambiguous %v: %v could be anything from {%v}", what, to, strings.Join(names, ", "))
		}

		return matches[0], names[0], nil
	}

	return K0, "", fmt.Errorf("%w: %v could not be matched to a valid value for %v", ErrNoMatch, to, what)
}

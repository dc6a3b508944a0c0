package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// CodeDelimiter joins the three fragment filenames into an NFD code.
const CodeDelimiter = ","

// ErrEmptyCatalog is returned when a part kind has no fragments to pick from.
var ErrEmptyCatalog = errors.New("empty fragment catalog")

// Parts is one randomly composed fragment combination. Code is the canonical
// identity string: body, mouth, eyes joined in that fixed order.
type Parts struct {
	Body  string
	Mouth string
	Eyes  string
	Code  string
}

// Pick selects one fragment uniformly at random from each catalog and derives
// the code. It is the caller's job to supply catalog snapshots; Pick itself
// touches no I/O.
func Pick(bodies, mouths, eyes []string) (Parts, error) {
	if len(bodies) == 0 || len(mouths) == 0 || len(eyes) == 0 {
		return Parts{}, fmt.Errorf("picking parts: %w", ErrEmptyCatalog)
	}

	body := bodies[rand.Intn(len(bodies))]
	mouth := mouths[rand.Intn(len(mouths))]
	eye := eyes[rand.Intn(len(eyes))]

	return Parts{
		Body:  body,
		Mouth: mouth,
		Eyes:  eye,
		Code:  Code(body, mouth, eye),
	}, nil
}

// Code derives the canonical identity string for a fragment combination.
// Order is fixed and significant.
func Code(body, mouth, eyes string) string {
	return body + CodeDelimiter + mouth + CodeDelimiter + eyes
}

// SplitCode is the inverse of Code, recovering the parts from a stored code
// so a missing image can be recomposed.
func SplitCode(code string) Parts {
	split := strings.SplitN(code, CodeDelimiter, 3)
	p := Parts{Code: code}
	if len(split) > 0 {
		p.Body = split[0]
	}
	if len(split) > 1 {
		p.Mouth = split[1]
	}
	if len(split) > 2 {
		p.Eyes = split[2]
	}
	return p
}

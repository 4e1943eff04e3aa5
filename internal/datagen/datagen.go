// Package datagen produces random but reproducible test inputs.
package datagen

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/themizzi/saucecheck/internal/catalog"
	"github.com/themizzi/saucecheck/internal/scenario"
)

const (
	lower   = "abcdefghijklmnopqrstuvwxyz"
	upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
	symbols = "!@#$%^&*"
)

var (
	firstNames = []string{"Ada", "Grace", "Linus", "Ken", "Barbara", "Dennis", "Margaret", "Alan"}
	lastNames  = []string{"Lovelace", "Hopper", "Torvalds", "Thompson", "Liskov", "Ritchie", "Hamilton", "Turing"}
)

// Generator draws test data from its own random source.
type Generator struct {
	rnd *rand.Rand
}

// New returns a generator over rnd. A nil rnd uses a randomly seeded source.
func New(rnd *rand.Rand) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{rnd: rnd}
}

// NewSeeded returns a generator whose output depends only on seed.
func NewSeeded(seed uint64) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed)))
}

// Username returns a lowercase name with a numeric suffix.
func (g *Generator) Username() string {
	return "user_" + g.pick(lower, 6) + g.pick(digits, 4)
}

// Email returns an address at domain, or example.com when domain is empty.
func (g *Generator) Email(domain string) string {
	if domain == "" {
		domain = "example.com"
	}
	return g.pick(lower, 8) + "@" + domain
}

// Password returns a password of length characters containing at least one
// lowercase letter, uppercase letter, digit and symbol. Lengths below four
// are raised to four.
func (g *Generator) Password(length int) string {
	if length < 4 {
		length = 4
	}
	chars := []byte(g.pick(lower, 1) + g.pick(upper, 1) + g.pick(digits, 1) + g.pick(symbols, 1))
	chars = append(chars, g.pick(lower+upper+digits+symbols, length-4)...)
	g.rnd.Shuffle(len(chars), func(i, j int) { chars[i], chars[j] = chars[j], chars[i] })
	return string(chars)
}

// CustomerInfo returns valid checkout information.
func (g *Generator) CustomerInfo() scenario.CustomerInfo {
	return scenario.CustomerInfo{
		FirstName:  firstNames[g.rnd.IntN(len(firstNames))],
		LastName:   lastNames[g.rnd.IntN(len(lastNames))],
		PostalCode: g.pick(digits, 5),
	}
}

// CardNumber returns a 16-digit number that passes the Luhn check.
func (g *Generator) CardNumber() string {
	digitsOut := make([]int, 16)
	digitsOut[0] = 4
	for i := 1; i < 15; i++ {
		digitsOut[i] = g.rnd.IntN(10)
	}
	digitsOut[15] = luhnCheckDigit(digitsOut[:15])

	var b strings.Builder
	for _, d := range digitsOut {
		fmt.Fprintf(&b, "%d", d)
	}
	return b.String()
}

// Products returns count distinct catalog product names. count is clamped
// to the catalog size.
func (g *Generator) Products(count int) []string {
	names := catalog.Names()
	g.rnd.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	if count < 0 {
		count = 0
	}
	if count > len(names) {
		count = len(names)
	}
	return names[:count]
}

func (g *Generator) pick(alphabet string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[g.rnd.IntN(len(alphabet))]
	}
	return string(b)
}

// luhnCheckDigit computes the digit that makes payload+digit Luhn-valid.
func luhnCheckDigit(payload []int) int {
	sum := 0
	double := true
	for i := len(payload) - 1; i >= 0; i-- {
		d := payload[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return (10 - sum%10) % 10
}

// Luhn reports whether number is a valid Luhn string of digits.
func Luhn(number string) bool {
	if number == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

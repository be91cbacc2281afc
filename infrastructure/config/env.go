package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	domainconfig "github.com/felixgeelhaar/descent/domain/config"
)

var (
	// ${VAR}, ${VAR:-default}, ${VAR:?message}
	bracketPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*|:\?[^}]*)?\}`)
	// $VAR
	simplePattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// envExpander expands environment references in configuration text.
//
// Supported forms:
//   - ${VAR} expands to VAR, or "" when unset
//   - ${VAR:-default} expands to VAR, or default when unset or empty
//   - ${VAR:?message} fails with message when VAR is unset or empty
//   - $VAR behaves like ${VAR}
//
// In strict mode an unset variable without a default is an error.
type envExpander struct {
	strict  bool
	missing []string
}

// Expand returns input with every reference replaced.
func (e *envExpander) Expand(input string) (string, error) {
	e.missing = nil

	result := bracketPattern.ReplaceAllStringFunc(input, e.bracket)
	result = simplePattern.ReplaceAllStringFunc(result, func(match string) string {
		return e.lookup(match[1:])
	})

	if len(e.missing) > 0 {
		return "", fmt.Errorf("%w: %s", domainconfig.ErrMissingEnvVar, strings.Join(e.missing, ", "))
	}
	return result, nil
}

func (e *envExpander) bracket(match string) string {
	name, modifier, _ := strings.Cut(match[2:len(match)-1], ":")
	value, set := os.LookupEnv(name)

	switch {
	case strings.HasPrefix(modifier, "-"):
		if !set || value == "" {
			return modifier[1:]
		}
		return value
	case strings.HasPrefix(modifier, "?"):
		if !set || value == "" {
			e.missing = append(e.missing, fmt.Sprintf("%s: %s", name, modifier[1:]))
			return match
		}
		return value
	default:
		return e.lookup(name)
	}
}

func (e *envExpander) lookup(name string) string {
	value, set := os.LookupEnv(name)
	if !set && e.strict {
		e.missing = append(e.missing, name)
	}
	return value
}

// ExpandEnv expands environment references, leaving unset ones empty.
func ExpandEnv(input string) string {
	e := &envExpander{}
	result, _ := e.Expand(input)
	return result
}

// ExpandEnvStrict expands environment references and fails on any unset one.
func ExpandEnvStrict(input string) (string, error) {
	e := &envExpander{strict: true}
	return e.Expand(input)
}

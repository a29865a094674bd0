package zoo

import (
	"strings"

	"gopkg.in/yaml.v3"

	"quirk/internal/errs"
	"quirk/internal/transform"
)

// ParseSpec splits a compact spec such as `redact(rate=0.1, merge_adjacent=true)`
// into a kind name and parameters. A bare name has no parameters. Values are
// YAML flow scalars or sequences: 3, 0.5, true, 'text', [a, b].
func ParseSpec(spec string) (string, transform.Params, error) {
	spec = strings.TrimSpace(spec)
	open := strings.IndexByte(spec, '(')
	if open < 0 {
		if spec == "" {
			return "", transform.Params{}, errs.Config("spec", "empty transform spec")
		}
		return spec, transform.Params{}, nil
	}
	if !strings.HasSuffix(spec, ")") {
		return "", transform.Params{}, errs.Config("spec", "%q: missing closing parenthesis", spec)
	}
	name := strings.TrimSpace(spec[:open])
	if name == "" {
		return "", transform.Params{}, errs.Config("spec", "%q: missing transform name", spec)
	}
	args, err := splitArgs(spec[open+1 : len(spec)-1])
	if err != nil {
		return "", transform.Params{}, errs.Config("spec", "%q: %v", spec, err)
	}
	var p transform.Params
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return "", transform.Params{}, errs.Config("spec", "%q: argument %q is not key=value", spec, arg)
		}
		if _, dup := p.Get(key); dup {
			return "", transform.Params{}, errs.Config("spec", "%q: parameter %q given twice", spec, key)
		}
		var decoded any
		if err := yaml.Unmarshal([]byte(strings.TrimSpace(raw)), &decoded); err != nil {
			return "", transform.Params{}, errs.Config("spec", "%q: parameter %q: %v", spec, key, err)
		}
		v, err := transform.ValueOf(decoded)
		if err != nil {
			return "", transform.Params{}, errs.Config("spec", "%q: parameter %q: %v", spec, key, err)
		}
		p.Set(key, v)
	}
	return name, p, nil
}

// splitArgs splits on commas outside brackets and quotes.
func splitArgs(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var (
		out   []string
		depth int
		quote rune
		start int
	)
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '[':
			depth++
		case r == ']':
			depth--
		case r == ',' && depth == 0:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	if quote != 0 || depth != 0 {
		return nil, errs.Config("spec", "unbalanced quotes or brackets")
	}
	return append(out, s[start:]), nil
}

// FromSpec parses and builds a transform from a compact spec.
func FromSpec(spec string) (*transform.Transform, error) {
	name, p, err := ParseSpec(spec)
	if err != nil {
		return nil, err
	}
	return New(name, transform.Spec{Params: p})
}

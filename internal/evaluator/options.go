package evaluator

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Alias maps identifier spellings onto a built-in function. The pattern is a
// regular expression matched against the whole identifier.
type Alias struct {
	Pattern string `yaml:"pattern"`
	Target  string `yaml:"target"`
}

// Options configures a new interpreter instance. The zero value is usable.
type Options struct {
	// Aliases are tried, in order, when an identifier matches no variable,
	// function, built-in or command name. Targets may name built-ins or
	// command words.
	Aliases []Alias `yaml:"aliases"`

	// Constants seeds extra read-only names; values are numeric literals.
	Constants map[string]string `yaml:"constants"`

	// Format is the initial display mode, "short" (default) or "long".
	Format string `yaml:"format"`

	// EvalDepth overrides the evaluation recursion limit when positive.
	EvalDepth int `yaml:"eval_depth"`

	// Builtins extends this instance's built-in function table. Names must
	// not collide with the standard built-ins.
	Builtins map[string]BuiltinFunc `yaml:"-"`

	// Commands extends this instance's command-word table. Names must not
	// collide with the standard commands.
	Commands map[string]CommandFunc `yaml:"-"`
}

type aliasRule struct {
	re     *regexp.Regexp
	target string
}

// ParseOptions decodes and validates yaml option data. Validation is eager:
// bad patterns and unknown alias targets fail here, not at first use.
func ParseOptions(data []byte) (*Options, error) {
	opts := &Options{}
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o *Options) validate() error {
	seen := map[string]bool{}
	for _, a := range o.Aliases {
		if a.Pattern == "" || a.Target == "" {
			return fmt.Errorf("options: alias needs both pattern and target")
		}
		if seen[a.Pattern] {
			return fmt.Errorf("options: duplicate alias pattern %q", a.Pattern)
		}
		seen[a.Pattern] = true
		if _, err := regexp.Compile(anchored(a.Pattern)); err != nil {
			return fmt.Errorf("options: alias pattern %q: %w", a.Pattern, err)
		}
		if !o.knownTarget(a.Target) {
			return fmt.Errorf("options: alias target %q is not a built-in or command", a.Target)
		}
	}
	for name := range o.Builtins {
		if name == "" {
			return fmt.Errorf("options: builtin needs a name")
		}
		if _, ok := builtins[name]; ok {
			return fmt.Errorf("options: builtin %q shadows a standard built-in", name)
		}
	}
	for name := range o.Commands {
		if name == "" {
			return fmt.Errorf("options: command needs a name")
		}
		if _, ok := defaultCommands[name]; ok {
			return fmt.Errorf("options: command %q shadows a standard command", name)
		}
	}
	switch o.Format {
	case "", "short", "long":
	default:
		return fmt.Errorf("options: format must be \"short\" or \"long\", got %q", o.Format)
	}
	return nil
}

// knownTarget reports whether an alias target resolves to any table entry the
// new instance will carry.
func (o *Options) knownTarget(name string) bool {
	if _, ok := builtins[name]; ok {
		return true
	}
	if _, ok := defaultCommands[name]; ok {
		return true
	}
	if _, ok := o.Builtins[name]; ok {
		return true
	}
	_, ok := o.Commands[name]
	return ok
}

func (o *Options) compileAliases() []aliasRule {
	rules := make([]aliasRule, 0, len(o.Aliases))
	for _, a := range o.Aliases {
		rules = append(rules, aliasRule{
			re:     regexp.MustCompile(anchored(a.Pattern)),
			target: a.Target,
		})
	}
	return rules
}

func anchored(pattern string) string {
	return "^(?:" + pattern + ")$"
}

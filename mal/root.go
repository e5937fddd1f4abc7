package mal

import "os"

// NewRootEnv constructs a fresh root Environment: Config options are applied
// (wiring in the Reader/Printer the caller provides), NativeFunctions are
// installed, *ARGV* is bound to an empty Vector, and, when a Reader was
// provided, the bootstrap source is evaluated.
func NewRootEnv(opts ...Config) (*Environment, error) {
	env := NewEnvironment(nil)
	env.Runtime = &Runtime{Stdout: os.Stdout, Stderr: os.Stderr}
	for _, opt := range opts {
		opt(env)
	}
	installBuiltins(env)
	env.Set(NewSymbol("*ARGV*"), NewVector())
	if env.Runtime.Reader != nil {
		if err := runBootstrap(env); err != nil {
			return nil, err
		}
	}
	return env, nil
}

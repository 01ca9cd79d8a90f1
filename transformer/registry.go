package transformer

// Factory constructs one transformer candidate. The value is typed any on
// purpose: conformance to the Transformer contract is checked by the loader,
// which turns a mismatch into a structured config issue instead of a panic.
type Factory func() (any, error)

var registry = map[string]Factory{}

// Register is called from each plugin's init(). Later registrations under the
// same name win, which lets tests shadow built-ins.
func Register(name string, f Factory) {
	registry[name] = f
}

// Lookup resolves a registered transformer name.
func Lookup(name string) (Factory, bool) {
	f, ok := registry[name]
	return f, ok
}

package scheme

// Mode identifies one of the OS-provided plans.
type Mode string

const (
	PowerSaver          Mode = "power_saver"
	Balanced            Mode = "balanced"
	HighPerformance     Mode = "high_performance"
	UltimatePerformance Mode = "ultimate_performance"
)

// BuiltIn is an OS-provided scheme with a fixed, well-known GUID.
type BuiltIn struct {
	Mode Mode   `json:"mode"`
	Name string `json:"name"`
	GUID string `json:"guid"`
}

var builtIns = [...]BuiltIn{
	{PowerSaver, "Power saver", "a1841308-3541-4fab-bc81-f71556f20b4a"},
	{Balanced, "Balanced", "381b4222-f694-41f0-9685-ff5bb260df2e"},
	{HighPerformance, "High performance", "8c5e7fda-e8bf-4a96-9a85-a6e23a8c635c"},
	{UltimatePerformance, "Ultimate Performance", "e9a42b02-d5df-448d-aa00-03f14749eb61"},
}

// BuiltIns returns a copy of the four built-in schemes in quick-switch order.
func BuiltIns() []BuiltIn {
	out := make([]BuiltIn, len(builtIns))
	copy(out, builtIns[:])
	return out
}

// IsBuiltIn reports whether guid is one of the OS-provided schemes.
func IsBuiltIn(guid string) bool {
	guid = Canonical(guid)
	for _, b := range builtIns {
		if b.GUID == guid {
			return true
		}
	}
	return false
}

// LookupBuiltIn returns the built-in scheme for mode.
func LookupBuiltIn(mode Mode) (BuiltIn, bool) {
	for _, b := range builtIns {
		if b.Mode == mode {
			return b, true
		}
	}
	return BuiltIn{}, false
}
